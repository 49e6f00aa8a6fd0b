package store

import "github.com/hammamikhairi/pantrycost/internal/domain"

// seedState returns the example data a first run starts with: four
// products and three price sets, one entry each.
func seedState() *domain.State {
	products := []domain.Product{
		{ID: "milk", Name: "Milk", Icon: domain.SymbolicIcon("trash")},
		{ID: "sugar", Name: "Sugar", Icon: domain.SymbolicIcon("powerplug")},
		{ID: "cream-cheese", Name: "Cream cheese", Icon: domain.SymbolicIcon("dice")},
		{ID: "flour", Name: "Flour", Icon: domain.SymbolicIcon("lock")},
	}

	return &domain.State{
		Products: products,
		PriceSets: []domain.PriceSet{
			{
				ID:       "first",
				Name:     "First",
				Currency: domain.USD.Ptr(),
				Entries: []domain.PriceEntry{
					{ID: "first-milk", ProductID: "milk", Price: 1.2, Quantity: 1, Unit: domain.UnitPiece.Ptr()},
				},
			},
			{
				ID:   "second",
				Name: "Second",
				Entries: []domain.PriceEntry{
					{ID: "second-sugar", ProductID: "sugar", Price: 0.9, Quantity: 1, Unit: domain.UnitKilogram.Ptr()},
				},
			},
			{
				ID:   "third",
				Name: "Third",
				Entries: []domain.PriceEntry{
					{ID: "third-flour", ProductID: "flour", Price: 0.6, Quantity: 1, Unit: domain.UnitKilogram.Ptr()},
				},
			},
		},
	}
}
