package domain

// PriceEntry is one product's price within a price set: Price buys
// Quantity of Unit.
type PriceEntry struct {
	ID        string
	ProductID string
	Price     float64
	Quantity  float64
	Unit      *Unit
}

// IsValid reports whether the entry can be used for costing: the
// quantity must be positive and the unit set. A zero price is allowed.
func (e PriceEntry) IsValid() bool {
	return e.Quantity > 0 && e.Unit != nil
}

// PricePerUnit returns Price / Quantity. The second result is false when
// Quantity is not positive.
func (e PriceEntry) PricePerUnit() (float64, bool) {
	if e.Quantity <= 0 {
		return 0, false
	}
	return e.Price / e.Quantity, true
}

// PriceSet is a named, currency-tagged collection of price entries, one
// vendor's or one shopping trip's prices. It holds at most one entry per
// product.
type PriceSet struct {
	ID       string
	Name     string
	Currency *Currency
	Entries  []PriceEntry
}

// Entry returns the entry for the given product.
func (ps *PriceSet) Entry(productID string) (PriceEntry, bool) {
	if ps == nil {
		return PriceEntry{}, false
	}
	for _, e := range ps.Entries {
		if e.ProductID == productID {
			return e, true
		}
	}
	return PriceEntry{}, false
}

// ProductIDs returns the ids of all covered products, in entry order.
func (ps *PriceSet) ProductIDs() []string {
	ids := make([]string, 0, len(ps.Entries))
	for _, e := range ps.Entries {
		ids = append(ids, e.ProductID)
	}
	return ids
}

// Clone returns a deep copy.
func (ps PriceSet) Clone() PriceSet {
	out := ps
	if ps.Currency != nil {
		out.Currency = ps.Currency.Ptr()
	}
	out.Entries = make([]PriceEntry, len(ps.Entries))
	for i, e := range ps.Entries {
		if e.Unit != nil {
			e.Unit = e.Unit.Ptr()
		}
		out.Entries[i] = e
	}
	return out
}
