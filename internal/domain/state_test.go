package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *State {
	return &State{
		CurrentCurrency: USD.Ptr(),
		Products: []Product{
			{ID: "milk", Name: "Milk", Icon: SymbolicIcon("trash")},
			{ID: "logo", Name: "Logo", Icon: EmbeddedImage([]byte{1, 2, 3})},
		},
		PriceSets: []PriceSet{{
			ID:       "market",
			Name:     "Market",
			Currency: RUB.Ptr(),
			Entries: []PriceEntry{
				{ID: "e1", ProductID: "milk", Price: 80, Quantity: 1, Unit: UnitPiece.Ptr()},
			},
		}},
		Recipes: []Recipe{{
			ID:          "pancakes",
			Name:        "Pancakes",
			UnitsMade:   4,
			PriceSetID:  "market",
			Ingredients: []RecipeIngredient{{ID: "i1", ProductID: "milk", Amount: 2, Unit: UnitPiece.Ptr()}},
		}},
	}
}

func TestCloneSharesNothing(t *testing.T) {
	orig := sampleState()
	c := orig.Clone()
	require.Equal(t, orig, c)

	*c.CurrentCurrency = ILS
	c.Products[0].Name = "Oat milk"
	c.Products[1].Icon.Image[0] = 9
	*c.PriceSets[0].Currency = USD
	*c.PriceSets[0].Entries[0].Unit = UnitGram
	c.PriceSets[0].Entries[0].Price = 1
	*c.Recipes[0].Ingredients[0].Unit = UnitKilogram
	c.Recipes[0].Ingredients = append(c.Recipes[0].Ingredients, RecipeIngredient{ID: "i2"})

	assert.Equal(t, sampleState(), orig)
}

func TestIndexes(t *testing.T) {
	st := sampleState()
	assert.Equal(t, 1, st.ProductIndex("logo"))
	assert.Equal(t, -1, st.ProductIndex("sugar"))
	assert.Equal(t, 0, st.PriceSetIndex("market"))
	assert.Equal(t, -1, st.RecipeIndex("waffles"))
}

func TestResolvePriceSet(t *testing.T) {
	st := sampleState()
	r := st.Recipes[0]

	ps := st.ResolvePriceSet(&r)
	require.NotNil(t, ps)
	assert.Equal(t, "Market", ps.Name)

	r.PriceSetID = "gone"
	assert.Nil(t, st.ResolvePriceSet(&r), "dangling reference resolves to nothing")

	r.PriceSetID = ""
	assert.Nil(t, st.ResolvePriceSet(&r))
	assert.Nil(t, st.ResolvePriceSet(nil))
}

func TestPriceEntry(t *testing.T) {
	e := PriceEntry{Price: 3, Quantity: 2, Unit: UnitKilogram.Ptr()}
	assert.True(t, e.IsValid())
	per, ok := e.PricePerUnit()
	assert.True(t, ok)
	assert.InDelta(t, 1.5, per, 1e-9)

	e.Unit = nil
	assert.False(t, e.IsValid())

	free := PriceEntry{Price: 0, Quantity: 1, Unit: UnitPiece.Ptr()}
	assert.True(t, free.IsValid(), "a zero price is allowed")

	_, ok = PriceEntry{Price: 3}.PricePerUnit()
	assert.False(t, ok)
}

func TestSortProductsByName(t *testing.T) {
	ps := []Product{{ID: "3", Name: "b"}, {ID: "1", Name: "B"}, {ID: "2", Name: "a"}}
	SortProductsByName(ps)
	assert.Equal(t, []string{"B", "a", "b"}, []string{ps[0].Name, ps[1].Name, ps[2].Name})
}
