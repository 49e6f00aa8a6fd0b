package costing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrycost/internal/domain"
)

func TestSetEntriesReconciles(t *testing.T) {
	ps := domain.PriceSet{
		ID:   "ps",
		Name: "Corner shop",
		Entries: []domain.PriceEntry{
			entry("milk", 3, 1, domain.UnitPiece.Ptr()),
			entry("sugar", 5, 2, domain.UnitKilogram.Ptr()),
		},
	}

	out, diff := SetEntries(ps, []string{"sugar", "flour"}, seqIDs("entry"))

	assert.Equal(t, Diff{Added: 1, Removed: 1}, diff)
	require.Len(t, out.Entries, 2)

	_, hasMilk := out.Entry("milk")
	assert.False(t, hasMilk)

	sugar, ok := out.Entry("sugar")
	require.True(t, ok)
	assert.Equal(t, "e-sugar", sugar.ID)
	assert.Equal(t, 5.0, sugar.Price)
	assert.Equal(t, 2.0, sugar.Quantity)
	require.NotNil(t, sugar.Unit)
	assert.Equal(t, domain.UnitKilogram, *sugar.Unit)

	flour, ok := out.Entry("flour")
	require.True(t, ok)
	assert.Equal(t, "entry-1", flour.ID)
	assert.Zero(t, flour.Price)
	assert.Zero(t, flour.Quantity)
	assert.Nil(t, flour.Unit)
	assert.False(t, flour.IsValid(), "fresh entries stay invalid until filled in")

	// The input is not modified.
	assert.Len(t, ps.Entries, 2)
	_, stillHasMilk := ps.Entry("milk")
	assert.True(t, stillHasMilk)
}

func TestSetEntriesIdempotent(t *testing.T) {
	ps := domain.PriceSet{ID: "ps", Entries: []domain.PriceEntry{entry("milk", 3, 1, domain.UnitPiece.Ptr())}}
	selection := []string{"milk", "flour", "flour"}

	once, diff := SetEntries(ps, selection, seqIDs("a"))
	assert.Equal(t, 1, diff.Added)
	twice, diff := SetEntries(once, selection, seqIDs("b"))

	assert.False(t, diff.Changed())
	assert.Equal(t, once.Entries, twice.Entries)
	require.NoError(t, CheckUniqueProducts(twice.ProductIDs()))
}

func TestSetEntriesDoesNotAlias(t *testing.T) {
	ps := domain.PriceSet{ID: "ps", Entries: []domain.PriceEntry{entry("milk", 3, 1, domain.UnitPiece.Ptr())}}
	out, _ := SetEntries(ps, []string{"milk"}, seqIDs("x"))

	*out.Entries[0].Unit = domain.UnitGram
	out.Entries[0].Price = 99

	assert.Equal(t, domain.UnitPiece, *ps.Entries[0].Unit)
	assert.Equal(t, 3.0, ps.Entries[0].Price)
}

func TestSetIngredientsDefaults(t *testing.T) {
	r := domain.Recipe{
		ID:        "r",
		Name:      "Cake",
		UnitsMade: 1,
		Ingredients: []domain.RecipeIngredient{
			ingredient("milk", 0.5, domain.UnitKilogram.Ptr()),
			ingredient("sugar", 200, domain.UnitGram.Ptr()),
		},
	}

	out, diff := SetIngredients(r, []string{"milk", "flour"}, seqIDs("ing"))
	assert.Equal(t, Diff{Added: 1, Removed: 1}, diff)

	milk, ok := out.Ingredient("milk")
	require.True(t, ok)
	assert.Equal(t, 0.5, milk.Amount)
	assert.Equal(t, domain.UnitKilogram, *milk.Unit)

	flour, ok := out.Ingredient("flour")
	require.True(t, ok)
	assert.Equal(t, "ing-1", flour.ID)
	assert.Equal(t, 1.0, flour.Amount)
	require.NotNil(t, flour.Unit)
	assert.Equal(t, domain.UnitPiece, *flour.Unit)

	_, ok = out.Ingredient("sugar")
	assert.False(t, ok)

	again, diff := SetIngredients(out, []string{"milk", "flour"}, seqIDs("other"))
	assert.False(t, diff.Changed())
	assert.Equal(t, out.Ingredients, again.Ingredients)
}

func TestCheckUniqueProducts(t *testing.T) {
	require.NoError(t, CheckUniqueProducts([]string{"a", "b"}))
	err := CheckUniqueProducts([]string{"a", "b", "a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}
