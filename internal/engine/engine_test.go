package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/logger"
	"github.com/hammamikhairi/pantrycost/internal/store"
)

// seqGenerator issues predictable ids.
type seqGenerator struct{ n int }

func (g *seqGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newTestEngine(t *testing.T, opts ...store.Option) *Engine {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return New(store.New(log, opts...), log, WithIDGenerator(&seqGenerator{}))
}

func TestAddProductValidates(t *testing.T) {
	e := newTestEngine(t, store.WithEmptyState())
	ctx := context.Background()

	p, err := e.AddProduct(ctx, ProductInput{Name: "  Butter "})
	require.NoError(t, err)
	assert.Equal(t, "id-1", p.ID)
	assert.Equal(t, "Butter", p.Name)
	assert.Equal(t, domain.SymbolicIcon("cart"), p.Icon)

	_, err = e.AddProduct(ctx, ProductInput{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.AddProduct(ctx, ProductInput{Name: "butter"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestProductIcons(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	e := New(store.New(log, store.WithEmptyState()), log, WithIDGenerator(&seqGenerator{}), WithDefaultIcon("leaf"))
	ctx := context.Background()

	p, err := e.AddProduct(ctx, ProductInput{Name: "Basil"})
	require.NoError(t, err)
	assert.Equal(t, domain.SymbolicIcon("leaf"), p.Icon)

	p, err = e.AddProduct(ctx, ProductInput{Name: "Salt", Icon: "cube"})
	require.NoError(t, err)
	assert.Equal(t, domain.SymbolicIcon("cube"), p.Icon)

	require.NoError(t, e.SetProductIcon(ctx, p.ID, " jar "))
	got, err := e.FindProduct("Salt")
	require.NoError(t, err)
	assert.Equal(t, domain.SymbolicIcon("jar"), got.Icon)

	assert.ErrorIs(t, e.SetProductIcon(ctx, p.ID, "  "), domain.ErrInvalidInput)
	assert.ErrorIs(t, e.SetProductIcon(ctx, "missing", "jar"), domain.ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	e := newTestEngine(t)

	names := func(ps []domain.Product) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Name
		}
		return out
	}

	assert.Equal(t, []string{"Cream cheese", "Flour", "Milk", "Sugar"}, names(e.SearchProducts("")))
	assert.Equal(t, []string{"Cream cheese", "Flour", "Sugar"}, names(e.SearchProducts("R")))
	assert.Equal(t, []string{"Milk"}, names(e.SearchProducts("mil")))
	assert.Empty(t, e.SearchProducts("zucchini"))
}

func TestFindByReference(t *testing.T) {
	e := newTestEngine(t)

	p, err := e.FindProduct("milk")
	require.NoError(t, err)
	assert.Equal(t, "Milk", p.Name)

	p, err = e.FindProduct("cream")
	require.NoError(t, err)
	assert.Equal(t, "cream-cheese", p.ID)

	_, err = e.FindProduct("r")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.FindProduct("tofu")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ps, err := e.FindPriceSet("SECOND")
	require.NoError(t, err)
	assert.Equal(t, "second", ps.ID)
}

func TestPriceSetFlow(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	ps, err := e.AddPriceSet(ctx, PriceSetInput{Name: "Corner shop", Currency: "ils"})
	require.NoError(t, err)
	require.NotNil(t, ps.Currency)
	assert.Equal(t, domain.ILS, *ps.Currency)

	_, err = e.AddPriceSet(ctx, PriceSetInput{Name: "Bad", Currency: "eur"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	diff, err := e.SelectPriceSetProducts(ctx, ps.ID, []string{"milk", "flour"})
	require.NoError(t, err)
	assert.Equal(t, 2, diff.Added)

	require.NoError(t, e.SetPrice(ctx, ps.ID, "milk", PriceInput{Price: 6, Quantity: 1, Unit: "unit"}))
	require.NoError(t, e.SetPrice(ctx, ps.ID, "flour", PriceInput{Price: 5, Quantity: 1000, Unit: "g"}))

	err = e.SetPrice(ctx, ps.ID, "flour", PriceInput{Price: -1, Quantity: 1, Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = e.SetPrice(ctx, ps.ID, "flour", PriceInput{Price: 1, Quantity: 1, Unit: "litre"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := e.Store().PriceSet(ps.ID)
	require.NoError(t, err)
	flour, ok := got.Entry("flour")
	require.True(t, ok)
	assert.Equal(t, domain.UnitGram, *flour.Unit)

	diff, err = e.SelectPriceSetProducts(ctx, ps.ID, []string{"milk", "flour"})
	require.NoError(t, err)
	assert.False(t, diff.Changed())

	require.NoError(t, e.SetPriceSetCurrency(ctx, ps.ID, ""))
	got, err = e.Store().PriceSet(ps.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Currency)
}

// Reproduces the worked example: 2 pieces of milk at 6 per piece and
// 500 g of flour at 5 per 1000 g cost 14.5.
func TestRecipeCost(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	ps, err := e.AddPriceSet(ctx, PriceSetInput{Name: "Shop", Currency: "usd"})
	require.NoError(t, err)
	_, err = e.SelectPriceSetProducts(ctx, ps.ID, []string{"milk", "flour"})
	require.NoError(t, err)
	require.NoError(t, e.SetPrice(ctx, ps.ID, "milk", PriceInput{Price: 6, Quantity: 1, Unit: "unit"}))
	require.NoError(t, e.SetPrice(ctx, ps.ID, "flour", PriceInput{Price: 5, Quantity: 1000, Unit: "grams"}))

	r, err := e.AddRecipe(ctx, RecipeInput{Name: "Pancakes", UnitsMade: 2})
	require.NoError(t, err)

	c, err := e.RecipeCost(r.ID)
	require.NoError(t, err)
	assert.Nil(t, c.PriceSet)
	assert.False(t, c.HasTotal, "no price set, no total")

	diff, err := e.SelectRecipeProducts(ctx, r.ID, []string{"milk", "flour"})
	require.NoError(t, err)
	assert.Equal(t, 2, diff.Added)
	require.NoError(t, e.SetIngredient(ctx, r.ID, "milk", IngredientInput{Amount: 2, Unit: "unit"}))

	v, err := e.Classify(r.ID, "milk")
	require.NoError(t, err)
	assert.Equal(t, domain.NoPriceSetSelected, v)

	require.NoError(t, e.AssignPriceSet(ctx, r.ID, ps.ID))

	v, err = e.Classify(r.ID, "flour")
	require.NoError(t, err)
	assert.Equal(t, domain.UnitMismatch, v, "new ingredients default to pieces")

	c, err = e.RecipeCost(r.ID)
	require.NoError(t, err)
	assert.False(t, c.HasTotal)
	assert.Equal(t, 1, c.ValidLines)

	require.NoError(t, e.SetIngredient(ctx, r.ID, "flour", IngredientInput{Amount: 500, Unit: "grams"}))

	c, err = e.RecipeCost(r.ID)
	require.NoError(t, err)
	require.True(t, c.HasTotal)
	assert.InDelta(t, 14.5, c.Total, 1e-9)
	assert.InDelta(t, 7.25, c.PerUnit, 1e-9)
	require.NotNil(t, c.Currency)
	assert.Equal(t, domain.USD, *c.Currency)
	assert.Equal(t, "Flour", c.Lines[0].ProductName)

	_, err = e.Classify(r.ID, "sugar")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDisplayCurrencyFallback(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	assert.Nil(t, e.DisplayCurrency(nil))

	require.NoError(t, e.SelectCurrency(ctx, "rub"))
	c := e.DisplayCurrency(nil)
	require.NotNil(t, c)
	assert.Equal(t, domain.RUB, *c)

	ps := &domain.PriceSet{Currency: domain.ILS.Ptr()}
	assert.Equal(t, domain.ILS, *e.DisplayCurrency(ps))

	assert.ErrorIs(t, e.SelectCurrency(ctx, "gold"), domain.ErrInvalidInput)
}

func TestClearAndDeletedPriceSet(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	r, err := e.AddRecipe(ctx, RecipeInput{Name: "Toast"})
	require.NoError(t, err)
	assert.Equal(t, 1, r.UnitsMade)

	require.NoError(t, e.AssignPriceSet(ctx, r.ID, "first"))
	assert.ErrorIs(t, e.AssignPriceSet(ctx, r.ID, ""), domain.ErrInvalidInput)

	require.NoError(t, e.DeletePriceSet(ctx, "first"))
	c, err := e.RecipeCost(r.ID)
	require.NoError(t, err)
	assert.Nil(t, c.PriceSet)

	require.NoError(t, e.ClearPriceSet(ctx, r.ID))
	got, err := e.Store().Recipe(r.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PriceSetID)
}

func TestRecipeInputValidation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.AddRecipe(ctx, RecipeInput{Name: "Soup", UnitsMade: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	r, err := e.AddRecipe(ctx, RecipeInput{Name: "Soup", UnitsMade: 4})
	require.NoError(t, err)

	_, err = e.SelectRecipeProducts(ctx, r.ID, []string{"sugar"})
	require.NoError(t, err)
	err = e.SetIngredient(ctx, r.ID, "sugar", IngredientInput{Amount: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	name := "Tomato soup"
	require.NoError(t, e.UpdateRecipe(ctx, r.ID, store.RecipeDetails{Name: &name}))
	found, err := e.FindRecipe("tomato")
	require.NoError(t, err)
	assert.Equal(t, r.ID, found.ID)

	require.NoError(t, e.DeleteRecipe(ctx, r.ID))
	_, err = e.FindRecipe("tomato")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUUIDGenerator(t *testing.T) {
	a, b := UUIDGenerator{}.NewID(), UUIDGenerator{}.NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
