// Package engine implements the pricing use cases on top of the store.
package engine

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hammamikhairi/pantrycost/internal/costing"
	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/logger"
	"github.com/hammamikhairi/pantrycost/internal/store"
)

// Option configures the engine.
type Option func(*Engine)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(g domain.IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithDefaultIcon sets the symbol given to products created without one.
func WithDefaultIcon(name string) Option {
	return func(e *Engine) {
		e.defaultIcon = name
	}
}

// Engine validates user input, turns it into store mutations, and costs
// recipes. It holds no state of its own.
type Engine struct {
	store       *store.Store
	ids         domain.IDGenerator
	validate    *validator.Validate
	log         *logger.Logger
	defaultIcon string
}

// New creates an engine over the given store.
func New(st *store.Store, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:       st,
		ids:         UUIDGenerator{},
		validate:    newValidator(),
		log:         log,
		defaultIcon: "cart",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying store for read access.
func (e *Engine) Store() *store.Store { return e.store }

func (e *Engine) newID() string { return e.ids.NewID() }

// ── products ─────────────────────────────────────────────────────

// AddProduct adds a product to the bank.
func (e *Engine) AddProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := e.check(in); err != nil {
		return domain.Product{}, err
	}
	icon := in.Icon
	if icon == "" {
		icon = e.defaultIcon
	}
	p := domain.Product{ID: e.newID(), Name: in.Name, Icon: domain.SymbolicIcon(icon)}
	if _, err := e.store.Apply(ctx, store.AddProduct(p)); err != nil {
		return domain.Product{}, err
	}
	e.log.Info("product added: %s", p.Name)
	return p, nil
}

// RenameProduct changes a product's name.
func (e *Engine) RenameProduct(ctx context.Context, id, name string) error {
	if err := e.check(ProductInput{Name: strings.TrimSpace(name)}); err != nil {
		return err
	}
	_, err := e.store.Apply(ctx, store.RenameProduct(id, name))
	return err
}

// SetProductIcon replaces a product's icon with a named symbol.
func (e *Engine) SetProductIcon(ctx context.Context, id, symbol string) error {
	in := IconInput{Symbol: strings.TrimSpace(symbol)}
	if err := e.check(in); err != nil {
		return err
	}
	_, err := e.store.Apply(ctx, store.SetProductIcon(id, domain.SymbolicIcon(in.Symbol)))
	return err
}

// DeleteProduct removes a product everywhere it is used.
func (e *Engine) DeleteProduct(ctx context.Context, id string) error {
	if _, err := e.store.Apply(ctx, store.DeleteProduct(id)); err != nil {
		return err
	}
	e.log.Info("product deleted: %s", id)
	return nil
}

// SearchProducts returns the products whose name contains query, ignoring
// case, sorted by name. An empty query matches everything.
func (e *Engine) SearchProducts(query string) []domain.Product {
	all := e.store.Products()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// FindProduct resolves a reference typed by the user: an id, an exact
// name, or a name fragment matching exactly one product.
func (e *Engine) FindProduct(ref string) (domain.Product, error) {
	all := e.store.Products()
	i, err := resolve(ref, len(all),
		func(i int) string { return all[i].ID },
		func(i int) string { return all[i].Name })
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "product")
	}
	return all[i], nil
}

// ── price sets ───────────────────────────────────────────────────

// AddPriceSet creates an empty price set.
func (e *Engine) AddPriceSet(ctx context.Context, in PriceSetInput) (domain.PriceSet, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := e.check(in); err != nil {
		return domain.PriceSet{}, err
	}
	ps := domain.PriceSet{ID: e.newID(), Name: in.Name, Currency: parseCurrency(in.Currency)}
	if _, err := e.store.Apply(ctx, store.AddPriceSet(ps)); err != nil {
		return domain.PriceSet{}, err
	}
	e.log.Info("price set added: %s", ps.Name)
	return ps, nil
}

// RenamePriceSet changes a price set's name.
func (e *Engine) RenamePriceSet(ctx context.Context, id, name string) error {
	if err := e.check(PriceSetInput{Name: strings.TrimSpace(name)}); err != nil {
		return err
	}
	_, err := e.store.Apply(ctx, store.RenamePriceSet(id, name))
	return err
}

// DeletePriceSet removes a price set. Recipes using it lose their prices.
func (e *Engine) DeletePriceSet(ctx context.Context, id string) error {
	if _, err := e.store.Apply(ctx, store.DeletePriceSet(id)); err != nil {
		return err
	}
	e.log.Info("price set deleted: %s", id)
	return nil
}

// SetPriceSetCurrency tags a price set with a currency. An empty code
// clears the tag.
func (e *Engine) SetPriceSetCurrency(ctx context.Context, id, code string) error {
	if err := e.check(PriceSetInput{Name: "-", Currency: code}); err != nil {
		return err
	}
	_, err := e.store.Apply(ctx, store.SetPriceSetCurrency(id, parseCurrency(code)))
	return err
}

// SelectPriceSetProducts makes the price set cover exactly the given
// products. Existing prices are kept; new products start unpriced.
func (e *Engine) SelectPriceSetProducts(ctx context.Context, id string, productIDs []string) (costing.Diff, error) {
	ev, err := e.store.Apply(ctx, store.ReconcilePriceSetEntries(id, productIDs, e.newID))
	if err != nil {
		return costing.Diff{}, err
	}
	r := ev.(domain.PriceSetEntriesReconciled)
	diff := costing.Diff{Added: r.Added, Removed: r.Removed}
	if diff.Changed() {
		e.log.Info("price set %s: %d added, %d removed", id, diff.Added, diff.Removed)
	}
	return diff, nil
}

// SetPrice fills in one entry of a price set.
func (e *Engine) SetPrice(ctx context.Context, setID, productID string, in PriceInput) error {
	if err := e.check(in); err != nil {
		return err
	}
	_, err := e.store.Apply(ctx, store.UpdatePriceEntry(setID, productID, in.Price, in.Quantity, parseUnit(in.Unit)))
	return err
}

// FindPriceSet resolves an id, exact name, or unique name fragment.
func (e *Engine) FindPriceSet(ref string) (domain.PriceSet, error) {
	all := e.store.PriceSets()
	i, err := resolve(ref, len(all),
		func(i int) string { return all[i].ID },
		func(i int) string { return all[i].Name })
	if err != nil {
		return domain.PriceSet{}, errors.Wrap(err, "price set")
	}
	return all[i], nil
}

// ── recipes ──────────────────────────────────────────────────────

// AddRecipe creates a recipe without ingredients.
func (e *Engine) AddRecipe(ctx context.Context, in RecipeInput) (domain.Recipe, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := e.check(in); err != nil {
		return domain.Recipe{}, err
	}
	if in.UnitsMade == 0 {
		in.UnitsMade = 1
	}
	r := domain.Recipe{
		ID:          e.newID(),
		Name:        in.Name,
		Description: in.Description,
		UnitsMade:   in.UnitsMade,
	}
	if _, err := e.store.Apply(ctx, store.AddRecipe(r)); err != nil {
		return domain.Recipe{}, err
	}
	e.log.Info("recipe added: %s", r.Name)
	return r, nil
}

// UpdateRecipe edits a recipe's name, description or yield.
func (e *Engine) UpdateRecipe(ctx context.Context, id string, d store.RecipeDetails) error {
	_, err := e.store.Apply(ctx, store.UpdateRecipe(id, d))
	return err
}

// DeleteRecipe removes a recipe.
func (e *Engine) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := e.store.Apply(ctx, store.DeleteRecipe(id)); err != nil {
		return err
	}
	e.log.Info("recipe deleted: %s", id)
	return nil
}

// SelectRecipeProducts makes the recipe use exactly the given products.
// Existing amounts are kept; new ingredients default to one piece.
func (e *Engine) SelectRecipeProducts(ctx context.Context, id string, productIDs []string) (costing.Diff, error) {
	ev, err := e.store.Apply(ctx, store.ReconcileRecipeIngredients(id, productIDs, e.newID))
	if err != nil {
		return costing.Diff{}, err
	}
	r := ev.(domain.RecipeIngredientsReconciled)
	diff := costing.Diff{Added: r.Added, Removed: r.Removed}
	if diff.Changed() {
		e.log.Info("recipe %s: %d added, %d removed", id, diff.Added, diff.Removed)
	}
	return diff, nil
}

// SetIngredient changes one ingredient's amount and unit.
func (e *Engine) SetIngredient(ctx context.Context, recipeID, productID string, in IngredientInput) error {
	if err := e.check(in); err != nil {
		return err
	}
	_, err := e.store.Apply(ctx, store.UpdateIngredient(recipeID, productID, in.Amount, parseUnit(in.Unit)))
	return err
}

// AssignPriceSet prices the recipe with the given set.
func (e *Engine) AssignPriceSet(ctx context.Context, recipeID, setID string) error {
	if setID == "" {
		return errors.Wrap(domain.ErrInvalidInput, "no price set given")
	}
	_, err := e.store.Apply(ctx, store.AssignPriceSet(recipeID, setID))
	return err
}

// ClearPriceSet removes the recipe's price set.
func (e *Engine) ClearPriceSet(ctx context.Context, recipeID string) error {
	_, err := e.store.Apply(ctx, store.AssignPriceSet(recipeID, ""))
	return err
}

// FindRecipe resolves an id, exact name, or unique name fragment.
func (e *Engine) FindRecipe(ref string) (domain.Recipe, error) {
	all := e.store.Recipes()
	i, err := resolve(ref, len(all),
		func(i int) string { return all[i].ID },
		func(i int) string { return all[i].Name })
	if err != nil {
		return domain.Recipe{}, errors.Wrap(err, "recipe")
	}
	return all[i], nil
}

// ── currency ─────────────────────────────────────────────────────

// SelectCurrency sets the display currency. An empty code clears it.
func (e *Engine) SelectCurrency(ctx context.Context, code string) error {
	if err := e.check(PriceSetInput{Name: "-", Currency: code}); err != nil {
		return err
	}
	_, err := e.store.Apply(ctx, store.SelectCurrency(parseCurrency(code)))
	return err
}

// DisplayCurrency picks the currency amounts from ps are shown in: the
// set's own currency, else the selected one, else none.
func (e *Engine) DisplayCurrency(ps *domain.PriceSet) *domain.Currency {
	if ps != nil && ps.Currency != nil {
		return ps.Currency
	}
	return e.store.CurrentCurrency()
}

// resolve finds the index of ref among n items: by id first, then by
// exact name ignoring case, then by a unique name fragment.
func resolve(ref string, n int, id, name func(int) string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, errors.Wrap(domain.ErrInvalidInput, "empty reference")
	}
	for i := 0; i < n; i++ {
		if id(i) == ref {
			return i, nil
		}
	}
	for i := 0; i < n; i++ {
		if strings.EqualFold(name(i), ref) {
			return i, nil
		}
	}

	match := -1
	lower := strings.ToLower(ref)
	for i := 0; i < n; i++ {
		if !strings.Contains(strings.ToLower(name(i)), lower) {
			continue
		}
		if match >= 0 {
			return -1, errors.Wrapf(domain.ErrInvalidInput, "%q is ambiguous", ref)
		}
		match = i
	}
	if match < 0 {
		return -1, errors.Wrapf(domain.ErrNotFound, "%q", ref)
	}
	return match, nil
}
