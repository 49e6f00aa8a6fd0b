package store

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/hammamikhairi/pantrycost/internal/costing"
	"github.com/hammamikhairi/pantrycost/internal/domain"
)

// AddProduct adds a product to the bank. Names are unique ignoring case.
func AddProduct(p domain.Product) Mutation {
	return Mutation{Name: "add product", Apply: func(st *domain.State) (domain.Event, error) {
		p.Name = strings.TrimSpace(p.Name)
		if p.ID == "" || p.Name == "" {
			return nil, errors.Wrap(domain.ErrInvalidInput, "product needs an id and a name")
		}
		if st.ProductIndex(p.ID) >= 0 {
			return nil, errors.Wrapf(domain.ErrAlreadyExists, "product id %s", p.ID)
		}
		if err := checkProductName(st, "", p.Name); err != nil {
			return nil, err
		}
		st.Products = append(st.Products, p)
		return domain.ProductAdded{ProductID: p.ID, Name: p.Name}, nil
	}}
}

// RenameProduct changes a product's display name.
func RenameProduct(id, name string) Mutation {
	return Mutation{Name: "rename product", Apply: func(st *domain.State) (domain.Event, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.Wrap(domain.ErrInvalidInput, "product name is empty")
		}
		i := st.ProductIndex(id)
		if i < 0 {
			return nil, errors.Wrapf(domain.ErrNotFound, "product %s", id)
		}
		if err := checkProductName(st, id, name); err != nil {
			return nil, err
		}
		old := st.Products[i].Name
		st.Products[i].Name = name
		return domain.ProductRenamed{ProductID: id, OldName: old, NewName: name}, nil
	}}
}

// SetProductIcon replaces a product's icon.
func SetProductIcon(id string, icon domain.Icon) Mutation {
	return Mutation{Name: "set product icon", Apply: func(st *domain.State) (domain.Event, error) {
		i := st.ProductIndex(id)
		if i < 0 {
			return nil, errors.Wrapf(domain.ErrNotFound, "product %s", id)
		}
		st.Products[i].Icon = icon
		return domain.ProductIconChanged{ProductID: id}, nil
	}}
}

// DeleteProduct removes a product from the bank and from every price set
// and recipe that references it.
func DeleteProduct(id string) Mutation {
	return Mutation{Name: "delete product", Apply: func(st *domain.State) (domain.Event, error) {
		i := st.ProductIndex(id)
		if i < 0 {
			return nil, errors.Wrapf(domain.ErrNotFound, "product %s", id)
		}
		st.Products = append(st.Products[:i], st.Products[i+1:]...)

		for j := range st.PriceSets {
			ps := &st.PriceSets[j]
			kept := ps.Entries[:0]
			for _, e := range ps.Entries {
				if e.ProductID != id {
					kept = append(kept, e)
				}
			}
			ps.Entries = kept
		}
		for j := range st.Recipes {
			r := &st.Recipes[j]
			kept := r.Ingredients[:0]
			for _, ing := range r.Ingredients {
				if ing.ProductID != id {
					kept = append(kept, ing)
				}
			}
			r.Ingredients = kept
		}
		return domain.ProductDeleted{ProductID: id}, nil
	}}
}

// AddPriceSet adds a price set. Every entry must name a bank product.
func AddPriceSet(ps domain.PriceSet) Mutation {
	return Mutation{Name: "add price set", Apply: func(st *domain.State) (domain.Event, error) {
		ps.Name = strings.TrimSpace(ps.Name)
		if ps.ID == "" || ps.Name == "" {
			return nil, errors.Wrap(domain.ErrInvalidInput, "price set needs an id and a name")
		}
		if st.PriceSetIndex(ps.ID) >= 0 {
			return nil, errors.Wrapf(domain.ErrAlreadyExists, "price set id %s", ps.ID)
		}
		for _, e := range ps.Entries {
			if err := checkEntry(e.Price, e.Quantity); err != nil {
				return nil, err
			}
		}
		if err := checkKnownProducts(st, ps.ProductIDs()); err != nil {
			return nil, err
		}
		st.PriceSets = append(st.PriceSets, ps.Clone())
		return domain.PriceSetAdded{PriceSetID: ps.ID, Name: ps.Name}, nil
	}}
}

// RenamePriceSet changes a price set's name.
func RenamePriceSet(id, name string) Mutation {
	return Mutation{Name: "rename price set", Apply: func(st *domain.State) (domain.Event, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.Wrap(domain.ErrInvalidInput, "price set name is empty")
		}
		ps, err := priceSetAt(st, id)
		if err != nil {
			return nil, err
		}
		ps.Name = name
		return domain.PriceSetRenamed{PriceSetID: id, NewName: name}, nil
	}}
}

// DeletePriceSet removes a price set. Recipes that reference it keep the
// reference, which now resolves to nothing.
func DeletePriceSet(id string) Mutation {
	return Mutation{Name: "delete price set", Apply: func(st *domain.State) (domain.Event, error) {
		i := st.PriceSetIndex(id)
		if i < 0 {
			return nil, errors.Wrapf(domain.ErrNotFound, "price set %s", id)
		}
		st.PriceSets = append(st.PriceSets[:i], st.PriceSets[i+1:]...)
		return domain.PriceSetDeleted{PriceSetID: id}, nil
	}}
}

// SetPriceSetCurrency tags a price set with a currency; nil clears it.
func SetPriceSetCurrency(id string, c *domain.Currency) Mutation {
	return Mutation{Name: "set price set currency", Apply: func(st *domain.State) (domain.Event, error) {
		ps, err := priceSetAt(st, id)
		if err != nil {
			return nil, err
		}
		ps.Currency = copyCurrency(c)
		return domain.PriceSetCurrencyChanged{PriceSetID: id, Currency: copyCurrency(c)}, nil
	}}
}

// ReconcilePriceSetEntries makes the price set cover exactly the selected
// products.
func ReconcilePriceSetEntries(id string, selected []string, newID costing.NewIDFunc) Mutation {
	return Mutation{Name: "set price set products", Apply: func(st *domain.State) (domain.Event, error) {
		ps, err := priceSetAt(st, id)
		if err != nil {
			return nil, err
		}
		if err := checkKnownProducts(st, selected); err != nil {
			return nil, err
		}
		next, diff := costing.SetEntries(*ps, selected, newID)
		*ps = next
		return domain.PriceSetEntriesReconciled{PriceSetID: id, Added: diff.Added, Removed: diff.Removed}, nil
	}}
}

// UpdatePriceEntry edits an existing entry: price buys quantity of unit.
// A nil unit leaves the entry unusable for costing.
func UpdatePriceEntry(setID, productID string, price, quantity float64, unit *domain.Unit) Mutation {
	return Mutation{Name: "update price", Apply: func(st *domain.State) (domain.Event, error) {
		if err := checkEntry(price, quantity); err != nil {
			return nil, err
		}
		ps, err := priceSetAt(st, setID)
		if err != nil {
			return nil, err
		}
		for i := range ps.Entries {
			e := &ps.Entries[i]
			if e.ProductID != productID {
				continue
			}
			e.Price = price
			e.Quantity = quantity
			e.Unit = copyUnit(unit)
			return domain.PriceEntryUpdated{PriceSetID: setID, ProductID: productID}, nil
		}
		return nil, errors.Wrapf(domain.ErrNotFound, "price set %q has no entry for product %s", ps.Name, productID)
	}}
}

// AddRecipe adds a recipe. UnitsMade must be at least one.
func AddRecipe(r domain.Recipe) Mutation {
	return Mutation{Name: "add recipe", Apply: func(st *domain.State) (domain.Event, error) {
		r.Name = strings.TrimSpace(r.Name)
		if r.ID == "" || r.Name == "" {
			return nil, errors.Wrap(domain.ErrInvalidInput, "recipe needs an id and a name")
		}
		if r.UnitsMade < 1 {
			return nil, errors.Wrapf(domain.ErrInvalidInput, "recipe makes %d units", r.UnitsMade)
		}
		if st.RecipeIndex(r.ID) >= 0 {
			return nil, errors.Wrapf(domain.ErrAlreadyExists, "recipe id %s", r.ID)
		}
		for _, ing := range r.Ingredients {
			if ing.Amount < 0 {
				return nil, errors.Wrapf(domain.ErrInvalidInput, "negative amount %g", ing.Amount)
			}
		}
		if err := checkKnownProducts(st, r.ProductIDs()); err != nil {
			return nil, err
		}
		st.Recipes = append(st.Recipes, r.Clone())
		return domain.RecipeAdded{RecipeID: r.ID, Name: r.Name}, nil
	}}
}

// RecipeDetails carries the optional fields of an UpdateRecipe. Nil
// fields are left unchanged.
type RecipeDetails struct {
	Name        *string
	Description *string
	UnitsMade   *int
}

// UpdateRecipe edits a recipe's name, description or yield.
func UpdateRecipe(id string, d RecipeDetails) Mutation {
	return Mutation{Name: "update recipe", Apply: func(st *domain.State) (domain.Event, error) {
		r, err := recipeAt(st, id)
		if err != nil {
			return nil, err
		}
		if d.Name != nil {
			name := strings.TrimSpace(*d.Name)
			if name == "" {
				return nil, errors.Wrap(domain.ErrInvalidInput, "recipe name is empty")
			}
			r.Name = name
		}
		if d.Description != nil {
			r.Description = *d.Description
		}
		if d.UnitsMade != nil {
			if *d.UnitsMade < 1 {
				return nil, errors.Wrapf(domain.ErrInvalidInput, "recipe makes %d units", *d.UnitsMade)
			}
			r.UnitsMade = *d.UnitsMade
		}
		return domain.RecipeUpdated{RecipeID: id}, nil
	}}
}

// DeleteRecipe removes a recipe.
func DeleteRecipe(id string) Mutation {
	return Mutation{Name: "delete recipe", Apply: func(st *domain.State) (domain.Event, error) {
		i := st.RecipeIndex(id)
		if i < 0 {
			return nil, errors.Wrapf(domain.ErrNotFound, "recipe %s", id)
		}
		st.Recipes = append(st.Recipes[:i], st.Recipes[i+1:]...)
		return domain.RecipeDeleted{RecipeID: id}, nil
	}}
}

// ReconcileRecipeIngredients makes the recipe use exactly the selected
// products.
func ReconcileRecipeIngredients(id string, selected []string, newID costing.NewIDFunc) Mutation {
	return Mutation{Name: "set recipe products", Apply: func(st *domain.State) (domain.Event, error) {
		r, err := recipeAt(st, id)
		if err != nil {
			return nil, err
		}
		if err := checkKnownProducts(st, selected); err != nil {
			return nil, err
		}
		next, diff := costing.SetIngredients(*r, selected, newID)
		*r = next
		return domain.RecipeIngredientsReconciled{RecipeID: id, Added: diff.Added, Removed: diff.Removed}, nil
	}}
}

// UpdateIngredient edits an existing ingredient's amount and unit.
func UpdateIngredient(recipeID, productID string, amount float64, unit *domain.Unit) Mutation {
	return Mutation{Name: "update ingredient", Apply: func(st *domain.State) (domain.Event, error) {
		if !finite(amount) {
			return nil, errors.Wrapf(domain.ErrInvalidInput, "amount %g is out of range", amount)
		}
		if amount < 0 {
			return nil, errors.Wrapf(domain.ErrInvalidInput, "negative amount %g", amount)
		}
		r, err := recipeAt(st, recipeID)
		if err != nil {
			return nil, err
		}
		for i := range r.Ingredients {
			ing := &r.Ingredients[i]
			if ing.ProductID != productID {
				continue
			}
			ing.Amount = amount
			ing.Unit = copyUnit(unit)
			return domain.RecipeIngredientUpdated{RecipeID: recipeID, ProductID: productID}, nil
		}
		return nil, errors.Wrapf(domain.ErrNotFound, "recipe %q has no ingredient %s", r.Name, productID)
	}}
}

// AssignPriceSet ties a recipe to a price set. An empty priceSetID clears
// the assignment.
func AssignPriceSet(recipeID, priceSetID string) Mutation {
	return Mutation{Name: "assign price set", Apply: func(st *domain.State) (domain.Event, error) {
		r, err := recipeAt(st, recipeID)
		if err != nil {
			return nil, err
		}
		if priceSetID != "" && st.PriceSetIndex(priceSetID) < 0 {
			return nil, errors.Wrapf(domain.ErrNotFound, "price set %s", priceSetID)
		}
		r.PriceSetID = priceSetID
		return domain.RecipePriceSetAssigned{RecipeID: recipeID, PriceSetID: priceSetID}, nil
	}}
}

// SelectCurrency sets the store-wide display currency; nil clears it.
func SelectCurrency(c *domain.Currency) Mutation {
	return Mutation{Name: "select currency", Apply: func(st *domain.State) (domain.Event, error) {
		st.CurrentCurrency = copyCurrency(c)
		return domain.CurrencySelected{Currency: copyCurrency(c)}, nil
	}}
}

func checkProductName(st *domain.State, selfID, name string) error {
	for _, p := range st.Products {
		if p.ID != selfID && strings.EqualFold(p.Name, name) {
			return errors.Wrapf(domain.ErrAlreadyExists, "product %q", name)
		}
	}
	return nil
}

func checkKnownProducts(st *domain.State, ids []string) error {
	for _, id := range ids {
		if st.ProductIndex(id) < 0 {
			return errors.Wrapf(domain.ErrNotFound, "product %s", id)
		}
	}
	return nil
}

func checkEntry(price, quantity float64) error {
	if !finite(price) || !finite(quantity) {
		return errors.Wrapf(domain.ErrInvalidInput, "price %g for %g is out of range", price, quantity)
	}
	if price < 0 {
		return errors.Wrapf(domain.ErrInvalidInput, "negative price %g", price)
	}
	if quantity < 0 {
		return errors.Wrapf(domain.ErrInvalidInput, "negative quantity %g", quantity)
	}
	if quantity > 0 && !finite(price/quantity) {
		return errors.Wrapf(domain.ErrInvalidInput, "price %g per %g is out of range", price, quantity)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func priceSetAt(st *domain.State, id string) (*domain.PriceSet, error) {
	i := st.PriceSetIndex(id)
	if i < 0 {
		return nil, errors.Wrapf(domain.ErrNotFound, "price set %s", id)
	}
	return &st.PriceSets[i], nil
}

func recipeAt(st *domain.State, id string) (*domain.Recipe, error) {
	i := st.RecipeIndex(id)
	if i < 0 {
		return nil, errors.Wrapf(domain.ErrNotFound, "recipe %s", id)
	}
	return &st.Recipes[i], nil
}

func copyUnit(u *domain.Unit) *domain.Unit {
	if u == nil {
		return nil
	}
	return u.Ptr()
}

func copyCurrency(c *domain.Currency) *domain.Currency {
	if c == nil {
		return nil
	}
	return c.Ptr()
}
