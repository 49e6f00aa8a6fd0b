package domain

// RecipeIngredient is the amount of one product a recipe needs, in the
// unit the recipe author intends.
type RecipeIngredient struct {
	ID        string
	ProductID string
	Amount    float64
	Unit      *Unit
}

// Recipe is a named list of ingredients, optionally tied to one price set
// for costing. PriceSetID is a weak reference: the price set may be
// deleted while the recipe still names it.
type Recipe struct {
	ID          string
	Name        string
	Description string
	UnitsMade   int
	Ingredients []RecipeIngredient
	PriceSetID  string // empty when no price set is assigned
}

// Ingredient returns the ingredient for the given product.
func (r *Recipe) Ingredient(productID string) (RecipeIngredient, bool) {
	for _, ing := range r.Ingredients {
		if ing.ProductID == productID {
			return ing, true
		}
	}
	return RecipeIngredient{}, false
}

// ProductIDs returns the ids of all ingredient products, in order.
func (r *Recipe) ProductIDs() []string {
	ids := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ids = append(ids, ing.ProductID)
	}
	return ids
}

// Clone returns a deep copy.
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = make([]RecipeIngredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		if ing.Unit != nil {
			ing.Unit = ing.Unit.Ptr()
		}
		out.Ingredients[i] = ing
	}
	return out
}
