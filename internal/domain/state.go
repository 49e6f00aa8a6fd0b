package domain

// State is the root aggregate: the product bank, every price set, every
// recipe, and the selected display currency. It is the unit of
// persistence; there is no partial save.
type State struct {
	CurrentCurrency *Currency
	Products        []Product
	PriceSets       []PriceSet
	Recipes         []Recipe
}

// Clone returns a deep copy that shares no slices or pointers with s.
func (s *State) Clone() *State {
	out := &State{
		Products:  make([]Product, len(s.Products)),
		PriceSets: make([]PriceSet, len(s.PriceSets)),
		Recipes:   make([]Recipe, len(s.Recipes)),
	}
	if s.CurrentCurrency != nil {
		out.CurrentCurrency = s.CurrentCurrency.Ptr()
	}
	for i, p := range s.Products {
		if p.Icon.Image != nil {
			p.Icon.Image = append([]byte(nil), p.Icon.Image...)
		}
		out.Products[i] = p
	}
	for i, ps := range s.PriceSets {
		out.PriceSets[i] = ps.Clone()
	}
	for i, r := range s.Recipes {
		out.Recipes[i] = r.Clone()
	}
	return out
}

// ProductIndex returns the position of the product in the bank, or -1.
func (s *State) ProductIndex(id string) int {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// PriceSetIndex returns the position of the price set, or -1.
func (s *State) PriceSetIndex(id string) int {
	for i := range s.PriceSets {
		if s.PriceSets[i].ID == id {
			return i
		}
	}
	return -1
}

// RecipeIndex returns the position of the recipe, or -1.
func (s *State) RecipeIndex(id string) int {
	for i := range s.Recipes {
		if s.Recipes[i].ID == id {
			return i
		}
	}
	return -1
}

// ResolvePriceSet follows a recipe's weak reference. A missing or
// deleted target resolves to nil.
func (s *State) ResolvePriceSet(r *Recipe) *PriceSet {
	if r == nil || r.PriceSetID == "" {
		return nil
	}
	if i := s.PriceSetIndex(r.PriceSetID); i >= 0 {
		return &s.PriceSets[i]
	}
	return nil
}
