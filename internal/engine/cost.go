package engine

import (
	"github.com/pkg/errors"

	"github.com/hammamikhairi/pantrycost/internal/costing"
	"github.com/hammamikhairi/pantrycost/internal/domain"
)

// Costing is a recipe's cost breakdown with what is needed to show it.
type Costing struct {
	Recipe   domain.Recipe
	PriceSet *domain.PriceSet // nil when none is assigned or it was deleted
	Currency *domain.Currency // display currency, nil for plain numbers
	costing.Report
}

// Classify tells whether one ingredient of a recipe can be priced.
func (e *Engine) Classify(recipeID, productID string) (domain.Verdict, error) {
	r, ps, err := e.store.RecipeWithPriceSet(recipeID)
	if err != nil {
		return 0, err
	}
	ing, ok := r.Ingredient(productID)
	if !ok {
		return 0, errors.Wrapf(domain.ErrNotFound, "recipe %q has no ingredient %s", r.Name, productID)
	}
	return costing.Classify(ing, ps), nil
}

// RecipeCost prices a recipe with its assigned price set.
func (e *Engine) RecipeCost(recipeID string) (Costing, error) {
	r, ps, err := e.store.RecipeWithPriceSet(recipeID)
	if err != nil {
		return Costing{}, err
	}

	lookup := func(id string) (domain.Product, bool) {
		p, err := e.store.Product(id)
		return p, err == nil
	}
	report := costing.Breakdown(r, ps, lookup)

	e.log.Debug("costed %q: %d/%d lines valid", r.Name, report.ValidLines, len(report.Lines))
	return Costing{
		Recipe:   r,
		PriceSet: ps,
		Currency: e.DisplayCurrency(ps),
		Report:   report,
	}, nil
}
