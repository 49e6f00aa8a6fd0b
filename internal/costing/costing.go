// Package costing turns a recipe, a price set, and the fixed unit system
// into per-ingredient verdicts and an aggregate cost. Everything here is
// pure: no I/O, no locking, no logging.
package costing

import (
	"math"

	"github.com/hammamikhairi/pantrycost/internal/domain"
)

// Classify decides whether one ingredient can be costed against the price
// set. Checks run in order and the first failing one wins, so each line
// carries the most fundamental problem.
func Classify(ing domain.RecipeIngredient, ps *domain.PriceSet) domain.Verdict {
	if ps == nil {
		return domain.NoPriceSetSelected
	}
	entry, ok := ps.Entry(ing.ProductID)
	if !ok {
		return domain.ProductMissingFromPriceSet
	}
	if !entry.IsValid() {
		return domain.PriceEntryInvalid
	}
	if !domain.SameUnit(ing.Unit, entry.Unit) {
		return domain.UnitMismatch
	}
	return domain.Valid
}

// LineCost returns amount × price per unit for a valid ingredient. ok is
// false when the ingredient is not Valid or the product overflows; in the
// second case the non-finite cost is still returned.
func LineCost(ing domain.RecipeIngredient, ps *domain.PriceSet) (float64, bool) {
	if Classify(ing, ps) != domain.Valid {
		return 0, false
	}
	entry, _ := ps.Entry(ing.ProductID)
	perUnit, ok := entry.PricePerUnit()
	if !ok {
		return 0, false
	}
	cost := ing.Amount * perUnit
	return cost, finite(cost)
}

// TotalCost sums the cost of every ingredient. The result is all or
// nothing: with no price set, with any ingredient not Valid, or when the
// sum overflows, ok is false and the caller must show "no total" rather
// than zero.
func TotalCost(ingredients []domain.RecipeIngredient, ps *domain.PriceSet) (total float64, ok bool) {
	if ps == nil {
		return 0, false
	}
	for _, ing := range ingredients {
		cost, valid := LineCost(ing, ps)
		if !valid {
			return 0, false
		}
		total += cost
	}
	if !finite(total) {
		return 0, false
	}
	return total, true
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
