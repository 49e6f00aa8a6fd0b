package costing

import (
	"github.com/pkg/errors"

	"github.com/hammamikhairi/pantrycost/internal/domain"
)

// NewIDFunc produces an id for a freshly created entry or ingredient.
type NewIDFunc func() string

// Diff counts what a reconciliation changed.
type Diff struct {
	Added   int
	Removed int
}

// Changed reports whether anything was added or removed.
func (d Diff) Changed() bool { return d.Added > 0 || d.Removed > 0 }

// SetEntries reconciles the price set against the products now selected.
// Newly selected products get a zero entry with no unit, which is invalid
// until the user fills it in. Deselected products lose their entry.
// Products selected before and after keep their entry untouched, in place.
// Calling it twice with the same selection is a no-op the second time.
func SetEntries(ps domain.PriceSet, selected []string, newID NewIDFunc) (domain.PriceSet, Diff) {
	want := keySet(selected)
	src := ps.Clone()
	out := src
	out.Entries = make([]domain.PriceEntry, 0, len(selected))

	var diff Diff
	have := make(map[string]bool, len(src.Entries))
	for _, e := range src.Entries {
		if !want[e.ProductID] {
			diff.Removed++
			continue
		}
		have[e.ProductID] = true
		out.Entries = append(out.Entries, e)
	}
	for _, id := range selected {
		if have[id] {
			continue
		}
		have[id] = true
		out.Entries = append(out.Entries, domain.PriceEntry{
			ID:        newID(),
			ProductID: id,
		})
		diff.Added++
	}
	return out, diff
}

// SetIngredients reconciles the recipe's ingredients against the products
// now selected. New ingredients default to one piece.
func SetIngredients(r domain.Recipe, selected []string, newID NewIDFunc) (domain.Recipe, Diff) {
	want := keySet(selected)
	src := r.Clone()
	out := src
	out.Ingredients = make([]domain.RecipeIngredient, 0, len(selected))

	var diff Diff
	have := make(map[string]bool, len(src.Ingredients))
	for _, ing := range src.Ingredients {
		if !want[ing.ProductID] {
			diff.Removed++
			continue
		}
		have[ing.ProductID] = true
		out.Ingredients = append(out.Ingredients, ing)
	}
	for _, id := range selected {
		if have[id] {
			continue
		}
		have[id] = true
		out.Ingredients = append(out.Ingredients, domain.RecipeIngredient{
			ID:        newID(),
			ProductID: id,
			Amount:    1.0,
			Unit:      domain.UnitPiece.Ptr(),
		})
		diff.Added++
	}
	return out, diff
}

// CheckUniqueProducts returns ErrDuplicate naming the first product id
// that appears twice. Duplicates are a defect in whatever built the
// collection; they are reported, never dropped.
func CheckUniqueProducts(productIDs []string) error {
	seen := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		if seen[id] {
			return errors.Wrapf(domain.ErrDuplicate, "product %s", id)
		}
		seen[id] = true
	}
	return nil
}

func keySet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
