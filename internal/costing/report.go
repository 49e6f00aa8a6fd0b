package costing

import (
	"sort"

	"github.com/hammamikhairi/pantrycost/internal/domain"
)

// ProductLookup resolves a product id to its bank entry.
type ProductLookup func(id string) (domain.Product, bool)

// Line is the costing outcome for one ingredient.
type Line struct {
	ProductID   string
	ProductName string
	Amount      float64
	Unit        *domain.Unit
	Verdict     domain.Verdict
	Cost        float64 // meaningful only when Verdict == Valid
}

// Report is the full costing view of a recipe against one price set.
type Report struct {
	RecipeID   string
	PriceSetID string // empty when the recipe has no resolvable price set
	Lines      []Line
	ValidLines int
	Total      float64
	HasTotal   bool
	PerUnit    float64 // Total / UnitsMade, set together with HasTotal
}

// Breakdown classifies every ingredient and, when all of them are valid,
// computes the total and the cost per unit made. Lines are ordered by
// product name so the UI can render them directly.
func Breakdown(r domain.Recipe, ps *domain.PriceSet, lookup ProductLookup) Report {
	rep := Report{
		RecipeID: r.ID,
		Lines:    make([]Line, 0, len(r.Ingredients)),
	}
	if ps != nil {
		rep.PriceSetID = ps.ID
	}

	for _, ing := range r.Ingredients {
		line := Line{
			ProductID:   ing.ProductID,
			ProductName: ing.ProductID,
			Amount:      ing.Amount,
			Unit:        ing.Unit,
			Verdict:     Classify(ing, ps),
		}
		if lookup != nil {
			if p, ok := lookup(ing.ProductID); ok {
				line.ProductName = p.Name
			}
		}
		if line.Verdict == domain.Valid {
			line.Cost, _ = LineCost(ing, ps)
			rep.ValidLines++
		}
		rep.Lines = append(rep.Lines, line)
	}

	sort.SliceStable(rep.Lines, func(i, j int) bool {
		return rep.Lines[i].ProductName < rep.Lines[j].ProductName
	})

	rep.Total, rep.HasTotal = TotalCost(r.Ingredients, ps)
	if rep.HasTotal {
		units := r.UnitsMade
		if units < 1 {
			units = 1
		}
		rep.PerUnit = rep.Total / float64(units)
	}
	return rep
}

// Problems returns the lines that block a total, in display order.
func (r Report) Problems() []Line {
	var out []Line
	for _, l := range r.Lines {
		if l.Verdict != domain.Valid {
			out = append(out, l)
		}
	}
	return out
}
