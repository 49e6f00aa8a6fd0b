package engine

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hammamikhairi/pantrycost/internal/domain"
)

// ProductInput describes a new product.
type ProductInput struct {
	Name string `validate:"required,max=80"`
	Icon string `validate:"max=40"` // symbol name, optional
}

// IconInput names the symbol shown for a product.
type IconInput struct {
	Symbol string `validate:"required,max=40"`
}

// PriceSetInput describes a new price set.
type PriceSetInput struct {
	Name     string `validate:"required,max=80"`
	Currency string `validate:"omitempty,currency"`
}

// PriceInput sets one price entry: Price buys Quantity of Unit.
type PriceInput struct {
	Price    float64 `validate:"gte=0"`
	Quantity float64 `validate:"gte=0"`
	Unit     string  `validate:"omitempty,unit"`
}

// RecipeInput describes a new recipe.
type RecipeInput struct {
	Name        string `validate:"required,max=80"`
	Description string `validate:"max=2000"`
	UnitsMade   int    `validate:"gte=0"` // zero means one
}

// IngredientInput sets one ingredient's amount and unit.
type IngredientInput struct {
	Amount float64 `validate:"gte=0"`
	Unit   string  `validate:"omitempty,unit"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseUnit(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseCurrency(fl.Field().String())
		return ok
	})
	return v
}

// check validates an input struct and turns field errors into a single
// ErrInvalidInput.
func (e *Engine) check(in any) error {
	err := e.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return errors.Wrap(err, "validating input")
	}
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, describeField(f))
	}
	return errors.Wrap(domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func describeField(f validator.FieldError) string {
	field := strings.ToLower(f.Field())
	switch f.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return field + " cannot be negative"
	case "max":
		return field + " is too long"
	case "unit":
		return "unknown unit " + quote(f.Value())
	case "currency":
		return "unknown currency " + quote(f.Value())
	default:
		return field + " is invalid"
	}
}

func quote(v any) string {
	s, _ := v.(string)
	return `"` + s + `"`
}

func parseUnit(name string) *domain.Unit {
	if name == "" {
		return nil
	}
	u, _ := domain.ParseUnit(name)
	return u.Ptr()
}

func parseCurrency(name string) *domain.Currency {
	if name == "" {
		return nil
	}
	c, _ := domain.ParseCurrency(name)
	return c.Ptr()
}
