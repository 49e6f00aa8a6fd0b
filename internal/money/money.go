// Package money formats and parses amounts for display.
package money

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/hammamikhairi/pantrycost/internal/domain"
)

// FractionDigits is the number of decimals shown for every amount.
const FractionDigits = 2

// NotAvailable is shown in place of an amount too large to represent.
const NotAvailable = "n/a"

// Format renders an amount in the currency's locale with its symbol. A nil
// currency gives a plain number with two decimals. Infinities and NaN
// render as NotAvailable.
func Format(amount float64, c *domain.Currency) string {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return NotAvailable
	}
	rounded := decimal.NewFromFloat(amount).Round(FractionDigits)
	if c == nil {
		return rounded.StringFixed(FractionDigits)
	}

	p := message.NewPrinter(language.Make(c.Locale()))
	n := p.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(FractionDigits)))

	if *c == domain.USD {
		if strings.HasPrefix(n, "-") {
			return "-" + c.Symbol() + n[1:]
		}
		return c.Symbol() + n
	}
	return n + " " + c.Symbol()
}

// Parse reads a user-typed amount. It accepts a comma as the decimal
// separator and ignores currency symbols and surrounding spaces.
func Parse(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	for _, c := range domain.Currencies {
		clean = strings.ReplaceAll(clean, c.Symbol(), "")
	}
	clean = strings.ReplaceAll(strings.TrimSpace(clean), ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, errors.Wrapf(domain.ErrInvalidInput, "%q is not a number", s)
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errors.Wrapf(domain.ErrInvalidInput, "%q is out of range", s)
	}
	return f, nil
}
