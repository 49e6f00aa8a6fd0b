package domain

import "strings"

// Unit is the measurement a quantity is expressed in. There is no
// conversion between units.
type Unit int

const (
	UnitKilogram Unit = iota
	UnitGram
	UnitPiece
)

// Units lists every unit in display order.
var Units = []Unit{UnitKilogram, UnitGram, UnitPiece}

// String returns the persisted name of the unit.
func (u Unit) String() string {
	switch u {
	case UnitKilogram:
		return "kilo"
	case UnitGram:
		return "grams"
	case UnitPiece:
		return "unit"
	default:
		return "unknown"
	}
}

// Label returns the short display label.
func (u Unit) Label() string {
	switch u {
	case UnitKilogram:
		return "kg"
	case UnitGram:
		return "g"
	case UnitPiece:
		return "pc"
	default:
		return "?"
	}
}

// Ptr returns a pointer to a copy of u, for optional unit fields.
func (u Unit) Ptr() *Unit { return &u }

// unitNames maps persisted names and typed aliases to units.
var unitNames = map[string]Unit{
	"kilo":     UnitKilogram,
	"kg":       UnitKilogram,
	"kilogram": UnitKilogram,
	"grams":    UnitGram,
	"gram":     UnitGram,
	"g":        UnitGram,
	"unit":     UnitPiece,
	"piece":    UnitPiece,
	"pieces":   UnitPiece,
	"pc":       UnitPiece,
	"pcs":      UnitPiece,
}

// ParseUnit converts a persisted name or alias to a Unit.
func ParseUnit(name string) (Unit, bool) {
	u, ok := unitNames[strings.ToLower(strings.TrimSpace(name))]
	return u, ok
}

// SameUnit compares two optional units. Two absent units are equal.
func SameUnit(a, b *Unit) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// UnitLabel renders an optional unit, "-" when absent.
func UnitLabel(u *Unit) string {
	if u == nil {
		return "-"
	}
	return u.Label()
}

// Currency is one of the supported price currencies.
type Currency int

const (
	USD Currency = iota
	RUB
	ILS
)

// Currencies lists every currency in display order.
var Currencies = []Currency{USD, RUB, ILS}

// String returns the persisted name of the currency.
func (c Currency) String() string {
	switch c {
	case USD:
		return "usd"
	case RUB:
		return "rub"
	case ILS:
		return "ils"
	default:
		return "unknown"
	}
}

// Symbol returns the currency sign.
func (c Currency) Symbol() string {
	switch c {
	case USD:
		return "$"
	case RUB:
		return "₽"
	case ILS:
		return "₪"
	default:
		return ""
	}
}

// Locale returns the BCP 47 tag of the number-formatting profile.
func (c Currency) Locale() string {
	switch c {
	case USD:
		return "en-US"
	case RUB:
		return "ru-RU"
	case ILS:
		return "he-IL"
	default:
		return "und"
	}
}

// Ptr returns a pointer to a copy of c, for optional currency fields.
func (c Currency) Ptr() *Currency { return &c }

// ParseCurrency converts a persisted name, ISO code, or symbol to a Currency.
func ParseCurrency(name string) (Currency, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "usd", "$":
		return USD, true
	case "rub", "₽":
		return RUB, true
	case "ils", "₪", "nis":
		return ILS, true
	}
	return 0, false
}
