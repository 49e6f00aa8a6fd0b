package domain

// Verdict classifies whether one recipe ingredient can be costed against
// a price set. Verdicts are expected outcomes, not errors.
type Verdict int

const (
	NoPriceSetSelected Verdict = iota
	ProductMissingFromPriceSet
	PriceEntryInvalid
	UnitMismatch
	Valid
)

// String returns a machine-friendly verdict name.
func (v Verdict) String() string {
	switch v {
	case NoPriceSetSelected:
		return "no_price_set_selected"
	case ProductMissingFromPriceSet:
		return "product_missing_from_price_set"
	case PriceEntryInvalid:
		return "price_entry_invalid"
	case UnitMismatch:
		return "unit_mismatch"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// Message returns one actionable line for the user.
func (v Verdict) Message() string {
	switch v {
	case NoPriceSetSelected:
		return "choose a price set for this recipe"
	case ProductMissingFromPriceSet:
		return "not priced in this set"
	case PriceEntryInvalid:
		return "price entry needs a quantity and unit"
	case UnitMismatch:
		return "unit differs from the price set"
	case Valid:
		return "ok"
	default:
		return ""
	}
}
