// Package pricing maps sizes to base prices and shipping costs and computes
// order totals. Every function is pure.
package pricing

import (
	"kickslab/internal/domain"
	"kickslab/internal/sizing"
)

// Base price tiers, in cents.
const (
	InfantTierCents  int64 = 10000
	ToddlerTierCents int64 = 12000
	YouthTierCents   int64 = 15000
	BigKidsTierCents int64 = 18000
	AdultTierCents   int64 = 21000
)

// Shipping tiers, in cents.
const (
	ReducedShippingCents  int64 = 1000
	StandardShippingCents int64 = 2000
)

// BasePriceCents returns the bracket price for a size. The adult tier is
// the unconditional fallback, so the function is total over all Size values.
func BasePriceCents(s sizing.Size) int64 {
	switch s.Cohort {
	case sizing.Infant:
		return InfantTierCents
	case sizing.Toddler:
		return ToddlerTierCents
	case sizing.Youth:
		return YouthTierCents
	case sizing.BigKids:
		return BigKidsTierCents
	default:
		return AdultTierCents
	}
}

// ShippingCents returns the shipping tier for a size: reduced for any
// child/youth cohort, standard otherwise.
func ShippingCents(s sizing.Size) int64 {
	if s.Cohort.Child() {
		return ReducedShippingCents
	}
	return StandardShippingCents
}

// ForToken prices a raw size token. Tokens that fail validation price at
// the adult tier with standard shipping, keeping the pricing path total
// for values that bypassed boundary validation.
func ForToken(token string) (base, shipping int64) {
	s, err := sizing.Parse(token)
	if err != nil {
		return AdultTierCents, StandardShippingCents
	}
	return BasePriceCents(s), ShippingCents(s)
}

// Breakdown is the monetary result of quoting a cart.
type Breakdown struct {
	SubtotalCents int64 `json:"subtotalCents"`
	ShippingCents int64 `json:"shippingCents"`
	TotalCents    int64 `json:"totalCents"`
}

// Quote computes subtotal, shipping and total for a set of cart lines.
// Shipping is charged once per order at the highest tier any line requires,
// and waived entirely for Bay Area orders. Total is always subtotal plus
// shipping.
func Quote(lines []domain.CartLine, bayArea bool) Breakdown {
	var b Breakdown
	for _, line := range lines {
		b.SubtotalCents += line.UnitPriceCents * int64(line.Quantity)
		if bayArea {
			continue
		}
		_, ship := ForToken(line.Size)
		if ship > b.ShippingCents {
			b.ShippingCents = ship
		}
	}
	b.TotalCents = b.SubtotalCents + b.ShippingCents
	return b
}
