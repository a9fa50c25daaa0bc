package domain

// CartLine is one cart entry, uniquely keyed by (ProductID, Size).
// UnitPriceCents is the base price captured at add time, shipping excluded.
type CartLine struct {
	ProductID      int64        `json:"productId"`
	Slug           string       `json:"slug"`
	Name           string       `json:"name"`
	Size           string       `json:"size"`
	Quantity       int          `json:"quantity"`
	UnitPriceCents int64        `json:"unitPriceCents"`
	Image          string       `json:"image,omitempty"`
	Custom         *CustomOrder `json:"custom,omitempty"`
}

// Key returns the composite identity used for merge-on-add.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size}
}

// LineKey identifies a cart line.
type LineKey struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size"`
}

// CustomOrder is the bespoke-commission payload attached to a cart line
// when the item is not a stock catalog design.
type CustomOrder struct {
	Design  string `json:"design"`
	Contact string `json:"contact,omitempty"`
}
