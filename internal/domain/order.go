package domain

import "time"

// Checkout states. Transitions are strictly linear.
const (
	StateAwaitingPayment = "awaiting_payment"
	StateProofSubmission = "proof_submission"
	StateSubmitted       = "submitted"
)

// Order is the snapshot taken when checkout starts. Totals are re-derived
// from the live cart again at submission time.
type Order struct {
	ID             string     `json:"id"`
	State          string     `json:"state"`
	Lines          []CartLine `json:"lines"`
	SubtotalCents  int64      `json:"subtotalCents"`
	ShippingCents  int64      `json:"shippingCents"`
	TotalCents     int64      `json:"totalCents"`
	BayArea        bool       `json:"bayArea"`
	Shipping       Address    `json:"shipping"`
	PaymentMethod  string     `json:"paymentMethod,omitempty"`
	TransactionRef string     `json:"transactionRef,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Address holds the shipping/contact fields collected during checkout.
type Address struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}
