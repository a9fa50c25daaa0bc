package checkout

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"kickslab/internal/cart"
	"kickslab/internal/devicestore"
	"kickslab/internal/domain"
	"kickslab/internal/relay"
)

type stubRelay struct {
	err   error
	calls int
	last  relay.Submission
}

func (s *stubRelay) Submit(_ context.Context, sub relay.Submission) error {
	s.calls++
	s.last = sub
	return s.err
}

type stubMailer struct {
	err   error
	calls int
	last  domain.Order
}

func (s *stubMailer) SendOrderNotifications(_ context.Context, order domain.Order) error {
	s.calls++
	s.last = order
	return s.err
}

func shippingAddr() domain.Address {
	return domain.Address{
		Name:   "Ada Buyer",
		Email:  "ada@example.com",
		Street: "1 Market St",
		City:   "San Francisco",
		State:  "CA",
		Zip:    "94105",
	}
}

func newTestFlow(t *testing.T, r Relay, m Mailer) (*Flow, *cart.Store, *devicestore.Store) {
	t.Helper()
	local := devicestore.New(filepath.Join(t.TempDir(), "store.json"))
	cartStore, err := cart.New(local, nil, nil)
	if err != nil {
		t.Fatalf("new cart: %v", err)
	}
	return New(cartStore, local, r, m, nil), cartStore, local
}

func addLine(t *testing.T, c *cart.Store, qty int) {
	t.Helper()
	err := c.Add(domain.CartLine{
		ProductID:      1,
		Name:           "Bay Fog One",
		Size:           "10",
		Quantity:       qty,
		UnitPriceCents: 21000,
	})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
}

func validSubmit() SubmitInput {
	return SubmitInput{
		PaymentMethod:  "zelle",
		TransactionRef: "TXN-123",
		ProofFilename:  "proof.png",
		Proof:          []byte{0x89, 0x50},
	}
}

func TestPendingWithoutOrder(t *testing.T) {
	f, _, _ := newTestFlow(t, &stubRelay{}, &stubMailer{})
	if _, err := f.Pending(); !errors.Is(err, domain.ErrNoPendingOrder) {
		t.Fatalf("expected no pending order, got %v", err)
	}
}

func TestBeginRequiresNonEmptyCart(t *testing.T) {
	f, _, _ := newTestFlow(t, &stubRelay{}, &stubMailer{})
	if _, err := f.Begin(BeginInput{Shipping: shippingAddr()}); err == nil {
		t.Fatal("expected error for empty cart")
	}
}

func TestBeginSnapshotsCart(t *testing.T) {
	f, cartStore, _ := newTestFlow(t, &stubRelay{}, &stubMailer{})
	addLine(t, cartStore, 2)

	order, err := f.Begin(BeginInput{BayArea: false, Shipping: shippingAddr()})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if order.State != domain.StateAwaitingPayment {
		t.Fatalf("state = %s", order.State)
	}
	if order.ID == "" {
		t.Fatal("expected generated order id")
	}
	if order.SubtotalCents != 42000 || order.ShippingCents != 2000 || order.TotalCents != 44000 {
		t.Fatalf("unexpected totals %+v", order)
	}

	pending, err := f.Pending()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if pending.ID != order.ID {
		t.Fatal("pending order not persisted")
	}
}

func TestLinearTransitions(t *testing.T) {
	f, cartStore, _ := newTestFlow(t, &stubRelay{}, &stubMailer{})
	addLine(t, cartStore, 1)

	// Cannot confirm or submit before begin.
	if _, err := f.ConfirmPaymentSent(); !errors.Is(err, domain.ErrNoPendingOrder) {
		t.Fatalf("expected no pending order, got %v", err)
	}
	if _, err := f.Submit(context.Background(), validSubmit()); !errors.Is(err, domain.ErrNoPendingOrder) {
		t.Fatalf("expected no pending order, got %v", err)
	}

	if _, err := f.Begin(BeginInput{Shipping: shippingAddr()}); err != nil {
		t.Fatalf("begin: %v", err)
	}

	// Cannot submit while awaiting payment.
	if _, err := f.Submit(context.Background(), validSubmit()); err == nil {
		t.Fatal("expected state error submitting from awaiting payment")
	}

	order, err := f.ConfirmPaymentSent()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if order.State != domain.StateProofSubmission {
		t.Fatalf("state = %s", order.State)
	}

	// No backward transition: confirming twice fails.
	if _, err := f.ConfirmPaymentSent(); err == nil {
		t.Fatal("expected state error confirming twice")
	}
}

func TestSubmitValidation(t *testing.T) {
	f, cartStore, _ := newTestFlow(t, &stubRelay{}, &stubMailer{})
	addLine(t, cartStore, 1)
	if _, err := f.Begin(BeginInput{Shipping: shippingAddr()}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := f.ConfirmPaymentSent(); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	in := validSubmit()
	in.PaymentMethod = "paypal"
	if _, err := f.Submit(context.Background(), in); err == nil {
		t.Fatal("expected payment method error")
	}

	in = validSubmit()
	in.TransactionRef = "  "
	if _, err := f.Submit(context.Background(), in); err == nil {
		t.Fatal("expected transaction ref error")
	}

	in = validSubmit()
	in.Proof = nil
	if _, err := f.Submit(context.Background(), in); err == nil {
		t.Fatal("expected proof error")
	}

	in = validSubmit()
	in.Shipping = &domain.Address{Name: "Ada"}
	if _, err := f.Submit(context.Background(), in); err == nil {
		t.Fatal("expected address validation error")
	}
}

func TestSubmitRelayFailureKeepsState(t *testing.T) {
	r := &stubRelay{err: &relay.StatusError{Status: 500, Body: "boom"}}
	m := &stubMailer{}
	f, cartStore, _ := newTestFlow(t, r, m)
	addLine(t, cartStore, 1)
	if _, err := f.Begin(BeginInput{Shipping: shippingAddr()}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := f.ConfirmPaymentSent(); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := f.Submit(context.Background(), validSubmit()); err == nil {
		t.Fatal("expected relay error")
	}

	// Machine did not advance, cart untouched, no emails.
	pending, err := f.Pending()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if pending.State != domain.StateProofSubmission {
		t.Fatalf("state advanced despite relay failure: %s", pending.State)
	}
	if cartStore.ItemCount() != 1 {
		t.Fatal("cart cleared despite relay failure")
	}
	if m.calls != 0 {
		t.Fatal("emails sent despite relay failure")
	}

	// Manual retry succeeds once the relay recovers.
	r.err = nil
	if _, err := f.Submit(context.Background(), validSubmit()); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
}

func TestSubmitSuccessClearsStateAndNotifies(t *testing.T) {
	r := &stubRelay{}
	m := &stubMailer{}
	f, cartStore, _ := newTestFlow(t, r, m)
	addLine(t, cartStore, 2)
	if _, err := f.Begin(BeginInput{Shipping: shippingAddr()}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := f.ConfirmPaymentSent(); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	order, err := f.Submit(context.Background(), validSubmit())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.State != domain.StateSubmitted {
		t.Fatalf("state = %s", order.State)
	}
	if order.PaymentMethod != "zelle" || order.TransactionRef != "TXN-123" {
		t.Fatalf("payment fields lost: %+v", order)
	}
	if r.calls != 1 || r.last.Order.ID != order.ID {
		t.Fatalf("relay not called with order: %+v", r.last)
	}
	if m.calls != 1 || m.last.ID != order.ID {
		t.Fatalf("mailer not called with order: %+v", m.last)
	}

	if cartStore.ItemCount() != 0 {
		t.Fatal("cart not cleared after submission")
	}
	if _, err := f.Pending(); !errors.Is(err, domain.ErrNoPendingOrder) {
		t.Fatalf("pending order not cleared, got %v", err)
	}
}

func TestSubmitRecomputesTotalsFromLiveCart(t *testing.T) {
	r := &stubRelay{}
	f, cartStore, _ := newTestFlow(t, r, &stubMailer{})
	addLine(t, cartStore, 1)
	if _, err := f.Begin(BeginInput{Shipping: shippingAddr()}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := f.ConfirmPaymentSent(); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Cart changes between steps: quantity goes from 1 to 2.
	addLine(t, cartStore, 1)

	order, err := f.Submit(context.Background(), validSubmit())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if order.SubtotalCents != 42000 || order.ShippingCents != 2000 || order.TotalCents != 44000 {
		t.Fatalf("totals not re-derived at submission: %+v", order)
	}
}

func TestEmailFailureDoesNotFailSubmission(t *testing.T) {
	m := &stubMailer{err: errors.New("provider down")}
	f, cartStore, _ := newTestFlow(t, &stubRelay{}, m)
	addLine(t, cartStore, 1)
	if _, err := f.Begin(BeginInput{Shipping: shippingAddr()}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := f.ConfirmPaymentSent(); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	order, err := f.Submit(context.Background(), validSubmit())
	if err != nil {
		t.Fatalf("submit should succeed despite email failure: %v", err)
	}
	if order.State != domain.StateSubmitted {
		t.Fatalf("state = %s", order.State)
	}
}
