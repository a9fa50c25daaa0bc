// Package checkout drives the manual-payment flow: a strictly linear
// awaiting-payment -> proof-submission -> submitted machine over a pending
// order held in the device store.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"kickslab/internal/cart"
	"kickslab/internal/devicestore"
	"kickslab/internal/domain"
	"kickslab/internal/pricing"
	"kickslab/internal/relay"

	"github.com/google/uuid"
)

const pendingKey = "kickslab_pending_order"

// Relay posts the finished order to the form-relay endpoint.
type Relay interface {
	Submit(ctx context.Context, sub relay.Submission) error
}

// Mailer sends the buyer and operator notifications.
type Mailer interface {
	SendOrderNotifications(ctx context.Context, order domain.Order) error
}

type Flow struct {
	mu     sync.Mutex
	cart   *cart.Store
	store  *devicestore.Store
	relay  Relay
	mailer Mailer
	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

func New(cartStore *cart.Store, store *devicestore.Store, r Relay, m Mailer, logger *log.Logger) *Flow {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Flow{
		cart:   cartStore,
		store:  store,
		relay:  r,
		mailer: m,
		logger: logger,
		now:    time.Now,
		newID:  newOrderID,
	}
}

// newOrderID generates the short code the buyer puts in the payment memo.
func newOrderID() string {
	return "KL-" + strings.ToUpper(uuid.NewString()[:8])
}

// BeginInput starts a checkout.
type BeginInput struct {
	BayArea  bool           `json:"bayArea"`
	Shipping domain.Address `json:"shipping"`
}

// SubmitInput finishes a checkout. Proof is the uploaded payment
// screenshot; Shipping, when set, replaces the address captured at Begin.
type SubmitInput struct {
	PaymentMethod  string
	TransactionRef string
	ProofFilename  string
	Proof          []byte
	Shipping       *domain.Address
}

// Pending returns the in-flight order, or domain.ErrNoPendingOrder. Callers
// with no pending order are redirected away from checkout.
func (f *Flow) Pending() (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingLocked()
}

// Begin snapshots the cart into a new pending order in the awaiting-payment
// state. Starting over replaces any previous pending order.
func (f *Flow) Begin(in BeginInput) (*domain.Order, error) {
	lines := f.cart.Lines()
	if len(lines) == 0 {
		return nil, errors.New("cart is empty")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	quote := pricing.Quote(lines, in.BayArea)
	order := domain.Order{
		ID:            f.newID(),
		State:         domain.StateAwaitingPayment,
		Lines:         lines,
		SubtotalCents: quote.SubtotalCents,
		ShippingCents: quote.ShippingCents,
		TotalCents:    quote.TotalCents,
		BayArea:       in.BayArea,
		Shipping:      in.Shipping,
		CreatedAt:     f.now().UTC(),
	}
	if err := f.persistLocked(order); err != nil {
		return nil, err
	}
	f.logger.Printf("checkout: order %s awaiting payment, total %d cents", order.ID, order.TotalCents)
	return &order, nil
}

// ConfirmPaymentSent advances awaiting-payment to proof-submission. This is
// a trust-based checkpoint: the buyer self-attests, nothing is verified.
func (f *Flow) ConfirmPaymentSent() (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, err := f.pendingLocked()
	if err != nil {
		return nil, err
	}
	if order.State != domain.StateAwaitingPayment {
		return nil, fmt.Errorf("cannot confirm payment from state %s", order.State)
	}
	order.State = domain.StateProofSubmission
	if err := f.persistLocked(*order); err != nil {
		return nil, err
	}
	return order, nil
}

// Submit validates the proof fields, re-derives the totals from the live
// cart (contents may have changed since Begin), and posts to the relay. On
// relay failure the machine does not advance and the caller retries
// manually. On success the cart and pending order are cleared and the
// notification emails go out; an email failure is logged, not fatal, since
// the order already reached the relay.
func (f *Flow) Submit(ctx context.Context, in SubmitInput) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, err := f.pendingLocked()
	if err != nil {
		return nil, err
	}
	if order.State != domain.StateProofSubmission {
		return nil, fmt.Errorf("cannot submit from state %s", order.State)
	}

	method := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if method != "zelle" && method != "venmo" {
		return nil, errors.New("payment method must be zelle or venmo")
	}
	if strings.TrimSpace(in.TransactionRef) == "" {
		return nil, errors.New("transaction reference required")
	}
	if len(in.Proof) == 0 {
		return nil, errors.New("payment proof image required")
	}
	if in.Shipping != nil {
		order.Shipping = *in.Shipping
	}
	if err := validateAddress(order.Shipping); err != nil {
		return nil, err
	}

	// Defensive recomputation: never trust totals captured at Begin.
	if lines := f.cart.Lines(); len(lines) > 0 {
		order.Lines = lines
	}
	quote := pricing.Quote(order.Lines, order.BayArea)
	order.SubtotalCents = quote.SubtotalCents
	order.ShippingCents = quote.ShippingCents
	order.TotalCents = quote.TotalCents
	order.PaymentMethod = method
	order.TransactionRef = strings.TrimSpace(in.TransactionRef)

	err = f.relay.Submit(ctx, relay.Submission{
		Order:         *order,
		ProofFilename: in.ProofFilename,
		Proof:         in.Proof,
	})
	if err != nil {
		f.logger.Printf("checkout: relay submit order %s failed: %v", order.ID, err)
		return nil, err
	}

	order.State = domain.StateSubmitted
	if err := f.cart.Clear(); err != nil {
		f.logger.Printf("checkout: clear cart after order %s: %v", order.ID, err)
	}
	if err := f.store.Delete(pendingKey); err != nil {
		f.logger.Printf("checkout: clear pending order %s: %v", order.ID, err)
	}

	if f.mailer != nil {
		if err := f.mailer.SendOrderNotifications(ctx, *order); err != nil {
			f.logger.Printf("checkout: notifications for order %s: %v", order.ID, err)
		}
	}
	f.logger.Printf("checkout: order %s submitted, total %d cents", order.ID, order.TotalCents)
	return order, nil
}

func (f *Flow) pendingLocked() (*domain.Order, error) {
	var order domain.Order
	ok, err := f.store.Get(pendingKey, &order)
	if err != nil {
		return nil, fmt.Errorf("checkout: load pending: %w", err)
	}
	if !ok {
		return nil, domain.ErrNoPendingOrder
	}
	return &order, nil
}

func (f *Flow) persistLocked(order domain.Order) error {
	if err := f.store.Put(pendingKey, order); err != nil {
		return fmt.Errorf("checkout: persist pending: %w", err)
	}
	return nil
}

func validateAddress(a domain.Address) error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return errors.New("shipping name required")
	case strings.TrimSpace(a.Email) == "":
		return errors.New("contact email required")
	case strings.TrimSpace(a.Street) == "":
		return errors.New("street required")
	case strings.TrimSpace(a.City) == "":
		return errors.New("city required")
	case strings.TrimSpace(a.State) == "":
		return errors.New("state required")
	case strings.TrimSpace(a.Zip) == "":
		return errors.New("zip required")
	}
	return nil
}
