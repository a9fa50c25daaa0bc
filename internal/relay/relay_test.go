package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"kickslab/internal/domain"
)

func testOrder() domain.Order {
	return domain.Order{
		ID:            "KL-TEST1234",
		State:         domain.StateProofSubmission,
		Lines:         []domain.CartLine{{ProductID: 1, Name: "Bay Fog One", Size: "10", Quantity: 2, UnitPriceCents: 21000}},
		SubtotalCents: 42000,
		ShippingCents: 2000,
		TotalCents:    44000,
		Shipping: domain.Address{
			Name: "Ada Buyer", Email: "ada@example.com",
			Street: "1 Market St", City: "San Francisco", State: "CA", Zip: "94105",
		},
		PaymentMethod:  "venmo",
		TransactionRef: "TXN-9",
	}
}

func TestSubmitPostsMultipartForm(t *testing.T) {
	var fields map[string]string
	var proof []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				fields[k] = v[0]
			}
		}
		file, _, err := r.FormFile("proof")
		if err != nil {
			t.Errorf("proof file: %v", err)
			return
		}
		defer file.Close()
		proof, _ = io.ReadAll(file)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.Submit(context.Background(), Submission{
		Order:         testOrder(),
		ProofFilename: "proof.png",
		Proof:         []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if fields["orderId"] != "KL-TEST1234" {
		t.Fatalf("orderId = %q", fields["orderId"])
	}
	if fields["totalCents"] != "44000" || fields["subtotalCents"] != "42000" || fields["shippingCents"] != "2000" {
		t.Fatalf("totals fields: %+v", fields)
	}
	if fields["paymentMethod"] != "venmo" || fields["transactionRef"] != "TXN-9" {
		t.Fatalf("payment fields: %+v", fields)
	}
	if fields["items"] == "" {
		t.Fatal("missing serialized items field")
	}
	if string(proof) != "png-bytes" {
		t.Fatalf("proof bytes = %q", proof)
	}
}

func TestSubmitNonOKIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("relay down"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.Submit(context.Background(), Submission{Order: testOrder()})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusBadGateway {
		t.Fatalf("status = %d", statusErr.Status)
	}
}

func TestSubmitRequiresEndpoint(t *testing.T) {
	c := New("", nil)
	if err := c.Submit(context.Background(), Submission{Order: testOrder()}); err == nil {
		t.Fatal("expected error without endpoint")
	}
}
