package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kickslab/internal/domain"
)

func testOrder() domain.Order {
	return domain.Order{
		ID:    "KL-ABCD1234",
		State: domain.StateSubmitted,
		Lines: []domain.CartLine{
			{ProductID: 1, Name: "Bay Fog One", Size: "10", Quantity: 2, UnitPriceCents: 21000},
			{Name: "Custom Order", Size: "8W", Quantity: 1, UnitPriceCents: 21000,
				Custom: &domain.CustomOrder{Design: "gold laces, marble swirl", Contact: "ada@example.com"}},
		},
		SubtotalCents: 63000,
		ShippingCents: 2000,
		TotalCents:    65000,
		Shipping: domain.Address{
			Name: "Ada Buyer", Email: "ada@example.com",
			Street: "1 Market St", City: "San Francisco", State: "CA", Zip: "94105",
		},
		PaymentMethod:  "zelle",
		TransactionRef: "TXN-1",
	}
}

type sentMail struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func TestSendOrderNotifications(t *testing.T) {
	var sent []sentMail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("auth header = %q", got)
		}
		var m sentMail
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Errorf("decode: %v", err)
		}
		sent = append(sent, m)
	}))
	defer srv.Close()

	c := New(Config{
		APIKey:   "key",
		Endpoint: srv.URL,
		From:     "orders@kickslab.example",
		Operator: "owner@kickslab.example",
	}, nil)

	if err := c.SendOrderNotifications(context.Background(), testOrder()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sent))
	}

	buyer, operator := sent[0], sent[1]
	if buyer.To != "ada@example.com" {
		t.Fatalf("buyer email to = %q", buyer.To)
	}
	if !strings.Contains(buyer.Text, "Bay Fog One") || !strings.Contains(buyer.Text, "$650.00") {
		t.Fatalf("buyer email missing line items or total:\n%s", buyer.Text)
	}

	if operator.To != "owner@kickslab.example" {
		t.Fatalf("operator email to = %q", operator.To)
	}
	if !strings.Contains(operator.Text, "gold laces, marble swirl") {
		t.Fatalf("operator email missing custom design details:\n%s", operator.Text)
	}
	if !strings.Contains(operator.Text, "1 Market St") {
		t.Fatalf("operator email missing shipping address:\n%s", operator.Text)
	}
}

func TestSendRequiresAPIKey(t *testing.T) {
	c := New(Config{Endpoint: "http://example.invalid"}, nil)
	if err := c.SendOrderNotifications(context.Background(), testOrder()); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestProviderErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key", Endpoint: srv.URL}, nil)
	if err := c.SendOrderNotifications(context.Background(), testOrder()); err == nil {
		t.Fatal("expected provider error")
	}
}
