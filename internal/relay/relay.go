// Package relay posts completed orders as multipart form submissions to the
// third-party form-relay endpoint. Anything other than HTTP OK is a failure
// the user retries manually; no automatic retry happens here.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"kickslab/internal/domain"
)

// Submission is everything posted to the relay for one order.
type Submission struct {
	Order         domain.Order
	ProofFilename string
	Proof         []byte
}

// StatusError is a non-OK relay response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay: status %d: %s", e.Status, e.Body)
}

type Client struct {
	url    string
	client *http.Client
	logger *log.Logger
}

func New(url string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

func (c *Client) Submit(ctx context.Context, sub Submission) error {
	if c.url == "" {
		return errors.New("relay: endpoint not configured")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	order := sub.Order
	fields := map[string]string{
		"orderId":        order.ID,
		"name":           order.Shipping.Name,
		"email":          order.Shipping.Email,
		"phone":          order.Shipping.Phone,
		"street":         order.Shipping.Street,
		"city":           order.Shipping.City,
		"state":          order.Shipping.State,
		"zip":            order.Shipping.Zip,
		"paymentMethod":  order.PaymentMethod,
		"transactionRef": order.TransactionRef,
		"subtotalCents":  strconv.FormatInt(order.SubtotalCents, 10),
		"shippingCents":  strconv.FormatInt(order.ShippingCents, 10),
		"totalCents":     strconv.FormatInt(order.TotalCents, 10),
		"bayArea":        strconv.FormatBool(order.BayArea),
	}
	items, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("relay: encode items: %w", err)
	}
	fields["items"] = string(items)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("relay: write field %s: %w", name, err)
		}
	}

	if len(sub.Proof) > 0 {
		filename := sub.ProofFilename
		if filename == "" {
			filename = "proof.jpg"
		}
		part, err := w.CreateFormFile("proof", filename)
		if err != nil {
			return fmt.Errorf("relay: create proof part: %w", err)
		}
		if _, err := part.Write(sub.Proof); err != nil {
			return fmt.Errorf("relay: write proof: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("relay: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return fmt.Errorf("relay: build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Status: resp.StatusCode, Body: string(body)}
	}
	c.logger.Printf("relay: submitted order %s", order.ID)
	return nil
}
