// Package email renders and dispatches the two transactional order
// notifications: the buyer confirmation and the operator alert.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"text/template"
	"time"

	"kickslab/internal/domain"
)

// Config carries the provider settings. APIKey is a required secret.
type Config struct {
	APIKey   string
	Endpoint string
	From     string
	Operator string
}

type Client struct {
	cfg    Config
	client *http.Client
	logger *log.Logger
}

func New(cfg Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

var tmplFuncs = template.FuncMap{
	"dollars": func(cents int64) string {
		return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	},
}

var buyerTmpl = template.Must(template.New("buyer").Funcs(tmplFuncs).Parse(`Thanks for your order {{.ID}}!

Items:
{{range .Lines}}  - {{.Name}} (size {{.Size}}) x{{.Quantity}} @ {{dollars .UnitPriceCents}}
{{end}}
Subtotal: {{dollars .SubtotalCents}}
Shipping: {{dollars .ShippingCents}}
Total:    {{dollars .TotalCents}}

We'll confirm your payment and get to work. Reply to this email with any questions.
`))

var operatorTmpl = template.Must(template.New("operator").Funcs(tmplFuncs).Parse(`New order {{.ID}} ({{.PaymentMethod}}, ref {{.TransactionRef}})

Items:
{{range .Lines}}  - {{.Name}} (size {{.Size}}) x{{.Quantity}} @ {{dollars .UnitPriceCents}}{{if .Custom}}
    custom design: {{.Custom.Design}}{{if .Custom.Contact}} (contact: {{.Custom.Contact}}){{end}}{{end}}
{{end}}
Subtotal: {{dollars .SubtotalCents}}
Shipping: {{dollars .ShippingCents}}{{if .BayArea}} (Bay Area, waived){{end}}
Total:    {{dollars .TotalCents}}

Ship to:
  {{.Shipping.Name}}
  {{.Shipping.Street}}
  {{.Shipping.City}}, {{.Shipping.State}} {{.Shipping.Zip}}
  {{.Shipping.Email}}{{if .Shipping.Phone}} / {{.Shipping.Phone}}{{end}}
`))

// SendOrderNotifications sends the buyer confirmation and the operator
// alert for a captured order.
func (c *Client) SendOrderNotifications(ctx context.Context, order domain.Order) error {
	if c.cfg.APIKey == "" {
		return errors.New("email: api key not configured")
	}

	buyer, err := render(buyerTmpl, order)
	if err != nil {
		return err
	}
	if err := c.send(ctx, order.Shipping.Email, fmt.Sprintf("Order %s confirmed", order.ID), buyer); err != nil {
		return err
	}

	operator, err := render(operatorTmpl, order)
	if err != nil {
		return err
	}
	return c.send(ctx, c.cfg.Operator, fmt.Sprintf("New order %s", order.ID), operator)
}

func render(t *template.Template, order domain.Order) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("email: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func (c *Client) send(ctx context.Context, to, subject, text string) error {
	payload, err := json.Marshal(map[string]string{
		"from":    c.cfg.From,
		"to":      to,
		"subject": subject,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("email: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email: send to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email: send to %s: status %d: %s", to, resp.StatusCode, string(body))
	}
	c.logger.Printf("email: sent %q to %s", subject, to)
	return nil
}
