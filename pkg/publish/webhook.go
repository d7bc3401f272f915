package publish

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elonfeng/newsprio/pkg/rank"
	"github.com/google/uuid"
)

// Headers sent with every ranking report so receivers can route a delivery
// without decoding the body.
const (
	SignatureHeader   = "X-Signature-256" // "sha256=" + hex HMAC-SHA256 of the body
	LocationHeader    = "X-Newsprio-Location"
	CountHeader       = "X-Newsprio-Count"
	GeneratedAtHeader = "X-Newsprio-Generated-At"
	DeliveryHeader    = "X-Newsprio-Delivery"
)

// Webhook posts the ranking report as JSON to a generic HTTP endpoint.
type Webhook struct {
	client *http.Client
	url    string
	secret string
}

// NewWebhook creates a webhook publisher. An empty secret disables signing.
func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
		secret: secret,
	}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Publish(ctx context.Context, r *rank.Report) error {
	req, err := w.request(ctx, r)
	if err != nil {
		return err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s report: %w", r.Location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d for %s report", resp.StatusCode, r.Location)
	}
	return nil
}

func (w *Webhook) request(ctx context.Context, r *rank.Report) (*http.Request, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal %s report: %w", r.Location, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "newsprio/1.0")
	req.Header.Set(LocationHeader, string(r.Location))
	req.Header.Set(CountHeader, strconv.Itoa(r.Count))
	req.Header.Set(DeliveryHeader, uuid.NewString())
	if !r.GeneratedAt.IsZero() {
		req.Header.Set(GeneratedAtHeader, r.GeneratedAt.UTC().Format(time.RFC3339))
	}
	if w.secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+Sign(w.secret, body))
	}
	return req, nil
}

// Sign returns the hex HMAC-SHA256 of body keyed by secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
