package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angeloszaimis/redirect-monitor/internal/circuitbreaker"
)

// WebhookNotifier POSTs transitions as JSON to an HTTP endpoint. Deliveries
// stop while the endpoint's circuit breaker is open.
type WebhookNotifier struct {
	url      string
	client   *http.Client
	breakers *circuitbreaker.Registry
}

func NewWebhookNotifier(url string, timeout time.Duration, breakers *circuitbreaker.Registry) *WebhookNotifier {
	return &WebhookNotifier{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		breakers: breakers,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, t Transition) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode transition: %w", err)
	}

	err = n.breakers.GetBreaker(n.url).Execute(func() error {
		return n.post(ctx, body)
	})
	if err != nil {
		return fmt.Errorf("webhook %s: %w", n.url, err)
	}

	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	return nil
}
