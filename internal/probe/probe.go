package probe

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single probe when no timeout is configured.
	DefaultTimeout = 10 * time.Second

	// TimeoutError is the error text reported when a probe exceeds its budget.
	TimeoutError = "Request timeout"
)

// Outcome is the result of one probe. Status is nil when no response was
// received; Err then carries the reason.
type Outcome struct {
	Status   *int
	Err      string
	Duration time.Duration
}

// Prober checks whether a destination URL answers.
type Prober interface {
	Probe(ctx context.Context, rawURL string) Outcome
}

// HTTPProber issues HEAD requests and reports the first response it gets.
// Redirects are not followed.
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPProber creates a prober with the given per-request timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPProber{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout: timeout,
	}
}

// Timeout returns the per-request budget.
func (p *HTTPProber) Timeout() time.Duration {
	return p.timeout
}

// Probe sends a single HEAD request to rawURL.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) Outcome {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return Outcome{Err: err.Error(), Duration: time.Since(start)}
	}
	req.Header.Set("User-Agent", "redirect-monitor/1.0")

	res, err := p.client.Do(req)
	if err != nil {
		out := Outcome{Err: err.Error(), Duration: time.Since(start)}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Err = TimeoutError
		}
		return out
	}
	defer res.Body.Close()

	status := res.StatusCode
	return Outcome{Status: &status, Duration: time.Since(start)}
}
