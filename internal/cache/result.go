package cache

import (
	"fmt"
	"time"
)

// ValidationResult is the point-in-time health of one redirect destination.
type ValidationResult struct {
	Route       string    `json:"route"`
	Destination string    `json:"destination"`
	Status      *int      `json:"status"`
	IsHealthy   bool      `json:"isHealthy"`
	LastChecked time.Time `json:"lastChecked"`
	Error       string    `json:"error,omitempty"`
}

// Classify builds a result from a probe outcome. A destination is healthy
// when it answered with any status below 500; 4xx counts as reachable.
func Classify(route, destination string, status *int, probeErr string, checkedAt time.Time) ValidationResult {
	res := ValidationResult{
		Route:       route,
		Destination: destination,
		LastChecked: checkedAt,
		Error:       probeErr,
	}

	if status == nil {
		return res
	}

	code := *status
	res.Status = &code
	res.IsHealthy = code < 500
	res.Error = ""

	if !res.IsHealthy {
		res.Error = fmt.Sprintf("Server returned %d", code)
	}

	return res
}

// StatusCode returns the observed status or 0 when there was no response.
func (r ValidationResult) StatusCode() int {
	if r.Status == nil {
		return 0
	}
	return *r.Status
}

func (r ValidationResult) clone() ValidationResult {
	if r.Status != nil {
		code := *r.Status
		r.Status = &code
	}
	return r
}
