package healthcheck

import (
	"context"
	"math"
	"time"

	"github.com/angeloszaimis/redirect-monitor/internal/cache"
)

type ValidateResponse struct {
	Results   []cache.ValidationResult `json:"results"`
	Timestamp time.Time                `json:"timestamp"`
	HasIssues bool                     `json:"hasIssues"`
}

type StatusResponse struct {
	Results     []cache.ValidationResult `json:"results"`
	Unhealthy   []cache.ValidationResult `json:"unhealthy"`
	HasIssues   bool                     `json:"hasIssues"`
	LastUpdated *time.Time               `json:"lastUpdated"`
}

type DashboardSummary struct {
	Total            int `json:"total"`
	Healthy          int `json:"healthy"`
	Unhealthy        int `json:"unhealthy"`
	HealthPercentage int `json:"healthPercentage"`
}

type DashboardResponse struct {
	Summary       DashboardSummary         `json:"summary"`
	Routes        []cache.ValidationResult `json:"routes"`
	UnhealthyList []cache.ValidationResult `json:"unhealthyList"`
}

// ValidateAll forces a pass and returns its results. It shares the pass
// guard with the timer, so a pass already running is joined, not doubled.
func (s *Scheduler) ValidateAll(ctx context.Context) (ValidateResponse, error) {
	results, err := s.Run(ctx)
	if err != nil {
		return ValidateResponse{}, err
	}

	results = nonNil(results)
	return ValidateResponse{
		Results:   results,
		Timestamp: time.Now(),
		HasIssues: hasIssues(results),
	}, nil
}

// Status returns the cached results without probing anything. Both lists
// come from one snapshot, so unhealthy is always a subset of results.
func (s *Scheduler) Status() StatusResponse {
	results, unhealthy := s.cache.Snapshot()

	return StatusResponse{
		Results:     results,
		Unhealthy:   unhealthy,
		HasIssues:   len(unhealthy) > 0,
		LastUpdated: s.LastUpdated(),
	}
}

// RouteStatus returns the cached result for path. ok is false when the path
// has not been validated yet.
func (s *Scheduler) RouteStatus(path string) (cache.ValidationResult, bool) {
	return s.cache.Get(path)
}

// History returns the recent results kept for path, oldest first.
func (s *Scheduler) History(path string) []cache.ValidationResult {
	return nonNil(s.cache.History(path))
}

// Dashboard summarises the cached results for the admin view.
func (s *Scheduler) Dashboard() DashboardResponse {
	routes, unhealthy := s.cache.Snapshot()

	summary := DashboardSummary{
		Total:     len(routes),
		Healthy:   len(routes) - len(unhealthy),
		Unhealthy: len(unhealthy),
	}
	if summary.Total > 0 {
		summary.HealthPercentage = int(math.Round(float64(summary.Healthy) / float64(summary.Total) * 100))
	}

	return DashboardResponse{
		Summary:       summary,
		Routes:        routes,
		UnhealthyList: unhealthy,
	}
}

// LastUpdated is the completion time of the most recent pass, or nil
// before the first pass finishes.
func (s *Scheduler) LastUpdated() *time.Time {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.lastUpdated.IsZero() {
		return nil
	}
	t := s.lastUpdated
	return &t
}

func hasIssues(results []cache.ValidationResult) bool {
	for _, r := range results {
		if !r.IsHealthy {
			return true
		}
	}
	return false
}

func nonNil(results []cache.ValidationResult) []cache.ValidationResult {
	if results == nil {
		return []cache.ValidationResult{}
	}
	return results
}
