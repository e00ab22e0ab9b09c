package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxLatencySamples = 1000

type Metrics struct {
	mutex         sync.RWMutex
	probes        map[string]int64
	latencies     map[string][]time.Duration
	statusCodes   map[string]map[int]int64
	healthStatus  map[string]bool
	redirects     map[string]int64
	passes        int64
	skippedPasses int64
	lastPassTook  time.Duration
	startTime     time.Time
}

type Snapshot struct {
	Uptime        time.Duration           `json:"uptime"`
	TotalProbes   int64                   `json:"total_probes"`
	Passes        int64                   `json:"passes"`
	SkippedPasses int64                   `json:"skipped_passes"`
	LastPassTook  time.Duration           `json:"last_pass_took"`
	Routes        map[string]RouteMetrics `json:"routes"`
	Breakers      map[string]string       `json:"breakers,omitempty"`
}

type RouteMetrics struct {
	Probes          int64         `json:"probes"`
	RedirectsServed int64         `json:"redirects_served"`
	Healthy         bool          `json:"healthy"`
	AvgLatency      time.Duration `json:"avg_latency"`
	P50Latency      time.Duration `json:"p50_latency"`
	P95Latency      time.Duration `json:"p95_latency"`
	P99Latency      time.Duration `json:"p99_latency"`
	StatusCodes     map[int]int64 `json:"status_codes"`
}

// RecordProbe counts a probe and its latency. A zero statusCode means the
// destination did not answer and is not added to the distribution.
func (m *Metrics) RecordProbe(route string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.probes[route]++
	m.latencies[route] = append(m.latencies[route], duration)

	if len(m.latencies[route]) > maxLatencySamples {
		m.latencies[route] = m.latencies[route][1:]
	}

	if statusCode == 0 {
		return
	}

	if m.statusCodes[route] == nil {
		m.statusCodes[route] = make(map[int]int64)
	}
	m.statusCodes[route][statusCode]++
}

func (m *Metrics) UpdateHealthStatus(route string, healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.healthStatus[route] = healthy
}

func (m *Metrics) RecordPass(duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.passes++
	m.lastPassTook = duration
}

func (m *Metrics) RecordSkippedPass() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.skippedPasses++
}

func (m *Metrics) RecordRedirect(route string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.redirects[route]++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:        time.Since(m.startTime),
		Passes:        m.passes,
		SkippedPasses: m.skippedPasses,
		LastPassTook:  m.lastPassTook,
		Routes:        make(map[string]RouteMetrics),
	}

	// Collect all known routes
	allRoutes := make(map[string]bool)
	for route := range m.probes {
		allRoutes[route] = true
	}
	for route := range m.healthStatus {
		allRoutes[route] = true
	}
	for route := range m.redirects {
		allRoutes[route] = true
	}

	for route := range allRoutes {
		snap.TotalProbes += m.probes[route]

		rm := RouteMetrics{
			Probes:          m.probes[route],
			RedirectsServed: m.redirects[route],
			Healthy:         m.healthStatus[route],
			StatusCodes:     copyCodes(m.statusCodes[route]),
		}

		durations := m.latencies[route]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			rm.AvgLatency = average(sorted)
			rm.P50Latency = percentile(sorted, 0.50)
			rm.P95Latency = percentile(sorted, 0.95)
			rm.P99Latency = percentile(sorted, 0.99)
		}

		snap.Routes[route] = rm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		probes:       make(map[string]int64),
		latencies:    make(map[string][]time.Duration),
		statusCodes:  make(map[string]map[int]int64),
		healthStatus: make(map[string]bool),
		redirects:    make(map[string]int64),
		startTime:    time.Now(),
	}
}

func copyCodes(codes map[int]int64) map[int]int64 {
	if codes == nil {
		return nil
	}

	out := make(map[int]int64, len(codes))
	for code, n := range codes {
		out[code] = n
	}
	return out
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
