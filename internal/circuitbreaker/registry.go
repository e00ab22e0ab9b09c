package circuitbreaker

import (
	"sync"
	"time"
)

// Registry hands out one breaker per alert endpoint.
type Registry struct {
	mutex     sync.RWMutex
	breakers  map[string]*CircuitBreaker
	threshold int
	timeout   time.Duration
}

func NewRegistry(threshold int, timeout time.Duration) *Registry {
	return &Registry{
		breakers:  make(map[string]*CircuitBreaker),
		threshold: threshold,
		timeout:   timeout,
	}
}

func (r *Registry) GetBreaker(endpoint string) *CircuitBreaker {
	r.mutex.RLock()
	cb, exists := r.breakers[endpoint]
	r.mutex.RUnlock()

	if exists {
		return cb
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Double-check: another goroutine may have created it
	if cb, exists = r.breakers[endpoint]; exists {
		return cb
	}

	cb = NewCircuitBreaker(r.threshold, r.timeout)
	r.breakers[endpoint] = cb
	return cb
}

// Stats returns the state of every known endpoint keyed by endpoint.
func (r *Registry) Stats() map[string]string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stats := make(map[string]string, len(r.breakers))
	for endpoint, cb := range r.breakers {
		stats[endpoint] = cb.State().String()
	}
	return stats
}
