package handler

import (
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map. Past it, clients whose bucket
// has refilled are forgotten.
const maxTrackedClients = 4096

// clientLimiter keeps an independent token bucket per client IP.
type clientLimiter struct {
	mutex    sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (l *clientLimiter) Allow(client string) bool {
	return l.get(client).Allow()
}

func (l *clientLimiter) get(client string) *rate.Limiter {
	l.mutex.RLock()
	limiter, exists := l.limiters[client]
	l.mutex.RUnlock()

	if exists {
		return limiter
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if limiter, exists = l.limiters[client]; exists {
		return limiter
	}

	if len(l.limiters) >= maxTrackedClients {
		l.prune()
	}

	limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
	l.limiters[client] = limiter
	return limiter
}

// prune drops limiters that are back to a full bucket, since a fresh one
// behaves identically. Callers hold the write lock.
func (l *clientLimiter) prune() {
	for client, limiter := range l.limiters {
		if limiter.Tokens() >= float64(l.burst) {
			delete(l.limiters, client)
		}
	}
}

func (l *clientLimiter) tracked() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return len(l.limiters)
}
