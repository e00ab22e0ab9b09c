package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventProbeCompleted EventType = "probe_completed"
	EventHealthChanged  EventType = "health_changed"
	EventPassCompleted  EventType = "pass_completed"
	EventPassSkipped    EventType = "pass_skipped"
	EventRedirectServed EventType = "redirect_served"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Route      string
	Duration   time.Duration
	StatusCode int
	Healthy    bool
}

// BreakerStats reports circuit breaker state per endpoint.
type BreakerStats interface {
	Stats() map[string]string
}

type Collector struct {
	eventCh  chan MetricEvent
	metrics  *Metrics
	logger   *slog.Logger
	breakers BreakerStats
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// Emit queues an event without blocking. Events are dropped when the
// buffer is full. A nil collector ignores events.
func (c *Collector) Emit(event MetricEvent) {
	if c == nil {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case c.eventCh <- event:
	default:
		c.logger.Debug("Metrics buffer full, dropping event",
			slog.String("type", string(event.Type)))
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventProbeCompleted:
		c.metrics.RecordProbe(event.Route, event.Duration, event.StatusCode)

	case EventHealthChanged:
		c.metrics.UpdateHealthStatus(event.Route, event.Healthy)

	case EventPassCompleted:
		c.metrics.RecordPass(event.Duration)

	case EventPassSkipped:
		c.metrics.RecordSkippedPass()

	case EventRedirectServed:
		c.metrics.RecordRedirect(event.Route)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

// WatchBreakers includes the state of b's circuit breakers in snapshots.
// Call it before the collector is shared.
func (c *Collector) WatchBreakers(b BreakerStats) {
	c.breakers = b
}

func (c *Collector) Snapshot() Snapshot {
	snap := c.metrics.Snapshot()
	if c.breakers != nil {
		snap.Breakers = c.breakers.Stats()
	}
	return snap
}
