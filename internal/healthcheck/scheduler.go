package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/redirect-monitor/internal/alert"
	"github.com/angeloszaimis/redirect-monitor/internal/cache"
	"github.com/angeloszaimis/redirect-monitor/internal/metrics"
	"github.com/angeloszaimis/redirect-monitor/internal/probe"
	"github.com/angeloszaimis/redirect-monitor/internal/registry"
)

var (
	ErrAlreadyRunning  = errors.New("scheduler already running")
	ErrInvalidInterval = errors.New("interval must be positive")
)

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithMetrics sends probe and pass events to collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Scheduler) {
		s.collector = collector
	}
}

// WithNotifier delivers health transitions to n.
func WithNotifier(n alert.Notifier) Option {
	return func(s *Scheduler) {
		s.notifier = n
	}
}

// WithParallelism probes up to n routes concurrently within a pass.
// Values below 2 keep probing sequential.
func WithParallelism(n int) Option {
	return func(s *Scheduler) {
		s.concurrency = n
	}
}

type pass struct {
	id      string
	started time.Time
	done    chan struct{}
	results []cache.ValidationResult
}

// Scheduler owns the validation lifecycle for a fixed set of redirects.
type Scheduler struct {
	routes      []registry.RedirectRoute
	prober      probe.Prober
	cache       *cache.Cache
	logger      *slog.Logger
	collector   *metrics.Collector
	notifier    alert.Notifier
	concurrency int

	mutex       sync.Mutex
	running     bool
	generation  uint64
	cancel      context.CancelFunc
	inflight    *pass
	lastUpdated time.Time
}

func New(routes []registry.RedirectRoute, prober probe.Prober, store *cache.Cache, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		routes:      append([]registry.RedirectRoute(nil), routes...),
		prober:      prober,
		cache:       store,
		logger:      logger.With(slog.String("component", "redirect-validator")),
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start runs a pass immediately and then one every interval until Stop is
// called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.generation++

	s.logger.Info("Redirect validation scheduler started",
		slog.Duration("interval", interval),
		slog.Int("routes", len(s.routes)))

	go s.loop(loopCtx, interval, s.generation)

	return nil
}

// Stop cancels future ticks. A pass already in flight runs to completion.
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.cancel = nil

	s.logger.Info("Redirect validation scheduler stopped")
}

// Running reports whether the scheduler is armed.
func (s *Scheduler) Running() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.running
}

// Run performs a full pass, or waits for the one already in flight, and
// returns its results in registry order. Cancelling ctx stops the wait but
// never the pass itself.
func (s *Scheduler) Run(ctx context.Context) ([]cache.ValidationResult, error) {
	p, started := s.begin()
	if started {
		go s.execute(context.WithoutCancel(ctx), p)
	} else {
		s.logger.Info("Validation pass already in progress, waiting for it",
			slog.String("pass_id", p.id))
	}

	select {
	case <-p.done:
		return p.results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, generation uint64) {
	defer s.disarm(generation)

	passCtx := context.WithoutCancel(ctx)

	go s.tick(passCtx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go s.tick(passCtx)
		}
	}
}

// disarm returns the scheduler to stopped when the loop of the given
// generation exits, unless Stop or a later Start already replaced it.
func (s *Scheduler) disarm(generation uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running || s.generation != generation {
		return
	}

	s.cancel()
	s.running = false
	s.cancel = nil

	s.logger.Info("Redirect validation scheduler stopped", slog.String("reason", "context done"))
}

func (s *Scheduler) tick(ctx context.Context) {
	p, started := s.begin()
	if !started {
		s.logger.Info("Validation already in progress, skipping this tick",
			slog.String("pass_id", p.id))
		s.collector.Emit(metrics.MetricEvent{Type: metrics.EventPassSkipped})
		return
	}

	s.execute(ctx, p)
}

func (s *Scheduler) begin() (p *pass, started bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.inflight != nil {
		return s.inflight, false
	}

	p = &pass{
		id:      uuid.NewString(),
		started: time.Now(),
		done:    make(chan struct{}),
	}
	s.inflight = p

	return p, true
}

func (s *Scheduler) finish(p *pass) {
	s.mutex.Lock()
	s.inflight = nil
	s.lastUpdated = time.Now()
	s.mutex.Unlock()

	close(p.done)
}

func (s *Scheduler) execute(ctx context.Context, p *pass) {
	log := s.logger.With(slog.String("pass_id", p.id))

	defer s.finish(p)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Validation pass failed", slog.Any("panic", r))
		}
	}()

	log.Info("Starting redirect validation", slog.Int("routes", len(s.routes)))

	results := make([]cache.ValidationResult, len(s.routes))

	if s.concurrency > 1 {
		g := new(errgroup.Group)
		g.SetLimit(s.concurrency)
		for i, route := range s.routes {
			g.Go(func() error {
				results[i] = s.validateRoute(ctx, log, route)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, route := range s.routes {
			results[i] = s.validateRoute(ctx, log, route)
		}
	}

	p.results = results

	duration := time.Since(p.started)
	s.collector.Emit(metrics.MetricEvent{Type: metrics.EventPassCompleted, Duration: duration})
	s.logSummary(log, results, duration)
}

func (s *Scheduler) validateRoute(ctx context.Context, log *slog.Logger, route registry.RedirectRoute) (res cache.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Redirect validation failed",
				slog.String("route", route.Path),
				slog.Any("panic", r))
			res = cache.Classify(route.Path, route.Destination, nil,
				fmt.Sprintf("validation failed: %v", r), time.Now())
			s.cache.Record(res)
		}
	}()

	out := s.prober.Probe(ctx, route.Destination)
	res = cache.Classify(route.Path, route.Destination, out.Status, out.Err, time.Now())

	s.collector.Emit(metrics.MetricEvent{
		Type:       metrics.EventProbeCompleted,
		Route:      route.Path,
		Duration:   out.Duration,
		StatusCode: res.StatusCode(),
	})

	log.Debug("Probed redirect destination",
		slog.String("route", route.Path),
		slog.Int("status", res.StatusCode()),
		slog.Bool("healthy", res.IsHealthy),
		slog.Duration("took", out.Duration))

	s.record(ctx, log, res)

	return res
}

func (s *Scheduler) record(ctx context.Context, log *slog.Logger, res cache.ValidationResult) {
	previous, replaced := s.cache.Record(res)

	if replaced && previous.IsHealthy == res.IsHealthy {
		return
	}

	s.collector.Emit(metrics.MetricEvent{
		Type:    metrics.EventHealthChanged,
		Route:   res.Route,
		Healthy: res.IsHealthy,
	})

	if !replaced {
		return
	}

	log.Debug("Redirect health changed",
		slog.String("route", res.Route),
		slog.Bool("healthy", res.IsHealthy),
		slog.Int("status", res.StatusCode()))

	if s.notifier == nil {
		return
	}

	err := s.notifier.Notify(ctx, alert.Transition{
		Route:       res.Route,
		Destination: res.Destination,
		WasHealthy:  previous.IsHealthy,
		IsHealthy:   res.IsHealthy,
		Status:      res.Status,
		Error:       res.Error,
		At:          res.LastChecked,
	})
	if err != nil {
		log.Warn("Failed to deliver health alert",
			slog.String("route", res.Route),
			slog.String("error", err.Error()))
	}
}

func (s *Scheduler) logSummary(log *slog.Logger, results []cache.ValidationResult, took time.Duration) {
	healthy := 0
	for _, r := range results {
		if r.IsHealthy {
			healthy++
		}
	}

	log.Info("Redirect validation completed",
		slog.Int("total", len(results)),
		slog.Int("healthy", healthy),
		slog.Int("unhealthy", len(results)-healthy),
		slog.Duration("took", took))

	for _, r := range results {
		if !r.IsHealthy {
			log.Warn("Unhealthy redirect",
				slog.String("route", r.Route),
				slog.String("destination", r.Destination),
				slog.String("reason", r.Error))
		}
	}
}
