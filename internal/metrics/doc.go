// Package metrics provides real-time metrics collection for the redirect monitor.
//
// It uses a channel-based event pipeline to asynchronously collect metrics about:
//   - Probe counts and latency per redirect route (P50, P95, P99)
//   - HTTP status code distribution observed at destinations
//   - Health status per route
//   - Completed and skipped validation passes
//   - Redirects served to visitors
//
// The collector runs in a dedicated goroutine. Events are sent through a
// buffered channel with non-blocking semantics so a slow collector never
// stalls a validation pass or a redirect response.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventProbeCompleted,
//		Route:      "/support-redirect/",
//		Duration:   150 * time.Millisecond,
//		StatusCode: 200,
//	})
//
//	snapshot := collector.Snapshot()
//
// Storage is guarded by sync.RWMutex and pending events are drained on
// shutdown.
package metrics
