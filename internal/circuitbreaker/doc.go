// Package circuitbreaker guards outbound alert deliveries.
//
// A circuit breaker stops the monitor from calling an alert endpoint that
// keeps failing, so a broken webhook is not retried on every validation
// pass. It has three states:
//
//   - CLOSED: deliveries pass through
//   - OPEN: endpoint failing, deliveries rejected with ErrOpen
//   - HALF-OPEN: one trial delivery is let through
//
// Usage:
//
//	registry := circuitbreaker.NewRegistry(3, 5*time.Minute)
//	err := registry.GetBreaker(webhookURL).Execute(func() error {
//	    return post(ctx, webhookURL, payload)
//	})
package circuitbreaker
