// Package alert delivers notifications when a redirect destination changes
// between healthy and unhealthy.
package alert
