// Package probe performs single bounded-time reachability checks against
// redirect destinations. Every failure mode is reported as data in an
// Outcome; Probe never returns an error.
package probe
