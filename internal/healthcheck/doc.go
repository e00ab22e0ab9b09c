// Package healthcheck drives periodic validation of redirect destinations.
//
// A Scheduler probes every registered redirect once per pass, stores the
// results in a cache and logs health transitions. Passes run immediately
// on Start and then on every tick of a fixed interval. At most one pass is
// in flight at a time: ticks that arrive during a pass are skipped, and
// on-demand validations join the running pass instead of starting another.
package healthcheck
