// Package httpserver runs the monitor's HTTP listener with validated
// addresses and graceful shutdown.
package httpserver
