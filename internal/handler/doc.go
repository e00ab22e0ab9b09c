// Package handler implements the HTTP surface of the redirect monitor: the
// legacy short-link redirects themselves and the JSON endpoints exposing
// their validation status.
package handler
