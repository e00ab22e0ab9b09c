// Package registry holds the fixed list of legacy short-link redirects
// whose destinations must stay reachable.
package registry
