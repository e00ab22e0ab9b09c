// Package cache keeps the latest validation result for every redirect path.
//
// Each path has exactly one current entry, replaced wholesale whenever the
// path is validated again. A short bounded history of previous results is
// kept per path for trend inspection; nothing is persisted.
//
// All methods are safe for concurrent use and return copies, so readers
// never observe an entry while a validation pass is writing it.
package cache
