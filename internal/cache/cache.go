package cache

import "sync"

const DefaultHistorySize = 20

type entry struct {
	latest  ValidationResult
	history *ring
}

// Cache stores the latest ValidationResult per redirect path.
type Cache struct {
	mutex       sync.RWMutex
	entries     map[string]*entry
	order       []string
	historySize int
}

// New creates an empty cache keeping historySize previous results per path.
// A non-positive size falls back to DefaultHistorySize.
func New(historySize int) *Cache {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}

	return &Cache{
		entries:     make(map[string]*entry),
		historySize: historySize,
	}
}

// Record inserts or replaces the entry for result.Route and returns the
// entry it replaced, if any.
func (c *Cache) Record(result ValidationResult) (previous ValidationResult, replaced bool) {
	result = result.clone()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.entries[result.Route]
	if !ok {
		e = &entry{history: newRing(c.historySize)}
		c.entries[result.Route] = e
		c.order = append(c.order, result.Route)
	} else {
		previous, replaced = e.latest.clone(), true
	}

	e.latest = result
	e.history.push(result)

	return previous, replaced
}

// All returns every cached result in first-insertion order.
func (c *Cache) All() []ValidationResult {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	results := make([]ValidationResult, 0, len(c.order))
	for _, path := range c.order {
		results = append(results, c.entries[path].latest.clone())
	}

	return results
}

// Get returns the cached result for an exact path. ok is false when the
// path was never validated.
func (c *Cache) Get(path string) (result ValidationResult, ok bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, exists := c.entries[path]
	if !exists {
		return ValidationResult{}, false
	}

	return e.latest.clone(), true
}

// Snapshot returns every cached result in insertion order together with
// the unhealthy subset, both read under one lock.
func (c *Cache) Snapshot() (all, unhealthy []ValidationResult) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	all = make([]ValidationResult, 0, len(c.order))
	unhealthy = make([]ValidationResult, 0)
	for _, path := range c.order {
		r := c.entries[path].latest.clone()
		all = append(all, r)
		if !r.IsHealthy {
			unhealthy = append(unhealthy, r)
		}
	}

	return all, unhealthy
}

// History returns up to the configured number of results for path,
// oldest first.
func (c *Cache) History(path string) []ValidationResult {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, exists := c.entries[path]
	if !exists {
		return nil
	}

	return e.history.items()
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.order)
}
