package spatial

// Collector accumulates unique query results. A positive limit caps the
// number of results; once an additional unique item is rejected the
// collector reports Truncated. A zero limit grows without bound.
type Collector[T comparable] struct {
	limit     int
	items     []T
	seen      map[T]struct{}
	truncated bool
}

// NewCollector returns a collector holding at most limit results.
func NewCollector[T comparable](limit int) *Collector[T] {
	capacity := limit
	if capacity <= 0 || capacity > 64 {
		capacity = 64
	}
	return &Collector[T]{
		limit: limit,
		items: make([]T, 0, capacity),
		seen:  make(map[T]struct{}, capacity),
	}
}

// Add records item. It returns false for duplicates and for items dropped
// because the limit was reached.
func (c *Collector[T]) Add(item T) bool {
	if _, dup := c.seen[item]; dup {
		return false
	}
	if c.limit > 0 && len(c.items) >= c.limit {
		c.truncated = true
		return false
	}
	c.seen[item] = struct{}{}
	c.items = append(c.items, item)
	return true
}

// Items returns the collected results in insertion order.
func (c *Collector[T]) Items() []T { return c.items }

// Len returns the number of collected results.
func (c *Collector[T]) Len() int { return len(c.items) }

// Truncated reports whether any result was dropped due to the limit.
func (c *Collector[T]) Truncated() bool { return c.truncated }

// Reset empties the collector, keeping its limit and storage.
func (c *Collector[T]) Reset() {
	c.items = c.items[:0]
	clear(c.seen)
	c.truncated = false
}
