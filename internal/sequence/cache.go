package sequence

import "container/list"

// DefaultCapacity bounds tracked services when no capacity is configured.
const DefaultCapacity = 256

// State is the per-service ordering memory used to linearize records that
// share a source timestamp.
type State struct {
	LastMicros int64
	Offset     int64

	key string
}

// Cache is a capacity-bounded LRU of per-service ordering state. Service
// names churn (short-lived job containers come and go), so old entries are
// evicted instead of accumulating for the process lifetime. Losing an
// entry only restarts that service's tie-break sequence; it never causes
// wrong attribution or data loss.
//
// Not safe for concurrent use: the pipeline goroutine that owns the
// sequencer is the only caller.
type Cache struct {
	cap   int
	ll    *list.List               // most-recent at front
	items map[string]*list.Element // service name -> element

	// OnEvict, when set, is called with each evicted service name.
	OnEvict func(service string)
}

func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		cap:   capacity,
		ll:    list.New(),
		items: make(map[string]*list.Element, capacity),
	}
}

// Touch returns the ordering state for service, creating it on first
// sighting, and marks it most recently used. Creating a state may evict
// the least recently used entries to stay within capacity.
func (c *Cache) Touch(service string) *State {
	if el, ok := c.items[service]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*State)
	}

	st := &State{LastMicros: -1, key: service}
	c.items[service] = c.ll.PushFront(st)

	for c.ll.Len() > c.cap {
		t := c.ll.Back()
		if t == nil {
			break
		}
		old := t.Value.(*State)
		c.ll.Remove(t)
		delete(c.items, old.key)
		if c.OnEvict != nil {
			c.OnEvict(old.key)
		}
	}
	return st
}

// Len returns the number of services currently tracked.
func (c *Cache) Len() int {
	return c.ll.Len()
}
