package sampler

import "sync"

// LRU is a bounded, thread-safe least-recently-used Cache.
type LRU struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[Key]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   Key
	value Curve
	prev  *entry
	next  *entry
}

// NewLRU creates a cache holding at most maxEntries curves. A non-positive
// size is treated as 1.
func NewLRU(maxEntries int) *LRU {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &LRU{
		maxEntries: maxEntries,
		entries:    make(map[Key]*entry),
	}
}

func (c *LRU) Get(key Key) (Curve, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *LRU) Put(key Key, value Curve) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// Len returns the number of cached curves.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *LRU) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRU) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *LRU) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
