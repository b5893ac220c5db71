package engine

import "container/list"

// DefaultRowCacheSize bounds the LRU row cache. Twice the window size so
// preloaded ranges on both sides of the window survive a slide.
const DefaultRowCacheSize = 30000

type cacheEntry struct {
	key int
	row Row
}

// LRUCache is a bounded least-recently-used row cache keyed by display
// sequence logical index. It is not safe for concurrent use; one cache is
// owned per generation and only ever touched from the interactive side.
type LRUCache struct {
	capacity int
	order    *list.List
	items    map[int]*list.Element
}

// NewLRUCache creates a cache bounded to capacity entries. Non-positive
// capacities fall back to the default.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = DefaultRowCacheSize
	}
	return &LRUCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[int]*list.Element),
	}
}

func (c *LRUCache) Get(index int) (Row, bool) {
	el, ok := c.items[index]
	if !ok {
		return Row{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).row, true
}

func (c *LRUCache) Put(index int, row Row) {
	if el, ok := c.items[index]; ok {
		el.Value.(*cacheEntry).row = row
		c.order.MoveToFront(el)
		return
	}

	c.items[index] = c.order.PushFront(&cacheEntry{key: index, row: row})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

func (c *LRUCache) Len() int {
	return c.order.Len()
}

func (c *LRUCache) Clear() {
	c.order.Init()
	c.items = make(map[int]*list.Element)
}
