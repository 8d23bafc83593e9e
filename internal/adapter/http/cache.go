package http

import (
	"fmt"
	"sync"

	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// resizedCharts renders alternate heatmap sizes on demand and keeps the most
// recently used ones. Keys include the chart generation, so entries for a
// replaced chart are never served and age out naturally.
type resizedCharts struct {
	cache   *lruCache
	metrics *observability.Metrics
}

func newResizedCharts(maxEntries int, metrics *observability.Metrics) *resizedCharts {
	return &resizedCharts{
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// get returns base re-rendered with a heatmap surface of width×height.
func (r *resizedCharts) get(base *chart.Chart, width, height int) *chart.Chart {
	key := fmt.Sprintf("%d:%dx%d", base.Generation, width, height)
	if c, ok := r.cache.get(key); ok {
		r.metrics.RenderCache.WithLabelValues("hit").Inc()
		return c
	}
	r.metrics.RenderCache.WithLabelValues("miss").Inc()

	layout := base.Context.Layout.WithHeatmapSize(float64(width), float64(height))
	c := chart.Render(base.Context.Dataset, layout)
	c.Generation = base.Generation
	c.GeneratedAt = base.GeneratedAt
	r.cache.put(key, &c)
	return &c
}

// lruCache is a simple thread-safe LRU cache of rendered charts.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value *chart.Chart
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (*chart.Chart, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value *chart.Chart) {
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

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
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

func (c *lruCache) remove(e *entry) {
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

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
