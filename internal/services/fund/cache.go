package fund

import (
	"sync"
	"time"

	"github.com/bobmcallan/fundwatch/internal/models"
)

// snapshotCache is the single-slot cache in front of the tracked-universe
// batch fetch. There is exactly one cached artifact (the full normalized
// list); pagination and search run against whichever snapshot is in hand.
// The slot is replaced in one step, never mutated in place, so a concurrent
// read can never observe a half-written entry.
type snapshotCache struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time // injectable clock for testing

	list  []models.FundListItem
	stamp time.Time
}

func newSnapshotCache(window time.Duration) *snapshotCache {
	return &snapshotCache{
		window: window,
		now:    time.Now,
	}
}

// get returns the cached snapshot, or nil when the slot is empty or older
// than the cache window. An expired slot is evicted on the way out.
func (c *snapshotCache) get() []models.FundListItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.list == nil {
		return nil
	}
	if c.now().Sub(c.stamp) > c.window {
		c.list = nil
		c.stamp = time.Time{}
		return nil
	}
	return c.list
}

// populate overwrites the slot with a fresh snapshot stamped now.
func (c *snapshotCache) populate(list []models.FundListItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = list
	c.stamp = c.now()
}

// invalidate empties the slot, forcing the next access to re-fetch.
func (c *snapshotCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = nil
	c.stamp = time.Time{}
}
