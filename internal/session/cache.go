package session

import (
	"sync"
	"time"
)

// livenessCache remembers when a booking last checked out as active so the
// resolver can skip the network round trip on every navigation.  Only
// successful "active" verdicts are cached; failures and inactive verdicts
// always go back to the server.
type livenessCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
}

func newLivenessCache(ttl time.Duration) *livenessCache {
	return &livenessCache{
		ttl:  ttl,
		now:  time.Now,
		seen: make(map[string]time.Time),
	}
}

// fresh reports whether a successful check for this booking happened within
// the cache window.
func (c *livenessCache) fresh(bookingID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	at, ok := c.seen[bookingID]
	if !ok {
		return false
	}
	if c.now().Sub(at) > c.ttl {
		delete(c.seen, bookingID)
		return false
	}
	return true
}

// markActive records a successful liveness check for the booking.
func (c *livenessCache) markActive(bookingID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[bookingID] = c.now()
}

// forget drops the cache entry, e.g. when the booking turns inactive.
func (c *livenessCache) forget(bookingID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.seen, bookingID)
}
