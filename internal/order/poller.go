package order

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
)

// StatusFunc receives status transitions.  Callbacks run on the poller
// goroutine; subscribers must not block.
type StatusFunc func(model.OrderStatus)

// Poller mirrors one order's status from the server on a fixed interval.  It
// is a cancellable scheduled task: Stop, a cancelled status from the server
// or an auth rejection ends the loop, and no callback fires after Stop
// returns has been observed by the loop.  Transport errors are logged and
// swallowed; the next tick retries.
type Poller struct {
	gw       Gateway
	token    string
	orderID  string
	interval time.Duration

	mu      sync.Mutex
	status  model.OrderStatus
	subs    []StatusFunc
	stopped bool

	stop     chan struct{}
	stopOnce sync.Once
}

func newPoller(gw Gateway, token, orderID string, interval time.Duration, initial model.OrderStatus) *Poller {
	return &Poller{
		gw:       gw,
		token:    token,
		orderID:  orderID,
		interval: interval,
		status:   initial,
		stop:     make(chan struct{}),
	}
}

// OrderID returns the order this poller tracks.
func (p *Poller) OrderID() string { return p.orderID }

// Status returns the last well-formed status observed.
func (p *Poller) Status() model.OrderStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Subscribe registers a callback for status transitions.  Registration after
// Stop is a no-op.
func (p *Poller) Subscribe(fn StatusFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.subs = append(p.subs, fn)
}

// Stopped reports whether the polling loop has ended, by Stop or by the
// loop reaching a terminal condition on its own.
func (p *Poller) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// Stop ends the polling loop.  Safe to call more than once and from any
// goroutine.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		close(p.stop)
	})
}

func (p *Poller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if terminal := p.tick(); terminal {
				p.Stop()
				return
			}
		}
	}
}

// tick fetches the order once and reports whether a terminal status was
// reached.  A missing or malformed status keeps the previous value.
func (p *Poller) tick() bool {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	ord, err := p.gw.GetOrder(ctx, p.token, p.orderID)
	if errors.Is(err, api.ErrUnauthorized) {
		// The token is dead; retrying cannot succeed.  The next entry
		// resolution forces a fresh login and restarts polling.
		log.Printf("order: poll %s unauthorized, stopping", p.orderID)
		return true
	}
	if err != nil {
		log.Printf("order: poll %s failed: %v", p.orderID, err)
		return false
	}
	status, ok := model.ParseStatus(string(ord.Status))
	if !ok {
		return false
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return true
	}
	changed := status != p.status
	p.status = status
	subs := make([]StatusFunc, len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(status)
		}
	}
	return status.Terminal()
}
