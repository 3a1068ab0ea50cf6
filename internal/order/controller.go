// Package order owns the client side of the order lifecycle: create-or-update
// submission against a booking and the status polling loop that mirrors the
// kitchen's state.
package order

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
)

// Gateway is the slice of the upstream API the controller needs.
type Gateway interface {
	CreateBooking(ctx context.Context, token string, req api.CreateBookingRequest) (model.Booking, error)
	CreateOrder(ctx context.Context, token, tableID, bookingID string, items []model.OrderItem) (model.Order, error)
	UpdateOrderItems(ctx context.Context, token, orderID string, items []model.OrderItem) error
	GetOrder(ctx context.Context, token, orderID string) (model.Order, error)
	TableByNumber(ctx context.Context, token, tableNumber string) (model.Table, error)
}

// Result is what submission reports across the handler boundary.  Failures
// are data, not panics: the shell turns them into a retry toast.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	OrderID string            `json:"order_id,omitempty"`
	Items   []model.OrderItem `json:"items,omitempty"`
}

func failure(msg string) Result { return Result{Success: false, Message: msg} }

// Controller is the sole writer of order state in client memory.  It holds
// one status poller per device session.
type Controller struct {
	gw       Gateway
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	pollers map[string]*Poller
}

// NewController builds a Controller polling at the given interval.
func NewController(gw Gateway, pollInterval time.Duration) *Controller {
	return &Controller{
		gw:       gw,
		interval: pollInterval,
		now:      time.Now,
		pollers:  make(map[string]*Poller),
	}
}

// EnsureBooking returns the active booking and table ids for the session,
// creating a booking when none is stored.  The table must have been scanned
// first; there is nothing to book without it.
func (c *Controller) EnsureBooking(ctx context.Context, token string, sess *store.Session) (bookingID, tableID string, err error) {
	tableID, err = sess.TableID(ctx)
	if err != nil {
		return "", "", err
	}
	if tableID == "" {
		// A pre-login scan stores only the printed number; resolve the id
		// now that we hold a token.
		number, nerr := sess.TableNumber(ctx)
		if nerr != nil {
			return "", "", nerr
		}
		if number == "" {
			return "", "", errors.New("order: no table scanned")
		}
		tbl, terr := c.gw.TableByNumber(ctx, token, number)
		if terr != nil {
			return "", "", terr
		}
		tableID = tbl.ID
		if serr := sess.SetTable(ctx, tbl.ID, tbl.TableNumber); serr != nil {
			return "", "", serr
		}
	}
	bookingID, err = sess.BookingID(ctx)
	if err != nil {
		return "", "", err
	}
	if bookingID != "" {
		return bookingID, tableID, nil
	}

	now := c.now()
	booking, err := c.gw.CreateBooking(ctx, token, api.CreateBookingRequest{
		TableID:     tableID,
		BookingDate: now.Format("2006-01-02"),
		BookingTime: now.Format("15:04"),
		FromTime:    now.Format("15:04"),
	})
	if err != nil {
		return "", "", err
	}
	if err := sess.SetBookingID(ctx, booking.ID); err != nil {
		return "", "", err
	}
	return booking.ID, tableID, nil
}

// SubmitCart places the cart against the session's booking.  The first
// submission creates the order and stores its id; every later submission
// updates that same order, so exactly one order id exists per booking.  The
// upstream PATCH replaces the whole item list, so the controller merges the
// previously ordered lines with the incoming ones before sending.
func (c *Controller) SubmitCart(ctx context.Context, token string, sess *store.Session, items []model.OrderItem) Result {
	if len(items) == 0 {
		return failure("nothing to order")
	}

	orderID, err := sess.OrderID(ctx)
	if err != nil {
		return failure("session unavailable, please retry")
	}

	if orderID == "" {
		return c.create(ctx, token, sess, items)
	}

	existing, err := c.gw.GetOrder(ctx, token, orderID)
	switch {
	case errors.Is(err, api.ErrNotFound):
		// The stored id points at nothing; start over with a fresh order.
		if cerr := sess.ClearOrder(ctx); cerr != nil {
			return failure("session unavailable, please retry")
		}
		return c.create(ctx, token, sess, items)
	case err != nil:
		log.Printf("order: fetch %s before update failed: %v", orderID, err)
		return failure("could not update your order, please retry")
	}

	merged := mergeWireItems(existing.Items, items)
	if err := c.gw.UpdateOrderItems(ctx, token, orderID, merged); err != nil {
		if msg, ok := api.IsBusiness(err); ok {
			return failure(msg)
		}
		log.Printf("order: update %s failed: %v", orderID, err)
		return failure("could not update your order, please retry")
	}
	return Result{Success: true, OrderID: orderID, Items: merged}
}

func (c *Controller) create(ctx context.Context, token string, sess *store.Session, items []model.OrderItem) Result {
	bookingID, tableID, err := c.EnsureBooking(ctx, token, sess)
	if err != nil {
		if msg, ok := api.IsBusiness(err); ok {
			return failure(msg)
		}
		log.Printf("order: ensure booking failed: %v", err)
		return failure("could not place your order, please retry")
	}
	ord, err := c.gw.CreateOrder(ctx, token, tableID, bookingID, items)
	if err != nil {
		if msg, ok := api.IsBusiness(err); ok {
			return failure(msg)
		}
		log.Printf("order: create failed: %v", err)
		return failure("could not place your order, please retry")
	}
	if err := sess.SetOrderID(ctx, ord.ID); err != nil {
		return failure("session unavailable, please retry")
	}
	return Result{Success: true, OrderID: ord.ID, Items: items}
}

// mergeWireItems folds new lines into the already ordered set, summing
// quantities per dish.  Non-empty incoming instructions replace the old ones.
func mergeWireItems(previous, added []model.OrderItem) []model.OrderItem {
	out := make([]model.OrderItem, len(previous))
	copy(out, previous)
	for _, in := range added {
		found := false
		for i := range out {
			if out[i].DishID == in.DishID {
				out[i].Quantity += in.Quantity
				if in.Instructions != "" {
					out[i].Instructions = in.Instructions
				}
				found = true
				break
			}
		}
		if !found {
			out = append(out, in)
		}
	}
	return out
}

// StartPolling begins (or restarts) status polling for a device's order.
// Any previous poller for the device is stopped first so a device never has
// two tickers running.
func (c *Controller) StartPolling(token, deviceID, orderID string, initial model.OrderStatus) *Poller {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.pollers[deviceID]; ok {
		if old.OrderID() == orderID && !old.Stopped() {
			return old
		}
		old.Stop()
	}
	p := newPoller(c.gw, token, orderID, c.interval, initial)
	c.pollers[deviceID] = p
	go func() {
		p.run()
		c.removePoller(deviceID, p)
	}()
	return p
}

// removePoller drops a finished poller from the map, unless a replacement
// has already taken its slot.
func (c *Controller) removePoller(deviceID string, p *Poller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pollers[deviceID] == p {
		delete(c.pollers, deviceID)
	}
}

// PollerFor returns the device's running poller, or nil.
func (c *Controller) PollerFor(deviceID string) *Poller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pollers[deviceID]
}

// StopPolling tears down the device's poller, if any.
func (c *Controller) StopPolling(deviceID string) {
	c.mu.Lock()
	p, ok := c.pollers[deviceID]
	if ok {
		delete(c.pollers, deviceID)
	}
	c.mu.Unlock()
	if ok {
		p.Stop()
	}
}

// Close stops every poller.  Called on shutdown.
func (c *Controller) Close() {
	c.mu.Lock()
	pollers := c.pollers
	c.pollers = make(map[string]*Poller)
	c.mu.Unlock()
	for _, p := range pollers {
		p.Stop()
	}
}
