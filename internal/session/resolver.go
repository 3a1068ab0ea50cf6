// Package session decides what a returning device should see.  Given the
// persisted identifiers and live server responses it resolves the entry
// state: fresh login, start a new order, or resume the active one.
package session

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/utils"
)

// State is the entry state of a visiting session.
type State string

const (
	// RequireAuth: no usable token; the shell shows the phone/OTP overlay.
	RequireAuth State = "require_auth"
	// ReadyToOrder: authenticated, no active order to pick up.
	ReadyToOrder State = "ready_to_order"
	// ResumeOrder: an active booking with a placed order exists; the shell
	// shows the order drawer with its items and status.
	ResumeOrder State = "resume_order"
)

// Result is the tagged outcome of Resolve.  Items and Status are populated
// only for ResumeOrder.
type Result struct {
	State  State             `json:"state"`
	Items  []model.OrderItem `json:"items,omitempty"`
	Status model.OrderStatus `json:"status,omitempty"`
}

// Gateway is the slice of the upstream API the resolver needs.
type Gateway interface {
	CheckBooking(ctx context.Context, token, bookingID string) (bool, error)
	GetOrder(ctx context.Context, token, orderID string) (model.Order, error)
}

// Resolver owns the entry decision and the liveness-check cache.  It is the
// only component that clears persisted identifiers, and it does so solely on
// explicit server verdicts, never on transport faults.
type Resolver struct {
	gw    Gateway
	cache *livenessCache
	now   func() time.Time
}

// NewResolver builds a Resolver with the given liveness cache window.
func NewResolver(gw Gateway, livenessTTL time.Duration) *Resolver {
	return &Resolver{gw: gw, cache: newLivenessCache(livenessTTL), now: time.Now}
}

// Resolve determines the entry state for one device session.  The error
// return covers session-store failures only; upstream faults resolve
// fail-open to ReadyToOrder so a connectivity blip never locks the guest out
// of ordering.
func (r *Resolver) Resolve(ctx context.Context, sess *store.Session) (Result, error) {
	token, err := sess.Token(ctx)
	if err != nil {
		return Result{}, err
	}
	if !utils.IsTokenValid(token, r.now()) {
		// Expired or garbled tokens are dropped silently; the guest just
		// signs in again.
		if token != "" {
			if err := sess.ClearToken(ctx); err != nil {
				return Result{}, err
			}
		}
		return Result{State: RequireAuth}, nil
	}

	bookingID, err := sess.BookingID(ctx)
	if err != nil {
		return Result{}, err
	}
	if bookingID == "" {
		return Result{State: ReadyToOrder}, nil
	}

	if !r.cache.fresh(bookingID) {
		active, err := r.gw.CheckBooking(ctx, token, bookingID)
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			if cerr := sess.ClearToken(ctx); cerr != nil {
				return Result{}, cerr
			}
			return Result{State: RequireAuth}, nil
		case err != nil:
			// Fail open: stored identifiers stay untouched so the session
			// can be reconciled once connectivity returns.
			log.Printf("session: liveness check for booking %s failed: %v", bookingID, err)
			return Result{State: ReadyToOrder}, nil
		case !active:
			r.cache.forget(bookingID)
			if err := sess.ClearBooking(ctx); err != nil {
				return Result{}, err
			}
			return Result{State: ReadyToOrder}, nil
		}
		r.cache.markActive(bookingID)
	}

	orderID, err := sess.OrderID(ctx)
	if err != nil {
		return Result{}, err
	}
	if orderID == "" {
		// Booking alive but nothing ordered yet.
		return Result{State: ReadyToOrder}, nil
	}

	ord, err := r.gw.GetOrder(ctx, token, orderID)
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		if cerr := sess.ClearToken(ctx); cerr != nil {
			return Result{}, cerr
		}
		return Result{State: RequireAuth}, nil
	case errors.Is(err, api.ErrNotFound):
		if cerr := sess.ClearOrder(ctx); cerr != nil {
			return Result{}, cerr
		}
		return Result{State: ReadyToOrder}, nil
	case err != nil:
		log.Printf("session: fetch order %s failed: %v", orderID, err)
		return Result{State: ReadyToOrder}, nil
	}

	return Result{State: ResumeOrder, Items: ord.Items, Status: ord.Status}, nil
}

// ForgetBooking drops the liveness-cache entry for a booking.  Called after
// checkout so a reused booking id is never trusted from cache.
func (r *Resolver) ForgetBooking(bookingID string) {
	r.cache.forget(bookingID)
}
