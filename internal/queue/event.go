// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"

// OrderPlacedEvent is published after a cart submission succeeds.  It gives
// downstream consumers (kitchen display, analytics) the placed order without
// another API round trip.  Publishing is fire-and-forget; the ordering flow
// never waits on the broker.
type OrderPlacedEvent struct {
	OrderID   string            `json:"order_id"`
	BookingID string            `json:"booking_id"`
	TableID   string            `json:"table_id"`
	Items     []model.OrderItem `json:"items"`
	PlacedAt  string            `json:"placed_at"`
}

// CheckoutCompletedEvent is published when a guest finishes the order flow
// and the booking is closed out.
type CheckoutCompletedEvent struct {
	BookingID   string `json:"booking_id"`
	CheckoutID  string `json:"checkout_id,omitempty"`
	TableID     string `json:"table_id"`
	CompletedAt string `json:"completed_at"`
}
