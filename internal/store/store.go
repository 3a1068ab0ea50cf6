// Package store is the persisted session store: the only owner of the
// identifiers that survive reloads (token, table, booking, order, cart
// snapshot).  It is a plain per-device key/value surface so the backend can
// be swapped (memory, file, Redis, MySQL) and unit-tested with the in-memory
// fake.  Writes are last-writer-wins; concurrent tabs sharing one device id
// are not coordinated.
package store

import "context"

// Keys under which session state is persisted, one value per device.
const (
	KeyToken       = "access_token"
	KeyTableID     = "table_id"
	KeyTableNumber = "table_number"
	KeyBookingID   = "booking_id"
	KeyOrderID     = "order_id"
	KeyOrderItems  = "order_items"
	KeyCart        = "cart"
)

// Store is the persistence contract.  Get returns the empty string for an
// unset key; absent and empty are equivalent for every session key.
type Store interface {
	Get(ctx context.Context, deviceID, key string) (string, error)
	Set(ctx context.Context, deviceID, key, value string) error
	Clear(ctx context.Context, deviceID string, keys ...string) error
}

// Session binds a Store to one device id and exposes typed accessors so call
// sites cannot misspell a key.
type Session struct {
	s        Store
	deviceID string
}

// NewSession wraps the store for a single device.
func NewSession(s Store, deviceID string) *Session {
	return &Session{s: s, deviceID: deviceID}
}

// DeviceID returns the device this session is bound to.
func (s *Session) DeviceID() string { return s.deviceID }

func (s *Session) get(ctx context.Context, key string) (string, error) {
	return s.s.Get(ctx, s.deviceID, key)
}

func (s *Session) set(ctx context.Context, key, value string) error {
	return s.s.Set(ctx, s.deviceID, key, value)
}

func (s *Session) Token(ctx context.Context) (string, error) { return s.get(ctx, KeyToken) }
func (s *Session) SetToken(ctx context.Context, v string) error {
	return s.set(ctx, KeyToken, v)
}

// ClearToken drops the access token, forcing re-authentication on the next
// visit.
func (s *Session) ClearToken(ctx context.Context) error {
	return s.s.Clear(ctx, s.deviceID, KeyToken)
}

func (s *Session) TableID(ctx context.Context) (string, error) { return s.get(ctx, KeyTableID) }
func (s *Session) TableNumber(ctx context.Context) (string, error) {
	return s.get(ctx, KeyTableNumber)
}

// SetTable records both the table id and its printed number from a QR scan.
func (s *Session) SetTable(ctx context.Context, id, number string) error {
	if err := s.set(ctx, KeyTableID, id); err != nil {
		return err
	}
	return s.set(ctx, KeyTableNumber, number)
}

func (s *Session) BookingID(ctx context.Context) (string, error) { return s.get(ctx, KeyBookingID) }
func (s *Session) SetBookingID(ctx context.Context, v string) error {
	return s.set(ctx, KeyBookingID, v)
}

func (s *Session) OrderID(ctx context.Context) (string, error) { return s.get(ctx, KeyOrderID) }
func (s *Session) SetOrderID(ctx context.Context, v string) error {
	return s.set(ctx, KeyOrderID, v)
}

func (s *Session) OrderItems(ctx context.Context) (string, error) { return s.get(ctx, KeyOrderItems) }
func (s *Session) SetOrderItems(ctx context.Context, v string) error {
	return s.set(ctx, KeyOrderItems, v)
}

// ClearOrderItems drops only the display snapshot; the order id stays so the
// snapshot can be rebuilt from the server-side order.
func (s *Session) ClearOrderItems(ctx context.Context) error {
	return s.s.Clear(ctx, s.deviceID, KeyOrderItems)
}

func (s *Session) Cart(ctx context.Context) (string, error) { return s.get(ctx, KeyCart) }
func (s *Session) SetCart(ctx context.Context, v string) error {
	return s.set(ctx, KeyCart, v)
}
func (s *Session) ClearCart(ctx context.Context) error {
	return s.s.Clear(ctx, s.deviceID, KeyCart)
}

// ClearBooking drops the booking and everything scoped under it.  Called when
// the server reports the booking inactive or the guest finishes checkout.
func (s *Session) ClearBooking(ctx context.Context) error {
	return s.s.Clear(ctx, s.deviceID, KeyBookingID, KeyOrderID, KeyOrderItems)
}

// ClearOrder drops only the order-scoped keys, keeping the booking alive.
func (s *Session) ClearOrder(ctx context.Context) error {
	return s.s.Clear(ctx, s.deviceID, KeyOrderID, KeyOrderItems)
}
