package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
)

// envelope is the {success, data} wrapper the dine-in endpoints use.
type bookingEnvelope struct {
	Success bool          `json:"success"`
	Data    model.Booking `json:"data"`
}

type orderEnvelope struct {
	Success bool        `json:"success"`
	Data    model.Order `json:"data"`
}

type tableEnvelope struct {
	Success bool        `json:"success"`
	Data    model.Table `json:"data"`
}

// CreateBookingRequest opens a table-occupancy window.  Times are wall-clock
// strings the way the upstream stores them.
type CreateBookingRequest struct {
	TableID     string `json:"table_id"`
	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
	FromTime    string `json:"from_time"`
}

// CreateBooking opens a new booking for a table.  A success envelope without
// an id is malformed: nothing downstream can work without the booking id.
func (c *Client) CreateBooking(ctx context.Context, token string, req CreateBookingRequest) (model.Booking, error) {
	var out bookingEnvelope
	if err := c.do(ctx, "POST", "/dine-in/bookings", token, req, &out); err != nil {
		return model.Booking{}, err
	}
	if !out.Success || out.Data.ID == "" {
		return model.Booking{}, ErrMalformed
	}
	return out.Data, nil
}

// CheckBooking reports whether a booking is still active.  An explicit
// {active_booking:false} is a server verdict, not an error; transport faults
// surface as errors so callers can fail open.
func (c *Client) CheckBooking(ctx context.Context, token, bookingID string) (bool, error) {
	var out struct {
		Success       bool `json:"success"`
		ActiveBooking bool `json:"active_booking"`
	}
	path := fmt.Sprintf("/dine-in/check-booking/%s", url.PathEscape(bookingID))
	if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
		return false, err
	}
	return out.ActiveBooking, nil
}

type createOrderRequest struct {
	TableID   string            `json:"table_id"`
	BookingID string            `json:"booking_id"`
	Items     []model.OrderItem `json:"items"`
}

type updateOrderRequest struct {
	Items []model.OrderItem `json:"items"`
}

// CreateOrder places the first order of a booking.
func (c *Client) CreateOrder(ctx context.Context, token, tableID, bookingID string, items []model.OrderItem) (model.Order, error) {
	var out orderEnvelope
	req := createOrderRequest{TableID: tableID, BookingID: bookingID, Items: items}
	if err := c.do(ctx, "POST", "/dine-in/orders", token, req, &out); err != nil {
		return model.Order{}, err
	}
	if !out.Success || out.Data.ID == "" {
		return model.Order{}, ErrMalformed
	}
	return out.Data, nil
}

// UpdateOrderItems replaces the full item list of an existing order.  The
// caller must pass the complete desired set, not just newly added lines.
func (c *Client) UpdateOrderItems(ctx context.Context, token, orderID string, items []model.OrderItem) error {
	path := fmt.Sprintf("/dine-in/orders/%s", url.PathEscape(orderID))
	return c.do(ctx, "PATCH", path, token, updateOrderRequest{Items: items}, nil)
}

// GetOrder fetches an order by id.  A success envelope without an id maps to
// ErrNotFound so the resolver can drop a stale stored order id.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (model.Order, error) {
	var out orderEnvelope
	path := fmt.Sprintf("/dine-in/orders/%s", url.PathEscape(orderID))
	if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
		return model.Order{}, err
	}
	if !out.Success || out.Data.ID == "" {
		return model.Order{}, ErrNotFound
	}
	return out.Data, nil
}

// TableByNumber resolves a printed table number (from the QR code) to the
// table record.
func (c *Client) TableByNumber(ctx context.Context, token, tableNumber string) (model.Table, error) {
	var out tableEnvelope
	path := fmt.Sprintf("/dine-in/tables/by-no/%s", url.PathEscape(tableNumber))
	if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
		return model.Table{}, err
	}
	if !out.Success || out.Data.ID == "" {
		return model.Table{}, ErrNotFound
	}
	return out.Data, nil
}

// RequestAssistance calls a waiter to the table.
func (c *Client) RequestAssistance(ctx context.Context, token, tableNumber string) error {
	body := map[string]string{"table_number": tableNumber}
	return c.do(ctx, "POST", "/dine-in/assistance", token, body, nil)
}

// CreateCheckout closes out a booking.  It returns the checkout id when the
// server provides one.
func (c *Client) CreateCheckout(ctx context.Context, token, bookingID string) (string, error) {
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	body := map[string]string{"booking_id": bookingID}
	if err := c.do(ctx, "POST", "/dine-in/checkouts", token, body, &out); err != nil {
		return "", err
	}
	return out.Data.ID, nil
}
