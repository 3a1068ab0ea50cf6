package model

// OrderStatus is the server-driven lifecycle state of a dine-in order.  The
// client never advances an order itself; it mirrors whatever the kitchen
// reports.  Unknown wire values map to StatusUnknown so a malformed response
// can be ignored without losing the previously observed state.
type OrderStatus string

const (
	StatusUnknown   OrderStatus = ""
	StatusPending   OrderStatus = "pending"
	StatusReceived  OrderStatus = "received"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusCancelled OrderStatus = "cancelled"
)

// ParseStatus maps a wire value onto a known status.  The boolean reports
// whether the value is one of the fixed enumeration; callers keep their
// previous status when it is not.
func ParseStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusReceived, StatusPreparing, StatusReady, StatusServed, StatusCancelled:
		return OrderStatus(s), true
	}
	return StatusUnknown, false
}

// Terminal reports whether no further transitions are expected.  Served is
// effectively terminal for ordering purposes but checkout still follows, so
// only cancelled stops the status poller.
func (s OrderStatus) Terminal() bool { return s == StatusCancelled }

// Title returns the headline copy the shell shows for a status.
func (s OrderStatus) Title() string {
	switch s {
	case StatusPending, StatusReceived:
		return "Order Received"
	case StatusPreparing:
		return "Preparing Your Order"
	case StatusReady:
		return "Ready to Bill"
	case StatusServed:
		return "Order Served"
	case StatusCancelled:
		return "Order Cancelled"
	}
	return "Processing Order"
}

// Detail returns the supporting copy the shell shows for a status.
func (s OrderStatus) Detail() string {
	switch s {
	case StatusPending, StatusReceived:
		return "We have received your order!"
	case StatusPreparing:
		return "Our chefs are preparing your delicious meal!"
	case StatusReady:
		return "Your bill is ready"
	case StatusServed:
		return "Enjoy your meal!"
	case StatusCancelled:
		return "Your order has been cancelled."
	}
	return "Processing your order..."
}

// OrderItem is a single line of an order in wire shape: which dish, how many,
// and the guest's free-text instructions.
type OrderItem struct {
	DishID       string `json:"dish_id"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

// Order is the client's mirror of a dine-in order.  At most one non-terminal
// order exists per booking from this client's perspective; repeat submissions
// update it in place rather than creating a sibling.
type Order struct {
	ID        string      `json:"id"`
	BookingID string      `json:"booking_id"`
	TableID   string      `json:"table_id"`
	Items     []OrderItem `json:"items"`
	Status    OrderStatus `json:"order_status"`
}
