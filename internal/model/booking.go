package model

// Booking represents a table-occupancy window tying a physical table to a
// guest session.  The server owns all transitions; the client only creates a
// booking when none is active and checks liveness afterwards.
//
// Fields:
//  ID          – booking identifier returned by the server.
//  TableID     – table the booking occupies.
//  BookingDate – calendar date of the visit (YYYY-MM-DD).
//  BookingTime – wall-clock time the booking was opened (HH:MM).
//  FromTime    – start of the occupancy window (HH:MM).
//  Active      – whether the booking is still live (not completed/cancelled).
type Booking struct {
	ID          string `json:"id"`
	TableID     string `json:"table_id"`
	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
	FromTime    string `json:"from_time"`
	Active      bool   `json:"is_active"`
}

// Table is the restaurant-side record resolved from a QR scan.  Only the
// identifier and the printed table number matter to this client.
type Table struct {
	ID          string `json:"id"`
	TableNumber string `json:"table_number"`
	Capacity    int    `json:"capacity"`
}
