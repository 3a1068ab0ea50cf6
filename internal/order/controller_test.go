package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
)

// stubGateway scripts upstream behaviour per call and counts invocations.
// The mutex matters for the poller tests, which call it from a goroutine.
type stubGateway struct {
	mu sync.Mutex

	bookings      int
	booking       model.Booking
	bookingErr    error
	creates       int
	created       model.Order
	createErr     error
	updates       int
	updatedWith   []model.OrderItem
	updateErr     error
	fetches       int
	fetched       model.Order
	fetchErr      error
	fetchSequence []func() (model.Order, error)
	tables        int
	table         model.Table
	tableErr      error
}

func (s *stubGateway) CreateBooking(ctx context.Context, token string, req api.CreateBookingRequest) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings++
	return s.booking, s.bookingErr
}

func (s *stubGateway) CreateOrder(ctx context.Context, token, tableID, bookingID string, items []model.OrderItem) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	return s.created, s.createErr
}

func (s *stubGateway) UpdateOrderItems(ctx context.Context, token, orderID string, items []model.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	s.updatedWith = items
	return s.updateErr
}

func (s *stubGateway) GetOrder(ctx context.Context, token, orderID string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if len(s.fetchSequence) > 0 {
		next := s.fetchSequence[0]
		s.fetchSequence = s.fetchSequence[1:]
		return next()
	}
	return s.fetched, s.fetchErr
}

func (s *stubGateway) TableByNumber(ctx context.Context, token, tableNumber string) (model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables++
	return s.table, s.tableErr
}

func scannedSession(t *testing.T) *store.Session {
	t.Helper()
	ctx := context.Background()
	sess := store.NewSession(store.NewMemory(), "dev-1")
	if err := sess.SetTable(ctx, "t1", "12"); err != nil {
		t.Fatal(err)
	}
	return sess
}

func TestSubmitCartEmpty(t *testing.T) {
	c := NewController(&stubGateway{}, 5*time.Second)
	res := c.SubmitCart(context.Background(), "tok", scannedSession(t), nil)
	if res.Success {
		t.Fatal("empty cart must not submit")
	}
}

func TestSubmitCartCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	sess := scannedSession(t)
	gw := &stubGateway{
		booking: model.Booking{ID: "b1", TableID: "t1"},
		created: model.Order{ID: "o1"},
	}
	c := NewController(gw, 5*time.Second)

	first := c.SubmitCart(ctx, "tok", sess, []model.OrderItem{{DishID: "d1", Quantity: 1}})
	if !first.Success || first.OrderID != "o1" {
		t.Fatalf("first submission failed: %+v", first)
	}
	if gw.bookings != 1 || gw.creates != 1 {
		t.Fatalf("expected one booking and one create, got %d/%d", gw.bookings, gw.creates)
	}
	if id, _ := sess.OrderID(ctx); id != "o1" {
		t.Fatalf("order id not stored, got %q", id)
	}

	gw.fetched = model.Order{ID: "o1", Items: []model.OrderItem{{DishID: "d1", Quantity: 1}}}
	second := c.SubmitCart(ctx, "tok", sess, []model.OrderItem{
		{DishID: "d1", Quantity: 2},
		{DishID: "d2", Quantity: 1},
	})
	if !second.Success || second.OrderID != "o1" {
		t.Fatalf("second submission failed: %+v", second)
	}
	if gw.creates != 1 {
		t.Fatalf("second submission must not create a sibling order, creates %d", gw.creates)
	}
	if gw.updates != 1 {
		t.Fatalf("expected one update, got %d", gw.updates)
	}
	want := []model.OrderItem{{DishID: "d1", Quantity: 3}, {DishID: "d2", Quantity: 1}}
	if len(gw.updatedWith) != 2 || gw.updatedWith[0] != want[0] || gw.updatedWith[1] != want[1] {
		t.Fatalf("expected merged list %v, got %v", want, gw.updatedWith)
	}
}

func TestSubmitCartRecreatesWhenStoredOrderGone(t *testing.T) {
	ctx := context.Background()
	sess := scannedSession(t)
	sess.SetBookingID(ctx, "b1")
	sess.SetOrderID(ctx, "stale")

	gw := &stubGateway{
		fetchErr: api.ErrNotFound,
		created:  model.Order{ID: "o2"},
	}
	c := NewController(gw, 5*time.Second)

	res := c.SubmitCart(ctx, "tok", sess, []model.OrderItem{{DishID: "d1", Quantity: 1}})
	if !res.Success || res.OrderID != "o2" {
		t.Fatalf("expected fresh order, got %+v", res)
	}
	if id, _ := sess.OrderID(ctx); id != "o2" {
		t.Fatalf("stale id should be replaced, got %q", id)
	}
}

func TestSubmitCartSurfacesBusinessRejection(t *testing.T) {
	ctx := context.Background()
	sess := scannedSession(t)
	sess.SetBookingID(ctx, "b1")

	gw := &stubGateway{createErr: &api.BusinessError{Status: 422, Message: "kitchen closed"}}
	c := NewController(gw, 5*time.Second)

	res := c.SubmitCart(ctx, "tok", sess, []model.OrderItem{{DishID: "d1", Quantity: 1}})
	if res.Success {
		t.Fatal("business rejection must fail the submission")
	}
	if res.Message != "kitchen closed" {
		t.Fatalf("server message should surface verbatim, got %q", res.Message)
	}
}

func TestSubmitCartTransportFaultKeepsOrderID(t *testing.T) {
	ctx := context.Background()
	sess := scannedSession(t)
	sess.SetBookingID(ctx, "b1")
	sess.SetOrderID(ctx, "o1")

	gw := &stubGateway{fetchErr: errors.New("connection reset")}
	c := NewController(gw, 5*time.Second)

	res := c.SubmitCart(ctx, "tok", sess, []model.OrderItem{{DishID: "d1", Quantity: 1}})
	if res.Success {
		t.Fatal("transport fault must fail the submission")
	}
	if res.Message == "" || res.Message == "connection reset" {
		t.Fatalf("expected a generic retry message, got %q", res.Message)
	}
	if id, _ := sess.OrderID(ctx); id != "o1" {
		t.Fatal("order id must survive a transport fault")
	}
}

func TestEnsureBookingReusesStoredBooking(t *testing.T) {
	ctx := context.Background()
	sess := scannedSession(t)
	sess.SetBookingID(ctx, "b1")

	gw := &stubGateway{}
	c := NewController(gw, 5*time.Second)

	bookingID, tableID, err := c.EnsureBooking(ctx, "tok", sess)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if bookingID != "b1" || tableID != "t1" {
		t.Fatalf("expected stored ids, got %s/%s", bookingID, tableID)
	}
	if gw.bookings != 0 {
		t.Fatal("stored booking must not be recreated")
	}
}

func TestEnsureBookingResolvesTableFromNumber(t *testing.T) {
	ctx := context.Background()
	// Pre-login scans store only the printed number.
	sess := store.NewSession(store.NewMemory(), "dev-1")
	if err := sess.SetTable(ctx, "", "12"); err != nil {
		t.Fatal(err)
	}

	gw := &stubGateway{
		table:   model.Table{ID: "t9", TableNumber: "12"},
		booking: model.Booking{ID: "b9"},
	}
	c := NewController(gw, 5*time.Second)

	bookingID, tableID, err := c.EnsureBooking(ctx, "tok", sess)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if bookingID != "b9" || tableID != "t9" {
		t.Fatalf("unexpected ids %s/%s", bookingID, tableID)
	}
	if gw.tables != 1 {
		t.Fatalf("expected one table lookup, got %d", gw.tables)
	}
	if id, _ := sess.TableID(ctx); id != "t9" {
		t.Fatal("resolved table id should be persisted")
	}
}

func TestEnsureBookingWithoutScanFails(t *testing.T) {
	sess := store.NewSession(store.NewMemory(), "dev-1")
	c := NewController(&stubGateway{}, 5*time.Second)
	if _, _, err := c.EnsureBooking(context.Background(), "tok", sess); err == nil {
		t.Fatal("expected error without a scanned table")
	}
}
