package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
)

type fakeGateway struct {
	checkCalls  int
	checkActive bool
	checkErr    error

	orderCalls int
	order      model.Order
	orderErr   error
}

func (f *fakeGateway) CheckBooking(ctx context.Context, token, bookingID string) (bool, error) {
	f.checkCalls++
	return f.checkActive, f.checkErr
}

func (f *fakeGateway) GetOrder(ctx context.Context, token, orderID string) (model.Order, error) {
	f.orderCalls++
	return f.order, f.orderErr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newSession(t *testing.T) *store.Session {
	t.Helper()
	return store.NewSession(store.NewMemory(), "dev-1")
}

func TestResolveFreshDeviceRequiresAuth(t *testing.T) {
	gw := &fakeGateway{}
	r := NewResolver(gw, 10*time.Second)

	res, err := r.Resolve(context.Background(), newSession(t))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != RequireAuth {
		t.Fatalf("expected require_auth, got %s", res.State)
	}
	if gw.checkCalls+gw.orderCalls != 0 {
		t.Fatal("no upstream calls expected without a token")
	}
}

func TestResolveExpiredTokenClearedAndRequiresAuth(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	if err := sess.SetToken(ctx, signedToken(t, time.Now().Add(-time.Hour))); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(&fakeGateway{}, 10*time.Second)
	res, err := r.Resolve(ctx, sess)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != RequireAuth {
		t.Fatalf("expected require_auth, got %s", res.State)
	}
	if tok, _ := sess.Token(ctx); tok != "" {
		t.Fatal("expired token should be cleared")
	}
}

func TestResolveNoBookingReadyToOrder(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	if err := sess.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour))); err != nil {
		t.Fatal(err)
	}

	gw := &fakeGateway{}
	res, err := NewResolver(gw, 10*time.Second).Resolve(ctx, sess)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != ReadyToOrder {
		t.Fatalf("expected ready_to_order, got %s", res.State)
	}
	if gw.checkCalls != 0 {
		t.Fatal("no liveness check expected without a booking id")
	}
}

func TestResolveResumesActiveOrder(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	sess.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour)))
	sess.SetBookingID(ctx, "b1")
	sess.SetOrderID(ctx, "o1")

	gw := &fakeGateway{
		checkActive: true,
		order: model.Order{
			ID:     "o1",
			Status: model.StatusPreparing,
			Items:  []model.OrderItem{{DishID: "d1", Quantity: 2}},
		},
	}
	res, err := NewResolver(gw, 10*time.Second).Resolve(ctx, sess)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != ResumeOrder {
		t.Fatalf("expected resume_order, got %s", res.State)
	}
	if res.Status != model.StatusPreparing || len(res.Items) != 1 {
		t.Fatalf("unexpected resume payload: %+v", res)
	}
}

func TestResolveLivenessCacheSkipsRepeatChecks(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	sess.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour)))
	sess.SetBookingID(ctx, "b1")

	gw := &fakeGateway{checkActive: true}
	r := NewResolver(gw, 10*time.Second)

	base := time.Now()
	clock := base
	r.cache.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(ctx, sess); err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
	}
	if gw.checkCalls != 1 {
		t.Fatalf("expected 1 liveness check inside the window, got %d", gw.checkCalls)
	}

	clock = base.Add(11 * time.Second)
	if _, err := r.Resolve(ctx, sess); err != nil {
		t.Fatalf("resolve after window: %v", err)
	}
	if gw.checkCalls != 2 {
		t.Fatalf("expected a second check after the window, got %d", gw.checkCalls)
	}
}

func TestResolveInactiveBookingClearsIdentifiers(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	sess.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour)))
	sess.SetBookingID(ctx, "b1")
	sess.SetOrderID(ctx, "o1")

	gw := &fakeGateway{checkActive: false}
	res, err := NewResolver(gw, 10*time.Second).Resolve(ctx, sess)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != ReadyToOrder {
		t.Fatalf("expected ready_to_order, got %s", res.State)
	}
	if id, _ := sess.BookingID(ctx); id != "" {
		t.Fatal("booking id should be cleared")
	}
	if id, _ := sess.OrderID(ctx); id != "" {
		t.Fatal("order id should be cleared with the booking")
	}
	if gw.orderCalls != 0 {
		t.Fatal("order fetch should not happen for an inactive booking")
	}
}

func TestResolveFailsOpenOnTransportError(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	sess.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour)))
	sess.SetBookingID(ctx, "b1")
	sess.SetOrderID(ctx, "o1")

	gw := &fakeGateway{checkErr: errors.New("connection refused")}
	res, err := NewResolver(gw, 10*time.Second).Resolve(ctx, sess)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != ReadyToOrder {
		t.Fatalf("expected fail-open ready_to_order, got %s", res.State)
	}
	// Identifiers survive so the session reconciles once connectivity returns.
	if id, _ := sess.BookingID(ctx); id != "b1" {
		t.Fatal("booking id must survive a transport fault")
	}
	if id, _ := sess.OrderID(ctx); id != "o1" {
		t.Fatal("order id must survive a transport fault")
	}
}

func TestResolveUnauthorizedCheckClearsToken(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	sess.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour)))
	sess.SetBookingID(ctx, "b1")

	gw := &fakeGateway{checkErr: api.ErrUnauthorized}
	res, err := NewResolver(gw, 10*time.Second).Resolve(ctx, sess)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != RequireAuth {
		t.Fatalf("expected require_auth, got %s", res.State)
	}
	if tok, _ := sess.Token(ctx); tok != "" {
		t.Fatal("rejected token should be cleared")
	}
	if id, _ := sess.BookingID(ctx); id != "b1" {
		t.Fatal("booking id should survive a token rejection")
	}
}

func TestResolveMissingOrderClearsOrderOnly(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	sess.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour)))
	sess.SetBookingID(ctx, "b1")
	sess.SetOrderID(ctx, "gone")

	gw := &fakeGateway{checkActive: true, orderErr: api.ErrNotFound}
	res, err := NewResolver(gw, 10*time.Second).Resolve(ctx, sess)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != ReadyToOrder {
		t.Fatalf("expected ready_to_order, got %s", res.State)
	}
	if id, _ := sess.OrderID(ctx); id != "" {
		t.Fatal("missing order id should be cleared")
	}
	if id, _ := sess.BookingID(ctx); id != "b1" {
		t.Fatal("booking must stay alive when only the order is gone")
	}
}

func TestResolveOrderFetchFaultFailsOpen(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	sess.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour)))
	sess.SetBookingID(ctx, "b1")
	sess.SetOrderID(ctx, "o1")

	gw := &fakeGateway{checkActive: true, orderErr: errors.New("timeout")}
	res, err := NewResolver(gw, 10*time.Second).Resolve(ctx, sess)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != ReadyToOrder {
		t.Fatalf("expected fail-open ready_to_order, got %s", res.State)
	}
	if id, _ := sess.OrderID(ctx); id != "o1" {
		t.Fatal("order id must survive a transport fault")
	}
}

func TestForgetBookingForcesRecheck(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t)
	sess.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour)))
	sess.SetBookingID(ctx, "b1")

	gw := &fakeGateway{checkActive: true}
	r := NewResolver(gw, time.Hour)

	r.Resolve(ctx, sess)
	r.ForgetBooking("b1")
	r.Resolve(ctx, sess)

	if gw.checkCalls != 2 {
		t.Fatalf("expected recheck after ForgetBooking, got %d calls", gw.checkCalls)
	}
}
