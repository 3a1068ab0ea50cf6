package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/cart"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/order"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/queue"
	queue_publisher "github.com/LakshmiSureshChandra/jeevicqrmenu/internal/service"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
)

// OrderHandler drives cart submission and the current-order view.
type OrderHandler struct {
	API    *api.Client
	Orders *order.Controller
}

func NewOrderHandler(client *api.Client, orders *order.Controller) *OrderHandler {
	return &OrderHandler{API: client, Orders: orders}
}

// orderView is the confirmation-page payload: lines with display data,
// totals, the table, and the observed status with its UI copy.
type orderView struct {
	OrderID      string            `json:"order_id"`
	Status       model.OrderStatus `json:"status"`
	StatusTitle  string            `json:"status_title"`
	StatusDetail string            `json:"status_detail"`
	Items        []cart.Item       `json:"items"`
	Total        int               `json:"total"`
	TableNumber  string            `json:"table_number,omitempty"`
}

// Submit places the working cart as an order.  The first submission of a
// booking creates the order; later ones update it in place.  Failures come
// back as {success:false, message} so the shell shows a retry toast instead
// of an error page.
func (h *OrderHandler) Submit(c echo.Context) error {
	sess, token, ok := sessionAndToken(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()

	ct, err := loadCart(ctx, sess)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	if ct.Empty() {
		return c.JSON(http.StatusOK, order.Result{Success: false, Message: "nothing to order"})
	}

	res := h.Orders.SubmitCart(ctx, token, sess, ct.OrderItems())
	if !res.Success {
		return c.JSON(http.StatusOK, res)
	}

	// Fold the just-submitted lines into the display snapshot, clear the
	// working cart, and begin mirroring the kitchen's status.
	previous, err := loadOrderItems(ctx, sess)
	if err != nil {
		log.Printf("handler: load order snapshot failed: %v", err)
	}
	merged := cart.MergeItems(previous, ct.Items())
	if err := saveOrderItems(ctx, sess, merged); err != nil {
		log.Printf("handler: save order snapshot failed: %v", err)
	}
	if err := sess.ClearCart(ctx); err != nil {
		log.Printf("handler: clear cart failed: %v", err)
	}
	h.Orders.StartPolling(token, sess.DeviceID(), res.OrderID, model.StatusPending)

	go h.publishPlaced(sess, res)

	return c.JSON(http.StatusOK, res)
}

// publishPlaced emits the order.placed event.  Best effort only: the broker
// being down must never surface to the guest.
func (h *OrderHandler) publishPlaced(sess *store.Session, res order.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	bookingID, _ := sess.BookingID(ctx)
	tableID, _ := sess.TableID(ctx)
	_ = queue_publisher.PublishOrderPlaced(ctx, queue.OrderPlacedEvent{
		OrderID:   res.OrderID,
		BookingID: bookingID,
		TableID:   tableID,
		Items:     res.Items,
		PlacedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// Current returns the active order with its observed status.  Status comes
// from the device's poller; this endpoint never triggers an out-of-cycle
// fetch while a poller is running.
func (h *OrderHandler) Current(c echo.Context) error {
	sess, token, ok := sessionAndToken(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()

	orderID, err := sess.OrderID(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store unavailable"})
	}
	if orderID == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active order"})
	}

	var status model.OrderStatus
	items, err := loadOrderItems(ctx, sess)
	if err != nil {
		log.Printf("handler: load order snapshot failed: %v", err)
	}

	if p := h.Orders.PollerFor(sess.DeviceID()); p != nil && p.OrderID() == orderID {
		status = p.Status()
	} else {
		// No poller yet (gateway restart or resumed session): fetch once to
		// seed, then let the poller take over.
		ord, err := h.API.GetOrder(ctx, token, orderID)
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			_ = sess.ClearToken(ctx)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		case errors.Is(err, api.ErrNotFound):
			_ = sess.ClearOrder(ctx)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active order"})
		case err != nil:
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "order temporarily unavailable"})
		}
		status = ord.Status
		if len(items) == 0 {
			items = resolveDisplayItems(ctx, h.API, token, ord.Items)
			if err := saveOrderItems(ctx, sess, items); err != nil {
				log.Printf("handler: save order snapshot failed: %v", err)
			}
		}
		if !status.Terminal() {
			h.Orders.StartPolling(token, sess.DeviceID(), orderID, status)
		}
	}

	tableNumber, _ := sess.TableNumber(ctx)
	return c.JSON(http.StatusOK, orderView{
		OrderID:      orderID,
		Status:       status,
		StatusTitle:  status.Title(),
		StatusDetail: status.Detail(),
		Items:        items,
		Total:        itemsTotal(items),
		TableNumber:  tableNumber,
	})
}
