package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/order"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/queue"
	queue_publisher "github.com/LakshmiSureshChandra/jeevicqrmenu/internal/service"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/session"
)

// CheckoutHandler finishes the order flow: ratings, checkout, session reset.
type CheckoutHandler struct {
	API      *api.Client
	Orders   *order.Controller
	Resolver *session.Resolver
}

func NewCheckoutHandler(client *api.Client, orders *order.Controller, resolver *session.Resolver) *CheckoutHandler {
	return &CheckoutHandler{API: client, Orders: orders, Resolver: resolver}
}

type checkoutReq struct {
	Ratings []model.DishRating `json:"ratings"`
}

// Finish submits the guest's dish ratings, closes out the booking, stops
// status polling and clears the order-scoped session state.  The response
// carries the terminal thank-you state; blocking back-navigation out of it
// is the shell's job.
func (h *CheckoutHandler) Finish(c echo.Context) error {
	sess, token, ok := sessionAndToken(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()

	bookingID, err := sess.BookingID(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store unavailable"})
	}
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no active booking"})
	}

	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Ratings) > 0 {
		if err := h.API.SubmitRatings(ctx, token, req.Ratings); err != nil {
			if m, ok := api.IsBusiness(err); ok {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": m})
			}
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to submit ratings"})
		}
	}

	checkoutID, err := h.API.CreateCheckout(ctx, token, bookingID)
	if err != nil {
		if m, ok := api.IsBusiness(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": m})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "checkout failed"})
	}

	tableID, _ := sess.TableID(ctx)
	h.Orders.StopPolling(sess.DeviceID())
	h.Resolver.ForgetBooking(bookingID)
	if err := sess.ClearBooking(ctx); err != nil {
		log.Printf("handler: clear booking failed: %v", err)
	}
	if err := sess.ClearCart(ctx); err != nil {
		log.Printf("handler: clear cart failed: %v", err)
	}

	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishCheckoutCompleted(pctx, queue.CheckoutCompletedEvent{
			BookingID:   bookingID,
			CheckoutID:  checkoutID,
			TableID:     tableID,
			CompletedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{"finished": true, "state": "thank_you"})
}
