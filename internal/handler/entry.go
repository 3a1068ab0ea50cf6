package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/cart"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/middleware"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/order"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/session"
)

// EntryHandler answers the landing request: it resolves the session and
// hands the shell everything the home screen needs in one response.
type EntryHandler struct {
	API      *api.Client
	Resolver *session.Resolver
	Orders   *order.Controller
}

func NewEntryHandler(client *api.Client, resolver *session.Resolver, orders *order.Controller) *EntryHandler {
	return &EntryHandler{API: client, Resolver: resolver, Orders: orders}
}

// entryView is the landing payload.  Order fields are set only when the
// session resumes an active order.
type entryView struct {
	State        session.State     `json:"state"`
	Categories   []model.Category  `json:"categories,omitempty"`
	TableNumber  string            `json:"table_number,omitempty"`
	Items        []cart.Item       `json:"items,omitempty"`
	Status       model.OrderStatus `json:"status,omitempty"`
	StatusTitle  string            `json:"status_title,omitempty"`
	StatusDetail string            `json:"status_detail,omitempty"`
}

// Entry resolves the session and returns the entry state.  Menu data is best
// effort here: a categories failure must not block a guest who can already
// order.
func (h *EntryHandler) Entry(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	ctx := c.Request().Context()

	res, err := h.Resolver.Resolve(ctx, sess)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store unavailable"})
	}

	view := entryView{State: res.State}
	if res.State == session.RequireAuth {
		return c.JSON(http.StatusOK, view)
	}

	token, err := currentToken(ctx, sess)
	if err != nil || token == "" {
		// The resolver just validated the token; a miss here means the store
		// changed under us.  Resolve again next request.
		return c.JSON(http.StatusOK, entryView{State: session.RequireAuth})
	}

	if cats, err := h.API.Categories(ctx, token); err == nil {
		view.Categories = cats
	} else {
		log.Printf("handler: categories fetch failed: %v", err)
	}
	view.TableNumber, _ = sess.TableNumber(ctx)

	if res.State == session.ResumeOrder {
		items, err := loadOrderItems(ctx, sess)
		if err != nil {
			log.Printf("handler: load order snapshot failed: %v", err)
		}
		if len(items) == 0 {
			items = resolveDisplayItems(ctx, h.API, token, res.Items)
			if err := saveOrderItems(ctx, sess, items); err != nil {
				log.Printf("handler: save order snapshot failed: %v", err)
			}
		}
		view.Items = items
		view.Status = res.Status
		view.StatusTitle = res.Status.Title()
		view.StatusDetail = res.Status.Detail()

		if orderID, _ := sess.OrderID(ctx); orderID != "" && !res.Status.Terminal() {
			h.Orders.StartPolling(token, sess.DeviceID(), orderID, res.Status)
		}
	}
	return c.JSON(http.StatusOK, view)
}
