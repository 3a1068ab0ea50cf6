package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/cart"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/middleware"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/utils"
)

// currentToken returns the session's access token when it is present and not
// expired.  An expired token is dropped on the spot so the next resolution
// asks for a fresh login instead of replaying a dead bearer.
func currentToken(ctx context.Context, sess *store.Session) (string, error) {
	token, err := sess.Token(ctx)
	if err != nil {
		return "", err
	}
	if !utils.IsTokenValid(token, time.Now()) {
		if token != "" {
			if err := sess.ClearToken(ctx); err != nil {
				return "", err
			}
		}
		return "", nil
	}
	return token, nil
}

// sessionAndToken pulls the device session and a valid token off the request.
// The boolean is false when the caller already wrote the 401 response.
func sessionAndToken(c echo.Context) (*store.Session, string, bool) {
	sess := middleware.SessionFrom(c)
	token, err := currentToken(c.Request().Context(), sess)
	if err != nil {
		_ = c.JSON(500, echo.Map{"error": "session store unavailable"})
		return nil, "", false
	}
	if token == "" {
		_ = c.JSON(401, echo.Map{"error": "authentication required"})
		return nil, "", false
	}
	return sess, token, true
}

// loadCart restores the device's working cart from its stored snapshot.
func loadCart(ctx context.Context, sess *store.Session) (*cart.Cart, error) {
	snapshot, err := sess.Cart(ctx)
	if err != nil {
		return nil, err
	}
	return cart.FromJSON(snapshot)
}

// saveCart persists the working cart back to the session store.
func saveCart(ctx context.Context, sess *store.Session, ct *cart.Cart) error {
	snapshot, err := ct.JSON()
	if err != nil {
		return err
	}
	return sess.SetCart(ctx, snapshot)
}

// loadOrderItems restores the display snapshot of the current order's lines.
func loadOrderItems(ctx context.Context, sess *store.Session) ([]cart.Item, error) {
	raw, err := sess.OrderItems(ctx)
	if err != nil || raw == "" {
		return nil, err
	}
	var items []cart.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// A garbled snapshot is dropped rather than crashing the view; the
		// order id stays put and the snapshot is rebuilt from the server.
		log.Printf("handler: discard unreadable order snapshot: %v", err)
		return nil, sess.ClearOrderItems(ctx)
	}
	return items, nil
}

// saveOrderItems persists the display snapshot of the current order's lines.
func saveOrderItems(ctx context.Context, sess *store.Session, items []cart.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return sess.SetOrderItems(ctx, string(raw))
}

// resolveDisplayItems turns wire order lines into displayable lines by
// joining against the menu, mirroring how the confirmation view recovers
// names and prices.  On menu failure it falls back to bare dish ids so the
// page still renders.
func resolveDisplayItems(ctx context.Context, client *api.Client, token string, wire []model.OrderItem) []cart.Item {
	dishes, err := client.Dishes(ctx, token)
	if err != nil {
		log.Printf("handler: menu lookup for order items failed: %v", err)
	}
	byID := make(map[string]model.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}
	out := make([]cart.Item, 0, len(wire))
	for _, it := range wire {
		item := cart.Item{
			DishID:       it.DishID,
			Name:         it.DishID,
			Quantity:     it.Quantity,
			Instructions: it.Instructions,
		}
		if d, ok := byID[it.DishID]; ok {
			item.Name = d.Name
			item.Price = d.Price
			item.Image = d.Picture
		}
		out = append(out, item)
	}
	return out
}

// itemsTotal sums price times quantity for display lines.
func itemsTotal(items []cart.Item) int {
	total := 0
	for _, it := range items {
		total += it.Price * it.Quantity
	}
	return total
}
