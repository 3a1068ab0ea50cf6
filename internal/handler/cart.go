package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/cart"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/middleware"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
)

// CartHandler owns the working cart.  All mutation goes through these
// endpoints; the shell only renders the returned view.
type CartHandler struct{}

func NewCartHandler() *CartHandler { return &CartHandler{} }

// cartView is the response shape for every cart endpoint, so the shell can
// re-render the bottom bar after any mutation.
type cartView struct {
	Items   []cart.Item `json:"items"`
	Total   int         `json:"total"`
	Count   int         `json:"count"`
	Summary string      `json:"summary,omitempty"`
}

func viewOf(ct *cart.Cart) cartView {
	return cartView{
		Items:   ct.Items(),
		Total:   ct.Total(),
		Count:   ct.Count(),
		Summary: ct.Summary(),
	}
}

func (h *CartHandler) withCart(c echo.Context, mutate func(*cart.Cart) error) error {
	sess := middleware.SessionFrom(c)
	ctx := c.Request().Context()
	ct, err := loadCart(ctx, sess)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	if mutate != nil {
		if err := mutate(ct); err != nil {
			return err
		}
		if err := saveCart(ctx, sess, ct); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart save failed"})
		}
	}
	return c.JSON(http.StatusOK, viewOf(ct))
}

// Get returns the current cart.
func (h *CartHandler) Get(c echo.Context) error {
	return h.withCart(c, nil)
}

// AddItem puts a dish in the cart with quantity 1.  Re-adding a dish already
// in the cart changes nothing; quantity moves only through UpdateQuantity.
func (h *CartHandler) AddItem(c echo.Context) error {
	var dish model.Dish
	if err := c.Bind(&dish); err != nil || dish.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dish required"})
	}
	return h.withCart(c, func(ct *cart.Cart) error {
		ct.Add(dish)
		return nil
	})
}

type quantityReq struct {
	Delta int `json:"delta"`
}

// UpdateQuantity applies a +/- delta to a line.  Reaching zero removes the
// line.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req quantityReq
	if err := c.Bind(&req); err != nil || req.Delta == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "non-zero delta required"})
	}
	return h.withCart(c, func(ct *cart.Cart) error {
		ct.UpdateQuantity(c.Param("dishId"), req.Delta)
		return nil
	})
}

type instructionsReq struct {
	Text string `json:"text"`
}

// SetInstructions saves free-text instructions for a line.
func (h *CartHandler) SetInstructions(c echo.Context) error {
	var req instructionsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.withCart(c, func(ct *cart.Cart) error {
		ct.SetInstructions(c.Param("dishId"), req.Text)
		return nil
	})
}

// ClearInstructions removes a line's instructions.
func (h *CartHandler) ClearInstructions(c echo.Context) error {
	return h.withCart(c, func(ct *cart.Cart) error {
		ct.ClearInstructions(c.Param("dishId"))
		return nil
	})
}
