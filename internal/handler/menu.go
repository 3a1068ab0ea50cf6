package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
)

// MenuHandler serves the read-only browse data: categories and dishes.
type MenuHandler struct {
	API *api.Client
}

func NewMenuHandler(client *api.Client) *MenuHandler { return &MenuHandler{API: client} }

// Categories lists the dish categories for the landing grid.
func (h *MenuHandler) Categories(c echo.Context) error {
	sess, token, ok := sessionAndToken(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()
	cats, err := h.API.Categories(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			_ = sess.ClearToken(ctx)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to fetch categories"})
	}
	return c.JSON(http.StatusOK, cats)
}

// Dishes lists the full menu.
func (h *MenuHandler) Dishes(c echo.Context) error {
	sess, token, ok := sessionAndToken(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()
	dishes, err := h.API.Dishes(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			_ = sess.ClearToken(ctx)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to fetch dishes"})
	}
	return c.JSON(http.StatusOK, dishes)
}

// DishesByCategory lists the dishes of one category.
func (h *MenuHandler) DishesByCategory(c echo.Context) error {
	sess, token, ok := sessionAndToken(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()
	dishes, err := h.API.DishesByCategory(ctx, token, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			_ = sess.ClearToken(ctx)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		case errors.Is(err, api.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown category"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to fetch dishes"})
	}
	return c.JSON(http.StatusOK, dishes)
}
