package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/middleware"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
)

func cartRequest(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.AddCookie(&http.Cookie{Name: "jeevic_device", Value: "dev-1"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newCartApp() *echo.Echo {
	e := echo.New()
	e.Use(middleware.DeviceSession(store.NewMemory()))
	h := NewCartHandler()
	e.GET("/v1/cart", h.Get)
	e.POST("/v1/cart/items", h.AddItem)
	e.PATCH("/v1/cart/items/:dishId", h.UpdateQuantity)
	e.PUT("/v1/cart/items/:dishId/instructions", h.SetInstructions)
	e.DELETE("/v1/cart/items/:dishId/instructions", h.ClearInstructions)
	return e
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var view map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return view
}

func TestCartEndpointsFlow(t *testing.T) {
	e := newCartApp()

	rec := cartRequest(t, e, http.MethodGet, "/v1/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get empty cart: %d", rec.Code)
	}
	if view := decodeView(t, rec); view["count"].(float64) != 0 {
		t.Fatalf("expected empty cart, got %v", view)
	}

	rec = cartRequest(t, e, http.MethodPost, "/v1/cart/items",
		`{"id":"d1","name":"Masala Dosa","price":100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: %d %s", rec.Code, rec.Body.String())
	}

	// Re-adding the same dish changes nothing.
	cartRequest(t, e, http.MethodPost, "/v1/cart/items",
		`{"id":"d1","name":"Masala Dosa","price":100}`)

	rec = cartRequest(t, e, http.MethodPatch, "/v1/cart/items/d1", `{"delta":1}`)
	view := decodeView(t, rec)
	if view["total"].(float64) != 200 || view["count"].(float64) != 2 {
		t.Fatalf("expected 2 x 100 after delta, got %v", view)
	}

	rec = cartRequest(t, e, http.MethodPut, "/v1/cart/items/d1/instructions",
		`{"text":"extra chutney"}`)
	items := decodeView(t, rec)["items"].([]any)
	if items[0].(map[string]any)["instructions"] != "extra chutney" {
		t.Fatalf("instructions not applied: %v", items)
	}

	// Quantity down to zero removes the line.
	rec = cartRequest(t, e, http.MethodPatch, "/v1/cart/items/d1", `{"delta":-2}`)
	if view := decodeView(t, rec); view["count"].(float64) != 0 {
		t.Fatalf("expected empty cart after floor, got %v", view)
	}
}

func TestCartSurvivesAcrossRequests(t *testing.T) {
	e := newCartApp()

	cartRequest(t, e, http.MethodPost, "/v1/cart/items", `{"id":"d1","name":"Thali","price":350}`)

	rec := cartRequest(t, e, http.MethodGet, "/v1/cart", "")
	if view := decodeView(t, rec); view["total"].(float64) != 350 {
		t.Fatalf("cart did not persist in the session store: %v", view)
	}
}

func TestCartRejectsBadInput(t *testing.T) {
	e := newCartApp()

	rec := cartRequest(t, e, http.MethodPost, "/v1/cart/items", `{"name":"no id"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing dish id, got %d", rec.Code)
	}

	rec = cartRequest(t, e, http.MethodPatch, "/v1/cart/items/d1", `{"delta":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero delta, got %d", rec.Code)
	}
}
