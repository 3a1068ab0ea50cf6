package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/config"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/handler"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/middleware"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
)

// Handlers bundles every handler the gateway mounts.  Keeping registration
// in one place makes the whole HTTP surface readable at a glance.
type Handlers struct {
	Entry      *handler.EntryHandler
	Auth       *handler.AuthHandler
	Menu       *handler.MenuHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	Assistance *handler.AssistanceHandler
	Checkout   *handler.CheckoutHandler
	Scan       *handler.ScanHandler
}

// RegisterRoutes wires the full routing surface.  Every route runs behind
// the device-session middleware; only the OTP endpoints get the Redis rate
// limiter (pass-through when rdb is nil).
func RegisterRoutes(e *echo.Echo, h Handlers, st store.Store, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.Use(middleware.DeviceSession(st))

	// Landing entry and the QR table-scan redirect.
	e.GET("/", h.Entry.Entry)
	e.GET("/t/:tableNumber", h.Scan.Scan)

	// Phone/OTP auth. Throttled per address+phone so a bot cannot drain the
	// SMS budget.
	auth := e.Group("/v1/auth")
	auth.Use(middleware.NewOTPRateLimit(rlCfg, rdb))
	auth.POST("/login-request", h.Auth.LoginRequest)
	auth.POST("/verify", h.Auth.Verify)

	// Menu browsing.
	e.GET("/v1/categories", h.Menu.Categories)
	e.GET("/v1/categories/:id/dishes", h.Menu.DishesByCategory)
	e.GET("/v1/dishes", h.Menu.Dishes)

	// Working cart.
	e.GET("/v1/cart", h.Cart.Get)
	e.POST("/v1/cart/items", h.Cart.AddItem)
	e.PATCH("/v1/cart/items/:dishId", h.Cart.UpdateQuantity)
	e.PUT("/v1/cart/items/:dishId/instructions", h.Cart.SetInstructions)
	e.DELETE("/v1/cart/items/:dishId/instructions", h.Cart.ClearInstructions)

	// Order lifecycle and close-out.
	e.POST("/v1/orders", h.Order.Submit)
	e.GET("/v1/orders/current", h.Order.Current)
	e.POST("/v1/assistance", h.Assistance.Request)
	e.POST("/v1/checkout", h.Checkout.Finish)
}
