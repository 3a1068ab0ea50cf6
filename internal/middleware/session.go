package middleware // reusable HTTP middleware for the gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
)

// deviceCookie identifies one browser/device across visits.  It carries no
// auth by itself; the access token lives in the session store keyed by this
// id, never in the cookie.
const deviceCookie = "jeevic_device"

const sessionKey = "session"

// DeviceSession mints a device id for first-time visitors and attaches the
// device-bound session to the request context for handlers to pick up via
// SessionFrom.
func DeviceSession(st store.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if cookie, err := c.Cookie(deviceCookie); err == nil && cookie.Value != "" {
				id = cookie.Value
			} else {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     deviceCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   180 * 24 * 3600,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(sessionKey, store.NewSession(st, id))
			return next(c)
		}
	}
}

// SessionFrom returns the device session attached by DeviceSession.
func SessionFrom(c echo.Context) *store.Session {
	sess, _ := c.Get(sessionKey).(*store.Session)
	return sess
}
