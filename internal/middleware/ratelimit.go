package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/config"
)

// NewOTPRateLimit throttles the OTP endpoints with a fixed window counter in
// Redis, keyed by client address and requested phone number so one abuser
// cannot exhaust the SMS budget.  With no Redis client (or when disabled)
// the middleware is a pass-through, and a Redis error at request time also
// lets the request through.
func NewOTPRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildOTPKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if count == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				retry := int(cfg.Window / time.Second)
				if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
					retry = int(ttl / time.Second)
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "too many OTP requests, try again later",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}

// buildOTPKey scopes the counter to client address plus phone number.  The
// body is re-buffered so the handler can still bind it.
func buildOTPKey(prefix string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	phone := "unknown"
	req := c.Request()
	if req.Body != nil {
		raw, err := io.ReadAll(req.Body)
		if err == nil {
			req.Body = io.NopCloser(bytes.NewReader(raw))
			var body struct {
				PhoneNumber string `json:"phone_number"`
			}
			if json.Unmarshal(raw, &body) == nil && body.PhoneNumber != "" {
				phone = body.PhoneNumber
			}
		}
	}
	return fmt.Sprintf("%s:ip:%s:phone:%s", prefix, ip, phone)
}
