package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig throttles the OTP endpoints.  Phone/OTP login is the one
// surface a bot can abuse to burn SMS credits, so it gets a per-phone,
// per-address budget.  Disabled automatically when Redis is unavailable.
type RateLimitConfig struct {
	Enabled bool
	Limit   int           // requests allowed per window
	Window  time.Duration // fixed window length
	Prefix  string        // redis key namespace
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("OTP_RATE_LIMIT_ENABLED", true),
		Limit:   envInt("OTP_RATE_LIMIT", 5),
		Window:  envDur("OTP_RATE_WINDOW", 10*time.Minute),
		Prefix:  envStr("OTP_RATE_PREFIX", "otp"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = 10 * time.Minute
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
