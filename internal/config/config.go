package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses interval settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The gateway itself is stateless apart from the
// session store, so most of this is wiring for the upstream API and the
// chosen store backend.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	APIBaseURL     string        // base URL of the upstream dine-in API
	CountryCode    string        // default country code for phone auth
	LivenessTTL    time.Duration // booking liveness-check cache window
	PollInterval   time.Duration // order status polling interval (5-10s)
	SessionBackend string        // "memory", "file", "redis" or "mysql"
	SessionFile    string        // path for the file backend
	DBUser         string        // MySQL username (mysql backend only)
	DBPass         string        // MySQL password (optional)
	DBHost         string        // MySQL host address
	DBPort         string        // MySQL port number
	DBName         string        // MySQL database name
}

// Load reads configuration from environment variables.  Required variables
// are enforced by must() and missing values cause the program to exit with a
// fatal log message.  The polling interval is clamped to the 5-10 second
// range the kitchen expects from status pollers.
func Load() Config {
	cfg := Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           must("APP_PORT"),
		APIBaseURL:     must("API_BASE_URL"),
		CountryCode:    getenv("AUTH_COUNTRY_CODE", "+91"),
		LivenessTTL:    dur("BOOKING_CHECK_TTL", 10*time.Second),
		PollInterval:   dur("ORDER_POLL_INTERVAL", 5*time.Second),
		SessionBackend: getenv("SESSION_BACKEND", "file"),
		SessionFile:    getenv("SESSION_FILE", "sessions.json"),
		DBUser:         os.Getenv("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         os.Getenv("DB_PORT"),
		DBName:         os.Getenv("DB_NAME"),
	}
	if cfg.PollInterval < 5*time.Second {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.PollInterval > 10*time.Second {
		cfg.PollInterval = 10 * time.Second
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
