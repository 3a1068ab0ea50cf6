package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/api"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/config"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/database"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/handler"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/order"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/router"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/session"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()
	rdb := config.NewRedisClient()

	st := newStore(cfg)
	client := api.New(cfg.APIBaseURL)

	resolver := session.NewResolver(client, cfg.LivenessTTL)
	orders := order.NewController(client, cfg.PollInterval)
	defer orders.Close()

	h := router.Handlers{
		Entry:      handler.NewEntryHandler(client, resolver, orders),
		Auth:       handler.NewAuthHandler(cfg, client),
		Menu:       handler.NewMenuHandler(client),
		Cart:       handler.NewCartHandler(),
		Order:      handler.NewOrderHandler(client, orders),
		Assistance: handler.NewAssistanceHandler(client),
		Checkout:   handler.NewCheckoutHandler(client, orders, resolver),
		Scan:       handler.NewScanHandler(client),
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, h, st, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.SessionBackend)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// newStore picks the session store backend named by SESSION_BACKEND.  When a
// backend cannot be initialised the gateway degrades to the file store rather
// than refusing to start, since sessions are reconstructable from the device
// cookie and the upstream API.
func newStore(cfg config.Config) store.Store {
	switch cfg.SessionBackend {
	case "memory":
		return store.NewMemory()
	case "redis":
		if rdb := config.NewRedisClient(); rdb != nil {
			return store.NewRedis(rdb, "session")
		}
		log.Println("redis store unavailable, falling back to file store")
	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err == nil {
			m := store.NewMySQL(db)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err = m.EnsureSchema(ctx); err == nil {
				return m
			}
		}
		log.Printf("mysql store unavailable (%v), falling back to file store", err)
	}
	fs, err := store.NewFile(cfg.SessionFile)
	if err != nil {
		log.Printf("file store unavailable (%v), using in-memory store", err)
		return store.NewMemory()
	}
	return fs
}
