package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/dive-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/dive-booking/internal/database"   // MySQL pool bootstrap
	"github.com/iliyamo/dive-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/dive-booking/internal/middleware" // Rate limit + cache middleware
	"github.com/iliyamo/dive-booking/internal/queue"      // Background event consumer
	"github.com/iliyamo/dive-booking/internal/repository" // DB repositories
	"github.com/iliyamo/dive-booking/internal/router"     // Route registration
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	dives := repository.NewDiveRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	diveHandler := handler.NewDiveHandler(dives)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterUser(e, authHandler, users, cfg.JWTSecret, limiter)
	router.RegisterDive(e, diveHandler, users, cfg.JWTSecret, limiter, cache)

	// Audit consumer runs for the lifetime of the process and reconnects on
	// broker failures.
	go func() {
		if err := queue.StartDiveConsumer(); err != nil {
			log.Printf("dive consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
