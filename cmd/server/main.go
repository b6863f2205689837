package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bracelet-energy/internal/client"
	"github.com/iliyamo/bracelet-energy/internal/config"
	"github.com/iliyamo/bracelet-energy/internal/database"
	"github.com/iliyamo/bracelet-energy/internal/handler"
	"github.com/iliyamo/bracelet-energy/internal/middleware"
	"github.com/iliyamo/bracelet-energy/internal/queue"
	"github.com/iliyamo/bracelet-energy/internal/repository"
	"github.com/iliyamo/bracelet-energy/internal/router"
	"github.com/iliyamo/bracelet-energy/internal/service"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; real env wins anyway
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: without it the cache and rate limiter turn
	// into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	energyRepo := repository.NewEnergyRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	meritRepo := repository.NewMeritRepo(db)
	consecrationRepo := repository.NewConsecrationRepo(db)

	// Services. The lock table is shared so decay, session closes and
	// merit additions for one bracelet never interleave.
	locks := service.NewBraceletLocks()
	energy := service.NewEnergyService(energyRepo, locks)
	sessions := service.NewSessionService(sessionRepo, energy, locks)
	merit := service.NewMeritService(meritRepo, locks, time.Local)
	consecrations := service.NewConsecrationService(consecrationRepo, energy,
		service.PublisherFunc(queue.PublishConsecrated))
	analyzer := service.NewAnalyzerService(energy, consecrations)
	braceletClient := client.NewBraceletClient(cfg.BraceletAPIBase)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	energyH := handler.NewEnergyHandler(energy)
	sessionH := handler.NewSessionHandler(sessions)
	meritH := handler.NewMeritHandler(merit, energy)
	consecrationH := handler.NewConsecrationHandler(consecrations)
	adviceH := handler.NewAdviceHandler(analyzer)
	braceletH := handler.NewBraceletHandler(braceletClient)

	router.RegisterHealth(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, meritH, braceletH, cacheMW)
	router.RegisterBracelet(e, cfg.JWTSecret, energyH, sessionH, meritH, consecrationH, adviceH)

	// The consumer reconnects on its own; broker downtime never blocks
	// HTTP traffic.
	go func() {
		if err := queue.StartConsecrationConsumer(); err != nil {
			log.Printf("consecration-consumer: stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
