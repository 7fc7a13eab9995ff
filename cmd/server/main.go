package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/stagepass/gigmatch/internal/config"
	"github.com/stagepass/gigmatch/internal/database"
	"github.com/stagepass/gigmatch/internal/handler"
	"github.com/stagepass/gigmatch/internal/middleware"
	"github.com/stagepass/gigmatch/internal/queue"
	"github.com/stagepass/gigmatch/internal/repository"
	"github.com/stagepass/gigmatch/internal/router"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	artists := repository.NewArtistRepo(db)
	venues := repository.NewVenueRepo(db)
	matches := repository.NewMatchRepo(db)
	gigs := repository.NewGigRepo(db)
	stats := repository.NewStatsRepo(db)
	events := repository.NewEventRepo(db)

	authH := handler.NewAuthHandler(cfg, db, users, tokens, artists, venues)
	profileH := handler.NewProfileHandler(artists, venues)
	matchH := handler.NewMatchHandler(matches, artists, venues)
	gigH := handler.NewGigHandler(gigs, artists, venues)
	statsH := handler.NewStatsHandler(stats)
	eventH := handler.NewEventHandler(events, venues)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, profileH, statsH, cache)
	router.RegisterProfile(e, profileH, cfg.JWTSecret)
	router.RegisterMatch(e, matchH, cfg.JWTSecret)
	router.RegisterGig(e, gigH, cfg.JWTSecret)
	router.RegisterEvents(e, eventH, cfg.JWTSecret)

	// Background consumers append match/gig activity to logs/activity.log.
	queue.StartActivityConsumers()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
