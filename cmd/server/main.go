package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/config"
	"github.com/iliyamo/theatre-reservation/internal/database"
	"github.com/iliyamo/theatre-reservation/internal/handler"
	"github.com/iliyamo/theatre-reservation/internal/middleware"
	"github.com/iliyamo/theatre-reservation/internal/queue"
	"github.com/iliyamo/theatre-reservation/internal/repository"
	"github.com/iliyamo/theatre-reservation/internal/router"
	"github.com/iliyamo/theatre-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: when it is down the cache and rate limiter
	// degrade to pass-through and seat booking still works.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	genres := repository.NewGenreRepo(db)
	artists := repository.NewArtistRepo(db)
	plays := repository.NewPlayRepo(db)
	halls := repository.NewHallRepo(db)
	performances := repository.NewPerformanceRepo(db)
	tickets := repository.NewTicketRepo(db)
	reservations := repository.NewReservationRepo(db)

	bookingSvc := booking.NewService(performances, reservations, tickets)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	genreH := handler.NewGenreHandler(genres)
	artistH := handler.NewArtistHandler(artists, cfg.UploadDir)
	playH := handler.NewPlayHandler(plays, genres, artists)
	hallH := handler.NewHallHandler(halls)
	perfH := handler.NewPerformanceHandler(performances, plays, halls, tickets, bookingSvc, cfg.UploadDir)
	resH := handler.NewReservationHandler(bookingSvc, reservations, service.PublishReservationConfirmed)
	healthH := handler.NewHealthHandler(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.RegisterHealth(e, healthH)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, cache, genreH, artistH, playH, hallH, perfH)
	router.RegisterAdmin(e, cfg.JWTSecret, genreH, artistH, playH, hallH, perfH)
	router.RegisterReservations(e, cfg.JWTSecret, resH)

	go queue.StartReservationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
