package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"movie-personalization-service/internal/cache"
	"movie-personalization-service/internal/catalog"
	"movie-personalization-service/internal/config"
	"movie-personalization-service/internal/database"
	"movie-personalization-service/internal/handler"
	"movie-personalization-service/internal/kobis"
	"movie-personalization-service/internal/middleware"
	"movie-personalization-service/internal/repository"
	"movie-personalization-service/internal/service"
	"movie-personalization-service/internal/similarity"
	"movie-personalization-service/internal/tmdb"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without hot cache", "error", err)
	}

	// Provider clients and the normalized catalog surface
	kobisClient := kobis.NewClient(cfg.KOBIS.APIKey, cfg.KOBIS.BaseURL)
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL)
	adapter := catalog.NewAdapter(kobisClient, tmdbClient)

	// Persistence and derived-list cache
	movieRepo := repository.NewMovieRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	lists := cache.New(repository.NewCachedListRepository(db))

	engine := similarity.NewEngine(lists, similarity.Config{})

	// Services
	movieSvc := service.NewMovieService(movieRepo, adapter, lists, rdb, nil)
	recSvc := service.NewRecommendationService(movieRepo, interactionRepo, adapter, engine, cfg.SeedUserID)
	interactionSvc := service.NewInteractionService(interactionRepo, movieRepo)
	tasteSvc := service.NewTasteService(movieRepo, interactionRepo, adapter)
	peopleSvc := service.NewPeopleService(adapter, lists)
	indexSvc := service.NewIndexService(movieRepo, engine)

	// Handlers
	movieH := handler.NewMovieHandler(movieSvc)
	recH := handler.NewRecommendationHandler(recSvc)
	userH := handler.NewUserHandler(interactionSvc, tasteSvc)
	peopleH := handler.NewPeopleHandler(peopleSvc)
	adminH := handler.NewAdminHandler(movieSvc, indexSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Personalization Service",
		ServerHeader: "Movie-Personalization",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow).Handler())
	app.Use(middleware.Identity())

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	// API routes
	api := app.Group("/api/v1")
	api.Get("/health", movieH.Health)

	api.Get("/movies/trending", movieH.Trending)
	api.Get("/movies/now-playing", movieH.NowPlaying)
	api.Get("/movies/top-rated", movieH.TopRated)
	api.Get("/movies/box-office", movieH.BoxOffice)
	api.Get("/movies/search", movieH.Search)
	api.Get("/movies/random", movieH.Random)
	api.Get("/movies/batch", movieH.DetailsByIDs)
	api.Get("/movies/genre/:id", movieH.ByGenre)
	api.Get("/movies/:id", movieH.Detail)
	api.Get("/movies/:id/similar", recH.Similar)
	api.Get("/genres", movieH.Genres)

	api.Get("/onboarding/movies", movieH.Onboarding)

	api.Get("/recommendations/home", recH.Home)
	api.Get("/recommendations/genre", recH.ByGenre)

	api.Post("/users/me/ratings", userH.Rate)
	api.Get("/users/me/ratings", userH.Ratings)
	api.Post("/users/me/likes/:id", userH.Like)
	api.Delete("/users/me/likes/:id", userH.Unlike)
	api.Get("/users/me/likes", userH.Likes)
	api.Get("/users/me/activity/:id", userH.Activity)
	api.Get("/users/me/taste", userH.Taste)

	api.Get("/people/weekly-popular", peopleH.WeeklyPopular)
	api.Get("/people/:id", peopleH.Detail)

	api.Post("/admin/seed", adminH.Seed)
	api.Post("/admin/train-similarity", adminH.Train)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
