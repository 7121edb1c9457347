package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/statusquo/feed-service/internal/api/handler"
	"github.com/statusquo/feed-service/internal/api/middleware"
	"github.com/statusquo/feed-service/internal/core/service"
	"github.com/statusquo/feed-service/internal/infrastructure/config"
	storemongo "github.com/statusquo/feed-service/internal/infrastructure/db/mongo"
	storeredis "github.com/statusquo/feed-service/internal/infrastructure/db/redis"
	"github.com/statusquo/feed-service/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The store handles are connected by main and passed down explicitly; no
// package holds them globally.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, github handler.OAuthProvider) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("feed"))

	// --- Dependencies ---
	userRepo := storemongo.NewUserRepository(db)
	postRepo := storemongo.NewPostRepository(db)
	postLocker := storeredis.NewPostLocker(rdb)

	identityService := service.NewIdentityService(userRepo, cfg.SessionSecret, cfg.SessionTTL, log)
	postService := service.NewPostService(postRepo, userRepo, log)
	likeService := service.NewLikeService(postRepo, userRepo, postLocker, log)
	feedService := service.NewFeedService(postRepo, userRepo, log)

	authHandler := handler.NewAuthHandler(identityService, github, cfg.SessionTTL)
	postHandler := handler.NewPostHandler(postService, likeService, feedService)
	feedHandler := handler.NewFeedHandler(feedService)
	userHandler := handler.NewUserHandler(feedService)

	session := middleware.Session(identityService)
	requireAuth := middleware.RequireAuth()

	// --- Auth routes ---
	e.GET("/auth/github", authHandler.GitHubRedirect)
	e.GET("/auth/github/callback", authHandler.GitHubCallback)
	e.POST("/auth/anonymous", authHandler.Anonymous)
	e.GET("/auth/signout", authHandler.Signout)

	// --- Feed and post routes (session resolved on all; anonymous reads allowed) ---
	v1 := e.Group("/v1", session)
	v1.GET("/feed", feedHandler.Get)
	v1.GET("/posts/:id", postHandler.Get)
	v1.GET("/users/:id", userHandler.Profile)
	v1.GET("/me", userHandler.Me, requireAuth)
	v1.POST("/posts", postHandler.Create, requireAuth)
	v1.DELETE("/posts/:id", postHandler.Delete, requireAuth)
	v1.POST("/posts/:id/like", postHandler.ToggleLike, requireAuth)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
