package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/boardhub/board-gateway/internal/api/handler"
	"github.com/boardhub/board-gateway/internal/api/middleware"
	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/ports"
	"github.com/boardhub/board-gateway/internal/core/service"
	"github.com/boardhub/board-gateway/internal/infrastructure/upstream"

	mongostore "github.com/boardhub/board-gateway/internal/infrastructure/db/mongo"
	redisstore "github.com/boardhub/board-gateway/internal/infrastructure/db/redis"
	"github.com/boardhub/board-gateway/internal/pkg/config"
)

const proxyPrefix = "/api"

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	up *upstream.Client,
	recorder ports.ActivityRecorder,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("boardgw"))

	// --- Dependencies ---
	sessionStore := redisstore.NewSessionStore(rdb, cfg.Session.TTL)
	scopeStore := redisstore.NewScopeStore(rdb, cfg.Session.TTL)
	activityRepo := mongostore.NewActivityRepository(db)

	sessionService := service.NewSessionService(sessionStore, scopeStore, up, up, recorder, log)
	scopeService := service.NewScopeService(sessionStore, scopeStore, up, recorder, log)

	codec := middleware.NewCookieCodec(cfg.Session.CookieSecret, cfg.Session.TTL)
	sessionMW := middleware.Session(codec, sessionService, scopeService)
	policyMW := middleware.Policy(recorder)
	loginLimit := middleware.NewLoginRateLimit(cfg.Session.LoginRPM, cfg.TrustProxy)

	sessionHandler := handler.NewSessionHandler(sessionService, scopeService, codec)
	projectHandler := handler.NewProjectHandler(scopeService)
	activityHandler := handler.NewActivityHandler(activityRepo)
	resourceHandler := handler.NewResourceHandler(up, sessionService, codec, proxyPrefix)

	// --- Session lifecycle ---
	e.POST("/session", sessionHandler.Login, loginLimit.Handler)
	e.POST("/session/credentials", sessionHandler.LoginWithCredentials, loginLimit.Handler)
	e.GET("/session", sessionHandler.State, sessionMW)
	e.DELETE("/session", sessionHandler.Logout, sessionMW)

	// --- Scope selection (exempt destinations, identity still required) ---
	selectionGuard := middleware.Guard(domain.DestProjectSelection, recorder)
	e.GET("/projects", projectHandler.List, sessionMW, selectionGuard, policyMW)
	e.PUT("/session/project", sessionHandler.SelectProject, sessionMW, selectionGuard, policyMW)
	e.DELETE("/session/project", sessionHandler.ClearProject, sessionMW, selectionGuard, policyMW)
	e.GET("/session/activity", activityHandler.List, sessionMW, selectionGuard, policyMW)

	// --- Screen CRUD passthrough ---
	proxyGuard := middleware.GuardProxy(proxyPrefix, recorder)
	e.Any(proxyPrefix+"/*", resourceHandler.Proxy, sessionMW, proxyGuard, policyMW)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
