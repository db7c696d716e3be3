package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/medrec/medical-records-api/docs"
	"github.com/medrec/medical-records-api/internal/api/handler"
	"github.com/medrec/medical-records-api/internal/api/middleware"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

// RouterConfig carries every dependency the router wires. Services are
// injected rather than constructed here so tests can substitute fakes.
type RouterConfig struct {
	Auth    ports.AuthService
	Records ports.RecordService
	Explain ports.ExplainService
	Audit   ports.AuditSink
	Limiter ports.RateLimiter
	Logger  zerolog.Logger

	// Registry receives the HTTP metrics collectors. Defaults to the global
	// Prometheus registry; tests inject a fresh one per router so constructing
	// several routers in one process does not collide.
	Registry *prometheus.Registry

	// Optional infrastructure handles for the readiness probe. The route is
	// omitted when either is nil (unit tests run without backing stores).
	Mongo *mongo.Database
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.Registry != nil {
		registerer = cfg.Registry
		gatherer = cfg.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "medrecords",
		Registerer: registerer,
	}))

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.Auth, cfg.Audit)
	patientHandler := handler.NewPatientHandler(cfg.Records)
	medicationHandler := handler.NewMedicationHandler(cfg.Records, cfg.Explain)
	historyHandler := handler.NewHistoryHandler(cfg.Records)
	diagnosticHandler := handler.NewDiagnosticHandler(cfg.Records, cfg.Explain)

	authenticate := middleware.Authenticate(cfg.Auth)
	adminOnly := middleware.AdminOnly()
	ownership := middleware.PatientOwnership(cfg.Auth, cfg.Audit)

	// --- Auth routes ---
	auth := e.Group("/auth")
	if cfg.Limiter != nil {
		throttle := middleware.RateLimit(cfg.Limiter, "auth", cfg.Logger)
		auth.POST("/register", authHandler.Register, throttle)
		auth.POST("/login", authHandler.Login, throttle)
	} else {
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
	auth.POST("/register-admin", authHandler.RegisterAdmin, authenticate, adminOnly)
	auth.GET("/profile", authHandler.Profile, authenticate)

	// --- Patient management (admin only) ---
	patients := e.Group("/patients", authenticate)
	patients.GET("", patientHandler.List, adminOnly)
	patients.POST("", patientHandler.Create, adminOnly)

	// --- Patient-scoped routes (ownership gate) ---
	scoped := patients.Group("/:patientId", ownership)
	scoped.GET("", patientHandler.Get)
	scoped.PATCH("", patientHandler.Patch)
	scoped.DELETE("", patientHandler.Delete)

	scoped.GET("/medications", medicationHandler.List)
	scoped.POST("/medications", medicationHandler.Create)
	scoped.GET("/medications/schedule", medicationHandler.Schedule)
	scoped.GET("/medications/:id", medicationHandler.Get)
	scoped.PATCH("/medications/:id", medicationHandler.Patch)
	scoped.DELETE("/medications/:id", medicationHandler.Delete)

	scoped.GET("/medical-history", historyHandler.List)
	scoped.POST("/medical-history", historyHandler.Create)
	scoped.GET("/medical-history/:id", historyHandler.Get)
	scoped.PATCH("/medical-history/:id", historyHandler.Patch)
	scoped.DELETE("/medical-history/:id", historyHandler.Delete)

	scoped.GET("/diagnostic-test-results", diagnosticHandler.List)
	scoped.POST("/diagnostic-test-results", diagnosticHandler.Create)
	scoped.GET("/diagnostic-test-results/:id", diagnosticHandler.Get)
	scoped.GET("/diagnostic-test-results/:id/explanation", diagnosticHandler.Explanation)
	scoped.PATCH("/diagnostic-test-results/:id", diagnosticHandler.Patch)
	scoped.DELETE("/diagnostic-test-results/:id", diagnosticHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if cfg.Mongo != nil && cfg.Redis != nil {
		readiness := handler.NewReadinessHandler(cfg.Mongo, cfg.Redis)
		e.GET("/health/ready", readiness.Readiness)
	}

	return e
}
