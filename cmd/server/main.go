package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medrec/medical-records-api/internal/api"
	"github.com/medrec/medical-records-api/internal/core/domain"
	"github.com/medrec/medical-records-api/internal/core/ports"
	"github.com/medrec/medical-records-api/internal/core/service"
	"github.com/medrec/medical-records-api/internal/infrastructure/config"
	mongodb "github.com/medrec/medical-records-api/internal/infrastructure/db/mongo"
	redisdb "github.com/medrec/medical-records-api/internal/infrastructure/db/redis"
	"github.com/medrec/medical-records-api/internal/infrastructure/llm"
	"github.com/medrec/medical-records-api/internal/infrastructure/queue"
	"github.com/medrec/medical-records-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "medical-records-api",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("mongo connect")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("redis connect")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(client, db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("mongo indexes")
	}
	patientRepo := mongodb.NewPatientRepository(db)
	medicationRepo := mongodb.NewMedicationRepository(db)
	historyRepo := mongodb.NewHistoryRepository(db)
	diagnosticRepo := mongodb.NewDiagnosticRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	codec := service.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, hasher, codec, zlog)
	recordService := service.NewRecordService(patientRepo, medicationRepo, historyRepo, diagnosticRepo, zlog)

	var explainService ports.ExplainService
	if cfg.LLMAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.LLMAPIKey)
		if err != nil {
			zlog.Fatal().Err(err).Msg("gemini client")
		}
		explainService = service.NewExplainService(gemini, medicationRepo, diagnosticRepo, zlog)
	} else {
		zlog.Warn().Msg("LLM_API_KEY not set, schedule and explanation endpoints disabled")
	}

	seedAdmin(ctx, cfg, authService, zlog)

	audit := queue.NewDispatcher(0, auditRepo, zlog)
	audit.Start(ctx)

	limiter := redisdb.NewLoginLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow)

	e := api.NewRouter(api.RouterConfig{
		Auth:    authService,
		Records: recordService,
		Explain: explainService,
		Audit:   audit,
		Limiter: limiter,
		Logger:  zlog,
		Mongo:   db,
		Redis:   rdb,
	})

	go func() {
		zlog.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server start")
		}
	}()

	waitForShutdown(zlog)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("server shutdown")
	}
}

// seedAdmin creates the bootstrap admin account when configured. An existing
// account with the same username is left untouched.
func seedAdmin(ctx context.Context, cfg *config.Config, auth ports.AuthService, zlog zerolog.Logger) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return
	}
	_, _, err := auth.RegisterAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	switch {
	case err == nil:
		zlog.Info().Str("username", cfg.AdminUsername).Msg("bootstrap admin created")
	case errors.Is(err, domain.ErrUserExists):
		zlog.Debug().Str("username", cfg.AdminUsername).Msg("bootstrap admin already exists")
	default:
		zlog.Fatal().Err(err).Msg("bootstrap admin")
	}
}

func waitForShutdown(zlog zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	zlog.Info().Str("signal", sig.String()).Msg("shutting down")
}
