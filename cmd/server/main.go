package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safevault/safevault-api/internal/api"
	"github.com/safevault/safevault-api/internal/api/metrics"
	"github.com/safevault/safevault-api/internal/core/password"
	"github.com/safevault/safevault-api/internal/core/service"
	"github.com/safevault/safevault-api/internal/core/token"
	"github.com/safevault/safevault-api/internal/infrastructure/config"
	mongodb "github.com/safevault/safevault-api/internal/infrastructure/db/mongo"
	redisdb "github.com/safevault/safevault-api/internal/infrastructure/db/redis"
	"github.com/safevault/safevault-api/internal/infrastructure/queue"
	"github.com/safevault/safevault-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// Misconfigured signing material is fatal: never serve degraded tokens.
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Stores and core services ---
	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}
	roleRepo := mongodb.NewRoleRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	dispatcher := queue.NewDispatcher(cfg.Auth.AuditWorkers, auditRepo, metrics.AuditQueueDepth, log)
	dispatcher.Start(ctx)

	issuer, err := token.NewIssuer(token.Config{
		Key:      cfg.JWT.Key,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.TokenTTL(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer misconfigured")
	}
	verifier, err := token.NewVerifier(token.Config{
		Key:      cfg.JWT.Key,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token verifier misconfigured")
	}

	throttle := redisdb.NewLoginThrottle(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	authService := service.NewAuthService(userRepo, hasher, issuer, throttle, dispatcher, log)
	roleService := service.NewRoleService(roleRepo, userRepo, dispatcher, log)

	// Bootstrap roles: run-once-at-init, idempotent.
	if err := roleService.Bootstrap(ctx, cfg.Auth.BootstrapRoles); err != nil {
		log.Fatal().Err(err).Msg("role bootstrap failed")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		RoleService: roleService,
		Verifier:    verifier,
		Mongo:       db,
		Redis:       rdb,
		Log:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("safevault api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
