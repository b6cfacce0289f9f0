// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tdfclan/portal/internal/admin"
	"github.com/tdfclan/portal/internal/assignment"
	"github.com/tdfclan/portal/internal/audit"
	"github.com/tdfclan/portal/internal/auth"
	"github.com/tdfclan/portal/internal/config"
	"github.com/tdfclan/portal/internal/core"
	"github.com/tdfclan/portal/internal/goal"
	"github.com/tdfclan/portal/internal/health"
	"github.com/tdfclan/portal/internal/middleware"
	"github.com/tdfclan/portal/internal/notification"
	"github.com/tdfclan/portal/internal/recruitment"
	"github.com/tdfclan/portal/internal/server"
	"github.com/tdfclan/portal/internal/stats"
	"github.com/tdfclan/portal/internal/submission"
	"github.com/tdfclan/portal/internal/upload"
	"github.com/tdfclan/portal/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("gen-keys", false, "generate a JWT key pair and exit")
	flag.Parse()

	if *genKeys {
		cfg, err := config.Load(*configPath)
		if err != nil {
			slog.Error("config load error", "error", err)
			os.Exit(1)
		}
		if err := auth.GenerateKeyPair(
			cfg.JWT.PrivateKeyPath,
			cfg.JWT.PublicKeyPath,
		); err != nil {
			slog.Error("key generation error", "error", err)
			os.Exit(1)
		}
		slog.Info("key pair written",
			"private", cfg.JWT.PrivateKeyPath,
			"public", cfg.JWT.PublicKeyPath,
		)
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	blacklist := auth.NewBlacklist(redis.Client)

	jwtManager, err := auth.NewJWTManager(cfg.JWT, blacklist)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	uploadStore, err := upload.NewStore(cfg.Uploads, logger)
	if err != nil {
		return err
	}

	discord := notification.NewDiscordClient(cfg.Discord, logger)
	if discord.Enabled() {
		logger.Info("discord announcements enabled",
			"channel_id", cfg.Discord.ChannelID,
		)
	}

	auditRepo := audit.NewRepository(db.DB)
	auditSvc := audit.NewService(auditRepo, logger)
	auditHandler := audit.NewHandler(auditSvc)

	notifRepo := notification.NewRepository(db.DB)
	notifSvc := notification.NewService(notifRepo, discord, logger)
	notifHandler := notification.NewHandler(notifSvc)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, auditSvc, logger)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		db,
		userRepo,
		authRepo,
		jwtManager,
		blacklist,
		auditSvc,
		notifSvc,
		logger,
	)
	authHandler := auth.NewHandler(authSvc)

	goalRepo := goal.NewRepository(db.DB)
	goalSvc := goal.NewService(goalRepo, auditSvc, logger)
	goalHandler := goal.NewHandler(goalSvc)

	uploadRepo := upload.NewRepository(db.DB)
	uploadHandler := upload.NewHandler(uploadRepo, uploadStore)

	statsRepo := stats.NewRepository(db.DB)
	statsSvc := stats.NewService(statsRepo)
	statsHandler := stats.NewHandler(statsSvc)

	submissionRepo := submission.NewRepository(db.DB)
	submissionSvc := submission.NewService(
		db,
		submissionRepo,
		goalRepo,
		uploadRepo,
		uploadStore,
		statsSvc,
		notifSvc,
		auditSvc,
		logger,
	)
	submissionHandler := submission.NewHandler(submissionSvc)

	assignmentRepo := assignment.NewRepository(db.DB)
	assignmentSvc := assignment.NewService(
		db,
		assignmentRepo,
		notifSvc,
		auditSvc,
		logger,
	)
	assignmentHandler := assignment.NewHandler(assignmentSvc)

	challenger := recruitment.NewChallenger(cfg.Challenge)
	recruitmentRepo := recruitment.NewRepository(db.DB)
	recruitmentSvc := recruitment.NewService(
		db,
		recruitmentRepo,
		userRepo,
		challenger,
		notifSvc,
		auditSvc,
		logger,
	)
	recruitmentHandler := recruitment.NewHandler(recruitmentSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Version:    cfg.App.Version,
	})

	srv := server.New(server.Config{
		Server: cfg.Server,
		Logger: logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.BlockSQLMeta)

	rateLimiter := middleware.NewRateLimiter(redis.Client, cfg.RateLimit, logger)

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager)
	passwordGate := middleware.RequirePasswordChanged("/v1/auth")

	router.Route("/v1", func(r chi.Router) {
		// unauthenticated surface
		r.Group(func(r chi.Router) {
			r.Use(rateLimiter.LimitPublic)
			r.Mount("/public", recruitmentHandler.PublicRoutes())
			r.Get("/public/ranking", statsHandler.PublicRanking)
			r.Mount("/auth", authHandler.PublicRoutes())
		})

		// authenticated surface
		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(rateLimiter.Limit)
			r.Use(passwordGate)

			r.Mount("/auth/session", authHandler.ProtectedRoutes())
			r.Mount("/users", userHandler.Routes())
			r.Mount("/goals", goalHandler.Routes())
			r.Mount("/submissions", submissionHandler.Routes())
			r.Mount("/assignments", assignmentHandler.Routes())
			r.Mount("/uploads", uploadHandler.Routes())
			r.Mount("/ranking", statsHandler.Routes())
			r.Mount("/notifications", notifHandler.Routes())

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)
				r.Mount("/applications", recruitmentHandler.StaffRoutes())
				r.Mount("/logs", auditHandler.Routes())
			})

			r.Mount("/admin", adminHandler.Routes())
		})
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	healthHandler.SetShutdown(true)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
