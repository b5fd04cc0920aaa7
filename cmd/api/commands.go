package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-core/internal/audit"
	"github.com/BruksfildServices01/agenda-core/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-core/internal/db"
	"github.com/BruksfildServices01/agenda-core/internal/logger"
	"github.com/BruksfildServices01/agenda-core/internal/middleware"
	"github.com/BruksfildServices01/agenda-core/internal/routes"
	"github.com/BruksfildServices01/agenda-core/internal/telemetry"
	"github.com/BruksfildServices01/agenda-core/internal/timezone"
)

const serviceName = "agenda-core"

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx context.Context, g *Globals) error {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := dbpkg.NewDB(ctx, cfg, log)
	if err != nil {
		return err
	}

	if err := dbpkg.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	log.Info("migrations applied", zap.String("version", g.Version))
	return nil
}

type ServeCmd struct {
	SkipMigrate     bool          `help:"Do not run migrations on startup." env:"SKIP_MIGRATE"`
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests." default:"15s"`
}

func (c *ServeCmd) Run(ctx context.Context, g *Globals) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if !timezone.IsValid(cfg.DefaultTimezone) {
		log.Warn("invalid default timezone, keeping built-in", zap.String("timezone", cfg.DefaultTimezone))
	}
	timezone.SetDefault(cfg.DefaultTimezone)

	// ======================================================
	// DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	if !c.SkipMigrate {
		if err := dbpkg.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	// ======================================================
	// METRICS
	// ======================================================
	if cfg.OTelMetrics {
		shutdown, err := telemetry.InitMetrics(ctx, log, serviceName, g.Version)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				log.Warn("metrics shutdown failed", zap.Error(err))
			}
		}()
	}

	// ======================================================
	// AUDIT
	// ======================================================
	sinks := []audit.Sink{audit.New(db)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, events will only be stored", zap.Error(err))
		} else {
			sinks = append(sinks, audit.NewStreamPublisher(rdb, cfg.EventsStream))
		}
	}
	dispatcher := audit.NewDispatcher(log, sinks...)
	defer dispatcher.Close()

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	routes.RegisterRoutes(r, db, cfg, log, routes.Deps{
		Audit:   dispatcher,
		Metrics: telemetry.GetMetrics(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("version", g.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
