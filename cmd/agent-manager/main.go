// cmd/agent-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"x360-agent/internal/analyzer"
	"x360-agent/internal/api"
	"x360-agent/internal/briefing"
	"x360-agent/internal/common/config"
	"x360-agent/internal/common/database"
	"x360-agent/internal/common/logger"
	"x360-agent/internal/common/observability"
	"x360-agent/internal/gateway"
	"x360-agent/internal/session"
	"x360-agent/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting agent manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("agent-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Ticket Source ---
	var src store.Source
	switch cfg.Store.Source {
	case "file":
		src = store.NewFileSource(cfg.Store.FilePath)

	case "redis":
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
		src = store.NewRedisSource(redis.GetClient(), cfg.Store.RedisKey)

	case "postgres":
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
		src = store.NewPostgresSource(pg.GetDB(), cfg.Store.Table)

	default:
		src = store.NewSeedSource()
	}

	// --- Load Ticket Store ---
	var ticketStore *store.Store
	err = retryWithBackoff(func() error {
		var err error
		ticketStore, err = store.New(ctx, src, log)
		return err
	}, 5, 2*time.Second, zapLog, "Ticket store load")
	if err != nil {
		zapLog.Fatal("ticket store failed after retries", zap.Error(err))
	}

	// --- Init Gateway Client ---
	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:    cfg.Gateway.BaseURL,
		Timeout:    config.GetDuration(cfg.Gateway.Timeout),
		MaxRetries: cfg.Gateway.MaxRetries,
	}, log)

	// --- Init Core Services ---
	loader := briefing.NewLoader(gatewayClient, config.GetDuration(cfg.Briefing.MinDuration), log)
	manager := session.NewManager(gatewayClient, loader, ticketStore.Tickets(), log)
	policy := analyzer.ParsePolicy(cfg.Analyzer.ConflictPolicy)

	server := api.NewServer(api.Deps{
		Manager: manager,
		Store:   ticketStore,
		Health:  gatewayClient,
		Policy:  policy,
		Obs:     obs,
		Logger:  log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	go func() {
		zapLog.Info("API server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("Agent manager stopped gracefully")
}
