// Package main is the entry point for the millstock API server.
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

	"golang.org/x/sync/errgroup"

	"millstock/internal/app"
	"millstock/internal/config"
	corenumerator "millstock/internal/core/numerator"
	"millstock/internal/domain/auth"
	v1 "millstock/internal/infrastructure/http/v1"
	"millstock/internal/infrastructure/http/v1/handlers"
	"millstock/internal/infrastructure/metrics"
	"millstock/internal/infrastructure/numerator"
	"millstock/internal/infrastructure/storage/memory"
	"millstock/internal/infrastructure/storage/postgres"
	"millstock/pkg/logger"
)

const poolStatsInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Errorw("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Infow("starting millstock server", "storage", cfg.Storage, "addr", cfg.AppAddr)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	var (
		repos   app.Repositories
		numbers corenumerator.Generator
		pinger  handlers.Pinger
		pool    *postgres.Pool
	)

	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		repos = app.MemoryRepositories(store)
		numbers = store.Sequences
		log.Warn("running on in-memory storage; data is lost on restart")

	default:
		var err error
		pool, err = postgres.NewPool(ctx, cfg.PoolConfig())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		txm := postgres.NewTxManager(pool, cfg.TxOptions())
		repos = app.PostgresRepositories(txm)
		numbers = numerator.New(txm)
		pinger = pool
	}

	opts := app.Options{
		DefaultUOM:     cfg.FloorDefaultUOM,
		NumberPadWidth: cfg.NumberPadWidth,
	}
	if m != nil {
		opts.StockRecorder = m
		opts.DocumentRecorder = m
	}
	services := app.NewServices(repos, numbers, opts)

	routerCfg := v1.RouterConfig{
		Services: services,
		Logger:   log,
		Metrics:  m,
		Storage:  cfg.Storage,
		Pinger:   pinger,
	}
	if cfg.AuthEnabled() {
		jwtCfg := auth.DefaultJWTConfig(cfg.JWTSecret)
		if cfg.JWTIssuer != "" {
			jwtCfg.Issuer = cfg.JWTIssuer
		}
		routerCfg.JWTValidator = auth.NewJWTService(jwtCfg)
		log.Infow("bearer authentication enabled", "issuer", jwtCfg.Issuer)
	} else {
		log.Warn("authentication disabled; operator is taken from X-Operator")
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      v1.NewRouter(routerCfg),
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("server listening", "addr", cfg.AppAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if pool != nil {
		g.Go(func() error {
			ticker := time.NewTicker(poolStatsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					postgres.LogPoolStats(logger.WithLogger(gctx, log), pool)
				}
			}
		})
	}

	return g.Wait()
}
