package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/af-corp/bfhl-gateway/internal/config"
	"github.com/af-corp/bfhl-gateway/internal/delegate"
	"github.com/af-corp/bfhl-gateway/internal/dispatch"
	"github.com/af-corp/bfhl-gateway/internal/filter"
	"github.com/af-corp/bfhl-gateway/internal/filter/injection"
	"github.com/af-corp/bfhl-gateway/internal/filter/secrets"
	"github.com/af-corp/bfhl-gateway/internal/gateway"
	"github.com/af-corp/bfhl-gateway/internal/ratelimit"
	"github.com/af-corp/bfhl-gateway/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load configuration
	loader := config.NewLoader(*configDir, bootLogger)
	if err := loader.Load(); err != nil {
		bootLogger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := loader.Config()

	level := new(slog.LevelVar)
	logger := telemetry.NewLogger(os.Stdout, cfg.Telemetry, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader.OnReload(func() {
		level.Set(telemetry.ParseLevel(loader.Config().Telemetry.LogLevel))
	})
	if err := loader.Watch(ctx); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	metrics := telemetry.NewMetrics()

	// Rate limiter: Redis when reachable, otherwise per process
	var checker ratelimit.Checker = ratelimit.NewLocalLimiter(cfg.RateLimit.Burst)
	if len(cfg.Redis.Addresses) > 0 && cfg.Redis.Addresses[0] != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addresses[0],
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not reachable (using in-process rate limiter)", "error", err)
			rdb.Close()
		} else {
			logger.Info("redis connected")
			checker = ratelimit.NewLimiter(rdb)
			defer rdb.Close()
		}
	}

	// AI delegate
	backend, err := delegate.NewBackend(cfg.AI.Backend)
	if err != nil {
		logger.Error("failed to build ai backend", "error", err)
		os.Exit(1)
	}
	if cfg.AI.Credential() == "" {
		logger.Warn("no AI credential configured; AI requests will fail")
	}
	answerer := delegate.NewClient(backend, loader.AI, metrics)

	screen := filter.NewScreen(metrics,
		secrets.NewScanner(func() config.SecretsFilterConfig { return loader.Filter().Secrets }),
		injection.NewScanner(func() config.InjectionFilterConfig { return loader.Filter().Injection }),
	)

	identity := loader.Identity
	handler := gateway.NewHandler(dispatch.NewDispatcher(answerer, screen), identity, metrics)

	routes := gateway.NewRouter(handler, gateway.RouterOptions{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		StaticDir:    cfg.Server.StaticDir,
		RateLimit:    ratelimit.Middleware(checker, loader.RateLimit, handler.Email, metrics),

		TrustForwardedHeaders: cfg.Server.TrustForwardedHeaders,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      routes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	servers := []*http.Server{srv}
	if cfg.Telemetry.MetricsPort > 0 {
		mr := chi.NewRouter()
		mr.Handle("/metrics", promhttp.Handler())
		servers = append(servers, &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Telemetry.MetricsPort),
			Handler: mr,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error {
			logger.Info("listener starting", "addr", s.Addr, "version", version)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", s.Addr, err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), loader.Config().Server.GracefulShutdown)
		defer cancel()
		var errs []error
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", s.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
