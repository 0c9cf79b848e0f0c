package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/joramcars/dealership-web/api/controllers"
	"github.com/joramcars/dealership-web/api/middleware"
	"github.com/joramcars/dealership-web/api/routes"
	"github.com/joramcars/dealership-web/api/views"
	"github.com/joramcars/dealership-web/internal/wizard"
	"github.com/joramcars/dealership-web/pkg/auth/session"
	"github.com/joramcars/dealership-web/pkg/backend"
	"github.com/joramcars/dealership-web/pkg/config"
	"github.com/joramcars/dealership-web/pkg/db"
	"github.com/joramcars/dealership-web/pkg/env"
	"github.com/joramcars/dealership-web/pkg/instance"
	"github.com/joramcars/dealership-web/pkg/kv"
	"github.com/joramcars/dealership-web/pkg/logger"
	"github.com/joramcars/dealership-web/pkg/metrics"
	"github.com/joramcars/dealership-web/pkg/migrate"
	"github.com/joramcars/dealership-web/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "web"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "web",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logg)
	stop()
	if err != nil {
		logg.Error(context.Background(), "web server exited", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. Resources opened
// here are released before it returns.
func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	api, err := backend.NewClient(cfg.Backend.BaseURL, backend.WithTimeout(cfg.Backend.Timeout))
	if err != nil {
		return fmt.Errorf("create backend client: %w", err)
	}

	store, limiter, closeStore, err := openStore(ctx, cfg, logg)
	if err != nil {
		return fmt.Errorf("bootstrap kv store: %w", err)
	}
	defer func() {
		err = multierr.Append(err, closeStore())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	wizards, err := wizard.NewService(wizard.ServiceParams{
		Store:       store,
		Submitter:   api,
		Logger:      logg,
		Metrics:     metrics.NewWizardMetrics(registry),
		SuccessPath: cfg.Wizard.SuccessTarget,
	})
	if err != nil {
		return fmt.Errorf("create wizard service: %w", err)
	}

	sessions, err := session.NewManager(api, logg)
	if err != nil {
		return fmt.Errorf("create session manager: %w", err)
	}

	renderer, err := views.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		Renderer:       renderer,
		Gatherer:       registry,
		Vehicles:       api,
		Public:         api,
		Wizards:        wizards,
		Sessions:       sessions,
		Store:          store,
		Limiter:        limiter,
		ListingMetrics: metrics.NewListingMetrics(registry),
		AdminAPI:       func(token string) controllers.AdminAPI { return api.WithBearer(token) },
		ProfileAPI:     func(token string) controllers.ProfileAPI { return api.WithBearer(token) },
		Pingers:        map[string]controllers.Pinger{"kv": store},
	})

	addr := env.ListenAddr(cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"instance":  instance.GetID(),
		"kv_driver": cfg.KV.Driver,
	})

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return serve(ctx, &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, listener, logg)
}

// serve runs server on listener until ctx is done, then shuts it down.
func serve(ctx context.Context, server *http.Server, listener net.Listener, logg *logger.Logger) error {
	logg.Info(ctx, "starting web server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server stopped unexpectedly: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	logg.Info(ctx, "web server shut down gracefully")
	return nil
}

// openStore builds the visitor store for the configured driver. The returned
// limiter is nil unless the store is backed by redis.
func openStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (kv.Backend, middleware.RateLimiter, func() error, error) {
	switch cfg.KV.Driver {
	case config.KVDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, nil, err
		}
		return kv.NewRedisStore(client, cfg.KV.TTL), client, client.Close, nil

	case config.KVDriverSQLite, config.KVDriverPostgres:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, nil, nil, multierr.Append(err, client.Close())
		}
		return kv.NewSQLStore(client), nil, client.Close, nil

	default:
		logg.Warn(ctx, "using in-memory kv store, drafts will not survive a restart")
		return kv.NewMemoryStore(), nil, func() error { return nil }, nil
	}
}
