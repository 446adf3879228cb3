package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rosterhq/rosterd/api"
	"github.com/rosterhq/rosterd/cache"
	"github.com/rosterhq/rosterd/config"
	"github.com/rosterhq/rosterd/directory"
	"github.com/rosterhq/rosterd/metrics"
	"github.com/rosterhq/rosterd/ratelimit"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := directory.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	repo := directory.NewRepository(db)

	var filters cache.FilterCache = cache.NoopFilterCache{}
	if cfg.Redis.Enabled() {
		rc, err := cache.NewRedisFilterCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.CacheTTL,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rc.Close()
		filters = rc
		log.Info("filter cache enabled", "addr", cfg.Redis.Addr)
	}

	store, err := ratelimit.NewLimiterStore(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("create limiter: %w", err)
	}
	stopSweep := store.StartSweeping()
	defer stopSweep()

	gate := ratelimit.NewAdmissionGate(store)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg, store.Size)

	handler := api.NewHandler(repo, filters, gate, m, log)

	r := chi.NewRouter()
	r.Get("/", handler.Root)
	r.Get("/health", handler.Health)
	r.Get("/favicon.ico", handler.Favicon)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ratelimit.Middleware(gate, m))
		handler.Routes(r)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr,
			"limit", cfg.RateLimit.Limit, "window", cfg.RateLimit.Window)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
