package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"track-selector/internal/platform/config"
	"track-selector/internal/platform/logger"
	"track-selector/internal/platform/metrics"
	"track-selector/internal/player"
	"track-selector/internal/trackselect"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()
	cfg := config.FromEnv()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	met := metrics.New()
	engine := player.New(log.With("component", "player"))
	if err := engine.Load(cfg.CatalogPath); err != nil {
		return err
	}

	ctrl := trackselect.NewController(engine, log.With("component", "controller"), met)
	binding, err := trackselect.Attach(ctx, engine, ctrl, trackselect.Options{
		Logger:         log.With("component", "binder"),
		Metrics:        met,
		RefreshTimeout: cfg.RefreshTimeout,
	})
	if err != nil {
		return err
	}
	defer binding.Detach()

	h := trackselect.NewHandler(ctrl, binding, log, cfg.SwitchTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met, "/metrics"))
	r.Handle("/metrics", met.Handler())
	h.Routes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting",
			"port", cfg.Port,
			"catalog", cfg.CatalogPath,
			"namespace", binding.Namespace(),
			"log_level", cfg.LogLevel,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.CatalogWatch {
		g.Go(func() error {
			return player.NewWatcher(engine, log.With("component", "watcher"), cfg.CatalogDebounce).Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, draining connections")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
