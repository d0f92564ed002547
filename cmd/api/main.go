package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lawn-care-scheduler/internal/app"
	"lawn-care-scheduler/internal/config"
	"lawn-care-scheduler/internal/jobs"
	"lawn-care-scheduler/internal/platform/logger"
	"lawn-care-scheduler/internal/router"
)

// @title Lawn Care Scheduler API
// @version 1.0
// @description Perfiles de césped, plantillas de tratamientos y calendario de tratamientos.
// @BasePath /
func main() {
	configPath := flag.String("config", os.Getenv("LAWN_CONFIG"), "archivo YAML de configuración (opcional)")
	flag.Parse()

	boot := logger.NewFromEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Error("config error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "lawn-care-scheduler",
	})

	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(cfg.DB, true)
	if err != nil {
		return err
	}
	defer stores.Close()

	svcs := app.NewServices(stores, cfg.Schedule, log)

	if res, err := app.ImportCatalog(ctx, svcs.Templates, cfg.Catalog.Path); err != nil {
		return err
	} else if cfg.Catalog.Path != "" {
		log.Info("template catalog imported", map[string]any{
			"path":    cfg.Catalog.Path,
			"created": res.Created,
			"updated": res.Updated,
		})
	}

	verifier, err := app.NewVerifier(cfg.Auth)
	if err != nil {
		return err
	}
	if verifier == nil {
		log.Warn("no identity provider configured: protected endpoints will answer 401", nil)
	}

	if cfg.Expiry.Schedule != "" {
		sweeper, err := jobs.NewExpirySweeper(svcs.Treatments, cfg.Expiry.Schedule, cfg.Expiry.GraceDays, log)
		if err != nil {
			return err
		}
		sweeper.Start()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			sweeper.Stop(sctx)
		}()
	}

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: router.NewRouter(router.Options{
			AuthVerifier: verifier,
			Logger:       log,
			Services:     &svcs,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTP.Addr, "db_driver": cfg.DB.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
