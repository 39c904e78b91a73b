// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/medrush/opsconsole/internal/config"
	"github.com/medrush/opsconsole/internal/platform"
	"github.com/medrush/opsconsole/internal/scheduler"
	"github.com/medrush/opsconsole/internal/snapshot"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	client := platform.NewClient(cfg.Platform.BaseURL, cfg.Platform.Timeout)

	store, err := snapshot.Open(cfg.Snapshot.Filename)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	defer store.Close()

	sched, err := scheduler.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	refresher := snapshot.NewRefresher(client, store, cfg.Platform.ServiceToken, cfg.Snapshot.MaxRows)
	if cfg.Platform.ServiceToken == "" {
		log.Warn().Msg("PLATFORM_SERVICE_TOKEN not set; snapshot refresh disabled")
	} else {
		_, err = sched.AddJob("snapshot-refresh", cfg.Snapshot.RefreshCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Platform.Timeout*time.Duration(len(platform.Endpoints())))
			defer cancel()
			if err := refresher.RefreshAll(log.Logger.WithContext(ctx)); err != nil {
				log.Error().Err(err).Msg("Snapshot refresh run failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule snapshot refresh")
		}
	}

	server := newServer(cfg, client, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sched.Start()
		log.Info().Int("port", cfg.App.Port).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("Scheduler shutdown error")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
