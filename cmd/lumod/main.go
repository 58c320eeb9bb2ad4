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

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"lumo/internal/config"
	"lumo/internal/logger"
	"lumo/internal/server"
	"lumo/internal/storage"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "lumod:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "lumod",
		Usage:   "Collect Claude Code telemetry over OTLP/HTTP into a local database",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"LUMO_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "listen address (default " + config.DefaultAddress + ")",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "database file path",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "storage driver: sqlite or duckdb",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn or error",
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, Version)
					return nil
				},
			},
		},
	}
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("address") {
		cfg.Server.Address = c.String("address")
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	if c.IsSet("driver") {
		cfg.Storage.Driver = c.String("driver")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.Options{
		Driver: storage.Driver(cfg.Storage.Driver),
		Path:   cfg.Storage.Path,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing storage")
		}
	}()

	retention := storage.CleanupConfig{
		RetentionDays:       cfg.Storage.RetentionDays,
		CleanupIntervalMins: cfg.Storage.CleanupIntervalMins,
	}

	srv := server.New(server.Config{
		Address:             cfg.Server.Address,
		Version:             Version,
		RetentionCfg:        retention,
		MaxConcurrentIngest: cfg.Server.MaxConcurrentIngest,
		MaxConcurrentQuery:  cfg.Server.MaxConcurrentQuery,
	}, store)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address).
			Str("driver", cfg.Storage.Driver).
			Str("db", cfg.Storage.Path).
			Str("version", Version).
			Msg("lumod listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		store.StartCleanupWorker(gctx, retention)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("lumod exited")
	return nil
}
