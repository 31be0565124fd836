package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/docutag/articlegen"
	"github.com/docutag/articlegen/api"
	"github.com/docutag/articlegen/config"
	"github.com/docutag/articlegen/db"
	"github.com/docutag/articlegen/metrics"
	"github.com/docutag/articlegen/storage"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr        string `default:":8080" help:"Listen address" env:"ARTICLEGEN_ADDR"`
	DatabaseURL string `name:"database-url" help:"PostgreSQL DSN enabling run history" env:"ARTICLEGEN_DATABASE_URL"`
	DisableCORS bool   `name:"disable-cors" help:"Disable CORS"`
	NoStorage   bool   `name:"no-storage" help:"Disable ?save=true document storage"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, profile, err := root.generatorConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	logger := slog.Default()
	gen := articlegen.New(cfg,
		articlegen.WithLogger(logger),
		articlegen.WithRecorder(metrics.NewPrometheusRecorder(reg)))

	serverConfig := api.DefaultConfig()
	serverConfig.Addr = s.Addr
	serverConfig.ArchiveName = profile.ArchiveName
	serverConfig.CORSEnabled = !s.DisableCORS

	opts := []api.Option{
		api.WithLogger(logger),
		api.WithMetricsHandler(metrics.HTTPHandler(reg)),
	}

	if s.DatabaseURL != "" {
		database, err := db.New(db.Config{DSN: s.DatabaseURL})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()

		reg.MustRegister(collectors.NewDBStatsCollector(database.DB(), "articlegen"))
		opts = append(opts, api.WithRunStore(database))
		logger.Info("run history enabled")
	}

	if !s.NoStorage {
		sink, err := openSink(ctx, profile)
		if err != nil {
			return err
		}
		opts = append(opts, api.WithSink(sink))
	}

	server := api.NewServer(serverConfig, gen, opts...)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("articlegen service starting",
			"addr", s.Addr,
			"base_url", cfg.BaseURL,
			"strict", cfg.Strict,
			"run_history", s.DatabaseURL != "")
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// openSink returns S3 storage when the profile configures it, local storage otherwise
func openSink(ctx context.Context, profile *config.Profile) (storage.Sink, error) {
	if s3cfg, ok := profile.S3Config(); ok {
		s3, err := storage.NewS3Storage(ctx, s3cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		slog.Info("using S3 storage", "bucket", s3cfg.Bucket, "prefix", s3cfg.Prefix)
		return s3, nil
	}

	local, err := storage.New(storage.Config{BasePath: profile.Storage.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Info("using filesystem storage", "path", profile.Storage.Path)
	return local, nil
}
