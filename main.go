package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/db"
	"github.com/danielhkuo/quickly-meet/metrics"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/router"
	"github.com/danielhkuo/quickly-meet/service"
	"github.com/danielhkuo/quickly-meet/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg cliparse.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func run(ctx context.Context, cfg cliparse.Config) error {
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return err
	}

	// Connect to the database
	conn, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Apply migrations
	if err := db.Migrate(ctx, conn, dialect); err != nil {
		return err
	}
	version, err := db.Version(ctx, conn, dialect)
	if err != nil {
		return err
	}
	slog.Info("Database schema ready", "dialect", dialect, "version", version)

	collector := metrics.NewPrometheus(nil, "")
	svc := service.New(store.New(conn, dialect), cfg, collector)
	mux := router.NewRouter(svc, collector)

	server := &http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("Server closed", "error", err)
	return err
}
