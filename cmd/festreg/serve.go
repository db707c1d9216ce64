package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"festreg/config"
	_ "festreg/docs"
	"festreg/internal/domain"
	"festreg/internal/repository/memory"
	"festreg/internal/repository/postgres"
)

var serveStore string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the registration HTTP API",
	Long: `Run the registration HTTP API.

The document store defaults to STORE_DRIVER (postgres). The memory store keeps
everything in process and is meant for local development.

Example:
  festreg serve
  festreg serve --store memory`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveStore, "store", "", "document store: postgres or memory (overrides STORE_DRIVER)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := config.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.EnvFileWarning != "" {
		logger.Warn(".env file not loaded", "err", cfg.EnvFileWarning)
	}
	if serveStore != "" {
		cfg.StoreDriver = serveStore
	}

	var store domain.DocumentStore
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store = memory.New(memory.WithMaxAttempts(cfg.TxMaxAttempts), memory.WithLogger(logger))
	case config.StoreDriverPostgres:
		db, err := openDB(cfg.DBUrl)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.MigrateUp(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		store = postgres.NewDocumentStore(db, cfg.TxMaxAttempts, logger)
	default:
		return fmt.Errorf("unknown store %q", cfg.StoreDriver)
	}

	handler, err := newHandler(cfg, store, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "store", cfg.StoreDriver, "env", cfg.Environment)
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDB(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
