package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"quantbt/internal/config"
	"quantbt/internal/httpapi"
	"quantbt/internal/store"
	"quantbt/internal/strategy/builtins"
	"quantbt/internal/util"
)

func main() {
	cfgPath := "config/quantbt.yaml"
	if p := os.Getenv("QUANTBT_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// Run on defaults when the default config file is simply absent.
		if os.Getenv("QUANTBT_CONFIG") != "" || !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	log := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(log)

	if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("creating data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	st, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Error("opening store", "path", cfg.Storage.SQLitePath, "error", err)
		os.Exit(1)
	}

	worker := store.NewWorker(st, 64, log)
	registry := builtins.DefaultRegistry(cfg.Backtest.FastPeriod, cfg.Backtest.SlowPeriod)
	api := httpapi.NewServer(st, worker, registry, cfg.Backtest, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("quantbt-server listening", "addr", addr, "db", cfg.Storage.SQLitePath)
		errCh <- srv.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}

	// Drain pending persistence work before closing the database.
	worker.Stop()
	if err := st.Close(); err != nil {
		log.Warn("closing store", "error", err)
	}
	log.Info("quantbt-server stopped")
}
