package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Rapou7/YonkiStats/internal/config"
	apphttp "github.com/Rapou7/YonkiStats/internal/http"
	"github.com/Rapou7/YonkiStats/internal/kv"
	"github.com/Rapou7/YonkiStats/internal/kv/sqlite"
	applog "github.com/Rapou7/YonkiStats/internal/log"
	"github.com/Rapou7/YonkiStats/internal/prefs"
	"github.com/Rapou7/YonkiStats/internal/storage"
)

func main() {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(logger *applog.Logger) error {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	var store kv.Store
	switch cfg.Backend {
	case "memory":
		store = kv.NewMemory()
	case "file":
		fileStore, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			return err
		}
		store = fileStore
	case "sqlite":
		sqliteStore, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := sqliteStore.Close(); err != nil {
				logger.Error("Closing store failed", "error", err)
			}
		}()
		store = sqliteStore
	}
	logger.Info("Storage backend initialized", "backend", cfg.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := storage.NewRepository(store)
	preferences, err := prefs.Load(ctx, store)
	if err != nil {
		return err
	}

	srv := apphttp.NewServer(":"+cfg.Port, repo, preferences, apphttp.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting yonkistats server", "port", cfg.Port, "backend", cfg.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
