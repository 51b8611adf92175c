package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/cartstate/internal/cart/httpapi"
	"github.com/dwikikusuma/cartstate/internal/cart/storage"
	"github.com/dwikikusuma/cartstate/internal/cart/store"
	"github.com/dwikikusuma/cartstate/pkg/config"
	"github.com/dwikikusuma/cartstate/pkg/logger"
	"github.com/dwikikusuma/cartstate/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "cartd",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	slot, closeSlot, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("storage init failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer closeSlot()

	cartStore := store.New(ctx, slot, log)
	handler := httpapi.New(cartStore, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("cartd starting",
			slog.String("addr", addr),
			slog.String("storage", cfg.Storage))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("cartd exited with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (storage.Slot, func(), error) {
	switch cfg.Storage {
	case "memory":
		return storage.NewMemory(), func() {}, nil
	case "file":
		f, err := storage.NewFile(cfg.CartDir)
		if err != nil {
			return nil, nil, err
		}
		return f, func() {}, nil
	case "sqlite":
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case "redis":
		r := storage.NewRedis(cfg.RedisAddr)
		if !r.Ping(ctx) {
			log.Warn("redis unreachable, cart durability is best-effort",
				slog.String("addr", cfg.RedisAddr))
		}
		return r, func() { r.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown CART_STORAGE %q", cfg.Storage)
	}
}
