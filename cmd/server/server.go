package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/config"
	"github.com/caravangame/caravan-api/internal/engine"
	"github.com/caravangame/caravan-api/internal/handlers/httpapi"
	"github.com/caravangame/caravan-api/internal/orchestrators/expedition"
	"github.com/caravangame/caravan-api/internal/pkg/clock"
	"github.com/caravangame/caravan-api/internal/pkg/idgen"
	"github.com/caravangame/caravan-api/internal/redis"
	"github.com/caravangame/caravan-api/internal/repositories/gamestate"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the caravan API server with the default catalog and a Redis-backed save store.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	catalog := catalogs.Default()
	if cfg.CatalogPath != "" {
		catalog, err = catalogs.LoadFile(cfg.CatalogPath, catalog)
		if err != nil {
			return fmt.Errorf("failed to load catalog from %s: %w", cfg.CatalogPath, err)
		}
	}

	redisClient, err := redis.NewClient(cfg.RedisEndpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisEndpoint, err)
	}

	eng, err := engine.New(&engine.Config{
		Catalog:     catalog,
		Clock:       clock.New(),
		IDGenerator: idgen.NewUUID("cv"),
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	svc, err := expedition.NewOrchestrator(&expedition.Config{
		GameStateRepo: gamestate.NewRedisRepository(redisClient),
		Engine:        eng,
	})
	if err != nil {
		return fmt.Errorf("failed to create expedition orchestrator: %w", err)
	}

	handler, err := httpapi.NewHandler(&httpapi.Config{
		ExpeditionService: svc,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP handler: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.ShutdownGraceSeconds)*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown timed out, forcing close", "error", err)
			_ = srv.Close()
		}
		slog.Info("server stopped")
		return nil
	case err := <-errChan:
		return err
	}
}
