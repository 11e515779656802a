package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/api"
	"github.com/user/kgharvest/internal/config"
	"github.com/user/kgharvest/internal/graph"
	"github.com/user/kgharvest/internal/monitoring"
	"github.com/user/kgharvest/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Serve health, metrics and graph relationships over HTTP",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	opener, err := graph.NewNeo4jOpener(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		logger.Error("failed to create graph driver", zap.Error(err))
		return err
	}
	defer opener.Close(context.Background())
	admin := graph.NewAdmin(opener, cfg.Neo4jDatabase, logger)

	checks := map[string]api.Pinger{"neo4j": admin}
	if cfg.PostgresURL != "" {
		pg, err := storage.NewPostgresDocumentSink(context.Background(), cfg.PostgresURL)
		if err != nil {
			logger.Error("failed to configure postgres", zap.Error(err))
			return err
		}
		defer pg.Close()
		checks["postgres"] = pg
	}
	if cfg.RedisAddr != "" {
		rdb := storage.NewRedisPromptRegistry(cfg.RedisAddr)
		defer rdb.Close()
		checks["redis"] = rdb
	}

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	server := api.NewServer(cfg.ServerPort, admin, checks, metrics, prometheus.DefaultGatherer, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error("could not start server", zap.Error(err))
		return err
	}

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server exiting")
	return nil
}
