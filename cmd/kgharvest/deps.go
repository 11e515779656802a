package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/config"
	"github.com/user/kgharvest/internal/crawler"
	"github.com/user/kgharvest/internal/ingest"
	"github.com/user/kgharvest/internal/monitoring"
	"github.com/user/kgharvest/internal/prompt"
	"github.com/user/kgharvest/internal/proxy"
	"github.com/user/kgharvest/internal/schema"
	"github.com/user/kgharvest/internal/storage"
)

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadSchema(cfg *config.Config) (schema.Schema, error) {
	if cfg.SchemaFile == "" {
		return schema.Default(), nil
	}
	return schema.LoadFile(cfg.SchemaFile)
}

// newRegistry returns the Redis registry when REDIS_ADDR is set, otherwise an
// in-memory one holding the bundled template.
func newRegistry(cfg *config.Config) (prompt.Registry, func()) {
	if cfg.RedisAddr != "" {
		r := storage.NewRedisPromptRegistry(cfg.RedisAddr)
		return r, func() { _ = r.Close() }
	}
	m := prompt.NewMemoryRegistry(map[string]string{
		prompt.DefaultTemplateName: prompt.DefaultTemplate,
	})
	return m, func() {}
}

func newSink(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ingest.Sink, func(), error) {
	if cfg.PostgresURL == "" {
		logger.Warn("POSTGRES_URL not set, documents will only be logged")
		return storage.NewLogSink(logger), func() {}, nil
	}
	pg, err := storage.NewPostgresDocumentSink(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

func newFetcher(cfg *config.Config, pm *proxy.Manager, logger *zap.Logger) (crawler.Fetcher, func()) {
	if cfg.FetchMode == config.FetchModeBrowser {
		b := crawler.NewBrowserFetcher(cfg.FetchTimeoutDuration(), pm.GetUserAgent(), logger)
		return b, b.Close
	}
	return crawler.NewHTTPFetcher(cfg.FetchTimeoutDuration(), pm), func() {}
}

const pushJob = "kgharvest"

// pushMetrics exports the run's metrics to the Pushgateway, if one is configured.
// A failed push is logged and does not fail the run.
func pushMetrics(cfg *config.Config, g prometheus.Gatherer, logger *zap.Logger) {
	if cfg.PushgatewayURL == "" {
		logger.Info("PUSHGATEWAY_URL not set, run metrics are not exported")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := monitoring.Push(ctx, cfg.PushgatewayURL, pushJob, g); err != nil {
		logger.Warn("failed to push metrics", zap.String("url", cfg.PushgatewayURL), zap.Error(err))
		return
	}
	logger.Info("metrics pushed", zap.String("url", cfg.PushgatewayURL), zap.String("job", pushJob))
}
