package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/domain"
)

// LogSink accepts every document and records it in the log.
// Used when no Postgres URL is configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Ingest(ctx context.Context, docs []domain.NormalizedDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, doc := range docs {
		s.logger.Info("document accepted",
			zap.String("id", doc.ID.String()),
			zap.String("key", doc.SourceKey),
			zap.String("url", doc.SourceURL),
			zap.Int("bytes", len(doc.Body)),
		)
	}
	return nil
}
