package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/user/kgharvest/internal/domain"
)

func TestLogSink_Ingest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	doc := domain.NewTextDocument(domain.SourceEntry{Key: "acme", URL: "https://d.example/companies/acme"}, "body")
	require.NoError(t, sink.Ingest(context.Background(), []domain.NormalizedDocument{doc}))

	entries := logs.FilterMessage("document accepted").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "acme", fields["key"])
	assert.Equal(t, doc.ID.String(), fields["id"])
	assert.Equal(t, int64(4), fields["bytes"])
}

func TestLogSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewLogSink(zap.NewNop()).Ingest(ctx, nil), context.Canceled)
}
