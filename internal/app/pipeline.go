// Package app sequences one harvest run: resolve the manifest, install the
// extraction prompt, optionally reset the graph, ingest, then print the graph.
package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/domain"
	"github.com/user/kgharvest/internal/graph"
	"github.com/user/kgharvest/internal/ingest"
	"github.com/user/kgharvest/internal/manifest"
	"github.com/user/kgharvest/internal/schema"
)

type PromptInstaller interface {
	Install(ctx context.Context, s schema.Schema) error
}

type GraphAdmin interface {
	DeleteAll(ctx context.Context) error
	ListRelationships(ctx context.Context) ([]graph.Triple, error)
}

type Ingestor interface {
	Run(ctx context.Context, entries []domain.SourceEntry, maxEntries int) (ingest.Report, error)
}

// Options are the per-run inputs.
type Options struct {
	ManifestPath string
	MaxEntries   int
	Delete       bool
	Schema       schema.Schema
}

type Pipeline struct {
	installer PromptInstaller
	graph     GraphAdmin
	ingestor  Ingestor
	out       io.Writer
	logger    *zap.Logger
}

func NewPipeline(in PromptInstaller, g GraphAdmin, ing Ingestor, out io.Writer, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		installer: in,
		graph:     g,
		ingestor:  ing,
		out:       out,
		logger:    logger,
	}
}

// Run executes one harvest. Manifest and prompt errors abort before any
// page is fetched; per-source failures are absorbed by the ingestor.
func (p *Pipeline) Run(ctx context.Context, opts Options) (ingest.Report, error) {
	dir, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return ingest.Report{}, err
	}
	p.logger.Info("manifest resolved", zap.String("path", opts.ManifestPath), zap.Int("sources", dir.Len()))

	if err := p.installer.Install(ctx, opts.Schema); err != nil {
		return ingest.Report{}, err
	}

	if opts.Delete {
		if err := p.graph.DeleteAll(ctx); err != nil {
			return ingest.Report{}, err
		}
	}

	report, err := p.ingestor.Run(ctx, dir.Entries(), opts.MaxEntries)
	if err != nil {
		return report, err
	}

	triples, err := p.graph.ListRelationships(ctx)
	if err != nil {
		return report, err
	}
	for _, t := range triples {
		fmt.Fprintln(p.out, t.String())
	}
	return report, nil
}
