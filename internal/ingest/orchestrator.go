// Package ingest drives directory sources through harvesting and into the document sink.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/domain"
	"github.com/user/kgharvest/internal/monitoring"
)

var ErrPromptNotInstalled = errors.New("extraction prompt must be installed before ingestion")

// Sink accepts normalized documents and turns them into graph facts.
// The orchestrator always submits exactly one document per call.
type Sink interface {
	Ingest(ctx context.Context, docs []domain.NormalizedDocument) error
}

// Harvester fetches and normalizes one source page.
type Harvester interface {
	Harvest(ctx context.Context, url string) (string, error)
}

// PromptGate reports whether the extraction prompt is in place.
type PromptGate interface {
	Installed() bool
}

// CapPolicy selects what the max-entries cap counts.
type CapPolicy int

const (
	// CountSuccesses counts only submitted documents. A run of failing
	// sources never reaches the cap and continues until the list is exhausted.
	CountSuccesses CapPolicy = iota
	// CountAttempts counts every examined source, failed or not.
	CountAttempts
)

// ParseCapPolicy maps the configuration value to a CapPolicy.
func ParseCapPolicy(s string) (CapPolicy, error) {
	switch s {
	case "successes":
		return CountSuccesses, nil
	case "attempts":
		return CountAttempts, nil
	}
	return 0, fmt.Errorf("unknown cap policy %q", s)
}

type Status string

const (
	StatusIngested Status = "ingested"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
)

type Stage string

const (
	StageFetch     Stage = "fetch"
	StageNormalize Stage = "normalize"
	StageSubmit    Stage = "submit"
)

// Result is the outcome for one source. Stage and Err are set only for failures.
type Result struct {
	Entry      domain.SourceEntry
	DocumentID domain.ContentID
	Status     Status
	Stage      Stage
	Err        error
}

// Report summarizes a run.
type Report struct {
	Results   []Result
	Processed int
}

// Count returns the number of results with status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Orchestrator ingests sources one at a time, isolating per-source failures.
type Orchestrator struct {
	harvester Harvester
	sink      Sink
	gate      PromptGate
	policy    CapPolicy
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

func NewOrchestrator(h Harvester, s Sink, gate PromptGate, policy CapPolicy, m *monitoring.Metrics, l *zap.Logger) *Orchestrator {
	return &Orchestrator{
		harvester: h,
		sink:      s,
		gate:      gate,
		policy:    policy,
		metrics:   m,
		logger:    l,
	}
}

// Run walks entries in order until maxEntries sources have been counted
// under the cap policy. Sources past the cap are neither fetched nor counted.
// A failing source is logged, recorded in the report and skipped.
// Run returns an error only when it cannot start or ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, entries []domain.SourceEntry, maxEntries int) (Report, error) {
	var report Report
	if o.gate != nil && !o.gate.Installed() {
		return report, ErrPromptNotInstalled
	}

	for i, entry := range entries {
		if report.Processed >= maxEntries {
			o.logger.Info("ingestion cap reached",
				zap.Int("max_entries", maxEntries), zap.Int("remaining", len(entries)-i))
			for _, rest := range entries[i:] {
				report.Results = append(report.Results, Result{Entry: rest, Status: StatusSkipped})
				o.metrics.IncOutcome(string(StatusSkipped))
			}
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := o.ingestOne(ctx, entry)
		report.Results = append(report.Results, res)
		o.metrics.IncOutcome(string(res.Status))

		if res.Status == StatusIngested || o.policy == CountAttempts {
			report.Processed++
		}
	}

	o.logger.Info("ingestion finished",
		zap.Int("processed", report.Processed),
		zap.Int("ingested", report.Count(StatusIngested)),
		zap.Int("failed", report.Count(StatusFailed)),
		zap.Int("skipped", report.Count(StatusSkipped)))
	return report, nil
}

func (o *Orchestrator) ingestOne(ctx context.Context, entry domain.SourceEntry) Result {
	res := Result{Entry: entry, DocumentID: domain.NewContentID(entry.Key)}

	start := time.Now()
	body, err := o.harvester.Harvest(ctx, entry.URL)
	o.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		stage := StageNormalize
		if errors.Is(err, domain.ErrFetch) {
			stage = StageFetch
		}
		return o.fail(res, stage, err)
	}

	doc := domain.NewTextDocument(entry, body)
	if err := o.sink.Ingest(ctx, []domain.NormalizedDocument{doc}); err != nil {
		return o.fail(res, StageSubmit, &domain.SubmitError{ID: doc.ID, Err: err})
	}

	o.logger.Info("source ingested",
		zap.String("key", entry.Key),
		zap.String("url", entry.URL),
		zap.String("document_id", doc.ID.String()))
	res.Status = StatusIngested
	return res
}

func (o *Orchestrator) fail(res Result, stage Stage, err error) Result {
	o.logger.Warn("skipping source",
		zap.String("key", res.Entry.Key),
		zap.String("url", res.Entry.URL),
		zap.String("stage", string(stage)),
		zap.Error(err))
	o.metrics.IncErrorsTotal(string(stage))
	res.Status = StatusFailed
	res.Stage = stage
	res.Err = err
	return res
}
