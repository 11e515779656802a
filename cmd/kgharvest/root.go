package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/app"
	"github.com/user/kgharvest/internal/config"
	"github.com/user/kgharvest/internal/crawler"
	"github.com/user/kgharvest/internal/graph"
	"github.com/user/kgharvest/internal/ingest"
	"github.com/user/kgharvest/internal/monitoring"
	"github.com/user/kgharvest/internal/prompt"
	"github.com/user/kgharvest/internal/proxy"
)

var (
	maxEntries  int
	deleteGraph bool
)

var rootCmd = &cobra.Command{
	Use:   "kgharvest",
	Short: "Harvest organization profile pages into a knowledge graph",
	Long: `kgharvest reads a manifest of profile URLs, installs the entity and relation
schema into the extraction prompt, and submits the normalized text of each page
to the document sink. The graph relationships are printed when the run ends.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runHarvest(ctx, cmd.OutOrStdout())
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntVar(&maxEntries, "max-entries", 50, "Maximum number of sources to ingest")
	rootCmd.Flags().BoolVar(&deleteGraph, "delete", false, "Delete every node and relationship before ingesting")
}

func runHarvest(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	s, err := loadSchema(cfg)
	if err != nil {
		logger.Error("could not load schema", zap.Error(err))
		return err
	}
	policy, err := ingest.ParseCapPolicy(cfg.CapPolicy)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	defer pushMetrics(cfg, reg, logger)

	registry, closeRegistry := newRegistry(cfg)
	defer closeRegistry()
	installer := prompt.NewInstaller(registry, cfg.PromptTemplateName, cfg.PromptName, logger)

	opener, err := graph.NewNeo4jOpener(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		logger.Error("failed to create graph driver", zap.Error(err))
		return err
	}
	defer opener.Close(context.Background())
	admin := graph.NewAdmin(opener, cfg.Neo4jDatabase, logger)

	sink, closeSink, err := newSink(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure document sink", zap.Error(err))
		return err
	}
	defer closeSink()

	fetcher, closeFetcher := newFetcher(cfg, proxy.NewManager(cfg.ProxyList()), logger)
	defer closeFetcher()

	orch := ingest.NewOrchestrator(crawler.NewHarvester(fetcher), sink, installer, policy, metrics, logger)
	pipeline := app.NewPipeline(installer, admin, orch, out, logger)

	report, err := pipeline.Run(ctx, app.Options{
		ManifestPath: cfg.ManifestPath,
		MaxEntries:   maxEntries,
		Delete:       deleteGraph,
		Schema:       s,
	})
	if err != nil {
		logger.Error("harvest failed", zap.Error(err))
		return err
	}

	logger.Info("harvest finished",
		zap.Int("processed", report.Processed),
		zap.Int("failed", report.Count(ingest.StatusFailed)),
		zap.Int("skipped", report.Count(ingest.StatusSkipped)),
	)
	return nil
}
