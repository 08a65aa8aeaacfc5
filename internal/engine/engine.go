// Package engine composes the catalog pipeline: fetch from all configured
// sources, enrich, cross-link glossary terms, order, and hand the finished
// document to the renderer.
package engine

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dsa-labs/dashcat/internal/classify"
	"github.com/dsa-labs/dashcat/internal/fetch"
	"github.com/dsa-labs/dashcat/internal/linker"
	"github.com/dsa-labs/dashcat/internal/site"
	"github.com/dsa-labs/dashcat/internal/source"

	cat "github.com/dsa-labs/dashcat/internal/catalog"
)

// Engine runs the catalog pipeline.
type Engine struct {
	sources     []source.Source
	rules       *classify.Rules
	enricher    *classify.Enricher
	projectName string
	logger      *slog.Logger
}

// Config holds pipeline configuration. All classification inputs are loaded
// by the caller; the engine itself does no file IO.
type Config struct {
	Sources     []source.Source
	Rules       *classify.Rules
	Metadata    *classify.Metadata
	Overrides   classify.Overrides
	ProjectName string
	Logger      *slog.Logger
}

// New creates a pipeline engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rules := cfg.Rules
	if rules == nil {
		rules = classify.DefaultRules()
	}
	return &Engine{
		sources:     cfg.Sources,
		rules:       rules,
		enricher:    classify.NewEnricher(rules, cfg.Metadata, cfg.Overrides),
		projectName: cfg.ProjectName,
		logger:      logger,
	}
}

// Run executes one pipeline pass. Source-level failures never fail the run;
// they ride along in the document's Errors field. An error return means the
// pipeline itself could not produce a document.
func (e *Engine) Run(ctx context.Context) (*site.Catalog, error) {
	start := time.Now()

	res := fetch.Run(ctx, e.sources, e.logger)

	e.enricher.Enrich(res.Assets)
	linker.Link(res.Terms, res.Assets)
	cat.OrderAssets(res.Assets)

	doc := &site.Catalog{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		ProjectName: e.projectName,
		Assets:      res.Assets,
		Terms:       res.Terms,
		Domains:     e.rules.Domains,
		Pods:        e.rules.Pods,
		Counts:      res.Counts,
		Errors:      res.Errors,
	}

	e.logger.Info("pipeline complete",
		"run_id", doc.RunID,
		"assets", len(doc.Assets),
		"terms", len(doc.Terms),
		"source_errors", len(doc.Errors),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return doc, nil
}
