// Package fetch fans out to every configured source concurrently and joins
// the results. A failing or panicking source never takes down its siblings;
// it contributes a labeled error and nothing else.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dsa-labs/dashcat/internal/catalog"
	"github.com/dsa-labs/dashcat/internal/source"
)

// Result is the joined output of one fetch round.
type Result struct {
	Assets []catalog.Asset
	Terms  []catalog.GlossaryTerm

	// Counts records how many records each source produced, including
	// zero-producing sources that ran.
	Counts map[string]int

	// Errors holds one "name: message" string per failed source.
	Errors []string
}

// taskResult is the private per-goroutine slot. Each goroutine writes only
// its own slot, so the join needs no locking.
type taskResult struct {
	name   string
	assets []catalog.Asset
	terms  []catalog.GlossaryTerm
	err    error
}

// Run fetches from all sources concurrently and merges in the order the
// sources were given, so the merged output is stable for a stable source
// set. Sibling failures are isolated: no cancellation propagates between
// sources.
func Run(ctx context.Context, sources []source.Source, logger *slog.Logger) *Result {
	results := make([]taskResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		i, src := i, src
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fetchOne(ctx, src, logger)
		}()
	}
	wg.Wait()

	res := &Result{Counts: make(map[string]int, len(sources))}
	for _, tr := range results {
		if tr.err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", tr.name, tr.err))
			continue
		}
		res.Assets = append(res.Assets, tr.assets...)
		res.Terms = append(res.Terms, tr.terms...)
		res.Counts[tr.name] = len(tr.assets) + len(tr.terms)
	}
	return res
}

func fetchOne(ctx context.Context, src source.Source, logger *slog.Logger) (tr taskResult) {
	tr.name = src.Name()

	defer func() {
		if r := recover(); r != nil {
			tr.err = fmt.Errorf("panic: %v", r)
			logger.Error("source panicked", "source", tr.name, "panic", r)
		}
	}()

	start := time.Now()
	switch s := src.(type) {
	case source.AssetSource:
		tr.assets, tr.err = s.FetchAssets(ctx)
	case source.TermSource:
		tr.terms, tr.err = s.FetchTerms(ctx)
	default:
		tr.err = fmt.Errorf("source emits neither assets nor terms")
		return tr
	}

	if tr.err != nil {
		logger.Error("source failed", "source", tr.name, "error", tr.err)
		return tr
	}
	logger.Info("source fetched",
		"source", tr.name,
		"assets", len(tr.assets),
		"terms", len(tr.terms),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return tr
}
