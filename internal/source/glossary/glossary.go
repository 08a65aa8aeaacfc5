// Package glossary fetches business and metric definitions from a GitHub
// repository directory. Each file is a definition document: a leading
// comment block with the term's metadata and prose definition, optionally
// followed by the metric's formula. The package registers itself as the
// "glossary" source on import.
package glossary

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dsa-labs/dashcat/internal/catalog"
	"github.com/dsa-labs/dashcat/internal/source"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultDir     = "glossary"

	// fileConcurrency caps the per-file content fetches.
	fileConcurrency = 8
)

func init() {
	source.Register("glossary", New)
}

// Adapter is the GitHub glossary source.
type Adapter struct {
	client  *source.Client
	logger  *slog.Logger
	apiBase string
	token   string
	repo    string // "owner/name"
	dir     string
}

// New builds the adapter from credentials; token and repo are required, the
// directory defaults to "glossary".
func New(creds source.Credentials, logger *slog.Logger) (source.Source, bool) {
	if !creds.Has("glossary_github_token", "glossary_repo") {
		return nil, false
	}
	dir := creds.Get("glossary_dir")
	if dir == "" {
		dir = defaultDir
	}
	return &Adapter{
		client:  source.NewClient(logger.With("source", "glossary")),
		logger:  logger.With("source", "glossary"),
		apiBase: defaultAPIBase,
		token:   creds.Get("glossary_github_token"),
		repo:    creds.Get("glossary_repo"),
		dir:     strings.Trim(dir, "/"),
	}, true
}

// Name implements source.Source.
func (a *Adapter) Name() string { return "glossary" }

type dirEntry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Type    string `json:"type"`
	HTMLURL string `json:"html_url"`
}

type fileContent struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// FetchTerms lists the configured directory and fetches each file's content
// concurrently. A malformed or unfetchable file is skipped and logged; it
// never aborts the batch.
func (a *Adapter) FetchTerms(ctx context.Context) ([]catalog.GlossaryTerm, error) {
	entries, err := a.listDir(ctx)
	if err != nil {
		a.logger.Error("directory listing failed", "error", err)
		return nil, nil
	}

	var mu sync.Mutex
	terms := make([]catalog.GlossaryTerm, 0, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fileConcurrency)
	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		entry := entry
		g.Go(func() error {
			raw, err := a.fetchFile(gctx, entry.Path)
			if err != nil {
				a.logger.Warn("file fetch failed, skipping", "path", entry.Path, "error", err)
				return nil
			}
			term, err := ParseTerm(entry.Name, raw)
			if err != nil {
				a.logger.Warn("file malformed, skipping", "path", entry.Path, "error", err)
				return nil
			}
			term.SourceURL = entry.HTMLURL
			mu.Lock()
			terms = append(terms, term)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// Completion order of the fetches must not show in the output.
	sort.Slice(terms, func(i, j int) bool { return terms[i].Term < terms[j].Term })
	return terms, nil
}

func (a *Adapter) listDir(ctx context.Context) ([]dirEntry, error) {
	var entries []dirEntry
	url := fmt.Sprintf("%s/repos/%s/contents/%s", a.apiBase, a.repo, a.dir)
	if err := a.client.GetJSON(ctx, url, nil, a.headers(), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (a *Adapter) fetchFile(ctx context.Context, path string) (string, error) {
	var fc fileContent
	url := fmt.Sprintf("%s/repos/%s/contents/%s", a.apiBase, a.repo, path)
	if err := a.client.GetJSON(ctx, url, nil, a.headers(), &fc); err != nil {
		return "", err
	}
	if fc.Encoding != "base64" {
		return "", fmt.Errorf("unexpected content encoding %q", fc.Encoding)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(fc.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return string(decoded), nil
}

func (a *Adapter) headers() map[string][]string {
	h := source.BearerHeader(a.token)
	h.Set("Accept", "application/vnd.github+json")
	return h
}
