// Package site turns a pipeline run into a static catalog site: a
// catalog.json document plus an embedded client-side page that renders it.
// Presentation decisions live entirely in the static assets; the pipeline
// only emits the document.
package site

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dsa-labs/dashcat/internal/catalog"
	"github.com/dsa-labs/dashcat/internal/classify"
)

//go:embed static/*
var staticFiles embed.FS

// Catalog is the full document handed to the renderer, one per run.
type Catalog struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	ProjectName string                 `json:"project_name"`
	Assets      []catalog.Asset        `json:"assets"`
	Terms       []catalog.GlossaryTerm `json:"terms"`
	Domains     []string               `json:"domains"` // canonical filter order
	Pods        []classify.Pod         `json:"pods"`
	Counts      map[string]int         `json:"counts"`
	Errors      []string               `json:"errors"`
}

// Build writes the catalog document and the static page to outputDir.
func Build(outputDir string, cat *Catalog) error {
	dataDir := filepath.Join(outputDir, "data")
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	raw, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "catalog.json"), raw, 0600); err != nil {
		return fmt.Errorf("write catalog.json: %w", err)
	}

	return copyStaticFiles(outputDir)
}

// copyStaticFiles copies the embedded page assets into the output directory.
func copyStaticFiles(outputDir string) error {
	return fs.WalkDir(staticFiles, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "static" {
			return nil
		}

		outPath := filepath.Join(outputDir, path[len("static/"):])
		if d.IsDir() {
			return os.MkdirAll(outPath, 0750)
		}

		content, err := staticFiles.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", path, err)
		}
		return os.WriteFile(outPath, content, 0600)
	})
}
