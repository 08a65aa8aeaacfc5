package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsa-labs/dashcat/internal/catalog"
	"github.com/dsa-labs/dashcat/internal/testutil"
)

func TestBuild(t *testing.T) {
	dir := t.TempDir()

	cat := &Catalog{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		ProjectName: "Data Catalog",
		Assets: []catalog.Asset{
			{Tool: catalog.ToolTableau, Name: "Revenue", URL: "https://tab/r", Status: catalog.StatusActive, Domains: []string{"Finance"}, Quality: true},
		},
		Terms:   []catalog.GlossaryTerm{{Term: "DAU", Definition: "Daily active users.", Dashboards: []string{}}},
		Domains: []string{"Finance", "General"},
		Counts:  map[string]int{"tableau": 1},
	}

	require.NoError(t, Build(dir, cat))

	raw, err := os.ReadFile(filepath.Join(dir, "data", "catalog.json"))
	require.NoError(t, err)

	var got Catalog
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "run-1", got.RunID)
	require.Len(t, got.Assets, 1)
	assert.Equal(t, "Revenue", got.Assets[0].Name)
	assert.Equal(t, []string{"Finance", "General"}, got.Domains)

	// The page assets land next to the data.
	for _, name := range []string{"index.html", "app.js", "style.css"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestBuildOverwrites(t *testing.T) {
	dir := t.TempDir()

	first := &Catalog{RunID: "run-1", Counts: map[string]int{}}
	require.NoError(t, Build(dir, first))

	second := &Catalog{RunID: "run-2", Counts: map[string]int{}}
	require.NoError(t, Build(dir, second))

	raw, err := os.ReadFile(filepath.Join(dir, "data", "catalog.json"))
	require.NoError(t, err)

	var got Catalog
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "run-2", got.RunID)
}

func TestServerShutsDownOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Build(dir, &Catalog{RunID: "run-1"}))

	srv := &Server{
		Addr:      "127.0.0.1:0",
		OutputDir: dir,
		Logger:    testutil.NewTestLogger(t),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
