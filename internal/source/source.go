// Package source defines the adapter contract for external dashboard
// platforms and the shared plumbing they use: the adapter registry, a
// rate-limited HTTP client with 429 retry, and tolerant timestamp parsing.
package source

import (
	"context"

	"github.com/dsa-labs/dashcat/internal/catalog"
)

// Source is implemented by every adapter. Concrete adapters also implement
// AssetSource or TermSource depending on what they emit.
type Source interface {
	Name() string
}

// AssetSource fetches normalized dashboard assets from one platform.
// Implementations contain their own internal failures: auth errors, HTTP
// errors, and malformed records are logged and degrade the result to a
// partial or empty slice. A returned error means the adapter itself failed
// unexpectedly and is handled at the orchestrator level.
type AssetSource interface {
	Source
	FetchAssets(ctx context.Context) ([]catalog.Asset, error)
}

// TermSource fetches glossary terms from a remote document store.
type TermSource interface {
	Source
	FetchTerms(ctx context.Context) ([]catalog.GlossaryTerm, error)
}

// Credentials is the flat configuration mapping of named credential strings
// handed to adapter factories. Absence of a required key disables the
// adapter rather than failing it.
type Credentials map[string]string

// Get returns the named credential, or "".
func (c Credentials) Get(key string) string {
	return c[key]
}

// Has reports whether every named credential is present and non-empty.
func (c Credentials) Has(keys ...string) bool {
	for _, k := range keys {
		if c[k] == "" {
			return false
		}
	}
	return true
}
