// Package catalog defines the source-agnostic shapes shared by the fetch,
// classification, linking, and rendering stages: assets, glossary terms,
// and manual overrides.
package catalog

import "time"

// Tool identifies the platform an asset was ingested from.
type Tool string

// Known source platforms.
const (
	ToolTableau    Tool = "tableau"
	ToolPreset     Tool = "preset"
	ToolDatabricks Tool = "databricks"
)

// Status is the freshness classification of an asset.
type Status string

// Freshness statuses. StatusHidden is only valid as an override input; it is
// never stored on an asset — it forces the quality flag to false instead.
const (
	StatusActive  Status = "active"
	StatusStale   Status = "stale"
	StatusUnknown Status = "unknown"
	StatusHidden  Status = "hidden"
)

// Asset is one catalogued dashboard or report, normalized from any source.
// Fields up to Published are set by the source adapters; the rest are derived
// by the enrichment engine and the glossary linker.
type Asset struct {
	Tool        Tool       `json:"tool"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Owner       string     `json:"owner,omitempty"` // raw identifier: email or "First Last"
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	URL         string     `json:"url"`
	Project     string     `json:"project,omitempty"`   // Tableau project grouping
	Published   *bool      `json:"published,omitempty"` // Preset visibility flag

	Status       Status        `json:"status"`
	Domains      []string      `json:"domains"` // first-match order, never empty after enrichment
	Tags         []string      `json:"tags,omitempty"`
	OwnerDisplay string        `json:"owner_display,omitempty"`
	PodSlugs     []string      `json:"pod_slugs,omitempty"`
	Quality      bool          `json:"quality"`
	Featured     bool          `json:"featured"`
	RelatedTerms []string      `json:"related_terms,omitempty"`
	OverrideMeta *OverrideMeta `json:"override_meta,omitempty"`
}

// GlossaryTerm is a business or metric definition that may be cross-linked
// to matching assets.
type GlossaryTerm struct {
	Term       string   `json:"term"`
	Definition string   `json:"definition"`
	Category   string   `json:"category"`
	Type       string   `json:"type"` // "glossary" or "metric"
	Tags       []string `json:"tags,omitempty"`
	Formula    string   `json:"formula,omitempty"`
	SourceURL  string   `json:"source_url,omitempty"`
	Dashboards []string `json:"dashboards"` // asset names mentioning this term
}

// Override is a manually authored correction for a single asset, keyed in the
// override store by URL (preferred) or name. Set fields replace the computed
// values entirely; provenance is mandatory.
type Override struct {
	Domains  []string `json:"domains,omitempty"`
	Pods     []string `json:"pods,omitempty"`
	Featured *bool    `json:"featured,omitempty"`
	Status   Status   `json:"status,omitempty"`

	UpdatedBy string `json:"updated_by"`
	UpdatedAt string `json:"updated_at"`
	Note      string `json:"note"`
}

// OverrideMeta is the provenance of an applied override, attached to the
// asset for audit display.
type OverrideMeta struct {
	UpdatedBy string `json:"updated_by"`
	UpdatedAt string `json:"updated_at"`
	Note      string `json:"note"`
}
