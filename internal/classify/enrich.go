package classify

import (
	"strings"
	"time"

	"github.com/dsa-labs/dashcat/internal/catalog"
)

// staleAfter is how long an asset may go without an update before it is
// classified stale.
const staleAfter = 30 * 24 * time.Hour

// Enricher applies the classification stages to merged assets. It holds
// read-only configuration; Enrich mutates only the assets handed to it, so
// re-running on the same input always produces the same output.
type Enricher struct {
	rules     *Rules
	meta      *Metadata
	overrides Overrides
	now       func() time.Time
}

// NewEnricher builds an enricher from the loaded configuration. Nil metadata
// or overrides are treated as empty.
func NewEnricher(rules *Rules, meta *Metadata, overrides Overrides) *Enricher {
	if meta == nil {
		meta = EmptyMetadata()
	}
	if overrides == nil {
		overrides = Overrides{}
	}
	return &Enricher{rules: rules, meta: meta, overrides: overrides, now: time.Now}
}

// Enrich runs the full classification pass over every asset, in place.
func (e *Enricher) Enrich(assets []catalog.Asset) {
	now := e.now().UTC()
	for i := range assets {
		e.enrichOne(&assets[i], now)
	}
}

// enrichOne applies the stages in fixed order; later stages override
// earlier ones, with the manual override store last.
func (e *Enricher) enrichOne(a *catalog.Asset, now time.Time) {
	nameLower := strings.ToLower(a.Name)

	a.Status = e.computeStatus(a, now)
	a.Domains = e.inferDomains(a, nameLower)
	a.Tags = e.meta.NameTags[nameLower]
	a.Quality = computeQuality(a)
	a.OwnerDisplay = e.ownerDisplay(a.Owner)
	a.PodSlugs = e.podSlugs(a.Owner, nameLower)
	a.RelatedTerms = nil
	a.OverrideMeta = nil

	// Manual status/visibility from the metadata file. "hidden" is a
	// visibility knob, not a status: it demotes quality instead.
	switch status := catalog.Status(e.meta.NameStatus[nameLower]); status {
	case catalog.StatusHidden:
		a.Quality = false
	case catalog.StatusActive, catalog.StatusStale, catalog.StatusUnknown:
		a.Status = status
	}

	a.Featured = e.isFeatured(nameLower)

	e.applyOverride(a)
}

func (e *Enricher) computeStatus(a *catalog.Asset, now time.Time) catalog.Status {
	if a.UpdatedAt == nil {
		return catalog.StatusUnknown
	}
	if now.Sub(*a.UpdatedAt) <= staleAfter {
		return catalog.StatusActive
	}
	return catalog.StatusStale
}

// inferDomains resolves the asset's domains through the precedence chain:
// manual per-name configuration, source grouping (project) mapping, keyword
// rules, then the catch-all.
func (e *Enricher) inferDomains(a *catalog.Asset, nameLower string) []string {
	if manual, ok := e.meta.NameDomains[nameLower]; ok && len(manual) > 0 {
		out := make([]string, len(manual))
		copy(out, manual)
		return out
	}

	if a.Project != "" {
		if mapped, ok := e.rules.ProjectDomains[a.Project]; ok && mapped != nil {
			return []string{*mapped}
		}
		// A null mapping marks a personal/sandbox project: fall through
		// to keyword matching.
	}

	// Every firing rule contributes; dedupe preserving rule declaration
	// order so the output is independent of map iteration.
	var domains []string
	seen := make(map[string]bool)
	for _, rule := range e.rules.KeywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(nameLower, kw) {
				if !seen[rule.Domain] {
					seen[rule.Domain] = true
					domains = append(domains, rule.Domain)
				}
				break
			}
		}
	}
	if len(domains) == 0 {
		domains = []string{e.rules.CatchAll}
	}
	return domains
}

// ownerDisplay resolves the raw owner identifier to a human name: the
// display table first, then the identifier itself when it is not an email,
// then the email local part.
func (e *Enricher) ownerDisplay(owner string) string {
	if owner == "" {
		return ""
	}
	if display, ok := e.rules.OwnerDisplay[owner]; ok {
		return display
	}
	at := strings.Index(owner, "@")
	if at < 0 {
		return owner
	}
	return owner[:at]
}

// podSlugs assigns owning teams: manual per-name configuration wins, then
// the reverse membership index; a known but unmapped owner gets the
// non-team sentinel, and an absent owner gets no team.
func (e *Enricher) podSlugs(owner, nameLower string) []string {
	if pods, ok := e.meta.NamePods[nameLower]; ok {
		out := make([]string, len(pods))
		copy(out, pods)
		return out
	}
	if owner == "" {
		return nil
	}
	if slugs := e.rules.PodSlugsFor(owner); slugs != nil {
		return slugs
	}
	return []string{NonTeamSlug}
}

func (e *Enricher) isFeatured(nameLower string) bool {
	for _, kw := range e.meta.Featured {
		if strings.Contains(nameLower, kw) {
			return true
		}
	}
	return false
}

// applyOverride applies the manual override store, the highest-precedence
// stage. Set fields replace the computed values entirely; provenance is
// attached whenever an override matched, even if it changed nothing.
func (e *Enricher) applyOverride(a *catalog.Asset) {
	ov, ok := e.overrides.Lookup(a.URL, a.Name)
	if !ok {
		return
	}

	if len(ov.Domains) > 0 {
		a.Domains = append([]string(nil), ov.Domains...)
	}
	if len(ov.Pods) > 0 {
		a.PodSlugs = append([]string(nil), ov.Pods...)
	}
	if ov.Featured != nil {
		a.Featured = *ov.Featured
	}
	switch ov.Status {
	case catalog.StatusHidden:
		a.Quality = false
	case catalog.StatusActive, catalog.StatusStale, catalog.StatusUnknown:
		a.Status = ov.Status
	}
	a.OverrideMeta = &catalog.OverrideMeta{
		UpdatedBy: ov.UpdatedBy,
		UpdatedAt: ov.UpdatedAt,
		Note:      ov.Note,
	}
}
