// Package classify implements the enrichment engine: freshness status,
// domain inference, quality flagging, owner and team resolution, and the
// manual metadata/override precedence chain.
package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NonTeamSlug is the sentinel team assigned to assets whose owner is known
// but belongs to no configured pod.
const NonTeamSlug = "non-dsa"

// KeywordRule maps name keywords to a canonical domain. A rule fires when
// any of its keywords is a substring of the lowercased asset name; all
// firing rules contribute their domain.
type KeywordRule struct {
	Keywords []string `yaml:"keywords"`
	Domain   string   `yaml:"domain"`
}

// Pod is an owning organizational group with its member identifiers
// (emails or "First Last" strings, matching what the sources emit).
type Pod struct {
	Name    string   `yaml:"name" json:"name"`
	Slug    string   `yaml:"slug" json:"slug"`
	Members []string `yaml:"members" json:"members,omitempty"`
}

// Rules is the classification configuration: lookup tables applied by the
// enrichment engine. It is constructed once at startup and is immutable
// afterwards; the enricher never modifies it.
type Rules struct {
	// Domains is the canonical domain list, in fixed presentation order.
	Domains []string `yaml:"domains"`

	// CatchAll is assigned when no other domain rule matches.
	CatchAll string `yaml:"catch_all"`

	// ProjectDomains maps a source grouping identifier (Tableau project) to
	// a single canonical domain. A null value marks a personal/sandbox
	// project: the asset falls through to keyword matching instead.
	ProjectDomains map[string]*string `yaml:"project_domains"`

	// KeywordRules are evaluated in declaration order; de-duplication of
	// contributed domains preserves first-seen order.
	KeywordRules []KeywordRule `yaml:"keyword_rules"`

	// OwnerDisplay maps a raw owner identifier to a display name.
	OwnerDisplay map[string]string `yaml:"owner_display"`

	// Pods lists teams with their member identifiers.
	Pods []Pod `yaml:"pods"`

	// ownerSlugs is the derived reverse index: identifier → pod slugs,
	// in pod declaration order. Built once by finalize.
	ownerSlugs map[string][]string
}

// finalize builds the derived reverse membership index and fills defaults.
func (r *Rules) finalize() {
	if r.CatchAll == "" {
		r.CatchAll = "General"
	}
	r.ownerSlugs = make(map[string][]string)
	for _, pod := range r.Pods {
		for _, id := range pod.Members {
			r.ownerSlugs[id] = append(r.ownerSlugs[id], pod.Slug)
		}
	}
}

// PodSlugsFor returns the pod slugs the owner identifier belongs to, or nil.
// The returned slice is a copy.
func (r *Rules) PodSlugsFor(owner string) []string {
	slugs := r.ownerSlugs[owner]
	if len(slugs) == 0 {
		return nil
	}
	out := make([]string, len(slugs))
	copy(out, slugs)
	return out
}

// LoadRules reads a rules file, falling back to the built-in defaults when
// path is empty. A missing or unparseable file is an error: classification
// rules are authored deliberately and a silent fallback would misclassify
// everything.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var r Rules
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if len(r.KeywordRules) == 0 && len(r.ProjectDomains) == 0 {
		return nil, fmt.Errorf("rules file %s defines no domain rules", path)
	}
	r.finalize()
	return &r, nil
}

// DefaultRules returns the built-in classification tables. Owner display
// names, pod membership, and the project table are org-specific and come
// from a rules file; the defaults carry only the domain taxonomy and the
// keyword rules so a bare install still classifies sensibly.
func DefaultRules() *Rules {
	r := &Rules{
		Domains: []string{
			"General",
			"Core Experiences",
			"Viewer Growth",
			"Finance & BizOps",
			"Experimentation",
			"Ads",
			"DiscoAI",
			"Infra/Tools",
			"Content",
		},
		CatchAll: "General",
		KeywordRules: []KeywordRule{
			{Keywords: []string{"experiment", "a/b", "holdout", "treatment vs", "ab test", "control group"},
				Domain: "Experimentation"},
			{Keywords: []string{"adops", "ad ops", "ad monetiz", "ad account", "ad deactiv", "ad product",
				"yield", "programmatic", "avod", "ecpm", "fill rate", "impression",
				"advertis", "sales ops", "cpm"},
				Domain: "Ads"},
			{Keywords: []string{"discoai", "disco ai", "recommendation", "personali", "content ranking",
				"ml model", "algorithmic"},
				Domain: "DiscoAI"},
			{Keywords: []string{"fp&a", "month end", "revenue account", "content licensing",
				"rights management", "rightsline", "finance", "accounting",
				"bizops", "biz ops", "budget forecast"},
				Domain: "Finance & BizOps"},
			{Keywords: []string{"content catalog", "content partner", "title catalog", "show catalog",
				"content rights", "content licensing"},
				Domain: "Content"},
			{Keywords: []string{"viewer growth", "user growth", "user acquisition", "user retention",
				"churn", "new user", "signup", "registr",
				"dau", "mau", "wau", "daily active", "monthly active", "weekly active"},
				Domain: "Viewer Growth"},
			{Keywords: []string{"core experience", "playback", "video start", "buffering",
				"video player", "watch session"},
				Domain: "Core Experiences"},
			{Keywords: []string{"data quality", "data pipeline", "data infra", "data engineering",
				"dbt", "airflow", "etl", "infra monitor", "tooling", "admin tool"},
				Domain: "Infra/Tools"},
			{Keywords: []string{"certified kpi", "north star", "executive", "company kpi",
				"company overview"},
				Domain: "General"},
		},
	}
	r.finalize()
	return r
}
