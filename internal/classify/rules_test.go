package classify

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRules = `
domains:
  - General
  - Ads
  - Content

catch_all: General

project_domains:
  "AdOps Tools": Ads
  "Content Partnerships": Content
  "Casey Lee": null

keyword_rules:
  - keywords: ["adops", "yield"]
    domain: Ads
  - keywords: ["catalog", "title"]
    domain: Content

owner_display:
  jsmith@example.com: Jordan Smith

pods:
  - name: Ads
    slug: ads
    members: [jsmith@example.com, "Jordan Smith"]
  - name: Content
    slug: content
    members: [jsmith@example.com]
`

func TestLoadRules(t *testing.T) {
	r, err := LoadRules(writeTempFile(t, "rules.yaml", sampleRules))
	require.NoError(t, err)

	assert.Equal(t, "General", r.CatchAll)
	require.Contains(t, r.ProjectDomains, "AdOps Tools")
	assert.Equal(t, "Ads", *r.ProjectDomains["AdOps Tools"])

	// Null mapping survives the parse as a nil pointer.
	require.Contains(t, r.ProjectDomains, "Casey Lee")
	assert.Nil(t, r.ProjectDomains["Casey Lee"])

	// Reverse membership index preserves pod declaration order.
	assert.Equal(t, []string{"ads", "content"}, r.PodSlugsFor("jsmith@example.com"))
	assert.Equal(t, []string{"ads"}, r.PodSlugsFor("Jordan Smith"))
	assert.Nil(t, r.PodSlugsFor("nobody@example.com"))
}

func TestLoadRulesEmptyPathUsesDefaults(t *testing.T) {
	r, err := LoadRules("")
	require.NoError(t, err)
	assert.NotEmpty(t, r.KeywordRules)
	assert.Equal(t, "General", r.CatchAll)
}

func TestLoadRulesErrors(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "missing rules file is an error, not a silent fallback")

	_, err = LoadRules(writeTempFile(t, "empty.yaml", "domains: [General]"))
	assert.Error(t, err, "rules without any domain rules are rejected")
}

func TestPodSlugsForReturnsCopy(t *testing.T) {
	r, err := LoadRules(writeTempFile(t, "rules.yaml", sampleRules))
	require.NoError(t, err)

	first := r.PodSlugsFor("jsmith@example.com")
	first[0] = "mutated"
	assert.Equal(t, []string{"ads", "content"}, r.PodSlugsFor("jsmith@example.com"))
}
