// Package config loads CLI configuration from dashcat.yaml, environment
// variables, and flags.
package config

import (
	"fmt"

	"github.com/dsa-labs/dashcat/internal/source"
)

// Defaults.
const (
	DefaultProjectName = "Dashboard Catalog"
	DefaultOutputDir   = "site"
	DefaultServeAddr   = ":8765"
	DefaultOutput      = "text"
)

// Config holds all CLI configuration options.
type Config struct {
	ProjectName string `koanf:"project_name"`
	OutputDir   string `koanf:"output_dir"`

	// Classification inputs. Empty paths mean built-in rules and no
	// metadata/overrides.
	RulesPath     string `koanf:"rules_path"`
	MetadataPath  string `koanf:"metadata_path"`
	OverridesPath string `koanf:"overrides_path"`

	ServeAddr string `koanf:"serve_addr"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// Sources maps source name to its credential keys, e.g.
	// sources.tableau.token_value. A source with no entry is disabled.
	Sources map[string]map[string]string `koanf:"sources"`
}

// Credentials flattens the per-source credential sections into the flat
// key space the adapter factories read: sources.tableau.server_url becomes
// tableau_server_url.
func (c *Config) Credentials() source.Credentials {
	creds := make(source.Credentials)
	for name, section := range c.Sources {
		for key, value := range section {
			creds[fmt.Sprintf("%s_%s", name, key)] = value
		}
	}
	return creds
}

// WatchPaths lists the classification input files worth watching in serve
// mode. Empty paths are dropped.
func (c *Config) WatchPaths() []string {
	var paths []string
	for _, p := range []string{c.RulesPath, c.MetadataPath, c.OverridesPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
