package classify

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the per-asset-name manual configuration loaded from the
// metadata file. All lookups are keyed by lowercased dashboard name; it sits
// below the override store but above automatic inference in precedence.
type Metadata struct {
	// Featured keywords: an asset is featured when any of these is a
	// substring of its lowercased name.
	Featured []string

	NameDomains map[string][]string
	NameTags    map[string][]string
	NamePods    map[string][]string
	NameStatus  map[string]string
}

// metadataFile is the on-disk shape: human-entered groupings keyed by
// domain/tag/team/status, each listing dashboard names.
type metadataFile struct {
	Featured       []string            `yaml:"featured"`
	Domains        map[string][]string `yaml:"domains"`
	Tags           map[string][]string `yaml:"tags"`
	Teams          map[string][]string `yaml:"teams"`
	StatusOverride map[string][]string `yaml:"status_override"`
}

// EmptyMetadata returns a Metadata with no entries.
func EmptyMetadata() *Metadata {
	return &Metadata{
		NameDomains: map[string][]string{},
		NameTags:    map[string][]string{},
		NamePods:    map[string][]string{},
		NameStatus:  map[string]string{},
	}
}

// LoadMetadata reads the metadata file and inverts its groupings into
// name-keyed lookup maps. A missing file yields empty metadata, not an
// error; a malformed file is an error.
func LoadMetadata(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return EmptyMetadata(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}
	var f metadataFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse metadata file %s: %w", path, err)
	}

	m := EmptyMetadata()
	for _, kw := range f.Featured {
		m.Featured = append(m.Featured, strings.ToLower(kw))
	}
	m.NameDomains = invert(f.Domains)
	m.NameTags = invert(f.Tags)
	m.NamePods = invert(f.Teams)
	for _, status := range sortedKeys(f.StatusOverride) {
		for _, name := range f.StatusOverride[status] {
			m.NameStatus[strings.ToLower(name)] = status
		}
	}
	return m, nil
}

// invert turns group→names into lowercased name→groups. Groups are visited
// in sorted key order so a name listed under several groups always gets the
// same value order.
func invert(groups map[string][]string) map[string][]string {
	out := make(map[string][]string, len(groups))
	for _, group := range sortedKeys(groups) {
		for _, name := range groups[group] {
			key := strings.ToLower(name)
			out[key] = append(out[key], group)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
