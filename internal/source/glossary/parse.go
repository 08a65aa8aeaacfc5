package glossary

import (
	"fmt"
	"path"
	"strings"

	"github.com/dsa-labs/dashcat/internal/catalog"
)

// Definition documents start with a `--` comment block. Lines of the form
// `-- key: value` set metadata (term, category, type, tags); the remaining
// comment lines are the prose definition. Everything after the comment
// block is the formula/body.
//
//	-- term: DAU
//	-- category: Engagement
//	-- tags: growth, certified
//	-- Count of distinct users with at least one playback event
//	-- on a given calendar day.
//	select count(distinct user_id) ...
var headerKeys = map[string]bool{
	"term":     true,
	"category": true,
	"type":     true,
	"tags":     true,
}

// ParseTerm parses one definition document. The filename provides the
// default term name (base name without extension). A document with no
// definition text is malformed.
func ParseTerm(filename, content string) (catalog.GlossaryTerm, error) {
	term := catalog.GlossaryTerm{
		Term:       strings.TrimSuffix(filename, path.Ext(filename)),
		Dashboards: []string{},
	}

	var defLines, bodyLines []string
	inHeader := true
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if inHeader && strings.HasPrefix(trimmed, "--") {
			comment := strings.TrimSpace(strings.TrimPrefix(trimmed, "--"))
			if key, value, ok := headerField(comment); ok {
				applyHeader(&term, key, value)
			} else if comment != "" {
				defLines = append(defLines, comment)
			}
			continue
		}
		inHeader = false
		bodyLines = append(bodyLines, line)
	}

	term.Definition = strings.Join(defLines, " ")
	term.Formula = strings.TrimSpace(strings.Join(bodyLines, "\n"))

	if term.Definition == "" {
		return catalog.GlossaryTerm{}, fmt.Errorf("no definition comment block in %s", filename)
	}

	if term.Type == "" {
		if term.Formula != "" {
			term.Type = "metric"
		} else {
			term.Type = "glossary"
		}
	}
	if term.Category == "" {
		if len(term.Tags) > 0 {
			term.Category = term.Tags[0]
		} else if term.Type == "metric" {
			term.Category = "Metric"
		} else {
			term.Category = "Glossary"
		}
	}
	return term, nil
}

// headerField splits a comment line into a known metadata key and value.
func headerField(comment string) (key, value string, ok bool) {
	k, v, found := strings.Cut(comment, ":")
	if !found {
		return "", "", false
	}
	k = strings.ToLower(strings.TrimSpace(k))
	if !headerKeys[k] {
		return "", "", false
	}
	return k, strings.TrimSpace(v), true
}

func applyHeader(term *catalog.GlossaryTerm, key, value string) {
	switch key {
	case "term":
		if value != "" {
			term.Term = value
		}
	case "category":
		term.Category = value
	case "type":
		term.Type = strings.ToLower(value)
	case "tags":
		for _, tag := range strings.Split(value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				term.Tags = append(term.Tags, tag)
			}
		}
	}
}
