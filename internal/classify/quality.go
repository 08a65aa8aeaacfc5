package classify

import (
	"strings"

	"github.com/dsa-labs/dashcat/internal/catalog"
)

// Placeholder names and junk prefixes that mark a dashboard as low quality.
var (
	badNameExact = map[string]bool{
		"test":               true,
		"draft":              true,
		"temp":               true,
		"untitled":           true,
		"untitled dashboard": true,
	}
	badNamePrefixes = []string{"untitled", "copy of ", "[test]", "[draft]"}
)

// computeQuality reports whether an asset looks like a real dashboard rather
// than a scratch or placeholder one. Unpublished Preset dashboards are
// low quality regardless of name.
func computeQuality(a *catalog.Asset) bool {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return false
	}
	n := strings.ToLower(name)
	if badNameExact[n] {
		return false
	}
	for _, p := range badNamePrefixes {
		if strings.HasPrefix(n, p) {
			return false
		}
	}
	if strings.HasPrefix(n, "test ") || strings.HasSuffix(n, " test") {
		return false
	}
	if n == "tmp" || strings.HasPrefix(n, "tmp ") || strings.HasSuffix(n, " tmp") {
		return false
	}
	if a.Tool == catalog.ToolPreset && a.Published != nil && !*a.Published {
		return false
	}
	return true
}
