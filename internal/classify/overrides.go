package classify

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/dsa-labs/dashcat/internal/catalog"
)

// Overrides is the manual override store, keyed by asset URL (preferred)
// or asset name. It is authored externally and read once per run.
type Overrides map[string]catalog.Override

// LoadOverrides reads the override store. A missing file yields an empty
// store; an unreadable or malformed file is logged as a warning and also
// yields an empty store — overrides are a correction layer, never a reason
// to abort a run.
func LoadOverrides(path string, logger *slog.Logger) Overrides {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Overrides{}
	}
	if err != nil {
		logger.Warn("override store unreadable", "path", path, "error", err)
		return Overrides{}
	}
	var ov Overrides
	if err := json.Unmarshal(raw, &ov); err != nil {
		logger.Warn("override store malformed", "path", path, "error", err)
		return Overrides{}
	}
	return ov
}

// Lookup finds the override for an asset: by exact URL, then exact name,
// then lowercased name, first hit wins.
func (o Overrides) Lookup(url, name string) (catalog.Override, bool) {
	if url != "" {
		if ov, ok := o[url]; ok {
			return ov, true
		}
	}
	if ov, ok := o[name]; ok {
		return ov, true
	}
	ov, ok := o[strings.ToLower(name)]
	return ov, ok
}
