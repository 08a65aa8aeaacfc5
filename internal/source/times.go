package source

import (
	"strings"
	"time"
)

// timestampLayouts are the formats seen across the source APIs. Layouts
// without a zone are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a timestamp in any of the known layouts to a UTC
// instant. It returns nil for empty or malformed values: a bad timestamp
// leaves the field unset, it never fails a fetch.
func ParseTimestamp(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}
