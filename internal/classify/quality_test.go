package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsa-labs/dashcat/internal/catalog"
)

func TestComputeQuality(t *testing.T) {
	published := true
	unpublished := false

	tests := []struct {
		name  string
		asset catalog.Asset
		want  bool
	}{
		{"well-formed name", catalog.Asset{Name: "Q3 Revenue Overview"}, true},
		{"empty name", catalog.Asset{Name: ""}, false},
		{"whitespace name", catalog.Asset{Name: "   "}, false},
		{"placeholder test", catalog.Asset{Name: "test"}, false},
		{"placeholder Test uppercase", catalog.Asset{Name: "TEST"}, false},
		{"placeholder draft", catalog.Asset{Name: "Draft"}, false},
		{"placeholder temp", catalog.Asset{Name: "temp"}, false},
		{"placeholder untitled", catalog.Asset{Name: "Untitled"}, false},
		{"placeholder untitled dashboard", catalog.Asset{Name: "Untitled Dashboard"}, false},
		{"untitled prefix", catalog.Asset{Name: "Untitled 3"}, false},
		{"copy of prefix", catalog.Asset{Name: "Copy of Revenue"}, false},
		{"[test] prefix", catalog.Asset{Name: "[TEST] Revenue"}, false},
		{"[draft] prefix", catalog.Asset{Name: "[draft] Revenue"}, false},
		{"leading word test", catalog.Asset{Name: "Test dashboard for ads"}, false},
		{"trailing word test", catalog.Asset{Name: "Revenue test"}, false},
		{"test inside a word is fine", catalog.Asset{Name: "Latest Revenue"}, true},
		{"tmp exact", catalog.Asset{Name: "tmp"}, false},
		{"leading tmp", catalog.Asset{Name: "tmp revenue"}, false},
		{"trailing tmp", catalog.Asset{Name: "revenue tmp"}, false},
		{"unpublished preset", catalog.Asset{Name: "Fine Name", Tool: catalog.ToolPreset, Published: &unpublished}, false},
		{"published preset", catalog.Asset{Name: "Fine Name", Tool: catalog.ToolPreset, Published: &published}, true},
		{"unpublished flag ignored for tableau", catalog.Asset{Name: "Fine Name", Tool: catalog.ToolTableau, Published: &unpublished}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeQuality(&tt.asset))
		})
	}
}
