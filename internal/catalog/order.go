package catalog

import (
	"sort"
	"strings"
)

// statusRank orders statuses for presentation: active dashboards first,
// then stale, then those with no known update time.
var statusRank = map[Status]int{
	StatusActive:  0,
	StatusStale:   1,
	StatusUnknown: 2,
}

func rankOf(s Status) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return 2
}

// OrderAssets sorts assets in place into the final presentation order:
// status rank, featured first, then lowercased name ascending. The sort is
// stable so ties keep their prior relative order across runs.
func OrderAssets(assets []Asset) {
	sort.SliceStable(assets, func(i, j int) bool {
		a, b := &assets[i], &assets[j]
		if ra, rb := rankOf(a.Status), rankOf(b.Status); ra != rb {
			return ra < rb
		}
		if a.Featured != b.Featured {
			return a.Featured
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
