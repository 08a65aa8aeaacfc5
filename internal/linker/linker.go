// Package linker cross-references glossary terms against asset names and
// descriptions.
package linker

import (
	"strings"

	"github.com/dsa-labs/dashcat/internal/catalog"
)

// Link scans every term against every asset: a term links to an asset when
// the lowercased term is a substring of the asset's lowercased name or
// description. Both sides record the link: the term collects the asset
// name, the asset collects the term name.
//
// This is a full cross-product scan. At catalog scale (hundreds to low
// thousands of assets) that is cheaper than maintaining an index, and the
// substring-match semantics are the contract.
func Link(terms []catalog.GlossaryTerm, assets []catalog.Asset) {
	type key struct {
		name string
		desc string
	}
	lowered := make([]key, len(assets))
	for i := range assets {
		lowered[i] = key{
			name: strings.ToLower(assets[i].Name),
			desc: strings.ToLower(assets[i].Description),
		}
	}

	for ti := range terms {
		term := strings.ToLower(terms[ti].Term)
		if term == "" {
			continue
		}
		for ai := range assets {
			if strings.Contains(lowered[ai].name, term) || strings.Contains(lowered[ai].desc, term) {
				terms[ti].Dashboards = append(terms[ti].Dashboards, assets[ai].Name)
				assets[ai].RelatedTerms = append(assets[ai].RelatedTerms, terms[ti].Term)
			}
		}
	}
}
