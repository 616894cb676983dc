package matcher

import (
	"sort"
	"strings"

	"github.com/tallerlink/pricebot/internal/models"
	"github.com/tallerlink/pricebot/internal/rules"
)

// keywordSearch is the dependency-free availability floor: it tokenizes the
// query, expands tokens through the bilingual synonym table, and scores each
// catalog item by how many tokens its text contains as a substring. Items
// with no hits are excluded; the rest sort by hit count descending with the
// catalog order as the tie-break.
func keywordSearch(items []*models.CatalogItem, query string, topK, minTokenLen int) []*models.MatchResult {
	if minTokenLen <= 0 {
		minTokenLen = 3
	}
	var tokens []string
	for _, tok := range strings.Fields(rules.Normalize(query)) {
		if len(tok) >= minTokenLen {
			tokens = append(tokens, tok)
		}
	}
	tokens = rules.ExpandTokens(tokens)
	if len(tokens) == 0 {
		return nil
	}

	results := make([]*models.MatchResult, 0, len(items))
	for _, it := range items {
		text := rules.Normalize(it.SearchableText())
		count := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				count++
			}
		}
		if count > 0 {
			results = append(results, &models.MatchResult{Item: it, Score: float64(count)})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
