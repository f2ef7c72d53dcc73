// Package matchscore ranks catalog hits against generated queries and
// selects the single most confident match for an installed file.
package matchscore

import (
	"strings"

	"lodestone/internal/catalog"
	"lodestone/internal/querygen"
)

// Score values for the recognized match shapes, strongest first.
const (
	scoreSlugExact      = 100
	scoreTitleExact     = 95
	scoreSlugCompact    = 92
	scoreTitleCompact   = 90
	scoreSlugPrefix     = 84
	scoreTitlePrefix    = 80
	scoreFullCoverage   = 74
	scoreMostCoverage   = 62
	scoreSubstring      = 45
	minTokenLength      = 2
	substringTokenFloor = 5
)

// Acceptance thresholds by winning-query shape. A single-token query
// is too ambiguous to accept on partial evidence.
const (
	thresholdSingleToken = 90
	thresholdMultiToken  = 62
)

// Selection records the winning hit and how it won.
type Selection struct {
	Hit   catalog.Hit
	Query string
	Score int
}

// Score rates one query against one hit. Both slug and title are
// normalized before comparison; zero means no recognized match shape.
func Score(query string, hit catalog.Hit) int {
	query = querygen.Normalize(query)
	if query == "" {
		return 0
	}
	slug := querygen.Normalize(hit.Slug)
	title := querygen.Normalize(hit.Title)
	compactQuery := querygen.Compact(query)

	switch {
	case slug != "" && slug == query:
		return scoreSlugExact
	case title != "" && title == query:
		return scoreTitleExact
	case slug != "" && querygen.Compact(slug) == compactQuery:
		return scoreSlugCompact
	case title != "" && querygen.Compact(title) == compactQuery:
		return scoreTitleCompact
	case slug != "" && strings.HasPrefix(slug, query+"-"):
		return scoreSlugPrefix
	case title != "" && strings.HasPrefix(title, query+"-"):
		return scoreTitlePrefix
	}

	tokens := queryTokens(query)
	if len(tokens) >= 2 {
		covered := fieldCoverage(tokens, slug)
		if titleCovered := fieldCoverage(tokens, title); titleCovered > covered {
			covered = titleCovered
		}
		switch {
		case covered == len(tokens):
			return scoreFullCoverage
		case float64(covered) >= 0.75*float64(len(tokens)):
			return scoreMostCoverage
		}
		return 0
	}

	if len(query) >= substringTokenFloor &&
		(strings.Contains(slug, query) || strings.Contains(title, query)) {
		return scoreSubstring
	}
	return 0
}

// SelectBest evaluates every query against every hit and returns the
// globally best pairing, or ok=false when nothing clears the
// acceptance bar. Evaluation order is fixed so identical inputs always
// produce the identical winner.
func SelectBest(queries []string, hits []catalog.Hit) (Selection, bool) {
	var best Selection
	for _, query := range queries {
		for _, hit := range hits {
			if score := Score(query, hit); score > best.Score {
				best = Selection{Hit: hit, Query: query, Score: score}
			}
		}
	}
	if best.Score == 0 {
		return Selection{}, false
	}
	threshold := thresholdMultiToken
	if len(queryTokens(querygen.Normalize(best.Query))) <= 1 {
		threshold = thresholdSingleToken
	}
	if best.Score < threshold {
		return Selection{}, false
	}
	return best, true
}

// queryTokens splits a normalized query, keeping only tokens long
// enough to carry meaning on their own.
func queryTokens(query string) []string {
	parts := strings.Split(query, "-")
	tokens := parts[:0]
	for _, part := range parts {
		if len(part) >= minTokenLength {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// fieldCoverage counts how many tokens a single field contains. Coverage
// is judged per field; tokens split across slug and title do not add up.
func fieldCoverage(tokens []string, field string) int {
	covered := 0
	for _, token := range tokens {
		if strings.Contains(field, token) {
			covered++
		}
	}
	return covered
}
