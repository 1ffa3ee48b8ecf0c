// Package matcher scores catalog products against a parsed product name
// and selects the best match above a confidence threshold.
package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/google/uuid"

	"duka/internal/domain"
	"duka/internal/port"
	"duka/internal/textnorm"
)

// Method tags how a match score was produced.
type Method string

const (
	MethodExact        Method = "exact"
	MethodTokenOverlap Method = "token-overlap"
	MethodEditDistance Method = "edit-distance"
	MethodNone         Method = "none"
)

// Result is the outcome of matching one name against the catalog.
// Candidate is nil when no product scored above the threshold; Score then
// still carries the best score seen, for diagnostics.
type Result struct {
	Query     string
	Candidate *domain.Product
	Score     float64
	Method    Method
}

// Relative weights of the token-overlap and edit-distance components of
// the composite score. An exact normalized match short-circuits at 1.0.
const (
	tokenWeight = 0.6
	editWeight  = 0.4
)

// Matcher resolves raw product names against a catalog. It is stateless
// apart from its correction tables and safe for concurrent use.
type Matcher struct {
	corrector *textnorm.Corrector
	threshold float64
}

// New creates a Matcher with the given corrector and acceptance threshold.
func New(corrector *textnorm.Corrector, threshold float64) *Matcher {
	return &Matcher{corrector: corrector, threshold: threshold}
}

// Match normalizes and typo-corrects rawName, retrieves candidates from
// the catalog, and returns the highest-scoring candidate at or above the
// threshold. Ties at the top score break by shortest product name, then
// lexical order. The only error case is catalog failure.
func (m *Matcher) Match(ctx context.Context, storeID uuid.UUID, rawName string, catalog port.Catalog) (Result, error) {
	query := m.corrector.CorrectPhrase(textnorm.Normalize(rawName))
	result := Result{Query: query, Method: MethodNone}
	if query == "" {
		return result, nil
	}

	candidates, err := catalog.Search(ctx, storeID, query)
	if err != nil {
		return result, fmt.Errorf("matcher.Match: %w", err)
	}
	if len(candidates) == 0 {
		return result, nil
	}

	type scored struct {
		product domain.Product
		score   float64
		method  Method
	}
	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		score, method := Score(query, &candidates[i])
		ranked = append(ranked, scored{product: candidates[i], score: score, method: method})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if len(ranked[i].product.Name) != len(ranked[j].product.Name) {
			return len(ranked[i].product.Name) < len(ranked[j].product.Name)
		}
		return ranked[i].product.Name < ranked[j].product.Name
	})

	best := ranked[0]
	result.Score = best.score
	result.Method = best.method
	if best.score >= m.threshold {
		p := best.product
		result.Candidate = &p
	}
	return result, nil
}

// Score computes the composite similarity of a normalized query against a
// catalog product. Exact normalized equality scores 1.0; otherwise the
// score blends token-set overlap (brand tokens included, substring
// containment folded in) with an inverse-edit-distance ratio.
func Score(query string, product *domain.Product) (float64, Method) {
	name := textnorm.Normalize(product.Name)
	if query == name {
		return 1.0, MethodExact
	}

	candTokens := textnorm.Tokens(product.Name)
	if product.Brand != "" {
		candTokens = append(candTokens, textnorm.Tokens(product.Brand)...)
	}
	tokenScore := overlapRatio(strings.Split(query, " "), candTokens)
	if r := containmentRatio(query, name); r > tokenScore {
		tokenScore = r
	}
	editScore := editRatio(query, name)

	score := tokenWeight*tokenScore + editWeight*editScore
	method := MethodTokenOverlap
	if editWeight*editScore > tokenWeight*tokenScore {
		method = MethodEditDistance
	}
	return score, method
}

// overlapRatio is the Jaccard ratio of the two token sets.
func overlapRatio(queryTokens, candTokens []string) float64 {
	qs := make(map[string]bool, len(queryTokens))
	for _, t := range queryTokens {
		if t != "" {
			qs[t] = true
		}
	}
	cs := make(map[string]bool, len(candTokens))
	for _, t := range candTokens {
		if t != "" {
			cs[t] = true
		}
	}
	if len(qs) == 0 || len(cs) == 0 {
		return 0
	}
	overlap := 0
	for t := range qs {
		if cs[t] {
			overlap++
		}
	}
	union := len(cs)
	for t := range qs {
		if !cs[t] {
			union++
		}
	}
	return float64(overlap) / float64(union)
}

// containmentRatio scores one normalized string containing the other by
// their length ratio.
func containmentRatio(query, name string) float64 {
	if query == "" || name == "" {
		return 0
	}
	if strings.Contains(name, query) {
		return float64(len(query)) / float64(len(name))
	}
	if strings.Contains(query, name) {
		return float64(len(name)) / float64(len(query))
	}
	return 0
}

// editRatio maps Levenshtein distance to [0,1], 1 meaning identical.
func editRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	d := matchr.Levenshtein(a, b)
	if d >= longest {
		return 0
	}
	return 1 - float64(d)/float64(longest)
}
