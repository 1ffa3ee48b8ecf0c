package textnorm

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Corrector rewrites misspelled tokens to canonical product/brand tokens.
// It consults an explicit correction table first, then falls back to an
// edit-distance search over the canonical vocabulary. Immutable after
// construction and safe for concurrent use.
type Corrector struct {
	table map[string]string
	vocab map[string]bool
	// vocabList keeps deterministic iteration order for tie-breaking.
	vocabList []string
}

// DefaultCorrections returns the built-in misspelling table. Keys are
// lowercase tokens as customers actually type them.
func DefaultCorrections() map[string]string {
	return map[string]string{
		"ruspburry": "raspberry",
		"rasberry":  "raspberry",
		"razberry":  "raspberry",
		"orang":     "orange",
		"ornge":     "orange",
		"cocacola":  "coca cola",
		"coke":      "coca cola",
		"bred":      "bread",
		"mlik":      "milk",
		"mellk":     "milk",
		"shugar":    "sugar",
		"suger":     "sugar",
		"mahewu":    "maheu",
	}
}

// DefaultVocabulary returns the canonical high-frequency brand and product
// tokens used by the edit-distance fallback.
func DefaultVocabulary() []string {
	return []string{
		"bread", "milk", "sugar", "maheu", "juice", "orange", "raspberry",
		"crush", "rice", "flour", "salt", "eggs", "butter", "margarine",
		"cooking", "oil", "soap", "tea", "coffee",
		"mazoe", "huletts", "lobels", "olivine", "tanganda", "dairibord",
		"coca", "cola", "fanta", "sprite",
	}
}

// NewCorrector builds a Corrector from a correction table and a canonical
// vocabulary. Both are treated as data; callers may pass versions of
// their own.
func NewCorrector(table map[string]string, vocab []string) *Corrector {
	t := make(map[string]string, len(table))
	for k, v := range table {
		t[strings.ToLower(k)] = strings.ToLower(v)
	}
	set := make(map[string]bool, len(vocab))
	list := make([]string, 0, len(vocab))
	for _, w := range vocab {
		w = strings.ToLower(w)
		if !set[w] {
			set[w] = true
			list = append(list, w)
		}
	}
	return &Corrector{table: t, vocab: set, vocabList: list}
}

// NewDefaultCorrector builds a Corrector with the built-in table and
// vocabulary.
func NewDefaultCorrector() *Corrector {
	return NewCorrector(DefaultCorrections(), DefaultVocabulary())
}

// maxDistance scales the accepted edit distance with token length:
// short tokens tolerate a single edit, longer ones two.
func maxDistance(token string) int {
	if len(token) <= 5 {
		return 1
	}
	return 2
}

// Correct rewrites a single token to its canonical form. Unknown tokens
// pass through unchanged, and correcting an already-canonical token is a
// no-op, so Correct(Correct(x)) == Correct(x) for all x.
func (c *Corrector) Correct(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return t
	}
	if canonical, ok := c.table[t]; ok {
		return canonical
	}
	if c.vocab[t] {
		return t
	}

	best := ""
	bestDist := maxDistance(t) + 1
	for _, w := range c.vocabList {
		d := matchr.Levenshtein(t, w)
		if d < bestDist {
			bestDist = d
			best = w
		}
	}
	if best != "" && bestDist <= maxDistance(t) {
		return best
	}
	return t
}

// CorrectPhrase corrects each whitespace-separated token of a phrase.
func (c *Corrector) CorrectPhrase(phrase string) string {
	fields := strings.Fields(phrase)
	if len(fields) == 0 {
		return strings.TrimSpace(phrase)
	}
	for i, f := range fields {
		fields[i] = c.Correct(f)
	}
	return strings.Join(fields, " ")
}
