// Package parser extracts structured line items from free-text sales
// messages like "2 bread @1.25, 1 milk for 2.50, mazoe raspberry".
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParsedLineItem is one parsed unit of a transaction: a quantity of a
// named product, optionally with a stated unit price. The price hint is
// advisory only; the catalog price is authoritative downstream.
type ParsedLineItem struct {
	Quantity      int      `json:"quantity"`
	RawName       string   `json:"raw_name"`
	UnitPriceHint *float64 `json:"unit_price_hint,omitempty"`
}

// PatternTag identifies which grammar variant matched a segment.
type PatternTag string

const (
	PatternQtyNameAtPrice     PatternTag = "qty-name-at-price"
	PatternQtyNameMarkerPrice PatternTag = "qty-name-marker-price"
	PatternQtyName            PatternTag = "qty-name"
	PatternNameAtPrice        PatternTag = "name-at-price"
	PatternNameMarkerPrice    PatternTag = "name-marker-price"
)

// linePattern is one tagged grammar variant: a pure segment -> item
// function. Variants are tried in fixed priority order; the first match
// wins and patterns are never combined or re-tried.
type linePattern struct {
	tag PatternTag
	re  *regexp.Regexp
	// build turns the regex groups into an item. Returns false when the
	// groups are syntactically valid but semantically rejected (qty < 1).
	build func(groups []string) (ParsedLineItem, bool)
}

// Product names are bounded runs of 1-5 word tokens; longer runs are
// rejected so a pattern cannot swallow unrelated text.
const nameRun = `((?:\w+\s*){1,5}?)`
const priceNum = `\$?\s*(\d+(?:\.\d{1,2})?)`

var patterns = []linePattern{
	{
		tag:   PatternQtyNameAtPrice,
		re:    regexp.MustCompile(`(?i)^(\d+)(?:\s*x\b)?\s*` + nameRun + `\s*@\s*` + priceNum + `$`),
		build: buildQtyNamePrice,
	},
	{
		tag:   PatternQtyNameMarkerPrice,
		re:    regexp.MustCompile(`(?i)^(\d+)(?:\s*x\b)?\s*` + nameRun + `\s+(?:by|for|at)\s+` + priceNum + `$`),
		build: buildQtyNamePrice,
	},
	{
		tag: PatternQtyName,
		re:  regexp.MustCompile(`(?i)^(\d+)(?:\s*x\b)?\s*((?:\w+\s*){1,5})$`),
		build: func(g []string) (ParsedLineItem, bool) {
			qty, err := strconv.Atoi(g[1])
			if err != nil || qty < 1 {
				return ParsedLineItem{}, false
			}
			return ParsedLineItem{Quantity: qty, RawName: strings.TrimSpace(g[2])}, true
		},
	},
	{
		tag: PatternNameAtPrice,
		re:  regexp.MustCompile(`(?i)^` + nameRun + `\s*@\s*` + priceNum + `$`),
		build: func(g []string) (ParsedLineItem, bool) {
			return buildNamePrice(g[1], g[2])
		},
	},
	{
		tag: PatternNameMarkerPrice,
		re:  regexp.MustCompile(`(?i)^` + nameRun + `\s+(?:by|for|at)\s+` + priceNum + `$`),
		build: func(g []string) (ParsedLineItem, bool) {
			return buildNamePrice(g[1], g[2])
		},
	},
}

func buildQtyNamePrice(g []string) (ParsedLineItem, bool) {
	qty, err := strconv.Atoi(g[1])
	if err != nil || qty < 1 {
		return ParsedLineItem{}, false
	}
	price, err := strconv.ParseFloat(g[3], 64)
	if err != nil {
		return ParsedLineItem{}, false
	}
	return ParsedLineItem{
		Quantity:      qty,
		RawName:       strings.TrimSpace(g[2]),
		UnitPriceHint: &price,
	}, true
}

func buildNamePrice(name, priceStr string) (ParsedLineItem, bool) {
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return ParsedLineItem{}, false
	}
	return ParsedLineItem{
		Quantity:      1,
		RawName:       strings.TrimSpace(name),
		UnitPriceHint: &price,
	}, true
}

// Leading sale verbs carry no item information and are stripped before
// segmentation ("I sold 2 bread" -> "2 bread").
var leadingVerbRe = regexp.MustCompile(`(?i)^\s*(?:(?:i|we|customer|client)\s+)?(?:sold|sell|sale of|bought|buy)\s+`)

// Segments split on commas and on the conjunction "and".
var conjunctionRe = regexp.MustCompile(`(?i)\s+and\s+`)

// ExtractLines scans a transaction message against the ordered pattern
// list, one comma/conjunction-delimited segment at a time. A segment that
// matches no pattern yields a warning instead of aborting the message;
// output preserves segment order.
func ExtractLines(message string) ([]ParsedLineItem, []string) {
	var items []ParsedLineItem
	var warnings []string

	cleaned := strings.ReplaceAll(message, "\n", ", ")
	cleaned = leadingVerbRe.ReplaceAllString(cleaned, "")

	for _, segment := range splitSegments(cleaned) {
		item, _, ok := MatchSegment(segment)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("could not parse segment: %q", segment))
			continue
		}
		items = append(items, item)
	}
	return items, warnings
}

// splitSegments breaks the cleaned message into candidate segments,
// dropping empties.
func splitSegments(message string) []string {
	var segments []string
	for _, part := range strings.Split(message, ",") {
		for _, seg := range conjunctionRe.Split(part, -1) {
			seg = strings.TrimSpace(seg)
			if seg != "" {
				segments = append(segments, seg)
			}
		}
	}
	return segments
}

// MatchSegment tries each pattern in priority order; first match wins.
func MatchSegment(segment string) (ParsedLineItem, PatternTag, bool) {
	for _, p := range patterns {
		groups := p.re.FindStringSubmatch(segment)
		if groups == nil {
			continue
		}
		item, ok := p.build(groups)
		if !ok {
			continue
		}
		return item, p.tag, true
	}
	return ParsedLineItem{}, "", false
}
