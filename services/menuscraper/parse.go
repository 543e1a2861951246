package menuscraper

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Markers the source site uses inside a day card. Matched
// case-insensitively against the card's full text.
const (
	closedMarker = "zavřeno"
	emptyMarker  = "nebylo zadáno"
)

var (
	// priceRegex captures the first run of digits immediately preceding a
	// currency marker.
	priceRegex = regexp.MustCompile(`(\d+)\s*(?:Kč|,-)`)

	// allergenRegex captures a trailing parenthesized run of digits
	// separated by commas and spaces at the end of an item label.
	allergenRegex = regexp.MustCompile(`\(\s*(\d+(?:[\s,]+\d+)*)\s*\)\s*$`)

	// ordinalRegex captures the leading "N. " meal number prefix.
	ordinalRegex = regexp.MustCompile(`^(\d+)\.\s*`)

	allergenSplit = regexp.MustCompile(`[\s,]+`)
)

// ParsePrice extracts the integer price from a price cell. The second
// return value reports whether a parseable price was found; items without
// one are discarded by the caller.
func ParsePrice(text string) (int, bool) {
	match := priceRegex.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	price, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return price, true
}

// ParseAllergens strips a trailing parenthesized allergen list from an
// item label and returns the cleaned label plus the deduplicated codes in
// ascending order. Labels without a list come back unchanged with a nil
// set.
func ParseAllergens(label string) (string, []int) {
	match := allergenRegex.FindStringSubmatchIndex(label)
	if match == nil {
		return strings.TrimSpace(label), nil
	}

	raw := label[match[2]:match[3]]
	seen := map[int]bool{}
	var codes []int
	for _, tok := range allergenSplit.Split(raw, -1) {
		if tok == "" {
			continue
		}
		code, err := strconv.Atoi(tok)
		if err != nil || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	sort.Ints(codes)

	return strings.TrimSpace(label[:match[0]]), codes
}

// ParseOrdinal strips a leading "N. " meal number from an
// already-allergen-stripped label. The boolean reports whether a number
// was present. Soups never go through this.
func ParseOrdinal(label string) (string, int, bool) {
	match := ordinalRegex.FindStringSubmatch(label)
	if match == nil {
		return label, 0, false
	}
	number, err := strconv.Atoi(match[1])
	if err != nil {
		return label, 0, false
	}
	return strings.TrimSpace(strings.TrimPrefix(label, match[0])), number, true
}

// containsFold reports whether text contains the marker ignoring case.
func containsFold(text, marker string) bool {
	return strings.Contains(strings.ToLower(text), marker)
}
