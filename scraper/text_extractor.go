package scraper

import (
	"regexp"
	"strings"
	"unicode"
)

// textPricePattern matches numbers shaped like a retail price: up to four
// integer digits, a decimal separator and one or two decimals. Standalone
// integers are deliberately excluded so quantities ("2 ani", "500 g") are
// never mistaken for prices.
var textPricePattern = regexp.MustCompile(`[0-9]{1,4}[.,][0-9]{1,2}`)

// warrantyTerms mark fragments that talk about warranty periods rather than
// the product price ("garanție 2 ani" and friends).
var warrantyTerms = []string{"garant", "warranty", "guarantee"}

// TextExtractor pulls a price out of unstructured text, the title+snippet
// material available when no full page was fetched.
type TextExtractor struct {
	floor float64
}

// NewTextExtractor creates a free-text extractor. Candidates below the
// plausibility floor are discarded as stray small numbers.
func NewTextExtractor(floor float64) *TextExtractor {
	return &TextExtractor{floor: floor}
}

// Extract scans the text for price-like numbers and returns the smallest
// plausible candidate. Search snippets usually hold several numbers (list
// price, shipping, unit price); the lowest plausible one is the best proxy
// for the product price. Known limitation: multi-pack pricing and
// crossed-out list prices can still pull the result toward the wrong
// number.
func (e *TextExtractor) Extract(text string) Outcome {
	best := 0.0
	found := false

	for _, fragment := range splitFragments(text) {
		if mentionsWarranty(fragment) {
			continue
		}
		for _, match := range textPricePattern.FindAllString(fragment, -1) {
			value, err := ParsePriceText(match)
			if err != nil {
				continue
			}
			if value < e.floor {
				continue
			}
			if !found || value < best {
				best = value
				found = true
			}
		}
	}

	if !found {
		return NotFound()
	}
	return Found(best)
}

// splitFragments breaks text on commas and semicolons, except for commas
// acting as decimal separators between digits.
func splitFragments(text string) []string {
	var fragments []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		if r == ';' || r == ',' {
			decimalComma := r == ',' &&
				i > 0 && unicode.IsDigit(runes[i-1]) &&
				i+1 < len(runes) && unicode.IsDigit(runes[i+1])
			if !decimalComma {
				fragments = append(fragments, current.String())
				current.Reset()
				continue
			}
		}
		current.WriteRune(r)
	}
	fragments = append(fragments, current.String())
	return fragments
}

func mentionsWarranty(fragment string) bool {
	fragment = strings.ToLower(fragment)
	for _, term := range warrantyTerms {
		if strings.Contains(fragment, term) {
			return true
		}
	}
	return false
}
