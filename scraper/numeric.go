package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches the first price-like number in a text fragment,
// covering both 1,234.56 and 1.234,56 style grouping.
var numberPattern = regexp.MustCompile(`[0-9]{1,6}(?:[.,][0-9]{3})*(?:[.,][0-9]{1,2})?`)

// ParsePriceText extracts the first numeric value from a price string such
// as "129,90 Lei", "1.234,56" or "$1,234.56". Both comma and dot are
// accepted as decimal separators; thousands separators are stripped.
func ParsePriceText(text string) (float64, error) {
	text = strings.TrimSpace(text)

	match := numberPattern.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("no numeric value in %q", text)
	}

	value, err := strconv.ParseFloat(normalizeNumber(match), 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable number %q in %q", match, text)
	}
	return value, nil
}

// normalizeNumber converts locale-specific separators to a plain decimal.
func normalizeNumber(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// European grouping: 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// US/UK grouping: 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			// Decimal comma: 129,90
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// Thousands commas: 1,234,567
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 {
			// Thousands dots: 1.234.567 or 3.999
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	return s
}
