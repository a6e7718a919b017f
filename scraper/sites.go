package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// siteExtractor extracts the price from a retailer-specific structural
// marker, with the JSON-LD fallback shared by all retailers. Some sites
// keep their structured data fresher than their markup, so the order of
// the two attempts is configurable per site.
type siteExtractor struct {
	domain          string
	selector        string
	parse           func(text string) (float64, error)
	structuredFirst bool
}

func (e *siteExtractor) Domain() string { return e.domain }

func (e *siteExtractor) ExtractFromHTML(html string) Outcome {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Failed("parse html: " + err.Error())
	}

	if e.structuredFirst {
		if out := extractFromStructuredData(doc); out.IsFound() {
			return out
		}
		return e.extractFromSelector(doc)
	}

	if out := e.extractFromSelector(doc); out.IsFound() {
		return out
	}
	return extractFromStructuredData(doc)
}

func (e *siteExtractor) extractFromSelector(doc *goquery.Document) Outcome {
	text := strings.TrimSpace(doc.Find(e.selector).First().Text())
	if text == "" {
		return NotFound()
	}
	price, err := e.parse(text)
	if err != nil || price <= 0 {
		return NotFound()
	}
	return Found(price)
}

// parseEmagPrice handles emag's split markup, where the decimals sit in a
// <sup> so the concatenated text reads like "3999" or "3.999" for 39.99.
func parseEmagPrice(text string) (float64, error) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	value, err := ParsePriceText(digits.String())
	if err != nil {
		return 0, err
	}
	return value / 100, nil
}

func defaultExtractors() []HTMLExtractor {
	return []HTMLExtractor{
		&siteExtractor{
			domain:   "emag.ro",
			selector: "p.product-new-price",
			parse:    parseEmagPrice,
		},
		&siteExtractor{
			domain:          "carrefour.ro",
			selector:        "span.product-price",
			parse:           ParsePriceText,
			structuredFirst: true,
		},
		&siteExtractor{
			domain:          "mega-image.ro",
			selector:        "span.price",
			parse:           ParsePriceText,
			structuredFirst: true,
		},
		&siteExtractor{
			domain:          "auchan.ro",
			selector:        "span.product-price-value",
			parse:           ParsePriceText,
			structuredFirst: true,
		},
	}
}
