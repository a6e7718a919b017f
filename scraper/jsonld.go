package scraper

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// extractFromStructuredData scans the page's JSON-LD blocks for an
// offers.price value. Most e-commerce product pages carry one even when the
// visible markup changes, which makes this the shared fallback for every
// retailer extractor. Malformed blocks are skipped.
func extractFromStructuredData(doc *goquery.Document) Outcome {
	out := NotFound()
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := s.Text()
		if !gjson.Valid(raw) {
			return true
		}

		price := gjson.Get(raw, "offers.price")
		if !price.Exists() {
			// offers can also be a list of offer objects
			price = gjson.Get(raw, "offers.0.price")
		}
		if !price.Exists() {
			return true
		}

		if value, err := ParsePriceText(price.String()); err == nil && value > 0 {
			out = Found(value)
			return false
		}
		return true
	})
	return out
}
