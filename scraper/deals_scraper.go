package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pricescout/models"

	"github.com/PuerkitoBio/goquery"
)

const dealsURL = "https://www.kaufland.ro/oferte/actual.html"

// DealsScraper pulls the current offers off Kaufland's weekly deals page.
type DealsScraper struct {
	client *http.Client
}

// NewDealsScraper creates a deals scraper with a bounded fetch timeout.
func NewDealsScraper(timeout time.Duration) *DealsScraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DealsScraper{client: &http.Client{Timeout: timeout}}
}

// FetchDeals downloads and parses the offers page, returning at most limit
// deals.
func (s *DealsScraper) FetchDeals(ctx context.Context, limit int) ([]models.Deal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dealsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch deals: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch deals: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse deals page: %w", err)
	}
	return ParseDeals(doc, limit), nil
}

// ParseDeals extracts offer tiles from a parsed deals page. Tiles missing a
// title, price or image are skipped.
func ParseDeals(doc *goquery.Document, limit int) []models.Deal {
	var deals []models.Deal

	doc.Find(".kaufland_o-OfferTile__content").EachWithBreak(func(_ int, tile *goquery.Selection) bool {
		if limit > 0 && len(deals) >= limit {
			return false
		}

		title := trimText(tile.Find(".kaufland_o-OfferTile__title"))
		price := trimText(tile.Find(".kaufland_o-OfferTile__price"))
		image, _ := tile.Find("img").First().Attr("src")

		if title == "" || price == "" || image == "" {
			return true
		}

		deals = append(deals, models.Deal{
			Title:    title,
			Price:    price,
			ImageURL: image,
			Store:    "Kaufland",
		})
		return true
	})

	return deals
}

func trimText(s *goquery.Selection) string {
	return strings.TrimSpace(s.First().Text())
}
