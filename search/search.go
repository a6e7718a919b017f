// Package search talks to the general web search API that feeds the price
// pipeline with raw results.
package search

import (
	"context"

	"pricescout/logger"
	"pricescout/models"
)

// Searcher is the web search interface consumed by the pipeline. The site
// argument restricts the query to one retailer ("" searches everywhere).
type Searcher interface {
	Search(ctx context.Context, query, site string) ([]*models.SearchResult, error)
}

// Stores is the fixed set of retailer sites the app compares prices across.
var Stores = []string{
	"kaufland.ro",
	"emag.ro",
	"carrefour.ro",
	"auchan.ro",
	"mega-image.ro",
	"selgros.ro",
	"metro.ro",
	"penny.ro",
	"profi.ro",
}

// AllStores fans the query out over every known store. A store whose search
// fails is logged and skipped; the remaining stores still return.
func AllStores(ctx context.Context, s Searcher, query string) map[string][]*models.SearchResult {
	results := make(map[string][]*models.SearchResult, len(Stores))
	for _, site := range Stores {
		hits, err := s.Search(ctx, query, site)
		if err != nil {
			logger.Log.Warnf("search %s for %q: %v", site, query, err)
			continue
		}
		results[storeName(site)] = hits
	}
	return results
}

// storeName turns "mega-image.ro" into "mega-image".
func storeName(site string) string {
	for i := 0; i < len(site); i++ {
		if site[i] == '.' {
			return site[:i]
		}
	}
	return site
}
