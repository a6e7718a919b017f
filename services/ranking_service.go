package services

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"pricescout/logger"
	"pricescout/models"
	"pricescout/scraper"
)

// placeholderTitle is used for results the search engine returned without one.
const placeholderTitle = "unknown product"

// RankingOptions bound the pipeline's output.
type RankingOptions struct {
	MaxPerStore int // cap per store bucket when grouping
	TopN        int // size of the ranked top view
}

// RankingService composes the offer resolver over a search result batch:
// it attaches prices, drops unresolvable entries from the ranked view and
// orders the rest by ascending price. It holds no state across calls.
type RankingService struct {
	resolver *scraper.OfferResolver
	opts     RankingOptions
}

// NewRankingService creates the ranking pipeline.
func NewRankingService(resolver *scraper.OfferResolver, opts RankingOptions) *RankingService {
	if opts.MaxPerStore <= 0 {
		opts.MaxPerStore = 3
	}
	if opts.TopN <= 0 {
		opts.TopN = 3
	}
	return &RankingService{resolver: resolver, opts: opts}
}

// Rank resolves a price for every result and returns the ranked set. The
// Top view holds only priced results sorted ascending (ties keep the search
// engine's order); All keeps every input record in its original order so
// callers can fall back to an unranked display when nothing resolved. An
// empty batch yields an empty set.
func (s *RankingService) Rank(ctx context.Context, query string, results []*models.SearchResult) *models.RankedResultSet {
	for _, result := range results {
		outcome := s.resolver.Resolve(ctx, result)
		switch outcome.Status {
		case scraper.StatusFound:
			result.SetPrice(outcome.Price)
		case scraper.StatusFailed:
			logger.Log.Debugf("resolve %s: %s", result.Link, outcome.Reason)
		}
	}

	ranked := make([]*models.SearchResult, 0, len(results))
	for _, result := range results {
		if result.HasPrice() {
			ranked = append(ranked, result)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].GetPrice() < ranked[j].GetPrice()
	})

	if len(ranked) > s.opts.TopN {
		ranked = ranked[:s.opts.TopN]
	}

	return &models.RankedResultSet{
		Query: query,
		Top:   ranked,
		All:   results,
	}
}

// GroupByStore partitions results by normalized store identity, keeping at
// most MaxPerStore entries per store in insertion order. No price selection
// happens here; grouping may run before any price extraction. Each kept
// record gets its Store, a default Title when absent, and a SearchLink deep
// link back to the search engine scoped to its store.
func (s *RankingService) GroupByStore(query string, results []*models.SearchResult) *models.StoreGroups {
	groups := models.NewStoreGroups()

	for _, result := range results {
		store := result.StoreKey()
		if store == "" {
			// no usable host, nothing to group under
			continue
		}

		result.Store = store
		if result.Title == "" {
			result.Title = placeholderTitle
		}
		result.SearchLink = storeSearchLink(query, result)

		groups.Add(store, result, s.opts.MaxPerStore)
	}

	return groups
}

// RankGrouped runs grouping and ranking together: the Grouped view keeps
// the per-store buckets, and Top is the flattened bounded view over them.
func (s *RankingService) RankGrouped(ctx context.Context, query string, results []*models.SearchResult) *models.RankedResultSet {
	groups := s.GroupByStore(query, results)
	set := s.Rank(ctx, query, groups.Flatten(0))
	set.All = results
	set.Grouped = groups.Groups
	return set
}

// storeSearchLink builds the "query site:<host>" deep link for a result.
func storeSearchLink(query string, result *models.SearchResult) string {
	host := strings.TrimPrefix(result.Host(), "www.")
	q := url.QueryEscape(query + " site:" + host)
	return "https://www.google.com/search?q=" + q
}
