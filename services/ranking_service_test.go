package services

import (
	"context"
	"testing"

	"pricescout/models"
	"pricescout/scraper"
)

// newSnippetRanking builds a pipeline whose resolver only uses free-text
// extraction, so tests run without any network fetches.
func newSnippetRanking(snippetFallback bool) *RankingService {
	resolver := scraper.NewOfferResolver(&scraper.Registry{}, scraper.ResolverOptions{
		PriceFloor:      0.8,
		SnippetFallback: snippetFallback,
	})
	return NewRankingService(resolver, RankingOptions{MaxPerStore: 3, TopN: 3})
}

func snippetResult(link, title, desc string) *models.SearchResult {
	return &models.SearchResult{Title: title, Link: link, Description: desc}
}

func TestRankSortsAscendingAndFilters(t *testing.T) {
	s := newSnippetRanking(true)
	results := []*models.SearchResult{
		snippetResult("https://shop-a.example/1", "Apa 2L", "Pret 9,99 Lei"),
		snippetResult("https://shop-b.example/2", "Apa 2L", "Pret 3,49 Lei"),
		snippetResult("https://shop-c.example/3", "Apa 2L", "indisponibil"),
		snippetResult("https://shop-d.example/4", "Apa 2L", "Pret 5,25 Lei"),
	}

	set := s.Rank(context.Background(), "apa 2l", results)

	if len(set.All) != 4 {
		t.Fatalf("All has %d entries, want 4", len(set.All))
	}
	if len(set.Top) != 3 {
		t.Fatalf("Top has %d entries, want 3", len(set.Top))
	}
	for _, r := range set.Top {
		if !r.HasPrice() {
			t.Fatalf("unpriced record %s leaked into the ranked view", r.Link)
		}
	}
	for i := 1; i < len(set.Top); i++ {
		if set.Top[i-1].GetPrice() > set.Top[i].GetPrice() {
			t.Errorf("ranked view out of order at %d: %v > %v",
				i, set.Top[i-1].GetPrice(), set.Top[i].GetPrice())
		}
	}
	if set.Top[0].GetPrice() != 3.49 {
		t.Errorf("cheapest = %v, want 3.49", set.Top[0].GetPrice())
	}
}

func TestRankStableOnTies(t *testing.T) {
	s := newSnippetRanking(true)
	results := []*models.SearchResult{
		snippetResult("https://first.example/a", "X", "4,99 Lei"),
		snippetResult("https://second.example/b", "X", "4,99 Lei"),
		snippetResult("https://third.example/c", "X", "4,99 Lei"),
	}

	set := s.Rank(context.Background(), "x", results)
	if len(set.Top) != 3 {
		t.Fatalf("Top has %d entries, want 3", len(set.Top))
	}
	wantOrder := []string{"https://first.example/a", "https://second.example/b", "https://third.example/c"}
	for i, want := range wantOrder {
		if set.Top[i].Link != want {
			t.Errorf("tie order broken at %d: got %s, want %s", i, set.Top[i].Link, want)
		}
	}
}

func TestRankEmptyBatch(t *testing.T) {
	s := newSnippetRanking(true)
	set := s.Rank(context.Background(), "nimic", nil)
	if len(set.Top) != 0 || len(set.All) != 0 {
		t.Errorf("empty batch produced non-empty set: %+v", set)
	}
}

func TestRankAllUnresolvableKeepsAll(t *testing.T) {
	// no snippet fallback and no known domains: every resolution yields
	// no price, Top is empty, All keeps content and order
	s := newSnippetRanking(false)
	results := []*models.SearchResult{
		snippetResult("https://a.example/1", "A", "1,99 Lei"),
		snippetResult("https://b.example/2", "B", "2,99 Lei"),
	}

	set := s.Rank(context.Background(), "q", results)
	if len(set.Top) != 0 {
		t.Fatalf("Top has %d entries, want 0", len(set.Top))
	}
	if len(set.All) != 2 || set.All[0].Link != "https://a.example/1" || set.All[1].Link != "https://b.example/2" {
		t.Errorf("All changed content or order: %+v", set.All)
	}
}

func TestRankRepeatable(t *testing.T) {
	s := newSnippetRanking(true)
	batch := func() []*models.SearchResult {
		return []*models.SearchResult{
			snippetResult("https://shop-a.example/1", "Apa 2L", "Pret 9,99 Lei"),
			snippetResult("https://shop-b.example/2", "Apa 2L", "Pret 3,49 Lei"),
			snippetResult("https://shop-c.example/3", "Apa 2L", "Pret 5,25 Lei"),
		}
	}

	first := s.Rank(context.Background(), "apa 2l", batch())
	second := s.Rank(context.Background(), "apa 2l", batch())

	if len(first.Top) != len(second.Top) {
		t.Fatalf("top sizes differ: %d vs %d", len(first.Top), len(second.Top))
	}
	for i := range first.Top {
		if first.Top[i].Link != second.Top[i].Link {
			t.Errorf("top order differs at %d: %s vs %s", i, first.Top[i].Link, second.Top[i].Link)
		}
		if first.Top[i].GetPrice() != second.Top[i].GetPrice() {
			t.Errorf("prices differ at %d: %v vs %v", i, first.Top[i].GetPrice(), second.Top[i].GetPrice())
		}
	}
}

func TestGroupByStoreNormalizesHost(t *testing.T) {
	s := newSnippetRanking(true)
	results := []*models.SearchResult{
		snippetResult("https://www.emag.ro/a", "Borsec", ""),
		snippetResult("https://emag.ro/b", "", ""),
	}

	groups := s.GroupByStore("borsec 2l", results)

	bucket, ok := groups.Groups["emag"]
	if !ok {
		t.Fatalf("missing emag group, got %v", groups.Order)
	}
	if len(bucket) != 2 {
		t.Fatalf("emag bucket has %d entries, want 2", len(bucket))
	}
	if len(groups.Groups) != 1 {
		t.Errorf("www and bare host split into %d groups", len(groups.Groups))
	}
	if bucket[1].Title != "unknown product" {
		t.Errorf("missing title not defaulted, got %q", bucket[1].Title)
	}
	if bucket[0].Store != "emag" {
		t.Errorf("store = %q, want emag", bucket[0].Store)
	}
	if bucket[0].SearchLink == "" {
		t.Error("search link not synthesized")
	}
}

func TestGroupByStoreCap(t *testing.T) {
	s := newSnippetRanking(true)
	var results []*models.SearchResult
	for i := 0; i < 5; i++ {
		results = append(results, snippetResult("https://emag.ro/p", "P", ""))
	}
	results = append(results, snippetResult("https://profi.ro/x", "X", ""))

	groups := s.GroupByStore("p", results)
	for store, bucket := range groups.Groups {
		if len(bucket) > 3 {
			t.Errorf("store %s holds %d entries, cap is 3", store, len(bucket))
		}
	}
	if len(groups.Groups["profi"]) != 1 {
		t.Errorf("profi bucket = %d, want 1", len(groups.Groups["profi"]))
	}
}

func TestGroupByStoreSkipsUnusableLinks(t *testing.T) {
	s := newSnippetRanking(true)
	groups := s.GroupByStore("q", []*models.SearchResult{
		snippetResult("not-a-url", "X", ""),
		snippetResult("", "Y", ""),
	})
	if len(groups.Groups) != 0 {
		t.Errorf("unusable links were grouped: %v", groups.Order)
	}
}

func TestRankGroupedBoundsPerStore(t *testing.T) {
	s := newSnippetRanking(true)
	var results []*models.SearchResult
	for i := 0; i < 5; i++ {
		results = append(results, snippetResult("https://shop.example/p", "P", "2,99 Lei"))
	}

	set := s.RankGrouped(context.Background(), "p", results)

	if len(set.Grouped["shop"]) != 3 {
		t.Errorf("grouped bucket = %d, want 3", len(set.Grouped["shop"]))
	}
	if len(set.All) != 5 {
		t.Errorf("All = %d, want the full original batch", len(set.All))
	}
	if len(set.Top) != 3 {
		t.Errorf("Top = %d, want 3", len(set.Top))
	}
}
