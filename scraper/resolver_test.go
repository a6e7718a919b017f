package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"pricescout/models"
)

// hostExtractor matches a test server's host and parses any price text in
// the body's price node.
type hostExtractor struct {
	host string
}

func (e *hostExtractor) Domain() string { return e.host }

func (e *hostExtractor) ExtractFromHTML(html string) Outcome {
	price, err := ParsePriceText(html)
	if err != nil {
		return NotFound()
	}
	return Found(price)
}

func testResolver(t *testing.T, serverURL string, opts ResolverOptions) *OfferResolver {
	t.Helper()
	registry := &Registry{}
	if serverURL != "" {
		u, err := url.Parse(serverURL)
		if err != nil {
			t.Fatal(err)
		}
		registry.Register(&hostExtractor{host: u.Host})
	}
	return NewOfferResolver(registry, opts)
}

func TestResolveFetchesKnownDomain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("24,90 Lei"))
	}))
	defer server.Close()

	r := testResolver(t, server.URL, ResolverOptions{FetchTimeout: 2 * time.Second})
	out := r.Resolve(context.Background(), &models.SearchResult{Link: server.URL + "/produs"})

	if !out.IsFound() {
		t.Fatalf("expected price, got status %v (%s)", out.Status, out.Reason)
	}
	if out.Price != 24.90 {
		t.Errorf("price = %v, want 24.90", out.Price)
	}
}

func TestResolveNon2xxDegradesToNoPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	r := testResolver(t, server.URL, ResolverOptions{FetchTimeout: 2 * time.Second})
	out := r.Resolve(context.Background(), &models.SearchResult{Link: server.URL})

	if out.IsFound() {
		t.Errorf("expected no price on 403, got %v", out.Price)
	}
}

func TestResolveTimeoutDegradesToNoPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	r := testResolver(t, server.URL, ResolverOptions{FetchTimeout: 50 * time.Millisecond})

	start := time.Now()
	out := r.Resolve(context.Background(), &models.SearchResult{Link: server.URL})
	if out.IsFound() {
		t.Errorf("expected no price on timeout, got %v", out.Price)
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("resolve took %v, timeout did not bound the fetch", elapsed)
	}
}

func TestResolveUnknownDomainSkipsFetch(t *testing.T) {
	r := testResolver(t, "", ResolverOptions{})
	out := r.Resolve(context.Background(), &models.SearchResult{
		Link:  "https://unknown-shop.example/x",
		Title: "Produs 9,99 Lei",
	})
	if out.IsFound() {
		t.Errorf("expected no price without snippet fallback, got %v", out.Price)
	}
}

func TestResolveUnknownDomainSnippetFallback(t *testing.T) {
	r := testResolver(t, "", ResolverOptions{PriceFloor: 0.8, SnippetFallback: true})
	out := r.Resolve(context.Background(), &models.SearchResult{
		Link:        "https://unknown-shop.example/x",
		Title:       "Borsec 2L",
		Description: "Preț 3.99 Lei, garanție 2 ani",
	})
	if !out.IsFound() {
		t.Fatalf("expected snippet price, got status %v", out.Status)
	}
	if out.Price != 3.99 {
		t.Errorf("price = %v, want 3.99", out.Price)
	}
}

func TestResolveMalformedLink(t *testing.T) {
	r := testResolver(t, "", ResolverOptions{SnippetFallback: true})
	out := r.Resolve(context.Background(), &models.SearchResult{Link: "not-a-url"})
	if out.IsFound() {
		t.Errorf("expected no price for relative link, got %v", out.Price)
	}
}

func TestResolveThrottlesPerDomain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("5,00 Lei"))
	}))
	defer server.Close()

	delay := 100 * time.Millisecond
	r := testResolver(t, server.URL, ResolverOptions{FetchTimeout: 2 * time.Second, PerDomainDelay: delay})

	start := time.Now()
	for i := 0; i < 3; i++ {
		if out := r.Resolve(context.Background(), &models.SearchResult{Link: server.URL}); !out.IsFound() {
			t.Fatalf("resolve %d failed: %v", i, out.Reason)
		}
	}
	if elapsed := time.Since(start); elapsed < 2*delay {
		t.Errorf("three resolutions finished in %v, per-domain delay not enforced", elapsed)
	}
}
