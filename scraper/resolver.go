package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"pricescout/logger"
	"pricescout/models"

	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0"

// maxPageBytes caps how much of a retailer page is read. Product pages fit
// comfortably; anything bigger is junk.
const maxPageBytes = 4 << 20

// ResolverOptions configures an OfferResolver.
type ResolverOptions struct {
	FetchTimeout    time.Duration // hard cap per page fetch
	PerDomainDelay  time.Duration // minimum interval between fetches to one retailer
	PriceFloor      float64       // plausibility floor for snippet extraction
	SnippetFallback bool          // extract from title+description for unknown domains
}

// DefaultResolverOptions returns the production defaults.
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		FetchTimeout:    10 * time.Second,
		PerDomainDelay:  time.Second,
		PriceFloor:      0.8,
		SnippetFallback: true,
	}
}

// OfferResolver turns one search result into a price. Known retailer
// domains are fetched and parsed with their registered extractor; unknown
// domains are never fetched. Every failure degrades to a no-price outcome,
// never to an error for the batch.
//
// Fetches to the same retailer are spaced at least PerDomainDelay apart to
// respect the sites' informal rate limits, which makes resolution
// intentionally slow for large batches. Callers should cap batch size.
type OfferResolver struct {
	registry *Registry
	text     *TextExtractor
	client   *http.Client
	opts     ResolverOptions

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewOfferResolver creates a resolver over the given extractor registry.
func NewOfferResolver(registry *Registry, opts ResolverOptions) *OfferResolver {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &OfferResolver{
		registry: registry,
		text:     NewTextExtractor(opts.PriceFloor),
		client:   &http.Client{Timeout: opts.FetchTimeout},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Resolve extracts a price for a single search result.
func (r *OfferResolver) Resolve(ctx context.Context, result *models.SearchResult) Outcome {
	host := result.Host()
	if host == "" {
		// Not a usable absolute URL; the record stays priceless.
		return NotFound()
	}

	extractor, known := r.registry.Lookup(host)
	if !known {
		if r.opts.SnippetFallback {
			return r.text.Extract(result.Title + " " + result.Description)
		}
		return NotFound()
	}

	if err := r.throttle(ctx, extractor.Domain()); err != nil {
		return Failed("throttle: " + err.Error())
	}

	html, err := r.fetch(ctx, result.Link)
	if err != nil {
		logger.Log.Debugf("fetch %s: %v", result.Link, err)
		return Failed(err.Error())
	}

	return extractor.ExtractFromHTML(html)
}

// throttle waits until the per-domain minimum interval has elapsed.
func (r *OfferResolver) throttle(ctx context.Context, domain string) error {
	if r.opts.PerDomainDelay <= 0 {
		return nil
	}

	r.mu.Lock()
	limiter, ok := r.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(r.opts.PerDomainDelay), 1)
		r.limiters[domain] = limiter
	}
	r.mu.Unlock()

	return limiter.Wait(ctx)
}

func (r *OfferResolver) fetch(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
