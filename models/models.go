package models

import (
	"net/url"
	"strings"
)

// SearchResult is one hit returned by the web search step. Later pipeline
// stages attach the derived fields (Price, Store, SearchLink) in place.
type SearchResult struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Store       string   `json:"store,omitempty"`
	SearchLink  string   `json:"search_link,omitempty"`
}

// HasPrice returns true if a price has been attached to the result.
func (r *SearchResult) HasPrice() bool {
	return r.Price != nil
}

// GetPrice returns the attached price, or 0 if none was resolved.
func (r *SearchResult) GetPrice() float64 {
	if r.Price != nil {
		return *r.Price
	}
	return 0.0
}

// SetPrice attaches a resolved price to the result.
func (r *SearchResult) SetPrice(price float64) {
	r.Price = &price
}

// Host returns the host of the result link, or "" when the link is not a
// well-formed absolute URL. Results without a usable host are priceless.
func (r *SearchResult) Host() string {
	u, err := url.Parse(r.Link)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Host)
}

// StoreKey derives the normalized store identifier from the result link:
// the first host label after stripping a leading "www.", lower-cased.
// Returns "" when the link has no usable host.
func (r *SearchResult) StoreKey() string {
	host := r.Host()
	if host == "" {
		return ""
	}
	host = strings.TrimPrefix(host, "www.")
	if i := strings.Index(host, "."); i > 0 {
		host = host[:i]
	}
	return host
}

// RankedResultSet is the terminal output of the ranking pipeline. When the
// upstream search itself failed, Top and All are empty and Error carries the
// original failure message.
type RankedResultSet struct {
	Query   string                     `json:"query"`
	Top     []*SearchResult            `json:"top"`
	All     []*SearchResult            `json:"all"`
	Grouped map[string][]*SearchResult `json:"grouped,omitempty"`
	Error   string                     `json:"error,omitempty"`
}

// Deal is one entry from a retailer's weekly offers page.
type Deal struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url"`
	Store    string `json:"store"`
}
