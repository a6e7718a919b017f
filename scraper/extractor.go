package scraper

import "strings"

// HTMLExtractor extracts a price from a known retailer's page markup.
type HTMLExtractor interface {
	// Domain is the retailer domain this extractor handles, e.g. "emag.ro".
	Domain() string
	// ExtractFromHTML returns the displayed price for the page, or a
	// NotFound/Failed outcome. It must never panic on malformed input.
	ExtractFromHTML(html string) Outcome
}

// Registry dispatches a result link to the extractor for its retailer.
// Adding a retailer means registering one extractor, nothing else.
type Registry struct {
	extractors []HTMLExtractor
}

// NewRegistry returns a registry preloaded with the known retailers.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, e := range defaultExtractors() {
		r.Register(e)
	}
	return r
}

// Register adds an extractor to the registry.
func (r *Registry) Register(e HTMLExtractor) {
	r.extractors = append(r.extractors, e)
}

// Lookup matches a link host against the registered retailer domains.
// The match is a plain substring check against the short known list, so
// "www.emag.ro" and "emag.ro" both resolve to the emag extractor.
func (r *Registry) Lookup(host string) (HTMLExtractor, bool) {
	host = strings.ToLower(host)
	for _, e := range r.extractors {
		if strings.Contains(host, e.Domain()) {
			return e, true
		}
	}
	return nil, false
}

// Domains lists the registered retailer domains.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.extractors))
	for _, e := range r.extractors {
		domains = append(domains, e.Domain())
	}
	return domains
}
