package models

// StoreGroups partitions search results by normalized store identity,
// preserving the order in which stores were first seen so flattened views
// are deterministic.
type StoreGroups struct {
	Order  []string                   `json:"-"`
	Groups map[string][]*SearchResult `json:"groups"`
}

// NewStoreGroups returns an empty grouping.
func NewStoreGroups() *StoreGroups {
	return &StoreGroups{Groups: make(map[string][]*SearchResult)}
}

// Add appends a result to the store's bucket unless the bucket already
// holds max entries. Returns true if the result was kept.
func (g *StoreGroups) Add(store string, result *SearchResult, max int) bool {
	bucket, seen := g.Groups[store]
	if !seen {
		g.Order = append(g.Order, store)
	}
	if max > 0 && len(bucket) >= max {
		return false
	}
	g.Groups[store] = append(bucket, result)
	return true
}

// Flatten returns up to limit results in group-iteration order.
func (g *StoreGroups) Flatten(limit int) []*SearchResult {
	var out []*SearchResult
	for _, store := range g.Order {
		for _, result := range g.Groups[store] {
			if limit > 0 && len(out) >= limit {
				return out
			}
			out = append(out, result)
		}
	}
	return out
}
