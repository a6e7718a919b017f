package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pricescout/models"
)

const googleBaseURL = "https://www.googleapis.com/customsearch/v1"

// GoogleClient queries the Google Custom Search JSON API.
type GoogleClient struct {
	apiKey   string
	engineID string
	baseURL  string
	client   *http.Client
}

// NewGoogleClient creates a Custom Search client.
func NewGoogleClient(apiKey, engineID string) *GoogleClient {
	return &GoogleClient{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  googleBaseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Ensure GoogleClient implements Searcher
var _ Searcher = (*GoogleClient)(nil)

// googleResponse is the slice of the CSE payload we care about.
type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Pagemap struct {
			CSEImage []struct {
				Src string `json:"src"`
			} `json:"cse_image"`
		} `json:"pagemap"`
	} `json:"items"`
}

// Search implements Searcher.
func (c *GoogleClient) Search(ctx context.Context, query, site string) ([]*models.SearchResult, error) {
	fullQuery := query
	if site != "" {
		fullQuery = query + " site:" + site
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", fullQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, body)
	}

	var payload googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]*models.SearchResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		result := &models.SearchResult{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Snippet,
		}
		if len(item.Pagemap.CSEImage) > 0 {
			result.ImageURL = item.Pagemap.CSEImage[0].Src
		}
		results = append(results, result)
	}
	return results, nil
}
