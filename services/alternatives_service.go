package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	offSearchURL   = "https://world.openfoodfacts.org/cgi/search.pl"
	offCategoryURL = "https://world.openfoodfacts.org/category/%s.json"

	maxAlternatives = 3
)

// ErrNoCategory means no product category could be determined for the name.
var ErrNoCategory = errors.New("no category found")

// AlternativesService suggests healthier products from the same category,
// judged by Nutri-Score.
type AlternativesService struct {
	searchURL   string
	categoryURL string
	client      *http.Client
}

// NewAlternativesService creates an alternatives service.
func NewAlternativesService() *AlternativesService {
	return &AlternativesService{
		searchURL:   offSearchURL,
		categoryURL: offCategoryURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Healthier returns up to three products in the same category as the named
// product with a Nutri-Score of A, B or C. When the category cannot be
// resolved from the database, fallbackCategory (as provided by the app) is
// used instead.
func (s *AlternativesService) Healthier(ctx context.Context, productName, fallbackCategory string) ([]string, error) {
	slug, err := s.categorySlug(ctx, productName)
	if err != nil || slug == "" {
		if fallbackCategory == "" {
			return nil, ErrNoCategory
		}
		slug = strings.ToLower(strings.ReplaceAll(fallbackCategory, " ", "-"))
	}

	products, err := s.categoryProducts(ctx, slug)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	for _, p := range products {
		score := strings.ToUpper(p.NutriscoreGrade)
		name := strings.TrimSpace(p.ProductName)
		if name == "" || strings.EqualFold(name, productName) {
			continue
		}
		if score != "A" && score != "B" && score != "C" {
			continue
		}
		suggestions = append(suggestions, name)
		if len(suggestions) == maxAlternatives {
			break
		}
	}
	return suggestions, nil
}

type offProduct struct {
	ProductName     string   `json:"product_name"`
	NutriscoreGrade string   `json:"nutriscore_grade"`
	CategoriesTags  []string `json:"categories_tags"`
}

// categorySlug resolves the best-matching category for a product name.
func (s *AlternativesService) categorySlug(ctx context.Context, productName string) (string, error) {
	params := url.Values{}
	params.Set("search_terms", productName)
	params.Set("json", "1")
	params.Set("page_size", "1")

	var payload struct {
		Products []offProduct `json:"products"`
	}
	if err := s.getJSON(ctx, s.searchURL+"?"+params.Encode(), &payload); err != nil {
		return "", err
	}

	if len(payload.Products) == 0 || len(payload.Products[0].CategoriesTags) == 0 {
		return "", nil
	}
	tag := payload.Products[0].CategoriesTags[0]
	// tags look like "en:mineral-waters"
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		tag = tag[i+1:]
	}
	return tag, nil
}

func (s *AlternativesService) categoryProducts(ctx context.Context, slug string) ([]offProduct, error) {
	var payload struct {
		Products []offProduct `json:"products"`
	}
	if err := s.getJSON(ctx, fmt.Sprintf(s.categoryURL, slug), &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

func (s *AlternativesService) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
