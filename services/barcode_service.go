package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pricescout/models"
)

const openFoodFactsProductURL = "https://world.openfoodfacts.org/api/v2/product/%s.json"

// ErrProductNotFound means the barcode is not in the food database.
var ErrProductNotFound = errors.New("product not found")

// BarcodeService resolves barcodes against the Open Food Facts database.
type BarcodeService struct {
	baseURL string
	client  *http.Client
}

// NewBarcodeService creates a barcode lookup service.
func NewBarcodeService() *BarcodeService {
	return &BarcodeService{
		baseURL: openFoodFactsProductURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup fetches the product identity and nutrition metadata for a barcode.
func (s *BarcodeService) Lookup(ctx context.Context, code string) (*models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(s.baseURL, code), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("barcode lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("barcode lookup: status %d", resp.StatusCode)
	}

	var payload struct {
		Status  int `json:"status"`
		Product struct {
			Brands      string                 `json:"brands"`
			ProductName string                 `json:"product_name"`
			Quantity    string                 `json:"quantity"`
			Nutriments  map[string]interface{} `json:"nutriments"`
		} `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if payload.Status != 1 {
		return nil, ErrProductNotFound
	}

	product := &models.Product{
		Brand:      payload.Product.Brands,
		Name:       payload.Product.ProductName,
		Quantity:   payload.Product.Quantity,
		Nutriments: payload.Product.Nutriments,
	}
	if product.Brand == "" {
		product.Brand = "unknown"
	}
	if product.Name == "" {
		product.Name = "unknown"
	}
	return product, nil
}
