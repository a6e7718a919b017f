package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"pricescout/logger"
)

const visionAnnotateURL = "https://vision.googleapis.com/v1/images:annotate"

// fallbackQuery is returned when no usable text came out of the image.
const fallbackQuery = "unknown product"

// stopWords are label words that carry no search value.
var stopWords = map[string]bool{
	"apa": true, "minerala": true, "naturala": true, "bautura": true,
	"racoritoare": true, "eticheta": true, "zero": true, "cu": true,
	"fara": true, "gust": true, "calorii": true, "plata": true,
	"carbogazoasa": true, "necarbogazoasa": true, "gramaj": true,
	"produs": true, "alimentar": true, "litri": true, "buc": true,
	"gram": true, "ml": true, "l": true,
}

// knownBrands are checked first; a detected brand leads the query.
var knownBrands = []string{
	"coca cola", "pepsi", "fanta", "sprite", "milka", "napolact", "dorna",
	"borsec", "ciucas", "carlsberg", "lays", "tide", "ariel", "heineken", "tuc",
}

var (
	punctuation     = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	quantityPattern = regexp.MustCompile(`^[0-9]{1,4}(ml|l|g|kg)$`)
)

// OCRService turns a product label photo into a search query via the
// Google Vision text detection API.
type OCRService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOCRService creates an OCR service.
func NewOCRService(apiKey string) *OCRService {
	return &OCRService{
		apiKey:  apiKey,
		baseURL: visionAnnotateURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ExtractQuery detects the text on a label photo and distills it into a
// short search query: the brand if one is recognized, up to three relevant
// words and at most one quantity token.
func (s *OCRService) ExtractQuery(ctx context.Context, image []byte) string {
	text, err := s.detectText(ctx, image)
	if err != nil {
		logger.Log.Warnf("vision text detection: %v", err)
		return fallbackQuery
	}
	return BuildQueryFromLabel(text)
}

// BuildQueryFromLabel distills raw label text into a search query.
func BuildQueryFromLabel(text string) string {
	text = strings.ToLower(text)
	text = punctuation.ReplaceAllString(text, "")
	words := strings.Fields(text)

	var relevant []string
	for _, w := range words {
		if len(w) <= 2 || isNumeric(w) || stopWords[w] {
			continue
		}
		relevant = append(relevant, w)
	}

	brand := ""
	joined := strings.Join(relevant, " ")
	for _, b := range knownBrands {
		if strings.Contains(joined, b) {
			brand = b
			break
		}
	}

	var quantities []string
	for _, w := range words {
		if quantityPattern.MatchString(w) {
			quantities = append(quantities, w)
		}
	}

	var parts []string
	if brand != "" {
		parts = append(parts, brand)
	}
	if len(relevant) > 3 {
		relevant = relevant[:3]
	}
	parts = append(parts, relevant...)
	if len(quantities) > 0 {
		parts = append(parts, quantities[0])
	}

	query := strings.TrimSpace(strings.Join(parts, " "))
	if query == "" {
		return fallbackQuery
	}
	return query
}

func (s *OCRService) detectText(ctx context.Context, image []byte) (string, error) {
	body := map[string]interface{}{
		"requests": []map[string]interface{}{
			{
				"image":    map[string]string{"content": base64.StdEncoding.EncodeToString(image)},
				"features": []map[string]string{{"type": "TEXT_DETECTION"}},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"?key="+s.apiKey, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("annotate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("annotate: status %d", resp.StatusCode)
	}

	var result struct {
		Responses []struct {
			FullTextAnnotation struct {
				Text string `json:"text"`
			} `json:"fullTextAnnotation"`
			TextAnnotations []struct {
				Description string `json:"description"`
			} `json:"textAnnotations"`
		} `json:"responses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Responses) == 0 {
		return "", fmt.Errorf("empty response")
	}

	r := result.Responses[0]
	if r.FullTextAnnotation.Text != "" {
		return r.FullTextAnnotation.Text, nil
	}
	if len(r.TextAnnotations) > 0 {
		return r.TextAnnotations[0].Description, nil
	}
	return "", fmt.Errorf("no text detected")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
