package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// RecipeRequest describes what the user wants cooked from their cart.
type RecipeRequest struct {
	Cart    []string `json:"cart"`
	Diet    string   `json:"diet,omitempty"`
	Goal    string   `json:"goal,omitempty"`
	Time    string   `json:"time,omitempty"`
	Context string   `json:"context,omitempty"`
}

// RecipeService generates recipe text from cart contents through the
// Gemini generative language API.
type RecipeService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewRecipeService creates a recipe generator.
func NewRecipeService(apiKey, model string) *RecipeService {
	return &RecipeService{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Generate produces a recipe for the given cart and constraints.
func (s *RecipeService) Generate(ctx context.Context, req RecipeRequest) (string, error) {
	prompt := buildRecipePrompt(req)

	body, err := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate: status %d: %s", resp.StatusCode, payload)
	}

	text := gjson.GetBytes(payload, "candidates.0.content.parts.0.text").String()
	if text == "" {
		return "", fmt.Errorf("generate: empty candidate in response")
	}
	return text, nil
}

// buildRecipePrompt assembles the recipe prompt with the fixed output
// format the mobile app parses.
func buildRecipePrompt(req RecipeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I have the following ingredients: %s.\n", strings.Join(req.Cart, ", "))

	if req.Diet != "" {
		fmt.Fprintf(&b, "The user follows a %s diet. ", req.Diet)
	}
	if req.Goal != "" {
		fmt.Fprintf(&b, "The goal is: %s. ", req.Goal)
	}
	if req.Time != "" {
		fmt.Fprintf(&b, "The desired maximum preparation time is: %s. ", req.Time)
	}
	if req.Context != "" {
		fmt.Fprintf(&b, "Context: %s. ", req.Context)
	}

	b.WriteString(`
Please generate a healthy recipe in the format below, without adding any extra explanations.

FORMAT:
Recipe name: ...
Time: ... minutes
Servings: ... people

Ingredients:
- ...
- ...
- ...

Instructions:
1. ...
2. ...
3. ...

Nutrition tips:
* ...
* ...
`)
	return b.String()
}
