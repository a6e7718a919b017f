package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const cseFixture = `{
  "items": [
    {
      "title": "Apa minerala Borsec 2L",
      "link": "https://www.emag.ro/apa-minerala-borsec-2l/pd/1",
      "snippet": "Apa minerala naturala carbogazoasa. 3,49 Lei.",
      "pagemap": {"cse_image": [{"src": "https://img.emag.ro/borsec.jpg"}]}
    },
    {
      "title": "Borsec 2L bax 6 sticle",
      "link": "https://www.emag.ro/borsec-bax/pd/2",
      "snippet": "Bax Borsec."
    }
  ]
}`

func testGoogleClient(serverURL string) *GoogleClient {
	c := NewGoogleClient("test-key", "test-cx")
	c.baseURL = serverURL
	return c
}

func TestGoogleSearchParsesItems(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cseFixture))
	}))
	defer server.Close()

	c := testGoogleClient(server.URL)
	results, err := c.Search(context.Background(), "borsec 2l", "emag.ro")
	if err != nil {
		t.Fatal(err)
	}

	if gotQuery != "borsec 2l site:emag.ro" {
		t.Errorf("query = %q, want site restriction appended", gotQuery)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	first := results[0]
	if first.Title != "Apa minerala Borsec 2L" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Link != "https://www.emag.ro/apa-minerala-borsec-2l/pd/1" {
		t.Errorf("link = %q", first.Link)
	}
	if first.Description != "Apa minerala naturala carbogazoasa. 3,49 Lei." {
		t.Errorf("description = %q", first.Description)
	}
	if first.ImageURL != "https://img.emag.ro/borsec.jpg" {
		t.Errorf("image = %q", first.ImageURL)
	}
	if results[1].ImageURL != "" {
		t.Errorf("missing pagemap should leave image empty, got %q", results[1].ImageURL)
	}
}

func TestGoogleSearchNoSite(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := testGoogleClient(server.URL)
	results, err := c.Search(context.Background(), "lapte", "")
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "lapte" {
		t.Errorf("query = %q, want bare query", gotQuery)
	}
	if len(results) != 0 {
		t.Errorf("empty payload produced %d results", len(results))
	}
}

func TestGoogleSearchQuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429,"message":"Quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := testGoogleClient(server.URL)
	if _, err := c.Search(context.Background(), "lapte", "emag.ro"); err == nil {
		t.Fatal("expected error on 429 response")
	}
}
