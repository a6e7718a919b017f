package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"pricescout/logger"
	"pricescout/models"
	"pricescout/repository"
	"pricescout/scraper"
	"pricescout/search"
	"pricescout/services"

	"github.com/gorilla/mux"
)

// maxImageBytes caps uploaded label photos.
const maxImageBytes = 8 << 20

// Handlers bundles the route handlers and their collaborators.
type Handlers struct {
	searcher     search.Searcher
	ranking      *services.RankingService
	barcode      *services.BarcodeService
	alternatives *services.AlternativesService
	ocr          *services.OCRService
	recipes      *services.RecipeService
	dealsScraper *scraper.DealsScraper
	dealRepo     *repository.DealRepository
}

// NewHandlers wires up the route handlers.
func NewHandlers(
	searcher search.Searcher,
	ranking *services.RankingService,
	barcode *services.BarcodeService,
	alternatives *services.AlternativesService,
	ocr *services.OCRService,
	recipes *services.RecipeService,
	dealsScraper *scraper.DealsScraper,
	dealRepo *repository.DealRepository,
) *Handlers {
	return &Handlers{
		searcher:     searcher,
		ranking:      ranking,
		barcode:      barcode,
		alternatives: alternatives,
		ocr:          ocr,
		recipes:      recipes,
		dealsScraper: dealsScraper,
		dealRepo:     dealRepo,
	}
}

// Search handles GET /search?q=: web search, grouping and price ranking.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	results, err := h.searcher.Search(r.Context(), query, "")
	if err != nil {
		// the upstream search failing yields an empty set carrying the
		// failure message, not a crash
		logger.Log.Errorf("search %q: %v", query, err)
		writeJSON(w, http.StatusOK, emptyResultSet(query, err))
		return
	}

	writeJSON(w, http.StatusOK, h.ranking.RankGrouped(r.Context(), query, results))
}

// SearchStores handles GET /search/stores?q=: one search per known store,
// grouped by store without price resolution.
func (h *Handlers) SearchStores(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": search.AllStores(r.Context(), h.searcher, query),
	})
}

// Scan handles POST /scan: label photo in, search query out.
func (h *Handlers) Scan(w http.ResponseWriter, r *http.Request) {
	image, ok := readUploadedImage(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"query": h.ocr.ExtractQuery(r.Context(), image),
	})
}

// ScanAndSearch handles POST /scan-and-search: label photo in, ranked
// price comparison out.
func (h *Handlers) ScanAndSearch(w http.ResponseWriter, r *http.Request) {
	image, ok := readUploadedImage(w, r)
	if !ok {
		return
	}

	query := h.ocr.ExtractQuery(r.Context(), image)
	results, err := h.searcher.Search(r.Context(), query, "")
	if err != nil {
		logger.Log.Errorf("search %q: %v", query, err)
		writeJSON(w, http.StatusOK, emptyResultSet(query, err))
		return
	}

	writeJSON(w, http.StatusOK, h.ranking.Rank(r.Context(), query, results))
}

// Barcode handles GET /barcode/{code}: product identity plus nutrition.
func (h *Handlers) Barcode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	product, err := h.barcode.Lookup(r.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		logger.Log.Errorf("barcode %s: %v", code, err)
		writeError(w, http.StatusBadGateway, "barcode lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Deals handles GET /deals: the stored snapshot, falling back to a live
// scrape when the snapshot is empty.
func (h *Handlers) Deals(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	var deals []models.Deal
	if h.dealRepo != nil {
		stored, err := h.dealRepo.GetDeals(limit)
		if err != nil {
			logger.Log.Warnf("stored deals: %v", err)
		}
		deals = stored
	}

	if len(deals) == 0 {
		fresh, err := h.dealsScraper.FetchDeals(r.Context(), limit)
		if err != nil {
			logger.Log.Errorf("fetch deals: %v", err)
			writeError(w, http.StatusBadGateway, "failed to fetch deals")
			return
		}
		deals = fresh
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": deals})
}

// Alternatives handles POST /alternatives: healthier products in the same
// category.
func (h *Handlers) Alternatives(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "missing product name")
		return
	}

	suggestions, err := h.alternatives.Healthier(r.Context(), body.Name, body.Category)
	if err != nil {
		if errors.Is(err, services.ErrNoCategory) {
			writeError(w, http.StatusNotFound, "no category found")
			return
		}
		logger.Log.Errorf("alternatives %q: %v", body.Name, err)
		writeError(w, http.StatusBadGateway, "failed to fetch alternatives")
		return
	}
	if len(suggestions) == 0 {
		suggestions = []string{"No healthier alternatives found."}
	}

	writeJSON(w, http.StatusOK, suggestions)
}

// Recipe handles POST /recipes: recipe text generated from the cart.
func (h *Handlers) Recipe(w http.ResponseWriter, r *http.Request) {
	var req services.RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Cart) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	recipe, err := h.recipes.Generate(r.Context(), req)
	if err != nil {
		logger.Log.Errorf("recipe generation: %v", err)
		writeError(w, http.StatusBadGateway, "recipe generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"recipe": recipe})
}

// emptyResultSet is the response for a query whose upstream search failed
// outright: no results, with the original failure message attached.
func emptyResultSet(query string, err error) *models.RankedResultSet {
	return &models.RankedResultSet{
		Query: query,
		Top:   []*models.SearchResult{},
		All:   []*models.SearchResult{},
		Error: err.Error(),
	}
}

func readUploadedImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return nil, false
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read image")
		return nil, false
	}
	return image, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
