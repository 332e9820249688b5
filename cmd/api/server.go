package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	charmlog "github.com/charmbracelet/log"

	"github.com/mg52/prefixindex/internal/highlight"
	"github.com/mg52/prefixindex/internal/index"
)

// SearchResponse is returned by /search and /all.
type SearchResponse struct {
	Query   string `json:"query"`
	Results []Book `json:"results"`
}

// HighlightResponse is returned by /highlight.
type HighlightResponse struct {
	Value    string              `json:"value"`
	Segments []highlight.Segment `json:"segments"`
}

// HTTP wraps a book catalog PrefixIndex behind the demo endpoints.
// PrefixIndex is already safe for concurrent Search/CreateIndex calls
// through its atomically swapped snapshot, so handlers need no locking
// of their own.
type HTTP struct {
	idx *index.PrefixIndex[Book]
}

// NewHTTP builds an HTTP handler set around a freshly indexed catalog.
func NewHTTP() *HTTP {
	idx := index.New[Book](bookProjection)
	idx.CreateIndex(demoCatalog())
	return &HTTP{idx: idx}
}

// ErrWriter writes err as a JSON error body with a 500 status.
func ErrWriter(w http.ResponseWriter, err error) {
	jsonBytes, jsonErr := json.Marshal(map[string]string{"err": fmt.Sprintf("%v", err)})
	if jsonErr != nil {
		jsonBytes = []byte(fmt.Sprintf(`{"err":%q}`, err.Error()))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(jsonBytes)
}

func (ht *HTTP) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		charmlog.Error("failed to encode response", "err", err)
	}
}

// Search handles GET /search?q=...&exact=true and
// GET /search?q=...&limit=N. When limit is set the search is a bounded
// prefix search and exact is ignored.
func (ht *HTTP) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ErrWriter(w, errors.New("unsupported method"))
		return
	}
	q := r.URL.Query().Get("q")

	var results []Book
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			ErrWriter(w, fmt.Errorf("invalid limit: %w", err))
			return
		}
		results = ht.idx.SearchLimit(q, limit)
	} else if r.URL.Query().Get("exact") == "true" {
		results = ht.idx.SearchExact(q)
	} else {
		results = ht.idx.Search(q)
	}

	ht.writeJSON(w, SearchResponse{Query: q, Results: results})
}

// All handles GET /all.
func (ht *HTTP) All(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ErrWriter(w, errors.New("unsupported method"))
		return
	}
	ht.writeJSON(w, SearchResponse{Results: ht.idx.GetAll()})
}

// Highlight handles GET /highlight?value=...&q=...&html=true
func (ht *HTTP) Highlight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ErrWriter(w, errors.New("unsupported method"))
		return
	}
	value := r.URL.Query().Get("value")
	q := r.URL.Query().Get("q")

	var hs *highlight.HighlightedString
	if r.URL.Query().Get("html") == "true" {
		hs = ht.idx.GetHighlightedHTML(value, q)
	} else {
		hs = ht.idx.GetHighlighted(value, q)
	}

	ht.writeJSON(w, HighlightResponse{Value: value, Segments: hs.Segments()})
}

// CreateIndex handles POST /create-index, rebuilding the catalog index
// from the demo catalog. A real integration would decode a document
// batch from the request body instead.
func (ht *HTTP) CreateIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ErrWriter(w, errors.New("unsupported method"))
		return
	}
	ht.idx.CreateIndex(demoCatalog())
	ht.writeJSON(w, map[string]string{"status": "rebuilt"})
}

// Health handles GET /health.
func (ht *HTTP) Health(w http.ResponseWriter, r *http.Request) {
	ht.writeJSON(w, map[string]string{"status": "ok"})
}

// Stats handles GET /stats, reporting index diagnostics.
func (ht *HTTP) Stats(w http.ResponseWriter, r *http.Request) {
	ht.writeJSON(w, map[string]int{
		"models":    len(ht.idx.GetAll()),
		"trieDepth": ht.idx.Depth(),
	})
}
