package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// CatalogRecord is the JSON shape of one catalog record with its publisher expanded.
type CatalogRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Edition     string  `json:"edition,omitempty"`
	Volume      int     `json:"volume"`
	Price       float64 `json:"price"`
	Publisher   string  `json:"publisher"`
	PublishDate string  `json:"publishDate"`
	Expand      struct {
		Publisher struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Slug string `json:"slug,omitempty"`
		} `json:"publisher"`
	} `json:"expand"`
}

// NewCatalogRecord builds a record for publisher (id, name, slug).
func NewCatalogRecord(id, name, edition string, volume int, price float64, pubID, pubName, pubSlug, date string) CatalogRecord {
	r := CatalogRecord{ID: id, Name: name, Edition: edition, Volume: volume, Price: price, Publisher: pubID, PublishDate: date}
	r.Expand.Publisher.ID = pubID
	r.Expand.Publisher.Name = pubName
	r.Expand.Publisher.Slug = pubSlug
	return r
}

// MockCatalogServer creates a test server that mocks the catalog records API.
type MockCatalogServer struct {
	*httptest.Server

	mu       sync.Mutex
	records  []CatalogRecord
	status   int
	requests []*http.Request
}

// NewMockCatalogServer creates a new mock catalog server serving records for any collection.
func NewMockCatalogServer(t *testing.T) *MockCatalogServer {
	t.Helper()
	m := &MockCatalogServer{status: http.StatusOK}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Close)
	return m
}

// SetRecords replaces the records served.
func (m *MockCatalogServer) SetRecords(records ...CatalogRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// SetStatus makes every request fail with status.
func (m *MockCatalogServer) SetStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// Requests returns the requests received so far.
func (m *MockCatalogServer) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request(nil), m.requests...)
}

func (m *MockCatalogServer) serve(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.Clone(r.Context()))
	status := m.status
	records := m.records
	m.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": status, "message": http.StatusText(status)}) //nolint:errcheck // test mock response
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 30
	}
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}

	response := map[string]any{
		"page":       page,
		"perPage":    perPage,
		"totalItems": -1,
		"totalPages": -1,
		"items":      records[start:end],
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // test mock response
}
