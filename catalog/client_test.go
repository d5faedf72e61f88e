package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tanamoe/release-bot/release"
	"github.com/tanamoe/release-bot/testutil"
)

func newTestClient(m *testutil.MockCatalogServer, opts ...ClientOption) *Client {
	opts = append([]ClientOption{WithRateLimit(1000)}, opts...)
	return NewClient(m.URL, "test-token", opts...)
}

func TestReleasesQuery(t *testing.T) {
	m := testutil.NewMockCatalogServer(t)
	m.SetRecords(
		testutil.NewCatalogRecord("r1", "Alpha", "", 10010, 50000, "pubA", "Publisher A", "a", "2024-06-01 00:00:00.000Z"),
		testutil.NewCatalogRecord("r2", "Beta", "Special", 10021, 55000, "pubA", "Publisher A", "a", "2024-06-01 00:00:00.000Z"),
	)
	c := newTestClient(m)

	loc := time.FixedZone("ICT", 7*3600)
	items, err := c.Releases(context.Background(), time.Date(2024, time.June, 1, 0, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("Releases() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	reqs := m.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	r := reqs[0]
	if r.URL.Path != "/api/collections/bookDetailed/records" {
		t.Errorf("path = %s", r.URL.Path)
	}
	if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", got)
	}
	q := r.URL.Query()
	if got, want := q.Get("filter"), "publishDate >= '2024-06-01' && publishDate < '2024-06-02'"; got != want {
		t.Errorf("filter = %q, want %q", got, want)
	}
	if got := q.Get("expand"); got != "publisher" {
		t.Errorf("expand = %q, want publisher", got)
	}
	if got := q.Get("sort"); got != "+publishDate,+name,-edition" {
		t.Errorf("sort = %q", got)
	}
}

func TestReleasesMapsRecords(t *testing.T) {
	m := testutil.NewMockCatalogServer(t)
	m.SetRecords(testutil.NewCatalogRecord("r1", "Alpha", "Limited", 20003, 60000, "pubB", "Publisher B", "b", "2024-06-01 00:00:00.000Z"))
	c := newTestClient(m)

	items, err := c.Releases(context.Background(), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Releases() error = %v", err)
	}
	it := items[0]
	if it.ID != "r1" || it.Name != "Alpha" || it.Edition != "Limited" {
		t.Errorf("item = %+v", it)
	}
	if it.Volume != 20003 || it.Price != 60000 {
		t.Errorf("volume/price = %d/%v", it.Volume, it.Price)
	}
	if it.PublisherID != "pubB" || it.PublisherName != "Publisher B" || it.PublisherSlug != "b" {
		t.Errorf("publisher = %s/%s/%s", it.PublisherID, it.PublisherName, it.PublisherSlug)
	}
	if want := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC); !it.ReleaseDate.Equal(want) {
		t.Errorf("ReleaseDate = %v, want %v", it.ReleaseDate, want)
	}
}

func TestReleasesEmptyIsNotAnError(t *testing.T) {
	m := testutil.NewMockCatalogServer(t)
	c := newTestClient(m)

	items, err := c.Releases(context.Background(), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Releases() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("Releases() = %#v, want empty non-nil slice", items)
	}
}

func TestReleasesPaginates(t *testing.T) {
	m := testutil.NewMockCatalogServer(t)
	var recs []testutil.CatalogRecord
	for i := 0; i < 5; i++ {
		recs = append(recs, testutil.NewCatalogRecord(string(rune('a'+i)), "Item", "", 10000, 1000, "p", "P", "", "2024-06-01 00:00:00.000Z"))
	}
	m.SetRecords(recs...)
	c := newTestClient(m, WithPageSize(2))

	items, err := c.Releases(context.Background(), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Releases() error = %v", err)
	}
	if len(items) != 5 {
		t.Errorf("len(items) = %d, want 5", len(items))
	}
	if got := len(m.Requests()); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
	if items[0].ID != "a" || items[4].ID != "e" {
		t.Errorf("order = %s..%s, want a..e", items[0].ID, items[4].ID)
	}
}

func TestReleasesServerErrorNotRetried(t *testing.T) {
	m := testutil.NewMockCatalogServer(t)
	m.SetStatus(http.StatusServiceUnavailable)
	c := newTestClient(m)

	_, err := c.Releases(context.Background(), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, release.ErrCatalogUnavailable) {
		t.Fatalf("Releases() error = %v, want ErrCatalogUnavailable", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should mention status: %v", err)
	}
	if got := len(m.Requests()); got != 1 {
		t.Errorf("requests = %d, want 1 (no retry)", got)
	}
}

func TestReleasesUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "tok", WithRateLimit(1000))
	_, err := c.Releases(context.Background(), time.Now())
	if !errors.Is(err, release.ErrCatalogUnavailable) {
		t.Fatalf("Releases() error = %v, want ErrCatalogUnavailable", err)
	}
}

func TestCustomCollectionAndField(t *testing.T) {
	m := testutil.NewMockCatalogServer(t)
	c := newTestClient(m, WithCollection("releases"), WithDateField("releaseDate"))

	if _, err := c.Releases(context.Background(), time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Releases() error = %v", err)
	}
	r := m.Requests()[0]
	if r.URL.Path != "/api/collections/releases/records" {
		t.Errorf("path = %s", r.URL.Path)
	}
	if got, want := r.URL.Query().Get("filter"), "releaseDate >= '2024-12-31' && releaseDate < '2025-01-01'"; got != want {
		t.Errorf("filter = %q, want %q", got, want)
	}
	if got := r.URL.Query().Get("sort"); got != "+releaseDate,+name,-edition" {
		t.Errorf("sort = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-06-01 00:00:00.000Z", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-06-01T10:00:00Z", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"garbage", time.Time{}},
	}
	for _, tt := range tests {
		if got := parseDate(tt.in); !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReleasesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"page":1,"perPage":500,"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", WithRateLimit(1000), WithTimeout(50*time.Millisecond))
	_, err := c.Releases(context.Background(), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, release.ErrCatalogUnavailable) {
		t.Fatalf("err = %v, want ErrCatalogUnavailable", err)
	}
}
