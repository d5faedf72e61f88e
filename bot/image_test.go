package bot

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPImageFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date") == "missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG"))
	}))
	defer srv.Close()

	f := NewHTTPImageFetcher(5 * time.Second)

	file, err := f.Fetch(context.Background(), srv.URL+"?date=2024-06-01", ImageName)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if file.Name != ImageName || file.ContentType != "image/png" {
		t.Errorf("file = %+v", file)
	}
	data, _ := io.ReadAll(file.Reader)
	if string(data) != "\x89PNG" {
		t.Errorf("body = %q", data)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"?date=missing", ImageName); err == nil {
		t.Error("expected error for 404")
	}
}
