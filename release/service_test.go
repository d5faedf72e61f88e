package release

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

type fakeFetcher struct {
	items []Item
	err   error
	days  []time.Time
}

func (f *fakeFetcher) Releases(_ context.Context, day time.Time) ([]Item, error) {
	f.days = append(f.days, day)
	return f.items, f.err
}

func newTestService(f Fetcher) *Service {
	return NewService(MustLocale("vi-VN", "UTC", "VND"), f, map[string]string{}, "")
}

func TestDigestEndToEnd(t *testing.T) {
	day := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	f := &fakeFetcher{items: []Item{
		{ID: "a1", Name: "A one", Volume: 10010, Price: 50000, PublisherID: "A", PublisherName: "Pub A", ReleaseDate: day},
		{ID: "a2", Name: "A two", Volume: 10021, Price: 55000, PublisherID: "A", PublisherName: "Pub A", ReleaseDate: day},
		{ID: "b1", Name: "B one", Volume: 20000, Price: 60000, PublisherID: "B", PublisherName: "Pub B", ReleaseDate: day},
	}}

	s, err := newTestService(f).Digest(context.Background(), "01-06-2024")
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	if len(f.days) != 1 || !f.days[0].Equal(day) {
		t.Fatalf("fetcher called with %v, want [%v]", f.days, day)
	}
	if len(s.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(s.Fields))
	}
	if s.Fields[0].Value != "A one\nA two" || s.Fields[1].Value != "B one" {
		t.Errorf("field values = %q, %q", s.Fields[0].Value, s.Fields[1].Value)
	}
	if s.TotalPrice != 165000 {
		t.Errorf("TotalPrice = %v, want 165000", s.TotalPrice)
	}

	wantVolumes := []float64{1.0, 1.1, 2.0}
	var got []float64
	for _, g := range s.Groups {
		for _, e := range g.Entries {
			got = append(got, e.DisplayVolume)
		}
	}
	for i := range wantVolumes {
		if math.Abs(got[i]-wantVolumes[i]) > volumeEpsilon {
			t.Errorf("volume[%d] = %v, want %v", i, got[i], wantVolumes[i])
		}
	}
}

func TestDigestEmptyDay(t *testing.T) {
	_, err := newTestService(&fakeFetcher{}).Digest(context.Background(), "01-06-2024")
	if !errors.Is(err, ErrNoReleases) {
		t.Fatalf("Digest() error = %v, want ErrNoReleases", err)
	}
	if !IsOutcome(err) {
		t.Error("ErrNoReleases should be an outcome")
	}
}

func TestDigestInvalidDateSkipsFetch(t *testing.T) {
	f := &fakeFetcher{}
	_, err := newTestService(f).Digest(context.Background(), "31-02-2024")
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("Digest() error = %v, want ErrInvalidDate", err)
	}
	if len(f.days) != 0 {
		t.Errorf("fetcher called %d times, want 0", len(f.days))
	}
}

func TestDigestCatalogFailure(t *testing.T) {
	cause := errors.New("connection refused")
	_, err := newTestService(&fakeFetcher{err: cause}).Digest(context.Background(), "")
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("Digest() error = %v, want ErrCatalogUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Digest() error should wrap cause: %v", err)
	}
	if IsOutcome(err) {
		t.Error("catalog failure must not be an outcome")
	}
}
