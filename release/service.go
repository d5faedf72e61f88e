package release

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tanamoe/release-bot/telemetry"
)

// Service runs the whole pipeline for one invocation.
type Service struct {
	Resolver *DateResolver
	Fetcher  Fetcher
	Builder  SummaryBuilder
}

// NewService wires the pipeline stages for locale.
func NewService(locale Locale, fetcher Fetcher, emotes map[string]string, imageURL string) *Service {
	return &Service{
		Resolver: NewDateResolver(locale.Location),
		Fetcher:  fetcher,
		Builder:  SummaryBuilder{Locale: locale, Emotes: emotes, ImageURL: imageURL},
	}
}

// Digest resolves rawDate, fetches that day's items and renders them.
//
// Outcomes are reported as errors so callers can branch with errors.Is:
// ErrInvalidDate for unparseable input, ErrNoReleases for an empty day and
// ErrCatalogUnavailable when the fetch failed.
func (s *Service) Digest(ctx context.Context, rawDate string) (*Summary, error) {
	ctx, span := telemetry.StartSpan(ctx, "release", "release.digest", attribute.String("release.raw_date", rawDate))
	defer span.End()

	day, err := s.Resolver.Resolve(rawDate)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("release.day", day.Format(time.DateOnly)))

	var items []Item
	telemetry.TimeFunc(telemetry.CatalogFetchDuration, func() {
		items, err = s.Fetcher.Releases(ctx, day)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	telemetry.ObserveItemsFetched(len(items))
	if len(items) == 0 {
		return nil, ErrNoReleases
	}

	summary := s.Builder.Build(day, Aggregate(items))
	telemetry.SetSpanSuccess(span)
	return &summary, nil
}
