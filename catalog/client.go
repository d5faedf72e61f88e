// Package catalog queries the release catalog, a PocketBase-style REST API,
// for the records releasing on a given day.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/tanamoe/release-bot/release"
	"github.com/tanamoe/release-bot/telemetry"
)

const (
	// DefaultCollection is the detailed book view joining volumes and editions.
	DefaultCollection = "bookDetailed"

	// DefaultDateField is the release date column filtered and sorted on.
	DefaultDateField = "publishDate"

	// DefaultPageSize matches the batch size of the PocketBase SDK's full-list helper.
	DefaultPageSize = 500

	// DefaultTimeout bounds a single page request.
	DefaultTimeout = 15 * time.Second

	// RateLimit paces page requests of one listing.
	RateLimit = 5.0
)

// Client lists catalog records. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	collection string
	dateField  string
	pageSize   int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client. The caller is responsible for
// authentication when using this option.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCollection sets the collection queried.
func WithCollection(name string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.collection = name
		}
	}
}

// WithDateField sets the release date field name.
func WithDateField(name string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.dateField = name
		}
	}
}

// WithPageSize sets the number of records requested per page.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithTimeout bounds each page request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit sets how many page requests per second a listing may issue.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewClient returns a client for the catalog at baseURL. The token is sent as
// a bearer Authorization header.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	hc := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	hc.Timeout = DefaultTimeout
	c := &Client{
		httpClient: hc,
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: DefaultCollection,
		dateField:  DefaultDateField,
		pageSize:   DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Releases returns the records with a release date in [day, day+1), sorted by
// date, name and edition (descending), with the publisher expanded.
// No retries are attempted; failures wrap release.ErrCatalogUnavailable.
func (c *Client) Releases(ctx context.Context, day time.Time) ([]release.Item, error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog", "catalog.releases",
		attribute.String("catalog.collection", c.collection),
		attribute.String("catalog.day", day.Format(time.DateOnly)),
	)
	defer span.End()

	q := url.Values{}
	q.Set("filter", c.dayFilter(day))
	q.Set("expand", "publisher")
	q.Set("sort", fmt.Sprintf("+%s,+name,-edition", c.dateField))
	q.Set("perPage", strconv.Itoa(c.pageSize))
	q.Set("skipTotal", "1")

	var items []release.Item
	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("%w: rate limiter: %w", release.ErrCatalogUnavailable, err)
		}
		q.Set("page", strconv.Itoa(page))
		recs, err := c.listPage(ctx, q)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("%w: %w", release.ErrCatalogUnavailable, err)
		}
		for _, r := range recs {
			items = append(items, r.item())
		}
		if len(recs) < c.pageSize {
			break
		}
	}
	span.SetAttributes(attribute.Int("catalog.items", len(items)))
	telemetry.SetSpanSuccess(span)
	if items == nil {
		items = []release.Item{}
	}
	return items, nil
}

// dayFilter renders the half-open ISO date range expression for day.
func (c *Client) dayFilter(day time.Time) string {
	from := day.Format(time.DateOnly)
	to := day.AddDate(0, 0, 1).Format(time.DateOnly)
	return fmt.Sprintf("%s >= '%s' && %s < '%s'", c.dateField, from, c.dateField, to)
}

func (c *Client) listPage(ctx context.Context, q url.Values) ([]record, error) {
	endpoint := fmt.Sprintf("%s/api/collections/%s/records", c.baseURL, url.PathEscape(c.collection))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog request failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return body.Items, nil
}
