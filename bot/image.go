package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ImageFetcher downloads the rendered calendar image for attachment.
type ImageFetcher interface {
	Fetch(ctx context.Context, url, name string) (*discordgo.File, error)
}

// maxImageBytes stays below Discord's default attachment limit.
const maxImageBytes = 8 << 20

// HTTPImageFetcher fetches images over HTTP.
type HTTPImageFetcher struct {
	HTTPClient *http.Client
}

// NewHTTPImageFetcher returns a fetcher with the given request timeout.
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	return &HTTPImageFetcher{HTTPClient: &http.Client{Timeout: timeout}}
}

func (f *HTTPImageFetcher) http() *http.Client {
	if f.HTTPClient != nil {
		return f.HTTPClient
	}
	return http.DefaultClient
}

// Fetch downloads url into memory and wraps it as an attachment called name.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, url, name string) (*discordgo.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.http().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image request failed: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		ct = http.DetectContentType(data)
	}
	return &discordgo.File{Name: name, ContentType: ct, Reader: bytes.NewReader(data)}, nil
}
