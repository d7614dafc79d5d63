package tle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultSourceURL is the CelesTrak "active satellites" group in TLE format.
const DefaultSourceURL = "https://celestrak.org/NORAD/elements/gp.php?GROUP=active&FORMAT=tle"

// maxBodyBytes caps a single source response. A full active-satellite
// catalog is ~2 MB; anything near this limit is not TLE data.
const maxBodyBytes = 50 * 1024 * 1024

// Fetcher retrieves raw TLE data from one or more remote sources.
type Fetcher struct {
	urls       []string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher for the given source URLs. With no URLs the
// default CelesTrak active group is used.
func NewFetcher(logger *slog.Logger, urls ...string) *Fetcher {
	if len(urls) == 0 {
		urls = []string{DefaultSourceURL}
	}
	return &Fetcher{
		urls:   urls,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SourceURLs returns the configured source URLs.
func (f *Fetcher) SourceURLs() []string {
	return f.urls
}

// Fetch retrieves all sources concurrently and returns their concatenated
// raw TLE text. Fails if any source fails, so a partial catalog is never
// mistaken for a complete one.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	bodies := make([][]byte, len(f.urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range f.urls {
		g.Go(func() error {
			body, err := f.fetchOne(gctx, url)
			if err != nil {
				return err
			}
			bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	for _, b := range bodies {
		out.Write(b)
		if len(b) > 0 && b[len(b)-1] != '\n' {
			out.WriteByte('\n')
		}
	}
	return out.Bytes(), nil
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching TLE data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response from %s exceeds %d byte limit", url, maxBodyBytes)
	}

	// CelesTrak answers rate-limited or failed group queries with an HTML
	// page and status 200; treat that as a failed fetch.
	if bytes.Contains(body[:min(len(body), 512)], []byte("<!DOCTYPE")) {
		return nil, fmt.Errorf("source %s returned HTML instead of TLE data", url)
	}

	f.logger.Debug("fetched TLE source", "url", url, "bytes", len(body))
	return body, nil
}
