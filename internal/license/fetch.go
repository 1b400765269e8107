package license

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/creachadair/atomicfile"
	"github.com/sethvargo/go-retry"
)

// ErrNetworkFailure is returned when the license list could not be fetched
// within the retry budget.
var ErrNetworkFailure = errors.New("network failure")

// Fetch defaults.
const (
	DefaultURL       = "https://raw.githubusercontent.com/spdx/license-list-data/refs/heads/main/json/licenses.json"
	DefaultTimeout   = 10 * time.Second
	DefaultBaseDelay = 2 * time.Second
	DefaultRetries   = 4
)

// maxBodySize bounds the downloaded document.
const maxBodySize = 32 << 20

// Fetcher downloads the SPDX license list.
type Fetcher struct {
	URL       string
	Client    *http.Client
	BaseDelay time.Duration
	// Retries is the number of requests made after the first one fails.
	Retries int
	Logger  *slog.Logger
}

// NewFetcher creates a Fetcher with default settings for url.
func NewFetcher(url string, logger *slog.Logger) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		URL:       url,
		Client:    &http.Client{Timeout: DefaultTimeout},
		BaseDelay: DefaultBaseDelay,
		Retries:   DefaultRetries,
		Logger:    logger,
	}
}

// Fetch downloads and decodes the license list, retrying transport errors,
// non-2xx responses and undecodable bodies with exponential backoff.
// It returns the raw document alongside the decoded table.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, *Table, error) {
	retries := max(f.Retries, 0)
	base := f.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	type result struct {
		raw   []byte
		table *Table
	}

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(retries), retry.NewExponential(base)) //nolint:gosec // retries >= 0
	res, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (result, error) {
		attempt++
		raw, err := f.get(ctx)
		if err == nil {
			var table *Table
			table, err = Decode(bytes.NewReader(raw))
			if err == nil {
				return result{raw: raw, table: table}, nil
			}
		}
		logger.Warn("license data fetch failed", "attempt", attempt, "url", f.URL, "error", err)
		return result{}, retry.RetryableError(err)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: fetching %s after %d attempts: %w", ErrNetworkFailure, f.URL, attempt, err)
	}

	logger.Debug("license data fetched", "url", f.URL, "licenses", res.table.Len(), "attempts", attempt)
	return res.raw, res.table, nil
}

func (f *Fetcher) get(ctx context.Context) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// Download fetches the license list and writes the raw document to path atomically.
func (f *Fetcher) Download(ctx context.Context, path string) (*Table, error) {
	raw, table, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := atomicfile.WriteData(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write license data: %w", err)
	}
	return table, nil
}
