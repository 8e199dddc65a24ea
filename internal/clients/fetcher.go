package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/ethanolivertroy/eso-addons/internal/models"
)

const userAgent = "eso-addons/1.0 (+https://github.com/ethanolivertroy/eso-addons)"

// Fetcher performs paced HTTP GET requests against esoui.com and its CDN
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// FetcherOptions configures a Fetcher
type FetcherOptions struct {
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables pacing
	HTTPClient        *http.Client
	Logger            *log.Logger
}

// NewFetcher creates a new Fetcher
func NewFetcher(opts FetcherOptions) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Fetcher{
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// Open issues a GET for url and returns the response body. Any transport
// error or non-200 status wraps models.ErrDownloadFailed. The caller must
// close the body.
func (f *Fetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrDownloadFailed, url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrDownloadFailed, url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	f.logger.Debug("Fetching", "url", url)
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrDownloadFailed, url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s: unexpected status code: %d", models.ErrDownloadFailed, url, resp.StatusCode)
	}

	return resp.Body, nil
}
