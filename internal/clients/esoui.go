package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/ethanolivertroy/eso-addons/internal/cache"
	"github.com/ethanolivertroy/eso-addons/internal/models"
)

// maxPageSize bounds how much of an addon page is read
const maxPageSize = 10 << 20

// Resolution is what an addon page tells us about the addon
type Resolution struct {
	PageURL     string // Page actually fetched
	DownloadURL string // CDN archive link
	DisplayName string // og:title of the page
}

// Resolver extracts download links and titles from esoui.com addon pages
type Resolver struct {
	fetcher   *Fetcher
	cache     *cache.Cache
	cdnPrefix string
	logger    *log.Logger
}

// NewResolver creates a new Resolver. The cache may be nil. An empty
// cdnPrefix selects models.DefaultCDNPrefix.
func NewResolver(fetcher *Fetcher, c *cache.Cache, cdnPrefix string, logger *log.Logger) *Resolver {
	if cdnPrefix == "" {
		cdnPrefix = models.DefaultCDNPrefix
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{
		fetcher:   fetcher,
		cache:     c,
		cdnPrefix: cdnPrefix,
		logger:    logger,
	}
}

// Resolve fetches an addon page and extracts its CDN download link and
// display name. Info page URLs are first rewritten to their download page.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (Resolution, error) {
	target := pageURL
	if dl, ok := DownloadPageURL(pageURL); ok {
		r.logger.Debug("Rewrote addon page URL", "from", pageURL, "to", dl)
		target = dl
	}

	page, err := r.fetchPage(ctx, target)
	if err != nil {
		return Resolution{}, err
	}

	res, err := ParsePage(bytes.NewReader(page), r.cdnPrefix)
	if err != nil {
		return Resolution{}, fmt.Errorf("%s: %w", target, err)
	}
	res.PageURL = target

	r.logger.Debug("Resolved addon page", "url", target, "name", res.DisplayName, "download", res.DownloadURL)
	return res, nil
}

func (r *Resolver) fetchPage(ctx context.Context, url string) ([]byte, error) {
	if r.cache != nil {
		if cached, ok := r.cache.Get(url); ok {
			r.logger.Debug("Using cached page", "url", url)
			return cached, nil
		}
	}

	body, err := r.fetcher.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to read response body: %w", models.ErrDownloadFailed, url, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(url, data); err != nil {
			r.logger.Warn("Cannot cache page", "url", url, "err", err)
		}
	}

	return data, nil
}

// ParsePage extracts the og:title and the first link starting with
// cdnPrefix from an HTML document. The first match in document order wins.
func ParsePage(r io.Reader, cdnPrefix string) (Resolution, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: failed to parse page: %w", models.ErrDownloadFailed, err)
	}

	name, ok := displayName(doc)
	if !ok {
		return Resolution{}, models.ErrMetadataMissing
	}

	link, ok := cdnLink(doc, cdnPrefix)
	if !ok {
		return Resolution{}, models.ErrLinkNotFound
	}

	return Resolution{DownloadURL: link, DisplayName: name}, nil
}

func displayName(doc *goquery.Document) (string, bool) {
	meta := doc.Find(`meta[property="og:title"]`).First()
	if meta.Length() == 0 {
		return "", false
	}
	return meta.Attr("content")
}

func cdnLink(doc *goquery.Document, prefix string) (string, bool) {
	var link string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.HasPrefix(href, prefix) {
			link = href
			return false
		}
		return true
	})
	return link, link != ""
}
