// Package collector implements the page metrics collection run. It walks
// the configured sites and pages sequentially, fetches each page, derives
// content and certificate metrics, and records them scoped to one run.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/pagepulse/pagepulse/internal/analyzer"
	"github.com/pagepulse/pagepulse/internal/certcheck"
	"github.com/pagepulse/pagepulse/internal/config"
)

// certResult caches one host's inspection outcome for the duration of a run
type certResult struct {
	days   int
	absent bool
}

// Collector orchestrates one metrics collection run
type Collector struct {
	cfg         *config.Config
	storage     Storage
	fetcher     Fetcher
	certs       CertInspector
	rateLimiter *RateLimiter
	certCache   map[string]certResult
}

// New creates a collector with the provided configuration and storage.
// It initializes the HTTP client, certificate inspector, and rate limiter.
func New(cfg *config.Config, storage Storage) *Collector {
	return &Collector{
		cfg:         cfg,
		storage:     storage,
		fetcher:     NewHTTPClient(cfg.UserAgent, cfg.RequestTimeout),
		certs:       certcheck.NewInspector(cfg.TLSTimeout),
		rateLimiter: NewRateLimiter(time.Duration(cfg.RequestDelay * float64(time.Second))),
		certCache:   make(map[string]certResult),
	}
}

// Run executes one collection pass over all configured sites and pages.
// Fetch failures skip the affected page; persistence failures are fatal
// since metrics without a consistent identity/run scope are not
// trustworthy. Cancellation is honored between pages, not mid-page.
func (c *Collector) Run(ctx context.Context) (*CollectStats, error) {
	stats := &CollectStats{StartTime: time.Now()}

	runID, err := c.storage.CreateRun(ctx, c.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	stats.RunID = runID
	slog.Info("Started collection run", "run_id", runID, "sites", len(c.cfg.Sites), "pages", c.cfg.PageCount())

	for _, site := range c.cfg.Sites {
		if err := c.collectSite(ctx, runID, site, stats); err != nil {
			return stats, err
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	slog.Info("Collection run finished",
		"run_id", runID,
		"processed", stats.PagesProcessed,
		"skipped", stats.PagesSkipped,
		"duration", stats.Duration)

	return stats, nil
}

// collectSite measures every configured page of one site
func (c *Collector) collectSite(ctx context.Context, runID int64, site config.Site, stats *CollectStats) error {
	baseURL, err := url.Parse(site.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", site.BaseURL, err)
	}

	siteID, err := c.storage.GetOrCreateSite(ctx, site.Name, site.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to resolve site %q: %w", site.Name, err)
	}

	htmlAnalyzer, err := analyzer.NewHTMLAnalyzer(site.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to create analyzer for %q: %w", site.BaseURL, err)
	}

	for _, path := range site.Pages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := c.collectPage(ctx, runID, siteID, baseURL, path, htmlAnalyzer, stats); err != nil {
			return err
		}
	}

	return nil
}

// collectPage runs one page observation cycle: resolve identity, fetch,
// inspect certificate, analyze, record.
func (c *Collector) collectPage(ctx context.Context, runID, siteID int64, baseURL *url.URL,
	path string, htmlAnalyzer *analyzer.HTMLAnalyzer, stats *CollectStats) error {

	fullURL, err := resolvePageURL(baseURL, path)
	if err != nil {
		slog.Warn("Skipping page with unresolvable path", "site", baseURL.Host, "path", path, "error", err)
		stats.PagesSkipped++
		return nil
	}

	pageID, err := c.storage.GetOrCreatePage(ctx, siteID, path, fullURL)
	if err != nil {
		return fmt.Errorf("failed to resolve page %s: %w", fullURL, err)
	}

	if err := c.rateLimiter.Wait(ctx, fullURL); err != nil {
		return err
	}

	resp, err := c.fetcher.Get(ctx, fullURL)
	if err != nil {
		slog.Warn("Page fetch failed, skipping", "url", fullURL, "error", err)
		stats.PagesSkipped++
		return nil
	}
	if resp.StatusCode >= 400 {
		slog.Warn("Page returned error status, skipping", "url", fullURL, "status", resp.StatusCode)
		stats.PagesSkipped++
		return nil
	}

	metrics, err := htmlAnalyzer.Analyze(resp.Body)
	if err != nil {
		slog.Warn("Page analysis failed, skipping", "url", fullURL, "error", err)
		stats.PagesSkipped++
		return nil
	}

	// One timestamp per page cycle; every row of this observation shares it
	measuredAt := time.Now().UTC()

	obs := &PageObservation{
		SiteID:              siteID,
		PageID:              pageID,
		RunID:               runID,
		MeasuredAt:          measuredAt,
		SSLValidDays:        c.inspectCert(ctx, fullURL),
		TitleLength:         metrics.TitleLength,
		WordCount:           metrics.WordCount,
		InternalLinks:       metrics.InternalLinks,
		ExternalLinks:       metrics.ExternalLinks,
		ImagesWithoutAlt:    metrics.ImagesWithoutAlt,
		ExternalScriptRatio: metrics.ExternalScriptRatio,
		H1Count:             metrics.H1Count,
		H2Count:             metrics.H2Count,
		H3Count:             metrics.H3Count,
		HasFavicon:          metrics.HasFavicon,
		MetaKeywordsCount:   metrics.MetaKeywordsCount,
		Fetch: FetchInfo{
			StatusCode:   resp.StatusCode,
			TTFBMillis:   resp.Metrics.TTFB.Milliseconds(),
			DownloadMS:   resp.Metrics.DownloadTime.Milliseconds(),
			ResponseSize: int64(len(resp.Body)),
		},
	}

	if err := c.storage.SavePageMetrics(ctx, obs); err != nil {
		return fmt.Errorf("failed to record metrics for %s: %w", fullURL, err)
	}

	stats.PagesProcessed++
	slog.Info("Recorded page metrics",
		"url", fullURL,
		"title_length", metrics.TitleLength,
		"word_count", metrics.WordCount,
		"internal_links", metrics.InternalLinks,
		"external_links", metrics.ExternalLinks,
		"ttfb_ms", obs.Fetch.TTFBMillis,
		"download_ms", obs.Fetch.DownloadMS)

	return nil
}

// inspectCert returns the certificate validity day count for the page's
// host, or nil when inspection failed. Results are cached per host:port
// for the duration of the run.
func (c *Collector) inspectCert(ctx context.Context, pageURL string) *int {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = certcheck.DefaultPort
	}
	key := host + ":" + port

	res, cached := c.certCache[key]
	if !cached {
		days, ok := c.certs.ValidityDays(ctx, host, port)
		res = certResult{days: days, absent: !ok}
		c.certCache[key] = res
		if !ok {
			slog.Warn("Certificate inspection unavailable", "host", host, "port", port)
		}
	}

	if res.absent {
		return nil
	}
	days := res.days
	return &days
}

// Close releases the collector's network resources
func (c *Collector) Close() {
	if h, ok := c.fetcher.(*HTTPClient); ok {
		h.Close()
	}
}

// resolvePageURL resolves a page path (absolute or relative) against the
// site's base URL to form the page's natural key.
func resolvePageURL(baseURL *url.URL, path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}
