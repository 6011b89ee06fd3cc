package collector

import "context"

// Storage handles identity resolution, run tracking, and metric persistence
type Storage interface {
	// Identity resolution (get-or-create by natural key, idempotent)
	GetOrCreateSite(ctx context.Context, name, baseURL string) (int64, error)
	GetOrCreatePage(ctx context.Context, siteID int64, path, fullURL string) (int64, error)

	// Run tracking (one row per invocation)
	CreateRun(ctx context.Context, userAgent string) (int64, error)

	// Metric recording: all observation and summary rows for one page
	// cycle are committed in a single transaction
	SavePageMetrics(ctx context.Context, obs *PageObservation) error

	// Database lifecycle
	Close() error
}

// Fetcher retrieves a page body
type Fetcher interface {
	Get(ctx context.Context, url string) (*HTTPResponse, error)
}

// CertInspector reads the remaining validity of a host's TLS certificate.
// The bool result is false when the certificate could not be inspected.
type CertInspector interface {
	ValidityDays(ctx context.Context, host, port string) (int, bool)
}
