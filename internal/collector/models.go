package collector

import "time"

// FetchInfo captures transport-level facts about a page fetch. It is
// serialized into the extra column of each metric row.
type FetchInfo struct {
	StatusCode   int   `json:"status_code"`
	TTFBMillis   int64 `json:"ttfb_ms"`
	DownloadMS   int64 `json:"download_ms"`
	ResponseSize int64 `json:"response_size_bytes"`
}

// PageObservation is the full set of metrics measured for one page in one
// run. All rows written from it share the same MeasuredAt timestamp.
type PageObservation struct {
	SiteID     int64
	PageID     int64
	RunID      int64
	MeasuredAt time.Time // Captured once per page cycle (UTC)

	// SSLValidDays is nil when certificate inspection failed; the metric
	// is then absent rather than zero.
	SSLValidDays *int

	TitleLength         int
	WordCount           int
	InternalLinks       int
	ExternalLinks       int
	ImagesWithoutAlt    int
	ExternalScriptRatio float64
	H1Count             int
	H2Count             int
	H3Count             int
	HasFavicon          bool
	MetaKeywordsCount   int

	Fetch FetchInfo
}

// CollectStats summarizes one collection run.
type CollectStats struct {
	RunID          int64
	PagesProcessed int // Pages with metrics recorded
	PagesSkipped   int // Pages skipped due to fetch failure or error status
	StartTime      time.Time
	Duration       time.Duration
}
