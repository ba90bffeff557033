package store

import "time"

// PageType classifies the origin of a crawled page
type PageType string

const (
	PageTypeCPAlgo              PageType = "CPALGO"
	PageTypeCodeforcesEditorial PageType = "CODEFORCES_EDITORIAL"
)

// CrawlStatus tracks the crawler lifecycle of a URL
type CrawlStatus string

const (
	CrawlStatusPending CrawlStatus = "PENDING"
	CrawlStatusQueued  CrawlStatus = "QUEUED"
	CrawlStatusDone    CrawlStatus = "DONE"
)

// URL represents a discovered article URL and its crawl state
type URL struct {
	ID          int64       `json:"id"`
	URL         string      `json:"url"`
	Description string      `json:"description"`
	CrawlStatus CrawlStatus `json:"crawl_status"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Page is an immutable corpus record: the extracted markdown content of one
// crawled article. IDs are assigned by SQLite and increase monotonically at
// creation time, which the embedding pipeline relies on for pagination.
type Page struct {
	ID       int64    `json:"id"`
	URLID    int64    `json:"url_id"`
	Content  string   `json:"content"`
	PageType PageType `json:"page_type"`

	// Stable external id, assigned at insert when not provided
	PageUUID string `json:"page_uuid,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
