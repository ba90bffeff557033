package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PageStore provides read/write operations for crawled pages.
// Reads are limited to the narrow contract the semantic index consumes:
// a count probe, ascending-id pagination and bulk lookup by id.
type PageStore struct {
	db *DB
}

// NewPageStore creates a new page store.
func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

// Insert stores a new page and fills in its assigned id and timestamps.
func (p *PageStore) Insert(page *Page) error {
	if page == nil {
		return fmt.Errorf("page is nil")
	}
	if page.Content == "" {
		return fmt.Errorf("page content is required")
	}
	if page.PageType == "" {
		return fmt.Errorf("page type is required")
	}

	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now

	if page.PageUUID == "" {
		page.PageUUID = uuid.NewString()
	}

	query := `
		INSERT INTO pages (url_id, content, page_type, page_uuid, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := p.db.sqlDB.Exec(
		query,
		page.URLID, page.Content, string(page.PageType), page.PageUUID,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get page id: %w", err)
	}
	page.ID = id

	return nil
}

// Count returns the number of pages in the corpus.
func (p *PageStore) Count() (int, error) {
	var count int
	err := p.db.sqlDB.QueryRow("SELECT COUNT(*) FROM pages WHERE deleted_at IS NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// PageAfter returns up to limit pages with id strictly greater than cursor,
// ordered by ascending id. An empty result means the corpus is exhausted.
func (p *PageStore) PageAfter(cursor int64, limit int) ([]Page, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT id, url_id, content, page_type, page_uuid, created_at, updated_at
		FROM pages
		WHERE id > ? AND deleted_at IS NULL
		ORDER BY id ASC
		LIMIT ?
	`

	rows, err := p.db.sqlDB.Query(query, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	return scanPages(rows)
}

// GetByIDs returns the pages with the given ids. Missing ids are skipped
// silently and result order is not guaranteed.
func (p *PageStore) GetByIDs(ids []int64) ([]Page, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, url_id, content, page_type, page_uuid, created_at, updated_at
		FROM pages
		WHERE id IN (%s) AND deleted_at IS NULL
	`, strings.Join(placeholders, ", "))

	rows, err := p.db.sqlDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages by ids: %w", err)
	}
	defer rows.Close()

	return scanPages(rows)
}

// scanPages reads page rows into model values
func scanPages(rows *sql.Rows) ([]Page, error) {
	var pages []Page

	for rows.Next() {
		var page Page
		var pageType string
		var pageUUID sql.NullString
		var createdAtValue any
		var updatedAtValue any

		if err := rows.Scan(
			&page.ID, &page.URLID, &page.Content, &pageType, &pageUUID,
			&createdAtValue, &updatedAtValue,
		); err != nil {
			return nil, fmt.Errorf("failed to scan page row: %w", err)
		}

		page.PageType = PageType(pageType)
		if pageUUID.Valid {
			page.PageUUID = pageUUID.String
		}

		createdAt, err := parseTimeValue(createdAtValue)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		page.CreatedAt = createdAt

		updatedAt, err := parseTimeValue(updatedAtValue)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		page.UpdatedAt = updatedAt

		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page rows: %w", err)
	}

	return pages, nil
}
