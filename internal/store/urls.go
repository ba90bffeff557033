package store

import (
	"database/sql"
	"fmt"
	"time"
)

// URLStore provides CRUD operations for crawl URLs.
type URLStore struct {
	db *DB
}

// NewURLStore creates a new URL store.
func NewURLStore(db *DB) *URLStore {
	return &URLStore{db: db}
}

// GetOrCreate retrieves the record for a URL, creating it as pending when it
// does not exist yet. The boolean is true if the record was just created.
func (u *URLStore) GetOrCreate(rawURL, description string) (*URL, bool, error) {
	if rawURL == "" {
		return nil, false, fmt.Errorf("url is required")
	}

	existing, err := u.GetByURL(rawURL)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO urls (url, description, crawl_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := u.db.sqlDB.Exec(
		query,
		rawURL, description, string(CrawlStatusPending),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert url: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get url id: %w", err)
	}

	return &URL{
		ID:          id,
		URL:         rawURL,
		Description: description,
		CrawlStatus: CrawlStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, true, nil
}

// GetByURL retrieves a URL record by its address, nil when absent.
func (u *URLStore) GetByURL(rawURL string) (*URL, error) {
	query := `
		SELECT id, url, description, crawl_status, created_at, updated_at
		FROM urls
		WHERE url = ? AND deleted_at IS NULL
	`

	row := u.db.sqlDB.QueryRow(query, rawURL)
	item, err := scanURL(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get url: %w", err)
	}
	return item, nil
}

// GetByID retrieves a URL record by id, nil when absent.
func (u *URLStore) GetByID(id int64) (*URL, error) {
	query := `
		SELECT id, url, description, crawl_status, created_at, updated_at
		FROM urls
		WHERE id = ? AND deleted_at IS NULL
	`

	row := u.db.sqlDB.QueryRow(query, id)
	item, err := scanURL(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get url: %w", err)
	}
	return item, nil
}

// SetStatus updates the crawl status of a URL.
func (u *URLStore) SetStatus(id int64, status CrawlStatus) error {
	query := "UPDATE urls SET crawl_status = ?, updated_at = ? WHERE id = ?"
	_, err := u.db.sqlDB.Exec(
		query,
		string(status), time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update crawl status: %w", err)
	}
	return nil
}

// ListByStatus returns all URLs with the given crawl status.
func (u *URLStore) ListByStatus(status CrawlStatus) ([]URL, error) {
	query := `
		SELECT id, url, description, crawl_status, created_at, updated_at
		FROM urls
		WHERE crawl_status = ? AND deleted_at IS NULL
		ORDER BY id ASC
	`

	rows, err := u.db.sqlDB.Query(query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query urls: %w", err)
	}
	defer rows.Close()

	var urls []URL
	for rows.Next() {
		item, err := scanURL(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan url row: %w", err)
		}
		urls = append(urls, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating url rows: %w", err)
	}

	return urls, nil
}

// CountByStatus returns the number of URLs per crawl status.
func (u *URLStore) CountByStatus() (map[CrawlStatus]int, error) {
	query := "SELECT crawl_status, COUNT(*) FROM urls WHERE deleted_at IS NULL GROUP BY crawl_status"

	rows, err := u.db.sqlDB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to count urls: %w", err)
	}
	defer rows.Close()

	counts := make(map[CrawlStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[CrawlStatus(status)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}

// scanURL reads one URL row from a row scanner
func scanURL(row rowScanner) (*URL, error) {
	var item URL
	var status string
	var createdAtValue any
	var updatedAtValue any

	if err := row.Scan(
		&item.ID, &item.URL, &item.Description, &status,
		&createdAtValue, &updatedAtValue,
	); err != nil {
		return nil, err
	}

	item.CrawlStatus = CrawlStatus(status)

	createdAt, err := parseTimeValue(createdAtValue)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	item.CreatedAt = createdAt

	updatedAt, err := parseTimeValue(updatedAtValue)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	item.UpdatedAt = updatedAt

	return &item, nil
}
