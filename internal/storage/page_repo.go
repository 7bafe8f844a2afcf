package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_page_store.go -package=mocks pagemill/internal/storage PageStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// PageStore defines the interface for page storage operations.
type PageStore interface {
	// GetByURL gets a page by its canonical URL.
	// Returns nil and ErrNotFound if not found.
	GetByURL(ctx context.Context, url string) (*Page, error)
	// GetByID gets a page by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Page, error)
	// List returns all pages ordered by URL.
	List(ctx context.Context) ([]*Page, error)
	// Upsert inserts a new page or updates an existing one keyed by URL.
	Upsert(ctx context.Context, page *Page) error
}

// PageRepo provides methods for page operations.
// It implements the PageStore interface.
type PageRepo struct {
	db *sql.DB
}

// NewPageRepo creates a new PageRepo.
func NewPageRepo(db *sql.DB) *PageRepo {
	return &PageRepo{db: db}
}

// GetByURL gets a page by its canonical URL.
// Returns nil and ErrNotFound if not found.
func (r *PageRepo) GetByURL(ctx context.Context, url string) (*Page, error) {
	return r.get(ctx, "url = ?", url)
}

// GetByID gets a page by its ID. Returns ErrNotFound if not found.
func (r *PageRepo) GetByID(ctx context.Context, id string) (*Page, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *PageRepo) get(ctx context.Context, where string, arg any) (*Page, error) {
	var page Page
	var fetchedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, url, title, hop, hash, fetched_at FROM pages WHERE "+where,
		arg,
	).Scan(&page.ID, &page.URL, &page.Title, &page.Hop, &page.Hash, &fetchedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query page: %w", err)
	}

	page.FetchedAt, err = parseTimestamp(fetchedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at timestamp: %w", err)
	}

	return &page, nil
}

// List returns all pages ordered by URL.
// Returns an empty slice if no pages exist (not an error).
func (r *PageRepo) List(ctx context.Context) ([]*Page, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, url, title, hop, hash, fetched_at FROM pages ORDER BY url",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var pages []*Page
	for rows.Next() {
		var page Page
		var fetchedAtStr string
		if err := rows.Scan(&page.ID, &page.URL, &page.Title, &page.Hop, &page.Hash, &fetchedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		page.FetchedAt, err = parseTimestamp(fetchedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at timestamp: %w", err)
		}
		pages = append(pages, &page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return pages, nil
}

// Upsert inserts a new page or updates an existing one.
// If the page doesn't exist (by URL), generates a new UUID.
// If it exists, updates title, hop, hash, and fetched_at while
// preserving the ID.
func (r *PageRepo) Upsert(ctx context.Context, page *Page) error {
	existing, err := r.GetByURL(ctx, page.URL)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("failed to check existing page: %w", err)
	}

	if existing == nil && page.ID == "" {
		page.ID = uuid.New().String()
	} else if existing != nil {
		// Preserve existing ID
		page.ID = existing.ID
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO pages (id, url, title, hop, hash, fetched_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (url) DO UPDATE SET
		 title = excluded.title, hop = excluded.hop, hash = excluded.hash, fetched_at = CURRENT_TIMESTAMP`,
		page.ID, page.URL, page.Title, page.Hop, page.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}

	return nil
}

// parseTimestamp handles the DATETIME formats SQLite emits.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
