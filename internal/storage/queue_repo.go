package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_queue_store.go -package=mocks pagemill/internal/storage QueueStore

import (
	"context"
	"database/sql"
	"fmt"
)

// QueueStore defines the interface for the crawl queue. The queue is
// persistent so an interrupted crawl resumes where it stopped.
type QueueStore interface {
	// Enqueue adds a URL at the given hop distance. A URL already in
	// the queue, in any state, is left untouched.
	Enqueue(ctx context.Context, url string, hop int) error
	// NextPending returns the oldest pending entry.
	// Returns ErrNotFound when the queue is drained.
	NextPending(ctx context.Context) (*QueueEntry, error)
	// SetState moves an entry to the given state.
	SetState(ctx context.Context, url, state string) error
	// CountPending reports how many entries are still pending.
	CountPending(ctx context.Context) (int, error)
}

// QueueRepo provides methods for crawl queue operations.
// It implements the QueueStore interface.
type QueueRepo struct {
	db *sql.DB
}

// NewQueueRepo creates a new QueueRepo.
func NewQueueRepo(db *sql.DB) *QueueRepo {
	return &QueueRepo{db: db}
}

// Enqueue adds a URL at the given hop distance. A URL already in the
// queue, in any state, is left untouched; revisits are handled by a
// fresh crawl, not by re-enqueueing.
func (r *QueueRepo) Enqueue(ctx context.Context, url string, hop int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO crawl_queue (url, hop, state) VALUES (?, ?, ?)
		 ON CONFLICT (url) DO NOTHING`,
		url, hop, QueueStatePending,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue url: %w", err)
	}
	return nil
}

// NextPending returns the oldest pending entry.
// Returns ErrNotFound when the queue is drained.
func (r *QueueRepo) NextPending(ctx context.Context) (*QueueEntry, error) {
	var entry QueueEntry
	err := r.db.QueryRowContext(ctx,
		`SELECT url, hop, state FROM crawl_queue
		 WHERE state = ? ORDER BY rowid LIMIT 1`,
		QueueStatePending,
	).Scan(&entry.URL, &entry.Hop, &entry.State)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl queue: %w", err)
	}

	return &entry, nil
}

// SetState moves an entry to the given state.
func (r *QueueRepo) SetState(ctx context.Context, url, state string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE crawl_queue SET state = ? WHERE url = ?",
		state, url,
	)
	if err != nil {
		return fmt.Errorf("failed to update queue state: %w", err)
	}
	return nil
}

// CountPending reports how many entries are still pending.
func (r *QueueRepo) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM crawl_queue WHERE state = ?",
		QueueStatePending,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending urls: %w", err)
	}
	return n, nil
}
