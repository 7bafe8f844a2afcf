package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks pagemill/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// Insert inserts a single chunk into the database.
	// The chunk.ID must be set (UUID) before calling this method.
	Insert(ctx context.Context, chunk *ChunkRecord) error
	// DeleteByPage deletes all chunks for a given page ID.
	DeleteByPage(ctx context.Context, pageID string) error
	// ListByPage returns all chunks for a given page, ordered by chunk_index.
	ListByPage(ctx context.Context, pageID string) ([]*ChunkRecord, error)
	// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*ChunkRecord, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Insert inserts a single chunk into the database.
// The chunk.ID must be set (UUID) before calling this method.
func (r *ChunkRepo) Insert(ctx context.Context, chunk *ChunkRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chunks (id, page_id, chunk_index, total_chunks, breadcrumb, headers, level, char_count, word_count, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		chunk.ID, chunk.PageID, chunk.ChunkIndex, chunk.TotalChunks,
		chunk.Breadcrumb, chunk.Headers, chunk.Level,
		chunk.CharCount, chunk.WordCount, chunk.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// DeleteByPage deletes all chunks for a given page ID.
// Used when re-processing a page to remove old chunks before inserting
// new ones.
func (r *ChunkRepo) DeleteByPage(ctx context.Context, pageID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chunks WHERE page_id = ?", pageID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks by page: %w", err)
	}
	return nil
}

// ListByPage returns all chunks for a given page, ordered by chunk_index.
// Returns an empty slice if no chunks exist (not an error).
func (r *ChunkRepo) ListByPage(ctx context.Context, pageID string) ([]*ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, page_id, chunk_index, total_chunks, breadcrumb, headers, level, char_count, word_count, text
		 FROM chunks WHERE page_id = ? ORDER BY chunk_index`,
		pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []*ChunkRecord
	for rows.Next() {
		var chunk ChunkRecord
		if err := rows.Scan(
			&chunk.ID, &chunk.PageID, &chunk.ChunkIndex, &chunk.TotalChunks,
			&chunk.Breadcrumb, &chunk.Headers, &chunk.Level,
			&chunk.CharCount, &chunk.WordCount, &chunk.Text,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}

// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*ChunkRecord, error) {
	var chunk ChunkRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, page_id, chunk_index, total_chunks, breadcrumb, headers, level, char_count, word_count, text
		 FROM chunks WHERE id = ?`,
		id,
	).Scan(
		&chunk.ID, &chunk.PageID, &chunk.ChunkIndex, &chunk.TotalChunks,
		&chunk.Breadcrumb, &chunk.Headers, &chunk.Level,
		&chunk.CharCount, &chunk.WordCount, &chunk.Text,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}

	return &chunk, nil
}
