package storage

import "time"

// Page represents one fetched and processed source document.
type Page struct {
	ID        string // UUID
	URL       string // Canonical source URL, unique
	Title     string // Extracted title
	Hop       int    // Link distance from the nearest seed URL
	Hash      string // SHA256 hex string of the processed content
	FetchedAt time.Time
}

// ChunkRecord represents one stored fragment of a page.
type ChunkRecord struct {
	ID          string // UUID
	PageID      string // Foreign key to pages.id
	ChunkIndex  int    // Position within the page, starts at 0
	TotalChunks int    // Chunk count of the page at insert time
	Breadcrumb  string // JSON array of ancestor heading titles
	Headers     string // JSON object mapping "h1".."h6" to titles
	Level       int    // Breadcrumb depth
	CharCount   int
	WordCount   int
	Text        string
	CreatedAt   time.Time
}

// Crawl queue states.
const (
	QueueStatePending = "pending"
	QueueStateDone    = "done"
	QueueStateFailed  = "failed"
)

// QueueEntry is one URL waiting to be crawled, or already handled.
type QueueEntry struct {
	URL   string
	Hop   int
	State string
}
