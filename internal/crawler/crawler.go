// Package crawler walks a documentation site breadth-first from a set
// of seed URLs, converts each page to markdown, and hands the result
// to the processing pipeline. The queue lives in SQLite so a stopped
// crawl picks up where it left off.
package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"pagemill/internal/frontmatter"
	"pagemill/internal/storage"
)

// Processor consumes one converted document. It returns the number of
// chunks produced, which the crawler only logs.
type Processor interface {
	ProcessDocument(ctx context.Context, source, content string, hop int) (int, error)
}

// Options configures a Crawler.
type Options struct {
	// MaxHops is the link distance from a seed beyond which links are
	// not followed. 0 crawls only the seeds themselves.
	MaxHops int
	// SkipPatterns are doublestar globs matched against discovered
	// URLs; matches are never enqueued.
	SkipPatterns []string
	// UserAgent is sent on every fetch.
	UserAgent string
	// FetchTimeout bounds a single page fetch.
	FetchTimeout time.Duration
}

// Crawler drains the persistent URL queue.
type Crawler struct {
	client    *http.Client
	queue     storage.QueueStore
	processor Processor
	conv      *Converter
	opts      Options
	logger    *slog.Logger
	wake      chan struct{}
}

// New creates a Crawler. Run must be started separately.
func New(queue storage.QueueStore, processor Processor, opts Options, logger *slog.Logger) *Crawler {
	if opts.UserAgent == "" {
		opts.UserAgent = "pagemill/1.0"
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	return &Crawler{
		client:    &http.Client{Timeout: opts.FetchTimeout},
		queue:     queue,
		processor: processor,
		conv:      NewConverter(),
		opts:      opts,
		logger:    logger,
		wake:      make(chan struct{}, 1),
	}
}

// Seed enqueues starting URLs at hop zero and wakes the run loop.
func (c *Crawler) Seed(ctx context.Context, urls []string) error {
	for _, u := range urls {
		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("invalid seed url %q: %w", u, err)
		}
		if err := c.queue.Enqueue(ctx, u, 0); err != nil {
			return err
		}
	}
	if pending, err := c.queue.CountPending(ctx); err == nil {
		c.logger.Info("seeds enqueued", "seeds", len(urls), "pending", pending)
	}
	select {
	case c.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run drains the queue until ctx is cancelled. An empty queue parks
// the loop until the next Seed call.
func (c *Crawler) Run(ctx context.Context) {
	for {
		entry, err := c.queue.NextPending(ctx)
		if err == storage.ErrNotFound {
			select {
			case <-ctx.Done():
				return
			case <-c.wake:
				continue
			}
		}
		if err != nil {
			c.logger.Error("reading crawl queue", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
				continue
			}
		}

		if err := c.crawlOne(ctx, entry); err != nil {
			c.logger.Warn("page failed", "url", entry.URL, "error", err)
			if err := c.queue.SetState(ctx, entry.URL, storage.QueueStateFailed); err != nil {
				c.logger.Error("updating queue state", "url", entry.URL, "error", err)
			}
			continue
		}
		if err := c.queue.SetState(ctx, entry.URL, storage.QueueStateDone); err != nil {
			c.logger.Error("updating queue state", "url", entry.URL, "error", err)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func (c *Crawler) crawlOne(ctx context.Context, entry *storage.QueueEntry) error {
	pageURL, err := url.Parse(entry.URL)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}

	body, err := c.fetch(ctx, entry.URL)
	if err != nil {
		return err
	}

	title, markdown, err := c.conv.Convert(body)
	if err != nil {
		return fmt.Errorf("converting page: %w", err)
	}

	block, err := frontmatter.Build(map[string]any{
		"original_url": entry.URL,
		"scrape_date":  time.Now().UTC().Format(time.RFC3339),
		"title":        title,
	})
	if err != nil {
		return fmt.Errorf("building frontmatter: %w", err)
	}

	chunks, err := c.processor.ProcessDocument(ctx, entry.URL, block+markdown+"\n", entry.Hop)
	if err != nil {
		return fmt.Errorf("processing page: %w", err)
	}
	c.logger.Info("page crawled", "url", entry.URL, "hop", entry.Hop, "chunks", chunks)

	if entry.Hop >= c.opts.MaxHops {
		return nil
	}
	for _, link := range ExtractLinks(pageURL, body) {
		if SkipURL(link, c.opts.SkipPatterns) {
			continue
		}
		if err := c.queue.Enqueue(ctx, link, entry.Hop+1); err != nil {
			return fmt.Errorf("enqueueing link: %w", err)
		}
	}
	return nil
}

func (c *Crawler) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading page body: %w", err)
	}
	return body, nil
}
