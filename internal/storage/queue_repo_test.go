package storage

import (
	"context"
	"testing"
)

func testQueue(t *testing.T) *QueueRepo {
	t.Helper()
	dbPath := t.TempDir() + "/test.db"

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return NewQueueRepo(db)
}

func TestQueueRepo_EnqueueAndNext(t *testing.T) {
	queue := testQueue(t)
	ctx := context.Background()

	if err := queue.Enqueue(ctx, "https://example.com/1", 0); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := queue.Enqueue(ctx, "https://example.com/2", 1); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	entry, err := queue.NextPending(ctx)
	if err != nil {
		t.Fatalf("NextPending() error = %v", err)
	}
	if entry.URL != "https://example.com/1" || entry.Hop != 0 {
		t.Errorf("NextPending() = %+v, want the first enqueued URL", entry)
	}
}

func TestQueueRepo_EnqueueDuplicateKeepsOriginal(t *testing.T) {
	queue := testQueue(t)
	ctx := context.Background()

	if err := queue.Enqueue(ctx, "https://example.com/1", 0); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := queue.SetState(ctx, "https://example.com/1", QueueStateDone); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	// Re-enqueueing a handled URL must not make it pending again.
	if err := queue.Enqueue(ctx, "https://example.com/1", 2); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if _, err := queue.NextPending(ctx); err != ErrNotFound {
		t.Errorf("NextPending() error = %v, want ErrNotFound", err)
	}
}

func TestQueueRepo_StateTransitions(t *testing.T) {
	queue := testQueue(t)
	ctx := context.Background()

	urls := []string{"https://example.com/a", "https://example.com/b"}
	for _, u := range urls {
		if err := queue.Enqueue(ctx, u, 0); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
	}

	n, err := queue.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountPending() = %d, want 2", n)
	}

	if err := queue.SetState(ctx, urls[0], QueueStateDone); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if err := queue.SetState(ctx, urls[1], QueueStateFailed); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	if _, err := queue.NextPending(ctx); err != ErrNotFound {
		t.Errorf("NextPending() after drain error = %v, want ErrNotFound", err)
	}
	n, err = queue.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CountPending() = %d, want 0", n)
	}
}
