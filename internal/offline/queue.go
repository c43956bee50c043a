package offline

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// QueueItem is one action captured while offline, typed so the replay side
// knows which endpoint to hit.
type QueueItem struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// DeliverFunc replays a single item against the backend.
type DeliverFunc func(ctx context.Context, item QueueItem) error

// SyncQueue holds unsent actions in FIFO order. Replay is at-least-once:
// a delivered item may have partially applied before a reported failure, and
// there is no idempotency key to dedupe the retry.
type SyncQueue struct {
	mu    sync.Mutex
	items []QueueItem
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// NewSyncQueueFromSnapshot restores a queue persisted by Snapshot.
func NewSyncQueueFromSnapshot(snapshot []byte) (*SyncQueue, error) {
	q := &SyncQueue{}
	if len(snapshot) == 0 {
		return q, nil
	}
	if err := json.Unmarshal(snapshot, &q.items); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *SyncQueue) Enqueue(itemType string, payload any) (QueueItem, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return QueueItem{}, err
	}

	item := QueueItem{
		ID:         uuid.NewString(),
		Type:       itemType,
		Payload:    encoded,
		EnqueuedAt: time.Now().UTC(),
	}

	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	return item, nil
}

func (q *SyncQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *SyncQueue) Items() []QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]QueueItem(nil), q.items...)
}

// Flush replays every queued item in insertion order. Items whose delivery
// succeeds are removed; items that fail stay queued, in order, for the next
// flush. The returned error joins all delivery failures.
func (q *SyncQueue) Flush(ctx context.Context, deliver DeliverFunc) error {
	q.mu.Lock()
	pending := q.items
	q.items = nil
	q.mu.Unlock()

	var failed []QueueItem
	var errs []error
	for _, item := range pending {
		if err := ctx.Err(); err != nil {
			failed = append(failed, item)
			continue
		}
		if err := deliver(ctx, item); err != nil {
			failed = append(failed, item)
			errs = append(errs, err)
			continue
		}
	}

	q.mu.Lock()
	// items enqueued during the flush stay behind the retries
	q.items = append(failed, q.items...)
	q.mu.Unlock()

	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	return errors.Join(errs...)
}

// Snapshot serializes the queue for persistence across restarts.
func (q *SyncQueue) Snapshot() ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return json.Marshal([]QueueItem{})
	}
	return json.Marshal(q.items)
}
