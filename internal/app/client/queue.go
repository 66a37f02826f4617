package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	syncdomain "vitaltrack/internal/domain/sync"
)

// QueuedOperation wraps an operation with retry metadata.
type QueuedOperation struct {
	Operation  syncdomain.Operation `json:"operation"`
	QueuedAt   time.Time            `json:"queuedAt"`
	RetryCount int                  `json:"retryCount"`
	LastError  string               `json:"lastError,omitempty"`
}

// PushFunc sends one batch and reports per-operation results. A
// returned error means a transport failure: nothing was applied.
type PushFunc func(ctx context.Context, ops []syncdomain.Operation) (*syncdomain.PushResponse, error)

// Queue is the durable FIFO of operations awaiting transmission. Every
// enqueue and dequeue persists before returning, so a crash right
// after Enqueue never loses an operation.
type Queue struct {
	mu         sync.Mutex
	storage    Storage
	log        *slog.Logger
	items      []QueuedOperation
	maxRetries int
}

func NewQueue(storage Storage, log *slog.Logger, maxRetries int) *Queue {
	q := &Queue{
		storage:    storage,
		log:        log,
		maxRetries: maxRetries,
	}
	q.load()
	return q
}

func (q *Queue) load() {
	raw, ok, err := q.storage.Get(QueueKey)
	if err != nil {
		q.log.Warn("failed to read queue, starting empty", "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, &q.items); err != nil {
		q.log.Warn("failed to decode queue, starting empty", "error", err)
		q.items = nil
	}
}

// persist is called with the lock held.
func (q *Queue) persist() error {
	raw, err := json.Marshal(q.items)
	if err != nil {
		return fmt.Errorf("failed to encode queue: %w", err)
	}
	if err := q.storage.Put(QueueKey, raw); err != nil {
		return fmt.Errorf("failed to persist queue: %w", err)
	}
	return nil
}

func (q *Queue) Enqueue(op syncdomain.Operation) error {
	return q.EnqueueBatch([]syncdomain.Operation{op})
}

func (q *Queue) EnqueueBatch(ops []syncdomain.Operation) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now().UTC()
	for _, op := range ops {
		q.items = append(q.items, QueuedOperation{
			Operation: op,
			QueuedAt:  now,
		})
	}
	return q.persist()
}

// Dequeue removes the operation after a successful push.
func (q *Queue) Dequeue(operationID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.items {
		if q.items[i].Operation.OperationID == operationID {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return q.persist()
		}
	}
	return nil
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns the queued operations in FIFO order.
func (q *Queue) Snapshot() []QueuedOperation {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]QueuedOperation, len(q.items))
	copy(out, q.items)
	return out
}

// Clear drops all queued operations, used when switching users.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	if err := q.storage.Delete(QueueKey); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}

// Drain pushes all queued operations as one FIFO batch. Offline it
// returns {0, 0} without touching the queue so no retry budget burns
// on attempts that never happened; the same holds for a transport
// failure of the whole batch. Operations the server rejected retry on
// later drains until the ceiling, then they are dropped for good and
// counted as hard failures.
func (q *Queue) Drain(ctx context.Context, online bool, push PushFunc) (processed, failed int) {
	if !online {
		q.log.Debug("drain skipped, offline")
		return 0, 0
	}

	q.mu.Lock()
	batch := make([]syncdomain.Operation, len(q.items))
	for i := range q.items {
		batch[i] = q.items[i].Operation
	}
	q.mu.Unlock()

	if len(batch) == 0 {
		return 0, 0
	}

	resp, err := push(ctx, batch)
	if err != nil {
		q.log.Info("drain aborted, transport failure", "error", err, "queued", len(batch))
		return 0, 0
	}

	results := make(map[string]syncdomain.OperationResult, len(resp.Results))
	for _, res := range resp.Results {
		results[res.OperationID] = res
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	var kept []QueuedOperation
	for _, item := range q.items {
		res, answered := results[item.Operation.OperationID]
		if !answered {
			// Enqueued while the batch was in flight.
			kept = append(kept, item)
			continue
		}
		if res.Success {
			processed++
			continue
		}

		item.RetryCount++
		item.LastError = res.Error
		if item.RetryCount >= q.maxRetries {
			failed++
			q.log.Warn("operation dropped after retry ceiling",
				"operationId", item.Operation.OperationID,
				"kind", item.Operation.EntityKind,
				"retries", item.RetryCount,
				"lastError", item.LastError)
			continue
		}
		kept = append(kept, item)
	}
	q.items = kept

	if err := q.persist(); err != nil {
		q.log.Warn("failed to persist queue after drain", "error", err)
	}
	return processed, failed
}
