package client

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"vitaltrack/internal/domain/inventory"
	syncdomain "vitaltrack/internal/domain/sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOperation(t *testing.T, entityID string) syncdomain.Operation {
	t.Helper()
	op, err := syncdomain.NewOperation(syncdomain.OpCreate, inventory.KindItem, entityID, "", inventory.Item{
		ID:   entityID,
		Name: "Oxygen mask",
	})
	require.NoError(t, err)
	return op
}

func allSuccess(ops []syncdomain.Operation) *syncdomain.PushResponse {
	resp := &syncdomain.PushResponse{}
	for _, op := range ops {
		resp.Results = append(resp.Results, syncdomain.OperationResult{
			OperationID: op.OperationID,
			Success:     true,
		})
		resp.SuccessCount++
	}
	return resp
}

func allRejected(ops []syncdomain.Operation) *syncdomain.PushResponse {
	resp := &syncdomain.PushResponse{}
	for _, op := range ops {
		resp.Results = append(resp.Results, syncdomain.OperationResult{
			OperationID: op.OperationID,
			Success:     false,
			Error:       "validation failed",
		})
		resp.ErrorCount++
	}
	return resp
}

func TestQueue_SurvivesRestart(t *testing.T) {
	// Arrange
	storage := NewMemoryStorage()
	q := NewQueue(storage, testLogger(), 5)
	op := testOperation(t, "item-1")
	require.NoError(t, q.Enqueue(op))

	// Act: a new queue over the same storage simulates a restart.
	reopened := NewQueue(storage, testLogger(), 5)

	// Assert
	require.Equal(t, 1, reopened.Size())
	assert.Equal(t, op.OperationID, reopened.Snapshot()[0].Operation.OperationID)
}

func TestQueue_DrainOffline(t *testing.T) {
	// Arrange
	q := NewQueue(NewMemoryStorage(), testLogger(), 5)
	require.NoError(t, q.Enqueue(testOperation(t, "item-1")))

	// Act
	processed, failed := q.Drain(context.Background(), false, func(_ context.Context, _ []syncdomain.Operation) (*syncdomain.PushResponse, error) {
		t.Fatal("push must not be called while offline")
		return nil, nil
	})

	// Assert: queue and retry budget untouched.
	assert.Equal(t, 0, processed)
	assert.Equal(t, 0, failed)
	require.Equal(t, 1, q.Size())
	assert.Equal(t, 0, q.Snapshot()[0].RetryCount)
}

func TestQueue_DrainTransportFailure(t *testing.T) {
	// Arrange
	q := NewQueue(NewMemoryStorage(), testLogger(), 5)
	require.NoError(t, q.Enqueue(testOperation(t, "item-1")))

	// Act
	processed, failed := q.Drain(context.Background(), true, func(_ context.Context, _ []syncdomain.Operation) (*syncdomain.PushResponse, error) {
		return nil, assert.AnError
	})

	// Assert: a failed transmission is not a failed operation.
	assert.Equal(t, 0, processed)
	assert.Equal(t, 0, failed)
	require.Equal(t, 1, q.Size())
	assert.Equal(t, 0, q.Snapshot()[0].RetryCount)
}

func TestQueue_DrainSuccessRemovesOperations(t *testing.T) {
	// Arrange
	q := NewQueue(NewMemoryStorage(), testLogger(), 5)
	require.NoError(t, q.EnqueueBatch([]syncdomain.Operation{
		testOperation(t, "item-1"),
		testOperation(t, "item-2"),
	}))

	// Act
	processed, failed := q.Drain(context.Background(), true, func(_ context.Context, ops []syncdomain.Operation) (*syncdomain.PushResponse, error) {
		return allSuccess(ops), nil
	})

	// Assert
	assert.Equal(t, 2, processed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 0, q.Size())
}

func TestQueue_DrainPreservesFIFOOrder(t *testing.T) {
	// Arrange
	q := NewQueue(NewMemoryStorage(), testLogger(), 5)
	first := testOperation(t, "item-1")
	second := testOperation(t, "item-2")
	third := testOperation(t, "item-3")
	require.NoError(t, q.EnqueueBatch([]syncdomain.Operation{first, second, third}))

	var sent []string

	// Act
	q.Drain(context.Background(), true, func(_ context.Context, ops []syncdomain.Operation) (*syncdomain.PushResponse, error) {
		for _, op := range ops {
			sent = append(sent, op.OperationID)
		}
		return allSuccess(ops), nil
	})

	// Assert
	assert.Equal(t, []string{first.OperationID, second.OperationID, third.OperationID}, sent)
}

func TestQueue_RetryCeilingDropsOperation(t *testing.T) {
	// Arrange
	const maxRetries = 3
	q := NewQueue(NewMemoryStorage(), testLogger(), maxRetries)
	require.NoError(t, q.Enqueue(testOperation(t, "item-1")))

	reject := func(_ context.Context, ops []syncdomain.Operation) (*syncdomain.PushResponse, error) {
		return allRejected(ops), nil
	}

	// Act + Assert: stays queued until the ceiling.
	for attempt := 1; attempt < maxRetries; attempt++ {
		processed, failed := q.Drain(context.Background(), true, reject)
		assert.Equal(t, 0, processed)
		assert.Equal(t, 0, failed)
		require.Equal(t, 1, q.Size())
		assert.Equal(t, attempt, q.Snapshot()[0].RetryCount)
		assert.Equal(t, "validation failed", q.Snapshot()[0].LastError)
	}

	processed, failed := q.Drain(context.Background(), true, reject)
	assert.Equal(t, 0, processed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, q.Size())
}

func TestQueue_DrainKeepsUnansweredOperations(t *testing.T) {
	// Arrange
	q := NewQueue(NewMemoryStorage(), testLogger(), 5)
	answered := testOperation(t, "item-1")
	late := testOperation(t, "item-2")
	require.NoError(t, q.Enqueue(answered))

	// Act: the second operation lands while the batch is in flight, so
	// the response does not cover it.
	processed, failed := q.Drain(context.Background(), true, func(_ context.Context, ops []syncdomain.Operation) (*syncdomain.PushResponse, error) {
		require.NoError(t, q.Enqueue(late))
		return allSuccess(ops), nil
	})

	// Assert
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, failed)
	require.Equal(t, 1, q.Size())
	assert.Equal(t, late.OperationID, q.Snapshot()[0].Operation.OperationID)
}

func TestQueue_ClearDropsEverything(t *testing.T) {
	// Arrange
	storage := NewMemoryStorage()
	q := NewQueue(storage, testLogger(), 5)
	require.NoError(t, q.Enqueue(testOperation(t, "item-1")))

	// Act
	require.NoError(t, q.Clear())

	// Assert
	assert.Equal(t, 0, q.Size())
	assert.Equal(t, 0, NewQueue(storage, testLogger(), 5).Size())
}
