package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"vitaltrack/internal/app/client/config"
	"vitaltrack/internal/domain/inventory"
	syncdomain "vitaltrack/internal/domain/sync"
)

// fakeServer implements the push/pull contract over httptest: it
// acknowledges every pushed operation and serves a fixed pull window.
type fakeServer struct {
	mu       sync.Mutex
	pushed   []syncdomain.Operation
	pullResp syncdomain.PullResponse
	failPush bool
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/sync/push", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.failPush {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var req syncdomain.PushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.pushed = append(f.pushed, req.Operations...)

		resp := syncdomain.PushResponse{ServerTime: time.Now().UTC()}
		for _, op := range req.Operations {
			resp.Results = append(resp.Results, syncdomain.OperationResult{
				OperationID: op.OperationID,
				Success:     true,
				ServerID:    "srv-" + op.EntityID,
			})
			resp.SuccessCount++
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/api/sync/pull", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.pullResp)
	})
	return mux
}

type syncFixture struct {
	engine *SyncEngine
	store  *Store
	queue  *Queue
	gate   *Gate
	server *fakeServer
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	fake := &fakeServer{
		pullResp: syncdomain.PullResponse{ServerTime: time.Now().UTC()},
	}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerAddress: strings.TrimPrefix(srv.URL, "http://"),
		SyncTimeout:   5,
		MaxRetries:    5,
	}

	log := testLogger()
	storage := NewMemoryStorage()
	store := NewStore(storage, log)
	queue := NewQueue(storage, log, cfg.MaxRetries)
	transport := NewHTTPClient(cfg, log)
	gate := NewGate(transport, log)
	pusher := NewPusher(transport, store, log)
	puller := NewPuller(transport, store, log)

	return &syncFixture{
		engine: NewSyncEngine(store, queue, gate, pusher, puller, log),
		store:  store,
		queue:  queue,
		gate:   gate,
		server: fake,
	}
}

func TestSyncEngine_FullCycle(t *testing.T) {
	// Arrange: offline edits queue up first.
	f := newSyncFixture(t)
	f.gate.SetOverride(false)

	require.NoError(t, f.queue.Enqueue(testOperation(t, "item-1")))
	require.NoError(t, f.queue.Enqueue(testOperation(t, "item-2")))

	res, err := f.engine.SyncNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Pushed)
	assert.Equal(t, 2, res.Remaining)

	serverTime := time.Now().UTC().Truncate(time.Second)
	f.server.mu.Lock()
	f.server.pullResp = syncdomain.PullResponse{
		Items:      []inventory.Item{{ID: "remote-1", Name: "Pulse oximeter", Quantity: 2, IsActive: true}},
		ServerTime: serverTime,
	}
	f.server.mu.Unlock()

	// Act: connectivity returns.
	f.gate.SetOverride(true)
	res, err = f.engine.SyncNow(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pushed)
	assert.Equal(t, 0, res.Failed)
	assert.True(t, res.Pulled)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 0, f.queue.Size())

	f.server.mu.Lock()
	assert.Len(t, f.server.pushed, 2)
	f.server.mu.Unlock()

	require.NotNil(t, f.store.Item("remote-1"))
	require.NotNil(t, f.store.Watermark())
	assert.True(t, f.store.Watermark().Equal(serverTime))
}

func TestSyncEngine_RejectsConcurrentSync(t *testing.T) {
	// Arrange: simulate an in-flight cycle by holding the sync lock.
	f := newSyncFixture(t)
	f.engine.syncMu.Lock()
	defer f.engine.syncMu.Unlock()

	// Act
	_, err := f.engine.SyncNow(context.Background())

	// Assert
	assert.ErrorIs(t, err, syncdomain.ErrSyncInProgress)
}

func TestSyncEngine_FlushKeepsQueueOnServerFailure(t *testing.T) {
	// Arrange
	f := newSyncFixture(t)
	f.server.failPush = true
	f.gate.SetOverride(true)
	require.NoError(t, f.queue.Enqueue(testOperation(t, "item-1")))

	// Act
	processed, failed := f.engine.Flush(context.Background())

	// Assert: transport-level failure, nothing consumed or counted.
	assert.Equal(t, 0, processed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 1, f.queue.Size())
	assert.Equal(t, 0, f.queue.Snapshot()[0].RetryCount)
}

func TestSyncEngine_LoadUserDataWipesOnUserSwitch(t *testing.T) {
	// Arrange: device holds alice's data and pending operations.
	f := newSyncFixture(t)
	f.gate.SetOverride(false)
	f.store.SeedUser("alice")
	f.store.CreateItem(inventory.Item{Name: "Mask", Quantity: 1, MinimumStock: 1})
	require.NoError(t, f.queue.Enqueue(testOperation(t, "item-1")))

	// Act
	f.engine.LoadUserData(context.Background(), "bob")

	// Assert
	assert.Equal(t, "bob", f.store.UserID())
	assert.Empty(t, f.store.ActiveItems())
	assert.Equal(t, 0, f.queue.Size())
}

// failingDeleteStorage drops Delete calls on the floor with an error.
type failingDeleteStorage struct {
	*MemoryStorage
}

func (f *failingDeleteStorage) Delete(string) error {
	return assert.AnError
}

func TestSyncEngine_LoadUserDataReportsFailedQueueWipe(t *testing.T) {
	// Arrange: alice's queue sits on storage that refuses to wipe.
	var logBuf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logBuf, nil))

	storage := &failingDeleteStorage{MemoryStorage: NewMemoryStorage()}
	store := NewStore(storage, log)
	queue := NewQueue(storage, log, 5)
	cfg := &config.Config{ServerAddress: "localhost:1", SyncTimeout: 5, MaxRetries: 5}
	transport := NewHTTPClient(cfg, log)
	gate := NewGate(transport, log)
	gate.SetOverride(false)
	engine := NewSyncEngine(store, queue, gate, NewPusher(transport, store, log), NewPuller(transport, store, log), log)

	store.SeedUser("alice")
	require.NoError(t, queue.Enqueue(testOperation(t, "item-1")))

	// Act
	engine.LoadUserData(context.Background(), "bob")

	// Assert: the switch completes and the failed wipe is visible.
	assert.Equal(t, "bob", store.UserID())
	assert.Equal(t, 0, queue.Size())
	assert.Contains(t, logBuf.String(), "failed to clear persisted queue")
}

func TestSyncEngine_LoadUserDataKeepsQueueForSameUser(t *testing.T) {
	// Arrange
	f := newSyncFixture(t)
	f.gate.SetOverride(false)
	f.store.SeedUser("alice")
	require.NoError(t, f.queue.Enqueue(testOperation(t, "item-1")))

	// Act: logging back in as the same user keeps offline work.
	f.engine.LoadUserData(context.Background(), "alice")

	// Assert
	assert.Equal(t, 1, f.queue.Size())
}

func TestSyncEngine_PullFailureDoesNotAdvanceWatermark(t *testing.T) {
	// Arrange: push succeeds but pull misbehaves.
	f := newSyncFixture(t)
	f.gate.SetOverride(true)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/pull") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(syncdomain.PushResponse{ServerTime: time.Now().UTC()})
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{ServerAddress: strings.TrimPrefix(srv.URL, "http://"), SyncTimeout: 5, MaxRetries: 5}
	log := testLogger()
	storage := NewMemoryStorage()
	store := NewStore(storage, log)
	queue := NewQueue(storage, log, cfg.MaxRetries)
	transport := NewHTTPClient(cfg, log)
	gate := NewGate(transport, log)
	gate.SetOverride(true)
	engine := NewSyncEngine(store, queue, gate, NewPusher(transport, store, log), NewPuller(transport, store, log), log)

	// Act
	res, err := engine.SyncNow(context.Background())

	// Assert: the failure surfaces in the result and the engine comes
	// to rest idle, ready for the next cycle.
	require.NoError(t, err)
	assert.False(t, res.Pulled)
	assert.Nil(t, store.Watermark())
	assert.Equal(t, StateIdle, engine.State())
}
