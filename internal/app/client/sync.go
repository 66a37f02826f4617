package client

import (
	"context"
	"sync"

	"golang.org/x/exp/slog"

	syncdomain "vitaltrack/internal/domain/sync"
)

// SyncState is the engine's externally visible phase.
type SyncState string

const (
	StateIdle    SyncState = "idle"
	StatePushing SyncState = "pushing"
	StatePulling SyncState = "pulling"
	StateError   SyncState = "error"
)

// SyncResult summarizes one sync cycle.
type SyncResult struct {
	Pushed    int
	Failed    int
	Pulled    bool
	Remaining int
}

// SyncEngine orchestrates a full cycle: drain the queue, then pull.
// Only one cycle runs at a time; a second SyncNow while one is in
// flight returns ErrSyncInProgress instead of queueing behind it.
type SyncEngine struct {
	syncMu sync.Mutex

	stateMu sync.Mutex
	state   SyncState

	store  *Store
	queue  *Queue
	gate   *Gate
	pusher *Pusher
	puller *Puller
	log    *slog.Logger
}

func NewSyncEngine(store *Store, queue *Queue, gate *Gate, pusher *Pusher, puller *Puller, log *slog.Logger) *SyncEngine {
	return &SyncEngine{
		state:  StateIdle,
		store:  store,
		queue:  queue,
		gate:   gate,
		pusher: pusher,
		puller: puller,
		log:    log,
	}
}

func (e *SyncEngine) State() SyncState {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.state
}

func (e *SyncEngine) setState(s SyncState) {
	e.stateMu.Lock()
	e.state = s
	e.stateMu.Unlock()
}

// SyncNow runs one push+pull cycle, or fails fast if one is already
// running.
func (e *SyncEngine) SyncNow(ctx context.Context) (*SyncResult, error) {
	if !e.syncMu.TryLock() {
		return nil, syncdomain.ErrSyncInProgress
	}
	defer e.syncMu.Unlock()

	return e.runSync(ctx), nil
}

func (e *SyncEngine) runSync(ctx context.Context) *SyncResult {
	online := e.gate.Online(ctx)

	e.setState(StatePushing)
	processed, failed := e.queue.Drain(ctx, online, e.pusher.PushFunc())

	res := &SyncResult{Pushed: processed, Failed: failed}

	if online {
		e.setState(StatePulling)
		res.Pulled = e.puller.Pull(ctx)
	}

	res.Remaining = e.queue.Size()

	if failed > 0 || (online && !res.Pulled) {
		e.setState(StateError)
	}
	// Error is transient: the trouble is reported through the result,
	// and the engine always comes to rest idle.
	e.setState(StateIdle)

	e.log.Info("sync cycle finished",
		"online", online,
		"pushed", res.Pushed,
		"failed", res.Failed,
		"pulled", res.Pulled,
		"remaining", res.Remaining,
	)
	return res
}

// LoadUserData binds the store to the given user, wiping local state
// first when the device previously held another user's data, then runs
// a best-effort initial sync. Waits for any in-flight cycle.
func (e *SyncEngine) LoadUserData(ctx context.Context, userID string) *SyncResult {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	if e.store.UserID() != userID {
		e.log.Info("device owner changed, clearing local data", "user", userID)
		e.store.Clear()
		if err := e.queue.Clear(); err != nil {
			e.log.Warn("failed to clear persisted queue", "error", err)
		}
	}
	e.store.SeedUser(userID)

	return e.runSync(ctx)
}

// Flush drains the queue once, waiting for any in-flight cycle first.
// Used before logout; anything that cannot be delivered stays queued
// on disk.
func (e *SyncEngine) Flush(ctx context.Context) (processed, failed int) {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	return e.queue.Drain(ctx, e.gate.Online(ctx), e.pusher.PushFunc())
}
