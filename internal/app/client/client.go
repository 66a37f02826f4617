package client

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/slog"

	"vitaltrack/internal/app/client/config"
	"vitaltrack/internal/domain/inventory"
	syncdomain "vitaltrack/internal/domain/sync"
)

// App wires the offline engine together and is the single entry point
// the CLI commands talk to.
type App struct {
	cfg       *config.Config
	log       *slog.Logger
	storage   Storage
	store     *Store
	queue     *Queue
	encoder   *Encoder
	transport Transport
	gate      *Gate
	sync      *SyncEngine
}

func New(cfg *config.Config, log *slog.Logger) *App {
	var storage Storage
	sqlite, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		log.Warn("sqlite unavailable, falling back to in-memory storage", "error", err)
		storage = NewMemoryStorage()
	} else {
		storage = sqlite
	}

	store := NewStore(storage, log)
	queue := NewQueue(storage, log, cfg.MaxRetries)
	transport := NewHTTPClient(cfg, log)
	gate := NewGate(transport, log)
	pusher := NewPusher(transport, store, log)
	puller := NewPuller(transport, store, log)

	app := &App{
		cfg:       cfg,
		log:       log,
		storage:   storage,
		store:     store,
		queue:     queue,
		encoder:   NewEncoder(),
		transport: transport,
		gate:      gate,
		sync:      NewSyncEngine(store, queue, gate, pusher, puller, log),
	}

	if token := app.loadToken(); token != "" {
		transport.SetToken(token)
	}
	return app
}

func (a *App) Close() error {
	return a.storage.Close()
}

// --- auth ---

func (a *App) Register(ctx context.Context, login, password string) error {
	if _, err := a.transport.Register(ctx, login, password); err != nil {
		return err
	}
	return a.Login(ctx, login, password)
}

func (a *App) Login(ctx context.Context, login, password string) error {
	token, err := a.transport.Login(ctx, login, password)
	if err != nil {
		return err
	}
	a.transport.SetToken(token)
	if err := a.saveToken(token); err != nil {
		a.log.Warn("failed to persist token", "error", err)
	}

	a.sync.LoadUserData(ctx, login)
	return nil
}

// Logout flushes pending operations first so nothing recorded offline
// is lost, then revokes the session. Undeliverable operations stay
// queued on disk.
func (a *App) Logout(ctx context.Context) error {
	processed, failed := a.sync.Flush(ctx)
	a.log.Info("pre-logout flush", "processed", processed, "failed", failed, "remaining", a.queue.Size())

	if err := a.transport.Logout(ctx); err != nil {
		a.log.Warn("server logout failed, clearing session locally", "error", err)
	}
	a.transport.SetToken("")
	return a.deleteToken()
}

func (a *App) LoggedIn() bool {
	return a.loadToken() != ""
}

// --- sync ---

func (a *App) SyncNow(ctx context.Context) (*SyncResult, error) {
	return a.sync.SyncNow(ctx)
}

func (a *App) SyncState() SyncState { return a.sync.State() }

func (a *App) LastSyncAt() *time.Time { return a.store.Watermark() }

func (a *App) QueueSize() int { return a.queue.Size() }
func (a *App) Online(ctx context.Context) bool {
	return a.gate.Online(ctx)
}

// ForceOffline pins the connectivity gate, e.g. airplane mode.
func (a *App) ForceOffline() { a.gate.SetOverride(false) }

// AutoDetect returns the gate to probe-based connectivity.
func (a *App) AutoDetect() { a.gate.ClearOverride() }

// EnqueueLegacy converts a nested create/update/delete batch into
// canonical operations and queues them.
func (a *App) EnqueueLegacy(batch syncdomain.LegacyBatch) (int, error) {
	ops, err := batch.Operations()
	if err != nil {
		return 0, err
	}
	if err := a.queue.EnqueueBatch(ops); err != nil {
		return 0, err
	}
	return len(ops), nil
}

// --- categories ---

func (a *App) CreateCategory(name, description string) (*inventory.Category, error) {
	c := a.store.CreateCategory(name, description)
	return c, a.enqueue(a.encoder.Category(syncdomain.OpCreate, *c))
}

func (a *App) UpdateCategory(id string, mutate func(*inventory.Category)) (*inventory.Category, error) {
	c := a.store.UpdateCategory(id, mutate)
	if c == nil {
		return nil, fmt.Errorf("category %q: %w", id, inventory.ErrNotFound)
	}
	return c, a.enqueue(a.encoder.Category(syncdomain.OpUpdate, *c))
}

func (a *App) DeleteCategory(id string) error {
	c := a.store.DeleteCategory(id)
	if c == nil {
		return fmt.Errorf("category %q: %w", id, inventory.ErrNotFound)
	}
	return a.enqueue(a.encoder.Category(syncdomain.OpDelete, *c))
}

func (a *App) Categories() []inventory.Category { return a.store.ActiveCategories() }

// --- items ---

func (a *App) CreateItem(it inventory.Item) (*inventory.Item, error) {
	created := a.store.CreateItem(it)
	return created, a.enqueue(a.encoder.Item(syncdomain.OpCreate, *created))
}

func (a *App) UpdateItem(id string, mutate func(*inventory.Item)) (*inventory.Item, error) {
	it := a.store.UpdateItem(id, mutate)
	if it == nil {
		return nil, fmt.Errorf("item %q: %w", id, inventory.ErrNotFound)
	}
	return it, a.enqueue(a.encoder.Item(syncdomain.OpUpdate, *it))
}

func (a *App) DeleteItem(id string) error {
	it := a.store.DeleteItem(id)
	if it == nil {
		return fmt.Errorf("item %q: %w", id, inventory.ErrNotFound)
	}
	return a.enqueue(a.encoder.Item(syncdomain.OpDelete, *it))
}

func (a *App) UpdateStock(id string, delta int) (*inventory.Item, error) {
	it := a.store.UpdateStock(id, delta)
	if it == nil {
		return nil, fmt.Errorf("item %q: %w", id, inventory.ErrNotFound)
	}
	return it, a.enqueue(a.encoder.Item(syncdomain.OpUpdate, *it))
}

func (a *App) Item(id string) *inventory.Item { return a.store.Item(id) }

func (a *App) Items() []inventory.Item { return a.store.ActiveItems() }

func (a *App) LowStockItems() []inventory.Item { return a.store.LowStockItems() }

func (a *App) OutOfStockItems() []inventory.Item { return a.store.OutOfStockItems() }

func (a *App) Stats() inventory.Stats { return a.store.Stats() }

func (a *App) Activity(n int) []inventory.ActivityEntry { return a.store.Activity(n) }

// --- orders ---

func (a *App) CreateOrder(lines []inventory.OrderLine) (*inventory.Order, error) {
	o := a.store.CreateOrder(lines)
	return o, a.enqueue(a.encoder.Order(syncdomain.OpCreate, *o))
}

func (a *App) TransitionOrder(id string, next inventory.OrderStatus) (*inventory.Order, error) {
	o, err := a.store.TransitionOrder(id, next)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("order %q: %w", id, inventory.ErrNotFound)
	}
	return o, a.enqueue(a.encoder.Order(syncdomain.OpUpdate, *o))
}

func (a *App) Orders() []inventory.Order { return a.store.ActiveOrders() }

func (a *App) enqueue(op syncdomain.Operation, err error) error {
	if err != nil {
		return fmt.Errorf("failed to encode operation: %w", err)
	}
	return a.queue.Enqueue(op)
}

// --- token persistence ---

func (a *App) loadToken() string {
	data, err := os.ReadFile(a.cfg.TokenPath)
	if err != nil {
		return ""
	}
	return string(data)
}

func (a *App) saveToken(token string) error {
	return os.WriteFile(a.cfg.TokenPath, []byte(token), 0o600)
}

func (a *App) deleteToken() error {
	if err := os.Remove(a.cfg.TokenPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
