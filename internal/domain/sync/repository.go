package sync

import (
	"context"
	"time"

	"vitaltrack/internal/domain/inventory"
)

// Repository persists per-user inventory state keyed by sync key.
// Upserts are create-or-update on (userID, syncKey) and return the
// server row id; deletes are idempotent and record a tombstone.
type Repository interface {
	UpsertCategory(ctx context.Context, userID int, category inventory.Category) (string, error)
	UpsertItem(ctx context.Context, userID int, item inventory.Item) (string, error)
	UpsertOrder(ctx context.Context, userID int, order inventory.Order) (string, error)
	DeleteEntity(ctx context.Context, userID int, kind inventory.Kind, syncKey string) error

	ListCategories(ctx context.Context, userID int, since *time.Time) ([]inventory.Category, error)
	ListItems(ctx context.Context, userID int, since *time.Time) ([]inventory.Item, error)
	ListOrders(ctx context.Context, userID int, since *time.Time) ([]inventory.Order, error)
	ListDeleted(ctx context.Context, userID int, since *time.Time) ([]string, error)

	RecordActivity(ctx context.Context, userID int, entry inventory.ActivityEntry) error
}
