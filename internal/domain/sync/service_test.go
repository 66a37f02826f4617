package sync

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"vitaltrack/internal/app/server/api/http/middleware/auth"
	"vitaltrack/internal/domain/inventory"
)

// fakeRepo is an in-memory Repository keyed by sync key, enough to
// exercise the upsert and tombstone semantics.
type fakeRepo struct {
	categories map[string]inventory.Category
	items      map[string]inventory.Item
	orders     map[string]inventory.Order
	deleted    []string
	applied    []inventory.Kind
	activity   []inventory.ActivityEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories: make(map[string]inventory.Category),
		items:      make(map[string]inventory.Item),
		orders:     make(map[string]inventory.Order),
	}
}

func (f *fakeRepo) UpsertCategory(_ context.Context, _ int, c inventory.Category) (string, error) {
	f.categories[c.SyncKey] = c
	f.applied = append(f.applied, inventory.KindCategory)
	return "srv-" + c.SyncKey, nil
}

func (f *fakeRepo) UpsertItem(_ context.Context, _ int, it inventory.Item) (string, error) {
	f.items[it.SyncKey] = it
	f.applied = append(f.applied, inventory.KindItem)
	return "srv-" + it.SyncKey, nil
}

func (f *fakeRepo) UpsertOrder(_ context.Context, _ int, o inventory.Order) (string, error) {
	f.orders[o.SyncKey] = o
	f.applied = append(f.applied, inventory.KindOrder)
	return "srv-" + o.SyncKey, nil
}

func (f *fakeRepo) DeleteEntity(_ context.Context, _ int, kind inventory.Kind, syncKey string) error {
	switch kind {
	case inventory.KindCategory:
		delete(f.categories, syncKey)
	case inventory.KindItem:
		delete(f.items, syncKey)
	case inventory.KindOrder:
		delete(f.orders, syncKey)
	}
	f.deleted = append(f.deleted, syncKey)
	return nil
}

func (f *fakeRepo) ListCategories(_ context.Context, _ int, _ *time.Time) ([]inventory.Category, error) {
	out := make([]inventory.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) ListItems(_ context.Context, _ int, _ *time.Time) ([]inventory.Item, error) {
	out := make([]inventory.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeRepo) ListOrders(_ context.Context, _ int, _ *time.Time) ([]inventory.Order, error) {
	out := make([]inventory.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) ListDeleted(_ context.Context, _ int, _ *time.Time) ([]string, error) {
	return f.deleted, nil
}

func (f *fakeRepo) RecordActivity(_ context.Context, _ int, e inventory.ActivityEntry) error {
	f.activity = append(f.activity, e)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedCtx() context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, 1)
}

func mustOp(t *testing.T, opType OperationType, kind inventory.Kind, id string, payload any) Operation {
	t.Helper()
	op, err := NewOperation(opType, kind, id, "", payload)
	require.NoError(t, err)
	return op
}

func TestPushAppliesOperations(t *testing.T) {
	// Arrange
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())

	catOp := mustOp(t, OpCreate, inventory.KindCategory, "c1", inventory.Category{ID: "c1", Name: "Respiratory", IsActive: true})
	itemOp := mustOp(t, OpCreate, inventory.KindItem, "i1", inventory.Item{ID: "i1", CategoryID: "c1", Name: "CPAP filter", Quantity: 3, IsActive: true})

	// Act
	resp, err := svc.Push(authedCtx(), PushRequest{Operations: []Operation{catOp, itemOp}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SuccessCount)
	assert.Equal(t, 0, resp.ErrorCount)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, catOp.OperationID, resp.Results[0].OperationID)
	assert.Equal(t, "srv-c1", resp.Results[0].ServerID)
	assert.True(t, resp.Results[1].Success)
	assert.Contains(t, repo.items, "i1")
}

func TestPushIdempotence(t *testing.T) {
	// Applying the same create twice must leave the same single row.
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())

	op := mustOp(t, OpCreate, inventory.KindItem, "i1", inventory.Item{ID: "i1", Name: "Nebulizer kit", Quantity: 2, IsActive: true})

	_, err := svc.Push(authedCtx(), PushRequest{Operations: []Operation{op}})
	require.NoError(t, err)
	first := repo.items["i1"]

	resp, err := svc.Push(authedCtx(), PushRequest{Operations: []Operation{op}})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SuccessCount)
	assert.Len(t, repo.items, 1)
	assert.Equal(t, first, repo.items["i1"])
}

func TestPushProcessesCategoriesFirst(t *testing.T) {
	// Request lists the item before its category; apply order must
	// still be category first, while results keep request order.
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())

	itemOp := mustOp(t, OpCreate, inventory.KindItem, "i1", inventory.Item{ID: "i1", CategoryID: "c1", Name: "Mask", IsActive: true})
	catOp := mustOp(t, OpCreate, inventory.KindCategory, "c1", inventory.Category{ID: "c1", Name: "Respiratory", IsActive: true})

	resp, err := svc.Push(authedCtx(), PushRequest{Operations: []Operation{itemOp, catOp}})

	require.NoError(t, err)
	assert.Equal(t, []inventory.Kind{inventory.KindCategory, inventory.KindItem}, repo.applied)
	assert.Equal(t, itemOp.OperationID, resp.Results[0].OperationID)
	assert.Equal(t, catOp.OperationID, resp.Results[1].OperationID)
}

func TestPushPartialFailure(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())

	good := mustOp(t, OpCreate, inventory.KindCategory, "c1", inventory.Category{ID: "c1", Name: "Respiratory"})
	bad := Operation{
		OperationID: "bad-op",
		Type:        OpCreate,
		EntityKind:  inventory.KindItem,
		EntityID:    "i1",
		SyncKey:     "i1",
		Payload:     json.RawMessage(`{"quantity":"not a number"}`),
		EncodedAt:   time.Now(),
	}

	resp, err := svc.Push(authedCtx(), PushRequest{Operations: []Operation{good, bad}})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, 1, resp.ErrorCount)
	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
	assert.NotEmpty(t, resp.Results[1].Error)
}

func TestPushDeleteIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())

	del := mustOp(t, OpDelete, inventory.KindItem, "missing", nil)

	resp, err := svc.Push(authedCtx(), PushRequest{Operations: []Operation{del}})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Contains(t, repo.deleted, "missing")
}

func TestPushUnauthenticated(t *testing.T) {
	svc := NewService(newFakeRepo(), testLogger())

	_, err := svc.Push(context.Background(), PushRequest{})

	assert.Error(t, err)
}

func TestPullReturnsEntitiesAndTombstones(t *testing.T) {
	// Arrange
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())
	repo.categories["c1"] = inventory.Category{ID: "c1", SyncKey: "c1", Name: "Respiratory", IsActive: true}
	repo.items["i1"] = inventory.Item{ID: "i1", SyncKey: "i1", Name: "Mask", IsActive: true}
	repo.deleted = []string{"gone"}

	// Act
	resp, err := svc.Pull(authedCtx(), PullRequest{IncludeDeleted: true})

	// Assert
	require.NoError(t, err)
	assert.Len(t, resp.Categories, 1)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, []string{"gone"}, resp.DeletedIDs)
	assert.False(t, resp.HasMore)
	assert.False(t, resp.ServerTime.IsZero())
}

func TestPullSkipsTombstonesWhenNotRequested(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())
	repo.deleted = []string{"gone"}

	resp, err := svc.Pull(authedCtx(), PullRequest{IncludeDeleted: false})

	require.NoError(t, err)
	assert.Empty(t, resp.DeletedIDs)
}
