package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"vitaltrack/internal/app/server/api/http/middleware/auth"
	"vitaltrack/internal/domain/inventory"
)

// Servicer handles the push/pull sync contract on the server side.
type Servicer interface {
	// Push applies a batch of client operations, answering each one
	// individually.
	Push(ctx context.Context, req PushRequest) (*PushResponse, error)

	// Pull returns the user's entities changed since the watermark.
	Pull(ctx context.Context, req PullRequest) (*PullResponse, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// kindRank orders operations so referenced entities land first:
// categories before the items pointing at them, orders last.
func kindRank(k inventory.Kind) int {
	switch k {
	case inventory.KindCategory:
		return 0
	case inventory.KindItem:
		return 1
	default:
		return 2
	}
}

// Push applies every operation independently. One bad operation never
// fails the batch; its result carries the error instead. Results align
// one to one with the request operations, in request order.
func (s *Service) Push(ctx context.Context, req PushRequest) (*PushResponse, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, fmt.Errorf("user not authenticated")
	}

	ordered := make([]Operation, len(req.Operations))
	copy(ordered, req.Operations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return kindRank(ordered[i].EntityKind) < kindRank(ordered[j].EntityKind)
	})

	resultsByOp := make(map[string]OperationResult, len(ordered))
	for _, op := range ordered {
		res := OperationResult{OperationID: op.OperationID, Success: true}

		serverID, err := s.apply(ctx, userID, op)
		if err != nil {
			res.Success = false
			res.Error = err.Error()
			s.log.Debug("sync operation rejected",
				"operationId", op.OperationID,
				"kind", op.EntityKind,
				"error", err)
		} else {
			res.ServerID = serverID
		}
		resultsByOp[op.OperationID] = res
	}

	resp := &PushResponse{
		Results:    make([]OperationResult, 0, len(req.Operations)),
		ServerTime: time.Now().UTC(),
	}
	for _, op := range req.Operations {
		res := resultsByOp[op.OperationID]
		resp.Results = append(resp.Results, res)
		if res.Success {
			resp.SuccessCount++
		} else {
			resp.ErrorCount++
		}
	}

	if err := s.repo.RecordActivity(ctx, userID, inventory.ActivityEntry{
		ID:         uuid.NewString(),
		Action:     inventory.ActionSyncPush,
		Detail:     fmt.Sprintf("applied %d operations, %d failed", resp.SuccessCount, resp.ErrorCount),
		OccurredAt: resp.ServerTime,
	}); err != nil {
		s.log.Warn("failed to record push activity", "error", err)
	}

	s.log.Info("push processed",
		"userId", userID,
		"operations", len(req.Operations),
		"succeeded", resp.SuccessCount,
		"failed", resp.ErrorCount)

	return resp, nil
}

func (s *Service) apply(ctx context.Context, userID int, op Operation) (string, error) {
	if op.SyncKey == "" {
		return "", ErrInvalidOperation
	}

	if op.Type == OpDelete {
		// Idempotent: deleting an entity that is already gone is fine.
		if err := s.repo.DeleteEntity(ctx, userID, op.EntityKind, op.SyncKey); err != nil {
			return "", fmt.Errorf("failed to delete %s: %w", op.EntityKind, err)
		}
		return "", nil
	}

	if len(op.Payload) == 0 {
		return "", fmt.Errorf("%s without payload: %w", op.Type, ErrInvalidOperation)
	}

	// Upsert keyed by sync key makes create and update converge: a
	// retried create updates, an update of an unseen key creates.
	switch op.EntityKind {
	case inventory.KindCategory:
		var c inventory.Category
		if err := json.Unmarshal(op.Payload, &c); err != nil {
			return "", fmt.Errorf("failed to decode category payload: %w", err)
		}
		c.SyncKey = op.SyncKey
		return s.repo.UpsertCategory(ctx, userID, c)
	case inventory.KindItem:
		var it inventory.Item
		if err := json.Unmarshal(op.Payload, &it); err != nil {
			return "", fmt.Errorf("failed to decode item payload: %w", err)
		}
		it.SyncKey = op.SyncKey
		return s.repo.UpsertItem(ctx, userID, it)
	case inventory.KindOrder:
		var o inventory.Order
		if err := json.Unmarshal(op.Payload, &o); err != nil {
			return "", fmt.Errorf("failed to decode order payload: %w", err)
		}
		o.SyncKey = op.SyncKey
		return s.repo.UpsertOrder(ctx, userID, o)
	default:
		return "", inventory.ErrUnknownKind
	}
}

// Pull returns the full change set since the watermark in one page.
func (s *Service) Pull(ctx context.Context, req PullRequest) (*PullResponse, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, fmt.Errorf("user not authenticated")
	}

	categories, err := s.repo.ListCategories(ctx, userID, req.LastSyncAt)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	items, err := s.repo.ListItems(ctx, userID, req.LastSyncAt)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	orders, err := s.repo.ListOrders(ctx, userID, req.LastSyncAt)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var deleted []string
	if req.IncludeDeleted {
		deleted, err = s.repo.ListDeleted(ctx, userID, req.LastSyncAt)
		if err != nil {
			return nil, fmt.Errorf("failed to list tombstones: %w", err)
		}
	}

	resp := &PullResponse{
		Categories: categories,
		Items:      items,
		Orders:     orders,
		DeletedIDs: deleted,
		ServerTime: time.Now().UTC(),
		HasMore:    false,
	}

	s.log.Info("pull processed",
		"userId", userID,
		"categories", len(categories),
		"items", len(items),
		"orders", len(orders),
		"deleted", len(deleted))

	return resp, nil
}
