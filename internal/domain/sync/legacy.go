package sync

import (
	"encoding/json"
	"fmt"

	"vitaltrack/internal/domain/inventory"
)

// LegacyBatch is the older client batch shape: entities grouped into
// per-kind action buckets instead of a flat operation list. It is kept
// as an explicit type with a transform, not runtime shape-sniffing.
type LegacyBatch struct {
	Categories LegacyBucket `json:"categories"`
	Items      LegacyBucket `json:"items"`
	Orders     LegacyBucket `json:"orders"`
}

type LegacyBucket struct {
	Created []json.RawMessage `json:"created"`
	Updated []json.RawMessage `json:"updated"`
	Deleted []string          `json:"deleted"`
}

// envelope is the minimal slice of any entity payload the transform
// needs to address it.
type envelope struct {
	ID      string `json:"id"`
	SyncKey string `json:"syncKey"`
}

// Operations converts the batch into canonical operations, kinds in
// category/item/order order and creates before updates before deletes
// within each kind, so referential order survives the transform.
func (b LegacyBatch) Operations() ([]Operation, error) {
	var ops []Operation

	buckets := []struct {
		kind   inventory.Kind
		bucket LegacyBucket
	}{
		{inventory.KindCategory, b.Categories},
		{inventory.KindItem, b.Items},
		{inventory.KindOrder, b.Orders},
	}

	for _, e := range buckets {
		converted, err := e.bucket.operations(e.kind)
		if err != nil {
			return nil, err
		}
		ops = append(ops, converted...)
	}

	return ops, nil
}

func (b LegacyBucket) operations(kind inventory.Kind) ([]Operation, error) {
	ops := make([]Operation, 0, len(b.Created)+len(b.Updated)+len(b.Deleted))

	appendPayload := func(opType OperationType, raw json.RawMessage) error {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("failed to decode legacy %s payload: %w", kind, err)
		}
		if env.ID == "" {
			return fmt.Errorf("legacy %s payload without id: %w", kind, ErrInvalidOperation)
		}
		op, err := NewOperation(opType, kind, env.ID, env.SyncKey, nil)
		if err != nil {
			return err
		}
		op.Payload = raw
		ops = append(ops, op)
		return nil
	}

	for _, raw := range b.Created {
		if err := appendPayload(OpCreate, raw); err != nil {
			return nil, err
		}
	}
	for _, raw := range b.Updated {
		if err := appendPayload(OpUpdate, raw); err != nil {
			return nil, err
		}
	}
	for _, id := range b.Deleted {
		if id == "" {
			return nil, fmt.Errorf("legacy %s delete without id: %w", kind, ErrInvalidOperation)
		}
		op, err := NewOperation(OpDelete, kind, id, "", nil)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	return ops, nil
}
