package client

import (
	"vitaltrack/internal/domain/inventory"
	syncdomain "vitaltrack/internal/domain/sync"
)

// Encoder turns mutated entities into self-contained sync operations.
// Payloads are snapshots of the entity at encoding time.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Category(opType syncdomain.OperationType, c inventory.Category) (syncdomain.Operation, error) {
	if opType == syncdomain.OpDelete {
		return syncdomain.NewOperation(opType, inventory.KindCategory, c.ID, c.SyncKey, nil)
	}
	return syncdomain.NewOperation(opType, inventory.KindCategory, c.ID, c.SyncKey, c)
}

func (e *Encoder) Item(opType syncdomain.OperationType, it inventory.Item) (syncdomain.Operation, error) {
	if opType == syncdomain.OpDelete {
		return syncdomain.NewOperation(opType, inventory.KindItem, it.ID, it.SyncKey, nil)
	}
	return syncdomain.NewOperation(opType, inventory.KindItem, it.ID, it.SyncKey, it)
}

func (e *Encoder) Order(opType syncdomain.OperationType, o inventory.Order) (syncdomain.Operation, error) {
	if opType == syncdomain.OpDelete {
		return syncdomain.NewOperation(opType, inventory.KindOrder, o.ID, o.SyncKey, nil)
	}
	return syncdomain.NewOperation(opType, inventory.KindOrder, o.ID, o.SyncKey, o)
}

// Legacy transforms an old-style bucket batch into canonical
// operations.
func (e *Encoder) Legacy(batch syncdomain.LegacyBatch) ([]syncdomain.Operation, error) {
	return batch.Operations()
}
