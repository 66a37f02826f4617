package sync

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vitaltrack/internal/domain/inventory"
)

// OperationType is the intended remote-side effect of an operation.
type OperationType string

const (
	OpCreate OperationType = "create"
	OpUpdate OperationType = "update"
	OpDelete OperationType = "delete"
)

// Operation describes one intended remote-side effect. The payload is a
// value snapshot taken at encoding time: later entity mutations never
// change an already-encoded operation.
type Operation struct {
	OperationID string          `json:"operationId"`
	Type        OperationType   `json:"type"`
	EntityKind  inventory.Kind  `json:"entityKind"`
	EntityID    string          `json:"entityId"`
	SyncKey     string          `json:"syncKey"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	EncodedAt   time.Time       `json:"encodedAt"`
}

// NewOperation builds an operation for an entity mutation. The sync key
// is the entity's existing syncKey when non-empty, the client id
// otherwise. Delete operations carry no payload. The operation id is
// generated fresh per encoding, so retried pushes of the same logical
// change stay distinguishable in server logs.
func NewOperation(opType OperationType, kind inventory.Kind, entityID, syncKey string, payload any) (Operation, error) {
	key := syncKey
	if key == "" {
		key = entityID
	}

	op := Operation{
		OperationID: uuid.NewString(),
		Type:        opType,
		EntityKind:  kind,
		EntityID:    entityID,
		SyncKey:     key,
		EncodedAt:   time.Now().UTC(),
	}

	if opType != OpDelete && payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Operation{}, fmt.Errorf("failed to encode operation payload: %w", err)
		}
		op.Payload = raw
	}

	return op, nil
}
