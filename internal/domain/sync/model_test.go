package sync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitaltrack/internal/domain/inventory"
)

func TestNewOperationSyncKeyPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		entityID string
		syncKey  string
		expected string
	}{
		{name: "existing sync key wins", entityID: "local-1", syncKey: "server-9", expected: "server-9"},
		{name: "falls back to entity id", entityID: "local-1", syncKey: "", expected: "local-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := NewOperation(OpUpdate, inventory.KindItem, tt.entityID, tt.syncKey, inventory.Item{ID: tt.entityID})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, op.SyncKey)
		})
	}
}

func TestNewOperationFreshID(t *testing.T) {
	// Two encodings of the same logical change must be distinguishable.
	a, err := NewOperation(OpUpdate, inventory.KindItem, "i1", "", inventory.Item{ID: "i1"})
	require.NoError(t, err)
	b, err := NewOperation(OpUpdate, inventory.KindItem, "i1", "", inventory.Item{ID: "i1"})
	require.NoError(t, err)

	assert.NotEqual(t, a.OperationID, b.OperationID)
	assert.NotEmpty(t, a.OperationID)
}

func TestNewOperationDeleteHasNoPayload(t *testing.T) {
	op, err := NewOperation(OpDelete, inventory.KindCategory, "c1", "", inventory.Category{ID: "c1"})
	require.NoError(t, err)

	assert.Nil(t, op.Payload)
	assert.False(t, op.EncodedAt.IsZero())
}

func TestNewOperationPayloadIsSnapshot(t *testing.T) {
	// Mutating the entity after encoding must not change the operation.
	item := inventory.Item{ID: "i1", Name: "Suction machine", Quantity: 4}

	op, err := NewOperation(OpUpdate, inventory.KindItem, item.ID, item.SyncKey, item)
	require.NoError(t, err)

	item.Quantity = 0
	item.Name = "renamed"

	var decoded inventory.Item
	require.NoError(t, json.Unmarshal(op.Payload, &decoded))
	assert.Equal(t, "Suction machine", decoded.Name)
	assert.Equal(t, 4, decoded.Quantity)
}
