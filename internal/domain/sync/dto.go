package sync

import (
	"time"

	"vitaltrack/internal/domain/inventory"
)

// PushRequest carries a batch of queued operations to the server.
type PushRequest struct {
	Operations []Operation `json:"operations"`
	LastSyncAt *time.Time  `json:"lastSyncAt"`
}

// OperationResult is the per-operation outcome of a push. The server
// answers every operation, never the batch as a whole.
type OperationResult struct {
	OperationID string `json:"operationId"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	ServerID    string `json:"serverId,omitempty"`
}

type PushResponse struct {
	Results      []OperationResult `json:"results"`
	SuccessCount int               `json:"successCount"`
	ErrorCount   int               `json:"errorCount"`
	ServerTime   time.Time         `json:"serverTime"`
}

// PullRequest asks for server-side changes since the watermark. A nil
// watermark requests the full data set.
type PullRequest struct {
	LastSyncAt     *time.Time `json:"lastSyncAt"`
	IncludeDeleted bool       `json:"includeDeleted"`
}

type PullResponse struct {
	Categories []inventory.Category `json:"categories"`
	Items      []inventory.Item     `json:"items"`
	Orders     []inventory.Order    `json:"orders"`
	DeletedIDs []string             `json:"deletedIds"`
	ServerTime time.Time            `json:"serverTime"`
	HasMore    bool                 `json:"hasMore"`
}
