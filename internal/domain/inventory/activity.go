package inventory

import "time"

const (
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionStockChange = "stock_change"
	ActionOrderStatus = "order_status"
	ActionSyncPush    = "sync_push"
	ActionSyncPull    = "sync_pull"
)

// ActivityEntry records one mutation for the audit trail shown on the
// dashboard and mirrored server side.
type ActivityEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityKind Kind      `json:"entityKind"`
	EntityID   string    `json:"entityId"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
