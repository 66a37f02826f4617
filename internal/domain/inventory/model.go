package inventory

import "time"

// Kind identifies the entity family an operation or record belongs to.
type Kind string

const (
	KindCategory Kind = "category"
	KindItem     Kind = "item"
	KindOrder    Kind = "order"
)

type OrderStatus string

const (
	StatusPending  OrderStatus = "pending"
	StatusOrdered  OrderStatus = "ordered"
	StatusReceived OrderStatus = "received"
	StatusApplied  OrderStatus = "applied"
	StatusDeclined OrderStatus = "declined"
)

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	IsDefault    bool      `json:"isDefault"`
	IsActive     bool      `json:"isActive"`
	SyncKey      string    `json:"syncKey,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Item struct {
	ID              string     `json:"id"`
	CategoryID      string     `json:"categoryId"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Quantity        int        `json:"quantity"`
	Unit            string     `json:"unit,omitempty"`
	MinimumStock    int        `json:"minimumStock"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty"`
	Brand           string     `json:"brand,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	SupplierName    string     `json:"supplierName,omitempty"`
	SupplierContact string     `json:"supplierContact,omitempty"`
	PurchaseLink    string     `json:"purchaseLink,omitempty"`
	ImageURI        string     `json:"imageUri,omitempty"`
	IsCritical      bool       `json:"isCritical"`
	IsActive        bool       `json:"isActive"`
	SyncKey         string     `json:"syncKey,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type OrderLine struct {
	ItemID       string `json:"itemId"`
	ItemName     string `json:"itemName"`
	Quantity     int    `json:"quantity"`
	Unit         string `json:"unit,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

type Order struct {
	ID         string      `json:"id"`
	OrderID    string      `json:"orderId"`
	Status     OrderStatus `json:"status"`
	Items      []OrderLine `json:"items"`
	TotalItems int         `json:"totalItems"`
	TotalUnits int         `json:"totalUnits"`
	ExportedAt *time.Time  `json:"exportedAt,omitempty"`
	OrderedAt  *time.Time  `json:"orderedAt,omitempty"`
	ReceivedAt *time.Time  `json:"receivedAt,omitempty"`
	AppliedAt  *time.Time  `json:"appliedAt,omitempty"`
	DeclinedAt *time.Time  `json:"declinedAt,omitempty"`
	IsActive   bool        `json:"isActive"`
	SyncKey    string      `json:"syncKey,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Key returns the merge key under which the entity is stored: the
// server-assigned syncKey when present, the client id otherwise.
func (c Category) Key() string { return keyOf(c.SyncKey, c.ID) }
func (i Item) Key() string     { return keyOf(i.SyncKey, i.ID) }
func (o Order) Key() string    { return keyOf(o.SyncKey, o.ID) }

func keyOf(syncKey, id string) string {
	if syncKey != "" {
		return syncKey
	}
	return id
}
