package client

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"vitaltrack/internal/domain/inventory"
	syncdomain "vitaltrack/internal/domain/sync"
)

// Store is the single source of truth for local inventory state. Every
// mutation persists the whole state under StoreKey; storage failures
// are logged and the in-memory state keeps working.
type Store struct {
	mu      sync.Mutex
	storage Storage
	log     *slog.Logger
	state   storeState
}

type storeState struct {
	UserID     string                    `json:"userId"`
	Categories []inventory.Category      `json:"categories"`
	Items      []inventory.Item          `json:"items"`
	Orders     []inventory.Order         `json:"orders"`
	Activity   []inventory.ActivityEntry `json:"activity"`
	LastSyncAt *time.Time                `json:"lastSyncAt"`
}

const activityLimit = 200

func NewStore(storage Storage, log *slog.Logger) *Store {
	s := &Store{
		storage: storage,
		log:     log,
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok, err := s.storage.Get(StoreKey)
	if err != nil {
		s.log.Warn("failed to read store, starting empty", "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, &s.state); err != nil {
		s.log.Warn("failed to decode store, starting empty", "error", err)
		s.state = storeState{}
	}
}

// persist is called with the lock held.
func (s *Store) persist() {
	raw, err := json.Marshal(s.state)
	if err != nil {
		s.log.Error("failed to encode store", "error", err)
		return
	}
	if err := s.storage.Put(StoreKey, raw); err != nil {
		s.log.Warn("failed to persist store", "error", err)
	}
}

func (s *Store) logActivity(action string, kind inventory.Kind, entityID, detail string) {
	s.state.Activity = append(s.state.Activity, inventory.ActivityEntry{
		ID:         uuid.NewString(),
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	})
	if len(s.state.Activity) > activityLimit {
		s.state.Activity = s.state.Activity[len(s.state.Activity)-activityLimit:]
	}
}

func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UserID
}

// SeedUser binds the store to a user. The caller clears first when the
// device previously held another user's data.
func (s *Store) SeedUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UserID = userID
	s.persist()
}

// Clear drops all state including the user binding.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = storeState{}
	if err := s.storage.Delete(StoreKey); err != nil {
		s.log.Warn("failed to clear persisted store", "error", err)
	}
}

func (s *Store) Watermark() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastSyncAt
}

func (s *Store) SetWatermark(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastSyncAt = &t
	s.persist()
}

// --- categories ---

func (s *Store) CreateCategory(name, description string) *inventory.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	c := inventory.Category{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		DisplayOrder: len(s.state.Categories),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.state.Categories = append(s.state.Categories, c)
	s.logActivity(inventory.ActionCreate, inventory.KindCategory, c.ID, fmt.Sprintf("created category %q", name))
	s.persist()
	return &c
}

func (s *Store) UpdateCategory(id string, mutate func(*inventory.Category)) *inventory.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Categories {
		if s.state.Categories[i].ID == id {
			mutate(&s.state.Categories[i])
			s.state.Categories[i].UpdatedAt = time.Now().UTC()
			c := s.state.Categories[i]
			s.logActivity(inventory.ActionUpdate, inventory.KindCategory, id, fmt.Sprintf("updated category %q", c.Name))
			s.persist()
			return &c
		}
	}
	return nil
}

func (s *Store) DeleteCategory(id string) *inventory.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Categories {
		if s.state.Categories[i].ID == id {
			s.state.Categories[i].IsActive = false
			s.state.Categories[i].UpdatedAt = time.Now().UTC()
			c := s.state.Categories[i]
			s.logActivity(inventory.ActionDelete, inventory.KindCategory, id, fmt.Sprintf("deleted category %q", c.Name))
			s.persist()
			return &c
		}
	}
	return nil
}

func (s *Store) Category(id string) *inventory.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Categories {
		if s.state.Categories[i].ID == id {
			c := s.state.Categories[i]
			return &c
		}
	}
	return nil
}

func (s *Store) ActiveCategories() []inventory.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []inventory.Category
	for _, c := range s.state.Categories {
		if c.IsActive && c.ID != "" {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// --- items ---

func (s *Store) CreateItem(it inventory.Item) *inventory.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	it.IsActive = true
	it.CreatedAt = now
	it.UpdatedAt = now
	s.state.Items = append(s.state.Items, it)
	s.logActivity(inventory.ActionCreate, inventory.KindItem, it.ID, fmt.Sprintf("created item %q (qty %d)", it.Name, it.Quantity))
	s.persist()
	return &it
}

func (s *Store) UpdateItem(id string, mutate func(*inventory.Item)) *inventory.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		if s.state.Items[i].ID == id {
			mutate(&s.state.Items[i])
			s.state.Items[i].UpdatedAt = time.Now().UTC()
			it := s.state.Items[i]
			s.logActivity(inventory.ActionUpdate, inventory.KindItem, id, fmt.Sprintf("updated item %q", it.Name))
			s.persist()
			return &it
		}
	}
	return nil
}

func (s *Store) DeleteItem(id string) *inventory.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		if s.state.Items[i].ID == id {
			s.state.Items[i].IsActive = false
			s.state.Items[i].UpdatedAt = time.Now().UTC()
			it := s.state.Items[i]
			s.logActivity(inventory.ActionDelete, inventory.KindItem, id, fmt.Sprintf("deleted item %q", it.Name))
			s.persist()
			return &it
		}
	}
	return nil
}

// UpdateStock adjusts quantity by delta, clamped at zero.
func (s *Store) UpdateStock(id string, delta int) *inventory.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		if s.state.Items[i].ID == id {
			q := s.state.Items[i].Quantity + delta
			if q < 0 {
				q = 0
			}
			s.state.Items[i].Quantity = q
			s.state.Items[i].UpdatedAt = time.Now().UTC()
			it := s.state.Items[i]
			s.logActivity(inventory.ActionStockChange, inventory.KindItem, id,
				fmt.Sprintf("stock of %q changed by %+d to %d", it.Name, delta, q))
			s.persist()
			return &it
		}
	}
	return nil
}

func (s *Store) Item(id string) *inventory.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Items {
		if s.state.Items[i].ID == id {
			it := s.state.Items[i]
			return &it
		}
	}
	return nil
}

// ActiveItems skips malformed records so one bad entity never breaks
// the views.
func (s *Store) ActiveItems() []inventory.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeItemsLocked()
}

func (s *Store) activeItemsLocked() []inventory.Item {
	var out []inventory.Item
	for _, it := range s.state.Items {
		if it.IsActive && it.ID != "" && it.Name != "" {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) LowStockItems() []inventory.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []inventory.Item
	for _, it := range s.activeItemsLocked() {
		if inventory.IsLowStock(it) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) OutOfStockItems() []inventory.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []inventory.Item
	for _, it := range s.activeItemsLocked() {
		if inventory.IsOutOfStock(it) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) Stats() inventory.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return inventory.ComputeStats(s.state.Categories, s.state.Items, s.state.Orders)
}

func (s *Store) Activity(limit int) []inventory.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.state.Activity)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]inventory.ActivityEntry, limit)
	copy(out, s.state.Activity[n-limit:])
	return out
}

// --- orders ---

func (s *Store) CreateOrder(lines []inventory.OrderLine) *inventory.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	totalUnits := 0
	for _, l := range lines {
		totalUnits += l.Quantity
	}
	o := inventory.Order{
		ID:         uuid.NewString(),
		OrderID:    fmt.Sprintf("ORD-%s", now.Format("20060102-150405")),
		Status:     inventory.StatusPending,
		Items:      lines,
		TotalItems: len(lines),
		TotalUnits: totalUnits,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.state.Orders = append(s.state.Orders, o)
	s.logActivity(inventory.ActionCreate, inventory.KindOrder, o.ID,
		fmt.Sprintf("created order %s with %d lines", o.OrderID, len(lines)))
	s.persist()
	return &o
}

var orderTransitions = map[inventory.OrderStatus][]inventory.OrderStatus{
	inventory.StatusPending:  {inventory.StatusOrdered, inventory.StatusDeclined},
	inventory.StatusOrdered:  {inventory.StatusReceived, inventory.StatusDeclined},
	inventory.StatusReceived: {inventory.StatusApplied},
}

// TransitionOrder moves an order along the
// pending→ordered→received→applied path (declined is a side exit).
// Applying an order adds the received units to item stock.
func (s *Store) TransitionOrder(id string, next inventory.OrderStatus) (*inventory.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Orders {
		if s.state.Orders[i].ID != id {
			continue
		}
		o := &s.state.Orders[i]

		allowed := false
		for _, a := range orderTransitions[o.Status] {
			if a == next {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s -> %s", inventory.ErrInvalidTransition, o.Status, next)
		}

		now := time.Now().UTC()
		o.Status = next
		o.UpdatedAt = now
		switch next {
		case inventory.StatusOrdered:
			o.OrderedAt = &now
		case inventory.StatusReceived:
			o.ReceivedAt = &now
		case inventory.StatusDeclined:
			o.DeclinedAt = &now
		case inventory.StatusApplied:
			o.AppliedAt = &now
			s.applyOrderLocked(o)
		}

		s.logActivity(inventory.ActionOrderStatus, inventory.KindOrder, id,
			fmt.Sprintf("order %s moved to %s", o.OrderID, next))
		s.persist()
		out := *o
		return &out, nil
	}
	return nil, nil
}

func (s *Store) applyOrderLocked(o *inventory.Order) {
	for _, line := range o.Items {
		for i := range s.state.Items {
			if s.state.Items[i].ID == line.ItemID {
				s.state.Items[i].Quantity += line.Quantity
				s.state.Items[i].UpdatedAt = time.Now().UTC()
				break
			}
		}
	}
}

func (s *Store) Order(id string) *inventory.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Orders {
		if s.state.Orders[i].ID == id {
			o := s.state.Orders[i]
			return &o
		}
	}
	return nil
}

func (s *Store) ActiveOrders() []inventory.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []inventory.Order
	for _, o := range s.state.Orders {
		if o.IsActive && o.ID != "" {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- reconciliation ---

// MergeRemote replaces local entities with the pulled versions, keyed
// by sync key. Whole-entity replacement, never field merges. Sync keys
// are normalized inline so future local edits encode against the key
// the server recognizes.
func (s *Store) MergeRemote(resp *syncdomain.PullResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := make(map[string]bool, len(resp.DeletedIDs))
	for _, id := range resp.DeletedIDs {
		deleted[id] = true
	}

	for _, c := range resp.Categories {
		if c.SyncKey == "" {
			c.SyncKey = c.ID
		}
		s.mergeCategoryLocked(c)
	}
	for _, it := range resp.Items {
		if it.SyncKey == "" {
			it.SyncKey = it.ID
		}
		s.mergeItemLocked(it)
	}
	for _, o := range resp.Orders {
		if o.SyncKey == "" {
			o.SyncKey = o.ID
		}
		s.mergeOrderLocked(o)
	}

	if len(deleted) > 0 {
		for i := range s.state.Categories {
			if deleted[s.state.Categories[i].Key()] {
				s.state.Categories[i].IsActive = false
			}
		}
		for i := range s.state.Items {
			if deleted[s.state.Items[i].Key()] {
				s.state.Items[i].IsActive = false
			}
		}
		for i := range s.state.Orders {
			if deleted[s.state.Orders[i].Key()] {
				s.state.Orders[i].IsActive = false
			}
		}
	}

	s.logActivity(inventory.ActionSyncPull, "", "",
		fmt.Sprintf("pulled %d categories, %d items, %d orders, %d deletions",
			len(resp.Categories), len(resp.Items), len(resp.Orders), len(resp.DeletedIDs)))
	s.persist()
}

func (s *Store) mergeCategoryLocked(incoming inventory.Category) {
	for i := range s.state.Categories {
		if s.state.Categories[i].Key() == incoming.SyncKey {
			incoming.ID = s.state.Categories[i].ID
			s.state.Categories[i] = incoming
			return
		}
	}
	if incoming.ID == "" {
		incoming.ID = incoming.SyncKey
	}
	s.state.Categories = append(s.state.Categories, incoming)
}

func (s *Store) mergeItemLocked(incoming inventory.Item) {
	for i := range s.state.Items {
		if s.state.Items[i].Key() == incoming.SyncKey {
			incoming.ID = s.state.Items[i].ID
			s.state.Items[i] = incoming
			return
		}
	}
	if incoming.ID == "" {
		incoming.ID = incoming.SyncKey
	}
	s.state.Items = append(s.state.Items, incoming)
}

func (s *Store) mergeOrderLocked(incoming inventory.Order) {
	for i := range s.state.Orders {
		if s.state.Orders[i].Key() == incoming.SyncKey {
			incoming.ID = s.state.Orders[i].ID
			s.state.Orders[i] = incoming
			return
		}
	}
	if incoming.ID == "" {
		incoming.ID = incoming.SyncKey
	}
	s.state.Orders = append(s.state.Orders, incoming)
}
