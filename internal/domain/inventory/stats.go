package inventory

import "strings"

// Equipment whose presence keeps a patient alive. An item matching one
// of these by name is treated as critical even when the flag is unset.
var lifeCriticalKeywords = []string{
	"ventilator",
	"oxygen concentrator",
	"suction machine",
	"nebulizer",
	"cpap",
	"bipap",
	"defibrillator",
	"infusion pump",
	"feeding pump",
}

// IsLifeCritical reports whether an item is life critical: either the
// explicit flag is set or its name contains a known equipment keyword.
func IsLifeCritical(item Item) bool {
	if item.IsCritical {
		return true
	}
	name := strings.ToLower(item.Name)
	for _, kw := range lifeCriticalKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// IsOutOfStock reports whether the item has no usable stock left.
func IsOutOfStock(item Item) bool {
	return item.Quantity <= 0
}

// IsLowStock reports whether the item is running low but not yet out.
// Life-critical items additionally alert at a single remaining unit
// even when the configured minimum is lower.
func IsLowStock(item Item) bool {
	if IsOutOfStock(item) {
		return false
	}
	if item.Quantity < item.MinimumStock {
		return true
	}
	return IsLifeCritical(item) && item.Quantity == 1
}

type Stats struct {
	TotalItems    int `json:"totalItems"`
	TotalUnits    int `json:"totalUnits"`
	LowStock      int `json:"lowStock"`
	OutOfStock    int `json:"outOfStock"`
	Categories    int `json:"categories"`
	PendingOrders int `json:"pendingOrders"`
}

// ComputeStats summarizes active inventory for the dashboard.
// Malformed entities are skipped under the same rules the list views
// apply, so totals and listings always agree.
func ComputeStats(categories []Category, items []Item, orders []Order) Stats {
	var s Stats
	for _, c := range categories {
		if c.IsActive && c.ID != "" {
			s.Categories++
		}
	}
	for _, it := range items {
		if !it.IsActive || it.ID == "" || it.Name == "" {
			continue
		}
		s.TotalItems++
		s.TotalUnits += it.Quantity
		if IsOutOfStock(it) {
			s.OutOfStock++
		} else if IsLowStock(it) {
			s.LowStock++
		}
	}
	for _, o := range orders {
		if o.IsActive && o.ID != "" && o.Status == StatusPending {
			s.PendingOrders++
		}
	}
	return s
}
