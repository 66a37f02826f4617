package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		name       string
		item       Item
		lowStock   bool
		outOfStock bool
	}{
		{
			name:       "below minimum",
			item:       Item{Name: "Gauze pads", Quantity: 2, MinimumStock: 5},
			lowStock:   true,
			outOfStock: false,
		},
		{
			name:       "life critical item at one unit with minimum of one",
			item:       Item{Name: "Oxygen Concentrator filter", Quantity: 1, MinimumStock: 1},
			lowStock:   true,
			outOfStock: false,
		},
		{
			name:       "zero quantity is out of stock, not low",
			item:       Item{Name: "Ventilator circuit", Quantity: 0, MinimumStock: 5, IsCritical: true},
			lowStock:   false,
			outOfStock: true,
		},
		{
			name:       "plain item at one unit with minimum of one",
			item:       Item{Name: "Cotton swabs", Quantity: 1, MinimumStock: 1},
			lowStock:   false,
			outOfStock: false,
		},
		{
			name:       "critical flag set at one unit",
			item:       Item{Name: "Backup battery", Quantity: 1, MinimumStock: 1, IsCritical: true},
			lowStock:   true,
			outOfStock: false,
		},
		{
			name:       "healthy stock",
			item:       Item{Name: "Syringes", Quantity: 50, MinimumStock: 10},
			lowStock:   false,
			outOfStock: false,
		},
		{
			name:       "negative quantity",
			item:       Item{Name: "Tubing", Quantity: -1, MinimumStock: 2},
			lowStock:   false,
			outOfStock: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lowStock, IsLowStock(tt.item))
			assert.Equal(t, tt.outOfStock, IsOutOfStock(tt.item))
		})
	}
}

func TestIsLifeCritical(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		expected bool
	}{
		{name: "explicit flag", item: Item{Name: "Spare fuse", IsCritical: true}, expected: true},
		{name: "keyword match case insensitive", item: Item{Name: "CPAP Mask Large"}, expected: true},
		{name: "keyword inside longer name", item: Item{Name: "Portable suction machine canister"}, expected: true},
		{name: "no match", item: Item{Name: "Adhesive tape"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLifeCritical(tt.item))
		})
	}
}

func TestComputeStats(t *testing.T) {
	// Arrange
	categories := []Category{
		{ID: "c1", Name: "Respiratory", IsActive: true},
		{ID: "c2", Name: "Retired", IsActive: false},
	}
	items := []Item{
		{ID: "i1", Name: "Nebulizer kit", Quantity: 1, MinimumStock: 1, IsActive: true},
		{ID: "i2", Name: "Gloves", Quantity: 0, MinimumStock: 10, IsActive: true},
		{ID: "i3", Name: "Syringes", Quantity: 40, MinimumStock: 10, IsActive: true},
		{ID: "i4", Name: "Old stock", Quantity: 5, MinimumStock: 1, IsActive: false},
	}
	orders := []Order{
		{ID: "o1", Status: StatusPending, IsActive: true},
		{ID: "o2", Status: StatusApplied, IsActive: true},
	}

	// Act
	s := ComputeStats(categories, items, orders)

	// Assert
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, 41, s.TotalUnits)
	assert.Equal(t, 1, s.LowStock)
	assert.Equal(t, 1, s.OutOfStock)
	assert.Equal(t, 1, s.Categories)
	assert.Equal(t, 1, s.PendingOrders)
}

func TestComputeStats_SkipsMalformedEntities(t *testing.T) {
	// Arrange: entities the list views also hide must not be counted.
	categories := []Category{
		{ID: "", Name: "No id", IsActive: true},
		{ID: "c1", Name: "Respiratory", IsActive: true},
	}
	items := []Item{
		{ID: "", Name: "No id", Quantity: 5, MinimumStock: 1, IsActive: true},
		{ID: "i1", Name: "", Quantity: 5, MinimumStock: 1, IsActive: true},
		{ID: "i2", Name: "Gauze", Quantity: 5, MinimumStock: 1, IsActive: true},
	}
	orders := []Order{
		{ID: "", Status: StatusPending, IsActive: true},
		{ID: "o1", Status: StatusPending, IsActive: true},
	}

	// Act
	s := ComputeStats(categories, items, orders)

	// Assert
	assert.Equal(t, 1, s.TotalItems)
	assert.Equal(t, 5, s.TotalUnits)
	assert.Equal(t, 1, s.Categories)
	assert.Equal(t, 1, s.PendingOrders)
}
