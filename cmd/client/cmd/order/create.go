package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vitaltrack/internal/domain/inventory"
)

var createLines []string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a resupply order",
	Long: `Create a resupply order. Without flags the order is built from every
low-stock and out-of-stock item, restocking each to twice its minimum.
Explicit lines override that:

  vitaltrack order create --line 3f2a...=10 --line 9c1b...=5`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var lines []inventory.OrderLine
		if len(createLines) > 0 {
			lines, err = parseLines(app.Item, createLines)
			if err != nil {
				return err
			}
		} else {
			lines = restockLines(append(app.OutOfStockItems(), app.LowStockItems()...))
		}

		if len(lines) == 0 {
			fmt.Println("Nothing to reorder, all items are stocked.")
			return nil
		}

		o, err := app.CreateOrder(lines)
		if err != nil {
			return err
		}

		fmt.Printf("Order %s created: %d items, %d units.\n", o.OrderID, o.TotalItems, o.TotalUnits)
		return nil
	},
}

func parseLines(lookup func(string) *inventory.Item, raw []string) ([]inventory.OrderLine, error) {
	lines := make([]inventory.OrderLine, 0, len(raw))
	for _, entry := range raw {
		id, qtyStr, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid line %q, expected <item-id>=<quantity>", entry)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("invalid quantity in line %q", entry)
		}
		it := lookup(id)
		if it == nil {
			return nil, fmt.Errorf("item %q: %w", id, inventory.ErrNotFound)
		}
		lines = append(lines, inventory.OrderLine{
			ItemID:   it.ID,
			ItemName: it.Name,
			Quantity: qty,
			Unit:     it.Unit,
		})
	}
	return lines, nil
}

func restockLines(items []inventory.Item) []inventory.OrderLine {
	var lines []inventory.OrderLine
	for _, it := range items {
		needed := it.MinimumStock*2 - it.Quantity
		if needed < 1 {
			needed = 1
		}
		lines = append(lines, inventory.OrderLine{
			ItemID:   it.ID,
			ItemName: it.Name,
			Quantity: needed,
			Unit:     it.Unit,
		})
	}
	return lines
}

func init() {
	createCmd.Flags().StringArrayVar(&createLines, "line", nil, "order line <item-id>=<quantity>, repeatable")
}
