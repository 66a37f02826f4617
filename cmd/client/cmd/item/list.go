package item

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vitaltrack/internal/domain/inventory"
)

var (
	listLowOnly bool
	listOutOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List inventory items",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var items []inventory.Item
		switch {
		case listOutOnly:
			items = app.OutOfStockItems()
		case listLowOnly:
			items = app.LowStockItems()
		default:
			items = app.Items()
		}

		if len(items) == 0 {
			fmt.Println("No items to show.")
			return nil
		}

		red := color.New(color.FgRed, color.Bold)
		yellow := color.New(color.FgYellow)

		for _, it := range items {
			line := fmt.Sprintf("%-36s  %-30s  %d %s (min %d)",
				it.ID, it.Name, it.Quantity, unitOrDefault(it.Unit), it.MinimumStock)

			switch {
			case inventory.IsOutOfStock(it):
				red.Printf("%s  OUT OF STOCK\n", line)
			case inventory.IsLowStock(it):
				yellow.Printf("%s  LOW\n", line)
			default:
				fmt.Println(line)
			}
		}
		return nil
	},
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "pcs"
	}
	return unit
}

func init() {
	listCmd.Flags().BoolVar(&listLowOnly, "low", false, "only items below minimum stock")
	listCmd.Flags().BoolVar(&listOutOnly, "out", false, "only items that are out of stock")
}
