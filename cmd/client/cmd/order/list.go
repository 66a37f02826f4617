package order

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		orders := app.Orders()
		if len(orders) == 0 {
			fmt.Println("No orders.")
			return nil
		}

		for _, o := range orders {
			fmt.Printf("%-36s  %-20s  %-9s  %d items, %d units\n",
				o.ID, o.OrderID, o.Status, o.TotalItems, o.TotalUnits)
			for _, line := range o.Items {
				fmt.Printf("    %-30s  %d %s\n", line.ItemName, line.Quantity, line.Unit)
			}
		}
		return nil
	},
}
