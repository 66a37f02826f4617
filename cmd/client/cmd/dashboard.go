package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Inventory overview",
	Long:    `Stock summary, alerts for low and out-of-stock items, and recent activity.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats := app.Stats()

		fmt.Println("=== VitalTrack ===")
		fmt.Printf("Items:          %d (%d units)\n", stats.TotalItems, stats.TotalUnits)
		fmt.Printf("Categories:     %d\n", stats.Categories)
		fmt.Printf("Pending orders: %d\n", stats.PendingOrders)

		red := color.New(color.FgRed, color.Bold)
		yellow := color.New(color.FgYellow)

		if out := app.OutOfStockItems(); len(out) > 0 {
			fmt.Println()
			red.Printf("Out of stock (%d):\n", len(out))
			for _, it := range out {
				red.Printf("  %s\n", it.Name)
			}
		}
		if low := app.LowStockItems(); len(low) > 0 {
			fmt.Println()
			yellow.Printf("Low stock (%d):\n", len(low))
			for _, it := range low {
				yellow.Printf("  %s: %d left (min %d)\n", it.Name, it.Quantity, it.MinimumStock)
			}
		}

		if entries := app.Activity(5); len(entries) > 0 {
			fmt.Println()
			fmt.Println("Recent activity:")
			for _, e := range entries {
				fmt.Printf("  %s  %-12s %s\n",
					e.OccurredAt.Local().Format("01-02 15:04"), e.Action, e.Detail)
			}
		}

		if pending := app.QueueSize(); pending > 0 {
			fmt.Printf("\n%d operations pending sync.\n", pending)
		}
		return nil
	},
}
