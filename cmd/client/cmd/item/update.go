package item

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vitaltrack/internal/domain/inventory"
)

var (
	updateName     string
	updateCategory string
	updateMinStock int
	updateUnit     string
	updateNotes    string
	updateCritical bool
	updateExpiry   string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an inventory item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var expiry *time.Time
		if cmd.Flags().Changed("exp-date") && updateExpiry != "" {
			parsed, err := time.Parse("2006-01-02", updateExpiry)
			if err != nil {
				return fmt.Errorf("invalid expiry date %q, expected YYYY-MM-DD", updateExpiry)
			}
			expiry = &parsed
		}

		it, err := app.UpdateItem(args[0], func(it *inventory.Item) {
			if updateName != "" {
				it.Name = updateName
			}
			if cmd.Flags().Changed("category") {
				it.CategoryID = updateCategory
			}
			if cmd.Flags().Changed("min-stock") {
				it.MinimumStock = updateMinStock
			}
			if cmd.Flags().Changed("unit") {
				it.Unit = updateUnit
			}
			if cmd.Flags().Changed("notes") {
				it.Notes = updateNotes
			}
			if cmd.Flags().Changed("critical") {
				it.IsCritical = updateCritical
			}
			if cmd.Flags().Changed("exp-date") {
				it.ExpiryDate = expiry
			}
		})
		if err != nil {
			return err
		}

		fmt.Printf("Item %q updated.\n", it.Name)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateName, "name", "n", "", "new name")
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "category id")
	updateCmd.Flags().IntVarP(&updateMinStock, "min-stock", "m", 0, "minimum stock level")
	updateCmd.Flags().StringVarP(&updateUnit, "unit", "u", "", "unit of measure")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "free-form notes")
	updateCmd.Flags().BoolVar(&updateCritical, "critical", false, "mark as life-critical equipment")
	updateCmd.Flags().StringVar(&updateExpiry, "exp-date", "", "expiry date (YYYY-MM-DD), empty clears it")
}
