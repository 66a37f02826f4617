package item

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vitaltrack/internal/domain/inventory"
)

var (
	addCategory string
	addQuantity int
	addMinStock int
	addUnit     string
	addBrand    string
	addNotes    string
	addSupplier string
	addCritical bool
	addExpiry   string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an inventory item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		it := inventory.Item{
			Name:         args[0],
			CategoryID:   addCategory,
			Quantity:     addQuantity,
			MinimumStock: addMinStock,
			Unit:         addUnit,
			Brand:        addBrand,
			Notes:        addNotes,
			SupplierName: addSupplier,
			IsCritical:   addCritical,
		}

		if addExpiry != "" {
			expiry, err := time.Parse("2006-01-02", addExpiry)
			if err != nil {
				return fmt.Errorf("invalid expiry date %q, expected YYYY-MM-DD", addExpiry)
			}
			it.ExpiryDate = &expiry
		}

		created, err := app.CreateItem(it)
		if err != nil {
			return err
		}

		fmt.Printf("Item %q created: %s\n", created.Name, created.ID)
		if inventory.IsLifeCritical(*created) {
			fmt.Println("This item is tracked as life-critical.")
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category id")
	addCmd.Flags().IntVarP(&addQuantity, "quantity", "q", 0, "initial quantity")
	addCmd.Flags().IntVarP(&addMinStock, "min-stock", "m", 1, "minimum stock level")
	addCmd.Flags().StringVarP(&addUnit, "unit", "u", "", "unit of measure (pcs, boxes, liters)")
	addCmd.Flags().StringVar(&addBrand, "brand", "", "brand")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes")
	addCmd.Flags().StringVar(&addSupplier, "supplier", "", "supplier name")
	addCmd.Flags().BoolVar(&addCritical, "critical", false, "mark as life-critical equipment")
	addCmd.Flags().StringVar(&addExpiry, "exp-date", "", "expiry date (YYYY-MM-DD)")
}
