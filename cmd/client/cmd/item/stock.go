package item

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vitaltrack/internal/domain/inventory"
)

var stockCmd = &cobra.Command{
	Use:   "stock <id> <delta>",
	Short: "Adjust an item's stock level",
	Long: `Add or remove units from an item's stock. Positive delta restocks,
negative delta records usage. Stock never goes below zero.

  vitaltrack item stock 3f2a... +10
  vitaltrack item stock 3f2a... -2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid delta %q", args[1])
		}

		it, err := app.UpdateStock(args[0], delta)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d %s\n", it.Name, it.Quantity, unitOrDefault(it.Unit))
		switch {
		case inventory.IsOutOfStock(*it):
			color.New(color.FgRed, color.Bold).Println("OUT OF STOCK")
		case inventory.IsLowStock(*it):
			color.New(color.FgYellow).Println("Stock is low, consider reordering.")
		}
		return nil
	},
}
