package order

import (
	"fmt"

	"github.com/spf13/cobra"

	"vitaltrack/internal/domain/inventory"
)

var statusCmd = &cobra.Command{
	Use:   "status <id> <ordered|received|applied|declined>",
	Short: "Move an order to its next status",
	Long: `Advance an order through its lifecycle. Valid moves:

  pending  -> ordered, declined
  ordered  -> received, declined
  received -> applied

Applying an order adds the received units to item stock.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		next := inventory.OrderStatus(args[1])
		switch next {
		case inventory.StatusOrdered, inventory.StatusReceived,
			inventory.StatusApplied, inventory.StatusDeclined:
		default:
			return fmt.Errorf("unknown status %q", args[1])
		}

		o, err := app.TransitionOrder(args[0], next)
		if err != nil {
			return err
		}

		fmt.Printf("Order %s is now %s.\n", o.OrderID, o.Status)
		if o.Status == inventory.StatusApplied {
			fmt.Println("Received units were added to item stock.")
		}
		return nil
	},
}
