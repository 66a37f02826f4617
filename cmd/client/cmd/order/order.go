package order

import (
	"fmt"

	"github.com/spf13/cobra"

	"vitaltrack/cmd/client/cmd/types"
	"vitaltrack/internal/app/client"
)

// OrderCmd is the parent command for resupply orders.
var OrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Manage resupply orders",
	Long: `Resupply orders collect items that need restocking. An order moves
through pending, ordered and received; applying a received order adds
the ordered units back to item stock.`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}

func init() {
	OrderCmd.AddCommand(listCmd)
	OrderCmd.AddCommand(createCmd)
	OrderCmd.AddCommand(statusCmd)
}
