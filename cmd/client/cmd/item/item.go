package item

import (
	"fmt"

	"github.com/spf13/cobra"

	"vitaltrack/cmd/client/cmd/types"
	"vitaltrack/internal/app/client"
)

// ItemCmd is the parent command for inventory item operations.
var ItemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage inventory items",
	Long: `Track equipment and supplies: quantities, minimum stock levels,
expiry dates and suppliers. Items below their minimum stock, and
life-critical items down to their last unit, are flagged.`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}

func init() {
	ItemCmd.AddCommand(listCmd)
	ItemCmd.AddCommand(addCmd)
	ItemCmd.AddCommand(updateCmd)
	ItemCmd.AddCommand(deleteCmd)
	ItemCmd.AddCommand(stockCmd)
}
