package category

import (
	"fmt"

	"github.com/spf13/cobra"

	"vitaltrack/cmd/client/cmd/types"
	"vitaltrack/internal/app/client"
)

// CategoryCmd is the parent command for category operations.
var CategoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage equipment categories",
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}

func init() {
	CategoryCmd.AddCommand(listCmd)
	CategoryCmd.AddCommand(addCmd)
	CategoryCmd.AddCommand(updateCmd)
	CategoryCmd.AddCommand(deleteCmd)
}
