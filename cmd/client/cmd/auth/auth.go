package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"vitaltrack/cmd/client/cmd/types"
	"vitaltrack/internal/app/client"
)

// AuthCmd is the parent command for account operations.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Account management",
	Long:  `Register, log in and log out of the VitalTrack server.`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}

func init() {
	AuthCmd.AddCommand(LoginCmd)
	AuthCmd.AddCommand(RegisterCmd)
	AuthCmd.AddCommand(LogoutCmd)
}
