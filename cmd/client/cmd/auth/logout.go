package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the VitalTrack server",
	Long: `End the current session.

Pending operations are flushed to the server first. Anything that could
not be delivered stays queued on disk and is retried on the next login.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Logout(ctx); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}

		fmt.Println("Logged out.")
		if pending := app.QueueSize(); pending > 0 {
			fmt.Printf("%d operations could not be delivered and remain queued.\n", pending)
		}
		return nil
	},
}
