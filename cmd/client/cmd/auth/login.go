package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the VitalTrack server",
	Long: `Authenticate against the VitalTrack server.

The session token is stored locally, and the inventory for this account
is synchronized to the device. Logging in as a different user than the
one whose data is on the device clears the local inventory first.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		fmt.Print("Login: ")
		var login string
		_, _ = fmt.Scanln(&login)

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Login(ctx, login, string(password)); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		fmt.Println("Logged in.")
		if pending := app.QueueSize(); pending > 0 {
			fmt.Printf("%d operations still pending sync.\n", pending)
		}
		return nil
	},
}
