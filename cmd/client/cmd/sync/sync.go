package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vitaltrack/cmd/client/cmd/types"
	"vitaltrack/internal/app/client"
	syncdomain "vitaltrack/internal/domain/sync"
)

var showStatus bool

// SyncCmd runs a manual sync cycle or reports sync state.
var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize with the server",
	Long: `Push queued operations to the server and pull remote changes.

Changes made offline are queued automatically; this command delivers
them as soon as the server is reachable.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if showStatus {
			return printStatus(cmd.Context(), app)
		}
		return runSync(cmd.Context(), app)
	},
}

func runSync(ctx context.Context, app *client.App) error {
	if !app.LoggedIn() {
		return fmt.Errorf("login required: vitaltrack auth login")
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()
	result, err := app.SyncNow(ctx)
	if err != nil {
		if errors.Is(err, syncdomain.ErrSyncInProgress) {
			return fmt.Errorf("a sync is already running")
		}
		return err
	}

	fmt.Printf("Sync finished in %v.\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Pushed:    %d\n", result.Pushed)
	if result.Failed > 0 {
		fmt.Printf("  Discarded: %d (rejected by the server too many times)\n", result.Failed)
	}
	if result.Pulled {
		fmt.Println("  Pulled:    remote changes merged")
	}
	if result.Remaining > 0 {
		fmt.Printf("  Queued:    %d operations still pending\n", result.Remaining)
	}
	return nil
}

func printStatus(ctx context.Context, app *client.App) error {
	fmt.Printf("State:   %s\n", app.SyncState())
	fmt.Printf("Queued:  %d operations\n", app.QueueSize())

	if last := app.LastSyncAt(); last != nil {
		fmt.Printf("Last sync: %s\n", last.Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last sync: never")
	}

	if app.Online(ctx) {
		fmt.Println("Server:  reachable")
	} else {
		fmt.Println("Server:  unreachable, working offline")
	}
	return nil
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}

func init() {
	SyncCmd.Flags().BoolVar(&showStatus, "status", false, "show sync status instead of syncing")
	SyncCmd.AddCommand(importCmd)
}
