package sync

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	syncdomain "vitaltrack/internal/domain/sync"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a legacy sync batch",
	Long: `Queue operations from a legacy nested batch file, the old
created/updated/deleted-per-kind export format. The batch is converted
to individual operations and delivered on the next sync.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read batch file: %w", err)
		}

		var batch syncdomain.LegacyBatch
		if err := json.Unmarshal(data, &batch); err != nil {
			return fmt.Errorf("failed to decode batch file: %w", err)
		}

		n, err := app.EnqueueLegacy(batch)
		if err != nil {
			return fmt.Errorf("failed to convert batch: %w", err)
		}

		fmt.Printf("Queued %d operations from %s.\n", n, args[0])
		return nil
	},
}
