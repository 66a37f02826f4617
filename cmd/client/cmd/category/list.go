package category

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		categories := app.Categories()
		if len(categories) == 0 {
			fmt.Println("No categories yet. Add one with: vitaltrack category add")
			return nil
		}

		for _, c := range categories {
			fmt.Printf("%-36s  %s", c.ID, c.Name)
			if c.Description != "" {
				fmt.Printf("  (%s)", c.Description)
			}
			fmt.Println()
		}
		return nil
	},
}
