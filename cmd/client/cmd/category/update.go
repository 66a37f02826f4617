package category

import (
	"fmt"

	"github.com/spf13/cobra"

	"vitaltrack/internal/domain/inventory"
)

var (
	updateName        string
	updateDescription string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if updateName == "" && !cmd.Flags().Changed("description") {
			return fmt.Errorf("nothing to update, pass --name or --description")
		}

		c, err := app.UpdateCategory(args[0], func(c *inventory.Category) {
			if updateName != "" {
				c.Name = updateName
			}
			if cmd.Flags().Changed("description") {
				c.Description = updateDescription
			}
		})
		if err != nil {
			return err
		}

		fmt.Printf("Category %q updated.\n", c.Name)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateName, "name", "n", "", "new name")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
}
