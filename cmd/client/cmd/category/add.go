package category

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addDescription string

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		c, err := app.CreateCategory(args[0], addDescription)
		if err != nil {
			return err
		}

		fmt.Printf("Category %q created: %s\n", c.Name, c.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "category description")
}
