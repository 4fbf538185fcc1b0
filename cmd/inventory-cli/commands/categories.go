package commands

import (
	"fmt"

	"inventory-adapter/cmd/inventory-cli/globals"
	"inventory-adapter/cmd/inventory-cli/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

var categoriesCmd = &cobra.Command{
	Use:   "categories [name]",
	Short: "Prints the item categories, or the one best matching name.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := globals.Get(cmd.Context()).Inventory.Categories

		t := utils.NewTable()
		t.AppendHeader(table.Row{"ID", "Name", "User ID"})

		if len(args) == 1 {
			category, ok, err := service.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no category matches %q", args[0])
			}
			t.AppendRow(table.Row{category.ID, category.Name, utils.OptionalInt(category.UserID)})
			t.Render()
			return nil
		}

		categories, err := service.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range categories {
			t.AppendRow(table.Row{c.ID, c.Name, utils.OptionalInt(c.UserID)})
		}
		t.Render()
		return nil
	},
}
