package groups

import (
	"inventory-adapter/cmd/inventory-cli/globals"
	"inventory-adapter/cmd/inventory-cli/utils"
	"inventory-adapter/internal/inventory"

	"github.com/spf13/cobra"
)

var (
	listDate string
	listYear int
)

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "only groups bought on this date")
	listCmd.Flags().IntVar(&listYear, "year", 0, "only groups bought in this year")
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(searchCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the purchase groups.",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := utils.ParseDate("date", listDate)
		if err != nil {
			return err
		}
		groups, err := globals.Get(cmd.Context()).Inventory.Groups.List(cmd.Context(), inventory.GroupFilter{
			Date: date,
			Year: listYear,
		})
		if err != nil {
			return err
		}
		printGroups(groups)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Prints the groups whose name matches.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := globals.Get(cmd.Context()).Inventory.Groups.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printGroups(groups)
		return nil
	},
}
