package groups

import (
	"inventory-adapter/cmd/inventory-cli/utils"
	"inventory-adapter/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "groups",
	Short: "The 'groups' subcommand lists and edits purchase groups.",
}

func printGroups(groups []model.Group) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"ID", "Name", "Date", "Description"})
	for _, g := range groups {
		t.AppendRow(table.Row{g.ID, g.Name, utils.Date(g.CreatedAt), g.Description})
	}
	t.Render()
}
