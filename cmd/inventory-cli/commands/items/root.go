package items

import (
	"inventory-adapter/cmd/inventory-cli/utils"
	"inventory-adapter/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "items",
	Short: "The 'items' subcommand lists, adds and sells items.",
}

func printGroupItems(items []model.GroupItem) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"ID", "Name", "Price", "Sold", "Category", "Storage"})
	for _, item := range items {
		t.AppendRow(table.Row{item.ID, item.Name, utils.Money(item.Price), utils.YesNo(item.Sold), item.Category, item.Storage})
	}
	utils.AlignNumbers(t, 3)
	t.Render()
}
