package groups

import (
	"fmt"
	"strconv"

	"inventory-adapter/cmd/inventory-cli/globals"
	"inventory-adapter/cmd/inventory-cli/utils"
	"inventory-adapter/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var provisional bool

func init() {
	showCmd.Flags().BoolVar(&provisional, "provisional", false, "do not fill in items from the item listing")
	RootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <group id>",
	Short: "Prints a group with its totals and items.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groups := globals.Get(cmd.Context()).Inventory.Groups

		var (
			detail model.GroupDetail
			err    error
		)
		if provisional {
			detail, err = groups.Detail(cmd.Context(), args[0])
		} else {
			detail, err = groups.DetailWithItems(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}

		summary := utils.NewTable()
		summary.AppendRows([]table.Row{
			{"Name", detail.Name},
			{"Date", utils.Date(detail.Date)},
			{"Price", utils.Money(detail.Price)},
			{"Sold", utils.Money(detail.SoldPrice)},
			{"Profit", utils.Money(detail.Profit)},
			{"Items", fmt.Sprintf("%d (%d sold)", detail.TotalItems, detail.TotalSoldItems)},
		})
		if detail.LocationAddress != "" {
			summary.AppendRow(table.Row{"Location", detail.LocationAddress})
		}
		if detail.Latitude != nil && detail.Longitude != nil {
			summary.AppendRow(table.Row{"Coordinates", strconv.FormatFloat(*detail.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(*detail.Longitude, 'f', -1, 64)})
		}
		if detail.ImageFilename != "" {
			summary.AppendRow(table.Row{"Image", detail.ImageFilename})
		}
		summary.Render()

		if len(detail.Items) == 0 {
			return nil
		}
		items := utils.NewTable()
		items.AppendHeader(table.Row{"ID", "Name", "Price", "Sold", "Storage"})
		for _, item := range detail.Items {
			items.AppendRow(table.Row{item.ID, item.Name, utils.Money(item.Price), utils.YesNo(item.Sold), item.Storage})
		}
		utils.AlignNumbers(items, 3)
		items.Render()
		return nil
	},
}
