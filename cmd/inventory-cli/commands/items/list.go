package items

import (
	"inventory-adapter/cmd/inventory-cli/globals"
	"inventory-adapter/cmd/inventory-cli/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	groupID string
	guess   bool
)

func init() {
	listCmd.Flags().StringVar(&groupID, "group", "", "only items of this group")
	enrichCmd.Flags().BoolVar(&guess, "guess", false, "guess categories from item names instead of fetching every item")

	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(showCmd)
	RootCmd.AddCommand(enrichCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints every item, or the items of one group.",
	RunE: func(cmd *cobra.Command, args []string) error {
		items := globals.Get(cmd.Context()).Inventory.Items
		if groupID != "" {
			forGroup, err := items.ForGroup(cmd.Context(), groupID)
			if err != nil {
				return err
			}
			printGroupItems(forGroup)
			return nil
		}

		listed, err := items.List(cmd.Context())
		if err != nil {
			return err
		}
		t := utils.NewTable()
		t.AppendHeader(table.Row{"ID", "Name", "Group", "Price", "Sold", "Purchased", "Listed", "Storage"})
		for _, item := range listed {
			t.AppendRow(table.Row{
				item.ID,
				item.Name,
				item.GroupName,
				utils.Money(item.Price),
				utils.YesNo(item.Sold),
				utils.OptionalDate(item.PurchaseDate),
				utils.OptionalDate(item.ListDate),
				item.Storage,
			})
		}
		utils.AlignNumbers(t, 4)
		t.Render()
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <item id>",
	Short: "Prints an item, with its sale when sold.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := globals.Get(cmd.Context()).Inventory.Items.Detail(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendRows([]table.Row{
			{"Name", detail.Name},
			{"Group", detail.GroupName},
			{"Category", detail.Category},
			{"Storage", detail.Storage},
			{"Price", utils.Money(detail.Price)},
			{"Purchased", utils.Date(detail.PurchaseDate)},
			{"Listed", utils.OptionalDate(detail.ListDate)},
			{"Returned", utils.YesNo(detail.Returned)},
			{"Sold", utils.YesNo(detail.Sold)},
		})
		if detail.Sold {
			t.AppendRows([]table.Row{
				{"Sold for", utils.OptionalMoney(detail.SoldPrice)},
				{"Shipping", utils.OptionalMoney(detail.ShippingFee)},
				{"Net", utils.OptionalMoney(detail.NetPrice)},
				{"Sold on", utils.OptionalDate(detail.SoldDate)},
				{"Days to sell", utils.OptionalInt(detail.DaysToSell)},
			})
		}
		t.Render()
		return nil
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich <group id>",
	Short: "Prints a group's items with the category of every item.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items := globals.Get(cmd.Context()).Inventory.Items
		forGroup, err := items.ForGroup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if guess {
			printGroupItems(items.GuessCategories(forGroup))
			return nil
		}
		enriched, err := items.EnrichCategories(cmd.Context(), forGroup)
		if err != nil {
			return err
		}
		printGroupItems(enriched)
		return nil
	},
}
