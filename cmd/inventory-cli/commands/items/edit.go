package items

import (
	"fmt"

	"inventory-adapter/cmd/inventory-cli/globals"
	"inventory-adapter/cmd/inventory-cli/utils"
	"inventory-adapter/internal/inventory"

	"github.com/spf13/cobra"
)

var (
	category string
	storage  string
	listDate string

	price    float64
	shipping float64
	saleDate string
)

func init() {
	addCmd.Flags().StringVar(&groupID, "group", "", "group the items were bought in")
	addCmd.Flags().StringVar(&category, "category", "", "category name or id")
	addCmd.Flags().StringVar(&storage, "storage", "", "where the items are kept")
	addCmd.Flags().StringVar(&listDate, "list-date", "", "date the items were listed for sale")
	addCmd.MarkFlagRequired("group")
	addCmd.MarkFlagRequired("category")

	sellCmd.Flags().Float64Var(&price, "price", 0, "sale price")
	sellCmd.Flags().Float64Var(&shipping, "shipping", 0, "shipping fee paid")
	sellCmd.Flags().StringVar(&saleDate, "date", "", "sale date, today when unset")
	sellCmd.MarkFlagRequired("price")

	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(sellCmd)
	RootCmd.AddCommand(unsellCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Adds items to a group, one per name.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := globals.Get(cmd.Context()).Inventory

		resolved, ok, err := service.Categories.Resolve(cmd.Context(), category)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no category matches %q", category)
		}
		items := inventory.NewItems{
			Names:      args,
			GroupID:    groupID,
			CategoryID: resolved.ID,
			Storage:    storage,
		}
		listed, err := utils.ParseDate("list-date", listDate)
		if err != nil {
			return err
		}
		if !listed.IsZero() {
			items.ListDate = &listed
		}
		return service.Items.Add(cmd.Context(), items)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <item id>",
	Short: "Deletes an item.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return globals.Get(cmd.Context()).Inventory.Items.Remove(cmd.Context(), args[0])
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell <item id>",
	Short: "Marks an item as sold.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		sold, err := utils.DateOrToday(g.Clock, "date", saleDate)
		if err != nil {
			return err
		}
		return g.Inventory.Items.MarkSold(cmd.Context(), inventory.Sale{
			ItemID:      args[0],
			Price:       price,
			ShippingFee: shipping,
			Date:        sold,
		})
	},
}

var unsellCmd = &cobra.Command{
	Use:   "unsell <item id>",
	Short: "Marks a sold item as available again.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return globals.Get(cmd.Context()).Inventory.Items.MarkAvailable(cmd.Context(), args[0])
	},
}
