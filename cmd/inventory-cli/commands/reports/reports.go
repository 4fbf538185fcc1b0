package reports

import (
	"fmt"
	"strings"

	"inventory-adapter/cmd/inventory-cli/globals"
	"inventory-adapter/cmd/inventory-cli/utils"
	"inventory-adapter/internal/inventory"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	interval string
	date     string
)

var RootCmd = &cobra.Command{
	Use:   "reports",
	Short: "The 'reports' subcommand prints sales, purchases, profit and city reports.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&interval, "interval", "i", string(inventory.Monthly), "daily, monthly, yearly or date")
	RootCmd.PersistentFlags().StringVarP(&date, "date", "d", "", "day, month or year the report covers, today when unset")

	RootCmd.AddCommand(salesCmd)
	RootCmd.AddCommand(purchasesCmd)
	RootCmd.AddCommand(profitCmd)
	RootCmd.AddCommand(cityCmd)
}

func period(cmd *cobra.Command) (inventory.Period, error) {
	p := inventory.Period{Interval: inventory.Interval(strings.ToLower(interval))}
	switch p.Interval {
	case inventory.Daily, inventory.Monthly, inventory.Yearly, inventory.SingleDay:
	default:
		return p, fmt.Errorf("--interval: unknown interval %q", interval)
	}

	parsed, err := utils.DateOrToday(globals.Get(cmd.Context()).Clock, "date", date)
	if err != nil {
		return p, err
	}
	p.Date = parsed
	return p, nil
}

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Prints items sold, sales, shipping and net per period.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := period(cmd)
		if err != nil {
			return err
		}
		rows, err := globals.Get(cmd.Context()).Inventory.Reports.Sales(cmd.Context(), p)
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Period", "Items sold", "Sales", "Shipping", "Net"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Day, r.ItemsSold, utils.Money(r.Sales), utils.Money(r.ShippingFee), utils.Money(r.Net)})
		}
		utils.AlignNumbers(t, 2, 3, 4, 5)
		t.Render()
		return nil
	},
}

var purchasesCmd = &cobra.Command{
	Use:   "purchases",
	Short: "Prints groups, items and money spent per period.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := period(cmd)
		if err != nil {
			return err
		}
		rows, err := globals.Get(cmd.Context()).Inventory.Reports.Purchases(cmd.Context(), p)
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Period", "Groups", "Items", "Spent"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Day, r.Groups, r.Items, utils.Money(r.TotalSpent)})
		}
		utils.AlignNumbers(t, 2, 3, 4)
		t.Render()
		return nil
	},
}

var profitCmd = &cobra.Command{
	Use:   "profit",
	Short: "Prints sales, cost, profit and margin per period.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := period(cmd)
		if err != nil {
			return err
		}
		rows, err := globals.Get(cmd.Context()).Inventory.Reports.Profit(cmd.Context(), p)
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Period", "Sales", "Cost", "Profit", "Margin"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Day, utils.Money(r.Sales), utils.Money(r.Cost), utils.Money(r.Profit), fmt.Sprintf("%.1f%%", r.Margin)})
		}
		utils.AlignNumbers(t, 2, 3, 4, 5)
		t.Render()
		return nil
	},
}

var cityCmd = &cobra.Command{
	Use:   "city",
	Short: "Prints groups bought, money spent and sales per city.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := period(cmd)
		if err != nil {
			return err
		}
		rows, err := globals.Get(cmd.Context()).Inventory.Reports.City(cmd.Context(), p)
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Period", "City", "Groups", "Spent", "Sales"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Day, r.City, r.Groups, utils.Money(r.Spent), utils.Money(r.Sales)})
		}
		utils.AlignNumbers(t, 3, 4, 5)
		t.Render()
		return nil
	},
}
