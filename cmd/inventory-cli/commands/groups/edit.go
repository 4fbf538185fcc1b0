package groups

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"inventory-adapter/cmd/inventory-cli/globals"
	"inventory-adapter/cmd/inventory-cli/utils"
	"inventory-adapter/internal/inventory"

	"github.com/spf13/cobra"
)

var (
	name      string
	price     float64
	date      string
	latitude  float64
	longitude float64
	address   string
	imagePath string
)

func init() {
	createCmd.Flags().StringVar(&name, "name", "", "group name")
	createCmd.Flags().Float64Var(&price, "price", 0, "what the group cost")
	createCmd.Flags().StringVar(&date, "date", "", "purchase date, today when unset")
	createCmd.Flags().Float64Var(&latitude, "lat", 0, "latitude of the purchase location")
	createCmd.Flags().Float64Var(&longitude, "lng", 0, "longitude of the purchase location")
	createCmd.Flags().StringVar(&address, "address", "", "address of the purchase location")
	createCmd.Flags().StringVar(&imagePath, "image", "", "photo of the group to upload")
	createCmd.MarkFlagRequired("name")

	modifyCmd.Flags().StringVar(&name, "name", "", "group name")
	modifyCmd.Flags().Float64Var(&price, "price", 0, "what the group cost")
	modifyCmd.Flags().StringVar(&date, "date", "", "purchase date")
	modifyCmd.MarkFlagRequired("name")
	modifyCmd.MarkFlagRequired("date")

	RootCmd.AddCommand(createCmd)
	RootCmd.AddCommand(modifyCmd)
	RootCmd.AddCommand(removeCmd)
}

func readImage(path string) (*inventory.Image, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &inventory.Image{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(contents),
		Content:     contents,
	}, nil
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Adds a purchase group and prints its id.",
	RunE: func(cmd *cobra.Command, args []string) error {
		group := inventory.NewGroup{
			Name:            name,
			Price:           price,
			LocationAddress: address,
		}
		var err error
		group.Date, err = utils.DateOrToday(globals.Get(cmd.Context()).Clock, "date", date)
		if err != nil {
			return err
		}

		latSet, lngSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lng")
		if latSet != lngSet {
			return errors.New("--lat and --lng go together")
		}
		if latSet {
			group.Latitude, group.Longitude = &latitude, &longitude
		}
		if imagePath != "" {
			group.Image, err = readImage(imagePath)
			if err != nil {
				return err
			}
		}

		id, err := globals.Get(cmd.Context()).Inventory.Groups.Create(cmd.Context(), group)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var modifyCmd = &cobra.Command{
	Use:   "modify <group id>",
	Short: "Changes a group's name, price and date.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := utils.ParseDate("date", date)
		if err != nil {
			return err
		}
		return globals.Get(cmd.Context()).Inventory.Groups.Modify(cmd.Context(), inventory.GroupUpdate{
			ID:    args[0],
			Name:  name,
			Price: price,
			Date:  parsed,
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <group id>",
	Short: "Deletes a group.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return globals.Get(cmd.Context()).Inventory.Groups.Remove(cmd.Context(), args[0])
	},
}
