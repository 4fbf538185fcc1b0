package commands

import (
	"errors"
	"fmt"
	"os"

	"inventory-adapter/cmd/inventory-cli/globals"
	"inventory-adapter/cmd/inventory-cli/utils"
	"inventory-adapter/internal/auth"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const passwordEnv = "INVENTORY_PASSWORD"

var (
	password string
	headless bool
)

func init() {
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "account password, read from "+passwordEnv+" when unset")
	loginGoogleCmd.Flags().BoolVar(&headless, "headless", false, "run the browser without a window")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(loginGoogleCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Signs in with a username and password and keeps the session.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		if password == "" {
			password = os.Getenv(passwordEnv)
		}
		if password == "" {
			return errors.New("no password given, pass --password or set " + passwordEnv)
		}

		s, err := g.Auth.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s\n", s.Username)
		return nil
	},
}

var loginGoogleCmd = &cobra.Command{
	Use:   "login-google",
	Short: "Signs in through Google in a browser window and keeps the session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		g.Authorizer.Headless = headless

		fmt.Println("complete the sign in in the browser window, close it to cancel")
		s, err := g.Auth.LoginOAuth(cmd.Context())
		if auth.IsCancelled(err) {
			fmt.Println("sign in cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s\n", s.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forgets the stored session.",
	Run: func(cmd *cobra.Command, args []string) {
		globals.Get(cmd.Context()).Auth.Logout()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Prints the stored session's user.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, ok := globals.Get(cmd.Context()).Auth.Restore()
		if !ok {
			return errors.New("not signed in")
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Username", "User ID", "Admin"})
		t.AppendRow(table.Row{s.Username, utils.OptionalInt(s.UserID), utils.YesNo(s.IsAdmin)})
		t.Render()
		return nil
	},
}
