package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"inventory-adapter/cmd/inventory-cli/commands/groups"
	"inventory-adapter/cmd/inventory-cli/commands/items"
	"inventory-adapter/cmd/inventory-cli/commands/reports"
	"inventory-adapter/cmd/inventory-cli/globals"
	"inventory-adapter/internal/auth"
	"inventory-adapter/internal/auth/browser"
	"inventory-adapter/internal/components/chrono"
	"inventory-adapter/internal/components/telemetry"
	"inventory-adapter/internal/config"
	"inventory-adapter/internal/inventory"
	"inventory-adapter/internal/session"
	"inventory-adapter/internal/transport"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:               "inventory-cli",
	Short:             "inventory-cli is a CLI for the resale inventory tracker.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if g, ok := globals.Lookup(cmd.Context()); ok {
			g.Close(context.Background())
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file, searched for as "+config.FileName+" when unset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(groups.RootCmd)
	rootCmd.AddCommand(items.RootCmd)
	rootCmd.AddCommand(reports.RootCmd)
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

func setup(cmd *cobra.Command, args []string) error {
	initSlog(verbose)
	// help and shell completion never reach the backend
	if cmd.Name() == "help" || cmd.HasParent() && cmd.Parent().Name() == "completion" {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	providers, err := telemetry.Setup(cmd.Context(), "inventory-cli", cfg.Otlp)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	tel := telemetry.SlogAPI{}

	store, err := session.OpenSQLite(cfg.SessionDB, tel)
	if err != nil {
		return err
	}
	client, err := transport.New(transport.OptionsFromConfig(cfg), store, tel)
	if err != nil {
		store.Close()
		return err
	}
	authorizer := browser.NewAuthorizer(false, tel)

	cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
		Config:     cfg,
		Clock:      clock,
		Store:      store,
		Auth:       auth.NewManager(client, authorizer, cfg.CallbackScheme, tel),
		Authorizer: authorizer,
		Inventory:  inventory.New(client, inventory.OptionsFromConfig(cfg), tel),
		Providers:  providers,
	}))
	return nil
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
