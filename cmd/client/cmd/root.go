package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"vitaltrack/cmd/client/cmd/auth"
	"vitaltrack/cmd/client/cmd/category"
	"vitaltrack/cmd/client/cmd/item"
	"vitaltrack/cmd/client/cmd/order"
	"vitaltrack/cmd/client/cmd/sync"
	"vitaltrack/cmd/client/cmd/types"
	"vitaltrack/internal/app/client"
	"vitaltrack/internal/app/client/config"
	"vitaltrack/internal/utils/logger"
)

var (
	cfgFile   string
	serverURL string
	offline   bool

	cfg *config.Config
	log *slog.Logger
	app *client.App
)

var rootCmd = &cobra.Command{
	Use:   "vitaltrack",
	Short: "VitalTrack - home medical equipment inventory tracker",
	Long: `VitalTrack tracks home medical equipment and supplies: categories,
items with stock levels, and resupply orders.

All changes are recorded locally first and synchronized with the server
whenever a connection is available, so the inventory stays usable offline.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log = logger.New(cfg.Env)
	app = client.New(cfg, log)

	if offline {
		app.ForceOffline()
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		viper.AddConfigPath(filepath.Join(home, ".vitaltrack"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file, defaults apply.
	}

	return config.MustLoad(), nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "VitalTrack server address")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "work offline, skip connectivity probes")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(category.CategoryCmd)
	rootCmd.AddCommand(item.ItemCmd)
	rootCmd.AddCommand(order.OrderCmd)
	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(dashboardCmd)
}
