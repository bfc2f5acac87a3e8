package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/napolitain/techtree/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "techtree",
	Short: "Technology research and progression engine",
	Long: `Runs the per-turn research step of one or more realms against a
technology catalog, and inspects catalogs and saved games.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .techtree.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog file (.yaml, .toml, .json, .jsonc); embedded default when empty")
	rootCmd.PersistentFlags().String("save-db", "", "SQLite file holding saved games")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every discovery")

	bindFlag(rootCmd, "catalog", "catalog")
	bindFlag(rootCmd, "save_db", "save-db")
	bindFlag(rootCmd, "verbose", "verbose")

	rootCmd.AddCommand(simulateCmd, catalogCmd, savesCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".techtree")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// bindFlag ties a persistent or local flag to a viper key
func bindFlag(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if f == nil {
		panic(fmt.Sprintf("techtree: no flag %q", flag))
	}
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// loadConfig loads the configuration and builds the logger it asks for
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}
