package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/sparrow"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sparrow",
	Short: "Sparrow is a retained-mode 2D scene graph for Ebitengine",
	Long:  `Sparrow draws trees of quads, images, text and particles in batches and animates them with a juggler.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", level, err)
		}
		sparrow.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})))
		return nil
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Stage config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

// loadConfig returns the config named by --config, or the defaults.
func loadConfig(cmd *cobra.Command) (sparrow.StageConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return sparrow.DefaultStageConfig(), nil
	}
	return sparrow.LoadStageConfig(path)
}
