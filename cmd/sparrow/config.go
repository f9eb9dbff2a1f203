package main

import (
	"fmt"

	"github.com/phanxgames/sparrow"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective stage config",
	Long:  `Loads the file given by --config over the defaults and prints the result as TOML or YAML.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		var out []byte
		switch format {
		case "toml":
			out, err = cfg.EncodeTOML()
		case "yaml":
			out, err = cfg.EncodeYAML()
		default:
			return fmt.Errorf("unknown --format %q", format)
		}
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a stage config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := sparrow.LoadStageConfig(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
		return nil
	},
}

func init() {
	configCmd.Flags().String("format", "toml", "Output format (toml or yaml)")
	configCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
}
