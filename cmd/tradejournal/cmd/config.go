package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
)

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage tradejournal configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  tradejournal config init -o tradejournal.yaml
  tradejournal config validate -f tradejournal.yaml`,
		Annotations: map[string]string{skipConfig: "true"},
	}

	c.AddCommand(newConfigInitCmd(), newConfigValidateCmd())
	return c
}

func newConfigInitCmd() *cobra.Command {
	var output string

	c := &cobra.Command{
		Use:         "init",
		Short:       "Generate a default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  tradejournal --config %s metrics\n", output)
			return nil
		},
	}

	c.Flags().StringVarP(&output, "output", "o", "tradejournal.yaml", "output config file path")
	return c
}

func newConfigValidateCmd() *cobra.Command {
	var path string

	c := &cobra.Command{
		Use:         "validate",
		Short:       "Validate a configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Journal: %s\n", cfg.Journal.DBPath)
			fmt.Fprintf(out, "  Server:  %s\n", cfg.Server.Addr)
			fmt.Fprintf(out, "  Reports: %s\n", cfg.Report.Dir)
			fmt.Fprintf(out, "  Telegram: %t\n", cfg.Notify.Telegram.Enabled)
			return nil
		},
	}

	c.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	_ = c.MarkFlagRequired("file")
	return c
}
