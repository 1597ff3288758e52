package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/stackwm/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config: ok (%d files)\n", len(res.Files))
			return nil
		},
	})

	var defaults bool
	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultConfig()
			if !defaults {
				res, err := opts.loadConfig()
				if err != nil {
					return err
				}
				cfg = res.Config
			}
			return writeYAML(cmd.OutOrStdout(), cfg)
		},
	}
	printCmd.Flags().BoolVar(&defaults, "defaults", false, "print built-in defaults (no files)")
	cmd.AddCommand(printCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "explain <yaml.path>",
		Short: "Show a config value and where it came from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.loadConfig()
			if err != nil {
				return err
			}
			value, src, err := config.Explain(res, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "path: %s\n", args[0])
			fmt.Fprintf(w, "source: %s\n", src)
			fmt.Fprintln(w, "value:")
			return writeYAML(w, value)
		},
	})

	return cmd
}
