package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/stackwm/internal/config"
)

var version = "dev"

type options struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "stackwm",
		Short:        "A tiling window manager for X11",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default: ~/.config/stackwm/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDaemonCmd(opts))
	root.AddCommand(newStatusCmd())
	root.AddCommand(newStateCmd())
	root.AddCommand(newActionCmd())
	root.AddCommand(newReloadCmd())
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newMCPCmd(opts))
	return root
}

// resolveConfigPath returns the --config path or the default location.
func (o *options) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.DefaultConfigPath()
}

func (o *options) loadConfig() (*config.LoadResult, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return res, nil
}

// logger builds the process logger at the configured level, or debug with
// --verbose.
func (o *options) logger(cfg *config.Config) *slog.Logger {
	level := ""
	if cfg != nil {
		level = cfg.Logging.Level
	}
	if o.verbose {
		level = "debug"
	}
	return newLogger(os.Stderr, level)
}
