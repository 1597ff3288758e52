package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/mcp"
)

func newMCPCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: "Start the MCP server on stdio. It talks to a running daemon over IPC.\n\n" +
			"Client configuration:\n  {\"command\": \"stackwm\", \"args\": [\"mcp\", \"serve\"]}",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol, so logs go to stderr.
			logger := opts.logger(nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := mcp.NewServer(ipc.NewClient(), logger)
			if err := server.Run(ctx); err != nil {
				logger.Error("MCP server error", "error", err)
				return err
			}
			return nil
		},
	})
	return cmd
}
