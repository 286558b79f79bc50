// Package cmd wires the clobmatch CLI harness: a replay runner that
// feeds a recorded command stream through internal/book and a serve
// mode that streams live best-bid/ask over a websocket while exposing
// Prometheus metrics. Neither subcommand is part of the matching core
// itself — they are external collaborators driving it.
package cmd

import (
	"os"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the clobmatch root command.
func NewRootCmd() *cobra.Command {
	logger := log.NewLogger(os.Stderr)

	rootCmd := &cobra.Command{
		Use:   "clobmatch",
		Short: "Single-symbol CLOB matching core harness",
		Long: `clobmatch drives the ART-backed order book: replay feeds a
recorded command stream through it, serve exposes a live best-bid/ask
feed and Prometheus metrics over HTTP.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.AddCommand(newReplayCmd(logger.With("module", "replay")))
	rootCmd.AddCommand(newServeCmd(logger.With("module", "serve")))

	return rootCmd
}
