package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sambeau/lkql/pkg/lkql/repl"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session that prints the tree of each input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(a.stdout) {
				return fmt.Errorf("repl needs an interactive terminal")
			}
			repl.Start(a.stdin, a.stdout, repl.Options{
				Version:     Version,
				HistoryFile: a.cfg.REPL.HistoryFile,
				MaxDepth:    a.cfg.Parser.MaxDepth,
				Logger:      a.logger,
			})
			return nil
		},
	}
}
