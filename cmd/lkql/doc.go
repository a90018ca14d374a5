package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sambeau/lkql/pkg/lkql/doc"
	"github.com/sambeau/lkql/pkg/lkql/lkql"
)

func newDocCmd(a *app) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "doc file",
		Short: "Print the documented bindings of a source file as Markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.readInput("", args)
			if err != nil {
				return err
			}

			unit, err := lkql.ParseFile(in.name, in.source, a.parserOptions()...)
			if err != nil {
				return a.report(in, err)
			}

			entries := doc.Extract(unit)
			title := filepath.Base(in.name)
			out := doc.Markdown(title, entries)
			if html {
				if out, err = doc.HTML(title, entries); err != nil {
					return err
				}
			}

			if _, err := io.WriteString(a.stdout, out); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Render HTML instead of Markdown")
	return cmd
}
