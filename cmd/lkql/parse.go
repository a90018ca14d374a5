package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sambeau/lkql/config"
	lkqlerrors "github.com/sambeau/lkql/pkg/lkql/errors"
	"github.com/sambeau/lkql/pkg/lkql/format"
	"github.com/sambeau/lkql/pkg/lkql/lexer"
	"github.com/sambeau/lkql/pkg/lkql/lkql"
)

const exprFilename = "<expr>"

// input is a source text and the name used in diagnostics
type input struct {
	name   string
	source string
}

// readInput returns the -e expression, or the named file, or stdin for "-"
func (a *app) readInput(expr string, args []string) (input, error) {
	switch {
	case expr != "" && len(args) > 0:
		return input{}, fmt.Errorf("give either a file or -e, not both")
	case expr != "":
		return input{name: exprFilename, source: expr}, nil
	case len(args) == 0:
		return input{}, fmt.Errorf("a file or -e expression is required")
	case args[0] == "-":
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return input{}, fmt.Errorf("reading stdin: %w", err)
		}
		return input{name: "<stdin>", source: string(data)}, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return input{}, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return input{name: args[0], source: string(data)}, nil
}

// report prints err as a diagnostic when it is one and returns errSyntax
func (a *app) report(in input, err error) error {
	d := lkqlerrors.AsDiagnostic(err)
	if d == nil {
		return err
	}
	printDiagnostic(a.stderr, a.styles, d.WithFile(in.name), in.source)
	a.logger.Debug("diagnostic", zap.String("file", in.name), zap.String("code", d.Code))
	return errSyntax
}

func newParseCmd(a *app) *cobra.Command {
	var (
		expr       string
		formatName string
	)

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a source file and print its syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				formatName = a.cfg.Output.Format
			}
			if !slices.Contains(config.OutputFormats, formatName) {
				return fmt.Errorf("unknown format %q (must be one of %s)", formatName, strings.Join(config.OutputFormats, ", "))
			}

			in, err := a.readInput(expr, args)
			if err != nil {
				return err
			}

			unit, err := lkql.ParseFile(in.name, in.source, a.parserOptions()...)
			if err != nil {
				return a.report(in, err)
			}

			return writeTree(a.stdout, unit, formatName)
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "Parse this source text instead of a file")
	cmd.Flags().StringVarP(&formatName, "format", "f", "sexpr", "Output format: sexpr, json, yaml or string")
	return cmd
}

func writeTree(w io.Writer, unit *lkql.Unit, formatName string) error {
	var err error
	switch formatName {
	case "json":
		data, encErr := format.JSON(unit.Program)
		if encErr != nil {
			return fmt.Errorf("encoding json: %w", encErr)
		}
		_, err = fmt.Fprintln(w, string(data))
	case "yaml":
		data, encErr := format.YAML(unit.Program)
		if encErr != nil {
			return fmt.Errorf("encoding yaml: %w", encErr)
		}
		_, err = w.Write(data)
	case "string":
		_, err = fmt.Fprintln(w, unit.Program.String())
	default:
		for _, stmt := range unit.Program.Statements {
			if _, err = fmt.Fprintln(w, format.Sexpr(stmt)); err != nil {
				break
			}
		}
	}
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newTokensCmd(a *app) *cobra.Command {
	var (
		expr   string
		trivia bool
	)

	cmd := &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "Print the token stream of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.readInput(expr, args)
			if err != nil {
				return err
			}

			tokens, err := lexer.NewWithFilename(in.source, in.name).All()
			if err != nil {
				return a.report(in, err)
			}
			if !trivia {
				tokens = lexer.Significant(tokens)
			}

			if _, err := io.WriteString(a.stdout, format.Tokens(tokens)); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "Tokenize this source text instead of a file")
	cmd.Flags().BoolVar(&trivia, "trivia", false, "Include comment tokens")
	return cmd
}
