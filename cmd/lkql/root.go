package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sambeau/lkql/config"
	"github.com/sambeau/lkql/pkg/lkql/parser"
)

// app is the state shared by all commands of one invocation
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
	styles *styles
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "lkql",
		Short:         "lkql - parse, check and inspect LKQL queries",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default: nearest .lkql.yaml, .lkql.yml or .lkql.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newParseCmd(a))
	root.AddCommand(newTokensCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newDocCmd(a))
	root.AddCommand(newReplCmd(a))

	return root
}

// setup loads the configuration, applies flag overrides and builds the logger
func (a *app) setup() error {
	cfg, path, err := config.LoadWithPath(a.configPath, os.Getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Apply CLI overrides
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	a.cfg = cfg

	logger, err := newLogger(cfg.Logging.Level, cfg.Logging.Encoding, a.stderr)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.logger = logger
	if path != "" {
		a.logger.Debug("loaded config", zap.String("path", path))
	}
	for _, w := range config.Warnings(cfg) {
		a.logger.Warn(w)
	}

	a.styles = newStyles(cfg.Output.Color, a.stderr)
	return nil
}

func (a *app) parserOptions() []parser.Option {
	return []parser.Option{parser.WithMaxDepth(a.cfg.Parser.MaxDepth)}
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
