package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sambeau/lkql/pkg/lkql/lkql"
	"github.com/sambeau/lkql/pkg/watch"
)

func newCheckCmd(a *app) *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check the syntax of source files",
		Long: `Check parses every file and reports the first error of each.
Directories are searched for files with the configured extensions.

Exit status is 0 when all files parse, 1 when any has a lexical or syntax
error and 2 when a file cannot be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("watch") {
				watchMode = a.cfg.Check.Watch
			}

			files, err := a.collectFiles(args)
			if err != nil {
				return err
			}

			result := a.checkFiles(files)
			if !watchMode {
				return result
			}
			return a.watchFiles(cmd.Context(), args)
		},
	}

	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Keep running and re-check files when they change")
	return cmd
}

// collectFiles expands directory arguments into the source files below them
func (a *app) collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && p != path {
					return filepath.SkipDir
				}
				return nil
			}
			if a.cfg.Check.Extensions.Contains(filepath.Ext(p)) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	}
	return files, nil
}

// checkFiles checks the syntax of each file. A read error wins over
// syntax errors.
func (a *app) checkFiles(files []string) error {
	failed, unreadable := 0, 0

	for _, file := range files {
		err := a.checkFile(file)
		switch {
		case errors.Is(err, errSyntax):
			failed++
		case err != nil:
			fmt.Fprintf(a.stderr, "error: %v\n", err)
			unreadable++
		}
	}

	a.logger.Info("checked files", zap.Int("files", len(files)), zap.Int("failed", failed))

	if unreadable > 0 {
		return fmt.Errorf("%d file(s) could not be read", unreadable)
	}
	if failed > 0 {
		return errSyntax
	}
	return nil
}

func (a *app) checkFile(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	in := input{name: file, source: string(data)}
	if _, err := lkql.ParseFile(in.name, in.source, a.parserOptions()...); err != nil {
		return a.report(in, err)
	}
	return nil
}

// watchFiles re-checks files as they change until ctx is cancelled
func (a *app) watchFiles(ctx context.Context, paths []string) error {
	var mu sync.Mutex
	onChange := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if err := a.checkFile(path); err == nil {
			fmt.Fprintf(a.stdout, "%s: ok\n", path)
		} else if !errors.Is(err, errSyntax) {
			fmt.Fprintf(a.stderr, "error: %v\n", err)
		}
	}

	w, err := watch.New(paths, onChange, a.logger, watch.WithExtensions(a.cfg.Check.Extensions...))
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	fmt.Fprintln(a.stdout, "watching for changes (Ctrl+C to stop)")
	return w.Run(ctx)
}
