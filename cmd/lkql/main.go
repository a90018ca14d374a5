// Command lkql parses, checks and inspects LKQL source files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

// Exit codes
const (
	exitOK     = 0
	exitSyntax = 1 // lexical or syntax errors in the input
	exitIO     = 2 // unreadable input, bad usage or bad config
)

// errSyntax marks a run that reported diagnostics
var errSyntax = errors.New("syntax errors")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdin: os.Stdin, stdout: stdout, stderr: stderr}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errSyntax):
		return exitSyntax
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitIO
	}
}
