package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"

	lkqlerrors "github.com/sambeau/lkql/pkg/lkql/errors"
	"github.com/sambeau/lkql/pkg/lkql/lkql"
)

type styles struct {
	file    *color.Color
	pos     *color.Color
	message *color.Color
	caret   *color.Color
	hint    *color.Color
}

// newStyles enables colour for "always", and for "auto" when w is a terminal
func newStyles(mode string, w io.Writer) *styles {
	enabled := mode == "always" || (mode == "auto" && !color.NoColor && isTerminal(w))

	style := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}

	return &styles{
		file:    style(color.FgCyan, color.Bold),
		pos:     style(color.FgHiBlue, color.Bold),
		message: style(color.FgRed, color.Bold),
		caret:   style(color.FgRed, color.Bold),
		hint:    style(color.FgGreen),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// printDiagnostic writes "file:line:col: message", the offending source line
// with a caret under the column, and any hints.
func printDiagnostic(w io.Writer, st *styles, d *lkqlerrors.Diagnostic, source string) {
	file := d.File
	if file == "" {
		file = "<input>"
	}

	if d.Line <= 0 {
		fmt.Fprintf(w, "%s: %s\n", st.file.Sprint(file), st.message.Sprint(d.Message))
	} else {
		fmt.Fprintf(w, "%s:%s: %s\n",
			st.file.Sprint(file),
			st.pos.Sprintf("%d:%d", d.Line, d.Column),
			st.message.Sprint(d.Message))

		line := lkql.SourceLine(source, d.Line)
		fmt.Fprintf(w, "    %s\n", line)
		fmt.Fprintf(w, "    %s%s\n", caretPadding(line, d.Column), st.caret.Sprint("^"))
	}

	for _, hint := range d.Hints {
		fmt.Fprintf(w, "  %s %s\n", st.hint.Sprint("hint:"), hint)
	}
}

// caretPadding returns the whitespace that lines a caret up under the
// 1-based character column col of line. Tabs are kept so the terminal
// expands them the same way; wide characters take two cells.
func caretPadding(line string, col int) string {
	var sb strings.Builder
	n := 1
	for _, r := range line {
		if n >= col {
			break
		}
		switch {
		case r == '\t':
			sb.WriteByte('\t')
		case isWide(r):
			sb.WriteString("  ")
		default:
			sb.WriteByte(' ')
		}
		n++
	}
	for ; n < col; n++ {
		sb.WriteByte(' ')
	}
	return sb.String()
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
