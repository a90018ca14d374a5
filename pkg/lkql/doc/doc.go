// Package doc extracts documentation comments from LKQL units.
//
// A run of whole-line comments directly above a top-level `let`, with no
// blank line in between, documents that binding.
package doc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkParser "github.com/yuin/goldmark/parser"

	"github.com/sambeau/lkql/pkg/lkql/ast"
	"github.com/sambeau/lkql/pkg/lkql/lexer"
	"github.com/sambeau/lkql/pkg/lkql/lkql"
)

// Entry documents one top-level binding
type Entry struct {
	Name string // bound name
	Line int    // line of the let
	Kind string // kind of the bound value, e.g. "query"
	Text string // comment text without the leading '#'
}

// Extract returns the documented bindings of unit in source order.
// Bindings without a comment are included with empty Text.
func Extract(unit *lkql.Unit) []Entry {
	var entries []Entry

	for _, stmt := range unit.Program.Statements {
		assign, ok := stmt.(*ast.Assign)
		if !ok {
			continue
		}
		line := assign.Span().Start.Line
		entries = append(entries, Entry{
			Name: assign.Name.Value,
			Line: line,
			Kind: assign.Value.Kind().String(),
			Text: commentAbove(unit, line),
		})
	}

	return entries
}

// commentAbove collects the whole-line comments ending on line-1
func commentAbove(unit *lkql.Unit, line int) string {
	var block []lexer.Token
	want := line - 1
	for i := len(unit.Comments) - 1; i >= 0; i-- {
		c := unit.Comments[i]
		if c.Pos.Line > want {
			continue
		}
		if c.Pos.Line < want || !ownLine(unit.Source, c) {
			break
		}
		block = append(block, c)
		want--
	}

	lines := make([]string, 0, len(block))
	for i := len(block) - 1; i >= 0; i-- {
		text := strings.TrimPrefix(block[i].Literal, "#")
		text = strings.TrimPrefix(text, " ")
		lines = append(lines, strings.TrimRight(text, " \t\r"))
	}
	return strings.Join(lines, "\n")
}

// ownLine reports whether only whitespace precedes the comment on its line
func ownLine(source string, c lexer.Token) bool {
	start := strings.LastIndexByte(source[:c.Pos.Offset], '\n') + 1
	return strings.TrimSpace(source[start:c.Pos.Offset]) == ""
}

// Markdown renders entries as a Markdown document.
func Markdown(title string, entries []Entry) string {
	var sb strings.Builder

	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	for _, e := range entries {
		fmt.Fprintf(&sb, "## `%s`\n\n", e.Name)
		fmt.Fprintf(&sb, "*%s, line %d*\n\n", e.Kind, e.Line)
		if e.Text != "" {
			sb.WriteString(e.Text)
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// HTML renders entries to HTML through Markdown.
func HTML(title string, entries []Entry) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(goldmarkParser.WithAutoHeadingID()),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(title, entries)), &buf); err != nil {
		return "", fmt.Errorf("failed to render documentation: %w", err)
	}
	return buf.String(), nil
}
