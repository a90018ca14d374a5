// Package lkql is the entry point to the LKQL front end. It lexes and
// parses a source unit and keeps the token and comment streams alongside
// the tree for tools that need them.
package lkql

import (
	"github.com/sambeau/lkql/pkg/lkql/ast"
	lkqlerrors "github.com/sambeau/lkql/pkg/lkql/errors"
	"github.com/sambeau/lkql/pkg/lkql/lexer"
	"github.com/sambeau/lkql/pkg/lkql/parser"
)

// Unit is a parsed source unit
type Unit struct {
	Filename string
	Source   string
	Program  *ast.Program
	Tokens   []lexer.Token // significant tokens, ending with EOF
	Comments []lexer.Token // comment trivia in source order
}

// Parse lexes and parses source.
func Parse(source string, opts ...parser.Option) (*Unit, error) {
	return ParseFile("", source, opts...)
}

// ParseFile is Parse with a filename recorded on the unit and on any
// diagnostic derived from the returned error.
func ParseFile(filename, source string, opts ...parser.Option) (*Unit, error) {
	all, err := lexer.NewWithFilename(source, filename).All()
	if err != nil {
		return nil, err
	}

	program, err := parser.Parse(all, opts...)
	if err != nil {
		return nil, err
	}

	return &Unit{
		Filename: filename,
		Source:   source,
		Program:  program,
		Tokens:   lexer.Significant(all),
		Comments: lexer.Comments(all),
	}, nil
}

// Check parses source and returns its first diagnostic, or nil.
func Check(source string, opts ...parser.Option) *lkqlerrors.Diagnostic {
	return CheckFile("", source, opts...)
}

// CheckFile is Check with the filename set on the diagnostic.
func CheckFile(filename, source string, opts ...parser.Option) *lkqlerrors.Diagnostic {
	_, err := ParseFile(filename, source, opts...)
	if err == nil {
		return nil
	}
	d := lkqlerrors.AsDiagnostic(err)
	if d == nil {
		d = lkqlerrors.New("", map[string]any{"message": err.Error()})
	}
	if filename != "" {
		d = d.WithFile(filename)
	}
	return d
}

// Line returns the text of the 1-based line n of the unit's source, without
// its newline. It returns "" when n is out of range.
func (u *Unit) Line(n int) string {
	return SourceLine(u.Source, n)
}

// SourceLine returns line n (1-based) of source without its newline.
func SourceLine(source string, n int) string {
	if n < 1 {
		return ""
	}
	line := 1
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] != '\n' {
			continue
		}
		if line == n {
			return trimCR(source[start:i])
		}
		line++
		start = i + 1
	}
	if line == n {
		return trimCR(source[start:])
	}
	return ""
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}
