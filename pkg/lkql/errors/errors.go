// Package errors provides structured error types for the LKQL front end.
//
// The lexer and parser report failures as LexicalError and SyntaxError, two
// plain data types that implement error. Both convert to a Diagnostic, a
// unified representation with a catalog code, a rendered message, hints and
// position information that tooling can print or serialize.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes diagnostics.
type ErrorClass string

const (
	ClassLexical ErrorClass = "lexical" // Unrecognized input characters
	ClassSyntax  ErrorClass = "syntax"  // No grammar alternative matched
)

// LexicalError reports input the lexer could not classify.
type LexicalError struct {
	Code   string // LEX-0001 or LEX-0002
	Offset int    // 0-based byte offset of the offending text
	Line   int    // 1-based line
	Column int    // 1-based column
	Text   string // the unrecognized text
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at %d:%d: %s", e.Line, e.Column, e.Diagnostic().Message)
}

// Diagnostic converts the error to its catalog representation.
func (e *LexicalError) Diagnostic() *Diagnostic {
	code := e.Code
	if code == "" {
		code = CodeUnrecognized
	}
	d := NewWithPosition(code, e.Line, e.Column, map[string]any{"Text": e.Text})
	d.Offset = e.Offset
	return d
}

// SyntaxError reports the first token at which no grammar alternative
// matched. Expected lists what would have been accepted at that position and
// Rules the grammar rules being attempted, innermost last.
type SyntaxError struct {
	Code     string
	Offset   int
	Line     int
	Column   int
	Got      string // literal of the offending token
	GotType  string // readable name of the offending token kind
	Expected []string
	Rules    []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Diagnostic().Message)
}

// Rule returns the innermost rule that was being parsed, or "".
func (e *SyntaxError) Rule() string {
	if len(e.Rules) == 0 {
		return ""
	}
	return e.Rules[len(e.Rules)-1]
}

// Diagnostic converts the error to its catalog representation.
func (e *SyntaxError) Diagnostic() *Diagnostic {
	code := e.Code
	if code == "" {
		code = CodeExpected
	}
	got := e.Got
	if got == "" {
		got = e.GotType
	}
	d := NewWithPosition(code, e.Line, e.Column, map[string]any{
		"Expected": JoinAlternatives(e.Expected),
		"Got":      got,
		"Rule":     e.Rule(),
	})
	d.Offset = e.Offset
	if e.GotType == "identifier" {
		if kw := FindClosestMatch(e.Got, Keywords); kw != "" {
			d.Hints = append(d.Hints, "Did you mean `"+kw+"`?")
		}
	}
	return d
}

// Diagnostic is the unified form of a lexical or syntax error.
type Diagnostic struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Line    int            `json:"line"`
	Column  int            `json:"column"`
	Offset  int            `json:"offset"`
	File    string         `json:"file,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.String()
}

// String returns "file: line L, column C: message" followed by hints.
func (d *Diagnostic) String() string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(d.File)
		sb.WriteString(": ")
	}
	if d.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", d.Line, d.Column))
	}

	sb.WriteString(d.Message)

	for _, hint := range d.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (d *Diagnostic) PrettyString() string {
	var sb strings.Builder

	switch d.Class {
	case ClassLexical:
		sb.WriteString("Lexical error")
	default:
		sb.WriteString("Syntax error")
	}

	if d.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(d.File)
		if d.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", d.Line, d.Column))
		}
		sb.WriteString("\n  ")
	} else if d.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", d.Line, d.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(d.Message)

	for _, hint := range d.Hints {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the diagnostic as JSON bytes.
func (d *Diagnostic) ToJSON() ([]byte, error) {
	return json.Marshal(d)
}

// WithFile returns a copy of the diagnostic with the file path set.
func (d *Diagnostic) WithFile(file string) *Diagnostic {
	c := *d
	c.File = file
	return &c
}

// Catalog codes.
const (
	CodeUnrecognized = "LEX-0001"
	CodeUnterminated = "LEX-0002"
	CodeExpected     = "PARSE-0001"
	CodeUnexpected   = "PARSE-0002"
	CodeTrailing     = "PARSE-0003"
	CodeTooDeep      = "PARSE-0004"
)

// ErrorDef defines an entry in the catalog.
type ErrorDef struct {
	Class    ErrorClass
	Template string   // Message template with {{.placeholders}}
	Hints    []string // Hint templates
}

// ErrorCatalog maps codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	CodeUnrecognized: {
		Class:    ClassLexical,
		Template: "unrecognized character {{printf \"%q\" .Text}}",
	},
	CodeUnterminated: {
		Class:    ClassLexical,
		Template: "unterminated string literal",
		Hints:    []string{"close the string with a double quote"},
	},
	CodeExpected: {
		Class:    ClassSyntax,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	CodeUnexpected: {
		Class:    ClassSyntax,
		Template: "unexpected '{{.Got}}'{{if .Rule}} in {{.Rule}}{{end}}, expected {{.Expected}}",
	},
	CodeTrailing: {
		Class:    ClassSyntax,
		Template: "unexpected '{{.Got}}' after complete expression",
	},
	CodeTooDeep: {
		Class:    ClassSyntax,
		Template: "expression nested too deeply at '{{.Got}}'",
		Hints:    []string{"split the expression with val bindings"},
	},
}

// New creates a diagnostic from a catalog code.
func New(code string, data map[string]any) *Diagnostic {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if m, ok := data["message"].(string); ok {
			msg = m
		}
		return &Diagnostic{
			Class:   ClassSyntax,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	var hints []string
	for _, hintTmpl := range def.Hints {
		if rendered := renderTemplate(hintTmpl, data); rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &Diagnostic{
		Class:   def.Class,
		Code:    code,
		Message: renderTemplate(def.Template, data),
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a diagnostic from a catalog code with a position.
func NewWithPosition(code string, line, column int, data map[string]any) *Diagnostic {
	d := New(code, data)
	d.Line = line
	d.Column = column
	return d
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// JoinAlternatives renders a list of alternatives as "a", "a or b" or
// "a, b or c".
func JoinAlternatives(alts []string) string {
	switch len(alts) {
	case 0:
		return "nothing"
	case 1:
		return alts[0]
	}
	return strings.Join(alts[:len(alts)-1], ", ") + " or " + alts[len(alts)-1]
}

// AsDiagnostic extracts a Diagnostic from a lexical or syntax error.
// It returns nil for any other error.
func AsDiagnostic(err error) *Diagnostic {
	switch e := err.(type) {
	case *LexicalError:
		return e.Diagnostic()
	case *SyntaxError:
		return e.Diagnostic()
	case *Diagnostic:
		return e
	}
	return nil
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// FuzzyMatch is a candidate with its edit distance.
type FuzzyMatch struct {
	Value    string
	Distance int
}

// FindClosestMatch returns the candidate closest to input, or "" when the
// best distance is zero or beyond a length-dependent threshold.
func FindClosestMatch(input string, candidates []string) string {
	matches := FindTopMatches(input, candidates, 1)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// FindTopMatches returns up to n candidates within the edit threshold,
// closest first.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	inputLower := strings.ToLower(input)

	var matches []FuzzyMatch
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 {
			matches = append(matches, FuzzyMatch{Value: candidate, Distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	// 1-3 chars: 1 edit, 4-6: 2 edits, 7+: 3 edits
	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	var result []string
	for i := 0; i < len(matches) && len(result) < n; i++ {
		if matches[i].Distance <= threshold {
			result = append(result, matches[i].Value)
		}
	}

	return result
}

// Keywords lists the LKQL reserved words and contextual keywords used for
// "did you mean" hints.
var Keywords = []string{
	"let", "select", "when", "match", "val", "fun", "selector", "rec",
	"skip", "is", "in", "true", "false", "if", "then", "else", "not", "null",
	"and", "or", "query", "print",
}
