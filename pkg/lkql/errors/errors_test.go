package errors

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestLexicalErrorDiagnostic(t *testing.T) {
	err := &LexicalError{Offset: 4, Line: 1, Column: 5, Text: "$"}

	d := err.Diagnostic()
	if d.Class != ClassLexical {
		t.Errorf("Class = %q, want %q", d.Class, ClassLexical)
	}
	if d.Code != CodeUnrecognized {
		t.Errorf("Code = %q, want %q", d.Code, CodeUnrecognized)
	}
	if d.Message != `unrecognized character "$"` {
		t.Errorf("Message = %q", d.Message)
	}
	if d.Offset != 4 || d.Line != 1 || d.Column != 5 {
		t.Errorf("position = %d/%d:%d", d.Offset, d.Line, d.Column)
	}
	if got := err.Error(); got != `lexical error at 1:5: unrecognized character "$"` {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnterminatedStringHasHint(t *testing.T) {
	d := (&LexicalError{Code: CodeUnterminated, Line: 2, Column: 3, Text: `"abc`}).Diagnostic()
	if d.Message != "unterminated string literal" {
		t.Errorf("Message = %q", d.Message)
	}
	if len(d.Hints) != 1 {
		t.Fatalf("expected 1 hint, got %d", len(d.Hints))
	}
}

func TestSyntaxErrorDiagnostic(t *testing.T) {
	tests := []struct {
		name    string
		err     *SyntaxError
		message string
	}{
		{
			name:    "expected single",
			err:     &SyntaxError{Line: 1, Column: 5, Got: "1", GotType: "integer", Expected: []string{"identifier"}},
			message: "expected identifier, got '1'",
		},
		{
			name:    "expected alternatives",
			err:     &SyntaxError{Line: 1, Column: 1, Got: ")", Expected: []string{"identifier", "kind name", "'('"}},
			message: "expected identifier, kind name or '(', got ')'",
		},
		{
			name: "unexpected in rule",
			err: &SyntaxError{Code: CodeUnexpected, Got: "]", Expected: []string{"expression"},
				Rules: []string{"expr", "listcomp"}},
			message: "unexpected ']' in listcomp, expected expression",
		},
		{
			name:    "got falls back to type",
			err:     &SyntaxError{GotType: "end of input", Expected: []string{"')'"}},
			message: "expected ')', got 'end of input'",
		},
		{
			name:    "trailing",
			err:     &SyntaxError{Code: CodeTrailing, Got: ")"},
			message: "unexpected ')' after complete expression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.err.Diagnostic()
			if d.Class != ClassSyntax {
				t.Errorf("Class = %q", d.Class)
			}
			if d.Message != tt.message {
				t.Errorf("Message = %q, want %q", d.Message, tt.message)
			}
		})
	}
}

func TestSyntaxErrorKeywordHint(t *testing.T) {
	err := &SyntaxError{Got: "selet", GotType: "identifier", Expected: []string{"'='"}}
	d := err.Diagnostic()
	if len(d.Hints) != 1 || d.Hints[0] != "Did you mean `select`?" {
		t.Errorf("Hints = %v", d.Hints)
	}

	err = &SyntaxError{Got: "children", GotType: "identifier", Expected: []string{"'='"}}
	if hints := err.Diagnostic().Hints; len(hints) != 0 {
		t.Errorf("unexpected hints %v", hints)
	}
}

func TestSyntaxErrorRule(t *testing.T) {
	if r := (&SyntaxError{}).Rule(); r != "" {
		t.Errorf("Rule() = %q, want empty", r)
	}
	if r := (&SyntaxError{Rules: []string{"program", "assign"}}).Rule(); r != "assign" {
		t.Errorf("Rule() = %q, want assign", r)
	}
}

func TestDiagnosticStrings(t *testing.T) {
	d := NewWithPosition(CodeExpected, 3, 7, map[string]any{"Expected": "identifier", "Got": "1"})
	d.Hints = []string{"try a name"}

	if got := d.String(); got != "line 3, column 7: expected identifier, got '1'\n  try a name" {
		t.Errorf("String() = %q", got)
	}

	withFile := d.WithFile("rules.lkql")
	if d.File != "" {
		t.Error("WithFile modified the receiver")
	}
	pretty := withFile.PrettyString()
	for _, want := range []string{"Syntax error", "in: rules.lkql", "at: line 3, column 7", "hint: try a name"} {
		if !strings.Contains(pretty, want) {
			t.Errorf("PrettyString() missing %q:\n%s", want, pretty)
		}
	}
}

func TestDiagnosticToJSON(t *testing.T) {
	d := (&LexicalError{Offset: 2, Line: 1, Column: 3, Text: "%"}).Diagnostic().WithFile("a.lkql")

	data, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["class"] != "lexical" || decoded["code"] != CodeUnrecognized || decoded["file"] != "a.lkql" {
		t.Errorf("decoded = %v", decoded)
	}
	if decoded["offset"] != float64(2) {
		t.Errorf("offset = %v", decoded["offset"])
	}
}

func TestNewUnknownCode(t *testing.T) {
	d := New("X-9999", map[string]any{"message": "custom"})
	if d.Message != "custom" || d.Code != "X-9999" {
		t.Errorf("got %+v", d)
	}
}

func TestJoinAlternatives(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, "nothing"},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a or b"},
		{[]string{"a", "b", "c"}, "a, b or c"},
	}
	for _, tt := range tests {
		if got := JoinAlternatives(tt.in); got != tt.want {
			t.Errorf("JoinAlternatives(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAsDiagnostic(t *testing.T) {
	if AsDiagnostic(&LexicalError{Text: "$"}) == nil {
		t.Error("expected diagnostic for LexicalError")
	}
	if AsDiagnostic(&SyntaxError{Got: "x"}) == nil {
		t.Error("expected diagnostic for SyntaxError")
	}
	d := New(CodeTrailing, map[string]any{"Got": ")"})
	if AsDiagnostic(d) != d {
		t.Error("expected Diagnostic to pass through")
	}
	if AsDiagnostic(fmt.Errorf("plain")) != nil {
		t.Error("expected nil for foreign error")
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"let", "let", 0},
		{"lett", "let", 1},
		{"selct", "select", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFindClosestMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"lett", "let"},
		{"selectr", "select"},
		{"wehn", "when"},
		{"let", ""},   // exact matches are not suggestions
		{"xyzzy", ""}, // too far from everything
		{"", ""},
		{"selctor", "selector"},
	}
	for _, tt := range tests {
		if got := FindClosestMatch(tt.input, Keywords); got != tt.want {
			t.Errorf("FindClosestMatch(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindTopMatches(t *testing.T) {
	got := FindTopMatches("thn", []string{"then", "than", "xyz"}, 5)
	if len(got) != 2 || got[0] != "then" || got[1] != "than" {
		t.Errorf("FindTopMatches = %v", got)
	}
	if got := FindTopMatches("then", []string{"then"}, 0); got != nil {
		t.Errorf("n=0 should return nil, got %v", got)
	}
}
