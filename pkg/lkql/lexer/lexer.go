package lexer

import (
	"fmt"
	"unicode/utf8"

	lkqlerrors "github.com/sambeau/lkql/pkg/lkql/errors"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	COMMENT // # comment, trivia only

	// Identifiers and literals
	IDENTIFIER // foo, objectDecl, x_1
	KIND_NAME  // ObjectDecl, ObjectDecl.list
	STRING     // "foobar"
	INTEGER    // 1343456

	// Keywords
	LET      // "let"
	SELECT   // "select"
	WHEN     // "when"
	MATCH    // "match"
	VAL      // "val"
	FUN      // "fun"
	SELECTOR // "selector"
	REC      // "rec"
	SKIP     // "skip"
	IS       // "is"
	IN       // "in"
	TRUE     // "true"
	FALSE    // "false"
	IF       // "if"
	THEN     // "then"
	ELSE     // "else"
	NOT      // "not"
	NULL     // "null"

	// Punctuation and operators
	DOT          // .
	QUESTION_DOT // ?.
	COMMA        // ,
	SEMICOLON    // ;
	COLON        // :
	UNDERSCORE   // _
	EQ           // =
	EQ_EQ        // ==
	NEQ          // !=
	EXCL_EXCL    // !!
	LT           // <
	LEQ          // <=
	GT           // >
	GEQ          // >=
	AND          // and
	OR           // or
	PLUS         // +
	MINUS        // -
	MUL          // *
	DIV          // /
	AMP          // &
	LPAREN       // (
	RPAREN       // )
	LBRACK       // [
	RBRACK       // ]
	LCURL        // {
	RCURL        // }
	AT           // @
	PIPE         // |
	LARROW       // <-
	BIG_RARROW   // =>
	BOX          // <>
)

var tokenTypeStrings = [...]string{
	ILLEGAL:      "ILLEGAL",
	EOF:          "EOF",
	COMMENT:      "COMMENT",
	IDENTIFIER:   "IDENTIFIER",
	KIND_NAME:    "KIND_NAME",
	STRING:       "STRING",
	INTEGER:      "INTEGER",
	LET:          "LET",
	SELECT:       "SELECT",
	WHEN:         "WHEN",
	MATCH:        "MATCH",
	VAL:          "VAL",
	FUN:          "FUN",
	SELECTOR:     "SELECTOR",
	REC:          "REC",
	SKIP:         "SKIP",
	IS:           "IS",
	IN:           "IN",
	TRUE:         "TRUE",
	FALSE:        "FALSE",
	IF:           "IF",
	THEN:         "THEN",
	ELSE:         "ELSE",
	NOT:          "NOT",
	NULL:         "NULL",
	DOT:          "DOT",
	QUESTION_DOT: "QUESTION_DOT",
	COMMA:        "COMMA",
	SEMICOLON:    "SEMICOLON",
	COLON:        "COLON",
	UNDERSCORE:   "UNDERSCORE",
	EQ:           "EQ",
	EQ_EQ:        "EQ_EQ",
	NEQ:          "NEQ",
	EXCL_EXCL:    "EXCL_EXCL",
	LT:           "LT",
	LEQ:          "LEQ",
	GT:           "GT",
	GEQ:          "GEQ",
	AND:          "AND",
	OR:           "OR",
	PLUS:         "PLUS",
	MINUS:        "MINUS",
	MUL:          "MUL",
	DIV:          "DIV",
	AMP:          "AMP",
	LPAREN:       "LPAREN",
	RPAREN:       "RPAREN",
	LBRACK:       "LBRACK",
	RBRACK:       "RBRACK",
	LCURL:        "LCURL",
	RCURL:        "RCURL",
	AT:           "AT",
	PIPE:         "PIPE",
	LARROW:       "LARROW",
	BIG_RARROW:   "BIG_RARROW",
	BOX:          "BOX",
}

// String returns the upper-case name of the token type
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenTypeStrings) {
		return tokenTypeStrings[tt]
	}
	return "UNKNOWN"
}

// Name returns a human-readable name for diagnostics
func (tt TokenType) Name() string {
	switch tt {
	case IDENTIFIER:
		return "identifier"
	case KIND_NAME:
		return "kind name"
	case STRING:
		return "string"
	case INTEGER:
		return "integer"
	case COMMENT:
		return "comment"
	case EOF:
		return "end of input"
	case ILLEGAL:
		return "illegal character"
	}
	if tt.IsKeyword() {
		return "'" + keywordSpellings[tt] + "'"
	}
	if p, ok := punctuationSpellings[tt]; ok {
		return "'" + p + "'"
	}
	return tt.String()
}

// IsKeyword reports whether tt is a reserved word
func (tt TokenType) IsKeyword() bool {
	_, ok := keywordSpellings[tt]
	return ok
}

// Keywords map for identifying reserved words. "and" and "or" are spelled
// like identifiers but classified as operators.
var keywords = map[string]TokenType{
	"let":      LET,
	"select":   SELECT,
	"when":     WHEN,
	"match":    MATCH,
	"val":      VAL,
	"fun":      FUN,
	"selector": SELECTOR,
	"rec":      REC,
	"skip":     SKIP,
	"is":       IS,
	"in":       IN,
	"true":     TRUE,
	"false":    FALSE,
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"not":      NOT,
	"null":     NULL,
	"and":      AND,
	"or":       OR,
}

var keywordSpellings = func() map[TokenType]string {
	m := make(map[TokenType]string, len(keywords))
	for spelling, tt := range keywords {
		m[tt] = spelling
	}
	return m
}()

var punctuationSpellings = map[TokenType]string{
	DOT: ".", QUESTION_DOT: "?.", COMMA: ",", SEMICOLON: ";", COLON: ":",
	UNDERSCORE: "_", EQ: "=", EQ_EQ: "==", NEQ: "!=", EXCL_EXCL: "!!",
	LT: "<", LEQ: "<=", GT: ">", GEQ: ">=", PLUS: "+", MINUS: "-",
	MUL: "*", DIV: "/", AMP: "&", LPAREN: "(", RPAREN: ")", LBRACK: "[",
	RBRACK: "]", LCURL: "{", RCURL: "}", AT: "@", PIPE: "|", LARROW: "<-",
	BIG_RARROW: "=>", BOX: "<>",
}

// LookupIdent checks if a lowercase word is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENTIFIER
}

// Pos is a position in the input
type Pos struct {
	Offset int // 0-based byte offset
	Line   int // 1-based
	Column int // 1-based, in characters
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string // source text; string contents without the quotes
	Pos     Pos    // start of the token
	End     int    // byte offset one past the token
	Trivia  bool   // comments only; ignored by the grammar
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Pos.Line, t.Pos.Column)
}

// kindListSuffix is folded into a KIND_NAME token when it directly follows
// the name.
const kindListSuffix = ".list"

// Lexer represents the lexical analyzer
type Lexer struct {
	filename     string
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination (first byte)
	chSize       int  // byte size of current character
	line         int  // line of the current char
	column       int  // column of the current char

	// symbols interns identifier and kind-name text for this lexer only.
	symbols map[string]string
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "<input>")
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	l := &Lexer{
		filename: filename,
		input:    input,
		line:     1,
		column:   0,
		symbols:  make(map[string]string),
	}
	l.readChar()
	return l
}

// Filename returns the name the lexer was created with
func (l *Lexer) Filename() string {
	return l.filename
}

// Tokenize lexes the whole input eagerly. The result contains comment
// trivia and ends with a single EOF token.
func Tokenize(input string) ([]Token, error) {
	return New(input).All()
}

// All drains the lexer into a token slice ending with EOF.
func (l *Lexer) All() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Significant returns the tokens the grammar consumes (no trivia).
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if !t.Trivia {
			out = append(out, t)
		}
	}
	return out
}

// Comments returns the trivia tokens.
func Comments(tokens []Token) []Token {
	var out []Token
	for _, t := range tokens {
		if t.Trivia {
			out = append(out, t)
		}
	}
	return out
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents EOF
		l.chSize = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}

	l.position = l.readPosition
	b := l.input[l.readPosition]
	l.ch = b
	if b < utf8.RuneSelf {
		l.chSize = 1
	} else {
		_, l.chSize = utf8.DecodeRuneInString(l.input[l.readPosition:])
	}
	l.readPosition += l.chSize
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) pos() Pos {
	return Pos{Offset: l.position, Line: l.line, Column: l.column}
}

// NextToken scans the input and returns the next token. Whitespace is
// skipped; comments are returned as trivia tokens.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	start := l.pos()
	if l.atEOF() {
		return Token{Type: EOF, Pos: start, End: start.Offset}, nil
	}

	switch l.ch {
	case '#':
		return l.readComment(start), nil
	case '"':
		return l.readString(start)
	case '.':
		return l.punct(start, DOT, 1), nil
	case '?':
		if l.peekChar() == '.' {
			return l.punct(start, QUESTION_DOT, 2), nil
		}
	case ',':
		return l.punct(start, COMMA, 1), nil
	case ';':
		return l.punct(start, SEMICOLON, 1), nil
	case ':':
		return l.punct(start, COLON, 1), nil
	case '_':
		return l.punct(start, UNDERSCORE, 1), nil
	case '=':
		switch l.peekChar() {
		case '=':
			return l.punct(start, EQ_EQ, 2), nil
		case '>':
			return l.punct(start, BIG_RARROW, 2), nil
		}
		return l.punct(start, EQ, 1), nil
	case '!':
		switch l.peekChar() {
		case '=':
			return l.punct(start, NEQ, 2), nil
		case '!':
			return l.punct(start, EXCL_EXCL, 2), nil
		}
	case '<':
		switch l.peekChar() {
		case '=':
			return l.punct(start, LEQ, 2), nil
		case '-':
			return l.punct(start, LARROW, 2), nil
		case '>':
			return l.punct(start, BOX, 2), nil
		}
		return l.punct(start, LT, 1), nil
	case '>':
		if l.peekChar() == '=' {
			return l.punct(start, GEQ, 2), nil
		}
		return l.punct(start, GT, 1), nil
	case '+':
		return l.punct(start, PLUS, 1), nil
	case '-':
		return l.punct(start, MINUS, 1), nil
	case '*':
		return l.punct(start, MUL, 1), nil
	case '/':
		return l.punct(start, DIV, 1), nil
	case '&':
		return l.punct(start, AMP, 1), nil
	case '(':
		return l.punct(start, LPAREN, 1), nil
	case ')':
		return l.punct(start, RPAREN, 1), nil
	case '[':
		return l.punct(start, LBRACK, 1), nil
	case ']':
		return l.punct(start, RBRACK, 1), nil
	case '{':
		return l.punct(start, LCURL, 1), nil
	case '}':
		return l.punct(start, RCURL, 1), nil
	case '@':
		return l.punct(start, AT, 1), nil
	case '|':
		return l.punct(start, PIPE, 1), nil
	default:
		switch {
		case isLower(l.ch):
			word := l.readWord()
			tt := LookupIdent(word)
			if tt == IDENTIFIER {
				word = l.intern(word)
			}
			return Token{Type: tt, Literal: word, Pos: start, End: l.position}, nil
		case isUpper(l.ch):
			return l.readKindName(start), nil
		case isDigit(l.ch):
			for isDigit(l.ch) {
				l.readChar()
			}
			return Token{Type: INTEGER, Literal: l.input[start.Offset:l.position], Pos: start, End: l.position}, nil
		}
	}

	return Token{}, &lkqlerrors.LexicalError{
		Code:   lkqlerrors.CodeUnrecognized,
		Offset: start.Offset,
		Line:   start.Line,
		Column: start.Column,
		Text:   l.input[start.Offset : start.Offset+l.chSize],
	}
}

// punct consumes n single-byte characters as a punctuation token
func (l *Lexer) punct(start Pos, tt TokenType, n int) Token {
	for i := 0; i < n; i++ {
		l.readChar()
	}
	return Token{Type: tt, Literal: l.input[start.Offset:l.position], Pos: start, End: l.position}
}

// skipWhitespace skips spaces, tabs, newlines and carriage returns
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readComment reads from '#' to the end of the line, excluding the newline
func (l *Lexer) readComment(start Pos) Token {
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
	return Token{
		Type:    COMMENT,
		Literal: l.input[start.Offset:l.position],
		Pos:     start,
		End:     l.position,
		Trivia:  true,
	}
}

// readString reads a double-quoted string. There are no escapes and the
// string may span lines.
func (l *Lexer) readString(start Pos) (Token, error) {
	l.readChar() // skip opening quote
	for !l.atEOF() && l.ch != '"' {
		l.readChar()
	}
	if l.atEOF() {
		return Token{}, &lkqlerrors.LexicalError{
			Code:   lkqlerrors.CodeUnterminated,
			Offset: start.Offset,
			Line:   start.Line,
			Column: start.Column,
			Text:   l.input[start.Offset:],
		}
	}
	content := l.input[start.Offset+1 : l.position]
	l.readChar() // skip closing quote
	return Token{Type: STRING, Literal: content, Pos: start, End: l.position}, nil
}

// readWord reads an alphanumeric/underscore run
func (l *Lexer) readWord() string {
	position := l.position
	for isWordChar(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readKindName reads an upper-case word and an optional ".list" suffix.
// The suffix is only taken when it is not the prefix of a longer word.
func (l *Lexer) readKindName(start Pos) Token {
	l.readWord()
	rest := l.input[l.position:]
	if len(rest) >= len(kindListSuffix) && rest[:len(kindListSuffix)] == kindListSuffix &&
		(len(rest) == len(kindListSuffix) || !isWordChar(rest[len(kindListSuffix)])) {
		for i := 0; i < len(kindListSuffix); i++ {
			l.readChar()
		}
	}
	text := l.intern(l.input[start.Offset:l.position])
	return Token{Type: KIND_NAME, Literal: text, Pos: start, End: l.position}
}

func (l *Lexer) intern(s string) string {
	if v, ok := l.symbols[s]; ok {
		return v
	}
	l.symbols[s] = s
	return s
}

func isLower(ch byte) bool {
	return 'a' <= ch && ch <= 'z'
}

func isUpper(ch byte) bool {
	return 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isWordChar(ch byte) bool {
	return isLower(ch) || isUpper(ch) || isDigit(ch) || ch == '_'
}
