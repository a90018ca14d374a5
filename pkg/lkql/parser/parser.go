// Package parser turns an LKQL token sequence into a syntax tree.
//
// The parser is a recursive descent parser. Every binary precedence level
// is a loop over (operator, operand) pairs, so a long chain of operators
// costs no stack. Nesting through sub-expressions, assignments, queries
// and selector conditions is bounded by WithMaxDepth.
package parser

import (
	"github.com/sambeau/lkql/pkg/lkql/ast"
	lkqlerrors "github.com/sambeau/lkql/pkg/lkql/errors"
	"github.com/sambeau/lkql/pkg/lkql/lexer"
)

// DefaultMaxDepth bounds nesting when no option overrides it.
const DefaultMaxDepth = 1000

// Contextual keywords: they lex as identifiers and are only recognised at
// statement level.
const (
	printKeyword = "print"
	queryKeyword = "query"
)

// Option configures a Parser
type Option func(*Parser)

// WithMaxDepth sets the maximum nesting depth of expressions, assignments,
// queries and selectors. Values below one are ignored.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// Parser represents the parser
type Parser struct {
	tokens []lexer.Token // significant tokens, ending with EOF
	pos    int           // index of curToken

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token

	rules    []string // grammar rules being parsed, innermost last
	depth    int
	maxDepth int

	err *lkqlerrors.SyntaxError // first error only
}

// New creates a parser over tokens. Comment trivia is dropped and an EOF
// token is added when missing.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	sig := lexer.Significant(tokens)
	if len(sig) == 0 || sig[len(sig)-1].Type != lexer.EOF {
		end := 0
		if len(sig) > 0 {
			last := sig[len(sig)-1]
			end = last.End
		}
		sig = append(sig, lexer.Token{Type: lexer.EOF, Pos: lexer.Pos{Offset: end}, End: end})
	}

	p := &Parser{
		tokens:   sig,
		pos:      -1,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	return p
}

// Parse parses a whole token sequence as produced by lexer.Tokenize.
func Parse(tokens []lexer.Token, opts ...Option) (*ast.Program, error) {
	return New(tokens, opts...).ParseProgram()
}

// ParseString lexes and parses input. Lexical errors are returned as they
// come from the lexer.
func ParseString(input string, opts ...Option) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, opts...)
}

// nextToken advances prevToken, curToken, and peekToken
func (p *Parser) nextToken() {
	if p.pos >= 0 {
		p.prevToken = p.curToken
	}
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.tokenAt(p.pos + 1)
}

// tokenAt returns the token at index i, or EOF past the end
func (p *Parser) tokenAt(i int) lexer.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// ParseProgram parses the program and returns the AST
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.enter("program")
	defer p.leave()

	program := &ast.Program{Loc: ast.Span{Start: p.curToken.Pos}}

	for !p.curTokenIs(lexer.EOF) {
		if len(program.Statements) > 0 && !p.canStartItem() {
			p.fail(lkqlerrors.CodeTrailing, p.curToken, "statement", "expression", "end of input")
			break
		}
		item := p.parseItem()
		if item == nil {
			break
		}
		program.Statements = append(program.Statements, item)
	}

	if p.err != nil {
		return nil, p.err
	}
	program.Loc.End = p.prevToken.End
	return program, nil
}

// parseItem parses one top-level statement, query or expression
func (p *Parser) parseItem() ast.Expression {
	switch {
	case p.curTokenIs(lexer.LET):
		return p.parseAssign()
	case p.isPrintStart():
		return p.parsePrint()
	case p.isQueryStart():
		return p.parseQuery()
	}
	return p.parseExpression()
}

func (p *Parser) canStartItem() bool {
	switch p.curToken.Type {
	case lexer.LET, lexer.VAL, lexer.IDENTIFIER, lexer.STRING, lexer.INTEGER,
		lexer.TRUE, lexer.FALSE, lexer.LPAREN, lexer.LBRACK:
		return true
	}
	return false
}

func (p *Parser) isPrintStart() bool {
	return p.curTokenIs(lexer.IDENTIFIER) && p.curToken.Literal == printKeyword &&
		p.peekTokenIs(lexer.LPAREN)
}

func (p *Parser) isQueryStart() bool {
	return p.curTokenIs(lexer.IDENTIFIER) && p.curToken.Literal == queryKeyword &&
		(p.peekTokenIs(lexer.IDENTIFIER) || p.peekTokenIs(lexer.KIND_NAME))
}

// parseAssign parses `let name = (query | expr)`
func (p *Parser) parseAssign() ast.Expression {
	defer p.unnest()
	if !p.nest() {
		return nil
	}

	p.enter("assign")
	defer p.leave()

	tok := p.curToken
	p.nextToken()

	name := p.parseIdentifier()
	if name == nil {
		return nil
	}
	if !p.expect(lexer.EQ) {
		return nil
	}

	var value ast.Expression
	if p.isQueryStart() {
		value = p.parseQuery()
	} else {
		value = p.parseExpression()
	}
	if value == nil {
		return nil
	}

	return &ast.Assign{Token: tok, Loc: p.spanFrom(tok.Pos), Name: name, Value: value}
}

// parsePrint parses `print(expr)`
func (p *Parser) parsePrint() ast.Expression {
	p.enter("print")
	defer p.leave()

	tok := p.curToken
	p.nextToken()

	if !p.expect(lexer.LPAREN) {
		return nil
	}
	value := p.parseExpression()
	if value == nil || !p.expect(lexer.RPAREN) {
		return nil
	}

	return &ast.PrintStmt{Token: tok, Loc: p.spanFrom(tok.Pos), Value: value}
}

// parseIdentifier consumes an IDENTIFIER token or reports what was found
func (p *Parser) parseIdentifier() *ast.Identifier {
	if !p.curTokenIs(lexer.IDENTIFIER) {
		p.fail(lkqlerrors.CodeExpected, p.curToken, lexer.IDENTIFIER.Name())
		return nil
	}
	tok := p.curToken
	p.nextToken()
	return &ast.Identifier{Token: tok, Loc: p.spanFrom(tok.Pos), Value: tok.Literal}
}

// parseKindName consumes a KIND_NAME token or reports what was found
func (p *Parser) parseKindName() *ast.KindName {
	if !p.curTokenIs(lexer.KIND_NAME) {
		p.fail(lkqlerrors.CodeExpected, p.curToken, lexer.KIND_NAME.Name())
		return nil
	}
	tok := p.curToken
	p.nextToken()
	return &ast.KindName{Token: tok, Loc: p.spanFrom(tok.Pos), Value: tok.Literal}
}

// Helper functions
func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// expect consumes the current token if it has type t
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.fail(lkqlerrors.CodeExpected, p.curToken, t.Name())
	return false
}

// spanFrom returns the span from start to the end of the last consumed token
func (p *Parser) spanFrom(start lexer.Pos) ast.Span {
	return ast.Span{Start: start, End: p.prevToken.End}
}

// nest enters one level of recursion through expressions, assignments,
// queries or selectors. It records PARSE-0004 and reports false past the
// bound. Every call is paired with unnest.
func (p *Parser) nest() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.fail(lkqlerrors.CodeTooDeep, p.curToken)
		return false
	}
	return true
}

func (p *Parser) unnest() {
	p.depth--
}

func (p *Parser) enter(rule string) {
	p.rules = append(p.rules, rule)
}

func (p *Parser) leave() {
	p.rules = p.rules[:len(p.rules)-1]
}

// fail records a syntax error at tok.
// Only the first error is recorded - subsequent errors are cascading noise.
func (p *Parser) fail(code string, tok lexer.Token, expected ...string) {
	if p.err != nil {
		return
	}
	p.err = &lkqlerrors.SyntaxError{
		Code:     code,
		Offset:   tok.Pos.Offset,
		Line:     tok.Pos.Line,
		Column:   tok.Pos.Column,
		Got:      tok.Literal,
		GotType:  tok.Type.Name(),
		Expected: expected,
		Rules:    append([]string(nil), p.rules...),
	}
}
