package parser

import (
	"github.com/sambeau/lkql/pkg/lkql/ast"
	lkqlerrors "github.com/sambeau/lkql/pkg/lkql/errors"
	"github.com/sambeau/lkql/pkg/lkql/lexer"
)

// parseQuery parses `query pattern [when predicate]`. curToken is the
// contextual `query` identifier.
func (p *Parser) parseQuery() ast.Expression {
	defer p.unnest()
	if !p.nest() {
		return nil
	}

	p.enter("query")
	defer p.leave()

	tok := p.curToken
	p.nextToken()

	pattern := p.parseQueryPattern()
	if pattern == nil {
		return nil
	}

	if !p.curTokenIs(lexer.WHEN) {
		return &ast.Query{Token: tok, Loc: p.spanFrom(tok.Pos), Pattern: pattern}
	}
	p.nextToken()

	predicate := p.parseExpression()
	if predicate == nil {
		return nil
	}
	return &ast.FilteredQuery{Token: tok, Loc: p.spanFrom(tok.Pos), Pattern: pattern, Predicate: predicate}
}

// parseQueryPattern parses `node_pattern [ "[" selector "]" node_pattern ]`
func (p *Parser) parseQueryPattern() ast.QueryPattern {
	p.enter("query_pattern")
	defer p.leave()

	tok := p.curToken
	queried := p.parseNodePattern()
	if queried == nil {
		return nil
	}

	if !p.isSelectorStart() {
		return &ast.NodeQueryPattern{Token: tok, Loc: p.spanFrom(tok.Pos), Queried: queried}
	}

	p.nextToken() // '['
	selector := p.parseSelector()
	if selector == nil || !p.expect(lexer.RBRACK) {
		return nil
	}

	related := p.parseNodePattern()
	if related == nil {
		return nil
	}

	return &ast.FullQueryPattern{
		Token:    tok,
		Loc:      p.spanFrom(tok.Pos),
		Queried:  queried,
		Selector: selector,
		Related:  related,
	}
}

// isSelectorStart reports whether curToken opens a selector pattern rather
// than a list comprehension following the query: `[name]`, `[quant name`
// and `[name(` cannot begin an expression. A query cut off after `[name`
// is read as a selector so the error asks for the closing bracket.
func (p *Parser) isSelectorStart() bool {
	if !p.curTokenIs(lexer.LBRACK) || !p.peekTokenIs(lexer.IDENTIFIER) {
		return false
	}
	switch p.tokenAt(p.pos + 2).Type {
	case lexer.RBRACK, lexer.IDENTIFIER, lexer.LPAREN, lexer.EOF:
		return true
	}
	return false
}

// parseNodePattern parses `name@Kind`, `name` or `Kind`
func (p *Parser) parseNodePattern() ast.NodePattern {
	p.enter("node_pattern")
	defer p.leave()

	tok := p.curToken
	switch tok.Type {
	case lexer.IDENTIFIER:
		binding := p.parseBindingPattern()
		if !p.curTokenIs(lexer.AT) {
			return binding
		}
		p.nextToken()
		kindPat := p.parseKindPattern()
		if kindPat == nil {
			return nil
		}
		return &ast.FullNodePattern{Token: tok, Loc: p.spanFrom(tok.Pos), Binding: binding, KindPat: kindPat}
	case lexer.KIND_NAME:
		return p.parseKindPattern()
	}

	p.fail(lkqlerrors.CodeUnexpected, tok, lexer.IDENTIFIER.Name(), lexer.KIND_NAME.Name())
	return nil
}

func (p *Parser) parseBindingPattern() *ast.BindingNodePattern {
	tok := p.curToken
	ident := p.parseIdentifier()
	return &ast.BindingNodePattern{Token: tok, Loc: ident.Loc, Binding: ident}
}

func (p *Parser) parseKindPattern() *ast.KindNodePattern {
	tok := p.curToken
	kindName := p.parseKindName()
	if kindName == nil {
		return nil
	}
	return &ast.KindNodePattern{Token: tok, Loc: kindName.Loc, KindName: kindName}
}

// parseSelector parses `quantifier named_selector` or `named_selector`.
// A selector is quantified iff it opens with two identifiers.
func (p *Parser) parseSelector() ast.SelectorPattern {
	p.enter("selector")
	defer p.leave()

	tok := p.curToken
	if !p.curTokenIs(lexer.IDENTIFIER) || !p.peekTokenIs(lexer.IDENTIFIER) {
		return p.parseNamedSelector()
	}

	quantifier := p.parseIdentifier()
	selector := p.parseNamedSelector()
	if selector == nil {
		return nil
	}
	return &ast.QuantifiedSelector{Token: tok, Loc: p.spanFrom(tok.Pos), Quantifier: quantifier, Selector: selector}
}

// parseNamedSelector parses `name` or `name([condition])`
func (p *Parser) parseNamedSelector() ast.NamedSelectorPattern {
	defer p.unnest()
	if !p.nest() {
		return nil
	}

	p.enter("named_selector")
	defer p.leave()

	tok := p.curToken
	name := p.parseIdentifier()
	if name == nil {
		return nil
	}

	if !p.curTokenIs(lexer.LPAREN) {
		return &ast.NamedSelector{Token: tok, Loc: p.spanFrom(tok.Pos), Name: name}
	}
	p.nextToken()

	sel := &ast.ParametrizedSelector{Token: tok, Name: name}
	if !p.curTokenIs(lexer.RPAREN) {
		sel.ConditionExpr = p.parseCompExpression()
		if sel.ConditionExpr == nil {
			return nil
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	sel.Loc = p.spanFrom(tok.Pos)
	return sel
}
