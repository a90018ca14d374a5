package parser

import (
	"github.com/sambeau/lkql/pkg/lkql/ast"
	lkqlerrors "github.com/sambeau/lkql/pkg/lkql/errors"
	"github.com/sambeau/lkql/pkg/lkql/lexer"
)

// binary operator tables per precedence level
var (
	logicOperators = map[lexer.TokenType]ast.Operator{
		lexer.AND: ast.OpAnd,
		lexer.OR:  ast.OpOr,
	}
	compOperators = map[lexer.TokenType]ast.Operator{
		lexer.EQ_EQ: ast.OpEq,
		lexer.NEQ:   ast.OpNeq,
		lexer.AMP:   ast.OpConcat,
		lexer.LT:    ast.OpLt,
		lexer.LEQ:   ast.OpLeq,
		lexer.GT:    ast.OpGt,
		lexer.GEQ:   ast.OpGeq,
	}
	sumOperators = map[lexer.TokenType]ast.Operator{
		lexer.PLUS:  ast.OpPlus,
		lexer.MINUS: ast.OpMinus,
	}
	productOperators = map[lexer.TokenType]ast.Operator{
		lexer.MUL: ast.OpMul,
		lexer.DIV: ast.OpDiv,
	}
)

// primaryStarts lists what may begin a primary, for error messages
var primaryStarts = []string{
	lexer.IDENTIFIER.Name(),
	lexer.INTEGER.Name(),
	lexer.STRING.Name(),
	lexer.TRUE.Name(),
	lexer.FALSE.Name(),
	lexer.LPAREN.Name(),
	lexer.LBRACK.Name(),
	lexer.LET.Name(),
}

// parseExpression parses `val_expr | comp_expr { (and|or) comp_expr }`
func (p *Parser) parseExpression() ast.Expression {
	defer p.unnest()
	if !p.nest() {
		return nil
	}

	p.enter("expr")
	defer p.leave()

	if p.curTokenIs(lexer.VAL) {
		return p.parseValExpression()
	}

	left := p.parseCompExpression()
	for left != nil {
		op, ok := logicOperators[p.curToken.Type]
		if !ok {
			break
		}
		left = p.parseBinaryRest(left, op, p.parseCompExpression)
	}
	return left
}

// parseValExpression parses `val name = value; body`
func (p *Parser) parseValExpression() ast.Expression {
	p.enter("val_expr")
	defer p.leave()

	tok := p.curToken
	p.nextToken()

	name := p.parseIdentifier()
	if name == nil || !p.expect(lexer.EQ) {
		return nil
	}
	value := p.parseExpression()
	if value == nil || !p.expect(lexer.SEMICOLON) {
		return nil
	}
	body := p.parseExpression()
	if body == nil {
		return nil
	}

	return &ast.ValExpr{Token: tok, Loc: p.spanFrom(tok.Pos), Name: name, Value: value, Body: body}
}

// parseCompExpression parses is-clauses, in-clauses and comparisons, all
// left-associative at the same level.
func (p *Parser) parseCompExpression() ast.Expression {
	p.enter("comp_expr")
	defer p.leave()

	left := p.parsePlusExpression()
	for left != nil {
		tok := p.curToken
		switch tok.Type {
		case lexer.IS:
			p.nextToken()
			kindName := p.parseKindName()
			if kindName == nil {
				return nil
			}
			left = &ast.IsClause{Token: tok, Loc: p.spanFrom(left.Span().Start), Value: left, KindName: kindName}
		case lexer.IN:
			p.nextToken()
			collection := p.parseExpression()
			if collection == nil {
				return nil
			}
			left = &ast.InClause{Token: tok, Loc: p.spanFrom(left.Span().Start), Value: left, Collection: collection}
		default:
			op, ok := compOperators[tok.Type]
			if !ok {
				return left
			}
			left = p.parseBinaryRest(left, op, p.parsePlusExpression)
		}
	}
	return left
}

// parsePlusExpression parses `prod_expr { (+|-) prod_expr }`
func (p *Parser) parsePlusExpression() ast.Expression {
	p.enter("plus_expr")
	defer p.leave()

	left := p.parseProductExpression()
	for left != nil {
		op, ok := sumOperators[p.curToken.Type]
		if !ok {
			break
		}
		left = p.parseBinaryRest(left, op, p.parseProductExpression)
	}
	return left
}

// parseProductExpression parses `value_expr { (*|/) value_expr }`
func (p *Parser) parseProductExpression() ast.Expression {
	p.enter("prod_expr")
	defer p.leave()

	left := p.parseValueExpression()
	for left != nil {
		op, ok := productOperators[p.curToken.Type]
		if !ok {
			break
		}
		left = p.parseBinaryRest(left, op, p.parseValueExpression)
	}
	return left
}

// parseBinaryRest consumes the operator at curToken and its right operand
func (p *Parser) parseBinaryRest(left ast.Expression, op ast.Operator, operand func() ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()

	right := operand()
	if right == nil {
		return nil
	}
	return &ast.BinaryOp{Token: tok, Loc: p.spanFrom(left.Span().Start), Left: left, Op: op, Right: right}
}

// parseValueExpression parses a primary followed by any chain of
// `.member` and `[index]` postfixes.
func (p *Parser) parseValueExpression() ast.Expression {
	p.enter("value_expr")
	defer p.leave()

	left := p.parsePrimary()
	for left != nil {
		tok := p.curToken
		switch {
		case tok.Type == lexer.DOT:
			p.nextToken()
			member := p.parseIdentifier()
			if member == nil {
				return nil
			}
			left = &ast.DotAccess{Token: tok, Loc: p.spanFrom(left.Span().Start), Receiver: left, Member: member}
		case tok.Type == lexer.LBRACK && !p.isListComprehension(p.pos):
			p.nextToken()
			index := p.parseExpression()
			if index == nil || !p.expect(lexer.RBRACK) {
				return nil
			}
			left = &ast.Indexing{Token: tok, Loc: p.spanFrom(left.Span().Start), Collection: left, Index: index}
		default:
			return left
		}
	}
	return left
}

// parsePrimary parses literals, identifiers, parenthesized expressions,
// list comprehensions and assignments.
func (p *Parser) parsePrimary() ast.Expression {
	p.enter("primary")
	defer p.leave()

	tok := p.curToken
	switch tok.Type {
	case lexer.LBRACK:
		return p.parseListComprehension()
	case lexer.LET:
		return p.parseAssign()
	case lexer.IDENTIFIER:
		return p.parseIdentifier()
	case lexer.STRING:
		p.nextToken()
		return &ast.StringLiteral{Token: tok, Loc: p.spanFrom(tok.Pos), Value: tok.Literal}
	case lexer.INTEGER:
		p.nextToken()
		return &ast.IntegerLiteral{Token: tok, Loc: p.spanFrom(tok.Pos), Value: tok.Literal}
	case lexer.TRUE, lexer.FALSE:
		p.nextToken()
		value := ast.BoolFalse
		if tok.Type == lexer.TRUE {
			value = ast.BoolTrue
		}
		return &ast.BoolLiteral{Token: tok, Loc: p.spanFrom(tok.Pos), Value: value}
	case lexer.LPAREN:
		p.nextToken()
		exp := p.parseExpression()
		if exp == nil || !p.expect(lexer.RPAREN) {
			return nil
		}
		return exp
	}

	p.fail(lkqlerrors.CodeUnexpected, tok, primaryStarts...)
	return nil
}

// parseListComprehension parses `[expr | gen {, gen} [, guard]]`
func (p *Parser) parseListComprehension() ast.Expression {
	p.enter("listcomp")
	defer p.leave()

	tok := p.curToken
	p.nextToken()

	exp := p.parseExpression()
	if exp == nil || !p.expect(lexer.PIPE) {
		return nil
	}

	lc := &ast.ListComprehension{Token: tok, Expr: exp}

	gen := p.parseArrowAssoc()
	if gen == nil {
		return nil
	}
	lc.Generators = append(lc.Generators, gen)

	for p.curTokenIs(lexer.COMMA) {
		p.nextToken()
		// a comma item is a generator iff it opens with `name <-`
		if p.curTokenIs(lexer.IDENTIFIER) && p.peekTokenIs(lexer.LARROW) {
			gen := p.parseArrowAssoc()
			if gen == nil {
				return nil
			}
			lc.Generators = append(lc.Generators, gen)
			continue
		}
		lc.Guard = p.parseExpression()
		if lc.Guard == nil {
			return nil
		}
		break
	}

	if !p.curTokenIs(lexer.RBRACK) {
		expected := []string{lexer.RBRACK.Name()}
		if lc.Guard == nil {
			expected = []string{lexer.COMMA.Name(), lexer.RBRACK.Name()}
		}
		p.fail(lkqlerrors.CodeExpected, p.curToken, expected...)
		return nil
	}
	p.nextToken()

	lc.Loc = p.spanFrom(tok.Pos)
	return lc
}

// parseArrowAssoc parses `name <- collection`
func (p *Parser) parseArrowAssoc() *ast.ArrowAssoc {
	p.enter("arrow_assoc")
	defer p.leave()

	tok := p.curToken
	binding := p.parseIdentifier()
	if binding == nil || !p.expect(lexer.LARROW) {
		return nil
	}
	collection := p.parseExpression()
	if collection == nil {
		return nil
	}
	return &ast.ArrowAssoc{Token: tok, Loc: p.spanFrom(tok.Pos), Binding: binding, Collection: collection}
}

// isListComprehension reports whether the '[' at index i opens a list
// comprehension, i.e. its bracket contains a '|' at its own nesting level.
// It lets `a [x | x <- b]` parse as two items instead of an indexing.
func (p *Parser) isListComprehension(i int) bool {
	depth := 0
	for ; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.LBRACK, lexer.LPAREN, lexer.LCURL:
			depth++
		case lexer.RBRACK, lexer.RPAREN, lexer.RCURL:
			depth--
			if depth <= 0 {
				return false
			}
		case lexer.PIPE:
			if depth == 1 {
				return true
			}
		case lexer.EOF:
			return false
		}
	}
	return false
}
