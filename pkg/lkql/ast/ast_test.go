package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(name string) *Identifier { return &Identifier{Value: name} }
func kind(name string) *KindName    { return &KindName{Value: name} }
func integer(v string) *IntegerLiteral {
	return &IntegerLiteral{Value: v}
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "binary-operation", KindBinaryOp.String())
	assert.Equal(t, "filtered-query", KindFilteredQuery.String())
	assert.Equal(t, "list-comprehension", KindListComprehension.String())
	assert.Equal(t, "quantified-selector", KindQuantifiedSelector.String())
	assert.Equal(t, "invalid", NodeKind(-1).String())
	assert.Equal(t, "invalid", NodeKind(1000).String())
}

func TestOperator(t *testing.T) {
	tests := []struct {
		op     Operator
		name   string
		symbol string
	}{
		{OpPlus, "plus", "+"},
		{OpMinus, "minus", "-"},
		{OpMul, "mul", "*"},
		{OpDiv, "div", "/"},
		{OpAnd, "and", "and"},
		{OpOr, "or", "or"},
		{OpEq, "eq", "=="},
		{OpNeq, "neq", "!="},
		{OpConcat, "concat", "&"},
		{OpLt, "lt", "<"},
		{OpLeq, "leq", "<="},
		{OpGt, "gt", ">"},
		{OpGeq, "geq", ">="},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.op.String())
		assert.Equal(t, tt.symbol, tt.op.Symbol())
	}
	assert.Equal(t, "invalid", Operator(99).String())
}

func TestNodePatternBindings(t *testing.T) {
	binding := &BindingNodePattern{Binding: ident("o")}
	kindOnly := &KindNodePattern{KindName: kind("ObjectDecl")}
	full := &FullNodePattern{Binding: binding, KindPat: kindOnly}

	tests := []struct {
		name    string
		pattern NodePattern
		binding string
		has     bool
		text    string
	}{
		{"binding", binding, "o", true, "o"},
		{"kind", kindOnly, "", false, "ObjectDecl"},
		{"full", full, "o", true, "o@ObjectDecl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.binding, tt.pattern.BindingName())
			assert.Equal(t, tt.has, tt.pattern.HasBinding())
			assert.Equal(t, tt.text, tt.pattern.String())
		})
	}
}

func TestSelectorDefaults(t *testing.T) {
	named := &NamedSelector{Name: ident("children")}
	assert.Equal(t, "children", named.SelectorName())
	assert.Equal(t, DefaultQuantifier, named.QuantifierName())
	assert.Nil(t, named.Condition())

	empty := &ParametrizedSelector{Name: ident("parent")}
	assert.Nil(t, empty.Condition())
	assert.Equal(t, "parent()", empty.String())

	cond := &BinaryOp{Left: ident("depth"), Op: OpLt, Right: integer("3")}
	param := &ParametrizedSelector{Name: ident("parent"), ConditionExpr: cond}
	assert.Equal(t, "some", param.QuantifierName())
	assert.Same(t, cond, param.Condition())
	assert.Equal(t, "parent((depth < 3))", param.String())
}

func TestQuantifiedSelectorDelegates(t *testing.T) {
	inner := &ParametrizedSelector{Name: ident("children")}
	qs := &QuantifiedSelector{Quantifier: ident("all"), Selector: inner}

	assert.Equal(t, "all", qs.QuantifierName())
	assert.Equal(t, "children", qs.SelectorName())
	assert.Nil(t, qs.Condition())

	// the view follows the wrapped selector
	cond := &BoolLiteral{Value: BoolTrue}
	inner.Name = ident("parent")
	inner.ConditionExpr = cond
	assert.Equal(t, "parent", qs.SelectorName())
	assert.Same(t, cond, qs.Condition())
	assert.Equal(t, "all parent(true)", qs.String())
}

func TestQueryPatterns(t *testing.T) {
	queried := &FullNodePattern{
		Binding: &BindingNodePattern{Binding: ident("o")},
		KindPat: &KindNodePattern{KindName: kind("ObjectDecl")},
	}
	related := &KindNodePattern{KindName: kind("AspectAssoc")}
	full := &FullQueryPattern{
		Queried:  queried,
		Selector: &NamedSelector{Name: ident("children")},
		Related:  related,
	}
	assert.Same(t, queried, full.QueriedNode())
	assert.Same(t, related, full.RelatedNode())
	assert.Equal(t, "o@ObjectDecl [children] AspectAssoc", full.String())

	pred := &BinaryOp{
		Left:  &DotAccess{Receiver: ident("o"), Member: ident("identifier")},
		Op:    OpEq,
		Right: &StringLiteral{Value: "A"},
	}
	fq := &FilteredQuery{Pattern: full, Predicate: pred}
	assert.Same(t, full, fq.QueryPattern())
	assert.Equal(t, `query o@ObjectDecl [children] AspectAssoc when (o.identifier == "A")`, fq.String())

	single := &NodeQueryPattern{Queried: related}
	q := &Query{Pattern: single}
	assert.Same(t, related, q.QueryPattern().QueriedNode())
	assert.Equal(t, "query AspectAssoc", q.String())
}

func TestExpressionStrings(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&Assign{Name: ident("x"), Value: &BinaryOp{Left: integer("1"), Op: OpPlus,
			Right: &BinaryOp{Left: integer("2"), Op: OpMul, Right: integer("3")}}}, "let x = (1 + (2 * 3))"},
		{&PrintStmt{Value: ident("x")}, "print(x)"},
		{&IsClause{Value: ident("n"), KindName: kind("ObjectDecl.list")}, "(n is ObjectDecl.list)"},
		{&InClause{Value: integer("1"), Collection: ident("xs")}, "(1 in xs)"},
		{&Indexing{Collection: &Indexing{Collection: ident("a"), Index: integer("0")}, Index: integer("1")}, "a[0][1]"},
		{&ValExpr{Name: ident("y"), Value: integer("1"), Body: ident("y")}, "val y = 1; y"},
		{&ListComprehension{
			Expr:       ident("x"),
			Generators: []*ArrowAssoc{{Binding: ident("x"), Collection: ident("values")}},
			Guard:      &BinaryOp{Left: ident("x"), Op: OpGt, Right: integer("0")},
		}, "[x | x <- values, (x > 0)]"},
		{&BinaryOp{Left: &Assign{Name: ident("x"), Value: integer("1")}, Op: OpPlus, Right: integer("2")}, "((let x = 1) + 2)"},
		{&DotAccess{Receiver: &ValExpr{Name: ident("y"), Value: integer("1"), Body: ident("y")}, Member: ident("m")}, "(val y = 1; y).m"},
		{&IsClause{Value: &Assign{Name: ident("n"), Value: ident("a")}, KindName: kind("K")}, "((let n = a) is K)"},
		{&Indexing{Collection: &Assign{Name: ident("l"), Value: ident("a")}, Index: integer("0")}, "(let l = a)[0]"},
		{&BoolLiteral{Value: BoolFalse}, "false"},
		{&Program{Statements: []Expression{ident("a"), ident("b")}}, "a\nb"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.node.String(), tt.node.Kind().String())
	}
}

func TestIntegerLiteralInt(t *testing.T) {
	v, err := integer("42").Int()
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = integer("99999999999999999999").Int()
	assert.Error(t, err)
}

func TestChildren(t *testing.T) {
	gen := &ArrowAssoc{Binding: ident("x"), Collection: ident("values")}
	lc := &ListComprehension{Expr: ident("x"), Generators: []*ArrowAssoc{gen}}

	children := Children(lc)
	require.Len(t, children, 2, "absent guard is skipped")
	assert.Same(t, gen, children[1])

	ps := &ParametrizedSelector{Name: ident("children")}
	assert.Len(t, Children(ps), 1)
	assert.Empty(t, Children(ident("leaf")))
}

func TestInspectOrder(t *testing.T) {
	prog := &Program{Statements: []Expression{
		&Assign{Name: ident("x"), Value: &BinaryOp{Left: integer("1"), Op: OpPlus, Right: integer("2")}},
	}}

	var kinds []string
	Inspect(prog, func(n Node) bool {
		if n != nil {
			kinds = append(kinds, n.Kind().String())
		}
		return true
	})
	assert.Equal(t, []string{"program", "assign", "identifier", "binary-operation", "integer", "integer"}, kinds)

	// returning false prunes the subtree
	var visited int
	Inspect(prog, func(n Node) bool {
		if n != nil {
			visited++
		}
		return n == nil || n.Kind() != KindAssign
	})
	assert.Equal(t, 2, visited)
}

type countingVisitor struct {
	enter, leave int
}

func (c *countingVisitor) Visit(n Node) Visitor {
	if n == nil {
		c.leave++
		return nil
	}
	c.enter++
	return c
}

func TestWalkBalancesEnterAndLeave(t *testing.T) {
	q := &Query{Pattern: &NodeQueryPattern{Queried: &KindNodePattern{KindName: kind("A")}}}
	v := &countingVisitor{}
	Walk(v, q)
	assert.Equal(t, 4, v.enter)
	assert.Equal(t, v.enter, v.leave)
}
