// Package ast defines the LKQL syntax tree.
//
// Nodes are built bottom-up by the parser and never modified afterwards.
// There are no parent pointers; consumers walk the tree downwards with
// Children, Walk or Inspect.
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/sambeau/lkql/pkg/lkql/lexer"
)

// Span is the source range of a node: its first character and the byte
// offset one past its last character.
type Span struct {
	Start lexer.Pos
	End   int
}

// Node represents any node in the AST
type Node interface {
	Kind() NodeKind
	Span() Span
	TokenLiteral() string
	String() string
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// NodeKind tags the concrete variant of a node
type NodeKind int

const (
	KindInvalid NodeKind = iota
	KindProgram
	KindIdentifier
	KindKindName
	KindInteger
	KindString
	KindBool
	KindBinaryOp
	KindAssign
	KindPrint
	KindDotAccess
	KindIsClause
	KindInClause
	KindIndexing
	KindListComprehension
	KindArrowAssoc
	KindValExpr
	KindQuery
	KindFilteredQuery
	KindBindingNodePattern
	KindKindNodePattern
	KindFullNodePattern
	KindNamedSelector
	KindParametrizedSelector
	KindQuantifiedSelector
	KindNodeQueryPattern
	KindFullQueryPattern
)

var nodeKindNames = [...]string{
	KindInvalid:              "invalid",
	KindProgram:              "program",
	KindIdentifier:           "identifier",
	KindKindName:             "kind-name",
	KindInteger:              "integer",
	KindString:               "string",
	KindBool:                 "bool",
	KindBinaryOp:             "binary-operation",
	KindAssign:               "assign",
	KindPrint:                "print",
	KindDotAccess:            "dot-access",
	KindIsClause:             "is-clause",
	KindInClause:             "in-clause",
	KindIndexing:             "indexing",
	KindListComprehension:    "list-comprehension",
	KindArrowAssoc:           "arrow-assoc",
	KindValExpr:              "val-expression",
	KindQuery:                "query",
	KindFilteredQuery:        "filtered-query",
	KindBindingNodePattern:   "binding-node-pattern",
	KindKindNodePattern:      "kind-node-pattern",
	KindFullNodePattern:      "full-node-pattern",
	KindNamedSelector:        "named-selector",
	KindParametrizedSelector: "parametrized-selector",
	KindQuantifiedSelector:   "quantified-selector",
	KindNodeQueryPattern:     "node-query-pattern",
	KindFullQueryPattern:     "full-query-pattern",
}

// String returns the kebab-case tag of the variant
func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "invalid"
}

// Program represents the root node of every AST
type Program struct {
	Loc        Span
	Statements []Expression
}

func (p *Program) Kind() NodeKind { return KindProgram }
func (p *Program) Span() Span     { return p.Loc }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) String() string {
	var out bytes.Buffer

	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}

	return out.String()
}

// Identifier represents a lower-case name
type Identifier struct {
	Token lexer.Token // the lexer.IDENTIFIER token
	Loc   Span
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) Kind() NodeKind       { return KindIdentifier }
func (i *Identifier) Span() Span           { return i.Loc }
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// KindName represents a capitalized kind tag such as ObjectDecl or
// ObjectDecl.list. It only appears inside patterns and is-clauses.
type KindName struct {
	Token lexer.Token // the lexer.KIND_NAME token
	Loc   Span
	Value string
}

func (k *KindName) Kind() NodeKind       { return KindKindName }
func (k *KindName) Span() Span           { return k.Loc }
func (k *KindName) TokenLiteral() string { return k.Token.Literal }
func (k *KindName) String() string       { return k.Value }

// IntegerLiteral keeps the digits as written; Int converts them.
type IntegerLiteral struct {
	Token lexer.Token
	Loc   Span
	Value string
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) Kind() NodeKind       { return KindInteger }
func (il *IntegerLiteral) Span() Span           { return il.Loc }
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Value }

// Int parses the literal as a signed 64-bit integer.
func (il *IntegerLiteral) Int() (int64, error) {
	return strconv.ParseInt(il.Value, 10, 64)
}

// StringLiteral holds the text between the quotes, unprocessed
type StringLiteral struct {
	Token lexer.Token
	Loc   Span
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) Kind() NodeKind       { return KindString }
func (sl *StringLiteral) Span() Span           { return sl.Loc }
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return `"` + sl.Value + `"` }

// BoolValue is the closed set of boolean literals
type BoolValue int

const (
	BoolFalse BoolValue = iota
	BoolTrue
)

func (b BoolValue) String() string {
	if b == BoolTrue {
		return "true"
	}
	return "false"
}

// BoolLiteral represents true or false
type BoolLiteral struct {
	Token lexer.Token
	Loc   Span
	Value BoolValue
}

func (b *BoolLiteral) expressionNode()      {}
func (b *BoolLiteral) Kind() NodeKind       { return KindBool }
func (b *BoolLiteral) Span() Span           { return b.Loc }
func (b *BoolLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BoolLiteral) String() string       { return b.Value.String() }

// Operator is the closed set of binary operators
type Operator int

const (
	OpPlus Operator = iota
	OpMinus
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpEq
	OpNeq
	OpConcat
	OpLt
	OpLeq
	OpGt
	OpGeq
)

var operatorNames = [...]struct{ name, symbol string }{
	OpPlus:   {"plus", "+"},
	OpMinus:  {"minus", "-"},
	OpMul:    {"mul", "*"},
	OpDiv:    {"div", "/"},
	OpAnd:    {"and", "and"},
	OpOr:     {"or", "or"},
	OpEq:     {"eq", "=="},
	OpNeq:    {"neq", "!="},
	OpConcat: {"concat", "&"},
	OpLt:     {"lt", "<"},
	OpLeq:    {"leq", "<="},
	OpGt:     {"gt", ">"},
	OpGeq:    {"geq", ">="},
}

// String returns the operator's tag, e.g. "plus"
func (o Operator) String() string {
	if o >= 0 && int(o) < len(operatorNames) {
		return operatorNames[o].name
	}
	return "invalid"
}

// Symbol returns the operator as written in source, e.g. "+"
func (o Operator) Symbol() string {
	if o >= 0 && int(o) < len(operatorNames) {
		return operatorNames[o].symbol
	}
	return "?"
}

// BinaryOp represents `left op right`
type BinaryOp struct {
	Token lexer.Token // the operator token
	Loc   Span
	Left  Expression
	Op    Operator
	Right Expression
}

func (bo *BinaryOp) expressionNode()      {}
func (bo *BinaryOp) Kind() NodeKind       { return KindBinaryOp }
func (bo *BinaryOp) Span() Span           { return bo.Loc }
func (bo *BinaryOp) TokenLiteral() string { return bo.Token.Literal }
func (bo *BinaryOp) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(operandString(bo.Left))
	out.WriteString(" " + bo.Op.Symbol() + " ")
	out.WriteString(operandString(bo.Right))
	out.WriteString(")")

	return out.String()
}

// operandString renders e as the operand of an operator or postfix.
// Assignments and val expressions extend as far right as they can, so they
// are parenthesized to keep the tree when the text is parsed again.
func operandString(e Expression) string {
	switch e.(type) {
	case *Assign, *ValExpr:
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Assign represents `let name = value`. The value is an expression or a
// query.
type Assign struct {
	Token lexer.Token // the lexer.LET token
	Loc   Span
	Name  *Identifier
	Value Expression
}

func (a *Assign) expressionNode()      {}
func (a *Assign) Kind() NodeKind       { return KindAssign }
func (a *Assign) Span() Span           { return a.Loc }
func (a *Assign) TokenLiteral() string { return a.Token.Literal }
func (a *Assign) String() string {
	return "let " + a.Name.String() + " = " + a.Value.String()
}

// PrintStmt represents `print(value)`
type PrintStmt struct {
	Token lexer.Token // the 'print' identifier token
	Loc   Span
	Value Expression
}

func (ps *PrintStmt) expressionNode()      {}
func (ps *PrintStmt) Kind() NodeKind       { return KindPrint }
func (ps *PrintStmt) Span() Span           { return ps.Loc }
func (ps *PrintStmt) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStmt) String() string       { return "print(" + ps.Value.String() + ")" }

// DotAccess represents `receiver.member`
type DotAccess struct {
	Token    lexer.Token // the '.' token
	Loc      Span
	Receiver Expression
	Member   *Identifier
}

func (da *DotAccess) expressionNode()      {}
func (da *DotAccess) Kind() NodeKind       { return KindDotAccess }
func (da *DotAccess) Span() Span           { return da.Loc }
func (da *DotAccess) TokenLiteral() string { return da.Token.Literal }
func (da *DotAccess) String() string       { return operandString(da.Receiver) + "." + da.Member.String() }

// IsClause represents `value is KindName`
type IsClause struct {
	Token    lexer.Token // the lexer.IS token
	Loc      Span
	Value    Expression
	KindName *KindName
}

func (ic *IsClause) expressionNode()      {}
func (ic *IsClause) Kind() NodeKind       { return KindIsClause }
func (ic *IsClause) Span() Span           { return ic.Loc }
func (ic *IsClause) TokenLiteral() string { return ic.Token.Literal }
func (ic *IsClause) String() string {
	return "(" + operandString(ic.Value) + " is " + ic.KindName.String() + ")"
}

// InClause represents `value in collection`
type InClause struct {
	Token      lexer.Token // the lexer.IN token
	Loc        Span
	Value      Expression
	Collection Expression
}

func (ic *InClause) expressionNode()      {}
func (ic *InClause) Kind() NodeKind       { return KindInClause }
func (ic *InClause) Span() Span           { return ic.Loc }
func (ic *InClause) TokenLiteral() string { return ic.Token.Literal }
func (ic *InClause) String() string {
	return "(" + operandString(ic.Value) + " in " + operandString(ic.Collection) + ")"
}

// Indexing represents `collection[index]`
type Indexing struct {
	Token      lexer.Token // the '[' token
	Loc        Span
	Collection Expression
	Index      Expression
}

func (ix *Indexing) expressionNode()      {}
func (ix *Indexing) Kind() NodeKind       { return KindIndexing }
func (ix *Indexing) Span() Span           { return ix.Loc }
func (ix *Indexing) TokenLiteral() string { return ix.Token.Literal }
func (ix *Indexing) String() string {
	return operandString(ix.Collection) + "[" + ix.Index.String() + "]"
}

// ArrowAssoc binds a name to each element of a collection inside a list
// comprehension: `name <- collection`
type ArrowAssoc struct {
	Token      lexer.Token // the binding identifier token
	Loc        Span
	Binding    *Identifier
	Collection Expression
}

func (aa *ArrowAssoc) Kind() NodeKind       { return KindArrowAssoc }
func (aa *ArrowAssoc) Span() Span           { return aa.Loc }
func (aa *ArrowAssoc) TokenLiteral() string { return aa.Token.Literal }
func (aa *ArrowAssoc) String() string {
	return aa.Binding.String() + " <- " + aa.Collection.String()
}

// ListComprehension represents `[expr | gen, gen, guard]`. There is at
// least one generator; Guard is nil when absent.
type ListComprehension struct {
	Token      lexer.Token // the '[' token
	Loc        Span
	Expr       Expression
	Generators []*ArrowAssoc
	Guard      Expression
}

func (lc *ListComprehension) expressionNode()      {}
func (lc *ListComprehension) Kind() NodeKind       { return KindListComprehension }
func (lc *ListComprehension) Span() Span           { return lc.Loc }
func (lc *ListComprehension) TokenLiteral() string { return lc.Token.Literal }
func (lc *ListComprehension) String() string {
	var out bytes.Buffer

	parts := make([]string, 0, len(lc.Generators)+1)
	for _, g := range lc.Generators {
		parts = append(parts, g.String())
	}
	if lc.Guard != nil {
		parts = append(parts, lc.Guard.String())
	}

	out.WriteString("[")
	out.WriteString(lc.Expr.String())
	out.WriteString(" | ")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")

	return out.String()
}

// ValExpr represents `val name = value; body`
type ValExpr struct {
	Token lexer.Token // the lexer.VAL token
	Loc   Span
	Name  *Identifier
	Value Expression
	Body  Expression
}

func (ve *ValExpr) expressionNode()      {}
func (ve *ValExpr) Kind() NodeKind       { return KindValExpr }
func (ve *ValExpr) Span() Span           { return ve.Loc }
func (ve *ValExpr) TokenLiteral() string { return ve.Token.Literal }
func (ve *ValExpr) String() string {
	return "val " + ve.Name.String() + " = " + ve.Value.String() + "; " + ve.Body.String()
}

// Query represents `query pattern`
type Query struct {
	Token   lexer.Token // the 'query' identifier token
	Loc     Span
	Pattern QueryPattern
}

func (q *Query) expressionNode()            {}
func (q *Query) Kind() NodeKind             { return KindQuery }
func (q *Query) Span() Span                 { return q.Loc }
func (q *Query) TokenLiteral() string       { return q.Token.Literal }
func (q *Query) String() string             { return "query " + q.Pattern.String() }
func (q *Query) QueryPattern() QueryPattern { return q.Pattern }

// FilteredQuery represents `query pattern when predicate`
type FilteredQuery struct {
	Token     lexer.Token // the 'query' identifier token
	Loc       Span
	Pattern   QueryPattern
	Predicate Expression
}

func (fq *FilteredQuery) expressionNode()            {}
func (fq *FilteredQuery) Kind() NodeKind             { return KindFilteredQuery }
func (fq *FilteredQuery) Span() Span                 { return fq.Loc }
func (fq *FilteredQuery) TokenLiteral() string       { return fq.Token.Literal }
func (fq *FilteredQuery) QueryPattern() QueryPattern { return fq.Pattern }
func (fq *FilteredQuery) String() string {
	return "query " + fq.Pattern.String() + " when " + fq.Predicate.String()
}
