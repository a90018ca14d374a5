package ast

import (
	"github.com/sambeau/lkql/pkg/lkql/lexer"
)

// DefaultQuantifier is the quantifier of a selector written without one.
const DefaultQuantifier = "some"

// NodePattern matches a single tree node by binding name, kind, or both.
type NodePattern interface {
	Node
	// BindingName returns the name bound to the matched node, or "".
	BindingName() string
	HasBinding() bool
	nodePattern()
}

// BindingNodePattern is a bare identifier: `o`
type BindingNodePattern struct {
	Token   lexer.Token
	Loc     Span
	Binding *Identifier
}

func (bp *BindingNodePattern) nodePattern()         {}
func (bp *BindingNodePattern) Kind() NodeKind       { return KindBindingNodePattern }
func (bp *BindingNodePattern) Span() Span           { return bp.Loc }
func (bp *BindingNodePattern) TokenLiteral() string { return bp.Token.Literal }
func (bp *BindingNodePattern) String() string       { return bp.Binding.String() }
func (bp *BindingNodePattern) BindingName() string  { return bp.Binding.Value }
func (bp *BindingNodePattern) HasBinding() bool     { return bp.BindingName() != "" }

// KindNodePattern is a bare kind name: `ObjectDecl`
type KindNodePattern struct {
	Token    lexer.Token
	Loc      Span
	KindName *KindName
}

func (kp *KindNodePattern) nodePattern()         {}
func (kp *KindNodePattern) Kind() NodeKind       { return KindKindNodePattern }
func (kp *KindNodePattern) Span() Span           { return kp.Loc }
func (kp *KindNodePattern) TokenLiteral() string { return kp.Token.Literal }
func (kp *KindNodePattern) String() string       { return kp.KindName.String() }
func (kp *KindNodePattern) BindingName() string  { return "" }
func (kp *KindNodePattern) HasBinding() bool     { return kp.BindingName() != "" }

// FullNodePattern binds a name to a node of a given kind: `o@ObjectDecl`
type FullNodePattern struct {
	Token   lexer.Token
	Loc     Span
	Binding *BindingNodePattern
	KindPat *KindNodePattern
}

func (fp *FullNodePattern) nodePattern()         {}
func (fp *FullNodePattern) Kind() NodeKind       { return KindFullNodePattern }
func (fp *FullNodePattern) Span() Span           { return fp.Loc }
func (fp *FullNodePattern) TokenLiteral() string { return fp.Token.Literal }
func (fp *FullNodePattern) String() string       { return fp.Binding.String() + "@" + fp.KindPat.String() }
func (fp *FullNodePattern) BindingName() string  { return fp.Binding.BindingName() }
func (fp *FullNodePattern) HasBinding() bool     { return fp.BindingName() != "" }

// SelectorPattern describes the relation between the queried node and the
// related node of a full query pattern.
type SelectorPattern interface {
	Node
	SelectorName() string
	// QuantifierName is DefaultQuantifier unless one was written.
	QuantifierName() string
	// Condition is nil unless the selector was parametrized with one.
	Condition() Expression
	selectorPattern()
}

// NamedSelectorPattern is a selector that a quantifier may wrap.
type NamedSelectorPattern interface {
	SelectorPattern
	namedSelector()
}

// NamedSelector is a selector name alone: `children`
type NamedSelector struct {
	Token lexer.Token
	Loc   Span
	Name  *Identifier
}

func (ns *NamedSelector) selectorPattern()       {}
func (ns *NamedSelector) namedSelector()         {}
func (ns *NamedSelector) Kind() NodeKind         { return KindNamedSelector }
func (ns *NamedSelector) Span() Span             { return ns.Loc }
func (ns *NamedSelector) TokenLiteral() string   { return ns.Token.Literal }
func (ns *NamedSelector) String() string         { return ns.Name.String() }
func (ns *NamedSelector) SelectorName() string   { return ns.Name.Value }
func (ns *NamedSelector) QuantifierName() string { return DefaultQuantifier }
func (ns *NamedSelector) Condition() Expression  { return nil }

// ParametrizedSelector is a selector with a condition: `children(x == 1)`.
// The condition may be omitted, as in `children()`.
type ParametrizedSelector struct {
	Token         lexer.Token
	Loc           Span
	Name          *Identifier
	ConditionExpr Expression
}

func (ps *ParametrizedSelector) selectorPattern()       {}
func (ps *ParametrizedSelector) namedSelector()         {}
func (ps *ParametrizedSelector) Kind() NodeKind         { return KindParametrizedSelector }
func (ps *ParametrizedSelector) Span() Span             { return ps.Loc }
func (ps *ParametrizedSelector) TokenLiteral() string   { return ps.Token.Literal }
func (ps *ParametrizedSelector) SelectorName() string   { return ps.Name.Value }
func (ps *ParametrizedSelector) QuantifierName() string { return DefaultQuantifier }
func (ps *ParametrizedSelector) Condition() Expression  { return ps.ConditionExpr }
func (ps *ParametrizedSelector) String() string {
	if ps.ConditionExpr == nil {
		return ps.Name.String() + "()"
	}
	return ps.Name.String() + "(" + ps.ConditionExpr.String() + ")"
}

// QuantifiedSelector puts a quantifier in front of a named selector:
// `all children`. The quantifier text is not validated.
type QuantifiedSelector struct {
	Token      lexer.Token
	Loc        Span
	Quantifier *Identifier
	Selector   NamedSelectorPattern
}

func (qs *QuantifiedSelector) selectorPattern()       {}
func (qs *QuantifiedSelector) Kind() NodeKind         { return KindQuantifiedSelector }
func (qs *QuantifiedSelector) Span() Span             { return qs.Loc }
func (qs *QuantifiedSelector) TokenLiteral() string   { return qs.Token.Literal }
func (qs *QuantifiedSelector) SelectorName() string   { return qs.Selector.SelectorName() }
func (qs *QuantifiedSelector) QuantifierName() string { return qs.Quantifier.Value }
func (qs *QuantifiedSelector) Condition() Expression  { return qs.Selector.Condition() }
func (qs *QuantifiedSelector) String() string {
	return qs.Quantifier.String() + " " + qs.Selector.String()
}

// QueryPattern is the pattern part of a query.
type QueryPattern interface {
	Node
	QueriedNode() NodePattern
	queryPattern()
}

// NodeQueryPattern queries single nodes: `o@ObjectDecl`
type NodeQueryPattern struct {
	Token   lexer.Token
	Loc     Span
	Queried NodePattern
}

func (np *NodeQueryPattern) queryPattern()            {}
func (np *NodeQueryPattern) Kind() NodeKind           { return KindNodeQueryPattern }
func (np *NodeQueryPattern) Span() Span               { return np.Loc }
func (np *NodeQueryPattern) TokenLiteral() string     { return np.Token.Literal }
func (np *NodeQueryPattern) String() string           { return np.Queried.String() }
func (np *NodeQueryPattern) QueriedNode() NodePattern { return np.Queried }

// FullQueryPattern relates the queried node to another node through a
// selector: `o@ObjectDecl [children] AspectAssoc`
type FullQueryPattern struct {
	Token    lexer.Token
	Loc      Span
	Queried  NodePattern
	Selector SelectorPattern
	Related  NodePattern
}

func (fp *FullQueryPattern) queryPattern()            {}
func (fp *FullQueryPattern) Kind() NodeKind           { return KindFullQueryPattern }
func (fp *FullQueryPattern) Span() Span               { return fp.Loc }
func (fp *FullQueryPattern) TokenLiteral() string     { return fp.Token.Literal }
func (fp *FullQueryPattern) QueriedNode() NodePattern { return fp.Queried }
func (fp *FullQueryPattern) RelatedNode() NodePattern { return fp.Related }
func (fp *FullQueryPattern) String() string {
	return fp.Queried.String() + " [" + fp.Selector.String() + "] " + fp.Related.String()
}
