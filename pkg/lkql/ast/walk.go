package ast

// Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Children returns the direct children of node in source order. Optional
// children that are absent are skipped.
func Children(node Node) []Node {
	var out []Node
	add := func(children ...Node) {
		for _, c := range children {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			add(s)
		}
	case *Identifier, *KindName, *IntegerLiteral, *StringLiteral, *BoolLiteral:
		// leaves
	case *BinaryOp:
		add(n.Left, n.Right)
	case *Assign:
		add(n.Name, n.Value)
	case *PrintStmt:
		add(n.Value)
	case *DotAccess:
		add(n.Receiver, n.Member)
	case *IsClause:
		add(n.Value, n.KindName)
	case *InClause:
		add(n.Value, n.Collection)
	case *Indexing:
		add(n.Collection, n.Index)
	case *ArrowAssoc:
		add(n.Binding, n.Collection)
	case *ListComprehension:
		add(n.Expr)
		for _, g := range n.Generators {
			add(g)
		}
		add(n.Guard)
	case *ValExpr:
		add(n.Name, n.Value, n.Body)
	case *Query:
		add(n.Pattern)
	case *FilteredQuery:
		add(n.Pattern, n.Predicate)
	case *BindingNodePattern:
		add(n.Binding)
	case *KindNodePattern:
		add(n.KindName)
	case *FullNodePattern:
		add(n.Binding, n.KindPat)
	case *NamedSelector:
		add(n.Name)
	case *ParametrizedSelector:
		add(n.Name, n.ConditionExpr)
	case *QuantifiedSelector:
		add(n.Quantifier, n.Selector)
	case *NodeQueryPattern:
		add(n.Queried)
	case *FullQueryPattern:
		add(n.Queried, n.Selector, n.Related)
	}
	return out
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Identifier:
		return v == nil
	case *KindName:
		return v == nil
	case *ArrowAssoc:
		return v == nil
	case *BindingNodePattern:
		return v == nil
	case *KindNodePattern:
		return v == nil
	}
	return false
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor
// w for each of the non-nil children of node, followed by a call of
// w.Visit(nil).
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range Children(node) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
