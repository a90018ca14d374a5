// Package format renders LKQL syntax trees and token streams for people
// and tools: a compact S-expression, an ordered generic tree that encodes
// to JSON or YAML, and a token table.
package format

import (
	"strconv"
	"strings"

	"github.com/sambeau/lkql/pkg/lkql/ast"
)

const none = "none"

// Sexpr renders node as a single-line S-expression. Identifiers and kind
// names print bare; every other node prints as (kind fields...). Absent
// optional children print as "none".
func Sexpr(node ast.Node) string {
	var sb strings.Builder
	writeSexpr(&sb, node)
	return sb.String()
}

func writeSexpr(sb *strings.Builder, node ast.Node) {
	switch n := node.(type) {
	case nil:
		sb.WriteString(none)
	case *ast.Identifier:
		sb.WriteString(n.Value)
	case *ast.KindName:
		sb.WriteString(n.Value)
	case *ast.IntegerLiteral:
		list(sb, n, n.Value)
	case *ast.StringLiteral:
		list(sb, n, strconv.Quote(n.Value))
	case *ast.BoolLiteral:
		list(sb, n, n.Value.String())
	case *ast.BinaryOp:
		list(sb, n, n.Op.String(), n.Left, n.Right)
	case *ast.Assign:
		list(sb, n, n.Name, n.Value)
	case *ast.PrintStmt:
		list(sb, n, n.Value)
	case *ast.DotAccess:
		list(sb, n, n.Receiver, n.Member)
	case *ast.IsClause:
		list(sb, n, n.Value, n.KindName)
	case *ast.InClause:
		list(sb, n, n.Value, n.Collection)
	case *ast.Indexing:
		list(sb, n, n.Collection, n.Index)
	case *ast.ListComprehension:
		gens := make([]any, len(n.Generators))
		for i, g := range n.Generators {
			gens[i] = g
		}
		list(sb, n, n.Expr, gens, optional(n.Guard))
	case *ast.ArrowAssoc:
		list(sb, n, n.Binding, n.Collection)
	case *ast.ValExpr:
		list(sb, n, n.Name, n.Value, n.Body)
	case *ast.Query:
		list(sb, n, n.Pattern)
	case *ast.FilteredQuery:
		list(sb, n, n.Pattern, n.Predicate)
	case *ast.BindingNodePattern:
		list(sb, n, n.Binding)
	case *ast.KindNodePattern:
		list(sb, n, n.KindName)
	case *ast.FullNodePattern:
		list(sb, n, n.Binding, n.KindPat)
	case *ast.NamedSelector:
		list(sb, n, n.Name)
	case *ast.ParametrizedSelector:
		list(sb, n, n.Name, optional(n.ConditionExpr))
	case *ast.QuantifiedSelector:
		list(sb, n, n.Quantifier, n.Selector)
	case *ast.NodeQueryPattern:
		list(sb, n, n.Queried)
	case *ast.FullQueryPattern:
		list(sb, n, n.Queried, n.Selector, n.Related)
	case *ast.Program:
		items := make([]any, len(n.Statements))
		for i, s := range n.Statements {
			items[i] = s
		}
		list(sb, n, items...)
	default:
		sb.WriteString("(" + node.Kind().String() + ")")
	}
}

// optional maps an absent child to the placeholder atom
func optional(e ast.Expression) any {
	if e == nil {
		return none
	}
	return e
}

func list(sb *strings.Builder, node ast.Node, items ...any) {
	sb.WriteString("(")
	sb.WriteString(node.Kind().String())
	for _, item := range items {
		sb.WriteString(" ")
		switch v := item.(type) {
		case string:
			sb.WriteString(v)
		case []any:
			sb.WriteString("(")
			for i, elem := range v {
				if i > 0 {
					sb.WriteString(" ")
				}
				writeSexpr(sb, elem.(ast.Node))
			}
			sb.WriteString(")")
		case ast.Node:
			writeSexpr(sb, v)
		default:
			sb.WriteString(none)
		}
	}
	sb.WriteString(")")
}
