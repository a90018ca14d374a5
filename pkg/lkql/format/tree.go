package format

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sambeau/lkql/pkg/lkql/ast"
)

// Field is a named value of an Object
type Field struct {
	Name  string
	Value any
}

// Object is an ordered record. Values are nil, string, int, bool, []any or
// *Object. It encodes to JSON and YAML with its fields in order.
type Object struct {
	Fields []Field
}

func (o *Object) add(name string, value any) *Object {
	o.Fields = append(o.Fields, Field{Name: name, Value: value})
	return o
}

// Get returns the value of the named field, or nil.
func (o *Object) Get(name string) any {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

// MarshalJSON writes the fields as a JSON object in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	for i, f := range o.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML returns a mapping node that keeps the field order.
func (o *Object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range o.Fields {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		val := &yaml.Node{}
		if err := val.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// JSON renders node as indented JSON.
func JSON(node ast.Node) ([]byte, error) {
	return json.MarshalIndent(Tree(node), "", "  ")
}

// YAML renders node as a YAML document.
func YAML(node ast.Node) ([]byte, error) {
	return yaml.Marshal(Tree(node))
}

// Tree converts node into an ordered generic tree: its kind, its span, its
// fields and, for patterns and selectors, their derived properties.
func Tree(node ast.Node) *Object {
	o := &Object{}
	o.add("kind", node.Kind().String())
	o.add("span", span(node.Span()))

	switch n := node.(type) {
	case *ast.Program:
		o.add("statements", nodes(n.Statements))
	case *ast.Identifier:
		o.add("text", n.Value)
	case *ast.KindName:
		o.add("text", n.Value)
	case *ast.IntegerLiteral:
		o.add("text", n.Value)
	case *ast.StringLiteral:
		o.add("value", n.Value)
	case *ast.BoolLiteral:
		o.add("value", n.Value.String())
	case *ast.BinaryOp:
		o.add("op", n.Op.String()).add("left", child(n.Left)).add("right", child(n.Right))
	case *ast.Assign:
		o.add("name", child(n.Name)).add("value", child(n.Value))
	case *ast.PrintStmt:
		o.add("value", child(n.Value))
	case *ast.DotAccess:
		o.add("receiver", child(n.Receiver)).add("member", child(n.Member))
	case *ast.IsClause:
		o.add("value", child(n.Value)).add("kind_name", child(n.KindName))
	case *ast.InClause:
		o.add("value", child(n.Value)).add("collection", child(n.Collection))
	case *ast.Indexing:
		o.add("collection", child(n.Collection)).add("index", child(n.Index))
	case *ast.ListComprehension:
		o.add("expr", child(n.Expr)).add("generators", nodes(n.Generators)).add("guard", child(n.Guard))
	case *ast.ArrowAssoc:
		o.add("binding", child(n.Binding)).add("collection", child(n.Collection))
	case *ast.ValExpr:
		o.add("name", child(n.Name)).add("value", child(n.Value)).add("body", child(n.Body))
	case *ast.Query:
		o.add("pattern", child(n.Pattern))
	case *ast.FilteredQuery:
		o.add("pattern", child(n.Pattern)).add("predicate", child(n.Predicate))
	case *ast.BindingNodePattern:
		o.add("binding", child(n.Binding))
		nodePattern(o, n)
	case *ast.KindNodePattern:
		o.add("kind_name", child(n.KindName))
		nodePattern(o, n)
	case *ast.FullNodePattern:
		o.add("binding", child(n.Binding)).add("kind_pattern", child(n.KindPat))
		nodePattern(o, n)
	case *ast.NamedSelector:
		o.add("name", child(n.Name))
		selector(o, n)
	case *ast.ParametrizedSelector:
		o.add("name", child(n.Name)).add("condition", child(n.ConditionExpr))
		selector(o, n)
	case *ast.QuantifiedSelector:
		o.add("quantifier", child(n.Quantifier)).add("selector", child(n.Selector))
		selector(o, n)
	case *ast.NodeQueryPattern:
		o.add("queried_node", child(n.Queried))
	case *ast.FullQueryPattern:
		o.add("queried_node", child(n.Queried)).add("selector", child(n.Selector)).add("related_node", child(n.Related))
	}
	return o
}

func nodePattern(o *Object, p ast.NodePattern) {
	o.add("binding_name", p.BindingName()).add("has_binding", p.HasBinding())
}

func selector(o *Object, s ast.SelectorPattern) {
	o.add("selector_name", s.SelectorName()).add("quantifier_name", s.QuantifierName())
}

func span(s ast.Span) *Object {
	start := &Object{}
	start.add("offset", s.Start.Offset).add("line", s.Start.Line).add("column", s.Start.Column)
	return (&Object{}).add("start", start).add("end", s.End)
}

// child converts an optional child; absent children become nil.
func child[N ast.Node](n N) any {
	var node ast.Node = n
	if node == nil || isNilPointer(node) {
		return nil
	}
	return Tree(node)
}

func nodes[N ast.Node](list []N) []any {
	out := make([]any, 0, len(list))
	for _, n := range list {
		out = append(out, child(n))
	}
	return out
}

func isNilPointer(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Identifier:
		return v == nil
	case *ast.KindName:
		return v == nil
	case *ast.BindingNodePattern:
		return v == nil
	case *ast.KindNodePattern:
		return v == nil
	}
	return false
}
