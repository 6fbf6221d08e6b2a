// Package ruby extracts constant references and constant definitions
// from Ruby source using tree-sitter. Two walkers are provided: the
// default walker, behaviorally aligned with packwerk's reference
// collection, and the experimental walker, which trades some of that
// alignment for a definition set small enough to aggregate across a
// whole codebase.
package ruby

import (
	"errors"

	sitter "github.com/smacker/go-tree-sitter"

	"packlens/internal/inflect"
	"packlens/internal/parsing"
)

// errDynamic marks a constant name that cannot be known statically: one
// of its segments comes from a method call, a variable, or self. Such
// nodes are skipped entirely; no approximation is attempted.
var errDynamic = errors.New("dynamically computed constant name")

// errUnsupported marks a node kind the name fetcher does not model.
// Callers treat it exactly like errDynamic: skip the node and continue
// with the rest of the file.
var errUnsupported = errors.New("unsupported constant name construct")

// associationMethods are the ActiveRecord relationship declarations we
// infer a constant reference from.
var associationMethods = map[string]bool{
	"has_one":                 true,
	"has_many":                true,
	"belongs_to":              true,
	"has_and_belongs_to_many": true,
}

// nodeRange converts a tree-sitter node span to our Range convention:
// 1-based rows, 0-based start column, and an end column of the end
// point's 0-based column plus one. The +1 on the end column reproduces
// packwerk's position convention and must stay as is.
func nodeRange(n *sitter.Node) parsing.Range {
	start := n.StartPoint()
	end := n.EndPoint()
	return parsing.Range{
		StartRow: int(start.Row) + 1,
		StartCol: int(start.Column),
		EndRow:   int(end.Row) + 1,
		EndCol:   int(end.Column) + 1,
	}
}

// fetchConstName resolves the textual name of a constant expression.
// For scope_resolution nodes the name is built recursively, so
// "Foo::Bar::Baz" comes back as a single dotted name and "::Foo" keeps
// its leading anchor (an absent scope means the expression starts at
// the root). Any non-constant segment makes the whole name dynamic.
func fetchConstName(n *sitter.Node, src []byte) (string, error) {
	switch n.Type() {
	case "constant":
		return n.Content(src), nil
	case "scope_resolution":
		parent := ""
		if scope := n.ChildByFieldName("scope"); scope != nil {
			p, err := fetchConstName(scope, src)
			if err != nil {
				return "", err
			}
			parent = p
		}
		name := n.ChildByFieldName("name")
		if name == nil {
			return "", errUnsupported
		}
		return parent + "::" + name.Content(src), nil
	case "call", "identifier", "instance_variable", "class_variable",
		"global_variable", "self", "element_reference":
		return "", errDynamic
	default:
		return "", errUnsupported
	}
}

// fullyQualify root-anchors a constant name under the given namespace
// nesting: (["Foo","Bar"], "BAZ") → "::Foo::Bar::BAZ".
func fullyQualify(namespaces []string, name string) string {
	fqn := "::"
	for _, ns := range namespaces {
		fqn += ns + "::"
	}
	return fqn + name
}

// copyPath snapshots the mutable namespace stack for storage on a
// Reference or Definition.
func copyPath(namespaces []string) []string {
	if len(namespaces) == 0 {
		return nil
	}
	out := make([]string, len(namespaces))
	copy(out, namespaces)
	return out
}

// associationTarget inspects a relationship-declaration call and
// returns the constant name it implies, or "" if the call's argument
// shape is not one we recognize. A literal class_name: 'X' keyword wins;
// otherwise a literal symbol first argument is class-cased
// (:some_user_models → SomeUserModel).
func associationTarget(call *sitter.Node, src []byte) string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}

	count := int(args.NamedChildCount())
	for i := 0; i < count; i++ {
		pair := args.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		value := pair.ChildByFieldName("value")
		if key == nil || value == nil || key.Type() != "hash_key_symbol" {
			continue
		}
		if key.Content(src) != "class_name" {
			continue
		}
		if lit, ok := stringLiteral(value, src); ok {
			return inflect.ClassCase(lit)
		}
	}

	if count > 0 {
		first := args.NamedChild(0)
		if first.Type() == "simple_symbol" {
			return inflect.ClassCase(symbolText(first, src))
		}
	}
	return ""
}

// stringLiteral extracts the content of a plain string node. Strings
// with interpolation are not literals.
func stringLiteral(n *sitter.Node, src []byte) (string, bool) {
	if n.Type() != "string" {
		return "", false
	}
	count := int(n.NamedChildCount())
	if count == 0 {
		return "", true // empty string
	}
	if count != 1 || n.NamedChild(0).Type() != "string_content" {
		return "", false
	}
	return n.NamedChild(0).Content(src), true
}

// symbolText strips the leading colon from a simple_symbol node.
func symbolText(n *sitter.Node, src []byte) string {
	text := n.Content(src)
	if len(text) > 0 && text[0] == ':' {
		return text[1:]
	}
	return text
}

// constTarget reports whether an assignment target node defines a
// constant.
func constTarget(n *sitter.Node) bool {
	t := n.Type()
	return t == "constant" || t == "scope_resolution"
}
