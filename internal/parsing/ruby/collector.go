package ruby

import (
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"packlens/internal/parsing"
)

// walkerState is the traversal state both walkers share: source bytes,
// the namespace stack, and the output lists. visit points at the
// owning walker's dispatch method so shared handlers can recurse.
type walkerState struct {
	src         []byte
	namespaces  []string
	references  []parsing.Reference
	definitions []parsing.Definition
	logger      *slog.Logger

	visit func(n *sitter.Node)
}

func (w *walkerState) visitChildren(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.visit(n.NamedChild(i))
	}
}

// visitBody visits a class/module node's children, skipping the name
// and superclass nodes, which the namespace handlers treat specially.
func (w *walkerState) visitBody(n, nameNode, supNode *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.StartByte() == nameNode.StartByte() && child.EndByte() == nameNode.EndByte() {
			continue
		}
		if supNode != nil && child.StartByte() == supNode.StartByte() {
			continue
		}
		w.visit(child)
	}
}

// skipped reports a node excluded from extraction. Silent unless a
// logger is attached.
func (w *walkerState) skipped(reason string, n *sitter.Node) {
	if w.logger != nil {
		point := n.StartPoint()
		w.logger.Debug("skipping node",
			"reason", reason,
			"kind", n.Type(),
			"row", point.Row+1,
			"col", point.Column)
	}
}

// onAssignment handles constant assignment, both plain and operator
// forms (FOO ||= x reopens or defines ::FOO just like FOO = x). A
// single constant target produces a definition and the value
// expression is traversed for nested references. Constant targets
// inside a destructuring assignment still produce definitions, but
// the value is not analyzed
// for references (a known gap, kept for behavioral alignment).
func (w *walkerState) onAssignment(n *sitter.Node) {
	left := n.ChildByFieldName("left")
	if left == nil {
		w.visitChildren(n)
		return
	}

	switch {
	case constTarget(left):
		name, err := fetchConstName(left, w.src)
		if err != nil {
			w.skipped("dynamic assignment target", left)
			return
		}
		w.definitions = append(w.definitions, parsing.Definition{
			FullyQualifiedName: fullyQualify(w.namespaces, name),
			NamespacePath:      copyPath(w.namespaces),
			Location:           nodeRange(left),
		})
		if right := n.ChildByFieldName("right"); right != nil {
			w.visit(right)
		}
	case left.Type() == "left_assignment_list":
		for i := 0; i < int(left.NamedChildCount()); i++ {
			target := left.NamedChild(i)
			if !constTarget(target) {
				continue
			}
			name, err := fetchConstName(target, w.src)
			if err != nil {
				w.skipped("dynamic assignment target", target)
				continue
			}
			w.definitions = append(w.definitions, parsing.Definition{
				FullyQualifiedName: fullyQualify(w.namespaces, name),
				NamespacePath:      copyPath(w.namespaces),
				Location:           nodeRange(target),
			})
		}
		// Value of a destructuring assignment is deliberately not
		// traversed.
	default:
		w.visitChildren(n)
	}
}

// onCall infers a constant reference from ActiveRecord association
// declarations, then traverses the call's arguments normally.
func (w *walkerState) onCall(n *sitter.Node) {
	if method := n.ChildByFieldName("method"); method != nil &&
		method.Type() == "identifier" && associationMethods[method.Content(w.src)] {
		if target := associationTarget(n, w.src); target != "" {
			w.references = append(w.references, parsing.Reference{
				Name:          target,
				NamespacePath: copyPath(w.namespaces),
				Location:      nodeRange(n),
			})
		} else {
			w.skipped("unrecognized association arguments", n)
		}
	}
	w.visitChildren(n)
}
