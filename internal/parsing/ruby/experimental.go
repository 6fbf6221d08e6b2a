package ruby

import (
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"packlens/internal/parsing"
)

// experimentalCollector is the lightweight walker backing the
// parsed-definitions resolver. It differs from the packwerk walker in
// three ways: no superclass tracking (namespace paths are simply the
// current stack minus exact self-name matches), no self-reference for
// class/module declarations, and a class or module definition is kept
// only when a method was defined in its body — reopened namespaces
// that add no behavior would otherwise flood a codebase-wide
// definition map.
type experimentalCollector struct {
	walkerState
	behavioralChange bool
}

func newExperimentalCollector(src []byte, logger *slog.Logger) *experimentalCollector {
	c := &experimentalCollector{walkerState: walkerState{src: src, logger: logger}}
	c.visit = c.dispatch
	return c
}

func (c *experimentalCollector) dispatch(n *sitter.Node) {
	switch n.Type() {
	case "class":
		c.onNamespace(n, true)
	case "module":
		c.onNamespace(n, false)
	case "assignment", "operator_assignment":
		c.onAssignment(n)
	case "constant", "scope_resolution":
		c.onConst(n)
	case "call":
		c.onCall(n)
	case "method":
		c.behavioralChange = true
		c.visitChildren(n)
	default:
		c.visitChildren(n)
	}
}

func (c *experimentalCollector) onNamespace(n *sitter.Node, isClass bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name, err := fetchConstName(nameNode, c.src)
	if err != nil {
		c.skipped("dynamic namespace name", nameNode)
		return
	}

	var supNode *sitter.Node
	if isClass {
		if supNode = n.ChildByFieldName("superclass"); supNode != nil {
			// Superclass is an ordinary reference here, resolved against
			// the enclosing scopes.
			c.visit(supNode)
		}
	}

	fqn := fullyQualify(c.namespaces, name)
	loc := nodeRange(nameNode)
	c.namespaces = append(c.namespaces, name)
	definition := parsing.Definition{
		FullyQualifiedName: fqn,
		NamespacePath:      copyPath(c.namespaces),
		Location:           loc,
	}

	c.visitBody(n, nameNode, supNode)

	if c.behavioralChange {
		c.definitions = append(c.definitions, definition)
	}
	c.behavioralChange = false

	c.namespaces = c.namespaces[:len(c.namespaces)-1]
}

func (c *experimentalCollector) onConst(n *sitter.Node) {
	name, err := fetchConstName(n, c.src)
	if err != nil {
		c.skipped("dynamic constant reference", n)
		return
	}

	var namespacePath []string
	for _, ns := range c.namespaces {
		if ns != name {
			namespacePath = append(namespacePath, ns)
		}
	}

	c.references = append(c.references, parsing.Reference{
		Name:          name,
		NamespacePath: namespacePath,
		Location:      nodeRange(n),
	})
}
