package ruby

import (
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"packlens/internal/parsing"
)

// superclassReference records a class's ancestor while that class's
// body is being traversed. Ruby resolves a body's reference to the
// ancestor's own name relative to where the ancestor was declared, not
// relative to the subclass, so the namespace path at the declaration
// site is captured alongside the name.
type superclassReference struct {
	name          string
	namespacePath []string
}

// packwerkCollector is the default walker. Its output is behaviorally
// aligned with packwerk's reference collection, including the
// self-name filtering on namespace paths and treating each class or
// module definition as a reference to itself.
type packwerkCollector struct {
	walkerState
	superclasses []superclassReference
	inSuperclass bool
}

func newPackwerkCollector(src []byte, logger *slog.Logger) *packwerkCollector {
	c := &packwerkCollector{walkerState: walkerState{src: src, logger: logger}}
	c.visit = c.dispatch
	return c
}

func (c *packwerkCollector) dispatch(n *sitter.Node) {
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
	default:
		c.visitChildren(n)
	}
}

func (c *packwerkCollector) onNamespace(n *sitter.Node, isClass bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name, err := fetchConstName(nameNode, c.src)
	if err != nil {
		// A class/module whose name is not statically known is skipped
		// entirely, body included.
		c.skipped("dynamic namespace name", nameNode)
		return
	}

	var supNode *sitter.Node
	supMark := len(c.superclasses)
	if isClass {
		if supNode = n.ChildByFieldName("superclass"); supNode != nil {
			c.inSuperclass = true
			c.visit(supNode)
			c.inSuperclass = false
		}
	}

	fqn := fullyQualify(c.namespaces, name)
	c.namespaces = append(c.namespaces, name)
	path := copyPath(c.namespaces)
	loc := nodeRange(nameNode)

	c.definitions = append(c.definitions, parsing.Definition{
		FullyQualifiedName: fqn,
		NamespacePath:      path,
		Location:           loc,
	})
	// A definition is also a reference to the constant it defines.
	c.references = append(c.references, parsing.Reference{
		Name:          fqn,
		NamespacePath: path,
		Location:      loc,
	})

	c.visitBody(n, nameNode, supNode)

	c.namespaces = c.namespaces[:len(c.namespaces)-1]
	c.superclasses = c.superclasses[:supMark]
}

func (c *packwerkCollector) onConst(n *sitter.Node) {
	name, err := fetchConstName(n, c.src)
	if err != nil {
		c.skipped("dynamic constant reference", n)
		return
	}

	if c.inSuperclass {
		c.superclasses = append(c.superclasses, superclassReference{
			name:          name,
			namespacePath: copyPath(c.namespaces),
		})
	}

	var namespacePath []string
	if match := c.matchingSuperclass(name); match != nil {
		namespacePath = copyPath(match.namespacePath)
	} else {
		// Packwerk drops namespace entries equal to the reference's own
		// name, unless an active superclass shares that name. This is
		// known to be imprecise and is preserved deliberately for
		// packwerk alignment.
		for _, ns := range c.namespaces {
			if ns != name || c.superclassNamed(name) {
				namespacePath = append(namespacePath, ns)
			}
		}
	}

	c.references = append(c.references, parsing.Reference{
		Name:          name,
		NamespacePath: namespacePath,
		Location:      nodeRange(n),
	})
}

func (c *packwerkCollector) matchingSuperclass(name string) *superclassReference {
	for i := range c.superclasses {
		if c.superclasses[i].name == name {
			return &c.superclasses[i]
		}
	}
	return nil
}

func (c *packwerkCollector) superclassNamed(name string) bool {
	return c.matchingSuperclass(name) != nil
}
