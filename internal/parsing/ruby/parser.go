package ruby

import (
	"context"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"packlens/internal/parsing"
)

// Walker selects which extraction walker processes a file.
type Walker int

const (
	// Packwerk is the default walker, aligned with packwerk's
	// reference collection. Its output is filtered against same-file
	// definitions before being returned.
	Packwerk Walker = iota
	// Experimental is the lightweight walker whose definitions feed
	// the parsed-definitions resolver. Local filtering is deferred to
	// resolution time, where all definitions are known.
	Experimental
)

// Option configures a parse.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger attaches a logger that surfaces skipped nodes and other
// silent-by-default conditions at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ProcessFromContents parses contents as Ruby and extracts constant
// references and definitions with the selected walker. Unparsable
// content is not an error: the result is simply empty.
func ProcessFromContents(ctx context.Context, contents []byte, absolutePath string, walker Walker, opts ...Option) parsing.ProcessedFile {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	processed := parsing.ProcessedFile{AbsolutePath: absolutePath}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(ruby.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, contents)
	if err != nil || tree == nil {
		return processed
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.NamedChildCount() == 0 {
		return processed
	}

	switch walker {
	case Experimental:
		c := newExperimentalCollector(contents, o.logger)
		c.visitChildren(root)
		processed.UnresolvedReferences = c.references
		processed.Definitions = c.definitions
	default:
		c := newPackwerkCollector(contents, o.logger)
		c.visitChildren(root)
		processed.UnresolvedReferences = filterLocalReferences(c.references, c.definitions)
		processed.Definitions = c.definitions
	}

	return processed
}

// filterLocalReferences drops references that resolve to a definition
// in the same file: a constant used where it is defined is not a
// dependency on anything. The one exception is a reference occupying
// the exact span of its definition, which is the definition's own
// self-reference and is kept.
func filterLocalReferences(references []parsing.Reference, definitions []parsing.Definition) []parsing.Reference {
	if len(definitions) == 0 {
		return references
	}

	definitionLocations := make(map[string]parsing.Range, len(definitions))
	for _, d := range definitions {
		definitionLocations[d.FullyQualifiedName] = d.Location
	}

	kept := make([]parsing.Reference, 0, len(references))
	for _, r := range references {
		ignore := false
		for _, candidate := range r.PossibleFullyQualifiedConstants() {
			loc, ok := definitionLocations[candidate]
			if !ok {
				loc, ok = definitionLocations["::"+candidate]
			}
			if !ok {
				continue
			}
			if loc.StartRow == r.Location.StartRow && loc.StartCol == r.Location.StartCol {
				ignore = false
			} else {
				ignore = true
			}
		}
		if !ignore {
			kept = append(kept, r)
		}
	}
	return kept
}
