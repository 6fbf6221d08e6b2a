package resolver

import (
	"packlens/internal/parsing"
)

// DefinitionsResolver aggregates the definitions the parser collected
// from every processed file. Unlike the zeitwerk resolver it sees
// exactly what the source declares, wherever it lives on disk — at the
// cost of requiring every file to have been parsed (or fetched from
// cache) first. When built from the experimental walker's output it
// inherits that walker's bias: namespaces reopened without behavior
// contribute no definition.
type DefinitionsResolver struct {
	constants map[string]ResolvedConstant
}

// BuildDefinitionsResolver builds the snapshot from processed files.
// When the same fully qualified constant is defined in several places
// (monkey patches, reopened classes), the first definition encountered
// wins.
func BuildDefinitionsResolver(processedFiles []parsing.ProcessedFile) *DefinitionsResolver {
	constants := make(map[string]ResolvedConstant)
	for _, pf := range processedFiles {
		for _, d := range pf.Definitions {
			if _, exists := constants[d.FullyQualifiedName]; exists {
				continue
			}
			constants[d.FullyQualifiedName] = ResolvedConstant{
				FullyQualifiedName:       d.FullyQualifiedName,
				AbsolutePathOfDefinition: pf.AbsolutePath,
				NamespacePath:            d.NamespacePath,
			}
		}
	}
	return &DefinitionsResolver{constants: constants}
}

// Resolve implements ConstantResolver.
func (r *DefinitionsResolver) Resolve(reference parsing.Reference) (ResolvedConstant, bool) {
	return resolveAgainst(r.constants, reference)
}

// Constants returns the backing map, keyed by fully qualified name.
func (r *DefinitionsResolver) Constants() map[string]ResolvedConstant {
	return r.constants
}
