// Package resolver maps unresolved constant references to the files
// that define them. Two interchangeable strategies exist: the zeitwerk
// resolver infers definitions from file paths alone, and the
// definitions resolver aggregates what the parser actually saw across
// every file. Both are immutable snapshots built once from a fixed
// input set; changed inputs require a new snapshot.
package resolver

import (
	"packlens/internal/parsing"
)

// ResolvedConstant is a constant whose defining file is known.
type ResolvedConstant struct {
	FullyQualifiedName       string
	AbsolutePathOfDefinition string
	NamespacePath            []string
}

// ConstantResolver resolves a reference to the constant it denotes.
// The second return is false when no candidate expansion of the
// reference is known to the resolver — the constant is external,
// dynamically defined, or misspelled; a resolver never guesses.
type ConstantResolver interface {
	Resolve(reference parsing.Reference) (ResolvedConstant, bool)
}

// resolveAgainst probes a fully-qualified-name map with each expansion
// candidate of the reference, in order. For each candidate the
// root-anchored variant is probed as a fallback, since maps are keyed
// by root-anchored names.
func resolveAgainst(constants map[string]ResolvedConstant, reference parsing.Reference) (ResolvedConstant, bool) {
	for _, candidate := range reference.PossibleFullyQualifiedConstants() {
		if c, ok := constants[candidate]; ok {
			return c, true
		}
		if c, ok := constants["::"+candidate]; ok {
			return c, true
		}
	}
	return ResolvedConstant{}, false
}
