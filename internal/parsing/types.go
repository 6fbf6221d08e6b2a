// Package parsing defines the data model shared by the Ruby and ERB
// parsers and the constant resolvers: source ranges, unresolved constant
// references, constant definitions, and the per-file result that both
// the cache and the resolvers consume.
package parsing

// Range is a source span. Rows are 1-based. The start column is 0-based;
// the end column is the end point's 0-based column plus one, matching
// packwerk's position convention. The zero Range means "unknown" and
// is used for references
// extracted from ERB, where transliteration loses exact positions.
type Range struct {
	StartRow int `msgpack:"sr"`
	StartCol int `msgpack:"sc"`
	EndRow   int `msgpack:"er"`
	EndCol   int `msgpack:"ec"`
}

// Unknown reports whether the range is the "unknown position" sentinel.
func (r Range) Unknown() bool {
	return r == Range{}
}

// Reference is a single use of a constant, as it appears in source,
// before resolution. Name may be root-anchored (leading "::"), meaning
// the constant is looked up from the global namespace rather than
// relative to the enclosing scopes. NamespacePath is the lexical
// class/module nesting at the point of use, outermost first.
type Reference struct {
	Name          string   `msgpack:"n"`
	NamespacePath []string `msgpack:"p"`
	Location      Range    `msgpack:"l"`
}

// Definition is a constant defined by a class, module, or constant
// assignment. FullyQualifiedName is always root-anchored.
type Definition struct {
	FullyQualifiedName string   `msgpack:"n"`
	NamespacePath      []string `msgpack:"p"`
	Location           Range    `msgpack:"l"`
}

// ProcessedFile is the per-file parsing result: everything the file
// references and everything it defines. It is immutable once produced
// and is the unit of caching and cross-file aggregation.
type ProcessedFile struct {
	AbsolutePath         string       `msgpack:"a"`
	UnresolvedReferences []Reference  `msgpack:"r"`
	Definitions          []Definition `msgpack:"d"`
}

// PossibleFullyQualifiedConstants expands a reference into the ordered
// list of fully qualified constants Ruby would try when resolving it:
// the name as written first, then the name anchored under each
// enclosing namespace, innermost first. A root-anchored name has
// exactly one candidate, itself.
func (r Reference) PossibleFullyQualifiedConstants() []string {
	if len(r.Name) >= 2 && r.Name[:2] == "::" {
		return []string{r.Name}
	}

	possible := []string{r.Name}
	for _, nesting := range CalculateModuleNesting(r.NamespacePath) {
		possible = append(possible, "::"+nesting+"::"+r.Name)
	}
	return possible
}
