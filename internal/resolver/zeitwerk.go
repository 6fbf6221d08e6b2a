package resolver

import (
	"path/filepath"
	"strings"

	"packlens/internal/inflect"
	"packlens/internal/parsing"
)

// ZeitwerkResolver derives the constant map purely from directory
// layout, the way Rails autoloading does: a file at
// <autoload root>/a/b/c.rb is assumed to define ::A::B::C. It is cheap
// to build, no file is ever opened, but blind to anything declared
// outside the convention.
type ZeitwerkResolver struct {
	constants map[string]ResolvedConstant
}

// BuildZeitwerkResolver builds the snapshot from the configured
// autoload roots and the file list. autoloadRoots maps an absolute
// directory to the root-anchored namespace its contents live under
// ("" for the global root). Files outside every root are ignored.
func BuildZeitwerkResolver(autoloadRoots map[string]string, files []string) *ZeitwerkResolver {
	constants := make(map[string]ResolvedConstant)
	for _, file := range files {
		if filepath.Ext(file) != ".rb" {
			continue
		}
		root, prefix, ok := autoloadRootFor(autoloadRoots, file)
		if !ok {
			continue
		}
		fqn, path := constantForPath(root, prefix, file)
		if _, exists := constants[fqn]; exists {
			continue // first definition wins
		}
		constants[fqn] = ResolvedConstant{
			FullyQualifiedName:       fqn,
			AbsolutePathOfDefinition: file,
			NamespacePath:            path,
		}
	}
	return &ZeitwerkResolver{constants: constants}
}

// Resolve implements ConstantResolver.
func (z *ZeitwerkResolver) Resolve(reference parsing.Reference) (ResolvedConstant, bool) {
	return resolveAgainst(z.constants, reference)
}

// Constants returns the backing map, keyed by fully qualified name.
func (z *ZeitwerkResolver) Constants() map[string]ResolvedConstant {
	return z.constants
}

// autoloadRootFor finds the autoload root containing file. The longest
// matching root wins, so nested roots behave like zeitwerk's.
func autoloadRootFor(autoloadRoots map[string]string, file string) (root, prefix string, ok bool) {
	for candidate, p := range autoloadRoots {
		withSep := candidate
		if !strings.HasSuffix(withSep, string(filepath.Separator)) {
			withSep += string(filepath.Separator)
		}
		if strings.HasPrefix(file, withSep) && len(candidate) > len(root) {
			root, prefix, ok = candidate, p, true
		}
	}
	return root, prefix, ok
}

// constantForPath converts a file's path relative to its autoload root
// into the constant it defines by convention, camelizing each path
// segment. The enclosing namespace path is every segment but the last.
func constantForPath(root, prefix, file string) (string, []string) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}
	rel = strings.TrimSuffix(rel, ".rb")

	var segments []string
	if prefix != "" {
		segments = append(segments, strings.Split(strings.TrimPrefix(prefix, "::"), "::")...)
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		segments = append(segments, inflect.Camelize(part))
	}

	fqn := "::" + strings.Join(segments, "::")
	var namespacePath []string
	if len(segments) > 1 {
		namespacePath = segments[:len(segments)-1]
	}
	return fqn, namespacePath
}
