// Package erb handles templated Ruby files. ERB is not parsed as ERB:
// the embedded Ruby is lifted out of the template tags and run through
// the plain Ruby parser. The transliteration is not
// character-preserving, so every reference from an ERB file carries
// the unknown-position sentinel range, and definitions are not
// collected from templates at all.
package erb

import (
	"context"
	"strings"

	"packlens/internal/parsing"
	"packlens/internal/parsing/ruby"
)

// ProcessFromContents transliterates an ERB template to plain Ruby and
// extracts constant references from it.
func ProcessFromContents(ctx context.Context, contents []byte, absolutePath string, walker ruby.Walker, opts ...ruby.Option) parsing.ProcessedFile {
	rubySource := Transliterate(string(contents))
	processed := ruby.ProcessFromContents(ctx, []byte(rubySource), absolutePath, walker, opts...)

	references := make([]parsing.Reference, len(processed.UnresolvedReferences))
	for i, r := range processed.UnresolvedReferences {
		r.Location = parsing.Range{}
		references[i] = r
	}

	return parsing.ProcessedFile{
		AbsolutePath:         absolutePath,
		UnresolvedReferences: references,
		// Templates do not define constants.
	}
}

// Transliterate extracts the Ruby fragments from an ERB template and
// joins them into a plain Ruby source. Output tags (<%=) and trimmed
// tags (<%-, -%>) contribute their expression; comment tags (<%#) are
// dropped. Template text between tags is discarded.
func Transliterate(template string) string {
	var fragments []string
	rest := template
	for {
		open := strings.Index(rest, "<%")
		if open < 0 {
			break
		}
		rest = rest[open+2:]
		end := strings.Index(rest, "%>")
		if end < 0 {
			break
		}
		fragment := rest[:end]
		rest = rest[end+2:]

		if strings.HasPrefix(fragment, "#") {
			continue
		}
		fragment = strings.TrimPrefix(fragment, "=")
		fragment = strings.TrimPrefix(fragment, "-")
		fragment = strings.TrimSuffix(fragment, "-")
		fragment = strings.TrimSpace(fragment)
		if fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return strings.Join(fragments, "\n")
}
