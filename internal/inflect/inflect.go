// Package inflect provides the two name transformations packlens needs:
// zeitwerk-style camelization of path segments and Rails class-casing of
// association names.
package inflect

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// Camelize converts an underscored path segment to the constant name
// zeitwerk would infer for it: "some_user_model" → "SomeUserModel".
func Camelize(word string) string {
	parts := strings.Split(word, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// ClassCase converts an association name or class_name value to the
// class it refers to, the way Rails does: singularized and camelized,
// per "::"-separated segment. "some_user_models" → "SomeUserModel",
// "User" → "User", "admin::users" → "Admin::User".
func ClassCase(word string) string {
	segments := strings.Split(word, "::")
	for i, segment := range segments {
		if i == len(segments)-1 {
			segment = inflection.Singular(segment)
		}
		segments[i] = Camelize(segment)
	}
	return strings.Join(segments, "::")
}
