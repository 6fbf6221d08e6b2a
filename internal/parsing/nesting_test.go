package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateModuleNesting(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{"Foo"}, []string{"Foo"}},
		{"two levels", []string{"Foo", "Bar"}, []string{"Foo::Bar", "Foo"}},
		{"three levels", []string{"Foo", "Bar", "Baz"}, []string{"Foo::Bar::Baz", "Foo::Bar", "Foo"}},
		{"compact segment", []string{"Foo::Bar", "Baz"}, []string{"Foo::Bar::Baz", "Foo::Bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateModuleNesting(tt.in))
		})
	}
}

func TestPossibleFullyQualifiedConstants(t *testing.T) {
	t.Run("bare name with nesting", func(t *testing.T) {
		ref := Reference{Name: "Baz", NamespacePath: []string{"Foo", "Bar"}}
		assert.Equal(t,
			[]string{"Baz", "::Foo::Bar::Baz", "::Foo::Baz"},
			ref.PossibleFullyQualifiedConstants())
	})

	t.Run("bare name without nesting", func(t *testing.T) {
		ref := Reference{Name: "Foo"}
		assert.Equal(t, []string{"Foo"}, ref.PossibleFullyQualifiedConstants())
	})

	t.Run("root anchored name has one candidate", func(t *testing.T) {
		ref := Reference{Name: "::Foo", NamespacePath: []string{"Bar", "Baz"}}
		assert.Equal(t, []string{"::Foo"}, ref.PossibleFullyQualifiedConstants())
	})
}

func TestRangeUnknown(t *testing.T) {
	assert.True(t, Range{}.Unknown())
	assert.False(t, Range{StartRow: 1, EndRow: 1, EndCol: 4}.Unknown())
}
