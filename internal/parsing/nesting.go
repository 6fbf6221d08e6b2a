package parsing

// CalculateModuleNesting converts the class/module nesting at a point
// in code into the value Ruby's Module.nesting would report there:
// cumulative scope-qualified names, innermost first.
//
//	class Foo
//	  module Bar
//	    class Baz
//	      Module.nesting # => [Foo::Bar::Baz, Foo::Bar, Foo]
//	    end
//	  end
//	end
//
// Input is the nesting outermost first ([Foo, Bar, Baz] above).
func CalculateModuleNesting(namespacePath []string) []string {
	nesting := make([]string, 0, len(namespacePath))
	previous := ""
	for _, namespace := range namespacePath {
		if previous == "" {
			previous = namespace
		} else {
			previous = previous + "::" + namespace
		}
		nesting = append([]string{previous}, nesting...)
	}
	return nesting
}
