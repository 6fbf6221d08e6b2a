package checker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packlens/internal/config"
	"packlens/internal/parsing"
	"packlens/internal/resolver"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// fixtureConfig builds a repository where packs/foo references
// packs/bar without declaring it, and packs/baz declares its
// dependency on packs/bar properly.
func fixtureConfig(t *testing.T, enforce bool) *config.Configuration {
	t.Helper()
	root := t.TempDir()
	enforceLine := "enforce_dependencies: false\n"
	if enforce {
		enforceLine = "enforce_dependencies: true\n"
	}
	writeFile(t, filepath.Join(root, "packs/foo/package.yml"), enforceLine)
	writeFile(t, filepath.Join(root, "packs/bar/package.yml"), "enforce_dependencies: true\n")
	writeFile(t, filepath.Join(root, "packs/baz/package.yml"),
		"enforce_dependencies: true\ndependencies:\n  - packs/bar\n")

	cfg, err := config.Get(root)
	require.NoError(t, err)
	return cfg
}

func processedFixture(root string) ([]parsing.ProcessedFile, resolver.ConstantResolver) {
	barFile := filepath.Join(root, "packs/bar/app/models/bar.rb")
	fooFile := filepath.Join(root, "packs/foo/app/services/foo.rb")
	bazFile := filepath.Join(root, "packs/baz/app/services/baz.rb")

	processed := []parsing.ProcessedFile{
		{
			AbsolutePath: barFile,
			Definitions:  []parsing.Definition{{FullyQualifiedName: "::Bar"}},
			UnresolvedReferences: []parsing.Reference{
				{Name: "::Bar", Location: parsing.Range{StartRow: 1, StartCol: 6, EndRow: 1, EndCol: 10}},
			},
		},
		{
			AbsolutePath: fooFile,
			UnresolvedReferences: []parsing.Reference{
				{Name: "Bar", Location: parsing.Range{StartRow: 3, StartCol: 4, EndRow: 3, EndCol: 8}},
				{Name: "ExternalGem", Location: parsing.Range{StartRow: 4, StartCol: 4, EndRow: 4, EndCol: 16}},
			},
		},
		{
			AbsolutePath: bazFile,
			UnresolvedReferences: []parsing.Reference{
				{Name: "Bar", Location: parsing.Range{StartRow: 2, StartCol: 4, EndRow: 2, EndCol: 8}},
			},
		},
	}
	return processed, resolver.BuildDefinitionsResolver(processed)
}

func TestCheckReportsUndeclaredCrossPackReference(t *testing.T) {
	cfg := fixtureConfig(t, true)
	processed, res := processedFixture(cfg.AbsoluteRoot)

	violations := Check(cfg, processed, res)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, ViolationTypeDependency, v.Type)
	assert.Equal(t, "::Bar", v.ConstantName)
	assert.Equal(t, "packs/foo", v.ReferencingPack)
	assert.Equal(t, "packs/bar", v.DefiningPack)
	assert.Equal(t, filepath.Join(cfg.AbsoluteRoot, "packs/foo/app/services/foo.rb"), v.ReferencingFile)
	assert.Equal(t, parsing.Range{StartRow: 3, StartCol: 4, EndRow: 3, EndCol: 8}, v.Location)
}

func TestCheckSkipsNonEnforcingPacks(t *testing.T) {
	cfg := fixtureConfig(t, false)
	processed, res := processedFixture(cfg.AbsoluteRoot)

	violations := Check(cfg, processed, res)
	assert.Empty(t, violations)
}

func TestCheckDeclaredDependencyIsNotAViolation(t *testing.T) {
	cfg := fixtureConfig(t, true)
	processed, res := processedFixture(cfg.AbsoluteRoot)

	violations := Check(cfg, processed, res)
	for _, v := range violations {
		assert.NotEqual(t, "packs/baz", v.ReferencingPack)
	}
}

func TestCheckSortsViolations(t *testing.T) {
	cfg := fixtureConfig(t, true)
	root := cfg.AbsoluteRoot

	aFile := filepath.Join(root, "packs/foo/app/a.rb")
	bFile := filepath.Join(root, "packs/foo/app/b.rb")
	barFile := filepath.Join(root, "packs/bar/app/models/bar.rb")
	processed := []parsing.ProcessedFile{
		{
			AbsolutePath: barFile,
			Definitions:  []parsing.Definition{{FullyQualifiedName: "::Bar"}},
		},
		{
			AbsolutePath: bFile,
			UnresolvedReferences: []parsing.Reference{
				{Name: "Bar", Location: parsing.Range{StartRow: 1, StartCol: 0, EndRow: 1, EndCol: 4}},
			},
		},
		{
			AbsolutePath: aFile,
			UnresolvedReferences: []parsing.Reference{
				{Name: "Bar", Location: parsing.Range{StartRow: 9, StartCol: 0, EndRow: 9, EndCol: 4}},
				{Name: "Bar", Location: parsing.Range{StartRow: 2, StartCol: 0, EndRow: 2, EndCol: 4}},
			},
		},
	}
	res := resolver.BuildDefinitionsResolver(processed)

	violations := Check(cfg, processed, res)
	require.Len(t, violations, 3)
	assert.Equal(t, aFile, violations[0].ReferencingFile)
	assert.Equal(t, 2, violations[0].Location.StartRow)
	assert.Equal(t, aFile, violations[1].ReferencingFile)
	assert.Equal(t, 9, violations[1].Location.StartRow)
	assert.Equal(t, bFile, violations[2].ReferencingFile)
}
