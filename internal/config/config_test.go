package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates path (and parent directories) with contents.
func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// fixtureApp lays out a minimal two-pack repository.
func fixtureApp(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.yml"), "enforce_dependencies: false\n")
	writeFile(t, filepath.Join(root, "packs/foo/package.yml"),
		"enforce_dependencies: true\ndependencies:\n  - packs/bar\n")
	writeFile(t, filepath.Join(root, "packs/foo/app/models/foo.rb"), "class Foo\nend\n")
	writeFile(t, filepath.Join(root, "packs/bar/package.yml"), "enforce_dependencies: true\n")
	writeFile(t, filepath.Join(root, "packs/bar/app/models/bar.rb"), "class Bar\nend\n")
	writeFile(t, filepath.Join(root, "packs/bar/app/views/bar.html.erb"), "<%= Bar.name %>\n")
	writeFile(t, filepath.Join(root, "packs/bar/app/models/notes.md"), "not ruby\n")
	return root
}

func TestGetDefaults(t *testing.T) {
	root := fixtureApp(t)
	cfg, err := Get(root)
	require.NoError(t, err)

	assert.True(t, cfg.CacheEnabled)
	assert.False(t, cfg.ExperimentalParser)
	assert.Equal(t, filepath.Join(cfg.AbsoluteRoot, ".packlens", "cache"), cfg.CacheDirectory)

	require.Len(t, cfg.IncludedFiles, 3)
	for _, f := range cfg.IncludedFiles {
		assert.True(t, filepath.IsAbs(f))
	}
}

func TestDefaultIncludePathsCoverLib(t *testing.T) {
	root := fixtureApp(t)
	writeFile(t, filepath.Join(root, "lib/shared_util.rb"), "class SharedUtil\nend\n")

	cfg, err := Get(root)
	require.NoError(t, err)

	libFile := filepath.Join(cfg.AbsoluteRoot, "lib/shared_util.rb")
	assert.Contains(t, cfg.IncludedFiles, libFile)
	// The root lib autoload root maps the same file, so the zeitwerk
	// resolver and discovery agree on it.
	assert.Contains(t, cfg.AutoloadRoots, filepath.Join(cfg.AbsoluteRoot, "lib"))
}

func TestGetReadsPacklensYml(t *testing.T) {
	root := fixtureApp(t)
	writeFile(t, filepath.Join(root, "packlens.yml"),
		"cache: false\nexperimental_parser: true\ninclude_paths:\n  - packs/foo\n")

	cfg, err := Get(root)
	require.NoError(t, err)

	assert.False(t, cfg.CacheEnabled)
	assert.True(t, cfg.ExperimentalParser)
	require.Len(t, cfg.IncludedFiles, 1)
	assert.Equal(t, filepath.Join(cfg.AbsoluteRoot, "packs/foo/app/models/foo.rb"), cfg.IncludedFiles[0])
}

func TestGetMalformedYml(t *testing.T) {
	root := fixtureApp(t)
	writeFile(t, filepath.Join(root, "packlens.yml"), "cache: [unclosed\n")

	_, err := Get(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "packlens.yml")
}

func TestAutoloadRoots(t *testing.T) {
	root := fixtureApp(t)
	cfg, err := Get(root)
	require.NoError(t, err)

	fooModels := filepath.Join(cfg.AbsoluteRoot, "packs/foo/app/models")
	barModels := filepath.Join(cfg.AbsoluteRoot, "packs/bar/app/models")
	barViews := filepath.Join(cfg.AbsoluteRoot, "packs/bar/app/views")

	assert.Contains(t, cfg.AutoloadRoots, fooModels)
	assert.Contains(t, cfg.AutoloadRoots, barModels)
	assert.Contains(t, cfg.AutoloadRoots, barViews)
	assert.Equal(t, "", cfg.AutoloadRoots[fooModels])
}

func TestPackSetDiscovery(t *testing.T) {
	root := fixtureApp(t)
	cfg, err := Get(root)
	require.NoError(t, err)

	require.Len(t, cfg.PackSet.Packs, 3)
	// Sorted by name: ".", "packs/bar", "packs/foo".
	assert.Equal(t, ".", cfg.PackSet.Packs[0].Name)
	assert.Equal(t, "packs/bar", cfg.PackSet.Packs[1].Name)
	assert.Equal(t, "packs/foo", cfg.PackSet.Packs[2].Name)

	foo := cfg.PackSet.Packs[2]
	assert.True(t, foo.EnforceDependencies)
	assert.True(t, foo.DependsOn("packs/bar"))
	assert.False(t, foo.DependsOn("packs/baz"))
}

func TestPackSetForFile(t *testing.T) {
	root := fixtureApp(t)
	cfg, err := Get(root)
	require.NoError(t, err)

	pack, ok := cfg.PackSet.ForFile(cfg.AbsoluteRoot,
		filepath.Join(cfg.AbsoluteRoot, "packs/foo/app/models/foo.rb"))
	require.True(t, ok)
	assert.Equal(t, "packs/foo", pack.Name)

	// Files outside every pack directory fall back to the root pack.
	pack, ok = cfg.PackSet.ForFile(cfg.AbsoluteRoot,
		filepath.Join(cfg.AbsoluteRoot, "app/models/stray.rb"))
	require.True(t, ok)
	assert.Equal(t, ".", pack.Name)
}

func TestDiscoverySkipsHiddenAndVendorDirs(t *testing.T) {
	root := fixtureApp(t)
	writeFile(t, filepath.Join(root, "packs/foo/vendor/gem.rb"), "class Gem\nend\n")
	writeFile(t, filepath.Join(root, "packs/foo/.hidden/secret.rb"), "class Secret\nend\n")

	cfg, err := Get(root)
	require.NoError(t, err)
	for _, f := range cfg.IncludedFiles {
		assert.NotContains(t, f, "vendor")
		assert.NotContains(t, f, ".hidden")
	}
}
