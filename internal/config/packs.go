package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawPack mirrors a package.yml manifest.
type rawPack struct {
	EnforceDependencies bool     `yaml:"enforce_dependencies"`
	Dependencies        []string `yaml:"dependencies"`
}

// Pack is one independently-owned package in the repository.
type Pack struct {
	// Name is the pack's path relative to the repository root, e.g.
	// "packs/billing". The root pack is ".".
	Name                string
	RelativePath        string
	Yml                 string
	EnforceDependencies bool
	Dependencies        []string
}

// DependsOn reports whether the pack declares a dependency on other.
func (p *Pack) DependsOn(other string) bool {
	for _, d := range p.Dependencies {
		if d == other {
			return true
		}
	}
	return false
}

// PackSet is every pack discovered in the repository.
type PackSet struct {
	Packs []Pack

	// byPath indexes packs by relative path for ForFile's prefix walk.
	byPath map[string]*Pack
}

// loadPackSet discovers package.yml manifests under absRoot.
func loadPackSet(absRoot string) (*PackSet, error) {
	var packs []Pack
	err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != absRoot && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "package.yml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		raw := rawPack{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		rel, err := filepath.Rel(absRoot, filepath.Dir(path))
		if err != nil {
			return err
		}
		packs = append(packs, Pack{
			Name:                rel,
			RelativePath:        rel,
			Yml:                 path,
			EnforceDependencies: raw.EnforceDependencies,
			Dependencies:        raw.Dependencies,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover packs: %w", err)
	}

	sort.Slice(packs, func(i, j int) bool { return packs[i].Name < packs[j].Name })

	byPath := make(map[string]*Pack, len(packs))
	for i := range packs {
		byPath[packs[i].RelativePath] = &packs[i]
	}
	return &PackSet{Packs: packs, byPath: byPath}, nil
}

// ForFile returns the pack owning the file at absPath: the pack whose
// directory is the longest prefix of the file's path. The root pack
// (".") matches any file when present.
func (ps *PackSet) ForFile(absRoot, absPath string) (*Pack, bool) {
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return nil, false
	}

	dir := filepath.Dir(rel)
	for dir != "." && dir != string(filepath.Separator) {
		if pack, ok := ps.byPath[dir]; ok {
			return pack, true
		}
		dir = filepath.Dir(dir)
	}
	if pack, ok := ps.byPath["."]; ok {
		return pack, true
	}
	return nil, false
}
