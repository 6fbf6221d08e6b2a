// Package config loads packlens' configuration: the optional
// packlens.yml at the repository root, the per-pack package.yml
// manifests, the set of files to analyze, and the autoload roots the
// path-convention resolver needs.
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

// rawConfiguration mirrors packlens.yml.
type rawConfiguration struct {
	IncludePaths       []string `yaml:"include_paths"`
	Cache              *bool    `yaml:"cache"`
	CacheDirectory     string   `yaml:"cache_directory"`
	ExperimentalParser bool     `yaml:"experimental_parser"`
}

// Configuration is the loaded, absolute-path view of a repository.
type Configuration struct {
	AbsoluteRoot       string
	IncludedFiles      []string
	PackSet            *PackSet
	AutoloadRoots      map[string]string // absolute dir → root-anchored namespace prefix
	CacheEnabled       bool
	CacheDirectory     string
	ExperimentalParser bool
}

// skipDirs are never descended into during discovery.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"tmp":          true,
	"log":          true,
}

// Get loads the configuration for the repository rooted at root.
// A missing packlens.yml yields the defaults.
func Get(root string) (*Configuration, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	raw := rawConfiguration{}
	data, err := os.ReadFile(filepath.Join(absRoot, "packlens.yml"))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse packlens.yml: %w", err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return nil, fmt.Errorf("read packlens.yml: %w", err)
	}

	// Defaults cover every directory autoloadRoots may register, so
	// discovery and resolution see the same files.
	if len(raw.IncludePaths) == 0 {
		raw.IncludePaths = []string{"packs", "app", "lib"}
	}
	if raw.CacheDirectory == "" {
		raw.CacheDirectory = filepath.Join(".packlens", "cache")
	}

	packSet, err := loadPackSet(absRoot)
	if err != nil {
		return nil, err
	}

	files, err := discoverFiles(absRoot, raw.IncludePaths)
	if err != nil {
		return nil, err
	}

	cacheEnabled := true
	if raw.Cache != nil {
		cacheEnabled = *raw.Cache
	}

	return &Configuration{
		AbsoluteRoot:       absRoot,
		IncludedFiles:      files,
		PackSet:            packSet,
		AutoloadRoots:      autoloadRoots(absRoot, packSet),
		CacheEnabled:       cacheEnabled,
		CacheDirectory:     filepath.Join(absRoot, raw.CacheDirectory),
		ExperimentalParser: raw.ExperimentalParser,
	}, nil
}

// discoverFiles walks the include paths and collects every Ruby and
// ERB file, sorted for deterministic ordering.
func discoverFiles(absRoot string, includePaths []string) ([]string, error) {
	var files []string
	for _, include := range includePaths {
		dir := filepath.Join(absRoot, include)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if strings.HasPrefix(name, ".") || skipDirs[name] {
					return filepath.SkipDir
				}
				return nil
			}
			ext := filepath.Ext(path)
			if ext == ".rb" || ext == ".erb" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// autoloadRoots maps every conventional autoload directory to the
// global namespace: each pack's app/* subdirectories and lib, plus the
// same at the repository root. All convention roots map to "" — packs
// do not namespace their constants by pack name.
func autoloadRoots(absRoot string, packSet *PackSet) map[string]string {
	roots := make(map[string]string)
	addRootsUnder := func(base string) {
		appDir := filepath.Join(base, "app")
		entries, err := os.ReadDir(appDir)
		if err == nil {
			for _, e := range entries {
				if e.IsDir() {
					roots[filepath.Join(appDir, e.Name())] = ""
				}
			}
		}
		libDir := filepath.Join(base, "lib")
		if info, err := os.Stat(libDir); err == nil && info.IsDir() {
			roots[libDir] = ""
		}
	}

	addRootsUnder(absRoot)
	for _, pack := range packSet.Packs {
		if pack.RelativePath != "." {
			addRootsUnder(filepath.Join(absRoot, pack.RelativePath))
		}
	}
	return roots
}
