package packlens

import (
	"packlens/internal/cache"
	"packlens/internal/checker"
	"packlens/internal/config"
	"packlens/internal/parsing"
	"packlens/internal/resolver"
)

// Public aliases for the internal types used in the Engine API, so
// external consumers never import internal packages directly.

type Range = parsing.Range
type Reference = parsing.Reference
type Definition = parsing.Definition
type ProcessedFile = parsing.ProcessedFile
type ResolvedConstant = resolver.ResolvedConstant
type ConstantResolver = resolver.ConstantResolver
type Configuration = config.Configuration
type Pack = config.Pack
type PackSet = config.PackSet
type Violation = checker.Violation
type Cache = cache.Cache

// LoadConfiguration loads the repository configuration rooted at root.
func LoadConfiguration(root string) (*Configuration, error) {
	return config.Get(root)
}
