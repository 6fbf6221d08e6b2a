// Package cache stores per-file parsing results keyed by content
// digest, so unchanged files are never re-parsed. The engine treats a
// miss transparently by recomputing, and is agnostic to how a cache
// stores its entries.
package cache

import "packlens/internal/parsing"

// Cache is a (path, content digest) → ProcessedFile store. Get returns
// false on a miss, including when an entry exists for the path but was
// computed from different contents.
type Cache interface {
	Get(path, digest string) (parsing.ProcessedFile, bool)
	Put(path, digest string, processed parsing.ProcessedFile) error
	Close() error
}

// Noop is the cache used when caching is disabled: it misses on every
// read and discards every write.
type Noop struct{}

func (Noop) Get(path, digest string) (parsing.ProcessedFile, bool) {
	return parsing.ProcessedFile{}, false
}

func (Noop) Put(path, digest string, processed parsing.ProcessedFile) error {
	return nil
}

func (Noop) Close() error { return nil }
