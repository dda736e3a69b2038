// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of file texts kept from the
// collection phase for the rewrite phase.
const DefaultCacheSize = 1024

// A SourceCache reads project files. Texts read during collection are
// kept, up to a fixed number, so the rewrite phase need not read them
// again. It is safe for concurrent use.
type SourceCache struct {
	root  string
	cache *lru.Cache[string, []byte] // nil if caching is off
}

// NewSourceCache returns a cache of up to size texts of files under
// root. A size of zero or less turns caching off.
func NewSourceCache(root string, size int) *SourceCache {
	s := &SourceCache{root: root}
	if size > 0 {
		// New fails only for a non-positive size.
		s.cache, _ = lru.New[string, []byte](size)
	}
	return s
}

// Read returns the text of the file at rel and keeps it.
func (s *SourceCache) Read(rel string) ([]byte, error) {
	if s.cache != nil {
		if text, ok := s.cache.Get(rel); ok {
			return text, nil
		}
	}
	text, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(rel, text)
	}
	return text, nil
}

// Take returns the text of the file at rel and drops it from the
// cache. The rewrite phase reads each file once, just before it may
// overwrite it.
func (s *SourceCache) Take(rel string) ([]byte, error) {
	if s.cache != nil {
		if text, ok := s.cache.Get(rel); ok {
			s.cache.Remove(rel)
			return text, nil
		}
	}
	return os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
}

// Len returns the number of texts held.
func (s *SourceCache) Len() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}
