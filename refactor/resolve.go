// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import "sort"

// A Set is a set of fully-qualified class names.
type Set map[string]bool

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = true
	}
	return s
}

// Has reports whether name is in s. A nil Set is empty.
func (s Set) Has(name string) bool {
	return s[name]
}

// Sorted returns the names in s in sorted order.
func (s Set) Sorted() []string {
	list := make([]string, 0, len(s))
	for name := range s {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// Resolve returns the set of classes in g that inherit, directly or
// through any chain of declared bases, from one of the seeds.
//
// The seeds themselves are not in the result unless some class
// reaches them through the graph. A class with no edges to a seed is
// never in the result, and cycles in g terminate.
func Resolve(g *Graph, seeds Set) Set {
	return ResolvePruned(g, seeds, nil)
}

// ResolvePruned is like Resolve, but traversal does not enter the
// classes named in prune, so their subclasses are reached only along
// other paths. Pruning only limits the search: it never removes a
// class that has already been added.
func ResolvePruned(g *Graph, seeds, prune Set) Set {
	// Invert the graph: base name -> direct subclasses.
	children := make(map[string][]string)
	for name, bases := range g.Edges() {
		for _, b := range bases {
			children[b] = append(children[b], name)
		}
	}

	result := make(Set)
	for _, seed := range seeds.Sorted() {
		work := append([]string(nil), children[seed]...)
		for len(work) > 0 {
			name := work[len(work)-1]
			work = work[:len(work)-1]
			if result[name] || prune.Has(name) {
				continue
			}
			result[name] = true
			work = append(work, children[name]...)
		}
	}
	return result
}
