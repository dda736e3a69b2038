// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// A Base is one entry in a class's base list.
//
// Name is a fully-qualified class name when Resolved is true.
// Otherwise it is an opaque token: the best-effort textual form
// of a base expression that could not be resolved statically.
type Base struct {
	Name     string
	Resolved bool
}

func (b Base) String() string {
	if b.Resolved {
		return b.Name
	}
	return "?" + b.Name
}

// A Class records the declared bases of one class definition.
type Class struct {
	Name  string // fully-qualified name
	File  string // defining file, relative to the project root
	Bases []Base
}

// A Graph is a class inheritance graph: it maps each analyzed class
// to the bases it declares. Bases may name classes that are not in the
// graph, such as pydantic.BaseModel itself.
type Graph struct {
	classes map[string]*Class
	nEdges  int // total number of edges
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{classes: make(map[string]*Class)}
}

// Add adds c to g. A class defined more than once in the same module,
// as in an if/else, accumulates the bases of every definition.
func (g *Graph) Add(c *Class) {
	o := g.classes[c.Name]
	if o == nil {
		g.classes[c.Name] = c
		g.nEdges += len(c.Bases)
		return
	}
	// Two files collide only when they map to the same module
	// (x.py and x/__init__.py); keep both definitions' bases.
	merged := &Class{Name: o.Name, File: o.File, Bases: append([]Base(nil), o.Bases...)}
	for _, b := range c.Bases {
		if !hasBase(merged.Bases, b) {
			merged.Bases = append(merged.Bases, b)
			g.nEdges++
		}
	}
	g.classes[c.Name] = merged
}

func hasBase(list []Base, b Base) bool {
	for _, x := range list {
		if x == b {
			return true
		}
	}
	return false
}

// Class returns the class with the given name, or nil.
func (g *Graph) Class(name string) *Class {
	return g.classes[name]
}

// Len returns the number of classes in g.
func (g *Graph) Len() int {
	return len(g.classes)
}

// NumEdges returns the number of base edges in g.
func (g *Graph) NumEdges() int {
	return g.nEdges
}

// Classes returns the classes of g sorted by name.
func (g *Graph) Classes() []*Class {
	var list []*Class
	for _, c := range g.classes {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Merge adds every class of g2 to g. Partial graphs built from
// different files are disjoint, so merging is a plain union and the
// order of merges does not matter.
func (g *Graph) Merge(g2 *Graph) {
	if g2 == nil {
		return
	}
	for _, c := range g2.Classes() {
		g.Add(c)
	}
}

// Edges returns the child-to-bases adjacency of g.
// Opaque tokens appear under their textual names.
func (g *Graph) Edges() map[string][]string {
	m := make(map[string][]string, len(g.classes))
	for name, c := range g.classes {
		var bases []string
		for _, b := range c.Bases {
			bases = append(bases, b.Name)
		}
		m[name] = bases
	}
	return m
}

// findCycle finds some inheritance cycle in g. Python rejects such
// hierarchies at import time, so a cycle means the collector saw
// conflicting definitions. If there is no cycle, findCycle returns nil.
func (g *Graph) findCycle() *classCycle {
	walked := make(map[string]int8)
	var stack []string
	var cycle []string
	var walk func(string) bool
	walk = func(name string) bool {
		if walked[name] == 2 {
			return false
		}
		if walked[name] == 1 {
			// Found a cycle.
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == name {
					cycle = append(cycle, stack[i:]...)
					break
				}
			}
			return true
		}
		c := g.classes[name]
		if c == nil {
			// External or opaque base.
			walked[name] = 2
			return false
		}
		walked[name] = 1
		stack = append(stack, name)
		for _, b := range c.Bases {
			if walk(b.Name) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		walked[name] = 2
		return false
	}
	for _, c := range g.Classes() {
		if walk(c.Name) {
			// Rotate the cycle into some canonical order.
			off := 0
			for i := range cycle {
				if cycle[i] < cycle[off] {
					off = i
				}
			}
			var cc classCycle
			for i := range cycle {
				cc.names = append(cc.names, cycle[(off+i)%len(cycle)])
			}
			return &cc
		}
	}
	return nil
}

type classCycle struct {
	names []string
}

func (c *classCycle) String() string {
	if len(c.names) == 0 {
		return "<cycle>"
	}
	var b bytes.Buffer
	for _, name := range c.names {
		b.WriteString(name)
		b.WriteString(" -> ")
	}
	b.WriteString(c.names[0]) // Intentionally repeated
	return b.String()
}

// Dump writes a readable listing of g to w.
func (g *Graph) Dump(w io.Writer) {
	for _, c := range g.Classes() {
		fmt.Fprintf(w, "class %s (%s)\n", c.Name, c.File)
		for _, b := range c.Bases {
			fmt.Fprintf(w, "  base %s\n", b)
		}
	}
}
