// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"strings"

	"github.com/bumpy-tools/bump/syntax"
)

// An ImportTable maps the names bound by a module's imports to the
// qualified names they refer to.
type ImportTable struct {
	names map[string]string
}

// Lookup returns the qualified name bound to name by an import.
func (t *ImportTable) Lookup(name string) (string, bool) {
	q, ok := t.names[name]
	return q, ok
}

// Has reports whether imp is already in effect: the name it binds
// refers to the same target.
func (t *ImportTable) Has(imp Import) bool {
	q, ok := t.names[imp.Bound()]
	return ok && q == imp.Target()
}

func (t *ImportTable) bind(name, target string) {
	// The first binding wins: in try/except ImportError fallbacks
	// the first import is the preferred one.
	if _, ok := t.names[name]; !ok {
		t.names[name] = target
	}
}

// newImportTable records the imports executed at module level,
// including those nested in if, try and with statements.
func newImportTable(f *File) *ImportTable {
	t := &ImportTable{names: make(map[string]string)}
	syntax.Walk(f.Root, func(n *syntax.Node) bool {
		switch n.Type() {
		case "function_definition", "class_definition", "decorated_definition", "lambda":
			return false
		case "import_statement":
			for _, spec := range syntax.NamedChildren(n) {
				switch spec.Type() {
				case "dotted_name":
					mod, _ := syntax.Dotted(spec, f.Text)
					head, _, _ := strings.Cut(mod, ".")
					t.bind(head, head)
				case "aliased_import":
					mod, _ := syntax.Dotted(syntax.Field(spec, "name"), f.Text)
					t.bind(f.Content(syntax.Field(spec, "alias")), mod)
				}
			}
			return false
		case "import_from_statement":
			modNode := syntax.Field(n, "module_name")
			mod := f.absModule(modNode)
			for _, spec := range syntax.NamedChildren(n) {
				if syntax.Same(spec, modNode) {
					continue
				}
				switch spec.Type() {
				case "dotted_name":
					name, _ := syntax.Dotted(spec, f.Text)
					t.bind(name, qualify(mod, name))
				case "aliased_import":
					name, _ := syntax.Dotted(syntax.Field(spec, "name"), f.Text)
					t.bind(f.Content(syntax.Field(spec, "alias")), qualify(mod, name))
				}
			}
			return false
		}
		return true
	}, nil)
	return t
}

// absModule returns the absolute module named by the module part of a
// from-import. A relative import that climbs above the project root
// keeps its leading dots, which marks every name it binds as unresolved.
func (f *File) absModule(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	if n.Type() != "relative_import" {
		mod, _ := syntax.Dotted(n, f.Text)
		return mod
	}
	var level int
	var rest string
	for _, c := range syntax.NamedChildren(n) {
		switch c.Type() {
		case "import_prefix":
			level = strings.Count(f.Content(c), ".")
		case "dotted_name":
			rest, _ = syntax.Dotted(c, f.Text)
		}
	}
	var pkg []string
	if f.Module != "" {
		pkg = strings.Split(f.Module, ".")
	}
	if !f.Package && len(pkg) > 0 {
		pkg = pkg[:len(pkg)-1]
	}
	if level-1 > len(pkg) {
		return strings.Repeat(".", level) + rest
	}
	pkg = pkg[:len(pkg)-(level-1)]
	return qualify(strings.Join(pkg, "."), rest)
}

// Collect returns the inheritance graph of the classes defined in f.
// Keyword arguments in a base list, such as metaclass=M, are not bases.
func Collect(f *File) *Graph {
	g := NewGraph()
	for _, class := range f.Classes() {
		c := &Class{Name: f.ClassName(class), File: f.Path}
		for _, arg := range syntax.NamedChildren(syntax.Field(class, "superclasses")) {
			switch arg.Type() {
			case "keyword_argument", "dictionary_splat":
				continue
			case "list_splat":
				c.Bases = append(c.Bases, Base{Name: f.Content(arg)})
				continue
			}
			c.Bases = append(c.Bases, f.Qualify(arg))
		}
		g.Add(c)
	}
	return g
}
