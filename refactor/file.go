// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"context"
	"path"
	"strings"

	"github.com/bumpy-tools/bump/syntax"
)

// A File is a parsed source file together with the module it defines
// and the names its imports bind.
type File struct {
	*syntax.File

	Path    string // slash-separated path relative to the project root
	Module  string // dotted module name, "" for a root __init__.py
	Package bool   // file is a package's __init__.py

	Imports *ImportTable

	// Pending lists the imports requested by the rules that already ran
	// on this file. They are added to the text only after every rule
	// has run, but later rules resolve names against them.
	Pending []Import

	classes map[string]bool // qualified names of classes defined in this file
}

// ModulePath returns the dotted module name for a file path relative
// to the project root, and whether the file is a package __init__.
func ModulePath(rel string) (module string, pkg bool) {
	rel = path.Clean(strings.TrimPrefix(rel, "./"))
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	parts := strings.Split(rel, "/")
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
		pkg = true
	}
	return strings.Join(parts, "."), pkg
}

// NewFile parses src, the contents of the file at rel.
func NewFile(ctx context.Context, rel string, src []byte) (*File, error) {
	sf, err := syntax.Parse(ctx, rel, src)
	if err != nil {
		return nil, err
	}
	mod, pkg := ModulePath(rel)
	f := &File{
		File:    sf,
		Path:    rel,
		Module:  mod,
		Package: pkg,
		classes: make(map[string]bool),
	}
	f.Imports = newImportTable(f)
	syntax.Walk(sf.Root, func(n *syntax.Node) bool {
		if n.Type() == "class_definition" {
			f.classes[f.ClassName(n)] = true
		}
		return true
	}, nil)
	return f, nil
}

// reparse returns a new File for text with the same path and pending imports.
func (f *File) reparse(ctx context.Context, text []byte) (*File, error) {
	f1, err := NewFile(ctx, f.Path, text)
	if err != nil {
		return nil, err
	}
	f1.Pending = f.Pending
	return f1, nil
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// A scope is a lexical scope enclosing a node.
type scope struct {
	prefix string // qualified name prefix for definitions in the scope
	class  bool   // scope is a class body
}

// scopes returns the scopes enclosing n, innermost first, ending with the module.
func (f *File) scopes(n *syntax.Node) []scope {
	var names []string
	var kinds []bool
	for c, p := n, n.Parent(); p != nil; c, p = p, p.Parent() {
		// Only the body of a definition is inside its scope. Bases,
		// parameters and annotations are evaluated in the enclosing one.
		switch p.Type() {
		case "class_definition":
			if inBody(p, c) {
				names = append(names, f.Content(syntax.Field(p, "name")))
				kinds = append(kinds, true)
			}
		case "function_definition":
			if inBody(p, c) {
				names = append(names, f.Content(syntax.Field(p, "name"))+".<locals>")
				kinds = append(kinds, false)
			}
		}
	}
	var list []scope
	for i := range names {
		prefix := f.Module
		for j := len(names) - 1; j >= i; j-- {
			prefix = qualify(prefix, names[j])
		}
		list = append(list, scope{prefix, kinds[i]})
	}
	return append(list, scope{prefix: f.Module})
}

// inBody reports whether c, a child of the definition def, is its body.
func inBody(def, c *syntax.Node) bool {
	body := syntax.Field(def, "body")
	return body != nil && syntax.Same(body, c)
}

// ClassName returns the fully-qualified name of a class definition.
// Nested classes are qualified by their enclosing class, and classes
// defined in a function body by "func.<locals>".
func (f *File) ClassName(class *syntax.Node) string {
	class = syntax.Unwrap(class)
	return qualify(f.scopes(class)[0].prefix, f.Content(syntax.Field(class, "name")))
}

// InBaseModel reports whether class is a subclass of BaseModel.
func (f *File) InBaseModel(class *syntax.Node, ctx *Context) bool {
	return ctx.BaseModels.Has(f.ClassName(class))
}

// lookupLocal resolves name against the classes defined in this file
// that are visible from n. A class body is visible only to the
// statements directly inside it.
func (f *File) lookupLocal(n *syntax.Node, name string) string {
	for i, s := range f.scopes(n) {
		if s.class && i > 0 {
			continue
		}
		if q := qualify(s.prefix, name); f.classes[q] {
			return q
		}
	}
	return ""
}

// Qualify resolves the expression n to a fully-qualified name.
// Subscripts resolve to their value, so Generic[T] resolves like Generic.
// Names that cannot be resolved statically yield an opaque Base holding
// their textual form.
func (f *File) Qualify(n *syntax.Node) Base {
	n = syntax.Unwrap(n)
	if v, _, ok := syntax.Subscript(n); ok {
		n = v
	}
	name, ok := syntax.Dotted(n, f.Text)
	if !ok {
		return Base{Name: strings.Join(strings.Fields(f.Content(n)), " ")}
	}
	head, rest, _ := strings.Cut(name, ".")
	suffix := ""
	if rest != "" {
		suffix = "." + rest
	}
	if q := f.lookupLocal(n, head); q != "" {
		return Base{Name: q + suffix, Resolved: true}
	}
	if t, ok := f.Imports.Lookup(head); ok {
		return Base{Name: t + suffix, Resolved: !strings.HasPrefix(t, ".")}
	}
	for _, imp := range f.Pending {
		if imp.Bound() == head {
			return Base{Name: imp.Target() + suffix, Resolved: true}
		}
	}
	return Base{Name: name}
}

// Is reports whether n resolves to one of the qualified names.
func (f *File) Is(n *syntax.Node, names ...string) bool {
	b := f.Qualify(n)
	if !b.Resolved {
		return false
	}
	for _, name := range names {
		if b.Name == name {
			return true
		}
	}
	return false
}

// Classes returns the class definitions in f, in source order.
func (f *File) Classes() []*syntax.Node {
	return syntax.Find(f.Root, "class_definition")
}
