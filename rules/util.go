// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"strings"

	"github.com/bumpy-tools/bump/edit"
	"github.com/bumpy-tools/bump/refactor"
	"github.com/bumpy-tools/bump/syntax"
)

const (
	configDocs    = "https://docs.pydantic.dev/dev-v2/migration/#changes-to-config"
	validatorDocs = "https://docs.pydantic.dev/dev-v2/migration/#changes-to-validators"
)

// marker returns the comment lines flagging code that must be migrated by hand.
func marker(todo, docs string) []string {
	return []string{
		"# TODO[pydantic]: " + todo,
		"# Check " + docs + " for more information.",
	}
}

// insertMarker inserts the marker lines above the line holding pos,
// indented to match it, unless the comments directly above already
// carry the same marker.
func insertMarker(buf *edit.Buffer, src []byte, pos int, lines []string) {
	start := syntax.LineStart(src, pos)
	if hasMarker(src, start, lines[0]) {
		return
	}
	indent := syntax.Indent(src, pos)
	nl := syntax.Newline(src)
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(indent + l + nl)
	}
	buf.Insert(start, b.String())
}

// hasMarker reports whether the block of comment lines ending just
// before the line starting at start contains the line want.
func hasMarker(src []byte, start int, want string) bool {
	for start > 0 {
		prev := syntax.LineStart(src, start-1)
		line := strings.TrimSpace(string(src[prev:start]))
		if !strings.HasPrefix(line, "#") {
			return false
		}
		if line == want {
			return true
		}
		start = prev
	}
	return false
}

// body returns the statements in the body of a class or function definition.
func body(def *syntax.Node) []*syntax.Node {
	return syntax.NamedChildren(syntax.Field(syntax.Unwrap(def), "body"))
}

// assignment returns the assignment making up stmt, or nil.
func assignment(stmt *syntax.Node) *syntax.Node {
	if stmt.Type() != "expression_statement" {
		return nil
	}
	kids := syntax.NamedChildren(stmt)
	if len(kids) != 1 || kids[0].Type() != "assignment" {
		return nil
	}
	return kids[0]
}

// enclosingClass returns the innermost class definition containing n,
// or nil. Function bodies stop the search.
func enclosingClass(n *syntax.Node) *syntax.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "class_definition":
			return p
		case "function_definition", "lambda":
			return nil
		}
	}
	return nil
}

// isPydantic reports whether n names one of the given pydantic objects.
// An unresolved bare name matches too, since the pydantic import it
// relies on may come in through a wildcard.
func isPydantic(f *refactor.File, n *syntax.Node, names ...string) bool {
	b := f.Qualify(n)
	for _, name := range names {
		if !b.Resolved {
			if b.Name == name {
				return true
			}
			continue
		}
		if b.Name == "pydantic."+name || strings.HasPrefix(b.Name, "pydantic.") && strings.HasSuffix(b.Name, "."+name) {
			return true
		}
	}
	return false
}

// typingName returns the name of the typing object n refers to,
// such as "Optional", or "" if n is not from typing.
func typingName(f *refactor.File, n *syntax.Node) string {
	b := f.Qualify(n)
	if !b.Resolved {
		if strings.Contains(b.Name, ".") {
			return ""
		}
		return b.Name
	}
	for _, mod := range []string{"typing.", "typing_extensions."} {
		if name, ok := strings.CutPrefix(b.Name, mod); ok {
			return name
		}
	}
	return ""
}

// subst returns the text of n with each outermost descendant for
// which repl reports true replaced by the returned text.
func subst(f *refactor.File, n *syntax.Node, repl func(*syntax.Node) (string, bool)) string {
	var b strings.Builder
	pos := int(n.StartByte())
	root := true
	syntax.Walk(n, func(x *syntax.Node) bool {
		if root {
			root = false
			return true
		}
		s, ok := repl(x)
		if !ok {
			return true
		}
		b.Write(f.Text[pos:x.StartByte()])
		b.WriteString(s)
		pos = int(x.EndByte())
		return false
	}, nil)
	b.Write(f.Text[pos:n.EndByte()])
	return b.String()
}

// change returns the Change for the edits in buf and the import
// requests, or nil if there are none.
func change(buf *edit.Buffer, add, remove []refactor.Import) *refactor.Change {
	if !buf.Edited() && len(add) == 0 && len(remove) == 0 {
		return nil
	}
	c := &refactor.Change{Add: add, Remove: remove}
	if buf.Edited() {
		c.Text = buf.Bytes()
	}
	return c
}

// importOf returns the import that binds the head of the name n,
// suitable for a removal request once n is rewritten away.
func importOf(f *refactor.File, n *syntax.Node) (refactor.Import, bool) {
	name, ok := syntax.Dotted(n, f.Text)
	if !ok {
		return refactor.Import{}, false
	}
	head, _, _ := strings.Cut(name, ".")
	for _, stmt := range f.ImportStmts() {
		for _, spec := range f.ImportSpecs(stmt) {
			if spec.Import.Bound() == head {
				return spec.Import, true
			}
		}
	}
	return refactor.Import{}, false
}
