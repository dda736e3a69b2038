// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/bumpy-tools/bump/edit"
	"github.com/bumpy-tools/bump/syntax"
)

// isImportStmt reports whether n is an import statement.
func isImportStmt(n *syntax.Node) bool {
	switch n.Type() {
	case "import_statement", "import_from_statement", "future_import_statement":
		return true
	}
	return false
}

var identRE = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// usedNames returns the identifiers referenced in f outside import
// statements. Words inside string literals count too, since they may be
// forward references in annotations.
func usedNames(f *File) map[string]bool {
	used := make(map[string]bool)
	syntax.Walk(f.Root, func(n *syntax.Node) bool {
		switch {
		case isImportStmt(n):
			return false
		case n.Type() == "identifier":
			used[f.Content(n)] = true
		case n.Type() == "string":
			for _, w := range identRE.FindAllString(f.Content(n), -1) {
				used[w] = true
			}
			return false
		}
		return true
	}, nil)
	return used
}

// An ImportSpec is one entry in the name list of an import statement.
type ImportSpec struct {
	Node   *syntax.Node
	Import Import
}

// ImportSpecs returns the entries of an import statement, or nil for
// wildcard and __future__ imports.
func (f *File) ImportSpecs(stmt *syntax.Node) []ImportSpec {
	var list []ImportSpec
	switch stmt.Type() {
	case "import_statement":
		for _, spec := range syntax.NamedChildren(stmt) {
			var imp Import
			switch spec.Type() {
			case "dotted_name":
				imp.Module, _ = syntax.Dotted(spec, f.Text)
			case "aliased_import":
				imp.Module, _ = syntax.Dotted(syntax.Field(spec, "name"), f.Text)
				imp.Alias = f.Content(syntax.Field(spec, "alias"))
			default:
				continue
			}
			list = append(list, ImportSpec{spec, imp})
		}
	case "import_from_statement":
		modNode := syntax.Field(stmt, "module_name")
		mod := f.absModule(modNode)
		for _, spec := range syntax.NamedChildren(stmt) {
			if syntax.Same(spec, modNode) {
				continue
			}
			imp := Import{Module: mod}
			switch spec.Type() {
			case "dotted_name":
				imp.Name, _ = syntax.Dotted(spec, f.Text)
			case "aliased_import":
				imp.Name, _ = syntax.Dotted(syntax.Field(spec, "name"), f.Text)
				imp.Alias = f.Content(syntax.Field(spec, "alias"))
			case "wildcard_import":
				return nil
			default:
				continue
			}
			list = append(list, ImportSpec{spec, imp})
		}
	}
	return list
}

// ImportStmts returns the import statements of f at any depth, in source order.
func (f *File) ImportStmts() []*syntax.Node {
	var list []*syntax.Node
	syntax.Walk(f.Root, func(n *syntax.Node) bool {
		if isImportStmt(n) {
			list = append(list, n)
			return false
		}
		return true
	}, nil)
	return list
}

// DropImports records in buf the deletion of the entries of stmt for
// which drop returns true, and reports whether any were dropped.
// A statement left with no entries is deleted, or replaced by pass when
// it is the only statement of a block.
func (f *File) DropImports(buf *edit.Buffer, stmt *syntax.Node, drop func(Import) bool) bool {
	specs := f.ImportSpecs(stmt)
	remove := make([]bool, len(specs))
	kept := 0
	for i, s := range specs {
		remove[i] = drop(s.Import)
		if !remove[i] {
			kept++
		}
	}
	if kept == len(specs) {
		return false
	}
	if kept == 0 {
		DeleteStmt(buf, f.Text, stmt)
		return true
	}
	for i, s := range specs {
		if !remove[i] {
			continue
		}
		// Delete through the next entry when a kept entry follows,
		// otherwise back to the end of the previous entry, so the
		// separators of the remaining list stay intact.
		keptAfter := false
		for j := i + 1; j < len(specs); j++ {
			if !remove[j] {
				keptAfter = true
				break
			}
		}
		if keptAfter {
			buf.ForceDelete(int(s.Node.StartByte()), int(specs[i+1].Node.StartByte()))
		} else {
			buf.ForceDelete(int(specs[i-1].Node.EndByte()), int(s.Node.EndByte()))
		}
	}
	return true
}

// matchRemove reports whether the import entry imp is covered by the
// removal request req. A request without an alias covers aliased
// entries of the same name too.
func matchRemove(imp, req Import) bool {
	if imp.Module != req.Module || imp.Name != req.Name {
		return false
	}
	return req.Alias == "" || req.Alias == imp.Alias
}

// removeImports deletes the import entries matched by reqs whose bound
// names are no longer referenced.
func removeImports(f *File, reqs []Import) []byte {
	if len(reqs) == 0 {
		return f.Text
	}
	used := usedNames(f)
	buf := edit.NewBuffer(f.Text)
	for _, stmt := range f.ImportStmts() {
		f.DropImports(buf, stmt, func(imp Import) bool {
			if used[imp.Bound()] {
				return false
			}
			for _, req := range reqs {
				if matchRemove(imp, req) {
					return true
				}
			}
			return false
		})
	}
	return buf.Bytes()
}

// DeleteStmt records in buf the deletion of the statement n, along with
// its line when nothing else is on it. A statement that is the only
// one in its block is replaced by pass instead.
func DeleteStmt(buf *edit.Buffer, text []byte, n *syntax.Node) {
	if onlyStmt(n) {
		buf.Replace(int(n.StartByte()), int(n.EndByte()), "pass")
		return
	}
	buf.ForceDelete(nodeRange(n, text))
}

// onlyStmt reports whether n is the only statement of a block.
func onlyStmt(n *syntax.Node) bool {
	p := n.Parent()
	return p != nil && p.Type() == "block" && len(syntax.NamedChildren(p)) == 1
}

// addImports adds the imports in reqs that f does not already have.
// Names are added to an existing from-import of the same module when
// there is one; otherwise new statements are inserted after the last
// top-level import, after the module docstring, or at the top of the
// file. Added names are sorted, and new statements are sorted by module.
func addImports(f *File, reqs []Import) []byte {
	if len(reqs) == 0 {
		return f.Text
	}
	buf := edit.NewBuffer(f.Text)

	var stmts []*syntax.Node
	for _, n := range syntax.NamedChildren(f.Root) {
		if isImportStmt(n) {
			stmts = append(stmts, n)
		}
	}

	var plain []string
	prepend := make(map[*syntax.Node][]string)
	var order []*syntax.Node
	newFrom := make(map[string][]string)
	for _, req := range reqs {
		if f.Imports.Has(req) {
			continue
		}
		if req.Name == "" {
			plain = appendUnique(plain, req.String())
			continue
		}
		entry := req.Name
		if req.Alias != "" {
			entry += " as " + req.Alias
		}
		if stmt := findFromImport(f, stmts, req.Module); stmt != nil {
			if _, ok := prepend[stmt]; !ok {
				order = append(order, stmt)
			}
			prepend[stmt] = appendUnique(prepend[stmt], entry)
			continue
		}
		newFrom[req.Module] = appendUnique(newFrom[req.Module], entry)
	}

	for _, stmt := range order {
		names := prepend[stmt]
		sort.Strings(names)
		specs := f.ImportSpecs(stmt)
		buf.Insert(int(specs[0].Node.StartByte()), strings.Join(names, ", ")+", ")
	}

	lines := plain
	sort.Strings(lines)
	var mods []string
	for mod := range newFrom {
		mods = append(mods, mod)
	}
	sort.Strings(mods)
	for _, mod := range mods {
		names := newFrom[mod]
		sort.Strings(names)
		lines = append(lines, "from "+mod+" import "+strings.Join(names, ", "))
	}
	if len(lines) == 0 {
		return buf.Bytes()
	}

	nl := syntax.Newline(f.Text)
	text := strings.Join(lines, nl) + nl
	pos := importInsertPos(f, stmts)
	if pos > 0 && f.Text[pos-1] != '\n' {
		text = nl + text
	}
	buf.Insert(pos, text)
	return buf.Bytes()
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}

// findFromImport returns the first top-level "from mod import ..."
// statement with an explicit name list.
func findFromImport(f *File, stmts []*syntax.Node, mod string) *syntax.Node {
	for _, stmt := range stmts {
		if stmt.Type() != "import_from_statement" {
			continue
		}
		if f.absModule(syntax.Field(stmt, "module_name")) != mod {
			continue
		}
		if len(f.ImportSpecs(stmt)) > 0 {
			return stmt
		}
	}
	return nil
}

// importInsertPos returns the offset at which to insert new import lines.
func importInsertPos(f *File, stmts []*syntax.Node) int {
	if len(stmts) > 0 {
		return syntax.LineEnd(f.Text, int(stmts[len(stmts)-1].EndByte()))
	}
	top := syntax.NamedChildren(f.Root)
	if len(top) > 0 && top[0].Type() == "expression_statement" {
		if kids := syntax.NamedChildren(top[0]); len(kids) == 1 && kids[0].Type() == "string" {
			return syntax.LineEnd(f.Text, int(top[0].EndByte()))
		}
	}
	return 0
}

var pound = []byte("#")

// nodeRange returns the range to delete when removing the statement n:
// the statement, a trailing comment on its line, and the line itself
// when nothing else is on it.
func nodeRange(n *syntax.Node, text []byte) (pos, end int) {
	pos = int(n.StartByte())
	end = int(n.EndByte())

	// Include space and comments following the node.
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	if bytes.HasPrefix(text[end:], pound) {
		i := bytes.IndexByte(text[end:], '\n')
		if i >= 0 {
			end += i
		} else {
			end = len(text)
		}
	}
	if end > int(n.EndByte()) && end < len(text) && text[end] != '\n' && text[end] != '\r' {
		// If we consumed spaces but did not reach a newline,
		// put a space back to avoid joining tokens.
		end--
	}

	// Include indentation preceding the node, to beginning of line.
	for pos > 0 && (text[pos-1] == ' ' || text[pos-1] == '\t') {
		pos--
	}
	if pos > 0 && text[pos-1] != '\n' {
		// Something else precedes the node on the line.
		pos = int(n.StartByte())
		return pos, end
	}

	// Consume final newline if we are deleting the whole line.
	if end < len(text) && text[end] == '\r' {
		end++
	}
	if end < len(text) && text[end] == '\n' {
		end++
	}
	return pos, end
}
