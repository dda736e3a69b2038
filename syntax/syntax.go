// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax parses Python source into concrete syntax trees.
//
// Trees are produced by tree-sitter and keep byte offsets into the
// original text, so callers rewrite a file by queueing byte-range edits
// against File.Text rather than by re-printing the tree. An untouched
// file therefore prints back byte-identical.
package syntax

import (
	"context"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// A Node is a node in a Python syntax tree.
type Node = sitter.Node

// A File is a parsed Python source file.
type File struct {
	Name string // file name, for diagnostics
	Text []byte // exact input text
	Root *Node  // the module node

	tree *sitter.Tree
}

// A Position is a location in a source file.
// Line and Column are 1-based; Offset is a byte offset.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	s := p.Filename
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// A ParseError reports a file that could not be parsed.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parse parses the Python source src. The name is used only in
// positions and errors. A tree containing error or missing nodes is
// reported as a *ParseError: the rewriter never edits text it could
// not fully understand.
//
// Parse creates a new parser for each call and is safe for
// concurrent use.
func Parse(ctx context.Context, name string, src []byte) (*File, error) {
	if !utf8.Valid(src) {
		return nil, &ParseError{Pos: Position{Filename: name}, Msg: "source is not valid UTF-8"}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, &ParseError{Pos: Position{Filename: name}, Msg: "empty syntax tree"}
	}
	f := &File{Name: name, Text: src, Root: root, tree: tree}
	if root.HasError() {
		bad := firstError(root)
		msg := "syntax error"
		pos := Position{Filename: name}
		if bad != nil {
			pos = f.Position(int(bad.StartByte()))
			if bad.IsMissing() {
				msg = fmt.Sprintf("syntax error: missing %s", bad.Type())
			} else if tok := firstLine(Content(bad, src)); tok != "" {
				msg = fmt.Sprintf("syntax error near %q", tok)
			}
		}
		tree.Close()
		return nil, &ParseError{Pos: pos, Msg: msg}
	}
	return f, nil
}

// Close releases the syntax tree. Nodes of f must not be used afterward.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Position returns the position of the byte offset off in f.
func (f *File) Position(off int) Position {
	if off < 0 || off > len(f.Text) {
		return Position{Filename: f.Name}
	}
	line, col := 1, 1
	for _, c := range f.Text[:off] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Filename: f.Name, Offset: off, Line: line, Column: col}
}

// Content returns the source text of n.
func (f *File) Content(n *Node) string {
	return Content(n, f.Text)
}

// firstError returns the first ERROR or MISSING node under n, in source order.
func firstError(n *Node) *Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.HasError() && !c.IsMissing() {
			continue
		}
		if bad := firstError(c); bad != nil {
			return bad
		}
	}
	return nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
