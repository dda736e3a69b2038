// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "strings"

// Content returns the source text of n.
func Content(n *Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

// Children returns all children of n, including anonymous tokens.
func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var list []*Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil {
			list = append(list, c)
		}
	}
	return list
}

// NamedChildren returns the named children of n, skipping comments.
func NamedChildren(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var list []*Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		list = append(list, c)
	}
	return list
}

// Field returns the child of n with the given field name, or nil.
func Field(n *Node, name string) *Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

// Same reports whether a and b denote the same node.
func Same(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// Unwrap returns the definition inside a decorated definition,
// the expression inside a type annotation wrapper,
// or n itself.
func Unwrap(n *Node) *Node {
	for n != nil {
		switch n.Type() {
		case "decorated_definition":
			n = Field(n, "definition")
		case "type":
			kids := NamedChildren(n)
			if len(kids) != 1 {
				return n
			}
			n = kids[0]
		default:
			return n
		}
	}
	return n
}

// Decorators returns the decorator nodes of a decorated definition.
// For any other node it returns nil.
func Decorators(n *Node) []*Node {
	if n == nil || n.Type() != "decorated_definition" {
		return nil
	}
	var list []*Node
	for _, c := range NamedChildren(n) {
		if c.Type() == "decorator" {
			list = append(list, c)
		}
	}
	return list
}

// Dotted returns the dotted name spelled by n, such as "pydantic.BaseModel".
// It reports false if n is not an identifier or a chain of attribute lookups.
func Dotted(n *Node, src []byte) (string, bool) {
	n = Unwrap(n)
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "identifier":
		return Content(n, src), true
	case "dotted_name":
		var parts []string
		for _, c := range NamedChildren(n) {
			parts = append(parts, Content(c, src))
		}
		return strings.Join(parts, "."), len(parts) > 0
	case "attribute":
		x, ok := Dotted(Field(n, "object"), src)
		if !ok {
			return "", false
		}
		return x + "." + Content(Field(n, "attribute"), src), true
	case "member_type":
		kids := NamedChildren(n)
		if len(kids) != 2 {
			return "", false
		}
		x, ok := Dotted(kids[0], src)
		if !ok {
			return "", false
		}
		return x + "." + Content(kids[1], src), true
	}
	return "", false
}

// Subscript splits a subscript expression x[a, b] into its value x
// and its index expressions. Annotations may parse either as a
// subscript or as a generic type; both shapes are accepted.
func Subscript(n *Node) (value *Node, index []*Node, ok bool) {
	n = Unwrap(n)
	if n == nil {
		return nil, nil, false
	}
	switch n.Type() {
	case "subscript":
		value = Field(n, "value")
		for _, c := range NamedChildren(n) {
			if !Same(c, value) {
				index = append(index, Unwrap(c))
			}
		}
		return value, index, value != nil
	case "generic_type":
		kids := NamedChildren(n)
		if len(kids) != 2 || kids[1].Type() != "type_parameter" {
			return nil, nil, false
		}
		for _, c := range NamedChildren(kids[1]) {
			index = append(index, Unwrap(c))
		}
		return kids[0], index, true
	}
	return nil, nil, false
}

// Union returns the alternatives of a union written with |,
// flattened left to right. It reports false if n is not such a union.
func Union(n *Node) ([]*Node, bool) {
	n = Unwrap(n)
	if n == nil {
		return nil, false
	}
	var left, right *Node
	switch n.Type() {
	case "binary_operator":
		if op := Field(n, "operator"); op == nil || op.Type() != "|" {
			return nil, false
		}
		left, right = Field(n, "left"), Field(n, "right")
	case "union_type":
		kids := NamedChildren(n)
		if len(kids) != 2 {
			return nil, false
		}
		left, right = kids[0], kids[1]
	default:
		return nil, false
	}
	var list []*Node
	for _, side := range []*Node{left, right} {
		if alts, ok := Union(side); ok {
			list = append(list, alts...)
		} else {
			list = append(list, Unwrap(side))
		}
	}
	return list, true
}

// Call splits a call expression into its function and argument list.
func Call(n *Node) (fn, args *Node, ok bool) {
	n = Unwrap(n)
	if n == nil || n.Type() != "call" {
		return nil, nil, false
	}
	fn, args = Field(n, "function"), Field(n, "arguments")
	if fn == nil || args == nil || args.Type() != "argument_list" {
		return nil, nil, false
	}
	return fn, args, true
}

// Keyword returns the keyword argument named name in an argument list, or nil.
func Keyword(args *Node, name string, src []byte) *Node {
	for _, a := range NamedChildren(args) {
		if a.Type() == "keyword_argument" && Content(Field(a, "name"), src) == name {
			return a
		}
	}
	return nil
}

// Walk traverses the tree rooted at n in source order.
// It calls enter before visiting the children of a node and leave after.
// If enter returns false, the children of that node are skipped,
// but leave is still called. Either function may be nil.
// Only named nodes are visited.
func Walk(n *Node, enter func(*Node) bool, leave func(*Node)) {
	if n == nil {
		return
	}
	if enter == nil || enter(n) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			Walk(n.NamedChild(i), enter, leave)
		}
	}
	if leave != nil {
		leave(n)
	}
}

// Find returns the nodes under n, in source order, of any of the given types.
func Find(n *Node, types ...string) []*Node {
	var list []*Node
	Walk(n, func(x *Node) bool {
		for _, t := range types {
			if x.Type() == t {
				list = append(list, x)
				break
			}
		}
		return true
	}, nil)
	return list
}

// LineStart returns the offset of the start of the line containing off.
func LineStart(src []byte, off int) int {
	for off > 0 && src[off-1] != '\n' {
		off--
	}
	return off
}

// LineEnd returns the offset just past the newline ending the line
// containing off, or len(src) on the last line.
func LineEnd(src []byte, off int) int {
	for off < len(src) {
		if src[off] == '\n' {
			return off + 1
		}
		off++
	}
	return off
}

// Indent returns the leading whitespace of the line containing off.
func Indent(src []byte, off int) string {
	start := LineStart(src, off)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

// Newline returns the line terminator used by src.
func Newline(src []byte) string {
	for i, c := range src {
		if c == '\n' {
			if i > 0 && src[i-1] == '\r' {
				return "\r\n"
			}
			return "\n"
		}
	}
	return "\n"
}
