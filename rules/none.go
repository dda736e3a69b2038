// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"github.com/bumpy-tools/bump/edit"
	"github.com/bumpy-tools/bump/refactor"
	"github.com/bumpy-tools/bump/syntax"
)

// addDefaultNone gives optional model fields an explicit None default.
// In v1, fields annotated Optional[T], Union[..., None, ...], T | None
// or Any were implicitly optional; in v2 they are required.
//
//	a: Optional[int]             ->  a: Optional[int] = None
//	b: Any = Field(description=d) ->  b: Any = Field(None, description=d)
func addDefaultNone(f *refactor.File, ctx *refactor.Context) (*refactor.Change, error) {
	buf := edit.NewBuffer(f.Text)
	for _, class := range f.Classes() {
		if !f.InBaseModel(class, ctx) {
			continue
		}
		for _, stmt := range body(class) {
			assign := assignment(stmt)
			if assign == nil {
				continue
			}
			typ := syntax.Field(assign, "type")
			if typ == nil || !allowsNone(f, typ) {
				continue
			}
			value := syntax.Field(assign, "right")
			if value == nil {
				buf.Insert(int(assign.EndByte()), " = None")
				continue
			}
			fn, args, ok := syntax.Call(value)
			if !ok || !isPydantic(f, fn, "Field") {
				continue
			}
			list := syntax.NamedChildren(args)
			switch {
			case len(list) == 0:
				buf.Insert(int(args.StartByte())+1, "None")
			case list[0].Type() != "keyword_argument":
				// Positional default.
			case syntax.Keyword(args, "default", f.Text) != nil,
				syntax.Keyword(args, "default_factory", f.Text) != nil:
			default:
				buf.Insert(int(list[0].StartByte()), "None, ")
			}
		}
	}
	return change(buf, nil, nil), nil
}

// allowsNone reports whether the annotation typ admits None.
func allowsNone(f *refactor.File, typ *syntax.Node) bool {
	typ = syntax.Unwrap(typ)
	if alts, ok := syntax.Union(typ); ok {
		for _, alt := range alts {
			if isNone(f, alt) {
				return true
			}
		}
		return false
	}
	if value, index, ok := syntax.Subscript(typ); ok {
		switch typingName(f, value) {
		case "Optional":
			return true
		case "Union":
			for _, x := range index {
				if isNone(f, x) {
					return true
				}
			}
		}
		return false
	}
	if _, ok := syntax.Dotted(typ, f.Text); ok {
		return typingName(f, typ) == "Any"
	}
	return false
}

func isNone(f *refactor.File, n *syntax.Node) bool {
	n = syntax.Unwrap(n)
	return n.Type() == "none" || f.Content(n) == "None"
}
