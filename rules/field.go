// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"github.com/bumpy-tools/bump/edit"
	"github.com/bumpy-tools/bump/refactor"
	"github.com/bumpy-tools/bump/syntax"
)

var renamedFieldKeywords = map[string]string{
	"min_items":      "min_length",
	"max_items":      "max_length",
	"allow_mutation": "frozen",
	"regex":          "pattern",
}

// renameFieldKeywords renames the Field arguments that v2 renamed.
// Settings fields also have env renamed to validation_alias.
// Every Field call is rewritten, including those BP008 placed in
// annotations earlier in the same run.
func renameFieldKeywords(f *refactor.File, ctx *refactor.Context) (*refactor.Change, error) {
	buf := edit.NewBuffer(f.Text)
	for _, call := range syntax.Find(f.Root, "call") {
		fn, args, ok := syntax.Call(call)
		if !ok || !f.Is(fn, "pydantic.Field", "pydantic.fields.Field") {
			continue
		}
		settings := false
		if class := enclosingClass(call); class != nil {
			settings = ctx.Settings.Has(f.ClassName(class))
		}
		for _, a := range syntax.NamedChildren(args) {
			if a.Type() != "keyword_argument" {
				continue
			}
			name := syntax.Field(a, "name")
			to, ok := renamedFieldKeywords[f.Content(name)]
			if !ok && settings && f.Content(name) == "env" {
				to, ok = "validation_alias", true
			}
			if ok {
				buf.Replace(int(name.StartByte()), int(name.EndByte()), to)
			}
		}
	}
	return change(buf, nil, nil), nil
}
