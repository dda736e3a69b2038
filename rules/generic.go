// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"github.com/bumpy-tools/bump/edit"
	"github.com/bumpy-tools/bump/refactor"
	"github.com/bumpy-tools/bump/syntax"
)

// replaceGenericModel replaces GenericModel bases by BaseModel,
// which supports generics directly in v2.
//
//	class Response(GenericModel, Generic[T]):  ->  class Response(BaseModel, Generic[T]):
func replaceGenericModel(f *refactor.File, ctx *refactor.Context) (*refactor.Change, error) {
	buf := edit.NewBuffer(f.Text)
	var add, remove []refactor.Import
	for _, class := range f.Classes() {
		if !ctx.GenericModels.Has(f.ClassName(class)) {
			continue
		}
		for _, base := range syntax.NamedChildren(syntax.Field(class, "superclasses")) {
			if base.Type() == "keyword_argument" {
				continue
			}
			if !f.Is(base, refactor.GenericModelSeeds...) {
				continue
			}
			if v, _, ok := syntax.Subscript(base); ok {
				base = v
			}
			if imp, ok := importOf(f, base); ok {
				remove = append(remove, imp)
			}
			buf.Replace(int(base.StartByte()), int(base.EndByte()), "BaseModel")
			add = append(add, refactor.Import{Module: "pydantic", Name: "BaseModel"})
		}
	}
	return change(buf, add, remove), nil
}
