// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"github.com/bumpy-tools/bump/edit"
	"github.com/bumpy-tools/bump/refactor"
	"github.com/bumpy-tools/bump/syntax"
)

// replaceRootModel turns a model with a __root__ field into a RootModel.
//
//	class A(BaseModel):  ->  class A(RootModel[int]):
//	    __root__: int            pass
//
// Only models that inherit BaseModel directly are rewritten.
func replaceRootModel(f *refactor.File, ctx *refactor.Context) (*refactor.Change, error) {
	buf := edit.NewBuffer(f.Text)
	var add, remove []refactor.Import
	for _, class := range f.Classes() {
		if !f.InBaseModel(class, ctx) {
			continue
		}
		var base *syntax.Node
		for _, b := range syntax.NamedChildren(syntax.Field(class, "superclasses")) {
			if b.Type() != "keyword_argument" && f.Is(b, refactor.BaseModelSeeds...) {
				base = b
				break
			}
		}
		if base == nil {
			continue
		}
		stmt, root := rootField(f, class)
		if stmt == nil {
			continue
		}
		buf.Replace(int(base.StartByte()), int(base.EndByte()), "RootModel["+f.Content(root)+"]")
		refactor.DeleteStmt(buf, f.Text, stmt)
		add = append(add, refactor.Import{Module: "pydantic", Name: "RootModel"})
		if imp, ok := importOf(f, base); ok {
			remove = append(remove, imp)
		}
	}
	return change(buf, add, remove), nil
}

// rootField returns the statement declaring the __root__ field of class
// and the root type: the annotation if there is one, else the assigned value.
func rootField(f *refactor.File, class *syntax.Node) (stmt, root *syntax.Node) {
	for _, s := range body(class) {
		assign := assignment(s)
		if assign == nil || f.Content(syntax.Field(assign, "left")) != "__root__" {
			continue
		}
		if typ := syntax.Field(assign, "type"); typ != nil {
			return s, typ
		}
		if right := syntax.Field(assign, "right"); right != nil && right.Type() != "assignment" {
			return s, right
		}
	}
	return nil, nil
}
