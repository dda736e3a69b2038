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

// A validatorKind describes how a v1 validator decorator maps to v2.
type validatorKind struct {
	old, new string
	keep     map[string]bool // keyword arguments carried over unchanged
	drop     map[string]bool // keyword arguments with no v2 counterpart
	todo     []string
}

var (
	fieldValidator = &validatorKind{
		old:  "validator",
		new:  "field_validator",
		keep: map[string]bool{"check_fields": true},
		drop: map[string]bool{"allow_reuse": true},
		todo: marker("We couldn't refactor the `validator`, please replace it by `field_validator` manually.", validatorDocs),
	}
	modelValidator = &validatorKind{
		old:  "root_validator",
		new:  "model_validator",
		drop: map[string]bool{"allow_reuse": true, "skip_on_failure": true},
		todo: marker("We couldn't refactor the `root_validator`, please replace it by `model_validator` manually.", validatorDocs),
	}
)

// replaceValidators rewrites v1 validator decorators on methods:
//
//	@validator("a", pre=True)  ->  @field_validator("a", mode="before")
//	def check(cls, v):             @classmethod
//	                               def check(cls, v):
//
// and @root_validator likewise into @model_validator. Validators whose
// signature or arguments have no v2 equivalent are flagged with a
// marker comment instead.
func replaceValidators(f *refactor.File, ctx *refactor.Context) (*refactor.Change, error) {
	buf := edit.NewBuffer(f.Text)
	var add, remove []refactor.Import
	for _, def := range syntax.Find(f.Root, "decorated_definition") {
		fn := syntax.Unwrap(def)
		if fn.Type() != "function_definition" {
			continue
		}
		if p := def.Parent(); p == nil || p.Type() != "block" || p.Parent() == nil || p.Parent().Type() != "class_definition" {
			continue
		}
		decorators := syntax.Decorators(def)
		hasClassmethod := false
		for _, d := range decorators {
			if decoratorExpr(f, d) == "classmethod" {
				hasClassmethod = true
			}
		}
		for _, d := range decorators {
			x := syntax.NamedChildren(d)
			if len(x) != 1 {
				continue
			}
			expr := x[0]
			callee, args, isCall := syntax.Call(expr)
			if !isCall {
				callee = expr
			}
			var kind *validatorKind
			switch {
			case isPydantic(f, callee, "validator"):
				kind = fieldValidator
			case isPydantic(f, callee, "root_validator"):
				kind = modelValidator
			default:
				continue
			}
			text, ok := kind.rewrite(f, callee, args, fn)
			if !ok {
				insertMarker(buf, f.Text, int(def.StartByte()), kind.todo)
				continue
			}
			buf.Replace(int(expr.StartByte()), int(expr.EndByte()), text)
			if !hasClassmethod {
				nl := syntax.Newline(f.Text)
				buf.Insert(syntax.LineEnd(f.Text, int(expr.EndByte())), syntax.Indent(f.Text, int(d.StartByte()))+"@classmethod"+nl)
				hasClassmethod = true
			}
			if !strings.Contains(text[:strings.Index(text, "(")], ".") {
				add = append(add, refactor.Import{Module: "pydantic", Name: kind.new})
				if imp, ok := importOf(f, callee); ok {
					remove = append(remove, imp)
				}
			}
		}
	}
	return change(buf, add, remove), nil
}

// decoratorExpr returns the text of the expression of decorator d.
func decoratorExpr(f *refactor.File, d *syntax.Node) string {
	x := syntax.NamedChildren(d)
	if len(x) != 1 {
		return ""
	}
	return f.Content(x[0])
}

// rewrite returns the v2 decorator expression replacing a call to the
// v1 validator callee with arguments args (nil for a bare decorator).
// It reports false if the decorator or the decorated method fn cannot
// be rewritten mechanically.
func (k *validatorKind) rewrite(f *refactor.File, callee, args, fn *syntax.Node) (string, bool) {
	if !simpleValidatorParams(fn) {
		return "", false
	}
	var out []string
	for _, a := range syntax.NamedChildren(args) {
		if a.Type() != "keyword_argument" {
			if a.Type() == "list_splat" || a.Type() == "dictionary_splat" || k == modelValidator {
				return "", false
			}
			out = append(out, f.Content(a))
			continue
		}
		name := f.Content(syntax.Field(a, "name"))
		value := f.Content(syntax.Field(a, "value"))
		switch {
		case name == "pre":
			switch value {
			case "True":
				out = append(out, `mode="before"`)
			case "False":
			default:
				return "", false
			}
		case k.keep[name]:
			out = append(out, f.Content(a))
		case k.drop[name]:
		default:
			return "", false
		}
	}
	// A dotted callee keeps its qualifier. An aliased one is replaced
	// by the v2 name, which the caller imports.
	name := k.new
	if dotted, ok := syntax.Dotted(callee, f.Text); ok && strings.HasSuffix(dotted, "."+k.old) {
		name = strings.TrimSuffix(f.Content(callee), k.old) + k.new
	}
	return name + "(" + strings.Join(out, ", ") + ")", true
}

// simpleValidatorParams reports whether fn takes exactly cls and one
// value, which is the only validator signature v2 calls the same way.
func simpleValidatorParams(fn *syntax.Node) bool {
	params := syntax.NamedChildren(syntax.Field(fn, "parameters"))
	if len(params) != 2 {
		return false
	}
	for _, p := range params {
		switch p.Type() {
		case "identifier", "default_parameter", "typed_default_parameter":
		case "typed_parameter":
			// *args: T and **kw: T are typed parameters too.
			if kids := syntax.NamedChildren(p); len(kids) == 0 || kids[0].Type() != "identifier" {
				return false
			}
		default:
			return false
		}
	}
	return true
}
