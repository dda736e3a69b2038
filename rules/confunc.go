// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/bumpy-tools/bump/edit"
	"github.com/bumpy-tools/bump/refactor"
	"github.com/bumpy-tools/bump/syntax"
)

// A conFunc describes a v1 constrained-type function.
type conFunc struct {
	typ        string          // type the constraints apply to
	imp        refactor.Import // import the type needs, if any
	collection bool            // first argument is the item type
}

var conFuncs = map[string]conFunc{
	"constr":       {typ: "str"},
	"conint":       {typ: "int"},
	"confloat":     {typ: "float"},
	"condecimal":   {typ: "Decimal", imp: refactor.Import{Module: "decimal", Name: "Decimal"}},
	"conbytes":     {typ: "bytes"},
	"conlist":      {typ: "List", imp: refactor.Import{Module: "typing", Name: "List"}, collection: true},
	"conset":       {typ: "Set", imp: refactor.Import{Module: "typing", Name: "Set"}, collection: true},
	"confrozenset": {typ: "FrozenSet", imp: refactor.Import{Module: "typing", Name: "FrozenSet"}, collection: true},
}

// stringConstraintsVersion is the first release whose StringConstraints
// accepts every constr argument.
const stringConstraintsVersion = "v2.0.4"

var (
	annotatedImport         = refactor.Import{Module: "typing_extensions", Name: "Annotated"}
	fieldImport             = refactor.Import{Module: "pydantic", Name: "Field"}
	stringConstraintsImport = refactor.Import{Module: "pydantic", Name: "StringConstraints"}
)

// replaceConFuncs rewrites constrained-type calls in annotations into
// Annotated types:
//
//	conint(gt=0)               ->  Annotated[int, Field(gt=0)]
//	conlist(int, min_items=1)  ->  Annotated[List[int], Field(min_items=1)]
//	constr(regex='[a-z]+')     ->  Annotated[str, StringConstraints(pattern='[a-z]+')]
//
// Calls nested inside other annotations, such as Optional[conint()],
// are rewritten in place. Field keyword arguments are left for BP003.
func replaceConFuncs(f *refactor.File, ctx *refactor.Context) (*refactor.Change, error) {
	r := &conRewriter{
		f:           f,
		constraints: semver.Compare(ctx.TargetVersion, stringConstraintsVersion) >= 0,
	}
	buf := edit.NewBuffer(f.Text)
	for _, assign := range syntax.Find(f.Root, "assignment") {
		typ := syntax.Field(assign, "type")
		if typ == nil {
			continue
		}
		if s := r.text(typ); s != f.Content(typ) {
			buf.Replace(int(typ.StartByte()), int(typ.EndByte()), s)
		}
	}
	return change(buf, r.add, r.remove), nil
}

type conRewriter struct {
	f           *refactor.File
	constraints bool // use StringConstraints for constr
	add         []refactor.Import
	remove      []refactor.Import
}

// conName returns the constrained-type function called by call.
func (r *conRewriter) conName(call *syntax.Node) (string, *syntax.Node, bool) {
	fn, args, ok := syntax.Call(call)
	if !ok {
		return "", nil, false
	}
	name, ok := syntax.Dotted(fn, r.f.Text)
	if !ok {
		return "", nil, false
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if _, ok := conFuncs[name]; !ok || !isPydantic(r.f, fn, name) {
		return "", nil, false
	}
	return name, args, true
}

// text returns the text of n with its constrained-type calls rewritten.
func (r *conRewriter) text(n *syntax.Node) string {
	if s, ok := r.repl(n); ok {
		return s
	}
	return subst(r.f, n, r.repl)
}

// repl returns the rewritten text of n if n is a constrained-type call.
func (r *conRewriter) repl(n *syntax.Node) (string, bool) {
	n = syntax.Unwrap(n)
	name, args, ok := r.conName(n)
	if !ok {
		return "", false
	}
	fn, _, _ := syntax.Call(n)
	if imp, ok := importOf(r.f, fn); ok {
		r.remove = append(r.remove, imp)
	}

	list := syntax.NamedChildren(args)
	var texts []string
	for _, a := range list {
		texts = append(texts, r.text(a))
	}

	cf := conFuncs[name]
	if name == "constr" {
		for i, a := range list {
			if a.Type() == "keyword_argument" && r.f.Content(syntax.Field(a, "name")) == "regex" {
				texts[i] = "pattern" + strings.TrimPrefix(texts[i], "regex")
			}
		}
		if !r.constraints {
			return r.f.Content(fn) + "(" + strings.Join(texts, ", ") + ")", true
		}
		r.add = append(r.add, annotatedImport, stringConstraintsImport)
		return "Annotated[str, StringConstraints(" + strings.Join(texts, ", ") + ")]", true
	}

	typ := cf.typ
	if cf.collection {
		if len(list) == 0 || list[0].Type() == "keyword_argument" {
			// The item type is missing or passed by keyword.
			if item := syntax.Keyword(args, "item_type", r.f.Text); item != nil {
				typ += "[" + r.text(syntax.Field(item, "value")) + "]"
				var rest []string
				for i, a := range list {
					if !syntax.Same(a, item) {
						rest = append(rest, texts[i])
					}
				}
				texts = rest
			} else {
				return "", false
			}
		} else {
			typ += "[" + texts[0] + "]"
			texts = texts[1:]
		}
	}
	if cf.imp.Name != "" {
		r.add = append(r.add, cf.imp)
	}
	r.add = append(r.add, annotatedImport, fieldImport)
	return "Annotated[" + typ + ", Field(" + strings.Join(texts, ", ") + ")]", true
}
