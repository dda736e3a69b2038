// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rules implements the pydantic v1 to v2 rewrite rules.
//
// Each rule is identified by a code such as BP001. All returns the
// rules in the order the pipeline must apply them: BP008 rewrites
// constrained-type calls into Field calls that BP003 then renames,
// so BP008 runs before BP003.
package rules

import (
	"fmt"
	"strings"

	"github.com/bumpy-tools/bump/refactor"
)

type rule struct {
	id      refactor.RuleID
	doc     string
	rewrite func(*refactor.File, *refactor.Context) (*refactor.Change, error)
}

func (r *rule) ID() refactor.RuleID { return r.id }
func (r *rule) Doc() string         { return r.doc }

func (r *rule) Rewrite(f *refactor.File, ctx *refactor.Context) (*refactor.Change, error) {
	return r.rewrite(f, ctx)
}

var all = []*rule{
	{"BP001", "Add default `None` to `Optional[T]`, `Union[T, None]` and `Any` fields.", addDefaultNone},
	{"BP002", "Replace `Config` class with `model_config` attribute.", replaceConfig},
	{"BP008", "Replace `con*` functions by `Annotated` versions.", replaceConFuncs},
	{"BP003", "Replace `Field` old parameters with new ones.", renameFieldKeywords},
	{"BP004", "Replace imports that have been moved.", replaceMovedImports},
	{"BP005", "Replace `GenericModel` with `BaseModel`.", replaceGenericModel},
	{"BP006", "Replace `__root__` with `RootModel[T]`.", replaceRootModel},
	{"BP007", "Replace `@validator` with `@field_validator`.", replaceValidators},
}

// All returns every rule in pipeline order.
func All() []refactor.Rule {
	list := make([]refactor.Rule, len(all))
	for i, r := range all {
		list[i] = r
	}
	return list
}

// Lookup returns the rule with the given code.
func Lookup(id refactor.RuleID) (refactor.Rule, bool) {
	for _, r := range all {
		if r.id == id {
			return r, true
		}
	}
	return nil, false
}

// Select returns the rules in pipeline order, leaving out the disabled ones.
// Codes are matched case-insensitively. An unknown code is an error.
func Select(disabled []string) ([]refactor.Rule, error) {
	off := make(map[refactor.RuleID]bool)
	for _, d := range disabled {
		id := refactor.RuleID(strings.ToUpper(strings.TrimSpace(d)))
		if id == "" {
			continue
		}
		if _, ok := Lookup(id); !ok {
			return nil, fmt.Errorf("unknown rule %s", d)
		}
		off[id] = true
	}
	var list []refactor.Rule
	for _, r := range all {
		if !off[r.id] {
			list = append(list, r)
		}
	}
	return list, nil
}
