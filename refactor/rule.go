// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import "strings"

// A RuleID names a rewrite rule, such as "BP001".
type RuleID string

// A Rule is one rewrite pass over a file.
//
// Rewrite reads f and the shared context and returns the rewritten
// text along with the imports the new text needs and the imports it
// may have made unused. A nil Change means the rule did not apply.
// Rules must not return errors for files they do not apply to, and
// must not modify ctx.
type Rule interface {
	ID() RuleID
	Doc() string
	Rewrite(f *File, ctx *Context) (*Change, error)
}

// A Change is the result of applying a rule to a file.
type Change struct {
	Text   []byte   // new file text; nil means unchanged
	Add    []Import // imports the new text needs
	Remove []Import // imports the new text may no longer use
}

// An Import is an import request. Name is empty for "import Module".
type Import struct {
	Module string
	Name   string
	Alias  string
}

// Bound returns the name the import binds in the importing module.
func (imp Import) Bound() string {
	switch {
	case imp.Alias != "":
		return imp.Alias
	case imp.Name != "":
		return imp.Name
	}
	head, _, _ := strings.Cut(imp.Module, ".")
	return head
}

// Target returns the qualified name the bound name refers to.
func (imp Import) Target() string {
	if imp.Name == "" {
		if imp.Alias == "" {
			head, _, _ := strings.Cut(imp.Module, ".")
			return head
		}
		return imp.Module
	}
	return imp.Module + "." + imp.Name
}

func (imp Import) String() string {
	var s string
	if imp.Name == "" {
		s = "import " + imp.Module
	} else {
		s = "from " + imp.Module + " import " + imp.Name
	}
	if imp.Alias != "" {
		s += " as " + imp.Alias
	}
	return s
}

// mergeImports appends the imports in add to list, skipping duplicates.
func mergeImports(list []Import, add []Import) []Import {
Add:
	for _, imp := range add {
		for _, old := range list {
			if old == imp {
				continue Add
			}
		}
		list = append(list, imp)
	}
	return list
}
