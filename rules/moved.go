// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"github.com/bumpy-tools/bump/edit"
	"github.com/bumpy-tools/bump/refactor"
)

// movedImports maps "module.Name" to the module now providing Name.
var movedImports = map[string]string{
	"pydantic.BaseSettings":              "pydantic_settings",
	"pydantic.settings.BaseSettings":     "pydantic_settings",
	"pydantic.env_settings.BaseSettings": "pydantic_settings",
	"pydantic.Color":                     "pydantic_extra_types.color",
	"pydantic.color.Color":               "pydantic_extra_types.color",
	"pydantic.PaymentCardNumber":         "pydantic_extra_types.payment",
	"pydantic.payment.PaymentCardBrand":  "pydantic_extra_types.payment",
	"pydantic.payment.PaymentCardNumber": "pydantic_extra_types.payment",
}

// replaceMovedImports moves imports of names that left pydantic to
// their new packages. The alias, if any, is kept, so uses of the
// name need no change:
//
//	from pydantic import BaseSettings  ->  from pydantic_settings import BaseSettings
func replaceMovedImports(f *refactor.File, ctx *refactor.Context) (*refactor.Change, error) {
	buf := edit.NewBuffer(f.Text)
	var add []refactor.Import
	for _, stmt := range f.ImportStmts() {
		if stmt.Type() != "import_from_statement" {
			continue
		}
		f.DropImports(buf, stmt, func(imp refactor.Import) bool {
			mod, ok := movedImports[imp.Module+"."+imp.Name]
			if ok {
				add = append(add, refactor.Import{Module: mod, Name: imp.Name, Alias: imp.Alias})
			}
			return ok
		})
	}
	return change(buf, add, nil), nil
}
