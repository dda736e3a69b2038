// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"strconv"
	"strings"

	"github.com/bumpy-tools/bump/edit"
	"github.com/bumpy-tools/bump/refactor"
	"github.com/bumpy-tools/bump/syntax"
)

// Config keys that pydantic v2 renamed.
var renamedConfigKeys = map[string]string{
	"allow_population_by_field_name": "populate_by_name",
	"anystr_lower":                   "str_to_lower",
	"anystr_strip_whitespace":        "str_strip_whitespace",
	"anystr_upper":                   "str_to_upper",
	"keep_untouched":                 "ignored_types",
	"max_anystr_length":              "str_max_length",
	"min_anystr_length":              "str_min_length",
	"orm_mode":                       "from_attributes",
	"schema_extra":                   "json_schema_extra",
	"validate_all":                   "validate_default",
}

// Config keys that pydantic v2 no longer supports.
var removedConfigKeys = map[string]bool{
	"allow_mutation":               true,
	"error_msg_templates":          true,
	"fields":                       true,
	"getter_dict":                  true,
	"smart_union":                  true,
	"underscore_attrs_are_private": true,
	"json_loads":                   true,
	"json_dumps":                   true,
	"json_encoders":                true,
	"copy_on_model_validation":     true,
	"post_init_call":               true,
}

var (
	configInherited = marker("The `Config` class inherits from another class, please create the `model_config` manually.", configDocs)
	configInvalid   = marker("We couldn't refactor this class, please create the `model_config` manually.", configDocs)
)

// replaceConfig replaces the Config class nested in a model by a
// model_config attribute holding the same settings:
//
//	class Config:            ->  model_config = ConfigDict(from_attributes=True)
//	    orm_mode = True
//
// A Config class with bases, or with anything but plain assignments in
// its body, is left alone and flagged with a marker comment.
func replaceConfig(f *refactor.File, ctx *refactor.Context) (*refactor.Change, error) {
	buf := edit.NewBuffer(f.Text)
	var add, remove []refactor.Import
	for _, class := range f.Classes() {
		if !f.InBaseModel(class, ctx) {
			continue
		}
		for _, stmt := range body(class) {
			if stmt.Type() != "class_definition" || f.Content(syntax.Field(stmt, "name")) != "Config" {
				continue
			}
			if len(syntax.NamedChildren(syntax.Field(stmt, "superclasses"))) > 0 {
				insertMarker(buf, f.Text, int(stmt.StartByte()), configInherited)
				continue
			}
			keys, ok := configKeys(f, stmt)
			if !ok {
				insertMarker(buf, f.Text, int(stmt.StartByte()), configInvalid)
				continue
			}

			var args, removed []string
			for _, kv := range keys {
				if removedConfigKeys[kv.key] {
					removed = append(removed, "`"+kv.key+"`")
				}
				key := kv.key
				if k, ok := renamedConfigKeys[key]; ok {
					key = k
				}
				value := f.Content(kv.value)
				if key == "extra" {
					if s, ok := extraValue(f, kv.value); ok {
						value = s
						remove = append(remove, refactor.Import{Module: "pydantic", Name: "Extra"})
					}
				}
				args = append(args, key+"="+value)
			}

			call := "ConfigDict"
			imp := refactor.Import{Module: "pydantic", Name: "ConfigDict"}
			if ctx.Settings.Has(f.ClassName(class)) {
				call = "SettingsConfigDict"
				imp = refactor.Import{Module: "pydantic_settings", Name: "SettingsConfigDict"}
			}
			add = append(add, imp)

			indent := syntax.Indent(f.Text, int(stmt.StartByte()))
			nl := syntax.Newline(f.Text)
			var b strings.Builder
			if len(removed) > 0 {
				lines := marker("The following keys were removed: "+strings.Join(removed, ", ")+".", configDocs)
				for _, l := range lines {
					b.WriteString(l + nl + indent)
				}
			}
			b.WriteString("model_config = " + call + "(" + strings.Join(args, ", ") + ")")
			buf.Replace(int(stmt.StartByte()), int(stmt.EndByte()), b.String())
		}
	}
	return change(buf, add, remove), nil
}

type configKey struct {
	key   string
	value *syntax.Node
}

// configKeys returns the settings assigned in the body of a Config class.
// It reports false if the body holds anything other than assignments,
// pass statements and a docstring.
func configKeys(f *refactor.File, config *syntax.Node) ([]configKey, bool) {
	var keys []configKey
	for _, stmt := range body(config) {
		if stmt.Type() == "pass_statement" {
			continue
		}
		assign := assignment(stmt)
		if assign == nil {
			if kids := syntax.NamedChildren(stmt); stmt.Type() == "expression_statement" && len(kids) == 1 && kids[0].Type() == "string" {
				continue
			}
			return nil, false
		}
		// a = b = value assigns value to both a and b.
		var targets []*syntax.Node
		for {
			targets = append(targets, syntax.Field(assign, "left"))
			right := syntax.Field(assign, "right")
			if right == nil {
				return nil, false
			}
			if right.Type() != "assignment" {
				for _, t := range targets {
					if t.Type() != "identifier" {
						return nil, false
					}
					keys = append(keys, configKey{f.Content(t), right})
				}
				break
			}
			assign = right
		}
	}
	return keys, true
}

// extraValue returns the string form of Extra.allow and friends.
func extraValue(f *refactor.File, value *syntax.Node) (string, bool) {
	value = syntax.Unwrap(value)
	if value.Type() != "attribute" {
		return "", false
	}
	if !f.Is(syntax.Field(value, "object"), "pydantic.Extra", "pydantic.config.Extra") {
		return "", false
	}
	return strconv.Quote(f.Content(syntax.Field(value, "attribute"))), true
}
