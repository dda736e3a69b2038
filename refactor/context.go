// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

// Canonical spellings of the pydantic classes that seed resolution.
var (
	BaseModelSeeds = []string{
		"pydantic.BaseModel",
		"pydantic.main.BaseModel",
	}
	SettingsSeeds = []string{
		"pydantic.BaseSettings",
		"pydantic.env_settings.BaseSettings",
		"pydantic.settings.BaseSettings",
		"pydantic_settings.BaseSettings",
	}
	GenericModelSeeds = []string{
		"pydantic.generics.GenericModel",
	}
)

// DefaultTargetVersion is the pydantic release migrated to by default.
const DefaultTargetVersion = "v2.0.4"

// A Context holds the facts shared by every rule during the rewrite
// phase. It is built once, after collection finishes, and is never
// modified afterward, so rules running in parallel may read it
// without locking.
type Context struct {
	Graph *Graph

	// BaseModels holds every class that inherits from BaseModel,
	// including settings classes and generic models.
	BaseModels Set

	// Settings holds the subclasses of BaseSettings.
	Settings Set

	// GenericModels holds the subclasses of GenericModel.
	GenericModels Set

	// TargetVersion is the semantic version ("v2.0.4") of the pydantic
	// release the code is being migrated to.
	TargetVersion string
}

// NewContext resolves g and returns the resulting context.
// Classes named in prune are excluded from traversal.
func NewContext(g *Graph, targetVersion string, prune Set) *Context {
	if targetVersion == "" {
		targetVersion = DefaultTargetVersion
	}
	var all []string
	all = append(all, BaseModelSeeds...)
	all = append(all, SettingsSeeds...)
	all = append(all, GenericModelSeeds...)
	return &Context{
		Graph:         g,
		BaseModels:    ResolvePruned(g, NewSet(all...), prune),
		Settings:      ResolvePruned(g, NewSet(SettingsSeeds...), prune),
		GenericModels: ResolvePruned(g, NewSet(GenericModelSeeds...), prune),
		TargetVersion: targetVersion,
	}
}
