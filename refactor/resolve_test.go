// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"reflect"
	"strings"
	"testing"
)

// graphOf builds a graph from "Child:Base1,Base2" specs.
func graphOf(specs ...string) *Graph {
	g := NewGraph()
	for _, spec := range specs {
		name, list, _ := strings.Cut(spec, ":")
		c := &Class{Name: name}
		if list != "" {
			for _, b := range strings.Split(list, ",") {
				c.Bases = append(c.Bases, Base{Name: b, Resolved: true})
			}
		}
		g.Add(c)
	}
	return g
}

var seeds = NewSet(BaseModelSeeds...)

var resolveTests = []struct {
	name  string
	graph []string
	prune []string
	want  []string
}{
	{
		name:  "chain",
		graph: []string{"m.A:pydantic.BaseModel", "m.B:m.A", "m.C:m.B"},
		want:  []string{"m.A", "m.B", "m.C"},
	},
	{
		name:  "internal spelling",
		graph: []string{"m.A:pydantic.main.BaseModel", "m.B:m.A"},
		want:  []string{"m.A", "m.B"},
	},
	{
		name:  "diamond",
		graph: []string{"m.A:pydantic.BaseModel", "m.B:m.A", "m.C:m.A", "m.D:m.B,m.C"},
		want:  []string{"m.A", "m.B", "m.C", "m.D"},
	},
	{
		name:  "cycle unreachable",
		graph: []string{"m.X:m.Y", "m.Y:m.X", "m.A:pydantic.BaseModel"},
		want:  []string{"m.A"},
	},
	{
		name:  "cycle reachable",
		graph: []string{"m.X:m.Y,m.A", "m.Y:m.X", "m.A:pydantic.BaseModel"},
		want:  []string{"m.A", "m.X", "m.Y"},
	},
	{
		name:  "isolated",
		graph: []string{"m.A:pydantic.BaseModel", "m.Plain", "m.Other:object"},
		want:  []string{"m.A"},
	},
	{
		name:  "mixin",
		graph: []string{"m.Mixin", "m.A:m.Mixin,pydantic.BaseModel"},
		want:  []string{"m.A"},
	},
	{
		name:  "prune",
		graph: []string{"m.A:pydantic.BaseModel", "m.B:m.A", "m.C:m.B", "m.D:m.A"},
		prune: []string{"m.B"},
		want:  []string{"m.A", "m.D"},
	},
	{
		name:  "prune other path",
		graph: []string{"m.A:pydantic.BaseModel", "m.B:m.A", "m.C:m.B,m.A"},
		prune: []string{"m.B"},
		want:  []string{"m.A", "m.C"},
	},
}

func TestResolve(t *testing.T) {
	for _, tt := range resolveTests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePruned(graphOf(tt.graph...), seeds, NewSet(tt.prune...)).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestResolveOrderIndependent checks that the result does not depend
// on the order in which partial graphs are merged.
func TestResolveOrderIndependent(t *testing.T) {
	parts := []string{"a.A:pydantic.BaseModel", "b.B:a.A", "c.C:b.B", "d.D:c.C,b.B"}
	want := []string{"a.A", "b.B", "c.C", "d.D"}
	perms := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}}
	for _, perm := range perms {
		g := NewGraph()
		for _, i := range perm {
			g.Merge(graphOf(parts[i]))
		}
		if got := Resolve(g, seeds).Sorted(); !reflect.DeepEqual(got, want) {
			t.Errorf("merge order %v: Resolve = %v, want %v", perm, got, want)
		}
	}
}

func TestResolveOpaqueLiteral(t *testing.T) {
	g := NewGraph()
	g.Add(&Class{Name: "m.A", Bases: []Base{{Name: "BaseModel"}}})
	g.Add(&Class{Name: "m.B", Bases: []Base{{Name: "pydantic.BaseModel"}}})
	got := Resolve(g, seeds).Sorted()
	if want := []string{"m.B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestNewContext(t *testing.T) {
	g := graphOf(
		"m.Model:pydantic.BaseModel",
		"m.Env:pydantic.BaseSettings",
		"m.MyEnv:m.Env",
		"m.Gen:pydantic.generics.GenericModel",
		"m.Plain",
	)
	ctx := NewContext(g, "", nil)
	if want := []string{"m.Env", "m.Gen", "m.Model", "m.MyEnv"}; !reflect.DeepEqual(ctx.BaseModels.Sorted(), want) {
		t.Errorf("BaseModels = %v, want %v", ctx.BaseModels.Sorted(), want)
	}
	if want := []string{"m.Env", "m.MyEnv"}; !reflect.DeepEqual(ctx.Settings.Sorted(), want) {
		t.Errorf("Settings = %v, want %v", ctx.Settings.Sorted(), want)
	}
	if want := []string{"m.Gen"}; !reflect.DeepEqual(ctx.GenericModels.Sorted(), want) {
		t.Errorf("GenericModels = %v, want %v", ctx.GenericModels.Sorted(), want)
	}
	if ctx.TargetVersion != DefaultTargetVersion {
		t.Errorf("TargetVersion = %q, want %q", ctx.TargetVersion, DefaultTargetVersion)
	}
}

func TestGraphMergeUnion(t *testing.T) {
	g := graphOf("m.A:x.X")
	g.Merge(graphOf("m.A:y.Y", "m.B:m.A"))
	if got, want := bases(g, "m.A"), []string{"x.X", "y.Y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("bases(m.A) = %v, want %v", got, want)
	}
	if g.Len() != 2 || g.NumEdges() != 3 {
		t.Errorf("Len, NumEdges = %d, %d, want 2, 3", g.Len(), g.NumEdges())
	}
	edges := g.Edges()
	if !reflect.DeepEqual(edges["m.B"], []string{"m.A"}) {
		t.Errorf("Edges[m.B] = %v", edges["m.B"])
	}
}

func TestGraphDump(t *testing.T) {
	g := graphOf("m.B:m.A")
	g.Add(&Class{Name: "m.A", File: "m.py", Bases: []Base{{Name: "pydantic.BaseModel", Resolved: true}, {Name: "make()"}}})
	var b strings.Builder
	g.Dump(&b)
	want := "class m.A (m.py)\n  base pydantic.BaseModel\n  base ?make()\nclass m.B ()\n  base m.A\n"
	if b.String() != want {
		t.Errorf("Dump:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestFindCycle(t *testing.T) {
	if c := graphOf("m.A:pydantic.BaseModel", "m.B:m.A").findCycle(); c != nil {
		t.Errorf("findCycle on acyclic graph = %v", c)
	}
	c := graphOf("m.Y:m.X", "m.X:m.Y").findCycle()
	if c == nil {
		t.Fatal("findCycle missed a cycle")
	}
	if got, want := c.String(), "m.X -> m.Y -> m.X"; got != want {
		t.Errorf("cycle = %q, want %q", got, want)
	}
}
