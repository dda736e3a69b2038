// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options configures a run over a project.
type Options struct {
	Root          string   // project root
	Files         []string // slash-separated paths relative to Root
	Rules         []Rule   // rules to apply, in order
	Jobs          int      // maximum concurrent workers; 0 means GOMAXPROCS
	Diff          bool     // report diffs instead of writing files
	TargetVersion string   // pydantic version migrated to
	Prune         Set      // classes excluded from base-set traversal
	CacheSize     int      // file texts kept between phases; 0 means DefaultCacheSize, negative none
	Logger        *slog.Logger
}

// A Report summarizes a run.
type Report struct {
	Context  *Context
	Outcomes []Outcome // one per input file, in input order
}

// Modified returns the number of files written or diffed.
func (r *Report) Modified() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == Written || o.Status == DiffEmitted {
			n++
		}
	}
	return n
}

// Errored returns the number of files that failed.
func (r *Report) Errored() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == Errored {
			n++
		}
	}
	return n
}

// Errors returns the file errors of the run.
func (r *Report) Errors() *ErrorList {
	var l ErrorList
	for _, o := range r.Outcomes {
		if o.Status == Errored {
			l.Add(o.Err)
		}
	}
	return &l
}

// Diffs returns the outcomes carrying diffs, sorted by file name.
func (r *Report) Diffs() []Outcome {
	var list []Outcome
	for _, o := range r.Outcomes {
		if o.Status == DiffEmitted {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Run migrates the files of a project in two phases. The collection
// phase builds the inheritance graph of every file in parallel. Only
// after all files are collected is the graph resolved into the shared
// Context, and only then does the rewrite phase run the pipeline on
// every file in parallel. A failure in one file never affects another.
func Run(ctx context.Context, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	sources := NewSourceCache(opts.Root, size)

	// Phase 1: collect.
	parts := make([]*Graph, len(opts.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, rel := range opts.Files {
		g.Go(func() error {
			parts[i] = collectFile(gctx, log, sources, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := NewGraph()
	for _, part := range parts {
		graph.Merge(part)
	}
	if c := graph.findCycle(); c != nil {
		log.Warn("inheritance cycle", "cycle", c.String())
	}
	rctx := NewContext(graph, opts.TargetVersion, opts.Prune)
	log.Debug("resolved base models",
		"classes", graph.Len(),
		"edges", graph.NumEdges(),
		"models", len(rctx.BaseModels),
		"settings", len(rctx.Settings),
		"generic", len(rctx.GenericModels),
		"cached", sources.Len())
	if log.Enabled(ctx, slog.LevelDebug) {
		var b strings.Builder
		graph.Dump(&b)
		log.Debug("class graph", "graph", b.String())
	}

	// Phase 2: rewrite.
	p := &Pipeline{Rules: opts.Rules, Context: rctx, Root: opts.Root, Diff: opts.Diff, Sources: sources}
	outcomes := make([]Outcome, len(opts.Files))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, rel := range opts.Files {
		g.Go(func() error {
			outcomes[i] = p.Run(gctx, rel)
			log.Debug("rewrote file", "file", rel, "status", outcomes[i].Status.String())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{Context: rctx, Outcomes: outcomes}, nil
}

// collectFile returns the inheritance graph of one file. A file that
// cannot be read or parsed contributes nothing; the rewrite phase
// reports its error.
func collectFile(ctx context.Context, log *slog.Logger, sources *SourceCache, rel string) (g *Graph) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug("collect panicked", "file", rel, "panic", r)
			g = nil
		}
	}()
	src, err := sources.Read(rel)
	if err != nil {
		log.Debug("collect failed", "file", rel, "err", err)
		return nil
	}
	f, err := NewFile(ctx, rel, src)
	if err != nil {
		log.Debug("collect failed", "file", rel, "err", err)
		return nil
	}
	defer f.Close()
	return Collect(f)
}
