// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bumpy-tools/bump/diff"
)

// A Status is the final state of a file after the rewrite phase.
type Status int

const (
	Unchanged Status = iota
	Written
	DiffEmitted
	Errored
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Written:
		return "written"
	case DiffEmitted:
		return "diff"
	case Errored:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// An Outcome is the result of running the pipeline on one file.
type Outcome struct {
	Name   string // path relative to the project root
	Status Status
	Text   []byte // rewritten text, for Written and DiffEmitted
	Diff   string // unified diff, for DiffEmitted
	Err    error  // for Errored
}

// A Pipeline applies an ordered list of rules to files, followed by
// the import bookkeeping passes.
type Pipeline struct {
	Rules   []Rule
	Context *Context
	Root    string // project root; file names are relative to it
	Diff    bool   // report diffs instead of writing files

	// Sources supplies file texts. If nil, files are read from disk.
	Sources *SourceCache
}

// Run rewrites the file at rel and writes it back or diffs it.
// Run never panics: any failure becomes an Errored outcome.
func (p *Pipeline) Run(ctx context.Context, rel string) (out Outcome) {
	out.Name = rel
	defer func() {
		if r := recover(); r != nil {
			out.Status = Errored
			out.Err = newRulePanic("", rel, r)
		}
	}()

	file := filepath.Join(p.Root, filepath.FromSlash(rel))
	var old []byte
	var err error
	if p.Sources != nil {
		old, err = p.Sources.Take(rel)
	} else {
		old, err = os.ReadFile(file)
	}
	if err != nil {
		out.Status = Errored
		out.Err = err
		return out
	}
	text, err := p.Rewrite(ctx, rel, old)
	if err != nil {
		out.Status = Errored
		out.Err = err
		return out
	}
	if bytes.Equal(text, old) {
		out.Status = Unchanged
		return out
	}
	out.Text = text
	if p.Diff {
		out.Status = DiffEmitted
		out.Diff = diff.Unified(rel, old, text)
		return out
	}
	mode := os.FileMode(0o666)
	if fi, err := os.Stat(file); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(file, text, mode); err != nil {
		out.Status = Errored
		out.Err = err
		return out
	}
	out.Status = Written
	return out
}

// Rewrite applies the rules in order to src, the text of the file at
// rel, and returns the new text. Each rule sees the text produced by
// the previous one. The import requests of all rules are applied
// last: first removals, then additions.
//
// A parse failure of src is returned as is. Any other failure,
// including a panic inside a rule, is returned as a *RuleError.
func (p *Pipeline) Rewrite(ctx context.Context, rel string, src []byte) (text []byte, err error) {
	f, err := NewFile(ctx, rel, src)
	if err != nil {
		return nil, err
	}
	defer func() { f.Close() }()

	var current RuleID
	defer func() {
		if r := recover(); r != nil {
			text = nil
			err = newRulePanic(current, rel, r)
		}
	}()

	var add, remove []Import
	for _, r := range p.Rules {
		current = r.ID()
		change, err := r.Rewrite(f, p.Context)
		if err != nil {
			return nil, newRuleError(current, rel, err)
		}
		if change == nil {
			continue
		}
		add = mergeImports(add, change.Add)
		remove = mergeImports(remove, change.Remove)
		f.Pending = add
		if change.Text == nil || bytes.Equal(change.Text, f.Text) {
			continue
		}
		f1, err := f.reparse(ctx, change.Text)
		if err != nil {
			return nil, newRuleError(current, rel, fmt.Errorf("rewritten text does not parse: %w", err))
		}
		f.Close()
		f = f1
	}

	current = "imports"
	if len(remove) > 0 {
		if f, err = p.step(ctx, f, removeImports(f, remove)); err != nil {
			return nil, newRuleError(current, rel, err)
		}
	}
	if len(add) > 0 {
		if f, err = p.step(ctx, f, addImports(f, add)); err != nil {
			return nil, newRuleError(current, rel, err)
		}
	}
	return f.Text, nil
}

// step replaces f by a parse of text, closing f.
func (p *Pipeline) step(ctx context.Context, f *File, text []byte) (*File, error) {
	if bytes.Equal(text, f.Text) {
		return f, nil
	}
	f1, err := f.reparse(ctx, text)
	if err != nil {
		return f, fmt.Errorf("rewritten imports do not parse: %w", err)
	}
	f.Close()
	return f1, nil
}
