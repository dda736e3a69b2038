// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff renders and summarizes unified diffs of rewritten files.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns the unified diff of old and new, with three lines of
// context, or nil if they are equal.
func Diff(oldName string, old []byte, newName string, new []byte) ([]byte, error) {
	if string(old) == string(new) {
		return nil, nil
	}
	ud := difflib.UnifiedDiff{
		A:        splitLines(string(old)),
		B:        splitLines(string(new)),
		FromFile: oldName,
		ToFile:   newName,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("diff %s %s\n", oldName, newName) + text), nil
}

// Unified returns the diff of the file name before and after a rewrite,
// with "old/" and "new/" path prefixes.
func Unified(name string, old, new []byte) string {
	d, err := Diff("old/"+name, old, "new/"+name, new)
	if err != nil {
		// GetUnifiedDiffString fails only when writing to its buffer fails.
		panic(err)
	}
	return string(d)
}

// splitLines splits s into lines, each ending in a newline.
// A missing final newline is marked the way diff -u marks it.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += "\n\\ No newline at end of file\n"
	return lines
}
