// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// skipDirs lists directories that never hold project sources.
var skipDirs = map[string]bool{
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"node_modules": true,
}

// Discover returns the Python files under root, as sorted
// slash-separated paths relative to root. Hidden directories and
// virtual environments are skipped, as is any file or directory whose
// relative path matches one of the exclude patterns. Patterns use
// doublestar syntax, so "**/migrations/**" excludes every migrations
// directory.
//
// If root is a file, Discover returns its base name and the caller
// should treat its directory as the root.
func Discover(root string, exclude []string) ([]string, error) {
	for _, pat := range exclude {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pat, err)
		}
	}
	excluded := func(rel string) bool {
		for _, pat := range exclude {
			if ok, _ := doublestar.Match(pat, rel); ok {
				return true
			}
		}
		return false
	}

	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{filepath.Base(root)}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") || skipDirs[name] || excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(rel, ".py") || excluded(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
