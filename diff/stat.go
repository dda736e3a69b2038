// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"fmt"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// A Stat counts the lines touched by a set of diffs.
type Stat struct {
	Files   int
	Added   int
	Deleted int
}

func (s Stat) String() string {
	return fmt.Sprintf("%d files changed, %d insertions(+), %d deletions(-)", s.Files, s.Added, s.Deleted)
}

// Add accumulates the counts of the unified diff d into s.
// A line replaced by another counts as one deletion and one insertion.
func (s *Stat) Add(d []byte) error {
	fds, err := godiff.ParseMultiFileDiff(d)
	if err != nil {
		return err
	}
	for _, fd := range fds {
		st := fd.Stat()
		s.Files++
		s.Added += int(st.Added + st.Changed)
		s.Deleted += int(st.Deleted + st.Changed)
	}
	return nil
}
