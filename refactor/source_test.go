// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg/a.py"), []byte("a = 1\n"), 0666))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte("b = 2\n"), 0666))

	s := NewSourceCache(dir, 1)
	text, err := s.Read("pkg/a.py")
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n", string(text))
	assert.Equal(t, 1, s.Len())

	// A cached text survives a change on disk until it is taken.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg/a.py"), []byte("a = 3\n"), 0666))
	text, err = s.Take("pkg/a.py")
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n", string(text))
	assert.Equal(t, 0, s.Len())
	text, err = s.Take("pkg/a.py")
	require.NoError(t, err)
	assert.Equal(t, "a = 3\n", string(text))

	// The oldest text is evicted past the size limit.
	_, err = s.Read("pkg/a.py")
	require.NoError(t, err)
	_, err = s.Read("b.py")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	_, err = s.Read("missing.py")
	assert.Error(t, err)
}

func TestSourceCacheOff(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("a = 1\n"), 0666))
	s := NewSourceCache(dir, 0)
	text, err := s.Read("a.py")
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n", string(text))
	assert.Equal(t, 0, s.Len())
}
