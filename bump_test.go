// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestRun runs the scripts in testdata. The comment of each archive
// holds the command line, as "bump args...", and optionally the
// expected exit status, as "exit N". Files named stdout and stderr
// hold the expected output. Files under want/ hold the expected
// content of the project files after the run. Each line of a file
// under contains/ must appear in the named file after the run, for
// outputs like logs that hold timestamps. All other files make up the
// project, which is the current directory during the run.
func TestRun(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test cases")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			t.Log(file)
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			args, wantCode := parseComment(t, string(ar.Comment))

			dir := t.TempDir()
			var wantStdout, wantStderr txtar.File
			var wantFiles, wantLines []txtar.File
			for _, file := range ar.Files {
				switch {
				case file.Name == "stdout":
					wantStdout = file
					continue
				case file.Name == "stderr":
					wantStderr = file
					continue
				case strings.HasPrefix(file.Name, "want/"):
					wantFiles = append(wantFiles, file)
					continue
				case strings.HasPrefix(file.Name, "contains/"):
					wantLines = append(wantLines, file)
					continue
				}
				targ := filepath.Join(dir, file.Name)
				if err := os.MkdirAll(filepath.Dir(targ), 0777); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(targ, file.Data, 0666); err != nil {
					t.Fatal(err)
				}
			}

			t.Chdir(dir)
			var stdout, stderr bytes.Buffer
			code := bump(context.Background(), args, &stdout, &stderr)

			cmp := func(name string, have, want []byte) {
				have = trimSpace(have)
				want = trimSpace(want)
				if !bytes.Equal(have, want) {
					t.Errorf("%s:\n%s", name, have)
					t.Errorf("want:\n%s", want)
				}
			}
			if code != wantCode {
				t.Errorf("exit status %d, want %d\nstderr:\n%s", code, wantCode, stderr.Bytes())
			}
			cmp("stderr", stderr.Bytes(), wantStderr.Data)
			cmp("stdout", stdout.Bytes(), wantStdout.Data)
			for _, want := range wantFiles {
				name := strings.TrimPrefix(want.Name, "want/")
				have, err := os.ReadFile(name)
				if err != nil {
					t.Error(err)
					continue
				}
				cmp(name, have, want.Data)
			}
			for _, want := range wantLines {
				name := strings.TrimPrefix(want.Name, "contains/")
				have, err := os.ReadFile(name)
				if err != nil {
					t.Error(err)
					continue
				}
				for _, line := range strings.Split(string(trimSpace(want.Data)), "\n") {
					if line != "" && !bytes.Contains(have, []byte(line)) {
						t.Errorf("%s does not contain %q:\n%s", name, line, have)
					}
				}
			}
		})
	}
}

func parseComment(t *testing.T, comment string) (args []string, code int) {
	for _, line := range strings.Split(comment, "\n") {
		f := strings.Fields(line)
		switch {
		case len(f) == 0 || strings.HasPrefix(f[0], "#"):
		case f[0] == "bump":
			args = f[1:]
		case f[0] == "exit" && len(f) == 2:
			n, err := strconv.Atoi(f[1])
			if err != nil {
				t.Fatalf("bad exit line %q", line)
			}
			code = n
		default:
			t.Fatalf("unexpected comment line %q", line)
		}
	}
	if args == nil {
		t.Fatal("missing bump command line")
	}
	return args, code
}

func trimSpace(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimRight(line, " ")
	}
	return bytes.TrimRight(bytes.Join(lines, []byte("\n")), "\n")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configName)

	c, err := loadConfig(path, false)
	if err != nil || c != nil {
		t.Fatalf("loadConfig(missing) = %v, %v, want nil, nil", c, err)
	}
	if _, err := loadConfig(path, true); err == nil {
		t.Fatal("loadConfig(missing, required) succeeded")
	}

	data := "disable: [BP001, BP007]\njobs: 3\ntarget-version: v2.1.0\nknown-non-models:\n  - app.Base\n"
	if err := os.WriteFile(path, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	c, err = loadConfig(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Disable) != 2 || c.Jobs != 3 || c.TargetVersion != "v2.1.0" || len(c.KnownNonModels) != 1 {
		t.Errorf("loadConfig = %+v", c)
	}

	for _, bad := range []string{
		"colour: never\n",
		"jobs: -1\n",
		"target-version: two\n",
		"exclude: [\"\"]\n",
	} {
		if err := os.WriteFile(path, []byte(bad), 0666); err != nil {
			t.Fatal(err)
		}
		if _, err := loadConfig(path, false); err == nil {
			t.Errorf("loadConfig accepted %q", bad)
		}
	}

	if err := os.WriteFile(path, nil, 0666); err != nil {
		t.Fatal(err)
	}
	if c, err := loadConfig(path, false); err != nil || c == nil {
		t.Errorf("loadConfig(empty) = %v, %v, want empty config", c, err)
	}
}

func TestCanonicalVersion(t *testing.T) {
	for _, tt := range []struct {
		in, out string
		ok      bool
	}{
		{"2.0.4", "v2.0.4", true},
		{"v2.5.0", "v2.5.0", true},
		{"v2", "v2", true},
		{"two", "vtwo", false},
	} {
		out, ok := canonicalVersion(tt.in)
		if out != tt.out || ok != tt.ok {
			t.Errorf("canonicalVersion(%q) = %q, %v, want %q, %v", tt.in, out, ok, tt.out, tt.ok)
		}
	}
}
