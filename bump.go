// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/bumpy-tools/bump/diff"
	"github.com/bumpy-tools/bump/refactor"
	"github.com/bumpy-tools/bump/rules"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "devel"

// Exit codes.
const (
	exitOK      = 0
	exitErrors  = 1 // some files could not be migrated
	exitUsage   = 2
	exitPending = 3 // --diff found files to migrate
)

func main() {
	log.SetPrefix("bump: ")
	log.SetFlags(0)
	os.Exit(bump(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the settings of one run, from flags and the config file.
type options struct {
	diff           bool
	disable        []string
	exclude        []string
	logFile        string
	jobs           int
	targetVersion  string
	config         string
	color          string
	verbose        bool
	knownNonModels []string
}

// bump runs the command line args and returns the process exit code.
func bump(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	code := exitOK
	cmd := newCommand(stdout, stderr, &code)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.New(stderr, "bump: ", 0).Print(err)
		var u *errUsage
		if errors.As(err, &u) {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
			return exitUsage
		}
		return exitErrors
	}
	return code
}

func newCommand(stdout, stderr io.Writer, code *int) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "bump [flags] <path>",
		Short: "Migrate pydantic v1 code to pydantic v2",
		Long: `Bump rewrites the Python sources under path from the pydantic v1 API
to the pydantic v2 API. Path may be a project directory or a single file.

Rules:
` + ruleList() + `
Settings are read from ` + configName + ` in the project root when it exists.
Flags override the config file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return newErrUsage("expected one path, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd, args[0]); err != nil {
				return err
			}
			c, err := run(cmd.Context(), &opts, args[0], stdout, stderr)
			*code = c
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newErrUsage("%v", err)
	})

	f := cmd.Flags()
	f.BoolVar(&opts.diff, "diff", false, "print diffs instead of writing files")
	f.StringSliceVar(&opts.disable, "disable", nil, "disable the named `rule`s")
	f.StringArrayVar(&opts.exclude, "exclude", nil, "skip files matching the `glob` (repeatable)")
	f.StringVar(&opts.logFile, "log-file", "", "append per-file errors to `file` instead of stderr")
	f.IntVar(&opts.jobs, "jobs", runtime.GOMAXPROCS(0), "number of files processed in parallel")
	f.StringVar(&opts.targetVersion, "target-version", refactor.DefaultTargetVersion, "pydantic `version` being migrated to")
	f.StringVar(&opts.config, "config", "", "read settings from `file` (default <root>/"+configName+")")
	f.StringVar(&opts.color, "color", "auto", "colorize diffs: auto, always or never")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")
	return cmd
}

// ruleList returns one help line per rule.
func ruleList() string {
	var b strings.Builder
	for _, r := range rules.All() {
		fmt.Fprintf(&b, "  %s  %s\n", r.ID(), r.Doc())
	}
	return b.String()
}

// load merges the config file into o and validates the result.
// Values of flags set on the command line win.
func (o *options) load(cmd *cobra.Command, path string) error {
	cfgPath, required := o.config, o.config != ""
	if !required {
		cfgPath = filepath.Join(projectRoot(path), configName)
	}
	cfg, err := loadConfig(cfgPath, required)
	if err != nil {
		return newErrUsage("%v", err)
	}
	if cfg != nil {
		flags := cmd.Flags()
		if !flags.Changed("disable") && cfg.Disable != nil {
			o.disable = cfg.Disable
		}
		if !flags.Changed("exclude") && cfg.Exclude != nil {
			o.exclude = cfg.Exclude
		}
		if !flags.Changed("jobs") && cfg.Jobs != 0 {
			o.jobs = cfg.Jobs
		}
		if !flags.Changed("target-version") && cfg.TargetVersion != "" {
			o.targetVersion = cfg.TargetVersion
		}
		if !flags.Changed("log-file") && cfg.LogFile != "" {
			o.logFile = cfg.LogFile
		}
		o.knownNonModels = cfg.KnownNonModels
	}

	if o.jobs < 1 {
		return newErrUsage("--jobs must be positive, got %d", o.jobs)
	}
	v, ok := canonicalVersion(o.targetVersion)
	if !ok {
		return newErrUsage("invalid --target-version %q", o.targetVersion)
	}
	if semver.Major(v) != "v2" {
		return newErrUsage("--target-version %s is not a pydantic 2 release", o.targetVersion)
	}
	o.targetVersion = v
	if _, err := diff.ParseColorMode(o.color); err != nil {
		return newErrUsage("%v", err)
	}
	return nil
}

// projectRoot returns the directory holding the project at path,
// which is path itself unless path names a file.
func projectRoot(path string) string {
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return filepath.Dir(path)
	}
	return path
}

// run migrates the project at path and prints the diffs and summary.
// It returns the exit code of a run that got as far as the rewrite.
func run(ctx context.Context, o *options, path string, stdout, stderr io.Writer) (int, error) {
	selected, err := rules.Select(o.disable)
	if err != nil {
		return exitUsage, newErrUsage("--disable: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		return exitErrors, newErrPrecondition("%v", err)
	}
	files, err := refactor.Discover(path, o.exclude)
	if err != nil {
		return exitUsage, newErrUsage("%v", err)
	}
	root := projectRoot(path)

	logger, closeLog, err := newLogger(o.logFile, o.verbose, stderr)
	if err != nil {
		return exitErrors, err
	}
	defer closeLog()
	logger.Debug("starting", "root", root, "files", len(files), "rules", len(selected), "target", o.targetVersion)

	report, err := refactor.Run(ctx, refactor.Options{
		Root:          root,
		Files:         files,
		Rules:         selected,
		Jobs:          o.jobs,
		Diff:          o.diff,
		TargetVersion: o.targetVersion,
		Prune:         refactor.NewSet(o.knownNonModels...),
		Logger:        logger,
	})
	if err != nil {
		return exitErrors, err
	}
	if errs := report.Errors(); errs.Len() > 0 {
		for _, msg := range strings.Split(errs.Error(), "\n") {
			logger.Error("migration failed", "err", msg)
		}
		for _, out := range report.Outcomes {
			if out.Status == refactor.Errored {
				logger.Debug("trace", "file", out.Name, "detail", fmt.Sprintf("%+v", out.Err))
			}
		}
	}

	n := report.Modified()
	if o.diff {
		mode, _ := diff.ParseColorMode(o.color)
		p := diff.NewPrinter(mode.Enabled(stdout))
		var st diff.Stat
		for _, out := range report.Diffs() {
			fmt.Fprint(stdout, p.Colorize(out.Diff))
			if err := st.Add([]byte(out.Diff)); err != nil {
				logger.Debug("diff stat", "file", out.Name, "err", err)
			}
		}
		fmt.Fprintf(stderr, "%d files would be refactored.\n", n)
		if n > 0 {
			fmt.Fprintln(stderr, st)
		}
	} else {
		fmt.Fprintf(stderr, "Refactored %d files.\n", n)
	}

	switch {
	case report.Errored() > 0:
		fmt.Fprintf(stderr, "Found %d errors. Please check the log file.\n", report.Errored())
		return exitErrors, nil
	case o.diff && n > 0:
		return exitPending, nil
	}
	return exitOK, nil
}

// newLogger returns the logger for per-file errors and its close
// function. Records go to the file at path, or to stderr without
// timestamps if path is empty.
func newLogger(path string, verbose bool, stderr io.Writer) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if path == "" {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		}
		return slog.New(slog.NewTextHandler(stderr, opts)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f.Close, nil
}
