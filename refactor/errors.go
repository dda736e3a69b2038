// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"github.com/bumpy-tools/bump/syntax"
)

// An Error is an error at a particular source position.
type Error struct {
	Pos syntax.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() || e.Pos.Filename != "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// A RuleError reports a failure while applying a rule to a file:
// an error returned by the rule, a panic, or rule output that no
// longer parses. Printing it with %+v includes the trace.
type RuleError struct {
	Rule RuleID
	File string
	Err  error

	stack []byte // goroutine stack, for panics
	frame xerrors.Frame
}

func newRuleError(rule RuleID, file string, err error) *RuleError {
	return &RuleError{Rule: rule, File: file, Err: err, frame: xerrors.Caller(1)}
}

// newRulePanic converts a recovered panic value into a RuleError.
func newRulePanic(rule RuleID, file string, p any) *RuleError {
	e := &RuleError{Rule: rule, File: file, Err: fmt.Errorf("panic: %v", p), frame: xerrors.Caller(2)}
	e.stack = debug.Stack()
	return e
}

func (e *RuleError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.File, e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

func (e *RuleError) Format(s fmt.State, v rune) { xerrors.FormatError(e, s, v) }

func (e *RuleError) FormatError(p xerrors.Printer) error {
	if e.Rule == "" {
		p.Printf("%s", e.File)
	} else {
		p.Printf("%s: %s", e.File, e.Rule)
	}
	if p.Detail() {
		e.frame.Format(p)
		if len(e.stack) > 0 {
			p.Printf("%s", e.stack)
		}
	}
	return e.Err
}

type errorKey struct {
	pos syntax.Position
	msg string
}

// ErrorList is a set of Errors. It is also an error itself. The zero value is
// an empty list, ready to use.
type ErrorList struct {
	errs []*Error
	set  map[errorKey]bool
}

// Add adds an error to l. If the error is an Error or a syntax.ParseError,
// it uses the position information from the error. A RuleError is
// positioned at the start of its file. If the error is an ErrorList, it
// merges all errors from that list into this list. Otherwise, it adds the
// error with no position information. It suppresses duplicate errors
// (same position and message).
func (l *ErrorList) Add(err error) {
	var e *Error

	var perr *syntax.ParseError
	var rerr *RuleError
	switch err := err.(type) {
	case nil:
		return

	case *ErrorList:
		for _, e := range err.errs {
			l.Add(e)
		}
		return

	case *Error:
		e = err

	default:
		switch {
		case errors.As(err, &perr):
			e = &Error{perr.Pos, perr.Msg}
		case errors.As(err, &rerr):
			msg := rerr.Err.Error()
			if rerr.Rule != "" {
				msg = string(rerr.Rule) + ": " + msg
			}
			e = &Error{syntax.Position{Filename: rerr.File}, msg}
		default:
			e = &Error{syntax.Position{}, err.Error()}
		}
	}

	k := errorKey{e.Pos, e.Msg}
	if !l.set[k] {
		if l.set == nil {
			l.set = make(map[errorKey]bool)
		}
		l.errs = append(l.errs, e)
		l.set[k] = true
	}
}

// Len returns the number of errors in l.
func (l *ErrorList) Len() int {
	return len(l.errs)
}

// Error sorts, deduplicates, and returns a "\n" separated list of formatted
// errors. Note that the result does not end in "\n" because the caller is
// expected to add that.
func (l *ErrorList) Error() string {
	if len(l.errs) == 0 {
		return "no errors"
	}

	// Sort the error list.
	sort.SliceStable(l.errs, func(i, j int) bool {
		p1, p2 := l.errs[i].Pos, l.errs[j].Pos
		if p1.Filename != p2.Filename {
			return p1.Filename < p2.Filename
		}
		return p1.Offset < p2.Offset
	})

	// Collapse duplicate messages that appear in many locations on the
	// assumption that one rule failed the same way everywhere and the
	// user doesn't want to be flooded.
	count := make(map[string]int)
	for _, e := range l.errs {
		count[e.Msg]++
	}

	// Print messages.
	buf := new(strings.Builder)
	for _, e := range l.errs {
		msg := e.Msg
		switch {
		case count[msg] > 3:
			n := count[e.Msg]
			count[e.Msg] = -1
			msg += fmt.Sprintf(" [× %d]", n)

		case count[msg] < 0:
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(buf, "%s", (&Error{e.Pos, msg}).Error())
	}
	return buf.String()
}

// Err returns an error equivalent to this error list.
// If the list is empty, Err returns nil.
func (l *ErrorList) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}
