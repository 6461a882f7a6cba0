// Package diag implements the frontend's single typed compile error
// (spec §7): a message plus source location, with optional notes and
// nested causes for errors that arise from trying several alternatives
// (overload resolution, generic deduction) and wanting to report all of
// the attempts that failed.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eaburns/pretty"

	"github.com/vellum-lang/vellum/loc"
)

// An Error is a compile error. The zero value is not valid; construct
// with New.
type Error struct {
	Loc   loc.Loc
	Msg   string
	Notes []string
	Cause []Error
}

// New builds an Error located at l.
func New(l loc.Loc, format string, args ...interface{}) *Error {
	return &Error{Loc: l, Msg: fmt.Sprintf(format, args...)}
}

// Note appends a note line to err and returns err, for chaining at the
// call site that first constructs the error.
func (err *Error) Note(format string, args ...interface{}) *Error {
	err.Notes = append(err.Notes, fmt.Sprintf(format, args...))
	return err
}

// NotePretty appends a note that pretty-prints v under label, for
// chaining. Generic-conflict diagnostics use this to show the full
// structure of the two disagreeing bindings, where the compact String()
// form (used in the error's main message) elides the nested detail that
// explains why they don't match.
func (err *Error) NotePretty(label string, v interface{}) *Error {
	return err.Note("%s:\n%s", label, pretty.String(v))
}

// Error implements the error interface.
func (err *Error) Error() string {
	var s strings.Builder
	build(&s, "", err)
	return s.String()
}

func build(s *strings.Builder, indent string, err *Error) {
	s.WriteString(indent)
	s.WriteString(err.Loc.String())
	s.WriteString(": ")
	s.WriteString(err.Msg)
	indent2 := indent + "\t"
	for _, n := range err.Notes {
		s.WriteRune('\n')
		s.WriteString(indent2)
		s.WriteString(n)
	}
	for i := range err.Cause {
		s.WriteRune('\n')
		build(s, indent2, &err.Cause[i])
	}
}

// Annotate sets err's location to l if and only if err's location is
// currently blank. This implements spec §7's propagation policy: the
// first frame with blank source info annotates itself from the nearest
// AST node, and no later frame overwrites that annotation.
func (err *Error) Annotate(l loc.Loc) {
	if err.Loc == (loc.Loc{}) {
		err.Loc = l
	}
}

// ToErrors converts a slice of Error into a sorted, de-duplicated slice
// of error, ready for final reporting.
func ToErrors(errs []Error) []error {
	sorted := Sort(errs)
	out := make([]error, len(sorted))
	for i := range sorted {
		out[i] = &sorted[i]
	}
	return out
}

// Sort orders errors by location (path, then line, then column) and
// removes exact duplicates (same location and message), recursively
// sorting each error's causes the same way.
func Sort(errs []Error) []Error {
	if len(errs) == 0 {
		return errs
	}
	cp := append([]Error(nil), errs...)
	sort.Slice(cp, func(i, j int) bool {
		a, b := cp[i].Loc, cp[j].Loc
		switch {
		case a.Path == b.Path && a.Line[0] == b.Line[0]:
			return a.Col[0] < b.Col[0]
		case a.Path == b.Path:
			return a.Line[0] < b.Line[0]
		default:
			return a.Path < b.Path
		}
	})
	type key struct {
		l   loc.Loc
		msg string
	}
	seen := make(map[key]bool, len(cp))
	var dedup []Error
	for _, e := range cp {
		if k := (key{e.Loc, e.Msg}); !seen[k] {
			seen[k] = true
			dedup = append(dedup, e)
		}
	}
	for i := range dedup {
		dedup[i].Cause = Sort(dedup[i].Cause)
	}
	return dedup
}

// Suppressed runs f and reports whether it succeeded (returned nil),
// swallowing any error it returned. This implements the "speculative region" of
// spec §4.4 and §7: deduction attempts that may legitimately fail
// without aborting the whole compilation — the caller moves on to the
// next candidate.
func Suppressed(f func() *Error) (ok bool) {
	return f() == nil
}
