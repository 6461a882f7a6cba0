package types

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
)

// A Callable is anything that can appear as a user-defined magic
// overload, a Ref method, or the target of a Call/PartialCall: spec
// §4.1's overloads and methods, and spec §4.4's call-site deduction
// targets. stmt.FuncDef implements it for user-defined functions and
// builtin.go's nativeCallable for built-in methods; it is expressed as
// an interface here, rather than types importing package stmt, because
// types sits below stmt in the dependency graph (stmt depends on types
// and expr) and magic/method dispatch (§4.1) is a types-level concern.
//
// For a method, ArgTypes()[0] is the receiver (self) type; for a free
// function it is the first ordinary parameter. This matches spec
// §4.1's magicOut, which "insert[s] self-type at the front of args"
// before matching against overloads.
type Callable interface {
	ArgTypes() []*Type
	OutType() *Type

	// IsGeneric reports whether this Callable still has unbound type
	// parameters (spec's "Generic" capability, §1/§4.1).
	IsGeneric() bool

	// TypeParams returns the type-parameter slots call-site deduction
	// (spec §4.4) unifies ArgTypes() against. Empty for a non-generic
	// Callable.
	TypeParams() []TypeParm

	// Realize returns a concrete Callable for the given (already-
	// deduced or explicit) type-parameter bindings, positional against
	// TypeParams(). If !IsGeneric(), it returns the receiver unchanged.
	// Realizations are cached by the implementation so repeated Realize
	// calls with equal bindings
	// return the same instance (spec §4.1's "caching by binding tuple
	// so repeated realizations share identity").
	Realize(argTypes []*Type) (Callable, *diag.Error)

	// Emit produces IR invoking this Callable with already-evaluated
	// argument values (args[0] is self for a method), appending to
	// cur.Block and repositioning it as needed.
	Emit(u *emit.Unit, cur *emit.Cursor, args []Value) (Value, *diag.Error)

	// FuncValue returns this callable's address as a first-class
	// Func-typed value, for the bare-reference positions spec §4.2
	// calls out (a Func expression not immediately called, a Method's
	// bound signature, a pipeline stage handle) as opposed to Emit's
	// immediate-invocation path.
	FuncValue(u *emit.Unit) Value
}
