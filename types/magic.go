package types

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
)

// MagicOut resolves the result type of calling magic method name on
// self-type t with arguments args (spec §4.1). self's type is
// prepended to args before matching. Overloads are tried first, most-
// recently-added first; a generic overload is deduced against the
// full (self-prepended) argument list, and a deduction failure simply
// moves on to the next candidate (spec §4.4's "swallowed" speculative
// failures). If no overload matches, built-in magic is tried by exact
// argument-type match.
func (t *Type) MagicOut(name string, args []*Type) (*Type, *diag.Error) {
	full := append([]*Type{t}, args...)
	for _, fn := range t.lookupOverloads(name) {
		if out, ok := tryOverloadOut(fn, full); ok {
			return out, nil
		}
	}
	if m := t.lookupBuiltinMagic(name, args); m != nil {
		return m.OutType, nil
	}
	return nil, errorAt(nil, t, "%s has no overload or magic method %q for argument types %s", t, name, argList(args))
}

// CallMagic is MagicOut's IR-emitting counterpart: it performs the same
// resolution, then emits the call. User overloads go through the
// ordinary Callable.Emit path; built-in magic invokes the
// MagicMethod's Emit closure directly.
func (t *Type) CallMagic(u *emit.Unit, cur *emit.Cursor, name string, argTypes []*Type, self Value, args []Value) (Value, *diag.Error) {
	full := append([]*Type{t}, argTypes...)
	fullVals := append([]Value{self}, args...)
	for _, fn := range t.lookupOverloads(name) {
		realized, ok := tryOverloadRealize(fn, full)
		if !ok {
			continue
		}
		return realized.Emit(u, cur, fullVals)
	}
	if m := t.lookupBuiltinMagic(name, argTypes); m != nil {
		return m.Emit(u, cur, self, args)
	}
	return Value{}, errorAt(nil, t, "%s has no overload or magic method %q for argument types %s", t, name, argList(argTypes))
}

// tryOverloadOut attempts to match fn against the fully-applied
// argument list full, realizing it first if generic. It reports ok=
// false (rather than an error) on any failure, matching spec §4.4's
// "any CompileError raised during speculative [resolution] is
// swallowed."
func tryOverloadOut(fn Callable, full []*Type) (*Type, bool) {
	realized, ok := tryOverloadRealize(fn, full)
	if !ok {
		return nil, false
	}
	return realized.OutType(), true
}

func tryOverloadRealize(fn Callable, full []*Type) (Callable, bool) {
	if fn.IsGeneric() {
		parms := fn.TypeParams()
		sub, err := DeduceFromArgTypes(parms, fn.ArgTypes(), full, loc.Loc{})
		if err != nil {
			return nil, false
		}
		bindings := make([]*Type, len(parms))
		for i := range parms {
			bindings[i] = sub[&parms[i]]
		}
		r, err := fn.Realize(bindings)
		if err != nil {
			return nil, false
		}
		fn = r
	}
	if !typeArgsEqual(fn.ArgTypes(), full) {
		return nil, false
	}
	return fn, true
}
