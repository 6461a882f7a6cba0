// Package expr implements the Language's expression AST (spec §3, §4.2):
// typed nodes each exposing the four-method contract ResolveTypes/
// GetType/CodeGen/Clone. resolveTypes prepares a node and its children
// (including any generic-realization side effects) before the first
// type query; getType is then a pure read of the cached result;
// codegen emits IR into the in/out block cursor spec §9 says must never
// be hidden; clone deep-copies a subtree under a generic-instantiation
// ref, preserving shared-child identity.
package expr

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// An Expr is one node of the expression AST (spec §3's Expression sum
// type).
type Expr interface {
	// ResolveTypes recursively prepares e and its children: generic
	// realization, magic-method resolution, and anything else that must
	// happen before the first GetType/CodeGen call. Idempotent (spec §8
	// property 1).
	ResolveTypes() *diag.Error

	// GetType returns e's static result type. Valid only after
	// ResolveTypes has succeeded.
	GetType() (*types.Type, *diag.Error)

	// CodeGen emits e's IR into cur, returning the produced value. cur
	// is an in/out reference: CodeGen may repoint cur.Block at a new
	// successor when e introduces control flow (spec §9).
	CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error)

	// Clone deep-copies e under a generic-instantiation ref, reusing
	// ref's memoization for any child already cloned via another path
	// (spec §8 property 5).
	Clone(ref *types.CloneRef) Expr
}

// errAt builds a *diag.Error at the zero location; the compile
// package's outermost frame annotates it with real source info on the
// way up (spec §7's "first frame with blank source-info annotates
// itself"), mirroring how package types' errorAt(nil, ...) already
// defers location attachment.
func errAt(format string, args ...interface{}) *diag.Error {
	return diag.New(loc.Loc{}, format, args...)
}

// Blank is the `_` placeholder expression: valid only where a
// PartialCall or Match pattern accepts a hole, never independently
// type-checkable or emittable (spec §7's "misplaced `_`").
type Blank struct{ Range loc.Range }

func (e *Blank) ResolveTypes() *diag.Error { return nil }

func (e *Blank) GetType() (*types.Type, *diag.Error) {
	return nil, errAt("_ has no type outside a partial-call or pattern position")
}

func (e *Blank) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	return types.Value{}, errAt("_ cannot be evaluated")
}

func (e *Blank) Clone(ref *types.CloneRef) Expr { return &Blank{Range: e.Range} }

// TypeExpr denotes a bare type used as a value, as in a static-member
// access GetStaticElem(TypeExpr, name) or a Construct target.
type TypeExpr struct {
	Range loc.Range
	Type  *types.Type
}

func (e *TypeExpr) ResolveTypes() *diag.Error { return nil }

func (e *TypeExpr) GetType() (*types.Type, *diag.Error) {
	return nil, errAt("a type is not a value")
}

func (e *TypeExpr) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	return types.Value{}, errAt("a type is not a value")
}

func (e *TypeExpr) Clone(ref *types.CloneRef) Expr {
	return &TypeExpr{Range: e.Range, Type: e.Type.Clone(ref)}
}

// ValueExpr wraps an already-computed types.Value as an Expr leaf: the
// vehicle magicOut/callMagic use to run resolution over an already-
// evaluated self/argument during speculative overload matching (spec
// §4.1's "construct a provisional Call expression over ValueExpr
// placeholders"), and the vehicle Clone uses to splice a realized
// callee back into a cloned tree.
type ValueExpr struct {
	Value types.Value
}

func (e *ValueExpr) ResolveTypes() *diag.Error { return nil }

func (e *ValueExpr) GetType() (*types.Type, *diag.Error) { return e.Value.Type, nil }

func (e *ValueExpr) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	return e.Value, nil
}

func (e *ValueExpr) Clone(ref *types.CloneRef) Expr {
	return &ValueExpr{Value: types.Value{IR: e.Value.IR, Type: e.Value.Type.Clone(ref)}}
}
