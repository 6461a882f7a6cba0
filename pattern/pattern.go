// Package pattern implements spec §4.3's match-pattern contract: the
// external, minimally-enumerated concern a Match expression (package
// expr) drives through a small fixed interface. The core "neither
// enumerates variants nor requires exhaustiveness beyond the catch-all
// guarantee" (spec §4.3), so this package supplies only the concrete
// patterns the spec's worked scenarios need; additional kinds are
// purely additive.
package pattern

import (
	"github.com/llir/llvm/ir/constant"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/types"
)

func trueConst() *constant.Int { return constant.True }

// A Pattern is one arm's test against a Match's scrutinee (spec
// §4.3).
type Pattern interface {
	// ResolveTypes prepares the pattern against the scrutinee's static
	// type, e.g. checking a Literal pattern's value type matches.
	ResolveTypes(valueType *types.Type) *diag.Error

	// CodeGen emits the pattern's boolean test against value, binding
	// any names the pattern introduces into cur's function as a side
	// effect. The returned Value always has type Bool.
	CodeGen(u *emit.Unit, cur *emit.Cursor, valueType *types.Type, value types.Value) (types.Value, *diag.Error)

	// IsCatchAll reports whether this pattern always matches (spec §8
	// property 6's catch-all requirement).
	IsCatchAll() bool

	// Clone deep-copies the pattern under a generic-instantiation ref.
	Clone(ref *types.CloneRef) Pattern
}

// Wildcard is the unconditional catch-all pattern ("_").
type Wildcard struct{}

func (Wildcard) ResolveTypes(*types.Type) *diag.Error { return nil }

func (Wildcard) CodeGen(u *emit.Unit, cur *emit.Cursor, _ *types.Type, _ types.Value) (types.Value, *diag.Error) {
	return types.Value{IR: trueConst(), Type: types.BoolT()}, nil
}

func (Wildcard) IsCatchAll() bool { return true }

func (Wildcard) Clone(*types.CloneRef) Pattern { return Wildcard{} }

// Bind is a catch-all pattern that also binds the scrutinee's value to
// a named Slot, for use by the arm body (e.g. `x` in a match arm).
type Bind struct {
	Slot *types.Slot
}

func NewBind(name string) *Bind { return &Bind{Slot: &types.Slot{Name: name}} }

func (p *Bind) ResolveTypes(valueType *types.Type) *diag.Error {
	p.Slot.Type = valueType
	return nil
}

func (p *Bind) CodeGen(u *emit.Unit, cur *emit.Cursor, _ *types.Type, value types.Value) (types.Value, *diag.Error) {
	if p.Slot.Addr.IR == nil {
		s := types.NewSlot(u, emit.At(cur.Preamble), p.Slot.Name, p.Slot.Type)
		p.Slot.Addr = s.Addr
	}
	p.Slot.Store(cur, value)
	return types.Value{IR: trueConst(), Type: types.BoolT()}, nil
}

func (p *Bind) IsCatchAll() bool { return true }

func (p *Bind) Clone(ref *types.CloneRef) Pattern {
	return &Bind{Slot: p.Slot.Clone(ref)}
}

// Literal matches the scrutinee against a fixed constant value (spec
// §8 S3's `1 → "a"` arm): the test is the scrutinee type's `__eq__`
// against the literal.
type Literal struct {
	Value types.Value
}

func (p *Literal) ResolveTypes(valueType *types.Type) *diag.Error {
	if !valueType.Is(p.Value.Type) {
		return diag.New(p.Value.Type.Loc(nil), "pattern type %s does not match scrutinee type %s", p.Value.Type, valueType)
	}
	return nil
}

func (p *Literal) CodeGen(u *emit.Unit, cur *emit.Cursor, valueType *types.Type, value types.Value) (types.Value, *diag.Error) {
	return valueType.CallMagic(u, cur, "__eq__", []*types.Type{p.Value.Type}, value, []types.Value{p.Value})
}

func (p *Literal) IsCatchAll() bool { return false }

func (p *Literal) Clone(*types.CloneRef) Pattern {
	return &Literal{Value: p.Value}
}
