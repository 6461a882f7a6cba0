package stmt

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// An AssignTarget is the left-hand side of an Assign statement: a bare
// name (a lexical Slot) or a member access (spec §6's grammar "member
// assignment x.N = e").
type AssignTarget interface {
	resolveTypes() *diag.Error
	targetType() (*types.Type, *diag.Error)
	store(u *emit.Unit, cur *emit.Cursor, v types.Value) *diag.Error
	clone(ref *types.CloneRef) AssignTarget
}

// SlotTarget assigns directly to a lexically-bound storage slot.
type SlotTarget struct{ Slot *types.Slot }

func (t *SlotTarget) resolveTypes() *diag.Error {
	if t.Slot.Const {
		return errAt("cannot assign to %s: declared with let", t.Slot.Name)
	}
	return nil
}
func (t *SlotTarget) targetType() (*types.Type, *diag.Error) { return t.Slot.Type, nil }
func (t *SlotTarget) store(u *emit.Unit, cur *emit.Cursor, v types.Value) *diag.Error {
	t.Slot.Store(cur, v)
	return nil
}
func (t *SlotTarget) clone(ref *types.CloneRef) AssignTarget {
	return &SlotTarget{Slot: types.ResolveSlot(ref, t.Slot)}
}

// MemberTarget assigns to a field (`x.N = e`): Receiver is re-evaluated
// on every Assign, consistent with the member-access Expr side. A Ref
// receiver is updated in place; for a Record value the updated
// aggregate is stored back only when Receiver is a *expr.Var, and any
// other Record receiver is left unchanged.
type MemberTarget struct {
	Receiver expr.Expr
	Name     string
}

func (t *MemberTarget) resolveTypes() *diag.Error { return t.Receiver.ResolveTypes() }

func (t *MemberTarget) targetType() (*types.Type, *diag.Error) {
	rt, err := t.Receiver.GetType()
	if err != nil {
		return nil, err
	}
	return rt.MembType(t.Name)
}

func (t *MemberTarget) store(u *emit.Unit, cur *emit.Cursor, v types.Value) *diag.Error {
	rt, err := t.Receiver.GetType()
	if err != nil {
		return err
	}
	rv, err := t.Receiver.CodeGen(u, cur)
	if err != nil {
		return err
	}
	nv, err := rt.SetMemb(u, cur, rv, t.Name, v)
	if err != nil {
		return err
	}
	if rt.Kind != types.Ref {
		if vr, ok := t.Receiver.(*expr.Var); ok {
			vr.Slot.Store(cur, nv)
		}
	}
	return nil
}

func (t *MemberTarget) clone(ref *types.CloneRef) AssignTarget {
	return &MemberTarget{Receiver: t.Receiver.Clone(ref), Name: t.Name}
}

// Assign is `target = value` (spec §4.6's grammar contract).
type Assign struct {
	Range  loc.Range
	Target AssignTarget
	Value  expr.Expr
}

func (s *Assign) ResolveTypes() *diag.Error {
	if err := s.Target.resolveTypes(); err != nil {
		return err
	}
	if err := s.Value.ResolveTypes(); err != nil {
		return err
	}
	tt, err := s.Target.targetType()
	if err != nil {
		return err
	}
	vt, err := s.Value.GetType()
	if err != nil {
		return err
	}
	if !tt.Is(vt) {
		return errAt("assignment: have %s, want %s", vt, tt)
	}
	return nil
}

func (s *Assign) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	v, err := s.Value.CodeGen(u, cur)
	if err != nil {
		return err
	}
	return s.Target.store(u, cur, v)
}

func (s *Assign) Clone(ref *types.CloneRef) Stmt {
	return &Assign{Range: s.Range, Target: s.Target.clone(ref), Value: s.Value.Clone(ref)}
}
