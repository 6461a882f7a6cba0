package stmt

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// VarDecl is `let name = init` or `var name = init` (spec §6's
// grammar): declares a fresh Slot, sized by Init's type, and stores
// Init's value into it. Slot.Const distinguishes `let` from `var`;
// Assign rejects writes to a const slot.
type VarDecl struct {
	Range loc.Range
	Slot  *types.Slot
	Init  expr.Expr
}

func (s *VarDecl) ResolveTypes() *diag.Error {
	if err := s.Init.ResolveTypes(); err != nil {
		return err
	}
	t, err := s.Init.GetType()
	if err != nil {
		return err
	}
	if s.Slot.Type != nil && !s.Slot.Type.Is(t) {
		return errAt("%s: declared %s, initialized with %s", s.Slot.Name, s.Slot.Type, t)
	}
	s.Slot.Type = t
	return nil
}

func (s *VarDecl) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	v, err := s.Init.CodeGen(u, cur)
	if err != nil {
		return err
	}
	alloc := types.NewSlot(u, emit.At(cur.Preamble), s.Slot.Name, s.Slot.Type)
	s.Slot.Addr = alloc.Addr
	s.Slot.Store(cur, v)
	return nil
}

func (s *VarDecl) Clone(ref *types.CloneRef) Stmt {
	return &VarDecl{Range: s.Range, Slot: s.Slot.Clone(ref), Init: s.Init.Clone(ref)}
}
