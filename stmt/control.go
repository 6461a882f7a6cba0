package stmt

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// If is `if cond then-block [elif cond block]... [else block] end`
// (spec §6's grammar). Unlike expr.Cond, branches need not agree on any
// type. Then is required; Else may be absent (an absent Else falls
// through to the merge block directly).
type If struct {
	Range loc.Range
	Cond  expr.Expr
	Then  *Block
	Else  Stmt // *If (elif chain), *Block, or nil
}

func (s *If) ResolveTypes() *diag.Error {
	if err := s.Cond.ResolveTypes(); err != nil {
		return err
	}
	ct, err := s.Cond.GetType()
	if err != nil {
		return err
	}
	if ct.Kind != types.Bool {
		return errAt("if condition must be Bool, have %s", ct)
	}
	if err := s.Then.ResolveTypes(); err != nil {
		return err
	}
	if s.Else != nil {
		return s.Else.ResolveTypes()
	}
	return nil
}

func (s *If) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	cv, err := s.Cond.CodeGen(u, cur)
	if err != nil {
		return err
	}
	fn := cur.Block.Parent
	thenBB := fn.NewBlock("")
	merge := fn.NewBlock("")
	elseBB := merge
	if s.Else != nil {
		elseBB = fn.NewBlock("")
	}
	cur.Block.NewCondBr(cv.IR, thenBB, elseBB)

	tcur := &emit.Cursor{Block: thenBB, Preamble: cur.Preamble}
	if err := s.Then.CodeGen(u, tcur); err != nil {
		return err
	}
	tcur.Block.NewBr(merge)

	if s.Else != nil {
		ecur := &emit.Cursor{Block: elseBB, Preamble: cur.Preamble}
		if err := s.Else.CodeGen(u, ecur); err != nil {
			return err
		}
		ecur.Block.NewBr(merge)
	}

	cur.Block = merge
	return nil
}

func (s *If) Clone(ref *types.CloneRef) Stmt {
	n := &If{Range: s.Range, Cond: s.Cond.Clone(ref), Then: s.Then.Clone(ref).(*Block)}
	if s.Else != nil {
		n.Else = s.Else.Clone(ref)
	}
	return n
}

// Return is `return [value]` (spec §6's grammar). Out is the enclosing
// function's return type (types.VoidT for a Void-returning function);
// a nil Out skips the return-type check.
type Return struct {
	Range loc.Range
	Value expr.Expr
	Out   *types.Type
}

func (s *Return) ResolveTypes() *diag.Error {
	if s.Value == nil {
		if s.Out != nil && s.Out.Kind != types.Void {
			return errAt("return: missing value, want %s", s.Out)
		}
		return nil
	}
	if err := s.Value.ResolveTypes(); err != nil {
		return err
	}
	vt, err := s.Value.GetType()
	if err != nil {
		return err
	}
	if s.Out != nil && !s.Out.Is(vt) {
		return errAt("return: have %s, want %s", vt, s.Out)
	}
	return nil
}

func (s *Return) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	if s.Value == nil {
		cur.Block.NewRet(nil)
		return nil
	}
	v, err := s.Value.CodeGen(u, cur)
	if err != nil {
		return err
	}
	cur.Block.NewRet(v.IR)
	return nil
}

func (s *Return) Clone(ref *types.CloneRef) Stmt {
	n := &Return{Range: s.Range, Out: s.Out}
	if s.Value != nil {
		n.Value = s.Value.Clone(ref)
	}
	return n
}

// Break is `break` (spec §4.6): resolves to the nearest enclosing
// loop's loopFrame, attached by whoever assembles the statement tree
// (spec §6's "the parser... attaches... before handing it over" — in
// the absence of a parser in this core, the attachment is the
// constructing code's responsibility, exactly as a recursive-descent
// parser would do it against its live loop stack).
type Break struct {
	Range loc.Range
	Loop  *loopFrame
}

func (s *Break) ResolveTypes() *diag.Error {
	if s.Loop == nil {
		return errAt("break outside loop")
	}
	return nil
}

func (s *Break) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	s.Loop.branchBreak(cur)
	return nil
}

func (s *Break) Clone(ref *types.CloneRef) Stmt {
	return &Break{Range: s.Range, Loop: resolveLoopFrame(ref, s.Loop)}
}

// Continue is `continue` (spec §4.6), the Break's structural twin.
type Continue struct {
	Range loc.Range
	Loop  *loopFrame
}

func (s *Continue) ResolveTypes() *diag.Error {
	if s.Loop == nil {
		return errAt("continue outside loop")
	}
	return nil
}

func (s *Continue) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	s.Loop.branchContinue(cur)
	return nil
}

func (s *Continue) Clone(ref *types.CloneRef) Stmt {
	return &Continue{Range: s.Range, Loop: resolveLoopFrame(ref, s.Loop)}
}
