package stmt

import (
	"github.com/llir/llvm/ir"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// loopFrame is the break/continue target pair a loop statement
// forward-declares before compiling its body (spec §4.6's
// addBreak/addContinue, setBreaks/setContinues, modeled the way
// expr.Cond and expr.Match forward-declare their merge block: since
// header and exit are known before the body is emitted, Break/Continue
// branch straight to them — there is nothing left to patch afterward).
type loopFrame struct {
	header *ir.Block
	exit   *ir.Block
}

func (lf *loopFrame) branchBreak(cur *emit.Cursor)    { cur.Block.NewBr(lf.exit) }
func (lf *loopFrame) branchContinue(cur *emit.Cursor) { cur.Block.NewBr(lf.header) }

// clone registers dst as lf's clone in ref, so that Break/Continue
// statements cloned afterwards under the same ref resolve to dst.
func (lf *loopFrame) clone(ref *types.CloneRef, dst *loopFrame) {
	ref.Loops[lf] = dst
}

func resolveLoopFrame(ref *types.CloneRef, lf *loopFrame) *loopFrame {
	if lf == nil {
		return nil
	}
	if c, ok := ref.Loops[lf]; ok {
		return c.(*loopFrame)
	}
	return lf
}

// While is `while cond ... end` (spec §6's grammar).
type While struct {
	Range loc.Range
	Cond  expr.Expr
	Body  *Block

	loopFrame
}

func (s *While) ResolveTypes() *diag.Error {
	if err := s.Cond.ResolveTypes(); err != nil {
		return err
	}
	ct, err := s.Cond.GetType()
	if err != nil {
		return err
	}
	if ct.Kind != types.Bool {
		return errAt("while condition must be Bool, have %s", ct)
	}
	return s.Body.ResolveTypes()
}

func (s *While) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	fn := cur.Block.Parent
	s.header = fn.NewBlock("")
	body := fn.NewBlock("")
	s.exit = fn.NewBlock("")
	cur.Block.NewBr(s.header)

	hcur := &emit.Cursor{Block: s.header, Preamble: cur.Preamble}
	cv, err := s.Cond.CodeGen(u, hcur)
	if err != nil {
		return err
	}
	hcur.Block.NewCondBr(cv.IR, body, s.exit)

	bcur := &emit.Cursor{Block: body, Preamble: cur.Preamble}
	if err := s.Body.CodeGen(u, bcur); err != nil {
		return err
	}
	bcur.Block.NewBr(s.header)

	cur.Block = s.exit
	return nil
}

func (s *While) Clone(ref *types.CloneRef) Stmt {
	n := &While{Range: s.Range, Cond: s.Cond.Clone(ref)}
	s.loopFrame.clone(ref, &n.loopFrame)
	n.Body = s.Body.Clone(ref).(*Block)
	return n
}

// Range is the `range` statement (spec §6's grammar): iterates the
// elements a Generator(T)-typed Source expression promises, binding
// Var to each in turn. Its driver loop is expr.Pipe's resume/done/
// promise/destroy idiom (spec §4.5), reused here as a statement rather
// than a pipeline stage's feed.
type Range struct {
	Range  loc.Range
	Var    *types.Slot
	Source expr.Expr
	Body   *Block

	loopFrame
}

func (s *Range) ResolveTypes() *diag.Error {
	if err := s.Source.ResolveTypes(); err != nil {
		return err
	}
	st, err := s.Source.GetType()
	if err != nil {
		return err
	}
	if st.Kind != types.Generator {
		return errAt("range: source must be a Generator, have %s", st)
	}
	if !s.Var.Type.Is(st.Elem) {
		return errAt("range: loop variable is %s, source produces %s", s.Var.Type, st.Elem)
	}
	return s.Body.ResolveTypes()
}

func (s *Range) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	genVal, err := s.Source.CodeGen(u, cur)
	if err != nil {
		return err
	}
	genType := genVal.Type

	fn := cur.Block.Parent
	s.header = fn.NewBlock("")
	body := fn.NewBlock("")
	cleanup := fn.NewBlock("")
	s.exit = fn.NewBlock("")
	cur.Block.NewBr(s.header)

	hcur := &emit.Cursor{Block: s.header, Preamble: cur.Preamble}
	if _, err := genType.CallMethod(u, hcur, "resume", genVal, nil); err != nil {
		return err
	}
	doneVal, err := genType.CallMethod(u, hcur, "done", genVal, nil)
	if err != nil {
		return err
	}
	hcur.Block.NewCondBr(doneVal.IR, cleanup, body)

	bcur := &emit.Cursor{Block: body, Preamble: cur.Preamble}
	if genType.Elem.Kind != types.Void {
		elemVal, err := genType.CallMethod(u, bcur, "promise", genVal, nil)
		if err != nil {
			return err
		}
		if s.Var.Addr.IR == nil {
			alloc := types.NewSlot(u, emit.At(cur.Preamble), s.Var.Name, s.Var.Type)
			s.Var.Addr = alloc.Addr
		}
		s.Var.Store(bcur, elemVal)
	}
	if err := s.Body.CodeGen(u, bcur); err != nil {
		return err
	}
	bcur.Block.NewBr(s.header)

	ccur := &emit.Cursor{Block: cleanup, Preamble: cur.Preamble}
	if _, err := genType.CallMethod(u, ccur, "destroy", genVal, nil); err != nil {
		return err
	}
	ccur.Block.NewBr(s.exit)

	cur.Block = s.exit
	return nil
}

func (s *Range) Clone(ref *types.CloneRef) Stmt {
	n := &Range{
		Range:  s.Range,
		Var:    s.Var.Clone(ref),
		Source: s.Source.Clone(ref),
	}
	s.loopFrame.clone(ref, &n.loopFrame)
	n.Body = s.Body.Clone(ref).(*Block)
	return n
}

// Source is a pipeline used purely for side effect, as a bare statement
// (SPEC_FULL §4's supplemented feature): `range(3) |> print` on its own
// line. It reuses expr.Pipe's lowering verbatim and discards whatever
// value, if any, the pipe produces.
type Source struct {
	Range loc.Range
	Pipe  *expr.Pipe
}

func (s *Source) ResolveTypes() *diag.Error { return s.Pipe.ResolveTypes() }

func (s *Source) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	_, err := s.Pipe.CodeGen(u, cur)
	return err
}

func (s *Source) Clone(ref *types.CloneRef) Stmt {
	return &Source{Range: s.Range, Pipe: s.Pipe.Clone(ref).(*expr.Pipe)}
}
