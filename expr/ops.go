package expr

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// UOp is a prefix operator expression: `- + ~ !` (spec §4.2).
type UOp struct {
	Range   loc.Range
	Sym     string
	Operand Expr

	typ *types.Type
}

func (e *UOp) ResolveTypes() *diag.Error {
	if err := e.Operand.ResolveTypes(); err != nil {
		return err
	}
	t, err := e.Operand.GetType()
	if err != nil {
		return err
	}
	out, err := types.UnOpOut(e.Sym, t)
	if err != nil {
		return err
	}
	e.typ = out
	return nil
}

func (e *UOp) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *UOp) Clone(ref *types.CloneRef) Expr {
	return &UOp{Range: e.Range, Sym: e.Sym, Operand: e.Operand.Clone(ref)}
}

func (e *UOp) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	v, err := e.Operand.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	return types.UnOpEmit(u, cur, e.Sym, v)
}

// BOp is a binary operator expression (spec §4.2, §4.1's reflected
// dispatch). `&&` and `||` are short-circuited directly at the IR
// level rather than dispatched through magic (spec §4.2/§4.3): they
// branch around evaluating the right operand.
type BOp struct {
	Range       loc.Range
	Sym         string
	Left, Right Expr

	typ *types.Type
}

func (e *BOp) isShortCircuit() bool { return e.Sym == "&&" || e.Sym == "||" }

func (e *BOp) ResolveTypes() *diag.Error {
	if err := e.Left.ResolveTypes(); err != nil {
		return err
	}
	if err := e.Right.ResolveTypes(); err != nil {
		return err
	}
	lt, err := e.Left.GetType()
	if err != nil {
		return err
	}
	rt, err := e.Right.GetType()
	if err != nil {
		return err
	}
	if e.isShortCircuit() {
		if lt.Kind != types.Bool || rt.Kind != types.Bool {
			return errAt("operator %q requires Bool operands, got %s and %s", e.Sym, lt, rt)
		}
		e.typ = types.BoolT()
		return nil
	}
	out, err := types.BinOpOut(e.Sym, lt, rt)
	if err != nil {
		return err
	}
	e.typ = out
	return nil
}

func (e *BOp) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *BOp) Clone(ref *types.CloneRef) Expr {
	return &BOp{Range: e.Range, Sym: e.Sym, Left: e.Left.Clone(ref), Right: e.Right.Clone(ref)}
}

func (e *BOp) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	if e.isShortCircuit() {
		return e.codeGenShortCircuit(u, cur)
	}
	lv, err := e.Left.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	rv, err := e.Right.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	return types.BinOpEmit(u, cur, e.Sym, lv, rv)
}

// codeGenShortCircuit implements spec §4.3's forward-declare-then-
// backpatch discipline: it creates the successor blocks (rhs and
// merge) before emitting the right operand, since evaluating it may
// itself introduce further blocks. The two branches' results are
// merged through a preamble alloca (store-then-load), the same pattern
// this frontend's other branch-merging constructs use rather than a
// raw IR phi.
func (e *BOp) codeGenShortCircuit(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	lv, err := e.Left.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	fn := cur.Block.Parent
	rhs := fn.NewBlock("")
	merge := fn.NewBlock("")
	lhsBlock := cur.Block
	result := cur.Preamble.NewAlloca(types.BoolT().LLVMType())
	lhsBlock.NewStore(lv.IR, result)
	if e.Sym == "&&" {
		lhsBlock.NewCondBr(lv.IR, rhs, merge)
	} else {
		lhsBlock.NewCondBr(lv.IR, merge, rhs)
	}
	rcur := &emit.Cursor{Block: rhs, Preamble: cur.Preamble}
	rv, err := e.Right.CodeGen(u, rcur)
	if err != nil {
		return types.Value{}, err
	}
	rcur.Block.NewStore(rv.IR, result)
	rcur.Block.NewBr(merge)
	cur.Block = merge
	v := merge.NewLoad(types.BoolT().LLVMType(), result)
	return types.Value{IR: v, Type: types.BoolT()}, nil
}
