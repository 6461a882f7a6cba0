package expr

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

func voidConst() *constant.ZeroInitializer { return constant.NewZeroInitializer(irtypes.Void) }

// Cond is `if e1 then e2 else e3` (spec §4.2): both branches must agree
// on type, and the expression's value is merged across them using the
// alloca+store+load idiom (no LLVM phi node — see BOp's short-circuit
// codegen for the same choice and its grounding).
type Cond struct {
	Range              loc.Range
	Test, Then, Else Expr

	typ *types.Type
}

func (e *Cond) ResolveTypes() *diag.Error {
	if err := e.Test.ResolveTypes(); err != nil {
		return err
	}
	if err := e.Then.ResolveTypes(); err != nil {
		return err
	}
	if err := e.Else.ResolveTypes(); err != nil {
		return err
	}
	tt, err := e.Test.GetType()
	if err != nil {
		return err
	}
	if tt.Kind != types.Bool {
		return errAt("if condition must be Bool, have %s", tt)
	}
	lt, err := e.Then.GetType()
	if err != nil {
		return err
	}
	rt, err := e.Else.GetType()
	if err != nil {
		return err
	}
	if !lt.Is(rt) {
		return errAt("if branches disagree: %s vs %s", lt, rt)
	}
	e.typ = lt
	return nil
}

func (e *Cond) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *Cond) Clone(ref *types.CloneRef) Expr {
	return &Cond{Range: e.Range, Test: e.Test.Clone(ref), Then: e.Then.Clone(ref), Else: e.Else.Clone(ref)}
}

func (e *Cond) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	tv, err := e.Test.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	fn := cur.Block.Parent
	thenBB := fn.NewBlock("")
	elseBB := fn.NewBlock("")
	merge := fn.NewBlock("")
	cur.Block.NewCondBr(tv.IR, thenBB, elseBB)

	if e.typ.Kind == types.Void {
		tcur := &emit.Cursor{Block: thenBB, Preamble: cur.Preamble}
		if _, err := e.Then.CodeGen(u, tcur); err != nil {
			return types.Value{}, err
		}
		tcur.Block.NewBr(merge)
		ecur := &emit.Cursor{Block: elseBB, Preamble: cur.Preamble}
		if _, err := e.Else.CodeGen(u, ecur); err != nil {
			return types.Value{}, err
		}
		ecur.Block.NewBr(merge)
		cur.Block = merge
		return types.Value{IR: voidConst(), Type: e.typ}, nil
	}

	result := cur.Preamble.NewAlloca(e.typ.LLVMType())

	tcur := &emit.Cursor{Block: thenBB, Preamble: cur.Preamble}
	lv, err := e.Then.CodeGen(u, tcur)
	if err != nil {
		return types.Value{}, err
	}
	tcur.Block.NewStore(lv.IR, result)
	tcur.Block.NewBr(merge)

	ecur := &emit.Cursor{Block: elseBB, Preamble: cur.Preamble}
	rv, err := e.Else.CodeGen(u, ecur)
	if err != nil {
		return types.Value{}, err
	}
	ecur.Block.NewStore(rv.IR, result)
	ecur.Block.NewBr(merge)

	cur.Block = merge
	v := merge.NewLoad(e.typ.LLVMType(), result)
	return types.Value{IR: v, Type: e.typ}, nil
}
