package expr

import (
	"math/big"

	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// IntLit, FloatLit, and BoolLit are fixed-type literal leaves: their IR
// is a plain constant, no preamble global required.
//
// IntLit holds an arbitrary-precision Value (*big.Int rather than a
// pre-truncated machine word), since the digits a future parser reads
// are not bounded by the target's Int width at AST-construction time.
// Base records which literal form (2/8/10/16) produced Value, kept for
// pretty-printing only — CodeGen always truncates to the target's
// 64-bit Int.
type IntLit struct {
	Range loc.Range
	Value *big.Int
	Base  int
}

func (e *IntLit) ResolveTypes() *diag.Error           { return nil }
func (e *IntLit) GetType() (*types.Type, *diag.Error) { return types.IntT, nil }
func (e *IntLit) Clone(ref *types.CloneRef) Expr {
	return &IntLit{Range: e.Range, Value: e.Value, Base: e.Base}
}
func (e *IntLit) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	return types.Value{IR: constant.NewInt(irtypes.I64, e.Value.Int64()), Type: types.IntT}, nil
}

type FloatLit struct {
	Range loc.Range
	Value float64
}

func (e *FloatLit) ResolveTypes() *diag.Error           { return nil }
func (e *FloatLit) GetType() (*types.Type, *diag.Error) { return types.FloatT, nil }
func (e *FloatLit) Clone(ref *types.CloneRef) Expr {
	return &FloatLit{Range: e.Range, Value: e.Value}
}
func (e *FloatLit) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	return types.Value{IR: constant.NewFloat(irtypes.Double, e.Value), Type: types.FloatT}, nil
}

type BoolLit struct {
	Range loc.Range
	Value bool
}

func (e *BoolLit) ResolveTypes() *diag.Error           { return nil }
func (e *BoolLit) GetType() (*types.Type, *diag.Error) { return types.BoolT(), nil }
func (e *BoolLit) Clone(ref *types.CloneRef) Expr      { return &BoolLit{Range: e.Range, Value: e.Value} }
func (e *BoolLit) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	c := constant.False
	if e.Value {
		c = constant.True
	}
	return types.Value{IR: c, Type: types.BoolT()}, nil
}

// StrLit is a string literal (spec §4.2): its bytes are emitted once
// per module as a private immutable global, and codegen builds the
// runtime (pointer, length) pair by inserting into a zero-initialized
// Str aggregate.
type StrLit struct {
	Range loc.Range
	Value string
}

func (e *StrLit) ResolveTypes() *diag.Error           { return nil }
func (e *StrLit) GetType() (*types.Type, *diag.Error) { return types.StrT, nil }
func (e *StrLit) Clone(ref *types.CloneRef) Expr      { return &StrLit{Range: e.Range, Value: e.Value} }

func (e *StrLit) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	g := u.StringGlobal(e.Value)
	ptr := cur.Block.NewBitCast(g, irtypes.I8Ptr)
	agg := constant.NewZeroInitializer(types.StrT.LLVMType())
	v := cur.Block.NewInsertValue(agg, ptr, 0)
	v = cur.Block.NewInsertValue(v, constant.NewInt(irtypes.I64, int64(len(e.Value))), 1)
	return types.Value{IR: v, Type: types.StrT}, nil
}

// SeqLit is a literal sequence of constant-foldable elements (spec
// §4.2): like StrLit, its element data is emitted once per module as a
// private immutable global array, and codegen builds the (pointer,
// length) pair. Key must uniquely identify the element data so two
// identical literals share one global.
type SeqLit struct {
	Range loc.Range
	Elem  *types.Type
	Elems []constant.Constant
	Key   string
}

func (e *SeqLit) ResolveTypes() *diag.Error           { return nil }
func (e *SeqLit) GetType() (*types.Type, *diag.Error) { return types.SeqT, nil }
func (e *SeqLit) Clone(ref *types.CloneRef) Expr {
	return &SeqLit{Range: e.Range, Elem: e.Elem.Clone(ref), Elems: e.Elems, Key: e.Key}
}

func (e *SeqLit) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	g := u.SeqGlobal(e.Key, e.Elems, e.Elem.LLVMType())
	ptr := cur.Block.NewBitCast(g, irtypes.I8Ptr)
	agg := constant.NewZeroInitializer(types.SeqT.LLVMType())
	v := cur.Block.NewInsertValue(agg, ptr, 0)
	v = cur.Block.NewInsertValue(v, constant.NewInt(irtypes.I64, int64(len(e.Elems))), 1)
	return types.Value{IR: v, Type: types.SeqT}, nil
}
