package expr

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// Opt wraps Inner's value in Optional(T) with the present flag set
// (spec §4.2): `some(x)` syntax lowers to this node.
type Opt struct {
	Range loc.Range
	Inner Expr

	typ *types.Type
}

func (e *Opt) ResolveTypes() *diag.Error {
	if err := e.Inner.ResolveTypes(); err != nil {
		return err
	}
	it, err := e.Inner.GetType()
	if err != nil {
		return err
	}
	e.typ = &types.Type{Kind: types.Optional, Name: "Optional", Elem: it}
	return nil
}

func (e *Opt) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *Opt) Clone(ref *types.CloneRef) Expr {
	return &Opt{Range: e.Range, Inner: e.Inner.Clone(ref)}
}

func (e *Opt) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	iv, err := e.Inner.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	agg := constant.NewZeroInitializer(e.typ.LLVMType())
	v := cur.Block.NewInsertValue(agg, constant.NewInt(irtypes.I1, 1), 0)
	v2 := cur.Block.NewInsertValue(v, iv.IR, 1)
	return types.Value{IR: v2, Type: e.typ}, nil
}

// Default synthesizes Type's default value (spec §4.2): for Optional(T)
// this is the empty/none value (the present flag's zero bit), for other
// types it is the type's ordinary zero value or `__default__` magic
// result (types.Type.DefaultValue).
type Default struct {
	Range loc.Range
	Type  *types.Type
}

func (e *Default) ResolveTypes() *diag.Error { return nil }

func (e *Default) GetType() (*types.Type, *diag.Error) { return e.Type, nil }

func (e *Default) Clone(ref *types.CloneRef) Expr {
	return &Default{Range: e.Range, Type: e.Type.Clone(ref)}
}

func (e *Default) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	return e.Type.DefaultValue(u, cur)
}
