package expr

import (
	"github.com/llir/llvm/ir/constant"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// ArrayExpr is `Array(T, n)` (spec §4.2): allocates n elements of T
// and returns the {length, data pointer, capacity} array triple.
type ArrayExpr struct {
	Range loc.Range
	Elem  *types.Type
	Count Expr

	typ *types.Type
}

func (e *ArrayExpr) ResolveTypes() *diag.Error {
	if err := e.Count.ResolveTypes(); err != nil {
		return err
	}
	t, err := e.Count.GetType()
	if err != nil {
		return err
	}
	if t.Kind != types.Int {
		return errAt("array count must be Int, got %s", t)
	}
	e.typ = &types.Type{Kind: types.Array, Name: "Array", Elem: e.Elem}
	return nil
}

func (e *ArrayExpr) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *ArrayExpr) Clone(ref *types.CloneRef) Expr {
	return &ArrayExpr{Range: e.Range, Elem: e.Elem.Clone(ref), Count: e.Count.Clone(ref)}
}

func (e *ArrayExpr) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	count, err := e.Count.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	data, err := e.Elem.Alloc(u, cur, count)
	if err != nil {
		return types.Value{}, err
	}
	agg := constant.NewZeroInitializer(e.typ.LLVMType())
	v := cur.Block.NewInsertValue(agg, count.IR, 0)
	v = cur.Block.NewInsertValue(v, data.IR, 1)
	v = cur.Block.NewInsertValue(v, count.IR, 2)
	return types.Value{IR: v, Type: e.typ}, nil
}

// RecordExpr builds a Record(T..., names?) value (spec §4.2): a
// zero-initialized aggregate with each element inserted in turn. Names[i] is "" for a
// positional (tuple-like) record. cur.Block is re-read after every
// child CodeGen before the next insert-value, since child emission may
// have repointed it to a new successor block.
type RecordExpr struct {
	Range loc.Range
	Elems []Expr
	Names []string

	typ *types.Type
}

func (e *RecordExpr) ResolveTypes() *diag.Error {
	for _, el := range e.Elems {
		if err := el.ResolveTypes(); err != nil {
			return err
		}
	}
	fields := make([]types.Field, len(e.Elems))
	for i, el := range e.Elems {
		t, err := el.GetType()
		if err != nil {
			return err
		}
		var name string
		if i < len(e.Names) {
			name = e.Names[i]
		}
		fields[i] = types.Field{Name: name, Type: t}
	}
	e.typ = &types.Type{Kind: types.Record, Name: "Record", Fields: fields}
	return nil
}

func (e *RecordExpr) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *RecordExpr) Clone(ref *types.CloneRef) Expr {
	elems := make([]Expr, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.Clone(ref)
	}
	return &RecordExpr{Range: e.Range, Elems: elems, Names: e.Names}
}

func (e *RecordExpr) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	agg := constant.NewZeroInitializer(e.typ.LLVMType())
	var v = types.Value{IR: agg}
	for i, el := range e.Elems {
		ev, err := el.CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		v.IR = cur.Block.NewInsertValue(v.IR, ev.IR, uint64(i))
	}
	return types.Value{IR: v.IR, Type: e.typ}, nil
}
