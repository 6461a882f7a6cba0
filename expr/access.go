package expr

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// ArrayLookup is `a[i]` (spec §4.2): dispatches to __getitem__, except
// that a Record receiver indexed by an Int literal reads the i-th
// field directly, bypassing magic dispatch entirely.
type ArrayLookup struct {
	Range loc.Range
	Array Expr
	Index Expr

	typ *types.Type
}

func (e *ArrayLookup) ResolveTypes() *diag.Error {
	if err := e.Array.ResolveTypes(); err != nil {
		return err
	}
	if err := e.Index.ResolveTypes(); err != nil {
		return err
	}
	at, err := e.Array.GetType()
	if err != nil {
		return err
	}
	if at.Kind == types.Record {
		if lit, ok := e.Index.(*IntLit); ok {
			i := lit.Value.Int64()
			if i < 0 || int(i) >= len(at.Fields) {
				return errAt("record field index %d out of range", i)
			}
			e.typ = at.Fields[i].Type
			return nil
		}
	}
	it, err := e.Index.GetType()
	if err != nil {
		return err
	}
	out, err := at.MagicOut("__getitem__", []*types.Type{it})
	if err != nil {
		return err
	}
	e.typ = out
	return nil
}

func (e *ArrayLookup) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *ArrayLookup) Clone(ref *types.CloneRef) Expr {
	return &ArrayLookup{Range: e.Range, Array: e.Array.Clone(ref), Index: e.Index.Clone(ref)}
}

func (e *ArrayLookup) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	av, err := e.Array.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	if av.Type.Kind == types.Record {
		if lit, ok := e.Index.(*IntLit); ok {
			v := cur.Block.NewExtractValue(av.IR, uint64(lit.Value.Int64()))
			return types.Value{IR: v, Type: e.typ}, nil
		}
	}
	iv, err := e.Index.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	return av.Type.CallMagic(u, cur, "__getitem__", []*types.Type{iv.Type}, av, []types.Value{iv})
}

// ArraySlice is `a[lo:hi]`, with either bound optionally omitted (spec
// §4.2): dispatches to __copy__ (neither bound), __slice_left__ (only
// Low), __slice_right__ (only High), or __slice__ (both).
type ArraySlice struct {
	Range     loc.Range
	Array     Expr
	Low, High Expr

	typ *types.Type
}

func (e *ArraySlice) magicName() string {
	switch {
	case e.Low == nil && e.High == nil:
		return "__copy__"
	case e.Low != nil && e.High == nil:
		return "__slice_left__"
	case e.Low == nil && e.High != nil:
		return "__slice_right__"
	default:
		return "__slice__"
	}
}

func (e *ArraySlice) bounds() []Expr {
	var bs []Expr
	if e.Low != nil {
		bs = append(bs, e.Low)
	}
	if e.High != nil {
		bs = append(bs, e.High)
	}
	return bs
}

func (e *ArraySlice) ResolveTypes() *diag.Error {
	if err := e.Array.ResolveTypes(); err != nil {
		return err
	}
	at, err := e.Array.GetType()
	if err != nil {
		return err
	}
	var argTypes []*types.Type
	for _, b := range e.bounds() {
		if err := b.ResolveTypes(); err != nil {
			return err
		}
		t, err := b.GetType()
		if err != nil {
			return err
		}
		argTypes = append(argTypes, t)
	}
	out, err := at.MagicOut(e.magicName(), argTypes)
	if err != nil {
		return err
	}
	e.typ = out
	return nil
}

func (e *ArraySlice) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *ArraySlice) Clone(ref *types.CloneRef) Expr {
	n := &ArraySlice{Range: e.Range, Array: e.Array.Clone(ref)}
	if e.Low != nil {
		n.Low = e.Low.Clone(ref)
	}
	if e.High != nil {
		n.High = e.High.Clone(ref)
	}
	return n
}

func (e *ArraySlice) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	av, err := e.Array.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	var argTypes []*types.Type
	var args []types.Value
	for _, b := range e.bounds() {
		v, err := b.CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		argTypes = append(argTypes, v.Type)
		args = append(args, v)
	}
	return av.Type.CallMagic(u, cur, e.magicName(), argTypes, av, args)
}

// ArrayContains is `x in a` (spec §4.2): dispatches to __contains__,
// which must return Bool.
type ArrayContains struct {
	Range       loc.Range
	Elem, Array Expr

	typ *types.Type
}

func (e *ArrayContains) ResolveTypes() *diag.Error {
	if err := e.Elem.ResolveTypes(); err != nil {
		return err
	}
	if err := e.Array.ResolveTypes(); err != nil {
		return err
	}
	et, err := e.Elem.GetType()
	if err != nil {
		return err
	}
	at, err := e.Array.GetType()
	if err != nil {
		return err
	}
	out, err := at.MagicOut("__contains__", []*types.Type{et})
	if err != nil {
		return err
	}
	if out.Kind != types.Bool {
		return errAt("__contains__ on %s returned %s, not Bool", at, out)
	}
	e.typ = out
	return nil
}

func (e *ArrayContains) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *ArrayContains) Clone(ref *types.CloneRef) Expr {
	return &ArrayContains{Range: e.Range, Elem: e.Elem.Clone(ref), Array: e.Array.Clone(ref)}
}

func (e *ArrayContains) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	ev, err := e.Elem.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	av, err := e.Array.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	return av.Type.CallMagic(u, cur, "__contains__", []*types.Type{ev.Type}, av, []types.Value{ev})
}

// GetElem is `receiver.name` (spec §4.2): member access against a
// value, resolved through the receiver type's overloads → magic →
// methods → fields search order (types.Type.Memb).
type GetElem struct {
	Range    loc.Range
	Receiver Expr
	Name     string

	typ *types.Type
}

func (e *GetElem) ResolveTypes() *diag.Error {
	if err := e.Receiver.ResolveTypes(); err != nil {
		return err
	}
	rt, err := e.Receiver.GetType()
	if err != nil {
		return err
	}
	t, err := rt.MembType(e.Name)
	if err != nil {
		return err
	}
	e.typ = t
	return nil
}

func (e *GetElem) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *GetElem) Clone(ref *types.CloneRef) Expr {
	return &GetElem{Range: e.Range, Receiver: e.Receiver.Clone(ref), Name: e.Name}
}

func (e *GetElem) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	rv, err := e.Receiver.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	return rv.Type.Memb(u, cur, rv, e.Name)
}

// GetStaticElem is `Type.name` (spec §4.2): member access against a
// type rather than a value — no self binding, fields excluded.
type GetStaticElem struct {
	Range loc.Range
	Type  *types.Type
	Name  string

	typ *types.Type
}

func (e *GetStaticElem) ResolveTypes() *diag.Error {
	t, err := e.Type.StaticMembType(e.Name)
	if err != nil {
		return err
	}
	e.typ = t
	return nil
}

func (e *GetStaticElem) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *GetStaticElem) Clone(ref *types.CloneRef) Expr {
	return &GetStaticElem{Range: e.Range, Type: e.Type.Clone(ref), Name: e.Name}
}

func (e *GetStaticElem) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	return e.Type.StaticMemb(u, cur, e.Name)
}
