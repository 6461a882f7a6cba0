package expr

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// ListExpr, SetExpr, and DictExpr are the Language's built-in
// collection literals (spec §4.2). Each requires at least one element
// (or pair) to infer its element type(s); later elements must
// structurally match the first, else a typed error names both. The
// realized List(T)/Set(T)/Dict(K,V) instance is constructed via its
// zero-arg __new__, then populated one element at a time through its
// append/add/__setitem__ magic.
type ListExpr struct {
	Range loc.Range
	Elems []Expr

	typ *types.Type
}

func (e *ListExpr) ResolveTypes() *diag.Error {
	if len(e.Elems) == 0 {
		return errAt("cannot infer element type of an empty list literal")
	}
	for _, el := range e.Elems {
		if err := el.ResolveTypes(); err != nil {
			return err
		}
	}
	elemType, err := e.Elems[0].GetType()
	if err != nil {
		return err
	}
	for _, el := range e.Elems[1:] {
		t, err := el.GetType()
		if err != nil {
			return err
		}
		if !elemType.Is(t) {
			return errAt("list element type mismatch: %s and %s", elemType, t)
		}
	}
	e.typ = types.RealizeList(elemType)
	return nil
}

func (e *ListExpr) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *ListExpr) Clone(ref *types.CloneRef) Expr {
	elems := make([]Expr, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.Clone(ref)
	}
	return &ListExpr{Range: e.Range, Elems: elems}
}

func (e *ListExpr) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	self, err := e.typ.CallMagic(u, cur, "__new__", nil, types.Value{}, nil)
	if err != nil {
		return types.Value{}, err
	}
	for _, el := range e.Elems {
		v, err := el.CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		if _, err := e.typ.CallMethod(u, cur, "append", self, []types.Value{v}); err != nil {
			return types.Value{}, err
		}
	}
	return self, nil
}

type SetExpr struct {
	Range loc.Range
	Elems []Expr

	typ *types.Type
}

func (e *SetExpr) ResolveTypes() *diag.Error {
	if len(e.Elems) == 0 {
		return errAt("cannot infer element type of an empty set literal")
	}
	for _, el := range e.Elems {
		if err := el.ResolveTypes(); err != nil {
			return err
		}
	}
	elemType, err := e.Elems[0].GetType()
	if err != nil {
		return err
	}
	for _, el := range e.Elems[1:] {
		t, err := el.GetType()
		if err != nil {
			return err
		}
		if !elemType.Is(t) {
			return errAt("set element type mismatch: %s and %s", elemType, t)
		}
	}
	e.typ = types.RealizeSet(elemType)
	return nil
}

func (e *SetExpr) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *SetExpr) Clone(ref *types.CloneRef) Expr {
	elems := make([]Expr, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.Clone(ref)
	}
	return &SetExpr{Range: e.Range, Elems: elems}
}

func (e *SetExpr) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	self, err := e.typ.CallMagic(u, cur, "__new__", nil, types.Value{}, nil)
	if err != nil {
		return types.Value{}, err
	}
	for _, el := range e.Elems {
		v, err := el.CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		if _, err := e.typ.CallMethod(u, cur, "add", self, []types.Value{v}); err != nil {
			return types.Value{}, err
		}
	}
	return self, nil
}

// A DictPair is one `key: value` entry of a DictExpr literal.
type DictPair struct {
	Key Expr
	Val Expr
}

type DictExpr struct {
	Range loc.Range
	Pairs []DictPair

	typ *types.Type
}

func (e *DictExpr) ResolveTypes() *diag.Error {
	if len(e.Pairs) == 0 {
		return errAt("cannot infer key/value types of an empty dict literal")
	}
	for _, p := range e.Pairs {
		if err := p.Key.ResolveTypes(); err != nil {
			return err
		}
		if err := p.Val.ResolveTypes(); err != nil {
			return err
		}
	}
	keyType, err := e.Pairs[0].Key.GetType()
	if err != nil {
		return err
	}
	valType, err := e.Pairs[0].Val.GetType()
	if err != nil {
		return err
	}
	for _, p := range e.Pairs[1:] {
		k, err := p.Key.GetType()
		if err != nil {
			return err
		}
		if !keyType.Is(k) {
			return errAt("dict key type mismatch: %s and %s", keyType, k)
		}
		v, err := p.Val.GetType()
		if err != nil {
			return err
		}
		if !valType.Is(v) {
			return errAt("dict value type mismatch: %s and %s", valType, v)
		}
	}
	e.typ = types.RealizeDict(keyType, valType)
	return nil
}

func (e *DictExpr) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *DictExpr) Clone(ref *types.CloneRef) Expr {
	pairs := make([]DictPair, len(e.Pairs))
	for i, p := range e.Pairs {
		pairs[i] = DictPair{Key: p.Key.Clone(ref), Val: p.Val.Clone(ref)}
	}
	return &DictExpr{Range: e.Range, Pairs: pairs}
}

func (e *DictExpr) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	self, err := e.typ.CallMagic(u, cur, "__new__", nil, types.Value{}, nil)
	if err != nil {
		return types.Value{}, err
	}
	for _, p := range e.Pairs {
		k, err := p.Key.CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		v, err := p.Val.CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		args := []*types.Type{k.Type, v.Type}
		if _, err := e.typ.CallMagic(u, cur, "__setitem__", args, self, []types.Value{k, v}); err != nil {
			return types.Value{}, err
		}
	}
	return self, nil
}
