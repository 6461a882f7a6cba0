package expr

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// Var loads from a lexically-bound storage slot (spec §4.2): the slot
// a VarDecl, function parameter, or Bind pattern already allocated.
type Var struct {
	Range loc.Range
	Slot  *types.Slot
}

func (e *Var) ResolveTypes() *diag.Error             { return nil }
func (e *Var) GetType() (*types.Type, *diag.Error)   { return e.Slot.Type, nil }
func (e *Var) Clone(ref *types.CloneRef) Expr {
	return &Var{Range: e.Range, Slot: types.ResolveSlot(ref, e.Slot)}
}
func (e *Var) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	return e.Slot.Load(cur), nil
}

// Func references a (possibly generic) free function (spec §4.2). If
// TypeArgs is non-empty it realizes eagerly during ResolveTypes; if Fn
// is already monomorphic, Realized is set directly. Otherwise Func
// stays generic and Realized is left nil until call-site deduction
// (spec §4.4 case 1) mutates it in place.
type Func struct {
	Range    loc.Range
	Fn       types.Callable
	TypeArgs []*types.Type

	Realized types.Callable
}

// IsGenericUnrealized reports whether e is still awaiting call-site
// deduction (spec §4.4 case 1's trigger condition).
func (e *Func) IsGenericUnrealized() bool { return e.Realized == nil && e.Fn.IsGeneric() }

func (e *Func) ResolveTypes() *diag.Error {
	if e.Realized != nil {
		return nil
	}
	if len(e.TypeArgs) > 0 {
		if !e.Fn.IsGeneric() {
			return errAt("function is not generic: cannot supply explicit type arguments")
		}
		r, err := e.Fn.Realize(e.TypeArgs)
		if err != nil {
			return err
		}
		e.Realized = r
		return nil
	}
	if !e.Fn.IsGeneric() {
		e.Realized = e.Fn
	}
	return nil
}

func (e *Func) GetType() (*types.Type, *diag.Error) {
	if e.Realized == nil {
		return nil, errAt("generic function used without type arguments to deduce them")
	}
	return types.FuncType(e.Realized), nil
}

func (e *Func) Clone(ref *types.CloneRef) Expr {
	n := &Func{Range: e.Range, Fn: e.Fn, TypeArgs: e.TypeArgs}
	if len(e.TypeArgs) > 0 {
		n.TypeArgs = make([]*types.Type, len(e.TypeArgs))
		for i, t := range e.TypeArgs {
			n.TypeArgs[i] = t.Clone(ref)
		}
	}
	return n
}

func (e *Func) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	if e.Realized == nil {
		return types.Value{}, errAt("generic function used without type arguments to deduce them")
	}
	return e.Realized.FuncValue(u), nil
}

// Method binds a receiver to a method, the realized callee form
// call-site deduction (spec §4.4 cases 4/5) produces in place of a
// GetElem whose member resolves to a generic method. Like ops.go's
// Memb for an unbound method reference, its CodeGen never materializes
// a runtime Method-struct value — Call's codegen special-cases a
// *Method callee and invokes Fn directly against the evaluated
// receiver, so the nil-IR placeholder Value GetType/CodeGen produce
// here is only ever consumed for its Type.
type Method struct {
	Range    loc.Range
	Receiver Expr
	Name     string
	Fn       types.Callable
	TypeArgs []*types.Type

	Realized types.Callable
}

func (e *Method) IsGenericUnrealized() bool { return e.Realized == nil && e.Fn.IsGeneric() }

func (e *Method) ResolveTypes() *diag.Error {
	if err := e.Receiver.ResolveTypes(); err != nil {
		return err
	}
	if e.Realized != nil {
		return nil
	}
	if len(e.TypeArgs) > 0 {
		if !e.Fn.IsGeneric() {
			return errAt("method %s is not generic: cannot supply explicit type arguments", e.Name)
		}
		r, err := e.Fn.Realize(e.TypeArgs)
		if err != nil {
			return err
		}
		e.Realized = r
		return nil
	}
	if !e.Fn.IsGeneric() {
		e.Realized = e.Fn
	}
	return nil
}

func (e *Method) GetType() (*types.Type, *diag.Error) {
	recvType, err := e.Receiver.GetType()
	if err != nil {
		return nil, err
	}
	if e.Realized == nil {
		return nil, errAt("generic method %s used without type arguments to deduce them", e.Name)
	}
	return &types.Type{Kind: types.Method, Name: "Method", Self: recvType, Sig: types.FuncType(e.Realized)}, nil
}

func (e *Method) Clone(ref *types.CloneRef) Expr {
	n := &Method{Range: e.Range, Receiver: e.Receiver.Clone(ref), Name: e.Name, Fn: e.Fn, TypeArgs: e.TypeArgs}
	if len(e.TypeArgs) > 0 {
		n.TypeArgs = make([]*types.Type, len(e.TypeArgs))
		for i, t := range e.TypeArgs {
			n.TypeArgs[i] = t.Clone(ref)
		}
	}
	return n
}

func (e *Method) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	t, err := e.GetType()
	if err != nil {
		return types.Value{}, err
	}
	return types.Value{Type: t}, nil
}
