package expr

import (
	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// Construct is `Type(args...)` applied to a Ref type (spec §4.2):
// allocation is always the built-in `__new__` (it can never be
// overridden — spec's vtable rule), fields are zero-initialized, then
// an optional user `__init__` overload runs with args, and — if the
// type defines `__del__` — a finalizer trampoline is synthesized and
// registered with the runtime so the object is destroyed when
// collected.
type Construct struct {
	Range loc.Range
	Type  *types.Type
	Args  []Expr
}

func (e *Construct) ResolveTypes() *diag.Error {
	if e.Type.Kind != types.Ref {
		return errAt("Construct requires a Ref type, have %s", e.Type)
	}
	for _, a := range e.Args {
		if err := a.ResolveTypes(); err != nil {
			return err
		}
	}
	if !e.Type.HasOverload("__init__") && len(e.Args) > 0 {
		return errAt("%s has no __init__ accepting %d arguments", e.Type, len(e.Args))
	}
	return nil
}

func (e *Construct) GetType() (*types.Type, *diag.Error) { return e.Type, nil }

func (e *Construct) Clone(ref *types.CloneRef) Expr {
	args := make([]Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.Clone(ref)
	}
	return &Construct{Range: e.Range, Type: e.Type.Clone(ref), Args: args}
}

func (e *Construct) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	self, err := e.Type.AllocSelf(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	for _, f := range e.Type.Fields {
		if f.Name == "" {
			continue
		}
		dv, err := f.Type.DefaultValue(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		if self, err = e.Type.SetMemb(u, cur, self, f.Name, dv); err != nil {
			return types.Value{}, err
		}
	}
	if e.Type.HasOverload("__init__") {
		argTypes := make([]*types.Type, len(e.Args))
		argVals := make([]types.Value, len(e.Args))
		for i, a := range e.Args {
			v, err := a.CodeGen(u, cur)
			if err != nil {
				return types.Value{}, err
			}
			argTypes[i] = v.Type
			argVals[i] = v
		}
		if _, err := e.Type.CallMagic(u, cur, "__init__", argTypes, self, argVals); err != nil {
			return types.Value{}, err
		}
	}
	if e.Type.HasOverload("__del__") {
		if err := registerFinalizer(u, cur, e.Type, self); err != nil {
			return types.Value{}, err
		}
	}
	return self, nil
}

// registerFinalizer synthesizes a `void(i8*, i8*)` trampoline that
// bitcasts its first argument back to t and invokes __del__, then
// registers it against self with the runtime (spec §4.2's "finalizer
// synthesis").
func registerFinalizer(u *emit.Unit, cur *emit.Cursor, t *types.Type, self types.Value) *diag.Error {
	name := u.NextFinalizerName(t.Name)
	objParm := ir.NewParam("obj", irtypes.I8Ptr)
	ctxParm := ir.NewParam("ctx", irtypes.I8Ptr)
	fn := u.GetOrInsertFunc(name, irtypes.Void, objParm, ctxParm)
	entry := fn.NewBlock(name + ".entry")
	tcur := &emit.Cursor{Block: entry, Preamble: entry}
	cast := entry.NewBitCast(objParm, t.LLVMType())
	if _, err := t.CallMagic(u, tcur, "__del__", nil, types.Value{IR: cast, Type: t}, nil); err != nil {
		return err
	}
	tcur.Block.NewRet(nil)

	fnPtrType := irtypes.NewPointer(irtypes.NewFunc(irtypes.Void, irtypes.I8Ptr, irtypes.I8Ptr))
	castSelf := cur.Block.NewBitCast(self.IR, irtypes.I8Ptr)
	castFn := cur.Block.NewBitCast(fn, fnPtrType)
	cur.Block.NewCall(u.RegisterFinalizer(), castSelf, castFn)
	return nil
}
