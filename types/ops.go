// This file implements the per-type operations of spec §4.1: alloc,
// member lookup (instance and static), field mutation, and the default
// value contract. Every operation here throws a typed *diag.Error on
// misuse, never a bare Go error or a panic (panics are reserved for
// invariants the frontend itself must never violate, e.g. an
// unrealized generic reaching codegen).
package types

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
)

// Alloc emits a runtime allocation of count instances of t: it calls
// the runtime allocator (emit.AllocFuncName) with count*Size(t) bytes
// and bitcasts the i8* result to t's pointer representation. It fails
// if t has zero size (spec §4.1, §7 "Codegen: zero-size allocation").
func (t *Type) Alloc(u *emit.Unit, cur *emit.Cursor, count Value) (Value, *diag.Error) {
	size := t.Size(u)
	if size == 0 {
		return Value{}, errorAt(nil, t, "cannot allocate zero-size type %s", t)
	}
	bytes := cur.Block.NewMul(count.IR, constant.NewInt(irtypes.I64, size))
	raw := cur.Block.NewCall(u.Alloc(), bytes)
	ptrType := irtypes.NewPointer(t.LLVMType())
	cast := cur.Block.NewBitCast(raw, ptrType)
	return Value{IR: cast, Type: t}, nil
}

// AllocSelf allocates storage for one instance of Ref type t and
// bitcasts it directly to t's own (already-pointer) representation —
// the allocation path Construct's default `__new__` and the built-in
// collection types' `__new__` use, distinct from Alloc's count*element
// allocation (spec §4.2's Construct, §4.1's alloc). It fails if t has
// no fields to size the allocation from.
func (t *Type) AllocSelf(u *emit.Unit, cur *emit.Cursor) (Value, *diag.Error) {
	var size int64
	for _, f := range t.Fields {
		size += f.Type.Size(u)
	}
	if size == 0 {
		return Value{}, errorAt(nil, t, "cannot allocate zero-size type %s", t)
	}
	raw := cur.Block.NewCall(u.Alloc(), constant.NewInt(irtypes.I64, size))
	cast := cur.Block.NewBitCast(raw, t.LLVMType())
	return Value{IR: cast, Type: t}, nil
}

// Memb looks up member name on self's type t and returns a value
// representing it (spec §4.1). Search order: overloads (most-recently-
// added first) → built-in magic → methods → fields.
//
//   - A zero-argument overload/magic match is invoked immediately and
//     its result returned.
//   - A method match yields a Value of the bound Method type with no
//     IR: self is not stored in it, and the method is not called.
//   - A field match is read out of self: through a GEP and load for a
//     Ref, via an extract-value instruction otherwise.
func (t *Type) Memb(u *emit.Unit, cur *emit.Cursor, self Value, name string) (Value, *diag.Error) {
	if v, ok, err := t.tryNullaryMagic(u, cur, self, name); err != nil {
		return Value{}, err
	} else if ok {
		return v, nil
	}
	if fn := t.lookupMethod(name); fn != nil {
		return Value{Type: t.methodType(fn)}, nil // Emit deferred: method value is bound, not yet called
	}
	if idx, ok := t.lookupField(name); ok {
		field := t.Fields[idx]
		if t.Kind == Ref {
			addr := cur.Block.NewGetElementPtr(derefStruct(t.LLVMType()), self.IR,
				constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, int64(idx)))
			v := cur.Block.NewLoad(field.Type.LLVMType(), addr)
			return Value{IR: v, Type: field.Type}, nil
		}
		v := cur.Block.NewExtractValue(self.IR, uint64(idx))
		return Value{IR: v, Type: field.Type}, nil
	}
	return Value{}, errorAt(nil, t, "%s has no member %q", t, name)
}

// derefStruct returns the pointed-to struct type of a Ref's pointer
// representation, panicking if t is not such a pointer — an invariant
// violation, since every Ref's LLVMType is NewPointer(NewStruct(...)).
func derefStruct(t irtypes.Type) *irtypes.StructType {
	p, ok := t.(*irtypes.PointerType)
	if !ok {
		panic("types: derefStruct called on non-pointer type")
	}
	s, ok := p.ElemType.(*irtypes.StructType)
	if !ok {
		panic("types: derefStruct called on non-struct pointee")
	}
	return s
}

func (t *Type) tryNullaryMagic(u *emit.Unit, cur *emit.Cursor, self Value, name string) (Value, bool, *diag.Error) {
	for _, fn := range t.lookupOverloads(name) {
		if len(fn.ArgTypes()) != 1 { // self only
			continue
		}
		v, err := fn.Emit(u, cur, []Value{self})
		if err != nil {
			return Value{}, true, err
		}
		return v, true, nil
	}
	if m := t.lookupBuiltinMagic(name, nil); m != nil {
		v, err := m.Emit(u, cur, self, nil)
		if err != nil {
			return Value{}, true, err
		}
		return v, true, nil
	}
	return Value{}, false, nil
}

// methodType returns the bound Method(self, Func) type for fn looked up
// on t.
func (t *Type) methodType(fn Callable) *Type {
	return &Type{
		Kind: Method,
		Name: "Method",
		Self: t,
		Sig:  funcTypeOf(fn),
	}
}

func funcTypeOf(fn Callable) *Type {
	at := fn.ArgTypes()
	params := make([]Param, len(at))
	for i, a := range at {
		params[i] = Param{Type: a}
	}
	return &Type{Kind: Func, Name: "Func", Params: params, Out: fn.OutType()}
}

// FuncType returns fn's Func(in..., out) type, for use wherever a
// Callable is referenced as a first-class value rather than bound as a
// method (spec §4.2's bare Func expression).
func FuncType(fn Callable) *Type { return funcTypeOf(fn) }

// MembType is the type-level analog of Memb: it returns the static
// type of the member without emitting any IR, for use during type
// inference (spec §4.1).
func (t *Type) MembType(name string) (*Type, *diag.Error) {
	for _, fn := range t.lookupOverloads(name) {
		if len(fn.ArgTypes()) == 1 {
			return fn.OutType(), nil
		}
	}
	if m := t.lookupBuiltinMagic(name, nil); m != nil {
		return m.OutType, nil
	}
	if fn := t.lookupMethod(name); fn != nil {
		return t.methodType(fn), nil
	}
	if idx, ok := t.lookupField(name); ok {
		return t.Fields[idx].Type, nil
	}
	return nil, errorAt(nil, t, "%s has no member %q", t, name)
}

// StaticMemb is Memb's type-level-receiver analog (spec §4.1): lookup
// against t itself rather than a value of type t, with no self binding
// and no field search (static member access never reaches into an
// instance's fields).
func (t *Type) StaticMemb(u *emit.Unit, cur *emit.Cursor, name string) (Value, *diag.Error) {
	for _, fn := range t.lookupOverloads(name) {
		if len(fn.ArgTypes()) != 0 {
			continue
		}
		return fn.Emit(u, cur, nil)
	}
	if m := t.lookupBuiltinMagic(name, nil); m != nil {
		return m.Emit(u, cur, Value{}, nil)
	}
	if fn := t.lookupMethod(name); fn != nil {
		params := make([]Param, len(fn.ArgTypes()))
		for i, a := range fn.ArgTypes() {
			params[i] = Param{Type: a}
		}
		return Value{Type: &Type{Kind: Func, Name: "Func", Params: params, Out: fn.OutType()}}, nil
	}
	return Value{}, errorAt(nil, t, "%s has no static member %q", t, name)
}

// StaticMembType is StaticMemb's type-inference-only analog.
func (t *Type) StaticMembType(name string) (*Type, *diag.Error) {
	for _, fn := range t.lookupOverloads(name) {
		if len(fn.ArgTypes()) == 0 {
			return fn.OutType(), nil
		}
	}
	if m := t.lookupBuiltinMagic(name, nil); m != nil {
		return m.OutType, nil
	}
	if fn := t.lookupMethod(name); fn != nil {
		params := make([]Param, len(fn.ArgTypes()))
		for i, a := range fn.ArgTypes() {
			params[i] = Param{Type: a}
		}
		return &Type{Kind: Func, Name: "Func", Params: params, Out: fn.OutType()}, nil
	}
	return nil, errorAt(nil, t, "%s has no static member %q", t, name)
}

// SetMemb sets field name of self to newValue (spec §4.1). A Record's
// representation is a value aggregate, so setting a field returns a
// *new* aggregate value via insert-value; a Ref's representation is a
// heap pointer, so setting a field stores through a GEP and returns
// self unchanged. It is only valid for fields.
func (t *Type) SetMemb(u *emit.Unit, cur *emit.Cursor, self Value, name string, newValue Value) (Value, *diag.Error) {
	idx, ok := t.lookupField(name)
	if !ok {
		return Value{}, errorAt(nil, t, "%s has no field %q", t, name)
	}
	if t.Kind == Ref {
		addr := cur.Block.NewGetElementPtr(derefStruct(t.LLVMType()), self.IR,
			constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, int64(idx)))
		cur.Block.NewStore(newValue.IR, addr)
		return self, nil
	}
	v := cur.Block.NewInsertValue(self.IR, newValue.IR, uint64(idx))
	return Value{IR: v, Type: t}, nil
}

// BoolValue calls __bool__ on self and requires the result to have
// type Bool (spec §4.1, §7 "__bool__/__contains__ returning non-Bool").
func (t *Type) BoolValue(u *emit.Unit, cur *emit.Cursor, self Value) (Value, *diag.Error) {
	v, err := t.CallMagic(u, cur, "__bool__", nil, self, nil)
	if err != nil {
		return Value{}, err
	}
	if v.Type.Kind != Bool {
		return Value{}, errorAt(nil, t, "__bool__ on %s returned %s, not Bool", t, v.Type)
	}
	return v, nil
}

// DefaultValue returns t's default value, or a *diag.Error if t has
// none (spec §4.1, §7 "Codegen: ... no default value").
func (t *Type) DefaultValue(u *emit.Unit, cur *emit.Cursor) (Value, *diag.Error) {
	switch t.Kind {
	case Bool:
		return Value{IR: constant.False, Type: t}, nil
	case Int:
		return Value{IR: constant.NewInt(irtypes.I64, 0), Type: t}, nil
	case Float:
		return Value{IR: constant.NewFloat(irtypes.Double, 0), Type: t}, nil
	case Void:
		return Value{IR: constant.NewZeroInitializer(t.LLVMType()), Type: t}, nil
	case Str, Seq, Array, Optional, Record:
		return Value{IR: constant.NewZeroInitializer(t.LLVMType()), Type: t}, nil
	case Ref:
		return Value{IR: constant.NewNull(t.LLVMType().(*irtypes.PointerType)), Type: t}, nil
	default:
		if v, ok, _ := t.tryNullaryMagic(u, cur, Value{}, "__default__"); ok {
			return v, nil
		}
		return Value{}, errorAt(nil, t, "%s has no default value", t)
	}
}
