// This file registers the built-in magic methods and methods for each
// primitive Kind (spec §4.1's "built-in magic", §4.2's literal/
// collection/operator semantics) and defines the singleton primitive
// type values. registerBuiltinMagic is called once per *Type, lazily,
// from initOps.
package types

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
)

// llValue is shorthand for the IR backend's SSA value interface, used
// throughout this file's small per-instruction helper closures.
type llValue = llvalue.Value

// Singleton primitive types. There is exactly one *Type value for each
// primitive Kind, so Is() can short-circuit on pointer equality for
// them (spec §3: "Types are referentially shared").
var (
	IntT     = &Type{Kind: Int, Name: "Int"}
	FloatT   = &Type{Kind: Float, Name: "Float"}
	boolType = &Type{Kind: Bool, Name: "Bool"}
	StrT     = &Type{Kind: Str, Name: "Str"}
	SeqT     = &Type{Kind: Seq, Name: "Seq"}
	VoidT    = &Type{Kind: Void, Name: "Void"}
)

// BoolT returns the singleton Bool type.
func BoolT() *Type { return boolType }

// nativeCallable is a Callable implemented directly by an Emit closure
// rather than by a stmt.FuncDef body: the vehicle for built-in,
// non-magic-named methods like a generator's "resume", which isn't
// reached through operator or attribute dispatch.
type nativeCallable struct {
	argTypes []*Type
	outType  *Type
	emitFn   func(u *emit.Unit, cur *emit.Cursor, args []Value) (Value, *diag.Error)
}

func (n *nativeCallable) ArgTypes() []*Type { return n.argTypes }
func (n *nativeCallable) OutType() *Type    { return n.outType }
func (n *nativeCallable) IsGeneric() bool   { return false }
func (n *nativeCallable) TypeParams() []TypeParm { return nil }
func (n *nativeCallable) Realize(_ []*Type) (Callable, *diag.Error) {
	return n, nil
}
func (n *nativeCallable) Emit(u *emit.Unit, cur *emit.Cursor, args []Value) (Value, *diag.Error) {
	return n.emitFn(u, cur, args)
}
func (n *nativeCallable) FuncValue(u *emit.Unit) Value {
	panic("types: nativeCallable has no first-class address; it is only reached through CallMethod/CallMagic")
}

// CallMethod looks up method name on t and emits a call to it with
// self and args (spec §4.1's method-dispatch path used wherever a
// well-known method is invoked directly, such as generator stepping
// during pipeline lowering).
func (t *Type) CallMethod(u *emit.Unit, cur *emit.Cursor, name string, self Value, args []Value) (Value, *diag.Error) {
	fn := t.lookupMethod(name)
	if fn == nil {
		return Value{}, errorAt(nil, t, "%s has no method %q", t, name)
	}
	all := append([]Value{self}, args...)
	return fn.Emit(u, cur, all)
}

// HasMethod reports whether t has a method (built-in or user-defined)
// named name.
func (t *Type) HasMethod(name string) bool {
	return t.lookupMethod(name) != nil
}

func registerBuiltinMagic(t *Type) {
	switch t.Kind {
	case Int:
		registerIntMagic(t)
	case Float:
		registerFloatMagic(t)
	case Bool:
		registerBoolMagic(t)
	case Str:
		registerStrMagic(t)
	case Seq:
		registerSeqMagic(t)
	case Array:
		registerArrayMagic(t)
	case Optional:
		registerOptionalMagic(t)
	case Generator:
		registerGeneratorMethods(t)
	case Ref:
		registerRefBuiltins(t)
	}
}

func registerIntMagic(t *Type) {
	arith := func(name string, f func(cur *emit.Cursor, l, r Value) llValue) {
		t.registerMagic(MagicMethod{
			Name: name, ArgTypes: []*Type{IntT}, OutType: IntT,
			Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
				return Value{IR: f(cur, self, args[0]), Type: IntT}, nil
			},
		})
	}
	cmp := func(name string, pred enum.IPred) {
		t.registerMagic(MagicMethod{
			Name: name, ArgTypes: []*Type{IntT}, OutType: boolType,
			Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
				v := cur.Block.NewICmp(pred, self.IR, args[0].IR)
				return Value{IR: v, Type: boolType}, nil
			},
		})
	}
	arith("__add__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewAdd(l.IR, r.IR) })
	arith("__sub__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewSub(l.IR, r.IR) })
	arith("__mul__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewMul(l.IR, r.IR) })
	arith("__div__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewSDiv(l.IR, r.IR) })
	arith("__mod__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewSRem(l.IR, r.IR) })
	arith("__and__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewAnd(l.IR, r.IR) })
	arith("__or__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewOr(l.IR, r.IR) })
	arith("__xor__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewXor(l.IR, r.IR) })
	arith("__lshift__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewShl(l.IR, r.IR) })
	arith("__rshift__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewAShr(l.IR, r.IR) })
	cmp("__lt__", enum.IPredSLT)
	cmp("__gt__", enum.IPredSGT)
	cmp("__le__", enum.IPredSLE)
	cmp("__ge__", enum.IPredSGE)
	cmp("__eq__", enum.IPredEQ)
	cmp("__ne__", enum.IPredNE)
	t.registerMagic(MagicMethod{
		Name: "__neg__", OutType: IntT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewSub(constant.NewInt(irtypes.I64, 0), self.IR)
			return Value{IR: v, Type: IntT}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__pos__", OutType: IntT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			return self, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__invert__", OutType: IntT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewXor(self.IR, constant.NewInt(irtypes.I64, -1))
			return Value{IR: v, Type: IntT}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__bool__", OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewICmp(enum.IPredNE, self.IR, constant.NewInt(irtypes.I64, 0))
			return Value{IR: v, Type: boolType}, nil
		},
	})
}

func registerFloatMagic(t *Type) {
	arith := func(name string, f func(cur *emit.Cursor, l, r Value) llValue) {
		t.registerMagic(MagicMethod{
			Name: name, ArgTypes: []*Type{FloatT}, OutType: FloatT,
			Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
				return Value{IR: f(cur, self, args[0]), Type: FloatT}, nil
			},
		})
	}
	arith("__add__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewFAdd(l.IR, r.IR) })
	arith("__sub__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewFSub(l.IR, r.IR) })
	arith("__mul__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewFMul(l.IR, r.IR) })
	arith("__div__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewFDiv(l.IR, r.IR) })
	arith("__mod__", func(cur *emit.Cursor, l, r Value) llValue { return cur.Block.NewFRem(l.IR, r.IR) })
	// A Float left operand accepts an Int right operand directly, by
	// promoting it (spec §8 S1).
	t.registerMagic(MagicMethod{
		Name: "__add__", ArgTypes: []*Type{IntT}, OutType: FloatT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			rf := cur.Block.NewSIToFP(args[0].IR, irtypes.Double)
			v := cur.Block.NewFAdd(self.IR, rf)
			return Value{IR: v, Type: FloatT}, nil
		},
	})
	// Reflected addition when Float is the right operand of `int +
	// float` (spec §8 S1): Int.__add__(Float) fails the exact kind
	// match, so BinOpOut/BinOpEmit fall through to this
	// Float.__radd__(Int), with self bound to the Float (right-hand)
	// operand and args[0] the Int (left-hand) operand.
	t.registerMagic(MagicMethod{
		Name: "__radd__", ArgTypes: []*Type{IntT}, OutType: FloatT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			lf := cur.Block.NewSIToFP(args[0].IR, irtypes.Double)
			v := cur.Block.NewFAdd(lf, self.IR)
			return Value{IR: v, Type: FloatT}, nil
		},
	})
	cmp := func(name string, pred enum.FPred) {
		t.registerMagic(MagicMethod{
			Name: name, ArgTypes: []*Type{FloatT}, OutType: boolType,
			Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
				v := cur.Block.NewFCmp(pred, self.IR, args[0].IR)
				return Value{IR: v, Type: boolType}, nil
			},
		})
	}
	cmp("__lt__", enum.FPredOLT)
	cmp("__gt__", enum.FPredOGT)
	cmp("__le__", enum.FPredOLE)
	cmp("__ge__", enum.FPredOGE)
	cmp("__eq__", enum.FPredOEQ)
	cmp("__ne__", enum.FPredONE)
	t.registerMagic(MagicMethod{
		Name: "__neg__", OutType: FloatT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewFSub(constant.NewFloat(irtypes.Double, 0), self.IR)
			return Value{IR: v, Type: FloatT}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__bool__", OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewFCmp(enum.FPredONE, self.IR, constant.NewFloat(irtypes.Double, 0))
			return Value{IR: v, Type: boolType}, nil
		},
	})
}

func registerBoolMagic(t *Type) {
	t.registerMagic(MagicMethod{
		Name: "__bool__", OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			return self, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__invert__", OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewXor(self.IR, constant.True)
			return Value{IR: v, Type: boolType}, nil
		},
	})
	eq := func(name string, pred enum.IPred) {
		t.registerMagic(MagicMethod{
			Name: name, ArgTypes: []*Type{boolType}, OutType: boolType,
			Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
				v := cur.Block.NewICmp(pred, self.IR, args[0].IR)
				return Value{IR: v, Type: boolType}, nil
			},
		})
	}
	eq("__eq__", enum.IPredEQ)
	eq("__ne__", enum.IPredNE)
}

func registerStrMagic(t *Type) {
	strT := StrT.LLVMType()
	t.registerMagic(MagicMethod{
		Name: "__add__", ArgTypes: []*Type{StrT}, OutType: StrT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_str_concat", strT, ir.NewParam("a", strT), ir.NewParam("b", strT))
			v := cur.Block.NewCall(fn, self.IR, args[0].IR)
			return Value{IR: v, Type: StrT}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__eq__", ArgTypes: []*Type{StrT}, OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_str_eq", irtypes.I1, ir.NewParam("a", strT), ir.NewParam("b", strT))
			v := cur.Block.NewCall(fn, self.IR, args[0].IR)
			return Value{IR: v, Type: boolType}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__len__", OutType: IntT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewExtractValue(self.IR, 1)
			return Value{IR: v, Type: IntT}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__bool__", OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			l := cur.Block.NewExtractValue(self.IR, 1)
			v := cur.Block.NewICmp(enum.IPredNE, l, constant.NewInt(irtypes.I64, 0))
			return Value{IR: v, Type: boolType}, nil
		},
	})
}

func registerSeqMagic(t *Type) {
	// Seq, the raw byte-sequence backing Str, shares Str's length and
	// truthiness rules but has no concatenation/equality magic of its
	// own.
	t.registerMagic(MagicMethod{
		Name: "__len__", OutType: IntT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewExtractValue(self.IR, 1)
			return Value{IR: v, Type: IntT}, nil
		},
	})
}

func registerArrayMagic(t *Type) {
	elem := t.Elem
	elemT := elem.LLVMType()
	arrT := t.LLVMType()
	t.registerMagic(MagicMethod{
		Name: "__len__", OutType: IntT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewExtractValue(self.IR, 0)
			return Value{IR: v, Type: IntT}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__getitem__", ArgTypes: []*Type{IntT}, OutType: elem,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			data := cur.Block.NewExtractValue(self.IR, 1)
			addr := cur.Block.NewGetElementPtr(elemT, data, args[0].IR)
			v := cur.Block.NewLoad(elemT, addr)
			return Value{IR: v, Type: elem}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__setitem__", ArgTypes: []*Type{IntT, elem}, OutType: VoidT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			data := cur.Block.NewExtractValue(self.IR, 1)
			addr := cur.Block.NewGetElementPtr(elemT, data, args[0].IR)
			cur.Block.NewStore(args[1].IR, addr)
			return Value{IR: constant.NewZeroInitializer(irtypes.Void), Type: VoidT}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__contains__", ArgTypes: []*Type{elem}, OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_array_contains", irtypes.I1, ir.NewParam("a", arrT), ir.NewParam("v", elemT))
			v := cur.Block.NewCall(fn, self.IR, args[0].IR)
			return Value{IR: v, Type: boolType}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__copy__", OutType: t,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_array_copy", arrT, ir.NewParam("a", arrT))
			v := cur.Block.NewCall(fn, self.IR)
			return Value{IR: v, Type: t}, nil
		},
	})
}

func registerOptionalMagic(t *Type) {
	t.registerMagic(MagicMethod{
		Name: "__bool__", OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			v := cur.Block.NewExtractValue(self.IR, 0)
			return Value{IR: v, Type: boolType}, nil
		},
	})
}

// registerGeneratorMethods installs the four generator-stepping
// intrinsics spec §6 names (resume/done/promise/destroy), each a thin
// call to a runtime trampoline keyed by the generator's opaque handle
// representation. These are ordinary methods, not magic, since pipeline
// lowering (spec §4.5) invokes them by name rather than through
// operator syntax.
func registerGeneratorMethods(t *Type) {
	elem := t.Elem
	handleT := t.LLVMType() // i8*
	t.vtable.methods["resume"] = &nativeCallable{
		argTypes: []*Type{t}, outType: VoidT,
		emitFn: func(u *emit.Unit, cur *emit.Cursor, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_gen_resume", irtypes.Void, ir.NewParam("g", handleT))
			cur.Block.NewCall(fn, args[0].IR)
			return Value{IR: constant.NewZeroInitializer(irtypes.Void), Type: VoidT}, nil
		},
	}
	t.vtable.methods["done"] = &nativeCallable{
		argTypes: []*Type{t}, outType: boolType,
		emitFn: func(u *emit.Unit, cur *emit.Cursor, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_gen_done", irtypes.I1, ir.NewParam("g", handleT))
			v := cur.Block.NewCall(fn, args[0].IR)
			return Value{IR: v, Type: boolType}, nil
		},
	}
	t.vtable.methods["promise"] = &nativeCallable{
		argTypes: []*Type{t}, outType: elem,
		emitFn: func(u *emit.Unit, cur *emit.Cursor, args []Value) (Value, *diag.Error) {
			elemPtrT := irtypes.NewPointer(elem.LLVMType())
			fn := u.GetOrInsertFunc("seq_gen_promise", irtypes.I8Ptr, ir.NewParam("g", handleT))
			raw := cur.Block.NewCall(fn, args[0].IR)
			cast := cur.Block.NewBitCast(raw, elemPtrT)
			v := cur.Block.NewLoad(elem.LLVMType(), cast)
			return Value{IR: v, Type: elem}, nil
		},
	}
	t.vtable.methods["destroy"] = &nativeCallable{
		argTypes: []*Type{t}, outType: VoidT,
		emitFn: func(u *emit.Unit, cur *emit.Cursor, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_gen_destroy", irtypes.Void, ir.NewParam("g", handleT))
			cur.Block.NewCall(fn, args[0].IR)
			return Value{IR: constant.NewZeroInitializer(irtypes.Void), Type: VoidT}, nil
		},
	}
}

// registerRefBuiltins gives every Ref type a default __eq__ (pointer
// identity) unless the user has already defined one, matching the
// source's reference-type default equality (original_source/src/types
// /types.cpp). All other Ref behavior comes from user-defined fields
// and methods via AddMethod, not from built-in registration.
func registerRefBuiltins(t *Type) {
	registerRefBuiltinsExtra(t)
	if len(t.lookupOverloads("__eq__")) > 0 {
		return
	}
	t.registerMagic(MagicMethod{
		Name: "__eq__", ArgTypes: []*Type{t}, OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			l := cur.Block.NewPtrToInt(self.IR, irtypes.I64)
			r := cur.Block.NewPtrToInt(args[0].IR, irtypes.I64)
			v := cur.Block.NewICmp(enum.IPredEQ, l, r)
			return Value{IR: v, Type: boolType}, nil
		},
	})
}
