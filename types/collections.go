package types

import (
	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
)

// ListTemplate, SetTemplate, and DictTemplate are the generic Ref
// templates backing the Language's List/Set/Dict collection literals
// (spec §4.2). They are plain Ref types carrying one (List, Set) or
// two (Dict) type parameters; realizing one against concrete element
// types gives the instance (through registerRefBuiltinsExtra) the
// "append"/"add"/"__setitem__"/"__getitem__"/"__contains__"/"__len__"
// methods List/Set/Dict literal codegen relies on.
var (
	listElemParm = TypeParm{Name: "T", ID: -1}
	ListTemplate = &Type{
		Kind: Ref, Name: "List",
		TypeParams: []TypeParm{listElemParm},
		Fields:     []Field{{Name: "data", Type: NewTypeParam(&listElemParm).arrayOf()}},
	}

	setElemParm = TypeParm{Name: "T", ID: -2}
	SetTemplate = &Type{
		Kind: Ref, Name: "Set",
		TypeParams: []TypeParm{setElemParm},
		Fields:     []Field{{Name: "data", Type: NewTypeParam(&setElemParm).arrayOf()}},
	}

	dictKeyParm = TypeParm{Name: "K", ID: -3}
	dictValParm = TypeParm{Name: "V", ID: -4}
	DictTemplate = &Type{
		Kind: Ref, Name: "Dict",
		TypeParams: []TypeParm{dictKeyParm, dictValParm},
		Fields: []Field{
			{Name: "keys", Type: NewTypeParam(&dictKeyParm).arrayOf()},
			{Name: "vals", Type: NewTypeParam(&dictValParm).arrayOf()},
		},
	}
)

func (t *Type) arrayOf() *Type { return &Type{Kind: Array, Name: "Array", Elem: t} }

// RealizeList, RealizeSet, and RealizeDict return the concrete List(T)/
// Set(T)/Dict(K,V) instance for the given element type(s), registering
// its collection magic on first realization (registerBuiltinMagic runs
// lazily per-instance via initOps, the same as any other Ref).
func RealizeList(elem *Type) *Type { return ListTemplate.Realize([]*Type{elem}) }
func RealizeSet(elem *Type) *Type  { return SetTemplate.Realize([]*Type{elem}) }
func RealizeDict(key, val *Type) *Type { return DictTemplate.Realize([]*Type{key, val}) }

func init() {
	ListTemplate.Def = ListTemplate
	SetTemplate.Def = SetTemplate
	DictTemplate.Def = DictTemplate

	// Point each template's field types at its own TypeParams entries,
	// the pointers Realize binds.
	ListTemplate.Fields[0].Type = NewTypeParam(&ListTemplate.TypeParams[0]).arrayOf()
	SetTemplate.Fields[0].Type = NewTypeParam(&SetTemplate.TypeParams[0]).arrayOf()
	DictTemplate.Fields[0].Type = NewTypeParam(&DictTemplate.TypeParams[0]).arrayOf()
	DictTemplate.Fields[1].Type = NewTypeParam(&DictTemplate.TypeParams[1]).arrayOf()
}

func registerRefBuiltinsExtra(t *Type) {
	def := refDef(t)
	switch def {
	case ListTemplate:
		registerListMagic(t)
	case SetTemplate:
		registerSetMagic(t)
	case DictTemplate:
		registerDictMagic(t)
	}
}

func registerListMagic(t *Type) {
	elem := t.Args[0]
	arr := t.Fields[0].Type
	t.registerMagic(MagicMethod{
		Name: "__new__", OutType: t,
		Emit: func(u *emit.Unit, cur *emit.Cursor, _ Value, _ []Value) (Value, *diag.Error) {
			self, err := t.AllocSelf(u, cur)
			if err != nil {
				return Value{}, err
			}
			zero, err := arr.DefaultValue(u, cur)
			if err != nil {
				return Value{}, err
			}
			return t.SetMemb(u, cur, self, "data", zero)
		},
	})
	t.vtable.methods["append"] = &nativeCallable{
		argTypes: []*Type{t, elem}, outType: VoidT,
		emitFn: func(u *emit.Unit, cur *emit.Cursor, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_list_append", irtypes.Void,
				ir.NewParam("self", t.LLVMType()), ir.NewParam("v", elem.LLVMType()))
			cur.Block.NewCall(fn, args[0].IR, args[1].IR)
			return Value{Type: VoidT}, nil
		},
	}
	t.registerMagic(MagicMethod{
		Name: "__getitem__", ArgTypes: []*Type{IntT}, OutType: elem,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			field, err := t.Memb(u, cur, self, "data")
			if err != nil {
				return Value{}, err
			}
			return arr.CallMagic(u, cur, "__getitem__", []*Type{IntT}, field, args)
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__setitem__", ArgTypes: []*Type{IntT, elem}, OutType: VoidT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			field, err := t.Memb(u, cur, self, "data")
			if err != nil {
				return Value{}, err
			}
			return arr.CallMagic(u, cur, "__setitem__", []*Type{IntT, elem}, field, args)
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__len__", OutType: IntT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			field, err := t.Memb(u, cur, self, "data")
			if err != nil {
				return Value{}, err
			}
			return arr.CallMagic(u, cur, "__len__", nil, field, nil)
		},
	})
}

func registerSetMagic(t *Type) {
	elem := t.Args[0]
	t.vtable.methods["add"] = &nativeCallable{
		argTypes: []*Type{t, elem}, outType: VoidT,
		emitFn: func(u *emit.Unit, cur *emit.Cursor, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_set_add", irtypes.Void,
				ir.NewParam("self", t.LLVMType()), ir.NewParam("v", elem.LLVMType()))
			cur.Block.NewCall(fn, args[0].IR, args[1].IR)
			return Value{Type: VoidT}, nil
		},
	}
	t.registerMagic(MagicMethod{
		Name: "__contains__", ArgTypes: []*Type{elem}, OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_set_contains", irtypes.I1,
				ir.NewParam("self", t.LLVMType()), ir.NewParam("v", elem.LLVMType()))
			v := cur.Block.NewCall(fn, self.IR, args[0].IR)
			return Value{IR: v, Type: boolType}, nil
		},
	})
}

func registerDictMagic(t *Type) {
	key, val := t.Args[0], t.Args[1]
	t.registerMagic(MagicMethod{
		Name: "__setitem__", ArgTypes: []*Type{key, val}, OutType: VoidT,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_dict_set", irtypes.Void,
				ir.NewParam("self", t.LLVMType()), ir.NewParam("k", key.LLVMType()), ir.NewParam("v", val.LLVMType()))
			cur.Block.NewCall(fn, self.IR, args[0].IR, args[1].IR)
			return Value{Type: VoidT}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__getitem__", ArgTypes: []*Type{key}, OutType: val,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_dict_get", val.LLVMType(),
				ir.NewParam("self", t.LLVMType()), ir.NewParam("k", key.LLVMType()))
			v := cur.Block.NewCall(fn, self.IR, args[0].IR)
			return Value{IR: v, Type: val}, nil
		},
	})
	t.registerMagic(MagicMethod{
		Name: "__contains__", ArgTypes: []*Type{key}, OutType: boolType,
		Emit: func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error) {
			fn := u.GetOrInsertFunc("seq_dict_contains", irtypes.I1,
				ir.NewParam("self", t.LLVMType()), ir.NewParam("k", key.LLVMType()))
			v := cur.Block.NewCall(fn, self.IR, args[0].IR)
			return Value{IR: v, Type: boolType}, nil
		},
	})
}
