package stmt

import (
	"github.com/llir/llvm/ir"
	llvalue "github.com/llir/llvm/ir/value"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// FuncDef is `fun name(params) -> out ... end` (spec §6's grammar,
// spec §4.6's "function-definition statements compile their body
// lazily, after type resolution, into a dedicated function in the
// target module with a freshly created preamble block"). It implements
// types.Callable directly, so it serves both as a free function and —
// when Params[0] is a receiver slot — as a Ref method's underlying
// implementation (types.Callable's doc: "for a method, ArgTypes()[0]
// is the receiver").
//
// A generic FuncDef (len(TypeParms) > 0, Def == nil) is never itself
// compiled: Realize produces concrete instances, cached on Insts by
// binding tuple exactly as types.Type.Realize caches on its own Insts
// (spec §4.1), and only those instances are compiled.
type FuncDef struct {
	Range     loc.Range
	Name      string
	TypeParms []types.TypeParm
	Params    []*types.Slot
	Out       *types.Type
	Body      *Block

	Def  *FuncDef     // the generic template this realizes, or nil
	Args []*types.Type // the binding tuple that produced this realization
	Insts []*FuncDef

	llFunc   *emit.Func
	compiled bool
}

func (fd *FuncDef) ArgTypes() []*types.Type {
	ts := make([]*types.Type, len(fd.Params))
	for i, p := range fd.Params {
		ts[i] = p.Type
	}
	return ts
}

func (fd *FuncDef) OutType() *types.Type { return fd.Out }

func (fd *FuncDef) IsGeneric() bool { return fd.Def == nil && len(fd.TypeParms) > 0 }

func (fd *FuncDef) TypeParams() []types.TypeParm { return fd.TypeParms }

// Realize returns the concrete FuncDef for the given type-parameter
// bindings (positional against TypeParams()), cloning the template's
// parameter slots, output type, and body under a fresh types.CloneRef
// (spec §4.1's Clone, extended to the statement layer per generics.go's
// doc comment).
func (fd *FuncDef) Realize(args []*types.Type) (types.Callable, *diag.Error) {
	if !fd.IsGeneric() {
		return fd, nil
	}
	for _, inst := range fd.Insts {
		if argTypesEqual(inst.Args, args) {
			return inst, nil
		}
	}
	bindings := make(map[*types.TypeParm]*types.Type, len(fd.TypeParms))
	for i := range fd.TypeParms {
		bindings[&fd.TypeParms[i]] = args[i]
	}
	ref := types.NewCloneRef(bindings)
	inst := &FuncDef{
		Range:  fd.Range,
		Name:   fd.Name,
		Params: make([]*types.Slot, len(fd.Params)),
		Def:    fd,
		Args:   args,
	}
	for i, p := range fd.Params {
		inst.Params[i] = p.Clone(ref)
	}
	inst.Out = fd.Out.Clone(ref)
	inst.Body = fd.Body.Clone(ref).(*Block)
	if err := inst.Body.ResolveTypes(); err != nil {
		return nil, err
	}
	fd.Insts = append(fd.Insts, inst)
	return inst, nil
}

// mangledName is the realized instance's module-unique symbol: the
// template name, suffixed with each bound type's string form so that
// two realizations of the same generic function never collide (spec
// §4.1's realization-cache identity, carried into the emitted symbol
// table).
func (fd *FuncDef) mangledName() string {
	if fd.Def == nil {
		return fd.Name
	}
	name := fd.Def.Name
	for _, a := range fd.Args {
		name += "$" + a.String()
	}
	return name
}

// ResolveTypes resolves fd's body against its declared parameter and
// output types. An unrealized generic template has no concrete types
// to check its body against yet — it resolves only once Realize has
// produced a concrete instance with its type parameters substituted
// away (spec §4.1's realize-then-check order for generic definitions).
func (fd *FuncDef) ResolveTypes() *diag.Error {
	if fd.IsGeneric() {
		return nil
	}
	return fd.Body.ResolveTypes()
}

// Compile lazily emits fd's body into u, creating its LLVM function,
// preamble, and parameter slots on first call; idempotent (spec §8
// property 1). A generic, unrealized FuncDef has no body to compile —
// Compile is a no-op for it.
func (fd *FuncDef) Compile(u *emit.Unit) *diag.Error {
	if fd.compiled || fd.IsGeneric() {
		return nil
	}
	fd.compiled = true

	irParams := make([]*ir.Param, len(fd.Params))
	for i, p := range fd.Params {
		irParams[i] = ir.NewParam(p.Name, p.Type.LLVMType())
	}
	f := emit.NewFunc(u, fd.mangledName(), fd.Out.LLVMType(), irParams...)
	fd.llFunc = f

	cur := emit.AtFunc(f)
	for i, p := range fd.Params {
		alloc := types.NewSlot(u, emit.At(f.Preamble), p.Name, p.Type)
		p.Addr = alloc.Addr
		p.Store(cur, types.Value{IR: irParams[i], Type: p.Type})
	}
	if err := fd.Body.CodeGen(u, cur); err != nil {
		return err
	}
	if fd.Out.Kind == types.Void && cur.Block.Term == nil {
		cur.Block.NewRet(nil)
	}
	return nil
}

func (fd *FuncDef) Emit(u *emit.Unit, cur *emit.Cursor, args []types.Value) (types.Value, *diag.Error) {
	if err := fd.Compile(u); err != nil {
		return types.Value{}, err
	}
	llArgs := make([]llvalue.Value, len(args))
	for i, a := range args {
		llArgs[i] = a.IR
	}
	v := cur.Block.NewCall(fd.llFunc.LLFunc, llArgs...)
	return types.Value{IR: v, Type: fd.Out}, nil
}

func (fd *FuncDef) FuncValue(u *emit.Unit) types.Value {
	if err := fd.Compile(u); err != nil {
		panic(err)
	}
	return types.Value{IR: fd.llFunc.LLFunc, Type: types.FuncType(fd)}
}
