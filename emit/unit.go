// Package emit holds the LLVM-IR bookkeeping that is scoped to a single
// compilation unit (spec §5's "shared-resource policy") rather than to
// any one expression or statement: the target module, the module-scoped
// finalizer-name counter (spec §9), the literal-global cache (spec
// §4.2), and the distinguished per-function preamble block (spec §2,
// §4.6). The IR backend itself — basic blocks, builders, constants — is
// the opaque third-party collaborator spec §6 describes; this package
// binds that contract to github.com/llir/llvm.
package emit

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
)

// AllocFuncName is the stable runtime allocator symbol named in spec §6.
const AllocFuncName = "seq_alloc"

// RegisterFinalizerFuncName is the stable runtime finalizer-registration
// symbol named in spec §6.
const RegisterFinalizerFuncName = "seq_register_finalizer"

// A Unit is one compilation unit: one LLVM module plus the state that
// must be shared across every function and global emitted into it.
type Unit struct {
	Module *ir.Module

	allocFunc             *ir.Func
	registerFinalizerFunc *ir.Func

	finalizerSeq int
	literals     map[string]*ir.Global
	funcs        map[string]*ir.Func // getOrInsertFunction-style registry, by mangled name
}

// NewUnit creates an empty compilation unit backed by a fresh LLVM
// module named name.
func NewUnit(name string) *Unit {
	m := ir.NewModule()
	m.SourceFilename = name
	return &Unit{
		Module:   m,
		literals: make(map[string]*ir.Global),
		funcs:    make(map[string]*ir.Func),
	}
}

// Alloc returns the runtime allocator function, declaring it on first
// use: `i8* seq_alloc(i64 size)`.
func (u *Unit) Alloc() *ir.Func {
	if u.allocFunc == nil {
		u.allocFunc = u.Module.NewFunc(AllocFuncName, irtypes.I8Ptr, ir.NewParam("size", irtypes.I64))
	}
	return u.allocFunc
}

// RegisterFinalizer returns the runtime finalizer-registration
// function, declaring it on first use:
// `void seq_register_finalizer(i8* obj, void(i8*, i8*)* fn)`.
func (u *Unit) RegisterFinalizer() *ir.Func {
	if u.registerFinalizerFunc == nil {
		fnTyp := irtypes.NewPointer(irtypes.NewFunc(irtypes.Void, irtypes.I8Ptr, irtypes.I8Ptr))
		u.registerFinalizerFunc = u.Module.NewFunc(
			RegisterFinalizerFuncName, irtypes.Void,
			ir.NewParam("obj", irtypes.I8Ptr),
			ir.NewParam("fn", fnTyp),
		)
	}
	return u.registerFinalizerFunc
}

// GetOrInsertFunc returns the module's function named name, declaring
// it with the given signature if this is the first request for that
// name. This is spec §6's "function creation via a name-and-signature
// registry".
func (u *Unit) GetOrInsertFunc(name string, ret irtypes.Type, params ...*ir.Param) *ir.Func {
	if f, ok := u.funcs[name]; ok {
		return f
	}
	f := u.Module.NewFunc(name, ret, params...)
	u.funcs[name] = f
	return f
}

// NextFinalizerName returns a fresh, module-unique name for a
// synthesized `__del__` trampoline function (spec §4.2's Construct,
// spec §9's directive that this counter be module-scoped, not a
// process-wide global).
func (u *Unit) NextFinalizerName(typeName string) string {
	u.finalizerSeq++
	return fmt.Sprintf("%s.finalizer.%d", typeName, u.finalizerSeq)
}

// StringGlobal returns the module-private global holding data's bytes
// (NUL-terminated), creating it on first use and reusing it for any
// later literal with identical bytes (spec §4.2: "emit the global once
// per module").
func (u *Unit) StringGlobal(data string) *ir.Global {
	key := "str:" + data
	if g, ok := u.literals[key]; ok {
		return g
	}
	init := constant.NewCharArrayFromString(data + "\x00")
	g := u.Module.NewGlobalDef(fmt.Sprintf("str.%d", len(u.literals)), init)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	u.literals[key] = g
	return g
}

// SeqGlobal is StringGlobal's analog for a literal sequence: key must
// uniquely identify the element data (the caller derives it, since
// element encoding is type-dependent).
func (u *Unit) SeqGlobal(key string, elems []constant.Constant, elemType irtypes.Type) *ir.Global {
	if g, ok := u.literals[key]; ok {
		return g
	}
	arr := constant.NewArray(irtypes.NewArray(uint64(len(elems)), elemType), elems...)
	g := u.Module.NewGlobalDef(fmt.Sprintf("seq.%d", len(u.literals)), arr)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	u.literals[key] = g
	return g
}
