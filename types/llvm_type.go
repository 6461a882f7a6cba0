package types

import (
	irtypes "github.com/llir/llvm/ir/types"
)

// LLVMType returns the IR backend's representation type for t (spec
// §4.1's "getLLVMType(context)"). Every Kind must be realized (no
// TypeParam) by the time codegen reaches this call; an unrealized type
// parameter reaching LLVMType is a frontend invariant violation, not a
// user-facing compile error, so it panics rather than returning an
// error: generics are expected to have eliminated every type parameter
// before codegen runs.
func (t *Type) LLVMType() irtypes.Type {
	switch t.Kind {
	case Void:
		return irtypes.Void
	case Bool:
		return irtypes.I1
	case Int:
		return irtypes.I64
	case Float:
		return irtypes.Double
	case Str, Seq:
		return irtypes.NewStruct(irtypes.I8Ptr, irtypes.I64)
	case Array:
		return irtypes.NewStruct(irtypes.I64, irtypes.NewPointer(t.Elem.LLVMType()), irtypes.I64)
	case Record:
		fs := make([]irtypes.Type, len(t.Fields))
		for i, f := range t.Fields {
			fs[i] = f.Type.LLVMType()
		}
		return irtypes.NewStruct(fs...)
	case Func:
		ps := make([]irtypes.Type, len(t.Params))
		for i, p := range t.Params {
			ps[i] = p.Type.LLVMType()
		}
		return irtypes.NewPointer(irtypes.NewFunc(t.Out.LLVMType(), ps...))
	case Method:
		return irtypes.NewStruct(t.Self.LLVMType(), t.Sig.LLVMType())
	case Generator:
		return irtypes.NewPointer(irtypes.I8)
	case Optional:
		return irtypes.NewStruct(irtypes.I1, t.Elem.LLVMType())
	case PartialFunc:
		fs := []irtypes.Type{t.Underlying.LLVMType()}
		for _, st := range t.SlotTypes {
			if st != nil {
				fs = append(fs, st.LLVMType())
			}
		}
		fs = append(fs, irtypes.I64) // bound-slot bitmask
		return irtypes.NewStruct(fs...)
	case Ref:
		fs := make([]irtypes.Type, len(t.Fields))
		for i, f := range t.Fields {
			fs[i] = f.Type.LLVMType()
		}
		return irtypes.NewPointer(irtypes.NewStruct(fs...))
	default:
		panic("types: LLVMType called on unrealized type " + t.String())
	}
}
