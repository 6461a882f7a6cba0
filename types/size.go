package types

import "github.com/vellum-lang/vellum/emit"

// wordSize is the machine word size in bytes this frontend targets.
// The IR backend (llir/llvm) is the real arbiter of layout once a
// module is fully lowered; this is the structural estimate the
// frontend itself needs for spec §4.1's zero-size check on Alloc.
const wordSize = 8

// Size returns t's size in bytes under the frontend's structural size
// model (spec §4.1's "size/representation queries against a module").
// u is accepted for symmetry with spec §4.1's signature even though the
// current model does not need per-module layout state.
func (t *Type) Size(u *emit.Unit) int64 {
	switch t.Kind {
	case Void:
		return 0
	case Bool:
		return 1
	case Int, Float:
		return wordSize
	case Str, Seq:
		return 2 * wordSize // {data ptr, length}
	case Array:
		return 3 * wordSize // {length, data ptr, capacity}
	case Record:
		var n int64
		for _, f := range t.Fields {
			n += f.Type.Size(u)
		}
		return n
	case Func:
		return wordSize // function pointer
	case Method:
		return 2 * wordSize // {self ptr, function ptr}
	case Generator:
		return wordSize // opaque generator handle
	case Optional:
		return wordSize + t.Elem.Size(u) // {discriminant (padded), payload}
	case PartialFunc:
		n := int64(wordSize) // underlying function pointer
		for _, st := range t.SlotTypes {
			if st != nil {
				n += st.Size(u)
			}
		}
		return n + wordSize // trailing bound-slot bitmask
	case Ref:
		return wordSize // references are always heap pointers
	default:
		return 0
	}
}

// IsAtomic reports whether t's runtime representation fits in a single
// machine register (spec §4.1's "representation queries"): references,
// numerics, functions, and generator handles are atomic; aggregates
// (Str, Seq, Array, Record, Method, Optional, PartialFunc) are not.
func (t *Type) IsAtomic() bool {
	switch t.Kind {
	case Int, Float, Bool, Func, Generator, Ref:
		return true
	default:
		return false
	}
}
