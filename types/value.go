package types

import llvalue "github.com/llir/llvm/ir/value"

// A Value is an SSA value paired with its static type: spec §3's
// invariant 2 ("the static type reported by getType(e) equals the
// runtime-representation type of the value produced by codegen(e)")
// is only checkable if every IR value carries its Type alongside it,
// so every codegen path in this module passes Values, never bare
// llvm value.Value, between expressions.
type Value struct {
	IR   llvalue.Value
	Type *Type
}
