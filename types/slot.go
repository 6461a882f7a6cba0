package types

import "github.com/vellum-lang/vellum/emit"

// A Slot is an addressable lexical storage location: a declared
// variable, a function parameter, or a match-bound name (spec §4.2's
// "Var loads from a lexically-bound storage slot"). Addr is the
// pointer-typed alloca produced in the owning function's preamble
// block; Load/Store read and write through it.
type Slot struct {
	Name  string
	Type  *Type
	Addr  Value
	Const bool // declared with `let` rather than `var` (spec §6's grammar)
}

// NewSlot allocates storage for a slot of the given type in the
// preamble block and returns the uninitialized slot.
func NewSlot(u *emit.Unit, pre *emit.Cursor, name string, t *Type) *Slot {
	addr := pre.Block.NewAlloca(t.LLVMType())
	return &Slot{Name: name, Type: t, Addr: Value{IR: addr, Type: t}}
}

// Load reads the slot's current value.
func (s *Slot) Load(cur *emit.Cursor) Value {
	v := cur.Block.NewLoad(s.Type.LLVMType(), s.Addr.IR)
	return Value{IR: v, Type: s.Type}
}

// Store writes v into the slot.
func (s *Slot) Store(cur *emit.Cursor, v Value) {
	cur.Block.NewStore(v.IR, s.Addr.IR)
}

// Clone returns a slot with the same name and the clone-substituted
// type, but no storage: the caller (a cloned FuncDef/VarDecl/Bind
// pattern) must allocate fresh storage for it in the cloned function's
// preamble, since a clone always belongs to a different function body.
// The fresh slot is registered in ref.Slots so that ResolveSlot finds
// it from any Var expression reached later in the same clone pass.
func (s *Slot) Clone(ref *CloneRef) *Slot {
	if cached, ok := ref.Slots[s]; ok {
		return cached
	}
	ns := &Slot{Name: s.Name, Type: s.Type.Clone(ref), Const: s.Const}
	ref.Slots[s] = ns
	return ns
}

// ResolveSlot returns the clone of s registered under ref (by an
// earlier Clone call from s's owning declaration), or s itself if ref
// has no clone for it — the case where s is a free variable captured
// from an enclosing, non-cloned scope.
func ResolveSlot(ref *CloneRef, s *Slot) *Slot {
	if ns, ok := ref.Slots[s]; ok {
		return ns
	}
	return s
}
