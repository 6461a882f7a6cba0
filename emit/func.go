package emit

import (
	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"
)

// A Func is one emitted function together with its preamble block
// (spec §2's "distinguished preamble block", spec §4.6's "function
// bodies carry a distinguished preamble block for allocas and literal
// globals"). The preamble always ends with an unconditional branch into
// Entry; body codegen never appends to the preamble itself once Entry
// exists, only allocas and literal-global lookups do.
type Func struct {
	LLFunc   *ir.Func
	Preamble *ir.Block

	entry *ir.Block
}

// NewFunc declares a function named name in u with the given signature
// and creates its preamble block and entry block.
func NewFunc(u *Unit, name string, ret irtypes.Type, params ...*ir.Param) *Func {
	llfn := u.GetOrInsertFunc(name, ret, params...)
	pre := llfn.NewBlock(name + ".preamble")
	entry := llfn.NewBlock(name + ".entry")
	pre.NewBr(entry)
	return &Func{LLFunc: llfn, Preamble: pre, entry: entry}
}

// Entry returns the function's first ordinary block: the block body
// codegen should begin appending to.
func (f *Func) Entry() *ir.Block { return f.entry }

// NewBlock creates a new basic block within f, named name. Names need
// not be unique; llir/llvm disambiguates on print.
func (f *Func) NewBlock(name string) *ir.Block {
	return f.LLFunc.NewBlock(name)
}

// A Cursor is the mutable in/out "current basic block" reference spec
// §3 and §9 require every codegen step to thread explicitly: "a block
// variable passed to codegen is an in/out reference: on return it is
// the block to which subsequent emission should append." Every
// expr/stmt CodeGen method takes a *Cursor and may repoint Block at a
// freshly created successor before returning. Preamble is carried
// alongside so that any branch-merging construct (Cond, Match, a
// short-circuit BOp) can allocate its result slot in the function's
// one preamble block (spec §2, §4.6) no matter how deep the current
// block is nested.
type Cursor struct {
	Block    *ir.Block
	Preamble *ir.Block
}

// At builds a Cursor positioned at b, with no preamble reference (used
// to emit straight into a given block, e.g. a function's preamble when
// types.NewSlot places a slot's alloca there).
func At(b *ir.Block) *Cursor { return &Cursor{Block: b} }

// AtFunc builds the initial Cursor for f's body, positioned at its
// entry block with its preamble block attached.
func AtFunc(f *Func) *Cursor { return &Cursor{Block: f.Entry(), Preamble: f.Preamble} }
