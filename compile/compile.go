package compile

import (
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/stmt"
)

// A Program is a fully-constructed Language unit: its top-level function
// definitions and global variable declarations, built directly via the
// expr/stmt factories rather than parsed (spec §1's surface parser is
// out of scope for this core).
type Program struct {
	Funcs   []*stmt.FuncDef
	Globals []*stmt.VarDecl
}

// Compile resolves types across prog and emits it into a fresh LLVM
// module named name: resolve every top-level definition, stop and
// report on the first batch of errors, then compile every non-generic
// function (including one never called from elsewhere in prog, so dead
// top-level code still round-trips through emission) and every global.
//
// If type resolution fails, Compile returns a nil unit. If emission
// fails, it returns the partially-built unit, so a caller that wants to
// inspect what was emitted (a test, a REPL) still can; len(errs) > 0 is
// the signal to discard it.
func Compile(name string, prog *Program, opts ...Option) (*emit.Unit, []error) {
	o := NewOptions(opts...)
	if o.trace {
		diag.SetTrace(true)
	}

	var errs []diag.Error
	for _, g := range prog.Globals {
		if err := g.ResolveTypes(); err != nil {
			errs = append(errs, *err)
		}
	}
	for _, fn := range prog.Funcs {
		if err := fn.ResolveTypes(); err != nil {
			errs = append(errs, *err)
		}
	}
	if len(errs) > 0 {
		return nil, diag.ToErrors(errs)
	}

	u := emit.NewUnit(name)
	if o.target != "" {
		u.Module.TargetTriple = o.target
	}

	initCur := globalInitCursor(u)
	for _, g := range prog.Globals {
		if err := g.CodeGen(u, initCur); err != nil {
			errs = append(errs, *err)
		}
	}
	if initCur.Block.Term == nil {
		initCur.Block.NewRet(nil)
	}
	for _, fn := range prog.Funcs {
		if fn.IsGeneric() {
			continue
		}
		if err := fn.Compile(u); err != nil {
			errs = append(errs, *err)
		}
	}
	if len(errs) > 0 {
		return u, diag.ToErrors(errs)
	}
	return u, nil
}

// globalInitCursor builds the module-level function globals are
// initialized into: vellum$init, a void() function any vellumc-style
// driver calls once before main. VarDecl.CodeGen expects a Cursor with
// a live preamble exactly like a FuncDef body does, so globals get the
// same preamble/entry split ordinary function bodies do.
func globalInitCursor(u *emit.Unit) *emit.Cursor {
	f := emit.NewFunc(u, "vellum$init", irtypes.Void)
	return emit.AtFunc(f)
}
