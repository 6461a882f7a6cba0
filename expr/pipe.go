package expr

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// pipeHole stands in for the value flowing out of the previous stage of
// a pipeline, so each stage after the first can be lowered to an
// ordinary synthesized Call (spec §4.5: "every stage is invoked through
// a synthesized Call, for uniform type-parameter deduction"). Its value
// is plugged in by Pipe.CodeGen immediately before the stage's call is
// emitted.
type pipeHole struct {
	typ *types.Type
	val types.Value
}

func (h *pipeHole) ResolveTypes() *diag.Error          { return nil }
func (h *pipeHole) GetType() (*types.Type, *diag.Error) { return h.typ, nil }
func (h *pipeHole) Clone(ref *types.CloneRef) Expr      { return &pipeHole{typ: h.typ.Clone(ref)} }
func (h *pipeHole) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	return h.val, nil
}

// stage is one `|> expr` link of a pipeline: the callee expression as
// written, plus the hole and synthesized Call built for it during
// ResolveTypes, and whether it drives a non-terminal generator.
type stage struct {
	hole   *pipeHole
	call   *Call
	driven bool // non-terminal Generator(T): wrap in the resume/done/promise/destroy loop
}

// Pipe is `s1 |> s2 |> ... |> sn` (spec §4.2, §4.5). Source is s1,
// evaluated as written; each of Stages is invoked as a synthesized
// one-argument Call against the previous stage's value. A non-terminal
// Generator(T) stage is driven by an inserted loop (spec §4.5); since
// that loop discards the generator's final value, a pipe containing one
// has type Void overall (spec §8 property 7). A terminal generator
// stage is returned as-is.
type Pipe struct {
	Range  loc.Range
	Source Expr
	Stages []Expr

	typ     *types.Type
	built   []stage
	anyVoid bool
}

func (e *Pipe) ResolveTypes() *diag.Error {
	if err := e.Source.ResolveTypes(); err != nil {
		return err
	}
	cur, err := e.Source.GetType()
	if err != nil {
		return err
	}
	e.built = make([]stage, len(e.Stages))
	for i, callee := range e.Stages {
		if err := callee.ResolveTypes(); err != nil {
			return err
		}
		hole := &pipeHole{typ: cur}
		call := &Call{Callee: callee, Args: []Expr{hole}}
		if err := call.ResolveTypes(); err != nil {
			return err
		}
		st, err := call.GetType()
		if err != nil {
			return err
		}
		last := i == len(e.Stages)-1
		driven := st.Kind == types.Generator && !last
		e.built[i] = stage{hole: hole, call: call, driven: driven}
		if driven {
			cur = st.Elem
			e.anyVoid = true
		} else {
			cur = st
		}
	}
	if e.anyVoid {
		e.typ = types.VoidT
	} else {
		e.typ = cur
	}
	return nil
}

func (e *Pipe) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *Pipe) Clone(ref *types.CloneRef) Expr {
	stages := make([]Expr, len(e.Stages))
	for i, s := range e.Stages {
		stages[i] = s.Clone(ref)
	}
	return &Pipe{Range: e.Range, Source: e.Source.Clone(ref), Stages: stages}
}

func (e *Pipe) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	v, err := e.Source.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	return e.codegenFrom(u, cur, 0, v)
}

// codegenFrom emits stages[i:] in sequence, feeding each one v. A driven
// generator stage consumes every remaining stage inside its driver loop
// (spec §4.5), so it never returns to this loop — the recursive call it
// makes handles i+1..end itself.
func (e *Pipe) codegenFrom(u *emit.Unit, cur *emit.Cursor, i int, v types.Value) (types.Value, *diag.Error) {
	if i == len(e.built) {
		return v, nil
	}
	st := &e.built[i]
	st.hole.val = v
	callVal, err := st.call.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	if !st.driven {
		return e.codegenFrom(u, cur, i+1, callVal)
	}
	if err := e.driveGenerator(u, cur, i, callVal); err != nil {
		return types.Value{}, err
	}
	return types.Value{IR: voidConst(), Type: types.VoidT}, nil
}

// driveGenerator lowers stage i, a non-terminal Generator(T), per spec
// §4.5's loop: resume, check done, promise the next value and feed it
// through stages i+1..end, repeat; destroy on exit.
func (e *Pipe) driveGenerator(u *emit.Unit, cur *emit.Cursor, i int, genVal types.Value) *diag.Error {
	genType := genVal.Type

	fn := cur.Block.Parent
	loop := fn.NewBlock("")
	body := fn.NewBlock("")
	cleanup := fn.NewBlock("")
	exit := fn.NewBlock("")
	cur.Block.NewBr(loop)

	loopCur := &emit.Cursor{Block: loop, Preamble: cur.Preamble}
	if _, err := genType.CallMethod(u, loopCur, "resume", genVal, nil); err != nil {
		return err
	}
	doneVal, err := genType.CallMethod(u, loopCur, "done", genVal, nil)
	if err != nil {
		return err
	}
	loopCur.Block.NewCondBr(doneVal.IR, cleanup, body)

	bodyCur := &emit.Cursor{Block: body, Preamble: cur.Preamble}
	var elemVal types.Value
	if genType.Elem.Kind != types.Void {
		elemVal, err = genType.CallMethod(u, bodyCur, "promise", genVal, nil)
		if err != nil {
			return err
		}
	} else {
		elemVal = types.Value{IR: voidConst(), Type: types.VoidT}
	}
	if _, err := e.codegenFrom(u, bodyCur, i+1, elemVal); err != nil {
		return err
	}
	bodyCur.Block.NewBr(loop)

	cleanupCur := &emit.Cursor{Block: cleanup, Preamble: cur.Preamble}
	if _, err := genType.CallMethod(u, cleanupCur, "destroy", genVal, nil); err != nil {
		return err
	}
	cleanupCur.Block.NewBr(exit)

	cur.Block = exit
	return nil
}
