package expr

import (
	"github.com/llir/llvm/ir"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/pattern"
	"github.com/vellum-lang/vellum/types"
)

// A MatchArm pairs one pattern with the expression to evaluate when it
// matches (spec §4.3).
type MatchArm struct {
	Pattern pattern.Pattern
	Body    Expr
}

// Match is the `scrutinee match { pattern -> body, ... }` expression
// (spec §4.2, §4.3): arms are tried in order, each arm's pattern
// producing a boolean test against the scrutinee; the arms must
// include a catch-all (spec §8 property 6) and every arm's body must
// agree on type. Codegen is a chain of condition blocks, each falling
// through to the next arm on mismatch and merging into one result via
// alloca+store+load (the same idiom as Cond and BOp's short-circuit).
type Match struct {
	Range     loc.Range
	Scrutinee Expr
	Arms      []MatchArm

	typ *types.Type
}

func (e *Match) ResolveTypes() *diag.Error {
	if err := e.Scrutinee.ResolveTypes(); err != nil {
		return err
	}
	st, err := e.Scrutinee.GetType()
	if err != nil {
		return err
	}
	haveCatchAll := false
	for i := range e.Arms {
		arm := &e.Arms[i]
		if err := arm.Pattern.ResolveTypes(st); err != nil {
			return err
		}
		if arm.Pattern.IsCatchAll() {
			haveCatchAll = true
		}
		if err := arm.Body.ResolveTypes(); err != nil {
			return err
		}
		bt, err := arm.Body.GetType()
		if err != nil {
			return err
		}
		if e.typ == nil {
			e.typ = bt
		} else if !e.typ.Is(bt) {
			return errAt("match arm %d disagrees: %s vs %s", i, bt, e.typ)
		}
	}
	if !haveCatchAll {
		return errAt("match expression missing catch-all pattern")
	}
	return nil
}

func (e *Match) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *Match) Clone(ref *types.CloneRef) Expr {
	arms := make([]MatchArm, len(e.Arms))
	for i, a := range e.Arms {
		arms[i] = MatchArm{Pattern: a.Pattern.Clone(ref), Body: a.Body.Clone(ref)}
	}
	return &Match{Range: e.Range, Scrutinee: e.Scrutinee.Clone(ref), Arms: arms}
}

func (e *Match) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	sv, err := e.Scrutinee.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	st, err := e.Scrutinee.GetType()
	if err != nil {
		return types.Value{}, err
	}
	fn := cur.Block.Parent
	merge := fn.NewBlock("")

	isVoid := e.typ.Kind == types.Void
	var slot *ir.InstAlloca
	if !isVoid {
		slot = cur.Preamble.NewAlloca(e.typ.LLVMType())
	}

	block := cur.Block
	for i := range e.Arms {
		arm := &e.Arms[i]
		testCur := &emit.Cursor{Block: block, Preamble: cur.Preamble}
		tv, err := arm.Pattern.CodeGen(u, testCur, st, sv)
		if err != nil {
			return types.Value{}, err
		}
		bodyBB := fn.NewBlock("")
		last := i == len(e.Arms)-1
		nextBB := bodyBB
		if !last {
			nextBB = fn.NewBlock("")
		}
		testCur.Block.NewCondBr(tv.IR, bodyBB, nextBB)

		bodyCur := &emit.Cursor{Block: bodyBB, Preamble: cur.Preamble}
		bv, err := arm.Body.CodeGen(u, bodyCur)
		if err != nil {
			return types.Value{}, err
		}
		if !isVoid {
			bodyCur.Block.NewStore(bv.IR, slot)
		}
		bodyCur.Block.NewBr(merge)
		block = nextBB
	}
	cur.Block = merge
	if isVoid {
		return types.Value{IR: voidConst(), Type: e.typ}, nil
	}
	v := merge.NewLoad(e.typ.LLVMType(), slot)
	return types.Value{IR: v, Type: e.typ}, nil
}
