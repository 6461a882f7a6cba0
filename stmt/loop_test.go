package stmt

import (
	"math/big"
	"testing"

	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/types"
)

func TestWhileRejectsNonBoolCondition(t *testing.T) {
	s := &While{Cond: &expr.IntLit{Value: bigOne()}, Body: &Block{}}
	if err := s.ResolveTypes(); err == nil {
		t.Fatalf("ResolveTypes() = nil, want an error for a non-Bool while condition")
	}
}

func TestWhileResolvesBoolCondition(t *testing.T) {
	s := &While{Cond: &expr.BoolLit{Value: true}, Body: &Block{}}
	if err := s.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
}

// Cloning a While must give the clone its own loopFrame, not share the
// original's, and any Break/Continue inside the body must be rewritten
// to target the cloned frame. This is the identity the generic-function
// realization path depends on: a realized instance's break/continue
// must branch to its own loop's blocks, never the template's.
func TestWhileCloneRewritesBreakContinueTargets(t *testing.T) {
	s := &While{
		Cond: &expr.BoolLit{Value: true},
		Body: &Block{},
	}
	s.Body.Stmts = []Stmt{
		&Break{Loop: &s.loopFrame},
		&Continue{Loop: &s.loopFrame},
	}

	ref := types.NewCloneRef(nil)
	clone := s.Clone(ref).(*While)

	if &clone.loopFrame == &s.loopFrame {
		t.Fatalf("clone shares the original's loopFrame")
	}

	cbreak := clone.Body.Stmts[0].(*Break)
	ccontinue := clone.Body.Stmts[1].(*Continue)
	if cbreak.Loop != &clone.loopFrame {
		t.Errorf("cloned Break.Loop does not point at the cloned While's loopFrame")
	}
	if ccontinue.Loop != &clone.loopFrame {
		t.Errorf("cloned Continue.Loop does not point at the cloned While's loopFrame")
	}
	if cbreak.Loop == &s.loopFrame || ccontinue.Loop == &s.loopFrame {
		t.Errorf("cloned Break/Continue still point at the original While's loopFrame")
	}
}

func TestRangeRejectsNonGeneratorSource(t *testing.T) {
	s := &Range{
		Var:    &types.Slot{Name: "x", Type: types.IntT},
		Source: &expr.IntLit{Value: bigOne()},
		Body:   &Block{},
	}
	if err := s.ResolveTypes(); err == nil {
		t.Fatalf("ResolveTypes() = nil, want an error ranging over a non-Generator source")
	}
}

func bigOne() *big.Int { return big.NewInt(1) }
