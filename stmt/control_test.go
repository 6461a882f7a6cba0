package stmt

import (
	"math/big"
	"testing"

	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/types"
)

func TestBreakOutsideLoopIsError(t *testing.T) {
	s := &Break{}
	if err := s.ResolveTypes(); err == nil {
		t.Fatalf("ResolveTypes() = nil, want an error for break outside a loop")
	}
}

func TestContinueOutsideLoopIsError(t *testing.T) {
	s := &Continue{}
	if err := s.ResolveTypes(); err == nil {
		t.Fatalf("ResolveTypes() = nil, want an error for continue outside a loop")
	}
}

func TestIfRequiresBoolCondition(t *testing.T) {
	s := &If{
		Cond: &expr.IntLit{Value: big.NewInt(0)},
		Then: &Block{},
	}
	if err := s.ResolveTypes(); err == nil {
		t.Fatalf("ResolveTypes() = nil, want an error for a non-Bool if condition")
	}
}

func TestIfResolvesElseChain(t *testing.T) {
	s := &If{
		Cond: &expr.BoolLit{Value: true},
		Then: &Block{},
		Else: &If{Cond: &expr.BoolLit{Value: false}, Then: &Block{}},
	}
	if err := s.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
}

func TestReturnVoidRejectsValue(t *testing.T) {
	s := &Return{Value: &expr.BoolLit{Value: true}, Out: types.VoidT}
	if err := s.ResolveTypes(); err == nil {
		t.Fatalf("ResolveTypes() = nil, want an error returning a value from a Void function")
	}
}

func TestReturnVoidAcceptsNoValue(t *testing.T) {
	s := &Return{Out: types.VoidT}
	if err := s.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
}
