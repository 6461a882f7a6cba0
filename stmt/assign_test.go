package stmt

import (
	"math/big"
	"testing"

	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/types"
)

func TestAssignRejectsConstSlot(t *testing.T) {
	slot := &types.Slot{Name: "x", Type: types.IntT, Const: true}
	s := &Assign{
		Target: &SlotTarget{Slot: slot},
		Value:  &expr.IntLit{Value: big.NewInt(1)},
	}
	if err := s.ResolveTypes(); err == nil {
		t.Fatalf("ResolveTypes() = nil, want an error assigning to a let-declared slot")
	}
}

func TestAssignAllowsVarSlot(t *testing.T) {
	slot := &types.Slot{Name: "x", Type: types.IntT}
	s := &Assign{
		Target: &SlotTarget{Slot: slot},
		Value:  &expr.IntLit{Value: big.NewInt(1)},
	}
	if err := s.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
}

func TestAssignRejectsTypeMismatch(t *testing.T) {
	slot := &types.Slot{Name: "x", Type: types.BoolT()}
	s := &Assign{
		Target: &SlotTarget{Slot: slot},
		Value:  &expr.IntLit{Value: big.NewInt(1)},
	}
	if err := s.ResolveTypes(); err == nil {
		t.Fatalf("ResolveTypes() = nil, want a type-mismatch error assigning Int to a Bool slot")
	}
}
