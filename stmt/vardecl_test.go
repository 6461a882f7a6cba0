package stmt

import (
	"math/big"
	"testing"

	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/types"
)

func TestVarDeclInfersSlotType(t *testing.T) {
	slot := &types.Slot{Name: "n"}
	s := &VarDecl{Slot: slot, Init: &expr.IntLit{Value: big.NewInt(3)}}
	if err := s.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
	if !slot.Type.Is(types.IntT) {
		t.Errorf("slot.Type = %s, want Int", slot.Type)
	}
}

func TestVarDeclRejectsDeclaredTypeMismatch(t *testing.T) {
	slot := &types.Slot{Name: "n", Type: types.BoolT()}
	s := &VarDecl{Slot: slot, Init: &expr.IntLit{Value: big.NewInt(3)}}
	if err := s.ResolveTypes(); err == nil {
		t.Fatalf("ResolveTypes() = nil, want a mismatch error for a Bool slot initialized with an Int")
	}
}

func TestVarDeclCloneDeepCopies(t *testing.T) {
	slot := &types.Slot{Name: "n", Type: types.IntT}
	s := &VarDecl{Slot: slot, Init: &expr.IntLit{Value: big.NewInt(3)}}
	ref := types.NewCloneRef(nil)
	clone := s.Clone(ref).(*VarDecl)
	if clone.Slot == s.Slot {
		t.Errorf("Clone shared the Slot pointer instead of cloning it")
	}
	if clone.Slot.Name != s.Slot.Name {
		t.Errorf("Clone().Slot.Name = %q, want %q", clone.Slot.Name, s.Slot.Name)
	}
}
