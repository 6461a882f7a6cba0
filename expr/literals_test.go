package expr

import (
	"math/big"
	"testing"

	"github.com/vellum-lang/vellum/types"
)

func TestIntLitGetType(t *testing.T) {
	e := &IntLit{Value: big.NewInt(7), Base: 10}
	if err := e.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
	got, err := e.GetType()
	if err != nil {
		t.Fatalf("GetType: %v", err)
	}
	if !got.Is(types.IntT) {
		t.Errorf("GetType() = %s, want Int", got)
	}
}

func TestIntLitClonePreservesValue(t *testing.T) {
	e := &IntLit{Value: big.NewInt(42), Base: 16}
	ref := types.NewCloneRef(nil)
	clone := e.Clone(ref).(*IntLit)
	if clone.Value.Cmp(e.Value) != 0 {
		t.Errorf("Clone().Value = %s, want %s", clone.Value, e.Value)
	}
	if clone.Base != e.Base {
		t.Errorf("Clone().Base = %d, want %d", clone.Base, e.Base)
	}
}

func TestBoolLitGetType(t *testing.T) {
	e := &BoolLit{Value: true}
	got, err := e.GetType()
	if err != nil {
		t.Fatalf("GetType: %v", err)
	}
	if !got.Is(types.BoolT()) {
		t.Errorf("GetType() = %s, want Bool", got)
	}
}
