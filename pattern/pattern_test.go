package pattern

import (
	"testing"

	"github.com/vellum-lang/vellum/types"
)

func TestWildcardIsCatchAll(t *testing.T) {
	var p Wildcard
	if !p.IsCatchAll() {
		t.Errorf("Wildcard.IsCatchAll() = false, want true")
	}
	if err := p.ResolveTypes(types.IntT); err != nil {
		t.Errorf("ResolveTypes: %v", err)
	}
}

func TestBindResolvesSlotTypeFromScrutinee(t *testing.T) {
	p := NewBind("x")
	if err := p.ResolveTypes(types.IntT); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
	if !p.Slot.Type.Is(types.IntT) {
		t.Errorf("Slot.Type = %s, want Int", p.Slot.Type)
	}
	if !p.IsCatchAll() {
		t.Errorf("Bind.IsCatchAll() = false, want true")
	}
}

func TestBindCloneGivesIndependentSlot(t *testing.T) {
	p := NewBind("x")
	if err := p.ResolveTypes(types.IntT); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
	ref := types.NewCloneRef(nil)
	clone := p.Clone(ref).(*Bind)
	if clone.Slot == p.Slot {
		t.Errorf("Clone shared the Slot pointer instead of cloning it")
	}
	if clone.Slot.Name != p.Slot.Name {
		t.Errorf("Clone().Slot.Name = %q, want %q", clone.Slot.Name, p.Slot.Name)
	}
}

func TestLiteralRejectsScrutineeTypeMismatch(t *testing.T) {
	p := &Literal{Value: types.Value{Type: types.BoolT()}}
	if err := p.ResolveTypes(types.IntT); err == nil {
		t.Fatalf("ResolveTypes() = nil, want a type-mismatch error matching a Bool literal against an Int scrutinee")
	}
}

func TestLiteralAcceptsMatchingScrutineeType(t *testing.T) {
	p := &Literal{Value: types.Value{Type: types.IntT}}
	if err := p.ResolveTypes(types.IntT); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
	if p.IsCatchAll() {
		t.Errorf("Literal.IsCatchAll() = true, want false")
	}
}
