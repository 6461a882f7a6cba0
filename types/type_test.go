package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{Int, "Int"},
		{Ref, "Ref"},
		{Kind(99), "Kind(99)"},
	}
	for _, test := range tests {
		if got := test.k.String(); got != test.want {
			t.Errorf("Kind(%d).String() = %q, want %q", test.k, got, test.want)
		}
	}
}

func TestTypeIs(t *testing.T) {
	arrInt := &Type{Kind: Array, Elem: IntT}
	arrFloat := &Type{Kind: Array, Elem: FloatT}
	tests := []struct {
		name string
		a, b *Type
		want bool
	}{
		{"same singleton", IntT, IntT, true},
		{"different kind", IntT, FloatT, false},
		{"same array elem", arrInt, &Type{Kind: Array, Elem: IntT}, true},
		{"different array elem", arrInt, arrFloat, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.a.Is(test.b); got != test.want {
				t.Errorf("(%s).Is(%s) = %v, want %v", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		want string
	}{
		{"array", &Type{Kind: Array, Elem: IntT}, "Int[]"},
		{"optional", &Type{Kind: Optional, Elem: IntT}, "Int?"},
		{"generator", &Type{Kind: Generator, Elem: IntT}, "Generator(Int)"},
		{
			"record",
			&Type{Kind: Record, Fields: []Field{{Name: "x", Type: IntT}, {Name: "y", Type: FloatT}}},
			"{x: Int, y: Float}",
		},
		{
			"func",
			&Type{Kind: Func, Params: []Param{{Type: IntT}}, Out: BoolT()},
			"(Int -> Bool)",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.typ.String(); got != test.want {
				t.Errorf("String() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestSlotClonePreservesConst(t *testing.T) {
	s := &Slot{Name: "n", Type: IntT, Const: true}
	ref := NewCloneRef(nil)
	clone := s.Clone(ref)
	if diff := cmp.Diff(s.Const, clone.Const); diff != "" {
		t.Errorf("Clone did not preserve Const (-want +got):\n%s", diff)
	}
	if clone == s {
		t.Errorf("Clone returned the same slot, want a fresh one")
	}
	if again := s.Clone(ref); again != clone {
		t.Errorf("Clone called twice under the same ref returned different slots; want identity memoization")
	}
}

func TestResolveSlotFallsBackToOriginal(t *testing.T) {
	s := &Slot{Name: "free", Type: IntT}
	ref := NewCloneRef(nil)
	if got := ResolveSlot(ref, s); got != s {
		t.Errorf("ResolveSlot for an uncloned slot returned %v, want the original %v", got, s)
	}
}

func TestTypeIsDistinctRefsByName(t *testing.T) {
	// Two distinct Ref types (different nominal identity) must never
	// compare equal, even with otherwise-identical shape: nominal types
	// are compared by name/identity, not structurally.
	a := &Type{Kind: Ref, Name: "Point"}
	b := &Type{Kind: Ref, Name: "Vector"}
	if a.Is(b) {
		t.Errorf("Is(%v, %v) = true, want false for distinctly-named Ref types", a, b)
	}
}
