package stmt

import (
	"testing"

	"github.com/vellum-lang/vellum/types"
)

func TestFuncDefArgTypesAndOutType(t *testing.T) {
	p := &types.Slot{Name: "n", Type: types.IntT}
	fd := &FuncDef{Name: "id", Params: []*types.Slot{p}, Out: types.IntT, Body: &Block{}}

	got := fd.ArgTypes()
	if len(got) != 1 || !got[0].Is(types.IntT) {
		t.Errorf("ArgTypes() = %v, want [Int]", got)
	}
	if !fd.OutType().Is(types.IntT) {
		t.Errorf("OutType() = %s, want Int", fd.OutType())
	}
}

func TestFuncDefIsGeneric(t *testing.T) {
	plain := &FuncDef{Name: "f", Body: &Block{}, Out: types.VoidT}
	if plain.IsGeneric() {
		t.Errorf("plain FuncDef reported IsGeneric() = true")
	}

	generic := &FuncDef{
		Name:      "identity",
		TypeParms: []types.TypeParm{{Name: "T", ID: 0}},
		Body:      &Block{},
		Out:       types.VoidT,
	}
	if !generic.IsGeneric() {
		t.Errorf("generic FuncDef (Def == nil, TypeParms non-empty) reported IsGeneric() = false")
	}
}

func TestFuncDefRealizeOfNonGenericReturnsSelf(t *testing.T) {
	fd := &FuncDef{Name: "f", Body: &Block{}, Out: types.VoidT}
	got, err := fd.Realize(nil)
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	if got != fd {
		t.Errorf("Realize() on a non-generic FuncDef returned a different value than fd itself")
	}
}

func TestFuncDefRealizeCachesByArgTypes(t *testing.T) {
	tp := types.TypeParm{Name: "T", ID: 0}
	fd := &FuncDef{
		Name:      "identity",
		TypeParms: []types.TypeParm{tp},
		Params:    []*types.Slot{{Name: "x", Type: &types.Type{Kind: types.TypeParam, Parm: &tp}}},
		Out:       &types.Type{Kind: types.TypeParam, Parm: &tp},
		Body:      &Block{},
	}

	inst1, err := fd.Realize([]*types.Type{types.IntT})
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	inst2, err := fd.Realize([]*types.Type{types.IntT})
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	if inst1 != inst2 {
		t.Errorf("Realize() with identical arg types did not return the cached instance")
	}
	if len(fd.Insts) != 1 {
		t.Errorf("len(fd.Insts) = %d, want 1 (single cached realization)", len(fd.Insts))
	}

	inst3, err := fd.Realize([]*types.Type{types.BoolT()})
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	if inst3 == inst1 {
		t.Errorf("Realize() with a different arg type reused the Int instance")
	}
	if len(fd.Insts) != 2 {
		t.Errorf("len(fd.Insts) = %d, want 2 after realizing with a second binding", len(fd.Insts))
	}
}

func TestFuncDefResolveTypesSkipsGenericTemplate(t *testing.T) {
	fd := &FuncDef{
		Name:      "identity",
		TypeParms: []types.TypeParm{{Name: "T", ID: 0}},
		Body:      nil, // would panic if ResolveTypes tried to resolve an unrealized template's body
	}
	if err := fd.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
}
