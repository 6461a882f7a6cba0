package types

import (
	"strings"
	"testing"

	"github.com/vellum-lang/vellum/loc"
)

func TestDeduceFromArgTypesBindsSingleParam(t *testing.T) {
	tp := TypeParm{Name: "T", ID: 0}
	pat := &Type{Kind: TypeParam, Parm: &tp}
	sub, err := DeduceFromArgTypes([]TypeParm{tp}, []*Type{pat}, []*Type{IntT}, loc.Loc{})
	if err != nil {
		t.Fatalf("DeduceFromArgTypes: %v", err)
	}
	if !sub[&tp].Is(IntT) {
		t.Errorf("sub[T] = %s, want Int", sub[&tp])
	}
}

// Two parameters positions bound to the same type parameter with
// conflicting argument types must fail, with notes attaching a
// pretty-printed dump of both disagreeing bindings.
func TestDeduceFromArgTypesReportsConflictWithPrettyNotes(t *testing.T) {
	tp := TypeParm{Name: "T", ID: 0}
	pat := &Type{Kind: TypeParam, Parm: &tp}
	_, err := DeduceFromArgTypes([]TypeParm{tp}, []*Type{pat, pat}, []*Type{IntT, BoolT()}, loc.Loc{})
	if err == nil {
		t.Fatalf("DeduceFromArgTypes() = nil error, want a conflict binding T to both Int and Bool")
	}
	if len(err.Notes) != 2 {
		t.Fatalf("len(err.Notes) = %d, want 2 (conflicting + previous binding)", len(err.Notes))
	}
	if !strings.Contains(err.Notes[0], "conflicting binding") || !strings.Contains(err.Notes[1], "previous binding") {
		t.Errorf("err.Notes = %v, want labeled conflicting/previous binding dumps", err.Notes)
	}
}
