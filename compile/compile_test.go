package compile

import (
	"math/big"
	"testing"

	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/stmt"
	"github.com/vellum-lang/vellum/types"
)

func doubleFunc() *stmt.FuncDef {
	n := &types.Slot{Name: "n", Type: types.IntT}
	return &stmt.FuncDef{
		Name:   "double",
		Params: []*types.Slot{n},
		Out:    types.IntT,
		Body: &stmt.Block{Stmts: []stmt.Stmt{
			&stmt.Return{
				Value: &expr.BOp{Sym: "+", Left: &expr.Var{Slot: n}, Right: &expr.Var{Slot: n}},
				Out:   types.IntT,
			},
		}},
	}
}

func mainFunc(double *stmt.FuncDef) *stmt.FuncDef {
	return &stmt.FuncDef{
		Name: "main",
		Out:  types.IntT,
		Body: &stmt.Block{Stmts: []stmt.Stmt{
			&stmt.Return{
				Value: &expr.Call{
					Callee: &expr.Func{Fn: double},
					Args:   []expr.Expr{&expr.IntLit{Value: big.NewInt(21), Base: 10}},
				},
				Out: types.IntT,
			},
		}},
	}
}

func TestCompileResolvesAndEmitsEveryFunc(t *testing.T) {
	double := doubleFunc()
	prog := &Program{Funcs: []*stmt.FuncDef{double, mainFunc(double)}}

	unit, errs := Compile("smoke", prog)
	if len(errs) != 0 {
		t.Fatalf("Compile() errs = %v, want none", errs)
	}
	if unit == nil {
		t.Fatalf("Compile() unit = nil, want a non-nil emitted unit")
	}
	if unit.Module == nil {
		t.Fatalf("Compile() unit.Module = nil, want a populated LLVM module")
	}
}

func TestCompileSkipsGenericTemplates(t *testing.T) {
	generic := &stmt.FuncDef{
		Name:      "identity",
		TypeParms: []types.TypeParm{{Name: "T", ID: 0}},
		Body:      &stmt.Block{},
	}
	prog := &Program{Funcs: []*stmt.FuncDef{generic}}

	_, errs := Compile("smoke-generic", prog)
	if len(errs) != 0 {
		t.Fatalf("Compile() errs = %v, want none (an unrealized generic template should be skipped, not compiled)", errs)
	}
}

func TestCompileReportsResolveErrorsWithoutPanicking(t *testing.T) {
	bad := &stmt.FuncDef{
		Name: "bad",
		Out:  types.VoidT,
		Body: &stmt.Block{Stmts: []stmt.Stmt{
			&stmt.Return{Value: &expr.BoolLit{Value: true}, Out: types.VoidT},
		}},
	}
	prog := &Program{Funcs: []*stmt.FuncDef{bad}}

	_, errs := Compile("smoke-bad", prog)
	if len(errs) == 0 {
		t.Fatalf("Compile() errs = none, want an error for returning a value from a Void function")
	}
}
