package main

import (
	"math/big"

	"github.com/vellum-lang/vellum/compile"
	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/stmt"
	"github.com/vellum-lang/vellum/types"
)

// samplePipelineProgram builds:
//
//	fun double(n Int) -> Int
//	    return n + n
//	end
//
//	fun main() -> Int
//	    return double(21)
//	end
//
// standing in for the source a future parser would produce (spec §1's
// surface parser is explicitly out of scope for this core).
func samplePipelineProgram() *compile.Program {
	n := &types.Slot{Name: "n", Type: types.IntT}
	double := &stmt.FuncDef{
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

	main := &stmt.FuncDef{
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

	return &compile.Program{Funcs: []*stmt.FuncDef{double, main}}
}
