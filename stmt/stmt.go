// Package stmt implements the Language's statement AST (spec §3,
// §4.6): blocks, assignment, control flow, and function/variable
// declarations. Each statement implements ResolveTypes/CodeGen/Clone —
// the same three-of-four contract expression nodes implement, minus
// GetType, since statements have no result type. Blocks thread the
// current basic block through their statements in order; loop
// statements forward-declare their header and exit blocks before
// compiling their body (the same "declare the successor before you
// need it" idiom package expr's Cond and Match use for their merge
// blocks), so Break/Continue branch straight to the correct target
// without a separate back-patch pass.
package stmt

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/expr"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// A Stmt is one node of the statement AST (spec §3's Statement sum
// type).
type Stmt interface {
	// ResolveTypes recursively prepares s and its children (spec §8
	// property 1: idempotent).
	ResolveTypes() *diag.Error

	// CodeGen emits s's IR into cur, an in/out reference exactly like
	// expr.Expr.CodeGen's (spec §3, §9).
	CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error

	// Clone deep-copies s under a generic-instantiation ref.
	Clone(ref *types.CloneRef) Stmt
}

func errAt(format string, args ...interface{}) *diag.Error {
	return diag.New(loc.Loc{}, format, args...)
}

// Block is an ordered sequence of statements (spec §3: "Blocks are
// ordered sequences; statement emission receives and mutates the
// current block reference").
type Block struct {
	Range loc.Range
	Stmts []Stmt
}

func (b *Block) ResolveTypes() *diag.Error {
	for _, s := range b.Stmts {
		if err := s.ResolveTypes(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Block) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	for _, s := range b.Stmts {
		if err := s.CodeGen(u, cur); err != nil {
			return err
		}
	}
	return nil
}

func (b *Block) Clone(ref *types.CloneRef) Stmt {
	stmts := make([]Stmt, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = s.Clone(ref)
	}
	return &Block{Range: b.Range, Stmts: stmts}
}

// ExprStmt evaluates an expression purely for its side effects,
// discarding its value (spec §4.6's "expression-assignment" grammar
// entry covers the degenerate `x` and `f()` statement forms).
type ExprStmt struct {
	Range loc.Range
	Expr  expr.Expr
}

func (s *ExprStmt) ResolveTypes() *diag.Error { return s.Expr.ResolveTypes() }

func (s *ExprStmt) CodeGen(u *emit.Unit, cur *emit.Cursor) *diag.Error {
	_, err := s.Expr.CodeGen(u, cur)
	return err
}

func (s *ExprStmt) Clone(ref *types.CloneRef) Stmt {
	return &ExprStmt{Range: s.Range, Expr: s.Expr.Clone(ref)}
}
