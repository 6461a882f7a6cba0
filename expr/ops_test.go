package expr

import (
	"math/big"
	"testing"

	"github.com/vellum-lang/vellum/types"
)

func TestBOpAddResolvesToInt(t *testing.T) {
	e := &BOp{
		Sym:   "+",
		Left:  &IntLit{Value: big.NewInt(1)},
		Right: &IntLit{Value: big.NewInt(2)},
	}
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

// An Int left operand and a Float right operand promotes to Float via
// the reflected path: Int.__add__ only accepts Int, so BinOpOut falls
// through to Float.__radd__(Int).
func TestBOpAddIntPlusFloatPromotesToFloat(t *testing.T) {
	e := &BOp{
		Sym:   "+",
		Left:  &IntLit{Value: big.NewInt(1)},
		Right: &FloatLit{Value: 2.0},
	}
	if err := e.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
	got, err := e.GetType()
	if err != nil {
		t.Fatalf("GetType: %v", err)
	}
	if !got.Is(types.FloatT) {
		t.Errorf("GetType() = %s, want Float", got)
	}
}

func TestBOpCompareResolvesToBool(t *testing.T) {
	e := &BOp{
		Sym:   "<",
		Left:  &IntLit{Value: big.NewInt(1)},
		Right: &IntLit{Value: big.NewInt(2)},
	}
	if err := e.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
	got, err := e.GetType()
	if err != nil {
		t.Fatalf("GetType: %v", err)
	}
	if !got.Is(types.BoolT()) {
		t.Errorf("GetType() = %s, want Bool", got)
	}
}

func TestUOpNegResolvesToInt(t *testing.T) {
	e := &UOp{Sym: "-", Operand: &IntLit{Value: big.NewInt(5)}}
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

func TestBOpCloneIsIndependent(t *testing.T) {
	e := &BOp{Sym: "+", Left: &IntLit{Value: big.NewInt(1)}, Right: &IntLit{Value: big.NewInt(2)}}
	ref := types.NewCloneRef(nil)
	clone := e.Clone(ref).(*BOp)
	if clone == e {
		t.Fatalf("Clone returned the same node")
	}
	if clone.Left.(*IntLit) == e.Left.(*IntLit) {
		t.Errorf("Clone shared the Left leaf instead of copying it")
	}
	if clone.Sym != e.Sym {
		t.Errorf("Clone().Sym = %q, want %q", clone.Sym, e.Sym)
	}
}
