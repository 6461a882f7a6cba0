package expr

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
	"github.com/vellum-lang/vellum/loc"
	"github.com/vellum-lang/vellum/types"
)

// target is the resolved calling target of a Call or PartialCall after
// spec §4.4's call-site deduction has run: params/out are the ordinary
// (self-excluded) signature, self is non-nil for a bound method call,
// and fn is the Callable to invoke directly — nil when the callee is
// an arbitrary Func-typed value rather than a known Callable, in which
// case codegen falls back to an indirect call through its IR address.
type target struct {
	params []*types.Type
	out    *types.Type
	self   *types.Type
	fn     types.Callable
}

// deduceAndRealize runs spec §4.4's deduction for a generic fn against
// argTypes (already including self at index 0 for a method), then
// realizes fn and hands the result to set.
func deduceAndRealize(fn types.Callable, argTypes []*types.Type, l loc.Loc, set func(types.Callable)) *diag.Error {
	parms := fn.TypeParams()
	sub, err := types.DeduceFromArgTypes(parms, fn.ArgTypes(), argTypes, l)
	if err != nil {
		return err
	}
	bindings := make([]*types.Type, len(parms))
	for i := range parms {
		bindings[i] = sub[&parms[i]]
	}
	r, err := fn.Realize(bindings)
	if err != nil {
		return err
	}
	set(r)
	return nil
}

// mergeHoles fills bound's nil ("hole") entries, in order, from
// newArgs — spec §4.4 case 2/3's "fold the already-bound arg types
// with the new call's arg types" against a chained partial
// application.
func mergeHoles(bound []*types.Type, newArgs []*types.Type) []*types.Type {
	out := make([]*types.Type, len(bound))
	j := 0
	for i, t := range bound {
		if t != nil {
			out[i] = t
			continue
		}
		if j < len(newArgs) {
			out[i] = newArgs[j]
			j++
		}
	}
	return out
}

func signatureOf(t *types.Type) target {
	switch t.Kind {
	case types.Method:
		return target{params: paramTypes(t.Sig.Params)[1:], out: t.Sig.Out, self: t.Self}
	case types.Func:
		return target{params: paramTypes(t.Params), out: t.Out}
	default:
		return target{}
	}
}

func paramTypes(ps []types.Param) []*types.Type {
	ts := make([]*types.Type, len(ps))
	for i, p := range ps {
		ts[i] = p.Type
	}
	return ts
}

func toParams(ts []*types.Type) []types.Param {
	ps := make([]types.Param, len(ts))
	for i, t := range ts {
		ps[i] = types.Param{Type: t}
	}
	return ps
}

// resolveTarget performs spec §4.4's call-site deduction against
// callee, given the static types of newly supplied arguments (argTypes
// never includes self — self, when relevant, is derived from the
// receiver expression itself). It returns the resolved target plus the
// callee expression codegen should use, which may differ from callee
// itself: case 4/5 replace a generic-method-valued GetElem/
// GetStaticElem with the realized Method/Func the deduction produced.
func resolveTarget(callee Expr, argTypes []*types.Type, l loc.Loc) (target, Expr, *diag.Error) {
	switch c := callee.(type) {
	case *Func:
		if c.IsGenericUnrealized() {
			if err := deduceAndRealize(c.Fn, argTypes, l, func(r types.Callable) { c.Realized = r }); err != nil {
				return target{}, nil, err
			}
		}
		return target{params: c.Realized.ArgTypes(), out: c.Realized.OutType(), fn: c.Realized}, c, nil

	case *Method:
		recvType, err := c.Receiver.GetType()
		if err != nil {
			return target{}, nil, err
		}
		if c.IsGenericUnrealized() {
			full := append([]*types.Type{recvType}, argTypes...)
			if err := deduceAndRealize(c.Fn, full, l, func(r types.Callable) { c.Realized = r }); err != nil {
				return target{}, nil, err
			}
		}
		return target{params: c.Realized.ArgTypes()[1:], out: c.Realized.OutType(), self: recvType, fn: c.Realized}, c, nil

	case *GetElem:
		rt, err := c.Receiver.GetType()
		if err != nil {
			return target{}, nil, err
		}
		if gfn := rt.GenericMethod(c.Name); gfn != nil {
			full := append([]*types.Type{rt}, argTypes...)
			var realized types.Callable
			if err := deduceAndRealize(gfn, full, l, func(r types.Callable) { realized = r }); err != nil {
				return target{}, nil, err
			}
			m := &Method{Range: c.Range, Receiver: c.Receiver, Name: c.Name, Fn: gfn, Realized: realized}
			return target{params: realized.ArgTypes()[1:], out: realized.OutType(), self: rt, fn: realized}, m, nil
		}
		t, err := callee.GetType()
		if err != nil {
			return target{}, nil, err
		}
		return signatureOf(t), callee, nil

	case *GetStaticElem:
		if gfn := c.Type.GenericMethod(c.Name); gfn != nil {
			var realized types.Callable
			if err := deduceAndRealize(gfn, argTypes, l, func(r types.Callable) { realized = r }); err != nil {
				return target{}, nil, err
			}
			f := &Func{Range: c.Range, Fn: gfn, Realized: realized}
			return target{params: realized.ArgTypes(), out: realized.OutType(), fn: realized}, f, nil
		}
		t, err := callee.GetType()
		if err != nil {
			return target{}, nil, err
		}
		return signatureOf(t), callee, nil

	case *PartialCall:
		combined := mergeHoles(c.slotTypesAligned(), argTypes)
		return resolveTarget(c.real, combined, l)

	case *Call:
		ct, err := c.GetType()
		if err != nil {
			return target{}, nil, err
		}
		if ct.Kind == types.PartialFunc {
			combined := mergeHoles(ct.SlotTypes, argTypes)
			return resolveTarget(c.real, combined, l)
		}
		return signatureOf(ct), callee, nil

	default:
		t, err := callee.GetType()
		if err != nil {
			return target{}, nil, err
		}
		return signatureOf(t), callee, nil
	}
}

// allParams returns t's full formal-parameter type list, with self
// prepended when present — the shape a PartialFunc's Underlying and
// SlotTypes are indexed against.
func (t target) allParams() []*types.Type {
	if t.self == nil {
		return t.params
	}
	return append([]*types.Type{t.self}, t.params...)
}

func partialFuncType(t target) *types.Type {
	all := t.allParams()
	return &types.Type{
		Kind:       types.PartialFunc,
		Name:       "PartialFunc",
		Underlying: &types.Type{Kind: types.Func, Name: "Func", Params: toParams(all), Out: t.out},
		SlotTypes:  make([]*types.Type, len(all)),
	}
}

// funcPtrValue returns t's callee address as an IR value: t.fn's
// FuncValue when known, or already-evaluated indirectValue otherwise
// (a plain Func-typed value invoked indirectly, spec §4.2).
func funcPtrValue(u *emit.Unit, t target, indirectValue types.Value) types.Value {
	if t.fn != nil {
		return t.fn.FuncValue(u)
	}
	return indirectValue
}

// invoke emits a full invocation: self (if any) followed by args, in
// that order, matching t.allParams()'s layout.
func invoke(u *emit.Unit, cur *emit.Cursor, t target, selfVal *types.Value, argVals []types.Value, indirectCallee Expr) (types.Value, *diag.Error) {
	if t.fn != nil {
		full := argVals
		if selfVal != nil {
			full = append([]types.Value{*selfVal}, argVals...)
		}
		return t.fn.Emit(u, cur, full)
	}
	cv, err := indirectCallee.CodeGen(u, cur)
	if err != nil {
		return types.Value{}, err
	}
	full := argVals
	if selfVal != nil {
		full = append([]types.Value{*selfVal}, argVals...)
	}
	llArgs := make([]llvalue.Value, len(full))
	for i, v := range full {
		llArgs[i] = v.IR
	}
	v := cur.Block.NewCall(cv.IR, llArgs...)
	return types.Value{IR: v, Type: t.out}, nil
}

// Call is a function, method, or (implicit) partial-application
// invocation (spec §4.2, §4.4): supplying fewer trailing arguments
// than the target's arity yields a PartialFunc-typed value rather than
// invoking anything, mirroring PartialCall but with no explicit holes.
type Call struct {
	Range  loc.Range
	Callee Expr
	Args   []Expr

	sig  target
	real Expr
	typ  *types.Type
}

func (e *Call) ResolveTypes() *diag.Error {
	if err := e.Callee.ResolveTypes(); err != nil {
		return err
	}
	argTypes := make([]*types.Type, len(e.Args))
	for i, a := range e.Args {
		if err := a.ResolveTypes(); err != nil {
			return err
		}
		t, err := a.GetType()
		if err != nil {
			return err
		}
		argTypes[i] = t
	}
	sig, real, err := resolveTarget(e.Callee, argTypes, loc.Loc{})
	if err != nil {
		return err
	}
	e.sig, e.real = sig, real
	if len(e.Args) > len(sig.params) {
		return errAt("too many arguments: have %d, want %d", len(e.Args), len(sig.params))
	}
	for i, a := range e.Args {
		at, _ := a.GetType()
		if !sig.params[i].Is(at) {
			return errAt("argument %d: have %s, want %s", i, at, sig.params[i])
		}
	}
	if len(e.Args) == len(sig.params) {
		e.typ = sig.out
		return nil
	}
	e.typ = partialFuncType(sig)
	offset := 0
	if sig.self != nil {
		e.typ.SlotTypes[0] = sig.self
		offset = 1
	}
	for i, at := range argTypes {
		e.typ.SlotTypes[offset+i] = at
	}
	return nil
}

func (e *Call) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *Call) Clone(ref *types.CloneRef) Expr {
	args := make([]Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.Clone(ref)
	}
	return &Call{Range: e.Range, Callee: e.Callee.Clone(ref), Args: args}
}

func (e *Call) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	var selfVal *types.Value
	if e.sig.self != nil {
		v, err := receiverOf(e.real).CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		selfVal = &v
	}
	argVals := make([]types.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := a.CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		argVals[i] = v
	}
	if len(e.Args) == len(e.sig.params) {
		return invoke(u, cur, e.sig, selfVal, argVals, e.real)
	}
	return buildPartial(u, cur, e.sig, e.typ, selfVal, argVals, nil, e.real)
}

// PartialCall is an explicit partial application `f(a, _, c)` (spec
// §4.2): Slots holds one entry per formal parameter (self excluded —
// self, for a method target, is always bound), nil marking an explicit
// hole.
type PartialCall struct {
	Range  loc.Range
	Target Expr
	Slots  []Expr

	sig  target
	real Expr
	typ  *types.Type
}

func (e *PartialCall) slotTypesAligned() []*types.Type {
	ts := make([]*types.Type, len(e.Slots))
	for i, s := range e.Slots {
		if s == nil {
			continue
		}
		t, _ := s.GetType()
		ts[i] = t
	}
	return ts
}

func (e *PartialCall) ResolveTypes() *diag.Error {
	if err := e.Target.ResolveTypes(); err != nil {
		return err
	}
	for _, s := range e.Slots {
		if s == nil {
			continue
		}
		if err := s.ResolveTypes(); err != nil {
			return err
		}
	}
	sig, real, err := resolveTarget(e.Target, e.slotTypesAligned(), loc.Loc{})
	if err != nil {
		return err
	}
	e.sig, e.real = sig, real
	if len(e.Slots) != len(sig.params) {
		return errAt("partial call supplies %d slots, target wants %d", len(e.Slots), len(sig.params))
	}
	for i, s := range e.Slots {
		if s == nil {
			continue
		}
		st, _ := s.GetType()
		if !sig.params[i].Is(st) {
			return errAt("slot %d: have %s, want %s", i, st, sig.params[i])
		}
	}
	e.typ = partialFuncType(sig)
	offset := 0
	if sig.self != nil {
		e.typ.SlotTypes[0] = sig.self
		offset = 1
	}
	for i, s := range e.Slots {
		if s == nil {
			continue
		}
		t, _ := s.GetType()
		e.typ.SlotTypes[offset+i] = t
	}
	return nil
}

func (e *PartialCall) GetType() (*types.Type, *diag.Error) { return e.typ, nil }

func (e *PartialCall) Clone(ref *types.CloneRef) Expr {
	slots := make([]Expr, len(e.Slots))
	for i, s := range e.Slots {
		if s != nil {
			slots[i] = s.Clone(ref)
		}
	}
	return &PartialCall{Range: e.Range, Target: e.Target.Clone(ref), Slots: slots}
}

func (e *PartialCall) CodeGen(u *emit.Unit, cur *emit.Cursor) (types.Value, *diag.Error) {
	var selfVal *types.Value
	if e.sig.self != nil {
		v, err := receiverOf(e.real).CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		selfVal = &v
	}
	slotVals := make([]*types.Value, len(e.Slots))
	for i, s := range e.Slots {
		if s == nil {
			continue
		}
		v, err := s.CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		slotVals[i] = &v
	}
	return buildPartial(u, cur, e.sig, e.typ, selfVal, nil, slotVals, e.real)
}

// receiverOf returns real's bound receiver expression; real is always
// a *Method whenever a target carries a non-nil self (resolveTarget's
// invariant).
func receiverOf(real Expr) Expr {
	return real.(*Method).Receiver
}

// buildPartial constructs the PartialFunc struct value spec §4.2's
// partial application produces: the underlying function's address
// followed by each bound slot value, in slot order, plus a bitmask of
// which positions are filled (matching types.Type.LLVMType's PartialFunc
// layout). Exactly one of argVals (Call's contiguous trailing-args form)
// or slotVals (PartialCall's sparse hole form) is non-nil.
func buildPartial(u *emit.Unit, cur *emit.Cursor, sig target, typ *types.Type, selfVal *types.Value, argVals []types.Value, slotVals []*types.Value, indirectCallee Expr) (types.Value, *diag.Error) {
	all := make([]*types.Value, len(typ.SlotTypes))
	offset := 0
	if selfVal != nil {
		all[0] = selfVal
		offset = 1
	}
	if argVals != nil {
		for i := range argVals {
			all[offset+i] = &argVals[i]
		}
	} else {
		for i, v := range slotVals {
			all[offset+i] = v
		}
	}
	var indirect types.Value
	if sig.fn == nil {
		v, err := indirectCallee.CodeGen(u, cur)
		if err != nil {
			return types.Value{}, err
		}
		indirect = v
	}
	fnv := funcPtrValue(u, sig, indirect)

	agg := types.Value{IR: constant.NewZeroInitializer(typ.LLVMType()), Type: typ}
	idx := uint64(0)
	agg.IR = cur.Block.NewInsertValue(agg.IR, fnv.IR, idx)
	idx++
	var bitmask int64
	for i, v := range all {
		if v == nil {
			continue
		}
		agg.IR = cur.Block.NewInsertValue(agg.IR, v.IR, idx)
		idx++
		bitmask |= 1 << uint(i)
	}
	agg.IR = cur.Block.NewInsertValue(agg.IR, constant.NewInt(irtypes.I64, bitmask), idx)
	return agg, nil
}
