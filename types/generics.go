// This file implements the Generic realization machinery of spec §4.1
// and §9: type-parameter deduction from argument types, substitution
// ("realize"), and identity-preserving cloning. Spec §9 frames Generic
// as "a capability mixed into both functions and ref-types"; rather
// than a shared base type (the inheritance spec §9 explicitly tells us
// to retire), it is a set of pure functions over *Type plus a small
// cache any generic entity can reuse — types.Type uses it directly for
// Array/Record/Func/Method/Generator/Optional/PartialFunc/Ref, and
// stmt.FuncDef reuses the exact same deduction/caching logic for
// generic functions (see stmt/generic.go).
package types

import (
	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/loc"
)

// NewTypeParam returns the canonical placeholder *Type for a type
// parameter slot, used inside a generic template's signature wherever
// that parameter occurs.
func NewTypeParam(p *TypeParm) *Type {
	return &Type{Kind: TypeParam, Name: p.Name, Parm: p}
}

// A CloneRef threads identity-preserving memoization and a generic
// binding vector through one clone/realize pass (spec §3's "Cloning
// preserves identity of shared children", spec §4.1's Clone). The same
// CloneRef must be reused for every Type and every expr/stmt AST node
// reached during a single generic instantiation, so that two
// references to the same original node produce the same cloned node.
type CloneRef struct {
	Bindings map[*TypeParm]*Type
	seen     map[*Type]*Type

	// Slots memoizes lexical-slot clones (a VarDecl/parameter/Bind
	// pattern's storage), so every Var expression reached twice via two
	// parents during the same clone pass resolves to the one fresh
	// Slot its declaration produced (spec §8 property 5's identity-
	// preservation, extended from types to the lexical-binding layer).
	Slots map[*Slot]*Slot

	// Loops memoizes clone identity for statement-level constructs that
	// sit above this package (stmt's loop frames, the break/continue
	// target a While/Range statement's body closes over) — spec §8
	// property 5's identity-preservation extended one layer further.
	// Typed as interface{} because package types sits below package
	// stmt and cannot name stmt's concrete type; stmt alone populates
	// and reads it.
	Loops map[interface{}]interface{}
}

// NewCloneRef builds a CloneRef that substitutes the given bindings.
func NewCloneRef(bindings map[*TypeParm]*Type) *CloneRef {
	return &CloneRef{
		Bindings: bindings,
		seen:     make(map[*Type]*Type),
		Slots:    make(map[*Slot]*Slot),
		Loops:    make(map[interface{}]interface{}),
	}
}

// Clone returns t with ref's bindings substituted for any TypeParm
// leaves reachable from it (spec §4.1's Type.clone): identity for
// types that hold no type parameters transitively, deep-clone
// otherwise, with ref.seen ensuring a shared child is only cloned once.
func (t *Type) Clone(ref *CloneRef) *Type {
	if t == nil {
		return nil
	}
	if t.Kind == TypeParam {
		if bound, ok := ref.Bindings[t.Parm]; ok {
			return bound
		}
		return t
	}
	if cached, ok := ref.seen[t]; ok {
		return cached
	}
	switch t.Kind {
	case Array, Generator, Optional:
		nt := &Type{Kind: t.Kind, Name: t.Name, Range: t.Range}
		ref.seen[t] = nt
		nt.Elem = t.Elem.Clone(ref)
		return nt
	case Record:
		nt := &Type{Kind: Record, Name: t.Name, Range: t.Range}
		ref.seen[t] = nt
		nt.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			nt.Fields[i] = Field{Name: f.Name, Type: f.Type.Clone(ref)}
		}
		return nt
	case Func:
		nt := &Type{Kind: Func, Name: t.Name, Range: t.Range}
		ref.seen[t] = nt
		nt.Params = make([]Param, len(t.Params))
		for i, p := range t.Params {
			nt.Params[i] = Param{Name: p.Name, Type: p.Type.Clone(ref)}
		}
		nt.Out = t.Out.Clone(ref)
		return nt
	case Method:
		nt := &Type{Kind: Method, Name: t.Name, Range: t.Range}
		ref.seen[t] = nt
		nt.Self = t.Self.Clone(ref)
		nt.Sig = t.Sig.Clone(ref)
		return nt
	case PartialFunc:
		nt := &Type{Kind: PartialFunc, Name: t.Name, Range: t.Range}
		ref.seen[t] = nt
		nt.Underlying = t.Underlying.Clone(ref)
		nt.SlotTypes = make([]*Type, len(t.SlotTypes))
		for i, st := range t.SlotTypes {
			if st != nil {
				nt.SlotTypes[i] = st.Clone(ref)
			}
		}
		return nt
	case Ref:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]*Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.Clone(ref)
		}
		nt := refDef(t).Realize(args)
		ref.seen[t] = nt
		return nt
	default:
		return t
	}
}

// Realize returns the realization of generic template t for the given
// concrete argument types, substituting t.TypeParams with args in
// declaration order. Realizations are cached on t.Insts, scanned
// linearly and compared by typeArgsEqual, so repeated realizations
// with equal args share identity (spec §4.1's "caching by binding
// tuple"). Realize on a non-generic t (len(t.TypeParams)==0) returns t
// unchanged.
func (t *Type) Realize(args []*Type) *Type {
	if len(t.TypeParams) == 0 {
		return t
	}
	for _, inst := range t.Insts {
		if typeArgsEqual(inst.Args, args) {
			return inst
		}
	}
	bindings := make(map[*TypeParm]*Type, len(t.TypeParams))
	for i := range t.TypeParams {
		bindings[&t.TypeParams[i]] = args[i]
	}
	ref := NewCloneRef(bindings)
	inst := &Type{Kind: t.Kind, Name: t.Name, Range: t.Range}
	ref.seen[t] = inst
	switch t.Kind {
	case Array, Generator, Optional:
		inst.Elem = t.Elem.Clone(ref)
	case Record:
		inst.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			inst.Fields[i] = Field{Name: f.Name, Type: f.Type.Clone(ref)}
		}
	case Func:
		inst.Params = make([]Param, len(t.Params))
		for i, p := range t.Params {
			inst.Params[i] = Param{Name: p.Name, Type: p.Type.Clone(ref)}
		}
		inst.Out = t.Out.Clone(ref)
	case Method:
		inst.Self = t.Self.Clone(ref)
		inst.Sig = t.Sig.Clone(ref)
	case PartialFunc:
		inst.Underlying = t.Underlying.Clone(ref)
		inst.SlotTypes = make([]*Type, len(t.SlotTypes))
		for i, st := range t.SlotTypes {
			if st != nil {
				inst.SlotTypes[i] = st.Clone(ref)
			}
		}
	case Ref:
		inst.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			inst.Fields[i] = Field{Name: f.Name, Type: f.Type.Clone(ref)}
		}
		inst.Parent = t.Parent
		inst.Abstract = t.Abstract
	}
	inst.Def = t
	inst.Args = args
	t.Insts = append(t.Insts, inst)
	return inst
}

// DeduceFromArgTypes deduces concrete bindings for parms by structurally
// unifying each patterns[i] (a type possibly containing TypeParam
// leaves from parms) against the concrete argTypes[i] (spec §4.1's
// "deduceTypesFromArgTypes"). It requires agreement on every occurrence
// of a given parameter across the signature; a conflicting second
// occurrence is a typed error naming both bindings. Every parameter in
// parms must be bound by at least one pattern, or deduction fails
// naming the unbound parameter (spec §7 "Generic: inability to deduce
// type parameters").
func DeduceFromArgTypes(parms []TypeParm, patterns []*Type, argTypes []*Type, l loc.Loc) (map[*TypeParm]*Type, *diag.Error) {
	inSet := make(map[*TypeParm]bool, len(parms))
	for i := range parms {
		inSet[&parms[i]] = true
	}
	sub := make(map[*TypeParm]*Type)
	for i := range patterns {
		if i >= len(argTypes) || argTypes[i] == nil {
			continue
		}
		if err := deduceOne(inSet, patterns[i], argTypes[i], sub, l); err != nil {
			return nil, err
		}
	}
	for i := range parms {
		if _, ok := sub[&parms[i]]; !ok {
			return nil, diag.New(l, "cannot infer type parameter %s", parms[i].Name)
		}
	}
	return sub, nil
}

func deduceOne(inSet map[*TypeParm]bool, pat, arg *Type, sub map[*TypeParm]*Type, l loc.Loc) *diag.Error {
	if pat.Kind == TypeParam && inSet[pat.Parm] {
		if prev, ok := sub[pat.Parm]; ok {
			if !prev.Is(arg) {
				return diag.New(l, "cannot bind %s to %s: already bound to %s", pat.Parm.Name, arg, prev).
					NotePretty("conflicting binding", arg).
					NotePretty("previous binding", prev)
			}
			return nil
		}
		sub[pat.Parm] = arg
		return nil
	}
	if pat.Kind != arg.Kind {
		return diag.New(l, "type mismatch: have %s, want %s", arg, pat)
	}
	switch pat.Kind {
	case Array, Generator, Optional:
		return deduceOne(inSet, pat.Elem, arg.Elem, sub, l)
	case Record:
		if len(pat.Fields) != len(arg.Fields) {
			return diag.New(l, "type mismatch: have %s, want %s", arg, pat)
		}
		for i := range pat.Fields {
			if err := deduceOne(inSet, pat.Fields[i].Type, arg.Fields[i].Type, sub, l); err != nil {
				return err
			}
		}
		return nil
	case Func:
		if len(pat.Params) != len(arg.Params) {
			return diag.New(l, "type mismatch: have %s, want %s", arg, pat)
		}
		for i := range pat.Params {
			if err := deduceOne(inSet, pat.Params[i].Type, arg.Params[i].Type, sub, l); err != nil {
				return err
			}
		}
		return deduceOne(inSet, pat.Out, arg.Out, sub, l)
	case Method:
		if err := deduceOne(inSet, pat.Self, arg.Self, sub, l); err != nil {
			return err
		}
		return deduceOne(inSet, pat.Sig, arg.Sig, sub, l)
	case PartialFunc:
		if err := deduceOne(inSet, pat.Underlying, arg.Underlying, sub, l); err != nil {
			return err
		}
		if len(pat.SlotTypes) != len(arg.SlotTypes) {
			return diag.New(l, "type mismatch: have %s, want %s", arg, pat)
		}
		for i := range pat.SlotTypes {
			if pat.SlotTypes[i] == nil || arg.SlotTypes[i] == nil {
				continue
			}
			if err := deduceOne(inSet, pat.SlotTypes[i], arg.SlotTypes[i], sub, l); err != nil {
				return err
			}
		}
		return nil
	case Ref:
		if refDef(pat) != refDef(arg) || len(pat.Args) != len(arg.Args) {
			return diag.New(l, "type mismatch: have %s, want %s", arg, pat)
		}
		for i := range pat.Args {
			if err := deduceOne(inSet, pat.Args[i], arg.Args[i], sub, l); err != nil {
				return err
			}
		}
		return nil
	default:
		if !pat.Is(arg) {
			return diag.New(l, "type mismatch: have %s, want %s", arg, pat)
		}
		return nil
	}
}
