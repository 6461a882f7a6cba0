// Package types implements the Language's type algebra (spec §3, §4.1):
// value/reference/record/function/method/generator/optional/partial-
// function/generic types, structural equality, magic-method resolution
// and vtable layout, method/field lookup, and generic realization.
//
// Type is a single struct tagged by Kind, in place of a deep virtual-
// inheritance hierarchy; the fields actually populated depend on Kind.
package types

import (
	"fmt"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/loc"
)

// A Kind tags which variant of the type algebra a *Type is.
type Kind int

// The type variants of spec §3/§2.1.
const (
	Int Kind = iota
	Float
	Bool
	Str
	Seq
	Void
	Array       // Array(T)
	Record      // Record(T..., names?)
	Func        // Func(in..., out)
	Method      // Method(self, Func)
	Generator   // Generator(T)
	Optional    // Optional(T)
	PartialFunc // PartialFunc(Func, slot-types...)
	Ref         // nominal/class type with methods and fields
	TypeParam   // an unbound generic type-parameter slot
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case Str:
		return "Str"
	case Seq:
		return "Seq"
	case Void:
		return "Void"
	case Array:
		return "Array"
	case Record:
		return "Record"
	case Func:
		return "Func"
	case Method:
		return "Method"
	case Generator:
		return "Generator"
	case Optional:
		return "Optional"
	case PartialFunc:
		return "PartialFunc"
	case Ref:
		return "Ref"
	case TypeParam:
		return "TypeParam"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// A Field is a named, typed slot of a Record or a Ref type.
type Field struct {
	Name string
	Type *Type
}

// A Param is a Func's formal parameter: a type, optionally named (names
// are cosmetic — only present when taken from a named ref-method
// signature; Func(in..., out) itself is structural).
type Param struct {
	Name string
	Type *Type
}

// A Type is a value object: a name, a parent (used for inheritance of
// Ref types and as the originating generic template for realizations),
// abstractness, and a lazily-populated vtable (spec §3). Types are
// referentially shared and immutable once constructed except for the
// vtable, whose population (initOps/initFields) is lazy and idempotent.
type Type struct {
	Kind     Kind
	Name     string
	Parent   *Type
	Abstract bool

	vtable VTable

	// Array(T), Optional(T), Generator(T)
	Elem *Type

	// Record(T..., names?): Fields[i].Name is "" when the record is
	// positional (tuple-like) rather than named.
	Fields []Field

	// Func(in..., out)
	Params []Param
	Out    *Type

	// Method(self, Func)
	Self *Type
	Sig  *Type // the underlying Func type

	// PartialFunc(Func, slot-types...): SlotTypes[i] is the bound
	// type of slot i, or nil for an unbound ("hole") slot.
	Underlying *Type
	SlotTypes  []*Type

	// Ref: nominal/class. Fields above double as Ref's field list;
	// its methods and magic live in the vtable.

	// Generic machinery (spec §4.1 "Generic realization"; modeled per
	// spec §9 as shared data + shared functions rather than a mixin
	// base class). TypeParams is non-empty only on the *unrealized*
	// generic template. Def points to the template for a realized
	// instance; it is nil on other types, except the built-in
	// collection templates, whose Def is themselves. Args
	// is the binding vector that produced this realization (nil on
	// the template). Insts caches realizations keyed by Args, scanned
	// linearly and compared with typeArgsEqual rather than stored in a
	// map, since *Type identity (not a serialized key) is what
	// equality means here.
	TypeParams []TypeParm
	Def        *Type
	Args       []*Type
	Insts      []*Type

	// Parm is non-nil iff Kind==TypeParam: it is the placeholder's
	// originating slot, the leaf a generic realization substitutes.
	Parm *TypeParm

	// Range locates the originating AST node, for error-location
	// reporting; it is the zero Range for built-in/synthesized types.
	// It is typed as loc.Range rather than an AST interface to
	// avoid a types->expr import cycle: the parser (out of scope) is
	// expected to have already resolved any syntax into one.
	Range loc.Range
}

// A TypeParm is a generic type-parameter slot (spec §4.1's deduction,
// §9's Generic capability). ID disambiguates type parameters that share
// a Name across different generic templates.
type TypeParm struct {
	Name   string
	ID     int
	Ifaces []*Type // required magic methods / structural bound
}

// Loc returns the location of the type's originating AST node, or the
// zero Loc if synthesized.
func (t *Type) Loc(files loc.Files) loc.Loc {
	if files == nil {
		return loc.Loc{}
	}
	if l := files.Loc(t.Range); l != nil {
		return *l
	}
	return loc.Loc{}
}

// String returns a human-readable rendering of the type, used in error
// messages and debug tracing.
func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case Array:
		return fmt.Sprintf("%s[]", t.Elem)
	case Generator:
		return fmt.Sprintf("Generator(%s)", t.Elem)
	case Optional:
		return fmt.Sprintf("%s?", t.Elem)
	case Record:
		return fmt.Sprintf("{%s}", fieldList(t.Fields))
	case Func:
		return fmt.Sprintf("(%s -> %s)", paramList(t.Params), t.Out)
	case Method:
		return fmt.Sprintf("Method(%s, %s)", t.Self, t.Sig)
	case PartialFunc:
		return fmt.Sprintf("PartialFunc(%s, %s)", t.Underlying, slotList(t.SlotTypes))
	case TypeParam:
		return t.Name
	case Ref:
		if len(t.Args) == 0 {
			return t.Name
		}
		return fmt.Sprintf("%s%s", t.Name, argList(t.Args))
	default:
		return t.Name
	}
}

func fieldList(fs []Field) string {
	s := ""
	for i, f := range fs {
		if i > 0 {
			s += ", "
		}
		if f.Name != "" {
			s += f.Name + ": "
		}
		s += f.Type.String()
	}
	return s
}

func paramList(ps []Param) string {
	s := ""
	for i, p := range ps {
		if i > 0 {
			s += ", "
		}
		s += p.Type.String()
	}
	return s
}

func slotList(ts []*Type) string {
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		if t == nil {
			s += "_"
		} else {
			s += t.String()
		}
	}
	return s
}

func argList(ts []*Type) string {
	s := "("
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s + ")"
}

// Is reports whether t and u are structurally the same type (spec §3):
// same Kind, same base-type list. Realized generic instances compare
// by Def identity and Args equality; everything else by Kind plus the
// recursive structure of its payload.
func (t *Type) Is(u *Type) bool {
	if t == u {
		return true
	}
	if t == nil || u == nil || t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case Int, Float, Bool, Str, Seq, Void:
		return true
	case Array, Generator, Optional:
		return t.Elem.Is(u.Elem)
	case Record:
		if len(t.Fields) != len(u.Fields) {
			return false
		}
		for i := range t.Fields {
			if t.Fields[i].Name != u.Fields[i].Name || !t.Fields[i].Type.Is(u.Fields[i].Type) {
				return false
			}
		}
		return true
	case Func:
		if len(t.Params) != len(u.Params) || !t.Out.Is(u.Out) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Type.Is(u.Params[i].Type) {
				return false
			}
		}
		return true
	case Method:
		return t.Self.Is(u.Self) && t.Sig.Is(u.Sig)
	case PartialFunc:
		if !t.Underlying.Is(u.Underlying) || len(t.SlotTypes) != len(u.SlotTypes) {
			return false
		}
		for i := range t.SlotTypes {
			if (t.SlotTypes[i] == nil) != (u.SlotTypes[i] == nil) {
				return false
			}
			if t.SlotTypes[i] != nil && !t.SlotTypes[i].Is(u.SlotTypes[i]) {
				return false
			}
		}
		return true
	case Ref:
		if refDef(t) != refDef(u) {
			return false
		}
		return typeArgsEqual(t.Args, u.Args)
	case TypeParam:
		return t == u
	default:
		return false
	}
}

func refDef(t *Type) *Type {
	if t.Def != nil {
		return t.Def
	}
	return t
}

// Compatible reports whether t and u may be used interchangeably: they
// are either structurally the same, or one is an abstract ancestor
// (Parent chain) of the other — the asymmetric case spec §3 calls out.
func (t *Type) Compatible(u *Type) bool {
	if t.Is(u) {
		return true
	}
	for p := u.Parent; p != nil; p = p.Parent {
		if p.Abstract && t.Is(p) {
			return true
		}
	}
	for p := t.Parent; p != nil; p = p.Parent {
		if p.Abstract && u.Is(p) {
			return true
		}
	}
	return false
}

func typeArgsEqual(as, bs []*Type) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !as[i].Is(bs[i]) {
			return false
		}
	}
	return true
}

// errorAt builds a *diag.Error located at t's AST origin.
func errorAt(files loc.Files, t *Type, format string, args ...interface{}) *diag.Error {
	return diag.New(t.Loc(files), format, args...)
}
