package types

import (
	"strings"

	"github.com/vellum-lang/vellum/diag"
	"github.com/vellum-lang/vellum/emit"
)

// A MagicMethod is a built-in magic method: a name, its formal
// argument types (excluding self — self is the receiver the vtable
// belongs to), its result type, and the closure that emits its IR
// (spec §4.1).
type MagicMethod struct {
	Name     string
	ArgTypes []*Type
	OutType  *Type
	Emit     func(u *emit.Unit, cur *emit.Cursor, self Value, args []Value) (Value, *diag.Error)
}

// An overload is a user-defined magic method: it participates in
// dispatch exactly like a MagicMethod, but is tried first, and the
// most-recently-added overload for a given name wins over earlier ones
// (spec §3's VTable contract, spec §8's property 3).
type overload struct {
	name string
	fn   Callable
}

// A VTable holds everything spec §3 says a Type's vtable must: magic
// methods, user overloads, methods, and fields, searched in the order
// overloads → built-in magic → methods → fields.
type VTable struct {
	magic     []MagicMethod
	overloads []overload
	methods   map[string]Callable
	fieldIdx  map[string]int

	opsInit    bool
	fieldsInit bool
}

// isMagicName reports whether name is a magic-method name: it begins
// and ends with a double underscore (spec §4.1, GLOSSARY).
func isMagicName(name string) bool {
	return len(name) >= 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// initOps lazily and idempotently populates the vtable's built-in
// magic methods and operator overload slots for t, via the per-Kind
// registration functions in builtin.go. Idempotent per spec §3's
// invariant that vtable population is lazy but never re-entrant-unsafe
// (spec §5).
func (t *Type) initOps() {
	if t.vtable.opsInit {
		return
	}
	t.vtable.opsInit = true
	t.vtable.methods = make(map[string]Callable)
	registerBuiltinMagic(t)
}

// initFields lazily and idempotently populates the vtable's field-index
// map from t.Fields (Record and Ref types). Field indices are stable
// and assigned in declaration order (spec §5's ordering guarantee iv).
func (t *Type) initFields() {
	if t.vtable.fieldsInit {
		return
	}
	t.vtable.fieldsInit = true
	if len(t.Fields) == 0 {
		return
	}
	t.vtable.fieldIdx = make(map[string]int, len(t.Fields))
	for i, f := range t.Fields {
		if f.Name != "" {
			t.vtable.fieldIdx[f.Name] = i
		}
	}
}

// AddMethod adds a user-defined method or magic overload to t.
//
//   - Magic names (isMagicName) are pushed to the *front* of the
//     overload list, so the most recently added overload is tried
//     first (spec §3, §8 property 3). "__new__" can never be
//     overridden (spec §4.2's Construct relies on its built-in
//     semantics unconditionally).
//   - Non-magic names must be unique unless force is true, and a name
//     colliding with an existing field is always rejected, regardless
//     of force (spec §7's structural-error category).
func (t *Type) AddMethod(name string, fn Callable, force bool) *diag.Error {
	t.initOps()
	t.initFields()
	if _, isField := t.vtable.fieldIdx[name]; isField {
		return errorAt(nil, t, "cannot add method %q: a field with that name already exists", name)
	}
	if isMagicName(name) {
		if name == "__new__" {
			return errorAt(nil, t, "cannot override __new__")
		}
		t.vtable.overloads = append([]overload{{name: name, fn: fn}}, t.vtable.overloads...)
		return nil
	}
	if _, exists := t.vtable.methods[name]; exists && !force {
		return errorAt(nil, t, "duplicate method %q on %s", name, t)
	}
	t.vtable.methods[name] = fn
	return nil
}

// lookupOverloads returns every user overload named name, most-
// recently-added first.
func (t *Type) lookupOverloads(name string) []Callable {
	t.initOps()
	var fns []Callable
	for _, o := range t.vtable.overloads {
		if o.name == name {
			fns = append(fns, o.fn)
		}
	}
	return fns
}

// lookupBuiltinMagic returns the built-in MagicMethod named name whose
// ArgTypes structurally match argTypes, or nil.
func (t *Type) lookupBuiltinMagic(name string, argTypes []*Type) *MagicMethod {
	t.initOps()
	for i := range t.vtable.magic {
		m := &t.vtable.magic[i]
		if m.Name != name || len(m.ArgTypes) != len(argTypes) {
			continue
		}
		match := true
		for j := range m.ArgTypes {
			if argTypes[j] == nil || !m.ArgTypes[j].Is(argTypes[j]) {
				match = false
				break
			}
		}
		if match {
			return m
		}
	}
	return nil
}

// lookupMethod returns the method named name, or nil.
func (t *Type) lookupMethod(name string) Callable {
	t.initOps()
	return t.vtable.methods[name]
}

// GenericMethod returns the method named name if it exists and is
// still generic, or nil — the predicate spec §4.4 case 4/5's "the
// receiver's type has a generic method by that name" tests.
func (t *Type) GenericMethod(name string) Callable {
	fn := t.lookupMethod(name)
	if fn != nil && fn.IsGeneric() {
		return fn
	}
	return nil
}

// HasOverload reports whether t has at least one user-defined overload
// (magic-named method) registered under name — used by Construct (spec
// §4.2) to decide whether to call an optional `__init__`/`__del__`
// without triggering CallMagic's "no such magic method" error.
func (t *Type) HasOverload(name string) bool {
	return len(t.lookupOverloads(name)) > 0
}

// lookupField returns the field index named name and whether it was
// found.
func (t *Type) lookupField(name string) (int, bool) {
	t.initFields()
	i, ok := t.vtable.fieldIdx[name]
	return i, ok
}

// registerMagic appends a built-in MagicMethod (used by builtin.go's
// per-Kind registration functions; append order does not matter since
// lookupBuiltinMagic scans by exact name+arg-type match, not order —
// only overloads are order-sensitive, per spec §3).
func (t *Type) registerMagic(m MagicMethod) {
	t.vtable.magic = append(t.vtable.magic, m)
}
