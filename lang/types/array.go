package types

import "strings"

// Array is Melon's mutable sequence value.
type Array struct {
	elems []Value
}

var (
	_ Value = (*Array)(nil)
	_ Attrs = (*Array)(nil)
)

// NewArray wraps elems as an Array, taking ownership of the slice.
func NewArray(elems []Value) *Array { return &Array{elems: elems} }

func (a *Array) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (a *Array) Type() string { return "array" }
func (a *Array) Truth() bool  { return len(a.elems) > 0 }
func (a *Array) Len() int     { return len(a.elems) }

// Index returns the element at i, which must satisfy 0 <= i < a.Len().
func (a *Array) Index(i int) Value { return a.elems[i] }

// SetIndex assigns the element at i, which must satisfy 0 <= i < a.Len().
func (a *Array) SetIndex(i int, v Value) { a.elems[i] = v }

// Push appends v, growing the array by one (backs the corelib "push" method).
func (a *Array) Push(v Value) { a.elems = append(a.elems, v) }

// Elems exposes the backing slice, e.g. for the core iterator protocol.
func (a *Array) Elems() []Value { return a.elems }

// Attr reaches a native method bound by lang/corelib.RegisterArrayMethod
// (iterate, iteratorValue, push). lang/types itself knows nothing
// about how to build a callable Value from a Go func — that machinery lives
// in lang/corelib, which populates arrayMethods at registration time so that
// LOADF on an Array resolves without lang/types importing lang/machine.
func (a *Array) Attr(name string) (Value, bool) {
	fn, ok := arrayMethods[name]
	if !ok {
		return nil, false
	}
	return fn(a), true
}

func (a *Array) AttrNames() []string {
	names := make([]string, 0, len(arrayMethods))
	for name := range arrayMethods {
		names = append(names, name)
	}
	return names
}

var arrayMethods = map[string]func(*Array) Value{}

// RegisterArrayMethod binds name as an Array method, reachable via LOADF on
// any Array value. Called once by lang/corelib.Register.
func RegisterArrayMethod(name string, bind func(*Array) Value) {
	arrayMethods[name] = bind
}
