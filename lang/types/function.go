package types

import "fmt"

// FuncKind classifies a Function as either user-defined bytecode or a
// native host callback.
type FuncKind int

//nolint:revive
const (
	UserDefined FuncKind = iota
	Native
)

// NativeFunc is the signature of a host-language function bound into Melon,
// e.g. the core library's print, Array.push, or the iterator protocol
// methods. It receives the receiver (nil for plain functions) separately
// from the remaining arguments.
type NativeFunc func(recv Value, args []Value) (Value, error)

// Function is a compiled function record: a kind, a name, and either a
// bytecode body with its own constant pool (UserDefined) or a host callback
// (Native). Top-level script code is represented as a synthetic "main"
// Function with NumUpvalues 0.
type Function struct {
	Kind        FuncKind
	Name        string
	Code        []byte
	Constants   []Value
	NumLocals   int // frame size reserved at call time, params included
	NumParams   int
	NumUpvalues int
	NativeFn    NativeFunc
}

var _ Value = (*Function)(nil)

func (fn *Function) String() string { return fmt.Sprintf("<function %s>", fn.Name) }
func (fn *Function) Type() string   { return "function" }
func (fn *Function) Truth() bool    { return true }

// Upvalue is a captured variable cell. While open, it reads/writes through a
// stable slot index into its owning machine.Thread's current value stack
// (rather than a raw pointer into the stack's backing array, which Go's
// growable slices would invalidate on every reallocation); once closed, it
// owns its value directly and Slot is no longer consulted. This is a
// deliberate generalization of the pointer-to-cell design: an index survives
// the stack's doubling growth with no fixup pass required, which a raw
// pointer would need (see DESIGN.md).
type Upvalue struct {
	Slot   int
	closed *Value
}

// NewOpenUpvalue returns an Upvalue capturing the given stack slot.
func NewOpenUpvalue(slot int) *Upvalue { return &Upvalue{Slot: slot} }

// IsClosed reports whether Close has been called on this Upvalue.
func (u *Upvalue) IsClosed() bool { return u.closed != nil }

// Get reads the upvalue's current value; stack is the owning thread's live
// value stack, only consulted while open.
func (u *Upvalue) Get(stack []Value) Value {
	if u.closed != nil {
		return *u.closed
	}
	return stack[u.Slot]
}

// Set writes the upvalue's current value.
func (u *Upvalue) Set(stack []Value, v Value) {
	if u.closed != nil {
		*u.closed = v
		return
	}
	stack[u.Slot] = v
}

// Close severs the upvalue from the stack, copying its live value into an
// owned cell. Idempotent.
func (u *Upvalue) Close(stack []Value) {
	if u.closed == nil {
		v := stack[u.Slot]
		u.closed = &v
	}
}

// Closure pairs a Function with the Upvalue cells it captured at creation
// time; len(Upvalues) always equals Fn.NumUpvalues.
type Closure struct {
	Fn       *Function
	Upvalues []*Upvalue
}

var _ Value = (*Closure)(nil)

// NewClosure allocates a Closure over fn with unbound upvalue slots, ready
// for CLOSURE/NEWUP to fill in.
func NewClosure(fn *Function) *Closure {
	var ups []*Upvalue
	if fn.NumUpvalues > 0 {
		ups = make([]*Upvalue, fn.NumUpvalues)
	}
	return &Closure{Fn: fn, Upvalues: ups}
}

func (c *Closure) String() string { return fmt.Sprintf("<closure %s>", c.Fn.Name) }
func (c *Closure) Type() string   { return "closure" }
func (c *Closure) Truth() bool    { return true }
