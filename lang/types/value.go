// Package types defines Melon's runtime value model: the tagged union of
// scalars and heap objects that constant pools hold and the machine's value
// stack carries.
package types

// Value is any Melon runtime value: Null, Bool, Int, Float, String, Range, or
// one of the heap variants (*Closure, *Class, *Instance, *Array). Equality
// for scalars, strings and ranges is structural; heap variants compare by
// identity, per the data model.
type Value interface {
	// String renders the value for printing and error messages.
	String() string
	// Type names the value's dynamic type, e.g. "int", "closure".
	Type() string
	// Truth reports the value's boolishness, consulted by JIF and NOT.
	Truth() bool
}

// Attrs is implemented by values whose fields or methods may be read by name
// through LOADF/LOADA without going through a class's member table — Array
// and Range's built-in methods (push, iterate, iteratorValue, ...). Instance
// goes through its Class's member table instead; see class.go.
type Attrs interface {
	Attr(name string) (Value, bool)
	AttrNames() []string
}

// Equal reports whether a and b are the same Melon value: structural
// equality for scalars and strings (with Int/Float cross-promotion), identity
// for heap variants. This is the fast path the arithmetic/EQ opcodes in
// lang/machine try before falling back to a class's $eq override.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return Float(x) == y
		}
		return false
	case Float:
		switch y := b.(type) {
		case Float:
			return x == y
		case Int:
			return x == Float(y)
		}
		return false
	case String:
		y, ok := b.(String)
		return ok && x == y
	default:
		return a == b // pointer identity for heap variants
	}
}

// Null is Melon's single null value.
type Null struct{}

func (Null) String() string { return "null" }
func (Null) Type() string   { return "null" }
func (Null) Truth() bool    { return false }

// NullValue is the sole Null instance.
var NullValue = Null{}

var (
	_ Value = Null{}
	_ Value = Bool(false)
	_ Value = Int(0)
	_ Value = Float(0)
	_ Value = String("")
)
