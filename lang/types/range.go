package types

import "fmt"

// Range is Melon's (start, end, step) integer range value, produced by the
// `a..b` literal and NEWRNG. Step's sign is inferred from the endpoints at
// construction; a range whose Start == End is empty. Per the resolved range
// semantics (an Open Question in the language's design), iterating a Range
// never yields End: it is always half-open, [Start, End).
type Range struct {
	Start, End, Step int64
}

var (
	_ Value = Range{}
	_ Attrs = Range{}
)

// NewRange builds a half-open range from start to end, inferring step's sign.
// A zero-length range (start == end) gets step 1 by convention; it never
// iterates regardless.
func NewRange(start, end int64) Range {
	step := int64(1)
	if end < start {
		step = -1
	}
	return Range{Start: start, End: end, Step: step}
}

func (r Range) String() string { return fmt.Sprintf("%d..%d", r.Start, r.End) }
func (r Range) Type() string   { return "range" }
func (r Range) Truth() bool    { return r.Start != r.End }

// Len reports how many integers this range yields.
func (r Range) Len() int {
	if r.Step > 0 {
		if r.End <= r.Start {
			return 0
		}
		return int((r.End - r.Start + r.Step - 1) / r.Step)
	}
	if r.Start <= r.End {
		return 0
	}
	return int((r.Start - r.End + (-r.Step) - 1) / (-r.Step))
}

// Attr reaches a native method bound by lang/corelib.RegisterRangeMethod
// (iterate, iteratorValue), mirroring Array's Attr.
func (r Range) Attr(name string) (Value, bool) {
	fn, ok := rangeMethods[name]
	if !ok {
		return nil, false
	}
	return fn(r), true
}

func (r Range) AttrNames() []string {
	names := make([]string, 0, len(rangeMethods))
	for name := range rangeMethods {
		names = append(names, name)
	}
	return names
}

var rangeMethods = map[string]func(Range) Value{}

// RegisterRangeMethod binds name as a Range method, reachable via LOADF on
// any Range value. Called once by lang/corelib.Register.
func RegisterRangeMethod(name string, bind func(Range) Value) {
	rangeMethods[name] = bind
}
