package types

import "fmt"

// Float is Melon's floating-point type.
type Float float64

var _ Value = Float(0)

func (f Float) String() string { return fmt.Sprintf("%g", f) }
func (f Float) Type() string   { return "float" }
func (f Float) Truth() bool    { return f != 0.0 }

// Cmp orders two Floats, used by LT/GT/LTE/GTE's Float fast path.
func (f Float) Cmp(g Float) int {
	switch {
	case f < g:
		return -1
	case f > g:
		return +1
	default:
		return 0
	}
}
