package types

import "strconv"

// Int is Melon's integer type.
type Int int64

var _ Value = Int(0)

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Type() string   { return "int" }
func (i Int) Truth() bool    { return i != 0 }

// Cmp orders two Ints, used by LT/GT/LTE/GTE's Int/Int fast path.
func (i Int) Cmp(j Int) int {
	switch {
	case i < j:
		return -1
	case i > j:
		return +1
	default:
		return 0
	}
}
