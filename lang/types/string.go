package types

import "strings"

// String is Melon's text string type: an immutable sequence of bytes.
// Strings render bare (not quoted) from String(); printing a quoted form is
// the core library's concern, not the value's.
type String string

var _ Value = String("")

func (s String) String() string { return string(s) }
func (s String) Type() string   { return "string" }
func (s String) Truth() bool    { return len(s) > 0 }

// Cmp orders two Strings lexicographically, used by LT/GT/LTE/GTE's String
// fast path.
func (s String) Cmp(t String) int {
	return strings.Compare(string(s), string(t))
}
