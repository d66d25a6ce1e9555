package scanner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/melonlang/melon/lang/token"
)

// Error is a single lexical, parse, resolve or emit error tied to a source
// position. All four compile phases accumulate into an ErrorList rather than
// aborting on the first error, per the phase-then-abort-if-errors discipline
// the whole pipeline follows.
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string {
	if e.Pos.Line == 0 {
		return e.Msg
	}
	return e.Pos.String() + ": " + e.Msg
}

// ErrorList is a list of *Error, sortable by position and satisfying the
// standard error interface as a batch.
type ErrorList []*Error

// Add appends an Error with the given position and message.
func (l *ErrorList) Add(pos token.Position, msg string) {
	*l = append(*l, &Error{Pos: pos, Msg: msg})
}

// Len, Swap and Less implement sort.Interface.
func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ErrorList) Less(i, j int) bool {
	a, b := l[i].Pos, l[j].Pos
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}

// Sort sorts the list in place by source position.
func (l ErrorList) Sort() { sort.Sort(l) }

// Error implements the error interface, rendering every entry.
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = e.Error()
	}
	return fmt.Sprintf("%s (and %d more)", lines[0], len(lines)-1)
}

// Unwrap exposes every entry as a standalone error, so errors.Is/errors.As
// can inspect the whole batch.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns nil if l is empty, otherwise l itself.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// PrintError formats err (an *Error, an ErrorList, or any other error) onto
// w-like Stringer for CLI reporting, one line per entry.
func PrintError(err error) string {
	if el, ok := err.(ErrorList); ok {
		var sb strings.Builder
		for _, e := range el {
			sb.WriteString(e.Error())
			sb.WriteByte('\n')
		}
		return sb.String()
	}
	return err.Error() + "\n"
}
