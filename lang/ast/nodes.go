package ast

import "github.com/melonlang/melon/lang/token"

// Location classifies where a resolved variable reference or declaration
// lives, assigned by the semantic resolver's variable-classification pass.
type Location int

//nolint:revive
const (
	Unresolved Location = iota
	Global
	Local
	Upvalue
	ClassMember
)

func (l Location) String() string {
	switch l {
	case Global:
		return "global"
	case Local:
		return "local"
	case Upvalue:
		return "upvalue"
	case ClassMember:
		return "class member"
	default:
		return "unresolved"
	}
}

// UpvalueSpec describes one upvalue captured by a function, in the order the
// emitter must replay NEWUP instructions immediately after the function's
// CLOSURE instruction.
type UpvalueSpec struct {
	// IsDirect is true when the upvalue captures a local slot of the
	// immediately enclosing function's own frame; false when it reuses an
	// upvalue slot already present on the enclosing function's closure.
	IsDirect bool
	// Idx is the local slot (IsDirect) or upvalue index (otherwise) to
	// capture from the enclosing function.
	Idx  uint8
	Name string
}

// Param is a single declared function or method parameter. Like any other
// local, the resolver assigns it a slot (always Local, Idx is that slot).
type Param struct {
	Start token.Position
	Name  string
	Idx   uint8
}
