package types

import "fmt"

// BoundMethod pairs a receiver with the *Closure or native *Function found
// under it, produced whenever LOADF resolves a String key to something
// callable: Class/Instance method dispatch and Array/Range's native methods
// both go through this one value kind, so CALL never needs to special-case
// "does this call carry an implicit receiver" by counting arguments — it
// just asks whether the callee is a BoundMethod. Plain field reads (a
// name resolving to a value rather than a closure) never produce one.
type BoundMethod struct {
	Recv   Value
	Callee Value // *Closure or *Function (Kind == Native)
}

var _ Value = (*BoundMethod)(nil)

func (m *BoundMethod) String() string { return fmt.Sprintf("<bound method of %s>", m.Recv.Type()) }
func (m *BoundMethod) Type() string   { return "bound method" }
func (m *BoundMethod) Truth() bool    { return true }
