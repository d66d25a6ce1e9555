package machine

import "github.com/melonlang/melon/lang/types"

// Frame records one active bytecode call: which closure is running, where
// its instruction pointer currently sits, and bp, the index into the owning
// Thread's shared value stack where this frame's locals begin. A native
// call never pushes a Frame; a class-construction call pushes one only for
// the $init or $new closure it runs.
type Frame struct {
	closure *types.Closure
	pc      int
	bp      int
}
