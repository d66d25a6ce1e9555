package machine

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/melonlang/melon/lang/types"
)

// Thread carries one logical execution's mutable state: its value stack, its
// call stack, its global variable vector, I/O streams, and the
// cancellation/step-limiting knobs original_source/src/vm.c's vm_t bundles
// into one struct passed by pointer through every opcode handler. Like vm_t,
// a Thread owns a single growable value stack shared by every active frame
// (locals live at stack[bp:bp+NumLocals], the operand stack continues above
// them) — unlike vm_t, growth is a plain Go slice append, so an Upvalue's
// Slot (an absolute index into this stack) survives reallocation with no
// pointer-fixup pass required.
type Thread struct {
	// Name optionally identifies the thread for diagnostics.
	Name string

	// Stdout, Stderr and Stdin back the core library's print/input-style
	// builtins. nil defaults to the process's own streams.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// MaxSteps bounds the number of bytecode instructions this thread will
	// execute before it is cancelled as a runaway program. <= 0 means no
	// limit.
	MaxSteps int

	// MaxCallStackDepth bounds the depth of nested Calls. <= 0 means no
	// limit.
	MaxCallStackDepth int

	// Globals is the program's global variable vector, indexed by the slot
	// numbers lang/resolver.Globals hands out. The caller (internal/maincmd)
	// sizes and predeclares it via lang/corelib.Register before Run.
	Globals []types.Value

	ctx       context.Context
	ctxCancel context.CancelFunc
	cancelled atomic.Bool

	// stack is the single value stack shared by every active frame; callStack
	// mirrors it with one *Frame per nested Call still running. openUpvalues
	// holds every still-open Upvalue captured off stack, sorted ascending by
	// Slot, mirroring vm.c's capture_upvalue/close_upvalues list.
	stack        []types.Value
	callStack    []*Frame
	openUpvalues []*types.Upvalue

	steps, maxSteps uint64
}

// Run executes fn (always a UserDefined, zero-upvalue top-level function,
// per lang/compiler.Compile's contract) to completion and returns its
// result, the value its implicit RET0/RETURN epilogue leaves behind.
func (th *Thread) Run(ctx context.Context, fn *types.Function) (types.Value, error) {
	if th.ctx != nil {
		return nil, fmt.Errorf("thread %s is already running a program", th.Name)
	}
	th.init(ctx)
	return Call(th, types.NewClosure(fn), nil)
}

func (th *Thread) init(ctx context.Context) {
	if th.MaxSteps <= 0 {
		th.maxSteps--
	} else {
		th.maxSteps = uint64(th.MaxSteps)
	}
	th.ctx, th.ctxCancel = context.WithCancel(ctx)
	go func() {
		<-th.ctx.Done()
		th.cancelled.Store(true)
	}()
}

// Cancel stops the thread at its next instruction boundary; Run then returns
// context.Cause(ctx)'s error.
func (th *Thread) Cancel() {
	if th.ctxCancel != nil {
		th.ctxCancel()
	}
}
