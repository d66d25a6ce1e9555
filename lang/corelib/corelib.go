// Package corelib is Melon's host-side core runtime: the native functions
// and Array/Range methods spec.md treats as an external collaborator,
// specified only by the capability the machine requires of it (iterator
// protocol, array/range types, string conversion). Grounded on
// original_source/src/vm.c's CORE_*_STRING name constants and
// core_register_semantic/core_register_vm (predeclaring names into the
// global symbol table and the VM's globals vector before user code runs),
// reconstructed here as Register since no core.c source survives in the
// retrieval pack (spec.md §1 names the core library an external
// collaborator the distillation deliberately left unspecified).
package corelib

import (
	"github.com/melonlang/melon/lang/machine"
	"github.com/melonlang/melon/lang/resolver"
	"github.com/melonlang/melon/lang/types"
)

// Register predeclares every core global name into globals and appends the
// matching native value to th.Globals, in lockstep so a name's resolver slot
// and its runtime value always land at the same index. It must run before
// lang/resolver.Resolve (or lang/compiler.CompileProgram, which assumes the
// names are already there — see that function's own doc comment): Register
// is the only thing populating th.Globals before the user program's own
// globals are declared, so it requires th.Globals to start empty. After
// resolution and compilation, the caller must grow th.Globals from
// len(Register's names) up to globals.Len(), filling the newly-declared user
// globals with types.NullValue, e.g.:
//
//	globals := resolver.NewGlobals()
//	th := &machine.Thread{}
//	corelib.Register(globals, th)
//	fn, err := compiler.CompileProgram(globals, block)
//	for len(th.Globals) < globals.Len() {
//		th.Globals = append(th.Globals, types.NullValue)
//	}
func Register(globals *resolver.Globals, th *machine.Thread) {
	if len(th.Globals) != 0 {
		panic("corelib.Register requires an empty Thread.Globals; register before resolving user code")
	}
	registerArrayMethods()
	registerRangeMethods()
	for _, b := range builtins(th) {
		declare(globals, th, b.name, b.fn)
	}
}

// declare binds name to a fresh global slot and appends fn at the same
// index. It panics on a name collision: every core name is chosen so that
// nothing else can have claimed it yet, since Register always runs first.
func declare(globals *resolver.Globals, th *machine.Thread, name string, fn *types.Function) {
	idx, ok := globals.Declare(name)
	if !ok {
		panic("corelib: core name " + name + " already declared")
	}
	if idx != len(th.Globals) {
		panic("corelib: global slot " + name + " is not contiguous with Thread.Globals")
	}
	th.Globals = append(th.Globals, fn)
}
