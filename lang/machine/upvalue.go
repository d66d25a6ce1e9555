package machine

import (
	"golang.org/x/exp/slices"

	"github.com/melonlang/melon/lang/types"
)

// captureUpvalue finds or creates the open Upvalue for the given absolute
// stack slot, reusing an existing one so sibling closures capturing the
// same local share one cell, per vm.c's capture_upvalue. th.openUpvalues is
// kept sorted ascending by Slot via slices.BinarySearchFunc/slices.Insert,
// mirroring the sorted singly-linked list vm.c walks and letting
// closeUpvalues find its cutoff with the same binary search rather than a
// linear scan.
func (th *Thread) captureUpvalue(slot int) *types.Upvalue {
	i, found := slices.BinarySearchFunc(th.openUpvalues, slot, func(u *types.Upvalue, slot int) int {
		return u.Slot - slot
	})
	if found {
		return th.openUpvalues[i]
	}
	up := types.NewOpenUpvalue(slot)
	th.openUpvalues = slices.Insert(th.openUpvalues, i, up)
	return up
}

// closeUpvalues closes every open upvalue whose slot is >= threshold,
// snapshotting its live stack value before the frame that owns it is
// discarded, and drops them from the open list — vm.c's close_upvalues,
// called at RETURN/RET0 with threshold == the returning frame's bp.
func (th *Thread) closeUpvalues(threshold int) {
	i, _ := slices.BinarySearchFunc(th.openUpvalues, threshold, func(u *types.Upvalue, threshold int) int {
		return u.Slot - threshold
	})
	for _, up := range th.openUpvalues[i:] {
		up.Close(th.stack)
	}
	th.openUpvalues = slices.Delete(th.openUpvalues, i, len(th.openUpvalues))
}
