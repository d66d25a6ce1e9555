package machine

import (
	"fmt"

	"github.com/melonlang/melon/lang/types"
)

// loadField implements LOADF: resolve name on recv and push either the
// field's current value or a *types.BoundMethod wrapping a callable member.
// Grounded on vm.c's generic $loadField dispatch, simplified to a direct
// Class.Lookup/Attrs.Attr lookup (see DESIGN.md) rather than a synthesized
// protocol method call.
func loadField(recv types.Value, name string) (types.Value, error) {
	switch r := recv.(type) {
	case *types.Instance:
		v, ok := r.Class.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s has no member %q", r.Class.Name, name)
		}
		if slot, ok := v.(types.Int); ok {
			return r.Vars[int(slot)], nil
		}
		return &types.BoundMethod{Recv: r, Callee: v}, nil
	case *types.Class:
		if r.Metaclass == nil {
			return nil, fmt.Errorf("%s has no static member %q", r.Name, name)
		}
		v, ok := r.Metaclass.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s has no static member %q", r.Name, name)
		}
		if slot, ok := v.(types.Int); ok {
			return r.StaticVars[int(slot)], nil
		}
		return &types.BoundMethod{Recv: r, Callee: v}, nil
	case types.Attrs:
		v, ok := r.Attr(name)
		if !ok {
			return nil, fmt.Errorf("%s has no member %q", r.Type(), name)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%s has no members", recv.Type())
	}
}

// storeField implements STOREF: resolve name on recv to a field slot and
// write val there. Methods can't be assignment targets.
func storeField(recv types.Value, name string, val types.Value) error {
	switch r := recv.(type) {
	case *types.Instance:
		v, ok := r.Class.Lookup(name)
		if !ok {
			return fmt.Errorf("%s has no member %q", r.Class.Name, name)
		}
		slot, ok := v.(types.Int)
		if !ok {
			return fmt.Errorf("cannot assign to method %q of %s", name, r.Class.Name)
		}
		r.Vars[int(slot)] = val
		return nil
	case *types.Class:
		if r.Metaclass == nil {
			return fmt.Errorf("%s has no static member %q", r.Name, name)
		}
		v, ok := r.Metaclass.Lookup(name)
		if !ok {
			return fmt.Errorf("%s has no static member %q", r.Name, name)
		}
		slot, ok := v.(types.Int)
		if !ok {
			return fmt.Errorf("cannot assign to static method %q of %s", name, r.Name)
		}
		r.StaticVars[int(slot)] = val
		return nil
	default:
		return fmt.Errorf("%s has no assignable members", recv.Type())
	}
}

// loadIndex implements LOADA for Array and Range; integer keys only.
func loadIndex(recv, key types.Value) (types.Value, error) {
	i, ok := key.(types.Int)
	if !ok {
		return nil, fmt.Errorf("index must be int, got %s", key.Type())
	}
	switch r := recv.(type) {
	case *types.Array:
		idx := int(i)
		if idx < 0 || idx >= r.Len() {
			return nil, fmt.Errorf("array index %d out of range (len %d)", idx, r.Len())
		}
		return r.Index(idx), nil
	case types.Range:
		idx := int64(i)
		if idx < 0 || idx >= int64(r.Len()) {
			return nil, fmt.Errorf("range index %d out of range (len %d)", idx, r.Len())
		}
		return types.Int(r.Start + idx*r.Step), nil
	default:
		return nil, fmt.Errorf("%s is not indexable", recv.Type())
	}
}

// storeIndex implements STOREA; only Array is mutable.
func storeIndex(recv, key, val types.Value) error {
	a, ok := recv.(*types.Array)
	if !ok {
		return fmt.Errorf("%s is not index-assignable", recv.Type())
	}
	i, ok := key.(types.Int)
	if !ok {
		return fmt.Errorf("index must be int, got %s", key.Type())
	}
	idx := int(i)
	if idx < 0 || idx >= a.Len() {
		return fmt.Errorf("array index %d out of range (len %d)", idx, a.Len())
	}
	a.SetIndex(idx, val)
	return nil
}
