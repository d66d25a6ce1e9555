package resolver

// No symtable.c/.h source survives in original_source (see _INDEX.md); only
// semantic.c's *usage* of a symtable does. symtab here is a from-scratch
// design grounded on that usage: a function, class or the top-level program
// each own one symtab, names bound inside a nested block (if/while/for
// bodies, which semantic.c's context stack never pushes a fresh context for)
// become visible for the rest of that block and invisible again once it
// closes, while slot indices are handed out once and never reused even
// after a sibling scope closes. That last part is a deliberate
// simplification over whatever the original did: it costs a few wasted
// frame slots per function in exchange for a much simpler implementation,
// and is recorded as an open-question decision in DESIGN.md.
type symtab struct {
	visible []binding
	marks   []int
	next    int
}

type binding struct {
	name string
	idx  int
}

// maxLocals is the largest number of local slots a single function, or the
// top-level program, may use — semantic.c packs a local's index into the
// same uint8 the bytecode operands use.
const maxLocals = 255

// declare binds name to the next unused slot, regardless of whether name is
// already visible (callers that need redeclaration checks, such as
// resolveVarDecl and Globals.Declare, call lookup first).
func (s *symtab) declare(name string) int {
	idx := s.next
	s.next++
	s.visible = append(s.visible, binding{name: name, idx: idx})
	return idx
}

// lookup searches currently visible bindings, innermost scope first.
func (s *symtab) lookup(name string) (int, bool) {
	for i := len(s.visible) - 1; i >= 0; i-- {
		if s.visible[i].name == name {
			return s.visible[i].idx, true
		}
	}
	return 0, false
}

// enterScope opens a nested block scope.
func (s *symtab) enterScope() {
	s.marks = append(s.marks, len(s.visible))
}

// exitScope closes the innermost open scope, hiding whatever names it bound,
// and returns the total slot count assigned in this symtab so far (the frame
// size the caller needs, e.g. FuncDecl.NumLocals).
func (s *symtab) exitScope() int {
	mark := s.marks[len(s.marks)-1]
	s.marks = s.marks[:len(s.marks)-1]
	s.visible = s.visible[:mark]
	return s.next
}

// count reports the total number of slots assigned so far without closing
// any scope: a function's or the top-level program's frame size, and
// Globals.Len.
func (s *symtab) count() int {
	return s.next
}

// classSymtab is a per-class member table: field and method names share one
// flat namespace (a field and a method may not share a name), but field
// slots are allocated from one of two independent counters keyed by the
// `static` storage modifier, per semantic.c's visit_var_decl:
// `node->idx = node->storage.type == TOK_STATIC ? c->num_staticvars++ :
// c->num_instvars++`. Method entries consume a counter the same way (so two
// methods, or a method and a field, of the same staticness never collide)
// even though nothing downstream reads a method's numeric idx — lang/types'
// Class looks up methods by name, not slot, so this is purely bookkeeping
// for the duplicate-name check below.
type classSymtab struct {
	names      map[string]int
	instNext   int
	staticNext int
}

func newClassSymtab() *classSymtab {
	return &classSymtab{names: map[string]int{}}
}

// declare binds name to a fresh instance or static slot. It reports false
// without binding anything if name is already declared in this class.
func (c *classSymtab) declare(name string, isStatic bool) (int, bool) {
	if _, exists := c.names[name]; exists {
		return 0, false
	}
	var idx int
	if isStatic {
		idx = c.staticNext
		c.staticNext++
	} else {
		idx = c.instNext
		c.instNext++
	}
	c.names[name] = idx
	return idx, true
}

func (c *classSymtab) lookup(name string) (int, bool) {
	idx, ok := c.names[name]
	return idx, ok
}

// Globals is the top-level name table shared by the resolver's global pass
// and lang/corelib.Register, which predeclares core runtime names (print,
// len, the iterator protocol, ...) before user source is resolved so that
// references to them resolve as ordinary globals rather than needing a
// separate builtin-lookup path in the emitter or machine.
type Globals struct {
	table symtab

	// RootNumLocals is the synthetic top-level frame's size, filled in by
	// Resolve once the local pass finishes walking the program: a var
	// declared inside a top-level if/while/for body is a Local of this
	// frame, not a second global table (see resolver.go's localPass).
	RootNumLocals int
}

// NewGlobals returns an empty global name table.
func NewGlobals() *Globals {
	return &Globals{}
}

// Declare binds name to a fresh global slot. It reports false without
// binding anything if name is already declared, so callers (corelib
// registration, then the resolver's global pass) can detect a collision
// between a core name and a user top-level declaration.
func (g *Globals) Declare(name string) (idx int, ok bool) {
	if _, exists := g.table.lookup(name); exists {
		return 0, false
	}
	return g.table.declare(name), true
}

// Lookup reports the global slot bound to name, if any.
func (g *Globals) Lookup(name string) (int, bool) {
	return g.table.lookup(name)
}

// Len reports how many global slots have been assigned, the size the
// machine must reserve for its globals vector.
func (g *Globals) Len() int {
	return g.table.count()
}
