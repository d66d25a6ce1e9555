// Package resolver implements Melon's two-pass semantic resolution: it
// classifies every identifier reference as global, local, upvalue or
// class-member, assigns every declaration a stable slot index, and threads
// closure upvalue capture through any intervening function scopes.
//
// Grounded directly on original_source/src/semantic.c, whose two ast-walker
// configurations (sema_build_global_symtables, sema_build_local_symtables)
// become this package's globalPass and localPass.
package resolver

import (
	"fmt"

	"github.com/melonlang/melon/lang/ast"
	"github.com/melonlang/melon/lang/scanner"
	"github.com/melonlang/melon/lang/token"
)

// Resolve runs both resolution passes over block, the top-level program,
// filling in every VarExpr/VarDecl/FuncDecl/ClassDecl/ForInStmt's Location
// and Idx fields and every FuncDecl's NumLocals and Upvalues.
//
// globals should already hold any predeclared core-library names (see
// lang/corelib.Register) before Resolve runs: the global pass treats a name
// collision with an existing global, core or user, as an error.
func Resolve(globals *Globals, block *ast.Block) error {
	r := &resolver{globals: globals, classSyms: map[*ast.ClassDecl]*classSymtab{}}
	r.globalPass(block)
	r.localPass(block)
	r.errors.Sort()
	return r.errors.Err()
}

type ctxKind int

const (
	ctxRoot ctxKind = iota
	ctxFunc
	ctxClass
)

// scope is one entry of the resolver's context stack. Only the top-level
// program, a function body and a class body push one (semantic.c's
// PUSH_CONTEXT sites); an if/while/for body reuses its enclosing scope's
// table instead of pushing its own, per visit_block's is_root-only push.
type scope struct {
	kind ctxKind

	sym      *symtab      // ctxRoot, ctxFunc: the locals table
	classSym *classSymtab // ctxClass
	fn       *ast.FuncDecl
}

type resolver struct {
	globals   *Globals
	classSyms map[*ast.ClassDecl]*classSymtab
	stack     []*scope
	errors    scanner.ErrorList
}

func (r *resolver) push(s *scope) { r.stack = append(r.stack, s) }
func (r *resolver) pop()          { r.stack = r.stack[:len(r.stack)-1] }

// currentSym returns the locals table of the nearest enclosing func or root
// scope, skipping over any class scope in between (a class body hosts no
// locals of its own; only its methods, each a fresh ctxFunc, do).
func (r *resolver) currentSym() *symtab {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i].sym != nil {
			return r.stack[i].sym
		}
	}
	return nil
}

func (r *resolver) errorf(pos token.Position, format string, args ...interface{}) {
	r.errors.Add(pos, fmt.Sprintf(format, args...))
}

// fixConstructorName renames a method whose name equals its own class's
// name to $construct, per semantic.c's fix_constructor_name. It runs during
// the global pass, before any reference to the method name is resolved, so
// every subsequent lookup (including the method's own recursive calls) sees
// the renamed symbol.
func fixConstructorName(cd *ast.ClassDecl) {
	for _, m := range cd.Methods {
		if m.Name == cd.Name {
			m.Name = "$construct"
		}
	}
}

// ---- pass 1: global declarations ----

// globalPass walks only block's direct statements, registering every
// top-level var, function and class declaration into globals. It never
// recurses into if/while/for bodies, matching semantic.c's global-pass
// walker, which leaves visit_if/visit_loop unset.
func (r *resolver) globalPass(block *ast.Block) {
	for _, stmt := range block.Stmts {
		switch decl := stmt.(type) {
		case *ast.VarDecl:
			r.declareGlobal(decl.Name, decl.Start, &decl.Location, &decl.Idx)
		case *ast.ClassDecl:
			r.declareGlobal(decl.Name, decl.Start, &decl.Location, &decl.Idx)
			r.buildClassSymtab(decl)
		}
	}
}

func (r *resolver) declareGlobal(name string, pos token.Position, loc *ast.Location, idx *uint8) {
	n, ok := r.globals.Declare(name)
	if !ok {
		r.errorf(pos, "%q is already declared at global scope", name)
		n, _ = r.globals.Lookup(name)
	}
	*loc = ast.Global
	*idx = uint8(n)
}

// buildClassSymtab renames the constructor, then registers every field and
// method name into a fresh per-class table, keyed by storage modifier into
// either the instance or the static slot space. Duplicate member names are
// an error.
func (r *resolver) buildClassSymtab(cd *ast.ClassDecl) {
	fixConstructorName(cd)

	cs := newClassSymtab()
	for _, f := range cd.Fields {
		if _, ok := cs.declare(f.Name, f.IsStatic); !ok {
			r.errorf(f.Start, "%q is already declared in class %q", f.Name, cd.Name)
		}
	}
	for _, m := range cd.Methods {
		if _, ok := cs.declare(m.Name, m.IsStatic); !ok {
			r.errorf(m.Start, "%q is already declared in class %q", m.Name, cd.Name)
		}
	}
	r.classSyms[cd] = cs
}

// ---- pass 2: local resolution ----

// localPass walks the entire tree. The root program gets its own locals
// table distinct from globals: original_source/src/semantic.c's equivalent
// check (visit_var_decl's env_func test) works out to false whenever the
// enclosing context is the root block, which leaves a var declared inside a
// top-level if/while/for with no table to register into at all — every
// such declaration would silently collide at slot 0. That looks like a gap
// in the original rather than an intended one-global-table design (its own
// visit_loop, just a few lines away, gives a for-in loop's temps a real
// global slot in the exact same position), so here a declaration nested
// inside a top-level block simply becomes a local of a synthetic top-level
// frame instead: harmless for genuinely top-level declarations (pass 1
// already claimed those as globals and pass 2 leaves them alone) and
// correct, rather than silently broken, for the nested case.
func (r *resolver) localPass(block *ast.Block) {
	root := &scope{kind: ctxRoot, sym: &symtab{}}
	r.push(root)
	r.resolveStmts(block.Stmts, true)
	r.pop()
	// The synthetic top-level frame's size is only known once the whole
	// program has been walked; lang/compiler needs it to size the main
	// Function's frame the same way it sizes any other FuncDecl's.
	n := root.sym.count()
	if n > maxLocals {
		r.errorf(block.Start, "top-level program uses %d locals, more than the %d-slot limit", n, maxLocals)
	}
	r.globals.RootNumLocals = n
}

// resolveStmts resolves each statement. topLevel is true only for the
// direct statements of the program's outermost block: those whose
// declarations pass 1 already registered as globals.
func (r *resolver) resolveStmts(stmts []ast.Stmt, topLevel bool) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt, topLevel)
	}
}

// resolveBlock resolves a nested block (an if/while/for body), opening and
// closing a scope on the current locals table so names it declares don't
// leak past it — blocks never get a fresh table of their own, per
// visit_block's is_root-only PUSH_CONTEXT.
func (r *resolver) resolveBlock(blk *ast.Block) {
	sym := r.currentSym()
	sym.enterScope()
	r.resolveStmts(blk.Stmts, false)
	sym.exitScope()
}

func (r *resolver) resolveStmt(stmt ast.Stmt, topLevel bool) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		r.resolveVarDecl(s, topLevel)
	case *ast.ClassDecl:
		if !topLevel {
			r.errorf(s.Start, "class %q must be declared at the top level", s.Name)
			return
		}
		r.resolveClassDecl(s)
	case *ast.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Then)
		if s.Else != nil {
			r.resolveBlock(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Body)
	case *ast.ForStmt:
		r.resolveForStmt(s)
	case *ast.ForInStmt:
		r.resolveForInStmt(s)
	case *ast.ReturnStmt:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *ast.AssignStmt:
		r.resolveExpr(s.Value)
		r.resolveExpr(s.Target)
	case *ast.ExprStmt:
		r.resolveExpr(s.X)
	}
}

// resolveVarDecl resolves Init first, so `var x = x;` binds the right-hand
// x to whatever x was already visible, then — unless this is one of the
// top-level block's own direct statements, already claimed as a global by
// the global pass — declares Name as a new local of the current scope.
func (r *resolver) resolveVarDecl(vd *ast.VarDecl, topLevel bool) {
	if vd.Init != nil {
		r.resolveExpr(vd.Init)
	}
	if topLevel {
		return
	}

	sym := r.currentSym()
	if _, exists := sym.lookup(vd.Name); exists {
		r.errorf(vd.Start, "%q is already declared", vd.Name)
	}
	vd.Location = ast.Local
	vd.Idx = uint8(sym.declare(vd.Name))
}

// resolveClassDecl resolves a class body: each field's initializer and each
// method's body, against the per-class table buildClassSymtab already
// built in the global pass.
func (r *resolver) resolveClassDecl(cd *ast.ClassDecl) {
	cs := r.classSyms[cd]
	r.push(&scope{kind: ctxClass, classSym: cs})

	for _, f := range cd.Fields {
		f.Location = ast.ClassMember
		if idx, ok := cs.lookup(f.Name); ok {
			f.Idx = uint8(idx)
		}
		if f.Init != nil {
			r.resolveExpr(f.Init)
		}
	}
	for _, m := range cd.Methods {
		r.resolveFuncDecl(m)
		m.Location = ast.ClassMember
		if idx, ok := cs.lookup(m.Name); ok {
			m.Idx = uint8(idx)
		}
	}

	r.pop()
}

// resolveFuncDecl resolves a function (or method) body in a fresh locals
// table: slot 0 is the implicit receiver ($object) when the function is a
// class method, then one slot per parameter, then whatever the body itself
// declares.
func (r *resolver) resolveFuncDecl(fd *ast.FuncDecl) {
	sym := &symtab{}

	inClass := len(r.stack) > 0 && r.stack[len(r.stack)-1].kind == ctxClass
	if inClass {
		sym.declare("$object")
	}
	for _, p := range fd.Params {
		p.Idx = uint8(sym.declare(p.Name))
	}

	r.push(&scope{kind: ctxFunc, sym: sym, fn: fd})
	r.resolveStmts(fd.Body.Stmts, false)
	r.pop()

	n := sym.count()
	if n > maxLocals {
		r.errorf(fd.Start, "function %q uses %d locals, more than the %d-slot limit", fd.Name, n, maxLocals)
	}
	fd.NumLocals = n
}

// resolveForStmt resolves a C-style for loop in its own scope, so its
// init-declared variable doesn't leak past the loop.
func (r *resolver) resolveForStmt(s *ast.ForStmt) {
	sym := r.currentSym()
	sym.enterScope()

	if s.Init != nil {
		r.resolveStmt(s.Init, false)
	}
	if s.Cond != nil {
		r.resolveExpr(s.Cond)
	}
	r.resolveBlock(s.Body)
	if s.Post != nil {
		r.resolveStmt(s.Post, false)
	}

	sym.exitScope()
}

// resolveForInStmt allocates the two synthetic locals a for-in loop needs
// to hold its iterable and iterator state, plus the user-declared loop
// variable, all in the enclosing scope's table, per semantic.c's
// visit_loop and make_tmp_symbol.
func (r *resolver) resolveForInStmt(s *ast.ForInStmt) {
	r.resolveExpr(s.Iterable)

	sym := r.currentSym()
	sym.enterScope()

	s.TargetName = r.makeTmpName(sym, s.Iterable, "target")
	s.TargetIdx = uint8(sym.declare(s.TargetName))
	s.IteratorName = r.makeTmpName(sym, s.Iterable, "iterator")
	s.IteratorIdx = uint8(sym.declare(s.IteratorName))

	s.Location = ast.Local
	s.Idx = uint8(sym.declare(s.Name))

	r.resolveBlock(s.Body)

	sym.exitScope()
}

// makeTmpName generates a collision-free synthetic local name, per
// semantic.c's make_tmp_symbol: based on the iterated expression when it's
// a plain variable or a range literal, "tmp" otherwise, suffixed with the
// first non-colliding counter up to a 256-try limit (matched here exactly,
// down to reusing the final candidate on exhaustion rather than erroring —
// 256 collisions on a synthetic name is not a case worth a dedicated error
// path).
func (r *resolver) makeTmpName(sym *symtab, target ast.Expr, kind string) string {
	base := "tmp"
	switch t := target.(type) {
	case *ast.VarExpr:
		base = t.Name
	case *ast.RangeExpr:
		base = "range"
	}

	var name string
	for n := 0; n < 256; n++ {
		name = fmt.Sprintf("$%s_%s%d", base, kind, n)
		if _, exists := sym.lookup(name); !exists {
			break
		}
	}
	return name
}

// ---- expressions ----

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		// no identifiers to resolve
	case *ast.VarExpr:
		r.resolveVar(e)
	case *ast.UnaryExpr:
		r.resolveExpr(e.Right)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.ListExpr:
		for _, el := range e.Elems {
			r.resolveExpr(el)
		}
	case *ast.RangeExpr:
		r.resolveExpr(e.Low)
		r.resolveExpr(e.High)
	case *ast.PostfixExpr:
		r.resolveExpr(e.Base)
		for _, el := range e.Elems {
			switch el.Kind {
			case ast.PostfixCall:
				for _, a := range el.Args {
					r.resolveExpr(a)
				}
			case ast.PostfixSubscript:
				r.resolveExpr(el.Index)
			}
			// PostfixAccess's Name is looked up dynamically, at run time,
			// against the receiver's field/method table; there's nothing
			// for the resolver to bind it to statically.
		}
	case *ast.FuncLitExpr:
		r.resolveFuncDecl(e.Decl)
	}
}

// resolveVar classifies a variable reference by walking the context stack
// from innermost to outermost, per semantic.c's visit_var.
func (r *resolver) resolveVar(v *ast.VarExpr) {
	funcsTraversed := 0

	for i := len(r.stack) - 1; i >= 0; i-- {
		s := r.stack[i]

		switch s.kind {
		case ctxFunc:
			funcsTraversed++
			if idx, ok := s.sym.lookup(v.Name); ok {
				if funcsTraversed > 1 {
					v.Location = ast.Upvalue
					v.Idx = uint8(r.threadUpvalue(i, idx, v.Name))
				} else {
					v.Location = ast.Local
					v.Idx = uint8(idx)
				}
				return
			}

		case ctxClass:
			if idx, ok := s.classSym.lookup(v.Name); ok {
				v.Location = ast.ClassMember
				v.Idx = uint8(idx)
				return
			}

		case ctxRoot:
			if idx, ok := s.sym.lookup(v.Name); ok {
				v.Location = ast.Local
				v.Idx = uint8(idx)
				return
			}
			if idx, ok := r.globals.Lookup(v.Name); ok {
				v.Location = ast.Global
				v.Idx = uint8(idx)
				return
			}
		}
	}

	r.errorf(v.Start, "undeclared identifier %q", v.Name)
}

// threadUpvalue walks the func scopes strictly between declIdx (the scope
// where the variable was found) and the innermost scope, adding one
// add_upvalue entry per intervening function: the first capture (closest
// to the declaration) is direct, off the declaring function's own local
// slot; every further one is indirect, off the slot the previous function
// in the chain just returned. Only the final (innermost) slot is returned,
// to be stored on the reference itself.
func (r *resolver) threadUpvalue(declIdx, localIdx int, name string) int {
	idx := localIdx
	direct := true
	for i := declIdx + 1; i < len(r.stack); i++ {
		s := r.stack[i]
		if s.kind != ctxFunc {
			continue
		}
		idx = addUpvalue(s.fn, direct, idx, name)
		direct = false
	}
	return idx
}

// addUpvalue dedups fn's upvalue list by name before appending, so repeated
// references to the same captured name share one slot.
func addUpvalue(fn *ast.FuncDecl, isDirect bool, idx int, name string) int {
	for i, u := range fn.Upvalues {
		if u.Name == name {
			return i
		}
	}
	fn.Upvalues = append(fn.Upvalues, ast.UpvalueSpec{IsDirect: isDirect, Idx: uint8(idx), Name: name})
	return len(fn.Upvalues) - 1
}
