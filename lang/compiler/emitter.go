package compiler

import (
	"fmt"

	"github.com/melonlang/melon/lang/ast"
	"github.com/melonlang/melon/lang/resolver"
	"github.com/melonlang/melon/lang/scanner"
	"github.com/melonlang/melon/lang/token"
	"github.com/melonlang/melon/lang/types"
)

// maxConstants is the constant pool's capacity: codegen.c's cpool caps at
// 256 entries, indices 0..255 (one byte per LOADK operand).
const maxConstants = 256

// Emitter walks a resolved lang/ast tree and produces lang/types.Function
// records. It holds an explicit stack of the functions currently being
// emitted into (the "emission context" spec.md asks for, grounded on
// codegen.c's context stack) rather than a package-level singleton, per the
// design note that global emitter state should be an explicit struct passed
// by reference.
type Emitter struct {
	ctxStack []*types.Function
	errs     scanner.ErrorList

	// loop jump fixups use the Go call stack via emitWhile/emitFor/emitForIn
	// directly; no separate break/continue stack exists since Melon's
	// grammar (spec.md §6) has no break/continue statement.
}

// Compile resolves nothing itself (lang/resolver must already have run over
// block) and emits a synthetic top-level Function named name. rootNumLocals
// is resolver.Globals.RootNumLocals, the synthetic frame's size.
func Compile(name string, block *ast.Block, rootNumLocals int) (*types.Function, error) {
	e := &Emitter{}
	main := &types.Function{Kind: types.UserDefined, Name: name, NumLocals: rootNumLocals}
	e.push(main)
	e.emitStmts(block.Stmts)
	e.pop()
	if !endsInReturn(main.Code) {
		// A bare trailing expression statement leaves its value on the stack
		// with no opcode to consume it (emitStmt's *ast.ExprStmt case just
		// emits the expression); promote that one case to a real RETURN so a
		// top-level program's last expression is its result, rather than
		// discarding it with RET0 like every other implicit fall-off-the-end.
		if lastExprStmt(block.Stmts) {
			e.appendTo(main, RETURN)
		} else {
			e.appendTo(main, RET0)
		}
	}
	main.Code = append(main.Code, byte(HALT))
	e.errs.Sort()
	if err := e.errs.Err(); err != nil {
		return nil, err
	}
	return main, nil
}

func (e *Emitter) cur() *types.Function { return e.ctxStack[len(e.ctxStack)-1] }
func (e *Emitter) push(fn *types.Function) {
	e.ctxStack = append(e.ctxStack, fn)
}
func (e *Emitter) pop() *types.Function {
	fn := e.cur()
	e.ctxStack = e.ctxStack[:len(e.ctxStack)-1]
	return fn
}

func (e *Emitter) errorf(pos token.Position, format string, args ...interface{}) {
	e.errs.Add(pos, fmt.Sprintf(format, args...))
}

// emit appends op and its operands to the current function's code, at a
// fixed width of InstrLen(op) bytes, and returns the offset of op itself.
func (e *Emitter) emit(op Opcode, operands ...byte) int {
	return e.appendTo(e.cur(), op, operands...)
}

func (e *Emitter) appendTo(fn *types.Function, op Opcode, operands ...byte) int {
	pos := len(fn.Code)
	fn.Code = append(fn.Code, byte(op))
	fn.Code = append(fn.Code, operands...)
	return pos
}

func endsInReturn(code []byte) bool {
	return len(code) > 0 && (Opcode(code[len(code)-1]) == RETURN || Opcode(code[len(code)-1]) == RET0)
}

// lastExprStmt reports whether stmts' final statement is a bare expression
// statement, the only shape whose value is still sitting unconsumed on the
// stack once emitStmts finishes.
func lastExprStmt(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	_, ok := stmts[len(stmts)-1].(*ast.ExprStmt)
	return ok
}

// addConstant interns v into fn's constant pool, deduplicating scalars by
// structural equality (heap values such as *Function/*Class are never equal
// to a distinct instance, so they always get a fresh slot).
func (e *Emitter) addConstant(fn *types.Function, v types.Value, pos token.Position) byte {
	for i, c := range fn.Constants {
		if types.Equal(c, v) {
			return byte(i)
		}
	}
	if len(fn.Constants) >= maxConstants {
		e.errorf(pos, "constant pool overflow: more than %d distinct constants", maxConstants)
		return 0
	}
	fn.Constants = append(fn.Constants, v)
	return byte(len(fn.Constants) - 1)
}

func (e *Emitter) emitConst(v types.Value, pos token.Position) {
	k := e.addConstant(e.cur(), v, pos)
	e.emit(LOADK, k)
}

// patchJump back-fills a JMP/JIF placeholder emitted at pos (the opcode's
// own offset) so it lands at the current end of the current function's code.
func (e *Emitter) patchJump(pos int, posForErr token.Position) {
	fn := e.cur()
	offset := len(fn.Code) - (pos + 2)
	if offset < 0 || offset > 255 {
		e.errorf(posForErr, "jump offset %d out of single-byte range", offset)
		offset = 0
	}
	fn.Code[pos+1] = byte(offset)
}

// emitLoop emits a backward LOOP to loopStart, computed from the
// instruction's own end.
func (e *Emitter) emitLoop(loopStart int, pos token.Position) {
	start := e.emit(LOOP, 0)
	fn := e.cur()
	dist := (start + 2) - loopStart
	if dist < 0 || dist > 255 {
		e.errorf(pos, "loop back-distance %d out of single-byte range", dist)
		dist = 0
	}
	fn.Code[start+1] = byte(dist)
}

// emitStmts emits a sequence of statements in order.
func (e *Emitter) emitStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		e.emitStmt(s)
	}
}

func (e *Emitter) emitStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		e.emitVarDecl(s)
	case *ast.FuncDecl:
		// Top-level func decls reach here only through FuncLitExpr wrapped
		// in a VarDecl (lang/parser always does this); a bare *ast.FuncDecl
		// statement never appears.
		e.errorf(s.Start, "internal: bare FuncDecl statement")
	case *ast.ClassDecl:
		e.emitClassDecl(s)
	case *ast.AssignStmt:
		e.emitAssign(s)
	case *ast.ExprStmt:
		e.emitExpr(s.X)
	case *ast.IfStmt:
		e.emitIf(s)
	case *ast.WhileStmt:
		e.emitWhile(s)
	case *ast.ForStmt:
		e.emitFor(s)
	case *ast.ForInStmt:
		e.emitForIn(s)
	case *ast.ReturnStmt:
		e.emitReturn(s)
	default:
		e.errorf(stmt.Pos(), "internal: unhandled statement %T", stmt)
	}
}

// emitLoadStore emits the LOAD or STORE matching loc/idx, e.g. STOREL 3 or
// LOADG 0. loc is never ClassMember here — a class-member reference needs
// the receiver and name pushed around it, so *VarExpr and the VarDecl/
// AssignStmt targets that can be ClassMember handle that case themselves
// (see emitVar, emitAssign, emitClassDecl).
func (e *Emitter) emitLoadStore(loc ast.Location, idx uint8, store bool) {
	switch loc {
	case ast.Global:
		if store {
			e.emit(STOREG, idx)
		} else {
			e.emit(LOADG, idx)
		}
	case ast.Local:
		if store {
			e.emit(STOREL, idx)
		} else {
			e.emit(LOADL, idx)
		}
	case ast.Upvalue:
		if store {
			e.emit(STOREU, idx)
		} else {
			e.emit(LOADU, idx)
		}
	}
}

// emitLoadClassMember emits self.<name>'s read: LOADL 0 (self); push name;
// LOADF. Used for both a bare name resolved as ClassMember inside a class
// body and an external a.b postfix access (see emitPostfix).
func (e *Emitter) emitLoadClassMember(name string, pos token.Position) {
	e.emit(LOADL, 0)
	e.emitConst(types.String(name), pos)
	e.emit(LOADF)
}

func (e *Emitter) emitVarDecl(vd *ast.VarDecl) {
	if vd.Location == ast.ClassMember {
		// Handled by emitClassDecl directly; a ClassMember VarDecl never
		// reaches emitStmt on its own (it's walked from ClassDecl.Fields).
		e.errorf(vd.Start, "internal: class member VarDecl reached emitVarDecl")
		return
	}
	if vd.Location == ast.Global {
		if vd.Init != nil {
			e.emitExpr(vd.Init)
		} else {
			e.emitConst(types.NullValue, vd.Start)
		}
		e.emit(STOREG, vd.Idx)
		return
	}
	// A FuncLitExpr initializer is a named function declaration; its
	// closure-construction sequence (LOADK function, CLOSURE, NEWUPs) pushes
	// the closure value itself, so the final store below is identical to any
	// other local/upvalue initializer.
	if vd.Init != nil {
		e.emitExpr(vd.Init)
	} else {
		e.emitConst(types.NullValue, vd.Start)
	}
	e.emitLoadStore(vd.Location, vd.Idx, true)
}

// emitAssign emits an assignment. STOREF/STOREA expect the stack ordered
// [receiver, key, value] before the store instruction, so a ClassMember or
// PostfixExpr target must push its receiver+key ahead of the value — a plain
// Global/Local/Upvalue target has no such prefix and evaluates the value
// first.
func (e *Emitter) emitAssign(as *ast.AssignStmt) {
	switch t := as.Target.(type) {
	case *ast.VarExpr:
		if t.Location == ast.ClassMember {
			e.emit(LOADL, 0)
			e.emitConst(types.String(t.Name), t.Start)
			e.emitExpr(as.Value)
			e.emit(STOREF)
			return
		}
		e.emitExpr(as.Value)
		e.emitLoadStore(t.Location, t.Idx, true)
	case *ast.PostfixExpr:
		e.emitPostfixStore(t, as.Value)
	default:
		e.errorf(as.Target.Pos(), "internal: invalid assignment target %T", as.Target)
	}
}

func (e *Emitter) emitReturn(r *ast.ReturnStmt) {
	if r.Value != nil {
		e.emitExpr(r.Value)
		e.emit(RETURN)
	} else {
		e.emit(RET0)
	}
}

func (e *Emitter) emitIf(s *ast.IfStmt) {
	e.emitExpr(s.Cond)
	jif := e.emit(JIF, 0)
	e.emitStmts(s.Then.Stmts)
	if s.Else != nil {
		jmp := e.emit(JMP, 0)
		e.patchJump(jif, s.Start)
		e.emitStmts(s.Else.Stmts)
		e.patchJump(jmp, s.Start)
	} else {
		e.patchJump(jif, s.Start)
	}
}

func (e *Emitter) emitWhile(s *ast.WhileStmt) {
	loopStart := len(e.cur().Code)
	e.emitExpr(s.Cond)
	jif := e.emit(JIF, 0)
	e.emitStmts(s.Body.Stmts)
	e.emitLoop(loopStart, s.Start)
	e.patchJump(jif, s.Start)
}

func (e *Emitter) emitFor(s *ast.ForStmt) {
	if s.Init != nil {
		e.emitStmt(s.Init)
	}
	loopStart := len(e.cur().Code)
	var jif int
	hasCond := s.Cond != nil
	if hasCond {
		e.emitExpr(s.Cond)
		jif = e.emit(JIF, 0)
	}
	e.emitStmts(s.Body.Stmts)
	if s.Post != nil {
		e.emitStmt(s.Post)
	}
	e.emitLoop(loopStart, s.Start)
	if hasCond {
		e.patchJump(jif, s.Start)
	}
}

// emitForIn lowers `for (var Name in Iterable) Body` to the iterator
// protocol: target.iterate(null) -> it; while it != null { val =
// target.iteratorValue(it); Body; it = target.iterate(it) }, per spec.md
// §4.4 and codegen.c's gen_loop_forin.
func (e *Emitter) emitForIn(s *ast.ForInStmt) {
	iterateName := e.addConstant(e.cur(), types.String("iterate"), s.Start)
	iterValName := e.addConstant(e.cur(), types.String("iteratorValue"), s.Start)

	// $target = Iterable
	e.emitExpr(s.Iterable)
	e.emitLoadStore(s.Location, s.TargetIdx, true)

	// $iterator = $target.iterate(null)
	e.emitLoadStore(s.Location, s.TargetIdx, false)
	e.emit(LOADK, iterateName)
	e.emit(LOADF)
	e.emitConst(types.NullValue, s.Start)
	e.emit(CALL, 1)
	e.emitLoadStore(s.Location, s.IteratorIdx, true)

	loopStart := len(e.cur().Code)
	e.emitLoadStore(s.Location, s.IteratorIdx, false)
	e.emitConst(types.NullValue, s.Start)
	e.emit(NEQ)
	jif := e.emit(JIF, 0)

	// Name = $target.iteratorValue($iterator)
	e.emitLoadStore(s.Location, s.TargetIdx, false)
	e.emit(LOADK, iterValName)
	e.emit(LOADF)
	e.emitLoadStore(s.Location, s.IteratorIdx, false)
	e.emit(CALL, 1)
	e.emitLoadStore(s.Location, s.Idx, true)

	e.emitStmts(s.Body.Stmts)

	// $iterator = $target.iterate($iterator)
	e.emitLoadStore(s.Location, s.TargetIdx, false)
	e.emit(LOADK, iterateName)
	e.emit(LOADF)
	e.emitLoadStore(s.Location, s.IteratorIdx, false)
	e.emit(CALL, 1)
	e.emitLoadStore(s.Location, s.IteratorIdx, true)

	e.emitLoop(loopStart, s.Start)
	e.patchJump(jif, s.Start)
}

// --- expressions ---

func (e *Emitter) emitExpr(expr ast.Expr) {
	switch x := expr.(type) {
	case *ast.LiteralExpr:
		e.emitLiteral(x)
	case *ast.VarExpr:
		e.emitVar(x)
	case *ast.UnaryExpr:
		e.emitExpr(x.Right)
		e.emit(unaryOp(x.Op))
	case *ast.BinaryExpr:
		e.emitBinary(x)
	case *ast.ListExpr:
		e.emitList(x)
	case *ast.RangeExpr:
		e.emitExpr(x.Low)
		e.emitExpr(x.High)
		e.emit(NEWRNG)
	case *ast.PostfixExpr:
		e.emitPostfix(x)
	case *ast.FuncLitExpr:
		e.emitFuncLit(x.Decl)
	default:
		e.errorf(expr.Pos(), "internal: unhandled expression %T", expr)
	}
}

func (e *Emitter) emitLiteral(lit *ast.LiteralExpr) {
	switch lit.Kind {
	case ast.NullLit:
		e.emitConst(types.NullValue, lit.Start)
	case ast.BoolLit:
		if lit.Value.(bool) {
			e.emitConst(types.True, lit.Start)
		} else {
			e.emitConst(types.False, lit.Start)
		}
	case ast.IntLit:
		n := lit.Value.(int64)
		if n >= 0 && n < 256 {
			e.emit(LOADI, byte(n))
		} else {
			e.emitConst(types.Int(n), lit.Start)
		}
	case ast.FloatLit:
		e.emitConst(types.Float(lit.Value.(float64)), lit.Start)
	case ast.StringLit:
		e.emitConst(types.String(lit.Value.(string)), lit.Start)
	}
}

func (e *Emitter) emitVar(v *ast.VarExpr) {
	if v.Location == ast.ClassMember {
		e.emitLoadClassMember(v.Name, v.Start)
		return
	}
	e.emitLoadStore(v.Location, v.Idx, false)
}

// emitBinary emits a binary expression. && and || short-circuit their right
// operand (per lang/ast.BinaryExpr's doc comment) rather than following
// original_source/src/vm.c's OP_AND/OP_OR literally, which evaluate both
// operands eagerly as a plain binary instruction — this repository commits
// to the short-circuiting reading (see DESIGN.md).
func (e *Emitter) emitBinary(b *ast.BinaryExpr) {
	switch b.Op {
	case token.AMPAMP:
		// left && right: if left is false, short-circuit to false; JIF
		// already pops its operand, so the false branch pushes its own
		// False constant rather than reusing the popped left value.
		e.emitExpr(b.Left)
		jif := e.emit(JIF, 0)
		e.emitExpr(b.Right)
		jmp := e.emit(JMP, 0)
		e.patchJump(jif, b.OpPos)
		e.emitConst(types.False, b.OpPos)
		e.patchJump(jmp, b.OpPos)
		return
	case token.PIPEPIPE:
		// left || right: if left is true, short-circuit to true.
		e.emitExpr(b.Left)
		jif := e.emit(JIF, 0)
		e.emitConst(types.True, b.OpPos)
		jmp := e.emit(JMP, 0)
		e.patchJump(jif, b.OpPos)
		e.emitExpr(b.Right)
		e.patchJump(jmp, b.OpPos)
		return
	}
	e.emitExpr(b.Left)
	e.emitExpr(b.Right)
	e.emit(binaryOp(b.Op))
}

func (e *Emitter) emitList(l *ast.ListExpr) {
	if len(l.Elems) > 255 {
		e.errorf(l.Start, "array literal too large: %d elements (max 255)", len(l.Elems))
	}
	for _, elem := range l.Elems {
		e.emitExpr(elem)
	}
	e.emit(NEWARR, byte(len(l.Elems)))
}

// emitPostfix walks a postfix chain left to right, threading each element's
// result as the receiver of the next, leaving the chain's final value on the
// stack. A .name access that resolves to a method, rather than a field,
// leaves a *types.BoundMethod on the stack instead of calling it — the
// following PostfixCall element's CALL then runs it, so CALL never needs to
// count an extra receiver argument the way codegen.c's method-call sequence
// does.
func (e *Emitter) emitPostfix(p *ast.PostfixExpr) {
	e.emitExpr(p.Base)
	for _, elem := range p.Elems {
		e.emitPostfixElem(elem)
	}
}

// emitPostfixStore emits p's chain up through (not including) its trailing
// element, evaluates value, then stores through the trailing element: STOREF
// for a .name access, STOREA for a [index] subscript. lang/parser rejects a
// trailing call as an assignment target, so only those two kinds reach here.
func (e *Emitter) emitPostfixStore(p *ast.PostfixExpr, value ast.Expr) {
	e.emitExpr(p.Base)
	last := len(p.Elems) - 1
	for _, elem := range p.Elems[:last] {
		e.emitPostfixElem(elem)
	}
	switch tail := p.Elems[last]; tail.Kind {
	case ast.PostfixAccess:
		e.emitConst(types.String(tail.Name), tail.Pos)
		e.emitExpr(value)
		e.emit(STOREF)
	case ast.PostfixSubscript:
		e.emitExpr(tail.Index)
		e.emitExpr(value)
		e.emit(STOREA)
	default:
		e.errorf(tail.Pos, "internal: invalid assignment target element %v", tail.Kind)
	}
}

// emitPostfixElem emits one chain element, consuming the receiver the
// previous element (or the chain's Base) left on the stack and pushing its
// result in its place.
func (e *Emitter) emitPostfixElem(elem ast.PostfixElem) {
	switch elem.Kind {
	case ast.PostfixCall:
		for _, a := range elem.Args {
			e.emitExpr(a)
		}
		e.emit(CALL, byte(len(elem.Args)))
	case ast.PostfixAccess:
		e.emitConst(types.String(elem.Name), elem.Pos)
		e.emit(LOADF)
	case ast.PostfixSubscript:
		e.emitExpr(elem.Index)
		e.emit(LOADA)
	}
}

// emitFuncLit compiles decl's body into a fresh Function, then in the
// current (outer) context emits the closure-construction sequence: LOADK
// the raw function, CLOSURE, then one NEWUP per declared upvalue.
func (e *Emitter) emitFuncLit(decl *ast.FuncDecl) {
	fn := e.compileFuncBody(decl)
	e.emitConst(fn, decl.Start)
	e.emit(CLOSURE)
	for _, up := range decl.Upvalues {
		var isDirect byte
		if up.IsDirect {
			isDirect = 1
		}
		e.emit(NEWUP, isDirect, up.Idx)
	}
}

// compileFuncBody emits decl's body into a fresh Function and returns it,
// without touching the caller's context.
func (e *Emitter) compileFuncBody(decl *ast.FuncDecl) *types.Function {
	fn := &types.Function{
		Kind:        types.UserDefined,
		Name:        decl.Name,
		NumLocals:   decl.NumLocals,
		NumParams:   len(decl.Params),
		NumUpvalues: len(decl.Upvalues),
	}
	e.push(fn)
	e.emitStmts(decl.Body.Stmts)
	if !endsInReturn(fn.Code) {
		e.appendTo(fn, RET0)
	}
	e.pop()
	return fn
}

// emitClassDecl creates the class value and its synthetic $init (and, if
// there are static members, a metaclass and its own $init), emits every
// member in the appropriate ($init or metaclass-$init) context, appends the
// constructor-forwarding epilogue, and stores the class into its global
// slot — per spec.md §4.4's "Classes" paragraph and codegen.c's
// gen_node_class_decl/store_decl.
func (e *Emitter) emitClassDecl(cd *ast.ClassDecl) {
	numInst, numStatic := 0, 0
	for _, f := range cd.Fields {
		if f.IsStatic {
			numStatic++
		} else {
			numInst++
		}
	}

	class := types.NewClass(cd.Name, numInst)
	if numStatic > 0 {
		types.NewMetaclass(class, numStatic)
	}

	ctor := findCtor(cd.Methods)
	ctorParams := 0
	if ctor != nil {
		ctorParams = len(ctor.Params)
	}
	initFn := &types.Function{Kind: types.UserDefined, Name: "$init", NumLocals: 1 + ctorParams, NumParams: ctorParams}
	initClosure := types.NewClosure(initFn)
	class.Bind("$init", initClosure)

	var metaInitFn *types.Function
	if numStatic > 0 {
		metaInitFn = &types.Function{Kind: types.UserDefined, Name: "$init", NumLocals: 1}
		class.Metaclass.Bind("$init", types.NewClosure(metaInitFn))
	}

	for _, f := range cd.Fields {
		if f.IsStatic {
			class.Metaclass.Bind(f.Name, types.Int(f.Idx))
		} else {
			class.Bind(f.Name, types.Int(f.Idx))
		}
	}

	// Field initializers run inside $init (instance) or the metaclass's
	// $init (static), in declaration order, each assigning directly into the
	// receiver's named slot: LOADL 0; push name; <init expr>; STOREF. STOREF
	// resolves the name through Class.Lookup at runtime and finds an Int
	// slot (never a method, since fields and methods can't share a name), so
	// this always lands as a plain field write.
	for _, f := range cd.Fields {
		if f.Init == nil {
			continue
		}
		target := initFn
		if f.IsStatic {
			target = metaInitFn
		}
		e.push(target)
		e.emit(LOADL, 0)
		e.emitConst(types.String(f.Name), f.Start)
		e.emitExpr(f.Init)
		e.emit(STOREF)
		e.pop()
	}

	for _, m := range cd.Methods {
		// Methods never capture upvalues from outside the class: every name
		// they reference is either a class member, reached through the
		// LOADL 0/name/LOADF sequence, or a genuine local/global/upvalue
		// of an enclosing function — the resolver never treats a class body
		// itself as an enclosing function scope, so m.Upvalues is always
		// empty here.
		fn := e.compileFuncBody(m)
		closure := types.NewClosure(fn)
		if m.IsStatic {
			class.Metaclass.Bind(m.Name, closure)
		} else {
			class.Bind(m.Name, closure)
		}
	}

	e.finishInit(initFn, ctor)

	if metaInitFn != nil {
		e.push(metaInitFn)
		e.emit(LOADL, 0)
		e.emit(RETURN)
		e.pop()
	}

	// Store the class value into its global slot in the outer context.
	e.emitConst(class, cd.Start)
	e.emitLoadStore(cd.Location, cd.Idx, true)
}

// finishInit appends $init's epilogue: if ctor exists, look it up by name
// off self (LOADF wraps it as a *types.BoundMethod carrying self as its
// receiver), forward self's own parameter slots 1..n as arguments, and call
// it — CALL's argument count excludes the receiver, since the VM prepends a
// BoundMethod's Recv itself. Then reload self (so $init itself evaluates to
// the new instance) and RETURN.
func (e *Emitter) finishInit(initFn *types.Function, ctor *ast.FuncDecl) {
	e.push(initFn)
	if ctor != nil {
		e.emit(LOADL, 0)
		e.emitConst(types.String(ctor.Name), ctor.Start)
		e.emit(LOADF)
		for i := 0; i < len(ctor.Params); i++ {
			e.emit(LOADL, byte(i+1))
		}
		e.emit(CALL, byte(len(ctor.Params)))
	}
	e.emit(LOADL, 0)
	e.emit(RETURN)
	e.pop()
}

func findCtor(methods []*ast.FuncDecl) *ast.FuncDecl {
	for _, m := range methods {
		if m.Name == "$construct" {
			return m
		}
	}
	return nil
}

func unaryOp(op token.Token) Opcode {
	switch op {
	case token.BANG:
		return NOT
	case token.MINUS:
		return NEG
	}
	return NOP
}

func binaryOp(op token.Token) Opcode {
	switch op {
	case token.PLUS:
		return ADD
	case token.MINUS:
		return SUB
	case token.STAR:
		return MUL
	case token.SLASH:
		return DIV
	case token.PERCENT:
		return MOD
	case token.LT:
		return LT
	case token.GT:
		return GT
	case token.LE:
		return LTE
	case token.GE:
		return GTE
	case token.EQL:
		return EQ
	case token.NEQ:
		return NEQ
	}
	return NOP
}

// CompileProgram resolves and compiles block in one step, predeclaring
// corelib names via globals before resolution. It is the entry point
// internal/maincmd's run subcommand uses.
func CompileProgram(globals *resolver.Globals, block *ast.Block) (*types.Function, error) {
	if err := resolver.Resolve(globals, block); err != nil {
		return nil, err
	}
	return Compile("main", block, globals.RootNumLocals)
}
