// Copyright 2026 The CN Language Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

import (
	"fmt"

	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/target"
)

// loopContext is one entry of the generator's loop-context stack: break
// targets the loop's exit block, continue targets its update (for) or
// condition (while) block, per spec.md §4.6.
type loopContext struct {
	continueTarget *Block
	breakTarget    *Block
}

// genEnv is one lexical layer of name -> stack-slot bindings, mirroring the
// block nesting internal/sema's scope tree already validated. The generator
// keeps its own parallel, much simpler chain rather than reusing
// *scope.Symbol identity, since cnast nodes don't carry their declaring
// symbol back out of sema.
type genEnv struct {
	vars   map[string]Operand
	parent *genEnv
}

// Generator lowers a semantically-analyzed cnast.Program into an ir.Module.
// It assumes the program has already passed sema.Analyzer.Run with no
// errors: every expression's Type() is filled in and every VarDeclStmt's
// ResolvedType is set.
type Generator struct {
	mod *Module

	fn    *Function
	block *Block
	env   *genEnv

	loops []loopContext

	blockCounter int
	structs      map[string]*cnast.StructDecl
}

// NewGenerator constructs a Generator targeting triple, in freestanding mode
// if freestanding is set.
func NewGenerator(triple target.Triple, freestanding bool) *Generator {
	return &Generator{
		mod:     &Module{Triple: triple, Freestanding: freestanding},
		structs: make(map[string]*cnast.StructDecl),
	}
}

// Generate lowers prog into an ir.Module.
func (g *Generator) Generate(prog *cnast.Program) *Module {
	for _, sd := range prog.Structs {
		g.structs[sd.Name] = sd
	}
	for _, vd := range prog.Globals {
		global := Global{Name: vd.Name, Type: vd.ResolvedType}
		if lit := constOperand(vd.Init); lit != nil {
			global.Init = lit
		}
		g.mod.Globals = append(g.mod.Globals, global)
	}
	for _, fn := range prog.Functions {
		g.genFunc(fn)
	}
	for _, md := range prog.Modules {
		for _, fn := range md.Functions {
			g.genFunc(fn)
		}
	}
	return g.mod
}

// constOperand reports the immediate operand for e if e is a literal,
// otherwise nil. Global initializers that aren't a bare literal get a
// zero-valued slot instead; the backend emits the type's zero value for
// those (see zeroValue in internal/cbackend).
func constOperand(e cnast.Expr) *Operand {
	switch lit := e.(type) {
	case *cnast.IntLit:
		op := ImmInt(lit.Value, cntype.IntType)
		return &op
	case *cnast.FloatLit:
		op := ImmFloat(lit.Value)
		return &op
	case *cnast.BoolLit:
		op := ImmBool(lit.Value)
		return &op
	case *cnast.StringLit:
		op := ImmString(lit.Value)
		return &op
	default:
		return nil
	}
}

func (g *Generator) newBlock(prefix string) *Block {
	name := fmt.Sprintf("%s_%d", prefix, g.blockCounter)
	g.blockCounter++
	return g.fn.NewBlock(name)
}

func (g *Generator) emit(instr *Instruction) {
	g.block.Append(instr)
}

// terminated reports whether g.block already ends in a control-transfer
// instruction, so callers know whether to append a fallthrough branch.
func (g *Generator) terminated() bool {
	last := g.block.Last
	if last == nil {
		return false
	}
	switch last.Op {
	case OpRet, OpBr, OpCondBr:
		return true
	default:
		return false
	}
}

func (g *Generator) pushEnv() { g.env = &genEnv{vars: make(map[string]Operand), parent: g.env} }
func (g *Generator) popEnv()  { g.env = g.env.parent }

func (g *Generator) declareLocal(name string, slot Operand) { g.env.vars[name] = slot }

func (g *Generator) lookupLocal(name string) (Operand, bool) {
	for e := g.env; e != nil; e = e.parent {
		if slot, ok := e.vars[name]; ok {
			return slot, true
		}
	}
	return Operand{}, false
}

func (g *Generator) genFunc(fn *cnast.FuncDecl) {
	irFn := &Function{
		Name:            fn.Name,
		ReturnType:      fn.ReturnType,
		IsInterrupt:     fn.IsInterrupt,
		InterruptVector: fn.InterruptVector,
	}
	for _, p := range fn.Params {
		irFn.Params = append(irFn.Params, Param{Name: p.Name, Type: p.Type})
	}
	g.fn = irFn
	g.env = nil
	g.blockCounter = 0
	g.loops = nil

	g.block = g.fn.NewBlock("entry_0")
	g.pushEnv()

	// Copy every parameter into its own alloca'd slot, so the body's
	// loads/stores of a parameter go through the same slot-based path as
	// local variables (the stack-slot convention spec.md §4.6 permits in
	// place of phi nodes).
	for _, p := range fn.Params {
		slot := g.fn.FreshVReg(cntype.PointerTo(p.Type))
		g.emit(&Instruction{Op: OpAlloca, Dest: &slot, Args: []Operand{{Type: p.Type}}})
		g.emit(&Instruction{Op: OpStore, Args: []Operand{slot, Global(p.Name, p.Type)}})
		g.declareLocal(p.Name, slot)
	}

	if fn.Body != nil {
		for _, s := range fn.Body.Stmts {
			g.genStmt(s)
		}
	}
	if !g.terminated() {
		g.emit(&Instruction{Op: OpRet})
	}
	g.popEnv()

	g.mod.AddFunc(irFn)
}

func (g *Generator) genBlock(b *cnast.BlockStmt) {
	g.pushEnv()
	for _, s := range b.Stmts {
		g.genStmt(s)
	}
	g.popEnv()
}

func (g *Generator) genStmt(s cnast.Stmt) {
	switch st := s.(type) {
	case *cnast.VarDeclStmt:
		slot := g.fn.FreshVReg(cntype.PointerTo(st.ResolvedType))
		g.emit(&Instruction{Op: OpAlloca, Dest: &slot, Args: []Operand{{Type: st.ResolvedType}}})
		if st.Init != nil {
			val := g.genExpr(st.Init)
			g.emit(&Instruction{Op: OpStore, Args: []Operand{slot, val}})
		}
		g.declareLocal(st.Name, slot)

	case *cnast.ExprStmt:
		g.genExpr(st.X)

	case *cnast.ReturnStmt:
		if st.Value != nil {
			v := g.genExpr(st.Value)
			g.emit(&Instruction{Op: OpRet, Args: []Operand{v}})
		} else {
			g.emit(&Instruction{Op: OpRet})
		}

	case *cnast.IfStmt:
		after := g.newBlock("if_merge")
		g.genIf(st, after)
		g.block = after

	case *cnast.WhileStmt:
		g.genWhile(st)

	case *cnast.ForStmt:
		g.genFor(st)

	case *cnast.SwitchStmt:
		g.genSwitch(st)

	case *cnast.BreakStmt:
		top := g.loops[len(g.loops)-1]
		g.emit(&Instruction{Op: OpBr, Target: top.breakTarget})
		g.block.AddSucc(top.breakTarget)

	case *cnast.ContinueStmt:
		top := g.loops[len(g.loops)-1]
		g.emit(&Instruction{Op: OpBr, Target: top.continueTarget})
		g.block.AddSucc(top.continueTarget)

	case *cnast.BlockStmt:
		g.genBlock(st)

	default:
		panic(fmt.Sprintf("ir: unhandled statement %T", s))
	}
}

// genIf lowers st into a then/else block pair that both funnel into after,
// recursing for else-if chains (st.Else is another *cnast.IfStmt) so the
// whole chain shares one merge point.
func (g *Generator) genIf(st *cnast.IfStmt, after *Block) {
	cond := g.genExpr(st.Cond)

	thenBlock := g.newBlock("if_then")
	var elseBlock *Block
	if st.Else != nil {
		elseBlock = g.newBlock("if_else")
	} else {
		elseBlock = after
	}

	cur := g.block
	g.emit(&Instruction{Op: OpCondBr, Cond: cond, Then: thenBlock, Else: elseBlock})
	cur.AddSucc(thenBlock)
	cur.AddSucc(elseBlock)

	g.block = thenBlock
	g.genBlock(st.Then)
	if !g.terminated() {
		g.emit(&Instruction{Op: OpBr, Target: after})
		g.block.AddSucc(after)
	}

	if st.Else == nil {
		return
	}

	g.block = elseBlock
	switch els := st.Else.(type) {
	case *cnast.BlockStmt:
		g.genBlock(els)
		if !g.terminated() {
			g.emit(&Instruction{Op: OpBr, Target: after})
			g.block.AddSucc(after)
		}
	case *cnast.IfStmt:
		g.genIf(els, after)
	default:
		panic(fmt.Sprintf("ir: unexpected if-else shape %T", st.Else))
	}
}

func (g *Generator) genWhile(st *cnast.WhileStmt) {
	condBlock := g.newBlock("while_cond")
	bodyBlock := g.newBlock("while_body")
	exitBlock := g.newBlock("while_exit")

	g.emit(&Instruction{Op: OpBr, Target: condBlock})
	g.block.AddSucc(condBlock)

	g.block = condBlock
	cond := g.genExpr(st.Cond)
	g.emit(&Instruction{Op: OpCondBr, Cond: cond, Then: bodyBlock, Else: exitBlock})
	g.block.AddSucc(bodyBlock)
	g.block.AddSucc(exitBlock)

	g.loops = append(g.loops, loopContext{continueTarget: condBlock, breakTarget: exitBlock})
	g.block = bodyBlock
	g.genBlock(st.Body)
	if !g.terminated() {
		g.emit(&Instruction{Op: OpBr, Target: condBlock})
		g.block.AddSucc(condBlock)
	}
	g.loops = g.loops[:len(g.loops)-1]

	g.block = exitBlock
}

func (g *Generator) genFor(st *cnast.ForStmt) {
	g.pushEnv() // holds the init clause's variable, shared by cond/update/body

	if st.Init != nil {
		g.genStmt(st.Init)
	}

	condBlock := g.newBlock("for_cond")
	bodyBlock := g.newBlock("for_body")
	updateBlock := g.newBlock("for_update")
	exitBlock := g.newBlock("for_exit")

	g.emit(&Instruction{Op: OpBr, Target: condBlock})
	g.block.AddSucc(condBlock)

	g.block = condBlock
	if st.Cond != nil {
		cond := g.genExpr(st.Cond)
		g.emit(&Instruction{Op: OpCondBr, Cond: cond, Then: bodyBlock, Else: exitBlock})
		g.block.AddSucc(bodyBlock)
		g.block.AddSucc(exitBlock)
	} else {
		g.emit(&Instruction{Op: OpBr, Target: bodyBlock})
		g.block.AddSucc(bodyBlock)
	}

	g.loops = append(g.loops, loopContext{continueTarget: updateBlock, breakTarget: exitBlock})
	g.block = bodyBlock
	g.genBlock(st.Body)
	if !g.terminated() {
		g.emit(&Instruction{Op: OpBr, Target: updateBlock})
		g.block.AddSucc(updateBlock)
	}
	g.loops = g.loops[:len(g.loops)-1]

	g.block = updateBlock
	if st.Update != nil {
		g.genStmt(st.Update)
	}
	g.emit(&Instruction{Op: OpBr, Target: condBlock})
	g.block.AddSucc(condBlock)

	g.block = exitBlock
	g.popEnv()
}

// genSwitch lowers st into the equality-and-branch cascade spec.md §6 names:
// switch_check_n comparison blocks, case_body_n bodies, switch_merge_n exit.
func (g *Generator) genSwitch(st *cnast.SwitchStmt) {
	tag := g.genExpr(st.Tag)
	merge := g.newBlock("switch_merge")

	var defaultCase *cnast.SwitchCase
	cur := g.block
	for i := range st.Cases {
		c := &st.Cases[i]
		if c.Value == nil {
			defaultCase = c
			continue
		}
		g.block = cur
		val := g.genExpr(c.Value)
		eq := g.fn.FreshVReg(cntype.BoolType)
		g.emit(&Instruction{Op: OpEq, Dest: &eq, Args: []Operand{tag, val}})

		body := g.newBlock("case_body")
		next := g.newBlock("switch_check")
		g.emit(&Instruction{Op: OpCondBr, Cond: eq, Then: body, Else: next})
		cur.AddSucc(body)
		cur.AddSucc(next)

		g.block = body
		g.genBlock(c.Body)
		if !g.terminated() {
			g.emit(&Instruction{Op: OpBr, Target: merge})
			g.block.AddSucc(merge)
		}

		cur = next
	}

	g.block = cur
	if defaultCase != nil {
		g.genBlock(defaultCase.Body)
	}
	if !g.terminated() {
		g.emit(&Instruction{Op: OpBr, Target: merge})
		g.block.AddSucc(merge)
	}

	g.block = merge
}

func mapBinaryOp(op cnast.BinaryOp) Opcode {
	switch op {
	case cnast.OpAdd:
		return OpAdd
	case cnast.OpSub:
		return OpSub
	case cnast.OpMul:
		return OpMul
	case cnast.OpDiv:
		return OpDiv
	case cnast.OpMod:
		return OpMod
	case cnast.OpAnd:
		return OpBitAnd
	case cnast.OpOr:
		return OpBitOr
	case cnast.OpXor:
		return OpBitXor
	case cnast.OpShl:
		return OpShl
	case cnast.OpShr:
		return OpShr
	case cnast.OpEq:
		return OpEq
	case cnast.OpNe:
		return OpNe
	case cnast.OpLt:
		return OpLt
	case cnast.OpLe:
		return OpLe
	case cnast.OpGt:
		return OpGt
	case cnast.OpGe:
		return OpGe
	default:
		panic(fmt.Sprintf("ir: unhandled binary op %v", op))
	}
}

// runtimeIntrinsicName maps a memory/asm intrinsic to the generated-C
// runtime entry point spec.md §6 names for it.
func runtimeIntrinsicName(k cnast.IntrinsicKind) string {
	switch k {
	case cnast.IntrinsicReadMemory:
		return "cn_rt_memory_read"
	case cnast.IntrinsicWriteMemory:
		return "cn_rt_memory_write"
	case cnast.IntrinsicMemoryCopy:
		return "cn_rt_memory_copy"
	case cnast.IntrinsicMemorySet:
		return "cn_rt_memory_set_safe"
	case cnast.IntrinsicMapMemory:
		return "cn_rt_map_memory"
	case cnast.IntrinsicUnmapMemory:
		return "cn_rt_unmap_memory"
	case cnast.IntrinsicInlineAsm:
		return "cn_rt_inline_asm"
	default:
		panic(fmt.Sprintf("ir: unhandled intrinsic %v", k))
	}
}

// genExpr lowers e to the instruction sequence computing its value, and
// returns the operand holding the result.
func (g *Generator) genExpr(e cnast.Expr) Operand {
	switch ex := e.(type) {
	case *cnast.IntLit:
		return ImmInt(ex.Value, ex.Type())

	case *cnast.FloatLit:
		return ImmFloat(ex.Value)

	case *cnast.BoolLit:
		return ImmBool(ex.Value)

	case *cnast.StringLit:
		return ImmString(ex.Value)

	case *cnast.IdentExpr:
		if slot, ok := g.lookupLocal(ex.Name); ok {
			dest := g.fn.FreshVReg(ex.Type())
			g.emit(&Instruction{Op: OpLoad, Dest: &dest, Args: []Operand{slot}})
			return dest
		}
		dest := g.fn.FreshVReg(ex.Type())
		g.emit(&Instruction{Op: OpLoad, Dest: &dest, Args: []Operand{Global(ex.Name, ex.Type())}})
		return dest

	case *cnast.BinaryExpr:
		l := g.genExpr(ex.Left)
		r := g.genExpr(ex.Right)
		dest := g.fn.FreshVReg(ex.Type())
		g.emit(&Instruction{Op: mapBinaryOp(ex.Op), Dest: &dest, Args: []Operand{l, r}})
		return dest

	case *cnast.LogicalExpr:
		return g.genLogical(ex)

	case *cnast.UnaryExpr:
		return g.genUnary(ex)

	case *cnast.AssignExpr:
		val := g.genExpr(ex.Value)
		addr := g.genAddr(ex.Target)
		g.emit(&Instruction{Op: OpStore, Args: []Operand{addr, val}})
		return val

	case *cnast.ArrayLit:
		return g.genArrayLit(ex)

	case *cnast.IndexExpr:
		addr := g.genAddr(ex)
		dest := g.fn.FreshVReg(ex.Type())
		g.emit(&Instruction{Op: OpLoad, Dest: &dest, Args: []Operand{addr}})
		return dest

	case *cnast.MemberExpr:
		addr := g.genAddr(ex)
		dest := g.fn.FreshVReg(ex.Type())
		g.emit(&Instruction{Op: OpLoad, Dest: &dest, Args: []Operand{addr}})
		return dest

	case *cnast.StructLit:
		return g.genStructLit(ex)

	case *cnast.CallExpr:
		return g.genCall(ex)

	case *cnast.IntrinsicExpr:
		return g.genIntrinsic(ex)

	default:
		panic(fmt.Sprintf("ir: unhandled expression %T", e))
	}
}

// genLogical lowers a short-circuit && / || into the three-block diamond
// spec.md §4.6 calls for: evaluate the left operand, branch on it, evaluate
// the right operand only on the side that needs it, and merge through a
// stack slot rather than a phi node.
func (g *Generator) genLogical(ex *cnast.LogicalExpr) Operand {
	slot := g.fn.FreshVReg(cntype.PointerTo(cntype.BoolType))
	g.emit(&Instruction{Op: OpAlloca, Dest: &slot, Args: []Operand{{Type: cntype.BoolType}}})

	lhs := g.genExpr(ex.Left)
	g.emit(&Instruction{Op: OpStore, Args: []Operand{slot, lhs}})

	rhsBlock := g.newBlock("logic_rhs")
	mergeBlock := g.newBlock("logic_merge")

	cur := g.block
	if ex.Op == cnast.OpLogicalAnd {
		g.emit(&Instruction{Op: OpCondBr, Cond: lhs, Then: rhsBlock, Else: mergeBlock})
	} else {
		g.emit(&Instruction{Op: OpCondBr, Cond: lhs, Then: mergeBlock, Else: rhsBlock})
	}
	cur.AddSucc(rhsBlock)
	cur.AddSucc(mergeBlock)

	g.block = rhsBlock
	rhs := g.genExpr(ex.Right)
	g.emit(&Instruction{Op: OpStore, Args: []Operand{slot, rhs}})
	g.emit(&Instruction{Op: OpBr, Target: mergeBlock})
	g.block.AddSucc(mergeBlock)

	g.block = mergeBlock
	dest := g.fn.FreshVReg(cntype.BoolType)
	g.emit(&Instruction{Op: OpLoad, Dest: &dest, Args: []Operand{slot}})
	return dest
}

func (g *Generator) genUnary(ex *cnast.UnaryExpr) Operand {
	switch ex.Op {
	case cnast.OpAddr:
		return g.genAddr(ex.Operand)
	case cnast.OpDeref:
		ptr := g.genExpr(ex.Operand)
		dest := g.fn.FreshVReg(ex.Type())
		g.emit(&Instruction{Op: OpLoad, Dest: &dest, Args: []Operand{ptr}})
		return dest
	}

	v := g.genExpr(ex.Operand)
	dest := g.fn.FreshVReg(ex.Type())
	var op Opcode
	switch ex.Op {
	case cnast.OpNot:
		op = OpNot
	case cnast.OpNeg:
		op = OpNeg
	case cnast.OpBitNot:
		op = OpBitNot
	default:
		panic(fmt.Sprintf("ir: unhandled unary op %v", ex.Op))
	}
	g.emit(&Instruction{Op: op, Dest: &dest, Args: []Operand{v}})
	return dest
}

// genAddr computes the address of an lvalue expression, for assignment
// targets, &-of, and as the base of a field/index load.
func (g *Generator) genAddr(e cnast.Expr) Operand {
	switch ex := e.(type) {
	case *cnast.IdentExpr:
		if slot, ok := g.lookupLocal(ex.Name); ok {
			return slot
		}
		return Global(ex.Name, ex.Type())

	case *cnast.MemberExpr:
		base := g.genBaseAddr(ex.Base, ex.Arrow)
		addr := g.fn.FreshVReg(cntype.PointerTo(ex.Type()))
		g.emit(&Instruction{Op: OpGEPField, Dest: &addr, Field: ex.Field, Args: []Operand{base}})
		return addr

	case *cnast.IndexExpr:
		base := g.genExpr(ex.Base)
		idx := g.genExpr(ex.Index)
		addr := g.fn.FreshVReg(cntype.PointerTo(ex.Type()))
		g.emit(&Instruction{Op: OpGEPIndex, Dest: &addr, Args: []Operand{base, idx}})
		return addr

	case *cnast.UnaryExpr:
		if ex.Op == cnast.OpDeref {
			return g.genExpr(ex.Operand)
		}
	}
	panic(fmt.Sprintf("ir: %T is not an lvalue", e))
}

// genBaseAddr resolves the base of a member access: arrow access (`->`)
// already holds a pointer value, dot access (`.`) needs the base's address.
func (g *Generator) genBaseAddr(base cnast.Expr, arrow bool) Operand {
	if arrow {
		return g.genExpr(base)
	}
	return g.genAddr(base)
}

// genArrayLit allocates array storage via the cn_rt_array_alloc runtime
// intrinsic and stores each element in turn, per spec.md §4.6.
func (g *Generator) genArrayLit(ex *cnast.ArrayLit) Operand {
	elemType := cntype.UnknownType
	if ex.Type().Kind == cntype.Pointer || ex.Type().Kind == cntype.Array {
		elemType = *ex.Type().Elem
	}
	count := ImmInt(int64(len(ex.Elements)), cntype.IntType)
	sizeArg := Operand{Kind: OperandImmInt, Type: elemType} // Int left 0: backend computes sizeof(elemType)

	dest := g.fn.FreshVReg(ex.Type())
	g.emit(&Instruction{Op: OpCall, Dest: &dest, Callee: "cn_rt_array_alloc", Args: []Operand{sizeArg, count}})

	for i, elemExpr := range ex.Elements {
		v := g.genExpr(elemExpr)
		addr := g.fn.FreshVReg(cntype.PointerTo(elemType))
		g.emit(&Instruction{Op: OpGEPIndex, Dest: &addr, Args: []Operand{dest, ImmInt(int64(i), cntype.IntType)}})
		g.emit(&Instruction{Op: OpStore, Args: []Operand{addr, v}})
	}
	return dest
}

// genStructLit lowers a struct literal into alloca + a OpGEPField/OpStore
// pair per field, then loads the whole struct by value, per spec.md §4.6.
func (g *Generator) genStructLit(ex *cnast.StructLit) Operand {
	slot := g.fn.FreshVReg(cntype.PointerTo(ex.Type()))
	g.emit(&Instruction{Op: OpAlloca, Dest: &slot, Args: []Operand{{Type: ex.Type()}}})

	decl := g.structs[ex.StructName]
	for i, fi := range ex.Fields {
		fieldName := fi.Name
		if fieldName == "" && decl != nil && i < len(decl.Fields) {
			fieldName = decl.Fields[i].Name
		}
		val := g.genExpr(fi.Value)
		addr := g.fn.FreshVReg(cntype.PointerTo(val.Type))
		g.emit(&Instruction{Op: OpGEPField, Dest: &addr, Field: fieldName, Args: []Operand{slot}})
		g.emit(&Instruction{Op: OpStore, Args: []Operand{addr, val}})
	}

	dest := g.fn.FreshVReg(ex.Type())
	g.emit(&Instruction{Op: OpLoad, Dest: &dest, Args: []Operand{slot}})
	return dest
}

// builtinRuntimeNames maps the hosted I/O builtins (spec.md §6) to their
// cn_rt_* entry point, except 打印 which is resolved per call site by
// runtimePrintName since the runtime exposes one print function per
// printable kind rather than a single overloaded one.
var builtinRuntimeNames = map[string]string{
	"读取整数": "cn_rt_read_int",
	"读取行":  "cn_rt_read_line",
}

// runtimePrintName picks the cn_rt_print_<kind> entry point matching argType,
// the concrete type the call site's sole argument resolved to.
func runtimePrintName(argType cntype.Type) string {
	switch argType.Kind {
	case cntype.Bool:
		return "cn_rt_print_bool"
	case cntype.String:
		return "cn_rt_print_string"
	case cntype.Float:
		return "cn_rt_print_float"
	default:
		return "cn_rt_print_int"
	}
}

func (g *Generator) genCall(ex *cnast.CallExpr) Operand {
	callee, ok := ex.Callee.(*cnast.IdentExpr)
	if !ok {
		panic(fmt.Sprintf("ir: call target %T is not a named function", ex.Callee))
	}
	args := make([]Operand, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = g.genExpr(a)
	}

	name := callee.Name
	if callee.Name == "打印" && len(ex.Args) == 1 {
		name = runtimePrintName(ex.Args[0].Type())
	} else if rt, ok := builtinRuntimeNames[callee.Name]; ok {
		name = rt
	}

	if ex.Type().Kind == cntype.Void {
		g.emit(&Instruction{Op: OpCall, Callee: name, Args: args})
		return Operand{Kind: OperandImmInt, Type: cntype.VoidType}
	}
	dest := g.fn.FreshVReg(ex.Type())
	g.emit(&Instruction{Op: OpCall, Dest: &dest, Callee: name, Args: args})
	return dest
}

func (g *Generator) genIntrinsic(ex *cnast.IntrinsicExpr) Operand {
	name := runtimeIntrinsicName(ex.Kind)
	args := make([]Operand, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = g.genExpr(a)
	}
	if ex.Type().Kind == cntype.Void {
		g.emit(&Instruction{Op: OpCall, Callee: name, Args: args})
		return Operand{Kind: OperandImmInt, Type: cntype.VoidType}
	}
	dest := g.fn.FreshVReg(ex.Type())
	g.emit(&Instruction{Op: OpCall, Dest: &dest, Callee: name, Args: args})
	return dest
}
