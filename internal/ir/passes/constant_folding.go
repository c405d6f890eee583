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

package passes

import (
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/ir"
)

// ConstantFolding rewrites an arithmetic/logic/comparison/unary instruction
// whose source operands are all integer immediates (or, for `!`, a bool
// immediate) into a plain mov of the computed result, per spec.md §4.7.
// Float and string immediates are not folded. Division and modulo by a zero immediate are
// deliberately left unfolded so the instruction's runtime trap behavior is
// preserved.
type ConstantFolding struct{}

func (ConstantFolding) Name() string { return "constant-folding" }

func (cf ConstantFolding) Run(mod *ir.Module) bool {
	changed := false
	for _, fn := range mod.Functions() {
		// candidates are movs this run folded a foldable instruction into;
		// once the whole function has been folded, any of them whose dest
		// vreg turned out to have no remaining reader is dead and removed,
		// so a chain like mul r0, 20, 3 / add r1, 10, r0 collapses to the
		// single mov r1, 70 a caller that only reads r1 actually needs,
		// instead of leaving the superseded mov r0, 60 behind.
		var candidates []foldedMov
		for _, b := range fn.Blocks() {
			// known carries, within this block only, the immediate each
			// vreg was last assigned by a folded mov, so a later foldable
			// instruction that reads it sees an immediate instead of a
			// reference to an earlier mov.
			known := make(map[int]ir.Operand)
			for _, instr := range b.Instructions() {
				if isFoldableOp(instr.Op) {
					substituteKnownOperands(instr, known)
				}
				if foldInstruction(instr) {
					changed = true
				}
				if instr.Op == ir.OpMov && instr.Dest != nil && len(instr.Args) == 1 && isImmediate(instr.Args[0]) {
					known[instr.Dest.VReg] = instr.Args[0]
					candidates = append(candidates, foldedMov{block: b, instr: instr})
				}
			}
		}
		if len(candidates) == 0 {
			continue
		}
		used := usedVRegs(fn)
		for _, c := range candidates {
			if !used[c.instr.Dest.VReg] {
				c.block.Remove(c.instr)
				changed = true
			}
		}
	}
	return changed
}

// foldedMov is a mov produced by folding, recorded with its owning block so
// it can be unlinked if it turns out to be dead once propagation is done.
type foldedMov struct {
	block *ir.Block
	instr *ir.Instruction
}

func isImmediate(op ir.Operand) bool {
	switch op.Kind {
	case ir.OperandImmInt, ir.OperandImmFloat, ir.OperandImmBool, ir.OperandImmString:
		return true
	default:
		return false
	}
}

func isFoldableOp(op ir.Opcode) bool {
	switch op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod,
		ir.OpBitAnd, ir.OpBitOr, ir.OpBitXor, ir.OpShl, ir.OpShr,
		ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe,
		ir.OpNeg, ir.OpBitNot, ir.OpNot:
		return true
	default:
		return false
	}
}

// substituteKnownOperands replaces any vreg argument of instr with the
// immediate known already recorded for it, so later folding sees an
// immediate instead of a reference to an earlier mov. Only called for
// foldable instructions: a non-foldable consumer (a return, a store, a
// call) keeps referencing the vreg so the mov producing it is not mistaken
// for dead.
func substituteKnownOperands(instr *ir.Instruction, known map[int]ir.Operand) {
	for i, a := range instr.Args {
		if a.Kind == ir.OperandVReg {
			if v, ok := known[a.VReg]; ok {
				instr.Args[i] = v
			}
		}
	}
}

// usedVRegs collects every vreg referenced as an argument or branch
// condition anywhere in fn.
func usedVRegs(fn *ir.Function) map[int]bool {
	used := make(map[int]bool)
	mark := func(op ir.Operand) {
		if op.Kind == ir.OperandVReg {
			used[op.VReg] = true
		}
	}
	for _, b := range fn.Blocks() {
		for _, instr := range b.Instructions() {
			for _, a := range instr.Args {
				mark(a)
			}
			mark(instr.Cond)
		}
	}
	return used
}

func foldInstruction(instr *ir.Instruction) bool {
	switch instr.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod,
		ir.OpBitAnd, ir.OpBitOr, ir.OpBitXor, ir.OpShl, ir.OpShr,
		ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe:
		return foldBinary(instr)
	case ir.OpNeg, ir.OpBitNot:
		return foldIntUnary(instr)
	case ir.OpNot:
		return foldBoolUnary(instr)
	default:
		return false
	}
}

func foldBinary(instr *ir.Instruction) bool {
	if len(instr.Args) != 2 {
		return false
	}
	a, b := instr.Args[0], instr.Args[1]
	if a.Kind != ir.OperandImmInt || b.Kind != ir.OperandImmInt {
		return false
	}
	if (instr.Op == ir.OpDiv || instr.Op == ir.OpMod) && b.Int == 0 {
		return false
	}
	result := computeBinary(instr.Op, a.Int, b.Int)
	instr.Op = ir.OpMov
	instr.Args = []ir.Operand{result}
	return true
}

func computeBinary(op ir.Opcode, a, b int64) ir.Operand {
	switch op {
	case ir.OpAdd:
		return ir.ImmInt(a+b, cntype.IntType)
	case ir.OpSub:
		return ir.ImmInt(a-b, cntype.IntType)
	case ir.OpMul:
		return ir.ImmInt(a*b, cntype.IntType)
	case ir.OpDiv:
		return ir.ImmInt(a/b, cntype.IntType)
	case ir.OpMod:
		return ir.ImmInt(a%b, cntype.IntType)
	case ir.OpBitAnd:
		return ir.ImmInt(a&b, cntype.IntType)
	case ir.OpBitOr:
		return ir.ImmInt(a|b, cntype.IntType)
	case ir.OpBitXor:
		return ir.ImmInt(a^b, cntype.IntType)
	case ir.OpShl:
		return ir.ImmInt(a<<uint64(b), cntype.IntType)
	case ir.OpShr:
		return ir.ImmInt(a>>uint64(b), cntype.IntType)
	case ir.OpEq:
		return ir.ImmBool(a == b)
	case ir.OpNe:
		return ir.ImmBool(a != b)
	case ir.OpLt:
		return ir.ImmBool(a < b)
	case ir.OpLe:
		return ir.ImmBool(a <= b)
	case ir.OpGt:
		return ir.ImmBool(a > b)
	case ir.OpGe:
		return ir.ImmBool(a >= b)
	default:
		panic("passes: unreachable binary opcode in constant folding")
	}
}

func foldIntUnary(instr *ir.Instruction) bool {
	if len(instr.Args) != 1 || instr.Args[0].Kind != ir.OperandImmInt {
		return false
	}
	v := instr.Args[0].Int
	var r int64
	if instr.Op == ir.OpNeg {
		r = -v
	} else {
		r = ^v
	}
	instr.Op = ir.OpMov
	instr.Args = []ir.Operand{ir.ImmInt(r, instr.Args[0].Type)}
	return true
}

func foldBoolUnary(instr *ir.Instruction) bool {
	if len(instr.Args) != 1 || instr.Args[0].Kind != ir.OperandImmBool {
		return false
	}
	instr.Op = ir.OpMov
	instr.Args = []ir.Operand{ir.ImmBool(!instr.Args[0].Bool)}
	return true
}
