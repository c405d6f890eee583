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

package cbackend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/ir"
)

var binarySymbol = map[ir.Opcode]string{
	ir.OpAdd: "+", ir.OpSub: "-", ir.OpMul: "*", ir.OpDiv: "/", ir.OpMod: "%",
	ir.OpBitAnd: "&", ir.OpBitOr: "|", ir.OpBitXor: "^", ir.OpShl: "<<", ir.OpShr: ">>",
	ir.OpEq: "==", ir.OpNe: "!=", ir.OpLt: "<", ir.OpLe: "<=", ir.OpGt: ">", ir.OpGe: ">=",
}

// ref renders op as a C expression referencing its value: an immediate
// literal, a temporary (rN), or a named variable/parameter/global
// (cn_var_<name>).
func ref(op ir.Operand) string {
	switch op.Kind {
	case ir.OperandImmInt:
		return strconv.FormatInt(op.Int, 10)
	case ir.OperandImmFloat:
		return strconv.FormatFloat(op.Float, 'g', -1, 64)
	case ir.OperandImmBool:
		if op.Bool {
			return "true"
		}
		return "false"
	case ir.OperandImmString:
		return strconv.Quote(op.String)
	case ir.OperandVReg:
		return fmt.Sprintf("r%d", op.VReg)
	case ir.OperandGlobal:
		return "cn_var_" + op.Name
	case ir.OperandFunc:
		return calleeExpr(op.Name)
	default:
		return "/* unrenderable operand */"
	}
}

// calleeExpr renders a call target name: runtime entry points (cn_rt_*) are
// used verbatim, every user-defined function gets the cn_func_ prefix
// spec.md §6 names.
func calleeExpr(name string) string {
	if strings.HasPrefix(name, "cn_rt_") {
		return name
	}
	return "cn_func_" + name
}

// isDirectLValue reports whether op already names a plain C variable (a
// global or a bare function parameter) rather than holding a pointer that
// needs dereferencing. internal/ir's generator only ever produces such
// operands for Load/Store/GEPField addresses when the base is not a local
// stack slot.
func isDirectLValue(op ir.Operand) bool { return op.Kind == ir.OperandGlobal }

// renderInstr renders instr as one or more C statement lines, given slots
// mapping each OpAlloca instruction to the hidden backing variable declared
// for it.
func renderInstr(instr *ir.Instruction, slots map[*ir.Instruction]string) []string {
	switch instr.Op {
	case ir.OpMov:
		return []string{assign(instr.Dest, ref(instr.Args[0]))}

	case ir.OpAdd:
		if instr.Dest != nil && instr.Dest.Type.Kind == cntype.String {
			return []string{assign(instr.Dest, fmt.Sprintf("cn_rt_string_concat(%s, %s)", ref(instr.Args[0]), ref(instr.Args[1])))}
		}
		return []string{binaryStmt(instr)}

	case ir.OpEq, ir.OpNe:
		if len(instr.Args) == 2 && instr.Args[0].Type.Kind == cntype.String {
			cmp := "== 0"
			if instr.Op == ir.OpNe {
				cmp = "!= 0"
			}
			return []string{assign(instr.Dest, fmt.Sprintf("strcmp(%s, %s) %s", ref(instr.Args[0]), ref(instr.Args[1]), cmp))}
		}
		return []string{binaryStmt(instr)}

	case ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod, ir.OpBitAnd, ir.OpBitOr, ir.OpBitXor,
		ir.OpShl, ir.OpShr, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe:
		return []string{binaryStmt(instr)}

	case ir.OpNot:
		return []string{assign(instr.Dest, fmt.Sprintf("!%s", ref(instr.Args[0])))}
	case ir.OpNeg:
		return []string{assign(instr.Dest, fmt.Sprintf("-%s", ref(instr.Args[0])))}
	case ir.OpBitNot:
		return []string{assign(instr.Dest, fmt.Sprintf("~%s", ref(instr.Args[0])))}
	case ir.OpAddrOf:
		return []string{assign(instr.Dest, fmt.Sprintf("&%s", ref(instr.Args[0])))}
	case ir.OpDeref:
		return []string{assign(instr.Dest, fmt.Sprintf("*(%s)", ref(instr.Args[0])))}

	case ir.OpAlloca:
		return []string{assign(instr.Dest, fmt.Sprintf("&%s", slots[instr]))}

	case ir.OpLoad:
		addr := instr.Args[0]
		if isDirectLValue(addr) {
			return []string{assign(instr.Dest, ref(addr))}
		}
		return []string{assign(instr.Dest, fmt.Sprintf("*(%s)", ref(addr)))}

	case ir.OpStore:
		addr, val := instr.Args[0], instr.Args[1]
		if isDirectLValue(addr) {
			return []string{fmt.Sprintf("%s = %s;", ref(addr), ref(val))}
		}
		return []string{fmt.Sprintf("*(%s) = %s;", ref(addr), ref(val))}

	case ir.OpGEPField:
		base := instr.Args[0]
		if isDirectLValue(base) {
			return []string{assign(instr.Dest, fmt.Sprintf("&(%s).%s", ref(base), instr.Field))}
		}
		return []string{assign(instr.Dest, fmt.Sprintf("&(%s)->%s", ref(base), instr.Field))}

	case ir.OpGEPIndex:
		base, idx := instr.Args[0], instr.Args[1]
		return []string{assign(instr.Dest, fmt.Sprintf("&(%s)[%s]", ref(base), ref(idx)))}

	case ir.OpCall:
		return []string{callStmt(instr)}

	case ir.OpBr:
		return []string{fmt.Sprintf("goto %s;", instr.Target.Name)}

	case ir.OpCondBr:
		return []string{fmt.Sprintf("if (%s) { goto %s; } else { goto %s; }", ref(instr.Cond), instr.Then.Name, instr.Else.Name)}

	case ir.OpRet:
		if len(instr.Args) == 1 {
			return []string{fmt.Sprintf("return %s;", ref(instr.Args[0]))}
		}
		return []string{"return;"}

	default:
		return []string{fmt.Sprintf("/* unhandled opcode %d */", instr.Op)}
	}
}

func binaryStmt(instr *ir.Instruction) string {
	sym := binarySymbol[instr.Op]
	return assign(instr.Dest, fmt.Sprintf("%s %s %s", ref(instr.Args[0]), sym, ref(instr.Args[1])))
}

func assign(dest *ir.Operand, expr string) string {
	if dest == nil {
		return expr + ";"
	}
	return fmt.Sprintf("%s = %s;", ref(*dest), expr)
}

// callStmt renders an OpCall instruction, special-casing cn_rt_array_alloc's
// first argument: the generator leaves it as a zero-valued placeholder
// carrying only the element Type, since the IR has no sizeof of its own.
func callStmt(instr *ir.Instruction) string {
	args := make([]string, len(instr.Args))
	for i, a := range instr.Args {
		args[i] = ref(a)
	}
	if instr.Callee == "cn_rt_array_alloc" && len(instr.Args) >= 1 {
		args[0] = fmt.Sprintf("sizeof(%s)", cType(instr.Args[0].Type))
	}
	call := fmt.Sprintf("%s(%s)", calleeExpr(instr.Callee), strings.Join(args, ", "))
	if instr.Dest == nil {
		return call + ";"
	}
	return assign(instr.Dest, call)
}
