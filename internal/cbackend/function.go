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
	"io"
	"sort"
	"strings"

	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/ir"
)

// entryFuncName is the designated CN entry point: the CN function with this
// exact name. The backend synthesizes a real C `main` that calls it, so
// cn_rt_init runs exactly once, from main, and the CN function itself keeps
// its own cn_func_-prefixed C name.
const entryFuncName = "主程序"

func paramList(params []ir.Param) string {
	if len(params) == 0 {
		return "void"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s cn_var_%s", cType(p.Type), p.Name)
	}
	return strings.Join(parts, ", ")
}

// writeFunction renders one IR function as a C function: a flat block of
// declarations (every temporary and every alloca's backing storage,
// declared up front so no goto ever jumps over an initializer) followed by
// every basic block rendered as a label with its instructions.
func (b *backend) writeFunction(w io.Writer, fn *ir.Function) {
	fmt.Fprintf(w, "%s cn_func_%s(%s) {\n", cType(fn.ReturnType), fn.Name, paramList(fn.Params))

	slots := make(map[*ir.Instruction]string)
	vregTypes := make(map[int]string)
	slotIdx := 0

	for _, blk := range fn.Blocks() {
		for _, instr := range blk.Instructions() {
			if instr.Dest != nil {
				if _, ok := vregTypes[instr.Dest.VReg]; !ok {
					vregTypes[instr.Dest.VReg] = cType(instr.Dest.Type)
				}
			}
			if instr.Op == ir.OpAlloca {
				name := fmt.Sprintf("slot%d", slotIdx)
				slotIdx++
				slots[instr] = name
				fmt.Fprintf(w, "\t%s %s;\n", cType(instr.Args[0].Type), name)
			}
		}
	}

	vregs := make([]int, 0, len(vregTypes))
	for v := range vregTypes {
		vregs = append(vregs, v)
	}
	sort.Ints(vregs)
	for _, v := range vregs {
		fmt.Fprintf(w, "\t%s r%d;\n", vregTypes[v], v)
	}

	for _, blk := range fn.Blocks() {
		fmt.Fprintf(w, "%s:;\n", blk.Name)
		for _, instr := range blk.Instructions() {
			for _, line := range renderInstr(instr, slots) {
				fmt.Fprintf(w, "\t%s\n", line)
			}
		}
	}

	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
}

// writeMain synthesizes the C entry point: cn_rt_init(), then an
// interrupt-handler registration call per IsInterrupt function, then the
// call to the CN program's own entry function.
func (b *backend) writeMain(w io.Writer) {
	var entry *ir.Function
	for _, fn := range b.mod.Functions() {
		if fn.Name == entryFuncName {
			entry = fn
		}
	}
	if entry == nil {
		return
	}

	fmt.Fprintln(w, "int main(void) {")
	fmt.Fprintln(w, "\tcn_rt_init();")
	for _, fn := range b.mod.Functions() {
		if fn.IsInterrupt {
			fmt.Fprintf(w, "\tcn_rt_interrupt_register(%d, cn_func_%s, %q);\n", fn.InterruptVector, fn.Name, fn.Name)
		}
	}
	if entry.ReturnType.Kind == cntype.Void {
		fmt.Fprintf(w, "\tcn_func_%s();\n", entry.Name)
		fmt.Fprintln(w, "\treturn 0;")
	} else {
		fmt.Fprintf(w, "\treturn (int)cn_func_%s();\n", entry.Name)
	}
	fmt.Fprintln(w, "}")
}
