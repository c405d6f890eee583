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

// Package cbackend lowers an ir.Module into a single C translation unit,
// per spec.md §4.8's six-part structure: includes, struct definitions, enum
// definitions, forward declarations, global definitions, then one C
// function per IR function. It never shells out to a C compiler itself —
// Emit only produces source text; the driver (cmd/cnc) is responsible for
// invoking a toolchain on the result.
package cbackend

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/ir"
)

// systemAPIIntrinsics are the runtime entry points that require pulling in
// cnlang/runtime/system_api.h (memory-mapped I/O and inline asm), beyond
// the plain cnrt.h surface every program gets.
var systemAPIIntrinsics = map[string]bool{
	"cn_rt_memory_read": true, "cn_rt_memory_write": true,
	"cn_rt_memory_copy": true, "cn_rt_memory_set_safe": true,
	"cn_rt_map_memory": true, "cn_rt_unmap_memory": true,
	"cn_rt_inline_asm": true,
}

type backend struct {
	mod  *ir.Module
	prog *cnast.Program
}

// Emit writes the C translation unit for mod (plus prog's struct/enum
// declarations, which the IR doesn't reify on its own) to w.
func Emit(w io.Writer, mod *ir.Module, prog *cnast.Program) error {
	bw := bufio.NewWriter(w)
	b := &backend{mod: mod, prog: prog}

	b.writeIncludes(bw)
	b.writeStructs(bw)
	b.writeEnums(bw)
	b.writeForwardDecls(bw)
	b.writeGlobals(bw)
	for _, fn := range mod.Functions() {
		b.writeFunction(bw, fn)
	}
	b.writeMain(bw)

	return bw.Flush()
}

func (b *backend) needsSystemAPI() bool {
	for _, fn := range b.mod.Functions() {
		if fn.IsInterrupt {
			return true
		}
		for _, blk := range fn.Blocks() {
			for _, instr := range blk.Instructions() {
				if instr.Op == ir.OpCall && systemAPIIntrinsics[instr.Callee] {
					return true
				}
			}
		}
	}
	return false
}

func (b *backend) writeIncludes(w io.Writer) {
	fmt.Fprintln(w, "#include <stdio.h>")
	fmt.Fprintln(w, "#include <stdbool.h>")
	fmt.Fprintln(w, "#include <stdint.h>")
	fmt.Fprintln(w, "#include <string.h>")
	fmt.Fprintln(w, `#include "cnrt.h"`)
	if b.needsSystemAPI() {
		fmt.Fprintln(w, `#include "cnlang/runtime/system_api.h"`)
	}
	fmt.Fprintln(w)
}

// writeStructs preserves field declaration order, since spec.md §4.8 and
// the memory layout it implies (GEPField offsets) both depend on it.
func (b *backend) writeStructs(w io.Writer) {
	for _, sd := range b.prog.Structs {
		fmt.Fprintf(w, "struct cn_struct_%s {\n", sd.Name)
		for _, f := range sd.Fields {
			fmt.Fprintf(w, "\t%s %s;\n", cType(f.Type), f.Name)
		}
		fmt.Fprintln(w, "};")
	}
	if len(b.prog.Structs) > 0 {
		fmt.Fprintln(w)
	}
}

// writeEnums preserves explicit member values and C's own auto-increment
// rule for members left implicit.
func (b *backend) writeEnums(w io.Writer) {
	for _, ed := range b.prog.Enums {
		fmt.Fprintf(w, "typedef enum {\n")
		var next int64
		for _, m := range ed.Members {
			if m.HasValue {
				next = m.Value
			}
			fmt.Fprintf(w, "\tcn_enum_%s_%s = %d,\n", ed.Name, m.Name, next)
			next++
		}
		fmt.Fprintf(w, "} cn_enum_%s;\n", ed.Name)
	}
	if len(b.prog.Enums) > 0 {
		fmt.Fprintln(w)
	}
}

func (b *backend) writeForwardDecls(w io.Writer) {
	for _, fn := range b.mod.Functions() {
		fmt.Fprintf(w, "%s cn_func_%s(%s);\n", cType(fn.ReturnType), fn.Name, paramList(fn.Params))
	}
	fmt.Fprintln(w)
}

func (b *backend) writeGlobals(w io.Writer) {
	for _, g := range b.mod.Globals {
		init := zeroValue(g.Type)
		if g.Init != nil {
			init = ref(*g.Init)
		}
		fmt.Fprintf(w, "%s cn_var_%s = %s;\n", cType(g.Type), g.Name, init)
	}
	if len(b.mod.Globals) > 0 {
		fmt.Fprintln(w)
	}
}
