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

package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/ir"
	"github.com/cnlang/compiler/internal/ir/passes"
	"github.com/cnlang/compiler/internal/parser"
	"github.com/cnlang/compiler/internal/sema"
	"github.com/cnlang/compiler/internal/target"
)

func build(t *testing.T, src string) *ir.Module {
	t.Helper()
	var diags diag.Bag
	b := cnast.NewBuilder()
	p := parser.New([]byte(src), "test.cn", &diags, b)
	prog := p.ParseProgram()
	require.False(t, diags.HasErrors(), "parse errors: %+v", diags.All())

	sema.New(prog, "test.cn", &diags, sema.Options{}).Run()
	require.False(t, diags.HasErrors(), "sema errors: %+v", diags.All())

	tr, err := target.Parse("x86_64-unknown-linux-sysv")
	require.NoError(t, err)
	return ir.NewGenerator(tr, false).Generate(prog)
}

func findFunc(mod *ir.Module, name string) *ir.Function {
	for _, fn := range mod.Functions() {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func onlyInstruction(t *testing.T, fn *ir.Function, op ir.Opcode) *ir.Instruction {
	t.Helper()
	var found *ir.Instruction
	for _, b := range fn.Blocks() {
		for _, instr := range b.Instructions() {
			if instr.Op == op {
				require.Nil(t, found, "expected exactly one %v instruction", op)
				found = instr
			}
		}
	}
	require.NotNil(t, found)
	return found
}

func TestConstantFoldingArithmeticChain(t *testing.T) {
	mod := build(t, `
函数 测试(): 整数 {
	返回 10 + 20 * 3;
}
`)
	fn := findFunc(mod, "测试")
	changed := (&passes.ConstantFolding{}).Run(mod)
	assert.True(t, changed)

	mov := onlyInstruction(t, fn, ir.OpMov)
	require.Len(t, mov.Args, 1)
	assert.Equal(t, int64(70), mov.Args[0].Int)
}

func TestConstantFoldingLeavesDivisionByZeroUnfolded(t *testing.T) {
	mod := build(t, `
函数 测试(): 整数 {
	返回 1 / 0;
}
`)
	fn := findFunc(mod, "测试")
	(&passes.ConstantFolding{}).Run(mod)

	found := false
	for _, b := range fn.Blocks() {
		for _, instr := range b.Instructions() {
			if instr.Op == ir.OpDiv {
				found = true
			}
		}
	}
	assert.True(t, found, "div by zero must not be folded away")
}

func TestConstantFoldingIsIdempotent(t *testing.T) {
	mod := build(t, `
函数 测试(): 整数 {
	返回 (2 + 3) * (4 - 1);
}
`)
	cf := &passes.ConstantFolding{}
	first := cf.Run(mod)
	second := cf.Run(mod)
	assert.True(t, first)
	assert.False(t, second)
}

// moduleWithOrphanBlock builds a module by hand with a block that carries no
// predecessor edge, the shape block-level DCE exists to clean up. Building it
// by hand pins the exact orphan under test; the generator can also emit such
// a block (an if_merge both of whose branches return).
func moduleWithOrphanBlock() (*ir.Module, *ir.Function, *ir.Block) {
	mod := &ir.Module{}
	fn := &ir.Function{Name: "测试", ReturnType: cntype.IntType}
	entry := fn.NewBlock("entry")
	entry.Append(&ir.Instruction{Op: ir.OpRet, Args: []ir.Operand{ir.ImmInt(1, cntype.IntType)}})

	orphan := fn.NewBlock("orphan")
	orphan.Append(&ir.Instruction{Op: ir.OpRet, Args: []ir.Operand{ir.ImmInt(2, cntype.IntType)}})

	mod.AddFunc(fn)
	return mod, fn, orphan
}

func TestDeadCodeEliminationRemovesOrphanBlock(t *testing.T) {
	mod, fn, orphan := moduleWithOrphanBlock()
	before := len(fn.Blocks())

	changed := (&passes.DeadCodeElimination{}).Run(mod)
	assert.True(t, changed)

	after := fn.Blocks()
	assert.Less(t, len(after), before)
	assert.NotContains(t, after, orphan)
}

func TestDeadCodeEliminationNeverRemovesReachableBlocks(t *testing.T) {
	mod := build(t, `
函数 测试(整数 x): 整数 {
	如果 (x > 0) {
		返回 1;
	} 否则 {
		返回 0;
	}
}
`)
	fn := findFunc(mod, "测试")
	before := len(fn.Blocks())

	(&passes.DeadCodeElimination{}).Run(mod)

	// Only if_merge goes: both branches return, so it has no predecessor.
	// entry, if_then and if_else are reachable and stay.
	assert.Equal(t, before-1, len(fn.Blocks()))
}

func TestDeadCodeEliminationFixesUpNeighborEdges(t *testing.T) {
	mod, fn, _ := moduleWithOrphanBlock()
	(&passes.DeadCodeElimination{}).Run(mod)

	remaining := fn.Blocks()
	for _, b := range remaining {
		for _, p := range b.Preds {
			assert.Contains(t, remaining, p)
		}
		for _, s := range b.Succs {
			assert.Contains(t, remaining, s)
		}
	}
}

func TestDeadCodeEliminationIsIdempotent(t *testing.T) {
	mod, _, _ := moduleWithOrphanBlock()
	dce := &passes.DeadCodeElimination{}
	first := dce.Run(mod)
	second := dce.Run(mod)
	assert.True(t, first)
	assert.False(t, second)
}

func TestDefaultPipelineFoldsThenPrunesDeadBlocks(t *testing.T) {
	mod := build(t, `
函数 测试(): 整数 {
	返回 10 + 20 * 3;
}
`)
	fn := findFunc(mod, "测试")
	changed := passes.NewDefaultPipeline().Run(mod)
	assert.True(t, changed)

	mov := onlyInstruction(t, fn, ir.OpMov)
	assert.Equal(t, int64(70), mov.Args[0].Int)
}
