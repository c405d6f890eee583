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

package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/ir"
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

func countOp(fn *ir.Function, op ir.Opcode) int {
	n := 0
	for _, b := range fn.Blocks() {
		for _, instr := range b.Instructions() {
			if instr.Op == op {
				n++
			}
		}
	}
	return n
}

func TestSimpleFunctionHasOneBlockAndRet(t *testing.T) {
	mod := build(t, `
函数 加(整数 a, 整数 b): 整数 {
	返回 a + b;
}
`)
	fn := findFunc(mod, "加")
	require.NotNil(t, fn)
	require.Len(t, fn.Blocks(), 1)
	assert.Equal(t, 1, countOp(fn, ir.OpAdd))
	assert.Equal(t, 1, countOp(fn, ir.OpRet))
}

func TestIfElseProducesThenElseMergeBlocks(t *testing.T) {
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
	require.NotNil(t, fn)
	blocks := fn.Blocks()
	// entry, if_merge, if_then, if_else
	require.Len(t, blocks, 4)
	assert.Equal(t, "entry_0", blocks[0].Name)
	entry := blocks[0]
	require.Len(t, entry.Succs, 2)
	// Both branches return; the unreachable if_merge still gets the
	// implicit ret every block needs, for three in all.
	assert.Equal(t, 3, countOp(fn, ir.OpRet))
}

func TestElseIfChainSharesOneMergeBlock(t *testing.T) {
	mod := build(t, `
函数 测试(整数 x): 整数 {
	如果 (x == 1) {
		返回 1;
	} 否则 如果 (x == 2) {
		返回 2;
	} 否则 {
		返回 0;
	}
}
`)
	fn := findFunc(mod, "测试")
	require.NotNil(t, fn)
	mergeCount := 0
	for _, b := range fn.Blocks() {
		if b.Name == "if_merge_0" {
			mergeCount++
		}
	}
	assert.Equal(t, 1, mergeCount)
}

func TestWhileLoopWiresCondBodyExit(t *testing.T) {
	mod := build(t, `
函数 测试(整数 n) {
	当 (n > 0) {
		n = n - 1;
	}
}
`)
	fn := findFunc(mod, "测试")
	require.NotNil(t, fn)
	var cond, body, exit *ir.Block
	for _, b := range fn.Blocks() {
		switch b.Name {
		case "while_cond_0":
			cond = b
		case "while_body_1":
			body = b
		case "while_exit_2":
			exit = b
		}
	}
	require.NotNil(t, cond)
	require.NotNil(t, body)
	require.NotNil(t, exit)
	assert.Contains(t, cond.Succs, body)
	assert.Contains(t, cond.Succs, exit)
	assert.Contains(t, body.Succs, cond)
}

func TestBreakInsideForJumpsToExitBlock(t *testing.T) {
	mod := build(t, `
函数 测试() {
	循环 (变量 i = 0; i < 10; i = i + 1) {
		中断;
	}
}
`)
	fn := findFunc(mod, "测试")
	require.NotNil(t, fn)
	var body, exit *ir.Block
	for _, b := range fn.Blocks() {
		switch b.Name {
		case "for_body_1":
			body = b
		case "for_exit_3":
			exit = b
		}
	}
	require.NotNil(t, body)
	require.NotNil(t, exit)
	assert.Contains(t, body.Succs, exit)
}

func TestLogicalAndLowersToDiamond(t *testing.T) {
	mod := build(t, `
函数 测试(整数 a, 整数 b): 布尔 {
	返回 a > 0 && b > 0;
}
`)
	fn := findFunc(mod, "测试")
	require.NotNil(t, fn)
	names := make(map[string]bool)
	for _, b := range fn.Blocks() {
		names[b.Name] = true
	}
	assert.True(t, names["logic_rhs_0"])
	assert.True(t, names["logic_merge_1"])
}

func TestSwitchCasesEachTerminateIntoMergeWithNoFallthrough(t *testing.T) {
	mod := build(t, `
函数 测试(整数 x): 整数 {
	选择 (x) {
	情况 1:
		返回 1;
	情况 2:
		返回 2;
	默认:
		返回 0;
	}
}
`)
	fn := findFunc(mod, "测试")
	require.NotNil(t, fn)
	caseBlocks := 0
	for _, b := range fn.Blocks() {
		if len(b.Name) >= 9 && b.Name[:9] == "case_body" {
			caseBlocks++
			last := b.Last
			require.NotNil(t, last)
			assert.Equal(t, ir.OpRet, last.Op, "case body must terminate, no implicit fall-through")
		}
	}
	assert.Equal(t, 2, caseBlocks)
}

func TestStructLiteralLowersToAllocaAndFieldStores(t *testing.T) {
	mod := build(t, `
结构体 点 {
	整数 x;
	整数 y;
}
函数 测试(): 整数 {
	变量 p = 点{1, 2};
	返回 p.x;
}
`)
	fn := findFunc(mod, "测试")
	require.NotNil(t, fn)
	assert.GreaterOrEqual(t, countOp(fn, ir.OpGEPField), 2)
	assert.GreaterOrEqual(t, countOp(fn, ir.OpAlloca), 2) // the var slot + the struct-literal slot
}

func TestArrayLiteralCallsArrayAllocRuntime(t *testing.T) {
	mod := build(t, `
函数 测试(): 整数 {
	变量 xs = [1, 2, 3];
	返回 0;
}
`)
	fn := findFunc(mod, "测试")
	require.NotNil(t, fn)
	found := false
	for _, b := range fn.Blocks() {
		for _, instr := range b.Instructions() {
			if instr.Op == ir.OpCall && instr.Callee == "cn_rt_array_alloc" {
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestVoidFunctionGetsImplicitReturn(t *testing.T) {
	mod := build(t, `
函数 测试() {
	变量 x = 1;
}
`)
	fn := findFunc(mod, "测试")
	require.NotNil(t, fn)
	assert.Equal(t, 1, countOp(fn, ir.OpRet))
}

func TestCallExpressionEmitsCallInstruction(t *testing.T) {
	mod := build(t, `
函数 加一(整数 x): 整数 {
	返回 x + 1;
}
函数 测试(): 整数 {
	返回 加一(41);
}
`)
	fn := findFunc(mod, "测试")
	require.NotNil(t, fn)
	found := false
	for _, b := range fn.Blocks() {
		for _, instr := range b.Instructions() {
			if instr.Op == ir.OpCall && instr.Callee == "加一" {
				found = true
				require.NotNil(t, instr.Dest)
			}
		}
	}
	assert.True(t, found)
}
