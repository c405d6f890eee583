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

package sema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/parser"
	"github.com/cnlang/compiler/internal/sema"
)

func analyze(t *testing.T, src string, opts sema.Options) (*cnast.Program, *diag.Bag) {
	t.Helper()
	var diags diag.Bag
	b := cnast.NewBuilder()
	p := parser.New([]byte(src), "test.cn", &diags, b)
	prog := p.ParseProgram()
	require.False(t, diags.HasErrors(), "unexpected parse errors: %+v", diags.All())

	sema.New(prog, "test.cn", &diags, opts).Run()
	return prog, &diags
}

func hasCode(diags *diag.Bag, code diag.Code) bool {
	for _, d := range diags.All() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestDuplicateGlobalFunctionIsRejected(t *testing.T) {
	_, diags := analyze(t, `
函数 加(整数 a): 整数 { 返回 a; }
函数 加(整数 b): 整数 { 返回 b; }
`, sema.Options{})
	assert.True(t, hasCode(diags, diag.SEM_DUPLICATE_SYMBOL))
}

func TestBlockShadowsOuterVariableWithoutError(t *testing.T) {
	_, diags := analyze(t, `
函数 测试(): 整数 {
	变量 x = 1;
	{
		变量 x = 2;
	}
	返回 x;
}
`, sema.Options{})
	assert.False(t, diags.HasErrors())
}

func TestUndefinedIdentifierIsReported(t *testing.T) {
	_, diags := analyze(t, `
函数 测试(): 整数 {
	返回 不存在的变量;
}
`, sema.Options{})
	assert.True(t, hasCode(diags, diag.SEM_UNDEFINED_IDENTIFIER))
}

func TestIdentifierResolvesToParameterSymbol(t *testing.T) {
	prog, diags := analyze(t, `
函数 加一(整数 x): 整数 {
	返回 x + 1;
}
`, sema.Options{})
	require.False(t, diags.HasErrors())
	ret := prog.Functions[0].Body.Stmts[0].(*cnast.ReturnStmt)
	bin := ret.Value.(*cnast.BinaryExpr)
	ident := bin.Left.(*cnast.IdentExpr)
	assert.NotNil(t, ident.Symbol)
}

func TestArithmeticTypeMismatchIsReported(t *testing.T) {
	_, diags := analyze(t, `
函数 测试() {
	变量 a = 1;
	变量 b = "x";
	变量 c = a + b;
}
`, sema.Options{})
	assert.True(t, hasCode(diags, diag.SEM_TYPE_MISMATCH))
}

func TestComparisonYieldsBool(t *testing.T) {
	prog, diags := analyze(t, `
函数 测试(): 布尔 {
	返回 1 == 2;
}
`, sema.Options{})
	require.False(t, diags.HasErrors())
	ret := prog.Functions[0].Body.Stmts[0].(*cnast.ReturnStmt)
	assert.Equal(t, "布尔", ret.Value.Type().String())
}

func TestMissingReturnOnNonVoidFunctionIsReported(t *testing.T) {
	_, diags := analyze(t, `
函数 测试(): 整数 {
	变量 x = 1;
}
`, sema.Options{})
	assert.True(t, hasCode(diags, diag.SEM_MISSING_RETURN))
}

func TestIfElseBothReturningSatisfiesMissingReturnCheck(t *testing.T) {
	_, diags := analyze(t, `
函数 测试(整数 x): 整数 {
	如果 (x > 0) {
		返回 1;
	} 否则 {
		返回 0;
	}
}
`, sema.Options{})
	assert.False(t, hasCode(diags, diag.SEM_MISSING_RETURN))
}

func TestVoidFunctionNeverRequiresReturn(t *testing.T) {
	_, diags := analyze(t, `
函数 测试() {
	变量 x = 1;
}
`, sema.Options{})
	assert.False(t, hasCode(diags, diag.SEM_MISSING_RETURN))
}

func TestCallArityMismatchIsReported(t *testing.T) {
	_, diags := analyze(t, `
函数 加(整数 a, 整数 b): 整数 { 返回 a + b; }
函数 测试(): 整数 {
	返回 加(1);
}
`, sema.Options{})
	assert.True(t, hasCode(diags, diag.SEM_TYPE_MISMATCH))
}

func TestMemberAccessOnUnknownFieldIsReported(t *testing.T) {
	_, diags := analyze(t, `
结构体 点 {
	整数 x;
	整数 y;
}
函数 测试(): 整数 {
	变量 p = 点{1, 2};
	返回 p.z;
}
`, sema.Options{})
	assert.True(t, hasCode(diags, diag.SEM_TYPE_MISMATCH))
}

// Two modules may each declare a handler named 中断处理_5 without tripping
// the ordinary same-scope duplicate-symbol check (each module has its own
// function scope) — only the dedicated vector-collision check catches this.
func TestInterruptHandlerVectorCollisionAcrossModulesIsReported(t *testing.T) {
	_, diags := analyze(t, `
模块 甲 {
	函数 中断处理_5() {
		返回;
	}
}
模块 乙 {
	函数 中断处理_5() {
		返回;
	}
}
`, sema.Options{})
	assert.True(t, hasCode(diags, diag.SEM_DUPLICATE_SYMBOL))
}

func TestFreestandingModeRejectsHostedCall(t *testing.T) {
	_, diags := analyze(t, `
函数 printf(字符串 s) {
	返回;
}
函数 测试() {
	printf("hi");
}
`, sema.Options{Freestanding: true})
	assert.True(t, hasCode(diags, diag.UNKNOWN))
}

func TestFreestandingModeOffAllowsHostedCallName(t *testing.T) {
	_, diags := analyze(t, `
函数 printf(字符串 s) {
	返回;
}
函数 测试() {
	printf("hi");
}
`, sema.Options{Freestanding: false})
	assert.False(t, diags.HasErrors())
}
