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

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/diag"
)

func parse(t *testing.T, src string) (*cnast.Program, *diag.Bag) {
	t.Helper()
	var diags diag.Bag
	b := cnast.NewBuilder()
	p := New([]byte(src), "test.cn", &diags, b)
	return p.ParseProgram(), &diags
}

func TestParsesSimpleFunction(t *testing.T) {
	prog, diags := parse(t, `
函数 加(整数 a, 整数 b): 整数 {
	返回 a + b;
}
`)
	require.False(t, diags.HasErrors())
	require.Len(t, prog.Functions, 1)
	fn := prog.Functions[0]
	assert.Equal(t, "加", fn.Name)
	assert.Len(t, fn.Params, 2)
	require.Len(t, fn.Body.Stmts, 1)
	_, ok := fn.Body.Stmts[0].(*cnast.ReturnStmt)
	assert.True(t, ok)
}

func TestParsesArrayAndPointerParameterForms(t *testing.T) {
	prog, diags := parse(t, `
函数 和(整数 xs[], 整数 n): 整数 {
	返回 0;
}
`)
	require.False(t, diags.HasErrors())
	fn := prog.Functions[0]
	require.Len(t, fn.Params, 2)
	assert.Equal(t, cntype.Pointer, fn.Params[0].Type.Kind)
	assert.Equal(t, cntype.Int, fn.Params[0].Type.Elem.Kind)
}

func TestExpressionPrecedenceGroupsMultiplicationFirst(t *testing.T) {
	prog, diags := parse(t, `
函数 测试() {
	变量 x = 1 + 2 * 3;
}
`)
	require.False(t, diags.HasErrors())
	body := prog.Functions[0].Body.Stmts[0].(*cnast.VarDeclStmt)
	bin := body.Init.(*cnast.BinaryExpr)
	assert.Equal(t, cnast.OpAdd, bin.Op)
	rhs := bin.Right.(*cnast.BinaryExpr)
	assert.Equal(t, cnast.OpMul, rhs.Op)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	prog, diags := parse(t, `
函数 测试() {
	变量 a = 1;
	变量 b = 2;
	a = b = 3;
}
`)
	require.False(t, diags.HasErrors())
	stmt := prog.Functions[0].Body.Stmts[2].(*cnast.ExprStmt)
	assign := stmt.X.(*cnast.AssignExpr)
	_, ok := assign.Value.(*cnast.AssignExpr)
	assert.True(t, ok)
}

func TestIfElseIfChainNestsAsElseIf(t *testing.T) {
	prog, diags := parse(t, `
函数 测试(整数 x) {
	如果 (x == 1) {
	} 否则 如果 (x == 2) {
	} 否则 {
	}
}
`)
	require.False(t, diags.HasErrors())
	ifStmt := prog.Functions[0].Body.Stmts[0].(*cnast.IfStmt)
	elseIf, ok := ifStmt.Else.(*cnast.IfStmt)
	require.True(t, ok)
	_, ok = elseIf.Else.(*cnast.BlockStmt)
	assert.True(t, ok)
}

func TestForLoopAllPartsOptional(t *testing.T) {
	prog, diags := parse(t, `
函数 测试() {
	循环 (;;) {
		中断;
	}
}
`)
	require.False(t, diags.HasErrors())
	forStmt := prog.Functions[0].Body.Stmts[0].(*cnast.ForStmt)
	assert.Nil(t, forStmt.Init)
	assert.Nil(t, forStmt.Cond)
	assert.Nil(t, forStmt.Update)
}

func TestSwitchWithDefault(t *testing.T) {
	prog, diags := parse(t, `
函数 测试(整数 x) {
	选择 (x) {
	情况 1:
		中断;
	默认:
		中断;
	}
}
`)
	require.False(t, diags.HasErrors())
	sw := prog.Functions[0].Body.Stmts[0].(*cnast.SwitchStmt)
	require.Len(t, sw.Cases, 2)
	assert.Nil(t, sw.Cases[1].Value)
}

func TestStructDeclWithConstField(t *testing.T) {
	prog, diags := parse(t, `
结构体 点 {
	常量 整数 x;
	整数 y;
}
`)
	require.False(t, diags.HasErrors())
	require.Len(t, prog.Structs, 1)
	st := prog.Structs[0]
	require.Len(t, st.Fields, 2)
	assert.True(t, st.Fields[0].IsConst)
	assert.False(t, st.Fields[1].IsConst)
}

func TestStructLiteralPositionalAndNamed(t *testing.T) {
	prog, diags := parse(t, `
函数 测试() {
	变量 a = 点{1, 2};
	变量 b = 点{.x = 1, .y = 2};
}
`)
	require.False(t, diags.HasErrors())
	a := prog.Functions[0].Body.Stmts[0].(*cnast.VarDeclStmt).Init.(*cnast.StructLit)
	assert.Equal(t, "点", a.StructName)
	assert.Len(t, a.Fields, 2)
	assert.Equal(t, "", a.Fields[0].Name)

	b := prog.Functions[0].Body.Stmts[1].(*cnast.VarDeclStmt).Init.(*cnast.StructLit)
	assert.Equal(t, "x", b.Fields[0].Name)
}

func TestImportDeclParsesPath(t *testing.T) {
	prog, diags := parse(t, `导入 "运行时/核心";`)
	require.False(t, diags.HasErrors())
	require.Len(t, prog.Imports, 1)
	assert.Equal(t, "运行时/核心", prog.Imports[0].Path)
}

func TestEnumWithExplicitValues(t *testing.T) {
	prog, diags := parse(t, `
枚举 颜色 {
	红 = 1,
	绿 = 2,
	蓝
}
`)
	require.False(t, diags.HasErrors())
	require.Len(t, prog.Enums, 1)
	members := prog.Enums[0].Members
	require.Len(t, members, 3)
	assert.True(t, members[0].HasValue)
	assert.Equal(t, int64(1), members[0].Value)
	assert.False(t, members[2].HasValue)
}

func TestMissingTokenRecordsExpectedTokenDiagnosticAndRecovers(t *testing.T) {
	prog, diags := parse(t, `
函数 坏( {
}
函数 好() {
	返回;
}
`)
	assert.True(t, diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.PARSE_EXPECTED_TOKEN {
			found = true
		}
	}
	assert.True(t, found)
	// Parser should still recover and continue parsing subsequent declarations.
	names := make([]string, 0, len(prog.Functions))
	for _, fn := range prog.Functions {
		names = append(names, fn.Name)
	}
	assert.Contains(t, names, "好")
}

func TestInvalidFunctionNameDiagnostic(t *testing.T) {
	_, diags := parse(t, `函数 如果() {}`)
	assert.True(t, diags.HasErrors())
	assert.Equal(t, diag.PARSE_INVALID_FUNCTION_NAME, diags.All()[0].Code)
}

func TestMemoryIntrinsicCallParses(t *testing.T) {
	prog, diags := parse(t, `
函数 测试() {
	变量 v = read_memory(1024);
}
`)
	require.False(t, diags.HasErrors())
	init := prog.Functions[0].Body.Stmts[0].(*cnast.VarDeclStmt).Init
	intr, ok := init.(*cnast.IntrinsicExpr)
	require.True(t, ok)
	assert.Equal(t, cnast.IntrinsicReadMemory, intr.Kind)
	assert.Len(t, intr.Args, 1)
}

func TestMemberAndArrowAccess(t *testing.T) {
	prog, diags := parse(t, `
函数 测试(整数 p) {
	变量 a = p.x;
	变量 b = p->y;
}
`)
	require.False(t, diags.HasErrors())
	a := prog.Functions[0].Body.Stmts[0].(*cnast.VarDeclStmt).Init.(*cnast.MemberExpr)
	assert.False(t, a.Arrow)
	b := prog.Functions[0].Body.Stmts[1].(*cnast.VarDeclStmt).Init.(*cnast.MemberExpr)
	assert.True(t, b.Arrow)
}

func TestGlobalTypedVariableDeclaration(t *testing.T) {
	prog, diags := parse(t, `整数 计数器 = 0;`)
	require.False(t, diags.HasErrors())
	require.Len(t, prog.Globals, 1)
	assert.Equal(t, "计数器", prog.Globals[0].Name)
}

func TestInterruptHandlerVectorIsTagged(t *testing.T) {
	prog, diags := parse(t, `
函数 中断处理_3() {
	返回;
}
`)
	require.False(t, diags.HasErrors())
	fn := prog.Functions[0]
	assert.True(t, fn.IsInterrupt)
	assert.Equal(t, 3, fn.InterruptVector)
}
