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

package cbackend_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnlang/compiler/internal/cbackend"
	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/ir"
	"github.com/cnlang/compiler/internal/parser"
	"github.com/cnlang/compiler/internal/sema"
	"github.com/cnlang/compiler/internal/target"
)

func emit(t *testing.T, src string) string {
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
	mod := ir.NewGenerator(tr, false).Generate(prog)

	var buf bytes.Buffer
	require.NoError(t, cbackend.Emit(&buf, mod, prog))
	return buf.String()
}

func TestHelloWorldEmitsPrintStringAndReturnsZero(t *testing.T) {
	out := emit(t, `
函数 主程序(): 整数 {
	打印("你好，世界！");
	返回 0;
}
`)
	assert.Contains(t, out, `cn_rt_print_string("你好，世界！")`)
	assert.Contains(t, out, "int main(void) {")
	assert.Contains(t, out, "cn_rt_init();")
	assert.Contains(t, out, "cn_func_主程序();")
}

func TestSixPartStructureAppearsInOrder(t *testing.T) {
	out := emit(t, `
结构体 点 {
	整数 x;
	整数 y;
}
函数 主程序(): 整数 {
	返回 0;
}
`)
	includesIdx := indexOf(t, out, "#include <stdio.h>")
	structIdx := indexOf(t, out, "struct cn_struct_点")
	forwardIdx := indexOf(t, out, "cn_func_主程序(void);")
	mainIdx := indexOf(t, out, "int main(void) {")

	assert.Less(t, includesIdx, structIdx)
	assert.Less(t, structIdx, forwardIdx)
	assert.Less(t, forwardIdx, mainIdx)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	i := bytes.Index([]byte(haystack), []byte(needle))
	require.GreaterOrEqual(t, i, 0, "expected to find %q", needle)
	return i
}

func TestStructMemberAccessLowersToFieldAddress(t *testing.T) {
	out := emit(t, `
结构体 点 {
	整数 x;
	整数 y;
}
函数 测试(): 整数 {
	变量 p = 点{1, 2};
	返回 p.x;
}
`)
	assert.Contains(t, out, "->x")
}

func TestSwitchCasesHaveNoFallthroughGoto(t *testing.T) {
	out := emit(t, `
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
	assert.Contains(t, out, "switch_check_")
	assert.Contains(t, out, "case_body_")
	assert.Contains(t, out, "switch_merge_")
}

func TestArrayLiteralUsesSizeofElementType(t *testing.T) {
	out := emit(t, `
函数 测试(): 整数 {
	变量 xs = [1, 2, 3];
	返回 0;
}
`)
	assert.Contains(t, out, "cn_rt_array_alloc(sizeof(int64_t), 3)")
}

func TestStringConcatenationCallsRuntimeHelper(t *testing.T) {
	out := emit(t, `
函数 测试(): 字符串 {
	变量 a = "你好";
	变量 b = "世界";
	返回 a + b;
}
`)
	assert.Contains(t, out, "cn_rt_string_concat(")
}

func TestGlobalVariableGetsZeroOrLiteralInitializer(t *testing.T) {
	out := emit(t, `
变量 计数器 = 0;
函数 主程序() {
	返回;
}
`)
	assert.Contains(t, out, "int64_t cn_var_计数器 = 0;")
}
