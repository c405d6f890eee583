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

package preprocessor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnlang/compiler/internal/diag"
)

func run(t *testing.T, src string) (string, *diag.Bag, bool) {
	t.Helper()
	var diags diag.Bag
	pp := New([]byte(src), "test.cn", &diags)
	out, ok := pp.Process()
	return string(out), &diags, ok
}

func TestObjectMacroExpansion(t *testing.T) {
	out, diags, ok := run(t, "#define N 10\n整数 x = N;")
	require.True(t, ok)
	assert.False(t, diags.HasErrors())
	assert.Equal(t, "\n整数 x = 10;", out)
}

func TestChineseSpelledDefine(t *testing.T) {
	out, _, ok := run(t, "#定义 N 10\n整数 x = N;")
	require.True(t, ok)
	assert.Equal(t, "\n整数 x = 10;", out)
}

func TestFunctionMacroExpansion(t *testing.T) {
	out, diags, ok := run(t, "#define MAX(a, b) ((a) > (b) ? (a) : (b))\n整数 z = MAX(1, 2);")
	require.True(t, ok)
	assert.False(t, diags.HasErrors())
	assert.Equal(t, "\n整数 z = ((1) > (2) ? (1) : (2));", out)
}

func TestFunctionMacroArgumentCountMismatch(t *testing.T) {
	_, diags, ok := run(t, "#define MAX(a, b) ((a) > (b) ? (a) : (b))\n整数 z = MAX(1);")
	assert.False(t, ok)
	assert.True(t, diags.HasErrors())
}

func TestStringificationOperator(t *testing.T) {
	out, _, ok := run(t, "#define STR(x) #x\n字符串 s = STR(hello);")
	require.True(t, ok)
	assert.Equal(t, `
字符串 s = "hello";`, out)
}

func TestNestedParenthesesInArguments(t *testing.T) {
	out, _, ok := run(t, "#define DOUBLE(x) ((x) + (x))\n整数 y = DOUBLE((1 + 2));")
	require.True(t, ok)
	assert.Equal(t, "\n整数 y = (((1 + 2)) + ((1 + 2)));", out)
}

func TestIfdefTakesTrueBranch(t *testing.T) {
	src := "#define DEBUG\n#ifdef DEBUG\n整数 a = 1;\n#else\n整数 a = 2;\n#endif\n"
	out, _, ok := run(t, src)
	require.True(t, ok)
	assert.True(t, strings.Contains(out, "整数 a = 1;"))
	assert.False(t, strings.Contains(out, "整数 a = 2;"))
}

func TestIfndefTakesElseBranchWhenDefined(t *testing.T) {
	src := "#define DEBUG\n#ifndef DEBUG\n整数 a = 1;\n#否则\n整数 a = 2;\n#结束如果\n"
	out, _, ok := run(t, src)
	require.True(t, ok)
	assert.True(t, strings.Contains(out, "整数 a = 2;"))
	assert.False(t, strings.Contains(out, "整数 a = 1;"))
}

func TestUndefRemovesMacro(t *testing.T) {
	out, _, ok := run(t, "#define N 1\n#undef N\n#ifdef N\n整数 a = 1;\n#endif\n")
	require.True(t, ok)
	assert.False(t, strings.Contains(out, "整数 a = 1;"))
}

func TestElseWithoutIfdefIsError(t *testing.T) {
	_, diags, ok := run(t, "#else\n")
	assert.False(t, ok)
	assert.True(t, diags.HasErrors())
}

func TestUnclosedConditionalAtEOFIsError(t *testing.T) {
	_, diags, ok := run(t, "#ifdef N\n整数 a = 1;\n")
	assert.False(t, ok)
	assert.True(t, diags.HasErrors())
}

func TestLinePreservationAcrossCommentsAndDirectives(t *testing.T) {
	src := "整数 a = 1; // 注释\n/* 块\n注释 */ 整数 b = 2;\n#define N 1\n整数 c = N;\n"
	out, _, ok := run(t, src)
	require.True(t, ok)
	assert.Equal(t, strings.Count(src, "\n"), strings.Count(out, "\n"))
}

func TestPredefinedMacroViaDefineMacro(t *testing.T) {
	var diags diag.Bag
	pp := New([]byte("整数 a = TARGET;"), "test.cn", &diags)
	pp.DefineMacro("TARGET", "1")
	out, ok := pp.Process()
	require.True(t, ok)
	assert.Equal(t, "整数 a = 1;", string(out))
}

func TestNoDirectivesPassesThroughVerbatim(t *testing.T) {
	src := "整数 a = 1;\n整数 b = 2;\n"
	out, _, ok := run(t, src)
	require.True(t, ok)
	assert.Equal(t, src, out)
}
