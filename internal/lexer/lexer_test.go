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

package lexer

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	var diags diag.Bag
	lx := New([]byte(src), "test.cn", &diags)
	return slices.Collect(lx.AllTokens())
}

func TestKeywordsLexToDedicatedKinds(t *testing.T) {
	for _, kw := range token.Keywords {
		toks := tokenize(t, kw.Text)
		if assert.Len(t, toks, 1, "keyword %q", kw.Text) {
			assert.Equal(t, kw.Kind, toks[0].Kind, "keyword %q", kw.Text)
			assert.Equal(t, kw.Text, toks[0].Text)
		}
	}
}

func TestNonKeywordIdentifierRoundTrips(t *testing.T) {
	toks := tokenize(t, "变量名字")
	if assert.Len(t, toks, 1) {
		assert.Equal(t, token.Identifier, toks[0].Kind)
		assert.Equal(t, "变量名字", toks[0].Text)
	}
}

func TestIntegerAndHexLiterals(t *testing.T) {
	toks := tokenize(t, "123 0xFF 0X1a")
	assert.Len(t, toks, 3)
	for _, tok := range toks {
		assert.Equal(t, token.IntLiteral, tok.Kind)
	}
	assert.Equal(t, "0xFF", toks[1].Text)
}

func TestFloatLiteral(t *testing.T) {
	toks := tokenize(t, "3.14")
	if assert.Len(t, toks, 1) {
		assert.Equal(t, token.FloatLiteral, toks[0].Kind)
	}
}

func TestStringLiteralWithEscapes(t *testing.T) {
	toks := tokenize(t, `"你好\n\t\"世界\""`)
	if assert.Len(t, toks, 1) {
		assert.Equal(t, token.StringLiteral, toks[0].Kind)
	}
}

func TestUnterminatedStringReportsDiagnostic(t *testing.T) {
	var diags diag.Bag
	lx := New([]byte(`"unterminated`), "test.cn", &diags)
	_ = slices.Collect(lx.AllTokens())
	assert.True(t, diags.HasErrors())
	assert.Equal(t, diag.LEX_UNTERMINATED_STRING, diags.All()[0].Code)
}

func TestInvalidCharacterReportsDiagnostic(t *testing.T) {
	var diags diag.Bag
	lx := New([]byte("变量 x = @;"), "test.cn", &diags)
	_ = slices.Collect(lx.AllTokens())
	assert.True(t, diags.HasErrors())
	assert.Equal(t, diag.LEX_INVALID_CHAR, diags.All()[0].Code)
}

func TestOperatorsAndPunctuation(t *testing.T) {
	toks := tokenize(t, "== != <= >= && || -> << >> ( ) { } [ ] , ; : .")
	wantKinds := []token.Kind{
		token.Eq, token.Ne, token.Le, token.Ge, token.AndAnd, token.OrOr, token.Arrow,
		token.Shl, token.Shr, token.LParen, token.RParen, token.LBrace, token.RBrace,
		token.LBracket, token.RBracket, token.Comma, token.Semicolon, token.Colon, token.Dot,
	}
	if assert.Len(t, toks, len(wantKinds)) {
		for i, want := range wantKinds {
			assert.Equal(t, want, toks[i].Kind, "token %d", i)
		}
	}
}

func TestCursorTracksLinesAcrossSource(t *testing.T) {
	toks := tokenize(t, "整数 x;\n整数 y;")
	if assert.Len(t, toks, 6) {
		assert.Equal(t, 1, toks[0].Location.Line)
		assert.Equal(t, 2, toks[3].Location.Line)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := tokenize(t, "整数 x; // 注释\n/* 块注释 */ 整数 y;")
	assert.Len(t, toks, 6)
}
