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

package token

// Kind identifies what a Token is.
type Kind int

const (
	Invalid Kind = iota
	EOF

	Identifier
	IntLiteral
	FloatLiteral
	StringLiteral
	BoolLiteral

	// Keyword* constants are generated in order of the keyword table below
	// so each keyword has its own dedicated Kind, per spec.md §3 ("Kinds
	// include keyword variants (one per Chinese keyword)").
	KeywordIf
	KeywordElse
	KeywordWhile
	KeywordFor
	KeywordReturn
	KeywordBreak
	KeywordContinue
	KeywordSwitch
	KeywordCase
	KeywordDefault

	KeywordInt
	KeywordFloat
	KeywordString
	KeywordBool
	KeywordVoid
	KeywordStruct
	KeywordEnum

	KeywordFunc
	KeywordVar
	KeywordModule
	KeywordImport
	KeywordPublic
	KeywordPrivate

	KeywordTrue
	KeywordFalse
	KeywordNull

	KeywordNamespace
	KeywordInterface
	KeywordClass
	KeywordTemplate
	KeywordConst
	KeywordStatic
	KeywordProtected
	KeywordVirtual
	KeywordOverride
	KeywordAbstract

	// Punctuation and operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	Dot
	Arrow // ->

	Assign // =
	Plus
	Minus
	Star
	Slash
	Percent

	Amp    // &
	Pipe   // |
	Caret  // ^
	Tilde  // ~
	Shl    // <<
	Shr    // >>
	AndAnd // &&
	OrOr   // ||
	Not    // !

	Eq // ==
	Ne // !=
	Lt
	Le
	Gt
	Ge
)

// Category classifies a keyword for diagnostics and tooling.
type Category int

const (
	ControlFlow Category = iota
	Type
	Declaration
	Constant
	Reserved
)

// KeywordEntry is one row of the keyword table.
type KeywordEntry struct {
	Text     string
	Kind     Kind
	Category Category
}

// Keywords is the closed set of ~40 Chinese keywords recognized by the
// lexer, ported from the original implementation's keyword table
// (src/frontend/lexer/keywords.c) and ordered the same way: control-flow,
// type, declaration, constant, then reserved-but-unimplemented.
var Keywords = []KeywordEntry{
	{"如果", KeywordIf, ControlFlow},
	{"否则", KeywordElse, ControlFlow},
	{"当", KeywordWhile, ControlFlow},
	{"循环", KeywordFor, ControlFlow},
	{"返回", KeywordReturn, ControlFlow},
	{"中断", KeywordBreak, ControlFlow},
	{"继续", KeywordContinue, ControlFlow},
	{"选择", KeywordSwitch, ControlFlow},
	{"情况", KeywordCase, ControlFlow},
	{"默认", KeywordDefault, ControlFlow},

	{"整数", KeywordInt, Type},
	{"小数", KeywordFloat, Type},
	{"字符串", KeywordString, Type},
	{"布尔", KeywordBool, Type},
	{"空类型", KeywordVoid, Type},
	{"结构体", KeywordStruct, Type},
	{"枚举", KeywordEnum, Type},

	{"函数", KeywordFunc, Declaration},
	{"变量", KeywordVar, Declaration},
	{"模块", KeywordModule, Declaration},
	{"导入", KeywordImport, Declaration},
	{"公开", KeywordPublic, Declaration},
	{"私有", KeywordPrivate, Declaration},

	{"真", KeywordTrue, Constant},
	{"假", KeywordFalse, Constant},
	{"无", KeywordNull, Constant},

	{"命名空间", KeywordNamespace, Reserved},
	{"接口", KeywordInterface, Reserved},
	{"类", KeywordClass, Reserved},
	{"模板", KeywordTemplate, Reserved},
	{"常量", KeywordConst, Reserved},
	{"静态", KeywordStatic, Reserved},
	{"保护", KeywordProtected, Reserved},
	{"虚拟", KeywordVirtual, Reserved},
	{"重写", KeywordOverride, Reserved},
	{"抽象", KeywordAbstract, Reserved},
}

// byText is indexed for LookupKeyword; built once from Keywords.
var byText = func() map[string]KeywordEntry {
	m := make(map[string]KeywordEntry, len(Keywords))
	for _, k := range Keywords {
		m[k.Text] = k
	}
	return m
}()

// LookupKeyword reports the Kind and category for text if it names one of
// the closed set of keywords. text is looked up by exact byte match in a
// map built from the table; on a miss the caller should treat text as an
// identifier.
func LookupKeyword(text string) (Kind, Category, bool) {
	entry, ok := byText[text]
	if !ok {
		return Invalid, 0, false
	}
	return entry.Kind, entry.Category, true
}

// Token is one lexical unit: a kind tag, its source byte range, and its
// 1-based line/column.
type Token struct {
	Kind     Kind
	Text     string
	Location Cursor
}

// EOFToken is returned once the lexer has consumed the entire input.
var EOFToken = Token{Kind: EOF}
