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

// Package parser implements a recursive-descent parser over internal/lexer
// that produces a cnast.Program. Expressions use Pratt-style precedence
// climbing, generalized from the teacher's narrow #if-expression grammar
// (language/internal/cc/parser's parseExprPrecedence/exprKeywordsPrecedence
// table) to the CN language's full thirteen-tier expression grammar.
package parser

import (
	"strconv"

	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/lexer"
	"github.com/cnlang/compiler/internal/token"
)

// precedence levels, low to high, per spec.md §4.4.
type precedence int

const (
	precLowest precedence = iota
	precAssign
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binaryPrecedence = map[token.Kind]precedence{
	token.OrOr:    precLogicalOr,
	token.AndAnd:  precLogicalAnd,
	token.Pipe:    precBitOr,
	token.Caret:   precBitXor,
	token.Amp:     precBitAnd,
	token.Eq:      precEquality,
	token.Ne:      precEquality,
	token.Lt:      precRelational,
	token.Le:      precRelational,
	token.Gt:      precRelational,
	token.Ge:      precRelational,
	token.Shl:     precShift,
	token.Shr:     precShift,
	token.Plus:    precAdditive,
	token.Minus:   precAdditive,
	token.Star:    precMultiplicative,
	token.Slash:   precMultiplicative,
	token.Percent: precMultiplicative,
}

var binaryOpFor = map[token.Kind]cnast.BinaryOp{
	token.Pipe:    cnast.OpOr,
	token.Caret:   cnast.OpXor,
	token.Amp:     cnast.OpAnd,
	token.Eq:      cnast.OpEq,
	token.Ne:      cnast.OpNe,
	token.Lt:      cnast.OpLt,
	token.Le:      cnast.OpLe,
	token.Gt:      cnast.OpGt,
	token.Ge:      cnast.OpGe,
	token.Shl:     cnast.OpShl,
	token.Shr:     cnast.OpShr,
	token.Plus:    cnast.OpAdd,
	token.Minus:   cnast.OpSub,
	token.Star:    cnast.OpMul,
	token.Slash:   cnast.OpDiv,
	token.Percent: cnast.OpMod,
}

// Parser is a recursive-descent parser over a token stream produced by
// internal/lexer, reporting diagnostics into a shared diag.Bag.
type Parser struct {
	lx       *lexer.Lexer
	diags    *diag.Bag
	filename string
	b        *cnast.Builder

	cur  token.Token
	peek token.Token
}

// New constructs a Parser over source. b is the AST builder every node is
// allocated through, so callers control the Program's arena lifetime.
func New(source []byte, filename string, diags *diag.Bag, b *cnast.Builder) *Parser {
	p := &Parser{lx: lexer.New(source, filename, diags), diags: diags, filename: filename, b: b}
	p.cur = p.lx.NextToken()
	p.peek = p.lx.NextToken()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lx.NextToken()
}

func (p *Parser) at(kind token.Kind) bool { return p.cur.Kind == kind }

func (p *Parser) expect(kind token.Kind, what string) (token.Token, bool) {
	if p.cur.Kind != kind {
		p.diags.Errorf(diag.PARSE_EXPECTED_TOKEN, p.filename, p.cur.Location.Line, p.cur.Location.Column,
			"期望%s, 但得到 %q", what, p.cur.Text)
		return p.cur, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

// synchronize recovers from a parse error by skipping tokens until a
// statement boundary (`;`, `}`) or a declaration keyword, per spec.md §4.4's
// error-recovery contract.
func (p *Parser) synchronize() {
	for !p.at(token.EOF) {
		if p.cur.Kind == token.Semicolon {
			p.advance()
			return
		}
		if p.cur.Kind == token.RBrace {
			return
		}
		switch p.cur.Kind {
		case token.KeywordFunc, token.KeywordVar, token.KeywordStruct, token.KeywordEnum,
			token.KeywordModule, token.KeywordImport, token.KeywordIf, token.KeywordWhile,
			token.KeywordFor, token.KeywordReturn:
			return
		}
		p.advance()
	}
}

// ParseProgram parses an entire translation unit into a cnast.Program.
func (p *Parser) ParseProgram() *cnast.Program {
	prog := p.b.Program()
	for !p.at(token.EOF) {
		p.parseTopLevel(prog)
	}
	return prog
}

func (p *Parser) parseTopLevel(prog *cnast.Program) {
	isPublic := false
	switch p.cur.Kind {
	case token.KeywordPublic:
		isPublic = true
		p.advance()
	case token.KeywordPrivate:
		p.advance()
	}

	isConst := false
	if p.at(token.KeywordConst) {
		isConst = true
		p.advance()
	}

	switch p.cur.Kind {
	case token.KeywordFunc:
		if fn := p.parseFuncDecl(isPublic); fn != nil {
			prog.Functions = append(prog.Functions, fn)
		}
	case token.KeywordStruct:
		if sd := p.parseStructDecl(); sd != nil {
			prog.Structs = append(prog.Structs, sd)
		}
	case token.KeywordEnum:
		if ed := p.parseEnumDecl(); ed != nil {
			prog.Enums = append(prog.Enums, ed)
		}
	case token.KeywordModule:
		if md := p.parseModuleDecl(isPublic); md != nil {
			prog.Modules = append(prog.Modules, md)
		}
	case token.KeywordImport:
		if id := p.parseImportDecl(); id != nil {
			prog.Imports = append(prog.Imports, id)
		}
	case token.KeywordVar:
		if vd := p.parseVarDeclStmt(isPublic, isConst); vd != nil {
			prog.Globals = append(prog.Globals, vd)
		}
	default:
		if p.isTypeStart() {
			if vd := p.parseTypedVarDeclStmt(isPublic, isConst); vd != nil {
				prog.Globals = append(prog.Globals, vd)
			}
			return
		}
		p.diags.Errorf(diag.PARSE_EXPECTED_TOKEN, p.filename, p.cur.Location.Line, p.cur.Location.Column,
			"期望顶层声明, 但得到 %q", p.cur.Text)
		p.advance()
		p.synchronize()
	}
}

// ---------------------------------------------------------------------------
// Types

func (p *Parser) isTypeStart() bool {
	switch p.cur.Kind {
	case token.KeywordInt, token.KeywordFloat, token.KeywordString, token.KeywordBool,
		token.KeywordVoid, token.KeywordConst, token.Identifier:
		return true
	default:
		return false
	}
}

// parseType parses a base type: a primitive keyword, or an identifier
// naming a struct. It does not consume any trailing `[]`/`[N]` — callers in
// parameter/variable position handle that themselves since the same base
// type spelling means different things in each (pointer vs. array).
func (p *Parser) parseType() cntype.Type {
	switch p.cur.Kind {
	case token.KeywordInt:
		p.advance()
		return cntype.IntType
	case token.KeywordFloat:
		p.advance()
		return cntype.FloatType
	case token.KeywordString:
		p.advance()
		return cntype.StringType
	case token.KeywordBool:
		p.advance()
		return cntype.BoolType
	case token.KeywordVoid:
		p.advance()
		return cntype.VoidType
	case token.Identifier:
		name := p.cur.Text
		p.advance()
		return cntype.StructNamed(name)
	default:
		p.diags.Errorf(diag.PARSE_EXPECTED_TOKEN, p.filename, p.cur.Location.Line, p.cur.Location.Column,
			"期望类型, 但得到 %q", p.cur.Text)
		return cntype.UnknownType
	}
}

// ---------------------------------------------------------------------------
// Declarations

func (p *Parser) parseFuncDecl(isPublic bool) *cnast.FuncDecl {
	loc := p.cur.Location
	p.advance() // 函数

	if p.cur.Kind != token.Identifier {
		p.diags.Errorf(diag.PARSE_INVALID_FUNCTION_NAME, p.filename, p.cur.Location.Line, p.cur.Location.Column,
			"无效的函数名: %q", p.cur.Text)
		p.synchronize()
		return nil
	}
	name := p.cur.Text
	p.advance()

	if _, ok := p.expect(token.LParen, "'('"); !ok {
		p.synchronize()
		return nil
	}
	var params []cnast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		params = append(params, p.parseParam())
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen, "')'")

	retType := cntype.VoidType
	if p.at(token.Colon) {
		p.advance()
		retType = p.parseType()
	}

	body := p.parseBlockStmt()
	fn := p.b.FuncDecl(loc, name, params, retType, body, isPublic)
	fn.IsInterrupt, fn.InterruptVector = isrVector(name)
	return fn
}

// isrVector recognizes the interrupt-service-routine name pattern reserved
// by spec.md §4.4 ("may be tagged as an ISR when its name matches the
// pattern for ISR vectors"): `中断处理_<n>`.
func isrVector(name string) (bool, int) {
	const prefix = "中断处理_"
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return false, 0
	}
	n, err := strconv.Atoi(name[len(prefix):])
	if err != nil || n < 0 || n >= cnast.IRQMax {
		return false, 0
	}
	return true, n
}

func (p *Parser) parseParam() cnast.Param {
	isConst := false
	if p.at(token.KeywordConst) {
		isConst = true
		p.advance()
	}
	typ := p.parseType()
	name := ""
	if p.cur.Kind == token.Identifier {
		name = p.cur.Text
		p.advance()
	} else {
		p.diags.Errorf(diag.PARSE_EXPECTED_TOKEN, p.filename, p.cur.Location.Line, p.cur.Location.Column,
			"期望参数名, 但得到 %q", p.cur.Text)
	}

	if p.at(token.LBracket) {
		p.advance()
		if p.at(token.IntLiteral) {
			n, _ := strconv.ParseInt(p.cur.Text, 0, 64)
			p.advance()
			p.expect(token.RBracket, "']'")
			typ = cntype.ArrayOf(typ, int(n))
		} else {
			p.expect(token.RBracket, "']'")
			typ = cntype.PointerTo(typ)
		}
	}

	return cnast.Param{Name: name, Type: typ, IsConst: isConst}
}

func (p *Parser) parseStructDecl() *cnast.StructDecl {
	loc := p.cur.Location
	p.advance() // 结构体
	name, _ := p.expect(token.Identifier, "结构体名")
	if _, ok := p.expect(token.LBrace, "'{'"); !ok {
		p.synchronize()
		return nil
	}

	var fields []cnast.StructField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		isConst := false
		if p.at(token.KeywordConst) {
			isConst = true
			p.advance()
		}
		typ := p.parseType()
		fieldName, _ := p.expect(token.Identifier, "字段名")
		p.expect(token.Semicolon, "';'")
		fields = append(fields, cnast.StructField{Name: fieldName.Text, Type: typ, IsConst: isConst})
	}
	p.expect(token.RBrace, "'}'")

	return p.b.StructDecl(loc, name.Text, fields)
}

func (p *Parser) parseEnumDecl() *cnast.EnumDecl {
	loc := p.cur.Location
	p.advance() // 枚举
	name, _ := p.expect(token.Identifier, "枚举名")
	if _, ok := p.expect(token.LBrace, "'{'"); !ok {
		p.synchronize()
		return nil
	}

	var members []cnast.EnumMember
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		memberName, _ := p.expect(token.Identifier, "枚举成员名")
		m := cnast.EnumMember{Name: memberName.Text}
		if p.at(token.Assign) {
			p.advance()
			if p.at(token.IntLiteral) {
				n, _ := strconv.ParseInt(p.cur.Text, 0, 64)
				m.HasValue, m.Value = true, n
				p.advance()
			}
		}
		members = append(members, m)
		if p.at(token.Comma) {
			p.advance()
		}
	}
	p.expect(token.RBrace, "'}'")

	return p.b.EnumDecl(loc, name.Text, members)
}

func (p *Parser) parseModuleDecl(isPublic bool) *cnast.ModuleDecl {
	loc := p.cur.Location
	p.advance() // 模块
	name, _ := p.expect(token.Identifier, "模块名")
	if _, ok := p.expect(token.LBrace, "'{'"); !ok {
		p.synchronize()
		return nil
	}

	var fns []*cnast.FuncDecl
	var stmts []cnast.Stmt
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		memberPublic := false
		switch p.cur.Kind {
		case token.KeywordPublic:
			memberPublic = true
			p.advance()
		case token.KeywordPrivate:
			p.advance()
		}
		if p.at(token.KeywordFunc) {
			if fn := p.parseFuncDecl(memberPublic); fn != nil {
				fns = append(fns, fn)
			}
			continue
		}
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RBrace, "'}'")

	return p.b.ModuleDecl(loc, name.Text, fns, stmts, isPublic)
}

func (p *Parser) parseImportDecl() *cnast.ImportDecl {
	loc := p.cur.Location
	p.advance() // 导入
	path, _ := p.expect(token.StringLiteral, "导入路径")
	p.expect(token.Semicolon, "';'")
	return p.b.ImportDecl(loc, decodeStringLiteral(path.Text))
}
