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
	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/token"
)

func (p *Parser) parseBlockStmt() *cnast.BlockStmt {
	loc := p.cur.Location
	if _, ok := p.expect(token.LBrace, "'{'"); !ok {
		p.synchronize()
		return p.b.BlockStmt(loc, nil)
	}
	var stmts []cnast.Stmt
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RBrace, "'}'")
	return p.b.BlockStmt(loc, stmts)
}

func (p *Parser) parseStmt() cnast.Stmt {
	switch p.cur.Kind {
	case token.LBrace:
		return p.parseBlockStmt()
	case token.KeywordIf:
		return p.parseIfStmt()
	case token.KeywordWhile:
		return p.parseWhileStmt()
	case token.KeywordFor:
		return p.parseForStmt()
	case token.KeywordReturn:
		return p.parseReturnStmt()
	case token.KeywordBreak:
		loc := p.cur.Location
		p.advance()
		p.expect(token.Semicolon, "';'")
		return p.b.BreakStmt(loc)
	case token.KeywordContinue:
		loc := p.cur.Location
		p.advance()
		p.expect(token.Semicolon, "';'")
		return p.b.ContinueStmt(loc)
	case token.KeywordSwitch:
		return p.parseSwitchStmt()
	case token.KeywordVar:
		return p.parseVarDeclStmt(false, false)
	case token.KeywordConst:
		p.advance()
		if p.at(token.KeywordVar) {
			return p.parseVarDeclStmt(false, true)
		}
		return p.parseTypedVarDeclStmt(false, true)
	default:
		if p.isTypeStart() && p.typeStartsDeclaration() {
			return p.parseTypedVarDeclStmt(false, false)
		}
		return p.parseExprStmt()
	}
}

// typeStartsDeclaration disambiguates a bare identifier used as a type name
// (`结构体名 x;`) from an identifier used as the start of an expression
// statement (`函数调用();`): a declaration's type token is always followed
// by another identifier naming the variable.
func (p *Parser) typeStartsDeclaration() bool {
	switch p.cur.Kind {
	case token.KeywordInt, token.KeywordFloat, token.KeywordString, token.KeywordBool, token.KeywordVoid:
		return true
	case token.Identifier:
		return p.peek.Kind == token.Identifier
	default:
		return false
	}
}

func (p *Parser) parseVarDeclStmt(isPublic, isConst bool) *cnast.VarDeclStmt {
	loc := p.cur.Location
	p.advance() // 变量
	name, _ := p.expect(token.Identifier, "变量名")

	var declaredType *cntype.Type
	if p.at(token.Colon) {
		p.advance()
		t := p.parseType()
		declaredType = &t
	}

	var init cnast.Expr
	if p.at(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(token.Semicolon, "';'")

	return p.b.VarDeclStmt(loc, name.Text, declaredType, init, isConst, isPublic)
}

func (p *Parser) parseTypedVarDeclStmt(isPublic, isConst bool) *cnast.VarDeclStmt {
	loc := p.cur.Location
	t := p.parseType()
	name, _ := p.expect(token.Identifier, "变量名")

	var init cnast.Expr
	if p.at(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(token.Semicolon, "';'")

	return p.b.VarDeclStmt(loc, name.Text, &t, init, isConst, isPublic)
}

func (p *Parser) parseExprStmt() cnast.Stmt {
	loc := p.cur.Location
	x := p.parseExpr()
	p.expect(token.Semicolon, "';'")
	return p.b.ExprStmt(loc, x)
}

func (p *Parser) parseReturnStmt() *cnast.ReturnStmt {
	loc := p.cur.Location
	p.advance() // 返回
	var value cnast.Expr
	if !p.at(token.Semicolon) {
		value = p.parseExpr()
	}
	p.expect(token.Semicolon, "';'")
	return p.b.ReturnStmt(loc, value)
}

// parseIfStmt parses `如果 (cond) block [否则 (block | if-stmt)]`. An
// `否则 如果` chain simply nests: the else branch is another *IfStmt, which
// is the natural recursive-descent consequence spec.md §13 calls out.
func (p *Parser) parseIfStmt() *cnast.IfStmt {
	loc := p.cur.Location
	p.advance() // 如果
	p.expect(token.LParen, "'('")
	cond := p.parseExpr()
	p.expect(token.RParen, "')'")
	then := p.parseBlockStmt()

	var els cnast.Stmt
	if p.at(token.KeywordElse) {
		p.advance()
		if p.at(token.KeywordIf) {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlockStmt()
		}
	}
	return p.b.IfStmt(loc, cond, then, els)
}

func (p *Parser) parseWhileStmt() *cnast.WhileStmt {
	loc := p.cur.Location
	p.advance() // 当
	p.expect(token.LParen, "'('")
	cond := p.parseExpr()
	p.expect(token.RParen, "')'")
	body := p.parseBlockStmt()
	return p.b.WhileStmt(loc, cond, body)
}

// parseForStmt parses `循环 ( [init] ; [cond] ; [update] ) block`; each
// clause is optional, so `循环 (;;) { ... }` is valid per spec.md §4.4.
func (p *Parser) parseForStmt() *cnast.ForStmt {
	loc := p.cur.Location
	p.advance() // 循环
	p.expect(token.LParen, "'('")

	var init cnast.Stmt
	if !p.at(token.Semicolon) {
		init = p.parseForClauseInit()
	} else {
		p.advance()
	}

	var cond cnast.Expr
	if !p.at(token.Semicolon) {
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon, "';'")

	var update cnast.Stmt
	if !p.at(token.RParen) {
		loc := p.cur.Location
		update = p.b.ExprStmt(loc, p.parseExpr())
	}
	p.expect(token.RParen, "')'")

	body := p.parseBlockStmt()
	return p.b.ForStmt(loc, init, cond, update, body)
}

// parseForClauseInit parses the for-loop init clause, which consumes its
// own trailing ';' (shared by both the var-decl and bare-expression forms).
func (p *Parser) parseForClauseInit() cnast.Stmt {
	if p.at(token.KeywordVar) {
		return p.parseVarDeclStmt(false, false)
	}
	if p.isTypeStart() && p.typeStartsDeclaration() {
		return p.parseTypedVarDeclStmt(false, false)
	}
	return p.parseExprStmt()
}

func (p *Parser) parseSwitchStmt() *cnast.SwitchStmt {
	loc := p.cur.Location
	p.advance() // 选择
	p.expect(token.LParen, "'('")
	tag := p.parseExpr()
	p.expect(token.RParen, "')'")
	p.expect(token.LBrace, "'{'")

	var cases []cnast.SwitchCase
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		var value cnast.Expr
		switch p.cur.Kind {
		case token.KeywordCase:
			p.advance()
			value = p.parseExpr()
			p.expect(token.Colon, "':'")
		case token.KeywordDefault:
			p.advance()
			p.expect(token.Colon, "':'")
		default:
			p.diags.Errorf(diag.PARSE_EXPECTED_TOKEN, p.filename, p.cur.Location.Line, p.cur.Location.Column,
				"期望 情况 或 默认, 但得到 %q", p.cur.Text)
			p.synchronize()
			continue
		}

		var stmts []cnast.Stmt
		for !p.at(token.KeywordCase) && !p.at(token.KeywordDefault) && !p.at(token.RBrace) && !p.at(token.EOF) {
			if s := p.parseStmt(); s != nil {
				stmts = append(stmts, s)
			}
		}
		cases = append(cases, cnast.SwitchCase{Value: value, Body: p.b.BlockStmt(loc, stmts)})
	}
	p.expect(token.RBrace, "'}'")

	return p.b.SwitchStmt(loc, tag, cases)
}
