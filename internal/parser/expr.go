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
	"strconv"
	"strings"

	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/token"
)

// intrinsicNames maps the reserved memory/asm intrinsic call names to their
// IntrinsicKind, per spec.md §3.
var intrinsicNames = map[string]cnast.IntrinsicKind{
	"read_memory":   cnast.IntrinsicReadMemory,
	"write_memory":  cnast.IntrinsicWriteMemory,
	"memory_copy":   cnast.IntrinsicMemoryCopy,
	"memory_set":    cnast.IntrinsicMemorySet,
	"map_memory":    cnast.IntrinsicMapMemory,
	"unmap_memory":  cnast.IntrinsicUnmapMemory,
	"inline_asm":    cnast.IntrinsicInlineAsm,
}

// parseExpr parses a full expression starting at the lowest precedence,
// i.e. including right-associative assignment.
func (p *Parser) parseExpr() cnast.Expr {
	return p.parseExprPrecedence(precLowest)
}

// parseExprPrecedence is the Pratt-parsing core: parse one prefix
// expression, then repeatedly fold in infix operators whose precedence is
// at least minPrec. Binary operators are left-associative (the recursive
// call uses prec+1); assignment is right-associative (its right-hand side
// is parsed by recursing at precAssign itself).
func (p *Parser) parseExprPrecedence(minPrec precedence) cnast.Expr {
	left := p.parseUnary()

	for {
		if minPrec <= precAssign && p.at(token.Assign) {
			loc := p.cur.Location
			p.advance()
			value := p.parseExprPrecedence(precAssign)
			left = p.b.AssignExpr(loc, left, value)
			continue
		}

		if op, ok := logicalOpFor(p.cur.Kind); ok {
			prec := logicalPrecedence(p.cur.Kind)
			if prec < minPrec {
				break
			}
			loc := p.cur.Location
			p.advance()
			right := p.parseExprPrecedence(prec + 1)
			left = p.b.LogicalExpr(loc, op, left, right)
			continue
		}

		prec, ok := binaryPrecedence[p.cur.Kind]
		if !ok || prec < minPrec {
			break
		}
		op := binaryOpFor[p.cur.Kind]
		loc := p.cur.Location
		p.advance()
		right := p.parseExprPrecedence(prec + 1)
		left = p.b.BinaryExpr(loc, op, left, right)
	}

	return left
}

func logicalOpFor(k token.Kind) (cnast.LogicalOp, bool) {
	switch k {
	case token.AndAnd:
		return cnast.OpLogicalAnd, true
	case token.OrOr:
		return cnast.OpLogicalOr, true
	default:
		return 0, false
	}
}

func logicalPrecedence(k token.Kind) precedence {
	if k == token.AndAnd {
		return precLogicalAnd
	}
	return precLogicalOr
}

// parseUnary parses the prefix-operator tier, then falls through to
// parsePostfix for the primary expression and its postfix chain.
func (p *Parser) parseUnary() cnast.Expr {
	loc := p.cur.Location
	switch p.cur.Kind {
	case token.Not:
		p.advance()
		return p.b.UnaryExpr(loc, cnast.OpNot, p.parseExprPrecedence(precUnary))
	case token.Minus:
		p.advance()
		return p.b.UnaryExpr(loc, cnast.OpNeg, p.parseExprPrecedence(precUnary))
	case token.Amp:
		p.advance()
		return p.b.UnaryExpr(loc, cnast.OpAddr, p.parseExprPrecedence(precUnary))
	case token.Star:
		p.advance()
		return p.b.UnaryExpr(loc, cnast.OpDeref, p.parseExprPrecedence(precUnary))
	case token.Tilde:
		p.advance()
		return p.b.UnaryExpr(loc, cnast.OpBitNot, p.parseExprPrecedence(precUnary))
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

// parsePostfix folds in call, index and member-access suffixes, which bind
// tighter than any prefix or binary operator.
func (p *Parser) parsePostfix(base cnast.Expr) cnast.Expr {
	for {
		loc := p.cur.Location
		switch p.cur.Kind {
		case token.LParen:
			p.advance()
			var args []cnast.Expr
			for !p.at(token.RParen) && !p.at(token.EOF) {
				args = append(args, p.parseExpr())
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
			p.expect(token.RParen, "')'")
			base = p.b.CallExpr(loc, base, args)
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBracket, "']'")
			base = p.b.IndexExpr(loc, base, idx)
		case token.Dot:
			p.advance()
			field, _ := p.expect(token.Identifier, "字段名")
			base = p.b.MemberExpr(loc, base, field.Text, false)
		case token.Arrow:
			p.advance()
			field, _ := p.expect(token.Identifier, "字段名")
			base = p.b.MemberExpr(loc, base, field.Text, true)
		default:
			return base
		}
	}
}

// parsePrimary parses literals, identifiers (including calls later folded
// in by parsePostfix), intrinsic forms, struct literals, array literals and
// parenthesized sub-expressions.
func (p *Parser) parsePrimary() cnast.Expr {
	loc := p.cur.Location
	switch p.cur.Kind {
	case token.IntLiteral:
		n, _ := strconv.ParseInt(p.cur.Text, 0, 64)
		p.advance()
		return p.b.IntLit(loc, n)
	case token.FloatLiteral:
		f, _ := strconv.ParseFloat(p.cur.Text, 64)
		p.advance()
		return p.b.FloatLit(loc, f)
	case token.StringLiteral:
		s := decodeStringLiteral(p.cur.Text)
		p.advance()
		return p.b.StringLit(loc, s)
	case token.KeywordTrue:
		p.advance()
		return p.b.BoolLit(loc, true)
	case token.KeywordFalse:
		p.advance()
		return p.b.BoolLit(loc, false)
	case token.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RParen, "')'")
		return e
	case token.LBracket:
		p.advance()
		var elems []cnast.Expr
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			elems = append(elems, p.parseExpr())
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBracket, "']'")
		return p.b.ArrayLit(loc, elems)
	case token.Identifier:
		name := p.cur.Text
		p.advance()
		if kind, ok := intrinsicNames[name]; ok && p.at(token.LParen) {
			return p.parseIntrinsicCall(loc, kind)
		}
		if p.at(token.LBrace) {
			return p.parseStructLit(loc, name)
		}
		return p.b.IdentExpr(loc, name)
	default:
		p.diags.Errorf(diag.PARSE_INVALID_EXPR, p.filename, loc.Line, loc.Column,
			"无效的表达式, 意外的记号 %q", p.cur.Text)
		p.advance()
		return p.b.IdentExpr(loc, "")
	}
}

// parseIntrinsicCall parses the argument list of a memory/asm intrinsic
// form (`read_memory(addr)`, `write_memory(addr, value)`, ...), folding it
// directly into an IntrinsicExpr rather than a generic CallExpr.
func (p *Parser) parseIntrinsicCall(loc token.Cursor, kind cnast.IntrinsicKind) cnast.Expr {
	p.expect(token.LParen, "'('")
	var args []cnast.Expr
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseExpr())
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen, "')'")
	return p.b.IntrinsicExpr(loc, kind, args)
}

// parseStructLit parses `{ v1, v2, ... }` (positional) or
// `{ .field = v, ... }` (named), per spec.md §4.4. Each element is read as
// named if it starts with '.', positional otherwise, so the two forms may
// appear in one literal.
func (p *Parser) parseStructLit(loc token.Cursor, name string) cnast.Expr {
	p.expect(token.LBrace, "'{'")
	var fields []cnast.StructFieldInit
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.Dot) {
			p.advance()
			fieldName, _ := p.expect(token.Identifier, "字段名")
			p.expect(token.Assign, "'='")
			value := p.parseExpr()
			fields = append(fields, cnast.StructFieldInit{Name: fieldName.Text, Value: value})
		} else {
			fields = append(fields, cnast.StructFieldInit{Value: p.parseExpr()})
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBrace, "'}'")
	return p.b.StructLit(loc, name, fields)
}

func decodeStringLiteral(raw string) string {
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte('\\')
				sb.WriteByte(raw[i])
			}
			continue
		}
		sb.WriteByte(raw[i])
	}
	return sb.String()
}
