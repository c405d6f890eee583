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

// Package lexer provides a lexical analyzer for preprocessed CN source
// code. It breaks the input into a sequence of tokens for the parser,
// tracking each token's location for accurate diagnostics.
//
// Lexer scans UTF-8 directly: bytes below 0x80 are classified by value,
// while any byte at or above 0x80 (the lead or trailing byte of a Chinese
// character) is treated as part of an identifier, matching spec.md's
// identifier-character class.
package lexer

import (
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/token"
)

var (
	reLiteralFloat = regexp.MustCompile(`^[0-9]+\.[0-9]+(?:[eE][+-]?[0-9]+)?`)
	reLiteralHex   = regexp.MustCompile(`^0[xX][0-9a-fA-F]+`)
	reLiteralInt   = regexp.MustCompile(`^[0-9]+`)
)

// isIdentStart reports whether b can begin an identifier: ASCII letter,
// underscore, or any byte of a multi-byte UTF-8 sequence (>= 0x80).
func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

// isIdentContinue reports whether b can continue an identifier: the start
// set plus ASCII digits.
func isIdentContinue(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// Lexer scans preprocessed CN source into a stream of tokens.
type Lexer struct {
	dataLeft []byte
	cursor   token.Cursor
	filename string
	diags    *diag.Bag
}

// New constructs a Lexer over source. diags receives LEX_INVALID_CHAR and
// LEX_UNTERMINATED_STRING diagnostics, tagged with filename.
func New(source []byte, filename string, diags *diag.Bag) *Lexer {
	return &Lexer{dataLeft: source, cursor: token.Init, filename: filename, diags: diags}
}

// consume builds a Token out of the first n bytes of dataLeft, of the given
// kind, then advances the cursor and the remaining input past it.
func (lx *Lexer) consume(kind token.Kind, n int) token.Token {
	text := string(lx.dataLeft[:n])
	tok := token.Token{Kind: kind, Text: text, Location: lx.cursor}
	lx.dataLeft = lx.dataLeft[n:]
	lx.cursor = lx.cursor.AdvancedBy(text)
	return tok
}

func (lx *Lexer) skipWhitespaceAndComments() {
	for len(lx.dataLeft) > 0 {
		switch {
		case isSpace(lx.dataLeft[0]) || lx.dataLeft[0] == '\n':
			lx.consume(token.Invalid, 1) // position tracking only, token discarded
		case strings.HasPrefix(string(lx.dataLeft), "//"):
			end := strings.IndexByte(string(lx.dataLeft), '\n')
			if end < 0 {
				end = len(lx.dataLeft)
			}
			lx.consume(token.Invalid, end)
		case strings.HasPrefix(string(lx.dataLeft), "/*"):
			end := strings.Index(string(lx.dataLeft), "*/")
			if end < 0 {
				end = len(lx.dataLeft)
			} else {
				end += 2
			}
			lx.consume(token.Invalid, end)
		default:
			return
		}
	}
}

// two reports whether dataLeft begins with the two-byte operator op.
func (lx *Lexer) two(op string) bool {
	return len(lx.dataLeft) >= 2 && string(lx.dataLeft[:2]) == op
}

// NextToken returns the next token from the input left to process. Once
// the input is exhausted it returns token.EOFToken on every call.
func (lx *Lexer) NextToken() token.Token {
	lx.skipWhitespaceAndComments()
	if len(lx.dataLeft) == 0 {
		return token.EOFToken
	}

	b := lx.dataLeft[0]
	switch {
	case b == '"':
		return lx.lexString()
	case isDigit(b):
		return lx.lexNumber()
	case isIdentStart(b):
		return lx.lexIdentifier()
	}

	switch {
	case lx.two("=="):
		return lx.consume(token.Eq, 2)
	case lx.two("!="):
		return lx.consume(token.Ne, 2)
	case lx.two("<="):
		return lx.consume(token.Le, 2)
	case lx.two(">="):
		return lx.consume(token.Ge, 2)
	case lx.two("&&"):
		return lx.consume(token.AndAnd, 2)
	case lx.two("||"):
		return lx.consume(token.OrOr, 2)
	case lx.two("->"):
		return lx.consume(token.Arrow, 2)
	case lx.two("<<"):
		return lx.consume(token.Shl, 2)
	case lx.two(">>"):
		return lx.consume(token.Shr, 2)
	}

	switch b {
	case '(':
		return lx.consume(token.LParen, 1)
	case ')':
		return lx.consume(token.RParen, 1)
	case '{':
		return lx.consume(token.LBrace, 1)
	case '}':
		return lx.consume(token.RBrace, 1)
	case '[':
		return lx.consume(token.LBracket, 1)
	case ']':
		return lx.consume(token.RBracket, 1)
	case ',':
		return lx.consume(token.Comma, 1)
	case ';':
		return lx.consume(token.Semicolon, 1)
	case ':':
		return lx.consume(token.Colon, 1)
	case '.':
		return lx.consume(token.Dot, 1)
	case '=':
		return lx.consume(token.Assign, 1)
	case '+':
		return lx.consume(token.Plus, 1)
	case '-':
		return lx.consume(token.Minus, 1)
	case '*':
		return lx.consume(token.Star, 1)
	case '/':
		return lx.consume(token.Slash, 1)
	case '%':
		return lx.consume(token.Percent, 1)
	case '&':
		return lx.consume(token.Amp, 1)
	case '|':
		return lx.consume(token.Pipe, 1)
	case '^':
		return lx.consume(token.Caret, 1)
	case '~':
		return lx.consume(token.Tilde, 1)
	case '!':
		return lx.consume(token.Not, 1)
	case '<':
		return lx.consume(token.Lt, 1)
	case '>':
		return lx.consume(token.Gt, 1)
	}

	_, width := utf8.DecodeRune(lx.dataLeft)
	loc := lx.cursor
	tok := lx.consume(token.Invalid, width)
	lx.diags.Errorf(diag.LEX_INVALID_CHAR, lx.filename, loc.Line, loc.Column, "无法识别的字符: %q", tok.Text)
	return tok
}

func (lx *Lexer) lexNumber() token.Token {
	if match := reLiteralHex.FindString(string(lx.dataLeft)); match != "" {
		return lx.consume(token.IntLiteral, len(match))
	}
	if match := reLiteralFloat.FindString(string(lx.dataLeft)); match != "" {
		return lx.consume(token.FloatLiteral, len(match))
	}
	match := reLiteralInt.FindString(string(lx.dataLeft))
	return lx.consume(token.IntLiteral, len(match))
}

func (lx *Lexer) lexIdentifier() token.Token {
	n := 1
	for n < len(lx.dataLeft) && isIdentContinue(lx.dataLeft[n]) {
		n++
	}
	loc := lx.cursor
	text := string(lx.dataLeft[:n])
	kind := token.Identifier
	if kw, _, ok := token.LookupKeyword(text); ok {
		kind = kw
	}
	tok := lx.consume(kind, n)
	tok.Location = loc
	return tok
}

func (lx *Lexer) lexString() token.Token {
	loc := lx.cursor
	i := 1
	terminated := false
loop:
	for i < len(lx.dataLeft) {
		switch lx.dataLeft[i] {
		case '\\':
			i += 2
		case '"':
			i++
			terminated = true
			break loop
		case '\n':
			break loop
		default:
			i++
		}
	}
	if !terminated {
		tok := lx.consume(token.Invalid, min(i, len(lx.dataLeft)))
		lx.diags.Error(diag.LEX_UNTERMINATED_STRING, lx.filename, loc.Line, loc.Column, "未闭合的字符串字面量")
		return tok
	}
	tok := lx.consume(token.StringLiteral, i)
	tok.Location = loc
	return tok
}

// AllTokens iterates through every token extracted from the input,
// terminating before yielding the EOF sentinel.
func (lx *Lexer) AllTokens() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := lx.NextToken()
			if tok.Kind == token.EOF {
				return
			}
			if !yield(tok) {
				return
			}
		}
	}
}
