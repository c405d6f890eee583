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

// Package preprocessor expands CN source before it reaches the lexer: it
// strips comments, evaluates `#define`/`#ifdef`/`#ifndef`/`#else`/`#endif`/
// `#undef` directives (both their ASCII and Chinese spellings), and expands
// object- and function-like macros. Column and line tracking is byte-based
// to match directive recognition ("#" at column 1), not rune-based; the
// lexer that follows re-scans the expanded output with its own cursor.
package preprocessor

import (
	"bytes"
	"strings"

	"github.com/cnlang/compiler/internal/diag"
)

// conditionFrame is one level of #ifdef/#ifndef/#else/#endif nesting.
type conditionFrame struct {
	active      bool
	hasExecuted bool
}

// Preprocessor expands macros and evaluates conditional-compilation
// directives over a single source file.
type Preprocessor struct {
	src      []byte
	pos      int
	line     int
	column   int
	filename string
	diags    *diag.Bag

	macros     *macroTable
	conditions []conditionFrame
	out        bytes.Buffer
}

// New constructs a Preprocessor over source. diags receives one diagnostic
// per directive or expansion error, tagged with filename.
func New(source []byte, filename string, diags *diag.Bag) *Preprocessor {
	return &Preprocessor{
		src:      source,
		line:     1,
		column:   1,
		filename: filename,
		diags:    diags,
		macros:   newMacroTable(),
	}
}

// DefineMacro injects an object-like macro before Process runs, mirroring
// the original implementation's API for predefining compiler-supplied
// macros (e.g. a target identifier).
func (p *Preprocessor) DefineMacro(name, value string) {
	p.macros.define(Macro{Name: name, Replacement: value, DefinedLine: p.line})
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *Preprocessor) currentChar() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *Preprocessor) peekChar(offset int) byte {
	i := p.pos + offset
	if i >= len(p.src) {
		return 0
	}
	return p.src[i]
}

func (p *Preprocessor) advance() {
	if p.pos >= len(p.src) {
		return
	}
	if p.src[p.pos] == '\n' {
		p.line++
		p.column = 1
	} else {
		p.column++
	}
	p.pos++
}

func (p *Preprocessor) skipWhitespace() {
	for {
		switch p.currentChar() {
		case ' ', '\t', '\r':
			p.advance()
		default:
			return
		}
	}
}

// skipLine discards input up to and including the next newline, but keeps
// the newline itself in the output so later line numbers still line up with
// the original source.
func (p *Preprocessor) skipLine() {
	for p.currentChar() != '\n' && p.currentChar() != 0 {
		p.advance()
	}
	if p.currentChar() == '\n' {
		p.out.WriteByte('\n')
		p.advance()
	}
}

func (p *Preprocessor) reportError(message string) {
	p.diags.Error(diag.UNKNOWN, p.filename, p.line, p.column, message)
}

func (p *Preprocessor) isConditionActive() bool {
	if len(p.conditions) == 0 {
		return true
	}
	return p.conditions[len(p.conditions)-1].active
}

func (p *Preprocessor) pushCondition(active bool) {
	p.conditions = append(p.conditions, conditionFrame{active: active, hasExecuted: active})
}

func (p *Preprocessor) popCondition() bool {
	if len(p.conditions) == 0 {
		return false
	}
	p.conditions = p.conditions[:len(p.conditions)-1]
	return true
}

// Process runs the full expansion algorithm and returns the expanded
// output. ok is false if any directive or expansion error was recorded; the
// partial output is still returned for diagnostic display but must not be
// handed to the lexer.
func (p *Preprocessor) Process() (output []byte, ok bool) {
	errsBefore := p.diags.ErrorCount()
	for p.pos < len(p.src) {
		c := p.currentChar()

		if c == '/' && p.peekChar(1) == '/' {
			for p.currentChar() != '\n' && p.currentChar() != 0 {
				p.advance()
			}
			if p.currentChar() == '\n' {
				p.out.WriteByte('\n')
				p.advance()
			}
			continue
		}

		if c == '/' && p.peekChar(1) == '*' {
			p.advance()
			p.advance()
			for p.currentChar() != 0 {
				if p.currentChar() == '*' && p.peekChar(1) == '/' {
					p.advance()
					p.advance()
					break
				}
				if p.currentChar() == '\n' {
					p.out.WriteByte('\n')
				}
				p.advance()
			}
			continue
		}

		if c == '#' && p.column == 1 {
			if !p.processDirective() {
				return p.out.Bytes(), false
			}
			continue
		}

		if !p.isConditionActive() {
			if c == '\n' {
				p.out.WriteByte('\n')
				p.advance()
			} else {
				p.skipLine()
			}
			continue
		}

		if isIdentStart(c) {
			start := p.pos
			for isIdentContinue(p.currentChar()) {
				p.advance()
			}
			name := string(p.src[start:p.pos])
			if !p.expandMacro(name) {
				p.out.WriteString(name)
			}
			continue
		}

		p.out.WriteByte(c)
		p.advance()
	}

	if len(p.conditions) > 0 {
		p.reportError("未闭合的条件编译指令")
		return p.out.Bytes(), false
	}

	return p.out.Bytes(), p.diags.ErrorCount() == errsBefore
}

// directive name constants, ASCII and their exact Chinese spellings.
const (
	dirDefine = "define"
	dirIfdef  = "ifdef"
	dirIfndef = "ifndef"
	dirElse   = "else"
	dirEndif  = "endif"
	dirUndef  = "undef"

	dirDefineCN = "定义"
	dirIfdefCN  = "如果定义"
	dirIfndefCN = "如果未定义"
	dirElseCN   = "否则"
	dirEndifCN  = "结束如果"
	dirUndefCN  = "未定义"
)

func (p *Preprocessor) processDirective() bool {
	p.advance() // '#'
	p.skipWhitespace()

	if !isIdentStart(p.currentChar()) {
		p.reportError("预处理指令后需要指令名称")
		p.skipLine()
		return false
	}
	start := p.pos
	for isIdentContinue(p.currentChar()) {
		p.advance()
	}
	name := string(p.src[start:p.pos])

	switch name {
	case dirDefine, dirDefineCN:
		return p.processDefine()
	case dirIfdef, dirIfdefCN:
		return p.processIfdef(false)
	case dirIfndef, dirIfndefCN:
		return p.processIfdef(true)
	case dirElse, dirElseCN:
		return p.processElse()
	case dirEndif, dirEndifCN:
		return p.processEndif()
	case dirUndef, dirUndefCN:
		return p.processUndef()
	default:
		p.reportError("未知的预处理指令")
		p.skipLine()
		return false
	}
}

func (p *Preprocessor) processDefine() bool {
	p.skipWhitespace()

	if !p.isConditionActive() {
		p.skipLine()
		return true
	}

	nameStart := p.pos
	if !isIdentStart(p.currentChar()) {
		p.reportError("#define 后需要宏名称")
		p.skipLine()
		return false
	}
	for isIdentContinue(p.currentChar()) {
		p.advance()
	}
	name := string(p.src[nameStart:p.pos])

	var params []string
	functionLike := false
	if p.currentChar() == '(' {
		functionLike = true
		p.advance()
		p.skipWhitespace()
		if p.currentChar() == ')' {
			p.advance()
		} else {
			for {
				p.skipWhitespace()
				paramStart := p.pos
				if !isIdentStart(p.currentChar()) {
					p.reportError("函数宏参数必须是标识符")
					p.skipLine()
					return false
				}
				for isIdentContinue(p.currentChar()) {
					p.advance()
				}
				params = append(params, string(p.src[paramStart:p.pos]))
				p.skipWhitespace()
				if p.currentChar() == ',' {
					p.advance()
					continue
				}
				if p.currentChar() == ')' {
					p.advance()
					break
				}
				p.reportError("函数宏参数列表格式错误")
				p.skipLine()
				return false
			}
		}
	}

	p.skipWhitespace()
	replStart := p.pos
	for p.currentChar() != '\n' && p.currentChar() != 0 {
		p.advance()
	}
	replEnd := p.pos
	for replEnd > replStart {
		b := p.src[replEnd-1]
		if b != ' ' && b != '\t' && b != '\r' {
			break
		}
		replEnd--
	}
	replacement := string(p.src[replStart:replEnd])

	p.macros.define(Macro{
		Name:         name,
		Params:       params,
		FunctionLike: functionLike,
		Replacement:  replacement,
		DefinedLine:  p.line,
	})

	if p.currentChar() == '\n' {
		p.out.WriteByte('\n')
		p.advance()
	}
	return true
}

func (p *Preprocessor) processIfdef(negate bool) bool {
	p.skipWhitespace()

	nameStart := p.pos
	if !isIdentStart(p.currentChar()) {
		if negate {
			p.reportError("#ifndef 后需要宏名称")
		} else {
			p.reportError("#ifdef 后需要宏名称")
		}
		p.skipLine()
		return false
	}
	for isIdentContinue(p.currentChar()) {
		p.advance()
	}
	name := string(p.src[nameStart:p.pos])

	defined := p.macros.isDefined(name)
	active := defined
	if negate {
		active = !defined
	}
	if !p.isConditionActive() {
		active = false
	}

	p.skipLine()
	p.pushCondition(active)
	return true
}

func (p *Preprocessor) processElse() bool {
	if len(p.conditions) == 0 {
		p.reportError("#else 没有对应的 #ifdef 或 #ifndef")
		p.skipLine()
		return false
	}

	frame := &p.conditions[len(p.conditions)-1]
	parentActive := len(p.conditions) == 1 || p.conditions[len(p.conditions)-2].active

	if parentActive && !frame.hasExecuted {
		frame.active = true
		frame.hasExecuted = true
	} else {
		frame.active = false
	}

	p.skipLine()
	return true
}

func (p *Preprocessor) processEndif() bool {
	if len(p.conditions) == 0 {
		p.reportError("#endif 没有对应的 #ifdef 或 #ifndef")
		p.skipLine()
		return false
	}
	p.skipLine()
	return p.popCondition()
}

func (p *Preprocessor) processUndef() bool {
	p.skipWhitespace()

	if !p.isConditionActive() {
		p.skipLine()
		return true
	}

	nameStart := p.pos
	if !isIdentStart(p.currentChar()) {
		p.reportError("#undef 后需要宏名称")
		p.skipLine()
		return false
	}
	for isIdentContinue(p.currentChar()) {
		p.advance()
	}
	name := string(p.src[nameStart:p.pos])
	p.macros.undefine(name)

	p.skipLine()
	return true
}

// expandMacro attempts to expand the identifier name at the current
// position as a macro reference. It reports false (leaving the cursor
// untouched) when name is not a macro, or is function-like but not
// followed by '(', matching the original implementation's "not a call"
// fallback.
func (p *Preprocessor) expandMacro(name string) bool {
	macro, ok := p.macros.lookup(name)
	if !ok {
		return false
	}

	if !macro.FunctionLike {
		p.out.WriteString(macro.Replacement)
		return true
	}

	savePos, saveLine, saveCol := p.pos, p.line, p.column
	p.skipWhitespace()
	if p.currentChar() != '(' {
		p.pos, p.line, p.column = savePos, saveLine, saveCol
		return false
	}

	args, ok := p.parseFunctionMacroArgs()
	if !ok {
		return false
	}
	if len(args) != len(macro.Params) {
		p.reportError("宏调用的参数数量不匹配")
		return false
	}

	p.out.WriteString(substituteMacroParams(macro, args))
	return true
}

// parseFunctionMacroArgs consumes a parenthesized, comma-separated argument
// list starting at the current '(' and returns each argument's trimmed
// text. Parenthesis depth is tracked so nested calls are not split on their
// inner commas.
func (p *Preprocessor) parseFunctionMacroArgs() ([]string, bool) {
	p.advance() // '('
	p.skipWhitespace()

	var args []string
	if p.currentChar() == ')' {
		p.advance()
		return args, true
	}

	for p.currentChar() != 0 {
		start := p.pos
		depth := 0
		for p.currentChar() != 0 {
			switch p.currentChar() {
			case '(':
				depth++
				p.advance()
			case ')':
				if depth == 0 {
					goto doneArg
				}
				depth--
				p.advance()
			case ',':
				if depth == 0 {
					goto doneArg
				}
				p.advance()
			default:
				p.advance()
			}
		}
	doneArg:
		args = append(args, strings.TrimSpace(string(p.src[start:p.pos])))

		switch p.currentChar() {
		case ',':
			p.advance()
			p.skipWhitespace()
		case ')':
			p.advance()
			return args, true
		default:
			return nil, false
		}
	}
	return nil, false
}

// substituteMacroParams expands macro.Replacement, replacing each
// occurrence of a parameter name with the corresponding argument text (or,
// when prefixed by '#', the argument text wrapped in double quotes). No
// token-pasting ("##") is supported; the original C implementation the CN
// toolchain is based on does not define it either.
func substituteMacroParams(macro *Macro, args []string) string {
	paramIndex := func(name string) int {
		for i, p := range macro.Params {
			if p == name {
				return i
			}
		}
		return -1
	}

	var out strings.Builder
	repl := macro.Replacement
	i := 0
	for i < len(repl) {
		c := repl[i]

		if c == '#' && i+1 < len(repl) {
			j := i + 1
			for j < len(repl) && (repl[j] == ' ' || repl[j] == '\t') {
				j++
			}
			if j < len(repl) && isIdentStart(repl[j]) {
				nameStart := j
				for j < len(repl) && isIdentContinue(repl[j]) {
					j++
				}
				name := repl[nameStart:j]
				if idx := paramIndex(name); idx >= 0 && idx < len(args) {
					out.WriteByte('"')
					out.WriteString(args[idx])
					out.WriteByte('"')
				}
				i = j
				continue
			}
		}

		if isIdentStart(c) {
			start := i
			for i < len(repl) && isIdentContinue(repl[i]) {
				i++
			}
			name := repl[start:i]
			if idx := paramIndex(name); idx >= 0 && idx < len(args) {
				out.WriteString(args[idx])
			} else {
				out.WriteString(name)
			}
			continue
		}

		out.WriteByte(c)
		i++
	}
	return out.String()
}
