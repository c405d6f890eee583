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

// Package diag collects severity-tagged, source-located compiler messages.
// No phase of the compiler panics or returns a Go error to signal a source
// problem; it appends a Diagnostic to a Bag instead. The driver checks
// ErrorCount between phases and aborts the pipeline when it is nonzero.
package diag

import (
	"fmt"
	"io"
)

// Severity distinguishes fatal problems from advisory ones. Warnings never
// block compilation.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "错误"
	}
	return "警告"
}

// Code is the closed set of error codes from the external interface.
type Code int

const (
	UNKNOWN Code = iota
	LEX_INVALID_CHAR
	LEX_UNTERMINATED_STRING
	PARSE_EXPECTED_TOKEN
	PARSE_INVALID_EXPR
	PARSE_INVALID_FUNCTION_NAME
	SEM_DUPLICATE_SYMBOL
	SEM_UNDEFINED_IDENTIFIER
	SEM_TYPE_MISMATCH
	SEM_MISSING_RETURN
)

// Diagnostic is one reported compiler message.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Filename string
	Line     int
	Column   int
	Message  string
}

// Bag is a growable, append-only vector of diagnostics. The zero value is
// ready to use.
type Bag struct {
	items []Diagnostic
}

// Push appends a diagnostic with the given severity, code, location and
// message.
func (b *Bag) Push(severity Severity, code Code, filename string, line, column int, message string) {
	b.items = append(b.items, Diagnostic{
		Severity: severity,
		Code:     code,
		Filename: filename,
		Line:     line,
		Column:   column,
		Message:  message,
	})
}

// Error is shorthand for Push(Error, ...).
func (b *Bag) Error(code Code, filename string, line, column int, message string) {
	b.Push(Error, code, filename, line, column, message)
}

// Errorf is like Error but formats message.
func (b *Bag) Errorf(code Code, filename string, line, column int, format string, args ...any) {
	b.Error(code, filename, line, column, fmt.Sprintf(format, args...))
}

// Warn is shorthand for Push(Warning, ...).
func (b *Bag) Warn(code Code, filename string, line, column int, message string) {
	b.Push(Warning, code, filename, line, column, message)
}

// All returns every diagnostic recorded so far, in the order they were
// pushed.
func (b *Bag) All() []Diagnostic { return b.items }

// ErrorCount returns how many recorded diagnostics have Severity == Error.
func (b *Bag) ErrorCount() int {
	n := 0
	for _, d := range b.items {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// HasErrors reports whether ErrorCount() > 0. The driver calls this between
// phases to decide whether to abort the pipeline.
func (b *Bag) HasErrors() bool { return b.ErrorCount() > 0 }

// Reset discards every recorded diagnostic.
func (b *Bag) Reset() { b.items = nil }

// Fprint writes every diagnostic to w in the external interface's format:
// "filename:line:column: <severity>: <message> (代码: <code>)".
func (b *Bag) Fprint(w io.Writer) {
	for _, d := range b.items {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s (代码: %d)\n", d.Filename, d.Line, d.Column, d.Severity, d.Message, d.Code)
	}
}
