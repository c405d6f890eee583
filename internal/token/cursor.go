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

// Package token defines the token kinds, source cursor and keyword table
// shared by the preprocessor, lexer and parser.
package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Cursor is a 1-based line/column position in a source buffer.
type Cursor struct {
	Line, Column int
}

// Init is the cursor position at the beginning of a file or string.
var Init = Cursor{Line: 1, Column: 1}

func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d", c.Line, c.Column)
}

// AdvancedBy returns a new Cursor advanced past consumed, which must begin
// at c. Newlines in consumed increment the line and reset the column;
// other runes increment the column. Byte offsets are counted in runes so
// multi-byte UTF-8 characters (Chinese keywords and identifiers) advance
// the column by one, not by their byte width.
func (c Cursor) AdvancedBy(consumed string) Cursor {
	newlines := strings.Count(consumed, "\n")
	tailBegin := 1 + strings.LastIndex(consumed, "\n")
	tailRunes := utf8.RuneCountInString(consumed[tailBegin:])

	if newlines == 0 {
		c.Column += tailRunes
	} else {
		c.Line += newlines
		c.Column = 1 + tailRunes
	}
	return c
}
