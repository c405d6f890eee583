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

package cbackend

import (
	"fmt"

	"github.com/cnlang/compiler/internal/cntype"
)

// cType renders t as the C type the backend declares a variable or
// parameter of that type with. Array values lower to pointers: every
// array-typed operand in the IR already traces back to a cn_rt_array_alloc
// result or a pointer parameter, so there is never a fixed-length C array to
// preserve.
func cType(t cntype.Type) string {
	switch t.Kind {
	case cntype.Int:
		return "int64_t"
	case cntype.Float:
		return "double"
	case cntype.Bool:
		return "bool"
	case cntype.String:
		return "const char*"
	case cntype.Void:
		return "void"
	case cntype.Pointer:
		return cType(*t.Elem) + "*"
	case cntype.Array:
		return cType(*t.Elem) + "*"
	case cntype.Struct:
		return fmt.Sprintf("struct cn_struct_%s", t.StructName)
	default:
		return "void*"
	}
}

// zeroValue renders the C literal a global of type t initializes to when no
// explicit initializer was given.
func zeroValue(t cntype.Type) string {
	switch t.Kind {
	case cntype.Int:
		return "0"
	case cntype.Float:
		return "0.0"
	case cntype.Bool:
		return "false"
	case cntype.String, cntype.Pointer, cntype.Array:
		return "NULL"
	default:
		return "{0}"
	}
}
