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

// Package cntype implements the CN type system: a sum type over primitives,
// pointer, array, struct (by name) and function types. Compatibility is
// equality-based — no numeric widening is implemented (see DESIGN.md).
package cntype

import "fmt"

// Kind tags which alternative of Type is populated.
type Kind int

const (
	Int Kind = iota
	Float
	Bool
	String
	Void
	Unknown
	Pointer
	Array
	Struct
	Function
)

// Type is the sum type over every CN type. Only the fields relevant to Kind
// are populated; the rest are zero.
type Type struct {
	Kind Kind

	Elem   *Type // Pointer: pointee; Array: element type
	Length int   // Array: fixed length, -1 if unsized (parameter `T arr[]`)

	StructName string // Struct: nominal name

	Return Type   // Function: return type
	Params []Type // Function: parameter types
}

var (
	IntType     = Type{Kind: Int}
	FloatType   = Type{Kind: Float}
	BoolType    = Type{Kind: Bool}
	StringType  = Type{Kind: String}
	VoidType    = Type{Kind: Void}
	UnknownType = Type{Kind: Unknown}
)

// PointerTo constructs a pointer-to-elem type.
func PointerTo(elem Type) Type {
	e := elem
	return Type{Kind: Pointer, Elem: &e}
}

// ArrayOf constructs a fixed-length array-of-elem type. length == -1 marks an
// unsized array, which is how `T arr[]` parameter syntax is represented
// before being lowered to Pointer per spec.md's invariant.
func ArrayOf(elem Type, length int) Type {
	e := elem
	return Type{Kind: Array, Elem: &e, Length: length}
}

// StructNamed constructs a nominal struct type.
func StructNamed(name string) Type {
	return Type{Kind: Struct, StructName: name}
}

// FunctionOf constructs a function type.
func FunctionOf(ret Type, params []Type) Type {
	return Type{Kind: Function, Return: ret, Params: params}
}

// IsNumeric reports whether t is int or float.
func (t Type) IsNumeric() bool { return t.Kind == Int || t.Kind == Float }

// Equal reports structural equality for pointer/array/function, nominal
// equality for struct, and kind equality otherwise. Compatible builds on it,
// adding only the Unknown escape described there.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Pointer:
		return t.Elem.Equal(*o.Elem)
	case Array:
		return t.Length == o.Length && t.Elem.Equal(*o.Elem)
	case Struct:
		return t.StructName == o.StructName
	case Function:
		if len(t.Params) != len(o.Params) || !t.Return.Equal(o.Return) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Compatible is Equal, except Unknown accepts any kind on either side. This
// is the one deliberate escape hatch in an otherwise nominal/structural
// relation: it lets the 打印 builtin declare a parameter that accepts
// whichever concrete type the call site passes, without introducing a real
// union/generic type. There is no numeric widening.
func (t Type) Compatible(o Type) bool {
	if t.Kind == Unknown || o.Kind == Unknown {
		return true
	}
	return t.Equal(o)
}

func (t Type) String() string {
	switch t.Kind {
	case Int:
		return "整数"
	case Float:
		return "小数"
	case Bool:
		return "布尔"
	case String:
		return "字符串"
	case Void:
		return "空类型"
	case Unknown:
		return "<unknown>"
	case Pointer:
		return fmt.Sprintf("*%s", t.Elem.String())
	case Array:
		if t.Length < 0 {
			return fmt.Sprintf("%s[]", t.Elem.String())
		}
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Length)
	case Struct:
		return t.StructName
	case Function:
		return fmt.Sprintf("func(...) %s", t.Return.String())
	default:
		return "?"
	}
}
