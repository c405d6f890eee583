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

// Package ir implements the CN intermediate representation: a module holding
// a singly-linked list of functions, each a doubly-linked list of basic
// blocks, each a doubly-linked list of instructions, with explicit
// predecessor/successor edges maintained on every block per spec.md §4.6.
package ir

import (
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/target"
)

// OperandKind distinguishes an immediate constant from a reference to a
// virtual register, global or function.
type OperandKind int

const (
	OperandImmInt OperandKind = iota
	OperandImmFloat
	OperandImmBool
	OperandImmString
	OperandVReg
	OperandGlobal
	OperandFunc
)

// Operand is a typed value used by an Instruction: either an immediate or a
// reference. Every operand carries its semantic Type so the backend can
// choose correct C casts without re-deriving it.
type Operand struct {
	Kind   OperandKind
	Type   cntype.Type
	Int    int64
	Float  float64
	Bool   bool
	String string
	VReg   int
	Name   string // for OperandGlobal/OperandFunc
}

// ImmInt constructs an immediate integer operand.
func ImmInt(v int64, t cntype.Type) Operand { return Operand{Kind: OperandImmInt, Int: v, Type: t} }

// ImmFloat constructs an immediate float operand.
func ImmFloat(v float64) Operand { return Operand{Kind: OperandImmFloat, Float: v, Type: cntype.FloatType} }

// ImmBool constructs an immediate bool operand.
func ImmBool(v bool) Operand { return Operand{Kind: OperandImmBool, Bool: v, Type: cntype.BoolType} }

// ImmString constructs an immediate string operand.
func ImmString(v string) Operand {
	return Operand{Kind: OperandImmString, String: v, Type: cntype.StringType}
}

// VRegOperand constructs a reference to virtual register n of type t.
func VRegOperand(n int, t cntype.Type) Operand { return Operand{Kind: OperandVReg, VReg: n, Type: t} }

// Global constructs a reference to the global variable named name.
func Global(name string, t cntype.Type) Operand {
	return Operand{Kind: OperandGlobal, Name: name, Type: t}
}

// FuncRef constructs a reference to the function named name.
func FuncRef(name string, t cntype.Type) Operand {
	return Operand{Kind: OperandFunc, Name: name, Type: t}
}

// Opcode enumerates every IR instruction shape.
type Opcode int

const (
	OpMov Opcode = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpNot
	OpNeg
	OpBitNot
	OpAddrOf
	OpDeref
	OpAlloca
	OpLoad
	OpStore
	OpGEPField  // compute address of a struct field
	OpGEPIndex  // compute address of an array/pointer element
	OpCall
	OpBr     // unconditional jump to Target
	OpCondBr // conditional jump: Then if Cond true, Else otherwise
	OpRet
)

// Instruction is one three-address-form IR instruction, linked into its
// owning Block's doubly-linked instruction list.
type Instruction struct {
	Prev, Next *Instruction

	Op   Opcode
	Dest *Operand // nil for void instructions (store, branches, void call)
	Args []Operand

	// Field names the struct field for OpGEPField / the loaded/stored field.
	Field string
	// Callee names the called function for OpCall.
	Callee string

	// Cond holds the branch condition operand for OpCondBr.
	Cond Operand
	// Target is the unconditional-branch destination for OpBr.
	Target *Block
	// Then/Else are the conditional-branch destinations for OpCondBr.
	Then, Else *Block
}

// Block is one basic block: a doubly-linked list of instructions, linked
// into its owning Function's doubly-linked block list, with explicit
// predecessor/successor edges.
type Block struct {
	Prev, Next *Block

	Name  string
	First *Instruction
	Last  *Instruction

	Preds, Succs []*Block

	reachable bool // scratch bit; passes.DeadCodeElimination keeps its own visited map instead
}

// Append adds instr to the end of b's instruction list.
func (b *Block) Append(instr *Instruction) {
	if b.Last == nil {
		b.First, b.Last = instr, instr
		return
	}
	instr.Prev = b.Last
	b.Last.Next = instr
	b.Last = instr
}

// Remove unlinks instr from b's instruction list.
func (b *Block) Remove(instr *Instruction) {
	if instr.Prev != nil {
		instr.Prev.Next = instr.Next
	} else {
		b.First = instr.Next
	}
	if instr.Next != nil {
		instr.Next.Prev = instr.Prev
	} else {
		b.Last = instr.Prev
	}
	instr.Prev, instr.Next = nil, nil
}

// Instructions returns every instruction in b, in order.
func (b *Block) Instructions() []*Instruction {
	var out []*Instruction
	for i := b.First; i != nil; i = i.Next {
		out = append(out, i)
	}
	return out
}

// AddSucc records a CFG edge b -> s, and the matching predecessor edge.
func (b *Block) AddSucc(s *Block) {
	b.Succs = append(b.Succs, s)
	s.Preds = append(s.Preds, b)
}

// Function is one compiled function: a doubly-linked list of blocks plus
// the monotonic vreg counter used to allocate fresh temporaries.
type Function struct {
	Next *Function // Module's singly-linked function list

	Name            string
	Params          []Param
	ReturnType      cntype.Type
	IsInterrupt     bool
	InterruptVector int

	FirstBlock, LastBlock *Block

	nextVReg int
}

// Param is one function parameter in the IR signature.
type Param struct {
	Name string
	Type cntype.Type
}

// NewBlock allocates a block named name, appends it to f's block list, and
// returns it. The first block appended to a function is its entry block.
func (f *Function) NewBlock(name string) *Block {
	b := &Block{Name: name}
	if f.LastBlock == nil {
		f.FirstBlock, f.LastBlock = b, b
		return b
	}
	b.Prev = f.LastBlock
	f.LastBlock.Next = b
	f.LastBlock = b
	return b
}

// Unlink removes b from f's block list. Callers are responsible for fixing
// up Preds/Succs on b's neighbors (passes.DeadCodeElimination does this).
func (f *Function) Unlink(b *Block) {
	if b.Prev != nil {
		b.Prev.Next = b.Next
	} else {
		f.FirstBlock = b.Next
	}
	if b.Next != nil {
		b.Next.Prev = b.Prev
	} else {
		f.LastBlock = b.Prev
	}
	b.Prev, b.Next = nil, nil
}

// Blocks returns every block in f, in list order.
func (f *Function) Blocks() []*Block {
	var out []*Block
	for b := f.FirstBlock; b != nil; b = b.Next {
		out = append(out, b)
	}
	return out
}

// Entry returns f's entry block (the first block in its list), or nil for a
// function with no body (none exist in this core; every FuncDecl has one).
func (f *Function) Entry() *Block { return f.FirstBlock }

// FreshVReg allocates the next virtual register of type t for this
// function.
func (f *Function) FreshVReg(t cntype.Type) Operand {
	v := f.nextVReg
	f.nextVReg++
	return VRegOperand(v, t)
}

// Global is one module-level variable definition.
type Global struct {
	Name string
	Type cntype.Type
	Init *Operand // nil if zero-initialized
}

// Module is the IR root: a singly-linked function list plus the
// target-triple and compile-mode tags spec.md §3 calls for.
type Module struct {
	FirstFunc *Function

	Triple       target.Triple
	Freestanding bool

	Globals []Global
}

// AddFunc appends fn to m's singly-linked function list.
func (m *Module) AddFunc(fn *Function) {
	if m.FirstFunc == nil {
		m.FirstFunc = fn
		return
	}
	last := m.FirstFunc
	for last.Next != nil {
		last = last.Next
	}
	last.Next = fn
}

// Functions returns every function in m, in list order.
func (m *Module) Functions() []*Function {
	var out []*Function
	for f := m.FirstFunc; f != nil; f = f.Next {
		out = append(out, f)
	}
	return out
}
