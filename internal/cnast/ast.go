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

// Package cnast defines the CN abstract syntax tree: expressions,
// statements, declarations and the program root. Every node is allocated
// through a Builder backed by an arena.Arena and is owned by the Program it
// ends up reachable from; nodes are never freed individually.
package cnast

import (
	"github.com/cnlang/compiler/internal/arena"
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/token"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Cursor
}

// Expr is implemented by every expression node. Type/SetType hold the slot
// the type checker fills during semantic analysis (§4.5 pass 3). Literals,
// struct literals and logical expressions are typed by the Builder when
// created; every other expression starts as cntype.UnknownType.
type Expr interface {
	Node
	exprNode()
	Type() cntype.Type
	SetType(cntype.Type)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by every top-level declaration node.
type Decl interface {
	Node
	declNode()
}

// exprBase is embedded by every Expr to supply Pos/Type/SetType.
type exprBase struct {
	Loc token.Cursor
	Typ cntype.Type
}

func (e *exprBase) Pos() token.Cursor      { return e.Loc }
func (e *exprBase) Type() cntype.Type      { return e.Typ }
func (e *exprBase) SetType(t cntype.Type)  { e.Typ = t }
func (exprBase) exprNode()                 {}

// stmtBase is embedded by every Stmt to supply Pos.
type stmtBase struct {
	Loc token.Cursor
}

func (s *stmtBase) Pos() token.Cursor { return s.Loc }
func (stmtBase) stmtNode()            {}

// declBase is embedded by every Decl to supply Pos.
type declBase struct {
	Loc token.Cursor
}

func (d *declBase) Pos() token.Cursor { return d.Loc }
func (declBase) declNode()            {}

// ---------------------------------------------------------------------------
// Expressions

// BinaryOp enumerates arithmetic, comparison and bitwise binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd // bitwise &
	OpOr  // bitwise |
	OpXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// LogicalOp enumerates the short-circuit logical operators.
type LogicalOp int

const (
	OpLogicalAnd LogicalOp = iota
	OpLogicalOr
)

// UnaryOp enumerates prefix unary operators.
type UnaryOp int

const (
	OpNot      UnaryOp = iota // !
	OpNeg                     // unary -
	OpAddr                    // &
	OpDeref                   // *
	OpBitNot                  // ~
)

// IntrinsicKind enumerates the memory/asm intrinsic forms.
type IntrinsicKind int

const (
	IntrinsicReadMemory IntrinsicKind = iota
	IntrinsicWriteMemory
	IntrinsicMemoryCopy
	IntrinsicMemorySet
	IntrinsicMapMemory
	IntrinsicUnmapMemory
	IntrinsicInlineAsm
)

type BinaryExpr struct {
	exprBase
	Op          BinaryOp
	Left, Right Expr
}

type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

type IdentExpr struct {
	exprBase
	Name string
	// Symbol is filled during name resolution (§4.5 pass 2); it is any to
	// avoid an import cycle with internal/scope, which imports cnast.
	Symbol any
}

type IntLit struct {
	exprBase
	Value int64
}

type FloatLit struct {
	exprBase
	Value float64
}

type StringLit struct {
	exprBase
	Value string
}

type BoolLit struct {
	exprBase
	Value bool
}

type AssignExpr struct {
	exprBase
	Target Expr
	Value  Expr
}

type LogicalExpr struct {
	exprBase
	Op          LogicalOp
	Left, Right Expr
}

type UnaryExpr struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

type ArrayLit struct {
	exprBase
	Elements []Expr
}

type IndexExpr struct {
	exprBase
	Base  Expr
	Index Expr
}

// MemberExpr is both `.` and `->` member access; Arrow distinguishes them
// for the type checker (arrow requires a pointer-to-struct base).
type MemberExpr struct {
	exprBase
	Base  Expr
	Field string
	Arrow bool
}

// StructFieldInit is one `{.field = v}` or positional element of a struct
// literal. Name is empty for positional initializers; field identity is
// resolved by declaration order during semantics in that case.
type StructFieldInit struct {
	Name  string
	Value Expr
}

type StructLit struct {
	exprBase
	StructName string
	Fields     []StructFieldInit
}

type IntrinsicExpr struct {
	exprBase
	Kind IntrinsicKind
	Args []Expr
}

// ---------------------------------------------------------------------------
// Statements

type BlockStmt struct {
	stmtBase
	Stmts []Stmt
}

type VarDeclStmt struct {
	stmtBase
	Name        string
	DeclaredType *cntype.Type // nil if omitted (`变量 x = ...;` form)
	Init        Expr          // nil if omitted
	IsConst     bool
	IsPublic    bool
	// ResolvedType is filled during semantics from DeclaredType or Init's
	// inferred type.
	ResolvedType cntype.Type
}

type ExprStmt struct {
	stmtBase
	X Expr
}

type ReturnStmt struct {
	stmtBase
	Value Expr // nil for bare `返回;`
}

type IfStmt struct {
	stmtBase
	Cond       Expr
	Then       *BlockStmt
	Else       Stmt // *BlockStmt, or another *IfStmt for an else-if chain, or nil
}

type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *BlockStmt
}

type ForStmt struct {
	stmtBase
	Init   Stmt // nil if omitted
	Cond   Expr // nil if omitted
	Update Stmt // nil if omitted
	Body   *BlockStmt
}

type BreakStmt struct{ stmtBase }
type ContinueStmt struct{ stmtBase }

type SwitchCase struct {
	// Value is nil for the default case.
	Value Expr
	Body  *BlockStmt
}

type SwitchStmt struct {
	stmtBase
	Tag   Expr
	Cases []SwitchCase
}

// ---------------------------------------------------------------------------
// Declarations

type Param struct {
	Name     string
	Type     cntype.Type
	IsConst  bool
}

// IRQMax bounds valid interrupt vector numbers per spec.md §3.
const IRQMax = 256

type FuncDecl struct {
	declBase
	Name            string
	Params          []Param
	ReturnType      cntype.Type
	Body            *BlockStmt
	IsPublic        bool
	IsInterrupt     bool
	InterruptVector int
}

type StructField struct {
	Name    string
	Type    cntype.Type
	IsConst bool
}

type StructDecl struct {
	declBase
	Name   string
	Fields []StructField
}

type EnumMember struct {
	Name string
	// HasValue/Value hold an explicit `= N` assignment; otherwise the
	// member's value is one greater than the previous member's (0 for the
	// first).
	HasValue bool
	Value    int64
}

type EnumDecl struct {
	declBase
	Name    string
	Members []EnumMember
}

type ModuleDecl struct {
	declBase
	Name      string
	Functions []*FuncDecl
	Stmts     []Stmt
	IsPublic  bool
}

type ImportDecl struct {
	declBase
	Path string
}

// Program is the AST root: every top-level declaration list, per spec.md §3.
type Program struct {
	Functions []*FuncDecl
	Structs   []*StructDecl
	Enums     []*EnumDecl
	Modules   []*ModuleDecl
	Imports   []*ImportDecl
	Globals   []*VarDeclStmt
}

// Builder allocates AST nodes from an arena. All construction should go
// through a Builder so every node in a Program shares the Program's
// lifetime.
type Builder struct {
	Arena *arena.Arena
}

// NewBuilder constructs a Builder backed by a fresh arena.
func NewBuilder() *Builder {
	return &Builder{Arena: arena.New(0)}
}

func (b *Builder) BinaryExpr(loc token.Cursor, op BinaryOp, left, right Expr) *BinaryExpr {
	n := arena.Alloc[BinaryExpr](b.Arena)
	n.Loc, n.Typ = loc, cntype.UnknownType
	n.Op, n.Left, n.Right = op, left, right
	return n
}

func (b *Builder) CallExpr(loc token.Cursor, callee Expr, args []Expr) *CallExpr {
	n := arena.Alloc[CallExpr](b.Arena)
	n.Loc, n.Typ = loc, cntype.UnknownType
	n.Callee, n.Args = callee, args
	return n
}

func (b *Builder) IdentExpr(loc token.Cursor, name string) *IdentExpr {
	n := arena.Alloc[IdentExpr](b.Arena)
	n.Loc, n.Typ = loc, cntype.UnknownType
	n.Name = name
	return n
}

func (b *Builder) IntLit(loc token.Cursor, v int64) *IntLit {
	n := arena.Alloc[IntLit](b.Arena)
	n.Loc, n.Typ = loc, cntype.IntType
	n.Value = v
	return n
}

func (b *Builder) FloatLit(loc token.Cursor, v float64) *FloatLit {
	n := arena.Alloc[FloatLit](b.Arena)
	n.Loc, n.Typ = loc, cntype.FloatType
	n.Value = v
	return n
}

func (b *Builder) StringLit(loc token.Cursor, v string) *StringLit {
	n := arena.Alloc[StringLit](b.Arena)
	n.Loc, n.Typ = loc, cntype.StringType
	n.Value = v
	return n
}

func (b *Builder) BoolLit(loc token.Cursor, v bool) *BoolLit {
	n := arena.Alloc[BoolLit](b.Arena)
	n.Loc, n.Typ = loc, cntype.BoolType
	n.Value = v
	return n
}

func (b *Builder) AssignExpr(loc token.Cursor, target, value Expr) *AssignExpr {
	n := arena.Alloc[AssignExpr](b.Arena)
	n.Loc, n.Typ = loc, cntype.UnknownType
	n.Target, n.Value = target, value
	return n
}

func (b *Builder) LogicalExpr(loc token.Cursor, op LogicalOp, left, right Expr) *LogicalExpr {
	n := arena.Alloc[LogicalExpr](b.Arena)
	n.Loc, n.Typ = loc, cntype.BoolType
	n.Op, n.Left, n.Right = op, left, right
	return n
}

func (b *Builder) UnaryExpr(loc token.Cursor, op UnaryOp, operand Expr) *UnaryExpr {
	n := arena.Alloc[UnaryExpr](b.Arena)
	n.Loc, n.Typ = loc, cntype.UnknownType
	n.Op, n.Operand = op, operand
	return n
}

func (b *Builder) ArrayLit(loc token.Cursor, elements []Expr) *ArrayLit {
	n := arena.Alloc[ArrayLit](b.Arena)
	n.Loc, n.Typ = loc, cntype.UnknownType
	n.Elements = elements
	return n
}

func (b *Builder) IndexExpr(loc token.Cursor, base, index Expr) *IndexExpr {
	n := arena.Alloc[IndexExpr](b.Arena)
	n.Loc, n.Typ = loc, cntype.UnknownType
	n.Base, n.Index = base, index
	return n
}

func (b *Builder) MemberExpr(loc token.Cursor, base Expr, field string, arrow bool) *MemberExpr {
	n := arena.Alloc[MemberExpr](b.Arena)
	n.Loc, n.Typ = loc, cntype.UnknownType
	n.Base, n.Field, n.Arrow = base, field, arrow
	return n
}

func (b *Builder) StructLit(loc token.Cursor, name string, fields []StructFieldInit) *StructLit {
	n := arena.Alloc[StructLit](b.Arena)
	n.Loc, n.Typ = loc, cntype.StructNamed(name)
	n.StructName, n.Fields = name, fields
	return n
}

func (b *Builder) IntrinsicExpr(loc token.Cursor, kind IntrinsicKind, args []Expr) *IntrinsicExpr {
	n := arena.Alloc[IntrinsicExpr](b.Arena)
	n.Loc, n.Typ = loc, cntype.UnknownType
	n.Kind, n.Args = kind, args
	return n
}

func (b *Builder) BlockStmt(loc token.Cursor, stmts []Stmt) *BlockStmt {
	n := arena.Alloc[BlockStmt](b.Arena)
	n.Loc = loc
	n.Stmts = stmts
	return n
}

func (b *Builder) VarDeclStmt(loc token.Cursor, name string, declaredType *cntype.Type, init Expr, isConst, isPublic bool) *VarDeclStmt {
	n := arena.Alloc[VarDeclStmt](b.Arena)
	n.Loc = loc
	n.Name, n.DeclaredType, n.Init, n.IsConst, n.IsPublic = name, declaredType, init, isConst, isPublic
	return n
}

func (b *Builder) ExprStmt(loc token.Cursor, x Expr) *ExprStmt {
	n := arena.Alloc[ExprStmt](b.Arena)
	n.Loc, n.X = loc, x
	return n
}

func (b *Builder) ReturnStmt(loc token.Cursor, value Expr) *ReturnStmt {
	n := arena.Alloc[ReturnStmt](b.Arena)
	n.Loc, n.Value = loc, value
	return n
}

func (b *Builder) IfStmt(loc token.Cursor, cond Expr, then *BlockStmt, els Stmt) *IfStmt {
	n := arena.Alloc[IfStmt](b.Arena)
	n.Loc, n.Cond, n.Then, n.Else = loc, cond, then, els
	return n
}

func (b *Builder) WhileStmt(loc token.Cursor, cond Expr, body *BlockStmt) *WhileStmt {
	n := arena.Alloc[WhileStmt](b.Arena)
	n.Loc, n.Cond, n.Body = loc, cond, body
	return n
}

func (b *Builder) ForStmt(loc token.Cursor, init Stmt, cond Expr, update Stmt, body *BlockStmt) *ForStmt {
	n := arena.Alloc[ForStmt](b.Arena)
	n.Loc, n.Init, n.Cond, n.Update, n.Body = loc, init, cond, update, body
	return n
}

func (b *Builder) BreakStmt(loc token.Cursor) *BreakStmt {
	n := arena.Alloc[BreakStmt](b.Arena)
	n.Loc = loc
	return n
}

func (b *Builder) ContinueStmt(loc token.Cursor) *ContinueStmt {
	n := arena.Alloc[ContinueStmt](b.Arena)
	n.Loc = loc
	return n
}

func (b *Builder) SwitchStmt(loc token.Cursor, tag Expr, cases []SwitchCase) *SwitchStmt {
	n := arena.Alloc[SwitchStmt](b.Arena)
	n.Loc, n.Tag, n.Cases = loc, tag, cases
	return n
}

func (b *Builder) FuncDecl(loc token.Cursor, name string, params []Param, ret cntype.Type, body *BlockStmt, isPublic bool) *FuncDecl {
	n := arena.Alloc[FuncDecl](b.Arena)
	n.Loc = loc
	n.Name, n.Params, n.ReturnType, n.Body, n.IsPublic = name, params, ret, body, isPublic
	return n
}

func (b *Builder) StructDecl(loc token.Cursor, name string, fields []StructField) *StructDecl {
	n := arena.Alloc[StructDecl](b.Arena)
	n.Loc, n.Name, n.Fields = loc, name, fields
	return n
}

func (b *Builder) EnumDecl(loc token.Cursor, name string, members []EnumMember) *EnumDecl {
	n := arena.Alloc[EnumDecl](b.Arena)
	n.Loc, n.Name, n.Members = loc, name, members
	return n
}

func (b *Builder) ModuleDecl(loc token.Cursor, name string, functions []*FuncDecl, stmts []Stmt, isPublic bool) *ModuleDecl {
	n := arena.Alloc[ModuleDecl](b.Arena)
	n.Loc, n.Name, n.Functions, n.Stmts, n.IsPublic = loc, name, functions, stmts, isPublic
	return n
}

func (b *Builder) ImportDecl(loc token.Cursor, path string) *ImportDecl {
	n := arena.Alloc[ImportDecl](b.Arena)
	n.Loc, n.Path = loc, path
	return n
}

func (b *Builder) Program() *Program {
	return &Program{}
}
