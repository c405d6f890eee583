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

package cnast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/token"
)

func TestLiteralsGetPrimitiveTypeAtConstruction(t *testing.T) {
	b := NewBuilder()
	assert.True(t, b.IntLit(token.Init, 1).Type().Equal(cntype.IntType))
	assert.True(t, b.FloatLit(token.Init, 1.5).Type().Equal(cntype.FloatType))
	assert.True(t, b.StringLit(token.Init, "hi").Type().Equal(cntype.StringType))
	assert.True(t, b.BoolLit(token.Init, true).Type().Equal(cntype.BoolType))
}

func TestIdentExprStartsUnknownUntilResolved(t *testing.T) {
	b := NewBuilder()
	id := b.IdentExpr(token.Init, "变量名")
	assert.True(t, id.Type().Equal(cntype.UnknownType))
	id.SetType(cntype.IntType)
	assert.True(t, id.Type().Equal(cntype.IntType))
}

func TestBinaryExprImplementsExpr(t *testing.T) {
	b := NewBuilder()
	left := b.IntLit(token.Init, 1)
	right := b.IntLit(token.Init, 2)
	var e Expr = b.BinaryExpr(token.Init, OpAdd, left, right)
	assert.NotNil(t, e)
}

func TestBlockStmtHoldsOrderedStatements(t *testing.T) {
	b := NewBuilder()
	s1 := b.ExprStmt(token.Init, b.IntLit(token.Init, 1))
	s2 := b.ReturnStmt(token.Init, nil)
	block := b.BlockStmt(token.Init, []Stmt{s1, s2})
	assert.Len(t, block.Stmts, 2)
}

func TestProgramAggregatesTopLevelLists(t *testing.T) {
	b := NewBuilder()
	prog := b.Program()
	prog.Functions = append(prog.Functions, b.FuncDecl(token.Init, "主函数", nil, cntype.VoidType, b.BlockStmt(token.Init, nil), true))
	assert.Len(t, prog.Functions, 1)
}

func TestInterruptVectorDefaultsAreZeroValue(t *testing.T) {
	b := NewBuilder()
	fn := b.FuncDecl(token.Init, "处理器", nil, cntype.VoidType, b.BlockStmt(token.Init, nil), false)
	assert.False(t, fn.IsInterrupt)
	assert.Less(t, fn.InterruptVector, IRQMax)
}
