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

package sema

import (
	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/diag"
)

// hostedRuntimeNames are calls that depend on a hosted C runtime (stdio,
// the heap, process teardown) and are therefore forbidden when the driver
// requests freestanding mode, per spec.md §4.5.
var hostedRuntimeNames = map[string]bool{
	"printf": true, "scanf": true, "fprintf": true, "sprintf": true,
	"malloc": true, "free": true, "calloc": true, "realloc": true,
	"fopen": true, "fclose": true, "fread": true, "fwrite": true,
	"exit": true, "abort": true,
	"打印": true, "读取整数": true, "读取行": true,
}

// checkFreestanding walks the AST rejecting any call to a hosted-runtime
// name, each producing a diagnostic that names the forbidden construct.
func (a *Analyzer) checkFreestanding() {
	for _, fn := range a.prog.Functions {
		a.checkFreestandingStmt(fn.Body)
	}
	for _, md := range a.prog.Modules {
		for _, fn := range md.Functions {
			a.checkFreestandingStmt(fn.Body)
		}
		for _, s := range md.Stmts {
			a.checkFreestandingStmt(s)
		}
	}
}

func (a *Analyzer) checkFreestandingStmt(s cnast.Stmt) {
	if s == nil {
		return
	}
	switch st := s.(type) {
	case *cnast.BlockStmt:
		for _, c := range st.Stmts {
			a.checkFreestandingStmt(c)
		}
	case *cnast.ExprStmt:
		a.checkFreestandingExpr(st.X)
	case *cnast.VarDeclStmt:
		a.checkFreestandingExpr(st.Init)
	case *cnast.ReturnStmt:
		a.checkFreestandingExpr(st.Value)
	case *cnast.IfStmt:
		a.checkFreestandingExpr(st.Cond)
		a.checkFreestandingStmt(st.Then)
		a.checkFreestandingStmt(st.Else)
	case *cnast.WhileStmt:
		a.checkFreestandingExpr(st.Cond)
		a.checkFreestandingStmt(st.Body)
	case *cnast.ForStmt:
		a.checkFreestandingStmt(st.Init)
		a.checkFreestandingExpr(st.Cond)
		a.checkFreestandingStmt(st.Update)
		a.checkFreestandingStmt(st.Body)
	case *cnast.SwitchStmt:
		a.checkFreestandingExpr(st.Tag)
		for _, c := range st.Cases {
			a.checkFreestandingExpr(c.Value)
			a.checkFreestandingStmt(c.Body)
		}
	}
}

func (a *Analyzer) checkFreestandingExpr(e cnast.Expr) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *cnast.CallExpr:
		if id, ok := ex.Callee.(*cnast.IdentExpr); ok && hostedRuntimeNames[id.Name] {
			a.errorf(ex, diag.UNKNOWN, "自由模式下禁止使用依赖宿主运行时的调用: %q", id.Name)
		}
		a.checkFreestandingExpr(ex.Callee)
		for _, arg := range ex.Args {
			a.checkFreestandingExpr(arg)
		}
	case *cnast.BinaryExpr:
		a.checkFreestandingExpr(ex.Left)
		a.checkFreestandingExpr(ex.Right)
	case *cnast.LogicalExpr:
		a.checkFreestandingExpr(ex.Left)
		a.checkFreestandingExpr(ex.Right)
	case *cnast.UnaryExpr:
		a.checkFreestandingExpr(ex.Operand)
	case *cnast.AssignExpr:
		a.checkFreestandingExpr(ex.Target)
		a.checkFreestandingExpr(ex.Value)
	case *cnast.IndexExpr:
		a.checkFreestandingExpr(ex.Base)
		a.checkFreestandingExpr(ex.Index)
	case *cnast.MemberExpr:
		a.checkFreestandingExpr(ex.Base)
	case *cnast.ArrayLit:
		for _, el := range ex.Elements {
			a.checkFreestandingExpr(el)
		}
	case *cnast.StructLit:
		for i := range ex.Fields {
			a.checkFreestandingExpr(ex.Fields[i].Value)
		}
	case *cnast.IntrinsicExpr:
		for _, arg := range ex.Args {
			a.checkFreestandingExpr(arg)
		}
	}
}
