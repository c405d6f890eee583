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
	"github.com/cnlang/compiler/internal/scope"
)

// resolveNames is pass 2: it re-walks the tree built by buildScopes,
// resolving every identifier expression against the innermost-first scope
// chain and attaching the found *scope.Symbol to IdentExpr.Symbol.
func (a *Analyzer) resolveNames(global *scope.Scope) {
	for _, fn := range a.prog.Functions {
		a.resolveFuncBody(fn)
	}
	for _, md := range a.prog.Modules {
		for _, fn := range md.Functions {
			a.resolveFuncBody(fn)
		}
	}
	for _, mw := range a.moduleBody {
		for _, s := range mw.stmts {
			a.resolveStmt(s, mw.scope)
		}
	}
	for _, vd := range a.prog.Globals {
		if vd.Init != nil {
			a.resolveExpr(vd.Init, global)
		}
	}
}

func (a *Analyzer) resolveFuncBody(fn *cnast.FuncDecl) {
	if fn.Body == nil {
		return
	}
	bodyScope := a.blocks[fn.Body]
	for _, s := range fn.Body.Stmts {
		a.resolveStmt(s, bodyScope)
	}
}

func (a *Analyzer) resolveStmt(s cnast.Stmt, sc *scope.Scope) {
	switch st := s.(type) {
	case *cnast.VarDeclStmt:
		if st.Init != nil {
			a.resolveExpr(st.Init, sc)
		}
	case *cnast.ExprStmt:
		a.resolveExpr(st.X, sc)
	case *cnast.ReturnStmt:
		if st.Value != nil {
			a.resolveExpr(st.Value, sc)
		}
	case *cnast.BlockStmt:
		inner := a.blocks[st]
		for _, c := range st.Stmts {
			a.resolveStmt(c, inner)
		}
	case *cnast.IfStmt:
		a.resolveExpr(st.Cond, sc)
		a.resolveStmt(st.Then, sc)
		if st.Else != nil {
			a.resolveStmt(st.Else, sc)
		}
	case *cnast.WhileStmt:
		a.resolveExpr(st.Cond, sc)
		a.resolveStmt(st.Body, sc)
	case *cnast.ForStmt:
		bodyScope := a.blocks[st.Body]
		forScope := bodyScope.Parent
		if st.Init != nil {
			a.resolveStmt(st.Init, forScope)
		}
		if st.Cond != nil {
			a.resolveExpr(st.Cond, forScope)
		}
		if st.Update != nil {
			a.resolveStmt(st.Update, forScope)
		}
		for _, c := range st.Body.Stmts {
			a.resolveStmt(c, bodyScope)
		}
	case *cnast.SwitchStmt:
		a.resolveExpr(st.Tag, sc)
		for _, c := range st.Cases {
			if c.Value != nil {
				a.resolveExpr(c.Value, sc)
			}
			a.resolveStmt(c.Body, sc)
		}
	}
}

func (a *Analyzer) resolveExpr(e cnast.Expr, sc *scope.Scope) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *cnast.IdentExpr:
		if sym, ok := sc.Lookup(ex.Name); ok {
			ex.Symbol = sym
		} else {
			a.errorf(ex, diag.SEM_UNDEFINED_IDENTIFIER, "未定义的标识符: %q", ex.Name)
		}
	case *cnast.BinaryExpr:
		a.resolveExpr(ex.Left, sc)
		a.resolveExpr(ex.Right, sc)
	case *cnast.LogicalExpr:
		a.resolveExpr(ex.Left, sc)
		a.resolveExpr(ex.Right, sc)
	case *cnast.UnaryExpr:
		a.resolveExpr(ex.Operand, sc)
	case *cnast.AssignExpr:
		a.resolveExpr(ex.Target, sc)
		a.resolveExpr(ex.Value, sc)
	case *cnast.CallExpr:
		a.resolveExpr(ex.Callee, sc)
		for _, arg := range ex.Args {
			a.resolveExpr(arg, sc)
		}
	case *cnast.IndexExpr:
		a.resolveExpr(ex.Base, sc)
		a.resolveExpr(ex.Index, sc)
	case *cnast.MemberExpr:
		a.resolveExpr(ex.Base, sc)
	case *cnast.ArrayLit:
		for _, el := range ex.Elements {
			a.resolveExpr(el, sc)
		}
	case *cnast.StructLit:
		for i := range ex.Fields {
			a.resolveExpr(ex.Fields[i].Value, sc)
		}
	case *cnast.IntrinsicExpr:
		for _, arg := range ex.Args {
			a.resolveExpr(arg, sc)
		}
	}
}
