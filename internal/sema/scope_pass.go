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
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/scope"
)

// blockScopes records the scope created for every block-shaped node so pass
// 2 and pass 3 can re-walk the same tree without rebuilding it. Keyed by the
// *cnast.BlockStmt pointer, which is unique per block (arena-allocated, never
// reused).
type blockScopes map[*cnast.BlockStmt]*scope.Scope

func funcType(fn *cnast.FuncDecl) cntype.Type {
	params := make([]cntype.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Type
	}
	return cntype.FunctionOf(fn.ReturnType, params)
}

// buildScopes is pass 1: it declares every top-level name (functions,
// structs, enums, modules, globals) into the global scope, then descends
// into each function/module body declaring parameters and block-local
// variables, rejecting shallow duplicates as SEM_DUPLICATE_SYMBOL. The
// per-node scopes it builds are cached in a.blocks for reuse by later passes.
func (a *Analyzer) buildScopes() {
	a.blocks = make(blockScopes)
	a.funcScope = make(map[*cnast.FuncDecl]*scope.Scope)

	a.declareBuiltins()
	for _, fn := range a.prog.Functions {
		a.declareFunc(a.global, fn)
	}
	for _, sd := range a.prog.Structs {
		if !a.global.Declare(&scope.Symbol{Name: sd.Name, Kind: scope.StructSymbol, Type: cntype.StructNamed(sd.Name)}) {
			a.errorf(sd, diag.SEM_DUPLICATE_SYMBOL, "重复的符号: %q", sd.Name)
		}
	}
	for _, ed := range a.prog.Enums {
		if !a.global.Declare(&scope.Symbol{Name: ed.Name, Kind: scope.EnumSymbol, Type: cntype.IntType}) {
			a.errorf(ed, diag.SEM_DUPLICATE_SYMBOL, "重复的符号: %q", ed.Name)
		}
	}
	for _, vd := range a.prog.Globals {
		a.declareVar(a.global, vd, vd.IsPublic)
	}
	for _, md := range a.prog.Modules {
		a.buildModuleScope(md)
	}

	for _, fn := range a.prog.Functions {
		a.buildFuncScope(a.global, fn)
	}
}

func (a *Analyzer) declareFunc(sc *scope.Scope, fn *cnast.FuncDecl) {
	sym := &scope.Symbol{Name: fn.Name, Kind: scope.FunctionSymbol, Type: funcType(fn), IsPublic: fn.IsPublic}
	if !sc.Declare(sym) {
		a.errorf(fn, diag.SEM_DUPLICATE_SYMBOL, "重复的符号: %q", fn.Name)
		return
	}
	a.funcSymbols[fn] = sym
}

func (a *Analyzer) declareVar(sc *scope.Scope, vd *cnast.VarDeclStmt, isPublic bool) {
	t := cntype.UnknownType
	if vd.DeclaredType != nil {
		t = *vd.DeclaredType
	}
	sym := &scope.Symbol{Name: vd.Name, Kind: scope.VariableSymbol, Type: t, IsPublic: isPublic}
	if !sc.Declare(sym) {
		a.errorf(vd, diag.SEM_DUPLICATE_SYMBOL, "重复的符号: %q", vd.Name)
		return
	}
	a.varSymbols[vd] = sym
}

func (a *Analyzer) buildModuleScope(md *cnast.ModuleDecl) {
	sym := &scope.Symbol{Name: md.Name, Kind: scope.ModuleSymbol, Type: cntype.VoidType, IsPublic: md.IsPublic}
	if !a.global.Declare(sym) {
		a.errorf(md, diag.SEM_DUPLICATE_SYMBOL, "重复的符号: %q", md.Name)
	}
	modScope := scope.New(scope.Module, a.global)
	for _, fn := range md.Functions {
		a.declareFunc(modScope, fn)
	}
	blockSc := scope.New(scope.Block, modScope)
	for _, s := range md.Stmts {
		a.buildStmtScope(blockSc, s)
	}
	a.moduleBody = append(a.moduleBody, moduleWalk{scope: blockSc, stmts: md.Stmts})

	for _, fn := range md.Functions {
		a.buildFuncScope(modScope, fn)
	}
}

// moduleWalk pairs a module's top-level statement list with the scope built
// for it, so passes 2/3 can re-walk it without recomputing module scopes.
type moduleWalk struct {
	scope *scope.Scope
	stmts []cnast.Stmt
}

func (a *Analyzer) buildFuncScope(parent *scope.Scope, fn *cnast.FuncDecl) {
	fnScope := scope.New(scope.Function, parent)
	for _, p := range fn.Params {
		if !fnScope.Declare(&scope.Symbol{Name: p.Name, Kind: scope.ParameterSymbol, Type: p.Type}) {
			a.errorf(fn, diag.SEM_DUPLICATE_SYMBOL, "重复的符号: %q", p.Name)
		}
	}
	a.funcScope[fn] = fnScope

	if fn.Body == nil {
		return
	}
	bodyScope := scope.New(scope.Block, fnScope)
	a.blocks[fn.Body] = bodyScope
	for _, s := range fn.Body.Stmts {
		a.buildStmtScope(bodyScope, s)
	}
}

// buildStmtScope declares any variable introduced directly by s into sc, and
// recurses into nested blocks, creating a fresh child scope for each.
func (a *Analyzer) buildStmtScope(sc *scope.Scope, s cnast.Stmt) {
	switch st := s.(type) {
	case *cnast.VarDeclStmt:
		a.declareVar(sc, st, false)
	case *cnast.BlockStmt:
		inner := scope.New(scope.Block, sc)
		a.blocks[st] = inner
		for _, c := range st.Stmts {
			a.buildStmtScope(inner, c)
		}
	case *cnast.IfStmt:
		a.buildStmtScope(sc, st.Then)
		if st.Else != nil {
			a.buildStmtScope(sc, st.Else)
		}
	case *cnast.WhileStmt:
		a.buildStmtScope(sc, st.Body)
	case *cnast.ForStmt:
		forScope := scope.New(scope.Block, sc)
		if st.Init != nil {
			a.buildStmtScope(forScope, st.Init)
		}
		inner := scope.New(scope.Block, forScope)
		a.blocks[st.Body] = inner
		for _, c := range st.Body.Stmts {
			a.buildStmtScope(inner, c)
		}
	case *cnast.SwitchStmt:
		for _, c := range st.Cases {
			a.buildStmtScope(sc, c.Body)
		}
	}
}
