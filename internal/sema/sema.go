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

// Package sema implements the CN semantic analyzer: scope building, name
// resolution and type checking over a cnast.Program, plus the freestanding
// intrinsic-usage check. It is grounded on the nested-scope-with-parent
// discipline the teacher applies to directive environments in
// language/cc/source_groups.go (clone outer, shadow inner), generalized here
// from a flat macro environment to internal/scope's scope chain.
package sema

import (
	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/scope"
)

// Options configures the analysis run. Freestanding mirrors the driver flag
// described in spec.md §4.5: when set, I/O intrinsics that depend on a
// hosted C runtime are rejected.
type Options struct {
	Freestanding bool
}

// Analyzer runs the three passes plus the freestanding check over one
// Program, reporting diagnostics into diags.
type Analyzer struct {
	prog     *cnast.Program
	diags    *diag.Bag
	filename string
	opts     Options

	global *scope.Scope
	// funcSymbols maps a FuncDecl to the Symbol pass 1 declared for it.
	// Passes 2/3 find call targets through the scope chain, not this map.
	funcSymbols map[*cnast.FuncDecl]*scope.Symbol
	structs     map[string]*cnast.StructDecl

	// blocks maps every block-shaped node to the scope built for it in pass
	// 1, so passes 2/3 re-walk the same tree without rebuilding it.
	blocks blockScopes
	// funcScope maps each function to the parameter scope built for it.
	funcScope map[*cnast.FuncDecl]*scope.Scope
	// moduleBody holds each module's top-level statement list paired with
	// its pre-built scope, walked by passes 2/3.
	moduleBody []moduleWalk
	// varSymbols maps a variable declaration to the Symbol it was declared
	// as, so pass 3 can push the inferred type back onto the symbol.
	varSymbols map[*cnast.VarDeclStmt]*scope.Symbol

	// currentReturn is the enclosing function's declared return type during
	// pass 3, used to check return-statement compatibility.
	currentReturn cntype.Type
	// seenVectors tracks interrupt vector numbers already claimed in this
	// translation unit, for the supplemented collision check (SPEC_FULL.md §13).
	seenVectors map[int]string
}

// New constructs an Analyzer for prog. filename is used for diagnostic
// locations.
func New(prog *cnast.Program, filename string, diags *diag.Bag, opts Options) *Analyzer {
	return &Analyzer{
		prog:        prog,
		diags:       diags,
		filename:    filename,
		opts:        opts,
		funcSymbols: make(map[*cnast.FuncDecl]*scope.Symbol),
		structs:     make(map[string]*cnast.StructDecl),
		seenVectors: make(map[int]string),
		varSymbols:  make(map[*cnast.VarDeclStmt]*scope.Symbol),
	}
}

// Run executes all passes in order. It does not stop early on errors within a
// pass (so a caller sees every diagnostic from that pass), but callers should
// check diags.HasErrors() between calling Run and trusting downstream
// results (e.g. feeding the IR builder), per the diag.Bag contract.
func (a *Analyzer) Run() {
	for _, sd := range a.prog.Structs {
		a.structs[sd.Name] = sd
	}

	a.global = scope.New(scope.Global, nil)
	a.buildScopes()
	a.resolveNames(a.global)
	a.checkTypes()
	a.checkInterruptVectors()
	if a.opts.Freestanding {
		a.checkFreestanding()
	}
}

func (a *Analyzer) errorf(loc cnast.Node, code diag.Code, format string, args ...any) {
	pos := loc.Pos()
	a.diags.Errorf(code, a.filename, pos.Line, pos.Column, format, args...)
}
