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

// Package scope implements the CN scope tree used by the semantic
// analyzer's first two passes: scope construction and name resolution.
// Scopes chain by parent pointer; shallow lookup within one scope rejects
// duplicates, while resolution across the chain lets inner scopes shadow
// outer ones, innermost first.
package scope

import "github.com/cnlang/compiler/internal/cntype"

// Kind classifies what introduced a Scope.
type Kind int

const (
	Global Kind = iota
	Function
	Block
	Module
)

// SymbolKind classifies what a Symbol names.
type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	FunctionSymbol
	ParameterSymbol
	StructSymbol
	EnumSymbol
	ModuleSymbol
)

// Symbol is one name bound in a Scope.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Scope    *Scope
	Type     cntype.Type
	IsPublic bool
}

// Scope is one node of the scope tree: a kind tag, a parent pointer (nil
// for the global scope), and the symbols declared directly within it.
type Scope struct {
	Kind    Kind
	Parent  *Scope
	symbols map[string]*Symbol
	order   []string
}

// New constructs a scope of kind k, chained to parent.
func New(kind Kind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent, symbols: make(map[string]*Symbol)}
}

// Declare inserts a new symbol into s. It reports false without modifying s
// if a symbol with the same name already exists in this scope (shallow
// lookup only — shadowing an outer scope's name is allowed).
func (s *Scope) Declare(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	sym.Scope = s
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym.Name)
	return true
}

// LookupLocal reports the symbol named name declared directly in s, not
// considering any ancestor scope.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Lookup resolves name by walking from s outward through parent scopes,
// innermost first, and returns the first match.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Symbols returns every symbol declared directly in s, in declaration
// order.
func (s *Scope) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.symbols[name])
	}
	return out
}
