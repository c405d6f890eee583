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

package preprocessor

// Macro is one entry of the macro table: either an object-like macro (no
// params) or a function-like macro whose replacement text may reference
// Params by name, including `#`-stringified references.
type Macro struct {
	Name         string
	Params       []string
	FunctionLike bool
	Replacement  string
	DefinedLine  int
}

// macroTable is an insertion-ordered map of macro name to definition.
// Redefining a name in place (matching the original implementation's
// add_macro, which replaces rather than errors) keeps lookups O(1) while
// preserving a stable iteration order for tooling that wants it.
type macroTable struct {
	byName map[string]*Macro
	order  []string
}

func newMacroTable() *macroTable {
	return &macroTable{byName: make(map[string]*Macro)}
}

func (t *macroTable) define(m Macro) {
	if _, exists := t.byName[m.Name]; !exists {
		t.order = append(t.order, m.Name)
	}
	stored := m
	t.byName[m.Name] = &stored
}

func (t *macroTable) undefine(name string) bool {
	if _, ok := t.byName[name]; !ok {
		return false
	}
	delete(t.byName, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *macroTable) lookup(name string) (*Macro, bool) {
	m, ok := t.byName[name]
	return m, ok
}

func (t *macroTable) isDefined(name string) bool {
	_, ok := t.byName[name]
	return ok
}
