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

// checkInterruptVectors rejects an interrupt-handler function whose vector
// number collides with another handler already registered in this
// translation unit, mirroring the one-handler-slot-per-vector discipline of
// the original runtime's interrupt table (src/runtime/core/interrupt.c).
// This is a recovered feature (SPEC_FULL.md §13): spec.md's distillation did
// not carry it over, but it doesn't contradict any stated Non-goal.
func (a *Analyzer) checkInterruptVectors() {
	check := func(fn *cnast.FuncDecl) {
		if !fn.IsInterrupt {
			return
		}
		if prev, exists := a.seenVectors[fn.InterruptVector]; exists {
			a.errorf(fn, diag.SEM_DUPLICATE_SYMBOL, "中断向量 %d 已被 %q 占用", fn.InterruptVector, prev)
			return
		}
		a.seenVectors[fn.InterruptVector] = fn.Name
	}
	for _, fn := range a.prog.Functions {
		check(fn)
	}
	for _, md := range a.prog.Modules {
		for _, fn := range md.Functions {
			check(fn)
		}
	}
}
