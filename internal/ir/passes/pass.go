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

// Package passes implements the CN IR's optimization passes: constant
// folding and block-level dead-code elimination, run through a small
// ordered Pipeline, per spec.md §4.7. Every pass here is idempotent —
// running the default pipeline twice in a row on the same module leaves it
// unchanged the second time — and none introduces an operand that doesn't
// already resolve to a value.
package passes

import "github.com/cnlang/compiler/internal/ir"

// Pass is one optimization transformation over an IR module. Run reports
// whether it changed anything, mirroring the instrumentation idiom the
// retrieval pack's IR-optimization pipeline uses to log pass-by-pass
// progress.
type Pass interface {
	Name() string
	Run(mod *ir.Module) bool
}

// Pipeline runs an ordered sequence of passes over a module.
type Pipeline struct {
	passes []Pass
}

// NewPipeline constructs a Pipeline running exactly the given passes, in
// order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// NewDefaultPipeline constructs the pipeline spec.md §4.7 calls for:
// constant folding, then block-level dead-code elimination.
func NewDefaultPipeline() *Pipeline {
	return NewPipeline(&ConstantFolding{}, &DeadCodeElimination{})
}

// Run executes every pass in p over mod in order, reporting whether any of
// them changed the module.
func (p *Pipeline) Run(mod *ir.Module) bool {
	changed := false
	for _, pass := range p.passes {
		if pass.Run(mod) {
			changed = true
		}
	}
	return changed
}
