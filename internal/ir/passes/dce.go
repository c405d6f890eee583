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

package passes

import "github.com/cnlang/compiler/internal/ir"

// DeadCodeElimination removes every basic block unreachable from its
// function's entry block, per spec.md §4.7. Reachability is computed by
// traversing each block's successor list; unreachable blocks are unlinked
// from the function's block list, and every remaining block's Preds/Succs
// are pruned of references to them so the CFG invariant still holds.
type DeadCodeElimination struct{}

func (DeadCodeElimination) Name() string { return "dead-code-elimination" }

func (DeadCodeElimination) Run(mod *ir.Module) bool {
	changed := false
	for _, fn := range mod.Functions() {
		if eliminateUnreachableBlocks(fn) {
			changed = true
		}
	}
	return changed
}

func eliminateUnreachableBlocks(fn *ir.Function) bool {
	entry := fn.Entry()
	if entry == nil {
		return false
	}

	reachable := make(map[*ir.Block]bool)
	markReachable(entry, reachable)

	blocks := fn.Blocks()
	dead := make(map[*ir.Block]bool)
	for _, b := range blocks {
		if !reachable[b] {
			dead[b] = true
		}
	}
	if len(dead) == 0 {
		return false
	}

	for _, b := range blocks {
		b.Succs = pruneDead(b.Succs, dead)
		b.Preds = pruneDead(b.Preds, dead)
	}
	for b := range dead {
		fn.Unlink(b)
	}
	return true
}

func markReachable(b *ir.Block, reachable map[*ir.Block]bool) {
	if reachable[b] {
		return
	}
	reachable[b] = true
	for _, s := range b.Succs {
		markReachable(s, reachable)
	}
}

func pruneDead(list []*ir.Block, dead map[*ir.Block]bool) []*ir.Block {
	out := list[:0]
	for _, b := range list {
		if !dead[b] {
			out = append(out, b)
		}
	}
	return out
}
