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

package arena

import "testing"

type node struct {
	Value int
	Next  *node
}

func TestAllocDistinctPointers(t *testing.T) {
	a := New(64)
	n1 := Alloc[node](a)
	n2 := Alloc[node](a)
	if n1 == n2 {
		t.Fatalf("expected distinct allocations, got same pointer")
	}
	n1.Value = 1
	n2.Value = 2
	if n1.Value != 1 || n2.Value != 2 {
		t.Fatalf("allocations aliased: n1=%d n2=%d", n1.Value, n2.Value)
	}
}

func TestAllocSliceLength(t *testing.T) {
	a := New(64)
	s := AllocSlice[int](a, 5)
	if len(s) != 5 {
		t.Fatalf("expected length 5, got %d", len(s))
	}
	for i := range s {
		s[i] = i
	}
	for i, v := range s {
		if v != i {
			t.Fatalf("slice element %d corrupted: got %d", i, v)
		}
	}
}

func TestResetReclaimsUsage(t *testing.T) {
	a := New(64)
	Alloc[node](a)
	Alloc[node](a)
	if a.Live() != 2 {
		t.Fatalf("expected 2 live allocations, got %d", a.Live())
	}
	a.Reset()
	if a.Live() != 0 || a.Used() != 0 {
		t.Fatalf("expected reset arena to report zero usage, got live=%d used=%d", a.Live(), a.Used())
	}
}

func TestAllocSpansChunkBoundary(t *testing.T) {
	a := New(16)
	for i := 0; i < 100; i++ {
		n := Alloc[node](a)
		n.Value = i
	}
	if len(a.chunks) == 0 {
		t.Fatalf("expected allocator to have rolled over into additional chunks")
	}
}
