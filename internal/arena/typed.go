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

import "unsafe"

// Alloc returns a pointer to a zero-valued T backed by arena storage. T
// should not contain pointers back into a shorter-lived stack frame.
func Alloc[T any](a *Arena) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))
	buf := a.allocBytes(size, align)
	p := (*T)(unsafe.Pointer(&buf[0]))
	*p = zero
	return p
}

// AllocSlice returns a slice of n zero-valued T backed by arena storage.
func AllocSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero)) * n
	align := int(unsafe.Alignof(zero))
	buf := a.allocBytes(size, align)
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)
}
