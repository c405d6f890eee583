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

package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShortArchAbi(t *testing.T) {
	tr, err := Parse("x86_64-elf")
	require.NoError(t, err)
	assert.Equal(t, ArchX86_64, tr.Arch)
	assert.Equal(t, ABIELF, tr.ABI)
	assert.Equal(t, OSFreestanding, tr.OS)
}

func TestParseArchVendorOsDefaultsAbi(t *testing.T) {
	tr, err := Parse("aarch64-unknown-linux")
	require.NoError(t, err)
	assert.Equal(t, ArchAArch64, tr.Arch)
	assert.Equal(t, OSLinux, tr.OS)
	assert.Equal(t, ABISysV, tr.ABI)
}

func TestParseFullQuadruple(t *testing.T) {
	tr, err := Parse("x86_64-pc-windows-msvc")
	require.NoError(t, err)
	assert.Equal(t, ArchX86_64, tr.Arch)
	assert.Equal(t, "pc", tr.Vendor)
	assert.Equal(t, OSWindows, tr.OS)
	assert.Equal(t, ABIMSVC, tr.ABI)
}

func TestFreestandingSpellingNone(t *testing.T) {
	tr, err := Parse("x86_64-unknown-none")
	require.NoError(t, err)
	assert.True(t, tr.Freestanding())
}

func TestFreestandingSpellingExplicit(t *testing.T) {
	tr, err := Parse("x86_64-unknown-freestanding")
	require.NoError(t, err)
	assert.True(t, tr.Freestanding())
}

func TestUnrecognizedArchIsError(t *testing.T) {
	_, err := Parse("riscv64-elf")
	assert.Error(t, err)
}

func TestMalformedTripleIsError(t *testing.T) {
	_, err := Parse("x86_64")
	assert.Error(t, err)
}

func TestPointerSizeAndEndianness(t *testing.T) {
	tr, err := Parse("aarch64-unknown-linux-sysv")
	require.NoError(t, err)
	assert.Equal(t, 8, tr.PointerSize())
	assert.True(t, tr.LittleEndian())
}
