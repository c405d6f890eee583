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

// Package target parses the compiler's target-triple string (§6) into its
// arch/vendor/os/abi components. It is consumed only through the narrow
// contract the IR builder and C backend need: pointer size and endianness
// for cast/size decisions, nothing resembling a full data-layout table.
package target

import (
	"fmt"
	"strings"
)

// Arch enumerates the recognized architectures.
type Arch int

const (
	ArchUnknown Arch = iota
	ArchX86_64
	ArchAArch64
)

func (a Arch) String() string {
	switch a {
	case ArchX86_64:
		return "x86_64"
	case ArchAArch64:
		return "aarch64"
	default:
		return "unknown"
	}
}

// OS enumerates the recognized operating systems. OSFreestanding covers both
// the `none` and `freestanding` spellings from §6.
type OS int

const (
	OSUnknown OS = iota
	OSLinux
	OSWindows
	OSFreestanding
)

func (o OS) String() string {
	switch o {
	case OSLinux:
		return "linux"
	case OSWindows:
		return "windows"
	case OSFreestanding:
		return "none"
	default:
		return "unknown"
	}
}

// ABI enumerates the recognized calling-convention/object-format ABIs.
type ABI int

const (
	ABIUnknown ABI = iota
	ABISysV
	ABIMSVC
	ABIELF
	ABIGNUEABI
)

func (a ABI) String() string {
	switch a {
	case ABISysV:
		return "sysv"
	case ABIMSVC:
		return "msvc"
	case ABIELF:
		return "elf"
	case ABIGNUEABI:
		return "gnueabi"
	default:
		return "unknown"
	}
}

// Triple is a parsed target-triple, with ABI defaulted from OS+arch if the
// input string omitted it.
type Triple struct {
	Arch   Arch
	Vendor string // opaque; "unknown" when omitted, per the common triple convention
	OS     OS
	ABI    ABI
}

var archByName = map[string]Arch{
	"x86_64":  ArchX86_64,
	"aarch64": ArchAArch64,
}

var osByName = map[string]OS{
	"linux":        OSLinux,
	"windows":      OSWindows,
	"none":         OSFreestanding,
	"freestanding": OSFreestanding,
}

var abiByName = map[string]ABI{
	"sysv":    ABISysV,
	"msvc":    ABIMSVC,
	"elf":     ABIELF,
	"gnueabi": ABIGNUEABI,
}

// Parse recognizes the three forms described in spec.md §6:
//
//	arch-vendor-os-abi   (e.g. x86_64-unknown-linux-sysv)
//	arch-vendor-os       (ABI defaulted from OS+arch)
//	arch-abi             (e.g. x86_64-elf; vendor/OS omitted)
func Parse(s string) (Triple, error) {
	parts := strings.Split(s, "-")
	switch len(parts) {
	case 2:
		return parseArchABI(parts[0], parts[1])
	case 3:
		return parseArchVendorOS(parts[0], parts[1], parts[2])
	case 4:
		return parseFull(parts[0], parts[1], parts[2], parts[3])
	default:
		return Triple{}, fmt.Errorf("target: malformed triple %q", s)
	}
}

func parseArchABI(archName, abiName string) (Triple, error) {
	arch, ok := archByName[archName]
	if !ok {
		return Triple{}, fmt.Errorf("target: unrecognized arch %q", archName)
	}
	abi, ok := abiByName[abiName]
	if !ok {
		return Triple{}, fmt.Errorf("target: unrecognized abi %q", abiName)
	}
	return Triple{Arch: arch, Vendor: "unknown", OS: osForABI(abi), ABI: abi}, nil
}

func parseArchVendorOS(archName, vendor, osName string) (Triple, error) {
	arch, ok := archByName[archName]
	if !ok {
		return Triple{}, fmt.Errorf("target: unrecognized arch %q", archName)
	}
	os, ok := osByName[osName]
	if !ok {
		return Triple{}, fmt.Errorf("target: unrecognized os %q", osName)
	}
	return Triple{Arch: arch, Vendor: vendor, OS: os, ABI: defaultABI(arch, os)}, nil
}

func parseFull(archName, vendor, osName, abiName string) (Triple, error) {
	t, err := parseArchVendorOS(archName, vendor, osName)
	if err != nil {
		return Triple{}, err
	}
	abi, ok := abiByName[abiName]
	if !ok {
		return Triple{}, fmt.Errorf("target: unrecognized abi %q", abiName)
	}
	t.ABI = abi
	return t, nil
}

// defaultABI fills in the ABI implied by an OS+arch pair that omitted one,
// per spec.md §6 ("ABI defaults").
func defaultABI(arch Arch, os OS) ABI {
	switch os {
	case OSWindows:
		return ABIMSVC
	case OSLinux:
		return ABISysV
	case OSFreestanding:
		return ABIELF
	default:
		return ABIUnknown
	}
}

// osForABI fills in the OS implied by a bare arch-abi triple, so callers
// always get a usable OS field.
func osForABI(abi ABI) OS {
	switch abi {
	case ABIMSVC:
		return OSWindows
	case ABISysV:
		return OSLinux
	case ABIELF, ABIGNUEABI:
		return OSFreestanding
	default:
		return OSUnknown
	}
}

// PointerSize returns the pointer width in bytes for t's architecture. Both
// recognized arches are 64-bit.
func (t Triple) PointerSize() int { return 8 }

// LittleEndian reports whether t's architecture is little-endian. Both
// x86_64 and the CN compiler's aarch64 target (no big-endian variant
// recognized by this core) are little-endian.
func (t Triple) LittleEndian() bool { return true }

// Freestanding reports whether code for t must avoid the hosted C runtime.
func (t Triple) Freestanding() bool { return t.OS == OSFreestanding }

func (t Triple) String() string {
	return fmt.Sprintf("%s-%s-%s-%s", t.Arch, t.Vendor, t.OS, t.ABI)
}
