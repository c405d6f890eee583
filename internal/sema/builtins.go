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
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/scope"
)

// builtin names the spec's hosted I/O surface (spec.md end-to-end scenario
// 1, §6's cn_rt_print_*/cn_rt_read_* runtime names). 打印 takes a single
// argument of whatever printable type the call site passes; declaring its
// parameter Unknown lets cntype.Compatible accept int, bool, string or
// float without a real overload facility. internal/ir's generator picks the
// concrete cn_rt_print_<kind> runtime entry point from the argument's
// resolved type at the call site.
type builtin struct {
	name   string
	params []cntype.Type
	ret    cntype.Type
}

var builtinFuncs = []builtin{
	{name: "打印", params: []cntype.Type{cntype.UnknownType}, ret: cntype.VoidType},
	{name: "读取整数", params: nil, ret: cntype.IntType},
	{name: "读取行", params: nil, ret: cntype.StringType},
}

// declareBuiltins registers the hosted I/O builtins into the global scope
// before any user declaration, so a program that names one of its own
// functions 打印 (etc.) gets the ordinary SEM_DUPLICATE_SYMBOL diagnostic
// rather than silently shadowing the runtime surface.
func (a *Analyzer) declareBuiltins() {
	for _, b := range builtinFuncs {
		a.global.Declare(&scope.Symbol{
			Name: b.name,
			Kind: scope.FunctionSymbol,
			Type: cntype.FunctionOf(b.ret, b.params),
		})
	}
}
