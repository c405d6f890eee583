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

// Command cnc is the CN compiler driver: it runs every phase in order —
// preprocess, lex+parse, analyze, lower to IR, optimize, emit C — aborting
// with a nonzero exit code and the accumulated diagnostics the moment any
// phase reports an error. It does not invoke a C compiler on its output.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cnlang/compiler/internal/cbackend"
	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/ir"
	"github.com/cnlang/compiler/internal/ir/passes"
	"github.com/cnlang/compiler/internal/parser"
	"github.com/cnlang/compiler/internal/preprocessor"
	"github.com/cnlang/compiler/internal/sema"
	"github.com/cnlang/compiler/internal/target"
)

func main() {
	out := flag.String("o", "", "output .c path (default: input path with .c extension)")
	triple := flag.String("target", "x86_64-unknown-linux-sysv", "target triple")
	freestanding := flag.Bool("freestanding", false, "reject hosted-runtime calls")
	noOpt := flag.Bool("no-opt", false, "skip the constant-folding/dead-code-elimination pipeline")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cnc [flags] <input.cn>")
		os.Exit(2)
	}
	inputPath := flag.Arg(0)
	outputPath := *out
	if outputPath == "" {
		outputPath = withExtension(inputPath, ".c")
	}

	tr, err := target.Parse(*triple)
	if err != nil {
		log.Fatalf("cnc: invalid target triple %q: %v", *triple, err)
	}

	source, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("cnc: %v", err)
	}

	var diags diag.Bag

	pp := preprocessor.New(source, inputPath, &diags)
	preprocessed, ok := pp.Process()
	if !ok || abortOnErrors(&diags, "preprocess") {
		os.Exit(1)
	}

	builder := cnast.NewBuilder()
	p := parser.New(preprocessed, inputPath, &diags, builder)
	prog := p.ParseProgram()
	if abortOnErrors(&diags, "parse") {
		os.Exit(1)
	}

	sema.New(prog, inputPath, &diags, sema.Options{Freestanding: *freestanding}).Run()
	if abortOnErrors(&diags, "analyze") {
		os.Exit(1)
	}

	mod := ir.NewGenerator(tr, *freestanding).Generate(prog)
	if !*noOpt {
		passes.NewDefaultPipeline().Run(mod)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("cnc: %v", err)
	}
	defer f.Close()

	if err := cbackend.Emit(f, mod, prog); err != nil {
		os.Remove(outputPath)
		log.Fatalf("cnc: emitting %s: %v", outputPath, err)
	}

	log.Printf("cnc: wrote %s", outputPath)
}

// abortOnErrors prints every diagnostic recorded so far and reports whether
// the driver should stop the pipeline at phase.
func abortOnErrors(diags *diag.Bag, phase string) bool {
	if !diags.HasErrors() {
		return false
	}
	diags.Fprint(os.Stderr)
	log.Printf("cnc: aborting after %s: %d error(s)", phase, diags.ErrorCount())
	return true
}

func withExtension(path, ext string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ext
		}
	}
	return path + ext
}
