// Package tova is the stable, embeddable entry point into the compiler
// core: one function, Compile, that turns Tova source text into the
// outbound object spec §6 describes. CLI commands and the language server
// both sit on top of this package rather than wiring the internal stages
// themselves -- the same split the teacher draws between `pkg/api`
// (stable, documented) and `internal/*` (free to change).
package tova

import (
	"github.com/tova-lang/tova/internal/analyzer"
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/codegen"
	"github.com/tova-lang/tova/internal/config"
	"github.com/tova-lang/tova/internal/deploy"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/lexer"
	"github.com/tova-lang/tova/internal/parser"
)

// Diagnostics is the `{errors, warnings}` half of the outbound object
// (spec §6).
type Diagnostics struct {
	Errors   []diagnostic.Diagnostic
	Warnings []diagnostic.Diagnostic
}

// Result is the compiler's full outbound shape (spec §6 "Compiler output
// (outbound)").
type Result struct {
	Shared         string
	Server         string
	Browser        string
	Test           string
	Bench          string
	IsModule       bool
	SourceMappings []codegen.SourceMapping
	Diagnostics    Diagnostics
	DeployManifest *deploy.Manifest

	// AST and Scope are exposed beyond spec §6's minimal outbound shape for
	// in-process collaborators (the LSP server, `tova doc`) that need the
	// tree and symbol table directly rather than re-parsing emitted JS.
	AST   *ast.Program
	Scope *analyzer.Result
}

// Compile runs the full pipeline -- lex, parse, analyze, generate, infer
// deployment -- over one source file (spec §5 "One compilation consumes
// one source file and produces its outputs in sequence").
//
// In strict, non-tolerant mode the first error aborts the whole pipeline;
// Compile recovers both abort signals -- diagnostic.Fatal from the parser
// and analyzer, lexer.LexerPanic from the lexer's own always-fatal lexical
// errors -- and returns a Result whose Diagnostics.Errors holds exactly
// that one error, with every other field at its zero value (spec §7 "the
// first error aborts with an exception carrying the full list so far").
func Compile(src, file string, opts config.CompileOptions) (result *Result) {
	bag := &diagnostic.Bag{Tolerant: opts.Tolerant}
	result = &Result{}

	defer func() {
		if r := recover(); r != nil {
			switch r.(type) {
			case diagnostic.Fatal, lexer.LexerPanic:
				// both unwind paths already recorded their diagnostic in bag
				// before panicking (diagnostic.Bag.Add, lexer.fail).
			default:
				panic(r)
			}
			result.Diagnostics = Diagnostics{Errors: bag.Errors(), Warnings: bag.Warnings()}
		}
	}()

	toks := lexer.Tokenize(src, file, bag)
	prog := parser.Parse(toks, file, bag, parser.Options{Tolerant: opts.Tolerant})

	analysis := analyzer.Analyze(prog, bag, analyzer.Options{Tolerant: opts.Tolerant, Strict: opts.Strict})

	out := codegen.Generate(prog, analysis.BlockScopes, analysis.Types)
	manifest := deploy.Infer(prog)

	result.Shared = out.Shared
	result.Server = out.Server
	result.Browser = out.Browser
	result.Test = out.Test
	result.Bench = out.Bench
	result.IsModule = out.IsModule
	result.SourceMappings = out.SourceMappings
	result.Diagnostics = Diagnostics{Errors: bag.Errors(), Warnings: bag.Warnings()}
	result.DeployManifest = manifest
	result.AST = prog
	result.Scope = analysis
	return result
}
