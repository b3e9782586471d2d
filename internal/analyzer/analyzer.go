// Package analyzer implements the semantic analyzer (spec §4.3): lexical
// scope resolution, block-context validation, cross-block RPC checking,
// and gradual type checking, run as three ordered passes over the same
// Program AST the parser produced.
//
// The pass-ordering and "accumulate or throw" error model follow the
// teacher's separation between parse-time and link-time concerns
// (internal/js_parser resolves bindings as it parses; internal/linker
// does the cross-file checks) generalized into three in-process passes
// since Tova has no cross-file linking in scope (spec §1 excludes the
// bundler/linker).
package analyzer

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/scope"
	"github.com/tova-lang/tova/internal/token"
	"github.com/tova-lang/tova/internal/types"
)

// Options mirrors spec §4.3: "{tolerant, strict}".
type Options struct {
	Tolerant bool
	Strict   bool
}

// Result is `{errors, warnings, scope, typeRegistry}` per spec §4.3.
type Result struct {
	Errors      []diagnostic.Diagnostic
	Warnings    []diagnostic.Diagnostic
	Scope       *scope.Scope
	Types       *types.Registry
	BlockScopes map[*ast.Block]*scope.Scope
}

type analyzer struct {
	bag     *diagnostic.Bag
	opts    Options
	types   *types.Registry
	module  *scope.Scope
	peers   map[string]*ast.Block // peer name -> its block, for RPC checking
	funcsOf map[string]map[string]*ast.FunctionDecl // block name -> fn name -> decl
	allFuncs map[string]*ast.FunctionDecl // every hoisted function, by bare name, for arity checks

	currentPeerName  string // "" unless inside a named server block
	currentBlockKind ast.BlockKind
}

// Analyze runs the three passes in order and returns their combined
// result. In non-tolerant mode the first error panics with
// diagnostic.Fatal (spec §4.3 "In non-tolerant mode any error throws");
// the caller (pkg/tova.Compile) recovers it.
func Analyze(prog *ast.Program, bag *diagnostic.Bag, opts Options) *Result {
	a := &analyzer{
		bag: bag, opts: opts, types: types.New(),
		peers: map[string]*ast.Block{}, funcsOf: map[string]map[string]*ast.FunctionDecl{},
		allFuncs: map[string]*ast.FunctionDecl{},
	}
	a.module = scope.New(nil, scope.Module)
	a.registerBuiltins()
	a.prePass(prog)
	blockScopes := a.declarationPass(prog)
	a.bodyPass(prog, blockScopes)
	return &Result{Errors: bag.Errors(), Warnings: bag.Warnings(), Scope: a.module, Types: a.types, BlockScopes: blockScopes}
}

// registerBuiltins seeds the module scope with the four always-known sum
// type constructors and a small stdlib surface (spec §4.3 "Register
// built-in names").
func (a *analyzer) registerBuiltins() {
	for name := range types.BuiltinConstructors {
		a.module.Declare(&scope.Symbol{Name: name, Kind: scope.SymFunction})
	}
	for _, name := range []string{"print", "len", "range", "env", "now", "parse", "fetch"} {
		a.module.Declare(&scope.Symbol{Name: name, Kind: scope.SymFunction})
	}
}

func kindToScopeKind(k ast.BlockKind) scope.Kind {
	switch k {
	case ast.BlockServer:
		return scope.Server
	case ast.BlockBrowser:
		return scope.Browser
	case ast.BlockShared:
		return scope.Shared
	case ast.BlockTest:
		return scope.Test
	case ast.BlockBench:
		return scope.Bench
	case ast.BlockSecurity:
		return scope.Security
	case ast.BlockCli:
		return scope.Cli
	}
	return scope.Block
}

func declLoc(d ast.Decl) ast.Location { return d.Loc }

func (a *analyzer) errAt(loc ast.Location, code diagnostic.Code, msg string) {
	a.bag.Add(diagnostic.Diagnostic{Severity: diagnostic.Error, Code: code, Message: msg, File: loc.File, Pos: posOf(loc)})
}

func (a *analyzer) warnAt(loc ast.Location, code diagnostic.Code, msg string) {
	a.bag.Add(diagnostic.Diagnostic{Severity: diagnostic.Warning, Code: code, Message: msg, File: loc.File, Pos: posOf(loc)})
}

func posOf(loc ast.Location) token.Pos {
	return token.Pos{Line: loc.Line, Column: loc.Column}
}
