// Package blocks implements the block plugin registry (spec §4.2 glossary
// "Plugin"): the mechanism that associates a source-level block keyword or
// identifier with its detection, parsing, analysis, and emission strategy.
//
// The registry is a process-wide, write-once table, per spec §5: "The
// block plugin registry is a process-wide, write-once table initialized
// before the first compile: registering the same plugin name twice is an
// error." This mirrors the teacher's own process-global tables (e.g. its
// `Keywords` map in js_lexer) generalized from a constant map to a
// runtime-registered one, per the "Global singletons" design note in
// spec §9: represented as an explicit init step rather than a mutable
// singleton touched from arbitrary call sites.
package blocks

import (
	"fmt"
	"sync"

	"github.com/tova-lang/tova/internal/ast"
)

// Strategy is "keyword" (a reserved token like `server`) or "identifier"
// (a plain identifier like `cli` recognized by lookahead, spec §4.2).
type Strategy uint8

const (
	KeywordStrategy Strategy = iota
	IdentifierStrategy
)

// Plugin is one block's detection/parse/analyze/emit descriptor. The core
// pipeline only needs the identity and detection metadata at the registry
// level; the parser, analyzer and code generator each keep their own
// kind-keyed dispatch tables (internal/parser, internal/analyzer,
// internal/codegen) that are looked up by BlockKind -- the registry's job
// is only to answer "is this name a block opener, and under what kind,
// and is a block of this kind singleton or multi-instance".
type Plugin struct {
	Name       string
	Kind       ast.BlockKind
	Strategy   Strategy
	Singleton  bool // true if at most one unnamed instance is meaningful
	AllowsPeer bool // true if named instances become RPC peers (spec "server")
}

// Registry is the write-once plugin table.
type Registry struct {
	mu      sync.Mutex
	plugins map[string]Plugin
	sealed  bool
}

// NewRegistry builds an empty, unsealed registry. Most callers should use
// Default() instead; NewRegistry exists for tests that want a clean table.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds a plugin. Registering the same name twice is an error
// (spec §5), as is registering after the registry has been sealed.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("blocks: registry sealed, cannot register %q", p.Name)
	}
	if _, exists := r.plugins[p.Name]; exists {
		return fmt.Errorf("blocks: plugin %q already registered", p.Name)
	}
	r.plugins[p.Name] = p
	return nil
}

// Seal prevents further registration. Default() calls this once per
// process lifetime after the built-in set is installed (spec §5: "in
// long-lived hosts like the LSP the registry is created once per process
// lifetime and never mutated").
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Lookup returns the plugin registered under name, if any.
func (r *Registry) Lookup(name string) (Plugin, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plugins[name]
	return p, ok
}

// All returns every registered plugin, for iteration (e.g. diagnostics
// listing available block kinds).
func (r *Registry) All() []Plugin {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry pre-populated with the nine
// built-in blocks from spec §1/§4.2, sealed so later `Register` calls from
// anywhere other than process init fail loudly.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		builtins := []Plugin{
			{Name: "server", Kind: ast.BlockServer, Strategy: KeywordStrategy, Singleton: false, AllowsPeer: true},
			{Name: "browser", Kind: ast.BlockBrowser, Strategy: KeywordStrategy, Singleton: true},
			{Name: "shared", Kind: ast.BlockShared, Strategy: KeywordStrategy, Singleton: true},
			{Name: "test", Kind: ast.BlockTest, Strategy: IdentifierStrategy, Singleton: false},
			{Name: "bench", Kind: ast.BlockBench, Strategy: IdentifierStrategy, Singleton: false},
			{Name: "cli", Kind: ast.BlockCli, Strategy: IdentifierStrategy, Singleton: true},
			{Name: "data", Kind: ast.BlockData, Strategy: IdentifierStrategy, Singleton: false},
			{Name: "security", Kind: ast.BlockSecurity, Strategy: IdentifierStrategy, Singleton: true},
			{Name: "deploy", Kind: ast.BlockDeploy, Strategy: IdentifierStrategy, Singleton: true},
		}
		for _, p := range builtins {
			if err := defaultReg.Register(p); err != nil {
				panic(err) // process-init invariant violation, not a user-facing error
			}
		}
		defaultReg.Seal()
	})
	return defaultReg
}
