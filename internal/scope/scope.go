// Package scope implements the lexical scope and symbol model (spec §3
// "Scope"/"Symbol", §9 design note on cyclic AST-scope references).
//
// Scopes point upward to their parent only; symbols copy their AST
// location rather than referencing the node, so the scope tree never
// points back into the AST -- breaking the cycle the design notes call
// out explicitly.
package scope

import "github.com/tova-lang/tova/internal/ast"

// Kind is the scope's block kind, used by context-only declaration checks
// (spec §4.3).
type Kind string

const (
	Module  Kind = "module"
	Function Kind = "function"
	Block   Kind = "block"
	Server  Kind = "server"
	Browser Kind = "browser"
	Shared  Kind = "shared"
	Test    Kind = "test"
	Bench   Kind = "bench"
	Security Kind = "security"
	Cli     Kind = "cli"
)

// SymbolKind enumerates the kinds of names a scope can bind (spec §3
// "Symbol").
type SymbolKind string

const (
	SymVariable  SymbolKind = "variable"
	SymFunction  SymbolKind = "function"
	SymType      SymbolKind = "type"
	SymState     SymbolKind = "state"
	SymComputed  SymbolKind = "computed"
	SymEffect    SymbolKind = "effect"
	SymComponent SymbolKind = "component"
	SymStore     SymbolKind = "store"
	SymParameter SymbolKind = "parameter"
	SymImport    SymbolKind = "import"
	SymNamespace SymbolKind = "namespace"
)

// Symbol is `{name, kind, type?, mutable, location, used}` (spec §3).
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Type     *ast.TypeAnnotation
	Mutable  bool
	Location ast.Location
	Used     bool
}

// Scope is `{parent, kind, bindings}` (spec §3). Loop labels are tracked
// separately from bindings since they live in their own namespace
// (spec §4.3 "Loop labels").
type Scope struct {
	Parent   *Scope
	Kind     Kind
	Bindings map[string]*Symbol
	Label    string // non-empty when this scope is a labeled loop body
	PeerName string // non-empty when this scope is a named peer server block
}

func New(parent *Scope, kind Kind) *Scope {
	return &Scope{Parent: parent, Kind: kind, Bindings: make(map[string]*Symbol)}
}

// Declare binds name in this scope. Returns false if name is already bound
// locally (spec invariant: "A name is bound at most once per scope").
func (s *Scope) Declare(sym *Symbol) bool {
	if _, exists := s.Bindings[sym.Name]; exists {
		return false
	}
	s.Bindings[sym.Name] = sym
	return true
}

// LookupLocal checks only this scope (spec §3 "lookupLocal").
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.Bindings[name]
	return sym, ok
}

// Lookup walks the parent chain (spec §3 "lookup").
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.Bindings[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// GetContext returns the nearest enclosing server|browser|shared kind, or
// Module if none encloses this scope (spec §3 "getContext").
func (s *Scope) GetContext() Kind {
	for cur := s; cur != nil; cur = cur.Parent {
		switch cur.Kind {
		case Server, Browser, Shared:
			return cur.Kind
		}
	}
	return Module
}

// FindLabel walks upward looking for a loop scope with the given label (or,
// for an unlabeled break/continue, the nearest loop scope at all -- callers
// pass "" and check IsLoop themselves via the returned scope's Kind==Block
// marker convention below).
func (s *Scope) FindLabel(label string) (*Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Label == label && cur.Label != "" {
			return cur, true
		}
	}
	return nil, false
}
