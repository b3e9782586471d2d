package analyzer

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/scope"
)

// prePass registers every top-level block in the module scope (or as an
// RPC peer when named), per spec §4.3 pass 1.
func (a *analyzer) prePass(prog *ast.Program) {
	for _, item := range prog.Items {
		if item.Block == nil {
			continue
		}
		b := item.Block
		if b.Kind == ast.BlockServer && b.Name != "" {
			if _, exists := a.peers[b.Name]; exists {
				a.errAt(b.Loc, diagnostic.CodeDuplicateDefinition, "duplicate server block name '"+b.Name+"'")
				continue
			}
			a.peers[b.Name] = b
			a.module.Declare(&scope.Symbol{Name: b.Name, Kind: scope.SymNamespace, Location: b.Loc})
		}
	}
}

// declarationPass creates one child scope per block and hoists its
// top-level declarations, registering type/trait/impl metadata into the
// type registry (spec §4.3 pass 2).
func (a *analyzer) declarationPass(prog *ast.Program) map[*ast.Block]*scope.Scope {
	scopes := map[*ast.Block]*scope.Scope{}
	for _, item := range prog.Items {
		if item.Block != nil {
			b := item.Block
			sc := scope.New(a.module, kindToScopeKind(b.Kind))
			scopes[b] = sc
			a.hoistDecls(b.Items, sc, b)
			continue
		}
		a.hoistOneDecl(item.Decl, a.module, nil)
	}
	return scopes
}

func (a *analyzer) hoistDecls(items []ast.Decl, sc *scope.Scope, block *ast.Block) {
	for _, d := range items {
		a.hoistOneDecl(d, sc, block)
	}
}

func (a *analyzer) hoistOneDecl(d ast.Decl, sc *scope.Scope, block *ast.Block) {
	switch decl := d.Data.(type) {
	case *ast.FunctionDecl:
		a.declareSymbol(sc, decl.Name, scope.SymFunction, d.Loc)
		a.allFuncs[decl.Name] = decl
		if block != nil && block.Name != "" {
			if a.funcsOf[block.Name] == nil {
				a.funcsOf[block.Name] = map[string]*ast.FunctionDecl{}
			}
			a.funcsOf[block.Name][decl.Name] = decl
		}
	case *ast.TypeDecl:
		a.types.DeclareType(decl)
		a.declareSymbol(sc, decl.Name, scope.SymType, d.Loc)
		for _, v := range decl.Variants {
			a.declareSymbol(sc, v.Name, scope.SymFunction, v.Loc)
		}
	case *ast.TraitDecl:
		a.types.DeclareTrait(decl.Name, decl.Methods)
	case *ast.InterfaceDecl:
		a.types.DeclareTrait(decl.Name, decl.Methods)
	case *ast.ImplDecl:
		a.types.DeclareImpl(decl)
	case *ast.StateDecl:
		if sc.GetContext() != scope.Browser && sc.Kind != scope.Browser {
			a.errAt(d.Loc, diagnostic.CodeBlockKindViolation, "'state' is only valid inside a browser/client scope")
		}
		a.declareSymbol(sc, decl.Name, scope.SymState, d.Loc)
	case *ast.ComputedDecl:
		if sc.GetContext() != scope.Browser && sc.Kind != scope.Browser {
			a.errAt(d.Loc, diagnostic.CodeBlockKindViolation, "'computed' is only valid inside a browser/client scope")
		}
		a.declareSymbol(sc, decl.Name, scope.SymComputed, d.Loc)
	case *ast.EffectDecl:
		if sc.GetContext() != scope.Browser && sc.Kind != scope.Browser {
			a.errAt(d.Loc, diagnostic.CodeBlockKindViolation, "'effect' is only valid inside a browser/client scope")
		}
	case *ast.ComponentDecl:
		if sc.GetContext() != scope.Browser && sc.Kind != scope.Browser {
			a.errAt(d.Loc, diagnostic.CodeBlockKindViolation, "'component' is only valid inside a browser/client scope")
		}
		a.declareSymbol(sc, decl.Name, scope.SymComponent, d.Loc)
	case *ast.StoreDecl:
		if sc.GetContext() != scope.Browser && sc.Kind != scope.Browser {
			a.errAt(d.Loc, diagnostic.CodeBlockKindViolation, "'store' is only valid inside a browser/client scope")
		}
		a.declareSymbol(sc, decl.Name, scope.SymStore, d.Loc)
	case *ast.RouteDecl, *ast.MiddlewareDecl, *ast.WebSocketDecl, *ast.SSEDecl, *ast.DBDecl:
		if sc.Kind != scope.Server {
			a.errAt(d.Loc, diagnostic.CodeBlockKindViolation, "this declaration is only valid inside a server scope")
		}
	case *ast.ImportDecl:
		for _, n := range decl.Names {
			a.declareSymbol(sc, n, scope.SymImport, d.Loc)
		}
		if decl.Alias != "" {
			a.declareSymbol(sc, decl.Alias, scope.SymNamespace, d.Loc)
		}
	}
}

func (a *analyzer) declareSymbol(sc *scope.Scope, name string, kind scope.SymbolKind, loc ast.Location) {
	if name == "" {
		return
	}
	sym := &scope.Symbol{Name: name, Kind: kind, Location: loc, Mutable: kind == scope.SymVariable}
	if !sc.Declare(sym) {
		a.errAt(loc, diagnostic.CodeDuplicateDefinition, "'"+name+"' is already defined in this scope")
	}
}
