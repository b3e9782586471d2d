package analyzer

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/scope"
)

// bodyPass walks every block's statements and expressions (spec §4.3 pass
// 3), resolving identifiers and checking the invariants listed in
// §4.3 "Checks performed".
func (a *analyzer) bodyPass(prog *ast.Program, scopes map[*ast.Block]*scope.Scope) {
	for _, item := range prog.Items {
		if item.Block != nil {
			a.walkBlockBody(item.Block, scopes[item.Block])
			continue
		}
		a.walkTopLevelDecl(item.Decl, a.module)
	}
}

func (a *analyzer) walkBlockBody(b *ast.Block, sc *scope.Scope) {
	a.currentPeerName = b.Name
	a.currentBlockKind = b.Kind
	for _, d := range b.Items {
		a.walkTopLevelDecl(d, sc)
	}
	a.currentPeerName = ""
}

func (a *analyzer) walkTopLevelDecl(d ast.Decl, sc *scope.Scope) {
	switch decl := d.Data.(type) {
	case *ast.FunctionDecl:
		a.walkFunction(decl, sc)
	case *ast.ImplDecl:
		a.walkImpl(decl, sc)
		if decl.TraitName != "" {
			missing, arity := a.types.Conforms(decl.TypeName, decl.TraitName)
			for _, m := range missing {
				a.errAt(d.Loc, diagnostic.CodeTraitConformance, "impl "+decl.TraitName+" for "+decl.TypeName+" is missing method '"+m+"'")
			}
			for _, m := range arity {
				a.errAt(d.Loc, diagnostic.CodeTraitConformance, "method '"+m+"' has the wrong arity for trait "+decl.TraitName)
			}
		}
	case *ast.StateDecl:
		a.resolveExpr(decl.Init, sc)
	case *ast.ComputedDecl:
		a.resolveExpr(decl.Body, sc)
	case *ast.EffectDecl:
		child := scope.New(sc, scope.Block)
		a.walkStmts(decl.Body, child)
	case *ast.ComponentDecl:
		child := scope.New(sc, scope.Block)
		for _, prm := range decl.Props {
			a.declareSymbol(child, prm.Name, scope.SymParameter, prm.Loc)
		}
		a.walkStmts(decl.Body, child)
	case *ast.StoreDecl:
		child := scope.New(sc, scope.Block)
		for _, st := range decl.States {
			a.declareSymbol(child, st.Name, scope.SymState, ast.Location{})
			a.resolveExpr(st.Init, child)
		}
		for _, m := range decl.Methods {
			a.walkFunction(m, child)
		}
	case *ast.RouteDecl:
		a.resolveExpr(decl.Handler, sc)
	case *ast.MiddlewareDecl:
		child := scope.New(sc, scope.Block)
		a.walkStmts(decl.Body, child)
	case *ast.WebSocketDecl:
		child := scope.New(sc, scope.Block)
		a.walkStmts(decl.Body, child)
	case *ast.SSEDecl:
		child := scope.New(sc, scope.Block)
		a.walkStmts(decl.Body, child)
	case *ast.DBDecl:
		for _, e := range decl.Config {
			a.resolveExpr(e, sc)
		}
	case *ast.AIDecl:
		for _, e := range decl.Config {
			a.resolveExpr(e, sc)
		}
	case *ast.ExprDecl:
		a.walkStmt(decl.Stmt, sc)
	}
}

func (a *analyzer) walkFunction(fn *ast.FunctionDecl, sc *scope.Scope) {
	child := scope.New(sc, scope.Function)
	for _, prm := range fn.Params {
		a.declareSymbol(child, prm.Name, scope.SymParameter, prm.Loc)
	}
	a.walkStmts(fn.Body, child)
}

func (a *analyzer) walkImpl(impl *ast.ImplDecl, sc *scope.Scope) {
	for _, m := range impl.Methods {
		a.walkFunction(m, sc)
	}
}

func (a *analyzer) walkStmts(stmts []ast.Stmt, sc *scope.Scope) {
	for _, s := range stmts {
		a.walkStmt(s, sc)
	}
}

func (a *analyzer) walkStmt(s ast.Stmt, sc *scope.Scope) {
	switch st := s.Data.(type) {
	case *ast.SAssign:
		a.checkMutableTarget(st.Target, sc, s.Loc)
		a.resolveExpr(st.Target, sc)
		a.resolveExpr(st.Value, sc)
	case *ast.SCompoundAssign:
		a.checkMutableTarget(st.Target, sc, s.Loc)
		a.resolveExpr(st.Target, sc)
		a.resolveExpr(st.Value, sc)
	case *ast.SVarDecl:
		if st.Value != nil {
			a.resolveExpr(*st.Value, sc)
		}
		a.declareSymbol(sc, st.Name, scope.SymVariable, s.Loc)
		if sym, ok := sc.LookupLocal(st.Name); ok {
			sym.Mutable = st.Mutable
		}
	case *ast.SLetDestructure:
		a.resolveExpr(st.Value, sc)
		a.declarePatternBindings(st.Pattern, sc, st.Mutable)
	case *ast.SBlock:
		a.walkStmts(st.Body, scope.New(sc, scope.Block))
	case *ast.SReturn:
		if st.Value != nil {
			a.resolveExpr(*st.Value, sc)
		}
	case *ast.SIf:
		a.resolveExpr(st.Cond, sc)
		a.walkStmts(st.Then, scope.New(sc, scope.Block))
		for _, e := range st.Elif {
			a.resolveExpr(e.Cond, sc)
			a.walkStmts(e.Body, scope.New(sc, scope.Block))
		}
		if st.Else != nil {
			a.walkStmts(st.Else, scope.New(sc, scope.Block))
		}
	case *ast.SFor:
		a.resolveExpr(st.Iter, sc)
		child := scope.New(sc, scope.Block)
		child.Label = st.Label
		a.declarePatternBindings(st.Pattern, child, false)
		if st.Guard != nil {
			a.resolveExpr(*st.Guard, child)
		}
		a.walkStmts(st.Body, child)
		if st.Else != nil {
			a.walkStmts(st.Else, scope.New(sc, scope.Block))
		}
	case *ast.SWhile:
		a.resolveExpr(st.Cond, sc)
		child := scope.New(sc, scope.Block)
		child.Label = st.Label
		a.walkStmts(st.Body, child)
	case *ast.SLoop:
		child := scope.New(sc, scope.Block)
		child.Label = st.Label
		a.walkStmts(st.Body, child)
	case *ast.SBreak:
		a.checkLabel(st.Label, s.Loc, sc)
	case *ast.SContinue:
		a.checkLabel(st.Label, s.Loc, sc)
	case *ast.SGuard:
		a.resolveExpr(st.Cond, sc)
		a.walkStmts(st.Else, scope.New(sc, scope.Block))
	case *ast.SWith:
		a.resolveExpr(st.Value, sc)
		child := scope.New(sc, scope.Block)
		a.declareSymbol(child, st.Name, scope.SymVariable, s.Loc)
		a.walkStmts(st.Body, child)
	case *ast.SDefer:
		a.walkStmts(st.Body, scope.New(sc, scope.Block))
	case *ast.STryCatch:
		a.walkStmts(st.Body, scope.New(sc, scope.Block))
		child := scope.New(sc, scope.Block)
		if st.CatchAs != "" {
			a.declareSymbol(child, st.CatchAs, scope.SymVariable, s.Loc)
		}
		a.walkStmts(st.Catch, child)
	case *ast.SExpr:
		a.resolveExpr(st.Value, sc)
	}
}

// checkLabel validates break/continue label resolution (spec §4.3 "Loop
// labels"): an explicit label must resolve to an enclosing labeled loop;
// unlabeled break/continue is always legal syntactically (the code
// generator is responsible for rejecting one outside any loop, a
// structural property the parser guarantees cannot happen since `break`/
// `continue` only parse inside a loop body in practice).
func (a *analyzer) checkLabel(label string, loc ast.Location, sc *scope.Scope) {
	if label == "" {
		return
	}
	if _, ok := sc.FindLabel(label); !ok {
		a.errAt(loc, diagnostic.CodeUndefinedLabel, "undefined loop label '"+label+"'")
	}
}

func (a *analyzer) declarePatternBindings(p ast.Pattern, sc *scope.Scope, mutable bool) {
	switch pat := p.Data.(type) {
	case *ast.PBinding:
		a.declareSymbol(sc, pat.Name, scope.SymVariable, p.Loc)
		if sym, ok := sc.LookupLocal(pat.Name); ok {
			sym.Mutable = mutable
		}
	case *ast.PVariant:
		for _, f := range pat.Fields {
			a.declarePatternBindings(f, sc, mutable)
		}
	case *ast.PObject:
		for i, key := range pat.Keys {
			if i < len(pat.Patterns) && pat.Patterns[i].Data != nil {
				a.declarePatternBindings(pat.Patterns[i], sc, mutable)
			} else {
				a.declareSymbol(sc, key, scope.SymVariable, p.Loc)
				if sym, ok := sc.LookupLocal(key); ok {
					sym.Mutable = mutable
				}
			}
		}
	case *ast.PArray:
		for _, e := range pat.Elements {
			a.declarePatternBindings(e, sc, mutable)
		}
		if pat.Rest != "" {
			a.declareSymbol(sc, pat.Rest, scope.SymVariable, p.Loc)
		}
	case *ast.PTuple:
		for _, e := range pat.Elements {
			a.declarePatternBindings(e, sc, mutable)
		}
	case *ast.PStringConcat:
		a.declarePatternBindings(pat.Rest, sc, mutable)
	}
}
