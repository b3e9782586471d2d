package analyzer

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/scope"
)

// resolveExpr walks an expression resolving identifiers and recursing into
// every sub-expression (spec §4.3 "Binding resolution").
func (a *analyzer) resolveExpr(e ast.Expr, sc *scope.Scope) {
	switch ex := e.Data.(type) {
	case *ast.EIdentifier:
		a.resolveIdentifier(ex.Name, e.Loc, sc)
	case *ast.EBinary:
		a.resolveExpr(ex.Left, sc)
		a.resolveExpr(ex.Right, sc)
		a.checkBinaryOperandTypes(ex, sc)
	case *ast.EChainedComparison:
		for _, o := range ex.Operands {
			a.resolveExpr(o, sc)
		}
	case *ast.EUnary:
		a.resolveExpr(ex.Operand, sc)
	case *ast.ECall:
		a.resolveCall(ex, e.Loc, sc)
	case *ast.EMember:
		a.resolveExpr(ex.Object, sc)
	case *ast.EOptionalChain:
		a.resolveExpr(ex.Object, sc)
	case *ast.EIndex:
		a.resolveExpr(ex.Object, sc)
		a.resolveExpr(ex.Index, sc)
	case *ast.ESlice:
		a.resolveExpr(ex.Object, sc)
		if ex.Low != nil {
			a.resolveExpr(*ex.Low, sc)
		}
		if ex.High != nil {
			a.resolveExpr(*ex.High, sc)
		}
		if ex.Step != nil {
			a.resolveExpr(*ex.Step, sc)
		}
	case *ast.ERange:
		a.resolveExpr(ex.Low, sc)
		a.resolveExpr(ex.High, sc)
	case *ast.EPipe:
		a.resolveExpr(ex.Left, sc)
		a.resolveExpr(ex.Right, sc)
	case *ast.ELambda:
		child := scope.New(sc, scope.Function)
		for _, p := range ex.Params {
			a.declareSymbol(child, p.Name, scope.SymParameter, p.Loc)
		}
		if ex.Expr != nil {
			a.resolveExpr(*ex.Expr, child)
		} else {
			a.walkStmts(ex.Body, child)
		}
	case *ast.EMatch:
		a.resolveExpr(ex.Subject, sc)
		for _, arm := range ex.Arms {
			child := scope.New(sc, scope.Block)
			a.declarePatternBindings(arm.Pattern, child, false)
			if arm.Guard != nil {
				a.resolveExpr(*arm.Guard, child)
			}
			a.resolveExpr(arm.Body, child)
		}
	case *ast.EBlockExpr:
		child := scope.New(sc, scope.Block)
		a.walkStmts(ex.Body, child)
	case *ast.ESpread:
		a.resolveExpr(ex.Value, sc)
	case *ast.EPropagate:
		a.resolveExpr(ex.Value, sc)
	case *ast.EAwait:
		a.resolveExpr(ex.Value, sc)
	case *ast.EYield:
		if ex.Value != nil {
			a.resolveExpr(*ex.Value, sc)
		}
	case *ast.EIf:
		a.resolveExpr(ex.Cond, sc)
		a.resolveExpr(ex.Then, sc)
		if ex.Else != nil {
			a.resolveExpr(*ex.Else, sc)
		}
	case *ast.EIs:
		a.resolveExpr(ex.Value, sc)
		a.declarePatternBindings(ex.Pattern, sc, false)
	case *ast.EMembership:
		a.resolveExpr(ex.Value, sc)
		a.resolveExpr(ex.Iterable, sc)
	case *ast.EList:
		for _, el := range ex.Elements {
			a.resolveExpr(el, sc)
		}
	case *ast.EDict:
		for _, ent := range ex.Entries {
			if !ent.Spread {
				a.resolveExpr(ent.Key, sc)
			}
			a.resolveExpr(ent.Value, sc)
		}
	case *ast.ETuple:
		for _, el := range ex.Elements {
			a.resolveExpr(el, sc)
		}
	case *ast.EListComp:
		child := scope.New(sc, scope.Block)
		a.resolveExpr(ex.Iter, sc)
		a.declarePatternBindings(ex.Pattern, child, false)
		if ex.Cond != nil {
			a.resolveExpr(*ex.Cond, child)
		}
		a.resolveExpr(ex.Result, child)
	case *ast.EDictComp:
		child := scope.New(sc, scope.Block)
		a.resolveExpr(ex.Iter, sc)
		a.declarePatternBindings(ex.Pattern, child, false)
		if ex.Cond != nil {
			a.resolveExpr(*ex.Cond, child)
		}
		a.resolveExpr(ex.KeyResult, child)
		a.resolveExpr(ex.ValueResult, child)
	case *ast.ETemplate:
		for _, part := range ex.Parts {
			if part.Expr != nil {
				a.resolveExpr(*part.Expr, sc)
			}
		}
	case *ast.EColumnAssign:
		a.resolveExpr(ex.Value, sc)
	case *ast.EJSXElement:
		for _, attr := range ex.Attrs {
			if attr.Value != nil {
				a.resolveExpr(*attr.Value, sc)
			}
		}
		a.resolveJSXChildren(ex.Children, sc)
	case *ast.EJSXFragment:
		a.resolveJSXChildren(ex.Children, sc)
	}
}

func (a *analyzer) resolveJSXChildren(children []ast.JSXChild, sc *scope.Scope) {
	for _, c := range children {
		switch {
		case c.Expr != nil:
			a.resolveExpr(*c.Expr, sc)
		case c.Element != nil:
			a.resolveExpr(*c.Element, sc)
		case c.For != nil:
			a.resolveExpr(c.For.Iter, sc)
			child := scope.New(sc, scope.Block)
			a.declarePatternBindings(c.For.Pattern, child, false)
			if c.For.Key != nil {
				a.resolveExpr(*c.For.Key, child)
			}
			a.resolveJSXChildren(c.For.Body, child)
		case c.If != nil:
			a.resolveExpr(c.If.Cond, sc)
			a.resolveJSXChildren(c.If.Then, sc)
			a.resolveJSXChildren(c.If.Else, sc)
		}
	}
}

// resolveIdentifier implements spec §4.3 "Binding resolution": every
// identifier must resolve, except when it matches a registered peer block
// name (resolved to a namespace binding).
func (a *analyzer) resolveIdentifier(name string, loc ast.Location, sc *scope.Scope) {
	if sym, ok := sc.Lookup(name); ok {
		sym.Used = true
		return
	}
	if _, ok := a.peers[name]; ok {
		return
	}
	a.errAt(loc, diagnostic.CodeUndefinedIdentifier, "undefined identifier '"+name+"'")
}

// resolveCall resolves a call expression and, when the callee is
// `peer.fn(...)`, performs the inter-server RPC check (spec §4.3
// "Inter-server RPC"): the peer must be registered and `fn` must exist on
// it; a server calling its own name is a warning, not an error.
func (a *analyzer) resolveCall(call *ast.ECall, loc ast.Location, sc *scope.Scope) {
	if member, ok := call.Callee.Data.(*ast.EMember); ok {
		if ident, ok := member.Object.Data.(*ast.EIdentifier); ok {
			if peerBlock, isPeer := a.peers[ident.Name]; isPeer {
				if ident.Name == a.currentPeerName {
					a.warnAt(loc, diagnostic.CodeSelfRPCCall, "server '"+ident.Name+"' calling its own name is redundant")
				}
				if fns, ok := a.funcsOf[peerBlock.Name]; ok {
					if _, exists := fns[member.Name]; !exists {
						a.errAt(loc, diagnostic.CodeUnknownPeerFunction, "peer '"+ident.Name+"' has no function '"+member.Name+"'")
					}
				} else {
					a.errAt(loc, diagnostic.CodeUnknownPeerFunction, "peer '"+ident.Name+"' has no function '"+member.Name+"'")
				}
				for _, arg := range call.Args {
					a.resolveExpr(arg.Value, sc)
				}
				return
			}
		}
	}
	a.resolveExpr(call.Callee, sc)
	for _, arg := range call.Args {
		a.resolveExpr(arg.Value, sc)
	}
	a.checkArity(call, sc)
}
