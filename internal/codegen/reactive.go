package codegen

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/scope"
)

// isSignal reports whether name is a declared `state` binding in the
// current (browser) scope -- the set of names whose reads become getter
// calls and whose writes become setter calls (spec §4.4 "Browser
// emission").
func (e *emitter) isSignal(name string) bool {
	if e.sc == nil {
		return false
	}
	sym, ok := e.sc.Lookup(name)
	return ok && sym.Kind == scope.SymState
}

// readsSignal recursively checks whether expr references a name that is
// reactive: declared `state`, a `computed`, a store property access, or a
// component prop (spec §4.4 "Reactive lowering (browser target)"). Store
// property access and prop access both appear as EMember nodes on an
// identifier the scope resolves to SymStore/SymParameter, so both are
// covered by the same member-expression case.
func (e *emitter) readsSignal(x ast.Expr) bool {
	if e.sc == nil {
		return false
	}
	switch v := x.Data.(type) {
	case *ast.EIdentifier:
		sym, ok := e.sc.Lookup(v.Name)
		if !ok {
			return false
		}
		switch sym.Kind {
		case scope.SymState, scope.SymComputed, scope.SymStore, scope.SymParameter:
			return true
		}
		return false
	case *ast.EBinary:
		return e.readsSignal(v.Left) || e.readsSignal(v.Right)
	case *ast.EUnary:
		return e.readsSignal(v.Operand)
	case *ast.EMember:
		return e.readsSignal(v.Object)
	case *ast.EOptionalChain:
		return e.readsSignal(v.Object)
	case *ast.EIndex:
		return e.readsSignal(v.Object) || e.readsSignal(v.Index)
	case *ast.ECall:
		if e.readsSignal(v.Callee) {
			return true
		}
		for _, a := range v.Args {
			if e.readsSignal(a.Value) {
				return true
			}
		}
		return false
	case *ast.ETemplate:
		for _, part := range v.Parts {
			if part.Expr != nil && e.readsSignal(*part.Expr) {
				return true
			}
		}
		return false
	case *ast.EIf:
		return e.readsSignal(v.Cond) || e.readsSignal(v.Then) || (v.Else != nil && e.readsSignal(*v.Else))
	case *ast.EChainedComparison:
		for _, o := range v.Operands {
			if e.readsSignal(o) {
				return true
			}
		}
		return false
	}
	return false
}

// emitReactiveAttr wraps expr in a thunk when it reads a signal (spec
// §4.4: "wrapped in a thunk (() => ...) ... Non-reactive literals pass
// through inert"), used for JSX attribute/child/event-bound positions.
func (e *emitter) emitReactiveAttr(x ast.Expr) {
	if e.readsSignal(x) {
		e.writeString("() => ")
		e.emitExpr(x)
		return
	}
	e.emitExpr(x)
}

// emitReactiveGetter wraps expr as a getter property (spec §4.4 "for
// component props, in a getter { get name() { ... } }"), used when
// passing a reactive expression as a component prop value.
func (e *emitter) emitReactiveGetter(propName string, x ast.Expr) {
	if e.readsSignal(x) {
		e.writeString("get " + propName + "() { return ")
		e.emitExpr(x)
		e.writeString("; }")
		return
	}
	e.writeString(propName + ": ")
	e.emitExpr(x)
}
