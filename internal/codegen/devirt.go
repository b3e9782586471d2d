package codegen

import "github.com/tova-lang/tova/internal/ast"

// sumTypeCtors names the four always-known sum-type constructors (spec
// §4.4 "Devirtualization of sum types").
var sumTypeCtors = map[string]bool{"Ok": true, "Err": true, "Some": true, "None": true}

// tryEmitDevirtualized recognizes `Ctor(v).method(...)` chains and, for the
// handful of methods the runtime helpers define, emits the statically
// known result directly instead of constructing the wrapper object (spec
// §4.4: "rewritten at compile time to the statically-known value without
// constructing the object"). Chained `.map(f).map(g)` fuses into one call.
// Reports whether it handled the call (the caller falls back to the plain
// call emitter otherwise).
func (e *emitter) tryEmitDevirtualized(call *ast.ECall, loc ast.Location) bool {
	member, ok := call.Callee.Data.(*ast.EMember)
	if !ok {
		return false
	}
	if ident, ok := member.Object.Data.(*ast.EIdentifier); ok {
		if _, replaced := e.scalarReplaced[ident.Name]; replaced {
			if e.emitScalarReplacedAccess(ident.Name, member.Name, call) {
				return true
			}
		}
	}
	ctorName, arg, ok := matchConstructorCall(member.Object)
	if !ok {
		// also allow fused `.map(f).map(g)` where the inner call is itself a
		// devirtualizable `Ctor(v).map(f)` chain: g(f(v)) wrapped once.
		if inner, ok := member.Object.Data.(*ast.ECall); ok {
			if innerMember, ok := inner.Callee.Data.(*ast.EMember); ok && innerMember.Name == "map" && member.Name == "map" && len(inner.Args) == 1 && len(call.Args) == 1 {
				if innerCtor, innerArg, ok := matchConstructorCall(innerMember.Object); ok && (innerCtor == "Ok" || innerCtor == "Some") {
					e.writeString(innerCtor + "(")
					e.emitExpr(call.Args[0].Value)
					e.writeString("(")
					e.emitExpr(inner.Args[0].Value)
					e.writeString("(")
					e.emitExpr(innerArg)
					e.writeString(")))")
					return true
				}
			}
		}
		return false
	}
	switch ctorName + "." + member.Name {
	case "Ok.unwrap", "Some.unwrap":
		e.emitExpr(arg)
		return true
	case "Err.unwrap", "None.unwrap":
		e.writeString("(() => { throw new Error(\"unwrap on " + ctorName + "\"); })()")
		return true
	case "Ok.unwrapOr", "Some.unwrapOr":
		e.emitExpr(arg)
		return true
	case "Err.unwrapOr", "None.unwrapOr":
		if len(call.Args) > 0 {
			e.emitExpr(call.Args[0].Value)
		} else {
			e.writeString("undefined")
		}
		return true
	case "Ok.isOk", "Some.isSome":
		e.writeString("true")
		return true
	case "Err.isOk", "None.isSome", "Ok.isErr", "Some.isNone":
		e.writeString("false")
		return true
	case "Err.isErr", "None.isNone":
		e.writeString("true")
		return true
	case "Ok.map", "Some.map":
		if len(call.Args) == 1 {
			e.writeString(ctorName + "(")
			e.emitExpr(call.Args[0].Value)
			e.writeString("(")
			e.emitExpr(arg)
			e.writeString("))")
			return true
		}
	case "Err.map", "None.map":
		if ctorName == "None" {
			e.needsSumTypeHelper["None"] = true
			e.writeString("None")
			return true
		}
		e.writeString(ctorName + "(")
		e.emitExpr(arg)
		e.writeString(")")
		return true
	}
	return false
}

// matchConstructorCall recognizes `Ok(v)`/`Err(e)`/`Some(v)`/`None` applied
// directly, returning the constructor name and its single argument.
func matchConstructorCall(x ast.Expr) (string, ast.Expr, bool) {
	if ident, ok := x.Data.(*ast.EIdentifier); ok && ident.Name == "None" {
		return "None", ast.Expr{}, true
	}
	call, ok := x.Data.(*ast.ECall)
	if !ok {
		return "", ast.Expr{}, false
	}
	ident, ok := call.Callee.Data.(*ast.EIdentifier)
	if !ok || !sumTypeCtors[ident.Name] {
		return "", ast.Expr{}, false
	}
	if len(call.Args) != 1 {
		return "", ast.Expr{}, false
	}
	return ident.Name, call.Args[0].Value, true
}
