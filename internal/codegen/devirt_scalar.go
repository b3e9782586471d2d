package codegen

import "github.com/tova-lang/tova/internal/ast"

// scalarReplacement holds the two expressions a scalar-replaced `r = if
// cond { Ok(x) } else { Err(msg) }` declaration lowers to: the boolean tag
// and the payload for each arm (spec §4.4 "scalar replacement").
type scalarReplacement struct {
	cond       ast.Expr
	thenArg    ast.Expr
	thenHasArg bool
	elseArg    ast.Expr
	elseHasArg bool
}

// scalarReplaceMethods are the sum-type methods a replaced variable may
// still be read through; any other use of the variable disqualifies it.
var scalarReplaceMethods = map[string]bool{
	"isOk": true, "isErr": true, "isSome": true, "isNone": true,
	"unwrap": true, "unwrapOr": true,
}

// findScalarReplacements scans a function body for `var`/`let` declarations
// of the shape `r = if cond { Ok(x) } else { Err(msg) }` (or the `Some`/
// `None` pair) and returns the subset eligible for scalar replacement: `r`
// is used afterward only through isOk/isErr/isSome/isNone/unwrap/unwrapOr,
// and is never returned, passed to a function, captured in a closure, or
// reassigned (spec §4.4, the four disqualifiers).
func findScalarReplacements(body []ast.Stmt) map[string]*scalarReplacement {
	var out map[string]*scalarReplacement
	for i, s := range body {
		decl, ok := s.Data.(*ast.SVarDecl)
		if !ok || decl.Value == nil {
			continue
		}
		eif, ok := decl.Value.Data.(*ast.EIf)
		if !ok || eif.Else == nil {
			continue
		}
		thenCtor, thenArg, thenHasArg, ok1 := extractCtorBranch(eif.Then)
		elseCtor, elseArg, elseHasArg, ok2 := extractCtorBranch(*eif.Else)
		if !ok1 || !ok2 {
			continue
		}
		if !((thenCtor == "Ok" && elseCtor == "Err") || (thenCtor == "Some" && elseCtor == "None")) {
			continue
		}
		usage := analyzeScalarUsage(decl.Name, body[i+1:])
		if usage.disqualified || len(usage.methods) == 0 {
			continue
		}
		if out == nil {
			out = map[string]*scalarReplacement{}
		}
		out[decl.Name] = &scalarReplacement{
			cond: eif.Cond, thenArg: thenArg, thenHasArg: thenHasArg,
			elseArg: elseArg, elseHasArg: elseHasArg,
		}
	}
	return out
}

// extractCtorBranch unwraps an if-expression branch -- either a bare
// constructor call or a `{ Ctor(x) }` / `{ return Ctor(x) }` block -- down
// to its constructor name and argument.
func extractCtorBranch(x ast.Expr) (ctor string, arg ast.Expr, hasArg bool, ok bool) {
	block, isBlock := x.Data.(*ast.EBlockExpr)
	if !isBlock {
		return extractCtorCall(x)
	}
	if len(block.Body) != 1 {
		return "", ast.Expr{}, false, false
	}
	switch s := block.Body[0].Data.(type) {
	case *ast.SExpr:
		return extractCtorCall(s.Value)
	case *ast.SReturn:
		if s.Value == nil {
			return "", ast.Expr{}, false, false
		}
		return extractCtorCall(*s.Value)
	}
	return "", ast.Expr{}, false, false
}

func extractCtorCall(x ast.Expr) (string, ast.Expr, bool, bool) {
	if ident, ok := x.Data.(*ast.EIdentifier); ok && ident.Name == "None" {
		return "None", ast.Expr{}, false, true
	}
	call, ok := x.Data.(*ast.ECall)
	if !ok {
		return "", ast.Expr{}, false, false
	}
	ident, ok := call.Callee.Data.(*ast.EIdentifier)
	if !ok || !sumTypeCtors[ident.Name] {
		return "", ast.Expr{}, false, false
	}
	if len(call.Args) == 0 {
		return ident.Name, ast.Expr{}, false, true
	}
	if len(call.Args) != 1 {
		return "", ast.Expr{}, false, false
	}
	return ident.Name, call.Args[0].Value, true, true
}

// scalarUsage tracks whether a candidate variable's remaining uses all
// qualify for scalar replacement.
type scalarUsage struct {
	name         string
	disqualified bool
	methods      map[string]bool
}

func analyzeScalarUsage(name string, stmts []ast.Stmt) *scalarUsage {
	u := &scalarUsage{name: name, methods: map[string]bool{}}
	u.walkStmts(stmts)
	return u
}

func (u *scalarUsage) walkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		if u.disqualified {
			return
		}
		u.walkStmt(s)
	}
}

func (u *scalarUsage) walkStmt(s ast.Stmt) {
	switch st := s.Data.(type) {
	case *ast.SAssign:
		if identIs(st.Target, u.name) {
			u.disqualified = true
			return
		}
		u.walkExpr(st.Target)
		u.walkExpr(st.Value)
	case *ast.SCompoundAssign:
		if identIs(st.Target, u.name) {
			u.disqualified = true
			return
		}
		u.walkExpr(st.Target)
		u.walkExpr(st.Value)
	case *ast.SVarDecl:
		if st.Value != nil {
			u.walkExpr(*st.Value)
		}
	case *ast.SLetDestructure:
		u.walkExpr(st.Value)
	case *ast.SBlock:
		u.walkStmts(st.Body)
	case *ast.SReturn:
		if st.Value != nil {
			u.walkExpr(*st.Value)
		}
	case *ast.SIf:
		u.walkExpr(st.Cond)
		u.walkStmts(st.Then)
		for _, c := range st.Elif {
			u.walkExpr(c.Cond)
			u.walkStmts(c.Body)
		}
		u.walkStmts(st.Else)
	case *ast.SFor:
		u.walkExpr(st.Iter)
		if st.Guard != nil {
			u.walkExpr(*st.Guard)
		}
		u.walkStmts(st.Body)
		u.walkStmts(st.Else)
	case *ast.SWhile:
		u.walkExpr(st.Cond)
		u.walkStmts(st.Body)
	case *ast.SLoop:
		u.walkStmts(st.Body)
	case *ast.SGuard:
		u.walkExpr(st.Cond)
		u.walkStmts(st.Else)
	case *ast.SWith:
		u.walkExpr(st.Value)
		u.walkStmts(st.Body)
	case *ast.SDefer:
		u.walkStmts(st.Body)
	case *ast.STryCatch:
		u.walkStmts(st.Body)
		u.walkStmts(st.Catch)
	case *ast.SExpr:
		u.walkExpr(st.Value)
	}
}

// walkExpr inspects one expression for uses of the candidate variable. A
// call of the form `name.method(...)` with a recognized method is the only
// allowed use; it may appear nested inside other expressions (`if
// r.isOk() { ... }`, `a && r.isOk()`). Any other occurrence of the bare
// identifier -- returned directly, passed as an argument, an assignment
// target, an unrecognized method, captured in a closure -- disqualifies.
// This mirrors identUsedExpr's traversal so a recognized call nested
// arbitrarily deep is still found, instead of bailing out one level in.
func (u *scalarUsage) walkExpr(x ast.Expr) {
	if u.disqualified {
		return
	}
	switch v := x.Data.(type) {
	case *ast.EIdentifier:
		if v.Name == u.name {
			u.disqualified = true
		}
	case *ast.ETemplate:
		for _, p := range v.Parts {
			if p.Expr != nil {
				u.walkExpr(*p.Expr)
			}
		}
	case *ast.EBinary:
		u.walkExpr(v.Left)
		u.walkExpr(v.Right)
	case *ast.EChainedComparison:
		for _, o := range v.Operands {
			u.walkExpr(o)
		}
	case *ast.EUnary:
		u.walkExpr(v.Operand)
	case *ast.ECall:
		if member, ok := v.Callee.Data.(*ast.EMember); ok && identIs(member.Object, u.name) {
			if !scalarReplaceMethods[member.Name] {
				u.disqualified = true
				return
			}
			for _, a := range v.Args {
				if identUsedExpr(a.Value, u.name) {
					u.disqualified = true
					return
				}
			}
			u.methods[member.Name] = true
			return
		}
		u.walkExpr(v.Callee)
		for _, a := range v.Args {
			u.walkExpr(a.Value)
		}
	case *ast.EMember:
		if identIs(v.Object, u.name) {
			// a bare `r.field`/unrecognized access, not a recognized call
			u.disqualified = true
			return
		}
		u.walkExpr(v.Object)
	case *ast.EOptionalChain:
		u.walkExpr(v.Object)
	case *ast.EIndex:
		u.walkExpr(v.Object)
		u.walkExpr(v.Index)
	case *ast.ESlice:
		u.walkExpr(v.Object)
		for _, b := range []*ast.Expr{v.Low, v.High, v.Step} {
			if b != nil {
				u.walkExpr(*b)
			}
		}
	case *ast.ERange:
		u.walkExpr(v.Low)
		u.walkExpr(v.High)
	case *ast.EPipe:
		u.walkExpr(v.Left)
		u.walkExpr(v.Right)
	case *ast.ELambda:
		if lambdaUsesIdent(v, u.name) {
			u.disqualified = true
		}
	case *ast.EMatch:
		u.walkExpr(v.Subject)
		for _, arm := range v.Arms {
			if arm.Guard != nil {
				u.walkExpr(*arm.Guard)
			}
			u.walkExpr(arm.Body)
		}
	case *ast.EBlockExpr:
		u.walkStmts(v.Body)
	case *ast.ESpread:
		u.walkExpr(v.Value)
	case *ast.EPropagate:
		u.walkExpr(v.Value)
	case *ast.EAwait:
		u.walkExpr(v.Value)
	case *ast.EYield:
		if v.Value != nil {
			u.walkExpr(*v.Value)
		}
	case *ast.EIf:
		u.walkExpr(v.Cond)
		u.walkExpr(v.Then)
		if v.Else != nil {
			u.walkExpr(*v.Else)
		}
	case *ast.EIs:
		u.walkExpr(v.Value)
	case *ast.EMembership:
		u.walkExpr(v.Value)
		u.walkExpr(v.Iterable)
	case *ast.EList:
		for _, el := range v.Elements {
			u.walkExpr(el)
		}
	case *ast.EDict:
		for _, ent := range v.Entries {
			u.walkExpr(ent.Key)
			u.walkExpr(ent.Value)
		}
	case *ast.ETuple:
		for _, el := range v.Elements {
			u.walkExpr(el)
		}
	case *ast.EListComp:
		u.walkExpr(v.Result)
		u.walkExpr(v.Iter)
		if v.Cond != nil {
			u.walkExpr(*v.Cond)
		}
	case *ast.EDictComp:
		u.walkExpr(v.KeyResult)
		u.walkExpr(v.ValueResult)
		u.walkExpr(v.Iter)
		if v.Cond != nil {
			u.walkExpr(*v.Cond)
		}
	case *ast.EColumnAssign:
		u.walkExpr(v.Value)
	case *ast.EJSXElement:
		for _, a := range v.Attrs {
			if a.Value != nil {
				u.walkExpr(*a.Value)
			}
			if a.Config != nil {
				u.walkExpr(*a.Config)
			}
		}
		u.walkJSXChildren(v.Children)
	case *ast.EJSXFragment:
		u.walkJSXChildren(v.Children)
	}
}

func (u *scalarUsage) walkJSXChildren(children []ast.JSXChild) {
	for _, c := range children {
		if u.disqualified {
			return
		}
		if c.Expr != nil {
			u.walkExpr(*c.Expr)
		}
		if c.Element != nil {
			u.walkExpr(*c.Element)
		}
		if c.For != nil {
			u.walkExpr(c.For.Iter)
			if c.For.Key != nil {
				u.walkExpr(*c.For.Key)
			}
			u.walkJSXChildren(c.For.Body)
		}
		if c.If != nil {
			u.walkExpr(c.If.Cond)
			u.walkJSXChildren(c.If.Then)
			u.walkJSXChildren(c.If.Else)
		}
	}
}

func identIs(x ast.Expr, name string) bool {
	ident, ok := x.Data.(*ast.EIdentifier)
	return ok && ident.Name == name
}

func lambdaUsesIdent(l *ast.ELambda, name string) bool {
	if l.Expr != nil && identUsedExpr(*l.Expr, name) {
		return true
	}
	return identUsedStmts(l.Body, name)
}

// identUsedExpr and identUsedStmts report whether name occurs anywhere in
// the given expression/statement tree -- used conservatively as a
// disqualifying check, so every expression kind is covered even though only
// a few can ever hold a recognized method call.
func identUsedExpr(x ast.Expr, name string) bool {
	switch v := x.Data.(type) {
	case *ast.EIdentifier:
		return v.Name == name
	case *ast.ETemplate:
		for _, p := range v.Parts {
			if p.Expr != nil && identUsedExpr(*p.Expr, name) {
				return true
			}
		}
		return false
	case *ast.EBinary:
		return identUsedExpr(v.Left, name) || identUsedExpr(v.Right, name)
	case *ast.EChainedComparison:
		for _, o := range v.Operands {
			if identUsedExpr(o, name) {
				return true
			}
		}
		return false
	case *ast.EUnary:
		return identUsedExpr(v.Operand, name)
	case *ast.ECall:
		if identUsedExpr(v.Callee, name) {
			return true
		}
		for _, a := range v.Args {
			if identUsedExpr(a.Value, name) {
				return true
			}
		}
		return false
	case *ast.EMember:
		return identUsedExpr(v.Object, name)
	case *ast.EOptionalChain:
		return identUsedExpr(v.Object, name)
	case *ast.EIndex:
		return identUsedExpr(v.Object, name) || identUsedExpr(v.Index, name)
	case *ast.ESlice:
		if identUsedExpr(v.Object, name) {
			return true
		}
		for _, b := range []*ast.Expr{v.Low, v.High, v.Step} {
			if b != nil && identUsedExpr(*b, name) {
				return true
			}
		}
		return false
	case *ast.ERange:
		return identUsedExpr(v.Low, name) || identUsedExpr(v.High, name)
	case *ast.EPipe:
		return identUsedExpr(v.Left, name) || identUsedExpr(v.Right, name)
	case *ast.ELambda:
		return lambdaUsesIdent(v, name)
	case *ast.EMatch:
		if identUsedExpr(v.Subject, name) {
			return true
		}
		for _, arm := range v.Arms {
			if arm.Guard != nil && identUsedExpr(*arm.Guard, name) {
				return true
			}
			if identUsedExpr(arm.Body, name) {
				return true
			}
		}
		return false
	case *ast.EBlockExpr:
		return identUsedStmts(v.Body, name)
	case *ast.ESpread:
		return identUsedExpr(v.Value, name)
	case *ast.EPropagate:
		return identUsedExpr(v.Value, name)
	case *ast.EAwait:
		return identUsedExpr(v.Value, name)
	case *ast.EYield:
		return v.Value != nil && identUsedExpr(*v.Value, name)
	case *ast.EIf:
		if identUsedExpr(v.Cond, name) || identUsedExpr(v.Then, name) {
			return true
		}
		return v.Else != nil && identUsedExpr(*v.Else, name)
	case *ast.EIs:
		return identUsedExpr(v.Value, name)
	case *ast.EMembership:
		return identUsedExpr(v.Value, name) || identUsedExpr(v.Iterable, name)
	case *ast.EList:
		for _, el := range v.Elements {
			if identUsedExpr(el, name) {
				return true
			}
		}
		return false
	case *ast.EDict:
		for _, ent := range v.Entries {
			if identUsedExpr(ent.Key, name) || identUsedExpr(ent.Value, name) {
				return true
			}
		}
		return false
	case *ast.ETuple:
		for _, el := range v.Elements {
			if identUsedExpr(el, name) {
				return true
			}
		}
		return false
	case *ast.EListComp:
		if identUsedExpr(v.Result, name) || identUsedExpr(v.Iter, name) {
			return true
		}
		return v.Cond != nil && identUsedExpr(*v.Cond, name)
	case *ast.EDictComp:
		if identUsedExpr(v.KeyResult, name) || identUsedExpr(v.ValueResult, name) || identUsedExpr(v.Iter, name) {
			return true
		}
		return v.Cond != nil && identUsedExpr(*v.Cond, name)
	case *ast.EColumnAssign:
		return identUsedExpr(v.Value, name)
	case *ast.EJSXElement:
		for _, a := range v.Attrs {
			if a.Value != nil && identUsedExpr(*a.Value, name) {
				return true
			}
			if a.Config != nil && identUsedExpr(*a.Config, name) {
				return true
			}
		}
		return jsxChildrenUseIdent(v.Children, name)
	case *ast.EJSXFragment:
		return jsxChildrenUseIdent(v.Children, name)
	}
	return false
}

func jsxChildrenUseIdent(children []ast.JSXChild, name string) bool {
	for _, c := range children {
		if c.Expr != nil && identUsedExpr(*c.Expr, name) {
			return true
		}
		if c.Element != nil && identUsedExpr(*c.Element, name) {
			return true
		}
		if c.For != nil {
			if identUsedExpr(c.For.Iter, name) {
				return true
			}
			if c.For.Key != nil && identUsedExpr(*c.For.Key, name) {
				return true
			}
			if jsxChildrenUseIdent(c.For.Body, name) {
				return true
			}
		}
		if c.If != nil {
			if identUsedExpr(c.If.Cond, name) {
				return true
			}
			if jsxChildrenUseIdent(c.If.Then, name) || jsxChildrenUseIdent(c.If.Else, name) {
				return true
			}
		}
	}
	return false
}

func identUsedStmts(stmts []ast.Stmt, name string) bool {
	for _, s := range stmts {
		if identUsedStmt(s, name) {
			return true
		}
	}
	return false
}

func identUsedStmt(s ast.Stmt, name string) bool {
	switch st := s.Data.(type) {
	case *ast.SAssign:
		return identUsedExpr(st.Target, name) || identUsedExpr(st.Value, name)
	case *ast.SCompoundAssign:
		return identUsedExpr(st.Target, name) || identUsedExpr(st.Value, name)
	case *ast.SVarDecl:
		return st.Value != nil && identUsedExpr(*st.Value, name)
	case *ast.SLetDestructure:
		return identUsedExpr(st.Value, name)
	case *ast.SBlock:
		return identUsedStmts(st.Body, name)
	case *ast.SReturn:
		return st.Value != nil && identUsedExpr(*st.Value, name)
	case *ast.SIf:
		if identUsedExpr(st.Cond, name) || identUsedStmts(st.Then, name) {
			return true
		}
		for _, c := range st.Elif {
			if identUsedExpr(c.Cond, name) || identUsedStmts(c.Body, name) {
				return true
			}
		}
		return identUsedStmts(st.Else, name)
	case *ast.SFor:
		if identUsedExpr(st.Iter, name) {
			return true
		}
		if st.Guard != nil && identUsedExpr(*st.Guard, name) {
			return true
		}
		return identUsedStmts(st.Body, name) || identUsedStmts(st.Else, name)
	case *ast.SWhile:
		return identUsedExpr(st.Cond, name) || identUsedStmts(st.Body, name)
	case *ast.SLoop:
		return identUsedStmts(st.Body, name)
	case *ast.SGuard:
		return identUsedExpr(st.Cond, name) || identUsedStmts(st.Else, name)
	case *ast.SWith:
		return identUsedExpr(st.Value, name) || identUsedStmts(st.Body, name)
	case *ast.SDefer:
		return identUsedStmts(st.Body, name)
	case *ast.STryCatch:
		return identUsedStmts(st.Body, name) || identUsedStmts(st.Catch, name)
	case *ast.SExpr:
		return identUsedExpr(st.Value, name)
	}
	return false
}

// emitScalarReplacedAccess emits a scalar-replaced variable's method read
// directly as its tag or payload variable, skipping construction of the
// wrapper object entirely (spec §8 scenario 6: "the emission contains no
// call to Ok( or Err(").
func (e *emitter) emitScalarReplacedAccess(name, method string, call *ast.ECall) bool {
	switch method {
	case "isOk", "isSome":
		e.writeString(name + "__ok")
		return true
	case "isErr", "isNone":
		e.writeString("!" + name + "__ok")
		return true
	case "unwrap":
		e.writeString(name + "__v")
		return true
	case "unwrapOr":
		e.writeString("(" + name + "__ok ? " + name + "__v : ")
		if len(call.Args) > 0 {
			e.emitExpr(call.Args[0].Value)
		} else {
			e.writeString("undefined")
		}
		e.writeString(")")
		return true
	}
	return false
}

// emitScalarReplacementDecl lowers the declaration itself to the two
// parallel variables: the tag, evaluated once, and the payload selected by
// it (spec §4.4: "the variable r is replaced by two parallel variables
// r__ok ... and r__v").
func (e *emitter) emitScalarReplacementDecl(name string, r *scalarReplacement) {
	e.writeString("let " + name + "__ok = ")
	e.emitExpr(r.cond)
	e.writeString(";\n")
	e.writeIndent()
	e.writeString("let " + name + "__v = " + name + "__ok ? ")
	if r.thenHasArg {
		e.emitExpr(r.thenArg)
	} else {
		e.writeString("undefined")
	}
	e.writeString(" : ")
	if r.elseHasArg {
		e.emitExpr(r.elseArg)
	} else {
		e.writeString("undefined")
	}
	e.writeString(";\n")
}
