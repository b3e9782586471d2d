package codegen

import "github.com/tova-lang/tova/internal/ast"

// emitTopLevelDecl emits one shared-scope or module-scope declaration.
// `exportPub` is true only in module-compile mode, where `pub` items emit
// as ES module exports (spec §4.4 "Partitioning": "only the shared buffer
// is populated, and pub items emit as exports").
func (e *emitter) emitTopLevelDecl(d ast.Decl, exportPub bool) {
	e.mark(d.Loc)
	switch decl := d.Data.(type) {
	case *ast.FunctionDecl:
		e.emitFunctionDecl(decl, exportPub && d.Pub)
	case *ast.TypeDecl:
		e.emitTypeDecl(decl)
	case *ast.TraitDecl, *ast.InterfaceDecl:
		// traits/interfaces are a compile-time-only contract; they emit no
		// runtime JavaScript of their own (spec §4.3 trait conformance is
		// checked by the analyzer, not enforced at runtime).
	case *ast.ImplDecl:
		e.emitImplDecl(decl)
	case *ast.ImportDecl:
		e.emitImportDecl(decl)
	case *ast.StateDecl, *ast.ComputedDecl, *ast.EffectDecl, *ast.ComponentDecl, *ast.StoreDecl:
		e.emitBrowserDecl(d.Data)
	case *ast.RouteDecl, *ast.MiddlewareDecl, *ast.WebSocketDecl, *ast.SSEDecl, *ast.DBDecl, *ast.AIDecl:
		e.emitServerDecl(d.Data)
	case *ast.ExprDecl:
		e.emitStmt(decl.Stmt)
	}
}

func (e *emitter) emitFunctionDecl(fn *ast.FunctionDecl, exportPub bool) {
	e.writeIndent()
	if exportPub {
		e.writeString("export ")
	}
	if fn.IsAsync || functionHasCrossServerCall(fn) {
		e.writeString("async ")
	}
	e.writeString("function " + fn.Name + "(")
	e.emitParams(fn.Params)
	e.writeString(") {\n")
	e.indent++
	prevReplaced := e.scalarReplaced
	e.scalarReplaced = findScalarReplacements(fn.Body)
	if functionHasPropagation(fn.Body) {
		e.needsPropagate = true
		e.writeIndent()
		e.writeString("try {\n")
		e.indent++
		e.emitStmts(fn.Body)
		e.indent--
		e.writeIndent()
		e.writeString("} catch (__e) { if (__e && __e.__tova_propagate) return __e.value; throw __e; }\n")
	} else {
		e.emitStmts(fn.Body)
	}
	e.scalarReplaced = prevReplaced
	e.indent--
	e.writeIndent()
	e.writeString("}\n")
}

func (e *emitter) emitParams(params []ast.Param) {
	for i, p := range params {
		if i > 0 {
			e.writeString(", ")
		}
		if p.IsSelf {
			continue
		}
		if p.Variadic {
			e.writeString("...")
		}
		e.writeString(p.Name)
		if p.Default != nil {
			e.writeString(" = ")
			e.emitExpr(*p.Default)
		}
	}
}

// functionHasPropagation reports whether fn's body contains a postfix `?`
// anywhere, requiring the try/catch propagation frame (spec §4.4: "every
// function body or lambda containing a propagation is wrapped in...").
func functionHasPropagation(body []ast.Stmt) bool {
	found := false
	walkStmtsForExpr(body, func(x ast.Expr) {
		if _, ok := x.Data.(*ast.EPropagate); ok {
			found = true
		}
	})
	return found
}

// functionHasCrossServerCall reports whether fn calls through a
// `peer.fn(...)` pattern anywhere in its body, which forces the function
// itself to become `async` (spec §4.4 "Functions containing cross-server
// calls become async and await the call").
func functionHasCrossServerCall(fn *ast.FunctionDecl) bool {
	found := false
	walkStmtsForExpr(fn.Body, func(x ast.Expr) {
		if call, ok := x.Data.(*ast.ECall); ok {
			if _, ok := call.Callee.Data.(*ast.EMember); ok {
				found = found || looksLikePeerCall(call)
			}
		}
	})
	return found
}

func looksLikePeerCall(call *ast.ECall) bool {
	member, ok := call.Callee.Data.(*ast.EMember)
	if !ok {
		return false
	}
	_, ok = member.Object.Data.(*ast.EIdentifier)
	return ok
}

// walkStmtsForExpr is a shallow structural walk sufficient to find
// propagation/cross-server-call markers without duplicating the full
// analyzer traversal. It builds no scopes and descends only into the
// expression kinds walkExprForExpr lists; any other expression (a lambda,
// a collection literal, a template, a match, ...) is visited itself but
// its sub-expressions are not.
func walkStmtsForExpr(stmts []ast.Stmt, visit func(ast.Expr)) {
	for _, s := range stmts {
		walkStmtForExpr(s, visit)
	}
}

func walkStmtForExpr(s ast.Stmt, visit func(ast.Expr)) {
	switch st := s.Data.(type) {
	case *ast.SAssign:
		walkExprForExpr(st.Target, visit)
		walkExprForExpr(st.Value, visit)
	case *ast.SCompoundAssign:
		walkExprForExpr(st.Target, visit)
		walkExprForExpr(st.Value, visit)
	case *ast.SVarDecl:
		if st.Value != nil {
			walkExprForExpr(*st.Value, visit)
		}
	case *ast.SLetDestructure:
		walkExprForExpr(st.Value, visit)
	case *ast.SBlock:
		walkStmtsForExpr(st.Body, visit)
	case *ast.SReturn:
		if st.Value != nil {
			walkExprForExpr(*st.Value, visit)
		}
	case *ast.SIf:
		walkExprForExpr(st.Cond, visit)
		walkStmtsForExpr(st.Then, visit)
		for _, c := range st.Elif {
			walkExprForExpr(c.Cond, visit)
			walkStmtsForExpr(c.Body, visit)
		}
		walkStmtsForExpr(st.Else, visit)
	case *ast.SFor:
		walkExprForExpr(st.Iter, visit)
		if st.Guard != nil {
			walkExprForExpr(*st.Guard, visit)
		}
		walkStmtsForExpr(st.Body, visit)
		walkStmtsForExpr(st.Else, visit)
	case *ast.SWhile:
		walkExprForExpr(st.Cond, visit)
		walkStmtsForExpr(st.Body, visit)
	case *ast.SLoop:
		walkStmtsForExpr(st.Body, visit)
	case *ast.SGuard:
		walkExprForExpr(st.Cond, visit)
		walkStmtsForExpr(st.Else, visit)
	case *ast.SWith:
		walkExprForExpr(st.Value, visit)
		walkStmtsForExpr(st.Body, visit)
	case *ast.SDefer:
		walkStmtsForExpr(st.Body, visit)
	case *ast.STryCatch:
		walkStmtsForExpr(st.Body, visit)
		walkStmtsForExpr(st.Catch, visit)
	case *ast.SExpr:
		walkExprForExpr(st.Value, visit)
	}
}

func walkExprForExpr(x ast.Expr, visit func(ast.Expr)) {
	visit(x)
	switch v := x.Data.(type) {
	case *ast.EBinary:
		walkExprForExpr(v.Left, visit)
		walkExprForExpr(v.Right, visit)
	case *ast.EUnary:
		walkExprForExpr(v.Operand, visit)
	case *ast.ECall:
		walkExprForExpr(v.Callee, visit)
		for _, a := range v.Args {
			walkExprForExpr(a.Value, visit)
		}
	case *ast.EMember:
		walkExprForExpr(v.Object, visit)
	case *ast.EPropagate:
		walkExprForExpr(v.Value, visit)
	case *ast.EIf:
		walkExprForExpr(v.Cond, visit)
		walkExprForExpr(v.Then, visit)
		if v.Else != nil {
			walkExprForExpr(*v.Else, visit)
		}
	case *ast.EAwait:
		walkExprForExpr(v.Value, visit)
	case *ast.EBlockExpr:
		walkStmtsForExpr(v.Body, visit)
	}
}

// emitTypeDecl emits a struct-shaped type as a plain constructor function,
// or a sum type as one constructor function per variant (the match
// compiler and devirtualization pass handle the hot paths; this covers
// constructing instances that escape devirtualization).
func (e *emitter) emitTypeDecl(t *ast.TypeDecl) {
	if len(t.Variants) == 0 {
		e.writeIndent()
		e.writeString("function " + t.Name + "(")
		for i, f := range t.Fields {
			if i > 0 {
				e.writeString(", ")
			}
			e.writeString(f.Name)
		}
		e.writeString(") {\n")
		e.indent++
		for _, f := range t.Fields {
			e.writeIndent()
			e.writeString("this." + f.Name + " = " + f.Name + ";\n")
		}
		e.indent--
		e.writeIndent()
		e.writeString("}\n")
		return
	}
	for _, v := range t.Variants {
		e.writeIndent()
		e.writeString("function " + v.Name + "(")
		for i, f := range v.Fields {
			if i > 0 {
				e.writeString(", ")
			}
			e.writeString(f.Name)
		}
		e.writeString(") {\n")
		e.indent++
		e.writeIndent()
		e.writeString("return { __type: " + jsStringLiteral(t.Name) + ", __tag: " + jsStringLiteral(v.Name))
		for _, f := range v.Fields {
			e.writeString(", " + f.Name + ": " + f.Name)
		}
		e.writeString(" };\n")
		e.indent--
		e.writeIndent()
		e.writeString("}\n")
	}
}

func (e *emitter) emitImplDecl(impl *ast.ImplDecl) {
	for _, m := range impl.Methods {
		e.writeIndent()
		e.writeString(impl.TypeName + ".prototype." + m.Name + " = function(")
		e.emitParams(m.Params)
		e.writeString(") {\n")
		e.indent++
		prevReplaced := e.scalarReplaced
		e.scalarReplaced = findScalarReplacements(m.Body)
		e.emitStmts(m.Body)
		e.scalarReplaced = prevReplaced
		e.indent--
		e.writeIndent()
		e.writeString("};\n")
	}
}

func (e *emitter) emitImportDecl(imp *ast.ImportDecl) {
	e.writeIndent()
	if len(imp.Names) == 0 && imp.Alias == "" {
		e.writeString("import " + jsStringLiteral(imp.Module) + ";\n")
		return
	}
	e.writeString("import ")
	if len(imp.Names) > 0 {
		e.writeString("{ ")
		for i, n := range imp.Names {
			if i > 0 {
				e.writeString(", ")
			}
			e.writeString(n)
		}
		e.writeString(" } ")
		if imp.Alias != "" {
			e.writeString("as " + imp.Alias + " ")
		}
	} else if imp.Alias != "" {
		e.writeString("* as " + imp.Alias + " ")
	}
	e.writeString("from " + jsStringLiteral(imp.Module) + ";\n")
}
