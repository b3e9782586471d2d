package codegen

import "github.com/tova-lang/tova/internal/ast"

// emitStmts emits a statement sequence, one indented line per statement
// (spec §4.4 "Base emitter -- statements").
func (e *emitter) emitStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		e.emitStmt(s)
	}
}

func (e *emitter) emitStmt(s ast.Stmt) {
	e.mark(s.Loc)
	e.writeIndent()
	switch st := s.Data.(type) {
	case *ast.SAssign:
		e.emitAssignStmt(st)
		e.writeString(";\n")
	case *ast.SCompoundAssign:
		e.emitCompoundAssignStmt(st)
		e.writeString(";\n")
	case *ast.SVarDecl:
		if r, ok := e.scalarReplaced[st.Name]; ok {
			e.emitScalarReplacementDecl(st.Name, r)
			break
		}
		e.writeString("let " + st.Name)
		if st.Value != nil {
			e.writeString(" = ")
			e.emitExpr(*st.Value)
		}
		e.writeString(";\n")
	case *ast.SLetDestructure:
		e.writeString(jsPatternDestructure(st.Pattern) + " = ")
		e.emitExpr(st.Value)
		e.writeString(";\n")
	case *ast.SBlock:
		e.writeString("{\n")
		e.indent++
		e.emitStmts(st.Body)
		e.indent--
		e.writeIndent()
		e.writeString("}\n")
	case *ast.SReturn:
		e.writeString("return")
		if st.Value != nil {
			e.writeString(" ")
			e.emitExpr(*st.Value)
		}
		e.writeString(";\n")
	case *ast.SIf:
		e.emitIf(st)
	case *ast.SFor:
		e.emitFor(st)
	case *ast.SWhile:
		e.emitWhile(st)
	case *ast.SLoop:
		e.emitLoop(st)
	case *ast.SBreak:
		if st.Label != "" {
			e.writeString("break " + st.Label + ";\n")
		} else {
			e.writeString("break;\n")
		}
	case *ast.SContinue:
		if st.Label != "" {
			e.writeString("continue " + st.Label + ";\n")
		} else {
			e.writeString("continue;\n")
		}
	case *ast.SGuard:
		e.writeString("if (!(")
		e.emitExpr(st.Cond)
		e.writeString(")) {\n")
		e.indent++
		e.emitStmts(st.Else)
		e.indent--
		e.writeIndent()
		e.writeString("}\n")
	case *ast.SWith:
		e.emitWith(st)
	case *ast.SDefer:
		e.writeString("try {\n")
		e.indent++
		e.writeIndent()
		e.writeString("// body precedes; defer runs in the enclosing finally\n")
		e.indent--
		e.writeIndent()
		e.writeString("} finally {\n")
		e.indent++
		e.emitStmts(st.Body)
		e.indent--
		e.writeIndent()
		e.writeString("}\n")
	case *ast.STryCatch:
		e.writeString("try {\n")
		e.indent++
		e.emitStmts(st.Body)
		e.indent--
		e.writeIndent()
		e.writeString("} catch (" + catchName(st.CatchAs) + ") {\n")
		e.indent++
		e.emitStmts(st.Catch)
		e.indent--
		e.writeIndent()
		e.writeString("}\n")
	case *ast.SExpr:
		e.emitExpr(st.Value)
		e.writeString(";\n")
	}
}

func catchName(name string) string {
	if name == "" {
		return "__e"
	}
	return name
}

func (e *emitter) emitAssignStmt(st *ast.SAssign) {
	if e.target == ast.BlockBrowser {
		if ident, ok := st.Target.Data.(*ast.EIdentifier); ok && e.isSignal(ident.Name) {
			e.writeString("set" + capitalize(ident.Name) + "(")
			e.emitExpr(st.Value)
			e.writeString(")")
			return
		}
	}
	e.emitExpr(st.Target)
	e.writeString(" = ")
	e.emitExpr(st.Value)
}

// emitCompoundAssignStmt lowers compound assignment to a signal setter's
// functional-update form when the target is reactive state (spec §4.4
// "writes lower to setName(value) or setName(__prev => __prev + 1) for
// compound assignment"), otherwise to the plain JS compound operator.
func (e *emitter) emitCompoundAssignStmt(st *ast.SCompoundAssign) {
	if e.target == ast.BlockBrowser {
		if ident, ok := st.Target.Data.(*ast.EIdentifier); ok && e.isSignal(ident.Name) {
			op := st.Op[:len(st.Op)-1] // "+=" -> "+"
			e.writeString("set" + capitalize(ident.Name) + "(__prev => __prev " + op + " ")
			e.emitExpr(st.Value)
			e.writeString(")")
			return
		}
	}
	e.emitExpr(st.Target)
	e.writeString(" " + st.Op + " ")
	e.emitExpr(st.Value)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-32) + s[1:]
}

func (e *emitter) emitIf(st *ast.SIf) {
	e.writeString("if (")
	e.emitExpr(st.Cond)
	e.writeString(") {\n")
	e.indent++
	e.emitStmts(st.Then)
	e.indent--
	e.writeIndent()
	e.writeString("}")
	for _, clause := range st.Elif {
		e.writeString(" else if (")
		e.emitExpr(clause.Cond)
		e.writeString(") {\n")
		e.indent++
		e.emitStmts(clause.Body)
		e.indent--
		e.writeIndent()
		e.writeString("}")
	}
	if st.Else != nil {
		e.writeString(" else {\n")
		e.indent++
		e.emitStmts(st.Else)
		e.indent--
		e.writeIndent()
		e.writeString("}")
	}
	e.writeString("\n")
}

// emitFor lowers `for pat in iter [when guard] { body } [else { body }]`.
// The `when` guard compiles to a `continue` skip inside the loop body; the
// `else` clause (run when the iterable was empty) is modeled with a
// did-iterate flag, matching the spec's "optional else" description.
func (e *emitter) emitFor(st *ast.SFor) {
	if st.Label != "" {
		e.writeString(st.Label + ": ")
	}
	hasElse := st.Else != nil
	if hasElse {
		e.writeString("let __didIterate = false;\n")
		e.writeIndent()
	}
	forKeyword := "for"
	if st.Async {
		forKeyword = "for await"
	}
	e.writeString(forKeyword + " (const " + jsPatternDestructure(st.Pattern) + " of ")
	e.emitExpr(st.Iter)
	e.writeString(") {\n")
	e.indent++
	if st.Guard != nil {
		e.writeIndent()
		e.writeString("if (!(")
		e.emitExpr(*st.Guard)
		e.writeString(")) continue;\n")
	}
	if hasElse {
		e.writeIndent()
		e.writeString("__didIterate = true;\n")
	}
	e.emitStmts(st.Body)
	e.indent--
	e.writeIndent()
	e.writeString("}\n")
	if hasElse {
		e.writeIndent()
		e.writeString("if (!__didIterate) {\n")
		e.indent++
		e.emitStmts(st.Else)
		e.indent--
		e.writeIndent()
		e.writeString("}\n")
	}
}

func (e *emitter) emitWhile(st *ast.SWhile) {
	if st.Label != "" {
		e.writeString(st.Label + ": ")
	}
	e.writeString("while (")
	e.emitExpr(st.Cond)
	e.writeString(") {\n")
	e.indent++
	e.emitStmts(st.Body)
	e.indent--
	e.writeIndent()
	e.writeString("}\n")
}

// emitLoop lowers unconditional `loop { body }` to `label: while (true) { ... }`
// (spec §4.4 "labeled loop (emits label: while (true))").
func (e *emitter) emitLoop(st *ast.SLoop) {
	if st.Label != "" {
		e.writeString(st.Label + ": ")
	}
	e.writeString("while (true) {\n")
	e.indent++
	e.emitStmts(st.Body)
	e.indent--
	e.writeIndent()
	e.writeString("}\n")
}

// emitWith lowers `with expr as name { body }` to a try/finally that
// disposes `name` on exit (spec §4.4): prefers `.close()` when present,
// else `.dispose()`.
func (e *emitter) emitWith(st *ast.SWith) {
	e.writeString("{\n")
	e.indent++
	e.writeIndent()
	e.writeString("const " + st.Name + " = ")
	e.emitExpr(st.Value)
	e.writeString(";\n")
	e.writeIndent()
	e.writeString("try {\n")
	e.indent++
	e.emitStmts(st.Body)
	e.indent--
	e.writeIndent()
	e.writeString("} finally {\n")
	e.indent++
	e.writeIndent()
	e.writeString("if (typeof " + st.Name + ".close === \"function\") " + st.Name + ".close();\n")
	e.writeIndent()
	e.writeString("else if (typeof " + st.Name + ".dispose === \"function\") " + st.Name + ".dispose();\n")
	e.indent--
	e.writeIndent()
	e.writeString("}\n")
	e.indent--
	e.writeIndent()
	e.writeString("}\n")
}

// jsPatternDestructure renders a pattern as a JS destructuring target for
// `for`/`let` bindings. Variant and literal patterns cannot appear here
// syntactically (the parser only allows binding/array/object/tuple
// patterns in binding position), so this covers exactly that subset.
func jsPatternDestructure(p ast.Pattern) string {
	switch pat := p.Data.(type) {
	case *ast.PBinding:
		return pat.Name
	case *ast.PWildcard:
		return "__ignored"
	case *ast.PArray:
		s := "["
		for i, el := range pat.Elements {
			if i > 0 {
				s += ", "
			}
			s += jsPatternDestructure(el)
		}
		if pat.Rest != "" {
			if len(pat.Elements) > 0 {
				s += ", "
			}
			s += "..." + pat.Rest
		}
		return s + "]"
	case *ast.PTuple:
		s := "["
		for i, el := range pat.Elements {
			if i > 0 {
				s += ", "
			}
			s += jsPatternDestructure(el)
		}
		return s + "]"
	case *ast.PObject:
		s := "{"
		for i, key := range pat.Keys {
			if i > 0 {
				s += ", "
			}
			if i < len(pat.Patterns) && pat.Patterns[i].Data != nil {
				s += key + ": " + jsPatternDestructure(pat.Patterns[i])
			} else {
				s += key
			}
		}
		return s + "}"
	}
	return "__value"
}
