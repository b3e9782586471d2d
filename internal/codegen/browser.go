package codegen

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/scope"
)

// emitBrowserBlock emits a `browser { ... }` block's contents (spec §4.4
// "Browser emission").
func (e *emitter) emitBrowserBlock(b *ast.Block, sc *scope.Scope) {
	e.sc = sc
	e.needsSignalRuntime = true
	for _, d := range b.Items {
		e.emitTopLevelDecl(d, false)
	}
}

func (e *emitter) emitBrowserDecl(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.StateDecl:
		e.emitStateDecl(decl)
	case *ast.ComputedDecl:
		e.emitComputedDecl(decl)
	case *ast.EffectDecl:
		e.emitEffectDecl(decl)
	case *ast.ComponentDecl:
		e.emitComponentDecl(decl)
	case *ast.StoreDecl:
		e.emitStoreDecl(decl)
	}
}

// emitStateDecl lowers `state name = init` to
// `const [name, setName] = createSignal(init)` (spec §4.4 "Browser
// emission").
func (e *emitter) emitStateDecl(s *ast.StateDecl) {
	e.needsSignalRuntime = true
	e.writeIndent()
	e.writeString("const [" + s.Name + ", set" + capitalize(s.Name) + "] = createSignal(")
	e.emitExpr(s.Init)
	e.writeString(");\n")
}

func (e *emitter) emitComputedDecl(c *ast.ComputedDecl) {
	e.needsSignalRuntime = true
	e.writeIndent()
	e.writeString("const " + c.Name + " = createComputed(() => ")
	e.emitExpr(c.Body)
	e.writeString(");\n")
}

func (e *emitter) emitEffectDecl(eff *ast.EffectDecl) {
	e.needsSignalRuntime = true
	e.writeIndent()
	e.writeString("createEffect(() => {\n")
	e.indent++
	e.emitStmts(eff.Body)
	e.indent--
	e.writeIndent()
	e.writeString("});\n")
}

// emitComponentDecl emits a component function whose props parameter is
// destructured via per-prop getters (spec §4.4: "components emit a
// function whose props parameter is destructured, with each prop accessed
// via const p = () => __props.p"). A component named App auto-mounts on
// DOMContentLoaded.
func (e *emitter) emitComponentDecl(c *ast.ComponentDecl) {
	e.writeIndent()
	e.writeString("function " + c.Name + "(__props) {\n")
	e.indent++
	for _, p := range c.Props {
		e.writeIndent()
		e.writeString("const " + p.Name + " = () => __props." + p.Name + ";\n")
	}
	if c.Style != nil {
		id := scopeID(c.Name, c.Style.CSS)
		scoped := scopeCSS(c.Style.CSS, id)
		e.needsCSSInject = true
		e.writeIndent()
		e.writeString("tova_inject_css(" + jsStringLiteral(id) + ", " + jsStringLiteral(scoped) + ");\n")
	}
	e.emitStmts(c.Body)
	e.indent--
	e.writeIndent()
	e.writeString("}\n")
	if c.Name == "App" {
		e.writeIndent()
		e.writeString("document.addEventListener(\"DOMContentLoaded\", () => mount(App, document.body));\n")
	}
}

// emitStoreDecl emits a standalone reactive container: one signal pair per
// declared state field, plus its methods as plain functions closing over
// them (spec §4.4: store is a reactive container usable outside any one
// component).
func (e *emitter) emitStoreDecl(s *ast.StoreDecl) {
	e.writeIndent()
	e.writeString("const " + s.Name + " = (() => {\n")
	e.indent++
	for _, st := range s.States {
		e.emitStateDecl(st)
	}
	for _, m := range s.Methods {
		e.emitFunctionDecl(m, false)
	}
	e.writeIndent()
	e.writeString("return {")
	for i, st := range s.States {
		if i > 0 {
			e.writeString(", ")
		}
		e.writeString("get " + st.Name + "() { return " + st.Name + "(); }")
	}
	for _, m := range s.Methods {
		e.writeString(", " + m.Name)
	}
	e.writeString("};\n")
	e.indent--
	e.writeIndent()
	e.writeString("})();\n")
}
