package codegen

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/scope"
)

// emitServerBlock emits a `server [name] { ... }` block's contents (spec
// §4.4 "Server emission").
func (e *emitter) emitServerBlock(b *ast.Block, sc *scope.Scope) {
	e.sc = sc
	for _, d := range b.Items {
		e.emitTopLevelDecl(d, false)
	}
}

// emitServerDecl dispatches the server-only declaration kinds.
func (e *emitter) emitServerDecl(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.RouteDecl:
		e.emitRouteDecl(decl)
	case *ast.MiddlewareDecl:
		e.emitMiddlewareDecl(decl)
	case *ast.WebSocketDecl:
		e.emitWebSocketDecl(decl)
	case *ast.SSEDecl:
		e.emitSSEDecl(decl)
	case *ast.DBDecl:
		e.emitDBDecl(decl)
	case *ast.AIDecl:
		e.emitAIDecl(decl)
	}
}

// emitRouteDecl emits route-table registration plus the auto-generated
// `/rpc/<name>` surface for any function-identifier handler (spec §4.4:
// "fn handlers exposed this way are also reachable over /rpc/<name> ...
// which destructures {a, b} from JSON bodies to call positional
// arguments").
func (e *emitter) emitRouteDecl(r *ast.RouteDecl) {
	e.writeIndent()
	e.writeString("__route(" + jsStringLiteral(r.Method) + ", " + jsStringLiteral(r.Path) + ", ")
	e.emitExpr(r.Handler)
	e.writeString(");\n")
	if ident, ok := r.Handler.Data.(*ast.EIdentifier); ok {
		e.writeIndent()
		e.writeString("__rpc(" + jsStringLiteral(ident.Name) + ", async (body) => " + ident.Name + "(...Object.values(body)));\n")
	}
}

func (e *emitter) emitMiddlewareDecl(m *ast.MiddlewareDecl) {
	e.writeIndent()
	e.writeString("function " + m.Name + "(req, res, next) {\n")
	e.indent++
	e.emitStmts(m.Body)
	e.indent--
	e.writeIndent()
	e.writeString("}\n")
}

func (e *emitter) emitWebSocketDecl(w *ast.WebSocketDecl) {
	e.writeIndent()
	e.writeString("__ws(" + jsStringLiteral(w.Path) + ", (socket) => {\n")
	e.indent++
	e.emitStmts(w.Body)
	e.indent--
	e.writeIndent()
	e.writeString("});\n")
}

func (e *emitter) emitSSEDecl(s *ast.SSEDecl) {
	e.writeIndent()
	e.writeString("__sse(" + jsStringLiteral(s.Path) + ", (stream) => {\n")
	e.indent++
	e.emitStmts(s.Body)
	e.indent--
	e.writeIndent()
	e.writeString("});\n")
}

func (e *emitter) emitDBDecl(d *ast.DBDecl) {
	e.writeIndent()
	e.writeString("const " + d.Name + " = __db(" + jsStringLiteral(d.Name) + ", {")
	e.emitConfigMap(d.Config)
	e.writeString("});\n")
}

func (e *emitter) emitAIDecl(a *ast.AIDecl) {
	e.writeIndent()
	e.writeString("const " + a.Name + " = __ai(" + jsStringLiteral(a.Name) + ", {")
	e.emitConfigMap(a.Config)
	e.writeString("});\n")
}

func (e *emitter) emitConfigMap(cfg map[string]ast.Expr) {
	first := true
	for k, v := range cfg {
		if !first {
			e.writeString(", ")
		}
		first = false
		e.writeString(jsStringLiteral(k) + ": ")
		e.emitExpr(v)
	}
}
