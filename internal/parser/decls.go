package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

// parseTopLevelDecl parses one item directly at the top level of a
// module-mode file. It accepts everything parseDeclOrStmt accepts (any
// declaration or a statement); it does not restrict the item to import,
// pub, function, type, trait or impl.
func (p *Parser) parseTopLevelDecl() ast.Decl {
	return p.parseDeclOrStmt()
}

// parseDeclOrStmt is the single entry point used both at the top level and
// inside every block body: it recognizes every declaration-introducing
// keyword and otherwise falls back to parsing one statement, wrapped as
// ExprDecl.
func (p *Parser) parseDeclOrStmt() ast.Decl {
	p.skipNewlines()
	loc := p.loc()
	doc := p.collectDocstrings()
	pub := false
	if p.at(token.KwPub) || p.at(token.KwExport) {
		pub = true
		p.advance()
	}
	var data ast.D
	switch p.cur().Kind {
	case token.KwImport:
		data = p.parseImport()
	case token.KwFn:
		data = p.parseFunction()
	case token.KwType:
		data = p.parseType()
	case token.KwTrait:
		data = p.parseTrait()
	case token.KwInterface:
		data = p.parseInterface()
	case token.KwImpl:
		data = p.parseImpl()
	case token.KwState:
		data = p.parseState()
	case token.KwComputed:
		data = p.parseComputed()
	case token.KwEffect:
		data = p.parseEffect()
	case token.KwComponent:
		data = p.parseComponent()
	case token.KwStore:
		data = p.parseStore()
	case token.KwRoute:
		data = p.parseRoute()
	case token.KwMiddleware:
		data = p.parseMiddleware()
	case token.Ident:
		switch p.cur().Value {
		case "websocket":
			data = p.parseWebSocket()
		case "sse":
			data = p.parseSSE()
		case "db":
			data = p.parseDB()
		case "ai":
			data = p.parseAI()
		default:
			data = &ast.ExprDecl{Stmt: p.parseStatement()}
		}
	default:
		data = &ast.ExprDecl{Stmt: p.parseStatement()}
	}
	return ast.Decl{Loc: loc, Data: data, Pub: pub, Docstring: docstringOf(doc)}
}

// collectDocstrings gathers a run of leading `///` tokens and attaches
// them (joined by newline) to the declaration that follows (spec §4.2
// "Docstring attachment").
func (p *Parser) collectDocstrings() []string {
	var doc []string
	for {
		p.skipNewlines()
		if p.at(token.Docstring) {
			doc = append(doc, p.advance().Value)
			continue
		}
		break
	}
	return doc
}

func (p *Parser) parseImport() ast.D {
	p.advance() // 'import'
	d := &ast.ImportDecl{}
	if p.at(token.String) {
		d.Module = p.advance().Value
		if p.at(token.KwAs) {
			p.advance()
			d.Alias = p.expect(token.Ident).Value
		}
		return d
	}
	d.Names = append(d.Names, p.expect(token.Ident).Value)
	for p.at(token.Comma) {
		p.advance()
		d.Names = append(d.Names, p.expect(token.Ident).Value)
	}
	if p.at(token.KwFrom) {
		p.advance()
		d.Module = p.expect(token.String).Value
	}
	return d
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LParen)
	var params []ast.Param
	p.skipNewlines()
	for !p.at(token.RParen) {
		params = append(params, p.parseParam())
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return params
}

func (p *Parser) parseParam() ast.Param {
	loc := p.loc()
	variadic := false
	if p.at(token.DotDotDot) {
		p.advance()
		variadic = true
	}
	name := p.expect(token.Ident).Value
	param := ast.Param{Loc: loc, Name: name, IsSelf: name == "self", Variadic: variadic}
	if p.at(token.Colon) {
		p.advance()
		t := p.parseTypeAnnotation()
		param.Type = &t
	}
	if p.at(token.Eq) {
		p.advance()
		e := p.parseExpr()
		param.Default = &e
	}
	return param
}

func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	loc := p.loc()
	if p.at(token.LBracket) {
		p.advance()
		inner := p.parseTypeAnnotation()
		p.expect(token.RBracket)
		return ast.TypeAnnotation{Loc: loc, IsArray: true, Args: []ast.TypeAnnotation{inner}}
	}
	name := p.expect(token.Ident).Value
	t := ast.TypeAnnotation{Loc: loc, Name: name}
	if p.at(token.Lt) {
		p.advance()
		for {
			arg := p.parseTypeAnnotation()
			t.Args = append(t.Args, arg)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.Gt)
	}
	if p.at(token.Question) {
		p.advance()
		t.Optional = true
	}
	return t
}

func (p *Parser) parseFunction() *ast.FunctionDecl {
	p.advance() // 'fn'
	async := false
	if p.at(token.KwAsync) {
		async = true
		p.advance()
	}
	name := p.expect(token.Ident).Value
	params := p.parseParamList()
	var ret *ast.TypeAnnotation
	if p.at(token.Arrow) {
		p.advance()
		t := p.parseTypeAnnotation()
		ret = &t
	}
	body := p.parseStmtBlock()
	return &ast.FunctionDecl{Name: name, Params: params, Return: ret, Body: body, IsAsync: async}
}

func (p *Parser) parseTypeFieldList() []ast.TypeField {
	p.expect(token.LParen)
	var fields []ast.TypeField
	p.skipNewlines()
	for !p.at(token.RParen) {
		loc := p.loc()
		name := p.expect(token.Ident).Value
		p.expect(token.Colon)
		typ := p.parseTypeAnnotation()
		fields = append(fields, ast.TypeField{Loc: loc, Name: name, Type: typ})
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return fields
}

// parseType parses `type Name(fields...)` (record) or
// `type Name = Variant(...) | Variant(...)` (sum type).
func (p *Parser) parseType() *ast.TypeDecl {
	p.advance() // 'type'
	name := p.expect(token.Ident).Value
	d := &ast.TypeDecl{Name: name}
	if p.at(token.Lt) {
		p.advance()
		for {
			d.Generics = append(d.Generics, p.expect(token.Ident).Value)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.Gt)
	}
	if p.at(token.LParen) {
		d.Fields = p.parseTypeFieldList()
		return d
	}
	p.expect(token.Eq)
	for {
		vloc := p.loc()
		vname := p.expect(token.Ident).Value
		var fields []ast.TypeField
		if p.at(token.LParen) {
			fields = p.parseTypeFieldList()
		}
		d.Variants = append(d.Variants, ast.VariantDecl{Loc: vloc, Name: vname, Fields: fields})
		if p.at(token.Pipe) {
			p.advance()
			continue
		}
		break
	}
	return d
}

func (p *Parser) parseMethodSigList() []ast.MethodSig {
	p.expect(token.LBrace)
	p.skipNewlines()
	var methods []ast.MethodSig
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		loc := p.loc()
		p.expect(token.KwFn)
		name := p.expect(token.Ident).Value
		params := p.parseParamList()
		var ret *ast.TypeAnnotation
		if p.at(token.Arrow) {
			p.advance()
			t := p.parseTypeAnnotation()
			ret = &t
		}
		methods = append(methods, ast.MethodSig{Loc: loc, Name: name, Params: params, Return: ret})
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return methods
}

func (p *Parser) parseTrait() *ast.TraitDecl {
	p.advance()
	name := p.expect(token.Ident).Value
	return &ast.TraitDecl{Name: name, Methods: p.parseMethodSigList()}
}

func (p *Parser) parseInterface() *ast.InterfaceDecl {
	p.advance()
	name := p.expect(token.Ident).Value
	return &ast.InterfaceDecl{Name: name, Methods: p.parseMethodSigList()}
}

func (p *Parser) parseImpl() *ast.ImplDecl {
	p.advance() // 'impl'
	first := p.expect(token.Ident).Value
	impl := &ast.ImplDecl{}
	if p.at(token.KwFor) {
		p.advance()
		impl.TraitName = first
		impl.TypeName = p.expect(token.Ident).Value
	} else {
		impl.TypeName = first
	}
	p.expect(token.LBrace)
	p.skipNewlines()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		p.collectDocstrings()
		impl.Methods = append(impl.Methods, p.parseFunction())
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return impl
}

func (p *Parser) parseState() *ast.StateDecl {
	p.advance()
	name := p.expect(token.Ident).Value
	d := &ast.StateDecl{Name: name}
	if p.at(token.Colon) {
		p.advance()
		t := p.parseTypeAnnotation()
		d.Type = &t
	}
	p.expect(token.Eq)
	d.Init = p.parseExpr()
	return d
}

func (p *Parser) parseComputed() *ast.ComputedDecl {
	p.advance()
	name := p.expect(token.Ident).Value
	p.expect(token.Eq)
	return &ast.ComputedDecl{Name: name, Body: p.parseExpr()}
}

func (p *Parser) parseEffect() *ast.EffectDecl {
	p.advance()
	return &ast.EffectDecl{Body: p.parseStmtBlock()}
}

func (p *Parser) parseComponent() *ast.ComponentDecl {
	p.advance()
	name := p.expect(token.Ident).Value
	var props []ast.Param
	if p.at(token.LParen) {
		props = p.parseParamList()
	}
	p.expect(token.LBrace)
	p.skipNewlines()
	var body []ast.Stmt
	var style *ast.StyleBlock
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.Ident) && p.cur().Value == "style" && p.peekAhead(1).Kind == token.LBrace {
			style = p.parseStyleBlock()
		} else {
			body = append(body, p.parseStatement())
		}
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return &ast.ComponentDecl{Name: name, Props: props, Body: body, Style: style}
}

// parseStyleBlock captures the raw CSS text between braces verbatim; CSS
// scoping (spec §4.4) is applied later by the code generator, not the
// parser, since it needs the component name which is only known once the
// enclosing ComponentDecl is fully built.
func (p *Parser) parseStyleBlock() *ast.StyleBlock {
	loc := p.loc()
	p.advance() // 'style' identifier
	p.expect(token.LBrace)
	depth := 1
	start := p.pos
	for depth > 0 && !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth == 0 {
				continue
			}
		}
		p.advance()
	}
	text := p.renderTokenRangeAsCSS(start, p.pos)
	p.expect(token.RBrace)
	return &ast.StyleBlock{Loc: loc, CSS: text}
}

// renderTokenRangeAsCSS reconstitutes CSS source text from the token
// range; since the lexer already tokenized the braces/colons/idents of the
// style body as ordinary Tova tokens, rendering concatenates their raw
// values with single spaces, which is sufficient for the css_parser
// (internal/codegen/css.go) to re-tokenize structurally.
func (p *Parser) renderTokenRangeAsCSS(from, to int) string {
	var b []byte
	for i := from; i < to; i++ {
		t := p.toks[i]
		if t.Kind == token.Newline {
			b = append(b, '\n')
			continue
		}
		b = append(b, []byte(tokenText(t))...)
		b = append(b, ' ')
	}
	return string(b)
}

func tokenText(t token.Token) string {
	if t.Value != "" {
		return t.Value
	}
	return t.Kind.String()
}

func (p *Parser) parseStore() *ast.StoreDecl {
	p.advance()
	name := p.expect(token.Ident).Value
	p.expect(token.LBrace)
	p.skipNewlines()
	d := &ast.StoreDecl{Name: name}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.at(token.KwState) {
			d.States = append(d.States, p.parseState())
		} else if p.at(token.KwFn) {
			d.Methods = append(d.Methods, p.parseFunction())
		} else {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return d
}

func (p *Parser) parseRoute() *ast.RouteDecl {
	p.advance()
	method := p.expect(token.Ident).Value
	path := p.expect(token.String).Value
	p.expect(token.FatArrow)
	handler := p.parseExpr()
	return &ast.RouteDecl{Method: method, Path: path, Handler: handler}
}

func (p *Parser) parseMiddleware() *ast.MiddlewareDecl {
	p.advance()
	name := ""
	if p.at(token.String) || p.at(token.Ident) {
		name = p.advance().Value
	}
	return &ast.MiddlewareDecl{Name: name, Body: p.parseStmtBlock()}
}

func (p *Parser) parseWebSocket() *ast.WebSocketDecl {
	p.advance() // 'websocket'
	path := p.expect(token.String).Value
	return &ast.WebSocketDecl{Path: path, Body: p.parseStmtBlock()}
}

func (p *Parser) parseSSE() *ast.SSEDecl {
	p.advance()
	path := p.expect(token.String).Value
	return &ast.SSEDecl{Path: path, Body: p.parseStmtBlock()}
}

func (p *Parser) parseConfigMap() map[string]ast.Expr {
	p.expect(token.LBrace)
	p.skipNewlines()
	cfg := map[string]ast.Expr{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		key := p.expect(token.Ident).Value
		p.expect(token.Colon)
		cfg[key] = p.parseExpr()
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(token.RBrace)
	return cfg
}

func (p *Parser) parseDB() *ast.DBDecl {
	p.advance()
	name := p.expect(token.String).Value
	return &ast.DBDecl{Name: name, Config: p.parseConfigMap()}
}

func (p *Parser) parseAI() *ast.AIDecl {
	p.advance()
	name := p.expect(token.String).Value
	return &ast.AIDecl{Name: name, Config: p.parseConfigMap()}
}
