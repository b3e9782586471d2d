package parser

import (
	"strings"

	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

// parseJSX parses a JSX element or fragment (spec §4.2 "JSX"). Entered
// from parsePrimary whenever `<` appears in expression-start position,
// which already restricts it to the contexts spec §4.2 lists (after `=`,
// `=>`, `return`, `(`, `[`, `,`, `{`, an attribute `=`, or the start of a
// JSX child).
func (p *Parser) parseJSX() ast.Expr {
	loc := p.loc()
	p.advance() // '<'
	if p.at(token.Gt) {
		// fragment: <>...</>
		p.advance()
		children := p.parseJSXChildren()
		p.expectJSXCloseFragment()
		return ast.Expr{Loc: loc, Data: &ast.EJSXFragment{Children: children}}
	}
	tag := p.expect(token.Ident).Value
	el := &ast.EJSXElement{Tag: tag}
	for !p.at(token.Gt) && !p.jsxAtSelfClose() {
		el.Attrs = append(el.Attrs, p.parseJSXAttr())
	}
	if p.jsxAtSelfClose() {
		p.advance() // '/'
		p.expect(token.Gt)
		el.SelfClosing = true
		return ast.Expr{Loc: loc, Data: el}
	}
	p.expect(token.Gt)
	el.Children = p.parseJSXChildren()
	p.expectJSXCloseTag(tag)
	return ast.Expr{Loc: loc, Data: el}
}

func (p *Parser) jsxAtSelfClose() bool {
	return p.at(token.Slash)
}

func (p *Parser) expectJSXCloseFragment() {
	p.expect(token.Lt)
	p.expect(token.Slash)
	p.expect(token.Gt)
}

func (p *Parser) expectJSXCloseTag(tag string) {
	p.expect(token.Lt)
	p.expect(token.Slash)
	if p.at(token.Ident) {
		p.advance() // closing tag name, not re-validated structurally
	}
	p.expect(token.Gt)
}

// parseJSXAttr parses one attribute: plain string, `{expr}`, an event
// handler `on:name[.modifier...]`, a directive (`class:` `bind:` `in:`
// `out:` `transition:`), or a spread `{...expr}` (spec §4.2).
func (p *Parser) parseJSXAttr() ast.JSXAttr {
	loc := p.loc()
	if p.at(token.LBrace) {
		p.advance()
		if p.at(token.DotDotDot) {
			p.advance()
			v := p.parseExpr()
			p.expect(token.RBrace)
			return ast.JSXAttr{Loc: loc, Spread: true, Value: &v}
		}
		v := p.parseExpr()
		p.expect(token.RBrace)
		return ast.JSXAttr{Loc: loc, Value: &v}
	}
	name := p.expect(token.Ident).Value
	directive := ""
	var modifiers []string
	if p.at(token.Colon) {
		p.advance()
		directive = name
		name = p.expect(token.Ident).Value
		for p.at(token.Dot) {
			p.advance()
			modifiers = append(modifiers, p.expect(token.Ident).Value)
		}
	}
	attr := ast.JSXAttr{Loc: loc, Name: name, Directive: directive, Modifiers: modifiers}
	if p.at(token.Eq) {
		p.advance()
		if p.at(token.String) {
			s := p.advance().Value
			attr.String = &s
		} else if p.at(token.LBrace) {
			p.advance()
			v := p.parseExpr()
			p.expect(token.RBrace)
			attr.Value = &v
		}
		if directive == "transition" || directive == "in" || directive == "out" {
			// `={config}` already parsed above into attr.Value; mirror it
			// into Config for the transition-directive lowering pass.
			attr.Config = attr.Value
		}
	}
	return attr
}

func (p *Parser) parseJSXChildren() []ast.JSXChild {
	var children []ast.JSXChild
	for {
		if p.at(token.Lt) && p.peekAhead(1).Kind == token.Slash {
			return children
		}
		if p.at(token.EOF) {
			return children
		}
		children = append(children, p.parseJSXChild())
	}
}

func (p *Parser) parseJSXChild() ast.JSXChild {
	loc := p.loc()
	switch {
	case p.at(token.Lt):
		el := p.parseJSX()
		return ast.JSXChild{Loc: loc, Element: &el}
	case p.at(token.LBrace):
		p.advance()
		e := p.parseExpr()
		p.expect(token.RBrace)
		return ast.JSXChild{Loc: loc, Expr: &e}
	case p.at(token.KwFor):
		return p.parseJSXFor(loc)
	case p.at(token.KwIf):
		return p.parseJSXIf(loc)
	case p.at(token.String):
		return ast.JSXChild{Loc: loc, Text: p.advance().Value}
	default:
		return ast.JSXChild{Loc: loc, Text: p.collectJSXText()}
	}
}

// collectJSXText consumes raw text tokens up to the next `{`, `<`, or EOF,
// reassembling whitespace between tokens with a single space (the lexer
// already discarded the original inter-token spacing).
func (p *Parser) collectJSXText() string {
	var parts []string
	for !p.at(token.LBrace) && !p.at(token.Lt) && !p.at(token.EOF) && !p.at(token.RBrace) {
		t := p.advance()
		if t.Kind == token.Newline {
			continue
		}
		parts = append(parts, tokenText(t))
	}
	return strings.Join(parts, " ")
}

func (p *Parser) parseJSXFor(loc ast.Location) ast.JSXChild {
	p.advance() // 'for'
	pat := p.parsePattern()
	p.expect(token.KwIn)
	iter := p.parseExpr()
	var key *ast.Expr
	if p.at(token.Ident) && p.cur().Value == "key" && p.peekAhead(1).Kind == token.Eq {
		p.advance()
		p.advance()
		p.expect(token.LBrace)
		k := p.parseExpr()
		p.expect(token.RBrace)
		key = &k
	}
	p.expect(token.LBrace)
	body := p.parseJSXChildren()
	p.expect(token.RBrace)
	return ast.JSXChild{Loc: loc, For: &ast.JSXFor{Pattern: pat, Iter: iter, Key: key, Body: body}}
}

func (p *Parser) parseJSXIf(loc ast.Location) ast.JSXChild {
	p.advance() // 'if'
	cond := p.parseExpr()
	p.expect(token.LBrace)
	then := p.parseJSXChildren()
	p.expect(token.RBrace)
	var els []ast.JSXChild
	if p.at(token.KwElse) {
		p.advance()
		p.expect(token.LBrace)
		els = p.parseJSXChildren()
		p.expect(token.RBrace)
	}
	return ast.JSXChild{Loc: loc, If: &ast.JSXIf{Cond: cond, Then: then, Else: els}}
}
