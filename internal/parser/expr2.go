package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

func (p *Parser) parseIfExpr() ast.Expr {
	loc := p.loc()
	p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseBlockExprOrExpr()
	e := &ast.EIf{Cond: cond, Then: then}
	if p.at(token.KwElse) {
		p.advance()
		els := p.parseBlockExprOrExpr()
		e.Else = &els
	}
	return ast.Expr{Loc: loc, Data: e}
}

func (p *Parser) parseBlockExprOrExpr() ast.Expr {
	loc := p.loc()
	if p.at(token.LBrace) {
		return ast.Expr{Loc: loc, Data: &ast.EBlockExpr{Body: p.parseStmtBlock()}}
	}
	return p.parseExpr()
}

func (p *Parser) parseMatchExpr() ast.Expr {
	loc := p.loc()
	p.advance() // 'match'
	subject := p.parseExpr()
	p.expect(token.LBrace)
	p.skipNewlines()
	m := &ast.EMatch{Subject: subject}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		armLoc := p.loc()
		pat := p.parsePattern()
		var guard *ast.Expr
		if p.at(token.KwIf) {
			p.advance()
			g := p.parseExpr()
			guard = &g
		}
		p.expect(token.FatArrow)
		body := p.parseBlockExprOrExpr()
		m.Arms = append(m.Arms, ast.MatchArm{Loc: armLoc, Pattern: pat, Guard: guard, Body: body})
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(token.RBrace)
	return ast.Expr{Loc: loc, Data: m}
}

func (p *Parser) parseListOrComprehension() ast.Expr {
	loc := p.loc()
	p.advance() // '['
	p.skipNewlines()
	if p.at(token.RBracket) {
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.EList{}}
	}
	first := p.parseExpr()
	p.skipNewlines()
	if p.at(token.KwFor) {
		p.advance()
		pat := p.parsePattern()
		p.expect(token.KwIn)
		iter := p.parseExpr()
		var cond *ast.Expr
		if p.at(token.KwIf) {
			p.advance()
			c := p.parseExpr()
			cond = &c
		}
		p.skipNewlines()
		p.expect(token.RBracket)
		return ast.Expr{Loc: loc, Data: &ast.EListComp{Result: first, Pattern: pat, Iter: iter, Cond: cond}}
	}
	list := &ast.EList{Elements: []ast.Expr{first}}
	p.skipNewlines()
	for p.at(token.Comma) {
		p.advance()
		p.skipNewlines()
		if p.at(token.RBracket) {
			break
		}
		list.Elements = append(list.Elements, p.parseExpr())
		p.skipNewlines()
	}
	p.expect(token.RBracket)
	return ast.Expr{Loc: loc, Data: list}
}

func (p *Parser) parseDictOrComprehension() ast.Expr {
	loc := p.loc()
	p.advance() // '{'
	p.skipNewlines()
	if p.at(token.RBrace) {
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.EDict{}}
	}
	if p.at(token.DotDotDot) {
		p.advance()
		first := p.parseExpr()
		d := &ast.EDict{Entries: []ast.DictEntry{{Value: first, Spread: true}}}
		return p.finishDict(loc, d)
	}
	keyExpr := p.parseExpr()
	p.skipNewlines()
	if p.at(token.Colon) {
		p.advance()
		valExpr := p.parseExpr()
		p.skipNewlines()
		if p.at(token.KwFor) {
			p.advance()
			pat := p.parsePattern()
			p.expect(token.KwIn)
			iter := p.parseExpr()
			var cond *ast.Expr
			if p.at(token.KwIf) {
				p.advance()
				c := p.parseExpr()
				cond = &c
			}
			p.skipNewlines()
			p.expect(token.RBrace)
			return ast.Expr{Loc: loc, Data: &ast.EDictComp{KeyResult: keyExpr, ValueResult: valExpr, Pattern: pat, Iter: iter, Cond: cond}}
		}
		d := &ast.EDict{Entries: []ast.DictEntry{{Key: keyExpr, Value: valExpr}}}
		return p.finishDict(loc, d)
	}
	// Otherwise this was actually a block expression parsed speculatively
	// as a dict; treat the sole expression as a single-statement block.
	p.skipNewlines()
	p.expect(token.RBrace)
	return ast.Expr{Loc: loc, Data: &ast.EBlockExpr{Body: []ast.Stmt{{Loc: loc, Data: &ast.SExpr{Value: keyExpr}}}}}
}

func (p *Parser) finishDict(loc ast.Location, d *ast.EDict) ast.Expr {
	p.skipNewlines()
	for p.at(token.Comma) {
		p.advance()
		p.skipNewlines()
		if p.at(token.RBrace) {
			break
		}
		if p.at(token.DotDotDot) {
			p.advance()
			d.Entries = append(d.Entries, ast.DictEntry{Value: p.parseExpr(), Spread: true})
			p.skipNewlines()
			continue
		}
		k := p.parseExpr()
		p.expect(token.Colon)
		v := p.parseExpr()
		d.Entries = append(d.Entries, ast.DictEntry{Key: k, Value: v})
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return ast.Expr{Loc: loc, Data: d}
}

// parseParenOrLambdaOrTuple disambiguates `(expr)`, `(a, b)` tuple, and
// `(params) => body` lambda (spec §4.2 disambiguation: "on `(` lookahead,
// attempt a lambda if followed by a typed/default parameter list and
// `=>`").
func (p *Parser) parseParenOrLambdaOrTuple() ast.Expr {
	loc := p.loc()
	if p.looksLikeLambdaParams() {
		params := p.parseParamList()
		p.expect(token.FatArrow)
		return p.finishLambda(loc, params, false)
	}
	p.advance() // '('
	p.skipNewlines()
	if p.at(token.RParen) {
		p.advance()
		if p.at(token.FatArrow) {
			p.advance()
			return p.finishLambda(loc, nil, false)
		}
		return ast.Expr{Loc: loc, Data: &ast.ETuple{}}
	}
	first := p.parseExpr()
	p.skipNewlines()
	if p.at(token.Comma) {
		tup := &ast.ETuple{Elements: []ast.Expr{first}}
		for p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
			if p.at(token.RParen) {
				break
			}
			tup.Elements = append(tup.Elements, p.parseExpr())
			p.skipNewlines()
		}
		p.expect(token.RParen)
		return ast.Expr{Loc: loc, Data: tup}
	}
	p.skipNewlines()
	p.expect(token.RParen)
	return first
}

// looksLikeLambdaParams performs bounded lookahead over a balanced
// parenthesized group to see if it is followed directly by `=>`.
func (p *Parser) looksLikeLambdaParams() bool {
	if !p.at(token.LParen) {
		return false
	}
	depth := 0
	i := p.pos
	for i < len(p.toks) {
		switch p.toks[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				next := i + 1
				for next < len(p.toks) && p.toks[next].Kind == token.Newline {
					next++
				}
				return next < len(p.toks) && p.toks[next].Kind == token.FatArrow
			}
		case token.EOF:
			return false
		}
		i++
	}
	return false
}

func (p *Parser) finishLambda(loc ast.Location, params []ast.Param, async bool) ast.Expr {
	p.skipNewlines()
	if p.at(token.LBrace) {
		return ast.Expr{Loc: loc, Data: &ast.ELambda{Params: params, Body: p.parseStmtBlock(), Async: async}}
	}
	e := p.parseExpr()
	return ast.Expr{Loc: loc, Data: &ast.ELambda{Params: params, Expr: &e, Async: async}}
}
