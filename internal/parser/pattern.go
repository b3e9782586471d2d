package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/token"
)

// parsePattern parses the pattern grammar from spec §4.2: wildcard,
// literal, variant, binding, range, object, array, tuple, string-concat.
func (p *Parser) parsePattern() ast.Pattern {
	loc := p.loc()
	switch p.cur().Kind {
	case token.Ident:
		if p.cur().Value == "_" {
			p.advance()
			return ast.Pattern{Loc: loc, Data: &ast.PWildcard{}}
		}
		return p.parseVariantOrBindingPattern(loc)
	case token.LBrace:
		return p.parseObjectPattern(loc)
	case token.LBracket:
		return p.parseArrayPattern(loc)
	case token.LParen:
		return p.parseTuplePattern(loc)
	case token.String:
		return p.parseStringOrStringConcatPattern(loc)
	case token.Int, token.Float, token.KwTrue, token.KwFalse, token.KwNil, token.Minus:
		return p.parseLiteralOrRangePattern(loc)
	}
	p.errorHere(diagnostic.CodeIllegalPattern, "expected a pattern")
	panic(syntaxPanic{})
}

// parseVariantOrBindingPattern handles `Name(p, ...)` (variant, uppercase
// convention) vs a plain lowercase binding identifier.
func (p *Parser) parseVariantOrBindingPattern(loc ast.Location) ast.Pattern {
	name := p.advance().Value
	if p.at(token.LParen) {
		p.advance()
		v := &ast.PVariant{Name: name}
		p.skipNewlines()
		for !p.at(token.RParen) {
			if p.at(token.Ident) && p.peekAhead(1).Kind == token.Colon {
				fname := p.advance().Value
				p.advance() // ':'
				v.FieldNames = append(v.FieldNames, fname)
				v.Fields = append(v.Fields, p.parsePattern())
			} else {
				v.Fields = append(v.Fields, p.parsePattern())
			}
			p.skipNewlines()
			if p.at(token.Comma) {
				p.advance()
				p.skipNewlines()
				continue
			}
			break
		}
		p.expect(token.RParen)
		return ast.Pattern{Loc: loc, Data: v}
	}
	if isUpper(name) {
		return ast.Pattern{Loc: loc, Data: &ast.PVariant{Name: name}}
	}
	return ast.Pattern{Loc: loc, Data: &ast.PBinding{Name: name}}
}

func isUpper(s string) bool { return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' }

func (p *Parser) parseObjectPattern(loc ast.Location) ast.Pattern {
	p.advance() // '{'
	obj := &ast.PObject{}
	p.skipNewlines()
	for !p.at(token.RBrace) {
		key := p.expect(token.Ident).Value
		obj.Keys = append(obj.Keys, key)
		if p.at(token.Colon) {
			p.advance()
			sub := p.parsePattern()
			obj.Patterns = append(obj.Patterns, sub)
		} else {
			obj.Patterns = append(obj.Patterns, ast.Pattern{Loc: loc, Data: &ast.PBinding{Name: key}})
		}
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.expect(token.RBrace)
	return ast.Pattern{Loc: loc, Data: obj}
}

func (p *Parser) parseArrayPattern(loc ast.Location) ast.Pattern {
	p.advance() // '['
	arr := &ast.PArray{}
	p.skipNewlines()
	for !p.at(token.RBracket) {
		if p.at(token.DotDotDot) {
			p.advance()
			arr.Rest = p.expect(token.Ident).Value
		} else {
			arr.Elements = append(arr.Elements, p.parsePattern())
		}
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.expect(token.RBracket)
	return ast.Pattern{Loc: loc, Data: arr}
}

func (p *Parser) parseTuplePattern(loc ast.Location) ast.Pattern {
	p.advance() // '('
	tup := &ast.PTuple{}
	p.skipNewlines()
	for !p.at(token.RParen) {
		tup.Elements = append(tup.Elements, p.parsePattern())
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return ast.Pattern{Loc: loc, Data: tup}
}

func (p *Parser) parseStringOrStringConcatPattern(loc ast.Location) ast.Pattern {
	s := p.advance().Value
	if p.at(token.Plus) {
		p.advance()
		rest := p.parsePattern()
		return ast.Pattern{Loc: loc, Data: &ast.PStringConcat{Prefix: s, Rest: rest}}
	}
	return ast.Pattern{Loc: loc, Data: &ast.PLiteral{Value: ast.Expr{Loc: loc, Data: &ast.EString{Value: s}}}}
}

func (p *Parser) parseLiteralOrRangePattern(loc ast.Location) ast.Pattern {
	lit := p.parseLiteralAtom()
	if p.at(token.DotDot) || p.at(token.DotDotEq) {
		inclusive := p.at(token.DotDotEq)
		p.advance()
		high := p.parseLiteralAtom()
		return ast.Pattern{Loc: loc, Data: &ast.PRange{Low: lit, High: high, Inclusive: inclusive}}
	}
	return ast.Pattern{Loc: loc, Data: &ast.PLiteral{Value: lit}}
}

func (p *Parser) parseLiteralAtom() ast.Expr {
	loc := p.loc()
	neg := false
	if p.at(token.Minus) {
		p.advance()
		neg = true
	}
	switch p.cur().Kind {
	case token.Int, token.Float:
		v := parseFloat(p.advance().Value)
		if neg {
			v = -v
		}
		return ast.Expr{Loc: loc, Data: &ast.ENumber{Value: v}}
	case token.KwTrue:
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.EBool{Value: true}}
	case token.KwFalse:
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.EBool{Value: false}}
	case token.KwNil:
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.ENil{}}
	}
	p.errorHere(diagnostic.CodeIllegalPattern, "expected a literal")
	panic(syntaxPanic{})
}
