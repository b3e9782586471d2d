package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

func (p *Parser) parseStmtBlock() []ast.Stmt {
	p.expect(token.LBrace)
	p.skipNewlines()
	var body []ast.Stmt
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		body = append(body, p.parseStatement())
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return body
}

var compoundOps = map[token.Kind]string{
	token.PlusEq: "+=", token.MinusEq: "-=", token.StarEq: "*=",
	token.SlashEq: "/=", token.PercentEq: "%=",
}

// parseStatement dispatches on the leading keyword. A labeled loop is
// `name: for/while/loop ...` (spec §4.2 disambiguation is trivial here
// since labels are always `Ident Colon` immediately before a loop
// keyword -- anything else at that position is an expression statement).
func (p *Parser) parseStatement() ast.Stmt {
	p.skipNewlines()
	loc := p.loc()
	label := ""
	if p.at(token.Ident) && p.peekAhead(1).Kind == token.Colon &&
		(p.peekAhead(2).Kind == token.KwFor || p.peekAhead(2).Kind == token.KwWhile || p.peekAhead(2).Kind == token.KwLoop) {
		label = p.advance().Value
		p.advance() // ':'
	}
	switch p.cur().Kind {
	case token.KwVar, token.KwLet:
		return p.parseVarOrLet(loc)
	case token.KwReturn:
		p.advance()
		if p.nextIsNewline() || p.at(token.RBrace) || p.at(token.EOF) {
			return ast.Stmt{Loc: loc, Data: &ast.SReturn{}}
		}
		v := p.parseExpr()
		return ast.Stmt{Loc: loc, Data: &ast.SReturn{Value: &v}}
	case token.KwIf:
		return p.parseIfStmt(loc)
	case token.KwFor:
		return p.parseForStmt(loc, label, false)
	case token.KwAsync:
		if p.peekAhead(1).Kind == token.KwFor {
			p.advance()
			return p.parseForStmt(loc, label, true)
		}
	case token.KwWhile:
		return p.parseWhileStmt(loc, label)
	case token.KwLoop:
		return p.parseLoopStmt(loc, label)
	case token.KwBreak:
		p.advance()
		lbl := ""
		if p.at(token.Ident) && !p.nextIsNewline() {
			lbl = p.advance().Value
		}
		return ast.Stmt{Loc: loc, Data: &ast.SBreak{Label: lbl}}
	case token.KwContinue:
		p.advance()
		lbl := ""
		if p.at(token.Ident) && !p.nextIsNewline() {
			lbl = p.advance().Value
		}
		return ast.Stmt{Loc: loc, Data: &ast.SContinue{Label: lbl}}
	case token.KwGuard:
		return p.parseGuardStmt(loc)
	case token.KwWith:
		return p.parseWithStmt(loc)
	case token.KwDefer:
		p.advance()
		return ast.Stmt{Loc: loc, Data: &ast.SDefer{Body: p.parseStmtBlock()}}
	case token.LBrace:
		return ast.Stmt{Loc: loc, Data: &ast.SBlock{Body: p.parseStmtBlock()}}
	case token.Ident:
		if p.cur().Value == "try" {
			return p.parseTryCatch(loc)
		}
	}
	return p.parseExprStatement(loc)
}

func (p *Parser) parseVarOrLet(loc ast.Location) ast.Stmt {
	mutable := p.at(token.KwVar)
	p.advance()
	if p.at(token.LBrace) || p.at(token.LParen) {
		pat := p.parsePattern()
		p.expect(token.Eq)
		val := p.parseExpr()
		return ast.Stmt{Loc: loc, Data: &ast.SLetDestructure{Pattern: pat, Value: val, Mutable: mutable}}
	}
	name := p.expect(token.Ident).Value
	d := &ast.SVarDecl{Name: name, Mutable: mutable}
	if p.at(token.Colon) {
		p.advance()
		t := p.parseTypeAnnotation()
		d.Type = &t
	}
	if p.at(token.Eq) {
		p.advance()
		v := p.parseExpr()
		d.Value = &v
	}
	return ast.Stmt{Loc: loc, Data: d}
}

func (p *Parser) parseIfStmt(loc ast.Location) ast.Stmt {
	p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseStmtBlock()
	s := &ast.SIf{Cond: cond, Then: then}
	for p.at(token.KwElif) {
		p.advance()
		c := p.parseExpr()
		b := p.parseStmtBlock()
		s.Elif = append(s.Elif, ast.ElifClause{Cond: c, Body: b})
	}
	if p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIf) {
			inner := p.parseIfStmt(p.loc())
			s.Else = []ast.Stmt{inner}
		} else {
			s.Else = p.parseStmtBlock()
		}
	}
	return ast.Stmt{Loc: loc, Data: s}
}

func (p *Parser) parseForStmt(loc ast.Location, label string, async bool) ast.Stmt {
	p.advance() // 'for'
	pat := p.parsePattern()
	p.expect(token.KwIn)
	iter := p.parseExpr()
	var guard *ast.Expr
	if p.at(token.Ident) && p.cur().Value == "when" {
		p.advance()
		g := p.parseExpr()
		guard = &g
	}
	body := p.parseStmtBlock()
	s := &ast.SFor{Label: label, Pattern: pat, Iter: iter, Guard: guard, Body: body, Async: async}
	if p.at(token.KwElse) {
		p.advance()
		s.Else = p.parseStmtBlock()
	}
	return ast.Stmt{Loc: loc, Data: s}
}

func (p *Parser) parseWhileStmt(loc ast.Location, label string) ast.Stmt {
	p.advance()
	cond := p.parseExpr()
	body := p.parseStmtBlock()
	return ast.Stmt{Loc: loc, Data: &ast.SWhile{Label: label, Cond: cond, Body: body}}
}

func (p *Parser) parseLoopStmt(loc ast.Location, label string) ast.Stmt {
	p.advance()
	body := p.parseStmtBlock()
	return ast.Stmt{Loc: loc, Data: &ast.SLoop{Label: label, Body: body}}
}

func (p *Parser) parseGuardStmt(loc ast.Location) ast.Stmt {
	p.advance()
	cond := p.parseExpr()
	p.expect(token.KwElse)
	body := p.parseStmtBlock()
	return ast.Stmt{Loc: loc, Data: &ast.SGuard{Cond: cond, Else: body}}
}

func (p *Parser) parseWithStmt(loc ast.Location) ast.Stmt {
	p.advance()
	val := p.parseExpr()
	p.expect(token.KwAs)
	name := p.expect(token.Ident).Value
	body := p.parseStmtBlock()
	return ast.Stmt{Loc: loc, Data: &ast.SWith{Value: val, Name: name, Body: body}}
}

func (p *Parser) parseTryCatch(loc ast.Location) ast.Stmt {
	p.advance() // 'try' identifier
	body := p.parseStmtBlock()
	s := &ast.STryCatch{Body: body}
	if p.at(token.Ident) && p.cur().Value == "catch" {
		p.advance()
		if p.at(token.Ident) {
			s.CatchAs = p.advance().Value
		}
		s.Catch = p.parseStmtBlock()
	}
	return ast.Stmt{Loc: loc, Data: s}
}

// parseExprStatement parses an assignment, compound-assignment, or bare
// expression statement.
func (p *Parser) parseExprStatement(loc ast.Location) ast.Stmt {
	e := p.parseExpr()
	if p.at(token.Eq) {
		p.advance()
		v := p.parseExpr()
		return ast.Stmt{Loc: loc, Data: &ast.SAssign{Target: e, Value: v}}
	}
	if op, ok := compoundOps[p.cur().Kind]; ok {
		p.advance()
		v := p.parseExpr()
		return ast.Stmt{Loc: loc, Data: &ast.SCompoundAssign{Target: e, Op: op, Value: v}}
	}
	return ast.Stmt{Loc: loc, Data: &ast.SExpr{Value: e}}
}
