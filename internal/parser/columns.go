package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/token"
)

// parseColumnExprIfApplicable parses a leading `.name[.sub...]` as a
// ColumnExpression when inside a table-pipeline call argument
// (spec §4.2 "Column expressions"); `.col = expr` becomes a
// ColumnAssignment. Outside column context a leading `.` is a syntax
// error (there is no expression that legally starts with a bare dot
// otherwise).
func (p *Parser) parseColumnExprIfApplicable() ast.Expr {
	if p.columnDepth == 0 {
		p.errorHere(diagnostic.CodeUnexpectedToken, "column expression outside a table-pipeline call")
		panic(syntaxPanic{})
	}
	loc := p.loc()
	path := p.parseColumnPath()
	if p.columnDepth > 0 && p.at(token.Eq) {
		p.advance()
		v := p.parseExpr()
		return ast.Expr{Loc: loc, Data: &ast.EColumnAssign{Path: path, Value: v}}
	}
	return ast.Expr{Loc: loc, Data: &ast.EColumn{Path: path}}
}

func (p *Parser) parseColumnPath() []string {
	p.expect(token.Dot)
	path := []string{p.expect(token.Ident).Value}
	for p.at(token.Dot) {
		p.advance()
		path = append(path, p.expect(token.Ident).Value)
	}
	return path
}

// parseNegatedColumn parses `-.col` (spec §4.2 "NegatedColumnExpression").
func (p *Parser) parseNegatedColumn() ast.Expr {
	loc := p.loc()
	p.advance() // '-'
	path := p.parseColumnPath()
	return ast.Expr{Loc: loc, Data: &ast.ENegatedColumn{Path: path}}
}
