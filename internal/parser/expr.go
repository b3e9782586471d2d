package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/token"
)

// parseExpr is the entry point for the full Pratt precedence grid (spec
// §4.2 "Expression grammar"), low to high:
// pipe < or < and < equality < is/in < comparison < range < additive <
// multiplicative < power < unary < propagation < postfix < primary.
func (p *Parser) parseExpr() ast.Expr {
	return p.parsePipe()
}

func (p *Parser) parsePipe() ast.Expr {
	left := p.parseOr()
	for p.at(token.PipeOp) {
		loc := p.loc()
		p.advance()
		right := p.parseOr()
		left = ast.Expr{Loc: loc, Data: &ast.EPipe{Left: left, Right: right}}
	}
	return left
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.at(token.PipePipe) || p.at(token.KwOr) {
		loc := p.loc()
		p.advance()
		right := p.parseAnd()
		left = ast.Expr{Loc: loc, Data: &ast.EBinary{Op: "or", Left: left, Right: right}}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.at(token.AmpAmp) || p.at(token.KwAnd) {
		loc := p.loc()
		p.advance()
		right := p.parseEquality()
		left = ast.Expr{Loc: loc, Data: &ast.EBinary{Op: "and", Left: left, Right: right}}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseIsIn()
	for p.at(token.EqEq) || p.at(token.BangEq) {
		loc := p.loc()
		op := "=="
		if p.at(token.BangEq) {
			op = "!="
		}
		p.advance()
		right := p.parseIsIn()
		left = ast.Expr{Loc: loc, Data: &ast.EBinary{Op: op, Left: left, Right: right}}
	}
	return left
}

// parseIsIn handles `value is Pattern` and `value [not] in iterable`.
func (p *Parser) parseIsIn() ast.Expr {
	left := p.parseComparison()
	for {
		if p.at(token.KwIs) {
			loc := p.loc()
			p.advance()
			pat := p.parsePattern()
			left = ast.Expr{Loc: loc, Data: &ast.EIs{Value: left, Pattern: pat}}
			continue
		}
		if p.at(token.KwIn) {
			loc := p.loc()
			p.advance()
			iter := p.parseComparison()
			left = ast.Expr{Loc: loc, Data: &ast.EMembership{Value: left, Iterable: iter}}
			continue
		}
		if p.at(token.KwNot) && p.peekAhead(1).Kind == token.KwIn {
			loc := p.loc()
			p.advance()
			p.advance()
			iter := p.parseComparison()
			left = ast.Expr{Loc: loc, Data: &ast.EMembership{Value: left, Iterable: iter, Negated: true}}
			continue
		}
		break
	}
	return left
}

var comparisonOps = map[token.Kind]string{
	token.Lt: "<", token.LtEq: "<=", token.Gt: ">", token.GtEq: ">=",
}

// parseComparison collapses a run of comparison operators into a single
// EChainedComparison node when there is more than one (spec §4.2 "chained
// comparisons: a < b < c becomes a ChainedComparison node").
func (p *Parser) parseComparison() ast.Expr {
	loc := p.loc()
	first := p.parseRange()
	operands := []ast.Expr{first}
	var ops []string
	for {
		op, ok := comparisonOps[p.cur().Kind]
		if !ok {
			break
		}
		p.advance()
		operands = append(operands, p.parseRange())
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return first
	}
	if len(ops) == 1 {
		return ast.Expr{Loc: loc, Data: &ast.EBinary{Op: ops[0], Left: operands[0], Right: operands[1]}}
	}
	return ast.Expr{Loc: loc, Data: &ast.EChainedComparison{Operands: operands, Ops: ops}}
}

func (p *Parser) parseRange() ast.Expr {
	left := p.parseAdditive()
	if p.at(token.DotDot) || p.at(token.DotDotEq) {
		loc := p.loc()
		inclusive := p.at(token.DotDotEq)
		p.advance()
		right := p.parseAdditive()
		return ast.Expr{Loc: loc, Data: &ast.ERange{Low: left, High: right, Inclusive: inclusive}}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.at(token.Plus) || p.at(token.Minus) {
		loc := p.loc()
		op := "+"
		if p.at(token.Minus) {
			op = "-"
		}
		p.advance()
		right := p.parseMultiplicative()
		left = ast.Expr{Loc: loc, Data: &ast.EBinary{Op: op, Left: left, Right: right}}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parsePower()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		loc := p.loc()
		op := map[token.Kind]string{token.Star: "*", token.Slash: "/", token.Percent: "%"}[p.cur().Kind]
		p.advance()
		right := p.parsePower()
		left = ast.Expr{Loc: loc, Data: &ast.EBinary{Op: op, Left: left, Right: right}}
	}
	return left
}

// parsePower is right-associative (spec §4.2 "power (right-assoc)").
func (p *Parser) parsePower() ast.Expr {
	left := p.parseUnary()
	if p.at(token.StarStar) {
		loc := p.loc()
		p.advance()
		right := p.parsePower()
		return ast.Expr{Loc: loc, Data: &ast.EBinary{Op: "**", Left: left, Right: right}}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.KwNot) || p.at(token.Minus) || p.at(token.Bang) {
		loc := p.loc()
		op := p.cur().Value
		switch p.cur().Kind {
		case token.KwNot:
			op = "not"
		case token.Minus:
			op = "-"
		case token.Bang:
			op = "!"
		}
		p.advance()
		operand := p.parseUnary()
		return ast.Expr{Loc: loc, Data: &ast.EUnary{Op: op, Operand: operand}}
	}
	return p.parsePropagation()
}

// parsePropagation applies the postfix `?` (spec §4.2 disambiguation:
// "only when the next token is not newline, end-of-file, or a binary
// operator that binds tighter"). Since member/call postfix binds tighter
// than `?`, we apply `?` after the full postfix chain, and only when it is
// immediately followed by something other than newline/EOF.
func (p *Parser) parsePropagation() ast.Expr {
	e := p.parsePostfix()
	for p.at(token.Question) {
		// "On its own line it is not a propagation": if the '?' is the last
		// thing before a newline/EOF, leave it unconsumed for the statement
		// parser (it will surface as a syntax error, matching an author
		// accidentally trailing a bare '?').
		next := p.peekAhead(1)
		if next.Kind == token.Newline || next.Kind == token.EOF {
			break
		}
		loc := p.loc()
		p.advance()
		e = ast.Expr{Loc: loc, Data: &ast.EPropagate{Value: e}}
	}
	return e
}

// parsePostfix handles member access, optional-chain, subscript/slice, and
// call postfixes, left-associative (spec §4.2).
func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.Dot:
			loc := p.loc()
			p.advance()
			name := p.expect(token.Ident).Value
			e = ast.Expr{Loc: loc, Data: &ast.EMember{Object: e, Name: name}}
		case token.QuestionDot:
			loc := p.loc()
			p.advance()
			name := p.expect(token.Ident).Value
			e = ast.Expr{Loc: loc, Data: &ast.EOptionalChain{Object: e, Name: name}}
		case token.LBracket:
			e = p.parseIndexOrSlice(e)
		case token.LParen:
			e = p.parseCall(e)
		default:
			return e
		}
	}
}

func (p *Parser) parseIndexOrSlice(obj ast.Expr) ast.Expr {
	loc := p.loc()
	p.advance() // '['
	var low, high, step *ast.Expr
	if !p.at(token.Colon) && !p.at(token.RBracket) {
		e := p.parseExpr()
		low = &e
	}
	isSlice := false
	if p.at(token.Colon) {
		isSlice = true
		p.advance()
		if !p.at(token.Colon) && !p.at(token.RBracket) {
			e := p.parseExpr()
			high = &e
		}
		if p.at(token.Colon) {
			p.advance()
			if !p.at(token.RBracket) {
				e := p.parseExpr()
				step = &e
			}
		}
	}
	p.expect(token.RBracket)
	if isSlice {
		return ast.Expr{Loc: loc, Data: &ast.ESlice{Object: obj, Low: low, High: high, Step: step}}
	}
	return ast.Expr{Loc: loc, Data: &ast.EIndex{Object: obj, Index: *low}}
}

// tablePipelineCallees opt a call's arguments into column-expression
// parsing (spec §4.2 "Column expressions"): `where`, `select`, `derive`,
// `group_by`, `sort_by`, `drop_nil`, `fill_nil` are the member names this
// applies to, matched regardless of receiver.
var tablePipelineCallees = map[string]bool{
	"where": true, "select": true, "derive": true, "group_by": true,
	"sort_by": true, "drop_nil": true, "fill_nil": true,
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	loc := p.loc()
	p.advance() // '('
	enterColumnCtx := false
	if m, ok := callee.Data.(*ast.EMember); ok && tablePipelineCallees[m.Name] {
		enterColumnCtx = true
	}
	if enterColumnCtx {
		p.columnDepth++
	}
	var args []ast.Arg
	p.skipNewlines()
	for !p.at(token.RParen) {
		args = append(args, p.parseArg())
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	if enterColumnCtx {
		p.columnDepth--
	}
	p.expect(token.RParen)
	return ast.Expr{Loc: loc, Data: &ast.ECall{Callee: callee, Args: args}}
}

func (p *Parser) parseArg() ast.Arg {
	if p.at(token.DotDotDot) {
		p.advance()
		return ast.Arg{Value: p.parseExpr(), Spread: true}
	}
	// named argument: `Ident = expr` where this isn't an assignment
	// expression elsewhere (calls are the only place named args occur).
	if p.at(token.Ident) && p.peekAhead(1).Kind == token.Eq {
		name := p.advance().Value
		p.advance() // '='
		return ast.Arg{Name: name, Value: p.parseExpr()}
	}
	return ast.Arg{Value: p.parseExpr()}
}

func (p *Parser) parsePrimary() ast.Expr {
	loc := p.loc()
	switch p.cur().Kind {
	case token.Int, token.Float:
		v := p.advance().Value
		return ast.Expr{Loc: loc, Data: &ast.ENumber{Value: parseFloat(v)}}
	case token.String:
		return ast.Expr{Loc: loc, Data: &ast.EString{Value: p.advance().Value}}
	case token.StringTemplate:
		return p.parseTemplateToken()
	case token.KwTrue:
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.EBool{Value: true}}
	case token.KwFalse:
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.EBool{Value: false}}
	case token.KwNil:
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.ENil{}}
	case token.KwAwait:
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.EAwait{Value: p.parseExpr()}}
	case token.KwYield:
		p.advance()
		if p.nextIsNewline() || p.at(token.RBrace) {
			return ast.Expr{Loc: loc, Data: &ast.EYield{}}
		}
		e := p.parseExpr()
		return ast.Expr{Loc: loc, Data: &ast.EYield{Value: &e}}
	case token.KwIf:
		return p.parseIfExpr()
	case token.KwMatch:
		return p.parseMatchExpr()
	case token.DotDotDot:
		p.advance()
		return ast.Expr{Loc: loc, Data: &ast.ESpread{Value: p.parseExpr()}}
	case token.LBracket:
		return p.parseListOrComprehension()
	case token.LBrace:
		return p.parseDictOrComprehension()
	case token.LParen:
		return p.parseParenOrLambdaOrTuple()
	case token.Dot:
		return p.parseColumnExprIfApplicable()
	case token.Minus:
		if p.columnDepth > 0 && p.peekAhead(1).Kind == token.Dot {
			return p.parseNegatedColumn()
		}
	case token.Ident:
		if p.cur().Value == "async" {
			// handled by KwAsync in lexer normally; identifiers fallthrough below
		}
		return p.parseIdentOrLambda()
	case token.Lt:
		return p.parseJSX()
	}
	p.errorHere(diagnostic.CodeUnexpectedToken, "unexpected token in expression")
	panic(syntaxPanic{})
}

func parseFloat(s string) float64 {
	var v float64
	var neg bool
	i := 0
	if i < len(s) && s[i] == '-' {
		neg = true
		i++
	}
	intPart := 0.0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		intPart = intPart*10 + float64(s[i]-'0')
	}
	v = intPart
	if i < len(s) && s[i] == '.' {
		i++
		frac := 0.0
		scale := 1.0
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			frac = frac*10 + float64(s[i]-'0')
			scale *= 10
		}
		v += frac / scale
	}
	if neg {
		v = -v
	}
	return v
}

func (p *Parser) parseTemplateToken() ast.Expr {
	loc := p.loc()
	t := p.advance()
	tmpl := &ast.ETemplate{}
	for _, part := range t.StringParts {
		if part.Expr == nil {
			tmpl.Parts = append(tmpl.Parts, ast.TemplatePart{Text: part.Text})
			continue
		}
		sub := &Parser{toks: append(part.Expr, token.Token{Kind: token.EOF}), file: p.file, bag: p.bag, opts: p.opts, registry: p.registry}
		e := sub.parseExpr()
		tmpl.Parts = append(tmpl.Parts, ast.TemplatePart{Expr: &e})
	}
	return ast.Expr{Loc: loc, Data: tmpl}
}

func (p *Parser) parseIdentOrLambda() ast.Expr {
	loc := p.loc()
	name := p.advance().Value
	return ast.Expr{Loc: loc, Data: &ast.EIdentifier{Name: name}}
}
