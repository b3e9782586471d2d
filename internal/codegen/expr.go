package codegen

import (
	"strconv"

	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/scope"
)

// binaryOpJS maps Tova operator text to the JS structural equivalent (spec
// §4.4 "Binary operators map structurally, with and/or/not becoming
// &&/||/!, ++ becoming +, and ==/!= becoming strict ===/!==").
var binaryOpJS = map[string]string{
	"and": "&&", "or": "||",
	"==": "===", "!=": "!==",
	"++": "+",
}

func jsBinaryOp(op string) string {
	if js, ok := binaryOpJS[op]; ok {
		return js
	}
	return op
}

func jsUnaryOp(op string) string {
	if op == "not" {
		return "!"
	}
	return op
}

// emitExpr dispatches on every expression node kind (spec §4.4 "Base
// emitter -- expressions").
func (e *emitter) emitExpr(x ast.Expr) {
	switch v := x.Data.(type) {
	case *ast.ENumber:
		e.writeString(formatNumber(v.Value))
	case *ast.EString:
		e.writeString(jsStringLiteral(v.Value))
	case *ast.EBool:
		if v.Value {
			e.writeString("true")
		} else {
			e.writeString("false")
		}
	case *ast.ENil:
		e.writeString("null")
	case *ast.EIdentifier:
		e.emitIdentifierRead(v.Name, x.Loc)
	case *ast.ETemplate:
		e.emitTemplate(v)
	case *ast.EBinary:
		e.emitBinary(v)
	case *ast.EChainedComparison:
		e.emitChainedComparison(v)
	case *ast.EUnary:
		e.writeString(jsUnaryOp(v.Op))
		e.emitExpr(v.Operand)
	case *ast.ECall:
		if done := e.tryEmitDevirtualized(v, x.Loc); done {
			return
		}
		e.emitCall(v)
	case *ast.EMember:
		e.emitExpr(v.Object)
		e.writeString(".")
		e.writeString(v.Name)
	case *ast.EOptionalChain:
		e.emitExpr(v.Object)
		e.writeString("?.")
		e.writeString(v.Name)
	case *ast.EIndex:
		e.emitExpr(v.Object)
		e.writeString("[")
		e.emitExpr(v.Index)
		e.writeString("]")
	case *ast.ESlice:
		e.emitSlice(v)
	case *ast.ERange:
		e.writeString("__range(")
		e.emitExpr(v.Low)
		e.writeString(", ")
		e.emitExpr(v.High)
		if v.Inclusive {
			e.writeString(", true")
		}
		e.writeString(")")
	case *ast.EPipe:
		e.emitPipe(v)
	case *ast.ELambda:
		e.emitLambda(v)
	case *ast.EMatch:
		e.emitMatch(v)
	case *ast.EBlockExpr:
		e.emitIIFE(v.Body)
	case *ast.ESpread:
		e.writeString("...")
		e.emitExpr(v.Value)
	case *ast.EPropagate:
		e.needsPropagate = true
		e.writeString("__propagate(")
		e.emitExpr(v.Value)
		e.writeString(")")
	case *ast.EAwait:
		e.writeString("await ")
		e.emitExpr(v.Value)
	case *ast.EYield:
		e.writeString("yield")
		if v.Value != nil {
			e.writeString(" ")
			e.emitExpr(*v.Value)
		}
	case *ast.EIf:
		e.emitExpr(v.Cond)
		e.writeString(" ? ")
		e.emitExpr(v.Then)
		e.writeString(" : ")
		if v.Else != nil {
			e.emitExpr(*v.Else)
		} else {
			e.writeString("undefined")
		}
	case *ast.EIs:
		e.emitIsTest(v.Value, v.Pattern)
	case *ast.EMembership:
		if v.Negated {
			e.writeString("!")
		}
		e.writeString("__includes(")
		e.emitExpr(v.Iterable)
		e.writeString(", ")
		e.emitExpr(v.Value)
		e.writeString(")")
	case *ast.EList:
		e.writeString("[")
		for i, el := range v.Elements {
			if i > 0 {
				e.writeString(", ")
			}
			e.emitExpr(el)
		}
		e.writeString("]")
	case *ast.EDict:
		e.emitDict(v)
	case *ast.ETuple:
		e.writeString("[")
		for i, el := range v.Elements {
			if i > 0 {
				e.writeString(", ")
			}
			e.emitExpr(el)
		}
		e.writeString("]")
	case *ast.EListComp:
		e.emitListComp(v)
	case *ast.EDictComp:
		e.emitDictComp(v)
	case *ast.EColumn:
		e.writeString("__row.")
		e.writeString(joinDot(v.Path))
	case *ast.ENegatedColumn:
		e.writeString("(-__row.")
		e.writeString(joinDot(v.Path))
		e.writeString(")")
	case *ast.EColumnAssign:
		e.writeString("(__row.")
		e.writeString(joinDot(v.Path))
		e.writeString(" = ")
		e.emitExpr(v.Value)
		e.writeString(")")
	case *ast.EJSXElement:
		e.emitJSXElement(v)
	case *ast.EJSXFragment:
		e.emitJSXFragment(v)
	}
}

func joinDot(path []string) string {
	s := ""
	for i, p := range path {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// emitIdentifierRead emits a plain reference, or -- in the browser target,
// when the name resolves to a state or computed declaration -- the getter
// call `name()` (spec §4.4 "Browser emission": "references in reactive
// positions call the getter"). Wrapping a reactive position in a thunk
// happens one level up, in reactive.go, which re-walks the expression tree
// before handing it to emitExpr proper.
func (e *emitter) emitIdentifierRead(name string, loc ast.Location) {
	if sumTypeCtors[name] {
		e.needsSumTypeHelper[name] = true
	}
	if e.target == ast.BlockBrowser && e.sc != nil {
		if sym, ok := e.sc.Lookup(name); ok && sym.Kind == scope.SymState {
			e.writeString(name + "()")
			return
		}
		if sym, ok := e.sc.Lookup(name); ok && sym.Kind == scope.SymComputed {
			e.writeString(name + "()")
			return
		}
	}
	e.writeString(name)
}

func (e *emitter) emitTemplate(t *ast.ETemplate) {
	e.writeString("`")
	for _, part := range t.Parts {
		if part.Expr != nil {
			e.writeString("${")
			e.emitExpr(*part.Expr)
			e.writeString("}")
		} else {
			e.writeString(escapeTemplateText(part.Text))
		}
	}
	e.writeString("`")
}

func escapeTemplateText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '`' || c == '\\' || c == '$' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

func (e *emitter) emitBinary(b *ast.EBinary) {
	e.writeString("(")
	e.emitExpr(b.Left)
	e.writeString(" " + jsBinaryOp(b.Op) + " ")
	e.emitExpr(b.Right)
	e.writeString(")")
}

// emitChainedComparison lowers `a < b < c` to `(a < b) && (b < c)`, binding
// any side-effecting middle operand to a temporary exactly once (spec
// §4.4 "with b bound to a temporary when it has observable side effects").
func (e *emitter) emitChainedComparison(c *ast.EChainedComparison) {
	names := make([]string, len(c.Operands))
	hasSideEffect := make([]bool, len(c.Operands))
	for i, op := range c.Operands {
		hasSideEffect[i] = hasObservableSideEffect(op)
	}
	e.writeString("(")
	temps := []string{}
	for i := range c.Operands {
		if i > 0 && i < len(c.Operands)-1 && hasSideEffect[i] {
			names[i] = tempName(i)
			temps = append(temps, names[i])
		}
	}
	if len(temps) > 0 {
		e.writeString("(() => { ")
		for i, op := range c.Operands {
			if names[i] == "" {
				continue
			}
			e.writeString("const " + names[i] + " = ")
			e.emitExpr(op)
			e.writeString("; ")
			_ = op
		}
		e.writeString("return ")
		e.emitChainedBody(c, names)
		e.writeString("; })()")
	} else {
		e.emitChainedBody(c, names)
	}
	e.writeString(")")
}

func (e *emitter) emitChainedBody(c *ast.EChainedComparison, names []string) {
	for i, op := range c.Ops {
		if i > 0 {
			e.writeString(" && ")
		}
		e.writeString("(")
		e.emitOperand(c.Operands[i], names[i])
		e.writeString(" " + op + " ")
		e.emitOperand(c.Operands[i+1], names[i+1])
		e.writeString(")")
	}
}

func (e *emitter) emitOperand(x ast.Expr, temp string) {
	if temp != "" {
		e.writeString(temp)
		return
	}
	e.emitExpr(x)
}

func tempName(i int) string { return "__cmp" + strconv.Itoa(i) }

// hasObservableSideEffect is a conservative check: only calls, await/yield
// expressions and `?` propagation count; literals, identifiers, and pure
// structural access do not.
func hasObservableSideEffect(x ast.Expr) bool {
	switch x.Data.(type) {
	case *ast.ECall, *ast.EAwait, *ast.EYield, *ast.EPropagate:
		return true
	}
	return false
}

func (e *emitter) emitSlice(s *ast.ESlice) {
	e.writeString("__slice(")
	e.emitExpr(s.Object)
	e.writeString(", ")
	if s.Low != nil {
		e.emitExpr(*s.Low)
	} else {
		e.writeString("null")
	}
	e.writeString(", ")
	if s.High != nil {
		e.emitExpr(*s.High)
	} else {
		e.writeString("null")
	}
	e.writeString(", ")
	if s.Step != nil {
		e.emitExpr(*s.Step)
	} else {
		e.writeString("null")
	}
	e.writeString(")")
}

// emitPipe lowers `x |> f(args)` to `f(x, args)` (spec §4.4). A bare
// identifier on the right (`x |> f`) is treated as `f(x)`.
func (e *emitter) emitPipe(p *ast.EPipe) {
	call, isCall := p.Right.Data.(*ast.ECall)
	if !isCall {
		e.emitExpr(p.Right)
		e.writeString("(")
		e.emitExpr(p.Left)
		e.writeString(")")
		return
	}
	e.emitExpr(call.Callee)
	e.writeString("(")
	e.emitExpr(p.Left)
	for _, arg := range call.Args {
		e.writeString(", ")
		e.emitArg(arg)
	}
	e.writeString(")")
}

func (e *emitter) emitArg(a ast.Arg) {
	if a.Spread {
		e.writeString("...")
	}
	e.emitExpr(a.Value)
}

func (e *emitter) emitCall(c *ast.ECall) {
	e.emitExpr(c.Callee)
	e.writeString("(")
	for i, arg := range c.Args {
		if i > 0 {
			e.writeString(", ")
		}
		e.emitArg(arg)
	}
	e.writeString(")")
}

func (e *emitter) emitLambda(l *ast.ELambda) {
	if l.Async {
		e.writeString("async ")
	}
	e.writeString("(")
	for i, p := range l.Params {
		if i > 0 {
			e.writeString(", ")
		}
		if p.Variadic {
			e.writeString("...")
		}
		e.writeString(p.Name)
		if p.Default != nil {
			e.writeString(" = ")
			e.emitExpr(*p.Default)
		}
	}
	e.writeString(") => ")
	if l.Expr != nil {
		e.emitExpr(*l.Expr)
		return
	}
	e.writeString("{\n")
	e.indent++
	e.emitStmts(l.Body)
	e.indent--
	e.writeIndent()
	e.writeString("}")
}

// emitIIFE wraps a block used in expression position (if/match branch
// bodies) as an immediately-invoked arrow function. A trailing bare
// expression statement is its value (spec §4.4 "EBlockExpr lets `{
// stmts... }` stand in expression position"), so it is emitted as an
// implicit return rather than a discarded statement.
func (e *emitter) emitIIFE(body []ast.Stmt) {
	e.writeString("(() => {\n")
	e.indent++
	for i, s := range body {
		if i == len(body)-1 {
			if expr, ok := s.Data.(*ast.SExpr); ok {
				e.mark(s.Loc)
				e.writeIndent()
				e.writeString("return ")
				e.emitExpr(expr.Value)
				e.writeString(";\n")
				continue
			}
		}
		e.emitStmt(s)
	}
	e.indent--
	e.writeIndent()
	e.writeString("})()")
}

func (e *emitter) emitDict(d *ast.EDict) {
	e.writeString("{")
	for i, ent := range d.Entries {
		if i > 0 {
			e.writeString(", ")
		}
		if ent.Spread {
			e.writeString("...")
			e.emitExpr(ent.Value)
			continue
		}
		if ident, ok := ent.Key.Data.(*ast.EIdentifier); ok {
			e.writeString("[" + jsStringLiteral(ident.Name) + "]: ")
		} else if str, ok := ent.Key.Data.(*ast.EString); ok {
			e.writeString(jsStringLiteral(str.Value) + ": ")
		} else {
			e.writeString("[")
			e.emitExpr(ent.Key)
			e.writeString("]: ")
		}
		e.emitExpr(ent.Value)
	}
	e.writeString("}")
}

func (e *emitter) emitListComp(c *ast.EListComp) {
	e.writeString("__comprehension(")
	e.emitExpr(c.Iter)
	e.writeString(", (")
	e.writeString(patternParamName(c.Pattern))
	e.writeString(") => ")
	if c.Cond != nil {
		e.writeString("(")
		e.emitExpr(*c.Cond)
		e.writeString(") ? [")
		e.emitExpr(c.Result)
		e.writeString("] : []")
	} else {
		e.emitExpr(c.Result)
	}
	e.writeString(")")
}

func (e *emitter) emitDictComp(c *ast.EDictComp) {
	e.writeString("__dictComprehension(")
	e.emitExpr(c.Iter)
	e.writeString(", (")
	e.writeString(patternParamName(c.Pattern))
	e.writeString(") => ")
	if c.Cond != nil {
		e.writeString("(")
		e.emitExpr(*c.Cond)
		e.writeString(") ? [[")
		e.emitExpr(c.KeyResult)
		e.writeString(", ")
		e.emitExpr(c.ValueResult)
		e.writeString("]] : []")
	} else {
		e.writeString("[[")
		e.emitExpr(c.KeyResult)
		e.writeString(", ")
		e.emitExpr(c.ValueResult)
		e.writeString("]]")
	}
	e.writeString(")")
}

// patternParamName returns a simple parameter name for a comprehension
// binder; destructuring patterns are rendered as their JS destructure form
// when possible, falling back to a positional temp otherwise.
func patternParamName(p ast.Pattern) string {
	switch p.Data.(type) {
	case *ast.PBinding, *ast.PArray, *ast.PTuple, *ast.PObject:
		return jsPatternDestructure(p)
	}
	return "__item"
}
