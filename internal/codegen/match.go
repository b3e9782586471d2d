package codegen

import "github.com/tova-lang/tova/internal/ast"

// emitMatch compiles `match subject { arms }` into a cascade of `if` tests
// over a once-bound subject, per spec §4.4 "Match": each arm compiles to a
// predicate test plus a sequence of let-bindings extracting captured
// parts, with guards ANDed onto the predicate.
func (e *emitter) emitMatch(m *ast.EMatch) {
	e.writeString("(() => {\n")
	e.indent++
	e.writeIndent()
	e.writeString("const __match = ")
	e.emitExpr(m.Subject)
	e.writeString(";\n")
	for i, arm := range m.Arms {
		e.writeIndent()
		if i > 0 {
			e.writeString("else ")
		}
		pred, binds := compilePattern("__match", arm.Pattern)
		cond := pred
		if arm.Guard != nil {
			if cond != "" {
				cond += " && "
			}
			cond += exprToJSInline(e, *arm.Guard)
		}
		if cond == "" {
			cond = "true"
		}
		e.writeString("if (" + cond + ") {\n")
		e.indent++
		for _, b := range binds {
			e.writeIndent()
			e.writeString("const " + b.name + " = " + b.path + ";\n")
		}
		e.writeIndent()
		e.writeString("return ")
		e.emitExpr(arm.Body)
		e.writeString(";\n")
		e.indent--
		e.writeIndent()
		e.writeString("}\n")
	}
	e.writeIndent()
	e.writeString("throw new Error(\"no match arm satisfied\");\n")
	e.indent--
	e.writeIndent()
	e.writeString("})()")
}

type patBinding struct{ name, path string }

// compilePattern returns a JS boolean predicate testing whether `subject`
// (a JS expression already bound to a variable, given here by name)
// matches pattern p, plus the list of bindings the pattern introduces
// (each as a `name = path-off-subject` pair) (spec §4.4 "Match").
func compilePattern(subject string, p ast.Pattern) (string, []patBinding) {
	switch pat := p.Data.(type) {
	case *ast.PWildcard:
		return "", nil
	case *ast.PBinding:
		return "", []patBinding{{name: pat.Name, path: subject}}
	case *ast.PLiteral:
		return subject + " === " + literalJS(pat.Value), nil
	case *ast.PRange:
		op := "<"
		if pat.Inclusive {
			op = "<="
		}
		return "(" + subject + " >= " + literalJS(pat.Low) + " && " + subject + " " + op + " " + literalJS(pat.High) + ")", nil
	case *ast.PVariant:
		pred := subject + ".__tag === " + jsStringLiteral(pat.Name)
		var binds []patBinding
		if len(pat.FieldNames) > 0 {
			for i, fname := range pat.FieldNames {
				sub := subject + "." + fname
				subPred, subBinds := compilePattern(sub, pat.Fields[i])
				if subPred != "" {
					pred += " && " + subPred
				}
				binds = append(binds, subBinds...)
			}
		} else {
			for i, f := range pat.Fields {
				sub := subject + ".value"
				if len(pat.Fields) > 1 {
					sub = subject + ".value[" + itoa(i) + "]"
				}
				subPred, subBinds := compilePattern(sub, f)
				if subPred != "" {
					pred += " && " + subPred
				}
				binds = append(binds, subBinds...)
			}
		}
		return pred, binds
	case *ast.PObject:
		var pred string
		var binds []patBinding
		for i, key := range pat.Keys {
			sub := subject + "." + key
			if i < len(pat.Patterns) && pat.Patterns[i].Data != nil {
				subPred, subBinds := compilePattern(sub, pat.Patterns[i])
				if subPred != "" {
					if pred != "" {
						pred += " && "
					}
					pred += subPred
				}
				binds = append(binds, subBinds...)
			} else {
				binds = append(binds, patBinding{name: key, path: sub})
			}
		}
		return pred, binds
	case *ast.PArray:
		pred := subject + ".length >= " + itoa(len(pat.Elements))
		var binds []patBinding
		for i, el := range pat.Elements {
			sub := subject + "[" + itoa(i) + "]"
			subPred, subBinds := compilePattern(sub, el)
			if subPred != "" {
				pred += " && " + subPred
			}
			binds = append(binds, subBinds...)
		}
		if pat.Rest != "" {
			binds = append(binds, patBinding{name: pat.Rest, path: subject + ".slice(" + itoa(len(pat.Elements)) + ")"})
		}
		return pred, binds
	case *ast.PTuple:
		var pred string
		var binds []patBinding
		for i, el := range pat.Elements {
			sub := subject + "[" + itoa(i) + "]"
			subPred, subBinds := compilePattern(sub, el)
			if subPred != "" {
				if pred != "" {
					pred += " && "
				}
				pred += subPred
			}
			binds = append(binds, subBinds...)
		}
		return pred, binds
	case *ast.PStringConcat:
		pred := subject + ".startsWith(" + jsStringLiteral(pat.Prefix) + ")"
		restSub := subject + ".slice(" + itoa(len(pat.Prefix)) + ")"
		subPred, subBinds := compilePattern(restSub, pat.Rest)
		if subPred != "" {
			pred += " && " + subPred
		}
		return pred, subBinds
	}
	return "", nil
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	if neg {
		return "-" + string(b)
	}
	return string(b)
}

// literalJS renders a pattern's literal sub-expression (number/string/bool)
// directly as JS text, used only inside pattern predicates where a full
// emitter pass would be overkill.
func literalJS(x ast.Expr) string {
	switch v := x.Data.(type) {
	case *ast.ENumber:
		return formatNumber(v.Value)
	case *ast.EString:
		return jsStringLiteral(v.Value)
	case *ast.EBool:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.ENil:
		return "null"
	}
	return "undefined"
}

// exprToJSInline renders an arbitrary guard expression through the full
// emitter into a standalone string, so it can be spliced into the `if`
// condition text built up alongside the plain pattern predicates above.
func exprToJSInline(e *emitter, x ast.Expr) string {
	sub := &emitter{types: e.types, sc: e.sc, target: e.target, needsSumTypeHelper: map[string]bool{}, line: e.line}
	sub.emitExpr(x)
	if sub.needsPropagate {
		e.needsPropagate = true
	}
	for k, v := range sub.needsSumTypeHelper {
		if v {
			e.needsSumTypeHelper[k] = true
		}
	}
	return sub.buf.String()
}

// emitIsTest lowers `value is Pattern` to the pattern's boolean predicate
// (spec "EIs ... used as a boolean narrowing test"). The `is` operator
// never binds names at runtime in this emission: `is` is narrowing-only; a
// variant's captured fields are accessed with ordinary member expressions
// after the test, not via pattern-introduced locals, so only the predicate
// half of compilePattern is used here. The type registry is not consulted:
// every variant name, user-declared or one of the four built-ins
// (Ok/Err/Some/None), compiles to the same `__tag ===` check, matching the
// `__tag` field that emitted user variants and the built-in helpers carry.
func (e *emitter) emitIsTest(value ast.Expr, pattern ast.Pattern) {
	valueJS := exprToJSInline(e, value)
	pred, _ := compilePattern(valueJS, pattern)
	if pred == "" {
		e.writeString("true")
		return
	}
	e.writeString(pred)
}
