package codegen

import (
	"strconv"

	"github.com/tova-lang/tova/internal/ast"
)

// attrNameRemap handles the few JSX attribute names the DOM renames (spec
// §4.4 "JSX lowering": "class -> className").
var attrNameRemap = map[string]string{
	"class": "className",
	"for":   "htmlFor",
}

var keyGuardNames = map[string]bool{
	"enter": true, "escape": true, "space": true, "up": true, "down": true,
	"left": true, "right": true, "tab": true, "delete": true, "backspace": true,
}

// emitJSXElement lowers one element to `tova_el(tag, props, children)`
// (spec §4.4 "JSX lowering").
func (e *emitter) emitJSXElement(el *ast.EJSXElement) {
	e.needsJSXRuntime = true
	e.writeString("tova_el(" + jsStringLiteral(el.Tag) + ", {")
	for i, attr := range el.Attrs {
		if i > 0 {
			e.writeString(", ")
		}
		e.emitJSXAttr(attr)
	}
	e.writeString("}, [")
	for i, c := range el.Children {
		if i > 0 {
			e.writeString(", ")
		}
		e.emitJSXChild(c)
	}
	e.writeString("])")
}

func (e *emitter) emitJSXFragment(fr *ast.EJSXFragment) {
	e.needsJSXRuntime = true
	e.writeString("tova_fragment([")
	for i, c := range fr.Children {
		if i > 0 {
			e.writeString(", ")
		}
		e.emitJSXChild(c)
	}
	e.writeString("])")
}

func (e *emitter) emitJSXAttr(attr ast.JSXAttr) {
	if attr.Spread {
		e.writeString("...")
		e.emitExpr(*attr.Value)
		return
	}
	switch attr.Directive {
	case "on":
		e.emitEventAttr(attr)
	case "class":
		// `class:name={cond}` merges into a reactive class list (spec §4.4).
		e.writeString(jsStringLiteral("class:"+attr.Name) + ": ")
		e.emitReactiveAttr(*attr.Value)
	case "bind":
		// `bind:this={ref}` becomes a `ref` prop.
		e.writeString("ref: ")
		e.emitExpr(*attr.Value)
	case "in", "out", "transition":
		e.emitTransitionAttr(attr)
	default:
		name := attrNameRemap[attr.Name]
		if name == "" {
			name = attr.Name
		}
		if attr.Name == "show" {
			e.writeString(jsStringLiteral("show") + ": ")
			e.emitReactiveAttr(*attr.Value)
			return
		}
		e.writeString(jsStringLiteral(name) + ": ")
		switch {
		case attr.String != nil:
			e.writeString(jsStringLiteral(*attr.String))
		case attr.Value != nil:
			e.emitReactiveAttr(*attr.Value)
		default:
			e.writeString("true")
		}
	}
}

// emitEventAttr composes modifiers in the fixed order spec §4.4 mandates:
// key guard -> self-guard -> stop -> prevent -> body.
func (e *emitter) emitEventAttr(attr ast.JSXAttr) {
	propName := "on" + capitalize(attr.Name)
	once, capture := hasModifier(attr.Modifiers, "once"), hasModifier(attr.Modifiers, "capture")
	e.writeString(jsStringLiteral(propName) + ": ")
	if once || capture {
		e.writeString("{ handler: ")
	}
	e.writeString("(e) => {")
	for _, mod := range attr.Modifiers {
		if keyGuardNames[mod] {
			e.writeString(" if (e.key !== " + jsStringLiteral(keyJSName(mod)) + ") return;")
		}
	}
	for _, mod := range attr.Modifiers {
		if mod == "self" {
			e.writeString(" if (e.target !== e.currentTarget) return;")
		}
	}
	for _, mod := range attr.Modifiers {
		if mod == "stop" {
			e.writeString(" e.stopPropagation();")
		}
	}
	for _, mod := range attr.Modifiers {
		if mod == "prevent" {
			e.writeString(" e.preventDefault();")
		}
	}
	e.writeString(" (")
	if attr.Value != nil {
		e.emitExpr(*attr.Value)
	}
	e.writeString(")(e); }")
	if once || capture {
		// descriptor form (spec §4.4: "once/capture -> { handler, options:
		// { once, capture } }")
		e.writeString(", options: { once: " + strconv.FormatBool(once) + ", capture: " + strconv.FormatBool(capture) + " } }")
	}
}

func hasModifier(mods []string, name string) bool {
	for _, m := range mods {
		if m == name {
			return true
		}
	}
	return false
}

func keyJSName(mod string) string {
	switch mod {
	case "enter":
		return "Enter"
	case "escape":
		return "Escape"
	case "space":
		return " "
	case "up":
		return "ArrowUp"
	case "down":
		return "ArrowDown"
	case "left":
		return "ArrowLeft"
	case "right":
		return "ArrowRight"
	case "tab":
		return "Tab"
	case "delete":
		return "Delete"
	case "backspace":
		return "Backspace"
	}
	return mod
}

var builtinTransitions = map[string]bool{"fade": true, "slide": true, "scale": true, "fly": true}

func (e *emitter) emitTransitionAttr(attr ast.JSXAttr) {
	e.writeString(jsStringLiteral(attr.Directive+":"+attr.Name) + ": { name: ")
	if builtinTransitions[attr.Name] {
		e.writeString(jsStringLiteral(attr.Name))
	} else {
		e.writeString(attr.Name)
	}
	e.writeString(", config: ")
	if attr.Config != nil {
		e.emitExpr(*attr.Config)
	} else {
		e.writeString("{}")
	}
	e.writeString(" }")
}

func (e *emitter) emitJSXChild(c ast.JSXChild) {
	switch {
	case c.Element != nil:
		e.emitExpr(*c.Element)
	case c.Expr != nil:
		e.emitReactiveAttr(*c.Expr)
	case c.For != nil:
		e.emitJSXFor(c.For)
	case c.If != nil:
		e.emitJSXIf(c.If)
	default:
		e.writeString(jsStringLiteral(c.Text))
	}
}

// emitJSXFor lowers `for pat in iter [key={expr}] { children }`: keyed
// lists use the keyed-list runtime helper, unkeyed ones a plain `.map`
// (spec §4.4 "for children ... with a key lower to a keyed list helper;
// without a key, to .map(...)").
func (e *emitter) emitJSXFor(f *ast.JSXFor) {
	if f.Key != nil {
		e.writeString("__keyedList(")
		e.emitExpr(f.Iter)
		e.writeString(", (" + jsPatternDestructure(f.Pattern) + ") => ")
		e.emitExpr(*f.Key)
		e.writeString(", (" + jsPatternDestructure(f.Pattern) + ") => ")
		e.emitFragmentOfChildren(f.Body)
		e.writeString(")")
		return
	}
	e.emitExpr(f.Iter)
	e.writeString(".map((" + jsPatternDestructure(f.Pattern) + ") => ")
	e.emitFragmentOfChildren(f.Body)
	e.writeString(")")
}

func (e *emitter) emitJSXIf(f *ast.JSXIf) {
	e.writeString("(")
	e.emitExpr(f.Cond)
	e.writeString(" ? ")
	e.emitFragmentOfChildren(f.Then)
	e.writeString(" : ")
	if len(f.Else) > 0 {
		e.emitFragmentOfChildren(f.Else)
	} else {
		e.writeString("null")
	}
	e.writeString(")")
}

func (e *emitter) emitFragmentOfChildren(children []ast.JSXChild) {
	if len(children) == 1 {
		e.emitJSXChild(children[0])
		return
	}
	e.needsJSXRuntime = true
	e.writeString("tova_fragment([")
	for i, c := range children {
		if i > 0 {
			e.writeString(", ")
		}
		e.emitJSXChild(c)
	}
	e.writeString("])")
}
