package codegen

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// scopeID computes the deterministic `data-tova-<hash>` scope id (spec
// §4.4 "CSS scoping": "a deterministic scope id ... where the hash is over
// componentName + cssText"). FNV-1a gives a short, stable, dependency-free
// hash -- the exact algorithm is unspecified, so any stable one-way hash
// satisfies the invariant.
func scopeID(componentName, css string) string {
	h := fnv.New32a()
	h.Write([]byte(componentName))
	h.Write([]byte(css))
	return fmt.Sprintf("data-tova-%x", h.Sum32())
}

// scopeCSS rewrites every selector in css to carry `[id]` immediately after
// its last simple-selector part and before any trailing pseudo-classes or
// elements (spec §4.4 "CSS scoping"). This is a structural, not a full CSS
// parse: it walks rule blocks by brace depth, and within each selector list
// (the text before a top-level `{`) scopes each comma-separated selector,
// skipping `:global(...)` wrapping and leaving `@keyframes`/`@font-face`
// bodies untouched while still scoping `@media`/`@supports`/`@layer`
// selector bodies one level in.
func scopeCSS(css, id string) string {
	var out strings.Builder
	i := 0
	n := len(css)
	for i < n {
		brace := strings.IndexByte(css[i:], '{')
		if brace < 0 {
			out.WriteString(css[i:])
			break
		}
		brace += i
		header := strings.TrimSpace(css[i:brace])
		if strings.HasPrefix(header, "@keyframes") || strings.HasPrefix(header, "@font-face") {
			out.WriteString(css[i:brace])
			out.WriteByte('{')
			end := matchingBrace(css, brace)
			out.WriteString(css[brace+1 : end+1])
			i = end + 1
			continue
		}
		if strings.HasPrefix(header, "@media") || strings.HasPrefix(header, "@supports") || strings.HasPrefix(header, "@layer") {
			out.WriteString(css[i:brace])
			out.WriteByte('{')
			end := matchingBrace(css, brace)
			out.WriteString(scopeCSS(css[brace+1:end], id))
			out.WriteByte('}')
			i = end + 1
			continue
		}
		raw := css[i:brace]
		lead := strings.Index(raw, header)
		out.WriteString(raw[:lead] + scopeSelectorList(header, id) + raw[lead+len(header):])
		out.WriteByte('{')
		end := matchingBrace(css, brace)
		out.WriteString(css[brace+1 : end+1])
		i = end + 1
	}
	return out.String()
}

func matchingBrace(css string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(css); i++ {
		switch css[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(css) - 1
}

func scopeSelectorList(header, id string) string {
	parts := strings.Split(header, ",")
	for i, p := range parts {
		parts[i] = scopeSelector(strings.TrimSpace(p), id)
	}
	return strings.Join(parts, ", ")
}

// scopeSelector inserts `[id]` after the last simple-selector segment
// (split on combinators: descendant space, `>`, `+`, `~`) and before any
// trailing `:pseudo-class`/`::pseudo-element` suffix. `:global(...)` is
// unwrapped without scoping its contents.
func scopeSelector(sel string, id string) string {
	if strings.HasPrefix(sel, ":global(") && strings.HasSuffix(sel, ")") {
		return sel[len(":global(") : len(sel)-1]
	}
	segments := splitCombinators(sel)
	last := len(segments) - 1
	segments[last].text = insertScopeInSimpleSelector(segments[last].text, id)
	var out strings.Builder
	for _, s := range segments {
		out.WriteString(s.combinator)
		out.WriteString(s.text)
	}
	return out.String()
}

type selectorSegment struct {
	combinator string // the combinator preceding this segment, "" for the first
	text       string
}

func splitCombinators(sel string) []selectorSegment {
	var segs []selectorSegment
	cur := ""
	combinator := ""
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch c {
		case '>', '+', '~':
			segs = append(segs, selectorSegment{combinator: combinator, text: strings.TrimSpace(cur)})
			cur = ""
			combinator = " " + string(c) + " "
		case ' ':
			if strings.TrimSpace(cur) != "" {
				segs = append(segs, selectorSegment{combinator: combinator, text: strings.TrimSpace(cur)})
				cur = ""
				combinator = " "
			}
		default:
			cur += string(c)
		}
	}
	if strings.TrimSpace(cur) != "" || len(segs) == 0 {
		segs = append(segs, selectorSegment{combinator: combinator, text: strings.TrimSpace(cur)})
	}
	return segs
}

// insertScopeInSimpleSelector finds the first `:` or `::` pseudo marker in
// the simple selector and inserts `[id]` immediately before it; with no
// pseudo suffix, `[id]` is appended. `:is/:where/:has/:not(...)` are
// treated like any other pseudo-class: the attribute goes before them and
// their inner selector is left unscoped.
func insertScopeInSimpleSelector(simple, id string) string {
	idx := strings.IndexByte(simple, ':')
	if idx < 0 {
		return simple + "[" + id + "]"
	}
	return simple[:idx] + "[" + id + "]" + simple[idx:]
}
