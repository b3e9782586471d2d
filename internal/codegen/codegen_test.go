package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tova-lang/tova/internal/analyzer"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/lexer"
	"github.com/tova-lang/tova/internal/parser"
)

func generateSrc(t *testing.T, src string) *Output {
	t.Helper()
	bag := &diagnostic.Bag{Tolerant: true}
	toks := lexer.Tokenize(src, "<test>", bag)
	prog := parser.Parse(toks, "<test>", bag, parser.Options{Tolerant: true})
	result := analyzer.Analyze(prog, bag, analyzer.Options{Tolerant: true})
	require.False(t, bag.HasErrors(), "unexpected analysis errors: %v", bag.Errors())
	return Generate(prog, result.BlockScopes, result.Types)
}

// Scenario 1 (spec §8): a reactive counter. `state` lowers to a signal
// pair, the click handler's compound assignment lowers to the setter's
// functional-update form, and the interpolated child reads through the
// getter.
func TestGenerateReactiveCounter(t *testing.T) {
	src := `browser {
  state n = 0
  component App {
    <button on:click={() => { n += 1 }}>"{n}"</button>
  }
}`
	out := generateSrc(t, src)
	assert.Contains(t, out.Browser, "createSignal(0)")
	assert.Contains(t, out.Browser, "setN(__prev => __prev + 1)")
	assert.Contains(t, out.Browser, "function App(__props)")
	assert.Contains(t, out.Browser, "DOMContentLoaded")
	assert.Contains(t, out.Browser, "n()")
}

// Scenario 2 (spec §8): a function containing a propagation (`?`) is
// wrapped in the try/catch propagation frame.
func TestGenerateResultPropagation(t *testing.T) {
	src := `server {
  fn run(s) {
    let n = parse(s)? + 1
    return n
  }
}`
	out := generateSrc(t, src)
	assert.Contains(t, out.Server, "__propagate(")
	assert.Contains(t, out.Server, "catch (__e) { if (__e && __e.__tova_propagate) return __e.value; throw __e; }")
}

// Scenario 4 (spec §8): matching on a variant compiles to a predicate
// cascade over a once-bound subject, with captured fields extracted as
// let-bindings.
func TestGenerateMatchOnVariant(t *testing.T) {
	src := `fn describe(x) {
  return match x {
    Some(v) => v
    None => 0
  }
}`
	out := generateSrc(t, src)
	assert.Contains(t, out.Shared, `__match.__tag === "Some"`)
	assert.Contains(t, out.Shared, "const v = __match.value;")
	assert.Contains(t, out.Shared, `__match.__tag === "None"`)
	assert.Contains(t, out.Shared, "no match arm satisfied")
}

// Scenario 6 (spec §8): `Ok(1).unwrap()` devirtualizes to the bare value,
// never constructing the wrapper object.
func TestGenerateDevirtualizeUnwrap(t *testing.T) {
	src := `fn f() {
  return Ok(1).unwrap()
}`
	out := generateSrc(t, src)
	assert.Contains(t, out.Shared, "return 1;")
	assert.NotContains(t, out.Shared, "Ok(1).unwrap()")
}

// Scenario 6 (spec §8), scalar replacement: the two-step `r = if cond {
// Ok(x) } else { Err(msg) }` pattern, read only through isOk/unwrap, lowers
// to two plain variables instead of constructing Ok/Err objects at all.
func TestGenerateScalarReplacementDevirtualization(t *testing.T) {
	src := `fn f(x) {
  var r = if x > 0 { Ok(x) } else { Err("bad") }
  return if r.isOk() { r.unwrap() } else { -1 }
}`
	out := generateSrc(t, src)
	assert.Contains(t, out.Shared, "let r__ok = (x > 0);")
	assert.Contains(t, out.Shared, "r__v = r__ok ?")
	assert.Contains(t, out.Shared, "return r__ok ?")
	assert.Contains(t, out.Shared, "return r__v;")
	assert.Contains(t, out.Shared, "return -1;")
	assert.NotContains(t, out.Shared, "Ok(")
	assert.NotContains(t, out.Shared, "Err(")
}

// A variable returned directly, passed to a function, or captured by a
// closure is disqualified from scalar replacement (spec §4.4's four
// disqualifiers); it keeps constructing the real Ok/Err object.
func TestGenerateScalarReplacementDisqualifiedWhenCaptured(t *testing.T) {
	src := `fn f(x) {
  var r = if x > 0 { Ok(x) } else { Err("bad") }
  let g = () => r.isOk()
  return g()
}`
	out := generateSrc(t, src)
	assert.Contains(t, out.Shared, "Ok(")
	assert.NotContains(t, out.Shared, "r__ok")
}

// Scenario 5 (spec §8): CSS scoping computes a deterministic scope id over
// the component name and CSS text, then threads `[id]` onto every selector
// while leaving pseudo-class suffixes after the attribute.
func TestCSSScopingIsDeterministicAndThreadsSelectors(t *testing.T) {
	css := ".title { color: red; } .title:hover { color: blue; }"
	id1 := scopeID("Card", css)
	id2 := scopeID("Card", css)
	assert.Equal(t, id1, id2)
	assert.Regexp(t, `^data-tova-[0-9a-f]+$`, id1)

	scoped := scopeCSS(css, id1)
	assert.Contains(t, scoped, ".title["+id1+"]")
	assert.Contains(t, scoped, ".title["+id1+"]:hover")
}

func TestCSSScopingPreservesGlobalAndKeyframes(t *testing.T) {
	css := ":global(body) { margin: 0; } @keyframes spin { from { opacity: 0; } to { opacity: 1; } }"
	id := scopeID("Spinner", css)
	scoped := scopeCSS(css, id)
	assert.Contains(t, scoped, "body {")
	assert.Contains(t, scoped, "@keyframes spin {")
	assert.NotContains(t, scoped, "from["+id+"]")
}

// Partitioning (spec §4.4): a source file with no target blocks compiles in
// module mode, where only the shared buffer is populated and `pub` items
// emit as ES module exports.
func TestGenerateModuleModeExportsPubItems(t *testing.T) {
	out := generateSrc(t, "pub fn add(a, b) { return a + b }")
	assert.True(t, out.IsModule)
	assert.Contains(t, out.Shared, "export function add(a, b)")
	assert.Empty(t, out.Server)
	assert.Empty(t, out.Browser)
}
