package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/lexer"
)

func parseSrc(t *testing.T, src string, tolerant bool) (*ast.Program, *diagnostic.Bag) {
	t.Helper()
	bag := &diagnostic.Bag{Tolerant: tolerant}
	toks := lexer.Tokenize(src, "<test>", bag)
	prog := Parse(toks, "<test>", bag, Options{Tolerant: tolerant})
	return prog, bag
}

func TestParseModuleLevelFunction(t *testing.T) {
	prog, bag := parseSrc(t, "fn add(a, b) { return a + b }", false)
	require.False(t, bag.HasErrors())
	require.Len(t, prog.Items, 1)

	fn, ok := prog.Items[0].Decl.Data.(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)

	ret, ok := fn.Body[0].Data.(*ast.SReturn)
	require.True(t, ok)
	require.NotNil(t, ret.Value)
	_, isBinary := ret.Value.Data.(*ast.EBinary)
	assert.True(t, isBinary)
}

func TestParseServerBlockWithName(t *testing.T) {
	prog, bag := parseSrc(t, `server "api" { fn ping() { 1 } }`, false)
	require.False(t, bag.HasErrors())
	require.Len(t, prog.Items, 1)

	block := prog.Items[0].Block
	require.NotNil(t, block)
	assert.Equal(t, ast.BlockServer, block.Kind)
	assert.Equal(t, "api", block.Name)
	require.Len(t, block.Items, 1)

	fn, ok := block.Items[0].Data.(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "ping", fn.Name)
}

func TestParsePubDeclarationInModuleMode(t *testing.T) {
	prog, bag := parseSrc(t, "pub fn helper() { 1 }", false)
	require.False(t, bag.HasErrors())
	require.Len(t, prog.Items, 1)
	assert.True(t, prog.Items[0].Decl.Pub)
}

func TestParseTolerantRecoversAndContinues(t *testing.T) {
	// A lone `}` at the top level has no expression-statement reading;
	// tolerant mode should synchronize at the next top-level `fn` and keep
	// parsing (spec §4.2 "error recovery", level 2).
	prog, bag := parseSrc(t, "}\nfn ok() { 1 }", true)
	require.True(t, bag.HasErrors())

	var sawOk bool
	for _, item := range prog.Items {
		if item.Decl.Data == nil {
			continue
		}
		if fn, ok := item.Decl.Data.(*ast.FunctionDecl); ok && fn.Name == "ok" {
			sawOk = true
		}
	}
	assert.True(t, sawOk, "expected the parser to recover and still parse `ok`")
}

// Parser determinism (spec §8): parsing the same valid source twice
// produces an equal number of top-level items and no incidental state
// leaking between calls.
func TestParseIsDeterministic(t *testing.T) {
	src := `fn a() { 1 }
fn b() { 2 }`
	p1, _ := parseSrc(t, src, false)
	p2, _ := parseSrc(t, src, false)
	assert.Equal(t, len(p1.Items), len(p2.Items))
}
