package tova

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tova-lang/tova/internal/config"
)

func TestCompileModuleModeExportsPubFunction(t *testing.T) {
	res := Compile("pub fn add(a, b) { return a + b }", "<test>", config.Default())
	require.Empty(t, res.Diagnostics.Errors)
	assert.True(t, res.IsModule)
	assert.Contains(t, res.Shared, "export function add(a, b)")
	assert.NotNil(t, res.AST)
	assert.NotNil(t, res.Scope)
}

func TestCompileStrictNonTolerantAbortsWithOneError(t *testing.T) {
	res := Compile("fn f() { return missingName }", "<test>", config.Default())
	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Empty(t, res.Shared)
	assert.Nil(t, res.DeployManifest)
}

func TestCompileTolerantAccumulatesMultipleErrors(t *testing.T) {
	src := `fn f() { return missingOne }
fn g() { return missingTwo }`
	res := Compile(src, "<test>", config.CompileOptions{Strict: true, Tolerant: true})
	assert.GreaterOrEqual(t, len(res.Diagnostics.Errors), 2)
}

// A fatal lexical error (unterminated string) aborts through
// lexer.LexerPanic rather than diagnostic.Fatal; Compile must recover both
// unwind paths the same way.
func TestCompileRecoversFatalLexicalError(t *testing.T) {
	res := Compile(`"unterminated`, "<test>", config.Default())
	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Empty(t, res.Shared)
}

func TestCompileInfersDeployManifestForServerBlock(t *testing.T) {
	res := Compile(`server { fn ping() { 1 } }`, "<test>", config.Default())
	require.Empty(t, res.Diagnostics.Errors)
	require.NotNil(t, res.DeployManifest)
	assert.True(t, res.DeployManifest.Required.Caddy)
}
