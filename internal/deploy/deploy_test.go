package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/lexer"
	"github.com/tova-lang/tova/internal/parser"
)

func inferSrc(t *testing.T, src string) *Manifest {
	t.Helper()
	bag := &diagnostic.Bag{Tolerant: true}
	toks := lexer.Tokenize(src, "<test>", bag)
	prog := parser.Parse(toks, "<test>", bag, parser.Options{Tolerant: true})
	require.False(t, bag.HasErrors(), "unexpected parse errors: %v", bag.Errors())
	return Infer(prog)
}

func TestInferDefaultsWithNoBlocks(t *testing.T) {
	m := inferSrc(t, "fn f() { 1 }")
	assert.NotEmpty(t, m.ReleaseID)
	assert.Equal(t, 1, m.Instances)
	assert.Equal(t, 512, m.MemoryLimitMB)
	assert.Equal(t, "/healthz", m.HealthPath)
	assert.Equal(t, 5, m.RetainReleases)
	assert.True(t, m.Required.Bun)
	assert.False(t, m.Required.Caddy)
	assert.False(t, m.Required.Ufw)
}

func TestInferServerBlockRequiresCaddyAndUfw(t *testing.T) {
	m := inferSrc(t, `server { fn ping() { 1 } }`)
	assert.True(t, m.Required.Caddy)
	assert.True(t, m.Required.Ufw)
	assert.Contains(t, m.BlockKinds, "server")
}

func TestInferDatabaseDedupByEngine(t *testing.T) {
	src := `server {
  db "primary" { engine: "postgres" }
  db "replica" { engine: "postgres" }
}`
	m := inferSrc(t, src)
	require.Len(t, m.Databases, 1)
	assert.Equal(t, "postgres", m.Databases[0].Engine)
}

func TestInferDatabaseDefaultsToPostgresWithoutEngine(t *testing.T) {
	src := `server {
  db "main" { host: "localhost" }
}`
	m := inferSrc(t, src)
	require.Len(t, m.Databases, 1)
	assert.Equal(t, "postgres", m.Databases[0].Engine)
}

func TestInferSecurityCollectsEnvSecrets(t *testing.T) {
	src := `security {
  fn apiKey() { return env("STRIPE_API_KEY") }
}`
	m := inferSrc(t, src)
	assert.Contains(t, m.RequiredSecrets, "STRIPE_API_KEY")
}

func TestInferCapabilityFlags(t *testing.T) {
	src := `server {
  websocket "/live" { }
  sse "/events" { }
}
browser {
  state n = 0
}`
	m := inferSrc(t, src)
	assert.True(t, m.HasWebSocket)
	assert.True(t, m.HasSSE)
	assert.True(t, m.HasBrowser)
}

// Declared deploy blocks override inferred defaults field by field (spec
// §4.5).
func TestInferDeployBlockOverridesDefaults(t *testing.T) {
	src := `server {
  fn ping() { 1 }
}
deploy {
  instances = 3
  domain = "example.com"
  retain = 10
}`
	m := inferSrc(t, src)
	assert.Equal(t, 3, m.Instances)
	assert.Equal(t, "example.com", m.Domain)
	assert.Equal(t, 10, m.RetainReleases)
}
