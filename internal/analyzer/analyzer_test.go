package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/lexer"
	"github.com/tova-lang/tova/internal/parser"
)

func analyzeSrc(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	bag := &diagnostic.Bag{Tolerant: true}
	toks := lexer.Tokenize(src, "<test>", bag)
	prog := parser.Parse(toks, "<test>", bag, parser.Options{Tolerant: true})
	return Analyze(prog, bag, opts)
}

func hasCode(diags []diagnostic.Diagnostic, code diagnostic.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestAnalyzeUndefinedIdentifier(t *testing.T) {
	res := analyzeSrc(t, "fn f() { return missingName }", Options{Tolerant: true})
	assert.True(t, hasCode(res.Errors, diagnostic.CodeUndefinedIdentifier))
}

func TestAnalyzeImmutableReassignment(t *testing.T) {
	res := analyzeSrc(t, "fn f() { let x = 1\nx = 2\nreturn x }", Options{Tolerant: true})
	assert.True(t, hasCode(res.Errors, diagnostic.CodeImmutableReassign))
}

func TestAnalyzeMutableReassignmentIsClean(t *testing.T) {
	res := analyzeSrc(t, "fn f() { var x = 1\nx = 2\nreturn x }", Options{Tolerant: true})
	assert.False(t, hasCode(res.Errors, diagnostic.CodeImmutableReassign))
}

// Scenario 3 (spec §8): two named server blocks reach each other by name,
// and a call to a non-existent peer function is an error naming the peer.
func TestAnalyzeInterServerRPC(t *testing.T) {
	src := `server "api" {
  fn create() { events.push("x") }
}
server "events" {
  fn push(name) { name }
}`
	res := analyzeSrc(t, src, Options{Tolerant: true})
	assert.False(t, hasCode(res.Errors, diagnostic.CodeUndefinedIdentifier))
}

func TestAnalyzeUnknownPeerFunctionNamesThePeer(t *testing.T) {
	src := `server "api" {
  fn create() { events.missing() }
}
server "events" {
  fn push(name) { name }
}`
	res := analyzeSrc(t, src, Options{Tolerant: true})
	require.True(t, hasCode(res.Errors, diagnostic.CodeUnknownPeerFunction))
	var found bool
	for _, d := range res.Errors {
		if d.Code == diagnostic.CodeUnknownPeerFunction {
			assert.Contains(t, d.Message, "events")
			found = true
		}
	}
	assert.True(t, found)
}

// Arity mismatches are warnings by default and escalate to errors only in
// strict mode (spec §4.3 "strict mode").
func TestAnalyzeArityMismatchWarnsByDefault(t *testing.T) {
	res := analyzeSrc(t, "fn one(a) { a }\nfn f() { return one(1, 2) }", Options{Tolerant: true})
	assert.True(t, hasCode(res.Warnings, diagnostic.CodeArityMismatch))
	assert.False(t, hasCode(res.Errors, diagnostic.CodeArityMismatch))
}

func TestAnalyzeArityMismatchIsErrorInStrictMode(t *testing.T) {
	res := analyzeSrc(t, "fn one(a) { a }\nfn f() { return one(1, 2) }", Options{Tolerant: true, Strict: true})
	assert.True(t, hasCode(res.Errors, diagnostic.CodeArityMismatch))
}

// Scope uniqueness (spec §8): lookupLocal never resolves two bindings for
// the same name in the same scope.
func TestAnalyzeDuplicateDefinitionInSameScope(t *testing.T) {
	res := analyzeSrc(t, "fn f() { let x = 1\nlet x = 2\nreturn x }", Options{Tolerant: true})
	assert.True(t, hasCode(res.Errors, diagnostic.CodeDuplicateDefinition))
}
