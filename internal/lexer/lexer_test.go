package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	bag := &diagnostic.Bag{Tolerant: true}
	return Tokenize(src, "<test>", bag)
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		if tk.Kind == token.Newline {
			continue
		}
		out = append(out, tk.Kind)
	}
	return out
}

func TestTokenizeKeywordsAndPunctuation(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"let binding", "let x = 1", []token.Kind{token.KwLet, token.Ident, token.Eq, token.Int, token.EOF}},
		{"fn call", "fn f(x) { x }", []token.Kind{
			token.KwFn, token.Ident, token.LParen, token.Ident, token.RParen,
			token.LBrace, token.Ident, token.RBrace, token.EOF,
		}},
		{"pipe operator", "x |> f()", []token.Kind{token.Ident, token.PipeOp, token.Ident, token.LParen, token.RParen, token.EOF}},
		{"propagation", "parse()?", []token.Kind{token.Ident, token.LParen, token.RParen, token.Question, token.EOF}},
		{"range inclusive", "0..=9", []token.Kind{token.Int, token.DotDotEq, token.Int, token.EOF}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks := tokenize(t, c.src)
			assert.Equal(t, c.want, kinds(toks))
		})
	}
}

func TestTokenizeInterpolatedString(t *testing.T) {
	toks := tokenize(t, `"n = {n}"`)
	assert.Equal(t, token.StringTemplate, toks[0].Kind)
	if assert.Len(t, toks[0].StringParts, 2) {
		assert.Equal(t, "n = ", toks[0].StringParts[0].Text)
		assert.NotEmpty(t, toks[0].StringParts[1].Expr)
	}
}

func TestTokenizeTripleQuoteDedent(t *testing.T) {
	src := "\"\"\"\n    line one\n    line two\n    \"\"\""
	toks := tokenize(t, src)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.True(t, toks[0].IsTriple)
}

// expectLexerFatal runs Tokenize and recovers its LexerPanic, asserting the
// recorded diagnostic has the expected code (spec §7 "ambiguous single
// operator" and "unterminated string" are both fatal lexical errors, so
// Tokenize unwinds via LexerPanic rather than returning a token list).
func expectLexerFatal(t *testing.T, src string, wantCode diagnostic.Code) {
	t.Helper()
	bag := &diagnostic.Bag{Tolerant: true}
	func() {
		defer func() {
			r := recover()
			lp, ok := r.(LexerPanic)
			if !ok {
				t.Fatalf("expected LexerPanic, got %v", r)
			}
			assert.Equal(t, wantCode, lp.Diagnostic.Code)
		}()
		Tokenize(src, "<test>", bag)
	}()
	assert.True(t, bag.HasErrors())
}

func TestTokenizeAmbiguousSingleOperatorIsFatal(t *testing.T) {
	expectLexerFatal(t, "a & b", diagnostic.CodeAmbiguousOperator)
}

func TestTokenizeUnterminatedStringIsFatal(t *testing.T) {
	expectLexerFatal(t, `"unterminated`, diagnostic.CodeUnterminatedString)
}

// Lexer totality (spec §8): every non-panicking input produces a token
// stream terminated by EOF.
func TestTokenizeAlwaysTerminatesWithEOF(t *testing.T) {
	for _, src := range []string{"", "  \n\n", "let x = 1\n", "fn f() { }"} {
		toks := tokenize(t, src)
		if assert.NotEmpty(t, toks) {
			assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
		}
	}
}
