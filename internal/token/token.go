// Package token defines the lexical token kinds produced by the Tova
// lexer and consumed by the parser.
//
// The kind table and the overall "Kind uint / Token struct" shape follow
// internal/js_lexer in the teacher repo: a flat enumeration covering
// keywords, operators, delimiters and literals, plus a fixed keyword
// lookup table built once at package init.
package token

// Kind identifies the lexical category of a Token.
type Kind uint16

const (
	EOF Kind = iota
	SyntaxError
	Newline

	// Literals
	Ident
	Int
	Float
	String
	StringTemplate // StringParts holds interpolation parts
	Docstring

	// Keywords
	KwVar
	KwLet
	KwFn
	KwReturn
	KwIf
	KwElif
	KwElse
	KwFor
	KwWhile
	KwLoop
	KwMatch
	KwType
	KwTrait
	KwInterface
	KwImpl
	KwImport
	KwFrom
	KwExport
	KwPub
	KwAs
	KwAnd
	KwOr
	KwNot
	KwIn
	KwIs
	KwTrue
	KwFalse
	KwNil
	KwServer
	KwBrowser
	KwClient
	KwShared
	KwRoute
	KwMiddleware
	KwState
	KwComputed
	KwEffect
	KwComponent
	KwStore
	KwTest
	KwBench
	KwWith
	KwDefer
	KwGuard
	KwAsync
	KwAwait
	KwYield
	KwBreak
	KwContinue

	// Punctuation / operators
	Amp       // &
	AmpAmp    // &&
	Pipe      // |
	PipePipe  // ||
	PipeOp    // |>
	Bang      // !
	BangEq    // !=
	Eq        // =
	EqEq      // ==
	Lt
	LtEq
	Gt
	GtEq
	Plus
	PlusEq
	Minus
	MinusEq
	Star
	StarEq
	StarStar
	Slash
	SlashEq
	Percent
	PercentEq
	Dot
	DotDot
	DotDotEq
	DotDotDot
	Question
	QuestionDot
	QuestionQuestion
	Colon
	ColonColon
	Arrow      // ->
	FatArrow   // =>
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	At
)

// Keywords maps reserved identifiers onto their keyword Kind. Built once;
// never mutated after package init, mirroring esbuild's `Keywords` table.
var Keywords = map[string]Kind{
	"var":       KwVar,
	"let":       KwLet,
	"fn":        KwFn,
	"return":    KwReturn,
	"if":        KwIf,
	"elif":      KwElif,
	"else":      KwElse,
	"for":       KwFor,
	"while":     KwWhile,
	"loop":      KwLoop,
	"match":     KwMatch,
	"type":      KwType,
	"trait":     KwTrait,
	"interface": KwInterface,
	"impl":      KwImpl,
	"import":    KwImport,
	"from":      KwFrom,
	"export":    KwExport,
	"pub":       KwPub,
	"as":        KwAs,
	"and":       KwAnd,
	"or":        KwOr,
	"not":       KwNot,
	"in":        KwIn,
	"is":        KwIs,
	"true":      KwTrue,
	"false":     KwFalse,
	"nil":       KwNil,
	"server":    KwServer,
	"browser":   KwBrowser,
	"client":    KwClient,
	"shared":    KwShared,
	"route":     KwRoute,
	"middleware": KwMiddleware,
	"state":     KwState,
	"computed":  KwComputed,
	"effect":    KwEffect,
	"component": KwComponent,
	"store":     KwStore,
	"test":      KwTest,
	"bench":     KwBench,
	"with":      KwWith,
	"defer":     KwDefer,
	"guard":     KwGuard,
	"async":     KwAsync,
	"await":     KwAwait,
	"yield":     KwYield,
	"break":     KwBreak,
	"continue":  KwContinue,
}

// BlockIdentifiers are recognized as identifier-strategy block openers by
// the block registry (spec §4.2) rather than as reserved keywords: they
// remain valid identifiers everywhere else and are only treated as block
// openers when followed by the block-opening lookahead (optional string
// name + '{').
var BlockIdentifiers = map[string]bool{
	"cli":      true,
	"data":     true,
	"security": true,
	"deploy":   true,
}

// Names used for error messages and snapshot tests.
var names = map[Kind]string{
	EOF: "end of file", SyntaxError: "syntax error", Newline: "newline",
	Ident: "identifier", Int: "integer", Float: "float", String: "string",
	StringTemplate: "string template", Docstring: "docstring",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	for kw, kind := range Keywords {
		if kind == k {
			return kw
		}
	}
	return "token"
}

// Pos is a 1-based line/column source position. Columns count UTF-8 runes
// from the start of the line; both fields are always >= 1 (spec §3
// invariant: "Tokens carry column >= 1 and line >= 1").
type Pos struct {
	Line   int
	Column int
}

// StringPart is one piece of a (possibly interpolated) string literal:
// either literal text, or a nested token stream for `{expr}`.
type StringPart struct {
	Text  string // set when Expr == nil
	Expr  []Token // nested token stream, set for interpolated segments
}

// Token is an immutable lexical token. `Kind`/`Value`/`Pos` mirror the
// teacher's flat Token shape; StringParts carries interpolation sub-streams
// for STRING_TEMPLATE tokens (spec §3 "Token").
type Token struct {
	Kind        Kind
	Value       string
	Pos         Pos
	File        string
	StringParts []StringPart
	IsTriple    bool
	IsSingle    bool
	Raw         string
}
