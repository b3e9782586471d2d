// Package parser implements the Tova recursive-descent parser (spec §4.2):
// tokens to AST, with a Pratt operator-precedence expression grammar, JSX,
// pattern matching, column expressions, and two-level error recovery.
//
// The overall control shape -- a Parser holding a token slice and a
// cursor, statement-level parse functions that each consume a well-known
// keyword, and panic/recover driven error recovery -- mirrors the
// teacher's internal/js_parser, scaled down from JS/TS's full grammar to
// Tova's.
package parser

import (
	"fmt"

	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/blocks"
	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/token"
)

// Options configures tolerant (error-recovering) vs strict parsing
// (spec §4.2 "tolerant mode", spec §6 "--tolerant").
type Options struct {
	Tolerant bool
}

type Parser struct {
	toks     []token.Token
	pos      int
	file     string
	bag      *diagnostic.Bag
	opts     Options
	registry *blocks.Registry
	source   string // original source text, for error-recovery line text

	// columnDepth is incremented/decremented around table-pipeline call arguments
	// to enable ColumnExpression parsing (spec §4.2 "Column expressions").
	columnDepth int
}

// syntaxPanic is the recovery signal used internally; parseTopLevelItem and
// parseBlockItem recover it at statement/top-level synchronization points.
type syntaxPanic struct{}

// Parse parses a full token stream into a Program. In non-tolerant mode the
// first syntax error panics with diagnostic.Fatal (caught by the caller,
// e.g. pkg/tova.Compile); in tolerant mode, errors are recorded in bag and
// a partial AST is still returned (spec §4.2 "Error recovery").
func Parse(toks []token.Token, file string, bag *diagnostic.Bag, opts Options) *ast.Program {
	p := &Parser{toks: toks, file: file, bag: bag, opts: opts, registry: blocks.Default()}
	return p.parseProgram()
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF, File: p.file}
	}
	return p.toks[p.pos]
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) peekAhead(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return token.Token{Kind: token.EOF, File: p.file}
	}
	return p.toks[idx]
}

// skipNewlines advances past NEWLINE tokens; Tova statements are
// newline-terminated but most internal parse points treat runs of blank
// lines as insignificant.
func (p *Parser) skipNewlines() {
	for p.at(token.Newline) {
		p.pos++
	}
}

// advance returns the current token and moves past exactly that one token;
// NEWLINE tokens that follow are not skipped (callers that care about "is
// there a newline before the next token" use nextIsNewline).
func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

// nextIsNewline reports whether, ignoring nothing, the very next token is
// a NEWLINE -- used by the `?` postfix disambiguation (spec §4.2).
func (p *Parser) nextIsNewline() bool {
	return p.cur().Kind == token.Newline
}

func (p *Parser) expect(k token.Kind) token.Token {
	p.skipNewlines()
	if !p.at(k) {
		p.errorHere(diagnostic.CodeExpectedButGot, fmt.Sprintf("expected %s but found %s", k, p.cur().Kind))
		panic(syntaxPanic{})
	}
	return p.advance()
}

func (p *Parser) errorHere(code diagnostic.Code, msg string) {
	t := p.cur()
	p.bag.Add(diagnostic.Diagnostic{
		Severity: diagnostic.Error, Code: code, Message: msg,
		File: p.file, Pos: t.Pos, Length: max1(len(t.Value)),
	})
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (p *Parser) loc() ast.Location {
	t := p.cur()
	return ast.Location{File: p.file, Line: t.Pos.Line, Column: t.Pos.Column}
}

// --- Top level ---------------------------------------------------------

var topLevelSyncKeywords = map[token.Kind]bool{
	token.KwServer: true, token.KwBrowser: true, token.KwShared: true,
	token.KwFn: true, token.KwType: true, token.KwTrait: true,
	token.KwInterface: true, token.KwImpl: true, token.KwImport: true,
	token.KwPub: true, token.KwExport: true,
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{Loc: p.loc()}
	p.skipNewlines()
	for !p.at(token.EOF) {
		item, ok := p.parseTopLevelItem()
		if ok {
			prog.Items = append(prog.Items, item)
		}
		p.skipNewlines()
	}
	return prog
}

// parseTopLevelItem parses one block or bare top-level declaration,
// recovering (in tolerant mode) by synchronizing to the next top-level
// keyword on failure (spec §4.2 "error recovery", level 2).
func (p *Parser) parseTopLevelItem() (item ast.TopLevel, ok bool) {
	startLoc := p.loc()
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntax := r.(syntaxPanic); isSyntax && p.opts.Tolerant {
				p.synchronizeTopLevel()
				ok = false
				return
			}
			panic(r)
		}
	}()

	if plugin, name, isBlock := p.detectBlockOpener(); isBlock {
		item = ast.TopLevel{Loc: startLoc, Block: p.parseBlock(plugin, name)}
		return item, true
	}

	decl := p.parseTopLevelDecl()
	item = ast.TopLevel{Loc: startLoc, Decl: decl}
	return item, true
}

func (p *Parser) synchronizeTopLevel() {
	for !p.at(token.EOF) {
		if topLevelSyncKeywords[p.cur().Kind] {
			return
		}
		if p.at(token.Ident) && blocks.Default() != nil {
			if _, ok := token.BlockIdentifiers[p.cur().Value]; ok {
				return
			}
		}
		p.advance()
	}
}

// detectBlockOpener implements the block-registry-driven dispatch from
// spec §4.2: a keyword-strategy plugin triggers on its specific token kind;
// an identifier-strategy plugin triggers when a matching identifier is
// followed by an optional string name and `{`.
func (p *Parser) detectBlockOpener() (blocks.Plugin, string, bool) {
	kindForToken := map[token.Kind]string{
		token.KwServer: "server", token.KwBrowser: "browser", token.KwShared: "shared",
	}
	if name, ok := kindForToken[p.cur().Kind]; ok {
		plugin, _ := p.registry.Lookup(name)
		return plugin, "", true
	}
	if p.at(token.Ident) {
		if token.BlockIdentifiers[p.cur().Value] {
			// lookahead: optional string name, then '{'
			la := 1
			if p.peekAhead(la).Kind == token.String {
				la++
			}
			if p.peekAhead(la).Kind == token.LBrace {
				plugin, _ := p.registry.Lookup(p.cur().Value)
				return plugin, p.cur().Value, true
			}
		}
	}
	return blocks.Plugin{}, "", false
}

// parseBlock parses `kind ["name"] { items }`.
func (p *Parser) parseBlock(plugin blocks.Plugin, identName string) *ast.Block {
	loc := p.loc()
	p.advance() // keyword or identifier
	name := ""
	if p.at(token.String) {
		name = p.advance().Value
	}
	p.expect(token.LBrace)
	p.skipNewlines()
	var items []ast.Decl
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if d, ok := p.parseBlockItem(); ok {
			items = append(items, d)
		}
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return &ast.Block{Loc: loc, Kind: plugin.Kind, Name: name, Items: items}
}

// parseBlockItem parses one item inside a block body: either a
// declaration recognized by this block kind, or a bare statement wrapped
// as ExprDecl so ordinary code can sit alongside declarations. On a
// syntax error in tolerant mode it synchronizes to the next statement
// boundary and returns ok=false (spec §4.2 level-1 recovery).
func (p *Parser) parseBlockItem() (decl ast.Decl, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntax := r.(syntaxPanic); isSyntax && p.opts.Tolerant {
				p.synchronizeStatement()
				ok = false
				return
			}
			panic(r)
		}
	}()
	return p.parseDeclOrStmt(), true
}

// synchronizeStatement is level-1 recovery: skip to the next statement
// boundary (a newline followed by a known statement-starting keyword, or
// a closing brace), per spec §4.2.
func (p *Parser) synchronizeStatement() {
	for !p.at(token.EOF) && !p.at(token.RBrace) {
		if p.at(token.Newline) {
			p.pos++
			if p.isStatementStart(p.cur().Kind) || p.at(token.RBrace) {
				return
			}
			continue
		}
		p.advance()
	}
}

func (p *Parser) isStatementStart(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwType, token.KwTrait, token.KwInterface, token.KwImpl,
		token.KwVar, token.KwLet, token.KwReturn, token.KwIf, token.KwFor, token.KwWhile,
		token.KwLoop, token.KwMatch, token.KwState, token.KwComputed, token.KwEffect,
		token.KwComponent, token.KwStore, token.KwGuard, token.KwWith, token.KwDefer,
		token.KwImport, token.KwBreak, token.KwContinue, token.KwPub:
		return true
	}
	return false
}

func docstringOf(doc []string) string {
	s := ""
	for i, d := range doc {
		if i > 0 {
			s += "\n"
		}
		s += d
	}
	return s
}
