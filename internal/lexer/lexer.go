// Package lexer tokenizes Tova source text (spec §4.1). The overall shape
// -- a single mutable cursor over the source bytes, one rune of lookahead,
// and fatal lexical errors raised via panic/recover -- mirrors the teacher
// repo's internal/js_lexer, simplified to stdlib string/rune handling
// (golang.org/x/text supplies the identifier-start letter table; digits and
// whitespace are checked by hand) since Tova tokens never need to
// round-trip through UTF-16 the way JS string literals must.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"

	"github.com/tova-lang/tova/internal/diagnostic"
	"github.com/tova-lang/tova/internal/token"
)

// identStart / identContinue mirror esbuild's IsIdentifierStart/Part but
// are expressed as a rangetable.New over ASCII letters and underscore --
// Tova identifiers are ASCII-only per spec §4.1.
var identStart = rangetable.New('_', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z')

func isIdentStart(r rune) bool {
	return rangetable.Contains(identStart, r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// LexerPanic is the unwind payload for a fatal lexical error, the same
// panic/recover pattern esbuild's lexer uses so the parser never has to
// check an error return on every token advance.
type LexerPanic struct{ Diagnostic diagnostic.Diagnostic }

type Lexer struct {
	src      string
	file     string
	pos      int // byte offset of the rune about to be read
	line     int
	lineStart int // byte offset of current line's start
	bag      *diagnostic.Bag
}

// Tokenize runs the full lexer over src and returns the token list
// terminated by an EOF token, or panics with LexerPanic on a fatal error
// (unterminated string/comment, unexpected character, ambiguous operator).
func Tokenize(src, file string, bag *diagnostic.Bag) []token.Token {
	l := &Lexer{src: src, file: file, line: 1, bag: bag}
	var tokens []token.Token
	for {
		tok := l.next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) pos2() token.Pos {
	return token.Pos{Line: l.line, Column: l.pos - l.lineStart + 1}
}

func (l *Lexer) fail(code diagnostic.Code, msg string) {
	d := diagnostic.Diagnostic{Severity: diagnostic.Error, Code: code, Message: msg, File: l.file, Pos: l.pos2(), Length: 1}
	l.bag.Add(d)
	panic(LexerPanic{Diagnostic: d})
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, w
}

func (l *Lexer) advanceRune() rune {
	r, w := l.peekRune()
	l.pos += w
	return r
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// next scans and returns the next token, skipping whitespace and discarded
// comments first.
func (l *Lexer) next() token.Token {
	for {
		r, w := l.peekRune()
		switch {
		case w == 0:
			return l.make(token.EOF, "")
		case r == '\n':
			startPos := l.pos2()
			l.pos += w
			l.line++
			l.lineStart = l.pos
			return token.Token{Kind: token.Newline, Pos: startPos, File: l.file}
		case r == ' ' || r == '\t' || r == '\r':
			l.pos += w
			continue
		case r == '/' && l.peekAt(1) == '/':
			if l.peekAt(2) == '/' {
				return l.scanDocstring()
			}
			l.skipLineComment()
			continue
		case r == '/' && l.peekAt(1) == '*':
			l.skipBlockComment()
			continue
		}
		break
	}
	r, _ := l.peekRune()
	switch {
	case isIdentStart(r):
		return l.scanIdentifier()
	case isDigit(r):
		return l.scanNumber()
	case r == '"':
		if l.peekAt(1) == '"' && l.peekAt(2) == '"' {
			return l.scanTripleString()
		}
		return l.scanString('"', true)
	case r == '\'':
		return l.scanString('\'', false)
	}
	return l.scanOperator()
}

func (l *Lexer) make(kind token.Kind, value string) token.Token {
	return token.Token{Kind: kind, Value: value, Pos: l.pos2(), File: l.file}
}

func (l *Lexer) skipLineComment() {
	for {
		r, w := l.peekRune()
		if w == 0 || r == '\n' {
			return
		}
		l.pos += w
	}
}

func (l *Lexer) scanDocstring() token.Token {
	start := l.pos2()
	l.pos += 3 // "///"
	begin := l.pos
	for {
		r, w := l.peekRune()
		if w == 0 || r == '\n' {
			break
		}
		l.pos += w
	}
	text := strings.TrimSpace(l.src[begin:l.pos])
	return token.Token{Kind: token.Docstring, Value: text, Pos: start, File: l.file}
}

func (l *Lexer) skipBlockComment() {
	l.pos += 2 // "/*"
	depth := 1
	for depth > 0 {
		r, w := l.peekRune()
		if w == 0 {
			l.fail(diagnostic.CodeUnterminatedComment, "unterminated block comment")
		}
		if r == '\n' {
			l.line++
			l.pos += w
			l.lineStart = l.pos
			continue
		}
		if r == '/' && l.peekAt(1) == '*' {
			depth++
			l.pos += 2
			continue
		}
		if r == '*' && l.peekAt(1) == '/' {
			depth--
			l.pos += 2
			continue
		}
		l.pos += w
	}
}

func (l *Lexer) scanIdentifier() token.Token {
	start := l.pos2()
	begin := l.pos
	for {
		r, w := l.peekRune()
		if w == 0 || !isIdentContinue(r) {
			break
		}
		l.pos += w
	}
	text := l.src[begin:l.pos]
	if kind, ok := token.Keywords[text]; ok {
		return token.Token{Kind: kind, Value: text, Pos: start, File: l.file}
	}
	return token.Token{Kind: token.Ident, Value: text, Pos: start, File: l.file}
}

func (l *Lexer) scanNumber() token.Token {
	start := l.pos2()
	begin := l.pos
	isFloat := false
	if l.peekAt(0) == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.pos += 2
		for isHexDigit(l.peekAt(0)) || l.peekAt(0) == '_' {
			l.pos++
		}
		return l.numberToken(start, begin, false)
	}
	if l.peekAt(0) == '0' && (l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		l.pos += 2
		for l.peekAt(0) == '0' || l.peekAt(0) == '1' || l.peekAt(0) == '_' {
			l.pos++
		}
		return l.numberToken(start, begin, false)
	}
	if l.peekAt(0) == '0' && (l.peekAt(1) == 'o' || l.peekAt(1) == 'O') {
		l.pos += 2
		for (l.peekAt(0) >= '0' && l.peekAt(0) <= '7') || l.peekAt(0) == '_' {
			l.pos++
		}
		return l.numberToken(start, begin, false)
	}
	for isDigit(rune(l.peekAt(0))) || l.peekAt(0) == '_' {
		l.pos++
	}
	if l.peekAt(0) == '.' && isDigit(rune(l.peekAt(1))) {
		isFloat = true
		l.pos++
		for isDigit(rune(l.peekAt(0))) || l.peekAt(0) == '_' {
			l.pos++
		}
	}
	if l.peekAt(0) == 'e' || l.peekAt(0) == 'E' {
		isFloat = true
		l.pos++
		if l.peekAt(0) == '+' || l.peekAt(0) == '-' {
			l.pos++
		}
		for isDigit(rune(l.peekAt(0))) {
			l.pos++
		}
	}
	return l.numberToken(start, begin, isFloat)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *Lexer) numberToken(start token.Pos, begin int, isFloat bool) token.Token {
	raw := l.src[begin:l.pos]
	clean := strings.ReplaceAll(raw, "_", "")
	kind := token.Int
	if isFloat {
		kind = token.Float
	}
	return token.Token{Kind: kind, Value: clean, Raw: raw, Pos: start, File: l.file}
}

// scanString handles single- and double-quoted strings, including escapes
// and (double-quote only) `{expr}` interpolation (spec §4.1 "Strings").
func (l *Lexer) scanString(quote byte, allowInterp bool) token.Token {
	start := l.pos2()
	l.pos++ // opening quote
	var parts []token.StringPart
	var textBuf strings.Builder
	flush := func() {
		parts = append(parts, token.StringPart{Text: textBuf.String()})
		textBuf.Reset()
	}
	for {
		r, w := l.peekRune()
		if w == 0 || r == '\n' {
			l.fail(diagnostic.CodeUnterminatedString, "unterminated string literal")
		}
		if r == rune(quote) {
			l.pos += w
			break
		}
		if r == '\\' {
			l.pos += w
			textBuf.WriteString(l.scanEscape())
			continue
		}
		if allowInterp && r == '{' {
			flush()
			l.pos += w
			sub := l.scanInterpolationBody()
			parts = append(parts, token.StringPart{Expr: sub})
			continue
		}
		textBuf.WriteRune(r)
		l.pos += w
	}
	if textBuf.Len() > 0 || len(parts) == 0 {
		flush()
	}
	value := flattenParts(parts)
	if len(parts) == 1 && parts[0].Expr == nil {
		return token.Token{Kind: token.String, Value: value, Pos: start, File: l.file, IsSingle: quote == '\''}
	}
	return token.Token{Kind: token.StringTemplate, StringParts: parts, Pos: start, File: l.file}
}

func flattenParts(parts []token.StringPart) string {
	var b strings.Builder
	for _, p := range parts {
		if p.Expr == nil {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func (l *Lexer) scanEscape() string {
	r, w := l.peekRune()
	if w == 0 {
		l.fail(diagnostic.CodeUnterminatedString, "unterminated escape sequence")
	}
	l.pos += w
	switch r {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\':
		return "\\"
	case '"':
		return "\""
	case '{':
		return "{"
	case '\'':
		return "'"
	default:
		return string(r)
	}
}

// scanInterpolationBody nested-lexes the `{expr}` body into its own token
// stream by recursively invoking the tokenizer's operator/expression
// scanning until the matching unescaped `}` (spec §3: "expr is
// nested-lexed into a token sub-stream").
func (l *Lexer) scanInterpolationBody() []token.Token {
	var toks []token.Token
	depth := 1
	for {
		tok := l.next()
		if tok.Kind == token.LBrace {
			depth++
		}
		if tok.Kind == token.RBrace {
			depth--
			if depth == 0 {
				return toks
			}
		}
		if tok.Kind == token.EOF {
			l.fail(diagnostic.CodeUnterminatedString, "unterminated interpolation")
		}
		if tok.Kind == token.Newline {
			continue
		}
		toks = append(toks, tok)
	}
}

// scanTripleString scans `"""..."""`, auto-dedenting by the minimum common
// leading whitespace of non-empty inner lines, stripping the leading and
// trailing newline, per spec §4.1/§8. Per the Open Question in spec §9,
// zero inner non-empty lines dedents by zero.
func (l *Lexer) scanTripleString() token.Token {
	start := l.pos2()
	l.pos += 3
	begin := l.pos
	for {
		if l.peekAt(0) == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"' {
			break
		}
		r, w := l.peekRune()
		if w == 0 {
			l.fail(diagnostic.CodeUnterminatedString, "unterminated triple-quoted string")
		}
		if r == '\n' {
			l.line++
			l.pos += w
			l.lineStart = l.pos
			continue
		}
		l.pos += w
	}
	raw := l.src[begin:l.pos]
	l.pos += 3
	dedented := dedentTriple(raw)
	return l.buildTemplateFromDedented(dedented, start)
}

func dedentTriple(raw string) string {
	s := raw
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return s
	}
	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

// buildTemplateFromDedented re-lexes escapes/interpolation in an
// already-dedented triple-quoted body.
func (l *Lexer) buildTemplateFromDedented(body string, start token.Pos) token.Token {
	sub := &Lexer{src: body + "\x00", file: l.file, line: start.Line}
	var parts []token.StringPart
	var textBuf strings.Builder
	flush := func() {
		parts = append(parts, token.StringPart{Text: textBuf.String()})
		textBuf.Reset()
	}
	for {
		r, w := sub.peekRune()
		if w == 0 || r == '\x00' {
			break
		}
		if r == '\\' {
			sub.pos += w
			textBuf.WriteString(sub.scanEscape())
			continue
		}
		if r == '{' {
			flush()
			sub.pos += w
			body := sub.scanInterpolationBody()
			parts = append(parts, token.StringPart{Expr: body})
			continue
		}
		if r == '\n' {
			sub.line++
		}
		textBuf.WriteRune(r)
		sub.pos += w
	}
	if textBuf.Len() > 0 || len(parts) == 0 {
		flush()
	}
	value := flattenParts(parts)
	if len(parts) == 1 && parts[0].Expr == nil {
		return token.Token{Kind: token.String, Value: value, Pos: start, File: l.file, IsTriple: true}
	}
	return token.Token{Kind: token.StringTemplate, StringParts: parts, Pos: start, File: l.file, IsTriple: true}
}

// scanOperator performs maximal-munch matching over the fixed operator set
// in spec §4.1, longest sequence first.
func (l *Lexer) scanOperator() token.Token {
	start := l.pos2()
	c := l.peekAt(0)
	c1 := l.peekAt(1)
	c2 := l.peekAt(2)
	three := string([]byte{c, c1, c2})
	two := string([]byte{c, c1})
	if three == "..." {
		l.pos += 3
		return token.Token{Kind: token.DotDotDot, Pos: start, File: l.file}
	}
	if two == ".." && c2 == '=' {
		l.pos += 3
		return token.Token{Kind: token.DotDotEq, Pos: start, File: l.file}
	}
	switch two {
	case "&&":
		l.pos += 2
		return token.Token{Kind: token.AmpAmp, Pos: start, File: l.file}
	case "||":
		l.pos += 2
		return token.Token{Kind: token.PipePipe, Pos: start, File: l.file}
	case "|>":
		l.pos += 2
		return token.Token{Kind: token.PipeOp, Pos: start, File: l.file}
	case "==":
		l.pos += 2
		return token.Token{Kind: token.EqEq, Pos: start, File: l.file}
	case "!=":
		l.pos += 2
		return token.Token{Kind: token.BangEq, Pos: start, File: l.file}
	case "<=":
		l.pos += 2
		return token.Token{Kind: token.LtEq, Pos: start, File: l.file}
	case ">=":
		l.pos += 2
		return token.Token{Kind: token.GtEq, Pos: start, File: l.file}
	case "+=":
		l.pos += 2
		return token.Token{Kind: token.PlusEq, Pos: start, File: l.file}
	case "-=":
		l.pos += 2
		return token.Token{Kind: token.MinusEq, Pos: start, File: l.file}
	case "*=":
		l.pos += 2
		return token.Token{Kind: token.StarEq, Pos: start, File: l.file}
	case "/=":
		l.pos += 2
		return token.Token{Kind: token.SlashEq, Pos: start, File: l.file}
	case "%=":
		l.pos += 2
		return token.Token{Kind: token.PercentEq, Pos: start, File: l.file}
	case "**":
		l.pos += 2
		return token.Token{Kind: token.StarStar, Pos: start, File: l.file}
	case "..":
		l.pos += 2
		return token.Token{Kind: token.DotDot, Pos: start, File: l.file}
	case "::":
		l.pos += 2
		return token.Token{Kind: token.ColonColon, Pos: start, File: l.file}
	case "?.":
		l.pos += 2
		return token.Token{Kind: token.QuestionDot, Pos: start, File: l.file}
	case "??":
		l.pos += 2
		return token.Token{Kind: token.QuestionQuestion, Pos: start, File: l.file}
	case "=>":
		l.pos += 2
		return token.Token{Kind: token.FatArrow, Pos: start, File: l.file}
	case "->":
		l.pos += 2
		return token.Token{Kind: token.Arrow, Pos: start, File: l.file}
	}
	switch c {
	case '&':
		l.pos++
		l.fail(diagnostic.CodeAmbiguousOperator, "bare '&' is not a valid operator")
	case '|':
		l.pos++
		l.fail(diagnostic.CodeAmbiguousOperator, "bare '|' is not a valid operator")
	case '!':
		l.pos++
		return token.Token{Kind: token.Bang, Pos: start, File: l.file}
	case '=':
		l.pos++
		return token.Token{Kind: token.Eq, Pos: start, File: l.file}
	case '<':
		l.pos++
		return token.Token{Kind: token.Lt, Pos: start, File: l.file}
	case '>':
		l.pos++
		return token.Token{Kind: token.Gt, Pos: start, File: l.file}
	case '+':
		l.pos++
		return token.Token{Kind: token.Plus, Pos: start, File: l.file}
	case '-':
		l.pos++
		return token.Token{Kind: token.Minus, Pos: start, File: l.file}
	case '*':
		l.pos++
		return token.Token{Kind: token.Star, Pos: start, File: l.file}
	case '/':
		l.pos++
		return token.Token{Kind: token.Slash, Pos: start, File: l.file}
	case '%':
		l.pos++
		return token.Token{Kind: token.Percent, Pos: start, File: l.file}
	case '.':
		l.pos++
		return token.Token{Kind: token.Dot, Pos: start, File: l.file}
	case '?':
		l.pos++
		return token.Token{Kind: token.Question, Pos: start, File: l.file}
	case ':':
		l.pos++
		return token.Token{Kind: token.Colon, Pos: start, File: l.file}
	case '(':
		l.pos++
		return token.Token{Kind: token.LParen, Pos: start, File: l.file}
	case ')':
		l.pos++
		return token.Token{Kind: token.RParen, Pos: start, File: l.file}
	case '{':
		l.pos++
		return token.Token{Kind: token.LBrace, Pos: start, File: l.file}
	case '}':
		l.pos++
		return token.Token{Kind: token.RBrace, Pos: start, File: l.file}
	case '[':
		l.pos++
		return token.Token{Kind: token.LBracket, Pos: start, File: l.file}
	case ']':
		l.pos++
		return token.Token{Kind: token.RBracket, Pos: start, File: l.file}
	case ',':
		l.pos++
		return token.Token{Kind: token.Comma, Pos: start, File: l.file}
	case ';':
		l.pos++
		return token.Token{Kind: token.Semicolon, Pos: start, File: l.file}
	case '@':
		l.pos++
		return token.Token{Kind: token.At, Pos: start, File: l.file}
	}
	l.fail(diagnostic.CodeUnexpectedChar, fmt.Sprintf("unexpected character %q", c))
	panic("unreachable")
}
