// Package diagnostic implements the error/warning record type used by the
// whole pipeline (spec §7). The shape and the clang-style rendering are
// modeled directly on esbuild's internal/logger: a severity-tagged message
// with an optional source location and line-text code fence.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tova-lang/tova/internal/token"
)

// Severity is Error or Warning (spec §7: "Severities: error, warning").
type Severity uint8

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Code is a stable diagnostic identifier, grouped by the taxonomy in spec §7.
type Code string

const (
	CodeUnterminatedString  Code = "lex/unterminated-string"
	CodeUnterminatedComment Code = "lex/unterminated-comment"
	CodeUnexpectedChar      Code = "lex/unexpected-char"
	CodeAmbiguousOperator   Code = "lex/ambiguous-operator"

	CodeUnexpectedToken  Code = "parse/unexpected-token"
	CodeExpectedButGot   Code = "parse/expected-but-got"
	CodeUnclosedBlock    Code = "parse/unclosed-block"
	CodeTrailingComma    Code = "parse/trailing-comma"
	CodeIllegalPattern   Code = "parse/illegal-pattern"
	CodeIllegalJSXAttr   Code = "parse/illegal-jsx-attribute"

	CodeUndefinedIdentifier Code = "bind/undefined-identifier"
	CodeDuplicateDefinition Code = "bind/duplicate-definition"
	CodeImmutableReassign   Code = "bind/immutable-reassign"
	CodeUndefinedLabel      Code = "bind/undefined-label"
	CodeBlockKindViolation  Code = "bind/block-kind-violation"
	CodeUnknownPeerFunction Code = "bind/unknown-peer-function"
	CodeSelfRPCCall         Code = "bind/self-rpc-call"

	CodeArityMismatch        Code = "type/arity-mismatch"
	CodeOperandKindMismatch  Code = "type/operand-kind-mismatch"
	CodeReturnTypeMismatch   Code = "type/return-type-mismatch"
	CodeNarrowingWithoutCast Code = "type/narrowing-without-cast"
	CodeTraitConformance     Code = "type/trait-conformance"

	CodeUnusedBinding  Code = "warn/unused-binding"
	CodeThrowForErr    Code = "warn/throw-in-place-of-err"
	CodeMissingReturn  Code = "warn/missing-return-on-some-path"
)

// Diagnostic is `{severity, code, message, location}` per spec §7.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	File     string
	Pos      token.Pos
	Length   int
	LineText string
	Suggestion string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s: %s", d.File, d.Pos.Line, d.Pos.Column, d.Severity, d.Code, d.Message)
}

// Fence renders the `file:line:column: severity: code: message` line
// followed by a source code fence pointing at the offending token, in the
// teacher's clang-derived style (spec §7 "User-visible format").
func (d Diagnostic) Fence() string {
	var b strings.Builder
	b.WriteString(d.String())
	if d.LineText != "" {
		b.WriteByte('\n')
		b.WriteString(d.LineText)
		b.WriteByte('\n')
		col := d.Pos.Column
		if col < 1 {
			col = 1
		}
		b.WriteString(strings.Repeat(" ", col-1))
		length := d.Length
		if length < 1 {
			length = 1
		}
		b.WriteString(strings.Repeat("^", length))
		if d.Suggestion != "" {
			b.WriteString(" did you mean '" + d.Suggestion + "'?")
		}
	}
	return b.String()
}

// Bag accumulates diagnostics across a compilation (tolerant mode) or is
// consulted for "stop at first error" behavior (strict mode). It is the
// `Result<Output, [Diagnostic]>` design note from spec §9 made concrete:
// any stage can push to it, only the top of the pipeline decides whether
// to abort.
type Bag struct {
	Tolerant bool
	errors   []Diagnostic
	warnings []Diagnostic
}

// Fatal is the panic payload used to unwind out of a stage when strict,
// non-tolerant mode hits its first error -- mirroring esbuild's
// `LexerPanic{}` panic/recover based fatal-error flow.
type Fatal struct {
	Diagnostic Diagnostic
}

func (f Fatal) Error() string { return f.Diagnostic.String() }

// Add records a diagnostic. In non-tolerant mode, an Error diagnostic
// panics with Fatal immediately (spec §7 "the first error aborts with an
// exception carrying the full list so far"); the recover point collects
// Bag.Errors() into that list.
func (b *Bag) Add(d Diagnostic) {
	if d.Severity == Error {
		b.errors = append(b.errors, d)
		if !b.Tolerant {
			panic(Fatal{Diagnostic: d})
		}
		return
	}
	b.warnings = append(b.warnings, d)
}

func (b *Bag) HasErrors() bool { return len(b.errors) > 0 }

func (b *Bag) Errors() []Diagnostic { return b.errors }

func (b *Bag) Warnings() []Diagnostic { return b.warnings }

// Sorted returns all diagnostics ordered by file, line, column -- same
// ordering rule as esbuild's SortableMsgs.
func (b *Bag) Sorted() []Diagnostic {
	all := append(append([]Diagnostic{}, b.errors...), b.warnings...)
	sort.SliceStable(all, func(i, j int) bool {
		a, c := all[i], all[j]
		if a.File != c.File {
			return a.File < c.File
		}
		if a.Pos.Line != c.Pos.Line {
			return a.Pos.Line < c.Pos.Line
		}
		return a.Pos.Column < c.Pos.Column
	})
	return all
}
