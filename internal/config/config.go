// Package config holds the compiler's options struct, following the
// nested-struct-of-options style of the teacher's internal/config.Options
// (spec SPEC_FULL.md §1 "Configuration").
package config

// CompileOptions is `{strict, tolerant, targets}` (spec §4.3, §6).
type CompileOptions struct {
	// Strict escalates semantic warnings (operand-kind mismatch, arity
	// mismatch) to errors (spec §4.3 "strict mode").
	Strict bool

	// Tolerant keeps the parser/analyzer running past the first error,
	// accumulating diagnostics instead of aborting (spec §7 "Propagation
	// policy"). The LSP always runs tolerant; `tova build` defaults to
	// strict, non-tolerant.
	Tolerant bool

	// Targets restricts which target blocks get emitted; an empty slice
	// means "every target block present in the source". Recognized values
	// are the BlockKind strings ("server", "browser", "test", "bench").
	Targets []string

	// Verbose records the CLI's --verbose setting. Compile does not read it;
	// the CLI sets the zap logger's level from the flag itself. It never
	// affects user-facing diagnostics.
	Verbose bool
}

// Default returns the options `tova build` uses absent any flags: strict,
// non-tolerant, every target.
func Default() CompileOptions {
	return CompileOptions{Strict: true, Tolerant: false}
}

// ForLSP returns the options the language server uses: tolerant so a
// broken in-progress edit still produces a best-effort analysis (spec §6
// "In module-compile mode the caller typically runs tolerant for LSP").
func ForLSP() CompileOptions {
	return CompileOptions{Strict: false, Tolerant: true}
}

func (o CompileOptions) WantsTarget(kind string) bool {
	if len(o.Targets) == 0 {
		return true
	}
	for _, t := range o.Targets {
		if t == kind {
			return true
		}
	}
	return false
}
