package main

import (
	"fmt"
	"os"

	"github.com/tova-lang/tova/internal/config"
	"github.com/tova-lang/tova/pkg/tova"
)

// compileOptions builds the CompileOptions the global flags describe.
func compileOptions() config.CompileOptions {
	return config.CompileOptions{
		Strict:   flagStrict && !flagTolerant,
		Tolerant: flagTolerant,
		Verbose:  flagVerbose,
	}
}

// compileFile reads path and runs the full pipeline over it.
func compileFile(path string) (*tova.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return tova.Compile(string(src), path, compileOptions()), nil
}

// reportDiagnostics renders every diagnostic to stderr in the clang-style
// fence format, styled for TTY output. It returns true if any error
// diagnostic was printed.
func reportDiagnostics(res *tova.Result) bool {
	for _, w := range res.Diagnostics.Warnings {
		fmt.Fprintln(os.Stderr, styleWarning.Render(w.Fence()))
	}
	for _, e := range res.Diagnostics.Errors {
		fmt.Fprintln(os.Stderr, styleError.Render(e.Fence()))
	}
	return len(res.Diagnostics.Errors) > 0
}
