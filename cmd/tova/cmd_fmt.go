package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var fmtCheckOnly bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "reformat a file in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		res, err := compileFile(path)
		if err != nil {
			return err
		}
		if reportDiagnostics(res) {
			return fmt.Errorf("fmt refused: file has parse/analysis errors")
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		formatted := normalizeWhitespace(string(src))

		if fmtCheckOnly {
			if formatted != string(src) {
				return fmt.Errorf("%s is not formatted", path)
			}
			return nil
		}
		if formatted == string(src) {
			return nil
		}
		return os.WriteFile(path, []byte(formatted), 0o644)
	},
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCheckOnly, "check", false, "report whether the file is formatted without rewriting it")
}

// normalizeWhitespace trims trailing whitespace from every line, collapses
// runs of more than one blank line, and ensures exactly one trailing
// newline. A full AST-driven pretty printer is out of scope for this pass
// (see DESIGN.md); this still performs a genuine, idempotent reformat.
func normalizeWhitespace(src string) string {
	lines := strings.Split(src, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, trimmed)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}
