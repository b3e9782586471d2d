package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "analyze a file and report diagnostics without emitting code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := compileFile(args[0])
		if err != nil {
			return err
		}
		hasErrors := reportDiagnostics(res)
		if !hasErrors && len(res.Diagnostics.Warnings) == 0 {
			fmt.Println(styleOk.Render(args[0] + ": no diagnostics"))
		}
		if hasErrors {
			return fmt.Errorf("check failed: %d error(s)", len(res.Diagnostics.Errors))
		}
		return nil
	},
}
