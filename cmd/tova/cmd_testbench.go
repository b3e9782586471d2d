package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test <file>",
	Short: "compile the test target and run it under bun",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return compileAndRunTarget(args[0], "test")
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench <file>",
	Short: "compile the bench target and run it under bun",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return compileAndRunTarget(args[0], "bench")
	},
}

// compileAndRunTarget compiles path and executes the named target's
// emitted JavaScript under bun, the runtime the deployment inferencer
// assumes is present (internal/deploy.RequiredComponents.Bun).
func compileAndRunTarget(path, target string) error {
	res, err := compileFile(path)
	if err != nil {
		return err
	}
	if reportDiagnostics(res) {
		return fmt.Errorf("%s failed: %d error(s)", target, len(res.Diagnostics.Errors))
	}

	var body string
	switch target {
	case "test":
		body = res.Test
	case "bench":
		body = res.Bench
	}
	if body == "" {
		return fmt.Errorf("no %s block found in %s", target, path)
	}

	full := res.Shared + "\n" + body
	tmp, err := os.CreateTemp("", "tova-"+target+"-*.js")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(full); err != nil {
		tmp.Close()
		return err
	}
	tmp.Close()

	runner := exec.Command("bun", "run", tmp.Name())
	runner.Stdout = os.Stdout
	runner.Stderr = os.Stderr
	return runner.Run()
}
