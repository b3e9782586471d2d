package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tova-lang/tova/pkg/tova"
)

var flagDevAddr string

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "compile and execute the chosen target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if flagWatch {
			return runWatched(path)
		}
		res, err := compileFile(path)
		if err != nil {
			return err
		}
		if reportDiagnostics(res) {
			return fmt.Errorf("run failed: %d error(s)", len(res.Diagnostics.Errors))
		}
		return runOnce(res)
	},
}

func init() {
	runCmd.Flags().StringVar(&flagDevAddr, "addr", "localhost:3000", "dev server address for browser targets")
}

// runOnce executes whichever single target the source produced: a server
// block runs under bun, a browser block is served by the live-reload dev
// server, module-mode output is just reported since there is nothing to
// execute (spec §6 "run (emit + execute chosen target)").
func runOnce(res *tova.Result) error {
	switch {
	case res.Server != "":
		return runUnderBun(res.Shared + "\n" + res.Server)
	case res.Browser != "":
		srv := newDevServer(res.Shared + "\n" + res.Browser)
		return srv.serve(flagDevAddr)
	case res.IsModule:
		fmt.Println(styleMuted.Render("module-mode output has nothing to run; use `tova build` to emit it"))
		return nil
	default:
		return fmt.Errorf("no server or browser target found")
	}
}

func runUnderBun(src string) error {
	tmp, err := os.CreateTemp("", "tova-run-*.js")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(src); err != nil {
		tmp.Close()
		return err
	}
	tmp.Close()

	runner := exec.Command("bun", "run", tmp.Name())
	runner.Stdout = os.Stdout
	runner.Stderr = os.Stderr
	runner.Stdin = os.Stdin
	return runner.Run()
}

// runWatched keeps a browser target's dev server alive across
// recompilations, pushing a live-reload notification on every rebuild; a
// server target instead restarts the bun process each time.
func runWatched(path string) error {
	res, err := compileFile(path)
	if err != nil {
		return err
	}
	if res.Browser != "" {
		srv := newDevServer(res.Shared + "\n" + res.Browser)
		go func() {
			if err := srv.serve(flagDevAddr); err != nil && logger != nil {
				logger.Error("dev server stopped", zap.Error(err))
			}
		}()
		return watchAndRun(path, func() error {
			res, err := compileFile(path)
			if err != nil {
				return err
			}
			if reportDiagnostics(res) {
				return fmt.Errorf("recompile failed: %d error(s)", len(res.Diagnostics.Errors))
			}
			srv.setBundle(res.Shared + "\n" + res.Browser)
			return nil
		})
	}
	return watchAndRun(path, func() error {
		res, err := compileFile(path)
		if err != nil {
			return err
		}
		if reportDiagnostics(res) {
			return fmt.Errorf("recompile failed: %d error(s)", len(res.Diagnostics.Errors))
		}
		return runOnce(res)
	})
}
