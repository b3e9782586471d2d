package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tova-lang/tova/pkg/tova"
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "compile a Tova source file and write its targets to disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run := func() error { return runBuild(args[0]) }
		if flagWatch {
			return watchAndRun(args[0], run)
		}
		return run()
	},
}

func runBuild(path string) error {
	res, err := compileFile(path)
	if err != nil {
		return err
	}
	if reportDiagnostics(res) {
		return fmt.Errorf("build failed: %d error(s)", len(res.Diagnostics.Errors))
	}
	if err := writeTargets(res); err != nil {
		return err
	}
	if logger != nil {
		logger.Info("build complete", zap.String("file", path), zap.String("out", flagOut))
	}
	return nil
}

// writeTargets writes each non-empty target buffer under flagOut, or the
// shared buffer alone as an ES module when res.IsModule (spec §4.4
// "Partitioning": module-compile mode populates only the shared buffer).
func writeTargets(res *tova.Result) error {
	if err := os.MkdirAll(flagOut, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", flagOut, err)
	}
	if res.IsModule {
		return writeIfNonEmpty("module.js", res.Shared)
	}
	for name, content := range map[string]string{
		"shared.js":  res.Shared,
		"server.js":  res.Server,
		"browser.js": res.Browser,
		"test.js":    res.Test,
		"bench.js":   res.Bench,
	} {
		if err := writeIfNonEmpty(name, content); err != nil {
			return err
		}
	}
	return nil
}

func writeIfNonEmpty(name, content string) error {
	if content == "" {
		return nil
	}
	path := filepath.Join(flagOut, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
