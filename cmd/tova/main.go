// Command tova is the compiler driver: lex/parse/analyze/generate wired
// through pkg/tova, fronted by a cobra command tree.
//
// # File index
//
//   - main.go        - entry point, rootCmd, global flags
//   - cmd_build.go    - build
//   - cmd_run.go      - run (build + execute via bun, optional dev server)
//   - cmd_check.go    - check
//   - cmd_fmt.go      - fmt
//   - cmd_testbench.go - test, bench
//   - cmd_doc.go      - doc
//   - cmd_lsp.go      - lsp
//   - cmd_deploy.go   - deploy
//   - compile.go      - shared compile-and-report helper
//   - watch.go        - fsnotify-driven recompilation loop
//   - devserver.go    - websocket live-reload dev server for `run`
//   - cache.go        - LRU document cache for `lsp`
//   - style.go         - lipgloss styles for diagnostics and summaries
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagStrict   bool
	flagTolerant bool
	flagVerbose  bool
	flagWatch    bool
	flagOut      string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tova",
	Short: "Tova compiler driver",
	Long: `tova compiles Tova source into target-partitioned JavaScript.

It wires the lexer, parser, analyzer, code generator, and deployment
inferencer in pkg/tova into one command-line surface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.TimeKey = ""
		if flagVerbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", true, "escalate semantic warnings to errors")
	rootCmd.PersistentFlags().BoolVar(&flagTolerant, "tolerant", false, "keep compiling past the first error")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable operational logging")
	rootCmd.PersistentFlags().StringVarP(&flagOut, "out", "o", "dist", "output directory for emitted targets")

	buildCmd.Flags().BoolVar(&flagWatch, "watch", false, "recompile on file change")
	runCmd.Flags().BoolVar(&flagWatch, "watch", false, "recompile and reload on file change")

	rootCmd.AddCommand(
		buildCmd,
		runCmd,
		checkCmd,
		fmtCmd,
		testCmd,
		benchCmd,
		docCmd,
		lspCmd,
		deployCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
