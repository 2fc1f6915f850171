// Command cellc is the compiler's external driver: cobra flags, file I/O
// and line:column translation live here, outside core (spec.md §1/§6 keep
// this concern explicitly out of the pipeline itself). Flag shape is
// grounded on opal-lang-opal/cli/main.go's rootCmd/flag-binding idiom; the
// error-reporting shape (one diagnostic per stderr line, nonzero exit,
// hex-encoded program on stdout followed optionally by the hex-encoded run
// result) mirrors original_source/rue-cli/src/main.rs.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kodelang.dev/cellc/compiler"
	"kodelang.dev/cellc/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		file       string
		runFlag    bool
		watch      bool
		configPath string
	)

	exitCode := 0

	rootCmd := &cobra.Command{
		Use:           "cellc",
		Short:         "Compile cell-lang source to its target VM's cell-tree encoding",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				opts = loaded
			}

			if watch {
				return watchAndCompile(cmd.OutOrStdout(), cmd.ErrOrStderr(), file, opts, runFlag)
			}

			code, err := compileOnce(cmd.OutOrStdout(), cmd.ErrOrStderr(), file, opts, runFlag)
			exitCode = code
			return err
		},
	}

	rootCmd.Flags().StringVarP(&file, "file", "f", "", "source file to compile (required)")
	rootCmd.Flags().BoolVar(&runFlag, "run", false, "also evaluate the compiled program against an empty environment")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "recompile whenever --file changes")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML compiler-options file")
	_ = rootCmd.MarkFlagRequired("file")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == 0 {
			exitCode = 1
		}
	}
	return exitCode
}

// compileOnce reads, compiles and reports path once, returning the process
// exit code the caller should use.
func compileOnce(stdout, stderr io.Writer, path string, opts config.Options, forceRun bool) (int, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return 1, fmt.Errorf("reading %s: %w", path, err)
	}

	parserOpts, err := opts.ParserOptions()
	if err != nil {
		return 1, err
	}

	result := compiler.Compile(source, parserOpts...)
	if len(result.Diagnostics) > 0 {
		reportDiagnostics(stderr, source, result.Diagnostics)
		return 1, nil
	}

	if err := printProgram(stdout, result, opts.Evaluate || forceRun); err != nil {
		return 1, err
	}
	return 0, nil
}
