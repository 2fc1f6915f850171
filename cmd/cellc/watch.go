package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"

	"kodelang.dev/cellc/compiler"
	"kodelang.dev/cellc/config"
	"kodelang.dev/cellc/core/cell"
)

// watchAndCompile recompiles path on every write event, skipping the
// reprint when the recompiled program is byte-identical to the last one
// (per core/cell.Fingerprint, the canonical-encoding digest), so an editor's
// "save on every keystroke" autosave doesn't spam identical output.
func watchAndCompile(stdout, stderr io.Writer, path string, opts config.Options, forceRun bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	var lastFingerprint [32]byte
	var haveFingerprint bool

	compileAndPrint := func() {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return
		}
		parserOpts, err := opts.ParserOptions()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return
		}
		result := compiler.Compile(source, parserOpts...)
		if len(result.Diagnostics) > 0 {
			reportDiagnostics(stderr, source, result.Diagnostics)
			return
		}
		fingerprint, err := cell.Fingerprint(result.Program)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return
		}
		if haveFingerprint && fingerprint == lastFingerprint {
			return
		}
		lastFingerprint = fingerprint
		haveFingerprint = true
		if err := printProgram(stdout, result, opts.Evaluate || forceRun); err != nil {
			fmt.Fprintln(stderr, err)
		}
	}

	compileAndPrint()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				compileAndPrint()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(stderr, err)
		}
	}
}
