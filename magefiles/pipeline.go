//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// runCLI executes the built binary with args, streaming output.
func runCLI(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// Ingest fetches the configured seed queries into the corpus database.
func Ingest() error {
	mg.Deps(Build)
	return runCLI("ingest")
}

// Index rebuilds the semantic vector index from the stored corpus.
func Index() error {
	mg.Deps(Build)
	return runCLI("index")
}

// Refresh runs ingest followed by index.
func Refresh() error {
	mg.SerialDeps(Ingest, Index)
	return nil
}
