package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gatvcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

// initTestRepo creates a repository in a temp directory and returns its root.
func initTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if _, err := repo.Init(dir); err != nil {
		t.Fatalf("repo.Init: %v", err)
	}
	return dir
}

func writeTestFile(t *testing.T, root, relPath, content string) {
	t.Helper()

	absPath := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", relPath, err)
	}
	if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q): %v", relPath, err)
	}
}

// runCommand executes cmd from inside dir and returns its combined output.
func runCommand(t *testing.T, dir string, cmd *cobra.Command, args ...string) string {
	t.Helper()

	output, err := execCommand(t, dir, cmd, args...)
	if err != nil {
		t.Fatalf("%s failed (%v): %v\noutput:\n%s", cmd.Name(), args, err, output)
	}
	return output
}

// runCommandErr executes cmd from inside dir and requires it to fail.
func runCommandErr(t *testing.T, dir string, cmd *cobra.Command, args ...string) {
	t.Helper()

	output, err := execCommand(t, dir, cmd, args...)
	if err == nil {
		t.Fatalf("%s %v should have failed\noutput:\n%s", cmd.Name(), args, output)
	}
}

func execCommand(t *testing.T, dir string, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	defer func() {
		if err := os.Chdir(prevWD); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	}()

	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)

	err = cmd.Execute()
	return output.String(), err
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
