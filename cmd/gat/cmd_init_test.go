package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()

	output := runCommand(t, dir, newInitCmd())
	if !strings.Contains(output, "initialized empty gat repository") {
		t.Errorf("output: %q", output)
	}

	for _, rel := range []string{
		".gat/objects",
		".gat/refs/heads",
		".gat/refs/tags",
	} {
		info, err := os.Stat(filepath.Join(dir, rel))
		if err != nil || !info.IsDir() {
			t.Errorf("missing directory %s: %v", rel, err)
		}
	}
	head, err := os.ReadFile(filepath.Join(dir, ".gat", "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	if string(head) != "ref: refs/heads/main\n" {
		t.Errorf("HEAD: %q", head)
	}
}

func TestInitCmdExplicitPath(t *testing.T) {
	dir := t.TempDir()

	runCommand(t, dir, newInitCmd(), "nested/project")
	if _, err := os.Stat(filepath.Join(dir, "nested", "project", ".gat")); err != nil {
		t.Errorf("repository not created at explicit path: %v", err)
	}
}

func TestInitCmdRefusesExisting(t *testing.T) {
	dir := initTestRepo(t)
	runCommandErr(t, dir, newInitCmd())
}
