package repo

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gatvcs/gat/pkg/object"
)

func TestBuildTreeNestedDirectories(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "a.txt", "alpha\n")
	writeWorkFile(t, r.RootDir, "sub/b.txt", "beta\n")

	root, err := r.BuildTree(r.RootDir, NewIgnoreSet())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	tr, err := r.Store.ReadTree(root)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(tr.Entries) != 2 {
		t.Fatalf("root entries: got %d, want 2", len(tr.Entries))
	}
	if tr.Entries[0].Name != "a.txt" || tr.Entries[0].Mode != object.TreeModeFile {
		t.Errorf("entry 0: %+v", tr.Entries[0])
	}
	if tr.Entries[1].Name != "sub" || tr.Entries[1].Mode != object.TreeModeDir {
		t.Errorf("entry 1: %+v", tr.Entries[1])
	}

	sub, err := r.Store.ReadTree(tr.Entries[1].Hash)
	if err != nil {
		t.Fatalf("ReadTree(sub): %v", err)
	}
	if len(sub.Entries) != 1 || sub.Entries[0].Name != "b.txt" || sub.Entries[0].Mode != object.TreeModeFile {
		t.Fatalf("sub entries: %+v", sub.Entries)
	}

	blob, err := r.Store.ReadBlob(sub.Entries[0].Hash)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if !bytes.Equal(blob, []byte("beta\n")) {
		t.Errorf("blob: got %q", blob)
	}
}

func TestBuildTreeDeterministic(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "one.txt", "1\n")
	writeWorkFile(t, r.RootDir, "two.txt", "2\n")
	writeWorkFile(t, r.RootDir, "dir/three.txt", "3\n")

	h1, err := r.BuildTree(r.RootDir, NewIgnoreSet())
	if err != nil {
		t.Fatalf("BuildTree 1: %v", err)
	}
	h2, err := r.BuildTree(r.RootDir, NewIgnoreSet())
	if err != nil {
		t.Fatalf("BuildTree 2: %v", err)
	}
	if h1 != h2 {
		t.Errorf("builds differ: %q vs %q", h1, h2)
	}
}

func TestBuildTreeSkipsIgnoredNames(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "keep.txt", "keep\n")
	writeWorkFile(t, r.RootDir, "bin/artifact", "junk\n")
	writeWorkFile(t, r.RootDir, "sub/bin/artifact", "junk\n")
	writeWorkFile(t, r.RootDir, "sub/keep.txt", "keep\n")

	root, err := r.BuildTree(r.RootDir, NewIgnoreSet("bin"))
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	files, err := r.FlattenTree(root)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	paths := make(map[string]bool, len(files))
	for _, f := range files {
		paths[f.Path] = true
	}
	if !paths["keep.txt"] || !paths["sub/keep.txt"] {
		t.Errorf("kept files missing: %v", paths)
	}
	if paths["bin/artifact"] || paths["sub/bin/artifact"] {
		t.Errorf("ignored names leaked: %v", paths)
	}
}

func TestBuildTreeNeverDescendsMetadata(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "a.txt", "a\n")

	root, err := r.BuildTree(r.RootDir, NewIgnoreSet())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	tr, err := r.Store.ReadTree(root)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	for _, e := range tr.Entries {
		if e.Name == ".gat" || e.Name == ".git" {
			t.Errorf("metadata directory hashed: %q", e.Name)
		}
	}
}

func TestBuildTreeExecutableBit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no execute bit on windows")
	}
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "run.sh", "#!/bin/sh\n")
	if err := os.Chmod(filepath.Join(r.RootDir, "run.sh"), 0o755); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	writeWorkFile(t, r.RootDir, "plain.txt", "text\n")

	root, err := r.BuildTree(r.RootDir, NewIgnoreSet())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	tr, err := r.Store.ReadTree(root)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}

	modes := make(map[string]string, len(tr.Entries))
	for _, e := range tr.Entries {
		modes[e.Name] = e.Mode
	}
	if modes["run.sh"] != object.TreeModeExecutable {
		t.Errorf("run.sh mode: %q", modes["run.sh"])
	}
	if modes["plain.txt"] != object.TreeModeFile {
		t.Errorf("plain.txt mode: %q", modes["plain.txt"])
	}
}

func TestBuildTreeSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "target.txt", "pointed at\n")
	if err := os.Symlink("target.txt", filepath.Join(r.RootDir, "alias")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	root, err := r.BuildTree(r.RootDir, NewIgnoreSet())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	tr, err := r.Store.ReadTree(root)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}

	var link *object.TreeEntry
	for i := range tr.Entries {
		if tr.Entries[i].Name == "alias" {
			link = &tr.Entries[i]
		}
	}
	if link == nil {
		t.Fatal("symlink entry missing")
	}
	if link.Mode != object.TreeModeSymlink {
		t.Errorf("symlink mode: %q", link.Mode)
	}
	blob, err := r.Store.ReadBlob(link.Hash)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(blob) != "target.txt" {
		t.Errorf("symlink blob: got %q, want link target", blob)
	}
}

func TestBuildTreeMissingDirectory(t *testing.T) {
	r := tempRepo(t)
	if _, err := r.BuildTree(filepath.Join(r.RootDir, "does-not-exist"), NewIgnoreSet()); err == nil {
		t.Error("BuildTree of missing directory should fail")
	}
}

func TestFlattenTreePaths(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "a.txt", "a\n")
	writeWorkFile(t, r.RootDir, "sub/deep/b.txt", "b\n")

	root, err := r.BuildTree(r.RootDir, NewIgnoreSet())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	files, err := r.FlattenTree(root)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files: got %d, want 2", len(files))
	}
	if files[0].Path != "a.txt" || files[1].Path != "sub/deep/b.txt" {
		t.Errorf("paths: %+v", files)
	}
}
