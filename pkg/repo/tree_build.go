package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gatvcs/gat/pkg/object"
)

// maxTreeDepth bounds recursion so a pathological directory nest fails
// cleanly instead of exhausting the stack.
const maxTreeDepth = 512

// BuildTree recursively hashes the directory at dir into blob and tree
// objects, returning the root tree hash. Entries whose name is in ignore
// are skipped at every level. Entries are written sorted by name so
// identical trees hash identically regardless of directory iteration
// order.
//
// Any filesystem error aborts the whole build. Child objects written
// before the failure stay in the store; they are valid content-addressed
// objects and get reused on the next build.
func (r *Repo) BuildTree(dir string, ignore IgnoreSet) (object.Hash, error) {
	return r.buildTreeDir(dir, ignore, 0)
}

func (r *Repo) buildTreeDir(dir string, ignore IgnoreSet, depth int) (object.Hash, error) {
	if depth > maxTreeDepth {
		return "", fmt.Errorf("build tree %q: nesting exceeds %d levels", dir, maxTreeDepth)
	}

	// os.ReadDir returns entries sorted by name, which fixes the entry
	// order in the marshalled tree.
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("build tree: %w", err)
	}

	var entries []object.TreeEntry
	for _, de := range dirents {
		name := de.Name()
		if ignore.Contains(name) {
			continue
		}
		full := filepath.Join(dir, name)

		var entry object.TreeEntry
		switch {
		case de.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(full)
			if err != nil {
				return "", fmt.Errorf("build tree: readlink %s: %w", full, err)
			}
			h, err := r.Store.WriteBlob([]byte(target))
			if err != nil {
				return "", fmt.Errorf("build tree: %s: %w", full, err)
			}
			entry = object.TreeEntry{Mode: object.TreeModeSymlink, Name: name, Hash: h}

		case de.IsDir():
			h, err := r.buildTreeDir(full, ignore, depth+1)
			if err != nil {
				return "", err
			}
			entry = object.TreeEntry{Mode: object.TreeModeDir, Name: name, Hash: h}

		case de.Type().IsRegular():
			data, err := os.ReadFile(full)
			if err != nil {
				return "", fmt.Errorf("build tree: %w", err)
			}
			info, err := de.Info()
			if err != nil {
				return "", fmt.Errorf("build tree: stat %s: %w", full, err)
			}
			h, err := r.Store.WriteBlob(data)
			if err != nil {
				return "", fmt.Errorf("build tree: %s: %w", full, err)
			}
			entry = object.TreeEntry{Mode: modeFromFileInfo(info), Name: name, Hash: h}

		default:
			return "", fmt.Errorf("build tree: %s: unsupported file type %v", full, de.Type())
		}
		entries = append(entries, entry)
	}

	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("build tree %q: %w", dir, err)
	}
	return h, nil
}

func modeFromFileInfo(info os.FileInfo) string {
	if info.Mode()&0o111 != 0 {
		return object.TreeModeExecutable
	}
	return object.TreeModeFile
}

// TreeFileEntry is one blob-bearing entry of a flattened tree.
type TreeFileEntry struct {
	Path string
	Mode string
	Hash object.Hash
}

// FlattenTree walks a stored tree recursively, returning blob-bearing
// entries with their full forward-slash paths.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "", 0)
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string, depth int) ([]TreeFileEntry, error) {
	if depth > maxTreeDepth {
		return nil, fmt.Errorf("flatten tree %s: nesting exceeds %d levels", h, maxTreeDepth)
	}
	tr, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: read %s: %w", h, err)
	}

	var result []TreeFileEntry
	for _, entry := range tr.Entries {
		fullPath := entry.Name
		if prefix != "" {
			fullPath = prefix + "/" + entry.Name
		}
		if entry.IsDir() {
			sub, err := r.flattenTreeRec(entry.Hash, fullPath, depth+1)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		} else {
			result = append(result, TreeFileEntry{Path: fullPath, Mode: entry.Mode, Hash: entry.Hash})
		}
	}
	return result, nil
}
