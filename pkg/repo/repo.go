package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gatvcs/gat/pkg/object"
)

// Repo represents an opened gat repository.
type Repo struct {
	RootDir string        // working tree root
	GatDir  string        // .gat/ directory
	Store   *object.Store // content-addressed object store
}

// Init creates a new gat repository at path. It creates the .gat/ directory
// structure: HEAD, objects/, and refs/heads/. Returns an error if a .gat/
// directory already exists.
func Init(path string) (*Repo, error) {
	gatDir := filepath.Join(path, ".gat")

	if _, err := os.Stat(gatDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gatDir)
	}

	dirs := []string{
		filepath.Join(gatDir, "objects"),
		filepath.Join(gatDir, "refs", "heads"),
		filepath.Join(gatDir, "refs", "tags"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(gatDir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	return &Repo{
		RootDir: path,
		GatDir:  gatDir,
		Store:   object.NewStore(gatDir),
	}, nil
}

// Open searches upward from path for a .gat/ directory and opens the
// repository. Returns an error if no .gat/ directory is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gatDir := filepath.Join(cur, ".gat")
		info, err := os.Stat(gatDir)
		if err == nil && info.IsDir() {
			return &Repo{
				RootDir: cur,
				GatDir:  gatDir,
				Store:   object.NewStore(gatDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a gat repository (or any parent up to /)")
		}
		cur = parent
	}
}
