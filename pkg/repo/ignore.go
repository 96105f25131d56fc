package repo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreSet is a set of literal entry names excluded from tree builds.
// Matching is by exact name at every directory level; pattern matching is
// the business of higher layers.
type IgnoreSet map[string]struct{}

// NewIgnoreSet builds an IgnoreSet from literal names. The repository
// metadata directories .gat and .git are always members.
func NewIgnoreSet(names ...string) IgnoreSet {
	s := IgnoreSet{
		".gat": {},
		".git": {},
	}
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Contains reports whether name is ignored.
func (s IgnoreSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// LoadIgnoreSet reads the repository ignore file, one literal name per
// line. Blank lines and lines starting with # are skipped. The file name
// defaults to .gatignore at the worktree root and can be overridden by
// core.ignorefile in the config. A missing file yields just the built-in
// names.
func (r *Repo) LoadIgnoreSet() (IgnoreSet, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, fmt.Errorf("load ignore set: %w", err)
	}
	fileName := cfg.Core.IgnoreFile
	if fileName == "" {
		fileName = ".gatignore"
	}

	set := NewIgnoreSet()
	f, err := os.Open(filepath.Join(r.RootDir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, fmt.Errorf("load ignore set: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load ignore set: %w", err)
	}
	return set, nil
}
