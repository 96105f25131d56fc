package repo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gatvcs/gat/pkg/object"
)

var (
	ErrDanglingTree   = errors.New("commit references a tree not in the store")
	ErrDanglingParent = errors.New("commit references a parent not in the store")
)

// BuildCommit validates its references, stamps the current UTC time, and
// writes a commit object. Nothing is written when validation fails.
func (r *Repo) BuildCommit(tree, parent object.Hash, author, message string) (object.Hash, error) {
	kind, _, err := r.Store.Read(tree)
	if err != nil {
		return "", fmt.Errorf("build commit: tree %s: %w: %v", tree, ErrDanglingTree, err)
	}
	if kind != object.KindTree {
		return "", fmt.Errorf("build commit: tree %s: %w: object is a %s", tree, ErrDanglingTree, kind)
	}

	if parent != "" {
		kind, _, err := r.Store.Read(parent)
		if err != nil {
			return "", fmt.Errorf("build commit: parent %s: %w: %v", parent, ErrDanglingParent, err)
		}
		if kind != object.KindCommit {
			return "", fmt.Errorf("build commit: parent %s: %w: object is a %s", parent, ErrDanglingParent, kind)
		}
	}

	c := &object.CommitObj{
		TreeHash:   tree,
		ParentHash: parent,
		Author:     author,
		Timestamp:  time.Now().UTC().Truncate(time.Second),
		Message:    message,
	}
	h, err := r.Store.WriteCommit(c)
	if err != nil {
		return "", fmt.Errorf("build commit: %w", err)
	}
	return h, nil
}

// Commit is the porcelain path:
//
//  1. Build a tree from the worktree (honoring the ignore file)
//  2. Resolve HEAD to get the parent commit hash (if any)
//  3. Build and write the commit
//  4. Advance the current branch ref (or detached HEAD) to the new commit
//
// When message is empty and a MessageSource is supplied, the message is
// obtained from it.
func (r *Repo) Commit(message, author string, source MessageSource) (object.Hash, error) {
	if message == "" && source != nil {
		var err error
		message, err = source.CommitMessage()
		if err != nil {
			return "", fmt.Errorf("commit: obtain message: %w", err)
		}
	}
	if strings.TrimSpace(message) == "" {
		return "", errors.New("commit: empty message")
	}

	ignore, err := r.LoadIgnoreSet()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	treeHash, err := r.BuildTree(r.RootDir, ignore)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	// Resolve HEAD for the parent; absence means this is the first commit.
	var parent object.Hash
	if h, err := r.ResolveRef("HEAD"); err == nil && h != "" {
		parent = h
	}

	commitHash, err := r.BuildCommit(treeHash, parent, author, message)
	if err != nil {
		return "", err
	}

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("commit: read HEAD: %w", err)
	}
	if strings.HasPrefix(head, "refs/") {
		if err := r.UpdateRef(head, commitHash); err != nil {
			return "", fmt.Errorf("commit: %w", err)
		}
	} else {
		if err := r.UpdateRef("HEAD", commitHash); err != nil {
			return "", fmt.Errorf("commit: update detached HEAD: %w", err)
		}
	}
	return commitHash, nil
}
