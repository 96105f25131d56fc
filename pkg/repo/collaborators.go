package repo

import "github.com/gatvcs/gat/pkg/object"

// Narrow contracts for the commands the object-store core does not
// implement. Staging, diffing, and checkout layers plug in here without
// touching the store.

// MessageSource supplies a commit message when none was given inline,
// e.g. an editor prompt.
type MessageSource interface {
	CommitMessage() (string, error)
}

// ChangeLister reports worktree paths that differ from the given tree.
type ChangeLister interface {
	ChangedPaths(tree object.Hash) ([]string, error)
}

// TreeRestorer materializes a stored tree into a directory.
type TreeRestorer interface {
	RestoreTree(tree object.Hash, dir string) error
}
