package object

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// TreeEntry is one entry in a tree object payload: a mode, a single path
// segment, and the child object's digest.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// IsDir reports whether the entry references a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == TreeModeDir
}

// TreeObj holds the ordered entries of one tree object.
type TreeObj struct {
	Entries []TreeEntry
}

// MarshalTree serializes a TreeObj. Each entry is encoded as
//
//	"<mode> <name>\0<20 raw digest bytes>"
//
// and entries are written in the order given; callers that need
// reproducible digests sort before marshalling. Entry names must be
// non-empty single path segments, unique within the tree.
func MarshalTree(tr *TreeObj) ([]byte, error) {
	var buf bytes.Buffer
	seen := make(map[string]struct{}, len(tr.Entries))
	for _, e := range tr.Entries {
		mode, err := normalizeTreeMode(e.Mode)
		if err != nil {
			return nil, fmt.Errorf("marshal tree: entry %q: %w", e.Name, err)
		}
		if err := validateEntryName(e.Name); err != nil {
			return nil, fmt.Errorf("marshal tree: %w", err)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("marshal tree: duplicate entry name %q", e.Name)
		}
		seen[e.Name] = struct{}{}

		raw, err := e.Hash.Raw()
		if err != nil {
			return nil, fmt.Errorf("marshal tree: entry %q: %w", e.Name, err)
		}
		buf.WriteString(mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a tree payload, consuming it exactly. A region with
// no NUL terminator is trailing garbage; a terminated entry with fewer than
// 20 digest bytes behind it is truncated.
func UnmarshalTree(payload []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	pos := 0
	for pos < len(payload) {
		rest := payload[pos:]
		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("%w: %d bytes with no entry terminator at offset %d", ErrTrailingTreeBytes, len(rest), pos)
		}

		head := string(rest[:nul])
		modeTok, name, ok := strings.Cut(head, " ")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrMalformedTreeEntry, head, pos)
		}
		mode, err := normalizeTreeMode(modeTok)
		if err != nil {
			return nil, fmt.Errorf("%w: %v at offset %d", ErrMalformedTreeEntry, err, pos)
		}

		if len(rest) < nul+1+RawHashLen {
			return nil, fmt.Errorf("%w: entry %q: %d digest bytes remain, want %d",
				ErrTruncatedTreeEntry, name, len(rest)-nul-1, RawHashLen)
		}
		h, err := HashFromRaw(rest[nul+1 : nul+1+RawHashLen])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrMalformedTreeEntry, name, err)
		}

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, Hash: h})
		pos += nul + 1 + RawHashLen
	}
	return tr, nil
}

// normalizeTreeMode validates a mode token. "040000" is accepted for trees
// written by tools that zero-pad the directory mode.
func normalizeTreeMode(mode string) (string, error) {
	if mode == "040000" {
		return TreeModeDir, nil
	}
	switch mode {
	case TreeModeDir, TreeModeFile, TreeModeExecutable, TreeModeSymlink:
		return mode, nil
	}
	return "", fmt.Errorf("unknown mode %q", mode)
}

func validateEntryName(name string) error {
	if name == "" {
		return errors.New("empty entry name")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("entry name %q is reserved", name)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("entry name %q contains a path separator or NUL", name)
	}
	return nil
}
