package object

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CommitObj represents a commit pointing at a tree with metadata.
// ParentHash is empty for a root commit.
type CommitObj struct {
	TreeHash   Hash
	ParentHash Hash
	Author     string
	Timestamp  time.Time // UTC, second precision
	Message    string
}

const (
	commitAuthorLabel    = "author "
	commitTimestampLabel = "timestamp "
	commitMessageLabel   = "message "
	commitParentLabel    = "parent "
)

// MarshalCommit serializes a commit payload:
//
//	<20 raw tree digest>\0author A\0timestamp T\0message M[\0parent <20 raw digest>]
//
// where T is RFC 3339 in UTC. Author and message must not contain NUL;
// that restriction is what keeps the optional parent section unambiguous.
func MarshalCommit(c *CommitObj) ([]byte, error) {
	treeRaw, err := c.TreeHash.Raw()
	if err != nil {
		return nil, fmt.Errorf("marshal commit: tree: %w", err)
	}
	if strings.ContainsRune(c.Author, 0) {
		return nil, errors.New("marshal commit: author contains NUL")
	}
	if strings.ContainsRune(c.Message, 0) {
		return nil, errors.New("marshal commit: message contains NUL")
	}

	var buf bytes.Buffer
	buf.Write(treeRaw)
	buf.WriteByte(0)
	buf.WriteString(commitAuthorLabel)
	buf.WriteString(c.Author)
	buf.WriteByte(0)
	buf.WriteString(commitTimestampLabel)
	buf.WriteString(c.Timestamp.UTC().Format(time.RFC3339))
	buf.WriteByte(0)
	buf.WriteString(commitMessageLabel)
	buf.WriteString(c.Message)

	if c.ParentHash != "" {
		parentRaw, err := c.ParentHash.Raw()
		if err != nil {
			return nil, fmt.Errorf("marshal commit: parent: %w", err)
		}
		buf.WriteByte(0)
		buf.WriteString(commitParentLabel)
		buf.Write(parentRaw)
	}
	return buf.Bytes(), nil
}

// UnmarshalCommit parses a commit payload produced by MarshalCommit.
func UnmarshalCommit(payload []byte) (*CommitObj, error) {
	if len(payload) < RawHashLen+1 || payload[RawHashLen] != 0 {
		return nil, errors.New("unmarshal commit: missing tree digest section")
	}
	tree, err := HashFromRaw(payload[:RawHashLen])
	if err != nil {
		return nil, fmt.Errorf("unmarshal commit: tree: %w", err)
	}
	rest := payload[RawHashLen+1:]

	author, rest, err := cutCommitSection(rest, commitAuthorLabel)
	if err != nil {
		return nil, err
	}
	tsText, rest, err := cutCommitSection(rest, commitTimestampLabel)
	if err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, tsText)
	if err != nil {
		return nil, fmt.Errorf("unmarshal commit: bad timestamp %q: %w", tsText, err)
	}

	if !bytes.HasPrefix(rest, []byte(commitMessageLabel)) {
		return nil, fmt.Errorf("unmarshal commit: missing %q section", strings.TrimSpace(commitMessageLabel))
	}
	rest = rest[len(commitMessageLabel):]

	// Optional trailing parent section. Messages never contain NUL, so a
	// NUL at this fixed offset from the end can only start the parent
	// section.
	var parent Hash
	tail := 1 + len(commitParentLabel) + RawHashLen
	if n := len(rest); n >= tail &&
		rest[n-tail] == 0 &&
		string(rest[n-tail+1:n-RawHashLen]) == commitParentLabel {
		parent, err = HashFromRaw(rest[n-RawHashLen:])
		if err != nil {
			return nil, fmt.Errorf("unmarshal commit: parent: %w", err)
		}
		rest = rest[:n-tail]
	}
	if bytes.IndexByte(rest, 0) >= 0 {
		return nil, errors.New("unmarshal commit: unexpected NUL in message")
	}

	return &CommitObj{
		TreeHash:   tree,
		ParentHash: parent,
		Author:     author,
		Timestamp:  ts.UTC(),
		Message:    string(rest),
	}, nil
}

func cutCommitSection(data []byte, label string) (string, []byte, error) {
	if !bytes.HasPrefix(data, []byte(label)) {
		return "", nil, fmt.Errorf("unmarshal commit: missing %q section", strings.TrimSpace(label))
	}
	rest := data[len(label):]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("unmarshal commit: unterminated %q section", strings.TrimSpace(label))
	}
	return string(rest[:nul]), rest[nul+1:], nil
}
