package object

import (
	"encoding/hex"
	"fmt"
)

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

const (
	// RawHashLen is the length of a digest in its raw binary form, as
	// stored inside tree and commit payloads.
	RawHashLen = 20
	// HexHashLen is the length of a digest in its textual form.
	HexHashLen = 40
)

// Kind identifies the kind of object stored.
type Kind string

const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
	KindTag    Kind = "tag"
)

// ParseKind validates a kind token read from an object header.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBlob, KindTree, KindCommit, KindTag:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

const (
	// Tree mode constants compatible with Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
	TreeModeSymlink    = "120000"
)

// ParseHash validates that s is a 40-character lowercase hex digest.
func ParseHash(s string) (Hash, error) {
	if len(s) != HexHashLen {
		return "", fmt.Errorf("invalid digest %q: want %d hex characters, got %d", s, HexHashLen, len(s))
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("invalid digest %q: non-lowercase-hex character %q", s, c)
		}
	}
	return Hash(s), nil
}

// HashFromRaw converts a raw 20-byte digest into its hex form.
func HashFromRaw(raw []byte) (Hash, error) {
	if len(raw) != RawHashLen {
		return "", fmt.Errorf("invalid raw digest: want %d bytes, got %d", RawHashLen, len(raw))
	}
	return Hash(hex.EncodeToString(raw)), nil
}

// Raw returns the 20-byte binary form of the digest.
func (h Hash) Raw() ([]byte, error) {
	if _, err := ParseHash(string(h)); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(string(h))
	if err != nil {
		return nil, fmt.Errorf("invalid digest %q: %w", h, err)
	}
	return raw, nil
}
