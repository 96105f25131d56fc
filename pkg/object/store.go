package object

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Each stored file holds the
// zlib-compressed canonical form "<kind> <len>\0<payload>"; the file name
// is the SHA-1 of the uncompressed canonical bytes.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory. The objects/
// subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
// It never decodes the stored record.
func (s *Store) Has(h Hash) bool {
	if _, err := ParseHash(string(h)); err != nil {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write encodes, hashes, compresses, and persists an object, returning its
// content hash. Writing identical content twice is idempotent: the second
// write sees the object already present and returns the same hash. Writes
// are atomic: data goes to a temp file and is renamed into place, so a
// racing writer of the same content is benign.
func (s *Store) Write(kind Kind, payload []byte) (Hash, error) {
	raw := Encode(kind, payload)
	h := HashBytes(raw)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	compressed, err := Compress(raw)
	if err != nil {
		return "", fmt.Errorf("object write %s: %w", h, err)
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}

	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}

	return h, nil
}

// Read retrieves an object by hash, returning its kind and payload.
func (s *Store) Read(h Hash) (Kind, []byte, error) {
	if _, err := ParseHash(string(h)); err != nil {
		return "", nil, fmt.Errorf("object read: %w", err)
	}

	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	raw, err := Decompress(compressed)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	kind, payload, err := Decode(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return kind, payload, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob stores raw file data as a blob.
func (s *Store) WriteBlob(data []byte) (Hash, error) {
	return s.Write(KindBlob, data)
}

// ReadBlob reads a blob's payload.
func (s *Store) ReadBlob(h Hash) ([]byte, error) {
	kind, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if kind != KindBlob {
		return nil, fmt.Errorf("object %s: kind mismatch: got %q, want %q", h, kind, KindBlob)
	}
	return payload, nil
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	payload, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(KindTree, payload)
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	kind, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if kind != KindTree {
		return nil, fmt.Errorf("object %s: kind mismatch: got %q, want %q", h, kind, KindTree)
	}
	return UnmarshalTree(payload)
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	payload, err := MarshalCommit(c)
	if err != nil {
		return "", err
	}
	return s.Write(KindCommit, payload)
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	kind, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if kind != KindCommit {
		return nil, fmt.Errorf("object %s: kind mismatch: got %q, want %q", h, kind, KindCommit)
	}
	return UnmarshalCommit(payload)
}

// WriteTag serializes and stores a TagObj.
func (s *Store) WriteTag(t *TagObj) (Hash, error) {
	payload, err := MarshalTag(t)
	if err != nil {
		return "", err
	}
	return s.Write(KindTag, payload)
}

// ReadTag reads and deserializes a TagObj.
func (s *Store) ReadTag(h Hash) (*TagObj, error) {
	kind, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if kind != KindTag {
		return nil, fmt.Errorf("object %s: kind mismatch: got %q, want %q", h, kind, KindTag)
	}
	return UnmarshalTag(payload)
}
