package object

import "errors"

// Decode and store failures. All are surfaced wrapped with the digest or
// path that triggered them; none are recovered from.
var (
	ErrMalformedHeader = errors.New("malformed object header")
	ErrUnknownKind     = errors.New("unknown object kind")
	ErrInvalidLength   = errors.New("invalid object length")
	ErrTruncatedObject = errors.New("truncated object payload")
	ErrTrailingBytes   = errors.New("trailing bytes after object payload")
	ErrCorruptObject   = errors.New("corrupt object stream")
	ErrObjectNotFound  = errors.New("object not found")

	ErrMalformedTreeEntry = errors.New("malformed tree entry")
	ErrTruncatedTreeEntry = errors.New("truncated tree entry")
	ErrTrailingTreeBytes  = errors.New("trailing bytes after tree entries")
)
