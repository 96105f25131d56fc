package object

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Encode builds the canonical byte form of an object:
//
//	"<kind> <decimal payload length>\0<payload>"
//
// This form, not the bare payload, is what gets hashed and compressed.
func Encode(kind Kind, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", kind, len(payload))
	raw := make([]byte, 0, len(header)+len(payload))
	raw = append(raw, header...)
	raw = append(raw, payload...)
	return raw
}

// Decode parses canonical bytes back into kind and payload. The header must
// be "<kind> <length>" terminated by NUL, the kind must be recognized, the
// length must be a non-negative decimal, and the payload must span exactly
// the remaining bytes.
func Decode(raw []byte) (Kind, []byte, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("%w: no NUL terminator", ErrMalformedHeader)
	}
	header := string(raw[:nul])
	kindTok, lenTok, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrMalformedHeader, header)
	}
	kind, err := ParseKind(kindTok)
	if err != nil {
		return "", nil, err
	}
	size, err := parsePayloadLength(lenTok)
	if err != nil {
		return "", nil, err
	}

	payload := raw[nul+1:]
	if len(payload) < size {
		return "", nil, fmt.Errorf("%w: header claims %d bytes, %d remain", ErrTruncatedObject, size, len(payload))
	}
	if len(payload) > size {
		return "", nil, fmt.Errorf("%w: %d extra bytes after %d-byte payload", ErrTrailingBytes, len(payload)-size, size)
	}

	out := make([]byte, size)
	copy(out, payload)
	return kind, out, nil
}

// parsePayloadLength accepts only plain non-negative decimals; strconv alone
// would also take signs and underscores.
func parsePayloadLength(tok string) (int, error) {
	if tok == "" {
		return 0, fmt.Errorf("%w: empty length field", ErrInvalidLength)
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLength, tok)
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidLength, tok, err)
	}
	return n, nil
}

// Compress applies the zlib stream used for stored objects. The level is
// fixed at the default; readers only require a well-formed stream.
func Compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, fmt.Errorf("compress object: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress object: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress. Corrupt streams surface as ErrCorruptObject.
func Decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptObject, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptObject, err)
	}
	return raw, nil
}
