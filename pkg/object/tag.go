package object

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TagObj represents an annotated tag pointing at another stored object.
// Signature, when present, is an encoded signature over TagSigningPayload.
type TagObj struct {
	TargetHash Hash
	TargetKind Kind
	Name       string
	Tagger     string
	Timestamp  time.Time // UTC, second precision
	Message    string
	Signature  string
}

const (
	tagTypeLabel      = "type "
	tagNameLabel      = "tag "
	tagTaggerLabel    = "tagger "
	tagTimestampLabel = "timestamp "
	tagMessageLabel   = "message "
	tagSignatureLabel = "signature "
)

// MarshalTag serializes an annotated tag payload:
//
//	<20 raw target digest>\0type K\0tag N\0tagger G\0timestamp T\0message M[\0signature S]
//
// Text fields must not contain NUL.
func MarshalTag(t *TagObj) ([]byte, error) {
	targetRaw, err := t.TargetHash.Raw()
	if err != nil {
		return nil, fmt.Errorf("marshal tag: target: %w", err)
	}
	if _, err := ParseKind(string(t.TargetKind)); err != nil {
		return nil, fmt.Errorf("marshal tag: %w", err)
	}
	for field, val := range map[string]string{
		"tag":       t.Name,
		"tagger":    t.Tagger,
		"message":   t.Message,
		"signature": t.Signature,
	} {
		if strings.ContainsRune(val, 0) {
			return nil, fmt.Errorf("marshal tag: %s contains NUL", field)
		}
	}
	if t.Name == "" {
		return nil, errors.New("marshal tag: empty tag name")
	}

	var buf bytes.Buffer
	buf.Write(targetRaw)
	buf.WriteByte(0)
	buf.WriteString(tagTypeLabel)
	buf.WriteString(string(t.TargetKind))
	buf.WriteByte(0)
	buf.WriteString(tagNameLabel)
	buf.WriteString(t.Name)
	buf.WriteByte(0)
	buf.WriteString(tagTaggerLabel)
	buf.WriteString(t.Tagger)
	buf.WriteByte(0)
	buf.WriteString(tagTimestampLabel)
	buf.WriteString(t.Timestamp.UTC().Format(time.RFC3339))
	buf.WriteByte(0)
	buf.WriteString(tagMessageLabel)
	buf.WriteString(t.Message)
	if t.Signature != "" {
		buf.WriteByte(0)
		buf.WriteString(tagSignatureLabel)
		buf.WriteString(t.Signature)
	}
	return buf.Bytes(), nil
}

// UnmarshalTag parses an annotated tag payload produced by MarshalTag.
func UnmarshalTag(payload []byte) (*TagObj, error) {
	if len(payload) < RawHashLen+1 || payload[RawHashLen] != 0 {
		return nil, errors.New("unmarshal tag: missing target digest section")
	}
	target, err := HashFromRaw(payload[:RawHashLen])
	if err != nil {
		return nil, fmt.Errorf("unmarshal tag: target: %w", err)
	}
	rest := payload[RawHashLen+1:]

	kindText, rest, err := cutTagSection(rest, tagTypeLabel)
	if err != nil {
		return nil, err
	}
	kind, err := ParseKind(kindText)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tag: %w", err)
	}
	name, rest, err := cutTagSection(rest, tagNameLabel)
	if err != nil {
		return nil, err
	}
	tagger, rest, err := cutTagSection(rest, tagTaggerLabel)
	if err != nil {
		return nil, err
	}
	tsText, rest, err := cutTagSection(rest, tagTimestampLabel)
	if err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, tsText)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tag: bad timestamp %q: %w", tsText, err)
	}

	if !bytes.HasPrefix(rest, []byte(tagMessageLabel)) {
		return nil, fmt.Errorf("unmarshal tag: missing %q section", strings.TrimSpace(tagMessageLabel))
	}
	rest = rest[len(tagMessageLabel):]

	t := &TagObj{
		TargetHash: target,
		TargetKind: kind,
		Name:       name,
		Tagger:     tagger,
		Timestamp:  ts.UTC(),
	}

	// The message runs to the end of the payload unless a signature
	// section follows it; message text never contains NUL.
	if nul := bytes.IndexByte(rest, 0); nul >= 0 {
		sig := rest[nul+1:]
		if !bytes.HasPrefix(sig, []byte(tagSignatureLabel)) {
			return nil, errors.New("unmarshal tag: unexpected NUL in message")
		}
		sig = sig[len(tagSignatureLabel):]
		if bytes.IndexByte(sig, 0) >= 0 {
			return nil, errors.New("unmarshal tag: unexpected NUL in signature")
		}
		t.Message = string(rest[:nul])
		t.Signature = string(sig)
	} else {
		t.Message = string(rest)
	}
	return t, nil
}

func cutTagSection(data []byte, label string) (string, []byte, error) {
	if !bytes.HasPrefix(data, []byte(label)) {
		return "", nil, fmt.Errorf("unmarshal tag: missing %q section", strings.TrimSpace(label))
	}
	rest := data[len(label):]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("unmarshal tag: unterminated %q section", strings.TrimSpace(label))
	}
	return string(rest[:nul]), rest[nul+1:], nil
}

// TagSigningPayload returns the canonical bytes that are signed for a tag.
// The payload intentionally excludes the signature field itself.
func TagSigningPayload(t *TagObj) ([]byte, error) {
	if t == nil {
		return nil, errors.New("tag signing payload: nil tag")
	}
	unsigned := *t
	unsigned.Signature = ""
	return MarshalTag(&unsigned)
}
