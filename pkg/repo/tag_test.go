package repo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gatvcs/gat/pkg/object"
)

func TestCreateLightweightTag(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "file.txt", "v1\n")
	commit, err := r.Commit("first", "Ada", nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.CreateTag("v1.0", commit, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	got, err := r.ResolveTag("v1.0")
	if err != nil {
		t.Fatalf("ResolveTag: %v", err)
	}
	if got != commit {
		t.Errorf("tag: got %q, want %q", got, commit)
	}
}

func TestCreateTagMissingTarget(t *testing.T) {
	r := tempRepo(t)
	missing := object.HashBytes([]byte("nothing here"))
	if err := r.CreateTag("ghost", missing, false); err == nil {
		t.Error("tagging an absent object should fail")
	}
}

func TestCreateTagExisting(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "file.txt", "v1\n")
	first, err := r.Commit("first", "Ada", nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := r.CreateTag("pin", first, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	writeWorkFile(t, r.RootDir, "file.txt", "v2\n")
	second, err := r.Commit("second", "Ada", nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.CreateTag("pin", second, false); err == nil {
		t.Error("re-creating an existing tag without force should fail")
	}
	if err := r.CreateTag("pin", second, true); err != nil {
		t.Fatalf("CreateTag force: %v", err)
	}
	got, err := r.ResolveTag("pin")
	if err != nil {
		t.Fatalf("ResolveTag: %v", err)
	}
	if got != second {
		t.Errorf("forced tag: got %q, want %q", got, second)
	}
}

func TestCreateAnnotatedTag(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "file.txt", "v1\n")
	commit, err := r.Commit("first", "Ada", nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	tagHash, err := r.CreateAnnotatedTag("v1.0", commit, "Ada <ada@example.com>", "release 1.0", nil, false)
	if err != nil {
		t.Fatalf("CreateAnnotatedTag: %v", err)
	}

	// The ref points at the tag object, not the commit.
	got, err := r.ResolveTag("v1.0")
	if err != nil {
		t.Fatalf("ResolveTag: %v", err)
	}
	if got != tagHash {
		t.Errorf("ref: got %q, want tag object %q", got, tagHash)
	}

	tag, err := r.Store.ReadTag(tagHash)
	if err != nil {
		t.Fatalf("ReadTag: %v", err)
	}
	if tag.TargetHash != commit || tag.TargetKind != object.KindCommit {
		t.Errorf("target: %+v", tag)
	}
	if tag.Name != "v1.0" || tag.Tagger != "Ada <ada@example.com>" || tag.Message != "release 1.0" {
		t.Errorf("metadata: %+v", tag)
	}
	if tag.Signature != "" {
		t.Errorf("unexpected signature: %q", tag.Signature)
	}
}

func TestCreateAnnotatedTagRequiresMessage(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "file.txt", "v1\n")
	commit, err := r.Commit("first", "Ada", nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := r.CreateAnnotatedTag("v1.0", commit, "Ada", "  ", nil, false); err == nil {
		t.Error("annotated tag without message should fail")
	}
}

func TestCreateSignedTag(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "file.txt", "v1\n")
	commit, err := r.Commit("first", "Ada", nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var signedPayload []byte
	signer := func(payload []byte) (string, error) {
		signedPayload = append([]byte(nil), payload...)
		return fmt.Sprintf("fake-sig-%d", len(payload)), nil
	}

	tagHash, err := r.CreateAnnotatedTag("v1.0", commit, "Ada", "release", signer, false)
	if err != nil {
		t.Fatalf("CreateAnnotatedTag: %v", err)
	}
	tag, err := r.Store.ReadTag(tagHash)
	if err != nil {
		t.Fatalf("ReadTag: %v", err)
	}
	if !strings.HasPrefix(tag.Signature, "fake-sig-") {
		t.Errorf("signature not persisted: %q", tag.Signature)
	}

	// The signed payload must match the stored tag with the signature removed.
	want, err := object.TagSigningPayload(tag)
	if err != nil {
		t.Fatalf("TagSigningPayload: %v", err)
	}
	if string(signedPayload) != string(want) {
		t.Error("signer saw different bytes than the canonical signing payload")
	}
}

func TestCreateSignedTagSignerError(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r.RootDir, "file.txt", "v1\n")
	commit, err := r.Commit("first", "Ada", nil)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	signer := func([]byte) (string, error) {
		return "", fmt.Errorf("key unavailable")
	}
	if _, err := r.CreateAnnotatedTag("v1.0", commit, "Ada", "release", signer, false); err == nil {
		t.Error("signer failure should abort the tag")
	}
	if _, err := r.ResolveTag("v1.0"); err == nil {
		t.Error("no ref should exist after a failed signing")
	}
}

func TestValidateTagName(t *testing.T) {
	good := []string{"v1.0", "release/2024", "alpha-1", "a_b"}
	for _, name := range good {
		if err := validateTagName(name); err != nil {
			t.Errorf("validateTagName(%q): %v", name, err)
		}
	}
	bad := []string{"", "has space", "a\tb", "a..b", "/lead", "trail/", "what?", "star*", "caret^", "tilde~"}
	for _, name := range bad {
		if err := validateTagName(name); err == nil {
			t.Errorf("validateTagName(%q) should fail", name)
		}
	}
}
