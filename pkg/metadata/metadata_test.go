package metadata

import (
	"errors"
	"strings"
	"testing"
)

const body = "<html><body><table><tr><td>Молоко</td></tr></table></body></html>"

func TestSignAndVerify(t *testing.T) {
	signed := Sign(body, 3)

	if !strings.HasPrefix(signed, body) {
		t.Fatalf("signed content should keep the body first, got %q", signed)
	}

	meta, err := Verify(signed)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if meta.Records != 3 || meta.Version != Version || meta.GeneratedAt.IsZero() {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestSign_ReplacesExistingBlock(t *testing.T) {
	twice := Sign(Sign(body, 1), 2)

	if n := strings.Count(twice, TagStart); n != 1 {
		t.Fatalf("expected exactly one metadata block, got %d", n)
	}

	meta, err := Verify(twice)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if meta.Records != 2 {
		t.Errorf("Records = %d, want 2", meta.Records)
	}
}

func TestVerify_Tampered(t *testing.T) {
	signed := Sign(body, 1)
	tampered := strings.Replace(signed, "Молоко", "Кефир", 1)

	if _, err := Verify(tampered); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("expected ErrHashMismatch, got %v", err)
	}
}

func TestVerify_Missing(t *testing.T) {
	if _, err := Verify(body); !errors.Is(err, ErrNoMetadataBlock) {
		t.Errorf("expected ErrNoMetadataBlock, got %v", err)
	}

	noHash := body + "\n\n" + TagStart + "\nRECORDS: 1\n" + TagEnd
	if _, err := Verify(noHash); !errors.Is(err, ErrNoHashFound) {
		t.Errorf("expected ErrNoHashFound, got %v", err)
	}
}

func TestExtract_NoBlock(t *testing.T) {
	meta, clean := Extract(body + "\n\n")

	if meta != nil {
		t.Errorf("expected nil metadata, got %+v", meta)
	}

	if clean != body {
		t.Errorf("trailing newlines should be trimmed, got %q", clean)
	}
}

func TestExtract_IgnoresUnknownAndBadFields(t *testing.T) {
	content := body + "\n\n" + TagStart + "\nVERSION: 1\nRECORDS: many\nOWNER: ops\nGENERATED_AT: yesterday\nnot a field\nHASH: abc\n" + TagEnd + "\n"

	meta, clean := Extract(content)
	if meta == nil {
		t.Fatal("expected metadata")
	}

	if meta.Version != "1" || meta.Hash != "abc" || meta.Records != 0 || !meta.GeneratedAt.IsZero() {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	if clean != body {
		t.Errorf("body = %q, want %q", clean, body)
	}
}
