package transfer

import (
	"os"
	"path/filepath"
	"testing"
)

// sha256("hello world")
const helloSum = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestVerifierSum(t *testing.T) {
	v := NewVerifier()
	v.Write([]byte("hello "))
	v.Write([]byte("world"))
	if sum := v.Sum(); sum != helloSum {
		t.Fatalf("sum mismatch: %s", sum)
	}
}

func TestMatchesCaseInsensitive(t *testing.T) {
	if !Matches(helloSum, "B94D27B9934D3E08A52E52D7DA7DABFAC484EFE37A5380EE9088F7ACE2EFCDE9") {
		t.Fatalf("expected case-insensitive match")
	}
	if Matches(helloSum, "deadbeef") {
		t.Fatalf("unexpected match")
	}
}

func TestFileSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}
	sum, err := FileSHA256(path)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if sum != helloSum {
		t.Fatalf("sum mismatch: %s", sum)
	}
}

func TestFileSHA256Missing(t *testing.T) {
	if _, err := FileSHA256(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
