package idgen

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerateShape(t *testing.T) {
	// The alphabet is lowercase-only so IDs survive case-insensitive
	// filesystems and S3 key comparisons unchanged.
	pattern := regexp.MustCompile(`^run-[a-z0-9]{10}$`)
	for i := 0; i < 100; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("Generate() = %q, want match for %s", id, pattern)
		}
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	for _, prefix := range []string{"tmp-", "run-", ""} {
		id, err := GenerateWithPrefix(prefix)
		if err != nil {
			t.Fatalf("GenerateWithPrefix(%q) error: %v", prefix, err)
		}
		if !strings.HasPrefix(id, prefix) {
			t.Errorf("GenerateWithPrefix(%q) = %q, want that prefix", prefix, id)
		}
		if len(id) != len(prefix)+Length {
			t.Errorf("GenerateWithPrefix(%q) length = %d, want %d", prefix, len(id), len(prefix)+Length)
		}
		for _, r := range id[len(prefix):] {
			if !strings.ContainsRune(Alphabet, r) {
				t.Errorf("GenerateWithPrefix(%q) = %q, rune %q outside alphabet", prefix, id, r)
			}
		}
	}
}

func TestGenerateUnique(t *testing.T) {
	const count = 5000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
