package keygen

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if len(key) != Length {
			t.Fatalf("key %q has length %d, want %d", key, len(key), Length)
		}
		for _, r := range key {
			if !strings.ContainsRune(Alphabet, r) {
				t.Fatalf("key %q contains %q outside the alphabet", key, r)
			}
		}
		if seen[key] {
			t.Fatalf("duplicate key %q in 100 draws", key)
		}
		seen[key] = true
	}
}
