// Package keygen generates the short opaque keys that identify events in
// permalinks, backed by nanoid.
package keygen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is restricted to the characters a permalink key may contain.
// No dashes: the key is whatever follows the final "-" in the path.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length of a generated key.
const Length = 8

// New returns a fresh event key. Keys are assigned once at creation and
// never change afterwards.
func New() (string, error) {
	key, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("keygen: %w", err)
	}
	return key, nil
}
