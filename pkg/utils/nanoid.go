package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// NanoIDAlphabet is the 62-symbol alphanumeric alphabet used for file names.
	NanoIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	DefaultNanoIDLength  = 21
	ArtifactNanoIDLength = 8
)

// NanoID returns a random alphanumeric id of length n (DefaultNanoIDLength when n <= 0).
// Uniqueness is probabilistic; no collision check is made.
func NanoID(n int) string {
	if n <= 0 {
		n = DefaultNanoIDLength
	}
	return gonanoid.MustGenerate(NanoIDAlphabet, n)
}
