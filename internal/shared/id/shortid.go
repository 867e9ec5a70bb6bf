// Package id generates short random identifiers.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// LowerAlnum is the alphabet used for referral code suffixes.
	LowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Generate returns a cryptographically random string of length n drawn from alphabet.
func Generate(alphabet string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid id length %d", n)
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		out[i] = alphabet[v.Int64()]
	}
	return string(out), nil
}
