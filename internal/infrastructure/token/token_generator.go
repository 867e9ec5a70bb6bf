// Package token issues the one-time secrets mailed for account activation
// and clinic email confirmation.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Prefixes tell the two link types apart when a token shows up in a log.
const (
	PrefixActivation   = "act_"
	PrefixConfirmation = "clc_"
)

// tokenRandomBytes hex-encodes to 64 alphanumeric characters.
const tokenRandomBytes = 32

// Generator is stateless. Only Hash(plain) is ever persisted.
type Generator struct{}

func NewTokenGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(prefix string) (plain, hash string, err error) {
	buf := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	plain = prefix + hex.EncodeToString(buf)
	return plain, g.Hash(plain), nil
}

func (g *Generator) Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
