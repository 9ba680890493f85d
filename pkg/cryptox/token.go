package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TokenSizeBytes is the entropy of an offer token before encoding.
const TokenSizeBytes = 16

// TokenLength is the length of an encoded token in characters. Generation and
// validation share this constant so malformed tokens can be rejected before
// any storage lookup.
const TokenLength = TokenSizeBytes * 2

// GenerateToken creates a cryptographically secure random token encoded as a
// lowercase hexadecimal string of exactly TokenLength characters. The hex
// alphabet keeps tokens safe to embed in URLs and mail bodies without
// escaping.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenSizeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// MustGenerateToken is like GenerateToken but panics on error. Use this only
// in tests or contexts where failure is unrecoverable.
func MustGenerateToken() string {
	token, err := GenerateToken()
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token,
// hex encoded. This is the only token representation ever persisted: offers
// are stored and looked up by fingerprint, so a database leak does not leak
// the capability itself.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidTokenFormat reports whether s has the exact length and hex encoding of
// a generated token. Callers use this to reject garbage before hashing.
func ValidTokenFormat(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
