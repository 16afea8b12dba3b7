// Package auth implements the salted password digest scheme used for stored
// credentials. Each user carries a random 16-byte salt; the stored digest is
// the base64 encoding of HMAC-SHA512 keyed by that salt over the UTF-8 bytes
// of the password.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// SaltLength is the number of random bytes generated per user.
const SaltLength = 16

// GenerateSalt returns a fresh cryptographically random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives the stored digest for a password under the given salt.
// The derivation is deterministic, so Verify can recompute it.
func HashPassword(password string, salt []byte) string {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyPassword recomputes the digest for the candidate password and
// compares it against the stored digest in constant time. A malformed or
// truncated stored digest is reported as a mismatch, never an error.
func VerifyPassword(password, storedDigest string, salt []byte) bool {
	stored, err := base64.StdEncoding.DecodeString(storedDigest)
	if err != nil {
		return false
	}
	computed := hmac.New(sha512.New, salt)
	computed.Write([]byte(password))
	return subtle.ConstantTimeCompare(computed.Sum(nil), stored) == 1
}
