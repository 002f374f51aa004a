// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrInvalidOperatorKey = errors.New("invalid operator key")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashFingerprint creates a one-way hash of a caller-supplied voter
// fingerprint for anonymous-voting meetings. The ledger never derives
// the fingerprint itself; it only dedupes on whatever opaque value the
// caller presents, salted to prevent rainbow table attacks.
func HashFingerprint(fingerprint, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(fingerprint))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

// ValidateOperatorKey checks the platform-operator override key in
// constant time. An empty configured key disables the override entirely.
func ValidateOperatorKey(provided, configured string) error {
	if configured == "" || !hmac.Equal([]byte(provided), []byte(configured)) {
		return ErrInvalidOperatorKey
	}
	return nil
}
