package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureRandomString generates a cryptographically secure random string of
// the specified byte length, hex encoded (lengthInBytes=32 -> 64 hex chars).
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateTemporaryPassword produces a short random plaintext password for
// admin-created accounts. The caller is expected to force a reset on first login.
func GenerateTemporaryPassword() (string, error) {
	return GenerateSecureRandomString(6) // 12 hex chars
}
