package delivery

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TokenLength is the length of a download token in bytes (before hex encoding).
const TokenLength = 32

// GenerateToken generates a cryptographically secure random download token.
// The raw token goes into the emailed link; only its hash is ever persisted.
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashToken creates the SHA-256 hex digest used to look a token up.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
