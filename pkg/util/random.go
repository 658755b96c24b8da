package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateNonce returns n random bytes as lowercase hex.
func GenerateNonce(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
