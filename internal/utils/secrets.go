package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecret generates a cryptographically secure random secret
func GenerateSecret(bytes int) (string, error) {
	if bytes <= 0 {
		return "", fmt.Errorf("secret length must be positive, got %d", bytes)
	}
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateJWTSecret generates a 256-bit signing secret
func GenerateJWTSecret() (string, error) {
	secret, err := GenerateSecret(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	return secret, nil
}
