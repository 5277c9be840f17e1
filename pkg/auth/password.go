package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const (
	SaltLength  = 32 // 256 bits
	TokenLength = 32 // 256 bits
)

// GenerateSalt produces a hex-encoded 256-bit salt from the system CSPRNG.
func GenerateSalt() (string, error) {
	bytes := make([]byte, SaltLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashPassword returns the hex SHA-256 digest of password || salt.
//
// The scheme is a single unstretched hash for compatibility with the data
// files written by existing installations. It is weaker than a KDF such as
// bcrypt or argon2; the login throttle is the compensating control.
func HashPassword(password, salt string) string {
	h := sha256.New()
	h.Write([]byte(password))
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPassword recomputes the digest and compares it in constant time.
func VerifyPassword(password, salt, digest string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// GenerateToken produces a hex-encoded 256-bit session token. Tokens come
// from the same CSPRNG as salts but are never interchangeable with them.
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
