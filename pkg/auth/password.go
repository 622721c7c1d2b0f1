// Package auth implements salted password hashing for account credentials.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"unicode"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 16
	keyLength  = 32
	iterations = 210_000

	// MinPasswordLength is the shortest password accepted at account creation.
	MinPasswordLength = 8
)

// NewSalt returns a fresh random salt for a new account.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// Hash derives the stored digest for a password and salt.
func Hash(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
}

// Verify reports whether password matches the stored salt and digest.
// The comparison is constant time.
func Verify(password string, salt, digest []byte) bool {
	candidate := Hash(password, salt)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

// CheckStrength validates a new password: at least MinPasswordLength
// characters, containing at least one letter and one digit.
func CheckStrength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain both letters and digits")
	}
	return nil
}
