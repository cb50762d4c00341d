// Package security holds credential helpers for linked user accounts.
package security

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost defines the bcrypt work factor.
const bcryptCost = 12

// minPasswordLength is the shortest password accepted at enrollment.
const minPasswordLength = 8

// ErrPasswordTooShort is returned when a password fails the length check.
var ErrPasswordTooShort = errors.New("security: password must be at least 8 characters")

// HashPassword validates and hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, errHash := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errHash != nil {
		return "", errHash
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
