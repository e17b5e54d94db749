package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength follows the NIST minimum for user-chosen secrets.
const MinPasswordLength = 12

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
)

func HashPassword(password string, cost int) (string, error) {
	switch {
	case len(password) < MinPasswordLength:
		return "", ErrPasswordTooShort
	case len(password) > maxPasswordBytes:
		return "", ErrPasswordTooLong
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword returns ErrInvalidPassword on mismatch, including for users
// created without a password.
func CheckPassword(password, hash string) error {
	if hash == "" {
		return ErrInvalidPassword
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}
	return err
}

// GenerateAPIToken returns a random token and the SHA-256 hash to store.
func GenerateAPIToken() (plaintext string, hash string, err error) {
	plaintext, err = randomHex(32)
	if err != nil {
		return "", "", err
	}
	return plaintext, HashToken(plaintext), nil
}

func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// GenerateSessionSecret creates a random 32-byte key for CSRF tokens.
func GenerateSessionSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
