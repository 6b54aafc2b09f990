package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes a password or PIN with bcrypt.
func HashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckSecret reports whether secret matches the bcrypt hash. A mismatch is
// (false, nil); a corrupt hash is an error.
func CheckSecret(hash, secret string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
