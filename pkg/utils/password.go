package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Confirmation codes are the only credential a user holds before the token
// exchange, so they are stored hashed like a password would be.

func HashConfirmationCode(code string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash confirmation code: %w", err)
	}
	return string(hashed), nil
}

// CheckConfirmationCode reports whether the plaintext code matches the
// stored hash. Constant-time under the hood.
func CheckConfirmationCode(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
