package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashSecret creates a bcrypt hash from a one-time secret. Confirmation
// codes are never stored in clear, only their hashes.
func HashSecret(secret string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifySecret checks the provided secret against the stored bcrypt hash.
func VerifySecret(hashedSecret, providedSecret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(providedSecret))
}

// dummyHash is compared against when no stored hash exists, so unknown
// usernames take the same time as wrong codes.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e"

// DummyCompare burns a bcrypt comparison to keep timing uniform.
func DummyCompare(providedSecret string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(providedSecret))
}
