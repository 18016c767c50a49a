package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the fixed work factor for password digests.
const bcryptCost = 10

// HashPassword derives a salted bcrypt digest from the plaintext.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether the plaintext matches the stored digest.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
