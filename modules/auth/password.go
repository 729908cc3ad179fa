package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hashing time against brute-force resistance; 12 keeps
// login under ~300ms on commodity hardware.
const bcryptCost = 12

// hashPassword generates a bcrypt hash of the given password.
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// checkPassword reports whether the password matches the stored hash.
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
