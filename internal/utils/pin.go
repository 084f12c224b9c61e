package utils

import "golang.org/x/crypto/bcrypt"

// HashPIN hashes the given staff PIN using bcrypt.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPIN compares a plaintext PIN against its stored bcrypt hash.
func CheckPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
