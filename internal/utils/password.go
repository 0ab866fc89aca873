package utils

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost matches the salt rounds existing accounts were created with.
const DefaultHashCost = bcrypt.DefaultCost

// HashPassword salts and hashes a password using bcrypt at the given cost.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
