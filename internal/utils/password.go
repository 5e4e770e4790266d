package utils

import "golang.org/x/crypto/bcrypt"

// Account passwords are hashed with bcrypt at the default cost.
// Raising the cost only affects new sign-ups and password resets;
// existing hashes keep verifying at the cost they were created with.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword hashes a sign-up or reset password for storage.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	return string(b), err
}

// CheckPassword compares a stored hash against a login attempt.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
