package auth

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any login failure. Unknown email and
// wrong password surface identically to avoid account enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

var ErrWeakPassword = errors.New("password must be at least 8 characters and contain uppercase, lowercase, and number")

// HashPassword hashes a plaintext password using bcrypt with DefaultCost.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword compares a bcrypt hash with a candidate plaintext password.
func CheckPassword(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}

// ValidatePassword enforces the signup password rule: length >= 8 with at
// least one lowercase letter, one uppercase letter, and one digit.
func ValidatePassword(pw string) error {
	if len(pw) < 8 {
		return ErrWeakPassword
	}
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return ErrWeakPassword
	}
	return nil
}
