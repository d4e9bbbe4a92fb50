package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only considers the first 72 bytes of the input; longer
// passwords are truncated before hashing and verification so both
// sides agree.
const maxPasswordBytes = 72

// ErrEmptyPassword is returned when an empty password is supplied.
var ErrEmptyPassword = errors.New("password must not be empty")

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword generates a bcrypt hash of the password. The hash embeds
// the algorithm and cost factor, so verification needs no extra metadata.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashedBytes, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent.
// Returns true if the password and hash match, false otherwise.
func CheckPassword(password, hashedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), truncatePassword(password))
	return err == nil
}
