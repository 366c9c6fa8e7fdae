package hash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = 12
	MinLength   = 8
)

var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinLength)

func Hash(password string) (string, error) {
	return HashWithCost(password, DefaultCost)
}

// HashWithCost lets the stub backend trade hashing strength for start-up
// speed; costs outside bcrypt's range fall back to DefaultCost.
func HashWithCost(password string, cost int) (string, error) {
	if len(password) < MinLength {
		return "", ErrPasswordTooShort
	}

	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

func Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("password mismatch: %w", err)
	}
	return err
}
