package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrDuplicate is returned by the directory when the email or username is already taken.
var ErrDuplicate = errors.New("user already exists")

// User is the identity record. Absent identifiers are stored as "".
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" && strings.TrimSpace(u.Email) == "" {
		return errors.New("username or email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
