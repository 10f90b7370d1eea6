package models

import (
	"strings"
	"unicode/utf8"
)

// User represents a room member.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Avatar is a short display initial (e.g., "R").
	// Defaults to the upper-cased first letter of Name.
	Avatar string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}

// NewUser creates a user with the avatar derived from the name.
// The ID and CreatedAt are assigned by the store.
func NewUser(name string) *User {
	return &User{
		Name:   name,
		Avatar: DefaultAvatar(name),
	}
}

// DefaultAvatar returns the upper-cased first letter of name.
func DefaultAvatar(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}
