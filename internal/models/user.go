package models

import (
	"strings"
	"unicode/utf8"
)

// User is the identity returned by the ticketing API on login or registration.
// Field names follow the API's JSON contract (nom = last name, prenom = first name).
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Role      string `json:"role,omitempty"`
}

// Valid reports whether the user carries a usable identifier
func (u *User) Valid() bool {
	return u != nil && u.ID > 0
}

// FullName returns "Prénom Nom"
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Initials returns the first letter of the first and last names, used for the profile avatar.
func (u *User) Initials() string {
	var b strings.Builder
	for _, part := range []string{u.FirstName, u.LastName} {
		if r, _ := utf8.DecodeRuneInString(part); r != utf8.RuneError {
			b.WriteString(strings.ToUpper(string(r)))
		}
	}
	return b.String()
}

// RegisterRequest carries the registration form fields
type RegisterRequest struct {
	Email     string
	LastName  string
	FirstName string
	Password  string
}

// Validate checks the registration form before it is sent
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(r.LastName) == "" || strings.TrimSpace(r.FirstName) == "" {
		return ErrNameRequired
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// AuthResult is a successful login: the identity plus an optional bearer token.
type AuthResult struct {
	User  User
	Token string
}
