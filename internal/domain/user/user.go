// Package user defines the user domain model.
package user

import (
	"errors"
	"net/mail"
	"unicode/utf8"
)

const (
	maxEmailLen    = 255
	maxNameLen     = 255
	minPasswordLen = 8
	maxPasswordLen = 40
)

// User represents a registered account.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	IsActive     bool   `json:"is_active"`
	IsSuperuser  bool   `json:"is_superuser"`
	PasswordHash string `json:"-"` // never serialized
}

// CreateRequest is the input for registering a new user.
type CreateRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
	FullName    string `json:"full_name,omitempty"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if n := utf8.RuneCountInString(r.Password); n < minPasswordLen || n > maxPasswordLen {
		return errors.New("password must be between 8 and 40 characters")
	}
	if utf8.RuneCountInString(r.FullName) > maxNameLen {
		return errors.New("full name must be at most 255 characters")
	}
	return nil
}

// UpdateRequest is the input for updating an existing user. Nil fields are left unchanged.
type UpdateRequest struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Validate checks the fields that are set.
func (r *UpdateRequest) Validate() error {
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.FullName != nil && utf8.RuneCountInString(*r.FullName) > maxNameLen {
		return errors.New("full name must be at most 255 characters")
	}
	return nil
}

// Apply copies the set fields onto u.
func (r *UpdateRequest) Apply(u *User) {
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.FullName != nil {
		u.FullName = *r.FullName
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > maxEmailLen {
		return errors.New("email must be at most 255 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("invalid email format")
	}
	return nil
}
