// Package validation performs structural checks on inbound payloads before
// any authorization or storage work, returning per-field messages.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"taskflow/internal/apperr"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration payload and normalizes the email.
func (in *RegisterInput) Validate() error {
	v := &apperr.ValidationError{}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if utf8.RuneCountInString(in.Name) < 2 {
		v.Add("name", "name must be at least 2 characters")
	}
	if !emailRe.MatchString(in.Email) {
		v.Add("email", "invalid email address")
	}
	checkPasswordComplexity(v, in.Password)
	return v.OrNil()
}

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	v := &apperr.ValidationError{}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" {
		v.Add("email", "email is required")
	}
	if in.Password == "" {
		v.Add("password", "password is required")
	}
	return v.OrNil()
}

// checkPasswordComplexity enforces: at least 8 characters, one uppercase,
// one lowercase, one digit.
func checkPasswordComplexity(v *apperr.ValidationError, password string) {
	if utf8.RuneCountInString(password) < 8 {
		v.Add("password", "password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		v.Add("password", "password must contain at least one uppercase letter")
	}
	if !hasLower {
		v.Add("password", "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		v.Add("password", "password must contain at least one number")
	}
}
