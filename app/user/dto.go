package user

import (
	"strings"
	"time"

	"github.com/joefazee/globeguide/internal/sanitizer"
	"github.com/joefazee/globeguide/internal/validator"
	"github.com/joefazee/globeguide/models"
)

const (
	minPasswordLength = 8
	maxDisplayName    = 150
)

// RegisterUserRequest represents the request to create a user.
type RegisterUserRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// Validate normalizes the request in place and records every problem in v.
func (r *RegisterUserRequest) Validate(v *validator.Validator, s sanitizer.HTMLStripperer) bool {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if s != nil {
		r.DisplayName = s.StripHTML(r.DisplayName)
	}
	r.DisplayName = strings.TrimSpace(r.DisplayName)

	v.Check(validator.NotBlank(r.Email), "email", "must be provided")
	v.Check(validator.IsEmail(r.Email), "email", "must be a valid email address")
	v.Check(validator.NotBlank(r.Password), "password", "must be provided")
	v.Check(validator.MinRunes(r.Password, minPasswordLength), "password", "must be at least 8 characters long")
	v.Check(validator.MaxRunes(r.DisplayName, maxDisplayName), "display_name", "must not be more than 150 characters long")

	return v.Valid()
}

// LoginRequest represents the request to log in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Normalize lower-cases and trims the email.
func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        models.Identity `json:"user"`
}
